// Command mlanevent prints the events a Marvell micro-AP driver broadcasts.
package main

import (
	"context"
	"encoding/hex"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/tomiamao/uap/event"
	"k8s.io/klog/v2"
)

var argIEs = flag.Bool("ies", false, "print the information elements of association requests")

func main() {
	klog.InitFlags(nil)
	defer klog.Flush()
	flag.Parse()

	l, err := event.Listen()
	if err != nil {
		klog.Fatalf("Failed to open event socket: %v", err)
	}
	defer l.Close()

	ctx, cancel := context.WithCancel(context.Background())
	installSignalHandler(cancel)

	for e := range l.Events(ctx) {
		printEvent(os.Stdout, e, *argIEs)
	}
}

func installSignalHandler(cancel context.CancelFunc) {
	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)

	go func() {
		sig := <-c
		klog.Infof("Exiting given signal: %v", sig)
		cancel()
	}()
}

func printEvent(w io.Writer, e event.Event, ies bool) {
	switch e := e.(type) {
	case *event.StaAssoc:
		kind := "association"
		if e.Reassoc {
			kind = "reassociation"
		}
		fmt.Fprintf(w, "EVENT: %s, STA %s (%s)\n", e.ID(), e.HardwareAddr, kind)
		if ssid, ok := e.SSID(); ok {
			fmt.Fprintf(w, "  SSID = %s\n", ssid)
		}
		if e.ListenInterval != 0 {
			fmt.Fprintf(w, "  Capability = 0x%04x, listen interval = %d\n", e.CapabilityInfo, e.ListenInterval)
		}
		if ies {
			for _, ie := range e.IEs {
				fmt.Fprintf(w, "  %s: %s%s\n", ie.ID, hex.EncodeToString(ie.OUI), hex.EncodeToString(ie.Info))
			}
		}
	case *event.StaDeauth:
		fmt.Fprintf(w, "EVENT: %s, STA %s, reason %d\n", e.ID(), e.HardwareAddr, e.Reason)
	case *event.BSSStart:
		fmt.Fprintf(w, "EVENT: %s, BSSID %s\n", e.ID(), e.HardwareAddr)
	case *event.Unknown:
		fmt.Fprintf(w, "EVENT: %s, %d bytes\n", e.ID(), len(e.Data))
	default:
		fmt.Fprintf(w, "EVENT: %s\n", e.ID())
	}
}
