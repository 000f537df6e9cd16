// Command uaputl configures a Marvell micro-AP interface.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"sort"
	"time"

	"github.com/pkg/errors"
	"github.com/tomiamao/uap"
	"github.com/tomiamao/uap/transport"
	"k8s.io/klog/v2"
)

var argIface = flag.String("i", "uap0", "uAP interface to configure")
var argTransport = flag.String("transport", "ioctl", "driver transport, ioctl or vendor")
var argTimeout = flag.Duration("timeout", 5*time.Second, "bound on each host command, zero for none")

func usage() {
	w := flag.CommandLine.Output()
	fmt.Fprintf(w, "Usage: %s [flags] <command> [args...]\n\nCommands:\n", os.Args[0])

	names := make([]string, 0, len(commands))
	for name := range commands {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		fmt.Fprintf(w, "  %-26s %s\n", name+" "+commands[name].args, commands[name].help)
	}

	fmt.Fprintf(w, "\nFlags:\n")
	flag.PrintDefaults()
}

func main() {
	klog.InitFlags(nil)
	flag.Usage = usage
	flag.Parse()

	code := run(&env{out: os.Stdout, dial: dial}, flag.Args())
	klog.Flush()
	os.Exit(code)
}

// run executes one command and returns the process exit code.
func run(e *env, args []string) int {
	if len(args) == 0 {
		flag.Usage()
		return 2
	}
	defer e.close()

	if err := e.run(context.Background(), args); err != nil {
		klog.Errorf("%s: %v", args[0], err)
		if errors.Is(err, errUsage) {
			return 2
		}
		return 1
	}
	return 0
}

func dial() (*uap.Client, error) {
	var (
		t   transport.Transport
		err error
	)
	switch *argTransport {
	case "ioctl":
		t, err = transport.DialIoctl(*argIface)
	case "vendor":
		t, err = transport.DialVendor(*argIface)
	default:
		return nil, errors.Wrapf(errUsage, "unknown transport %q", *argTransport)
	}
	if err != nil {
		return nil, err
	}

	return uap.New(transport.WithTimeout(t, *argTimeout)), nil
}
