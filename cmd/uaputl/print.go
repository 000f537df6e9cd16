package main

import (
	"encoding/hex"
	"fmt"
	"io"
	"strings"

	"github.com/tomiamao/uap/bss"
	"github.com/tomiamao/uap/customie"
	"github.com/tomiamao/uap/validate"
)

func printConfig(w io.Writer, cfg *bss.Config) {
	fmt.Fprintf(w, "AP settings:\n")
	if cfg.HasSSID() {
		fmt.Fprintf(w, "SSID = %s\n", cfg.SSID)
	}
	if len(cfg.APMAC) != 0 {
		fmt.Fprintf(w, "AP MAC address = %s\n", cfg.APMAC)
	}
	fmt.Fprintf(w, "Beacon period = %d\n", cfg.BeaconPeriod)
	fmt.Fprintf(w, "DTIM period = %d\n", cfg.DTIMPeriod)
	if cfg.HasChannel() {
		printChannel(w, cfg)
	}
	if len(cfg.ScanChannels) != 0 {
		fmt.Fprintf(w, "Channels for ACS scan = %s\n", joinInts(cfg.ScanChannels))
	}
	if cfg.HasRates() {
		printRates(w, cfg.Rates)
	}
	fmt.Fprintf(w, "Tx data rate = 0x%x\n", cfg.TxDataRate)
	fmt.Fprintf(w, "MCBC data rate = 0x%x\n", cfg.MCBCDataRate)
	fmt.Fprintf(w, "Tx power = %d dBm\n", cfg.TxPower)
	fmt.Fprintf(w, "RTS threshold = %d\n", cfg.RTSThreshold)
	fmt.Fprintf(w, "Fragmentation threshold = %d\n", cfg.FragThreshold)
	fmt.Fprintf(w, "Max station number = %d\n", cfg.MaxStaCount)
	fmt.Fprintf(w, "STA ageout timer = %d\n", cfg.StaAgeoutTimer)
	fmt.Fprintf(w, "Radio = %s\n", onOff(cfg.RadioCtl))

	fmt.Fprintf(w, "\nSecurity settings:\n")
	if cfg.HasProtocol() {
		printProtocol(w, cfg.Protocol)
		printCiphers(w, cfg)
	}
	if cfg.Passphrase != "" {
		fmt.Fprintf(w, "WPA passphrase = %s\n", cfg.Passphrase)
	}
	for _, k := range cfg.WEPKeys {
		def := ""
		if k.IsDefault {
			def = " (default)"
		}
		fmt.Fprintf(w, "WEP key %d = %s%s\n", k.Index, hex.EncodeToString(k.Key), def)
	}
	if cfg.GroupRekeyTime != 0 {
		fmt.Fprintf(w, "Group rekey time = %d s\n", cfg.GroupRekeyTime)
	}

	if cfg.HasFilter() {
		fmt.Fprintf(w, "\n")
		printFilter(w, cfg.Filter)
	}
	for _, t := range cfg.Unknown {
		fmt.Fprintf(w, "Unrecognized %s = %s\n", t.Tag, hex.EncodeToString(t.Data))
	}
}

func printChannel(w io.Writer, cfg *bss.Config) {
	var mode []string
	if cfg.ChannelMode&validate.ModeACS != 0 {
		mode = append(mode, "ACS")
	}
	if cfg.ChannelMode&validate.ModeSecondaryAbove != 0 {
		mode = append(mode, "secondary above")
	}
	if cfg.ChannelMode&validate.ModeSecondaryBelow != 0 {
		mode = append(mode, "secondary below")
	}
	if len(mode) == 0 {
		mode = append(mode, "manual")
	}
	fmt.Fprintf(w, "Channel = %d (%s)\n", cfg.Channel, strings.Join(mode, ", "))
}

func printRates(w io.Writer, rates []uint8) {
	var basic, other []string
	for _, r := range rates {
		s := fmt.Sprintf("0x%02x", r)
		if r&validate.BasicRateFlag != 0 {
			basic = append(basic, s)
		} else {
			other = append(other, s)
		}
	}
	fmt.Fprintf(w, "Basic rates = %s\n", strings.Join(basic, " "))
	fmt.Fprintf(w, "Non-basic rates = %s\n", strings.Join(other, " "))
}

func printProtocol(w io.Writer, p uint16) {
	var s string
	switch p {
	case validate.ProtocolNoSecurity:
		s = "No security"
	case validate.ProtocolStaticWEP:
		s = "Static WEP"
	case validate.ProtocolWPA:
		s = "WPA"
	case validate.ProtocolWPA2:
		s = "WPA2"
	case validate.ProtocolWPA2Mixed:
		s = "WPA/WPA2 mixed"
	default:
		s = fmt.Sprintf("unknown (0x%x)", p)
	}
	fmt.Fprintf(w, "Protocol = %s\n", s)
}

func cipherName(c uint8) string {
	switch c {
	case validate.CipherNone:
		return "none"
	case validate.CipherTKIP:
		return "TKIP"
	case validate.CipherAESCCMP:
		return "AES CCMP"
	case validate.CipherBitmap:
		return "AES CCMP + TKIP"
	}
	return fmt.Sprintf("unknown (0x%02x)", c)
}

func printCiphers(w io.Writer, cfg *bss.Config) {
	if cfg.Protocol&validate.ProtocolWPA != 0 {
		fmt.Fprintf(w, "WPA pairwise cipher = %s\n", cipherName(cfg.PwkCipherWPA))
	}
	if cfg.Protocol&validate.ProtocolWPA2 != 0 {
		fmt.Fprintf(w, "WPA2 pairwise cipher = %s\n", cipherName(cfg.PwkCipherWPA2))
	}
	if cfg.Protocol&(validate.ProtocolWPA|validate.ProtocolWPA2) != 0 {
		fmt.Fprintf(w, "Group cipher = %s\n", cipherName(cfg.GwkCipher))
	}
}

func printFilter(w io.Writer, f *bss.MACFilter) {
	fmt.Fprintf(w, "Filter mode = %s\n", f.Mode)
	for i, mac := range f.Entries {
		fmt.Fprintf(w, "MAC %d = %s\n", i+1, mac)
	}
}

func printCustomIE(w io.Writer, entries []customie.Entry) {
	for _, e := range entries {
		fmt.Fprintf(w, "Index %d: %s\n", e.Index, e.Mask)
		for _, ie := range e.IEs {
			fmt.Fprintf(w, "  %s: %s%s\n", ie.ID, hex.EncodeToString(ie.OUI), hex.EncodeToString(ie.Info))
		}
	}
}

func onOff(v uint8) string {
	if v != 0 {
		return "on"
	}
	return "off"
}

func joinInts(v []int) string {
	s := make([]string, len(v))
	for i := range v {
		s[i] = fmt.Sprint(v[i])
	}
	return strings.Join(s, " ")
}
