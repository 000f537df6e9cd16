package main

import (
	"context"
	"encoding/hex"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/pkg/errors"
	"github.com/tomiamao/uap"
	"github.com/tomiamao/uap/bss"
	"github.com/tomiamao/uap/config"
	"github.com/tomiamao/uap/customie"
	"github.com/tomiamao/uap/validate"
)

var errUsage = errors.New("usage")

// env is the state shared by every command.
type env struct {
	out  io.Writer
	dial func() (*uap.Client, error)

	c *uap.Client
}

// client dials on first use so commands that never touch the device work
// without one.
func (e *env) client() (*uap.Client, error) {
	if e.c != nil {
		return e.c, nil
	}
	c, err := e.dial()
	if err != nil {
		return nil, err
	}
	e.c = c
	return c, nil
}

func (e *env) close() {
	if e.c != nil {
		_ = e.c.Close()
	}
}

type command struct {
	args string
	help string
	run  func(ctx context.Context, e *env, args []string) error
}

var commands = map[string]command{
	"sys_config":       {"[file]", "show the AP configuration, or apply a configuration file", sysConfig},
	"bss_config":       {"[file]", "same as sys_config", sysConfig},
	"bss_start":        {"", "start the BSS", simple((*uap.Client).BSSStart)},
	"bss_stop":         {"", "stop the BSS", simple((*uap.Client).BSSStop)},
	"sys_reset":        {"", "restore firmware defaults", simple((*uap.Client).SysReset)},
	"sys_info":         {"", "show firmware information", sysInfo},
	"sta_list":         {"", "list associated stations", staList},
	"sta_deauth":       {"<mac> [reason]", "disconnect a station", staDeauth},
	"sta_filter_table": {"[mode [mac...]]", "show or replace the MAC filter (mode 0 off, 1 allow, 2 block)", staFilterTable},
	"cfg_80211d":       {"state <0|1> | country <cc> <domain_file>", "configure 802.11d", cfg80211d},
	"custom_ie":        {"[index mask [ie_hex]]", "show, set or clear custom IEs", customIE},
	"pmk":              {"<ssid> <passphrase>", "derive the WPA PMK", pmk},
}

func init() {
	for _, f := range sysCfgFields {
		f := f
		commands["sys_cfg_"+f.name] = command{
			args: "[" + f.args + "]",
			help: "show or set " + f.help,
			run: func(ctx context.Context, e *env, args []string) error {
				return sysCfg(ctx, e, f, args)
			},
		}
	}
}

func (e *env) run(ctx context.Context, args []string) error {
	cmd, ok := commands[args[0]]
	if !ok {
		return errors.Wrapf(errUsage, "unknown command %q", args[0])
	}
	return cmd.run(ctx, e, args[1:])
}

func usageErr(format string, args ...interface{}) error {
	return errors.Wrapf(errUsage, format, args...)
}

func simple(f func(*uap.Client, context.Context) error) func(context.Context, *env, []string) error {
	return func(ctx context.Context, e *env, args []string) error {
		if len(args) != 0 {
			return usageErr("takes no arguments")
		}
		c, err := e.client()
		if err != nil {
			return err
		}
		return f(c, ctx)
	}
}

func sysConfig(ctx context.Context, e *env, args []string) error {
	if len(args) > 1 {
		return usageErr("want at most one configuration file")
	}
	c, err := e.client()
	if err != nil {
		return err
	}

	if len(args) == 1 {
		cfg, err := config.ParseFile(args[0])
		if err != nil {
			return err
		}
		return c.SetSysConfig(ctx, cfg)
	}

	cfg, err := c.SysConfig(ctx)
	if err != nil {
		return err
	}
	printConfig(e.out, cfg)
	return nil
}

func sysInfo(ctx context.Context, e *env, args []string) error {
	if len(args) != 0 {
		return usageErr("takes no arguments")
	}
	c, err := e.client()
	if err != nil {
		return err
	}

	info, err := c.SysInfo(ctx)
	if err != nil {
		return err
	}
	fmt.Fprintf(e.out, "System information = %s\n", info)
	return nil
}

func staList(ctx context.Context, e *env, args []string) error {
	if len(args) != 0 {
		return usageErr("takes no arguments")
	}
	c, err := e.client()
	if err != nil {
		return err
	}

	stations, err := c.StationList(ctx)
	if err != nil {
		return err
	}
	fmt.Fprintf(e.out, "Number of STA = %d\n", len(stations))
	for i, s := range stations {
		ps := "active"
		if s.PowerSave {
			ps = "power save"
		}
		fmt.Fprintf(e.out, "STA %d: %s rssi %d dBm, %s\n", i+1, s.HardwareAddr, s.Signal, ps)
	}
	return nil
}

func staDeauth(ctx context.Context, e *env, args []string) error {
	if len(args) < 1 || len(args) > 2 {
		return usageErr("want <mac> [reason]")
	}
	mac, err := validate.ParseMAC(args[0])
	if err != nil {
		return err
	}
	reason := bss.ReasonLeaving
	if len(args) == 2 {
		v, err := strconv.ParseUint(args[1], 0, 16)
		if err != nil {
			return usageErr("reason %q: %v", args[1], err)
		}
		reason = uint16(v)
	}

	c, err := e.client()
	if err != nil {
		return err
	}
	return c.Deauth(ctx, mac, reason)
}

func staFilterTable(ctx context.Context, e *env, args []string) error {
	if len(args) == 0 {
		c, err := e.client()
		if err != nil {
			return err
		}
		f, err := c.MACFilter(ctx)
		if err != nil {
			return err
		}
		printFilter(e.out, f)
		return nil
	}

	mode, err := strconv.ParseUint(args[0], 0, 8)
	if err != nil {
		return usageErr("mode %q: %v", args[0], err)
	}
	f := &bss.MACFilter{Mode: bss.FilterMode(mode)}
	for _, s := range args[1:] {
		mac, err := validate.ParseMAC(s)
		if err != nil {
			return err
		}
		f.Entries = append(f.Entries, mac)
	}

	c, err := e.client()
	if err != nil {
		return err
	}
	return c.SetMACFilter(ctx, f)
}

func cfg80211d(ctx context.Context, e *env, args []string) error {
	if len(args) < 2 {
		return usageErr("want state <0|1> or country <cc> <domain_file>")
	}

	switch args[0] {
	case "state":
		if len(args) != 2 || (args[1] != "0" && args[1] != "1") {
			return usageErr("state must be 0 or 1")
		}
		c, err := e.client()
		if err != nil {
			return err
		}
		return c.Set80211D(ctx, args[1] == "1")
	case "country":
		if len(args) != 3 {
			return usageErr("want country <cc> <domain_file>")
		}
		d, err := config.ParseDomainFile(args[2], args[1])
		if err != nil {
			return err
		}
		c, err := e.client()
		if err != nil {
			return err
		}
		return c.SetDomain(ctx, d)
	}

	return usageErr("unknown cfg_80211d option %q", args[0])
}

func customIE(ctx context.Context, e *env, args []string) error {
	switch len(args) {
	case 0:
		c, err := e.client()
		if err != nil {
			return err
		}
		entries, err := c.CustomIE(ctx)
		if err != nil {
			return err
		}
		printCustomIE(e.out, entries)
		return nil
	case 2, 3:
	default:
		return usageErr("want [index mask [ie_hex]]")
	}

	index, err := strconv.ParseUint(args[0], 0, 16)
	if err != nil {
		return usageErr("index %q: %v", args[0], err)
	}
	mask, err := strconv.ParseUint(args[1], 0, 16)
	if err != nil {
		return usageErr("mask %q: %v", args[1], err)
	}

	entry := customie.Entry{Index: uint16(index), Mask: customie.Mask(mask)}
	if len(args) == 3 {
		b, err := hex.DecodeString(strings.TrimPrefix(args[2], "0x"))
		if err != nil {
			return usageErr("ie_hex: %v", err)
		}
		if entry.IEs, err = customie.DecodeIEs(b); err != nil {
			return err
		}
	}

	if err := entry.Validate(); err != nil {
		return err
	}

	c, err := e.client()
	if err != nil {
		return err
	}
	return c.SetCustomIE(ctx, []customie.Entry{entry})
}

func pmk(_ context.Context, e *env, args []string) error {
	if len(args) != 2 {
		return usageErr("want <ssid> <passphrase>")
	}
	if err := validate.CheckSSID(args[0]); err != nil {
		return err
	}

	key, err := validate.DerivePMK(args[0], args[1])
	if err != nil {
		return err
	}
	fmt.Fprintf(e.out, "PMK = %s\n", hex.EncodeToString(key))
	return nil
}
