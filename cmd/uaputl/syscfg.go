package main

import (
	"context"
	"fmt"
	"io"
	"strconv"

	"github.com/tomiamao/uap"
	"github.com/tomiamao/uap/bss"
	"github.com/tomiamao/uap/tlv"
	"github.com/tomiamao/uap/validate"
)

// A sysCfgField is one sys_cfg_<name> command: a GET of tags printed by
// show, or a SET built by set.
type sysCfgField struct {
	name string
	args string
	help string
	tags []tlv.Tag

	// nargs is the number of arguments a SET takes; zero means one or more.
	nargs int
	set   func(ctx context.Context, c *uap.Client, b *bss.Builder, args []string) error
	show  func(w io.Writer, cfg *bss.Config)
}

var sysCfgFields = []sysCfgField{
	{
		name: "ssid", args: "ssid", help: "the SSID", nargs: 1,
		tags: []tlv.Tag{tlv.TagSSID},
		set: func(_ context.Context, _ *uap.Client, b *bss.Builder, args []string) error {
			return b.SetSSID(args[0])
		},
		show: func(w io.Writer, cfg *bss.Config) { fmt.Fprintf(w, "SSID = %s\n", cfg.SSID) },
	},
	{
		name: "channel", args: "channel [mode]", help: "the radio channel",
		tags: []tlv.Tag{tlv.TagChannelConfig},
		set: func(_ context.Context, _ *uap.Client, b *bss.Builder, args []string) error {
			v, err := uints(args, 0xff)
			if err != nil {
				return err
			}
			switch len(v) {
			case 1:
				return b.SetChannel(int(v[0]), 0)
			case 2:
				return b.SetChannel(int(v[0]), uint8(v[1]))
			}
			return usageErr("want channel [mode]")
		},
		show: func(w io.Writer, cfg *bss.Config) { printChannel(w, cfg) },
	},
	{
		name: "rates", args: "rate...", help: "the operational rate set",
		tags: []tlv.Tag{tlv.TagRates},
		set: func(_ context.Context, _ *uap.Client, b *bss.Builder, args []string) error {
			v, err := uints(args, 0xff)
			if err != nil {
				return err
			}
			rates := make([]uint8, len(v))
			for i := range v {
				rates[i] = uint8(v[i])
			}
			return b.SetRates(rates)
		},
		show: func(w io.Writer, cfg *bss.Config) { printRates(w, cfg.Rates) },
	},
	intField("beacon_period", "the beacon period in ms", tlv.TagBeaconPeriod, (*bss.Builder).SetBeaconPeriod,
		func(cfg *bss.Config) interface{} { return cfg.BeaconPeriod }),
	intField("dtim_period", "the DTIM period in beacons", tlv.TagDTIMPeriod, (*bss.Builder).SetDTIMPeriod,
		func(cfg *bss.Config) interface{} { return cfg.DTIMPeriod }),
	intField("max_sta_num", "the station limit", tlv.TagMaxStaCount, (*bss.Builder).SetMaxStaCount,
		func(cfg *bss.Config) interface{} { return cfg.MaxStaCount }),
	{
		name: "protocol", args: "protocol", help: "the security protocol", nargs: 1,
		tags: []tlv.Tag{tlv.TagProtocol},
		set: func(_ context.Context, _ *uap.Client, b *bss.Builder, args []string) error {
			v, err := uints(args, 0xffff)
			if err != nil {
				return err
			}
			return b.SetProtocol(int64(v[0]))
		},
		show: func(w io.Writer, cfg *bss.Config) { printProtocol(w, cfg.Protocol) },
	},
	{
		name: "cipher", args: "pairwise group", help: "the pairwise and group ciphers", nargs: 2,
		tags: []tlv.Tag{tlv.TagProtocol, tlv.TagCipherPairwise, tlv.TagCipherGroup},
		set:  setCipher,
		show: func(w io.Writer, cfg *bss.Config) { printCiphers(w, cfg) },
	},
	{
		name: "wpa_passphrase", args: "passphrase", help: "the WPA passphrase", nargs: 1,
		tags: []tlv.Tag{tlv.TagWPAPassphrase},
		set: func(_ context.Context, _ *uap.Client, b *bss.Builder, args []string) error {
			return b.SetPassphrase(args[0])
		},
		show: func(w io.Writer, cfg *bss.Config) { fmt.Fprintf(w, "WPA passphrase = %s\n", cfg.Passphrase) },
	},
	intField("group_rekey_timer", "the group key rekey interval in seconds", tlv.TagGroupRekeyTime, (*bss.Builder).SetGroupRekeyTime,
		func(cfg *bss.Config) interface{} { return cfg.GroupRekeyTime }),
	intField("rts_threshold", "the RTS threshold", tlv.TagRTSThreshold, (*bss.Builder).SetRTSThreshold,
		func(cfg *bss.Config) interface{} { return cfg.RTSThreshold }),
	intField("frag_threshold", "the fragmentation threshold", tlv.TagFragThreshold, (*bss.Builder).SetFragThreshold,
		func(cfg *bss.Config) interface{} { return cfg.FragThreshold }),
	intField("radio_ctl", "the radio on/off state", tlv.TagRadioCtl, (*bss.Builder).SetRadioCtl,
		func(cfg *bss.Config) interface{} { return cfg.RadioCtl }),
	intField("tx_power", "the transmit power in dBm", tlv.TagTxPower, (*bss.Builder).SetTxPower,
		func(cfg *bss.Config) interface{} { return cfg.TxPower }),
	intField("bcast_ssid_ctl", "SSID broadcast", tlv.TagBcastSSIDCtl, (*bss.Builder).SetBcastSSIDCtl,
		func(cfg *bss.Config) interface{} { return cfg.BcastSSIDCtl }),
	intField("preamble_ctl", "the preamble type", tlv.TagPreambleCtl, (*bss.Builder).SetPreamble,
		func(cfg *bss.Config) interface{} { return cfg.Preamble }),
}

func intField(name, help string, tag tlv.Tag, set func(*bss.Builder, int64) error, get func(*bss.Config) interface{}) sysCfgField {
	return sysCfgField{
		name: name, args: "value", help: help, nargs: 1,
		tags: []tlv.Tag{tag},
		set: func(_ context.Context, _ *uap.Client, b *bss.Builder, args []string) error {
			v, err := strconv.ParseInt(args[0], 0, 64)
			if err != nil {
				return usageErr("%q is not a number", args[0])
			}
			return set(b, v)
		},
		show: func(w io.Writer, cfg *bss.Config) { fmt.Fprintf(w, "%s = %v\n", name, get(cfg)) },
	}
}

func sysCfg(ctx context.Context, e *env, f sysCfgField, args []string) error {
	if len(args) > 0 && f.nargs != 0 && len(args) != f.nargs {
		return usageErr("want %s", f.args)
	}
	c, err := e.client()
	if err != nil {
		return err
	}

	if len(args) == 0 {
		tlvs, err := c.GetTLVs(ctx, f.tags...)
		if err != nil {
			return err
		}
		cfg, err := bss.DecodeTLVs(tlvs)
		if err != nil {
			return err
		}
		f.show(e.out, cfg)
		return nil
	}

	b := bss.NewBuilder()
	if err := f.set(ctx, c, b, args); err != nil {
		return err
	}
	cfg, err := b.Build()
	if err != nil {
		return err
	}
	return c.SetSysConfig(ctx, cfg)
}

// setCipher checks the pair against the protocol currently configured and
// sets the pairwise cipher for each WPA version it enables.
func setCipher(ctx context.Context, c *uap.Client, b *bss.Builder, args []string) error {
	v, err := uints(args, 0xff)
	if err != nil {
		return err
	}
	pairwise, group := uint8(v[0]), uint8(v[1])

	tlvs, err := c.GetTLVs(ctx, tlv.TagProtocol, tlv.TagHTCapability)
	if err != nil {
		return err
	}
	cur, err := bss.DecodeTLVs(tlvs)
	if err != nil {
		return err
	}
	if err := validate.CheckCipher(pairwise, group, cur.Protocol, cur.Enable11n); err != nil {
		return err
	}

	wpa := cur.Protocol&validate.ProtocolWPA != 0
	wpa2 := cur.Protocol&validate.ProtocolWPA2 != 0
	if wpa || !wpa2 {
		if err := b.SetPwkCipherWPA(int64(pairwise)); err != nil {
			return err
		}
	}
	if wpa2 || !wpa {
		if err := b.SetPwkCipherWPA2(int64(pairwise)); err != nil {
			return err
		}
	}
	return b.SetGwkCipher(int64(group))
}

func uints(args []string, limit uint64) ([]uint64, error) {
	out := make([]uint64, len(args))
	for i, a := range args {
		v, err := strconv.ParseUint(a, 0, 64)
		if err != nil || v > limit {
			return nil, usageErr("%q is not a number in 0..%d", a, limit)
		}
		out[i] = v
	}
	return out, nil
}
