package config

import (
	"strings"

	"github.com/pkg/errors"
	"github.com/tomiamao/uap/bss"
	"github.com/tomiamao/uap/validate"
)

// intSetters maps single integer keys to their Builder setter.
var intSetters = map[string]func(b *bss.Builder, v int64) error{
	"BeaconPeriod":        (*bss.Builder).SetBeaconPeriod,
	"DTIMPeriod":          (*bss.Builder).SetDTIMPeriod,
	"BroadcastSSID":       (*bss.Builder).SetBcastSSIDCtl,
	"TxPowerLevel":        (*bss.Builder).SetTxPower,
	"RTSThreshold":        (*bss.Builder).SetRTSThreshold,
	"FragThreshold":       (*bss.Builder).SetFragThreshold,
	"RadioControl":        (*bss.Builder).SetRadioCtl,
	"RSNReplayProtection": (*bss.Builder).SetRSNReplayProt,
	"TxAntenna":           (*bss.Builder).SetTxAntenna,
	"RxAntenna":           (*bss.Builder).SetRxAntenna,
	"PacketForwardCtrl":   (*bss.Builder).SetPktFwdCtl,
	"StaAgeoutTimer":      (*bss.Builder).SetStaAgeoutTimer,
	"PSStaAgeoutTimer":    (*bss.Builder).SetPSStaAgeoutTimer,
	"AuthMode":            (*bss.Builder).SetAuthMode,
	"Protocol":            (*bss.Builder).SetProtocol,
	"KeyMgmt":             (*bss.Builder).SetKeyMgmt,
	"PwkCipherWPA":        (*bss.Builder).SetPwkCipherWPA,
	"PwkCipherWPA2":       (*bss.Builder).SetPwkCipherWPA2,
	"GwkCipher":           (*bss.Builder).SetGwkCipher,
	"GroupRekeyTime":      (*bss.Builder).SetGroupRekeyTime,
	"MaxStaNum":           (*bss.Builder).SetMaxStaCount,
	"Retrylimit":          (*bss.Builder).SetRetryLimit,
	"Enable11n":           (*bss.Builder).SetEnable11n,
	"HTCapInfo":           (*bss.Builder).SetHTCapInfo,
	"AMPDU":               (*bss.Builder).SetAMPDUParam,
	"TxDataRate":          (*bss.Builder).SetTxDataRate,
	"MCBCdataRate":        (*bss.Builder).SetMCBCDataRate,
	"Preamble":            (*bss.Builder).SetPreamble,
	"EapolPwkHskTimeout":  (*bss.Builder).SetEapolPwkHskTimeout,
	"EapolPwkHskRetries":  (*bss.Builder).SetEapolPwkHskRetries,
	"EapolGwkHskTimeout":  (*bss.Builder).SetEapolGwkHskTimeout,
	"EapolGwkHskRetries":  (*bss.Builder).SetEapolGwkHskRetries,
	"2040Coex":            (*bss.Builder).SetBSSCoex,
}

func (p *parser) apKey(key string, args []token) error {
	if set, ok := intSetters[key]; ok {
		v, err := oneInt(args)
		if err != nil {
			return err
		}
		return set(p.b, v)
	}

	switch {
	case key == "SSID":
		if len(args) != 1 {
			return errors.Wrap(ErrSyntax, "quote SSIDs containing separators")
		}
		return p.b.SetSSID(args[0].s)
	case key == "AP_MAC":
		if len(args) != 1 {
			return errors.Wrap(ErrSyntax, "want one MAC address")
		}
		mac, err := validate.ParseMAC(args[0].s)
		if err != nil {
			return err
		}
		return p.b.SetAPMAC(mac)
	case key == "Channel":
		v, err := ints(args)
		if err != nil {
			return err
		}
		switch len(v) {
		case 1:
			return p.b.SetChannel(int(v[0]), 0)
		case 2:
			if v[1] < 0 || v[1] > 0xff {
				return &validate.Error{Kind: validate.ErrInvalidValue, Field: key, Detail: "mode out of range"}
			}
			return p.b.SetChannel(int(v[0]), uint8(v[1]))
		}
		return errors.Wrap(ErrSyntax, "want channel[,mode]")
	case key == "ChanList":
		v, err := ints(args)
		if err != nil {
			return err
		}
		chans := make([]int, len(v))
		for i := range v {
			chans[i] = int(v[i])
		}
		return p.b.SetScanChannels(chans)
	case key == "Rate":
		v, err := ints(args)
		if err != nil {
			return err
		}
		rates := make([]uint8, len(v))
		for i := range v {
			if v[i] < 0 || v[i] > 0xff {
				return &validate.Error{Kind: validate.ErrInvalidRate, Field: key, Detail: "rate out of range"}
			}
			rates[i] = uint8(v[i])
		}
		return p.b.SetRates(rates)
	case key == "PSK":
		if len(args) != 1 {
			return errors.Wrap(ErrSyntax, "quote passphrases containing separators")
		}
		return p.b.SetPassphrase(args[0].s)
	case key == "KeyIndex":
		v, err := oneInt(args)
		if err != nil {
			return err
		}
		if err := validate.CheckRange(key, v, 0, validate.MaxWEPKeys-1); err != nil {
			return err
		}
		p.keyIndex = int(v)
		return nil
	case strings.HasPrefix(key, "Key_"):
		idx, err := parseInt(strings.TrimPrefix(key, "Key_"))
		if err != nil {
			return ErrUnknownKey
		}
		if len(args) != 1 {
			return errors.Wrap(ErrSyntax, "want one key")
		}
		k, err := validate.ParseWEPKey(args[0].s, args[0].quoted)
		if err != nil {
			return err
		}
		return p.b.SetWEPKey(int(idx), k, int(idx) == p.keyIndex)
	case key == "StickyTimConfig":
		v, err := ints(args)
		if err != nil {
			return err
		}
		if len(v) != 3 {
			return errors.Wrap(ErrSyntax, "want enable,duration,bitmask")
		}
		return p.b.SetStickyTIM(v[0], v[1], v[2])
	}

	return ErrUnknownKey
}
