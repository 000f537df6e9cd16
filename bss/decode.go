package bss

import (
	"encoding/binary"
	"net"

	"github.com/pkg/errors"
	"github.com/tomiamao/uap/tlv"
	"github.com/tomiamao/uap/validate"
)

// errInvalidTLV is returned when a known TLV has the wrong payload size.
var errInvalidTLV = errors.New("invalid tlv payload")

// Decode builds a Config from the TLVs of a sys_configure response. TLVs
// this package does not model are kept in Config.Unknown.
func Decode(it *tlv.Iterator) (*Config, error) {
	c := &Config{}
	for it.Next() {
		if err := c.decodeTLV(it.TLV()); err != nil {
			return nil, err
		}
	}
	if err := it.Err(); err != nil {
		return nil, err
	}

	return c, nil
}

// DecodeTLVs is Decode over an already parsed TLV list.
func DecodeTLVs(tlvs []tlv.TLV) (*Config, error) {
	c := &Config{}
	for _, t := range tlvs {
		if err := c.decodeTLV(t); err != nil {
			return nil, err
		}
	}

	return c, nil
}

func wantLen(t tlv.TLV, n int) error {
	if len(t.Data) != n {
		return errors.Wrapf(errInvalidTLV, "%s: %d bytes, want %d", t.Tag, len(t.Data), n)
	}
	return nil
}

func wantMinLen(t tlv.TLV, n int) error {
	if len(t.Data) < n {
		return errors.Wrapf(errInvalidTLV, "%s: %d bytes, want at least %d", t.Tag, len(t.Data), n)
	}
	return nil
}

func (c *Config) decodeTLV(t tlv.TLV) error {
	d := t.Data
	switch t.Tag {
	case tlv.TagSSID:
		if len(d) > validate.MaxSSIDLen {
			return errors.Wrapf(errInvalidTLV, "ssid: %d bytes", len(d))
		}
		c.SSID = string(d)
		c.mark(fSSID)
	case tlv.TagBcastSSIDCtl:
		if err := wantLen(t, 1); err != nil {
			return err
		}
		c.BcastSSIDCtl = d[0]
		c.mark(fBcastSSIDCtl)
	case tlv.TagAPMACAddress:
		if err := wantLen(t, 6); err != nil {
			return err
		}
		c.APMAC = net.HardwareAddr(append([]byte(nil), d...))
		c.mark(fAPMAC)
	case tlv.TagBeaconPeriod:
		if err := wantLen(t, 2); err != nil {
			return err
		}
		c.BeaconPeriod = binary.LittleEndian.Uint16(d)
		c.mark(fBeaconPeriod)
	case tlv.TagDTIMPeriod:
		if err := wantLen(t, 1); err != nil {
			return err
		}
		c.DTIMPeriod = d[0]
		c.mark(fDTIMPeriod)
	case tlv.TagChannelConfig:
		if err := wantLen(t, channelConfigTLVLen); err != nil {
			return err
		}
		c.ChannelMode = channelMode(d[0])
		c.Channel = int(d[1])
		c.mark(fChannel)
	case tlv.TagScanChannels:
		if len(d)%2 != 0 {
			return errors.Wrapf(errInvalidTLV, "scan channels: %d bytes", len(d))
		}
		c.ScanChannels = c.ScanChannels[:0]
		for i := 0; i < len(d); i += 2 {
			c.ScanChannels = append(c.ScanChannels, int(d[i+1]))
		}
		c.mark(fScanChannels)
	case tlv.TagRates:
		c.Rates = append([]uint8(nil), d...)
		c.mark(fRates)
	case tlv.TagTxDataRate:
		if err := wantLen(t, 2); err != nil {
			return err
		}
		c.TxDataRate = binary.LittleEndian.Uint16(d)
		c.mark(fTxDataRate)
	case tlv.TagMCBCDataRate:
		if err := wantLen(t, 2); err != nil {
			return err
		}
		c.MCBCDataRate = binary.LittleEndian.Uint16(d)
		c.mark(fMCBCDataRate)
	case tlv.TagTxPower:
		if err := wantLen(t, 1); err != nil {
			return err
		}
		c.TxPower = d[0]
		c.mark(fTxPower)
	case tlv.TagPreambleCtl:
		if err := wantLen(t, 1); err != nil {
			return err
		}
		c.Preamble = d[0]
		c.mark(fPreamble)
	case tlv.TagAntennaCtl:
		if err := wantLen(t, 2); err != nil {
			return err
		}
		if d[0] == antennaTx {
			c.TxAntenna = d[1]
			c.mark(fTxAntenna)
		} else {
			c.RxAntenna = d[1]
			c.mark(fRxAntenna)
		}
	case tlv.TagRadioCtl:
		if err := wantLen(t, 1); err != nil {
			return err
		}
		c.RadioCtl = d[0]
		c.mark(fRadioCtl)
	case tlv.TagRTSThreshold:
		if err := wantLen(t, 2); err != nil {
			return err
		}
		c.RTSThreshold = binary.LittleEndian.Uint16(d)
		c.mark(fRTSThreshold)
	case tlv.TagFragThreshold:
		if err := wantLen(t, 2); err != nil {
			return err
		}
		c.FragThreshold = binary.LittleEndian.Uint16(d)
		c.mark(fFragThreshold)
	case tlv.TagRetryLimit:
		if err := wantLen(t, 1); err != nil {
			return err
		}
		c.RetryLimit = d[0]
		c.mark(fRetryLimit)
	case tlv.TagPktFwdCtl:
		if err := wantLen(t, 1); err != nil {
			return err
		}
		c.PktFwdCtl = d[0]
		c.mark(fPktFwdCtl)
	case tlv.TagStaAgeoutTimer:
		if err := wantLen(t, 4); err != nil {
			return err
		}
		c.StaAgeoutTimer = binary.LittleEndian.Uint32(d)
		c.mark(fStaAgeoutTimer)
	case tlv.TagPSStaAgeoutTimer:
		if err := wantLen(t, 4); err != nil {
			return err
		}
		c.PSStaAgeoutTimer = binary.LittleEndian.Uint32(d)
		c.mark(fPSStaAgeoutTimer)
	case tlv.TagMaxStaCount:
		if err := wantLen(t, 2); err != nil {
			return err
		}
		c.MaxStaCount = binary.LittleEndian.Uint16(d)
		c.mark(fMaxStaCount)
	case tlv.TagAuth:
		if err := wantLen(t, 1); err != nil {
			return err
		}
		c.AuthMode = d[0]
		c.mark(fAuthMode)
	case tlv.TagProtocol:
		if err := wantLen(t, 2); err != nil {
			return err
		}
		c.Protocol = binary.LittleEndian.Uint16(d)
		c.mark(fProtocol)
	case tlv.TagAKMP:
		if err := wantMinLen(t, 2); err != nil {
			return err
		}
		c.KeyMgmt = binary.LittleEndian.Uint16(d)
		c.mark(fKeyMgmt)
	case tlv.TagCipherPairwise:
		if err := wantMinLen(t, 3); err != nil {
			return err
		}
		switch binary.LittleEndian.Uint16(d) {
		case validate.ProtocolWPA:
			c.PwkCipherWPA = d[2]
			c.mark(fPwkCipherWPA)
		case validate.ProtocolWPA2:
			c.PwkCipherWPA2 = d[2]
			c.mark(fPwkCipherWPA2)
		default:
			c.Unknown = append(c.Unknown, t)
		}
	case tlv.TagCipherGroup:
		if err := wantMinLen(t, 1); err != nil {
			return err
		}
		c.GwkCipher = d[0]
		c.mark(fGwkCipher)
	case tlv.TagCipher:
		// Older firmware reports one pairwise and one group cipher.
		if err := wantLen(t, 2); err != nil {
			return err
		}
		c.PwkCipherWPA, c.PwkCipherWPA2, c.GwkCipher = d[0], d[0], d[1]
		c.mark(fPwkCipherWPA)
		c.mark(fPwkCipherWPA2)
		c.mark(fGwkCipher)
	case tlv.TagWPAPassphrase:
		c.Passphrase = string(d)
		c.mark(fPassphrase)
	case tlv.TagGroupRekeyTime:
		if err := wantLen(t, 4); err != nil {
			return err
		}
		c.GroupRekeyTime = binary.LittleEndian.Uint32(d)
		c.mark(fGroupRekeyTime)
	case tlv.TagWEPKey:
		if err := wantMinLen(t, wepKeyHeaderLen); err != nil {
			return err
		}
		c.WEPKeys = append(c.WEPKeys, WEPKey{
			Index:     d[0],
			IsDefault: d[1] != 0,
			Key:       append([]byte(nil), d[wepKeyHeaderLen:]...),
		})
		c.mark(fWEPKeys)
	case tlv.TagRSNReplayProt:
		if err := wantLen(t, 1); err != nil {
			return err
		}
		c.RSNReplayProt = d[0]
		c.mark(fRSNReplayProt)
	case tlv.TagHTCapability:
		if err := wantLen(t, htCapTLVLen); err != nil {
			return err
		}
		c.HTCap = HTCapability{
			Info:       binary.LittleEndian.Uint16(d[0:2]),
			AMPDUParam: d[2],
			ExtCap:     binary.LittleEndian.Uint16(d[19:21]),
			TxBFCap:    binary.LittleEndian.Uint32(d[21:25]),
			ASel:       d[25],
		}
		copy(c.HTCap.MCSSet[:], d[htMCSSetOffset:htMCSSetOffset+16])
		c.Enable11n = c.HTCap.MCSSet[0] != 0
		c.mark(fHTCap)
	case tlv.Tag2040BSSCoexCtl:
		if err := wantLen(t, 1); err != nil {
			return err
		}
		c.BSSCoex = d[0]
		c.mark(fBSSCoex)
	case tlv.TagStickyTIMConfig:
		if err := wantLen(t, stickyTIMConfigLen); err != nil {
			return err
		}
		c.StickyTIM = StickyTIM{
			Enable:   binary.LittleEndian.Uint16(d[0:2]),
			Duration: binary.LittleEndian.Uint16(d[2:4]),
			Bitmask:  binary.LittleEndian.Uint16(d[4:6]),
		}
		c.mark(fStickyTIM)
	case tlv.TagEapolPwkHskTmo, tlv.TagEapolPwkHskRetry, tlv.TagEapolGwkHskTmo, tlv.TagEapolGwkHskRetry:
		if err := wantLen(t, 4); err != nil {
			return err
		}
		v := binary.LittleEndian.Uint32(d)
		switch t.Tag {
		case tlv.TagEapolPwkHskTmo:
			c.EapolPwkHskTimeout = v
			c.mark(fEapolPwkHskTimeout)
		case tlv.TagEapolPwkHskRetry:
			c.EapolPwkHskRetries = v
			c.mark(fEapolPwkHskRetries)
		case tlv.TagEapolGwkHskTmo:
			c.EapolGwkHskTimeout = v
			c.mark(fEapolGwkHskTimeout)
		case tlv.TagEapolGwkHskRetry:
			c.EapolGwkHskRetries = v
			c.mark(fEapolGwkHskRetries)
		}
	case tlv.TagStaMACAddrFilter:
		f, err := unmarshalMACFilter(d)
		if err != nil {
			return err
		}
		c.Filter = f
		c.mark(fFilter)
	default:
		c.Unknown = append(c.Unknown, t)
	}

	return nil
}
