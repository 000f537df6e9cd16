package bss

import (
	"encoding/binary"

	"github.com/tomiamao/uap/apcmd"
	"github.com/tomiamao/uap/tlv"
	"github.com/tomiamao/uap/validate"
)

// AppendTLVs appends one TLV per field set in c, in a fixed order.
func (c *Config) AppendTLVs(b *apcmd.Builder) error {
	for _, e := range c.encoders() {
		if !c.has(e.f) {
			continue
		}
		for _, t := range e.enc(c) {
			if err := b.AppendTLV(t.Tag, t.Data); err != nil {
				return err
			}
		}
	}

	return nil
}

// TLVs returns the TLVs AppendTLVs would append.
func (c *Config) TLVs() []tlv.TLV {
	var out []tlv.TLV
	for _, e := range c.encoders() {
		if c.has(e.f) {
			out = append(out, e.enc(c)...)
		}
	}
	return out
}

// QueryTags lists the TLVs a sys_configure GET requests to fill a Config.
func QueryTags() []tlv.Tag {
	seen := make(map[tlv.Tag]bool)
	var tags []tlv.Tag
	for _, t := range fullConfig().TLVs() {
		if !seen[t.Tag] {
			seen[t.Tag] = true
			tags = append(tags, t.Tag)
		}
	}
	return tags
}

// fullConfig has every field present, so encoders emit every tag once.
func fullConfig() *Config {
	c := &Config{Filter: &MACFilter{}, WEPKeys: []WEPKey{{}}}
	for f := fSSID; f <= fFilter; f++ {
		c.mark(f)
	}
	return c
}

type encoder struct {
	f   field
	enc func(c *Config) []tlv.TLV
}

func one(tag tlv.Tag, data []byte) []tlv.TLV {
	return []tlv.TLV{{Tag: tag, Data: data}}
}

func (c *Config) encoders() []encoder {
	return []encoder{
		{fSSID, func(c *Config) []tlv.TLV { return one(tlv.TagSSID, []byte(c.SSID)) }},
		{fBcastSSIDCtl, func(c *Config) []tlv.TLV { return one(tlv.TagBcastSSIDCtl, []byte{c.BcastSSIDCtl}) }},
		{fAPMAC, func(c *Config) []tlv.TLV { return one(tlv.TagAPMACAddress, []byte(c.APMAC)) }},
		{fBeaconPeriod, func(c *Config) []tlv.TLV { return one(tlv.TagBeaconPeriod, tlv.Uint16(c.BeaconPeriod)) }},
		{fDTIMPeriod, func(c *Config) []tlv.TLV { return one(tlv.TagDTIMPeriod, []byte{c.DTIMPeriod}) }},
		{fChannel, func(c *Config) []tlv.TLV {
			return one(tlv.TagChannelConfig, []byte{bandConfig(c.Channel, c.ChannelMode), uint8(c.Channel)})
		}},
		{fScanChannels, func(c *Config) []tlv.TLV {
			b := make([]byte, 0, 2*len(c.ScanChannels))
			for _, ch := range c.ScanChannels {
				b = append(b, bandConfig(ch, 0), uint8(ch))
			}
			return one(tlv.TagScanChannels, b)
		}},
		{fRates, func(c *Config) []tlv.TLV { return one(tlv.TagRates, append([]byte(nil), c.Rates...)) }},
		{fTxDataRate, func(c *Config) []tlv.TLV { return one(tlv.TagTxDataRate, tlv.Uint16(c.TxDataRate)) }},
		{fMCBCDataRate, func(c *Config) []tlv.TLV { return one(tlv.TagMCBCDataRate, tlv.Uint16(c.MCBCDataRate)) }},
		{fTxPower, func(c *Config) []tlv.TLV { return one(tlv.TagTxPower, []byte{c.TxPower}) }},
		{fPreamble, func(c *Config) []tlv.TLV { return one(tlv.TagPreambleCtl, []byte{c.Preamble}) }},
		{fRxAntenna, func(c *Config) []tlv.TLV { return one(tlv.TagAntennaCtl, []byte{antennaRx, c.RxAntenna}) }},
		{fTxAntenna, func(c *Config) []tlv.TLV { return one(tlv.TagAntennaCtl, []byte{antennaTx, c.TxAntenna}) }},
		{fRadioCtl, func(c *Config) []tlv.TLV { return one(tlv.TagRadioCtl, []byte{c.RadioCtl}) }},
		{fRTSThreshold, func(c *Config) []tlv.TLV { return one(tlv.TagRTSThreshold, tlv.Uint16(c.RTSThreshold)) }},
		{fFragThreshold, func(c *Config) []tlv.TLV { return one(tlv.TagFragThreshold, tlv.Uint16(c.FragThreshold)) }},
		{fRetryLimit, func(c *Config) []tlv.TLV { return one(tlv.TagRetryLimit, []byte{c.RetryLimit}) }},
		{fPktFwdCtl, func(c *Config) []tlv.TLV { return one(tlv.TagPktFwdCtl, []byte{c.PktFwdCtl}) }},
		{fStaAgeoutTimer, func(c *Config) []tlv.TLV { return one(tlv.TagStaAgeoutTimer, tlv.Uint32(c.StaAgeoutTimer)) }},
		{fPSStaAgeoutTimer, func(c *Config) []tlv.TLV { return one(tlv.TagPSStaAgeoutTimer, tlv.Uint32(c.PSStaAgeoutTimer)) }},
		{fMaxStaCount, func(c *Config) []tlv.TLV { return one(tlv.TagMaxStaCount, tlv.Uint16(c.MaxStaCount)) }},
		{fAuthMode, func(c *Config) []tlv.TLV { return one(tlv.TagAuth, []byte{c.AuthMode}) }},
		{fProtocol, func(c *Config) []tlv.TLV { return one(tlv.TagProtocol, tlv.Uint16(c.Protocol)) }},
		{fKeyMgmt, func(c *Config) []tlv.TLV { return one(tlv.TagAKMP, tlv.Uint16(c.KeyMgmt)) }},
		{fPwkCipherWPA, func(c *Config) []tlv.TLV {
			return one(tlv.TagCipherPairwise, pairwiseCipher(validate.ProtocolWPA, c.PwkCipherWPA))
		}},
		{fPwkCipherWPA2, func(c *Config) []tlv.TLV {
			return one(tlv.TagCipherPairwise, pairwiseCipher(validate.ProtocolWPA2, c.PwkCipherWPA2))
		}},
		{fGwkCipher, func(c *Config) []tlv.TLV { return one(tlv.TagCipherGroup, []byte{c.GwkCipher, 0}) }},
		{fPassphrase, func(c *Config) []tlv.TLV { return one(tlv.TagWPAPassphrase, []byte(c.Passphrase)) }},
		{fGroupRekeyTime, func(c *Config) []tlv.TLV { return one(tlv.TagGroupRekeyTime, tlv.Uint32(c.GroupRekeyTime)) }},
		{fWEPKeys, func(c *Config) []tlv.TLV {
			out := make([]tlv.TLV, 0, len(c.WEPKeys))
			for _, k := range c.WEPKeys {
				b := make([]byte, 0, wepKeyHeaderLen+len(k.Key))
				var def uint8
				if k.IsDefault {
					def = 1
				}
				b = append(b, k.Index, def)
				out = append(out, tlv.TLV{Tag: tlv.TagWEPKey, Data: append(b, k.Key...)})
			}
			return out
		}},
		{fRSNReplayProt, func(c *Config) []tlv.TLV { return one(tlv.TagRSNReplayProt, []byte{c.RSNReplayProt}) }},
		{fHTCap, func(c *Config) []tlv.TLV { return one(tlv.TagHTCapability, c.HTCap.marshal()) }},
		{fBSSCoex, func(c *Config) []tlv.TLV { return one(tlv.Tag2040BSSCoexCtl, []byte{c.BSSCoex}) }},
		{fStickyTIM, func(c *Config) []tlv.TLV {
			b := make([]byte, stickyTIMConfigLen)
			binary.LittleEndian.PutUint16(b[0:2], c.StickyTIM.Enable)
			binary.LittleEndian.PutUint16(b[2:4], c.StickyTIM.Duration)
			binary.LittleEndian.PutUint16(b[4:6], c.StickyTIM.Bitmask)
			return one(tlv.TagStickyTIMConfig, b)
		}},
		{fEapolPwkHskTimeout, func(c *Config) []tlv.TLV { return one(tlv.TagEapolPwkHskTmo, tlv.Uint32(c.EapolPwkHskTimeout)) }},
		{fEapolPwkHskRetries, func(c *Config) []tlv.TLV { return one(tlv.TagEapolPwkHskRetry, tlv.Uint32(c.EapolPwkHskRetries)) }},
		{fEapolGwkHskTimeout, func(c *Config) []tlv.TLV { return one(tlv.TagEapolGwkHskTmo, tlv.Uint32(c.EapolGwkHskTimeout)) }},
		{fEapolGwkHskRetries, func(c *Config) []tlv.TLV { return one(tlv.TagEapolGwkHskRetry, tlv.Uint32(c.EapolGwkHskRetries)) }},
		{fFilter, func(c *Config) []tlv.TLV { return one(tlv.TagStaMACAddrFilter, c.Filter.marshal()) }},
	}
}

// bandConfig computes the band configuration byte for a channel.
func bandConfig(ch int, mode uint8) uint8 {
	var b uint8
	if ch > validate.MaxChannelsBG {
		b |= bandConfig5GHz
	}
	switch {
	case mode&validate.ModeSecondaryAbove != 0:
		b |= bandSecondaryAbove
	case mode&validate.ModeSecondaryBelow != 0:
		b |= bandSecondaryBelow
	}
	if mode&validate.ModeACS != 0 {
		b |= bandConfigACS
	}
	return b
}

// channelMode is the inverse of bandConfig.
func channelMode(band uint8) uint8 {
	var mode uint8
	switch band & bandSecondaryMask {
	case bandSecondaryAbove:
		mode |= validate.ModeSecondaryAbove
	case bandSecondaryBelow:
		mode |= validate.ModeSecondaryBelow
	}
	if band&bandConfigACS != 0 {
		mode |= validate.ModeACS
	}
	return mode
}

func pairwiseCipher(protocol uint16, cipher uint8) []byte {
	b := make([]byte, pairwiseCipherLen)
	binary.LittleEndian.PutUint16(b[0:2], protocol)
	b[2] = cipher
	return b
}

func (h HTCapability) marshal() []byte {
	b := make([]byte, htCapTLVLen)
	binary.LittleEndian.PutUint16(b[0:2], h.Info)
	b[2] = h.AMPDUParam
	copy(b[htMCSSetOffset:htMCSSetOffset+16], h.MCSSet[:])
	binary.LittleEndian.PutUint16(b[19:21], h.ExtCap)
	binary.LittleEndian.PutUint32(b[21:25], h.TxBFCap)
	b[25] = h.ASel
	return b
}
