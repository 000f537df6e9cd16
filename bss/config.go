// Package bss models the configuration of a uAP basic service set and its
// TLV representation.
package bss

import (
	"net"

	"github.com/tomiamao/uap/tlv"
)

// Band configuration bits carried in the channel TLV.
const (
	bandConfig5GHz      = 0x01
	bandSecondaryAbove  = 0x10
	bandSecondaryBelow  = 0x30
	bandSecondaryMask   = 0x30
	bandConfigACS       = 0x40
	htCapTLVLen         = 26
	htMCSSetOffset      = 3
	antennaRx           = 0
	antennaTx           = 1
	wepKeyHeaderLen     = 2
	pairwiseCipherLen   = 4
	groupCipherLen      = 2
	stickyTIMConfigLen  = 6
	channelConfigTLVLen = 2
)

// Preamble types.
const (
	PreambleAuto  uint8 = 0
	PreambleShort uint8 = 1
	PreambleLong  uint8 = 2
)

// A WEPKey is one of the four static WEP keys.
type WEPKey struct {
	Index     uint8
	IsDefault bool
	Key       []byte
}

// HTCapability holds the 802.11n capability fields.
type HTCapability struct {
	Info       uint16
	AMPDUParam uint8
	MCSSet     [16]byte
	ExtCap     uint16
	TxBFCap    uint32
	ASel       uint8
}

// StickyTIM configures sticky TIM bits for power-saving stations.
type StickyTIM struct {
	Enable   uint16
	Duration uint16
	Bitmask  uint16
}

// A Config is the complete set of configurable AP attributes. Only the
// fields reported by Has are meaningful; the rest hold zero values.
//
// A Config is built either with a Builder or by decoding the TLVs of a
// sys_configure GET response.
type Config struct {
	SSID         string
	BcastSSIDCtl uint8
	APMAC        net.HardwareAddr

	BeaconPeriod uint16
	DTIMPeriod   uint8

	Channel      int
	ChannelMode  uint8
	ScanChannels []int

	Rates        []uint8
	TxDataRate   uint16
	MCBCDataRate uint16
	TxPower      uint8
	Preamble     uint8
	TxAntenna    uint8
	RxAntenna    uint8
	RadioCtl     uint8

	RTSThreshold  uint16
	FragThreshold uint16
	RetryLimit    uint8

	PktFwdCtl        uint8
	StaAgeoutTimer   uint32
	PSStaAgeoutTimer uint32
	MaxStaCount      uint16

	AuthMode       uint8
	Protocol       uint16
	KeyMgmt        uint16
	PwkCipherWPA   uint8
	PwkCipherWPA2  uint8
	GwkCipher      uint8
	Passphrase     string
	GroupRekeyTime uint32
	WEPKeys        []WEPKey
	RSNReplayProt  uint8

	Enable11n bool
	HTCap     HTCapability
	BSSCoex   uint8

	StickyTIM StickyTIM

	EapolPwkHskTimeout uint32
	EapolPwkHskRetries uint32
	EapolGwkHskTimeout uint32
	EapolGwkHskRetries uint32

	Filter *MACFilter

	// Unknown holds TLVs in a GET response that this package does not model.
	Unknown []tlv.TLV

	present map[field]bool
}

// A field names a configurable attribute. Some TLVs carry several fields
// and some fields span several TLVs, so presence is tracked per field.
type field int

const (
	fSSID field = iota
	fBcastSSIDCtl
	fAPMAC
	fBeaconPeriod
	fDTIMPeriod
	fChannel
	fScanChannels
	fRates
	fTxDataRate
	fMCBCDataRate
	fTxPower
	fPreamble
	fTxAntenna
	fRxAntenna
	fRadioCtl
	fRTSThreshold
	fFragThreshold
	fRetryLimit
	fPktFwdCtl
	fStaAgeoutTimer
	fPSStaAgeoutTimer
	fMaxStaCount
	fAuthMode
	fProtocol
	fKeyMgmt
	fPwkCipherWPA
	fPwkCipherWPA2
	fGwkCipher
	fPassphrase
	fGroupRekeyTime
	fWEPKeys
	fRSNReplayProt
	fHTCap
	fBSSCoex
	fStickyTIM
	fEapolPwkHskTimeout
	fEapolPwkHskRetries
	fEapolGwkHskTimeout
	fEapolGwkHskRetries
	fFilter
)

func (c *Config) mark(f field) {
	if c.present == nil {
		c.present = make(map[field]bool)
	}
	c.present[f] = true
}

func (c *Config) has(f field) bool { return c.present[f] }

// clone returns a copy of c that shares no memory with it.
func (c *Config) clone() *Config {
	n := *c
	n.APMAC = append(net.HardwareAddr(nil), c.APMAC...)
	n.ScanChannels = append([]int(nil), c.ScanChannels...)
	n.Rates = append([]uint8(nil), c.Rates...)
	n.WEPKeys = nil
	for _, k := range c.WEPKeys {
		k.Key = append([]byte(nil), k.Key...)
		n.WEPKeys = append(n.WEPKeys, k)
	}
	if c.Filter != nil {
		n.Filter = &MACFilter{Mode: c.Filter.Mode}
		for _, mac := range c.Filter.Entries {
			n.Filter.Entries = append(n.Filter.Entries, append(net.HardwareAddr(nil), mac...))
		}
	}
	n.Unknown = nil
	for _, t := range c.Unknown {
		n.Unknown = append(n.Unknown, tlv.TLV{Tag: t.Tag, Data: append([]byte(nil), t.Data...)})
	}
	n.present = make(map[field]bool, len(c.present))
	for f, ok := range c.present {
		n.present[f] = ok
	}
	return &n
}

// Empty reports whether no field has been set.
func (c *Config) Empty() bool { return len(c.present) == 0 }

// HasSSID reports whether the SSID is set.
func (c *Config) HasSSID() bool { return c.has(fSSID) }

// HasChannel reports whether the channel is set.
func (c *Config) HasChannel() bool { return c.has(fChannel) }

// HasRates reports whether the rate set is set.
func (c *Config) HasRates() bool { return c.has(fRates) }

// HasProtocol reports whether the security protocol is set.
func (c *Config) HasProtocol() bool { return c.has(fProtocol) }

// HasFilter reports whether a MAC filter is set.
func (c *Config) HasFilter() bool { return c.has(fFilter) }
