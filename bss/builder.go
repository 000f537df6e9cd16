package bss

import (
	"net"

	"github.com/pkg/errors"
	"github.com/tomiamao/uap/validate"
)

// A Builder populates a Config one field at a time. Each setter validates
// its own value; checks spanning several fields run in Build.
type Builder struct {
	c Config
}

// NewBuilder returns an empty Builder.
func NewBuilder() *Builder {
	return &Builder{}
}

// SetSSID sets the network name.
func (b *Builder) SetSSID(ssid string) error {
	if err := validate.CheckSSID(ssid); err != nil {
		return err
	}
	b.c.SSID = ssid
	b.c.mark(fSSID)
	return nil
}

// SetBcastSSIDCtl controls whether the SSID is broadcast in beacons.
func (b *Builder) SetBcastSSIDCtl(v int64) error {
	if err := validate.CheckBool("BroadcastSSID", v); err != nil {
		return err
	}
	b.c.BcastSSIDCtl = uint8(v)
	b.c.mark(fBcastSSIDCtl)
	return nil
}

// SetAPMAC sets the BSSID.
func (b *Builder) SetAPMAC(mac net.HardwareAddr) error {
	if _, err := validate.ParseMAC(mac.String()); err != nil {
		return err
	}
	b.c.APMAC = mac
	b.c.mark(fAPMAC)
	return nil
}

// SetBeaconPeriod sets the beacon interval in TUs.
func (b *Builder) SetBeaconPeriod(v int64) error {
	if err := validate.CheckRange("BeaconPeriod", v, validate.MinBeaconPeriod, validate.MaxBeaconPeriod); err != nil {
		return err
	}
	b.c.BeaconPeriod = uint16(v)
	b.c.mark(fBeaconPeriod)
	return nil
}

// SetDTIMPeriod sets the DTIM period in beacons.
func (b *Builder) SetDTIMPeriod(v int64) error {
	if err := validate.CheckRange("DTIMPeriod", v, validate.MinDTIMPeriod, validate.MaxDTIMPeriod); err != nil {
		return err
	}
	b.c.DTIMPeriod = uint8(v)
	b.c.mark(fDTIMPeriod)
	return nil
}

// SetChannel sets the primary channel and its mode bits.
func (b *Builder) SetChannel(ch int, mode uint8) error {
	if err := validate.CheckChannel(ch, mode); err != nil {
		return err
	}
	b.c.Channel = ch
	b.c.ChannelMode = mode
	b.c.mark(fChannel)
	return nil
}

// SetScanChannels sets the channels considered by automatic channel
// selection.
func (b *Builder) SetScanChannels(chans []int) error {
	if err := validate.CheckScanChannels(chans); err != nil {
		return err
	}
	b.c.ScanChannels = append([]int(nil), chans...)
	b.c.mark(fScanChannels)
	return nil
}

// SetRates sets the operational rate set.
func (b *Builder) SetRates(rates []uint8) error {
	if err := validate.CheckRates(rates); err != nil {
		return err
	}
	b.c.Rates = append([]uint8(nil), rates...)
	b.c.mark(fRates)
	return nil
}

// SetTxDataRate sets the unicast transmit rate, zero for automatic.
func (b *Builder) SetTxDataRate(v int64) error {
	if v != 0 && (v > 0xff || !validate.IsRateValid(uint8(v))) {
		return &validate.Error{Kind: validate.ErrInvalidRate, Field: "TxDataRate", Detail: "not a legal rate"}
	}
	b.c.TxDataRate = uint16(v)
	b.c.mark(fTxDataRate)
	return nil
}

// SetMCBCDataRate sets the multicast/broadcast rate, zero for automatic.
func (b *Builder) SetMCBCDataRate(v int64) error {
	if v != 0 && (v > 0xff || !validate.IsRateValid(uint8(v))) {
		return &validate.Error{Kind: validate.ErrInvalidRate, Field: "MCBCdataRate", Detail: "not a legal rate"}
	}
	b.c.MCBCDataRate = uint16(v)
	b.c.mark(fMCBCDataRate)
	return nil
}

// SetTxPower sets the transmit power in dBm.
func (b *Builder) SetTxPower(v int64) error {
	if err := validate.CheckRange("TxPowerLevel", v, 0, validate.MaxTxPower); err != nil {
		return err
	}
	b.c.TxPower = uint8(v)
	b.c.mark(fTxPower)
	return nil
}

// SetPreamble sets the preamble type.
func (b *Builder) SetPreamble(v int64) error {
	if err := validate.CheckRange("Preamble", v, int64(PreambleAuto), int64(PreambleLong)); err != nil {
		return err
	}
	b.c.Preamble = uint8(v)
	b.c.mark(fPreamble)
	return nil
}

// SetTxAntenna selects antenna A (0) or B (1) for transmit.
func (b *Builder) SetTxAntenna(v int64) error {
	if err := validate.CheckBool("TxAntenna", v); err != nil {
		return err
	}
	b.c.TxAntenna = uint8(v)
	b.c.mark(fTxAntenna)
	return nil
}

// SetRxAntenna selects antenna A (0) or B (1) for receive.
func (b *Builder) SetRxAntenna(v int64) error {
	if err := validate.CheckBool("RxAntenna", v); err != nil {
		return err
	}
	b.c.RxAntenna = uint8(v)
	b.c.mark(fRxAntenna)
	return nil
}

// SetRadioCtl turns the radio off (0) or on (1).
func (b *Builder) SetRadioCtl(v int64) error {
	if err := validate.CheckBool("RadioControl", v); err != nil {
		return err
	}
	b.c.RadioCtl = uint8(v)
	b.c.mark(fRadioCtl)
	return nil
}

// SetRTSThreshold sets the RTS threshold in bytes.
func (b *Builder) SetRTSThreshold(v int64) error {
	if err := validate.CheckRange("RTSThreshold", v, 0, validate.MaxRTSThreshold); err != nil {
		return err
	}
	b.c.RTSThreshold = uint16(v)
	b.c.mark(fRTSThreshold)
	return nil
}

// SetFragThreshold sets the fragmentation threshold in bytes.
func (b *Builder) SetFragThreshold(v int64) error {
	if err := validate.CheckRange("FragThreshold", v, validate.MinFragThreshold, validate.MaxFragThreshold); err != nil {
		return err
	}
	b.c.FragThreshold = uint16(v)
	b.c.mark(fFragThreshold)
	return nil
}

// SetRetryLimit sets the transmit retry limit.
func (b *Builder) SetRetryLimit(v int64) error {
	if err := validate.CheckRange("Retrylimit", v, 0, validate.MaxRetryLimit); err != nil {
		return err
	}
	b.c.RetryLimit = uint8(v)
	b.c.mark(fRetryLimit)
	return nil
}

// SetPktFwdCtl selects whether the firmware (0) or host (1) forwards
// intra-BSS packets.
func (b *Builder) SetPktFwdCtl(v int64) error {
	if err := validate.CheckBool("PacketForwardCtrl", v); err != nil {
		return err
	}
	b.c.PktFwdCtl = uint8(v)
	b.c.mark(fPktFwdCtl)
	return nil
}

// SetStaAgeoutTimer sets the station ageout timer in units of 100 ms.
// Zero disables ageout.
func (b *Builder) SetStaAgeoutTimer(v int64) error {
	if v != 0 {
		if err := validate.CheckRange("StaAgeoutTimer", v, validate.MinStaAgeoutTimer, validate.MaxStaAgeoutTimer); err != nil {
			return err
		}
	}
	b.c.StaAgeoutTimer = uint32(v)
	b.c.mark(fStaAgeoutTimer)
	return nil
}

// SetPSStaAgeoutTimer sets the ageout timer for power-saving stations.
func (b *Builder) SetPSStaAgeoutTimer(v int64) error {
	if v != 0 {
		if err := validate.CheckRange("PSStaAgeoutTimer", v, validate.MinStaAgeoutTimer, validate.MaxStaAgeoutTimer); err != nil {
			return err
		}
	}
	b.c.PSStaAgeoutTimer = uint32(v)
	b.c.mark(fPSStaAgeoutTimer)
	return nil
}

// SetMaxStaCount limits the number of associated stations.
func (b *Builder) SetMaxStaCount(v int64) error {
	if err := validate.CheckRange("MaxStaNum", v, 1, validate.MaxStaCount); err != nil {
		return err
	}
	b.c.MaxStaCount = uint16(v)
	b.c.mark(fMaxStaCount)
	return nil
}

// SetAuthMode sets open, shared key or automatic authentication.
func (b *Builder) SetAuthMode(v int64) error {
	if v >= 0 && v <= 0xff {
		switch uint8(v) {
		case validate.AuthOpen, validate.AuthShared, validate.AuthAuto:
			b.c.AuthMode = uint8(v)
			b.c.mark(fAuthMode)
			return nil
		}
	}
	return &validate.Error{Kind: validate.ErrInvalidValue, Field: "AuthMode", Detail: "want 0, 1 or 255"}
}

// SetProtocol sets the security protocol.
func (b *Builder) SetProtocol(v int64) error {
	if v < 0 || v > 0xffff || !validate.IsProtocolValid(uint16(v)) {
		return &validate.Error{Kind: validate.ErrInvalidValue, Field: "Protocol", Detail: "unknown protocol"}
	}
	b.c.Protocol = uint16(v)
	b.c.mark(fProtocol)
	return nil
}

// SetKeyMgmt sets the key management suite.
func (b *Builder) SetKeyMgmt(v int64) error {
	if v > 0 && v <= 0xffff {
		switch uint16(v) {
		case validate.KeyMgmtEAP, validate.KeyMgmtPSK, validate.KeyMgmtNone:
			b.c.KeyMgmt = uint16(v)
			b.c.mark(fKeyMgmt)
			return nil
		}
	}
	return &validate.Error{Kind: validate.ErrInvalidValue, Field: "KeyMgmt", Detail: "want 1, 2 or 4"}
}

func checkCipherValue(field string, v int64) error {
	if v >= 0 && v <= 0xff {
		switch uint8(v) {
		case validate.CipherNone, validate.CipherTKIP, validate.CipherAESCCMP, validate.CipherBitmap:
			return nil
		}
	}
	return &validate.Error{Kind: validate.ErrInvalidValue, Field: field, Detail: "unknown cipher"}
}

// SetPwkCipherWPA sets the pairwise cipher used with WPA.
func (b *Builder) SetPwkCipherWPA(v int64) error {
	if err := checkCipherValue("PwkCipherWPA", v); err != nil {
		return err
	}
	b.c.PwkCipherWPA = uint8(v)
	b.c.mark(fPwkCipherWPA)
	return nil
}

// SetPwkCipherWPA2 sets the pairwise cipher used with WPA2.
func (b *Builder) SetPwkCipherWPA2(v int64) error {
	if err := checkCipherValue("PwkCipherWPA2", v); err != nil {
		return err
	}
	b.c.PwkCipherWPA2 = uint8(v)
	b.c.mark(fPwkCipherWPA2)
	return nil
}

// SetGwkCipher sets the group cipher.
func (b *Builder) SetGwkCipher(v int64) error {
	if err := checkCipherValue("GwkCipher", v); err != nil {
		return err
	}
	if uint8(v) == validate.CipherBitmap {
		return &validate.Error{Kind: validate.ErrCipherMismatch, Field: "GwkCipher", Detail: "group cipher must be a single cipher"}
	}
	b.c.GwkCipher = uint8(v)
	b.c.mark(fGwkCipher)
	return nil
}

// SetPassphrase sets the WPA passphrase or hex PSK.
func (b *Builder) SetPassphrase(p string) error {
	if err := validate.CheckPassphrase(p); err != nil {
		return err
	}
	b.c.Passphrase = p
	b.c.mark(fPassphrase)
	return nil
}

// SetGroupRekeyTime sets the group key rekey interval in seconds.
func (b *Builder) SetGroupRekeyTime(v int64) error {
	if err := validate.CheckRange("GroupRekeyTime", v, 0, validate.MaxGroupRekeyTime); err != nil {
		return err
	}
	b.c.GroupRekeyTime = uint32(v)
	b.c.mark(fGroupRekeyTime)
	return nil
}

// SetWEPKey sets one static WEP key.
func (b *Builder) SetWEPKey(index int, key []byte, isDefault bool) error {
	if err := validate.CheckRange("KeyIndex", int64(index), 0, validate.MaxWEPKeys-1); err != nil {
		return err
	}
	for i := range b.c.WEPKeys {
		if int(b.c.WEPKeys[i].Index) == index {
			b.c.WEPKeys[i] = WEPKey{Index: uint8(index), IsDefault: isDefault, Key: key}
			b.c.mark(fWEPKeys)
			return nil
		}
	}
	b.c.WEPKeys = append(b.c.WEPKeys, WEPKey{Index: uint8(index), IsDefault: isDefault, Key: key})
	b.c.mark(fWEPKeys)
	return nil
}

// SetDefaultWEPKey marks one WEP key index as the transmit key.
func (b *Builder) SetDefaultWEPKey(index int) error {
	if err := validate.CheckRange("KeyIndex", int64(index), 0, validate.MaxWEPKeys-1); err != nil {
		return err
	}
	for i := range b.c.WEPKeys {
		b.c.WEPKeys[i].IsDefault = int(b.c.WEPKeys[i].Index) == index
	}
	return nil
}

// SetRSNReplayProt enables RSN replay protection.
func (b *Builder) SetRSNReplayProt(v int64) error {
	if err := validate.CheckBool("RSNReplayProtection", v); err != nil {
		return err
	}
	b.c.RSNReplayProt = uint8(v)
	b.c.mark(fRSNReplayProt)
	return nil
}

// SetEnable11n turns 802.11n on or off.
func (b *Builder) SetEnable11n(v int64) error {
	if err := validate.CheckBool("Enable11n", v); err != nil {
		return err
	}
	b.c.Enable11n = v == 1
	if b.c.Enable11n {
		b.c.HTCap.MCSSet[0] = 0xff
	} else {
		b.c.HTCap.MCSSet = [16]byte{}
	}
	b.c.mark(fHTCap)
	return nil
}

// SetHTCapInfo sets the HT capability info field.
func (b *Builder) SetHTCapInfo(v int64) error {
	if err := validate.CheckRange("HTCapInfo", v, 0, 0xffff); err != nil {
		return err
	}
	b.c.HTCap.Info = uint16(v)
	b.c.mark(fHTCap)
	return nil
}

// SetAMPDUParam sets the A-MPDU parameters field.
func (b *Builder) SetAMPDUParam(v int64) error {
	if err := validate.CheckRange("AMPDU", v, 0, 0xff); err != nil {
		return err
	}
	b.c.HTCap.AMPDUParam = uint8(v)
	b.c.mark(fHTCap)
	return nil
}

// SetBSSCoex enables 20/40 MHz BSS coexistence.
func (b *Builder) SetBSSCoex(v int64) error {
	if err := validate.CheckBool("2040Coex", v); err != nil {
		return err
	}
	b.c.BSSCoex = uint8(v)
	b.c.mark(fBSSCoex)
	return nil
}

// SetStickyTIM sets the sticky TIM configuration.
func (b *Builder) SetStickyTIM(enable, duration, bitmask int64) error {
	if err := validate.CheckBool("StickyTimConfig", enable); err != nil {
		return err
	}
	if err := validate.CheckRange("StickyTimConfig", duration, 0, 0xffff); err != nil {
		return err
	}
	if err := validate.CheckRange("StickyTimConfig", bitmask, 0, 0xffff); err != nil {
		return err
	}
	b.c.StickyTIM = StickyTIM{Enable: uint16(enable), Duration: uint16(duration), Bitmask: uint16(bitmask)}
	b.c.mark(fStickyTIM)
	return nil
}

// SetEapolPwkHskTimeout sets the pairwise handshake timeout in ms.
func (b *Builder) SetEapolPwkHskTimeout(v int64) error {
	if err := validate.CheckRange("EapolPwkHskTimeout", v, 0, 0xffffffff); err != nil {
		return err
	}
	b.c.EapolPwkHskTimeout = uint32(v)
	b.c.mark(fEapolPwkHskTimeout)
	return nil
}

// SetEapolPwkHskRetries sets the pairwise handshake retry count.
func (b *Builder) SetEapolPwkHskRetries(v int64) error {
	if err := validate.CheckRange("EapolPwkHskRetries", v, 0, 0xffffffff); err != nil {
		return err
	}
	b.c.EapolPwkHskRetries = uint32(v)
	b.c.mark(fEapolPwkHskRetries)
	return nil
}

// SetEapolGwkHskTimeout sets the group handshake timeout in ms.
func (b *Builder) SetEapolGwkHskTimeout(v int64) error {
	if err := validate.CheckRange("EapolGwkHskTimeout", v, 0, 0xffffffff); err != nil {
		return err
	}
	b.c.EapolGwkHskTimeout = uint32(v)
	b.c.mark(fEapolGwkHskTimeout)
	return nil
}

// SetEapolGwkHskRetries sets the group handshake retry count.
func (b *Builder) SetEapolGwkHskRetries(v int64) error {
	if err := validate.CheckRange("EapolGwkHskRetries", v, 0, 0xffffffff); err != nil {
		return err
	}
	b.c.EapolGwkHskRetries = uint32(v)
	b.c.mark(fEapolGwkHskRetries)
	return nil
}

// SetFilter sets the station MAC filter.
func (b *Builder) SetFilter(f *MACFilter) error {
	if err := f.Validate(); err != nil {
		return err
	}
	b.c.Filter = f
	b.c.mark(fFilter)
	return nil
}

// Build runs the cross-field checks and returns the Config.
func (b *Builder) Build() (*Config, error) {
	c := b.c.clone()
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

// Validate runs the checks that span several fields.
func (c *Config) Validate() error {
	if c.has(fRates) {
		if c.has(fTxDataRate) && !validate.RateInSet(uint8(c.TxDataRate), c.Rates) {
			return &validate.Error{Kind: validate.ErrInvalidRate, Field: "TxDataRate", Detail: "not in the configured rate set"}
		}
		if c.has(fMCBCDataRate) && !validate.RateInSet(uint8(c.MCBCDataRate), c.Rates) {
			return &validate.Error{Kind: validate.ErrInvalidRate, Field: "MCBCdataRate", Detail: "not in the configured rate set"}
		}
	}

	if c.has(fChannel) && c.ChannelMode&(validate.ModeSecondaryAbove|validate.ModeSecondaryBelow) != 0 &&
		c.has(fHTCap) && !c.Enable11n {
		return &validate.Error{Kind: validate.ErrInvalidChannel, Field: "Channel", Detail: "secondary channel requires 802.11n"}
	}

	if err := c.validateSecurity(); err != nil {
		return err
	}

	if c.has(fFilter) {
		if err := c.Filter.Validate(); err != nil {
			return err
		}
	}

	return nil
}

func (c *Config) validateSecurity() error {
	if !c.has(fProtocol) {
		return nil
	}

	switch c.Protocol {
	case validate.ProtocolStaticWEP:
		if len(c.WEPKeys) == 0 {
			return &validate.Error{Kind: validate.ErrInvalidKey, Field: "Key_0", Detail: "static WEP needs at least one key"}
		}
		defaults := 0
		for _, k := range c.WEPKeys {
			if k.IsDefault {
				defaults++
			}
		}
		if defaults != 1 {
			return &validate.Error{Kind: validate.ErrInvalidKey, Field: "KeyIndex", Detail: "exactly one WEP key must be the default"}
		}
		return nil
	case validate.ProtocolNoSecurity:
		return nil
	}

	if c.has(fKeyMgmt) && c.KeyMgmt == validate.KeyMgmtPSK && !c.has(fPassphrase) {
		return &validate.Error{Kind: validate.ErrInvalidKey, Field: "PSK", Detail: "PSK key management needs a passphrase"}
	}
	if !c.has(fGwkCipher) {
		return nil
	}

	if c.Protocol&validate.ProtocolWPA != 0 && c.has(fPwkCipherWPA) {
		if err := validate.CheckCipher(c.PwkCipherWPA, c.GwkCipher, c.Protocol, c.Enable11n); err != nil {
			return errors.Wrap(err, "WPA")
		}
	}
	if c.Protocol&validate.ProtocolWPA2 != 0 && c.has(fPwkCipherWPA2) {
		if err := validate.CheckCipher(c.PwkCipherWPA2, c.GwkCipher, c.Protocol, c.Enable11n); err != nil {
			return errors.Wrap(err, "WPA2")
		}
	}

	return nil
}
