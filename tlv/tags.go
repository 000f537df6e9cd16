package tlv

import "fmt"

// A Tag identifies the field carried by a TLV.
type Tag uint16

// proprietaryBase is the first vendor specific tag.
const proprietaryBase Tag = 0x0100

// Known tags. The low values follow the 802.11 element IDs of the same
// field; everything at or above proprietaryBase is vendor defined.
const (
	TagSSID             Tag = 0x0000
	TagRates            Tag = 0x0001
	TagPhyParamDSSet    Tag = 0x0003
	TagDomain           Tag = 0x0007
	TagHTCapability     Tag = 0x002d
	TagHTInfo           Tag = 0x003d
	TagVendorSpecificIE Tag = 0x00dd

	TagScanChannels     = proprietaryBase + 0x01
	TagAuth             = proprietaryBase + 0x1f
	TagChannelConfig    = proprietaryBase + 0x2a
	TagAPMACAddress     = proprietaryBase + 0x2b
	TagBeaconPeriod     = proprietaryBase + 0x2c
	TagDTIMPeriod       = proprietaryBase + 0x2d
	TagTxPower          = proprietaryBase + 0x2f
	TagBcastSSIDCtl     = proprietaryBase + 0x30
	TagPreambleCtl      = proprietaryBase + 0x31
	TagAntennaCtl       = proprietaryBase + 0x32
	TagRTSThreshold     = proprietaryBase + 0x33
	TagRadioCtl         = proprietaryBase + 0x34
	TagPktFwdCtl        = proprietaryBase + 0x36
	TagStaInfo          = proprietaryBase + 0x37
	TagStaMACAddrFilter = proprietaryBase + 0x38
	TagStaAgeoutTimer   = proprietaryBase + 0x39
	TagWEPKey           = proprietaryBase + 0x3b
	TagWPAPassphrase    = proprietaryBase + 0x3c
	TagProtocol         = proprietaryBase + 0x40
	TagAKMP             = proprietaryBase + 0x41
	TagCipher           = proprietaryBase + 0x42
	TagGroupRekeyTime   = proprietaryBase + 0x44
	TagFragThreshold    = proprietaryBase + 0x46
	TagMCBCDataRate     = proprietaryBase + 0x4a
	TagTxDataRate       = proprietaryBase + 0x4b
	TagRSNReplayProt    = proprietaryBase + 0x4c
	TagMaxStaCount      = proprietaryBase + 0x55
	TagRetryLimit       = proprietaryBase + 0x5d
	TagMgmtFrame        = proprietaryBase + 0x68
	TagMgmtIEList       = proprietaryBase + 0x69
	TagEapolPwkHskTmo   = proprietaryBase + 0x75
	TagEapolPwkHskRetry = proprietaryBase + 0x76
	TagEapolGwkHskTmo   = proprietaryBase + 0x77
	TagEapolGwkHskRetry = proprietaryBase + 0x78
	TagPSStaAgeoutTimer = proprietaryBase + 0x7b
	TagCipherPairwise   = proprietaryBase + 0x91
	TagCipherGroup      = proprietaryBase + 0x92
	TagBSSStatus        = proprietaryBase + 0x93
	TagStickyTIMConfig  = proprietaryBase + 0x96
	TagStickyTIMStaMAC  = proprietaryBase + 0x97
	Tag2040BSSCoexCtl   = proprietaryBase + 0x98
	TagAMPDUParam       = proprietaryBase + 0x99

	// TagOIDDot11D is the SNMP MIB object enabling 802.11d. SNMP MIB commands
	// use the object ID as the tag.
	TagOIDDot11D Tag = 0x0009
)

var tagNames = map[Tag]string{
	TagSSID:             "ssid",
	TagRates:            "rates",
	TagPhyParamDSSet:    "phy_param_ds_set",
	TagDomain:           "domain",
	TagHTCapability:     "ht_capability",
	TagHTInfo:           "ht_info",
	TagVendorSpecificIE: "vendor_specific_ie",
	TagScanChannels:     "scan_channels",
	TagAuth:             "auth",
	TagChannelConfig:    "channel_config",
	TagAPMACAddress:     "ap_mac_address",
	TagBeaconPeriod:     "beacon_period",
	TagDTIMPeriod:       "dtim_period",
	TagTxPower:          "tx_power",
	TagBcastSSIDCtl:     "bcast_ssid_ctl",
	TagPreambleCtl:      "preamble_ctl",
	TagAntennaCtl:       "antenna_ctl",
	TagRTSThreshold:     "rts_threshold",
	TagRadioCtl:         "radio_ctl",
	TagPktFwdCtl:        "pkt_fwd_ctl",
	TagStaInfo:          "sta_info",
	TagStaMACAddrFilter: "sta_mac_addr_filter",
	TagStaAgeoutTimer:   "sta_ageout_timer",
	TagWEPKey:           "wep_key",
	TagWPAPassphrase:    "wpa_passphrase",
	TagProtocol:         "protocol",
	TagAKMP:             "akmp",
	TagCipher:           "cipher",
	TagGroupRekeyTime:   "group_rekey_time",
	TagFragThreshold:    "frag_threshold",
	TagMCBCDataRate:     "mcbc_data_rate",
	TagTxDataRate:       "tx_data_rate",
	TagRSNReplayProt:    "rsn_replay_prot",
	TagMaxStaCount:      "max_sta_count",
	TagRetryLimit:       "retry_limit",
	TagMgmtFrame:        "mgmt_frame",
	TagMgmtIEList:       "mgmt_ie_list",
	TagEapolPwkHskTmo:   "eapol_pwk_hsk_timeout",
	TagEapolPwkHskRetry: "eapol_pwk_hsk_retries",
	TagEapolGwkHskTmo:   "eapol_gwk_hsk_timeout",
	TagEapolGwkHskRetry: "eapol_gwk_hsk_retries",
	TagPSStaAgeoutTimer: "ps_sta_ageout_timer",
	TagCipherPairwise:   "cipher_pairwise",
	TagCipherGroup:      "cipher_group",
	TagBSSStatus:        "bss_status",
	TagStickyTIMConfig:  "sticky_tim_config",
	TagStickyTIMStaMAC:  "sticky_tim_sta_mac",
	Tag2040BSSCoexCtl:   "2040_bss_coex",
	TagAMPDUParam:       "ampdu_param",
	TagOIDDot11D:        "oid_dot11d",
}

// String returns the string representation of a Tag.
func (t Tag) String() string {
	if s, ok := tagNames[t]; ok {
		return s
	}

	return fmt.Sprintf("unknown(0x%04x)", uint16(t))
}
