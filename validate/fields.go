package validate

import (
	"crypto/sha1"
	"encoding/hex"
	"net"

	"golang.org/x/crypto/pbkdf2"
)

// Field limits.
const (
	MaxSSIDLen = 32

	MinBeaconPeriod = 50
	MaxBeaconPeriod = 4000
	MinDTIMPeriod   = 1
	MaxDTIMPeriod   = 255
	MaxTxPower      = 20
	MaxRTSThreshold = 2347

	MinFragThreshold = 256
	MaxFragThreshold = 2346

	MaxStaCount   = 10
	MaxRetryLimit = 14

	// Ageout timers are in units of 100 ms.
	MinStaAgeoutTimer = 300
	MaxStaAgeoutTimer = 864000

	MaxGroupRekeyTime = 86400

	MinPassphraseLen = 8
	MaxPassphraseLen = 63
	PSKHexLen        = 64

	MaxWEPKeys = 4

	MaxMACFilter = 16
)

// CheckRange verifies min <= v <= max.
func CheckRange(field string, v, min, max int64) error {
	if v < min || v > max {
		return fail(ErrOutOfRange, field, "%d not in %d..%d", v, min, max)
	}
	return nil
}

// CheckBool verifies that v is 0 or 1.
func CheckBool(field string, v int64) error {
	return CheckRange(field, v, 0, 1)
}

// CheckSSID verifies the length of an SSID.
func CheckSSID(ssid string) error {
	if len(ssid) == 0 || len(ssid) > MaxSSIDLen {
		return fail(ErrOutOfRange, "SSID", "length %d, want 1..%d", len(ssid), MaxSSIDLen)
	}
	return nil
}

// CheckPassphrase accepts an ASCII passphrase of 8 to 63 characters or a
// 64 digit hex PSK.
func CheckPassphrase(p string) error {
	switch {
	case len(p) == PSKHexLen:
		if _, err := hex.DecodeString(p); err != nil {
			return fail(ErrInvalidKey, "PSK", "64 character PSK must be hex")
		}
	case len(p) < MinPassphraseLen || len(p) > MaxPassphraseLen:
		return fail(ErrInvalidKey, "PSK", "length %d, want %d..%d or %d hex digits",
			len(p), MinPassphraseLen, MaxPassphraseLen, PSKHexLen)
	}

	for i := 0; i < len(p); i++ {
		if p[i] < 0x20 || p[i] > 0x7e {
			return fail(ErrInvalidKey, "PSK", "non-printable character at %d", i)
		}
	}

	return nil
}

// DerivePMK computes the pairwise master key for a passphrase. A 64 digit
// hex passphrase is already a PMK and is decoded as is.
func DerivePMK(ssid, passphrase string) ([]byte, error) {
	if err := CheckPassphrase(passphrase); err != nil {
		return nil, err
	}
	if len(passphrase) == PSKHexLen {
		return hex.DecodeString(passphrase)
	}

	return pbkdf2.Key([]byte(passphrase), []byte(ssid), 4096, 32, sha1.New), nil
}

// ParseWEPKey decodes a WEP key. ASCII keys are 5 or 13 characters; hex
// keys are 10 or 26 digits.
func ParseWEPKey(s string, ascii bool) ([]byte, error) {
	if ascii {
		if len(s) != 5 && len(s) != 13 {
			return nil, fail(ErrInvalidKey, "WEP", "ASCII key length %d, want 5 or 13", len(s))
		}
		return []byte(s), nil
	}

	if len(s) != 10 && len(s) != 26 {
		return nil, fail(ErrInvalidKey, "WEP", "hex key length %d, want 10 or 26", len(s))
	}
	b, err := hex.DecodeString(s)
	if err != nil {
		return nil, fail(ErrInvalidKey, "WEP", "key is not hex")
	}

	return b, nil
}

// ParseMAC parses a unicast MAC address.
func ParseMAC(s string) (net.HardwareAddr, error) {
	mac, err := net.ParseMAC(s)
	if err != nil || len(mac) != 6 {
		return nil, fail(ErrInvalidMAC, "MAC", "%q", s)
	}
	if mac[0]&0x01 != 0 {
		return nil, fail(ErrInvalidMAC, "MAC", "%s is broadcast or multicast", mac)
	}
	if isZero(mac) {
		return nil, fail(ErrInvalidMAC, "MAC", "%s is all zeros", mac)
	}

	return mac, nil
}

// HasDupMAC reports whether a MAC address appears twice.
func HasDupMAC(macs []net.HardwareAddr) bool {
	for i := range macs {
		for j := i + 1; j < len(macs); j++ {
			if macs[i].String() == macs[j].String() {
				return true
			}
		}
	}

	return false
}

// CheckCount verifies that a declared count matches the entries supplied.
func CheckCount(field string, declared, actual int) error {
	if declared != actual {
		return fail(ErrCountMismatch, field, "declared %d, found %d", declared, actual)
	}
	return nil
}

func isZero(b []byte) bool {
	for _, v := range b {
		if v != 0 {
			return false
		}
	}
	return true
}
