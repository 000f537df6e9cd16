package validate

// Cipher values used for pairwise and group keys.
const (
	CipherNone    uint8 = 0x00
	CipherTKIP    uint8 = 0x04
	CipherAESCCMP uint8 = 0x08
	CipherBitmap        = CipherTKIP | CipherAESCCMP
)

// Protocol values.
const (
	ProtocolNoSecurity uint16 = 0x01
	ProtocolStaticWEP  uint16 = 0x02
	ProtocolWPA        uint16 = 0x08
	ProtocolWPA2       uint16 = 0x20
	ProtocolWPA2Mixed         = ProtocolWPA | ProtocolWPA2
)

// Key management values.
const (
	KeyMgmtEAP  uint16 = 0x01
	KeyMgmtPSK  uint16 = 0x02
	KeyMgmtNone uint16 = 0x04
)

// Authentication modes.
const (
	AuthOpen   uint8 = 0
	AuthShared uint8 = 1
	AuthAuto   uint8 = 255
)

// IsProtocolValid reports whether p is a known protocol.
func IsProtocolValid(p uint16) bool {
	switch p {
	case ProtocolNoSecurity, ProtocolStaticWEP, ProtocolWPA, ProtocolWPA2, ProtocolWPA2Mixed:
		return true
	}
	return false
}

// IsCipherValid reports whether the pairwise and group cipher pair is
// legal.
func IsCipherValid(pairwise, group uint8) bool {
	switch {
	case pairwise == CipherNone && group == CipherNone,
		pairwise == CipherTKIP && group == CipherTKIP,
		pairwise == CipherAESCCMP && group == CipherAESCCMP,
		pairwise == CipherAESCCMP && group == CipherTKIP,
		pairwise == CipherBitmap && group == CipherTKIP:
		return true
	}
	return false
}

// IsCipherValidWith11n is IsCipherValid with the 802.11n restriction that
// TKIP pairwise keys are only allowed in WPA/WPA2 mixed mode.
func IsCipherValidWith11n(pairwise, group uint8, protocol uint16, enable11n bool) bool {
	if pairwise == CipherTKIP && enable11n && protocol != ProtocolWPA2Mixed {
		return false
	}
	return IsCipherValid(pairwise, group)
}

// CheckCipher is IsCipherValidWith11n returning the violated rule.
func CheckCipher(pairwise, group uint8, protocol uint16, enable11n bool) error {
	if !IsCipherValid(pairwise, group) {
		return fail(ErrCipherMismatch, "Cipher", "pairwise 0x%02x with group 0x%02x", pairwise, group)
	}
	if !IsCipherValidWith11n(pairwise, group, protocol, enable11n) {
		return fail(ErrCipherMismatch, "Cipher", "TKIP pairwise cipher requires WPA/WPA2 mixed mode with 802.11n")
	}

	return nil
}
