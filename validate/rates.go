package validate

// Rates are expressed in 500 kbps units. BasicRateFlag marks a rate as part
// of the basic rate set and is ignored when checking legality.
const (
	BasicRateFlag = 0x80
	rateMask      = 0x7f

	// MaxRates is the number of rates a rate set can hold.
	MaxRates = 14
)

// legalRates is the 802.11b/g rate set.
var legalRates = []uint8{2, 4, 11, 22, 12, 18, 24, 48, 72, 96, 108, 36}

var (
	cckRates           = []uint8{2, 4, 11, 22}
	ofdmRates          = []uint8{12, 18, 24, 36, 48, 72, 96, 108}
	ofdmMandatoryRates = []uint8{12, 24, 48}
)

// IsRateValid reports whether rate is a legal 802.11b/g rate.
func IsRateValid(rate uint8) bool {
	return contains(legalRates, rate&rateMask)
}

// CheckRates verifies that a rate set is non-empty, bounded, legal,
// duplicate free and carries the mandatory rates.
func CheckRates(rates []uint8) error {
	if len(rates) == 0 || len(rates) > MaxRates {
		return fail(ErrOutOfRange, "Rate", "%d rates, want 1..%d", len(rates), MaxRates)
	}
	for _, r := range rates {
		if !IsRateValid(r) {
			return fail(ErrInvalidRate, "Rate", "0x%02x", r)
		}
	}
	if HasDupRate(rates) {
		return fail(ErrDuplicateEntry, "Rate", "rate set %v", rates)
	}

	return CheckMandatoryRates(rates)
}

// CheckMandatoryRates requires every CCK rate when any CCK rate is present,
// and 6, 12 and 24 Mbps when any OFDM rate is present.
func CheckMandatoryRates(rates []uint8) error {
	var cck, ofdm bool
	for _, r := range rates {
		r &= rateMask
		cck = cck || contains(cckRates, r)
		ofdm = ofdm || contains(ofdmRates, r)
	}

	if cck {
		if err := requireAll(rates, cckRates); err != nil {
			return err
		}
	}
	if ofdm {
		if err := requireAll(rates, ofdmMandatoryRates); err != nil {
			return err
		}
	}

	return nil
}

func requireAll(rates, want []uint8) error {
	for _, w := range want {
		if !RateInSet(w, rates) {
			return fail(ErrMandatoryRate, "Rate", "0x%02x not in %v", w, rates)
		}
	}

	return nil
}

// RateInSet reports whether rate, ignoring the basic flag, appears in rates.
// A rate of zero selects automatic rate control and is always accepted.
func RateInSet(rate uint8, rates []uint8) bool {
	if rate == 0 {
		return true
	}
	for _, r := range rates {
		if r&rateMask == rate&rateMask {
			return true
		}
	}

	return false
}

// HasDupRate reports whether the same rate appears twice, ignoring the
// basic flag.
func HasDupRate(rates []uint8) bool {
	for i := range rates {
		for j := i + 1; j < len(rates); j++ {
			if rates[i]&rateMask == rates[j]&rateMask {
				return true
			}
		}
	}

	return false
}

// RateFromMbps converts a rate in Mbps to 500 kbps units, optionally
// flagging it as basic.
func RateFromMbps(mbps float64, basic bool) uint8 {
	v := uint8(mbps * 2)
	if basic {
		v |= BasicRateFlag
	}
	return v
}

func contains(set []uint8, v uint8) bool {
	for _, s := range set {
		if s == v {
			return true
		}
	}

	return false
}
