package validate

// Channel limits.
const (
	MaxChannels   = 165
	MaxChannelsBG = 14
)

// Channel mode bits accepted alongside a primary channel.
const (
	ModeACS            = 0x01
	ModeSecondaryBelow = 0x02
	ModeSecondaryAbove = 0x04
	modeSecondaryMask  = ModeSecondaryBelow | ModeSecondaryAbove
	modeMask           = ModeACS | modeSecondaryMask
)

// aChannels is the set of usable 5 GHz channels.
var aChannels = []int{
	16, 34, 36, 38, 40, 42, 44, 46, 48, 52, 56, 60, 64,
	100, 104, 108, 112, 116, 120, 124, 128, 132, 136, 140,
	149, 153, 157, 161, 165,
}

// 5 GHz primaries that may bond with the channel above or below them.
var (
	aChannelsAbove = []int{36, 44, 52, 60, 100, 108, 116, 124, 132, 149, 157}
	aChannelsBelow = []int{40, 48, 56, 64, 104, 112, 120, 128, 136, 153, 161}
)

// 2.4 GHz primaries that may bond with a secondary channel.
const (
	bgAboveMin, bgAboveMax = 1, 9
	bgBelowMin, bgBelowMax = 5, 13
)

// IsAChannel reports whether ch is a usable 5 GHz channel.
func IsAChannel(ch int) bool {
	for _, c := range aChannels {
		if c == ch {
			return true
		}
	}

	return false
}

// IsChannelValid reports whether ch is a usable 2.4 GHz or 5 GHz channel.
func IsChannelValid(ch int) bool {
	if ch < 1 || ch > MaxChannels {
		return false
	}

	return ch <= MaxChannelsBG || IsAChannel(ch)
}

// CheckChannel validates a primary channel together with its mode bits.
// Channel 0 is only accepted in ACS mode, where the device picks the
// channel itself.
func CheckChannel(ch int, mode uint8) error {
	if mode&^modeMask != 0 {
		return fail(ErrInvalidValue, "Channel", "mode 0x%02x has unknown bits", mode)
	}
	if mode&ModeSecondaryAbove != 0 && mode&ModeSecondaryBelow != 0 {
		return fail(ErrInvalidChannel, "Channel", "secondary channel cannot be both above and below")
	}

	if ch == 0 && mode&ModeACS != 0 {
		return nil
	}
	if !IsChannelValid(ch) {
		return fail(ErrInvalidChannel, "Channel", "%d", ch)
	}

	switch {
	case mode&ModeSecondaryAbove != 0:
		if !secondaryAllowed(ch, aChannelsAbove, bgAboveMin, bgAboveMax) {
			return fail(ErrInvalidChannel, "Channel", "%d cannot use a secondary channel above", ch)
		}
	case mode&ModeSecondaryBelow != 0:
		if !secondaryAllowed(ch, aChannelsBelow, bgBelowMin, bgBelowMax) {
			return fail(ErrInvalidChannel, "Channel", "%d cannot use a secondary channel below", ch)
		}
	}

	return nil
}

func secondaryAllowed(ch int, aSet []int, bgMin, bgMax int) bool {
	if ch <= MaxChannelsBG {
		return ch >= bgMin && ch <= bgMax
	}
	for _, c := range aSet {
		if c == ch {
			return true
		}
	}

	return false
}

// CheckScanChannels validates the channel list used for automatic channel
// selection.
func CheckScanChannels(chans []int) error {
	if len(chans) == 0 || len(chans) > MaxChannels {
		return fail(ErrOutOfRange, "ChanList", "%d channels", len(chans))
	}
	for _, ch := range chans {
		if !IsChannelValid(ch) {
			return fail(ErrInvalidChannel, "ChanList", "%d", ch)
		}
	}
	if HasDupChannel(chans) {
		return fail(ErrDuplicateEntry, "ChanList", "%v", chans)
	}

	return nil
}

// HasDupChannel reports whether a channel appears twice.
func HasDupChannel(chans []int) bool {
	for i := range chans {
		for j := i + 1; j < len(chans); j++ {
			if chans[i] == chans[j] {
				return true
			}
		}
	}

	return false
}

// FreqToChannel returns the channel of the specified frequency (in MHz) for
// the 2.4GHz and 5GHz ranges.
func FreqToChannel(freq int) int {
	if freq == 2484 {
		return 14
	}
	if freq < 2484 {
		return (freq - 2407) / 5
	}
	return freq/5 - 1000
}

// ChannelToFreq returns the centre frequency in MHz of a channel.
func ChannelToFreq(ch int) int {
	switch {
	case ch == 14:
		return 2484
	case ch <= MaxChannelsBG:
		return ch*5 + 2407
	default:
		return (ch + 1000) * 5
	}
}
