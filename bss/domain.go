package bss

import (
	"fmt"

	"github.com/pkg/errors"
	"github.com/tomiamao/uap/validate"
)

// MaxSubBands is the largest number of sub-bands in an 802.11d domain.
const MaxSubBands = 40

// A SubBand is a run of channels sharing a transmit power limit.
type SubBand struct {
	FirstChannel uint8
	NumChannels  uint8
	MaxTxPower   uint8
}

// A Domain is the 802.11d country information advertised by the AP.
type Domain struct {
	// Country is the two letter country code; the third byte on the wire is
	// the environment and is always sent as a space.
	Country  string
	SubBands []SubBand
}

// Validate checks the country code and sub-band table.
func (d *Domain) Validate() error {
	if len(d.Country) != 2 {
		return &validate.Error{Kind: validate.ErrInvalidValue, Field: "country", Detail: fmt.Sprintf("%q", d.Country)}
	}
	if len(d.SubBands) == 0 || len(d.SubBands) > MaxSubBands {
		return &validate.Error{Kind: validate.ErrOutOfRange, Field: "sub_band",
			Detail: fmt.Sprintf("%d sub-bands, want 1..%d", len(d.SubBands), MaxSubBands)}
	}

	for i, sb := range d.SubBands {
		if !validate.IsChannelValid(int(sb.FirstChannel)) {
			return &validate.Error{Kind: validate.ErrInvalidChannel, Field: "sub_band", Detail: fmt.Sprintf("first channel %d", sb.FirstChannel)}
		}
		if sb.NumChannels == 0 {
			return &validate.Error{Kind: validate.ErrOutOfRange, Field: "sub_band", Detail: fmt.Sprintf("channel %d: zero channels", sb.FirstChannel)}
		}
		for _, prev := range d.SubBands[:i] {
			if prev.FirstChannel == sb.FirstChannel {
				return &validate.Error{Kind: validate.ErrDuplicateEntry, Field: "sub_band", Detail: fmt.Sprintf("first channel %d", sb.FirstChannel)}
			}
		}
	}

	return nil
}

// Marshal encodes the payload of the domain TLV.
func (d *Domain) Marshal() []byte {
	b := make([]byte, 0, 3+3*len(d.SubBands))
	b = append(b, d.Country[0], d.Country[1], ' ')
	for _, sb := range d.SubBands {
		b = append(b, sb.FirstChannel, sb.NumChannels, sb.MaxTxPower)
	}
	return b
}

// UnmarshalDomain decodes the payload of a domain TLV.
func UnmarshalDomain(b []byte) (*Domain, error) {
	if len(b) < 3 || (len(b)-3)%3 != 0 {
		return nil, errors.Wrapf(errInvalidTLV, "domain: %d bytes", len(b))
	}

	d := &Domain{Country: string(b[:2])}
	for off := 3; off < len(b); off += 3 {
		d.SubBands = append(d.SubBands, SubBand{
			FirstChannel: b[off],
			NumChannels:  b[off+1],
			MaxTxPower:   b[off+2],
		})
	}

	return d, nil
}
