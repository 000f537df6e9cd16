package bss

import (
	"fmt"
	"net"

	"github.com/pkg/errors"
	"github.com/tomiamao/uap/validate"
)

// A FilterMode selects how the MAC filter table is applied.
type FilterMode uint8

// Possible FilterMode values.
const (
	FilterDisabled FilterMode = iota
	FilterAllow
	FilterBlock
)

// String returns the string representation of a FilterMode.
func (m FilterMode) String() string {
	switch m {
	case FilterDisabled:
		return "disabled"
	case FilterAllow:
		return "allow"
	case FilterBlock:
		return "block"
	default:
		return fmt.Sprintf("unknown(%d)", uint8(m))
	}
}

// A MACFilter restricts which stations may associate.
type MACFilter struct {
	Mode    FilterMode
	Entries []net.HardwareAddr
}

// Validate checks the filter mode and entries.
func (f *MACFilter) Validate() error {
	if f == nil {
		return &validate.Error{Kind: validate.ErrInvalidValue, Field: "FilterMode", Detail: "missing filter"}
	}
	if f.Mode > FilterBlock {
		return &validate.Error{Kind: validate.ErrInvalidValue, Field: "FilterMode", Detail: f.Mode.String()}
	}
	if len(f.Entries) > validate.MaxMACFilter {
		return &validate.Error{Kind: validate.ErrOutOfRange, Field: "Count",
			Detail: fmt.Sprintf("%d entries, at most %d", len(f.Entries), validate.MaxMACFilter)}
	}
	if f.Mode != FilterDisabled && len(f.Entries) == 0 {
		return &validate.Error{Kind: validate.ErrCountMismatch, Field: "Count",
			Detail: fmt.Sprintf("%s mode needs at least one entry", f.Mode)}
	}
	if validate.HasDupMAC(f.Entries) {
		return &validate.Error{Kind: validate.ErrDuplicateEntry, Field: "mac", Detail: "duplicate filter entry"}
	}

	return nil
}

// marshal encodes the payload of the station MAC filter TLV.
func (f *MACFilter) marshal() []byte {
	b := make([]byte, 0, 2+6*len(f.Entries))
	b = append(b, uint8(f.Mode), uint8(len(f.Entries)))
	for _, mac := range f.Entries {
		b = append(b, mac...)
	}
	return b
}

func unmarshalMACFilter(b []byte) (*MACFilter, error) {
	if len(b) < 2 {
		return nil, errors.Wrapf(errInvalidTLV, "mac filter: %d bytes", len(b))
	}

	n := int(b[1])
	if len(b) < 2+6*n {
		return nil, errors.Wrapf(errInvalidTLV, "mac filter: count %d needs %d bytes, have %d", n, 2+6*n, len(b))
	}

	f := &MACFilter{Mode: FilterMode(b[0])}
	for i := 0; i < n; i++ {
		off := 2 + 6*i
		f.Entries = append(f.Entries, net.HardwareAddr(append([]byte(nil), b[off:off+6]...)))
	}

	return f, nil
}
