// Package customie builds and parses the management IE list that lets the
// host add its own information elements to beacons and management frames.
package customie

import (
	"fmt"

	"github.com/google/gopacket"
	"github.com/google/gopacket/layers"
	"github.com/pkg/errors"
	"github.com/tomiamao/uap/tlv"
)

const (
	// MaxBufferLen is the largest IE buffer a single entry may carry.
	MaxBufferLen = 256

	// AutoIndex asks the driver to pick a free slot.
	AutoIndex = 0xffff

	entryHeaderLen = 6
	ieHeaderLen    = 2
	vendorOUILen   = 4
)

// A Mask selects the management frames an entry is added to. Each bit is
// 1 << frame subtype.
type Mask uint16

// Frame subtypes a custom IE may be attached to.
const (
	MaskAssocResp   Mask = 1 << 1
	MaskReassocResp Mask = 1 << 3
	MaskProbeResp   Mask = 1 << 5
	MaskBeacon      Mask = 1 << 8

	// MaskDelete with an empty buffer clears the slot.
	MaskDelete Mask = 0

	maskAll = MaskAssocResp | MaskReassocResp | MaskProbeResp | MaskBeacon
)

var (
	errInvalidIE    = errors.New("invalid information element")
	errInvalidEntry = errors.New("invalid custom IE entry")
)

// An Entry is one slot of the management IE list.
type Entry struct {
	Index uint16
	Mask  Mask
	IEs   []layers.Dot11InformationElement
}

// Validate checks the entry's mask and the size of its IE buffer.
func (e *Entry) Validate() error {
	if e.Mask&^maskAll != 0 {
		return errors.Wrapf(errInvalidEntry, "index %d: unsupported subtype mask 0x%04x", e.Index, uint16(e.Mask))
	}
	if e.Mask == MaskDelete {
		if e.Index == AutoIndex {
			return errors.Wrap(errInvalidEntry, "delete needs an explicit index")
		}
		if len(e.IEs) != 0 {
			return errors.Wrapf(errInvalidEntry, "index %d: delete carries %d elements", e.Index, len(e.IEs))
		}
	}

	n := 0
	for _, ie := range e.IEs {
		l := len(ie.Info) + len(ie.OUI)
		if l > 0xff {
			return errors.Wrapf(errInvalidIE, "element %d: %d bytes", ie.ID, l)
		}
		n += ieHeaderLen + l
	}
	if n > MaxBufferLen {
		return errors.Wrapf(errInvalidEntry, "index %d: IE buffer %d bytes, max %d", e.Index, n, MaxBufferLen)
	}

	return nil
}

// Buffer serializes the entry's IEs.
func (e *Entry) Buffer() ([]byte, error) {
	if len(e.IEs) == 0 {
		return nil, nil
	}

	ls := make([]gopacket.SerializableLayer, len(e.IEs))
	for i := range e.IEs {
		ls[i] = &e.IEs[i]
	}

	buf := gopacket.NewSerializeBuffer()
	if err := gopacket.SerializeLayers(buf, gopacket.SerializeOptions{}, ls...); err != nil {
		return nil, errors.Wrap(err, "serialize IEs")
	}
	return buf.Bytes(), nil
}

// DecodeIEs splits a buffer into information elements. Vendor specific
// elements keep their OUI and type in OUI, as gopacket does.
func DecodeIEs(b []byte) ([]layers.Dot11InformationElement, error) {
	var out []layers.Dot11InformationElement
	for off := 0; off < len(b); {
		if len(b)-off < ieHeaderLen {
			return nil, errors.Wrapf(errInvalidIE, "%d trailing bytes at offset %d", len(b)-off, off)
		}
		id, l := b[off], int(b[off+1])
		end := off + ieHeaderLen + l
		if end > len(b) {
			return nil, errors.Wrapf(errInvalidIE, "element %d at offset %d overruns buffer", id, off)
		}

		ie := layers.Dot11InformationElement{
			ID:     layers.Dot11InformationElementID(id),
			Length: uint8(l),
		}
		body := b[off+ieHeaderLen : end]
		if ie.ID == layers.Dot11InformationElementIDVendor {
			if l < vendorOUILen {
				return nil, errors.Wrapf(errInvalidIE, "vendor element at offset %d too short", off)
			}
			ie.OUI, body = body[:vendorOUILen], body[vendorOUILen:]
		}
		ie.Info = body
		ie.BaseLayer = layers.BaseLayer{Contents: b[off:end], Payload: b[end:]}

		out = append(out, ie)
		off = end
	}

	return out, nil
}

// Marshal encodes entries as the payload of a management IE list TLV.
func Marshal(entries []Entry) ([]byte, error) {
	var b []byte
	for i := range entries {
		e := &entries[i]
		if err := e.Validate(); err != nil {
			return nil, err
		}
		buf, err := e.Buffer()
		if err != nil {
			return nil, err
		}

		b = append(b, tlv.Uint16(e.Index)...)
		b = append(b, tlv.Uint16(uint16(e.Mask))...)
		b = append(b, tlv.Uint16(uint16(len(buf)))...)
		b = append(b, buf...)
	}

	if len(b) > tlv.MaxPayload {
		return nil, tlv.ErrPayloadTooLarge
	}
	return b, nil
}

// Unmarshal decodes the payload of a management IE list TLV.
func Unmarshal(b []byte) ([]Entry, error) {
	var out []Entry
	for off := 0; off < len(b); {
		if len(b)-off < entryHeaderLen {
			return nil, errors.Wrap(tlv.ErrTruncated, "custom IE entry header")
		}
		index, _ := tlv.ReadUint16(b, off)
		mask, _ := tlv.ReadUint16(b, off+2)
		n, _ := tlv.ReadUint16(b, off+4)

		start := off + entryHeaderLen
		end := start + int(n)
		if end > len(b) {
			return nil, errors.Wrapf(tlv.ErrTruncated, "custom IE entry %d", index)
		}

		ies, err := DecodeIEs(b[start:end])
		if err != nil {
			return nil, errors.Wrapf(err, "custom IE entry %d", index)
		}
		out = append(out, Entry{Index: index, Mask: Mask(mask), IEs: ies})
		off = end
	}

	return out, nil
}

// String returns the frames a mask selects.
func (m Mask) String() string {
	if m == 0 {
		return "none"
	}

	names := []struct {
		bit  Mask
		name string
	}{
		{MaskBeacon, "beacon"},
		{MaskProbeResp, "probe-resp"},
		{MaskAssocResp, "assoc-resp"},
		{MaskReassocResp, "reassoc-resp"},
	}

	var s string
	for _, n := range names {
		if m&n.bit == 0 {
			continue
		}
		if s != "" {
			s += "|"
		}
		s += n.name
	}
	if rest := m &^ maskAll; rest != 0 {
		if s != "" {
			s += "|"
		}
		s += fmt.Sprintf("0x%04x", uint16(rest))
	}

	return s
}
