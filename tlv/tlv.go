// Package tlv implements the Type-Length-Value records carried by uAP host
// commands.
//
// Every record is a little-endian u16 tag, a little-endian u16 length and
// length bytes of payload. Records are packed back to back with no padding.
package tlv

import (
	"encoding/binary"

	"github.com/pkg/errors"
)

// HeaderLen is the size of a TLV tag and length.
const HeaderLen = 4

// MaxPayload is the largest payload a single TLV can carry.
const MaxPayload = 0xffff

var (
	// ErrTruncated is returned when a buffer ends in the middle of a TLV.
	ErrTruncated = errors.New("truncated tlv")

	// ErrPayloadTooLarge is returned when a payload does not fit a u16 length.
	ErrPayloadTooLarge = errors.New("tlv payload too large")
)

// A TLV is a single decoded record. Data aliases the buffer it was decoded
// from.
type TLV struct {
	Tag  Tag
	Data []byte
}

// Len returns the encoded size of t.
func (t TLV) Len() int { return HeaderLen + len(t.Data) }

// Encode returns the wire form of a TLV.
func Encode(tag Tag, payload []byte) ([]byte, error) {
	b := make([]byte, 0, HeaderLen+len(payload))
	return AppendEncode(b, tag, payload)
}

// AppendEncode appends the wire form of a TLV to b.
func AppendEncode(b []byte, tag Tag, payload []byte) ([]byte, error) {
	if len(payload) > MaxPayload {
		return b, errors.Wrapf(ErrPayloadTooLarge, "tag %s: %d bytes", tag, len(payload))
	}

	var hdr [HeaderLen]byte
	binary.LittleEndian.PutUint16(hdr[0:2], uint16(tag))
	binary.LittleEndian.PutUint16(hdr[2:4], uint16(len(payload)))
	b = append(b, hdr[:]...)
	return append(b, payload...), nil
}

// DecodeHeader reads the tag and length of the TLV starting at off. The
// caller must ensure off+HeaderLen <= len(b).
func DecodeHeader(b []byte, off int) (Tag, uint16) {
	return Tag(binary.LittleEndian.Uint16(b[off : off+2])),
		binary.LittleEndian.Uint16(b[off+2 : off+4])
}

// An Iterator walks the TLVs of a buffer one at a time.
//
//	it := tlv.NewIterator(b)
//	for it.Next() {
//		t := it.TLV()
//	}
//	if err := it.Err(); err != nil {
//		...
//	}
type Iterator struct {
	b   []byte
	off int
	cur TLV
	err error
}

// NewIterator returns an Iterator positioned before the first TLV of b.
func NewIterator(b []byte) *Iterator {
	return &Iterator{b: b}
}

// Next advances to the next TLV. It returns false at the end of the buffer
// or when the remaining bytes cannot hold a whole TLV, in which case Err
// reports ErrTruncated.
func (it *Iterator) Next() bool {
	if it.err != nil {
		return false
	}

	rem := len(it.b) - it.off
	if rem == 0 {
		return false
	}
	if rem < HeaderLen {
		it.err = errors.Wrapf(ErrTruncated, "offset %d: %d bytes left for header", it.off, rem)
		return false
	}

	tag, n := DecodeHeader(it.b, it.off)
	if rem < HeaderLen+int(n) {
		it.err = errors.Wrapf(ErrTruncated, "offset %d: tag %s wants %d bytes, %d left",
			it.off, tag, n, rem-HeaderLen)
		return false
	}

	start := it.off + HeaderLen
	it.cur = TLV{Tag: tag, Data: it.b[start : start+int(n) : start+int(n)]}
	it.off = start + int(n)
	return true
}

// TLV returns the record produced by the last call to Next.
func (it *Iterator) TLV() TLV { return it.cur }

// Offset returns the number of bytes consumed so far.
func (it *Iterator) Offset() int { return it.off }

// Err returns the error that stopped iteration, if any.
func (it *Iterator) Err() error { return it.err }

// Reset rewinds the Iterator to the start of its buffer.
func (it *Iterator) Reset() {
	it.off = 0
	it.cur = TLV{}
	it.err = nil
}

// Parse decodes every TLV in b, preserving their order.
func Parse(b []byte) ([]TLV, error) {
	var out []TLV
	it := NewIterator(b)
	for it.Next() {
		out = append(out, it.TLV())
	}

	return out, it.Err()
}

// Find returns the first TLV with the given tag.
func Find(tlvs []TLV, tag Tag) (TLV, bool) {
	for _, t := range tlvs {
		if t.Tag == tag {
			return t, true
		}
	}

	return TLV{}, false
}

// ReadUint16 reads a little-endian u16 at off.
func ReadUint16(b []byte, off int) (uint16, error) {
	if off < 0 || off+2 > len(b) {
		return 0, errors.Wrapf(ErrTruncated, "u16 at offset %d of %d bytes", off, len(b))
	}
	return binary.LittleEndian.Uint16(b[off:]), nil
}

// ReadUint32 reads a little-endian u32 at off.
func ReadUint32(b []byte, off int) (uint32, error) {
	if off < 0 || off+4 > len(b) {
		return 0, errors.Wrapf(ErrTruncated, "u32 at offset %d of %d bytes", off, len(b))
	}
	return binary.LittleEndian.Uint32(b[off:]), nil
}

// WriteUint16 writes v little-endian at off.
func WriteUint16(b []byte, off int, v uint16) error {
	if off < 0 || off+2 > len(b) {
		return errors.Wrapf(ErrTruncated, "u16 at offset %d of %d bytes", off, len(b))
	}
	binary.LittleEndian.PutUint16(b[off:], v)
	return nil
}

// WriteUint32 writes v little-endian at off.
func WriteUint32(b []byte, off int, v uint32) error {
	if off < 0 || off+4 > len(b) {
		return errors.Wrapf(ErrTruncated, "u32 at offset %d of %d bytes", off, len(b))
	}
	binary.LittleEndian.PutUint32(b[off:], v)
	return nil
}

// Uint16 returns the little-endian encoding of v.
func Uint16(v uint16) []byte {
	b := make([]byte, 2)
	binary.LittleEndian.PutUint16(b, v)
	return b
}

// Uint32 returns the little-endian encoding of v.
func Uint32(v uint32) []byte {
	b := make([]byte, 4)
	binary.LittleEndian.PutUint32(b, v)
	return b
}
