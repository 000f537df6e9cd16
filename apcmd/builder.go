package apcmd

import (
	"encoding/binary"

	"github.com/pkg/errors"
	"github.com/tomiamao/uap/tlv"
)

// A Builder accumulates TLVs behind a command header.
//
// A Builder is used for exactly one request and must not be shared between
// goroutines.
type Builder struct {
	code      Code
	action    Action
	hasAction bool
	buf       []byte
}

// NewBuilder returns a Builder for a command that carries an action field.
func NewBuilder(code Code, action Action) *Builder {
	b := newBuilder(code)
	b.action = action
	b.hasAction = true

	var a [ActionSize]byte
	binary.LittleEndian.PutUint16(a[:], uint16(action))
	b.buf = append(b.buf, a[:]...)
	return b
}

// NewBuilderNoAction returns a Builder for a command without an action
// field, such as bss_start or sta_list.
func NewBuilderNoAction(code Code) *Builder {
	return newBuilder(code)
}

func newBuilder(code Code) *Builder {
	b := &Builder{
		code: code,
		buf:  make([]byte, HeaderSize, 256),
	}

	// Sequence numbers are always zero and results are only meaningful in
	// responses.
	Header{Code: uint16(code)}.put(b.buf)
	return b
}

// Code returns the command code of the Builder.
func (b *Builder) Code() Code { return b.code }

// Action returns the action of the Builder and whether it has one.
func (b *Builder) Action() (Action, bool) { return b.action, b.hasAction }

// Len returns the current length of the buffer.
func (b *Builder) Len() int { return len(b.buf) }

// AppendTLV appends one TLV. The buffer grows geometrically.
func (b *Builder) AppendTLV(tag tlv.Tag, payload []byte) error {
	buf, err := tlv.AppendEncode(b.buf, tag, payload)
	if err != nil {
		return err
	}
	if len(buf) > MaxBufSize {
		return errors.Wrapf(ErrBufferFull, "appending %s: %d bytes", tag, len(buf))
	}

	b.buf = buf
	return nil
}

// AppendUint8 appends a TLV holding a single byte.
func (b *Builder) AppendUint8(tag tlv.Tag, v uint8) error {
	return b.AppendTLV(tag, []byte{v})
}

// AppendUint16 appends a TLV holding a little-endian u16.
func (b *Builder) AppendUint16(tag tlv.Tag, v uint16) error {
	return b.AppendTLV(tag, tlv.Uint16(v))
}

// AppendUint32 appends a TLV holding a little-endian u32.
func (b *Builder) AppendUint32(tag tlv.Tag, v uint32) error {
	return b.AppendTLV(tag, tlv.Uint32(v))
}

// AppendEmpty appends a zero length TLV, which asks the device to report
// the field in a GET.
func (b *Builder) AppendEmpty(tag tlv.Tag) error {
	return b.AppendTLV(tag, nil)
}

// AppendRaw appends a fixed command body that is not TLV encoded.
func (b *Builder) AppendRaw(p []byte) error {
	if len(b.buf)+len(p) > MaxBufSize {
		return errors.Wrapf(ErrBufferFull, "appending %d raw bytes", len(p))
	}

	b.buf = append(b.buf, p...)
	return nil
}

// Finalize writes the size field and returns the wire-ready buffer. The
// Builder must not be appended to afterwards.
func (b *Builder) Finalize() []byte {
	binary.LittleEndian.PutUint16(b.buf[6:8], uint16(len(b.buf)-BufHeaderSize))
	return b.buf
}

// Header returns the request header as it will be sent.
func (b *Builder) Header() Header {
	return Header{
		Code: uint16(b.code),
		Size: uint16(len(b.buf) - BufHeaderSize),
	}
}
