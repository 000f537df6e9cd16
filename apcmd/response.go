package apcmd

import (
	"encoding/binary"

	"github.com/pkg/errors"
	"github.com/tomiamao/uap/tlv"
)

// A Response is a decoded command response.
type Response struct {
	Header Header

	// Action is valid when HasAction is true.
	Action    Action
	HasAction bool

	// Body holds the bytes following the header and action, which are
	// normally TLVs. It aliases the response buffer.
	Body []byte
}

// TLVs returns an iterator over the response body.
func (r *Response) TLVs() *tlv.Iterator {
	return tlv.NewIterator(r.Body)
}

// ParseTLVs decodes every TLV in the response body.
func (r *Response) ParseTLVs() ([]tlv.TLV, error) {
	return tlv.Parse(r.Body)
}

// DecodeResponse validates a response buffer against the command built by
// req and splits it into header and body. TLVs are decoded lazily through
// Response.TLVs.
func DecodeResponse(req *Builder, buf []byte) (*Response, error) {
	h, err := ParseHeader(buf)
	if err != nil {
		return nil, err
	}

	if !h.IsResponse() || h.BaseCode() != req.code {
		return nil, errors.Wrapf(ErrResponseMismatch, "sent %s, received cmd_code 0x%04x", req.code, h.Code)
	}
	if int(h.Size) > len(buf)-BufHeaderSize {
		return nil, errors.Wrapf(ErrResponseTooLarge, "size %d, buffer holds %d", h.Size, len(buf)-BufHeaderSize)
	}
	if h.Result != 0 {
		return nil, &ResultError{Code: req.code, Result: h.Result}
	}

	end := BufHeaderSize + int(h.Size)
	if end < HeaderSize {
		return nil, errors.Wrapf(ErrShortBuffer, "declared size %d", h.Size)
	}

	r := &Response{Header: h}
	body := buf[HeaderSize:end]
	if req.hasAction {
		if len(body) < ActionSize {
			return nil, errors.Wrap(ErrTruncatedTLV, "response ends before action field")
		}
		r.Action = Action(binary.LittleEndian.Uint16(body[:ActionSize]))
		r.HasAction = true
		body = body[ActionSize:]
	}
	r.Body = body

	return r, nil
}
