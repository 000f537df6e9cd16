// Package apcmd builds uAP host command buffers and decodes their responses.
//
// A command buffer on the wire is:
//
//	buf_size u32 | cmd_code u16 | size u16 | seq_num u16 | result u16 | [action u16] | TLVs...
//
// All fields are little-endian. buf_size is filled in by the transport with
// the capacity available for the response; size counts every byte after
// buf_size.
package apcmd

import (
	"encoding/binary"
	"fmt"

	"github.com/pkg/errors"
)

const (
	// BufHeaderSize is the width of the buf_size prefix excluded from size.
	BufHeaderSize = 4

	// HeaderSize is the size of the fixed command header including buf_size.
	HeaderSize = BufHeaderSize + 8

	// ActionSize is the width of the optional action field.
	ActionSize = 2

	// MaxBufSize is the largest command or response buffer the driver
	// accepts.
	MaxBufSize = 2048

	// RespCheck is set in the cmd_code of every response.
	RespCheck uint16 = 0x8000

	// cmdIDMask strips the response bit from a cmd_code.
	cmdIDMask uint16 = 0x7fff
)

// A Code is a host command code.
type Code uint16

// Host command codes.
const (
	CodeSNMPMIB      Code = 0x0016
	CodeDomainInfo   Code = 0x005b
	CodeSysInfo      Code = 0x00ae
	CodeSysReset     Code = 0x00af
	CodeSysConfigure Code = 0x00b0
	CodeBSSStart     Code = 0x00b1
	CodeBSSStop      Code = 0x00b2
	CodeStaList      Code = 0x00b3
	CodeStaDeauth    Code = 0x00b5
)

// String returns the string representation of a Code.
func (c Code) String() string {
	switch c {
	case CodeSNMPMIB:
		return "snmp_mib"
	case CodeDomainInfo:
		return "802_11d_domain_info"
	case CodeSysInfo:
		return "sys_info"
	case CodeSysReset:
		return "sys_reset"
	case CodeSysConfigure:
		return "sys_configure"
	case CodeBSSStart:
		return "bss_start"
	case CodeBSSStop:
		return "bss_stop"
	case CodeStaList:
		return "sta_list"
	case CodeStaDeauth:
		return "sta_deauth"
	default:
		return fmt.Sprintf("unknown(0x%04x)", uint16(c))
	}
}

// An Action selects between querying and changing device state.
type Action uint16

// Possible Action values.
const (
	ActionGet Action = 0
	ActionSet Action = 1
)

// String returns the string representation of an Action.
func (a Action) String() string {
	switch a {
	case ActionGet:
		return "get"
	case ActionSet:
		return "set"
	default:
		return fmt.Sprintf("unknown(%d)", uint16(a))
	}
}

// A Header is the fixed part of a command or response buffer.
type Header struct {
	BufSize uint32
	Code    uint16
	Size    uint16
	SeqNum  uint16
	Result  uint16
}

// IsResponse reports whether h carries the response bit.
func (h Header) IsResponse() bool { return h.Code&RespCheck != 0 }

// BaseCode returns the command code without the response bit.
func (h Header) BaseCode() Code { return Code(h.Code & cmdIDMask) }

func (h Header) put(b []byte) {
	binary.LittleEndian.PutUint32(b[0:4], h.BufSize)
	binary.LittleEndian.PutUint16(b[4:6], h.Code)
	binary.LittleEndian.PutUint16(b[6:8], h.Size)
	binary.LittleEndian.PutUint16(b[8:10], h.SeqNum)
	binary.LittleEndian.PutUint16(b[10:12], h.Result)
}

// ParseHeader decodes the fixed header at the start of b.
func ParseHeader(b []byte) (Header, error) {
	if len(b) < HeaderSize {
		return Header{}, errors.Wrapf(ErrShortBuffer, "%d bytes, need %d", len(b), HeaderSize)
	}

	return Header{
		BufSize: binary.LittleEndian.Uint32(b[0:4]),
		Code:    binary.LittleEndian.Uint16(b[4:6]),
		Size:    binary.LittleEndian.Uint16(b[6:8]),
		SeqNum:  binary.LittleEndian.Uint16(b[8:10]),
		Result:  binary.LittleEndian.Uint16(b[10:12]),
	}, nil
}

// SetBufSize stores the response capacity in the buf_size prefix of a
// finalized command buffer.
func SetBufSize(b []byte, capacity int) error {
	if len(b) < BufHeaderSize {
		return errors.Wrapf(ErrShortBuffer, "%d bytes", len(b))
	}
	binary.LittleEndian.PutUint32(b[0:4], uint32(capacity-BufHeaderSize))
	return nil
}
