package apcmd

import (
	"fmt"

	"github.com/pkg/errors"
	"github.com/tomiamao/uap/tlv"
)

var (
	// ErrTruncatedTLV is returned when a response ends in the middle of a TLV.
	ErrTruncatedTLV = tlv.ErrTruncated

	// ErrResponseMismatch is returned when a response does not answer the
	// command that was sent.
	ErrResponseMismatch = errors.New("corrupted response")

	// ErrResponseTooLarge is returned when a response declares more bytes
	// than the buffer holds.
	ErrResponseTooLarge = errors.New("response size greater than buffer size")

	// ErrShortBuffer is returned when a buffer cannot hold a command header.
	ErrShortBuffer = errors.New("buffer too short for command header")

	// ErrCommandFailed is returned when the device reports a non-zero result.
	ErrCommandFailed = errors.New("command failed")
)

// A ResultError carries the non-zero result reported by the device.
type ResultError struct {
	Code   Code
	Result uint16
}

// Error implements error.
func (e *ResultError) Error() string {
	return fmt.Sprintf("%s: result 0x%04x: %v", e.Code, e.Result, ErrCommandFailed)
}

// Is allows errors.Is(err, ErrCommandFailed).
func (e *ResultError) Is(target error) bool { return target == ErrCommandFailed }

// ErrBufferFull is returned when a command would exceed MaxBufSize.
var ErrBufferFull = errors.New("command buffer full")
