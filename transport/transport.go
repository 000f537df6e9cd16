// Package transport carries uAP command buffers to the wireless driver and
// returns its responses.
package transport

import (
	"context"
	"encoding/hex"
	"fmt"
	"time"

	"github.com/pkg/errors"
	"github.com/tomiamao/uap/apcmd"
	"k8s.io/klog/v2"
)

// ErrClosed is returned by a Transport used after Close.
var ErrClosed = errors.New("transport closed")

// A Transport sends one finalized command buffer and returns the response
// buffer. Implementations copy req into a buffer of apcmd.MaxBufSize bytes
// before handing it to the driver, so callers may reuse req once
// SendCommand returns.
type Transport interface {
	SendCommand(ctx context.Context, req []byte) ([]byte, error)
	Close() error
}

// An Error is a failure of the underlying channel to the driver.
type Error struct {
	Op    string
	Iface string
	Err   error
}

// Error implements error.
func (e *Error) Error() string {
	if e.Iface == "" {
		return fmt.Sprintf("%s: %v", e.Op, e.Err)
	}
	return fmt.Sprintf("%s %s: %v", e.Op, e.Iface, e.Err)
}

// Unwrap returns the underlying error.
func (e *Error) Unwrap() error { return e.Err }

// Timeout reports whether the error was caused by a deadline.
func (e *Error) Timeout() bool {
	if errors.Is(e.Err, context.DeadlineExceeded) {
		return true
	}
	var t interface{ Timeout() bool }
	return errors.As(e.Err, &t) && t.Timeout()
}

// newBuffer copies req into a driver sized buffer and records its capacity
// in the buf_size prefix.
func newBuffer(req []byte) ([]byte, error) {
	if len(req) < apcmd.HeaderSize {
		return nil, errors.Wrapf(apcmd.ErrShortBuffer, "request of %d bytes", len(req))
	}
	if len(req) > apcmd.MaxBufSize {
		return nil, errors.Wrapf(apcmd.ErrBufferFull, "request of %d bytes", len(req))
	}

	buf := make([]byte, apcmd.MaxBufSize)
	copy(buf, req)
	if err := apcmd.SetBufSize(buf, len(buf)); err != nil {
		return nil, err
	}
	return buf, nil
}

func dump(dir, iface string, b []byte) {
	if !klog.V(2).Enabled() {
		return
	}
	if h, err := apcmd.ParseHeader(b); err == nil && int(h.Size)+apcmd.BufHeaderSize <= len(b) {
		b = b[:int(h.Size)+apcmd.BufHeaderSize]
	}
	klog.Infof("uap %s %s (%d bytes):\n%s", iface, dir, len(b), hex.Dump(b))
}

type timeoutTransport struct {
	t Transport
	d time.Duration
}

// WithTimeout bounds every SendCommand on t by d. A command that times out
// may still complete in the driver; its response is discarded.
func WithTimeout(t Transport, d time.Duration) Transport {
	if d <= 0 {
		return t
	}
	return &timeoutTransport{t: t, d: d}
}

func (tt *timeoutTransport) SendCommand(ctx context.Context, req []byte) ([]byte, error) {
	ctx, cancel := context.WithTimeout(ctx, tt.d)
	defer cancel()

	type result struct {
		b   []byte
		err error
	}
	ch := make(chan result, 1)
	go func() {
		b, err := tt.t.SendCommand(ctx, req)
		ch <- result{b, err}
	}()

	select {
	case r := <-ch:
		return r.b, r.err
	case <-ctx.Done():
		return nil, &Error{Op: "send", Err: ctx.Err()}
	}
}

func (tt *timeoutTransport) Close() error { return tt.t.Close() }
