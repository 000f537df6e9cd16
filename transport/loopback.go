package transport

import (
	"context"
	"sync"
)

// A Handler answers one command in place. buf is apcmd.MaxBufSize bytes
// long and starts with the request; the handler returns the response,
// usually a prefix of buf.
type Handler func(ctx context.Context, buf []byte) ([]byte, error)

// Loopback is an in-process Transport that hands every command to a
// Handler. It stands in for the driver in tests and dry runs.
type Loopback struct {
	h Handler

	mu     sync.Mutex
	closed bool
}

var _ Transport = &Loopback{}

// NewLoopback returns a Loopback answering with h.
func NewLoopback(h Handler) *Loopback {
	return &Loopback{h: h}
}

// SendCommand implements Transport.
func (l *Loopback) SendCommand(ctx context.Context, req []byte) ([]byte, error) {
	l.mu.Lock()
	closed := l.closed
	l.mu.Unlock()
	if closed {
		return nil, &Error{Op: "send", Iface: "loopback", Err: ErrClosed}
	}
	if err := ctx.Err(); err != nil {
		return nil, &Error{Op: "send", Iface: "loopback", Err: err}
	}

	buf, err := newBuffer(req)
	if err != nil {
		return nil, err
	}
	dump("request", "loopback", buf)

	resp, err := l.h(ctx, buf)
	if err != nil {
		return nil, &Error{Op: "send", Iface: "loopback", Err: err}
	}
	dump("response", "loopback", resp)

	return resp, nil
}

// Close implements Transport.
func (l *Loopback) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.closed = true
	return nil
}
