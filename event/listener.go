package event

import (
	"context"
	"time"

	"github.com/mdlayher/netlink"
	"github.com/pkg/errors"
	"k8s.io/klog/v2"
)

const (
	// netlinkMarvell is the netlink protocol the driver broadcasts on.
	netlinkMarvell = 31

	// multicastGroup is the driver's only event group.
	multicastGroup = 1

	pollInterval = 10 * time.Second
)

// conn is the part of *netlink.Conn a Listener uses.
type conn interface {
	Receive() ([]netlink.Message, error)
	SetReadDeadline(t time.Time) error
	Close() error
}

// A Listener receives driver events.
type Listener struct {
	c    conn
	poll time.Duration
}

// Listen joins the driver's event group.
func Listen() (*Listener, error) {
	c, err := netlink.Dial(netlinkMarvell, &netlink.Config{Groups: multicastGroup})
	if err != nil {
		return nil, errors.Wrap(err, "dial driver event socket")
	}

	return &Listener{c: c, poll: pollInterval}, nil
}

// Close closes the event socket. Any Events channel closes once its
// goroutine notices.
func (l *Listener) Close() error { return l.c.Close() }

// Events streams decoded events until ctx is done or the socket fails.
// Events that cannot be decoded are logged and dropped.
func (l *Listener) Events(ctx context.Context) <-chan Event {
	out := make(chan Event)

	go func() {
		defer close(out)

		for {
			if err := ctx.Err(); err != nil {
				return
			}

			_ = l.c.SetReadDeadline(time.Now().Add(l.poll))
			msgs, err := l.c.Receive()
			if err != nil {
				var oerr *netlink.OpError
				if errors.As(err, &oerr) && oerr.Timeout() {
					continue
				}
				if ctx.Err() == nil {
					klog.Errorf("driver event receive failed: %v", err)
				}
				return
			}

			for _, m := range msgs {
				ev, err := Decode(m.Data)
				if err != nil {
					klog.V(2).Infof("dropping driver event: %v", err)
					continue
				}

				select {
				case out <- ev:
				case <-ctx.Done():
					return
				}
			}
		}
	}()

	return out
}
