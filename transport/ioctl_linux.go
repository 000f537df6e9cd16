//go:build linux
// +build linux

package transport

import (
	"context"
	"runtime"
	"unsafe"

	"github.com/josharian/native"
	"github.com/pkg/errors"
	"golang.org/x/sys/unix"
)

const (
	// uapHostCmd is the driver private ioctl that runs a host command.
	uapHostCmd = unix.SIOCDEVPRIVATE + 1

	// ifreqLen covers struct ifreq on every Linux ABI.
	ifreqLen = unix.IFNAMSIZ + 24
)

// IoctlTransport issues host commands through the driver's private ioctl
// on an AF_INET datagram socket.
type IoctlTransport struct {
	name string
	fd   int
}

var _ Transport = &IoctlTransport{}

// DialIoctl opens a control socket for the named interface.
func DialIoctl(name string) (*IoctlTransport, error) {
	if name == "" || len(name) >= unix.IFNAMSIZ {
		return nil, &Error{Op: "dial", Iface: name, Err: unix.EINVAL}
	}

	fd, err := unix.Socket(unix.AF_INET, unix.SOCK_DGRAM|unix.SOCK_CLOEXEC, 0)
	if err != nil {
		return nil, &Error{Op: "dial", Iface: name, Err: errors.Wrap(err, "socket")}
	}

	return &IoctlTransport{name: name, fd: fd}, nil
}

// SendCommand implements Transport. The ioctl itself cannot be interrupted;
// ctx is only checked before it is issued.
func (t *IoctlTransport) SendCommand(ctx context.Context, req []byte) ([]byte, error) {
	if t.fd < 0 {
		return nil, &Error{Op: "send", Iface: t.name, Err: ErrClosed}
	}
	if err := ctx.Err(); err != nil {
		return nil, &Error{Op: "send", Iface: t.name, Err: err}
	}

	buf, err := newBuffer(req)
	if err != nil {
		return nil, err
	}
	dump("request", t.name, buf)

	ifr := t.ifreq(buf)
	_, _, errno := unix.Syscall(unix.SYS_IOCTL, uintptr(t.fd), uapHostCmd, uintptr(unsafe.Pointer(&ifr[0])))
	runtime.KeepAlive(buf)
	runtime.KeepAlive(&ifr)
	if errno != 0 {
		return nil, &Error{Op: "ioctl", Iface: t.name, Err: errno}
	}
	dump("response", t.name, buf)

	return buf, nil
}

// ifreq lays out struct ifreq with ifr_data pointing at buf.
func (t *IoctlTransport) ifreq(buf []byte) [ifreqLen]byte {
	var ifr [ifreqLen]byte
	copy(ifr[:unix.IFNAMSIZ-1], t.name)

	p := uintptr(unsafe.Pointer(&buf[0]))
	if unsafe.Sizeof(p) == 8 {
		native.Endian.PutUint64(ifr[unix.IFNAMSIZ:], uint64(p))
	} else {
		native.Endian.PutUint32(ifr[unix.IFNAMSIZ:], uint32(p))
	}
	return ifr
}

// Close closes the control socket.
func (t *IoctlTransport) Close() error {
	if t.fd < 0 {
		return nil
	}
	err := unix.Close(t.fd)
	t.fd = -1
	return err
}
