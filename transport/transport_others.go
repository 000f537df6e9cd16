//go:build !linux
// +build !linux

package transport

import (
	"context"
	"runtime"

	"github.com/pkg/errors"
)

var errUnsupported = errors.Errorf("uap transports not supported on %s", runtime.GOOS)

// IoctlTransport is unavailable on this platform.
type IoctlTransport struct{}

// DialIoctl always returns an error on this platform.
func DialIoctl(name string) (*IoctlTransport, error) {
	return nil, &Error{Op: "dial", Iface: name, Err: errUnsupported}
}

// SendCommand implements Transport.
func (*IoctlTransport) SendCommand(context.Context, []byte) ([]byte, error) {
	return nil, errUnsupported
}

// Close implements Transport.
func (*IoctlTransport) Close() error { return nil }

// VendorTransport is unavailable on this platform.
type VendorTransport struct{}

// DialVendor always returns an error on this platform.
func DialVendor(name string) (*VendorTransport, error) {
	return nil, &Error{Op: "dial", Iface: name, Err: errUnsupported}
}

// SendCommand implements Transport.
func (*VendorTransport) SendCommand(context.Context, []byte) ([]byte, error) {
	return nil, errUnsupported
}

// Close implements Transport.
func (*VendorTransport) Close() error { return nil }
