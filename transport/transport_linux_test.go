//go:build linux
// +build linux

package transport

import (
	"testing"
	"unsafe"

	"github.com/josharian/native"
	"github.com/mdlayher/genetlink"
	"github.com/mdlayher/netlink"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"
	"golang.org/x/sys/unix"
)

func TestIoctlIfreq(t *testing.T) {
	tr := &IoctlTransport{name: "uap0", fd: -1}
	buf := make([]byte, 16)

	ifr := tr.ifreq(buf)
	require.Equal(t, "uap0", string(ifr[:4]))
	require.Equal(t, byte(0), ifr[4])

	want := uint64(uintptr(unsafe.Pointer(&buf[0])))
	var got uint64
	if unsafe.Sizeof(uintptr(0)) == 8 {
		got = native.Endian.Uint64(ifr[unix.IFNAMSIZ:])
	} else {
		got = uint64(native.Endian.Uint32(ifr[unix.IFNAMSIZ:]))
	}
	require.Equal(t, want, got)
}

func TestDialIoctlBadName(t *testing.T) {
	_, err := DialIoctl("")
	require.True(t, errors.Is(err, unix.EINVAL))

	_, err = DialIoctl("averyveryverylongname0")
	require.True(t, errors.Is(err, unix.EINVAL))
}

func TestIoctlClosed(t *testing.T) {
	tr := &IoctlTransport{name: "uap0", fd: -1}
	require.NoError(t, tr.Close())
}

func TestParseVendorReply(t *testing.T) {
	data, err := netlink.MarshalAttributes([]netlink.Attribute{
		{Type: unix.NL80211_ATTR_IFINDEX, Data: []byte{1, 0, 0, 0}},
		{Type: unix.NL80211_ATTR_VENDOR_DATA, Data: []byte{0xde, 0xad, 0xbe, 0xef}},
	})
	require.NoError(t, err)

	resp, err := parseVendorReply([]genetlink.Message{{Data: data}})
	require.NoError(t, err)
	require.Equal(t, []byte{0xde, 0xad, 0xbe, 0xef}, resp)

	empty, err := netlink.MarshalAttributes([]netlink.Attribute{
		{Type: unix.NL80211_ATTR_IFINDEX, Data: []byte{1, 0, 0, 0}},
	})
	require.NoError(t, err)

	_, err = parseVendorReply([]genetlink.Message{{Data: empty}})
	require.True(t, errors.Is(err, errNoVendorData))
}
