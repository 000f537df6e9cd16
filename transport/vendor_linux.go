//go:build linux
// +build linux

package transport

import (
	"context"
	"time"

	"github.com/mdlayher/genetlink"
	"github.com/mdlayher/netlink"
	"github.com/mdlayher/wifi"
	"github.com/pkg/errors"
	"golang.org/x/sys/unix"
)

const (
	// marvellOUI identifies the vendor command namespace.
	marvellOUI = 0x005043

	// vendorSubcmdHostCmd runs a uAP host command.
	vendorSubcmdHostCmd = 0x0001
)

var (
	// ErrNotAP is returned when the interface is not in AP mode.
	ErrNotAP = errors.New("interface is not an access point")

	errNoVendorData = errors.New("no vendor data in reply")
)

// VendorTransport issues host commands as nl80211 vendor commands over
// generic netlink.
type VendorTransport struct {
	c      *genetlink.Conn
	family genetlink.Family
	ifi    *wifi.Interface
}

var _ Transport = &VendorTransport{}

// DialVendor resolves the named AP interface and opens a generic netlink
// connection to nl80211.
func DialVendor(name string) (*VendorTransport, error) {
	ifi, err := lookupAP(name)
	if err != nil {
		return nil, &Error{Op: "dial", Iface: name, Err: err}
	}

	c, err := genetlink.Dial(nil)
	if err != nil {
		return nil, &Error{Op: "dial", Iface: name, Err: err}
	}

	for _, o := range []netlink.ConnOption{
		netlink.ExtendedAcknowledge,
		netlink.GetStrictCheck,
	} {
		_ = c.SetOption(o, true)
	}

	family, err := c.GetFamily(unix.NL80211_GENL_NAME)
	if err != nil {
		_ = c.Close()
		return nil, &Error{Op: "dial", Iface: name, Err: err}
	}

	return &VendorTransport{c: c, family: family, ifi: ifi}, nil
}

func lookupAP(name string) (*wifi.Interface, error) {
	wc, err := wifi.New()
	if err != nil {
		return nil, err
	}
	defer wc.Close()

	ifis, err := wc.Interfaces()
	if err != nil {
		return nil, err
	}
	for _, ifi := range ifis {
		if ifi.Name != name {
			continue
		}
		if ifi.Type != wifi.InterfaceTypeAP {
			return nil, errors.Wrapf(ErrNotAP, "type %s", ifi.Type)
		}
		return ifi, nil
	}

	return nil, errors.Errorf("no wireless interface %q", name)
}

// SendCommand implements Transport. The context deadline, if any, becomes
// the socket deadline.
func (t *VendorTransport) SendCommand(ctx context.Context, req []byte) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, &Error{Op: "send", Iface: t.ifi.Name, Err: err}
	}

	buf, err := newBuffer(req)
	if err != nil {
		return nil, err
	}
	dump("request", t.ifi.Name, buf)

	deadline, _ := ctx.Deadline()
	if err := t.c.SetDeadline(deadline); err != nil {
		return nil, &Error{Op: "send", Iface: t.ifi.Name, Err: err}
	}
	defer t.c.SetDeadline(time.Time{})

	msgs, err := t.execute(buf)
	if err != nil {
		return nil, &Error{Op: "vendor", Iface: t.ifi.Name, Err: err}
	}

	resp, err := parseVendorReply(msgs)
	if err != nil {
		return nil, &Error{Op: "vendor", Iface: t.ifi.Name, Err: err}
	}
	dump("response", t.ifi.Name, resp)

	return resp, nil
}

func (t *VendorTransport) execute(buf []byte) ([]genetlink.Message, error) {
	ae := netlink.NewAttributeEncoder()
	ae.Uint32(unix.NL80211_ATTR_IFINDEX, uint32(t.ifi.Index))
	ae.Uint32(unix.NL80211_ATTR_VENDOR_ID, marvellOUI)
	ae.Uint32(unix.NL80211_ATTR_VENDOR_SUBCMD, vendorSubcmdHostCmd)
	ae.Bytes(unix.NL80211_ATTR_VENDOR_DATA, buf)

	b, err := ae.Encode()
	if err != nil {
		return nil, err
	}

	return t.c.Execute(
		genetlink.Message{
			Header: genetlink.Header{
				Command: unix.NL80211_CMD_VENDOR,
				Version: t.family.Version,
			},
			Data: b,
		},
		t.family.ID,
		netlink.Request,
	)
}

func parseVendorReply(msgs []genetlink.Message) ([]byte, error) {
	for _, m := range msgs {
		ad, err := netlink.NewAttributeDecoder(m.Data)
		if err != nil {
			return nil, err
		}

		var resp []byte
		for ad.Next() {
			if ad.Type() == unix.NL80211_ATTR_VENDOR_DATA {
				resp = ad.Bytes()
			}
		}
		if err := ad.Err(); err != nil {
			return nil, err
		}
		if resp != nil {
			return resp, nil
		}
	}

	return nil, errNoVendorData
}

// Close closes the generic netlink connection.
func (t *VendorTransport) Close() error { return t.c.Close() }
