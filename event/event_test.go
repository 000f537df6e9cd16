package event

import (
	"context"
	"net"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/google/gopacket/layers"
	"github.com/josharian/native"
	"github.com/mdlayher/netlink"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"
	"github.com/tomiamao/uap/tlv"
)

var staMAC = net.HardwareAddr{0x00, 0x11, 0x22, 0x33, 0x44, 0x55}

func eventBytes(id ID, body ...byte) []byte {
	b := make([]byte, 4, 4+len(body))
	native.Endian.PutUint32(b, uint32(id))
	return append(b, body...)
}

func assocFrame(subtype byte, fixed []byte, ies []byte) []byte {
	f := make([]byte, dot11HdrLen)
	f[0] = subtype << 4
	copy(f[4:], []byte{0x00, 0x50, 0x43, 0x00, 0x00, 0x01})
	copy(f[10:], staMAC)
	copy(f[16:], []byte{0x00, 0x50, 0x43, 0x00, 0x00, 0x01})
	f = append(f, fixed...)
	return append(f, ies...)
}

func TestDecode(t *testing.T) {
	ies := []byte{
		0x00, 0x04, 't', 'e', 's', 't',
		0x01, 0x04, 0x82, 0x84, 0x8b, 0x96,
	}

	assocTLV, err := tlv.Encode(tlv.TagMgmtFrame, assocFrame(0, []byte{0x31, 0x04, 0x0a, 0x00}, ies))
	require.NoError(t, err)
	reassocTLV, err := tlv.Encode(tlv.TagMgmtFrame, assocFrame(2, []byte{0x21, 0x04, 0x05, 0x00, 1, 2, 3, 4, 5, 6}, ies[:6]))
	require.NoError(t, err)
	otherTLV, err := tlv.Encode(tlv.TagAPMACAddress, staMAC)
	require.NoError(t, err)

	wantIEs := []layers.Dot11InformationElement{
		{ID: layers.Dot11InformationElementIDSSID, Length: 4, Info: []byte("test")},
		{ID: layers.Dot11InformationElementIDRates, Length: 4, Info: []byte{0x82, 0x84, 0x8b, 0x96}},
	}

	tests := []struct {
		name string
		b    []byte
		want Event
	}{
		{
			name: "assoc",
			b:    eventBytes(IDStaAssoc, append(append(append([]byte{}, staMAC...), otherTLV...), assocTLV...)...),
			want: &StaAssoc{
				HardwareAddr:   staMAC,
				CapabilityInfo: 0x0431,
				ListenInterval: 10,
				IEs:            wantIEs,
			},
		},
		{
			name: "reassoc",
			b:    eventBytes(IDStaAssoc, append(append([]byte{}, staMAC...), reassocTLV...)...),
			want: &StaAssoc{
				HardwareAddr:   staMAC,
				Reassoc:        true,
				CapabilityInfo: 0x0421,
				ListenInterval: 5,
				IEs:            wantIEs[:1],
			},
		},
		{
			name: "assoc without frame",
			b:    eventBytes(IDStaAssoc, staMAC...),
			want: &StaAssoc{HardwareAddr: staMAC},
		},
		{
			name: "deauth",
			b:    eventBytes(IDStaDeauth, append([]byte{0x03, 0x00}, staMAC...)...),
			want: &StaDeauth{HardwareAddr: staMAC, Reason: 3},
		},
		{
			name: "bss start",
			b:    eventBytes(IDBSSStart, staMAC...),
			want: &BSSStart{HardwareAddr: staMAC},
		},
		{
			name: "bss idle",
			b:    eventBytes(IDBSSIdle),
			want: &BSSIdle{},
		},
		{
			name: "bss active",
			b:    eventBytes(IDBSSActive),
			want: &BSSActive{},
		},
		{
			name: "unknown",
			b:    eventBytes(0x80000001, 0xaa, 0xbb),
			want: &Unknown{EventID: 0x80000001, Data: []byte{0xaa, 0xbb}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Decode(tt.b)
			require.NoError(t, err)
			require.Equal(t, tt.want.ID(), got.ID())

			if diff := cmp.Diff(tt.want, got, cmpopts.IgnoreFields(layers.Dot11InformationElement{}, "BaseLayer")); diff != "" {
				t.Fatalf("unexpected event (-want +got):\n%s", diff)
			}
		})
	}
}

func TestDecodeErrors(t *testing.T) {
	tests := []struct {
		name string
		b    []byte
	}{
		{name: "no id", b: []byte{0x2c, 0x00}},
		{name: "short deauth", b: eventBytes(IDStaDeauth, 0x01, 0x00, 0x00)},
		{name: "short bss start", b: eventBytes(IDBSSStart, 0x00)},
		{name: "short assoc", b: eventBytes(IDStaAssoc, 0x00, 0x11)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Decode(tt.b)
			require.True(t, errors.Is(err, errShortEvent), "got %v", err)
		})
	}

	_, err := Decode(eventBytes(IDStaAssoc, append(append([]byte{}, staMAC...), 0x68, 0x01, 0x10)...))
	require.True(t, errors.Is(err, tlv.ErrTruncated))
}

func TestStaAssocSSID(t *testing.T) {
	e := &StaAssoc{IEs: []layers.Dot11InformationElement{
		{ID: layers.Dot11InformationElementIDRates, Info: []byte{0x82}},
		{ID: layers.Dot11InformationElementIDSSID, Info: []byte("lab")},
	}}
	ssid, ok := e.SSID()
	require.True(t, ok)
	require.Equal(t, "lab", ssid)

	_, ok = (&StaAssoc{}).SSID()
	require.False(t, ok)
}

func TestIDString(t *testing.T) {
	require.Equal(t, "sta-assoc", IDStaAssoc.String())
	require.Equal(t, "unknown(0x80000001)", ID(0x80000001).String())
}

type fakeConn struct {
	mu     sync.Mutex
	msgs   [][]netlink.Message
	err    error
	closed bool
}

func (c *fakeConn) Receive() ([]netlink.Message, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if len(c.msgs) > 0 {
		m := c.msgs[0]
		c.msgs = c.msgs[1:]
		return m, nil
	}
	if c.err != nil {
		return nil, c.err
	}

	time.Sleep(time.Millisecond)
	return nil, &netlink.OpError{Op: "receive", Err: os.ErrDeadlineExceeded}
}

func (c *fakeConn) SetReadDeadline(time.Time) error { return nil }

func (c *fakeConn) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.closed = true
	return nil
}

func TestListenerEvents(t *testing.T) {
	c := &fakeConn{msgs: [][]netlink.Message{
		{
			{Data: eventBytes(IDBSSStart, staMAC...)},
			{Data: []byte{0x01}},
		},
		{
			{Data: eventBytes(IDBSSActive)},
		},
	}}
	l := &Listener{c: c, poll: time.Millisecond}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	events := l.Events(ctx)
	require.Equal(t, IDBSSStart, (<-events).ID())
	require.Equal(t, IDBSSActive, (<-events).ID())

	cancel()
	for range events {
	}
	require.NoError(t, l.Close())
	require.True(t, c.closed)
}

func TestListenerReceiveError(t *testing.T) {
	c := &fakeConn{err: errors.New("socket closed")}
	l := &Listener{c: c, poll: time.Millisecond}

	_, ok := <-l.Events(context.Background())
	require.False(t, ok)
}
