package transport

import (
	"context"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"
	"github.com/tomiamao/uap/apcmd"
	"github.com/tomiamao/uap/tlv"
)

func sysInfoRequest(t *testing.T) []byte {
	t.Helper()
	return apcmd.NewBuilderNoAction(apcmd.CodeSysInfo).Finalize()
}

// respond turns a request buffer into an empty successful response.
func respond(_ context.Context, buf []byte) ([]byte, error) {
	code, _ := tlv.ReadUint16(buf, 4)
	_ = tlv.WriteUint16(buf, 4, code|apcmd.RespCheck)
	size, _ := tlv.ReadUint16(buf, 6)
	return buf[:apcmd.BufHeaderSize+int(size)], nil
}

func TestLoopbackSendCommand(t *testing.T) {
	var got []byte
	l := NewLoopback(func(ctx context.Context, buf []byte) ([]byte, error) {
		require.Len(t, buf, apcmd.MaxBufSize)
		got = append([]byte(nil), buf[:apcmd.HeaderSize]...)
		return respond(ctx, buf)
	})
	defer l.Close()

	req := sysInfoRequest(t)
	resp, err := l.SendCommand(context.Background(), req)
	require.NoError(t, err)

	// buf_size carries the capacity left for the response.
	want := []byte{0xfc, 0x07, 0x00, 0x00, 0xae, 0x00, 0x08, 0x00, 0x00, 0x00, 0x00, 0x00}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("unexpected request header (-want +got):\n%s", diff)
	}

	h, err := apcmd.ParseHeader(resp)
	require.NoError(t, err)
	require.True(t, h.IsResponse())
	require.Equal(t, apcmd.CodeSysInfo, h.BaseCode())
}

func TestLoopbackErrors(t *testing.T) {
	boom := errors.New("boom")
	l := NewLoopback(func(context.Context, []byte) ([]byte, error) { return nil, boom })

	_, err := l.SendCommand(context.Background(), sysInfoRequest(t))
	var terr *Error
	require.True(t, errors.As(err, &terr))
	require.True(t, errors.Is(err, boom))

	_, err = l.SendCommand(context.Background(), []byte{1, 2, 3})
	require.True(t, errors.Is(err, apcmd.ErrShortBuffer))

	_, err = l.SendCommand(context.Background(), make([]byte, apcmd.MaxBufSize+1))
	require.True(t, errors.Is(err, apcmd.ErrBufferFull))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = l.SendCommand(ctx, sysInfoRequest(t))
	require.True(t, errors.Is(err, context.Canceled))

	require.NoError(t, l.Close())
	_, err = l.SendCommand(context.Background(), sysInfoRequest(t))
	require.True(t, errors.Is(err, ErrClosed))
}

func TestLoopbackCopiesRequest(t *testing.T) {
	l := NewLoopback(func(ctx context.Context, buf []byte) ([]byte, error) {
		buf[apcmd.HeaderSize-1] = 0xff
		return respond(ctx, buf)
	})

	req := sysInfoRequest(t)
	_, err := l.SendCommand(context.Background(), req)
	require.NoError(t, err)
	require.Equal(t, byte(0), req[apcmd.HeaderSize-1])
}

func TestWithTimeout(t *testing.T) {
	release := make(chan struct{})
	defer close(release)

	slow := NewLoopback(func(ctx context.Context, buf []byte) ([]byte, error) {
		<-release
		return respond(ctx, buf)
	})

	tt := WithTimeout(slow, 20*time.Millisecond)
	_, err := tt.SendCommand(context.Background(), sysInfoRequest(t))
	require.Error(t, err)

	var terr *Error
	require.True(t, errors.As(err, &terr))
	require.True(t, terr.Timeout())
	require.True(t, errors.Is(err, context.DeadlineExceeded))
}

func TestWithTimeoutPassesThrough(t *testing.T) {
	l := NewLoopback(respond)
	require.Equal(t, Transport(l), WithTimeout(l, 0))

	resp, err := WithTimeout(l, time.Second).SendCommand(context.Background(), sysInfoRequest(t))
	require.NoError(t, err)
	require.Len(t, resp, apcmd.HeaderSize)
}

func TestErrorString(t *testing.T) {
	err := &Error{Op: "ioctl", Iface: "uap0", Err: errors.New("no such device")}
	require.Equal(t, "ioctl uap0: no such device", err.Error())
	require.False(t, err.Timeout())

	err = &Error{Op: "send", Err: context.Canceled}
	require.Equal(t, "send: context canceled", err.Error())
}
