package apcmd

import (
	"encoding/binary"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"
	"github.com/tomiamao/uap/tlv"
)

// echo turns a request into the response a well-behaved device would send.
func echo(req []byte) []byte {
	resp := append([]byte(nil), req...)
	code := binary.LittleEndian.Uint16(resp[4:6])
	binary.LittleEndian.PutUint16(resp[4:6], code|RespCheck)
	return resp
}

func TestBuilderHeaderSize(t *testing.T) {
	tests := []struct {
		name string
		b    *Builder
		tlvs int
	}{
		{name: "no action", b: NewBuilderNoAction(CodeBSSStart)},
		{name: "action only", b: NewBuilder(CodeSysConfigure, ActionGet)},
		{name: "one tlv", b: NewBuilder(CodeSysConfigure, ActionSet), tlvs: 1},
		{name: "many tlvs", b: NewBuilder(CodeSysConfigure, ActionSet), tlvs: 100},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for i := 0; i < tt.tlvs; i++ {
				require.NoError(t, tt.b.AppendUint16(tlv.TagBeaconPeriod, uint16(i)))
			}

			buf := tt.b.Finalize()
			h, err := ParseHeader(buf)
			require.NoError(t, err)

			if int(h.Size) != len(buf)-BufHeaderSize {
				t.Fatalf("unexpected size: %d, want %d", h.Size, len(buf)-BufHeaderSize)
			}
			if h.SeqNum != 0 || h.Result != 0 {
				t.Fatalf("unexpected seq_num/result: %d/%d", h.SeqNum, h.Result)
			}
			require.Equal(t, uint16(tt.b.Code()), h.Code)
			require.Equal(t, tt.b.Header().Size, h.Size)
		})
	}
}

func TestBuilderBufferFull(t *testing.T) {
	b := NewBuilder(CodeSysConfigure, ActionSet)
	err := b.AppendTLV(tlv.TagMgmtIEList, make([]byte, MaxBufSize))
	if !errors.Is(err, ErrBufferFull) {
		t.Fatalf("expected ErrBufferFull, got: %v", err)
	}

	// A failed append leaves the buffer untouched.
	require.Equal(t, HeaderSize+ActionSize, b.Len())
}

func TestSetSSIDEndToEnd(t *testing.T) {
	b := NewBuilder(CodeSysConfigure, ActionSet)
	require.NoError(t, b.AppendTLV(tlv.TagSSID, []byte("TestAP")))

	req := b.Finalize()
	resp, err := DecodeResponse(b, echo(req))
	require.NoError(t, err)

	require.True(t, resp.HasAction)
	require.Equal(t, ActionSet, resp.Action)

	tlvs, err := resp.ParseTLVs()
	require.NoError(t, err)

	want := []tlv.TLV{{Tag: tlv.TagSSID, Data: []byte("TestAP")}}
	if diff := cmp.Diff(want, tlvs); diff != "" {
		t.Fatalf("unexpected TLVs (-want +got):\n%s", diff)
	}
}

func TestDecodeResponseErrors(t *testing.T) {
	newReq := func() (*Builder, []byte) {
		b := NewBuilder(CodeSysConfigure, ActionGet)
		_ = b.AppendEmpty(tlv.TagSSID)
		return b, b.Finalize()
	}

	tests := []struct {
		name   string
		mutate func(resp []byte) []byte
		want   error
	}{
		{
			name: "missing response bit",
			mutate: func(resp []byte) []byte {
				binary.LittleEndian.PutUint16(resp[4:6], uint16(CodeSysConfigure))
				return resp
			},
			want: ErrResponseMismatch,
		},
		{
			name: "different command",
			mutate: func(resp []byte) []byte {
				binary.LittleEndian.PutUint16(resp[4:6], uint16(CodeBSSStart)|RespCheck)
				return resp
			},
			want: ErrResponseMismatch,
		},
		{
			name:   "size past buffer",
			mutate: func(resp []byte) []byte { binary.LittleEndian.PutUint16(resp[6:8], 0x400); return resp },
			want:   ErrResponseTooLarge,
		},
		{
			name:   "short header",
			mutate: func(resp []byte) []byte { return resp[:HeaderSize-1] },
			want:   ErrShortBuffer,
		},
		{
			name:   "device error",
			mutate: func(resp []byte) []byte { binary.LittleEndian.PutUint16(resp[10:12], 1); return resp },
			want:   ErrCommandFailed,
		},
		{
			name: "truncated action",
			mutate: func(resp []byte) []byte {
				binary.LittleEndian.PutUint16(resp[6:8], HeaderSize-BufHeaderSize+1)
				return resp
			},
			want: ErrTruncatedTLV,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b, req := newReq()
			_, err := DecodeResponse(b, tt.mutate(echo(req)))
			if !errors.Is(err, tt.want) {
				t.Fatalf("expected %v, got: %v", tt.want, err)
			}
		})
	}
}

func TestDecodeResponseTruncatedTLV(t *testing.T) {
	b := NewBuilder(CodeSysConfigure, ActionGet)
	require.NoError(t, b.AppendTLV(tlv.TagSSID, []byte("TestAP")))
	req := b.Finalize()

	resp := echo(req)
	// Shrink the declared size so the SSID TLV is cut short.
	binary.LittleEndian.PutUint16(resp[6:8], uint16(len(resp)-BufHeaderSize-2))

	r, err := DecodeResponse(b, resp)
	require.NoError(t, err)

	_, err = r.ParseTLVs()
	if !errors.Is(err, ErrTruncatedTLV) {
		t.Fatalf("expected ErrTruncatedTLV, got: %v", err)
	}
}

func TestResultError(t *testing.T) {
	err := error(&ResultError{Code: CodeBSSStart, Result: 2})
	require.True(t, errors.Is(err, ErrCommandFailed))

	var re *ResultError
	require.True(t, errors.As(err, &re))
	require.Equal(t, uint16(2), re.Result)
}

func TestSetBufSize(t *testing.T) {
	buf := NewBuilderNoAction(CodeStaList).Finalize()
	require.NoError(t, SetBufSize(buf, MaxBufSize))

	h, err := ParseHeader(buf)
	require.NoError(t, err)
	require.Equal(t, uint32(MaxBufSize-BufHeaderSize), h.BufSize)
}
