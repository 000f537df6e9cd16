package tlv

import (
	"bytes"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"
)

func TestEncodeDecodeRoundTrip(t *testing.T) {
	tests := []struct {
		name    string
		tag     Tag
		payload []byte
	}{
		{name: "empty", tag: TagSSID},
		{name: "ssid", tag: TagSSID, payload: []byte("TestAP")},
		{name: "u16", tag: TagBeaconPeriod, payload: Uint16(100)},
		{name: "max", tag: TagMgmtIEList, payload: bytes.Repeat([]byte{0xa5}, MaxPayload)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b, err := Encode(tt.tag, tt.payload)
			require.NoError(t, err)

			tag, n := DecodeHeader(b, 0)
			if tag != tt.tag || int(n) != len(tt.payload) {
				t.Fatalf("unexpected header: (%s, %d), want (%s, %d)", tag, n, tt.tag, len(tt.payload))
			}

			tlvs, err := Parse(b)
			require.NoError(t, err)
			require.Len(t, tlvs, 1)

			if !bytes.Equal(tt.payload, tlvs[0].Data) {
				t.Fatalf("payload changed in round trip")
			}
		})
	}
}

func TestEncodeTooLarge(t *testing.T) {
	_, err := Encode(TagMgmtIEList, make([]byte, MaxPayload+1))
	if !errors.Is(err, ErrPayloadTooLarge) {
		t.Fatalf("expected ErrPayloadTooLarge, got: %v", err)
	}
}

func testBuffer(t *testing.T) ([]byte, []TLV) {
	t.Helper()

	want := []TLV{
		{Tag: TagSSID, Data: []byte("TestAP")},
		{Tag: TagBeaconPeriod, Data: Uint16(100)},
		{Tag: TagRates, Data: []byte{0x82, 0x84, 0x8b, 0x96}},
		{Tag: TagBSSStatus, Data: []byte{}},
	}

	var b []byte
	for _, w := range want {
		var err error
		b, err = AppendEncode(b, w.Tag, w.Data)
		require.NoError(t, err)
	}

	return b, want
}

func TestParseOrder(t *testing.T) {
	b, want := testBuffer(t)

	got, err := Parse(b)
	require.NoError(t, err)

	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("unexpected TLVs (-want +got):\n%s", diff)
	}
}

func TestIteratorTruncation(t *testing.T) {
	b, want := testBuffer(t)

	// Offsets where a TLV ends.
	boundaries := map[int]int{0: 0}
	off := 0
	for i, w := range want {
		off += w.Len()
		boundaries[off] = i + 1
	}

	for k := 0; k < len(b); k++ {
		it := NewIterator(b[:k])
		var got []TLV
		for it.Next() {
			got = append(got, it.TLV())
		}

		if n, ok := boundaries[k]; ok {
			require.NoError(t, it.Err(), "prefix %d ends on a boundary", k)
			if diff := cmp.Diff(want[:n], got, cmpopts.EquateEmpty()); diff != "" {
				t.Fatalf("prefix %d: unexpected TLVs (-want +got):\n%s", k, diff)
			}
			continue
		}

		if !errors.Is(it.Err(), ErrTruncated) {
			t.Fatalf("prefix %d: expected ErrTruncated, got: %v", k, it.Err())
		}
		if len(got) > len(want) {
			t.Fatalf("prefix %d: too many TLVs: %d", k, len(got))
		}
		for i := range got {
			if got[i].Tag != want[i].Tag || !bytes.Equal(got[i].Data, want[i].Data) {
				t.Fatalf("prefix %d: TLV %d is not a prefix of the original", k, i)
			}
		}
	}
}

func TestIteratorReset(t *testing.T) {
	b, want := testBuffer(t)

	it := NewIterator(b)
	for i := 0; i < 2; i++ {
		n := 0
		for it.Next() {
			n++
		}
		require.NoError(t, it.Err())
		require.Equal(t, len(want), n)
		require.Equal(t, len(b), it.Offset())
		it.Reset()
	}
}

func TestIteratorLengthPastEnd(t *testing.T) {
	// Declares 0xffff bytes of payload but carries two.
	b := []byte{0x00, 0x00, 0xff, 0xff, 'h', 'i'}

	_, err := Parse(b)
	if !errors.Is(err, ErrTruncated) {
		t.Fatalf("expected ErrTruncated, got: %v", err)
	}
}

func TestReadWriteHelpers(t *testing.T) {
	b := make([]byte, 6)
	require.NoError(t, WriteUint16(b, 0, 0x1234))
	require.NoError(t, WriteUint32(b, 2, 0xdeadbeef))

	if diff := cmp.Diff([]byte{0x34, 0x12, 0xef, 0xbe, 0xad, 0xde}, b); diff != "" {
		t.Fatalf("unexpected encoding (-want +got):\n%s", diff)
	}

	v16, err := ReadUint16(b, 0)
	require.NoError(t, err)
	require.Equal(t, uint16(0x1234), v16)

	v32, err := ReadUint32(b, 2)
	require.NoError(t, err)
	require.Equal(t, uint32(0xdeadbeef), v32)

	_, err = ReadUint32(b, 3)
	require.True(t, errors.Is(err, ErrTruncated))
	require.Error(t, WriteUint16(b, 5, 1))
}

func TestFind(t *testing.T) {
	b, _ := testBuffer(t)
	tlvs, err := Parse(b)
	require.NoError(t, err)

	got, ok := Find(tlvs, TagRates)
	require.True(t, ok)
	require.Equal(t, []byte{0x82, 0x84, 0x8b, 0x96}, got.Data)

	_, ok = Find(tlvs, TagCipher)
	require.False(t, ok)
}

func TestTagString(t *testing.T) {
	require.Equal(t, "ssid", TagSSID.String())
	require.Equal(t, "unknown(0x7777)", Tag(0x7777).String())
}
