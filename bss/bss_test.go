package bss

import (
	"net"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"
	"github.com/tomiamao/uap/apcmd"
	"github.com/tomiamao/uap/tlv"
	"github.com/tomiamao/uap/validate"
)

func mustMAC(t *testing.T, s string) net.HardwareAddr {
	t.Helper()
	mac, err := net.ParseMAC(s)
	require.NoError(t, err)
	return mac
}

func wpa2Config(t *testing.T) *Config {
	t.Helper()

	b := NewBuilder()
	require.NoError(t, b.SetSSID("TestAP"))
	require.NoError(t, b.SetAPMAC(mustMAC(t, "00:50:43:20:bc:44")))
	require.NoError(t, b.SetBeaconPeriod(100))
	require.NoError(t, b.SetDTIMPeriod(1))
	require.NoError(t, b.SetChannel(36, validate.ModeSecondaryAbove))
	require.NoError(t, b.SetRates([]uint8{0x8c, 0x12, 0x98, 0x24, 0xb0, 0x48, 0x60, 0x6c}))
	require.NoError(t, b.SetTxDataRate(0))
	require.NoError(t, b.SetMCBCDataRate(0x18))
	require.NoError(t, b.SetTxAntenna(1))
	require.NoError(t, b.SetRxAntenna(0))
	require.NoError(t, b.SetProtocol(int64(validate.ProtocolWPA2)))
	require.NoError(t, b.SetKeyMgmt(int64(validate.KeyMgmtPSK)))
	require.NoError(t, b.SetPwkCipherWPA2(int64(validate.CipherAESCCMP)))
	require.NoError(t, b.SetGwkCipher(int64(validate.CipherAESCCMP)))
	require.NoError(t, b.SetPassphrase("1234567890"))
	require.NoError(t, b.SetEnable11n(1))
	require.NoError(t, b.SetHTCapInfo(0x111c))
	require.NoError(t, b.SetAMPDUParam(0x03))
	require.NoError(t, b.SetStickyTIM(1, 10, 0x7))
	require.NoError(t, b.SetEapolPwkHskTimeout(2000))
	require.NoError(t, b.SetEapolPwkHskRetries(3))
	require.NoError(t, b.SetFilter(&MACFilter{
		Mode:    FilterBlock,
		Entries: []net.HardwareAddr{mustMAC(t, "00:11:22:33:44:55")},
	}))

	c, err := b.Build()
	require.NoError(t, err)
	return c
}

func TestConfigRoundTrip(t *testing.T) {
	want := wpa2Config(t)

	b := apcmd.NewBuilder(apcmd.CodeSysConfigure, apcmd.ActionSet)
	require.NoError(t, want.AppendTLVs(b))
	buf := b.Finalize()

	h, err := apcmd.ParseHeader(buf)
	require.NoError(t, err)
	require.Equal(t, len(buf)-apcmd.BufHeaderSize, int(h.Size))

	got, err := Decode(tlv.NewIterator(buf[apcmd.HeaderSize+apcmd.ActionSize:]))
	require.NoError(t, err)

	if diff := cmp.Diff(want, got, cmp.AllowUnexported(Config{}), cmpopts.EquateEmpty()); diff != "" {
		t.Fatalf("unexpected Config (-want +got):\n%s", diff)
	}
}

func TestDecodeKeepsUnknown(t *testing.T) {
	tlvs := []tlv.TLV{
		{Tag: tlv.TagSSID, Data: []byte("x")},
		{Tag: tlv.Tag(0x7777), Data: []byte{1, 2}},
	}

	c, err := DecodeTLVs(tlvs)
	require.NoError(t, err)
	require.True(t, c.HasSSID())
	require.Equal(t, tlvs[1:], c.Unknown)
}

func TestDecodeBadLength(t *testing.T) {
	_, err := DecodeTLVs([]tlv.TLV{{Tag: tlv.TagBeaconPeriod, Data: []byte{1}}})
	if !errors.Is(err, errInvalidTLV) {
		t.Fatalf("expected errInvalidTLV, got: %v", err)
	}
}

func TestDecodeLegacyCipher(t *testing.T) {
	c, err := DecodeTLVs([]tlv.TLV{{Tag: tlv.TagCipher, Data: []byte{validate.CipherAESCCMP, validate.CipherTKIP}}})
	require.NoError(t, err)
	require.Equal(t, validate.CipherAESCCMP, c.PwkCipherWPA2)
	require.Equal(t, validate.CipherTKIP, c.GwkCipher)
}

func TestBuildCrossFieldErrors(t *testing.T) {
	tests := []struct {
		name  string
		setup func(b *Builder) error
		want  error
	}{
		{
			name: "tx rate outside rate set",
			setup: func(b *Builder) error {
				if err := b.SetRates([]uint8{0x82, 0x84, 0x8b, 0x96}); err != nil {
					return err
				}
				return b.SetTxDataRate(108)
			},
			want: validate.ErrInvalidRate,
		},
		{
			name: "tkip with 11n",
			setup: func(b *Builder) error {
				for _, err := range []error{
					b.SetProtocol(int64(validate.ProtocolWPA)),
					b.SetPwkCipherWPA(int64(validate.CipherTKIP)),
					b.SetGwkCipher(int64(validate.CipherTKIP)),
					b.SetEnable11n(1),
				} {
					if err != nil {
						return err
					}
				}
				return nil
			},
			want: validate.ErrCipherMismatch,
		},
		{
			name: "tkip pairwise aes group",
			setup: func(b *Builder) error {
				for _, err := range []error{
					b.SetProtocol(int64(validate.ProtocolWPA2)),
					b.SetPwkCipherWPA2(int64(validate.CipherTKIP)),
					b.SetGwkCipher(int64(validate.CipherAESCCMP)),
				} {
					if err != nil {
						return err
					}
				}
				return nil
			},
			want: validate.ErrCipherMismatch,
		},
		{
			name: "psk without passphrase",
			setup: func(b *Builder) error {
				if err := b.SetProtocol(int64(validate.ProtocolWPA2)); err != nil {
					return err
				}
				return b.SetKeyMgmt(int64(validate.KeyMgmtPSK))
			},
			want: validate.ErrInvalidKey,
		},
		{
			name: "wep without default key",
			setup: func(b *Builder) error {
				if err := b.SetProtocol(int64(validate.ProtocolStaticWEP)); err != nil {
					return err
				}
				return b.SetWEPKey(0, []byte("abcde"), false)
			},
			want: validate.ErrInvalidKey,
		},
		{
			name: "secondary channel without 11n",
			setup: func(b *Builder) error {
				if err := b.SetChannel(6, validate.ModeSecondaryAbove); err != nil {
					return err
				}
				return b.SetEnable11n(0)
			},
			want: validate.ErrInvalidChannel,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := NewBuilder()
			require.NoError(t, tt.setup(b), "setters accept each value on its own")

			_, err := b.Build()
			if !errors.Is(err, tt.want) {
				t.Fatalf("expected %v, got: %v", tt.want, err)
			}
		})
	}
}

func TestBuildDetachesConfig(t *testing.T) {
	b := NewBuilder()
	require.NoError(t, b.SetSSID("first"))
	require.NoError(t, b.SetWEPKey(0, []byte("abcde"), false))
	require.NoError(t, b.SetWEPKey(1, []byte("fghij"), true))

	cfg, err := b.Build()
	require.NoError(t, err)
	want := cfg.TLVs()

	require.NoError(t, b.SetBeaconPeriod(100))
	require.NoError(t, b.SetDefaultWEPKey(0))

	if diff := cmp.Diff(want, cfg.TLVs()); diff != "" {
		t.Fatalf("built config changed after Build (-want +got):\n%s", diff)
	}
	require.False(t, cfg.WEPKeys[0].IsDefault)
	require.True(t, cfg.WEPKeys[1].IsDefault)
}

func TestSetterErrors(t *testing.T) {
	b := NewBuilder()
	require.True(t, errors.Is(b.SetSSID(""), validate.ErrOutOfRange))
	require.True(t, errors.Is(b.SetBeaconPeriod(10), validate.ErrOutOfRange))
	require.True(t, errors.Is(b.SetChannel(15, 0), validate.ErrInvalidChannel))
	require.True(t, errors.Is(b.SetRates([]uint8{2, 4, 11}), validate.ErrMandatoryRate))
	require.True(t, errors.Is(b.SetProtocol(3), validate.ErrInvalidValue))
	require.True(t, errors.Is(b.SetGwkCipher(int64(validate.CipherBitmap)), validate.ErrCipherMismatch))
	require.True(t, errors.Is(b.SetAuthMode(2), validate.ErrInvalidValue))
	require.True(t, errors.Is(b.SetKeyMgmt(3), validate.ErrInvalidValue))
	require.True(t, errors.Is(b.SetWEPKey(4, []byte("abcde"), true), validate.ErrOutOfRange))
	require.True(t, errors.Is(b.SetStaAgeoutTimer(10), validate.ErrOutOfRange))
	require.NoError(t, b.SetStaAgeoutTimer(0))
	require.False(t, b.c.Empty())
}

func TestWEPConfig(t *testing.T) {
	b := NewBuilder()
	require.NoError(t, b.SetProtocol(int64(validate.ProtocolStaticWEP)))
	require.NoError(t, b.SetWEPKey(0, []byte("abcde"), false))
	require.NoError(t, b.SetWEPKey(2, []byte{1, 2, 3, 4, 5}, false))
	require.NoError(t, b.SetDefaultWEPKey(2))

	c, err := b.Build()
	require.NoError(t, err)

	var wep []tlv.TLV
	for _, tt := range c.TLVs() {
		if tt.Tag == tlv.TagWEPKey {
			wep = append(wep, tt)
		}
	}

	want := []tlv.TLV{
		{Tag: tlv.TagWEPKey, Data: []byte{0, 0, 'a', 'b', 'c', 'd', 'e'}},
		{Tag: tlv.TagWEPKey, Data: []byte{2, 1, 1, 2, 3, 4, 5}},
	}
	if diff := cmp.Diff(want, wep); diff != "" {
		t.Fatalf("unexpected WEP TLVs (-want +got):\n%s", diff)
	}
}

func TestMACFilterValidate(t *testing.T) {
	a := mustMAC(t, "00:11:22:33:44:55")

	tests := []struct {
		name string
		f    *MACFilter
		want error
	}{
		{name: "disabled empty", f: &MACFilter{Mode: FilterDisabled}},
		{name: "allow one", f: &MACFilter{Mode: FilterAllow, Entries: []net.HardwareAddr{a}}},
		{name: "block empty", f: &MACFilter{Mode: FilterBlock}, want: validate.ErrCountMismatch},
		{name: "bad mode", f: &MACFilter{Mode: 3, Entries: []net.HardwareAddr{a}}, want: validate.ErrInvalidValue},
		{name: "duplicate", f: &MACFilter{Mode: FilterAllow, Entries: []net.HardwareAddr{a, a}}, want: validate.ErrDuplicateEntry},
		{name: "too many", f: &MACFilter{Mode: FilterAllow, Entries: make([]net.HardwareAddr, 17)}, want: validate.ErrOutOfRange},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.f.Validate()
			if tt.want == nil {
				require.NoError(t, err)
				return
			}
			if !errors.Is(err, tt.want) {
				t.Fatalf("expected %v, got: %v", tt.want, err)
			}
		})
	}
}

func TestMACFilterTruncated(t *testing.T) {
	_, err := unmarshalMACFilter([]byte{1, 2, 0, 1, 2, 3, 4, 5})
	require.True(t, errors.Is(err, errInvalidTLV))
}

func TestDomain(t *testing.T) {
	d := &Domain{
		Country: "US",
		SubBands: []SubBand{
			{FirstChannel: 1, NumChannels: 11, MaxTxPower: 20},
			{FirstChannel: 36, NumChannels: 4, MaxTxPower: 17},
		},
	}
	require.NoError(t, d.Validate())

	got, err := UnmarshalDomain(d.Marshal())
	require.NoError(t, err)
	if diff := cmp.Diff(d, got); diff != "" {
		t.Fatalf("unexpected Domain (-want +got):\n%s", diff)
	}

	d.SubBands = append(d.SubBands, SubBand{FirstChannel: 36, NumChannels: 1, MaxTxPower: 10})
	require.True(t, errors.Is(d.Validate(), validate.ErrDuplicateEntry))

	require.True(t, errors.Is((&Domain{Country: "USA"}).Validate(), validate.ErrInvalidValue))
	require.True(t, errors.Is((&Domain{Country: "US"}).Validate(), validate.ErrOutOfRange))

	_, err = UnmarshalDomain([]byte{'U', 'S', ' ', 1})
	require.True(t, errors.Is(err, errInvalidTLV))
}

func TestStationList(t *testing.T) {
	want := []*StationInfo{
		{HardwareAddr: mustMAC(t, "00:11:22:33:44:55"), Signal: -42},
		{HardwareAddr: mustMAC(t, "00:11:22:33:44:66"), PowerSave: true, Signal: -70},
	}

	body := tlv.Uint16(uint16(len(want)))
	for _, s := range want {
		var err error
		body, err = tlv.AppendEncode(body, tlv.TagStaInfo, MarshalStationInfo(s))
		require.NoError(t, err)
	}

	got, err := ParseStationList(body)
	require.NoError(t, err)
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("unexpected stations (-want +got):\n%s", diff)
	}

	// Declared count disagrees with the TLVs present.
	body[0] = 3
	_, err = ParseStationList(body)
	require.True(t, errors.Is(err, errInvalidTLV))
}

func TestMarshalDeauth(t *testing.T) {
	got := MarshalDeauth(mustMAC(t, "00:11:22:33:44:55"), ReasonLeaving)
	require.Equal(t, []byte{0x00, 0x11, 0x22, 0x33, 0x44, 0x55, 0x03, 0x00}, got)
}
