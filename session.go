package uap

import (
	"bytes"
	"context"
	"net"
	"sync"

	"github.com/pkg/errors"
	"github.com/tomiamao/uap/apcmd"
	"github.com/tomiamao/uap/bss"
	"github.com/tomiamao/uap/customie"
	"github.com/tomiamao/uap/tlv"
	"github.com/tomiamao/uap/transport"
	"github.com/tomiamao/uap/validate"
	"k8s.io/klog/v2"
)

var errMissingTLV = errors.New("response is missing a TLV")

// A client runs one host command at a time over a transport.
type client struct {
	mu sync.Mutex
	t  transport.Transport
}

func newClient(t transport.Transport) *client {
	return &client{t: t}
}

// Close closes the transport.
func (c *client) Close() error { return c.t.Close() }

// execute sends the command built by b and decodes the response. Transport
// errors are returned unchanged.
func (c *client) execute(ctx context.Context, b *apcmd.Builder) (*apcmd.Response, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	klog.V(4).Infof("uap: sending %s (%d bytes)", b.Code(), b.Len())
	buf, err := c.t.SendCommand(ctx, b.Finalize())
	if err != nil {
		return nil, err
	}

	return apcmd.DecodeResponse(b, buf)
}

// get performs a GET of code for tags, each sent with an empty payload,
// and returns every TLV in the response.
func (c *client) get(ctx context.Context, code apcmd.Code, tags []tlv.Tag) ([]tlv.TLV, error) {
	b := apcmd.NewBuilder(code, apcmd.ActionGet)
	for _, t := range tags {
		if err := b.AppendEmpty(t); err != nil {
			return nil, err
		}
	}

	r, err := c.execute(ctx, b)
	if err != nil {
		return nil, err
	}
	return r.ParseTLVs()
}

// set performs a SET of code carrying tlvs.
func (c *client) set(ctx context.Context, code apcmd.Code, tlvs []tlv.TLV) error {
	b := apcmd.NewBuilder(code, apcmd.ActionSet)
	for _, t := range tlvs {
		if err := b.AppendTLV(t.Tag, t.Data); err != nil {
			return err
		}
	}

	_, err := c.execute(ctx, b)
	return err
}

// simple runs a command that has neither an action nor TLVs.
func (c *client) simple(ctx context.Context, code apcmd.Code, body []byte) (*apcmd.Response, error) {
	b := apcmd.NewBuilderNoAction(code)
	if body != nil {
		if err := b.AppendRaw(body); err != nil {
			return nil, err
		}
	}
	return c.execute(ctx, b)
}

func (c *client) SysConfig(ctx context.Context) (*bss.Config, error) {
	tlvs, err := c.get(ctx, apcmd.CodeSysConfigure, bss.QueryTags())
	if err != nil {
		return nil, err
	}
	return bss.DecodeTLVs(tlvs)
}

func (c *client) SetSysConfig(ctx context.Context, cfg *bss.Config) error {
	if cfg.Empty() {
		return &validate.Error{Kind: validate.ErrInvalidValue, Detail: "empty configuration"}
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	b := apcmd.NewBuilder(apcmd.CodeSysConfigure, apcmd.ActionSet)
	if err := cfg.AppendTLVs(b); err != nil {
		return err
	}
	_, err := c.execute(ctx, b)
	return err
}

func (c *client) GetTLVs(ctx context.Context, tags ...tlv.Tag) ([]tlv.TLV, error) {
	return c.get(ctx, apcmd.CodeSysConfigure, tags)
}

func (c *client) SetTLVs(ctx context.Context, tlvs []tlv.TLV) error {
	return c.set(ctx, apcmd.CodeSysConfigure, tlvs)
}

func (c *client) BSSStart(ctx context.Context) error {
	_, err := c.simple(ctx, apcmd.CodeBSSStart, nil)
	return err
}

func (c *client) BSSStop(ctx context.Context) error {
	_, err := c.simple(ctx, apcmd.CodeBSSStop, nil)
	return err
}

func (c *client) SysReset(ctx context.Context) error {
	_, err := c.simple(ctx, apcmd.CodeSysReset, nil)
	return err
}

func (c *client) SysInfo(ctx context.Context) (string, error) {
	r, err := c.simple(ctx, apcmd.CodeSysInfo, nil)
	if err != nil {
		return "", err
	}

	info := r.Body
	if i := bytes.IndexByte(info, 0); i >= 0 {
		info = info[:i]
	}
	return string(info), nil
}

func (c *client) StationList(ctx context.Context) ([]*bss.StationInfo, error) {
	r, err := c.simple(ctx, apcmd.CodeStaList, nil)
	if err != nil {
		return nil, err
	}
	return bss.ParseStationList(r.Body)
}

func (c *client) Deauth(ctx context.Context, mac net.HardwareAddr, reason uint16) error {
	if len(mac) != 6 {
		return &validate.Error{Kind: validate.ErrInvalidMAC, Field: "sta_mac", Detail: mac.String()}
	}
	_, err := c.simple(ctx, apcmd.CodeStaDeauth, bss.MarshalDeauth(mac, reason))
	return err
}

func (c *client) MACFilter(ctx context.Context) (*bss.MACFilter, error) {
	tlvs, err := c.get(ctx, apcmd.CodeSysConfigure, []tlv.Tag{tlv.TagStaMACAddrFilter})
	if err != nil {
		return nil, err
	}

	cfg, err := bss.DecodeTLVs(tlvs)
	if err != nil {
		return nil, err
	}
	if !cfg.HasFilter() {
		return nil, errors.Wrapf(errMissingTLV, "%s", tlv.TagStaMACAddrFilter)
	}
	return cfg.Filter, nil
}

func (c *client) SetMACFilter(ctx context.Context, f *bss.MACFilter) error {
	b := bss.NewBuilder()
	if err := b.SetFilter(f); err != nil {
		return err
	}
	cfg, err := b.Build()
	if err != nil {
		return err
	}
	return c.SetSysConfig(ctx, cfg)
}

func (c *client) Set80211D(ctx context.Context, enable bool) error {
	var v uint16
	if enable {
		v = 1
	}

	b := apcmd.NewBuilder(apcmd.CodeSNMPMIB, apcmd.ActionSet)
	if err := b.AppendUint16(tlv.TagOIDDot11D, v); err != nil {
		return err
	}
	_, err := c.execute(ctx, b)
	return err
}

func (c *client) SetDomain(ctx context.Context, d *bss.Domain) error {
	if err := d.Validate(); err != nil {
		return err
	}
	if err := c.Set80211D(ctx, true); err != nil {
		return errors.Wrap(err, "enable 802.11d")
	}
	return c.set(ctx, apcmd.CodeDomainInfo, []tlv.TLV{{Tag: tlv.TagDomain, Data: d.Marshal()}})
}

func (c *client) CustomIE(ctx context.Context) ([]customie.Entry, error) {
	tlvs, err := c.get(ctx, apcmd.CodeSysConfigure, []tlv.Tag{tlv.TagMgmtIEList})
	if err != nil {
		return nil, err
	}

	t, ok := tlv.Find(tlvs, tlv.TagMgmtIEList)
	if !ok {
		return nil, errors.Wrapf(errMissingTLV, "%s", tlv.TagMgmtIEList)
	}
	return customie.Unmarshal(t.Data)
}

func (c *client) SetCustomIE(ctx context.Context, entries []customie.Entry) error {
	b, err := customie.Marshal(entries)
	if err != nil {
		return err
	}
	return c.SetTLVs(ctx, []tlv.TLV{{Tag: tlv.TagMgmtIEList, Data: b}})
}
