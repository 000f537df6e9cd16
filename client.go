// Package uap configures Marvell micro-AP devices through the driver's host
// command interface.
package uap

import (
	"context"
	"net"

	"github.com/tomiamao/uap/bss"
	"github.com/tomiamao/uap/customie"
	"github.com/tomiamao/uap/tlv"
	"github.com/tomiamao/uap/transport"
)

// A Client issues uAP host commands over a transport.Transport. Commands
// are serialized; a Client is safe for concurrent use.
type Client struct {
	c *client
}

// New creates a Client that sends commands over t.
func New(t transport.Transport) *Client {
	return &Client{c: newClient(t)}
}

// Close releases the underlying transport.
func (c *Client) Close() error {
	return c.c.Close()
}

// SysConfig reads the complete AP configuration.
func (c *Client) SysConfig(ctx context.Context) (*bss.Config, error) {
	return c.c.SysConfig(ctx)
}

// SetSysConfig validates cfg and writes every field it sets in one command.
func (c *Client) SetSysConfig(ctx context.Context, cfg *bss.Config) error {
	return c.c.SetSysConfig(ctx, cfg)
}

// GetTLVs reads the named TLVs with a sys_configure GET.
func (c *Client) GetTLVs(ctx context.Context, tags ...tlv.Tag) ([]tlv.TLV, error) {
	return c.c.GetTLVs(ctx, tags...)
}

// SetTLVs writes raw TLVs with a sys_configure SET. No validation is done.
func (c *Client) SetTLVs(ctx context.Context, tlvs []tlv.TLV) error {
	return c.c.SetTLVs(ctx, tlvs)
}

// BSSStart starts the BSS with the current configuration.
func (c *Client) BSSStart(ctx context.Context) error {
	return c.c.BSSStart(ctx)
}

// BSSStop stops the BSS.
func (c *Client) BSSStop(ctx context.Context) error {
	return c.c.BSSStop(ctx)
}

// SysReset restores the firmware defaults.
func (c *Client) SysReset(ctx context.Context) error {
	return c.c.SysReset(ctx)
}

// SysInfo returns the firmware's system information string.
func (c *Client) SysInfo(ctx context.Context) (string, error) {
	return c.c.SysInfo(ctx)
}

// StationList returns the associated stations.
func (c *Client) StationList(ctx context.Context) ([]*bss.StationInfo, error) {
	return c.c.StationList(ctx)
}

// Deauth disconnects a station.
func (c *Client) Deauth(ctx context.Context, mac net.HardwareAddr, reason uint16) error {
	return c.c.Deauth(ctx, mac, reason)
}

// MACFilter reads the station MAC filter table.
func (c *Client) MACFilter(ctx context.Context) (*bss.MACFilter, error) {
	return c.c.MACFilter(ctx)
}

// SetMACFilter replaces the station MAC filter table.
func (c *Client) SetMACFilter(ctx context.Context, f *bss.MACFilter) error {
	return c.c.SetMACFilter(ctx, f)
}

// Set80211D enables or disables 802.11d.
func (c *Client) Set80211D(ctx context.Context, enable bool) error {
	return c.c.Set80211D(ctx, enable)
}

// SetDomain enables 802.11d and programs the country information.
func (c *Client) SetDomain(ctx context.Context, d *bss.Domain) error {
	return c.c.SetDomain(ctx, d)
}

// CustomIE reads every custom IE slot.
func (c *Client) CustomIE(ctx context.Context) ([]customie.Entry, error) {
	return c.c.CustomIE(ctx)
}

// SetCustomIE writes custom IE slots. An entry with MaskDelete and no IEs
// clears its slot.
func (c *Client) SetCustomIE(ctx context.Context, entries []customie.Entry) error {
	return c.c.SetCustomIE(ctx, entries)
}
