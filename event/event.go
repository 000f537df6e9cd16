// Package event decodes the asynchronous events a uAP driver broadcasts
// over netlink.
package event

import (
	"fmt"
	"net"

	"github.com/google/gopacket"
	"github.com/google/gopacket/layers"
	"github.com/josharian/native"
	"github.com/pkg/errors"
	"github.com/tomiamao/uap/customie"
	"github.com/tomiamao/uap/tlv"
)

// An ID identifies a driver event.
type ID uint32

// Known event IDs.
const (
	IDStaDeauth  ID = 0x2c
	IDStaAssoc   ID = 0x2d
	IDBSSStart   ID = 0x2e
	IDDebug      ID = 0x36
	IDBSSIdle    ID = 0x43
	IDBSSActive  ID = 0x44
	IDRSNConnect ID = 0x51
)

// String returns the string representation of an ID.
func (id ID) String() string {
	switch id {
	case IDStaDeauth:
		return "sta-deauth"
	case IDStaAssoc:
		return "sta-assoc"
	case IDBSSStart:
		return "bss-start"
	case IDDebug:
		return "debug"
	case IDBSSIdle:
		return "bss-idle"
	case IDBSSActive:
		return "bss-active"
	case IDRSNConnect:
		return "rsn-connect"
	default:
		return fmt.Sprintf("unknown(0x%08x)", uint32(id))
	}
}

const (
	idLen        = 4
	macLen       = 6
	reasonLen    = 2
	dot11HdrLen  = 24
	assocFixLen  = 4
	reassocFixed = assocFixLen + macLen
)

var errShortEvent = errors.New("event too short")

// An Event is one decoded driver event.
type Event interface {
	ID() ID
}

// StaAssoc reports a station that associated with the BSS.
type StaAssoc struct {
	HardwareAddr net.HardwareAddr

	// Set when the driver forwards the (re)association request.
	Reassoc        bool
	CapabilityInfo uint16
	ListenInterval uint16
	IEs            []layers.Dot11InformationElement
}

// ID implements Event.
func (*StaAssoc) ID() ID { return IDStaAssoc }

// StaDeauth reports a station that left the BSS.
type StaDeauth struct {
	HardwareAddr net.HardwareAddr
	Reason       uint16
}

// ID implements Event.
func (*StaDeauth) ID() ID { return IDStaDeauth }

// BSSStart reports that the BSS came up.
type BSSStart struct {
	HardwareAddr net.HardwareAddr
}

// ID implements Event.
func (*BSSStart) ID() ID { return IDBSSStart }

// BSSIdle reports that the last station left the BSS.
type BSSIdle struct{}

// ID implements Event.
func (*BSSIdle) ID() ID { return IDBSSIdle }

// BSSActive reports that the first station joined the BSS.
type BSSActive struct{}

// ID implements Event.
func (*BSSActive) ID() ID { return IDBSSActive }

// Unknown carries an event this package does not decode.
type Unknown struct {
	EventID ID
	Data    []byte
}

// ID implements Event.
func (u *Unknown) ID() ID { return u.EventID }

// Decode parses one event. The event ID is in host byte order; the body
// layout depends on the ID.
func Decode(b []byte) (Event, error) {
	if len(b) < idLen {
		return nil, errors.Wrapf(errShortEvent, "%d bytes", len(b))
	}
	id := ID(native.Endian.Uint32(b[:idLen]))
	body := b[idLen:]

	switch id {
	case IDStaAssoc:
		return decodeStaAssoc(body)
	case IDStaDeauth:
		if len(body) < reasonLen+macLen {
			return nil, errors.Wrapf(errShortEvent, "%s: %d bytes", id, len(body))
		}
		reason, _ := tlv.ReadUint16(body, 0)
		return &StaDeauth{
			HardwareAddr: mac(body[reasonLen:]),
			Reason:       reason,
		}, nil
	case IDBSSStart:
		if len(body) < macLen {
			return nil, errors.Wrapf(errShortEvent, "%s: %d bytes", id, len(body))
		}
		return &BSSStart{HardwareAddr: mac(body)}, nil
	case IDBSSIdle:
		return &BSSIdle{}, nil
	case IDBSSActive:
		return &BSSActive{}, nil
	default:
		return &Unknown{EventID: id, Data: append([]byte(nil), body...)}, nil
	}
}

func mac(b []byte) net.HardwareAddr {
	return append(net.HardwareAddr(nil), b[:macLen]...)
}

func decodeStaAssoc(body []byte) (*StaAssoc, error) {
	if len(body) < macLen {
		return nil, errors.Wrapf(errShortEvent, "%s: %d bytes", IDStaAssoc, len(body))
	}
	e := &StaAssoc{HardwareAddr: mac(body)}

	it := tlv.NewIterator(body[macLen:])
	for it.Next() {
		t := it.TLV()
		if t.Tag != tlv.TagMgmtFrame {
			continue
		}
		if err := e.decodeFrame(t.Data); err != nil {
			return nil, err
		}
	}
	if err := it.Err(); err != nil {
		return nil, errors.Wrapf(err, "%s", IDStaAssoc)
	}

	return e, nil
}

// decodeFrame reads the fixed fields and IEs of a forwarded
// (re)association request.
func (e *StaAssoc) decodeFrame(frame []byte) error {
	if len(frame) < dot11HdrLen {
		return errors.Wrapf(errShortEvent, "management frame of %d bytes", len(frame))
	}
	body := frame[dot11HdrLen:]

	var payload []byte
	switch layers.Dot11Type((frame[0] & 0xfc) >> 2) {
	case layers.Dot11TypeMgmtAssociationReq:
		var req layers.Dot11MgmtAssociationReq
		if len(body) < assocFixLen {
			return errors.Wrap(errShortEvent, "association request")
		}
		if err := req.DecodeFromBytes(body, gopacket.NilDecodeFeedback); err != nil {
			return errors.Wrap(err, "association request")
		}
		e.CapabilityInfo, e.ListenInterval = req.CapabilityInfo, req.ListenInterval
		payload = body[assocFixLen:]
	case layers.Dot11TypeMgmtReassociationReq:
		var req layers.Dot11MgmtReassociationReq
		if len(body) < reassocFixed {
			return errors.Wrap(errShortEvent, "reassociation request")
		}
		if err := req.DecodeFromBytes(body, gopacket.NilDecodeFeedback); err != nil {
			return errors.Wrap(err, "reassociation request")
		}
		e.Reassoc = true
		e.CapabilityInfo, e.ListenInterval = req.CapabilityInfo, req.ListenInterval
		payload = body[reassocFixed:]
	default:
		return nil
	}

	ies, err := customie.DecodeIEs(payload)
	if err != nil {
		return err
	}
	e.IEs = ies
	return nil
}

// SSID returns the SSID the station asked for, if its request carried one.
func (e *StaAssoc) SSID() (string, bool) {
	for _, ie := range e.IEs {
		if ie.ID == layers.Dot11InformationElementIDSSID {
			return string(ie.Info), true
		}
	}
	return "", false
}
