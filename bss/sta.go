package bss

import (
	"encoding/binary"
	"net"

	"github.com/pkg/errors"
	"github.com/tomiamao/uap/tlv"
)

const staInfoLen = 8

// StationInfo describes one associated station.
type StationInfo struct {
	HardwareAddr net.HardwareAddr
	PowerSave    bool
	// Signal is the RSSI of the last received frame in dBm.
	Signal int
}

// ParseStationList decodes the body of a sta_list response: a station
// count followed by one station info TLV per station.
func ParseStationList(body []byte) ([]*StationInfo, error) {
	n, err := tlv.ReadUint16(body, 0)
	if err != nil {
		return nil, err
	}

	stations := make([]*StationInfo, 0, n)
	it := tlv.NewIterator(body[2:])
	for it.Next() {
		t := it.TLV()
		if t.Tag != tlv.TagStaInfo {
			continue
		}
		if len(t.Data) < staInfoLen {
			return nil, errors.Wrapf(errInvalidTLV, "sta info: %d bytes", len(t.Data))
		}

		stations = append(stations, &StationInfo{
			HardwareAddr: net.HardwareAddr(append([]byte(nil), t.Data[:6]...)),
			PowerSave:    t.Data[6] != 0,
			Signal:       int(int8(t.Data[7])),
		})
	}
	if err := it.Err(); err != nil {
		return nil, err
	}
	if len(stations) != int(n) {
		return nil, errors.Wrapf(errInvalidTLV, "sta list: count %d, decoded %d", n, len(stations))
	}

	return stations, nil
}

// MarshalStationInfo encodes the payload of a station info TLV.
func MarshalStationInfo(s *StationInfo) []byte {
	b := make([]byte, staInfoLen)
	copy(b, s.HardwareAddr)
	if s.PowerSave {
		b[6] = 1
	}
	b[7] = uint8(int8(s.Signal))
	return b
}

// Deauth reason codes.
const (
	ReasonUnspecified uint16 = 1
	ReasonLeaving     uint16 = 3
)

// MarshalDeauth encodes the body of a sta_deauth command.
func MarshalDeauth(mac net.HardwareAddr, reason uint16) []byte {
	b := make([]byte, 8)
	copy(b, mac)
	binary.LittleEndian.PutUint16(b[6:], reason)
	return b
}
