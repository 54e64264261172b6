package message

import (
	"bytes"

	"github.com/domsekotill/kilter.protocol/buffer"
	"github.com/domsekotill/kilter.protocol/internal/wire"
)

// Family identifies the socket family of a Connect message's peer address.
type Family byte

const (
	FamilyUnknown Family = 'U' // SMFIA_UNKNOWN: hostname only, no address block
	FamilyUnix    Family = 'L' // SMFIA_UNIX: a filesystem path, port bytes present but zero
	FamilyInet    Family = '4' // SMFIA_INET
	FamilyInet6   Family = '6' // SMFIA_INET6
)

// Connect reports the peer that connected to the MTA.
//
// Hostname is the (already IDNA-decoded) reverse-resolved hostname of the
// peer. Address is the peer's address in its family's textual notation
// (dotted-quad, colon-hex, or a filesystem path for FamilyUnix); it is empty
// for FamilyUnknown. Port is 0 for FamilyUnknown and FamilyUnix.
type Connect struct {
	copied

	Hostname string
	Family   Family
	Address  string
	Port     uint16
}

func (*Connect) Ident() byte { return byte(wire.CodeConn) }

func (m *Connect) Pack(buf *buffer.Buffer) error {
	payload := wire.AppendCString(nil, wire.HostnameToASCII(m.Hostname))
	payload = append(payload, byte(m.Family))

	switch m.Family {
	case FamilyUnknown:
		// no port, no address block
	case FamilyUnix:
		payload = wire.AppendUint16(payload, 0)
		payload = wire.AppendCString(payload, m.Address)
	case FamilyInet, FamilyInet6:
		payload = wire.AppendUint16(payload, m.Port)
		payload = wire.AppendCString(payload, m.Address)
	default:
		return &InvalidMessage{Reason: "unknown connect family"}
	}

	return packFrame(buf, m.Ident(), payload)
}

func decodeConnect(payload []byte) (Message, error) {
	pos := bytes.IndexByte(payload, 0)
	if pos == -1 {
		return nil, &InvalidMessage{Reason: "connect payload missing hostname NUL terminator"}
	}
	hostname := string(payload[:pos])
	rest := payload[pos+1:]
	if len(rest) < 1 {
		return nil, &InvalidMessage{Reason: "connect payload missing family byte"}
	}

	m := &Connect{
		Hostname: wire.HostnameToUnicode(hostname),
		Family:   Family(rest[0]),
	}
	rest = rest[1:]

	switch m.Family {
	case FamilyUnknown:
		if len(rest) != 0 {
			return nil, &InvalidMessage{Reason: "connect family U carries no address block"}
		}
	case FamilyUnix:
		if len(rest) < 2 {
			return nil, &InvalidMessage{Reason: "connect payload truncated before port"}
		}
		m.Address = wire.ReadCString(rest[2:])
	case FamilyInet, FamilyInet6:
		if len(rest) < 2 {
			return nil, &InvalidMessage{Reason: "connect payload truncated before port"}
		}
		m.Port = uint16(rest[0])<<8 | uint16(rest[1])
		m.Address = wire.ReadCString(rest[2:])
	default:
		return nil, &InvalidMessage{Reason: "unknown connect family"}
	}

	return m, nil
}

func init() {
	register(byte(wire.CodeConn), decodeConnect)
}
