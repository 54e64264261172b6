package message

import (
	"sort"
	"strings"

	"github.com/domsekotill/kilter.protocol/buffer"
	"github.com/domsekotill/kilter.protocol/internal/wire"
)

// Negotiate carries the opening handshake: a protocol version and the
// action/protocol capability flags one side is offering (MTA -> filter) or
// has accepted (filter -> MTA). Macros optionally requests per-stage macro
// symbol lists, which implicitly requires ActionSetSymList.
type Negotiate struct {
	copied

	Version       uint32
	ActionFlags   ActionFlags
	ProtocolFlags ProtocolFlags
	Macros        map[Stage][]string
}

func (*Negotiate) Ident() byte { return byte(wire.CodeOptNeg) }

func (m *Negotiate) Pack(buf *buffer.Buffer) error {
	payload := make([]byte, 0, 12)
	payload = wire.AppendUint32(payload, m.Version)
	payload = wire.AppendUint32(payload, uint32(m.ActionFlags))
	payload = wire.AppendUint32(payload, uint32(m.ProtocolFlags))

	stages := make([]int, 0, len(m.Macros))
	for stage := range m.Macros {
		stages = append(stages, int(stage))
	}
	sort.Ints(stages)
	for _, s := range stages {
		stage := Stage(s)
		payload = wire.AppendUint32(payload, uint32(stage))
		payload = wire.AppendCString(payload, strings.Join(m.Macros[stage], " "))
	}

	return packFrame(buf, m.Ident(), payload)
}

func decodeNegotiate(payload []byte) (Message, error) {
	if len(payload) < 12 {
		return nil, &InvalidMessage{Reason: "negotiate payload shorter than 12 bytes"}
	}
	m := &Negotiate{
		Version:       be32(payload[0:4]),
		ActionFlags:   ActionFlags(be32(payload[4:8])),
		ProtocolFlags: ProtocolFlags(be32(payload[8:12])),
	}

	rest := payload[12:]
	for len(rest) > 0 {
		if len(rest) < 4 {
			return nil, &InvalidMessage{Reason: "truncated negotiate macro stage"}
		}
		stage := Stage(be32(rest[0:4]))
		rest = rest[4:]
		list := wire.ReadCString(rest)
		consumed := len(list) + 1
		if consumed > len(rest) {
			return nil, &InvalidMessage{Reason: "negotiate macro list missing NUL terminator"}
		}
		rest = rest[consumed:]

		if m.Macros == nil {
			m.Macros = make(map[Stage][]string)
		}
		if list == "" {
			m.Macros[stage] = nil
		} else {
			m.Macros[stage] = strings.Split(list, " ")
		}
	}

	return m, nil
}

func be32(b []byte) uint32 {
	return uint32(b[0])<<24 | uint32(b[1])<<16 | uint32(b[2])<<8 | uint32(b[3])
}

func init() {
	register(byte(wire.CodeOptNeg), decodeNegotiate)
}
