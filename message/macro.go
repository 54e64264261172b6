package message

import (
	"sort"

	"github.com/domsekotill/kilter.protocol/buffer"
	"github.com/domsekotill/kilter.protocol/internal/wire"
)

// Macro carries a set of name/value macro definitions the MTA has computed
// for the upcoming event identified by Code (e.g. wire.CodeConn for macros
// about to accompany a Connect event).
type Macro struct {
	copied

	Code   byte
	Macros map[string]string
}

func (*Macro) Ident() byte { return byte(wire.CodeMacro) }

func (m *Macro) Pack(buf *buffer.Buffer) error {
	payload := make([]byte, 0, 1+16*len(m.Macros))
	payload = append(payload, m.Code)

	names := make([]string, 0, len(m.Macros))
	for name := range m.Macros {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		payload = wire.AppendCString(payload, name)
		payload = wire.AppendCString(payload, m.Macros[name])
	}

	return packFrame(buf, m.Ident(), payload)
}

func decodeMacro(payload []byte) (Message, error) {
	if len(payload) < 1 {
		return nil, &InvalidMessage{Reason: "macro payload missing stage code"}
	}
	m := &Macro{Code: payload[0]}

	pairs := wire.DecodeCStrings(payload[1:])
	if len(pairs)%2 != 0 {
		return nil, &InvalidMessage{Reason: "macro name/value pairs unbalanced"}
	}
	if len(pairs) > 0 {
		m.Macros = make(map[string]string, len(pairs)/2)
		for i := 0; i < len(pairs); i += 2 {
			m.Macros[pairs[i]] = pairs[i+1]
		}
	}

	return m, nil
}

func init() {
	register(byte(wire.CodeMacro), decodeMacro)
}
