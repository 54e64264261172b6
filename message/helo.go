package message

import (
	"github.com/domsekotill/kilter.protocol/buffer"
	"github.com/domsekotill/kilter.protocol/internal/wire"
)

// Helo carries the hostname argument of the SMTP HELO/EHLO command.
type Helo struct {
	copied

	Hostname string
}

func (*Helo) Ident() byte { return byte(wire.CodeHelo) }

func (m *Helo) Pack(buf *buffer.Buffer) error {
	payload := wire.AppendCString(nil, wire.HostnameToASCII(m.Hostname))
	return packFrame(buf, m.Ident(), payload)
}

func decodeHelo(payload []byte) (Message, error) {
	return &Helo{Hostname: wire.HostnameToUnicode(wire.ReadCString(payload))}, nil
}

func init() {
	register(byte(wire.CodeHelo), decodeHelo)
}
