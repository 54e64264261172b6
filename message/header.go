package message

import (
	"bytes"

	"github.com/domsekotill/kilter.protocol/buffer"
	"github.com/domsekotill/kilter.protocol/internal/wire"
)

// Header carries one header line's name and value, as the MTA is streaming
// them before the body. Value is a zero-copy borrow into the decoding
// buffer and must be released (via Release) before the buffer's bytes can
// be reused.
type Header struct {
	borrowed

	Name  string
	Value []byte
}

func (*Header) Ident() byte { return byte(wire.CodeHeader) }

func (m *Header) Pack(buf *buffer.Buffer) error {
	payload := wire.AppendCString(nil, m.Name)
	payload = append(payload, m.Value...)
	payload = append(payload, 0x00)
	return packFrame(buf, m.Ident(), payload)
}

func decodeHeader(payload []byte) (Message, error) {
	pos := bytes.IndexByte(payload, 0)
	if pos == -1 {
		return nil, &InvalidMessage{Reason: "header payload missing name NUL terminator"}
	}
	name := string(payload[:pos])
	rest := payload[pos+1:]
	if len(rest) == 0 || rest[len(rest)-1] != 0 {
		return nil, &InvalidMessage{Reason: "header value missing NUL terminator"}
	}
	return &Header{Name: name, Value: rest[:len(rest)-1]}, nil
}

func init() {
	register(byte(wire.CodeHeader), decodeHeader)
}
