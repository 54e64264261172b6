package message

import (
	"github.com/domsekotill/kilter.protocol/buffer"
	"github.com/domsekotill/kilter.protocol/internal/wire"
)

// Body carries one chunk of the message body. Content is a zero-copy borrow
// into the decoding buffer and must be released (via Release) before the
// buffer's bytes can be reused. The MTA may split a large body across many
// Body frames.
type Body struct {
	borrowed

	Content []byte
}

func (*Body) Ident() byte { return byte(wire.CodeBody) }

func (m *Body) Pack(buf *buffer.Buffer) error {
	return packFrame(buf, m.Ident(), m.Content)
}

func decodeBody(payload []byte) (Message, error) {
	return &Body{Content: payload}, nil
}

func init() {
	register(byte(wire.CodeBody), decodeBody)
}
