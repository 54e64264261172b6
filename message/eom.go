package message

import (
	"github.com/domsekotill/kilter.protocol/buffer"
	"github.com/domsekotill/kilter.protocol/internal/wire"
)

// EndOfMessage marks the final Body frame and may carry one last trailing
// chunk of body content. Content is a zero-copy borrow into the decoding
// buffer and must be released (via Release) before the buffer's bytes can
// be reused.
type EndOfMessage struct {
	borrowed

	Content []byte
}

func (*EndOfMessage) Ident() byte { return byte(wire.CodeEOB) }

func (m *EndOfMessage) Pack(buf *buffer.Buffer) error {
	return packFrame(buf, m.Ident(), m.Content)
}

func decodeEndOfMessage(payload []byte) (Message, error) {
	return &EndOfMessage{Content: payload}, nil
}

func init() {
	register(byte(wire.CodeEOB), decodeEndOfMessage)
}
