package message

import (
	"github.com/domsekotill/kilter.protocol/buffer"
	"github.com/domsekotill/kilter.protocol/internal/wire"
)

// Unknown carries an SMTP command the MTA did not recognise as one of the
// commands it normally reports events for. Contents is a zero-copy borrow
// into the decoding buffer and must be released (via Release) before the
// buffer's bytes can be reused.
type Unknown struct {
	borrowed

	Contents []byte
}

func (*Unknown) Ident() byte { return byte(wire.CodeUnknown) }

func (m *Unknown) Pack(buf *buffer.Buffer) error {
	return packFrame(buf, m.Ident(), m.Contents)
}

func decodeUnknown(payload []byte) (Message, error) {
	return &Unknown{Contents: payload}, nil
}

func init() {
	register(byte(wire.CodeUnknown), decodeUnknown)
}
