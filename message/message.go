// Package message implements the ~30 typed wire messages of the milter
// protocol: their frame layout, their field encoding, and the dispatcher
// that decodes a frame from a buffer.Buffer into a concrete Go value.
package message

import (
	"github.com/domsekotill/kilter.protocol/buffer"
	"github.com/domsekotill/kilter.protocol/internal/wire"
)

// Message is implemented by every decodable/encodable milter frame.
type Message interface {
	// Ident returns the single-byte wire identifier for this message kind.
	Ident() byte

	// Pack appends this message's frame (header and payload) to buf.
	Pack(buf *buffer.Buffer) error

	// Release drops any buffer borrow this message holds. It is a no-op for
	// messages that copied their fields out of the buffer at decode time.
	Release()
}

// NoDataMessage is implemented by message kinds whose wire payload is always
// empty. Their decoders ignore any payload bytes; Unpack itself does not
// consult this interface.
type NoDataMessage interface {
	Message
	noData()
}

// noData is embedded by empty-payload message types to satisfy NoDataMessage
// and to provide a no-op Release.
type noData struct{}

func (noData) Release() {}
func (noData) noData()  {}

// borrowed is embedded by message types that hold a byte slice borrowed
// directly from the decoding buffer's backing array.
type borrowed struct {
	buf *buffer.Buffer
}

func (b *borrowed) setBuf(buf *buffer.Buffer) {
	b.buf = buf
}

func (b *borrowed) Release() {
	if b.buf != nil {
		b.buf.Release()
		b.buf = nil
	}
}

// copied is embedded by message types that copy their fields out of the
// buffer at decode time and so never hold a borrow.
type copied struct{}

func (copied) Release() {}

type borrower interface {
	setBuf(*buffer.Buffer)
}

// decoder unpacks a payload previously validated as belonging to a known
// identifier. A decoder may hold onto slices of payload (itself a subslice
// of a live buffer.Buffer borrow): the caller arranges for that borrow to be
// released exactly once, either immediately (if the returned Message is not
// a borrower) or when the Message's Release method is called.
type decoder func(payload []byte) (Message, error)

var decoders = map[byte]decoder{}

func register(ident byte, d decoder) {
	decoders[ident] = d
}

// Unpack decodes one frame from the head of buf.
//
// On success it returns the decoded Message and the number of bytes the
// frame occupied (5 + payload length); the caller is responsible for calling
// buf.Consume(n) once the message (and any buffer borrow it holds) is no
// longer needed.
//
// It returns ErrNeedsMore if buf does not yet hold a complete frame,
// *UnknownMessage if the identifier is not in the known table, or
// *InvalidMessage if the payload is malformed.
func Unpack(buf *buffer.Buffer) (Message, int, error) {
	if buf.Filled() < 4 {
		return nil, 0, ErrNeedsMore
	}

	view := buf.View()
	length, _ := wire.PeekFrameLength(view)
	if err := wire.CheckFrameLength(length); err != nil {
		buf.Release()
		return nil, 0, err
	}

	total := 4 + int(length)
	if buf.Filled() < total {
		buf.Release()
		return nil, 0, ErrNeedsMore
	}
	if length < 1 {
		buf.Release()
		return nil, 0, &InvalidMessage{Reason: "frame shorter than an identifier byte"}
	}

	ident := view[4]
	payload := view[5:total]

	dec, ok := decoders[ident]
	if !ok {
		contents := append([]byte(nil), view[:total]...)
		buf.Release()
		return nil, total, &UnknownMessage{Contents: contents}
	}

	msg, err := dec(payload)
	if err != nil {
		buf.Release()
		return nil, 0, err
	}

	if b, ok := msg.(borrower); ok {
		b.setBuf(buf)
	} else {
		buf.Release()
	}

	return msg, total, nil
}

// packFrame appends a frame header followed by payload to buf.
func packFrame(buf *buffer.Buffer, ident byte, payload []byte) error {
	header := wire.AppendFrameHeader(make([]byte, 0, wire.FrameHeaderSize), ident, len(payload))
	if err := buf.Append(header); err != nil {
		return err
	}
	if len(payload) == 0 {
		return nil
	}
	return buf.Append(payload)
}
