package message

import (
	"bytes"

	"github.com/domsekotill/kilter.protocol/buffer"
	"github.com/domsekotill/kilter.protocol/internal/wire"
)

// EnvelopeFrom carries the SMTP MAIL FROM command: the sender address
// (including any surrounding angle brackets/display text the MTA passed
// through verbatim) and any ESMTP MAIL parameters as separate arguments.
type EnvelopeFrom struct {
	copied

	Sender    []byte
	Arguments [][]byte
}

func (*EnvelopeFrom) Ident() byte { return byte(wire.CodeMail) }

func (m *EnvelopeFrom) Pack(buf *buffer.Buffer) error {
	return packFrame(buf, m.Ident(), packCStringList(append([][]byte{m.Sender}, m.Arguments...)))
}

func decodeEnvelopeFrom(payload []byte) (Message, error) {
	parts := splitCStrings(payload)
	if len(parts) == 0 {
		return nil, &InvalidMessage{Reason: "envelope-from payload missing sender"}
	}
	m := &EnvelopeFrom{Sender: parts[0]}
	if len(parts) > 1 {
		m.Arguments = parts[1:]
	}
	return m, nil
}

// EnvelopeRecipient carries the SMTP RCPT TO command: the recipient
// address and any ESMTP RCPT parameters as separate arguments.
type EnvelopeRecipient struct {
	copied

	Recipient []byte
	Arguments [][]byte
}

func (*EnvelopeRecipient) Ident() byte { return byte(wire.CodeRcpt) }

func (m *EnvelopeRecipient) Pack(buf *buffer.Buffer) error {
	return packFrame(buf, m.Ident(), packCStringList(append([][]byte{m.Recipient}, m.Arguments...)))
}

func decodeEnvelopeRecipient(payload []byte) (Message, error) {
	parts := splitCStrings(payload)
	if len(parts) == 0 {
		return nil, &InvalidMessage{Reason: "envelope-recipient payload missing recipient"}
	}
	m := &EnvelopeRecipient{Recipient: parts[0]}
	if len(parts) > 1 {
		m.Arguments = parts[1:]
	}
	return m, nil
}

// packCStringList appends each of parts as a NUL-terminated string.
func packCStringList(parts [][]byte) []byte {
	var out []byte
	for _, p := range parts {
		out = append(out, p...)
		out = append(out, 0x00)
	}
	return out
}

// splitCStrings splits a run of NUL-terminated byte strings into copies,
// the byte-slice analogue of wire.DecodeCStrings.
func splitCStrings(data []byte) [][]byte {
	if len(data) == 0 {
		return nil
	}
	if data[len(data)-1] == 0 {
		data = data[:len(data)-1]
	}
	var out [][]byte
	for {
		pos := bytes.IndexByte(data, 0)
		if pos == -1 {
			out = append(out, append([]byte(nil), data...))
			return out
		}
		out = append(out, append([]byte(nil), data[:pos]...))
		data = data[pos+1:]
	}
}

func init() {
	register(byte(wire.CodeMail), decodeEnvelopeFrom)
	register(byte(wire.CodeRcpt), decodeEnvelopeRecipient)
}
