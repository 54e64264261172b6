package message

import (
	"github.com/domsekotill/kilter.protocol/buffer"
	"github.com/domsekotill/kilter.protocol/internal/wire"
)

// AddHeader appends a new header line at the end of the header block. It is
// only legal once the body has been fully seen (post-end-of-message), and
// requires the ActionAddHeaders capability to have been negotiated.
type AddHeader struct {
	copied

	Name  string
	Value []byte
}

func (*AddHeader) Ident() byte { return byte(wire.ActAddHeader) }

func (m *AddHeader) Pack(buf *buffer.Buffer) error {
	payload := wire.AppendCString(nil, m.Name)
	payload = append(payload, canonicalizeHeaderValue(m.Value)...)
	payload = append(payload, 0x00)
	return packFrame(buf, m.Ident(), payload)
}

func decodeAddHeader(payload []byte) (Message, error) {
	name, value, err := splitHeaderPair(payload)
	if err != nil {
		return nil, err
	}
	return &AddHeader{Name: name, Value: value}, nil
}

// ChangeHeader replaces the value of the Index'th (1-based, per name)
// occurrence of a header already seen. An empty Value deletes it.
type ChangeHeader struct {
	copied

	Index uint32
	Name  string
	Value []byte
}

func (*ChangeHeader) Ident() byte { return byte(wire.ActChangeHeader) }

func (m *ChangeHeader) Pack(buf *buffer.Buffer) error {
	payload := wire.AppendUint32(nil, m.Index)
	payload = wire.AppendCString(payload, m.Name)
	payload = append(payload, canonicalizeHeaderValue(m.Value)...)
	payload = append(payload, 0x00)
	return packFrame(buf, m.Ident(), payload)
}

func decodeChangeHeader(payload []byte) (Message, error) {
	if len(payload) < 4 {
		return nil, &InvalidMessage{Reason: "change header payload shorter than index field"}
	}
	name, value, err := splitHeaderPair(payload[4:])
	if err != nil {
		return nil, err
	}
	return &ChangeHeader{Index: be32(payload[0:4]), Name: name, Value: value}, nil
}

// InsertHeader inserts a new header at a specific position in the header
// block, numbered from 1.
type InsertHeader struct {
	copied

	Index uint32
	Name  string
	Value []byte
}

func (*InsertHeader) Ident() byte { return byte(wire.ActInsertHeader) }

func (m *InsertHeader) Pack(buf *buffer.Buffer) error {
	payload := wire.AppendUint32(nil, m.Index)
	payload = wire.AppendCString(payload, m.Name)
	payload = append(payload, canonicalizeHeaderValue(m.Value)...)
	payload = append(payload, 0x00)
	return packFrame(buf, m.Ident(), payload)
}

func decodeInsertHeader(payload []byte) (Message, error) {
	if len(payload) < 4 {
		return nil, &InvalidMessage{Reason: "insert header payload shorter than index field"}
	}
	name, value, err := splitHeaderPair(payload[4:])
	if err != nil {
		return nil, err
	}
	return &InsertHeader{Index: be32(payload[0:4]), Name: name, Value: value}, nil
}

func splitHeaderPair(payload []byte) (name string, value []byte, err error) {
	nul := indexByte(payload, 0)
	if nul == -1 {
		return "", nil, &InvalidMessage{Reason: "header modification missing name NUL terminator"}
	}
	name = string(payload[:nul])
	rest := payload[nul+1:]
	if len(rest) == 0 || rest[len(rest)-1] != 0 {
		return "", nil, &InvalidMessage{Reason: "header modification missing value NUL terminator"}
	}
	return name, append([]byte(nil), rest[:len(rest)-1]...), nil
}

func indexByte(b []byte, c byte) int {
	for i, v := range b {
		if v == c {
			return i
		}
	}
	return -1
}

// ChangeSender replaces the envelope sender recorded for the message, with
// an optional trailing ESMTP argument string, as from a MAIL FROM command.
type ChangeSender struct {
	copied

	Address string
	Args    string
}

func (*ChangeSender) Ident() byte { return byte(wire.ActChangeFrom) }

func (m *ChangeSender) Pack(buf *buffer.Buffer) error {
	payload := wire.AppendCString(nil, m.Address)
	if m.Args != "" {
		payload = wire.AppendCString(payload, canonicalizeFreeText(m.Args))
	}
	return packFrame(buf, m.Ident(), payload)
}

func decodeChangeSender(payload []byte) (Message, error) {
	address, rest, err := readOptionalCString(payload)
	if err != nil {
		return nil, err
	}
	args := ""
	if len(rest) > 0 {
		args, _, err = readOptionalCString(rest)
		if err != nil {
			return nil, err
		}
	}
	return &ChangeSender{Address: address, Args: args}, nil
}

// AddRecipient adds a new envelope recipient.
type AddRecipient struct {
	copied

	Address string
}

func (*AddRecipient) Ident() byte { return byte(wire.ActAddRcpt) }

func (m *AddRecipient) Pack(buf *buffer.Buffer) error {
	return packFrame(buf, m.Ident(), wire.AppendCString(nil, m.Address))
}

func decodeAddRecipient(payload []byte) (Message, error) {
	address, _, err := readOptionalCString(payload)
	if err != nil {
		return nil, err
	}
	return &AddRecipient{Address: address}, nil
}

// AddRecipientPar adds a new envelope recipient with an optional trailing
// ESMTP argument string, as from an RCPT TO command.
type AddRecipientPar struct {
	copied

	Address string
	Args    string
}

func (*AddRecipientPar) Ident() byte { return byte(wire.ActAddRcptPar) }

func (m *AddRecipientPar) Pack(buf *buffer.Buffer) error {
	payload := wire.AppendCString(nil, m.Address)
	if m.Args != "" {
		payload = wire.AppendCString(payload, canonicalizeFreeText(m.Args))
	}
	return packFrame(buf, m.Ident(), payload)
}

func decodeAddRecipientPar(payload []byte) (Message, error) {
	address, rest, err := readOptionalCString(payload)
	if err != nil {
		return nil, err
	}
	args := ""
	if len(rest) > 0 {
		args, _, err = readOptionalCString(rest)
		if err != nil {
			return nil, err
		}
	}
	return &AddRecipientPar{Address: address, Args: args}, nil
}

// RemoveRecipient removes a previously declared envelope recipient.
type RemoveRecipient struct {
	copied

	Address string
}

func (*RemoveRecipient) Ident() byte { return byte(wire.ActDelRcpt) }

func (m *RemoveRecipient) Pack(buf *buffer.Buffer) error {
	return packFrame(buf, m.Ident(), wire.AppendCString(nil, m.Address))
}

func decodeRemoveRecipient(payload []byte) (Message, error) {
	address, _, err := readOptionalCString(payload)
	if err != nil {
		return nil, err
	}
	return &RemoveRecipient{Address: address}, nil
}

// ReplaceBody replaces the message body with Content, which may be sent
// across several ReplaceBody frames for large bodies. Content is a
// zero-copy borrow into the decoding buffer and must be released (via
// Release) before the buffer's bytes can be reused.
type ReplaceBody struct {
	borrowed

	Content []byte
}

func (*ReplaceBody) Ident() byte { return byte(wire.ActReplBody) }

func (m *ReplaceBody) Pack(buf *buffer.Buffer) error {
	return packFrame(buf, m.Ident(), m.Content)
}

func decodeReplaceBody(payload []byte) (Message, error) {
	return &ReplaceBody{Content: payload}, nil
}

// Quarantine marks the message for quarantine, recording Reason as the
// cause.
type Quarantine struct {
	copied

	Reason string
}

func (*Quarantine) Ident() byte { return byte(wire.ActQuarantine) }

func (m *Quarantine) Pack(buf *buffer.Buffer) error {
	return packFrame(buf, m.Ident(), wire.AppendCString(nil, canonicalizeFreeText(m.Reason)))
}

func decodeQuarantine(payload []byte) (Message, error) {
	reason, _, err := readOptionalCString(payload)
	if err != nil {
		return nil, err
	}
	return &Quarantine{Reason: reason}, nil
}

// readOptionalCString reads a single NUL-terminated string from the head of
// payload. Unlike wire.ReadCString, it reports an error if payload is
// non-empty but carries no terminating NUL, since these modification
// payloads are fixed single-field or two-field frames rather than
// free-running text.
func readOptionalCString(payload []byte) (value string, rest []byte, err error) {
	if len(payload) == 0 {
		return "", nil, nil
	}
	pos := indexByte(payload, 0)
	if pos == -1 {
		return "", nil, &InvalidMessage{Reason: "modification field missing NUL terminator"}
	}
	return string(payload[:pos]), payload[pos+1:], nil
}

func init() {
	register(byte(wire.ActAddHeader), decodeAddHeader)
	register(byte(wire.ActChangeHeader), decodeChangeHeader)
	register(byte(wire.ActInsertHeader), decodeInsertHeader)
	register(byte(wire.ActChangeFrom), decodeChangeSender)
	register(byte(wire.ActAddRcpt), decodeAddRecipient)
	register(byte(wire.ActAddRcptPar), decodeAddRecipientPar)
	register(byte(wire.ActDelRcpt), decodeRemoveRecipient)
	register(byte(wire.ActReplBody), decodeReplaceBody)
	register(byte(wire.ActQuarantine), decodeQuarantine)
}
