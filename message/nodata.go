package message

import (
	"github.com/domsekotill/kilter.protocol/buffer"
	"github.com/domsekotill/kilter.protocol/internal/wire"
)

// Data marks the start of the SMTP DATA phase. It carries no payload.
type Data struct{ noData }

func (*Data) Ident() byte                   { return byte(wire.CodeData) }
func (m *Data) Pack(buf *buffer.Buffer) error { return packFrame(buf, m.Ident(), nil) }

// EndOfHeaders marks the end of the header block. It carries no payload.
type EndOfHeaders struct{ noData }

func (*EndOfHeaders) Ident() byte                   { return byte(wire.CodeEOH) }
func (m *EndOfHeaders) Pack(buf *buffer.Buffer) error { return packFrame(buf, m.Ident(), nil) }

// Abort cancels the current mail transaction. It carries no payload.
type Abort struct{ noData }

func (*Abort) Ident() byte                   { return byte(wire.CodeAbort) }
func (m *Abort) Pack(buf *buffer.Buffer) error { return packFrame(buf, m.Ident(), nil) }

// Close ends the session. It carries no payload.
type Close struct{ noData }

func (*Close) Ident() byte                   { return byte(wire.CodeQuit) }
func (m *Close) Pack(buf *buffer.Buffer) error { return packFrame(buf, m.Ident(), nil) }

// Continue is the verdict meaning "proceed to the next event with no
// changes". It carries no payload.
type Continue struct{ noData }

func (*Continue) Ident() byte                   { return byte(wire.ActContinue) }
func (m *Continue) Pack(buf *buffer.Buffer) error { return packFrame(buf, m.Ident(), nil) }

// Reject is the verdict meaning "reject this step of the transaction with a
// permanent SMTP failure". It carries no payload.
type Reject struct{ noData }

func (*Reject) Ident() byte                   { return byte(wire.ActReject) }
func (m *Reject) Pack(buf *buffer.Buffer) error { return packFrame(buf, m.Ident(), nil) }

// Discard is the verdict meaning "silently discard the message". It carries
// no payload.
type Discard struct{ noData }

func (*Discard) Ident() byte                   { return byte(wire.ActDiscard) }
func (m *Discard) Pack(buf *buffer.Buffer) error { return packFrame(buf, m.Ident(), nil) }

// Accept is the verdict meaning "accept the message without further
// filtering". It carries no payload.
type Accept struct{ noData }

func (*Accept) Ident() byte                   { return byte(wire.ActAccept) }
func (m *Accept) Pack(buf *buffer.Buffer) error { return packFrame(buf, m.Ident(), nil) }

// TemporaryFailure is the verdict meaning "reject this step with a
// temporary SMTP failure". It carries no payload.
type TemporaryFailure struct{ noData }

func (*TemporaryFailure) Ident() byte                   { return byte(wire.ActTempFail) }
func (m *TemporaryFailure) Pack(buf *buffer.Buffer) error { return packFrame(buf, m.Ident(), nil) }

// Skip is the verdict meaning "stop sending further Body events for this
// message", legal only when negotiated and only in response to a Body
// event. It carries no payload.
type Skip struct{ noData }

func (*Skip) Ident() byte                   { return byte(wire.ActSkip) }
func (m *Skip) Pack(buf *buffer.Buffer) error { return packFrame(buf, m.Ident(), nil) }

// Progress asks the MTA to extend its read timeout because filtering is
// still ongoing. It carries no payload.
type Progress struct{ noData }

func (*Progress) Ident() byte                   { return byte(wire.ActProgress) }
func (m *Progress) Pack(buf *buffer.Buffer) error { return packFrame(buf, m.Ident(), nil) }

func decodeNoData[T Message](ctor func() T) decoder {
	return func(payload []byte) (Message, error) {
		return ctor(), nil
	}
}

func init() {
	register(byte(wire.CodeData), decodeNoData(func() *Data { return &Data{} }))
	register(byte(wire.CodeEOH), decodeNoData(func() *EndOfHeaders { return &EndOfHeaders{} }))
	register(byte(wire.CodeAbort), decodeNoData(func() *Abort { return &Abort{} }))
	register(byte(wire.CodeQuit), decodeNoData(func() *Close { return &Close{} }))
	register(byte(wire.ActContinue), decodeNoData(func() *Continue { return &Continue{} }))
	register(byte(wire.ActReject), decodeNoData(func() *Reject { return &Reject{} }))
	register(byte(wire.ActDiscard), decodeNoData(func() *Discard { return &Discard{} }))
	register(byte(wire.ActAccept), decodeNoData(func() *Accept { return &Accept{} }))
	register(byte(wire.ActTempFail), decodeNoData(func() *TemporaryFailure { return &TemporaryFailure{} }))
	register(byte(wire.ActSkip), decodeNoData(func() *Skip { return &Skip{} }))
	register(byte(wire.ActProgress), decodeNoData(func() *Progress { return &Progress{} }))
}
