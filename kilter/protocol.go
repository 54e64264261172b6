// Package kilter implements the session-level state machine of the
// Sendmail Milter wire protocol: legal event ordering, response
// bookkeeping, and negotiated-capability enforcement, layered over the
// message package's codec.
package kilter

import (
	"fmt"
	"iter"

	"github.com/domsekotill/kilter.protocol/buffer"
	"github.com/domsekotill/kilter.protocol/message"
)

// FilterProtocol drives one milter session: decoding inbound events from a
// Buffer in order, validating outbound verdicts and modifications against
// the session's current phase and negotiated capabilities, and packing
// accepted messages to an output Buffer.
//
// A FilterProtocol is not safe for concurrent use; it is owned by one
// caller for the life of a session.
type FilterProtocol struct {
	abortOnUnknown bool

	phase    Phase
	version  uint32
	actions  message.ActionFlags
	protocol message.ProtocolFlags

	offeredActions  message.ActionFlags
	offeredProtocol message.ProtocolFlags

	negotiated       bool
	responseExpected bool
	currentEvent     byte
}

// New constructs a FilterProtocol ready to read an opening Negotiate event.
func New(opts ...Option) *FilterProtocol {
	p := &FilterProtocol{}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Version returns the protocol version of the most recent Negotiate seen:
// the MTA's offer once it has been read, then the filter's reply once that
// has been written. It is 0 before any Negotiate.
func (p *FilterProtocol) Version() uint32 { return p.version }

// Actions returns the negotiated action flags.
func (p *FilterProtocol) Actions() message.ActionFlags { return p.actions }

// NR reports whether the given protocol flag bit (one of the NR_* flags)
// was negotiated.
func (p *FilterProtocol) NR(flag message.ProtocolFlags) bool { return p.protocol&flag != 0 }

// Skip reports whether SKIP was negotiated.
func (p *FilterProtocol) Skip() bool { return p.protocol&message.ProtocolSkip != 0 }

// Phase returns the session's current phase.
func (p *FilterProtocol) Phase() Phase { return p.phase }

// NeedsResponse reports whether msg, if read as the next inbound event,
// would require a verdict before the following event could be read.
func (p *FilterProtocol) NeedsResponse(msg message.Message) bool {
	switch msg.(type) {
	case *message.Negotiate:
		return true
	case *message.Macro, *message.Abort, *message.Close:
		return false
	case *message.Connect:
		return !p.NR(message.ProtocolNRConnect)
	case *message.Helo:
		return !p.NR(message.ProtocolNRHelo)
	case *message.EnvelopeFrom:
		return !p.NR(message.ProtocolNRMailFrom)
	case *message.EnvelopeRecipient:
		return !p.NR(message.ProtocolNRRcptTo)
	case *message.Data:
		return !p.NR(message.ProtocolNRData)
	case *message.Header:
		return !p.NR(message.ProtocolNRHeader)
	case *message.EndOfHeaders:
		return !p.NR(message.ProtocolNREOH)
	case *message.Body:
		return !p.NR(message.ProtocolNRBody)
	case *message.Unknown:
		return !p.NR(message.ProtocolNRUnknown)
	case *message.EndOfMessage:
		// No NR_EOM flag exists in the wire protocol: the final verdict is
		// always owed.
		return true
	default:
		return false
	}
}

var receivablePhases = map[byte][]Phase{
	byte('O'): {PhaseNegotiating},             // Negotiate
	byte('C'): {PhaseConnect},                 // Connect
	byte('H'): {PhaseHelo},                    // Helo
	byte('M'): {PhaseEnvelope},                // EnvelopeFrom
	byte('R'): {PhaseEnvelope},                // EnvelopeRecipient
	byte('T'): {PhaseEnvelope},                // Data
	byte('L'): {PhaseHeaders},                 // Header
	byte('N'): {PhaseHeaders},                 // EndOfHeaders
	byte('B'): {PhaseEndOfHeaders, PhaseBody}, // Body
	byte('E'): {PhaseBody},                    // EndOfMessage
}

// macro and the unknown-command event are legal in any phase where a
// transaction is underway.
var anyTransactionPhase = []Phase{
	PhaseConnect, PhaseHelo, PhaseEnvelope, PhaseData,
	PhaseHeaders, PhaseEndOfHeaders, PhaseBody, PhasePostEOM,
}

func inPhases(phase Phase, phases []Phase) bool {
	for _, p := range phases {
		if p == phase {
			return true
		}
	}
	return false
}

// checkReceivable reports whether msg is legal to read at all (it is one of
// the known inbound event kinds), and if so whether the current phase
// permits receiving it now.
func (p *FilterProtocol) checkReceivable(msg message.Message) error {
	switch msg.(type) {
	case *message.Macro, *message.Unknown:
		if !inPhases(p.phase, anyTransactionPhase) {
			return &UnexpectedMessage{Reason: fmt.Sprintf("%T not expected in phase %s", msg, p.phase)}
		}
		return nil
	case *message.Abort:
		if !inPhases(p.phase, anyTransactionPhase) {
			return &UnexpectedMessage{Reason: "Abort not expected before a transaction begins"}
		}
		return nil
	case *message.Close:
		return nil
	}

	phases, ok := receivablePhases[msg.Ident()]
	if !ok {
		return &InvalidMessage{Reason: fmt.Sprintf("%T is not a message the filter receives", msg)}
	}
	if !inPhases(p.phase, phases) {
		return &UnexpectedMessage{Reason: fmt.Sprintf("%T not expected in phase %s", msg, p.phase)}
	}
	return nil
}

// applyRead updates phase and offered-capability bookkeeping for a
// successfully validated inbound event, and records whether it owes a
// response.
func (p *FilterProtocol) applyRead(msg message.Message) {
	p.currentEvent = msg.Ident()
	p.responseExpected = p.NeedsResponse(msg)

	switch m := msg.(type) {
	case *message.Negotiate:
		p.version = m.Version
		p.offeredActions = m.ActionFlags
		p.offeredProtocol = m.ProtocolFlags
	case *message.Connect:
		// If no verdict is owed (NR_CONNECT negotiated), no call to WriteTo
		// will ever fire nextPhaseAfterVerdict, so advance here instead.
		if !p.responseExpected {
			p.phase = PhaseHelo
		}
	case *message.Helo:
		if !p.responseExpected {
			p.phase = PhaseEnvelope
		}
	case *message.Data:
		p.phase = PhaseHeaders
	case *message.EndOfHeaders:
		p.phase = PhaseBody
	case *message.Body:
		p.phase = PhaseBody
	case *message.EndOfMessage:
		p.phase = PhasePostEOM
	case *message.Abort:
		p.phase = PhaseEnvelope
	case *message.Close:
		p.phase = PhaseClosed
	}
}

// ReadFrom decodes events from the head of buf in order. Iteration stops
// silently once buf holds no complete frame; a protocol or framing error is
// surfaced as the iteration's error value and ends the sequence. The one
// exception is a frame with an unknown identifier when WithAbortOnUnknown
// is not set: its frame is consumed, it is surfaced as a
// *message.UnknownMessage error, and decoding continues with the next frame.
//
// The consumer must call the yielded message's Release before the loop
// continues to its next iteration if the message holds a buffer borrow;
// ReadFrom will otherwise fail to advance past the frame.
func (p *FilterProtocol) ReadFrom(buf *buffer.Buffer) iter.Seq2[message.Message, error] {
	return func(yield func(message.Message, error) bool) {
		for {
			if p.responseExpected {
				yield(nil, &UnexpectedMessage{Reason: "no response sent for the previous event"})
				return
			}

			msg, n, err := message.Unpack(buf)
			switch e := err.(type) {
			case nil:
				// fall through below
			case *message.UnknownMessage:
				if p.abortOnUnknown {
					if !yield(&message.Abort{}, nil) {
						return
					}
					p.phase = PhaseEnvelope
					_ = buf.Consume(n)
					continue
				}
				LogWarning("unknown message, ident %q", e.Contents[4])
				_ = buf.Consume(n)
				if !yield(nil, e) {
					return
				}
				continue
			default:
				if err == message.ErrNeedsMore {
					return
				}
				yield(nil, err)
				return
			}

			if err := p.checkReceivable(msg); err != nil {
				msg.Release()
				_ = buf.Consume(n)
				yield(nil, err)
				return
			}

			p.applyRead(msg)
			more := yield(msg, nil)
			consumeErr := buf.Consume(n)
			if !more {
				return
			}
			if consumeErr != nil {
				yield(nil, consumeErr)
				return
			}
		}
	}
}

// modificationFlags maps each post-EOM modification message kind to the
// ActionFlags bit(s) that must have been negotiated before it may be sent.
// InsertHeader accepts either header-modifying bit, matching libmilter's
// own leniency since it has no dedicated capability bit.
var modificationFlags = map[byte]message.ActionFlags{
	byte('h'): message.ActionAddHeaders,
	byte('m'): message.ActionChangeHeaders,
	byte('i'): message.ActionChangeHeaders | message.ActionAddHeaders,
	byte('e'): message.ActionChangeFrom,
	byte('+'): message.ActionAddRcpt,
	byte('2'): message.ActionAddRcptPar,
	byte('-'): message.ActionDelRcpt,
	byte('b'): message.ActionChangeBody,
	byte('q'): message.ActionQuarantine,
}

// nextPhaseAfterVerdict maps the event kind a verdict answers to the phase
// the session enters once that verdict is packed.
var nextPhaseAfterVerdict = map[byte]Phase{
	byte('C'): PhaseHelo,
	byte('H'): PhaseEnvelope,
	byte('M'): PhaseEnvelope,
	byte('R'): PhaseEnvelope,
	byte('T'): PhaseHeaders,
	byte('L'): PhaseHeaders,
	byte('N'): PhaseBody,
	byte('B'): PhaseBody,
}

func isVerdict(msg message.Message) bool {
	switch msg.(type) {
	case *message.Continue, *message.Reject, *message.Discard,
		*message.Accept, *message.TemporaryFailure:
		return true
	default:
		return false
	}
}

// WriteTo validates msg against the session's current phase and negotiated
// capabilities, and on success packs it to buf.
func (p *FilterProtocol) WriteTo(buf *buffer.Buffer, msg message.Message) error {
	switch m := msg.(type) {
	case *message.Negotiate:
		return p.writeNegotiate(buf, m)
	case *message.Progress:
		if p.phase == PhaseNegotiating || p.phase == PhaseClosed {
			return &UnexpectedMessage{Reason: "Progress not expected before negotiation or after close"}
		}
		return m.Pack(buf)
	case *message.Skip:
		return p.writeSkip(buf, m)
	default:
		if flag, ok := modificationFlags[msg.Ident()]; ok {
			return p.writeModification(buf, msg, flag)
		}
		if isVerdict(msg) {
			return p.writeVerdict(buf, msg)
		}
		return &InvalidMessage{Reason: fmt.Sprintf("%T is not a message the filter sends", msg)}
	}
}

func (p *FilterProtocol) writeNegotiate(buf *buffer.Buffer, m *message.Negotiate) error {
	if p.phase != PhaseNegotiating {
		return &UnexpectedMessage{Reason: "Negotiate already completed for this session"}
	}
	if m.ActionFlags&^p.offeredActions != 0 {
		return &ValueError{Reason: "action flags not offered by the MTA"}
	}
	if m.ProtocolFlags&^p.offeredProtocol != 0 {
		return &ValueError{Reason: "protocol flags not offered by the MTA"}
	}

	actions := m.ActionFlags
	if len(m.Macros) > 0 && actions&message.ActionSetSymList == 0 {
		if p.offeredActions&message.ActionSetSymList == 0 {
			return &ValueError{Reason: "macro stage requests given but SETSYMLIST not offered by the MTA"}
		}
		LogWarning("implicitly setting SETSYMLIST because macro stages were requested")
		actions |= message.ActionSetSymList
	}

	reply := &message.Negotiate{
		Version:       m.Version,
		ActionFlags:   actions,
		ProtocolFlags: m.ProtocolFlags,
		Macros:        m.Macros,
	}
	if err := reply.Pack(buf); err != nil {
		return err
	}

	p.version = m.Version
	p.actions = actions
	p.protocol = m.ProtocolFlags
	p.negotiated = true
	p.phase = PhaseConnect
	p.responseExpected = false
	return nil
}

func (p *FilterProtocol) writeVerdict(buf *buffer.Buffer, msg message.Message) error {
	if !p.responseExpected {
		return &UnexpectedMessage{Reason: fmt.Sprintf("no response owed, cannot send %T", msg)}
	}
	if err := msg.Pack(buf); err != nil {
		return err
	}
	p.responseExpected = false
	if p.phase == PhasePostEOM {
		p.phase = PhaseEnvelope
		return nil
	}
	if next, ok := nextPhaseAfterVerdict[p.currentEvent]; ok {
		p.phase = next
	}
	return nil
}

func (p *FilterProtocol) writeSkip(buf *buffer.Buffer, m *message.Skip) error {
	if !p.responseExpected {
		return &UnexpectedMessage{Reason: "no response owed, cannot send Skip"}
	}
	if p.currentEvent != 'B' {
		return &InvalidMessage{Reason: "Skip is only a legal verdict for a Body event"}
	}
	if !p.Skip() {
		return &UnexpectedMessage{Reason: "SKIP was not negotiated"}
	}
	if err := m.Pack(buf); err != nil {
		return err
	}
	p.responseExpected = false
	return nil
}

func (p *FilterProtocol) writeModification(buf *buffer.Buffer, msg message.Message, required message.ActionFlags) error {
	if p.phase != PhasePostEOM {
		return &UnexpectedMessage{Reason: fmt.Sprintf("%T only legal in PostEOM", msg)}
	}
	if p.actions&required == 0 {
		return &UnexpectedMessage{Reason: fmt.Sprintf("%T was not negotiated", msg)}
	}
	return msg.Pack(buf)
}
