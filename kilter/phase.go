package kilter

import "fmt"

// Phase names a point in the mail transaction lifecycle a FilterProtocol
// session is in. Phases advance strictly in the order listed, except that
// Envelope loops over any number of EnvelopeFrom/EnvelopeRecipient pairs,
// Headers loops over any number of Header events, and Body loops over any
// number of Body frames; PostEOM returns to Envelope for the next
// transaction, or to Closed. An Abort returns the session to Envelope; there
// is no separate aborted phase.
type Phase int

const (
	PhaseNegotiating Phase = iota
	PhaseConnect
	PhaseHelo
	PhaseEnvelope
	PhaseData
	PhaseHeaders
	PhaseEndOfHeaders
	PhaseBody
	PhasePostEOM
	PhaseClosed
)

func (p Phase) String() string {
	switch p {
	case PhaseNegotiating:
		return "Negotiating"
	case PhaseConnect:
		return "Connect"
	case PhaseHelo:
		return "Helo"
	case PhaseEnvelope:
		return "Envelope"
	case PhaseData:
		return "Data"
	case PhaseHeaders:
		return "Headers"
	case PhaseEndOfHeaders:
		return "EndOfHeaders"
	case PhaseBody:
		return "Body"
	case PhasePostEOM:
		return "PostEOM"
	case PhaseClosed:
		return "Closed"
	default:
		return fmt.Sprintf("Phase(%d)", int(p))
	}
}
