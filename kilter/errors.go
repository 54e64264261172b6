package kilter

import "fmt"

// UnexpectedMessage is returned when a message is read or written out of the
// sequence the protocol requires: a new event before a pending response was
// sent, a verdict written when none is owed, an unnegotiated modification,
// or Skip written when no response is owed or SKIP was not negotiated.
type UnexpectedMessage struct {
	Reason string
}

func (e *UnexpectedMessage) Error() string {
	return fmt.Sprintf("kilter: unexpected message: %s", e.Reason)
}

// InvalidMessage is returned when a message kind is not legal at all for the
// operation attempted (reading a verdict, writing an inbound-only event kind,
// or sending Skip as a verdict to a non-Body event). A frame whose payload is
// malformed is reported by ReadFrom as a *message.InvalidMessage instead.
type InvalidMessage struct {
	Reason string
}

func (e *InvalidMessage) Error() string {
	return fmt.Sprintf("kilter: invalid message: %s", e.Reason)
}

// ValueError is returned when a Negotiate reply requests capabilities the
// MTA did not offer.
type ValueError struct {
	Reason string
}

func (e *ValueError) Error() string {
	return fmt.Sprintf("kilter: invalid negotiation value: %s", e.Reason)
}
