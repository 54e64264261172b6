package message

import "fmt"

// ErrNeedsMore is returned by Unpack when the buffer does not yet hold a
// complete frame. It is not a protocol error: the caller should simply wait
// for more bytes and retry.
var ErrNeedsMore = fmt.Errorf("message: needs more data")

// UnknownMessage is returned by Unpack when a well-framed frame carries an
// identifier outside the known message table. Contents holds the full
// length-prefixed frame bytes, copied out of the buffer, so a caller can log
// or re-synthesise an Abort without needing to keep the source buffer alive.
type UnknownMessage struct {
	Contents []byte
}

func (e *UnknownMessage) Error() string {
	return fmt.Sprintf("message: unknown message, ident %q", e.Contents[4])
}

// InvalidMessage is returned by Unpack when a frame's identifier is known but
// its payload is malformed (a missing NUL terminator, an unrecognised
// Connect family letter, a truncated integer field, and so on).
type InvalidMessage struct {
	Reason string
}

func (e *InvalidMessage) Error() string {
	return fmt.Sprintf("message: invalid message: %s", e.Reason)
}
