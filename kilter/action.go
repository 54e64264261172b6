package kilter

import (
	"fmt"

	"github.com/domsekotill/kilter.protocol/message"
)

// ActionType names the kind of verdict a filter sent for an event.
type ActionType int

const (
	ActionAccept ActionType = iota + 1
	ActionContinue
	ActionDiscard
	ActionReject
	ActionTempFail
	ActionSkip
	ActionProgress
)

// Action is a convenience summary of a verdict message, useful for logging
// or for callers that want to switch on the verdict kind without a type
// assertion on the underlying message.Message.
type Action struct {
	Type ActionType
}

// StopProcessing reports whether a is a verdict that ends the current SMTP
// command or connection rather than moving on to the next event.
func (a Action) StopProcessing() bool {
	switch a.Type {
	case ActionReject, ActionTempFail:
		return true
	default:
		return false
	}
}

func (a Action) String() string {
	switch a.Type {
	case ActionAccept:
		return "Accept"
	case ActionContinue:
		return "Continue"
	case ActionDiscard:
		return "Discard"
	case ActionReject:
		return "Reject"
	case ActionTempFail:
		return "TempFail"
	case ActionSkip:
		return "Skip"
	case ActionProgress:
		return "Progress"
	default:
		return fmt.Sprintf("Action(%d)", int(a.Type))
	}
}

// DescribeAction summarises msg as an Action, or returns false if msg is not
// a verdict message.
func DescribeAction(msg message.Message) (Action, bool) {
	switch msg.(type) {
	case *message.Accept:
		return Action{ActionAccept}, true
	case *message.Continue:
		return Action{ActionContinue}, true
	case *message.Discard:
		return Action{ActionDiscard}, true
	case *message.Reject:
		return Action{ActionReject}, true
	case *message.TemporaryFailure:
		return Action{ActionTempFail}, true
	case *message.Skip:
		return Action{ActionSkip}, true
	case *message.Progress:
		return Action{ActionProgress}, true
	default:
		return Action{}, false
	}
}

// ModifyActionType names the kind of post-EOM modification a filter sent.
type ModifyActionType int

const (
	ModifyAddHeader ModifyActionType = iota + 1
	ModifyChangeHeader
	ModifyInsertHeader
	ModifyChangeSender
	ModifyAddRecipient
	ModifyAddRecipientPar
	ModifyRemoveRecipient
	ModifyReplaceBody
	ModifyQuarantine
)

// ModifyAction is a convenience summary of a post-EOM modification message.
// Only the fields relevant to Type are populated.
type ModifyAction struct {
	Type ModifyActionType

	HeaderIndex uint32
	HeaderName  string
	HeaderValue []byte

	Address string
	Args    string

	Body []byte

	Reason string
}

func (a ModifyAction) String() string {
	switch a.Type {
	case ModifyAddHeader:
		return fmt.Sprintf("AddHeader(%q, %q)", a.HeaderName, a.HeaderValue)
	case ModifyChangeHeader:
		return fmt.Sprintf("ChangeHeader(%d, %q, %q)", a.HeaderIndex, a.HeaderName, a.HeaderValue)
	case ModifyInsertHeader:
		return fmt.Sprintf("InsertHeader(%d, %q, %q)", a.HeaderIndex, a.HeaderName, a.HeaderValue)
	case ModifyChangeSender:
		return fmt.Sprintf("ChangeSender(%q, %q)", a.Address, a.Args)
	case ModifyAddRecipient:
		return fmt.Sprintf("AddRecipient(%q)", a.Address)
	case ModifyAddRecipientPar:
		return fmt.Sprintf("AddRecipientPar(%q, %q)", a.Address, a.Args)
	case ModifyRemoveRecipient:
		return fmt.Sprintf("RemoveRecipient(%q)", a.Address)
	case ModifyReplaceBody:
		return fmt.Sprintf("ReplaceBody(%d bytes)", len(a.Body))
	case ModifyQuarantine:
		return fmt.Sprintf("Quarantine(%q)", a.Reason)
	default:
		return fmt.Sprintf("ModifyAction(%d)", int(a.Type))
	}
}

// DescribeModification summarises msg as a ModifyAction, or returns false if
// msg is not a post-EOM modification message.
func DescribeModification(msg message.Message) (ModifyAction, bool) {
	switch m := msg.(type) {
	case *message.AddHeader:
		return ModifyAction{Type: ModifyAddHeader, HeaderName: m.Name, HeaderValue: m.Value}, true
	case *message.ChangeHeader:
		return ModifyAction{Type: ModifyChangeHeader, HeaderIndex: m.Index, HeaderName: m.Name, HeaderValue: m.Value}, true
	case *message.InsertHeader:
		return ModifyAction{Type: ModifyInsertHeader, HeaderIndex: m.Index, HeaderName: m.Name, HeaderValue: m.Value}, true
	case *message.ChangeSender:
		return ModifyAction{Type: ModifyChangeSender, Address: m.Address, Args: m.Args}, true
	case *message.AddRecipient:
		return ModifyAction{Type: ModifyAddRecipient, Address: m.Address}, true
	case *message.AddRecipientPar:
		return ModifyAction{Type: ModifyAddRecipientPar, Address: m.Address, Args: m.Args}, true
	case *message.RemoveRecipient:
		return ModifyAction{Type: ModifyRemoveRecipient, Address: m.Address}, true
	case *message.ReplaceBody:
		return ModifyAction{Type: ModifyReplaceBody, Body: m.Content}, true
	case *message.Quarantine:
		return ModifyAction{Type: ModifyQuarantine, Reason: m.Reason}, true
	default:
		return ModifyAction{}, false
	}
}
