package kilter

import (
	"testing"

	"github.com/domsekotill/kilter.protocol/buffer"
	"github.com/domsekotill/kilter.protocol/message"
)

func mustPack(t *testing.T, buf *buffer.Buffer, msg message.Message) {
	t.Helper()
	if err := msg.Pack(buf); err != nil {
		t.Fatalf("Pack(%T) error = %v", msg, err)
	}
}

// readOne drains exactly one event from buf via proto, failing the test on
// error or end of sequence, and releases any buffer borrow it holds.
func readOne(t *testing.T, proto *FilterProtocol, buf *buffer.Buffer) message.Message {
	t.Helper()
	for msg, err := range proto.ReadFrom(buf) {
		if err != nil {
			t.Fatalf("ReadFrom() error = %v", err)
		}
		msg.Release()
		return msg
	}
	t.Fatalf("ReadFrom() yielded nothing, want one event")
	return nil
}

func negotiateOffer() *message.Negotiate {
	return &message.Negotiate{
		Version:       6,
		ActionFlags:   message.ActionAll,
		ProtocolFlags: message.ProtocolNone,
	}
}

func TestFramingBasicsYieldsNothingUntilComplete(t *testing.T) {
	proto := New()
	buf := buffer.New(256)

	// a Negotiate frame's 4-byte length prefix only, with no payload bytes yet
	_ = buf.Append([]byte{0, 0, 0, 0x0D})

	count := 0
	for range proto.ReadFrom(buf) {
		count++
	}
	if count != 0 {
		t.Fatalf("ReadFrom() yielded %d events, want 0 on a partial frame", count)
	}

	buf2 := buffer.New(256)
	mustPack(t, buf2, negotiateOffer())
	if err := buf.Append(buf2.View()[4:]); err != nil {
		t.Fatalf("Append() error = %v", err)
	}

	events := 0
	for msg, err := range proto.ReadFrom(buf) {
		if err != nil {
			t.Fatalf("ReadFrom() error = %v", err)
		}
		events++
		if _, ok := msg.(*message.Negotiate); !ok {
			t.Fatalf("event = %T, want *message.Negotiate", msg)
		}
		msg.Release()
	}
	if events != 1 {
		t.Fatalf("ReadFrom() yielded %d events, want 1", events)
	}
}

func TestReadFromUnknownMessageWarnMode(t *testing.T) {
	proto := New()
	buf := buffer.New(64)
	_ = buf.Append([]byte{0, 0, 0, 1, 'Z'})

	var gotErr error
	for _, err := range proto.ReadFrom(buf) {
		gotErr = err
	}
	unk, ok := gotErr.(*message.UnknownMessage)
	if !ok {
		t.Fatalf("ReadFrom() error type = %T, want *message.UnknownMessage", gotErr)
	}
	if len(unk.Contents) != 5 || unk.Contents[4] != 'Z' {
		t.Errorf("Contents = %v, want the full 5-byte frame", unk.Contents)
	}
}

func TestReadFromUnknownMessageAbortMode(t *testing.T) {
	proto := New(WithAbortOnUnknown())
	buf := buffer.New(64)
	_ = buf.Append([]byte{0, 0, 0, 1, 'Z'})

	var got message.Message
	for msg, err := range proto.ReadFrom(buf) {
		if err != nil {
			t.Fatalf("ReadFrom() error = %v", err)
		}
		got = msg
		break
	}
	if _, ok := got.(*message.Abort); !ok {
		t.Fatalf("ReadFrom() yielded %T, want *message.Abort", got)
	}
}

func TestReadFromSequencingViolation(t *testing.T) {
	proto := New()
	buf := buffer.New(512)
	mustPack(t, buf, negotiateOffer())
	mustPack(t, buf, &message.Macro{Code: byte('C')})
	mustPack(t, buf, &message.Connect{
		Hostname: "mail.example.com",
		Family:   message.FamilyInet,
		Port:     25,
		Address:  "192.0.2.1",
	})

	var events []message.Message
	var finalErr error
	for msg, err := range proto.ReadFrom(buf) {
		if err != nil {
			finalErr = err
			break
		}
		events = append(events, msg)
		msg.Release()
	}
	if len(events) != 1 {
		t.Fatalf("got %d events before the error, want 1 (Negotiate)", len(events))
	}
	if _, ok := events[0].(*message.Negotiate); !ok {
		t.Fatalf("first event = %T, want *message.Negotiate", events[0])
	}
	if _, ok := finalErr.(*UnexpectedMessage); !ok {
		t.Fatalf("error = %v (%T), want *UnexpectedMessage", finalErr, finalErr)
	}
}

func TestFullHappyPath(t *testing.T) {
	proto := New()
	in := buffer.New(4096)
	out := buffer.New(4096)

	mustPack(t, in, negotiateOffer())
	neg := readOne(t, proto, in).(*message.Negotiate)
	if err := proto.WriteTo(out, &message.Negotiate{
		Version:       neg.Version,
		ActionFlags:   message.ActionAddHeaders,
		ProtocolFlags: message.ProtocolNone,
	}); err != nil {
		t.Fatalf("WriteTo(Negotiate reply) error = %v", err)
	}

	mustPack(t, in, &message.Connect{
		Hostname: "mail.example.com",
		Family:   message.FamilyInet,
		Port:     25,
		Address:  "192.0.2.1",
	})
	readOne(t, proto, in)
	if err := proto.WriteTo(out, &message.Continue{}); err != nil {
		t.Fatalf("WriteTo(Continue after Connect) error = %v", err)
	}

	mustPack(t, in, &message.Helo{Hostname: "mail.example.com"})
	readOne(t, proto, in)
	if err := proto.WriteTo(out, &message.Continue{}); err != nil {
		t.Fatalf("WriteTo(Continue after Helo) error = %v", err)
	}

	mustPack(t, in, &message.Data{})
	readOne(t, proto, in)
	if err := proto.WriteTo(out, &message.Continue{}); err != nil {
		t.Fatalf("WriteTo(Continue after Data) error = %v", err)
	}

	mustPack(t, in, &message.EndOfHeaders{})
	readOne(t, proto, in)
	if err := proto.WriteTo(out, &message.Continue{}); err != nil {
		t.Fatalf("WriteTo(Continue after EndOfHeaders) error = %v", err)
	}

	mustPack(t, in, &message.EndOfMessage{Content: nil})
	readOne(t, proto, in)
	if proto.Phase() != PhasePostEOM {
		t.Fatalf("Phase() = %v, want PhasePostEOM after EndOfMessage", proto.Phase())
	}

	if err := proto.WriteTo(out, &message.AddHeader{Name: "test", Value: []byte("spam")}); err != nil {
		t.Fatalf("WriteTo(AddHeader) error = %v", err)
	}
	if err := proto.WriteTo(out, &message.AddHeader{Name: "x-test", Value: []byte("ham")}); err != nil {
		t.Fatalf("WriteTo(AddHeader) error = %v", err)
	}

	if err := proto.WriteTo(out, &message.Skip{}); err == nil {
		t.Fatalf("WriteTo(Skip) error = nil, want *InvalidMessage")
	} else if _, ok := err.(*InvalidMessage); !ok {
		t.Fatalf("WriteTo(Skip) error = %v (%T), want *InvalidMessage", err, err)
	}

	if err := proto.WriteTo(out, &message.Accept{}); err != nil {
		t.Fatalf("WriteTo(Accept) error = %v", err)
	}
	if proto.Phase() != PhaseEnvelope {
		t.Fatalf("Phase() = %v, want PhaseEnvelope after final verdict", proto.Phase())
	}
}

func TestSkipOnlyLegalInResponseToBody(t *testing.T) {
	proto := New()
	in := buffer.New(4096)
	out := buffer.New(4096)

	mustPack(t, in, &message.Negotiate{Version: 6, ActionFlags: message.ActionAll, ProtocolFlags: message.ProtocolSkip})
	neg := readOne(t, proto, in).(*message.Negotiate)
	if err := proto.WriteTo(out, &message.Negotiate{
		Version:       neg.Version,
		ActionFlags:   neg.ActionFlags,
		ProtocolFlags: message.ProtocolSkip,
	}); err != nil {
		t.Fatalf("WriteTo(Negotiate reply) error = %v", err)
	}

	if err := proto.WriteTo(out, &message.Skip{}); err == nil {
		t.Fatalf("WriteTo(Skip) before any event error = nil, want *UnexpectedMessage")
	} else if _, ok := err.(*UnexpectedMessage); !ok {
		t.Fatalf("WriteTo(Skip) error = %v (%T), want *UnexpectedMessage", err, err)
	}

	mustPack(t, in, &message.Connect{Hostname: "mail.example.com", Family: message.FamilyInet, Port: 25, Address: "192.0.2.1"})
	readOne(t, proto, in)
	if err := proto.WriteTo(out, &message.Continue{}); err != nil {
		t.Fatalf("WriteTo(Continue) error = %v", err)
	}
	mustPack(t, in, &message.Helo{Hostname: "mail.example.com"})
	readOne(t, proto, in)
	if err := proto.WriteTo(out, &message.Continue{}); err != nil {
		t.Fatalf("WriteTo(Continue) error = %v", err)
	}
	mustPack(t, in, &message.Data{})
	readOne(t, proto, in)
	if err := proto.WriteTo(out, &message.Continue{}); err != nil {
		t.Fatalf("WriteTo(Continue) error = %v", err)
	}
	mustPack(t, in, &message.EndOfHeaders{})
	readOne(t, proto, in)
	if err := proto.WriteTo(out, &message.Continue{}); err != nil {
		t.Fatalf("WriteTo(Continue) error = %v", err)
	}

	mustPack(t, in, &message.Body{Content: []byte("line one\n")})
	readOne(t, proto, in)
	if err := proto.WriteTo(out, &message.Skip{}); err != nil {
		t.Fatalf("WriteTo(Skip) after Body error = %v", err)
	}
}

func TestNegotiateSetSymListElevation(t *testing.T) {
	proto := New()
	in := buffer.New(4096)
	out := buffer.New(4096)

	mustPack(t, in, &message.Negotiate{
		Version:       6,
		ActionFlags:   message.ActionSetSymList,
		ProtocolFlags: message.ProtocolNone,
	})
	readOne(t, proto, in)

	var warned string
	prevWarn := LogWarning
	LogWarning = func(format string, v ...any) { warned = format }
	defer func() { LogWarning = prevWarn }()

	if err := proto.WriteTo(out, &message.Negotiate{
		Version:       6,
		ActionFlags:   message.ActionNone,
		ProtocolFlags: message.ProtocolNone,
		Macros:        map[message.Stage][]string{message.StageConnect: {"spam"}},
	}); err != nil {
		t.Fatalf("WriteTo(Negotiate) error = %v", err)
	}
	if warned == "" {
		t.Errorf("expected a warning to be logged for implicit SETSYMLIST elevation")
	}
	if proto.Actions()&message.ActionSetSymList == 0 {
		t.Errorf("Actions() = %v, want SETSYMLIST set after elevation", proto.Actions())
	}
}

func TestNegotiateSetSymListNotOfferedIsValueError(t *testing.T) {
	proto := New()
	in := buffer.New(4096)
	out := buffer.New(4096)

	mustPack(t, in, &message.Negotiate{
		Version:       6,
		ActionFlags:   message.ActionAddHeaders,
		ProtocolFlags: message.ProtocolNone,
	})
	readOne(t, proto, in)

	err := proto.WriteTo(out, &message.Negotiate{
		Version:       6,
		ActionFlags:   message.ActionAddHeaders,
		ProtocolFlags: message.ProtocolNone,
		Macros:        map[message.Stage][]string{message.StageConnect: {"spam"}},
	})
	if _, ok := err.(*ValueError); !ok {
		t.Fatalf("WriteTo(Negotiate) error = %v (%T), want *ValueError", err, err)
	}
}

func TestWriteVerdictWithoutResponseOwedIsUnexpected(t *testing.T) {
	proto := New()
	out := buffer.New(64)
	err := proto.WriteTo(out, &message.Continue{})
	if _, ok := err.(*UnexpectedMessage); !ok {
		t.Fatalf("WriteTo(Continue) error = %v (%T), want *UnexpectedMessage", err, err)
	}
}

func TestWriteModificationOutsidePostEOMIsUnexpected(t *testing.T) {
	proto := New()
	out := buffer.New(64)
	err := proto.WriteTo(out, &message.AddHeader{Name: "x", Value: []byte("y")})
	if _, ok := err.(*UnexpectedMessage); !ok {
		t.Fatalf("WriteTo(AddHeader) error = %v (%T), want *UnexpectedMessage", err, err)
	}
}
