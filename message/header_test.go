package message

import (
	"bytes"
	"testing"

	"github.com/domsekotill/kilter.protocol/buffer"
)

func TestHeaderRoundTrip(t *testing.T) {
	buf := buffer.New(64)
	msg := &Header{Name: "Subject", Value: []byte("hello world")}
	if err := msg.Pack(buf); err != nil {
		t.Fatalf("Pack() error = %v", err)
	}
	out, _, err := Unpack(buf)
	if err != nil {
		t.Fatalf("Unpack() error = %v", err)
	}
	defer out.Release()
	got := out.(*Header)
	if got.Name != msg.Name {
		t.Errorf("Name = %q, want %q", got.Name, msg.Name)
	}
	if !bytes.Equal(got.Value, msg.Value) {
		t.Errorf("Value = %q, want %q", got.Value, msg.Value)
	}
}

func TestHeaderMissingNameTerminatorIsInvalid(t *testing.T) {
	_, err := decodeHeader([]byte("Subject"))
	if _, ok := err.(*InvalidMessage); !ok {
		t.Fatalf("decodeHeader() error = %v (%T), want *InvalidMessage", err, err)
	}
}

func TestHeaderMissingValueTerminatorIsInvalid(t *testing.T) {
	_, err := decodeHeader([]byte("Subject\x00hello"))
	if _, ok := err.(*InvalidMessage); !ok {
		t.Fatalf("decodeHeader() error = %v (%T), want *InvalidMessage", err, err)
	}
}
