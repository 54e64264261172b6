package message

import (
	"testing"

	"github.com/domsekotill/kilter.protocol/buffer"
)

func TestNoDataMessagesRoundTrip(t *testing.T) {
	tests := []struct {
		name string
		msg  Message
		want []byte
	}{
		{"Data", &Data{}, []byte{0, 0, 0, 1, 'T'}},
		{"EndOfHeaders", &EndOfHeaders{}, []byte{0, 0, 0, 1, 'N'}},
		{"Abort", &Abort{}, []byte{0, 0, 0, 1, 'A'}},
		{"Close", &Close{}, []byte{0, 0, 0, 1, 'Q'}},
		{"Continue", &Continue{}, []byte{0, 0, 0, 1, 'c'}},
		{"Reject", &Reject{}, []byte{0, 0, 0, 1, 'r'}},
		{"Discard", &Discard{}, []byte{0, 0, 0, 1, 'd'}},
		{"Accept", &Accept{}, []byte{0, 0, 0, 1, 'a'}},
		{"TemporaryFailure", &TemporaryFailure{}, []byte{0, 0, 0, 1, 't'}},
		{"Skip", &Skip{}, []byte{0, 0, 0, 1, 's'}},
		{"Progress", &Progress{}, []byte{0, 0, 0, 1, 'p'}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			buf := buffer.New(16)
			if err := tt.msg.Pack(buf); err != nil {
				t.Fatalf("Pack() error = %v", err)
			}
			got := buf.View()
			defer buf.Release()
			if string(got) != string(tt.want) {
				t.Errorf("Pack() = %v, want %v", got, tt.want)
			}

			out, n, err := Unpack(buf)
			if err != nil {
				t.Fatalf("Unpack() error = %v", err)
			}
			if n != len(tt.want) {
				t.Errorf("Unpack() n = %d, want %d", n, len(tt.want))
			}
			if _, ok := out.(NoDataMessage); !ok {
				t.Errorf("decoded message %T does not implement NoDataMessage", out)
			}
			if out.Ident() != tt.msg.Ident() {
				t.Errorf("decoded Ident() = %q, want %q", out.Ident(), tt.msg.Ident())
			}
			out.Release()
		})
	}
}
