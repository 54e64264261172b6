package wire

import (
	"reflect"
	"testing"
)

func TestDecodeCStrings(t *testing.T) {
	tests := []struct {
		name string
		data []byte
		want []string
	}{
		{"single string", []byte("one\x00"), []string{"one"}},
		{"two strings", []byte("one\x00two\x00"), []string{"one", "two"}},
		{"last empty", []byte("one\x00\x00"), []string{"one", ""}},
		{"first empty", []byte("\x00two\x00"), []string{"", "two"}},
		{"all empty", []byte("\x00\x00"), []string{"", ""}},
		{"nil in nil out", nil, nil},
		{"empty ok", []byte{}, nil},
		{"missing last null", []byte("one"), []string{"one"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := DecodeCStrings(tt.data); !reflect.DeepEqual(got, tt.want) {
				t.Errorf("DecodeCStrings() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestReadCString(t *testing.T) {
	tests := []struct {
		name string
		data []byte
		want string
	}{
		{"simple", []byte("simple\x00"), "simple"},
		{"trailing", []byte("simple\x00other data"), "simple"},
		{"no null", []byte("simple"), "simple"},
		{"empty", []byte("\x00"), ""},
		{"nil", nil, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ReadCString(tt.data); got != tt.want {
				t.Errorf("ReadCString() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestAppendCString(t *testing.T) {
	tests := []struct {
		name string
		dest []byte
		s    string
		want []byte
	}{
		{"append to nil", nil, "append", []byte("append\x00")},
		{"append to empty", []byte{}, "append", []byte("append\x00")},
		{"append after existing", []byte("one\x00"), "append", []byte("one\x00append\x00")},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := AppendCString(tt.dest, tt.s); !reflect.DeepEqual(got, tt.want) {
				t.Errorf("AppendCString() = %v, want %v", got, tt.want)
			}
		})
	}
}
