package wire

import (
	"bytes"
	"strings"
)

const null = "\x00"

// DecodeCStrings splits a run of NUL-terminated C strings into a Go string
// slice. The final string in data may omit its trailing NUL.
func DecodeCStrings(data []byte) []string {
	if len(data) == 0 {
		return nil
	}
	if data[len(data)-1] == 0 {
		data = data[:len(data)-1]
	}
	return strings.Split(string(data), null)
}

// ReadCString reads a single NUL-terminated string from the head of data. If
// data contains no NUL byte, the whole of data is returned as a string.
func ReadCString(data []byte) string {
	pos := bytes.IndexByte(data, 0)
	if pos == -1 {
		return string(data)
	}
	return string(data[:pos])
}

// AppendCString appends s followed by a NUL byte to dest, returning the
// extended slice like append does. s must not itself contain a NUL byte.
func AppendCString(dest []byte, s string) []byte {
	dest = append(dest, s...)
	return append(dest, 0x00)
}
