// Package shared provides small helpers for handling secrets read from the
// terminal.
package shared

import "strings"

// WipeByteArray overwrites the contents of the provided byte slice with zeros.
// It is used on connection strings read from the terminal once they have
// been copied into the request.
//
// If the slice is nil, the function does nothing.
func WipeByteArray(b []byte) {
	if b == nil {
		return
	}
	for i := range b {
		b[i] = 0
	}
}

// SecretFromBytes trims surrounding whitespace from a secret read as bytes,
// returns it as a string and wipes the source slice.
func SecretFromBytes(b []byte) string {
	s := strings.TrimSpace(string(b))
	WipeByteArray(b)
	return s
}
