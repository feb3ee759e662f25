package protocol

import (
	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
)

// DecodeText converts a received line to a string.
// Lines are Latin-1 since payload bytes use the full 0-255 range.
func DecodeText(line []byte) string {
	s, err := charmap.ISO8859_1.NewDecoder().Bytes(line)
	if err != nil {
		return string(line)
	}
	return string(s)
}

// EncodeText converts a string back to Latin-1 bytes,
// characters outside Latin-1 are replaced by SUB (0x1a).
func EncodeText(s string) []byte {
	b, err := encoding.ReplaceUnsupported(charmap.ISO8859_1.NewEncoder()).Bytes([]byte(s))
	if err != nil {
		return []byte(s)
	}
	return b
}
