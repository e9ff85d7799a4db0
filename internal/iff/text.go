package iff

import (
	"io"
	"strings"

	"golang.org/x/text/encoding/charmap"
)

// DecodeText decodes an ISO-8859-1 text payload, dropping trailing NUL
// terminators and padding.
func DecodeText(b []byte) (string, error) {
	out, err := charmap.ISO8859_1.NewDecoder().Bytes(b)
	if err != nil {
		return "", err
	}
	return strings.TrimRight(string(out), "\x00 "), nil
}

// ReadText reads and decodes a whole text chunk payload.
func ReadText(payload io.Reader) (string, error) {
	b, err := io.ReadAll(payload)
	if err != nil {
		return "", err
	}
	return DecodeText(b)
}
