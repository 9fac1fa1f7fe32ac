package utils

import (
	"bytes"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
)

// CString is a fixed-size, NUL padded text field as found in shape and archive headers.
type CString []byte

// Bytes returns the field up to its first NUL.
func (c CString) Bytes() []byte {
	if i := bytes.IndexByte(c, 0); i >= 0 {
		return c[:i]
	}
	return c
}

func (c CString) String() string { return string(c.Bytes()) }

// Decode converts the field from a legacy code page. Fields that fail to
// decode are returned as raw bytes.
func (c CString) Decode(enc encoding.Encoding) string {
	s, err := enc.NewDecoder().String(c.String())
	if err != nil {
		return c.String()
	}
	return s
}

// Windows1252 decodes with the code page used by the engine's tools.
func (c CString) Windows1252() string { return c.Decode(charmap.Windows1252) }
