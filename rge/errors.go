package rge

import (
	"fmt"

	"github.com/pkg/errors"
)

var ErrUnknownFormat = errors.New("rge: unknown shape format")

// FormatError aborts decoding of the current file.
type FormatError struct {
	Format string
	Reason string
	Err    error
}

func (e *FormatError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Format, e.Reason, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Format, e.Reason)
}

func (e *FormatError) Unwrap() error { return e.Err }

func NewFormatError(format, reason string, args ...interface{}) *FormatError {
	return &FormatError{Format: format, Reason: fmt.Sprintf(reason, args...)}
}

// WrapFormatError attaches a cause such as io.ErrUnexpectedEOF.
func WrapFormatError(err error, format, reason string, args ...interface{}) *FormatError {
	return &FormatError{Format: format, Reason: fmt.Sprintf(reason, args...), Err: err}
}

// UnimplementedCommandError describes an opcode or layout the decoder cannot
// interpret. The affected pixels stay at raster.Transparent.
type UnimplementedCommandError struct {
	Format  string
	Frame   int
	Row     int
	Offset  int64
	Command byte
	Detail  string
}

func (e *UnimplementedCommandError) Error() string {
	msg := fmt.Sprintf("%s: frame %d row %d: unimplemented command 0x%02x at offset 0x%x",
		e.Format, e.Frame, e.Row, e.Command, e.Offset)
	if e.Detail != "" {
		msg += " (" + e.Detail + ")"
	}
	return msg
}

func IsFormatError(err error) bool {
	var fe *FormatError
	return errors.As(err, &fe)
}
