package stream

import (
	"fmt"

	"github.com/ValentinKolb/dSearch/rpc/common"
)

// Error describes where and why a byte stream could not be decoded.
// It always matches common.ErrMalformedStream.
type Error struct {
	Offset int    // position in the stream where reading the field started
	Field  string // name of the field being read
	Reason string
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s for %s at offset %d", common.ErrMalformedStream, e.Reason, e.Field, e.Offset)
}

func (e *Error) Unwrap() error {
	return common.ErrMalformedStream
}

func newError(offset int, field, format string, args ...interface{}) *Error {
	return &Error{Offset: offset, Field: field, Reason: fmt.Sprintf(format, args...)}
}
