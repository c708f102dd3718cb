package scanner

import (
	"errors"
	"fmt"
	"strconv"
)

// ErrUnmatchedInput is the sentinel matched by every *UnmatchedInputError.
var ErrUnmatchedInput = errors.New("unmatched input")

// UnmatchedInputError reports a byte at which no rule matched.
// It is recoverable: the byte has already been skipped.
type UnmatchedInputError struct {
	Offset int
	Byte   byte
}

// Error implements the error interface.
func (e *UnmatchedInputError) Error() string {
	return fmt.Sprintf("unmatched input %s at offset %d", quote(e.Byte), e.Offset)
}

// Unwrap returns ErrUnmatchedInput.
func (e *UnmatchedInputError) Unwrap() error {
	return ErrUnmatchedInput
}

// MissingActionError is returned by Run when the table can dispatch a
// handler id that has no action.
type MissingActionError struct {
	Handler int
	Actions int
}

// Error implements the error interface.
func (e *MissingActionError) Error() string {
	return fmt.Sprintf("no action for handler %d (%d actions)", e.Handler, e.Actions)
}

func quote(b byte) string {
	return strconv.QuoteRune(rune(b))
}
