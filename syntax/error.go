package syntax

import "fmt"

// Sentinel errors for errors.Is. Comparison is by Kind only.
var (
	// ErrInvalidRange reports a class range whose end precedes its start, e.g. [z-a].
	ErrInvalidRange = &Error{Kind: InvalidRange, Offset: -1}

	// ErrUnbalancedGroup reports mismatched parentheses or an unterminated class.
	ErrUnbalancedGroup = &Error{Kind: UnbalancedGroup, Offset: -1}

	// ErrInvalidEscape reports a backslash followed by an unsupported byte.
	ErrInvalidEscape = &Error{Kind: InvalidEscape, Offset: -1}

	// ErrEmptyClass reports a class that matches no byte or lists none, e.g. [], [^] or [^\x00-\xff].
	ErrEmptyClass = &Error{Kind: EmptyClass, Offset: -1}

	// ErrMissingOperand reports an operator without its operand(s), e.g. "a|" or "*a".
	ErrMissingOperand = &Error{Kind: MissingOperand, Offset: -1}
)

// ErrorKind classifies pattern errors.
type ErrorKind uint8

const (
	// InvalidRange indicates a class range [x-y] with y < x
	InvalidRange ErrorKind = iota

	// UnbalancedGroup indicates unmatched grouping
	UnbalancedGroup

	// InvalidEscape indicates an unsupported escape sequence
	InvalidEscape

	// EmptyClass indicates a class with no members
	EmptyClass

	// MissingOperand indicates an operator applied to nothing
	MissingOperand
)

// String returns the kind name.
func (k ErrorKind) String() string {
	switch k {
	case InvalidRange:
		return "InvalidRange"
	case UnbalancedGroup:
		return "UnbalancedGroup"
	case InvalidEscape:
		return "InvalidEscape"
	case EmptyClass:
		return "EmptyClass"
	case MissingOperand:
		return "MissingOperand"
	default:
		return fmt.Sprintf("UnknownErrorKind(%d)", k)
	}
}

// Error describes why a pattern could not be parsed.
type Error struct {
	Kind    ErrorKind
	Pattern string
	Offset  int // byte offset into Pattern, -1 when not attributable
	Detail  string
}

// Error implements the error interface
func (e *Error) Error() string {
	switch {
	case e.Offset >= 0:
		return fmt.Sprintf("syntax error in %q %s", e.Pattern, e.Reason())
	case e.Pattern != "":
		return fmt.Sprintf("syntax error in %q: %s", e.Pattern, e.Reason())
	}
	return "syntax error: " + e.Reason()
}

// Reason describes the error without naming the pattern, for callers that
// report the pattern themselves.
func (e *Error) Reason() string {
	msg := e.Kind.String()
	if e.Detail != "" {
		msg += ": " + e.Detail
	}
	if e.Offset >= 0 {
		return fmt.Sprintf("at offset %d: %s", e.Offset, msg)
	}
	return msg
}

// Is implements error comparison for errors.Is
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return e.Kind == t.Kind
}

func newError(kind ErrorKind, pattern string, offset int, format string, args ...any) *Error {
	return &Error{
		Kind:    kind,
		Pattern: pattern,
		Offset:  offset,
		Detail:  fmt.Sprintf(format, args...),
	}
}
