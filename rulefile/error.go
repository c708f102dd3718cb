package rulefile

import "fmt"

// ErrorKind classifies rule file errors.
type ErrorKind uint8

const (
	// SectionMissing means a %{ %} or %% marker was not found
	SectionMissing ErrorKind = iota

	// MalformedDefinition means a definition line is not name = "pattern"
	MalformedDefinition

	// DuplicateDefinition means a name was defined twice
	DuplicateDefinition

	// UndefinedVariable means a {name} reference has no earlier definition
	UndefinedVariable

	// MalformedRule means a rule is missing its pattern, -> or ;;
	MalformedRule
)

// String returns a human-readable error kind name
func (k ErrorKind) String() string {
	switch k {
	case SectionMissing:
		return "SectionMissing"
	case MalformedDefinition:
		return "MalformedDefinition"
	case DuplicateDefinition:
		return "DuplicateDefinition"
	case UndefinedVariable:
		return "UndefinedVariable"
	case MalformedRule:
		return "MalformedRule"
	default:
		return fmt.Sprintf("UnknownErrorKind(%d)", k)
	}
}

var (
	// ErrSectionMissing matches any SectionMissing error.
	ErrSectionMissing = &Error{Kind: SectionMissing}

	// ErrMalformedDefinition matches any MalformedDefinition error.
	ErrMalformedDefinition = &Error{Kind: MalformedDefinition}

	// ErrDuplicateDefinition matches any DuplicateDefinition error.
	ErrDuplicateDefinition = &Error{Kind: DuplicateDefinition}

	// ErrUndefinedVariable matches any UndefinedVariable error.
	ErrUndefinedVariable = &Error{Kind: UndefinedVariable}

	// ErrMalformedRule matches any MalformedRule error.
	ErrMalformedRule = &Error{Kind: MalformedRule}
)

// Error is a rule file error with its 1-based line, or 0 when the error
// concerns the file as a whole.
type Error struct {
	Kind   ErrorKind
	Line   int
	Detail string
}

// Error implements the error interface
func (e *Error) Error() string {
	msg := "rulefile: "
	if e.Line > 0 {
		msg += fmt.Sprintf("line %d: ", e.Line)
	}
	msg += e.Kind.String()
	if e.Detail != "" {
		msg += ": " + e.Detail
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
