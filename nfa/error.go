// Package nfa builds Thompson NFAs from postfix token streams.
//
// States live in a single arena per NFA and are referenced by StateID, so the
// cycles created by closure operators need no shared ownership. Each rule is
// compiled into its own NFA whose end state carries the rule's handler id;
// Union merges the per-rule automata into one.
package nfa

import (
	"errors"
	"fmt"

	"github.com/coregx/lexgen/syntax"
)

// Common NFA errors
var (
	// ErrMalformedExpression indicates a postfix stream that does not reduce
	// to exactly one fragment. Parsed patterns never produce one.
	ErrMalformedExpression = errors.New("malformed postfix expression")

	// ErrNoFragments indicates Union was called with nothing to merge
	ErrNoFragments = errors.New("no NFA fragments to merge")

	// ErrInvalidHandler indicates a negative handler id
	ErrInvalidHandler = errors.New("invalid handler id")

	// ErrInvalidState indicates an invalid NFA state ID was encountered
	ErrInvalidState = errors.New("invalid NFA state")
)

// CompileError wraps compilation errors with additional context
type CompileError struct {
	Pattern string
	Handler int
	Err     error
}

// Error implements the error interface.
// Syntax errors already name the pattern, so it is not repeated for them.
func (e *CompileError) Error() string {
	var se *syntax.Error
	if e.Pattern != "" && !errors.As(e.Err, &se) {
		return fmt.Sprintf("NFA compilation failed for rule %d %q: %v", e.Handler, e.Pattern, e.Err)
	}
	return fmt.Sprintf("NFA compilation failed for rule %d: %v", e.Handler, e.Err)
}

// Unwrap returns the underlying error
func (e *CompileError) Unwrap() error {
	return e.Err
}

// BuildError represents an error during NFA construction via the Builder API
type BuildError struct {
	Message string
	StateID StateID
}

// Error implements the error interface
func (e *BuildError) Error() string {
	if e.StateID != InvalidState {
		return fmt.Sprintf("NFA build error at state %d: %s", e.StateID, e.Message)
	}
	return fmt.Sprintf("NFA build error: %s", e.Message)
}

// Unwrap lets errors.Is(err, ErrInvalidState) match reference errors.
func (e *BuildError) Unwrap() error {
	return ErrInvalidState
}
