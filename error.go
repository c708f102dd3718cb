package lexgen

import (
	"errors"
	"fmt"

	"github.com/coregx/lexgen/nfa"
	"github.com/coregx/lexgen/syntax"
)

// ErrEmptyRuleSet is returned when compiling zero rules.
var ErrEmptyRuleSet = errors.New("lexgen: empty rule set")

// ConfigError represents an invalid configuration parameter.
type ConfigError struct {
	Field   string
	Message string
}

// Error implements the error interface.
func (e *ConfigError) Error() string {
	return "lexgen: invalid config: " + e.Field + ": " + e.Message
}

// RuleError reports the rule whose compilation failed. No table is produced
// when any rule fails.
type RuleError struct {
	Index   int
	Pattern string
	Err     error
}

// Error implements the error interface. The rule index and pattern are
// printed once; the wrapped layers contribute only their reason.
func (e *RuleError) Error() string {
	var se *syntax.Error
	if errors.As(e.Err, &se) {
		return fmt.Sprintf("lexgen: rule %d %q: %s", e.Index, e.Pattern, se.Reason())
	}
	var ce *nfa.CompileError
	if errors.As(e.Err, &ce) {
		return fmt.Sprintf("lexgen: rule %d %q: %v", e.Index, e.Pattern, ce.Err)
	}
	return fmt.Sprintf("lexgen: rule %d %q: %v", e.Index, e.Pattern, e.Err)
}

// Unwrap returns the underlying error.
func (e *RuleError) Unwrap() error {
	return e.Err
}
