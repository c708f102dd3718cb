// Package lexgen compiles ordered lexer rules into a deterministic lookup
// table and scans input with it.
//
// Each rule is a regular expression paired with an action. Rules are compiled
// to Thompson NFAs in parallel, merged into one NFA whose accept states are
// tagged with the rule's handler id (its position in the rule list), and
// determinized by subset construction. The resulting table drives a
// longest-match scanner; when two rules match the same longest prefix the
// rule declared first wins.
//
// Basic usage:
//
//	res, err := lexgen.Compile([]lexgen.Rule{
//	    {Pattern: "[0-9]+", Action: "number"},
//	    {Pattern: "[a-z]+", Action: "word"},
//	    {Pattern: " ", Action: "space"},
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	toks, errs := scanner.Tokens(res.Table, []byte("abc 42"))
//
// Pattern syntax (bytes, not runes):
//   - literals, with `\` escaping any of ( ) * | . \ + ? [ ] { } -
//   - `\n`, `\t`, `\r`, `\0`, `\xHH` byte escapes
//   - grouping `( )`, alternation `|`, repetition `*`, `+`, `?`
//   - classes `[a-z0-9_]`, negated classes `[^"]`, and `.` (any byte but newline)
//
// Anchors, bounded repetition and backreferences are not supported.
package lexgen

import (
	"context"

	"github.com/coregx/lexgen/scanner"
	"github.com/coregx/lexgen/table"
)

// Rule is one lexer rule. Its handler id is its index in the rule list.
type Rule struct {
	Pattern string
	Action  string
}

// Result is a compiled rule set.
type Result struct {
	// Table is the lookup table; state 0 is the start state.
	Table *table.Table

	// Rules are the compiled rules in handler id order.
	Rules []Rule

	// NFAStates is the size of the merged NFA.
	NFAStates int

	// DFAStates is the number of table states.
	DFAStates int
}

// Scanner returns a scanner over the compiled table.
func (r *Result) Scanner(opts ...scanner.Option) *scanner.Scanner {
	return scanner.New(r.Table, opts...)
}

// clone returns a copy whose table may be handed to a caller without
// aliasing the cached one.
func (r *Result) clone() *Result {
	c := *r
	c.Table = r.Table.Clone()
	c.Rules = append([]Rule(nil), r.Rules...)
	return &c
}

// Compile compiles rules with DefaultConfig.
func Compile(rules []Rule) (*Result, error) {
	c, err := NewCompiler(DefaultConfig().WithCacheSize(0))
	if err != nil {
		return nil, err
	}
	return c.Compile(context.Background(), rules)
}

// MustCompile is like Compile but panics on error.
// Intended for rule sets known at build time.
func MustCompile(rules []Rule) *Result {
	res, err := Compile(rules)
	if err != nil {
		panic("lexgen: Compile: " + err.Error())
	}
	return res
}
