// Package table defines the flat lookup table a lexer runs on and its
// serialized forms.
//
// A Table is the only artifact the scanner needs at runtime: for every DFA
// state it stores the sorted handler ids accepted there and the outgoing
// byte transitions. State 0 is the start state.
//
// Three encodings are provided:
//   - JSON (the interchange format, keys "states", "handlers", "transitions")
//   - YAML (same shape, for hand inspection)
//   - a compact XDR binary form, optionally LZ4-compressed, for embedding
package table

import (
	"errors"
	"fmt"
	"maps"
	"slices"
)

// ErrEmptyTable is returned when a table has no states.
var ErrEmptyTable = errors.New("table: no states")

// ValidationError describes a structural defect in a decoded or hand-built
// table.
type ValidationError struct {
	State   int
	Message string
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	return fmt.Sprintf("table: state %d: %s", e.State, e.Message)
}

// State is one row of the table.
type State struct {
	// Handlers holds the accepted handler ids, sorted ascending without
	// duplicates. Empty for non-accepting states.
	Handlers []int `json:"handlers,omitempty"`

	// Transitions maps an input byte to the next state index.
	Transitions map[byte]int `json:"transitions,omitempty"`
}

// Table is a deterministic transition table indexed by state id.
type Table struct {
	States []State `json:"states"`
}

// Len returns the number of states.
func (t *Table) Len() int {
	return len(t.States)
}

// Next returns the state reached from state on byte b.
// Returns false when there is no transition or state is out of range.
func (t *Table) Next(state int, b byte) (int, bool) {
	if state < 0 || state >= len(t.States) {
		return 0, false
	}
	next, ok := t.States[state].Transitions[b]
	return next, ok
}

// Handler returns the handler that wins in state: the minimum accepted id.
func (t *Table) Handler(state int) (int, bool) {
	if state < 0 || state >= len(t.States) {
		return 0, false
	}
	h := t.States[state].Handlers
	if len(h) == 0 {
		return 0, false
	}
	return h[0], true
}

// Accepts reports whether state accepts any handler.
func (t *Table) Accepts(state int) bool {
	_, ok := t.Handler(state)
	return ok
}

// Handlers returns every handler id that appears anywhere in the table,
// sorted ascending.
func (t *Table) Handlers() []int {
	var all []int
	for i := range t.States {
		all = append(all, t.States[i].Handlers...)
	}
	slices.Sort(all)
	return slices.Compact(all)
}

// TransitionCount returns the total number of transitions.
func (t *Table) TransitionCount() int {
	n := 0
	for i := range t.States {
		n += len(t.States[i].Transitions)
	}
	return n
}

// Clone returns a deep copy.
func (t *Table) Clone() *Table {
	c := &Table{States: make([]State, len(t.States))}
	for i, s := range t.States {
		c.States[i] = State{
			Handlers:    slices.Clone(s.Handlers),
			Transitions: maps.Clone(s.Transitions),
		}
	}
	return c
}

// Validate checks that every transition targets an existing state and that
// handler lists are sorted, unique and non-negative.
func (t *Table) Validate() error {
	if len(t.States) == 0 {
		return ErrEmptyTable
	}
	for i, s := range t.States {
		for j, h := range s.Handlers {
			if h < 0 {
				return &ValidationError{State: i, Message: fmt.Sprintf("negative handler %d", h)}
			}
			if j > 0 && s.Handlers[j-1] >= h {
				return &ValidationError{State: i, Message: fmt.Sprintf("handlers not sorted and unique: %v", s.Handlers)}
			}
		}
		for b, next := range s.Transitions {
			if next < 0 || next >= len(t.States) {
				return &ValidationError{
					State:   i,
					Message: fmt.Sprintf("transition on %q targets missing state %d", b, next),
				}
			}
		}
	}
	return nil
}

// normalize replaces empty slices and maps by nil so that tables compare
// equal regardless of the codec they came through.
func (t *Table) normalize() {
	for i := range t.States {
		if len(t.States[i].Handlers) == 0 {
			t.States[i].Handlers = nil
		}
		if len(t.States[i].Transitions) == 0 {
			t.States[i].Transitions = nil
		}
	}
}

// String returns a compact human-readable dump, one state per line.
func (t *Table) String() string {
	var out []byte
	for i, s := range t.States {
		out = fmt.Appendf(out, "%d", i)
		if len(s.Handlers) > 0 {
			out = fmt.Appendf(out, " accept=%v", s.Handlers)
		}
		for _, b := range slices.Sorted(maps.Keys(s.Transitions)) {
			out = fmt.Appendf(out, " %q->%d", b, s.Transitions[b])
		}
		out = append(out, '\n')
	}
	return string(out)
}
