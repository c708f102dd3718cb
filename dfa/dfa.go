// Package dfa converts a handler-tagged NFA into a deterministic automaton by
// subset construction.
//
// Each DFA state stands for an epsilon-closed set of NFA states. A state
// carries the union of the handler ids tagged on its members; when several
// rules accept at once the scanner dispatches the smallest id.
package dfa

import (
	"fmt"
	"strings"

	"github.com/coregx/lexgen/internal/conv"
	"github.com/coregx/lexgen/nfa"
	"github.com/coregx/lexgen/table"
)

// DFA is a fully built deterministic automaton.
type DFA struct {
	states    []*State
	nfaStates int
}

// Build determinizes n with the given configuration.
func Build(n *nfa.NFA, config Config) (*DFA, error) {
	return NewBuilder(n, config).Build()
}

// Compile determinizes n with DefaultConfig.
func Compile(n *nfa.NFA) (*DFA, error) {
	return Build(n, DefaultConfig())
}

// Len returns the number of states.
func (d *DFA) Len() int {
	return len(d.states)
}

// Start returns the start state id (always 0).
func (d *DFA) Start() StateID {
	return StartState
}

// State returns the state with the given id, or nil if out of range.
func (d *DFA) State(id StateID) *State {
	if int(id) >= len(d.states) {
		return nil
	}
	return d.states[id]
}

// NFAStates returns the size of the NFA the DFA was built from.
func (d *DFA) NFAStates() int {
	return d.nfaStates
}

// Accepts runs input from the start state and returns the handler ids of
// the final state. Returns nil if the input dies or ends in a
// non-accepting state.
func (d *DFA) Accepts(input []byte) []int {
	s := d.states[StartState]
	for _, c := range input {
		next, ok := s.Transition(c)
		if !ok {
			return nil
		}
		s = d.states[next]
	}
	return s.handlers
}

// Table flattens the DFA into a lookup table with identical state ids.
func (d *DFA) Table() *table.Table {
	t := &table.Table{States: make([]table.State, len(d.states))}
	for i, s := range d.states {
		if len(s.handlers) > 0 {
			t.States[i].Handlers = append([]int(nil), s.handlers...)
		}
		if len(s.transitions) > 0 {
			t.States[i].Transitions = make(map[byte]int, len(s.transitions))
			for c, next := range s.transitions {
				t.States[i].Transitions[c] = conv.Uint32ToInt(uint32(next))
			}
		}
	}
	return t
}

// String returns a human-readable dump of every state.
func (d *DFA) String() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "DFA(states=%d, nfa=%d)\n", len(d.states), d.nfaStates)
	for _, s := range d.states {
		sb.WriteString("  ")
		sb.WriteString(s.String())
		sb.WriteByte('\n')
	}
	return sb.String()
}
