package dfa

import (
	"encoding/binary"
	"fmt"
	"slices"

	"github.com/cespare/xxhash/v2"

	"github.com/coregx/lexgen/nfa"
)

// StateID identifies a DFA state; ids are dense and assigned in the order
// states are discovered.
type StateID uint32

const (
	// InvalidState represents an invalid/uninitialized state ID
	InvalidState StateID = 0xFFFFFFFF

	// StartState is always state ID 0 (the initial state)
	StartState StateID = 0
)

// State is a DFA state: the epsilon-closed set of NFA states it stands for,
// its outgoing transitions and the handler ids carried by its closure.
type State struct {
	id StateID

	// closure is sorted ascending; two states are the same state iff their
	// closures are equal as sets, which for sorted slices is slices.Equal.
	closure []nfa.StateID

	transitions map[byte]StateID

	// handlers is sorted and deduplicated; empty for non-accepting states.
	handlers []int
}

func newState(id StateID, closure []nfa.StateID, handlers []int) *State {
	return &State{
		id:          id,
		closure:     closure,
		transitions: make(map[byte]StateID),
		handlers:    handlers,
	}
}

// ID returns the state's unique identifier
func (s *State) ID() StateID {
	return s.id
}

// Closure returns the NFA states represented by this DFA state, sorted.
func (s *State) Closure() []nfa.StateID {
	return s.closure
}

// Transition returns the next state for the given input byte.
func (s *State) Transition(b byte) (StateID, bool) {
	next, ok := s.transitions[b]
	return next, ok
}

// TransitionCount returns the number of transitions from this state
func (s *State) TransitionCount() int {
	return len(s.transitions)
}

// Handlers returns the sorted handler ids carried by the closure.
func (s *State) Handlers() []int {
	return s.handlers
}

// IsAccepting reports whether any rule accepts in this state.
func (s *State) IsAccepting() bool {
	return len(s.handlers) > 0
}

// Handler returns the winning handler: the smallest id, which belongs to the
// earliest declared rule.
func (s *State) Handler() (int, bool) {
	if len(s.handlers) == 0 {
		return 0, false
	}
	return s.handlers[0], true
}

// String returns a human-readable representation of the state
func (s *State) String() string {
	return fmt.Sprintf("DFAState(id=%d, handlers=%v, transitions=%d, closure=%v)",
		s.id, s.handlers, len(s.transitions), s.closure)
}

// StateKey is a hash of a sorted NFA state set. Equal sets always have equal
// keys; unequal sets may collide, so lookups compare closures exactly.
type StateKey uint64

// ComputeStateKey hashes a sorted closure with xxhash.
func ComputeStateKey(sorted []nfa.StateID) StateKey {
	if len(sorted) == 0 {
		return StateKey(0)
	}
	buf := make([]byte, 0, 4*len(sorted))
	for _, sid := range sorted {
		buf = binary.LittleEndian.AppendUint32(buf, uint32(sid))
	}
	return StateKey(xxhash.Sum64(buf))
}

// sameClosure reports set equality of two sorted closures: same cardinality
// and every member present in both.
func sameClosure(a, b []nfa.StateID) bool {
	return slices.Equal(a, b)
}
