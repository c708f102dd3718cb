package nfa

import (
	"fmt"
	"slices"
	"strings"
)

// StateID uniquely identifies an NFA state within one NFA.
// This is a 32-bit unsigned integer for compact representation.
type StateID uint32

// InvalidState represents an invalid/uninitialized state ID
const InvalidState StateID = 0xFFFFFFFF

// NoHandler marks a state that does not accept any rule.
const NoHandler = -1

// Transition is a byte-labeled edge.
type Transition struct {
	Byte byte
	Next StateID
}

// State is a single NFA state: at most one edge per input byte, an ordered
// list of epsilon successors, and an optional handler tag.
type State struct {
	id          StateID
	transitions []Transition
	epsilons    []StateID
	handler     int
}

// ID returns the state's unique identifier
func (s *State) ID() StateID {
	return s.id
}

// Transitions returns the byte edges in insertion order.
func (s *State) Transitions() []Transition {
	return s.transitions
}

// Epsilons returns the epsilon successors in insertion order.
func (s *State) Epsilons() []StateID {
	return s.epsilons
}

// Next returns the successor on byte b.
func (s *State) Next(b byte) (StateID, bool) {
	for _, tr := range s.transitions {
		if tr.Byte == b {
			return tr.Next, true
		}
	}
	return InvalidState, false
}

// Handler returns the handler id tagged on this state, if any.
func (s *State) Handler() (int, bool) {
	return s.handler, s.handler != NoHandler
}

// IsAccepting reports whether the state carries a handler tag.
func (s *State) IsAccepting() bool {
	return s.handler != NoHandler
}

// IsSink reports whether the state has no outgoing edges at all.
func (s *State) IsSink() bool {
	return len(s.transitions) == 0 && len(s.epsilons) == 0
}

// String returns a human-readable representation of the state
func (s *State) String() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "State(%d", s.id)
	for _, tr := range s.transitions {
		fmt.Fprintf(&sb, " %q->%d", tr.Byte, tr.Next)
	}
	for _, next := range s.epsilons {
		fmt.Fprintf(&sb, " ε->%d", next)
	}
	if s.handler != NoHandler {
		fmt.Fprintf(&sb, " accept=%d", s.handler)
	}
	sb.WriteByte(')')
	return sb.String()
}

// NFA is a fragment with a designated start and end state.
// An NFA is immutable once built.
type NFA struct {
	states []State
	start  StateID
	end    StateID
}

// Start returns the designated start state.
func (n *NFA) Start() StateID {
	return n.start
}

// End returns the designated end state.
func (n *NFA) End() StateID {
	return n.end
}

// States returns the total number of states in the NFA
func (n *NFA) States() int {
	return len(n.states)
}

// State returns the state with the given ID.
// Returns nil if the ID is invalid.
func (n *NFA) State(id StateID) *State {
	if id == InvalidState || int(id) >= len(n.states) {
		return nil
	}
	return &n.states[id]
}

// Handler returns the handler tag of state id.
func (n *NFA) Handler(id StateID) (int, bool) {
	if s := n.State(id); s != nil {
		return s.Handler()
	}
	return NoHandler, false
}

// Handlers returns the distinct handler ids tagged anywhere in the NFA, sorted.
func (n *NFA) Handlers() []int {
	var out []int
	for i := range n.states {
		if h, ok := n.states[i].Handler(); ok {
			out = append(out, h)
		}
	}
	slices.Sort(out)
	return slices.Compact(out)
}

// Alphabet returns every byte that labels some edge of the NFA.
func (n *NFA) Alphabet() ByteSet {
	var set ByteSet
	for i := range n.states {
		for _, tr := range n.states[i].transitions {
			set.Add(tr.Byte)
		}
	}
	return set
}

// Sinks returns the states without outgoing edges, in id order.
func (n *NFA) Sinks() []StateID {
	var out []StateID
	for i := range n.states {
		if n.states[i].IsSink() {
			out = append(out, n.states[i].id)
		}
	}
	return out
}

// Unreachable returns the states that cannot be reached from the start via
// byte or epsilon edges, in id order.
func (n *NFA) Unreachable() []StateID {
	seen := make([]bool, len(n.states))
	stack := []StateID{n.start}
	seen[n.start] = true
	for len(stack) > 0 {
		id := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		s := &n.states[id]
		for _, tr := range s.transitions {
			if !seen[tr.Next] {
				seen[tr.Next] = true
				stack = append(stack, tr.Next)
			}
		}
		for _, next := range s.epsilons {
			if !seen[next] {
				seen[next] = true
				stack = append(stack, next)
			}
		}
	}

	var out []StateID
	for i, ok := range seen {
		if !ok {
			out = append(out, StateID(i))
		}
	}
	return out
}

// String returns a human-readable representation of the NFA
func (n *NFA) String() string {
	return fmt.Sprintf("NFA{states: %d, start: %d, end: %d, handlers: %v}",
		len(n.states), n.start, n.end, n.Handlers())
}
