package nfa

import (
	"fmt"

	"github.com/coregx/lexgen/internal/conv"
)

// Builder constructs NFAs incrementally using a low-level API.
// This provides full control over NFA construction and is used by Compile and Union.
type Builder struct {
	states []State
}

// NewBuilder creates a new NFA builder with default capacity
func NewBuilder() *Builder {
	return NewBuilderWithCapacity(16)
}

// NewBuilderWithCapacity creates a new NFA builder with specified initial capacity
func NewBuilderWithCapacity(capacity int) *Builder {
	return &Builder{
		states: make([]State, 0, capacity),
	}
}

// AddState adds an empty, non-accepting state and returns its ID
func (b *Builder) AddState() StateID {
	id := StateID(conv.IntToUint32(len(b.states)))
	b.states = append(b.states, State{
		id:      id,
		handler: NoHandler,
	})
	return id
}

// AddByte adds an edge from -> to labeled with input byte c.
// A state may have at most one edge per byte.
func (b *Builder) AddByte(from StateID, c byte, to StateID) error {
	if err := b.check(from, to); err != nil {
		return err
	}
	s := &b.states[from]
	if _, ok := s.Next(c); ok {
		return &BuildError{
			Message: fmt.Sprintf("duplicate transition on %q", c),
			StateID: from,
		}
	}
	s.transitions = append(s.transitions, Transition{Byte: c, Next: to})
	return nil
}

// AddEpsilon adds an epsilon edge from -> to.
func (b *Builder) AddEpsilon(from, to StateID) error {
	if err := b.check(from, to); err != nil {
		return err
	}
	b.link(from, to)
	return nil
}

// SetHandler tags a state as accepting the rule with the given handler id.
func (b *Builder) SetHandler(id StateID, handler int) error {
	if handler < 0 {
		return ErrInvalidHandler
	}
	if int(id) >= len(b.states) {
		return &BuildError{Message: "state ID out of bounds", StateID: id}
	}
	b.states[id].handler = handler
	return nil
}

// States returns the current number of states
func (b *Builder) States() int {
	return len(b.states)
}

// Validate checks that the NFA is well-formed:
// - start and end states are valid
// - all edges point to valid states
func (b *Builder) Validate(start, end StateID) error {
	if int(start) >= len(b.states) {
		return &BuildError{Message: "start state out of bounds", StateID: start}
	}
	if int(end) >= len(b.states) {
		return &BuildError{Message: "end state out of bounds", StateID: end}
	}

	for i := range b.states {
		s := &b.states[i]
		for _, tr := range s.transitions {
			if int(tr.Next) >= len(b.states) {
				return &BuildError{
					Message: fmt.Sprintf("invalid transition target %d", tr.Next),
					StateID: s.id,
				}
			}
		}
		for _, next := range s.epsilons {
			if int(next) >= len(b.states) {
				return &BuildError{
					Message: fmt.Sprintf("invalid epsilon target %d", next),
					StateID: s.id,
				}
			}
		}
	}
	return nil
}

// Build finalizes and returns the constructed NFA.
// The builder must not be used afterwards: the NFA takes over its states.
func (b *Builder) Build(start, end StateID) (*NFA, error) {
	if err := b.Validate(start, end); err != nil {
		return nil, err
	}
	n := &NFA{
		states: b.states,
		start:  start,
		end:    end,
	}
	b.states = nil
	return n, nil
}

func (b *Builder) check(from, to StateID) error {
	if int(from) >= len(b.states) {
		return &BuildError{Message: "source state out of bounds", StateID: from}
	}
	if int(to) >= len(b.states) {
		return &BuildError{Message: fmt.Sprintf("target state %d out of bounds", to), StateID: from}
	}
	return nil
}

// link adds an epsilon edge without bounds checks. Callers pass ids they
// just allocated.
func (b *Builder) link(from, to StateID) {
	s := &b.states[from]
	s.epsilons = append(s.epsilons, to)
}

// literal allocates a two-state fragment joined by one byte edge.
func (b *Builder) literal(c byte) fragment {
	start := b.AddState()
	end := b.AddState()
	s := &b.states[start]
	s.transitions = append(s.transitions, Transition{Byte: c, Next: end})
	return fragment{start: start, end: end}
}
