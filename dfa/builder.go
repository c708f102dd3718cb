package dfa

import (
	"fmt"
	"slices"

	"github.com/coregx/lexgen/internal/conv"
	"github.com/coregx/lexgen/internal/sparse"
	"github.com/coregx/lexgen/nfa"
)

// Builder runs subset construction over a tagged NFA.
//
// States are discovered breadth-first from the start closure. A new closure
// is first looked up by its xxhash key, then compared exactly against every
// state in that bucket, so hash collisions never merge distinct states.
type Builder struct {
	nfa    *nfa.NFA
	config Config

	// scratch for epsilon-closure
	visited *sparse.Set
	stack   []nfa.StateID

	states []*State
	index  map[StateKey][]StateID
}

// NewBuilder creates a builder for the given NFA.
func NewBuilder(n *nfa.NFA, config Config) *Builder {
	capacity := 0
	if n != nil {
		capacity = n.States()
	}
	return &Builder{
		nfa:     n,
		config:  config,
		visited: sparse.New(capacity),
		index:   make(map[StateKey][]StateID),
	}
}

// Build determinizes the NFA.
func (b *Builder) Build() (*DFA, error) {
	if err := b.config.Validate(); err != nil {
		return nil, err
	}
	if b.nfa == nil || b.nfa.States() == 0 {
		return nil, ErrInvalidNFA
	}

	start := b.closure([]nfa.StateID{b.nfa.Start()})
	if _, err := b.intern(start); err != nil {
		return nil, err
	}

	// The slice doubles as the FIFO worklist: states are appended as they
	// are discovered and processed in id order.
	for i := 0; i < len(b.states); i++ {
		s := b.states[i]
		for _, c := range b.inputs(s.closure) {
			target := b.move(s.closure, c)
			next, err := b.intern(target)
			if err != nil {
				return nil, err
			}
			s.transitions[c] = next
		}
	}

	return &DFA{states: b.states, nfaStates: b.nfa.States()}, nil
}

// closure returns the epsilon-closure of seeds, sorted ascending.
// Iterative: the sparse set is the visited set and cycles terminate on it.
func (b *Builder) closure(seeds []nfa.StateID) []nfa.StateID {
	b.visited.Clear()
	b.stack = b.stack[:0]
	for _, sid := range seeds {
		if b.visited.Insert(uint32(sid)) {
			b.stack = append(b.stack, sid)
		}
	}

	for len(b.stack) > 0 {
		sid := b.stack[len(b.stack)-1]
		b.stack = b.stack[:len(b.stack)-1]

		st := b.nfa.State(sid)
		if st == nil {
			continue
		}
		for _, next := range st.Epsilons() {
			if b.visited.Insert(uint32(next)) {
				b.stack = append(b.stack, next)
			}
		}
	}

	sorted := b.visited.Sorted()
	out := make([]nfa.StateID, len(sorted))
	for i, v := range sorted {
		out[i] = nfa.StateID(v)
	}
	return out
}

// move returns the closure of every state reachable from set on byte c.
func (b *Builder) move(set []nfa.StateID, c byte) []nfa.StateID {
	var seeds []nfa.StateID
	for _, sid := range set {
		if next, ok := b.nfa.State(sid).Next(c); ok {
			seeds = append(seeds, next)
		}
	}
	return b.closure(seeds)
}

// inputs returns the bytes with at least one transition out of set,
// in the configured order.
func (b *Builder) inputs(set []nfa.StateID) []byte {
	var alphabet nfa.ByteSet
	for _, sid := range set {
		alphabet.AddTransitions(b.nfa.State(sid))
	}
	bytes := alphabet.Bytes()
	if b.config.ByteOrder == Descending {
		slices.Reverse(bytes)
	}
	return bytes
}

// handlers collects the handler ids tagged on members of set.
func (b *Builder) handlers(set []nfa.StateID) []int {
	var hs []int
	for _, sid := range set {
		if h, ok := b.nfa.Handler(sid); ok {
			hs = append(hs, h)
		}
	}
	slices.Sort(hs)
	return slices.Compact(hs)
}

// intern returns the id of the state with the given closure, adding it if
// it has not been seen.
func (b *Builder) intern(closure []nfa.StateID) (StateID, error) {
	key := ComputeStateKey(closure)
	for _, id := range b.index[key] {
		if sameClosure(b.states[id].closure, closure) {
			return id, nil
		}
	}

	if len(b.states) >= b.config.MaxStates {
		return InvalidState, &Error{
			Kind:    StateLimitExceeded,
			Message: fmt.Sprintf("DFA state limit exceeded (%d states)", b.config.MaxStates),
		}
	}

	id := StateID(conv.IntToUint32(len(b.states)))
	b.states = append(b.states, newState(id, closure, b.handlers(closure)))
	b.index[key] = append(b.index[key], id)
	return id, nil
}
