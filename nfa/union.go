package nfa

import (
	"slices"

	"github.com/coregx/lexgen/internal/conv"
)

// Union merges per-rule NFAs into one.
//
// All arenas are copied into a fresh one (ids rebased), then the fragments are
// folded pairwise with the alternation construction, so the result's start
// reaches every rule's start through epsilon edges alone. Handler tags stay
// on the original accept states. The inputs are left untouched; callers hand
// them over and should drop their references.
func Union(fragments ...*NFA) (*NFA, error) {
	if len(fragments) == 0 {
		return nil, ErrNoFragments
	}

	total := 0
	for _, f := range fragments {
		total += len(f.states)
	}
	b := NewBuilderWithCapacity(total + 2*(len(fragments)-1))

	parts := make([]fragment, len(fragments))
	for i, f := range fragments {
		base := StateID(conv.IntToUint32(len(b.states)))
		for j := range f.states {
			src := &f.states[j]
			dst := State{
				id:       src.id + base,
				handler:  src.handler,
				epsilons: make([]StateID, len(src.epsilons)),
			}
			if len(src.transitions) > 0 {
				dst.transitions = slices.Clone(src.transitions)
				for k := range dst.transitions {
					dst.transitions[k].Next += base
				}
			}
			for k, next := range src.epsilons {
				dst.epsilons[k] = next + base
			}
			b.states = append(b.states, dst)
		}
		parts[i] = fragment{start: f.start + base, end: f.end + base}
	}

	acc := parts[0]
	for _, next := range parts[1:] {
		acc = b.alternate(acc, next)
	}
	return b.Build(acc.start, acc.end)
}
