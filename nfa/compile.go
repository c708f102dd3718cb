package nfa

import (
	"github.com/coregx/lexgen/syntax"
)

// fragment is a (start, end) pair of states inside one builder.
// Fragments are composed, never mutated after being popped.
type fragment struct {
	start, end StateID
}

// CompilePattern parses pattern and compiles it into an NFA whose end state
// accepts the given handler.
func CompilePattern(pattern string, handler int) (*NFA, error) {
	postfix, err := syntax.Parse(pattern)
	if err != nil {
		return nil, &CompileError{Pattern: pattern, Handler: handler, Err: err}
	}
	n, err := Compile(postfix, handler)
	if err != nil {
		return nil, &CompileError{Pattern: pattern, Handler: handler, Err: err}
	}
	return n, nil
}

// Compile evaluates a postfix token stream with Thompson's construction.
//
// Every operator pops its operands from a fragment stack and pushes one
// fragment back:
//
//	literal c   s --c--> e
//	a b |       s -ε-> a.s, s -ε-> b.s, a.e -ε-> e, b.e -ε-> e
//	a *         s -ε-> a.s, s -ε-> e, a.e -ε-> a.s, a.e -ε-> e
//	a +         s -ε-> a.s, a.e -ε-> a.s, a.e -ε-> e
//	a ?         s -ε-> a.s, s -ε-> e, a.e -ε-> e
//	a b ·       a.e -ε-> b.s, result (a.s, b.e)
//
// Exactly one fragment must remain; its end state is tagged with handler.
func Compile(postfix []syntax.Token, handler int) (*NFA, error) {
	if handler < 0 {
		return nil, ErrInvalidHandler
	}

	b := NewBuilderWithCapacity(2 * len(postfix))
	stack := make([]fragment, 0, 8)

	pop := func() (fragment, bool) {
		if len(stack) == 0 {
			return fragment{}, false
		}
		f := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		return f, true
	}

	for _, t := range postfix {
		switch t.Kind {
		case syntax.Literal:
			stack = append(stack, b.literal(t.Byte))

		case syntax.Alternate:
			right, ok1 := pop()
			left, ok2 := pop()
			if !ok1 || !ok2 {
				return nil, ErrMalformedExpression
			}
			stack = append(stack, b.alternate(left, right))

		case syntax.Concat:
			right, ok1 := pop()
			left, ok2 := pop()
			if !ok1 || !ok2 {
				return nil, ErrMalformedExpression
			}
			b.link(left.end, right.start)
			stack = append(stack, fragment{start: left.start, end: right.end})

		case syntax.Star, syntax.Plus, syntax.Question:
			sub, ok := pop()
			if !ok {
				return nil, ErrMalformedExpression
			}
			stack = append(stack, b.repeat(sub, t.Kind))

		default:
			// Grouping tokens never survive postfix conversion.
			return nil, ErrMalformedExpression
		}
	}

	if len(stack) != 1 {
		return nil, ErrMalformedExpression
	}
	f := stack[0]
	if err := b.SetHandler(f.end, handler); err != nil {
		return nil, err
	}
	return b.Build(f.start, f.end)
}

// alternate joins two fragments under a fresh start/end pair.
func (b *Builder) alternate(left, right fragment) fragment {
	start := b.AddState()
	end := b.AddState()
	b.link(start, left.start)
	b.link(start, right.start)
	b.link(left.end, end)
	b.link(right.end, end)
	return fragment{start: start, end: end}
}

// repeat wraps sub for the *, + and ? operators.
func (b *Builder) repeat(sub fragment, kind syntax.Kind) fragment {
	start := b.AddState()
	end := b.AddState()
	b.link(start, sub.start)
	if kind != syntax.Plus {
		b.link(start, end) // zero occurrences
	}
	if kind != syntax.Question {
		b.link(sub.end, sub.start) // repeat
	}
	b.link(sub.end, end)
	return fragment{start: start, end: end}
}
