package syntax

import "fmt"

// metaBytes are the bytes with operator meaning outside classes. Each of them,
// plus '\\' and '-', may be escaped to match literally.
const metaBytes = "()*+?|.[]{}-"

// Parse converts a pattern into a validated postfix token stream.
//
// The pipeline is Tokenize, InsertConcat, ToPostfix followed by an operand
// arity check, so the result is always a well-formed postfix expression.
func Parse(pattern string) ([]Token, error) {
	tokens, err := Tokenize(pattern)
	if err != nil {
		return nil, err
	}

	postfix, err := ToPostfix(InsertConcat(tokens))
	if err != nil {
		if e, ok := err.(*Error); ok {
			e.Pattern = pattern
		}
		return nil, err
	}

	if err := checkArity(postfix); err != nil {
		err.Pattern = pattern
		return nil, err
	}
	return postfix, nil
}

// Tokenize splits a pattern into infix tokens. Escapes become literals,
// bracket classes and '.' become parenthesized alternations of their members.
func Tokenize(pattern string) ([]Token, error) {
	tokens := make([]Token, 0, len(pattern))

	for i := 0; i < len(pattern); i++ {
		c := pattern[i]
		switch c {
		case '\\':
			b, next, err := unescape(pattern, i)
			if err != nil {
				return nil, err
			}
			tokens = append(tokens, Lit(b))
			i = next - 1
		case '(':
			tokens = append(tokens, Op(GroupOpen))
		case ')':
			tokens = append(tokens, Op(GroupClose))
		case '*':
			tokens = append(tokens, Op(Star))
		case '+':
			tokens = append(tokens, Op(Plus))
		case '?':
			tokens = append(tokens, Op(Question))
		case '|':
			tokens = append(tokens, Op(Alternate))
		case '.':
			tokens = expandSet(tokens, &dotSet)
		case '[':
			set, end, err := parseClass(pattern, i)
			if err != nil {
				return nil, err
			}
			tokens = expandSet(tokens, &set)
			i = end
		case ']':
			return nil, newError(UnbalancedGroup, pattern, i, "unexpected ]")
		default:
			tokens = append(tokens, Lit(c))
		}
	}
	return tokens, nil
}

// InsertConcat makes concatenation explicit and wraps the expression in an
// implicit group. A Concat goes between two adjacent tokens unless the left one
// is Alternate or GroupOpen, or the right one is GroupClose, Alternate or a
// unary operator.
func InsertConcat(tokens []Token) []Token {
	out := make([]Token, 0, 2*len(tokens)+2)
	out = append(out, Op(GroupOpen))

	for i, t := range tokens {
		out = append(out, t)
		if t.Kind == GroupOpen || t.Kind == Alternate || i+1 == len(tokens) {
			continue
		}
		switch tokens[i+1].Kind {
		case GroupClose, Alternate, Star, Plus, Question:
			continue
		}
		out = append(out, Op(Concat))
	}

	return append(out, Op(GroupClose))
}

// ToPostfix reorders infix tokens into postfix with the shunting-yard
// algorithm. Unary operators bind tighter than Concat, which binds tighter
// than Alternate; equal precedence is left-associative.
func ToPostfix(tokens []Token) ([]Token, error) {
	ops := make([]Token, 0, 8)
	out := make([]Token, 0, len(tokens))

	for _, t := range tokens {
		switch t.Kind {
		case GroupOpen:
			ops = append(ops, t)

		case GroupClose:
			closed := false
			for len(ops) > 0 {
				top := ops[len(ops)-1]
				ops = ops[:len(ops)-1]
				if top.Kind == GroupOpen {
					closed = true
					break
				}
				out = append(out, top)
			}
			if !closed {
				return nil, &Error{Kind: UnbalancedGroup, Offset: -1, Detail: "unexpected )"}
			}

		case Alternate, Concat, Star, Plus, Question:
			for len(ops) > 0 {
				top := ops[len(ops)-1]
				if top.Kind == GroupOpen || top.precedence() < t.precedence() {
					break
				}
				out = append(out, top)
				ops = ops[:len(ops)-1]
			}
			ops = append(ops, t)

		default:
			out = append(out, t)
		}
	}

	if len(ops) != 0 {
		return nil, &Error{Kind: UnbalancedGroup, Offset: -1, Detail: "missing )"}
	}
	return out, nil
}

// checkArity simulates the operand stack of a postfix evaluation.
func checkArity(postfix []Token) *Error {
	depth := 0
	for _, t := range postfix {
		switch {
		case t.Kind == Literal:
			depth++
		case t.IsUnary():
			if depth < 1 {
				return &Error{Kind: MissingOperand, Offset: -1, Detail: "nothing to repeat for " + t.String()}
			}
		default:
			if depth < 2 {
				return &Error{Kind: MissingOperand, Offset: -1, Detail: "missing operand for " + t.String()}
			}
			depth--
		}
	}

	switch depth {
	case 0:
		return &Error{Kind: MissingOperand, Offset: -1, Detail: "empty expression"}
	case 1:
		return nil
	default:
		// Unreachable with InsertConcat output; kept for hand-built streams.
		return &Error{Kind: MissingOperand, Offset: -1, Detail: "dangling operands"}
	}
}

// unescape decodes the escape sequence starting at p[i] == '\\'.
// It returns the byte and the index just past the sequence.
func unescape(p string, i int) (byte, int, error) {
	if i+1 >= len(p) {
		return 0, 0, newError(InvalidEscape, p, i, "trailing backslash")
	}
	c := p[i+1]
	switch c {
	case 'n':
		return '\n', i + 2, nil
	case 't':
		return '\t', i + 2, nil
	case 'r':
		return '\r', i + 2, nil
	case '0':
		return 0, i + 2, nil
	case '\\':
		return '\\', i + 2, nil
	case 'x':
		if i+3 < len(p) {
			hi, ok1 := hexValue(p[i+2])
			lo, ok2 := hexValue(p[i+3])
			if ok1 && ok2 {
				return hi<<4 | lo, i + 4, nil
			}
		}
		return 0, 0, newError(InvalidEscape, p, i, `\x needs two hex digits`)
	}
	for j := 0; j < len(metaBytes); j++ {
		if metaBytes[j] == c {
			return c, i + 2, nil
		}
	}
	return 0, 0, newError(InvalidEscape, p, i, "unsupported escape %s", quoteEscape(c))
}

func hexValue(c byte) (byte, bool) {
	switch {
	case '0' <= c && c <= '9':
		return c - '0', true
	case 'a' <= c && c <= 'f':
		return c - 'a' + 10, true
	case 'A' <= c && c <= 'F':
		return c - 'A' + 10, true
	}
	return 0, false
}

func quoteEscape(c byte) string {
	if c < 0x20 || c >= 0x7f {
		return fmt.Sprintf(`\ followed by byte 0x%02x`, c)
	}
	return `\` + string(rune(c))
}
