// Package syntax turns rule patterns into postfix token streams.
//
// The accepted language is deliberately small: literal bytes, escapes,
// bracket classes, the wildcard '.', grouping, alternation '|', and the
// postfix operators '*', '+' and '?'. Classes and the wildcard are expanded
// into alternations of literal bytes before postfix conversion, so the
// output only ever contains literals and the five operator kinds.
package syntax

import (
	"fmt"
	"strings"
)

// Kind identifies a token.
type Kind uint8

const (
	// Literal matches exactly one byte
	Literal Kind = iota

	// Alternate is the binary '|' operator
	Alternate

	// Star is the unary '*' operator (zero or more)
	Star

	// Plus is the unary '+' operator (one or more)
	Plus

	// Question is the unary '?' operator (zero or one)
	Question

	// Concat is the implicit binary concatenation operator
	Concat

	// GroupOpen is '(' and never appears in postfix output
	GroupOpen

	// GroupClose is ')' and never appears in postfix output
	GroupClose
)

// String returns a human-readable representation of the Kind
func (k Kind) String() string {
	switch k {
	case Literal:
		return "Literal"
	case Alternate:
		return "Alternate"
	case Star:
		return "Star"
	case Plus:
		return "Plus"
	case Question:
		return "Question"
	case Concat:
		return "Concat"
	case GroupOpen:
		return "GroupOpen"
	case GroupClose:
		return "GroupClose"
	default:
		return fmt.Sprintf("Unknown(%d)", k)
	}
}

// Token is one element of an infix or postfix pattern.
// Byte is only meaningful for Literal tokens.
type Token struct {
	Kind Kind
	Byte byte
}

// Lit returns a literal token for b.
func Lit(b byte) Token {
	return Token{Kind: Literal, Byte: b}
}

// Op returns an operator or grouping token.
func Op(k Kind) Token {
	return Token{Kind: k}
}

// IsOperator reports whether the token is one of the five operators.
func (t Token) IsOperator() bool {
	switch t.Kind {
	case Alternate, Star, Plus, Question, Concat:
		return true
	}
	return false
}

// IsUnary reports whether the token is a postfix unary operator.
func (t Token) IsUnary() bool {
	return t.Kind == Star || t.Kind == Plus || t.Kind == Question
}

// precedence orders operators for postfix conversion.
func (t Token) precedence() int {
	switch t.Kind {
	case Star, Plus, Question:
		return 2
	case Concat:
		return 1
	default:
		return 0
	}
}

// String renders the token in pattern notation. Concat is shown as '·'.
func (t Token) String() string {
	switch t.Kind {
	case Literal:
		return quoteByte(t.Byte)
	case Alternate:
		return "|"
	case Star:
		return "*"
	case Plus:
		return "+"
	case Question:
		return "?"
	case Concat:
		return "·"
	case GroupOpen:
		return "("
	case GroupClose:
		return ")"
	default:
		return t.Kind.String()
	}
}

// String renders a token sequence, mostly for tests and debug logs.
func String(tokens []Token) string {
	var sb strings.Builder
	for _, t := range tokens {
		sb.WriteString(t.String())
	}
	return sb.String()
}

func quoteByte(b byte) string {
	switch {
	case b == '\\' || strings.IndexByte(metaBytes, b) >= 0:
		return `\` + string(rune(b))
	case b == '\n':
		return `\n`
	case b == '\t':
		return `\t`
	case b == '\r':
		return `\r`
	case b < 0x20 || b >= 0x7f:
		return fmt.Sprintf(`\x%02x`, b)
	default:
		return string(rune(b))
	}
}
