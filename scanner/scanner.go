// Package scanner runs a lookup table over a byte stream.
//
// Matching is longest-match: from the current position the table is walked
// until no transition exists, remembering the furthest offset reached in an
// accepting state. When several rules accept at that offset the smallest
// handler id wins. A position where no rule matches yields an
// *UnmatchedInputError and exactly one byte is skipped, so scanning always
// terminates.
package scanner

import (
	"io"
	"log/slog"

	"github.com/coregx/lexgen/internal/conv"
	"github.com/coregx/lexgen/table"
)

// Phase is the state of the scanning state machine.
type Phase uint8

const (
	// Scanning is the initial phase and the phase between tokens.
	Scanning Phase = iota

	// Matched means the last step produced a token.
	Matched

	// ErrorRecover means the last step skipped one unmatched byte.
	ErrorRecover
)

// String returns the phase name.
func (p Phase) String() string {
	switch p {
	case Scanning:
		return "Scanning"
	case Matched:
		return "Matched"
	case ErrorRecover:
		return "ErrorRecover"
	default:
		return "Unknown"
	}
}

// Token is one matched lexeme.
type Token struct {
	Handler int    // winning handler id
	Start   int    // offset of the first byte
	End     int    // offset past the last byte
	Text    []byte // input[Start:End], aliases the input
}

// Len returns the token length in bytes.
func (t Token) Len() int {
	return t.End - t.Start
}

// Option configures a Scanner.
type Option func(*Scanner)

// WithLogger sets the logger used to report unmatched input.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Scanner) {
		if logger != nil {
			s.logger = logger
		}
	}
}

const noState = -1

// Scanner tokenizes input with a lookup table. A Scanner is not safe for
// concurrent use; the table it was built from may be shared.
type Scanner struct {
	// Dense copy of the table: rows[s][b] is the next state or noState,
	// accept[s] the winning handler or noState.
	rows   [][256]int32
	accept []int32

	logger *slog.Logger

	input []byte
	pos   int
	phase Phase
}

// New creates a scanner for tbl. The table must be valid
// (see table.Table.Validate); Run and Tokens check this themselves.
func New(tbl *table.Table, opts ...Option) *Scanner {
	s := &Scanner{
		rows:   make([][256]int32, tbl.Len()),
		accept: make([]int32, tbl.Len()),
		logger: slog.New(slog.DiscardHandler),
	}
	for i := range tbl.States {
		row := &s.rows[i]
		for b := range row {
			row[b] = noState
		}
		for b, next := range tbl.States[i].Transitions {
			row[b] = conv.IntToInt32(next)
		}
		s.accept[i] = noState
		if h, ok := tbl.Handler(i); ok {
			s.accept[i] = conv.IntToInt32(h)
		}
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Match finds the longest match at the start of input.
// It returns the match length and the winning handler; ok is false when no
// rule matches a non-empty prefix.
func (s *Scanner) Match(input []byte) (n, handler int, ok bool) {
	if len(s.rows) == 0 {
		return 0, 0, false
	}
	state := int32(0)
	for i, c := range input {
		state = s.rows[state][c]
		if state == noState {
			break
		}
		// Later accepting offsets are always longer; overwrite unconditionally.
		if h := s.accept[state]; h != noState {
			n, handler, ok = i+1, int(h), true
		}
	}
	return n, handler, ok
}

// Reset starts scanning input from offset 0.
func (s *Scanner) Reset(input []byte) {
	s.input = input
	s.pos = 0
	s.phase = Scanning
}

// Pos returns the offset of the next byte to scan.
func (s *Scanner) Pos() int {
	return s.pos
}

// State reports the phase reached by the last call to Next.
func (s *Scanner) State() Phase {
	return s.phase
}

// Next returns the next token.
//
// When no rule matches at the current offset it consumes one byte and
// returns an *UnmatchedInputError; scanning may continue with the next call.
// Returns io.EOF once the input is exhausted.
func (s *Scanner) Next() (Token, error) {
	s.phase = Scanning
	if s.pos >= len(s.input) {
		return Token{}, io.EOF
	}

	n, h, ok := s.Match(s.input[s.pos:])
	if !ok {
		s.phase = ErrorRecover
		err := &UnmatchedInputError{Offset: s.pos, Byte: s.input[s.pos]}
		s.logger.Warn("unmatched input",
			slog.Int("offset", s.pos),
			slog.String("byte", quote(s.input[s.pos])))
		s.pos++
		return Token{}, err
	}

	s.phase = Matched
	tok := Token{
		Handler: h,
		Start:   s.pos,
		End:     s.pos + n,
		Text:    s.input[s.pos : s.pos+n],
	}
	s.pos += n
	return tok, nil
}
