package scanner

import (
	"errors"
	"fmt"
	"io"

	"github.com/coregx/lexgen/table"
)

// Action handles one token. Actions are indexed by handler id.
type Action func(tok Token)

// Run tokenizes input and calls exactly one action per token, left to
// right. Unmatched bytes do not stop the scan; their errors are joined into
// the returned error.
//
// Every handler reachable in tbl must have a non-nil action, otherwise Run
// returns a *MissingActionError before scanning. An invalid table is
// rejected the same way.
func Run(tbl *table.Table, actions []Action, input []byte, opts ...Option) error {
	if err := tbl.Validate(); err != nil {
		return fmt.Errorf("scanner: %w", err)
	}
	for _, h := range tbl.Handlers() {
		if h >= len(actions) || actions[h] == nil {
			return &MissingActionError{Handler: h, Actions: len(actions)}
		}
	}

	s := New(tbl, opts...)
	s.Reset(input)

	var errs []error
	for {
		tok, err := s.Next()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			errs = append(errs, err)
			continue
		}
		actions[tok.Handler](tok)
	}
	return errors.Join(errs...)
}

// Tokens scans all of input and returns the tokens and unmatched-input
// errors in order. An invalid table yields its validation error alone.
func Tokens(tbl *table.Table, input []byte, opts ...Option) ([]Token, []error) {
	if err := tbl.Validate(); err != nil {
		return nil, []error{fmt.Errorf("scanner: %w", err)}
	}
	s := New(tbl, opts...)
	s.Reset(input)

	var (
		toks []Token
		errs []error
	)
	for {
		tok, err := s.Next()
		if errors.Is(err, io.EOF) {
			return toks, errs
		}
		if err != nil {
			errs = append(errs, err)
			continue
		}
		toks = append(toks, tok)
	}
}
