package scanner

import (
	"bytes"
	"errors"
	"io"
	"log/slog"
	"strings"
	"testing"

	"github.com/coregx/lexgen/dfa"
	"github.com/coregx/lexgen/nfa"
	"github.com/coregx/lexgen/table"
)

// compile builds the table for patterns, handler id = index.
func compile(t *testing.T, patterns ...string) *table.Table {
	t.Helper()
	parts := make([]*nfa.NFA, len(patterns))
	for i, p := range patterns {
		n, err := nfa.CompilePattern(p, i)
		if err != nil {
			t.Fatalf("CompilePattern(%q) error: %v", p, err)
		}
		parts[i] = n
	}
	u, err := nfa.Union(parts...)
	if err != nil {
		t.Fatalf("Union error: %v", err)
	}
	d, err := dfa.Compile(u)
	if err != nil {
		t.Fatalf("dfa.Compile error: %v", err)
	}
	return d.Table()
}

type lexeme struct {
	text    string
	handler int
}

func lexemes(toks []Token) []lexeme {
	out := make([]lexeme, len(toks))
	for i, tok := range toks {
		out[i] = lexeme{string(tok.Text), tok.Handler}
	}
	return out
}

func TestLongestMatch(t *testing.T) {
	tbl := compile(t, "ab", "a")
	toks, errs := Tokens(tbl, []byte("ab"))
	if len(errs) != 0 {
		t.Fatalf("unexpected errors: %v", errs)
	}
	if len(toks) != 1 || string(toks[0].Text) != "ab" || toks[0].Handler != 0 {
		t.Fatalf("tokens = %v, want [{ab 0}]", lexemes(toks))
	}
}

func TestPriorityTieBreak(t *testing.T) {
	tests := []struct {
		name     string
		patterns []string
		want     int
	}{
		{"number first", []string{"[0-9]+", "."}, 0},
		{"catch-all first", []string{".", "[0-9]+"}, 0},
		{"keyword over identifier", []string{"if", "[a-z]+"}, 0},
	}

	inputs := map[string]string{
		"number first":            "5",
		"catch-all first":         "5",
		"keyword over identifier": "if",
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := New(compile(t, tt.patterns...))
			in := inputs[tt.name]
			n, h, ok := s.Match([]byte(in))
			if !ok || n != len(in) || h != tt.want {
				t.Fatalf("Match(%q) = %d, %d, %v; want %d, %d, true", in, n, h, ok, len(in), tt.want)
			}
		})
	}
}

func TestLongerMatchBeatsPriority(t *testing.T) {
	// "if" wins on "if", but "ifs" is longer and only the identifier rule
	// reaches it.
	toks, _ := Tokens(compile(t, "if", "[a-z]+"), []byte("ifs"))
	if len(toks) != 1 || toks[0].Handler != 1 {
		t.Fatalf("tokens = %v, want [{ifs 1}]", lexemes(toks))
	}
}

func TestErrorRecovery(t *testing.T) {
	tbl := compile(t, "[0-9]+")
	toks, errs := Tokens(tbl, []byte("12#34"))

	want := []lexeme{{"12", 0}, {"34", 0}}
	got := lexemes(toks)
	if len(got) != len(want) {
		t.Fatalf("tokens = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("token %d = %v, want %v", i, got[i], want[i])
		}
	}

	if len(errs) != 1 {
		t.Fatalf("errors = %v, want exactly one", errs)
	}
	var ue *UnmatchedInputError
	if !errors.As(errs[0], &ue) {
		t.Fatalf("error %v is not *UnmatchedInputError", errs[0])
	}
	if ue.Offset != 2 || ue.Byte != '#' {
		t.Errorf("error at offset %d byte %q, want 2 '#'", ue.Offset, ue.Byte)
	}
	if !errors.Is(errs[0], ErrUnmatchedInput) {
		t.Error("errors.Is(err, ErrUnmatchedInput) = false")
	}
}

func TestClassAcceptsExactly(t *testing.T) {
	s := New(compile(t, "[0-2]"))
	for b := 0; b < 256; b++ {
		in := []byte{byte(b)}
		n, _, ok := s.Match(in)
		want := b >= '0' && b <= '2'
		if ok != want || (ok && n != 1) {
			t.Errorf("Match(%q) = %d, %v; want accept=%v", in, n, ok, want)
		}
	}
	if n, _, _ := s.Match([]byte("01")); n != 1 {
		t.Errorf("Match(01) length = %d, want 1", n)
	}
}

func TestZeroLengthMatchesIgnored(t *testing.T) {
	tbl := compile(t, "a*")
	toks, errs := Tokens(tbl, []byte("aabaa"))
	if got := lexemes(toks); len(got) != 2 || got[0].text != "aa" || got[1].text != "aa" {
		t.Errorf("tokens = %v, want [aa aa]", got)
	}
	if len(errs) != 1 {
		t.Errorf("errors = %v, want one for 'b'", errs)
	}

	if _, _, ok := New(tbl).Match(nil); ok {
		t.Error("Match on empty input should not match")
	}
}

func TestNextPhases(t *testing.T) {
	s := New(compile(t, "[0-9]+"))
	s.Reset([]byte("1x"))
	if s.State() != Scanning {
		t.Fatalf("initial phase = %v, want Scanning", s.State())
	}

	steps := []struct {
		phase Phase
		err   error
	}{
		{Matched, nil},
		{ErrorRecover, ErrUnmatchedInput},
		{Scanning, io.EOF},
		{Scanning, io.EOF},
	}
	for i, step := range steps {
		_, err := s.Next()
		if step.err == nil && err != nil {
			t.Fatalf("step %d: Next() error: %v", i, err)
		}
		if step.err != nil && !errors.Is(err, step.err) {
			t.Fatalf("step %d: Next() = %v, want %v", i, err, step.err)
		}
		if s.State() != step.phase {
			t.Errorf("step %d: phase = %v, want %v", i, s.State(), step.phase)
		}
	}
	if s.Pos() != 2 {
		t.Errorf("Pos() = %d, want 2", s.Pos())
	}
}

func TestRun(t *testing.T) {
	tbl := compile(t, "[0-9]+", "[a-z]+", " ")

	var numbers, words []string
	spaces := 0
	actions := []Action{
		func(tok Token) { numbers = append(numbers, string(tok.Text)) },
		func(tok Token) { words = append(words, string(tok.Text)) },
		func(Token) { spaces++ },
	}

	err := Run(tbl, actions, []byte("abc 12 ! de 3"))
	if !errors.Is(err, ErrUnmatchedInput) {
		t.Fatalf("Run() = %v, want unmatched input error", err)
	}
	if strings.Join(numbers, ",") != "12,3" {
		t.Errorf("numbers = %v", numbers)
	}
	if strings.Join(words, ",") != "abc,de" {
		t.Errorf("words = %v", words)
	}
	if spaces != 4 {
		t.Errorf("spaces = %d, want 4", spaces)
	}

	if err := Run(tbl, actions, []byte("ok 1")); err != nil {
		t.Errorf("Run() on clean input error: %v", err)
	}
}

func TestRunMissingAction(t *testing.T) {
	tbl := compile(t, "a", "b")
	err := Run(tbl, []Action{func(Token) {}}, []byte("ab"))
	var me *MissingActionError
	if !errors.As(err, &me) || me.Handler != 1 {
		t.Fatalf("Run() = %v, want missing action for handler 1", err)
	}
}

func TestRunRejectsInvalidTable(t *testing.T) {
	tbl := &table.Table{States: []table.State{
		{Transitions: map[byte]int{'a': 1}},
		{Handlers: []int{0}, Transitions: map[byte]int{'b': 7}},
	}}
	actions := []Action{func(Token) {}}

	var ve *table.ValidationError
	if err := Run(tbl, actions, []byte("ab")); !errors.As(err, &ve) || ve.State != 1 {
		t.Errorf("Run() = %v, want validation error at state 1", err)
	}
	toks, errs := Tokens(tbl, []byte("ab"))
	if len(toks) != 0 || len(errs) != 1 || !errors.As(errs[0], &ve) {
		t.Errorf("Tokens() = %v, %v; want a single validation error", toks, errs)
	}
	if err := Run(&table.Table{}, actions, nil); !errors.Is(err, table.ErrEmptyTable) {
		t.Errorf("Run(empty) = %v, want ErrEmptyTable", err)
	}
}

func TestUnmatchedInputLogged(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelWarn}))

	_, errs := Tokens(compile(t, "a"), []byte("a?a"), WithLogger(logger))
	if len(errs) != 1 {
		t.Fatalf("errors = %v, want one", errs)
	}
	out := buf.String()
	if !strings.Contains(out, "unmatched input") || !strings.Contains(out, "offset=1") {
		t.Errorf("log output = %q", out)
	}
}

func TestDecodedTableScansTheSame(t *testing.T) {
	tbl := compile(t, "if", "[a-z]+", "[0-9]+", " +")
	input := []byte("if x1 then 42  else ifz")

	data, err := tbl.EncodeBinary(true)
	if err != nil {
		t.Fatalf("EncodeBinary error: %v", err)
	}
	decoded, err := table.DecodeBinary(data)
	if err != nil {
		t.Fatalf("DecodeBinary error: %v", err)
	}

	want, _ := Tokens(tbl, input)
	got, _ := Tokens(decoded, input)
	if len(got) != len(want) {
		t.Fatalf("decoded table produced %d tokens, want %d", len(got), len(want))
	}
	for i := range want {
		if lexemes(got[i:i+1])[0] != lexemes(want[i:i+1])[0] {
			t.Errorf("token %d = %v, want %v", i, lexemes(got[i:i+1]), lexemes(want[i:i+1]))
		}
	}
}

func TestErrorMessage(t *testing.T) {
	err := &UnmatchedInputError{Offset: 3, Byte: '#'}
	if got, want := err.Error(), "unmatched input '#' at offset 3"; got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}
}
