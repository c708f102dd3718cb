package lexgen

import (
	"errors"
	"testing"

	"github.com/coregx/lexgen/scanner"
	"github.com/coregx/lexgen/syntax"
)

func TestCompileAndScan(t *testing.T) {
	res, err := Compile([]Rule{
		{Pattern: "if|else", Action: "keyword"},
		{Pattern: "[a-zA-Z_][a-zA-Z0-9_]*", Action: "ident"},
		{Pattern: "[0-9]+", Action: "number"},
		{Pattern: "[ \t\n]+", Action: "space"},
		{Pattern: "\\(|\\)", Action: "paren"},
	})
	if err != nil {
		t.Fatalf("Compile error: %v", err)
	}

	toks, errs := scanner.Tokens(res.Table, []byte("if (x1) else 42 iffy"))
	if len(errs) != 0 {
		t.Fatalf("unexpected errors: %v", errs)
	}

	want := []struct {
		text   string
		action string
	}{
		{"if", "keyword"}, {" ", "space"}, {"(", "paren"}, {"x1", "ident"},
		{")", "paren"}, {" ", "space"}, {"else", "keyword"}, {" ", "space"},
		{"42", "number"}, {" ", "space"}, {"iffy", "ident"},
	}
	if len(toks) != len(want) {
		t.Fatalf("got %d tokens, want %d", len(toks), len(want))
	}
	for i, w := range want {
		got := res.Rules[toks[i].Handler].Action
		if string(toks[i].Text) != w.text || got != w.action {
			t.Errorf("token %d = %q/%s, want %q/%s", i, toks[i].Text, got, w.text, w.action)
		}
	}
}

func TestCompileStats(t *testing.T) {
	res := MustCompile([]Rule{{Pattern: "ab"}, {Pattern: "a"}})
	if res.DFAStates != res.Table.Len() {
		t.Errorf("DFAStates = %d, table has %d", res.DFAStates, res.Table.Len())
	}
	// two rules of 4 and 2 states plus the union start/end pair
	if res.NFAStates != 8 {
		t.Errorf("NFAStates = %d, want 8", res.NFAStates)
	}
	if len(res.Rules) != 2 {
		t.Errorf("Rules = %v", res.Rules)
	}
}

func TestResultScanner(t *testing.T) {
	res := MustCompile([]Rule{{Pattern: "[0-9]+"}, {Pattern: "."}})
	n, h, ok := res.Scanner().Match([]byte("5"))
	if !ok || n != 1 || h != 0 {
		t.Errorf("Match(5) = %d, %d, %v; want 1, 0, true", n, h, ok)
	}
}

func TestCompileErrors(t *testing.T) {
	tests := []struct {
		name  string
		rules []Rule
		index int
		want  error
	}{
		{"range", []Rule{{Pattern: "a"}, {Pattern: "[z-a]"}}, 1, syntax.ErrInvalidRange},
		{"group", []Rule{{Pattern: "(a"}}, 0, syntax.ErrUnbalancedGroup},
		{"escape", []Rule{{Pattern: "a"}, {Pattern: "b"}, {Pattern: "\\q"}}, 2, syntax.ErrInvalidEscape},
		{"negated-empty", []Rule{{Pattern: "[^]"}}, 0, syntax.ErrEmptyClass},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Compile(tt.rules)
			var re *RuleError
			if !errors.As(err, &re) {
				t.Fatalf("Compile() = %v, want *RuleError", err)
			}
			if re.Index != tt.index {
				t.Errorf("RuleError.Index = %d, want %d", re.Index, tt.index)
			}
			if !errors.Is(err, tt.want) {
				t.Errorf("Compile() = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestRuleErrorMessage(t *testing.T) {
	_, err := Compile([]Rule{{Pattern: "a"}, {Pattern: "[z-a]"}})
	want := `lexgen: rule 1 "[z-a]": at offset 1: InvalidRange: range end a precedes start z`
	if err == nil || err.Error() != want {
		t.Errorf("Compile() error = %v, want %s", err, want)
	}

	re := &RuleError{Index: 2, Pattern: "x", Err: errors.New("boom")}
	if got := re.Error(); got != `lexgen: rule 2 "x": boom` {
		t.Errorf("Error() = %q", got)
	}
}

func TestCompileEmpty(t *testing.T) {
	if _, err := Compile(nil); !errors.Is(err, ErrEmptyRuleSet) {
		t.Errorf("Compile(nil) = %v, want ErrEmptyRuleSet", err)
	}
}

func TestMustCompilePanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("MustCompile should panic on invalid rules")
		}
	}()
	MustCompile([]Rule{{Pattern: "("}})
}
