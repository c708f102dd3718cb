// Package rulefile parses lexer rule files.
//
// A rule file has four sections:
//
//	%{
//	    declarations: Go source copied verbatim into the generated file
//	%}
//	    definitions, one per line:  name = "pattern"
//	%%
//	    rules:  pattern -> { handler body } ;;
//	%%
//	    variables: Go struct fields added to the generated Lexer
//
// A pattern may reference an earlier definition as {name}; the reference is
// replaced by the definition's pattern wrapped in a group. Lines starting
// with // are comments in the definition and rule sections. A rule body
// extends to the next ;; and may span lines.
package rulefile

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/coregx/lexgen"
)

// Definition is a named sub-pattern, already expanded.
type Definition struct {
	Name    string
	Pattern string
	Line    int
}

// File is a parsed rule file.
type File struct {
	Declarations string
	Definitions  []Definition
	Rules        []lexgen.Rule
	Variables    string
}

// Lookup returns the expanded pattern of a definition.
func (f *File) Lookup(name string) (string, bool) {
	for _, d := range f.Definitions {
		if d.Name == name {
			return d.Pattern, true
		}
	}
	return "", false
}

// Parse reads and parses a rule file.
func Parse(r io.Reader) (*File, error) {
	src, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("rulefile: read: %w", err)
	}
	return ParseBytes(src)
}

// ParseFile parses the rule file at path.
func ParseFile(path string) (*File, error) {
	src, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("rulefile: %w", err)
	}
	return ParseBytes(src)
}

// ParseBytes parses a rule file held in memory.
func ParseBytes(src []byte) (*File, error) {
	s, err := split(src)
	if err != nil {
		return nil, err
	}

	defs, err := parseDefinitions(s)
	if err != nil {
		return nil, err
	}
	env := make(map[string]string, len(defs))
	for _, d := range defs {
		env[d.Name] = d.Pattern
	}

	rules, err := parseRules(s, env)
	if err != nil {
		return nil, err
	}

	return &File{
		Declarations: strings.TrimSpace(s.declarations.of(src)),
		Definitions:  defs,
		Rules:        rules,
		Variables:    strings.TrimSpace(s.variables.of(src)),
	}, nil
}

func parseDefinitions(s *sections) ([]Definition, error) {
	var defs []Definition
	env := make(map[string]string)

	offset := s.definitions.start
	for raw := range strings.Lines(s.definitions.of(s.src)) {
		line := s.line(offset)
		offset += len(raw)

		text := strings.TrimSpace(raw)
		if text == "" || strings.HasPrefix(text, "//") {
			continue
		}

		name, value, ok := strings.Cut(text, "=")
		name = strings.TrimSpace(name)
		value = strings.TrimSpace(value)
		if !ok || !isIdent(name) || len(value) < 2 || value[0] != '"' || value[len(value)-1] != '"' {
			return nil, &Error{
				Kind:   MalformedDefinition,
				Line:   line,
				Detail: fmt.Sprintf("%q is not name = \"pattern\"", text),
			}
		}
		if _, dup := env[name]; dup {
			return nil, &Error{Kind: DuplicateDefinition, Line: line, Detail: name}
		}

		pattern, err := expand(value[1:len(value)-1], env)
		if err != nil {
			err.Line = line
			return nil, err
		}
		env[name] = pattern
		defs = append(defs, Definition{Name: name, Pattern: pattern, Line: line})
	}
	return defs, nil
}

func parseRules(s *sections, env map[string]string) ([]lexgen.Rule, error) {
	var rules []lexgen.Rule
	text := s.rules.of(s.src)
	base := s.rules.start

	pos := 0
	for {
		pos = skipBlank(text, pos)
		if pos >= len(text) {
			return rules, nil
		}

		arrow := findArrow(text, pos)
		if arrow < 0 {
			return nil, &Error{Kind: MalformedRule, Line: s.line(base + pos), Detail: "missing ->"}
		}
		pattern := strings.TrimSpace(text[pos:arrow])
		if pattern == "" {
			return nil, &Error{Kind: MalformedRule, Line: s.line(base + pos), Detail: "empty pattern"}
		}

		bodyStart := arrow + len("->")
		n := strings.Index(text[bodyStart:], ";;")
		if n < 0 {
			return nil, &Error{Kind: MalformedRule, Line: s.line(base + pos), Detail: "missing ;;"}
		}

		expanded, err := expand(pattern, env)
		if err != nil {
			err.Line = s.line(base + pos)
			return nil, err
		}
		rules = append(rules, lexgen.Rule{
			Pattern: expanded,
			Action:  strings.TrimSpace(text[bodyStart : bodyStart+n]),
		})
		pos = bodyStart + n + len(";;")
	}
}

// skipBlank skips whitespace and // comment lines.
func skipBlank(text string, pos int) int {
	for pos < len(text) {
		switch {
		case text[pos] == ' ' || text[pos] == '\t' || text[pos] == '\n' || text[pos] == '\r':
			pos++
		case strings.HasPrefix(text[pos:], "//"):
			nl := strings.IndexByte(text[pos:], '\n')
			if nl < 0 {
				return len(text)
			}
			pos += nl + 1
		default:
			return pos
		}
	}
	return pos
}

// findArrow returns the offset of the first unescaped -> on the line
// starting at pos, or -1.
func findArrow(text string, pos int) int {
	for i := pos; i+1 < len(text) && text[i] != '\n'; i++ {
		switch {
		case text[i] == '\\':
			i++
		case text[i] == '-' && text[i+1] == '>':
			return i
		}
	}
	return -1
}

// expand replaces {name} references with (pattern). Escaped braces and
// braces not enclosing an identifier are left alone.
func expand(pattern string, env map[string]string) (string, *Error) {
	if !strings.Contains(pattern, "{") {
		return pattern, nil
	}

	var sb strings.Builder
	for i := 0; i < len(pattern); i++ {
		c := pattern[i]
		if c == '\\' && i+1 < len(pattern) {
			sb.WriteByte(c)
			sb.WriteByte(pattern[i+1])
			i++
			continue
		}
		if c == '{' {
			j := i + 1
			for j < len(pattern) && isWordByte(pattern[j]) {
				j++
			}
			if j > i+1 && j < len(pattern) && pattern[j] == '}' {
				name := pattern[i+1 : j]
				val, ok := env[name]
				if !ok {
					return "", &Error{Kind: UndefinedVariable, Detail: fmt.Sprintf("%q not defined", name)}
				}
				sb.WriteByte('(')
				sb.WriteString(val)
				sb.WriteByte(')')
				i = j
				continue
			}
		}
		sb.WriteByte(c)
	}
	return sb.String(), nil
}

func isIdent(s string) bool {
	if s == "" || (s[0] >= '0' && s[0] <= '9') {
		return false
	}
	for i := 0; i < len(s); i++ {
		if !isWordByte(s[i]) {
			return false
		}
	}
	return true
}

func isWordByte(c byte) bool {
	return c == '_' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || (c >= '0' && c <= '9')
}
