// Package codegen emits a Go lexer from a parsed rule file and its table.
//
// The generated file embeds the table (as JSON or as the compact binary
// form), copies the rule file's declarations, turns its variables into
// fields of a Lexer struct and each rule body into a handler method. Lexing
// is delegated to the scanner package, so generated lexers share its
// longest-match and error-recovery behavior.
package codegen

import (
	"bytes"
	"errors"
	"fmt"
	"go/token"
	"io"
	"strconv"
	"strings"
	"text/template"

	"golang.org/x/tools/imports"

	"github.com/coregx/lexgen/rulefile"
	"github.com/coregx/lexgen/table"
)

// Format selects how the table is embedded.
type Format uint8

const (
	// FormatJSON embeds the indented JSON table as a raw string (default).
	FormatJSON Format = iota

	// FormatBinary embeds the LZ4-compressed binary table.
	FormatBinary
)

// String returns the format name.
func (f Format) String() string {
	switch f {
	case FormatJSON:
		return "json"
	case FormatBinary:
		return "binary"
	default:
		return fmt.Sprintf("Format(%d)", f)
	}
}

// ParseFormat parses "json" or "binary".
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(s) {
	case "json":
		return FormatJSON, nil
	case "binary":
		return FormatBinary, nil
	default:
		return 0, fmt.Errorf("codegen: unknown table format %q", s)
	}
}

// ErrHandlerWithoutRule is returned when the table dispatches a handler id
// the rule file does not define.
var ErrHandlerWithoutRule = errors.New("codegen: table handler has no rule")

// Options control code generation.
type Options struct {
	// Package is the generated package name. Default: "lexer".
	Package string

	// Format selects the embedded table encoding.
	Format Format

	// Source names the rule file in the generated header. Optional.
	Source string

	// FixImports adds missing imports for packages used by the
	// declarations and handler bodies. Otherwise the output is only
	// formatted.
	FixImports bool
}

func (o Options) pkg() string {
	if o.Package == "" {
		return "lexer"
	}
	return o.Package
}

type rule struct {
	ID      int
	Pattern string
	Body    string
}

type data struct {
	Package      string
	Source       string
	Declarations string
	Variables    string
	Rules        []rule
	Decode       string
	Table        string
}

var tpl = template.Must(template.New("lexer").Parse(`// Code generated by lexgen{{if .Source}} from {{.Source}}{{end}}. DO NOT EDIT.

package {{.Package}}

import (
	"github.com/coregx/lexgen/scanner"
	"github.com/coregx/lexgen/table"
)

{{.Declarations}}

// Lexer runs the rule handlers over its input.
type Lexer struct {
{{.Variables}}
}

// Lex scans input and calls one handler per token, left to right. Bytes no
// rule matches are skipped and returned together as one error.
func (lx *Lexer) Lex(input string) error {
	actions := []scanner.Action{
{{- range .Rules}}
		func(tok scanner.Token) { lx.rule{{.ID}}(string(tok.Text)) },
{{- end}}
	}
	return scanner.Run(lexTable, actions, []byte(input))
}
{{range .Rules}}
// rule{{.ID}} handles {{printf "%q" .Pattern}}.
func (lx *Lexer) rule{{.ID}}(text string) {{.Body}}
{{end}}
var lexTable = mustLoadTable()

func mustLoadTable() *table.Table {
	t, err := table.{{.Decode}}([]byte(tableData))
	if err != nil {
		panic("lexer: corrupt table: " + err.Error())
	}
	return t
}

const tableData = {{.Table}}
`))

// Generate writes the lexer source for f and tbl to w.
func Generate(w io.Writer, f *rulefile.File, tbl *table.Table, opts Options) error {
	src, err := Source(f, tbl, opts)
	if err != nil {
		return err
	}
	_, err = w.Write(src)
	return err
}

// Source returns the formatted lexer source for f and tbl.
func Source(f *rulefile.File, tbl *table.Table, opts Options) ([]byte, error) {
	pkg := opts.pkg()
	if !token.IsIdentifier(pkg) {
		return nil, fmt.Errorf("codegen: invalid package name %q", pkg)
	}
	for _, h := range tbl.Handlers() {
		if h >= len(f.Rules) {
			return nil, fmt.Errorf("%w: handler %d, %d rules", ErrHandlerWithoutRule, h, len(f.Rules))
		}
	}

	d := data{
		Package:      pkg,
		Source:       opts.Source,
		Declarations: f.Declarations,
		Variables:    f.Variables,
		Rules:        make([]rule, len(f.Rules)),
	}
	for i, r := range f.Rules {
		d.Rules[i] = rule{ID: i, Pattern: r.Pattern, Body: block(r.Action)}
	}

	switch opts.Format {
	case FormatJSON:
		enc, err := tbl.EncodeJSON()
		if err != nil {
			return nil, err
		}
		d.Decode = "DecodeJSON"
		d.Table = "`" + string(enc) + "`"
	case FormatBinary:
		enc, err := tbl.EncodeBinary(true)
		if err != nil {
			return nil, err
		}
		d.Decode = "DecodeBinary"
		d.Table = strconv.Quote(string(enc))
	default:
		return nil, fmt.Errorf("codegen: unknown table format %v", opts.Format)
	}

	var buf bytes.Buffer
	if err := tpl.Execute(&buf, d); err != nil {
		return nil, fmt.Errorf("codegen: execute template: %w", err)
	}

	filename := pkg + ".go"
	out, err := imports.Process(filename, buf.Bytes(), &imports.Options{
		Comments:   true,
		TabIndent:  true,
		TabWidth:   8,
		FormatOnly: !opts.FixImports,
	})
	if err != nil {
		return nil, fmt.Errorf("codegen: format generated source: %w", err)
	}
	return out, nil
}

// block makes a handler body a Go block.
func block(body string) string {
	body = strings.TrimSpace(body)
	if strings.HasPrefix(body, "{") && strings.HasSuffix(body, "}") {
		return body
	}
	if body == "" {
		return "{}"
	}
	return "{\n" + body + "\n}"
}
