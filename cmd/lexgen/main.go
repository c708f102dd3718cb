// Command lexgen compiles a rule file into a Go lexer.
//
//	lexgen [flags] <input.lex> <output.go>
//
// The rule file layout is described in package rulefile. The generated file
// embeds the lookup table and depends on the lexgen scanner package.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/alecthomas/kong"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/automaxprocs/maxprocs"

	"github.com/coregx/lexgen"
	"github.com/coregx/lexgen/codegen"
	"github.com/coregx/lexgen/dfa"
	"github.com/coregx/lexgen/mermaid"
	"github.com/coregx/lexgen/rulefile"
	"github.com/coregx/lexgen/table"
)

type cli struct {
	Input  string `arg:"" help:"Rule file to compile" type:"existingfile"`
	Output string `arg:"" help:"Generated Go file, or - for stdout"`

	Package     string `help:"Package name of the generated file" default:"lexer" env:"LEXGEN_PACKAGE"`
	TableFormat string `help:"Encoding of the embedded table" enum:"json,binary" default:"json" env:"LEXGEN_TABLE_FORMAT"`
	FixImports  bool   `help:"Add imports used by declarations and handlers" default:"true" negatable:""`
	TableOut    string `help:"Also write the table to this file (.json, .yaml, .yml or .bin)" type:"path"`
	NFADiagram  string `name:"nfa-diagram" help:"Write a Mermaid diagram of the merged NFA" type:"path"`
	DFADiagram  string `name:"dfa-diagram" help:"Write a Mermaid diagram of the DFA" type:"path"`
	MetricsFile string `help:"Write compile metrics in Prometheus text format" type:"path" env:"LEXGEN_METRICS_FILE"`
	Workers     int    `help:"Rules compiled concurrently (0 = GOMAXPROCS)" default:"0" env:"LEXGEN_WORKERS"`
	MaxStates   int    `help:"Maximum number of DFA states" default:"10000" env:"LEXGEN_MAX_STATES"`
	Descending  bool   `help:"Explore bytes in descending order while building the DFA"`
	Verbose     bool   `short:"v" help:"Log debug output"`
}

func main() {
	var params cli
	ctx := kong.Parse(&params,
		kong.Name("lexgen"),
		kong.Description("Compile a lexer rule file into a Go source file."),
		kong.UsageOnError(),
	)

	level := slog.LevelInfo
	if params.Verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	if _, err := maxprocs.Set(maxprocs.Logger(func(format string, args ...any) {
		logger.Debug(fmt.Sprintf(format, args...))
	})); err != nil {
		logger.Warn("failed to set GOMAXPROCS", slog.Any("error", err))
	}

	ctx.FatalIfErrorf(params.run(context.Background(), logger))
}

func (c *cli) config() lexgen.Config {
	config := lexgen.DefaultConfig().
		WithMaxDFAStates(c.MaxStates).
		WithCacheSize(0)
	if c.Workers > 0 {
		config = config.WithWorkers(c.Workers)
	}
	if c.Descending {
		config = config.WithByteOrder(dfa.Descending)
	}
	return config
}

func (c *cli) run(ctx context.Context, logger *slog.Logger) error {
	format, err := codegen.ParseFormat(c.TableFormat)
	if err != nil {
		return err
	}

	file, err := rulefile.ParseFile(c.Input)
	if err != nil {
		return err
	}
	logger.Debug("parsed rule file",
		slog.String("path", c.Input),
		slog.Int("definitions", len(file.Definitions)),
		slog.Int("rules", len(file.Rules)))

	compiler, err := lexgen.NewCompiler(c.config(), lexgen.WithLogger(logger))
	if err != nil {
		return err
	}
	res, err := compiler.Compile(ctx, file.Rules)
	if err != nil {
		return err
	}

	src, err := codegen.Source(file, res.Table, codegen.Options{
		Package:    c.Package,
		Format:     format,
		Source:     filepath.Base(c.Input),
		FixImports: c.FixImports,
	})
	if err != nil {
		return err
	}
	if err := writeOutput(c.Output, src); err != nil {
		return err
	}
	logger.Info("generated lexer",
		slog.String("output", c.Output),
		slog.Int("rules", len(res.Rules)),
		slog.Int("states", res.DFAStates))

	if c.TableOut != "" {
		if err := writeTable(c.TableOut, res.Table); err != nil {
			return err
		}
	}
	if c.NFADiagram != "" {
		n, err := compiler.NFA(ctx, file.Rules)
		if err != nil {
			return err
		}
		if err := os.WriteFile(c.NFADiagram, []byte(mermaid.NFA(n)), 0o644); err != nil {
			return err
		}
	}
	if c.DFADiagram != "" {
		if err := os.WriteFile(c.DFADiagram, []byte(mermaid.DFA(res.Table)), 0o644); err != nil {
			return err
		}
	}
	if c.MetricsFile != "" {
		if err := prometheus.WriteToTextfile(c.MetricsFile, prometheus.DefaultGatherer); err != nil {
			return fmt.Errorf("write metrics: %w", err)
		}
	}
	return nil
}

func writeOutput(path string, data []byte) error {
	if path == "-" {
		_, err := os.Stdout.Write(data)
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

// writeTable picks the encoding from the file extension.
func writeTable(path string, tbl *table.Table) error {
	var (
		data []byte
		err  error
	)
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".json":
		data, err = tbl.EncodeJSON()
	case ".yaml", ".yml":
		data, err = tbl.EncodeYAML()
	case ".bin":
		data, err = tbl.EncodeBinary(true)
	default:
		return fmt.Errorf("unknown table file extension %q (want .json, .yaml, .yml or .bin)", ext)
	}
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}
