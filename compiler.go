package lexgen

import (
	"context"
	"encoding/binary"
	"fmt"
	"log/slog"
	"time"

	"github.com/cespare/xxhash/v2"
	lru "github.com/hashicorp/golang-lru/v2"
	"golang.org/x/sync/errgroup"

	"github.com/coregx/lexgen/dfa"
	"github.com/coregx/lexgen/nfa"
)

// Option configures a Compiler.
type Option func(*Compiler)

// WithLogger sets the logger for compile diagnostics.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Compiler) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// Compiler turns rule sets into lookup tables. It is safe for concurrent use.
type Compiler struct {
	config Config
	logger *slog.Logger

	// nil when Config.CacheSize is zero
	cache *lru.Cache[uint64, *Result]
}

// NewCompiler creates a compiler. Returns a *ConfigError if config is
// invalid.
func NewCompiler(config Config, opts ...Option) (*Compiler, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}
	c := &Compiler{
		config: config,
		logger: slog.New(slog.DiscardHandler),
	}
	if config.CacheSize > 0 {
		cache, err := lru.New[uint64, *Result](config.CacheSize)
		if err != nil {
			return nil, fmt.Errorf("lexgen: create cache: %w", err)
		}
		c.cache = cache
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// Config returns the compiler configuration.
func (c *Compiler) Config() Config {
	return c.config
}

// Compile builds the lookup table for rules.
//
// Rules are compiled to NFAs concurrently, at most Config.Workers at a time,
// and reassembled in declaration order so that handler ids match rule
// positions. If any rule fails, the lowest failing one is returned as a
// *RuleError and no partial table is produced. Union and subset
// construction run on the calling goroutine.
func (c *Compiler) Compile(ctx context.Context, rules []Rule) (*Result, error) {
	if len(rules) == 0 {
		metricCompilationsTotal.WithLabelValues(resultError).Inc()
		return nil, ErrEmptyRuleSet
	}

	key := c.fingerprint(rules)
	if c.cache != nil {
		if res, ok := c.cache.Get(key); ok {
			metricCompilationsTotal.WithLabelValues(resultCached).Inc()
			c.logger.Debug("rule set cache hit", slog.Int("rules", len(rules)))
			return res.clone(), nil
		}
	}

	start := time.Now()
	res, err := c.compile(ctx, rules)
	if err != nil {
		metricCompilationsTotal.WithLabelValues(resultError).Inc()
		return nil, err
	}
	elapsed := time.Since(start)

	metricCompilationsTotal.WithLabelValues(resultOK).Inc()
	metricRulesTotal.Add(float64(len(rules)))
	metricCompileSeconds.Observe(elapsed.Seconds())
	metricDFAStates.Observe(float64(res.DFAStates))
	c.logger.Debug("compiled rule set",
		slog.Int("rules", len(rules)),
		slog.Int("nfa_states", res.NFAStates),
		slog.Int("dfa_states", res.DFAStates),
		slog.Int("transitions", res.Table.TransitionCount()),
		slog.Duration("elapsed", elapsed))

	if c.cache != nil {
		c.cache.Add(key, res)
		return res.clone(), nil
	}
	return res, nil
}

// NFA builds the merged, handler-tagged NFA for rules without determinizing
// it. Useful for inspection and diagrams.
func (c *Compiler) NFA(ctx context.Context, rules []Rule) (*nfa.NFA, error) {
	if len(rules) == 0 {
		return nil, ErrEmptyRuleSet
	}
	fragments, err := c.fragments(ctx, rules)
	if err != nil {
		return nil, err
	}

	// Ownership of the fragments passes to Union.
	merged, err := nfa.Union(fragments...)
	if err != nil {
		return nil, fmt.Errorf("lexgen: union: %w", err)
	}
	return merged, nil
}

func (c *Compiler) compile(ctx context.Context, rules []Rule) (*Result, error) {
	merged, err := c.NFA(ctx, rules)
	if err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	d, err := dfa.Build(merged, c.config.dfaConfig())
	if err != nil {
		return nil, fmt.Errorf("lexgen: determinize: %w", err)
	}

	return &Result{
		Table:     d.Table(),
		Rules:     append([]Rule(nil), rules...),
		NFAStates: merged.States(),
		DFAStates: d.Len(),
	}, nil
}

// fragments compiles every rule to an NFA tagged with its index.
// A failing rule does not stop the others, so that the error returned is
// always the one of the lowest failing index.
func (c *Compiler) fragments(ctx context.Context, rules []Rule) ([]*nfa.NFA, error) {
	fragments := make([]*nfa.NFA, len(rules))
	failed := make([]error, len(rules))

	var g errgroup.Group
	g.SetLimit(c.config.Workers)
	for i, r := range rules {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			n, err := nfa.CompilePattern(r.Pattern, i)
			if err != nil {
				failed[i] = &RuleError{Index: i, Pattern: r.Pattern, Err: err}
				return nil
			}
			fragments[i] = n
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	for _, err := range failed {
		if err != nil {
			return nil, err
		}
	}
	return fragments, nil
}

// fingerprint hashes everything that determines the output table: the
// patterns in order and the DFA settings. Actions do not affect the table
// but are part of the Result, so they are hashed too.
func (c *Compiler) fingerprint(rules []Rule) uint64 {
	d := xxhash.New()
	var buf [8]byte
	writeString := func(s string) {
		binary.LittleEndian.PutUint64(buf[:], uint64(len(s)))
		_, _ = d.Write(buf[:])
		_, _ = d.WriteString(s)
	}
	for _, r := range rules {
		writeString(r.Pattern)
		writeString(r.Action)
	}
	binary.LittleEndian.PutUint64(buf[:], uint64(c.config.MaxDFAStates)<<8|uint64(c.config.ByteOrder))
	_, _ = d.Write(buf[:])
	return d.Sum64()
}
