package lexgen

import (
	"runtime"

	"github.com/coregx/lexgen/dfa"
)

// Config controls compilation.
//
// Example:
//
//	config := lexgen.DefaultConfig().WithWorkers(4)
//	c, err := lexgen.NewCompiler(config)
type Config struct {
	// Workers is the number of rules compiled to NFAs concurrently.
	// Default: GOMAXPROCS
	Workers int

	// MaxDFAStates caps subset construction.
	// Default: 10000
	MaxDFAStates int

	// ByteOrder is the order bytes are explored during subset construction.
	// It changes state numbering only.
	// Default: dfa.Ascending
	ByteOrder dfa.ByteOrder

	// CacheSize is the number of compiled rule sets kept by a Compiler,
	// keyed by rule set fingerprint. Zero disables caching.
	// Default: 64
	CacheSize int
}

// DefaultConfig returns a configuration with sensible defaults.
func DefaultConfig() Config {
	return Config{
		Workers:      runtime.GOMAXPROCS(0),
		MaxDFAStates: 10_000,
		ByteOrder:    dfa.Ascending,
		CacheSize:    64,
	}
}

// Validate checks if the configuration is valid.
//
// Valid ranges:
//   - Workers: 1 to 1,024
//   - MaxDFAStates: 1 to 1,000,000
//   - CacheSize: 0 to 1,000,000
func (c Config) Validate() error {
	if c.Workers < 1 || c.Workers > 1_024 {
		return &ConfigError{
			Field:   "Workers",
			Message: "must be between 1 and 1,024",
		}
	}
	if c.MaxDFAStates < 1 || c.MaxDFAStates > 1_000_000 {
		return &ConfigError{
			Field:   "MaxDFAStates",
			Message: "must be between 1 and 1,000,000",
		}
	}
	if c.ByteOrder != dfa.Ascending && c.ByteOrder != dfa.Descending {
		return &ConfigError{
			Field:   "ByteOrder",
			Message: "must be ascending or descending",
		}
	}
	if c.CacheSize < 0 || c.CacheSize > 1_000_000 {
		return &ConfigError{
			Field:   "CacheSize",
			Message: "must be between 0 and 1,000,000",
		}
	}
	return nil
}

// WithWorkers returns a new config with the specified worker count
func (c Config) WithWorkers(n int) Config {
	c.Workers = n
	return c
}

// WithMaxDFAStates returns a new config with the specified state limit
func (c Config) WithMaxDFAStates(n int) Config {
	c.MaxDFAStates = n
	return c
}

// WithByteOrder returns a new config with the specified byte order
func (c Config) WithByteOrder(order dfa.ByteOrder) Config {
	c.ByteOrder = order
	return c
}

// WithCacheSize returns a new config with the specified cache size
func (c Config) WithCacheSize(n int) Config {
	c.CacheSize = n
	return c
}

func (c Config) dfaConfig() dfa.Config {
	return dfa.DefaultConfig().
		WithMaxStates(c.MaxDFAStates).
		WithByteOrder(c.ByteOrder)
}
