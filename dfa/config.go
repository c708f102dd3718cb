package dfa

// ByteOrder selects the order in which subset construction tries input bytes.
// It only affects state numbering, never the accepted language or the number
// of states.
type ByteOrder uint8

const (
	// Ascending tries bytes from 0x00 to 0xff (default)
	Ascending ByteOrder = iota

	// Descending tries bytes from 0xff to 0x00
	Descending
)

// String returns the order name.
func (o ByteOrder) String() string {
	switch o {
	case Ascending:
		return "ascending"
	case Descending:
		return "descending"
	default:
		return "unknown"
	}
}

// Config configures subset construction.
type Config struct {
	// MaxStates is the maximum number of DFA states to build.
	// Construction fails with ErrStateLimitExceeded beyond it.
	//
	// Default: 10,000 states
	//
	// Lexer rule sets rarely need more than a few hundred states; the limit
	// guards against exponential blowup from patterns like (a|b)*a(a|b)(a|b)...
	MaxStates int

	// ByteOrder is the order in which outgoing bytes are explored.
	//
	// Default: Ascending
	ByteOrder ByteOrder
}

// DefaultConfig returns a configuration with sensible defaults.
func DefaultConfig() Config {
	return Config{
		MaxStates: 10_000,
		ByteOrder: Ascending,
	}
}

// Validate checks if the configuration is valid.
// Returns an error if any parameter is out of acceptable range.
func (c *Config) Validate() error {
	if c.MaxStates <= 0 {
		return &Error{
			Kind:    InvalidConfig,
			Message: "MaxStates must be > 0",
		}
	}
	if c.ByteOrder != Ascending && c.ByteOrder != Descending {
		return &Error{
			Kind:    InvalidConfig,
			Message: "ByteOrder must be Ascending or Descending",
		}
	}
	return nil
}

// WithMaxStates returns a new config with the specified max states
func (c Config) WithMaxStates(maxStates int) Config {
	c.MaxStates = maxStates
	return c
}

// WithByteOrder returns a new config with the specified byte order
func (c Config) WithByteOrder(order ByteOrder) Config {
	c.ByteOrder = order
	return c
}
