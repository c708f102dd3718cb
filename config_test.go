package lexgen

import (
	"errors"
	"testing"

	"github.com/coregx/lexgen/dfa"
)

func TestDefaultConfigPassesValidation(t *testing.T) {
	c := DefaultConfig()
	if err := c.Validate(); err != nil {
		t.Errorf("DefaultConfig().Validate() = %v, want nil", err)
	}
	if c.Workers < 1 {
		t.Errorf("Workers = %d, want >= 1", c.Workers)
	}
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name      string
		config    Config
		wantField string
	}{
		{"zero workers", DefaultConfig().WithWorkers(0), "Workers"},
		{"too many workers", DefaultConfig().WithWorkers(5000), "Workers"},
		{"zero states", DefaultConfig().WithMaxDFAStates(0), "MaxDFAStates"},
		{"bad order", DefaultConfig().WithByteOrder(dfa.ByteOrder(3)), "ByteOrder"},
		{"negative cache", DefaultConfig().WithCacheSize(-1), "CacheSize"},
		{"no cache", DefaultConfig().WithCacheSize(0), ""},
		{"descending", DefaultConfig().WithByteOrder(dfa.Descending), ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.config.Validate()
			if tt.wantField == "" {
				if err != nil {
					t.Fatalf("Validate() = %v, want nil", err)
				}
				return
			}
			var cfgErr *ConfigError
			if !errors.As(err, &cfgErr) {
				t.Fatalf("error type = %T, want *ConfigError", err)
			}
			if cfgErr.Field != tt.wantField {
				t.Errorf("ConfigError.Field = %q, want %q", cfgErr.Field, tt.wantField)
			}
		})
	}
}

func TestNewCompilerRejectsInvalidConfig(t *testing.T) {
	if _, err := NewCompiler(Config{}); err == nil {
		t.Error("NewCompiler(Config{}) should fail")
	}
}
