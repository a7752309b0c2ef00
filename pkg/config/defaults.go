package config

import "github.com/logweave/logweave/pkg/merge"

// Default values for configuration.
const (
	DefaultFormat = "table"
)

// DefaultConfig returns a configuration with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Window: merge.DefaultWindow,
		Output: OutputConfig{
			Format: DefaultFormat,
			Path:   "-",
		},
	}
}
