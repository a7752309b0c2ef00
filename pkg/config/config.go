package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/logweave/logweave/pkg/timestamp"
)

// Load reads and validates a configuration file.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path) // #nosec G304 -- user-provided config path is expected
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}

	if err := Validate(cfg); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}

	return cfg, nil
}

// Validate checks a configuration for errors. Template and format
// problems fail here, before any file is read.
func Validate(cfg *Config) error {
	if cfg.Window < 0 {
		return errors.New("window: must not be negative")
	}

	for i, tmpl := range cfg.TimestampFormats {
		if !strings.EqualFold(tmpl, "strace") && !strings.Contains(tmpl, timestamp.Placeholder) {
			return fmt.Errorf("timestamp_formats[%d]: %w", i,
				&timestamp.TemplateError{Template: tmpl, Reason: "must contain the '(...)' placeholder"})
		}
	}

	if err := validateOutput(&cfg.Output); err != nil {
		return fmt.Errorf("output: %w", err)
	}

	return nil
}

func validateOutput(oc *OutputConfig) error {
	switch oc.Format {
	case "", "table", "csv", "markdown", "jsonl":
	default:
		return fmt.Errorf("unsupported format %q (expected table, csv, markdown, or jsonl)", oc.Format)
	}
	if oc.Width < 0 {
		return errors.New("width must not be negative")
	}
	return nil
}
