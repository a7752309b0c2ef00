// Package config provides run configuration loading and validation for
// logweave.
package config

// Config is the root configuration structure loaded from YAML. Every
// field has a matching CLI flag; flags given on the command line win.
type Config struct {
	// Files are the log files to merge, in column order.
	Files []string `yaml:"files"`

	// TimestampFormats are custom timestamp templates, each containing
	// the "(...)" placeholder for the timestamp shape.
	TimestampFormats []string `yaml:"timestamp_formats,omitempty"`

	// Window is the out-of-order correction lookahead size (default 40).
	Window int `yaml:"window,omitempty"`

	// Start and End clip merging to an inclusive time window. Values
	// accept "YYYY-MM-DD[ T]HH:MM[:SS[.fff]]" or relative forms ("15m").
	Start string `yaml:"start,omitempty"`
	End   string `yaml:"end,omitempty"`

	// AutoClip derives the time window from the first file's timestamps.
	AutoClip bool `yaml:"autoclip,omitempty"`

	// IgnoreNonTimestamped drops lines without their own timestamp from
	// entry bodies.
	IgnoreNonTimestamped bool `yaml:"ignore_non_timestamped,omitempty"`

	// LineNumbers adds a 1-based line number column.
	LineNumbers bool `yaml:"line_numbers,omitempty"`

	// Output controls rendering of the merged records.
	Output OutputConfig `yaml:"output,omitempty"`
}

// OutputConfig selects the output format and destination.
type OutputConfig struct {
	// Format is one of: table, csv, markdown, jsonl.
	Format string `yaml:"format,omitempty"`

	// Path is the destination file, or "-" for stdout.
	Path string `yaml:"path,omitempty"`

	// Width caps total table width; 0 uses the terminal width.
	Width int `yaml:"width,omitempty"`
}
