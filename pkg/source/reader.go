// Package source provides raw line readers for the merge pipeline: plain
// text files, gzip-compressed files, CSV and JSONL exports, and built-in
// demo data. Readers yield lines with trailing terminators stripped; the
// core pipeline never looks inside a file itself.
package source

import (
	"context"
	"os"
	"strings"
	"time"

	"github.com/logweave/logweave/pkg/timestamp"
)

// Reader is an ordered sequence of raw text lines for one source.
// Implementations must be safe for sequential access (not concurrent).
type Reader interface {
	// Next returns the next line, or io.EOF when the source is exhausted.
	Next(ctx context.Context) (string, error)

	// Close releases any resources held by the reader.
	Close() error
}

// Metadata carries per-source context for timestamp formats that need it
// (the year for BSD syslog, the date for time-only formats).
type Metadata struct {
	ModTime time.Time
}

// Options configures Open.
type Options struct {
	// Registry is used by the JSONL reader to discover which field holds
	// the timestamp.
	Registry *timestamp.Registry
}

// Open returns a line reader for the named file, dispatching on the file
// extension: .gz, .csv, .jsonl, .demo, otherwise plain text.
func Open(path string, opts Options) (Reader, Metadata, error) {
	switch {
	case strings.HasSuffix(path, ".demo"):
		r, err := NewDemoReader(path)
		return r, Metadata{ModTime: time.Now()}, err
	case strings.HasSuffix(path, ".gz"):
		r, err := NewGzipReader(path)
		return r, statMetadata(path), err
	case strings.HasSuffix(path, ".csv"):
		r, err := NewCSVReader(path)
		return r, statMetadata(path), err
	case strings.HasSuffix(path, ".jsonl"):
		r, err := NewJSONLReader(path, opts.Registry)
		return r, statMetadata(path), err
	default:
		r, err := NewTextReader(path)
		return r, statMetadata(path), err
	}
}

func statMetadata(path string) Metadata {
	info, err := os.Stat(path)
	if err != nil {
		return Metadata{ModTime: time.Now()}
	}
	return Metadata{ModTime: info.ModTime()}
}
