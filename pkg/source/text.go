package source

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
)

// TextReader reads lines from a plain text log file.
type TextReader struct {
	path    string
	file    *os.File
	scanner *bufio.Scanner
}

// NewTextReader opens a plain text file for line iteration.
func NewTextReader(path string) (*TextReader, error) {
	f, err := os.Open(path) // #nosec G304 -- user-provided paths are expected
	if err != nil {
		return nil, fmt.Errorf("opening log file %s: %w", path, err)
	}
	return &TextReader{path: path, file: f, scanner: newLineScanner(f)}, nil
}

// Next returns the next line with its terminator stripped.
func (r *TextReader) Next(ctx context.Context) (string, error) {
	return scanLine(ctx, r.scanner, r.path)
}

// Close releases the underlying file.
func (r *TextReader) Close() error {
	return r.file.Close()
}

// newLineScanner builds a scanner sized for long log lines (1MB max).
func newLineScanner(rd io.Reader) *bufio.Scanner {
	sc := bufio.NewScanner(rd)
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	return sc
}

// scanLine advances a scanner one line with context cancellation checks.
func scanLine(ctx context.Context, sc *bufio.Scanner, path string) (string, error) {
	select {
	case <-ctx.Done():
		return "", ctx.Err()
	default:
	}

	if sc.Scan() {
		return sc.Text(), nil
	}
	if err := sc.Err(); err != nil {
		return "", fmt.Errorf("reading %s: %w", path, err)
	}
	return "", io.EOF
}
