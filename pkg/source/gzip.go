package source

import (
	"bufio"
	"context"
	"fmt"
	"os"

	"github.com/klauspost/compress/gzip"
)

// GzipReader reads lines from a gzip-compressed log file.
type GzipReader struct {
	path    string
	file    *os.File
	gz      *gzip.Reader
	scanner *bufio.Scanner
}

// NewGzipReader opens a .gz file for line iteration.
func NewGzipReader(path string) (*GzipReader, error) {
	f, err := os.Open(path) // #nosec G304 -- user-provided paths are expected
	if err != nil {
		return nil, fmt.Errorf("opening log file %s: %w", path, err)
	}
	gz, err := gzip.NewReader(f)
	if err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("reading gzip header of %s: %w", path, err)
	}
	return &GzipReader{path: path, file: f, gz: gz, scanner: newLineScanner(gz)}, nil
}

// Next returns the next decompressed line.
func (r *GzipReader) Next(ctx context.Context) (string, error) {
	return scanLine(ctx, r.scanner, r.path)
}

// Close releases the decompressor and the underlying file.
func (r *GzipReader) Close() error {
	gzErr := r.gz.Close()
	if err := r.file.Close(); err != nil {
		return err
	}
	return gzErr
}
