package source

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strings"
)

// CSVReader adapts a CSV export into log lines. The first column must
// hold the timestamp; remaining columns are rendered as "header=value"
// pairs after it.
type CSVReader struct {
	path    string
	file    *os.File
	reader  *csv.Reader
	headers []string
}

// NewCSVReader opens a .csv file and consumes its header row.
func NewCSVReader(path string) (*CSVReader, error) {
	f, err := os.Open(path) // #nosec G304 -- user-provided paths are expected
	if err != nil {
		return nil, fmt.Errorf("opening log file %s: %w", path, err)
	}

	cr := csv.NewReader(f)
	cr.FieldsPerRecord = -1

	headers, err := cr.Read()
	if err != nil {
		_ = f.Close()
		if err == io.EOF {
			return nil, fmt.Errorf("csv file %s is empty", path)
		}
		return nil, fmt.Errorf("reading csv header of %s: %w", path, err)
	}
	// Drop the timestamp column's header; the value leads each line.
	headers = headers[1:]

	return &CSVReader{path: path, file: f, reader: cr, headers: headers}, nil
}

// Next returns the next row as a "timestamp header=value ..." line.
// Malformed rows are surfaced as marker lines rather than aborting the
// stream.
func (r *CSVReader) Next(ctx context.Context) (string, error) {
	select {
	case <-ctx.Done():
		return "", ctx.Err()
	default:
	}

	record, err := r.reader.Read()
	if err == io.EOF {
		return "", io.EOF
	}
	if err != nil {
		return fmt.Sprintf(">>> csv read error: %v <<<", err), nil
	}
	if len(record) == 0 {
		return "", nil
	}

	var b strings.Builder
	b.WriteString(record[0])
	for i, value := range record[1:] {
		header := ""
		if i < len(r.headers) {
			header = r.headers[i]
		}
		fmt.Fprintf(&b, " %s=%s", header, value)
	}
	return b.String(), nil
}

// Close releases the underlying file.
func (r *CSVReader) Close() error {
	return r.file.Close()
}
