// Package output renders merged log records in the supported formats:
// an aligned table, CSV, Markdown, and JSON lines.
package output

import (
	"context"
	"fmt"
	"io"

	"github.com/logweave/logweave/pkg/merge"
)

// Document is the material handed to a formatter: the ordered source
// columns and the merged records.
type Document struct {
	// Sources are the source column names, in merge order.
	Sources []string

	// LineNumbers indicates records carry a line number column.
	LineNumbers bool

	// Records are the merged records in timestamp order.
	Records []merge.Record
}

// Header returns the full column header row.
func (d *Document) Header() []string {
	header := make([]string, 0, len(d.Sources)+2)
	if d.LineNumbers {
		header = append(header, "line")
	}
	header = append(header, "timestamp")
	return append(header, d.Sources...)
}

// Row returns one record's cells in header order.
func (d *Document) Row(r merge.Record) []string {
	row := make([]string, 0, len(d.Sources)+2)
	if d.LineNumbers {
		row = append(row, r.Line)
	}
	row = append(row, r.Timestamp)
	for _, name := range d.Sources {
		row = append(row, r.Columns[name])
	}
	return row
}

// Formatter renders a document in a specific format.
type Formatter interface {
	// Format renders the document to the given writer.
	Format(ctx context.Context, doc *Document, w io.Writer) error

	// Name returns the format name (table, csv, markdown, jsonl).
	Name() string
}

// Options controls formatter behavior.
type Options struct {
	// Width caps total table width in cells; 0 means unlimited.
	Width int
}

// New returns the formatter for the given format name.
func New(format string, opts Options) (Formatter, error) {
	switch format {
	case "", "table":
		return &TableFormatter{opts: opts}, nil
	case "csv":
		return &CSVFormatter{}, nil
	case "markdown":
		return &MarkdownFormatter{}, nil
	case "jsonl":
		return &JSONLFormatter{}, nil
	default:
		return nil, fmt.Errorf("unsupported format: %s", format)
	}
}
