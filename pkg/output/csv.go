package output

import (
	"context"
	"encoding/csv"
	"io"
)

// CSVFormatter renders records as CSV with a header row. Multi-line
// bodies stay intact inside quoted fields.
type CSVFormatter struct{}

// Name returns the format name.
func (f *CSVFormatter) Name() string {
	return "csv"
}

// Format renders the document as CSV.
func (f *CSVFormatter) Format(ctx context.Context, doc *Document, w io.Writer) error {
	cw := csv.NewWriter(w)

	if err := cw.Write(doc.Header()); err != nil {
		return err
	}
	for i := range doc.Records {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}
		if err := cw.Write(doc.Row(doc.Records[i])); err != nil {
			return err
		}
	}

	cw.Flush()
	return cw.Error()
}
