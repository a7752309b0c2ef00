package output

import (
	"context"
	"encoding/json"
	"io"
)

// JSONLFormatter renders one JSON object per record.
type JSONLFormatter struct{}

// Name returns the format name.
func (f *JSONLFormatter) Name() string {
	return "jsonl"
}

// jsonRecord is the wire shape of one merged record.
type jsonRecord struct {
	Line      string            `json:"line,omitempty"`
	Timestamp string            `json:"timestamp"`
	Columns   map[string]string `json:"columns"`
}

// Format renders the document as JSON lines.
func (f *JSONLFormatter) Format(ctx context.Context, doc *Document, w io.Writer) error {
	enc := json.NewEncoder(w)
	for _, r := range doc.Records {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}
		rec := jsonRecord{Line: r.Line, Timestamp: r.Timestamp, Columns: r.Columns}
		if err := enc.Encode(rec); err != nil {
			return err
		}
	}
	return nil
}
