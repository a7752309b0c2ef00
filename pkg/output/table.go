package output

import (
	"context"
	"io"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
)

// TableFormatter renders records as an aligned side-by-side table, one
// column per source.
type TableFormatter struct {
	opts Options
}

// Name returns the format name.
func (f *TableFormatter) Name() string {
	return "table"
}

// Format renders the document as a table.
func (f *TableFormatter) Format(ctx context.Context, doc *Document, w io.Writer) error {
	tw := table.NewWriter()
	tw.SetOutputMirror(w)
	tw.SetStyle(table.StyleLight)
	tw.Style().Options.SeparateRows = false
	tw.Style().Format.Header = text.FormatDefault

	if f.opts.Width > 0 {
		tw.SetAllowedRowLength(f.opts.Width)
	}

	tw.AppendHeader(toRow(doc.Header()))
	for i := range doc.Records {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}
		tw.AppendRow(toRow(doc.Row(doc.Records[i])))
	}

	tw.Render()
	return nil
}

func toRow(cells []string) table.Row {
	row := make(table.Row, len(cells))
	for i, c := range cells {
		row[i] = c
	}
	return row
}
