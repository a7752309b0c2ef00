package output

import (
	"context"
	"io"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
)

// MarkdownFormatter renders records as a Markdown table. Embedded
// newlines become <br/> so multi-line bodies survive in one cell.
type MarkdownFormatter struct{}

// Name returns the format name.
func (f *MarkdownFormatter) Name() string {
	return "markdown"
}

// Format renders the document as Markdown.
func (f *MarkdownFormatter) Format(ctx context.Context, doc *Document, w io.Writer) error {
	tw := table.NewWriter()
	tw.SetOutputMirror(w)

	tw.AppendHeader(toRow(doc.Header()))
	for i := range doc.Records {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}
		cells := doc.Row(doc.Records[i])
		for j, c := range cells {
			cells[j] = strings.ReplaceAll(c, "\n", "<br/>")
		}
		tw.AppendRow(toRow(cells))
	}

	tw.RenderMarkdown()
	return nil
}
