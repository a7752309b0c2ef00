// Package commands implements the logweave CLI commands.
package commands

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/logweave/logweave/pkg/config"
	"github.com/logweave/logweave/pkg/merge"
	"github.com/logweave/logweave/pkg/output"
	"github.com/logweave/logweave/pkg/source"
	"github.com/logweave/logweave/pkg/timestamp"
)

// MergeOptions collects the merge command's inputs. Zero values mean
// "not set" and may be filled from a YAML config file.
type MergeOptions struct {
	Files                []string
	ConfigPath           string
	Start                string
	End                  string
	AutoClip             bool
	IgnoreNonTimestamped bool
	LineNumbers          bool
	Window               int
	Formats              []string
	Format               string
	OutputPath           string
	CSVPath              string
	Width                int
	Demo                 bool
}

// Merge runs the whole pipeline: detect each file's timestamp format,
// transform and collapse its lines, k-way merge across files, and render
// the merged records.
func Merge(ctx context.Context, opts MergeOptions, stdout io.Writer) error {
	if opts.ConfigPath != "" {
		cfg, err := config.Load(opts.ConfigPath)
		if err != nil {
			return err
		}
		applyConfig(&opts, cfg)
	}
	if opts.Demo {
		opts.Files = source.DemoNames()
	}
	if len(opts.Files) == 0 {
		return fmt.Errorf("one or more log files required")
	}

	registry := timestamp.NewRegistry()
	for _, tmpl := range opts.Formats {
		if err := registry.AddCustomFormat(tmpl); err != nil {
			return err
		}
	}

	clip, err := buildClip(opts)
	if err != nil {
		return err
	}
	if opts.AutoClip {
		clip, err = autoClip(ctx, registry, opts.Files[0])
		if err != nil {
			return err
		}
	}

	var sources []merge.LabeledSource
	defer func() { closeAll(sources) }()
	for _, path := range opts.Files {
		entries, err := openPipeline(ctx, registry, path, clip, opts)
		if err != nil {
			return err
		}
		sources = append(sources, merge.LabeledSource{Name: path, Entries: entries})
	}

	asm := merge.NewAssembler(opts.Files, opts.LineNumbers)
	stream := merge.NewStream(merge.NewMerger(sources...), asm)
	records, err := stream.Records(ctx)
	if err != nil {
		return err
	}

	doc := &output.Document{
		Sources:     opts.Files,
		LineNumbers: opts.LineNumbers,
		Records:     records,
	}
	return render(ctx, doc, opts, stdout)
}

// applyConfig fills options left unset on the command line from the
// config file.
func applyConfig(opts *MergeOptions, cfg *config.Config) {
	if len(opts.Files) == 0 {
		opts.Files = cfg.Files
	}
	if len(opts.Formats) == 0 {
		opts.Formats = cfg.TimestampFormats
	}
	if opts.Window == 0 {
		opts.Window = cfg.Window
	}
	if opts.Start == "" {
		opts.Start = cfg.Start
	}
	if opts.End == "" {
		opts.End = cfg.End
	}
	opts.AutoClip = opts.AutoClip || cfg.AutoClip
	opts.IgnoreNonTimestamped = opts.IgnoreNonTimestamped || cfg.IgnoreNonTimestamped
	opts.LineNumbers = opts.LineNumbers || cfg.LineNumbers
	if opts.Format == "" {
		opts.Format = cfg.Output.Format
	}
	if opts.OutputPath == "" {
		opts.OutputPath = cfg.Output.Path
	}
	if opts.Width == 0 {
		opts.Width = cfg.Output.Width
	}
}

// buildClip parses the user-entered start/end instants and validates the
// window before any file is read.
func buildClip(opts MergeOptions) (merge.Clip, error) {
	now := time.Now()
	var start, end time.Time
	var hasStart, hasEnd bool
	var err error

	if opts.Start != "" {
		if start, err = timestamp.ParseUserTime(opts.Start, now); err != nil {
			return merge.Clip{}, err
		}
		hasStart = true
	}
	if opts.End != "" {
		if end, err = timestamp.ParseUserTime(opts.End, now); err != nil {
			return merge.Clip{}, err
		}
		hasEnd = true
	}
	return merge.NewClip(start, end, hasStart, hasEnd)
}

// autoClip scans the reference source for its minimum and maximum
// timestamps and clips all sources to that range.
func autoClip(ctx context.Context, registry *timestamp.Registry, path string) (merge.Clip, error) {
	reader, meta, err := source.Open(path, source.Options{Registry: registry})
	if err != nil {
		return merge.Clip{}, err
	}
	defer reader.Close()

	first, err := reader.Next(ctx)
	if err == io.EOF {
		return merge.Clip{}, fmt.Errorf("no timestamps found in log file %s", path)
	}
	if err != nil {
		return merge.Clip{}, err
	}
	matcher, err := registry.Detect(path, first)
	if err != nil {
		return merge.Clip{}, err
	}

	lines := &transformedLines{
		reader:      reader,
		transformer: timestamp.NewTransformer(matcher, timestamp.ContextFromModTime(meta.ModTime)),
		pending:     &first,
	}
	min, max, ok, err := merge.ScanBounds(ctx, lines)
	if err != nil {
		return merge.Clip{}, err
	}
	if !ok {
		return merge.Clip{}, fmt.Errorf("no timestamps found in log file %s", path)
	}
	return merge.Clip{Start: min, End: max, HasStart: true, HasEnd: true}, nil
}

// openPipeline builds one source's transform+collapse stage. An empty
// file yields an empty entry iterator: it still gets a column but
// contributes nothing to the merge.
func openPipeline(ctx context.Context, registry *timestamp.Registry, path string, clip merge.Clip, opts MergeOptions) (merge.EntryIter, error) {
	reader, meta, err := source.Open(path, source.Options{Registry: registry})
	if err != nil {
		return nil, err
	}

	first, err := reader.Next(ctx)
	if err == io.EOF {
		return emptyEntries{closer: reader}, nil
	}
	if err != nil {
		_ = reader.Close()
		return nil, err
	}

	matcher, err := registry.Detect(path, first)
	if err != nil {
		_ = reader.Close()
		return nil, err
	}

	lines := &transformedLines{
		reader:      reader,
		transformer: timestamp.NewTransformer(matcher, timestamp.ContextFromModTime(meta.ModTime)),
		clip:        clip,
		pending:     &first,
	}
	collapser := merge.NewCollapser(lines, merge.CollapseOptions{
		Window:      opts.Window,
		Clip:        clip,
		DropUntimed: opts.IgnoreNonTimestamped,
	})
	return &closingEntries{Collapser: collapser, closer: reader}, nil
}

// transformedLines adapts a raw line reader into transformed, raw-clipped
// lines. The first line is replayed after being consumed for detection.
type transformedLines struct {
	reader      source.Reader
	transformer *timestamp.Transformer
	clip        merge.Clip
	pending     *string
}

func (s *transformedLines) Next(ctx context.Context) (timestamp.Line, error) {
	for {
		var raw string
		if s.pending != nil {
			raw, s.pending = *s.pending, nil
		} else {
			var err error
			raw, err = s.reader.Next(ctx)
			if err != nil {
				return timestamp.Line{}, err
			}
		}
		line := s.transformer.Transform(raw)
		if !s.clip.KeepLine(line) {
			continue
		}
		return line, nil
	}
}

// closingEntries carries the reader alongside its collapser so the merge
// loop can release sources when done.
type closingEntries struct {
	*merge.Collapser
	closer io.Closer
}

func (e *closingEntries) Close() error {
	return e.closer.Close()
}

// emptyEntries is the entry iterator for a source with no lines.
type emptyEntries struct {
	closer io.Closer
}

func (emptyEntries) Next(context.Context) (merge.Entry, error) {
	return merge.Entry{}, io.EOF
}

func (e emptyEntries) Close() error {
	return e.closer.Close()
}

// closeAll releases every source's underlying reader.
func closeAll(sources []merge.LabeledSource) {
	for _, s := range sources {
		if c, ok := s.Entries.(interface{ Close() error }); ok {
			_ = c.Close()
		}
	}
}

// render writes the merged records in the requested format.
func render(ctx context.Context, doc *output.Document, opts MergeOptions, stdout io.Writer) error {
	if opts.CSVPath != "" {
		return renderToFile(ctx, doc, &output.CSVFormatter{}, opts.CSVPath, stdout)
	}

	width := 0
	if opts.Format == "" || opts.Format == "table" {
		width = opts.Width
	}
	formatter, err := output.New(opts.Format, output.Options{Width: width})
	if err != nil {
		return err
	}
	return renderToFile(ctx, doc, formatter, opts.OutputPath, stdout)
}

func renderToFile(ctx context.Context, doc *output.Document, formatter output.Formatter, path string, stdout io.Writer) error {
	if path == "" || path == "-" {
		return formatter.Format(ctx, doc, stdout)
	}
	f, err := os.Create(path) // #nosec G304 -- user-provided output path is expected
	if err != nil {
		return fmt.Errorf("creating output file: %w", err)
	}
	if err := formatter.Format(ctx, doc, f); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}
