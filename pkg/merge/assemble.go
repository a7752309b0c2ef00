package merge

import (
	"context"
	"io"
	"strconv"
	"time"
)

// Assembler builds one Record per Group: a column for every known source,
// overwritten with each source's body text, with optional 1-based line
// numbering.
type Assembler struct {
	sources     []string
	lineNumbers bool
	n           int
}

// NewAssembler creates an assembler for the given source names, which
// become the record columns in order.
func NewAssembler(sources []string, lineNumbers bool) *Assembler {
	return &Assembler{sources: sources, lineNumbers: lineNumbers}
}

// Sources returns the column order.
func (a *Assembler) Sources() []string {
	return a.sources
}

// Record converts a group into the external record shape. The sentinel
// pre-first-timestamp group renders an empty timestamp.
func (a *Assembler) Record(g *Group) Record {
	a.n++
	r := Record{Columns: make(map[string]string, len(a.sources))}
	if a.lineNumbers {
		r.Line = strconv.Itoa(a.n)
	}
	if !g.Time.IsZero() {
		r.Timestamp = g.Time.Format(TimestampLayout)
	}
	for _, name := range a.sources {
		r.Columns[name] = ""
	}
	for _, le := range g.Entries {
		r.Columns[le.Source] = le.Entry.Body
	}
	return r
}

// Stream couples a Merger with an Assembler into a pull-based record
// sequence, the external interface of the whole pipeline.
type Stream struct {
	merger *Merger
	asm    *Assembler
}

// NewStream builds the final pipeline stage over already collapsed,
// labeled per-source entry iterators.
func NewStream(merger *Merger, asm *Assembler) *Stream {
	return &Stream{merger: merger, asm: asm}
}

// Next returns the next merged record, or io.EOF.
func (s *Stream) Next(ctx context.Context) (Record, error) {
	g, err := s.merger.Next(ctx)
	if err != nil {
		return Record{}, err
	}
	return s.asm.Record(g), nil
}

// Records drains the stream. The consumer may instead pull record by
// record when it wants to yield between batches.
func (s *Stream) Records(ctx context.Context) ([]Record, error) {
	var out []Record
	for {
		r, err := s.Next(ctx)
		if err == io.EOF {
			return out, nil
		}
		if err != nil {
			return nil, err
		}
		out = append(out, r)
	}
}

// ScanBounds reads a reference source to its end and reports the minimum
// and maximum timestamps seen, for deriving an auto-clip window. ok is
// false when the source held no timestamped lines.
func ScanBounds(ctx context.Context, src LineIter) (min, max time.Time, ok bool, err error) {
	for {
		l, nerr := src.Next(ctx)
		if nerr == io.EOF {
			return min, max, ok, nil
		}
		if nerr != nil {
			return time.Time{}, time.Time{}, false, nerr
		}
		if !l.HasTime {
			continue
		}
		if !ok {
			min, max, ok = l.Time, l.Time, true
			continue
		}
		if l.Time.Before(min) {
			min = l.Time
		}
		if l.Time.After(max) {
			max = l.Time
		}
	}
}
