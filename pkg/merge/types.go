// Package merge turns per-source transformed log lines into one
// chronologically ordered sequence of records: continuation lines are
// folded into their timestamped neighbors, locally out-of-order entries
// are corrected within a bounded lookahead window, and the per-source
// streams are heap-merged with same-timestamp grouping.
//
// Every stage is a forward-only, pull-based iterator ending with io.EOF;
// no stage buffers more than its bounded window.
package merge

import (
	"context"
	"time"

	"github.com/logweave/logweave/pkg/timestamp"
)

// LineIter yields one source's transformed lines in file order.
// Implementations must be safe for sequential access (not concurrent).
type LineIter interface {
	// Next returns the next transformed line, or io.EOF at end of input.
	Next(ctx context.Context) (timestamp.Line, error)
}

// LineIterFunc adapts a function to the LineIter interface.
type LineIterFunc func(ctx context.Context) (timestamp.Line, error)

func (f LineIterFunc) Next(ctx context.Context) (timestamp.Line, error) {
	return f(ctx)
}

// Entry is one collapsed log entry: a timestamped line together with the
// continuation lines folded into it, newline-joined. Entries grouped
// before the first timestamped line of a source carry the zero time.
type Entry struct {
	Time time.Time
	Body string
}

// EntryIter yields one source's collapsed entries in non-decreasing
// timestamp order.
type EntryIter interface {
	// Next returns the next entry, or io.EOF at end of input.
	Next(ctx context.Context) (Entry, error)
}

// LabeledEntry routes an entry back to its originating source.
type LabeledEntry struct {
	Source string
	Entry  Entry
}

// Group holds all entries, from possibly multiple sources, sharing
// exactly the same timestamp.
type Group struct {
	Time    time.Time
	Entries []LabeledEntry
}

// Record is the external unit of output: one row per distinct timestamp
// with one column per source (empty when that source had no entry at that
// instant). Line is a 1-based sequence number, or "" when numbering is
// off. Timestamp is formatted to millisecond precision, or "" for the
// sentinel pre-first-timestamp group.
type Record struct {
	Line      string
	Timestamp string
	Columns   map[string]string
}

// TimestampLayout is the fixed presentation format for record timestamps.
const TimestampLayout = "2006-01-02 15:04:05.000"
