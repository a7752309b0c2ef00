package merge

import (
	"fmt"
	"time"

	"github.com/logweave/logweave/pkg/timestamp"
)

// InvalidWindowError reports a time window whose start is not before its
// end. It is raised at configuration time, before any file is read.
type InvalidWindowError struct {
	Start, End time.Time
}

func (e *InvalidWindowError) Error() string {
	return fmt.Sprintf("invalid time window: start %s must be before end %s",
		e.Start.Format(TimestampLayout), e.End.Format(TimestampLayout))
}

// Clip is an inclusive [Start, End] instant window. The zero Clip keeps
// everything.
type Clip struct {
	Start, End       time.Time
	HasStart, HasEnd bool
}

// NewClip validates and builds a time window. Either bound may be absent.
func NewClip(start, end time.Time, hasStart, hasEnd bool) (Clip, error) {
	if hasStart && hasEnd && !start.Before(end) {
		return Clip{}, &InvalidWindowError{Start: start, End: end}
	}
	return Clip{Start: start, End: end, HasStart: hasStart, HasEnd: hasEnd}, nil
}

// KeepLine is the raw per-line pre-filter. Untimestamped continuation
// lines are always kept: they may belong to an in-window entry whose
// position is only known after collapsing.
func (c Clip) KeepLine(l timestamp.Line) bool {
	if !l.HasTime {
		return true
	}
	if c.HasStart && l.Time.Before(c.Start) {
		return false
	}
	if c.HasEnd && l.Time.After(c.End) {
		return false
	}
	return true
}

// keepEntry is the post-collapse filter. stop reports that the source's
// remaining entries all lie past End (sources are individually
// time-ordered after reordering), so iteration can short-circuit.
func (c Clip) keepEntry(ts time.Time) (keep, stop bool) {
	if c.HasEnd && ts.After(c.End) {
		return false, true
	}
	if c.HasStart && ts.Before(c.Start) {
		return false, false
	}
	return true, false
}
