package merge

import (
	"context"
	"io"
	"strings"
	"time"

	"github.com/logweave/logweave/pkg/timestamp"
)

// lineGrouper tags every line with the timestamp of the most recent
// timestamped line (the zero time before any arrives) and groups
// consecutive lines sharing the same tag. This is what attaches
// continuation lines to their entry.
type lineGrouper struct {
	src  LineIter
	cur  time.Time // carried-forward timestamp tag
	held timestamp.Line
	has  bool
	done bool
}

func (g *lineGrouper) next(ctx context.Context) (lineGroup, error) {
	if g.done && !g.has {
		return lineGroup{}, io.EOF
	}

	var out lineGroup
	started := false
	for {
		var l timestamp.Line
		if g.has {
			l, g.has = g.held, false
		} else if g.done {
			return out, nil
		} else {
			var err error
			l, err = g.src.Next(ctx)
			if err == io.EOF {
				g.done = true
				if started {
					return out, nil
				}
				return lineGroup{}, io.EOF
			}
			if err != nil {
				return lineGroup{}, err
			}
		}

		if l.HasTime {
			g.cur = l.Time
		}
		if !started {
			out.time = g.cur
			started = true
		} else if l.HasTime && !l.Time.Equal(out.time) {
			// New entry begins here; hold the line for the next group.
			g.held, g.has = l, true
			return out, nil
		}
		out.lines = append(out.lines, l)
	}
}

// CollapseOptions configures a Collapser.
type CollapseOptions struct {
	// Window is the out-of-order lookahead size; 0 means DefaultWindow.
	Window int

	// Clip is the inclusive time window applied to collapsed entries.
	Clip Clip

	// DropUntimed excludes lines that had no timestamp of their own from
	// entry bodies. The filter runs after grouping and reordering, so a
	// timestamped line is never dropped even when all of its
	// continuation lines are.
	DropUntimed bool
}

// Collapser converts one source's transformed lines into collapsed
// entries: continuation lines folded into the preceding timestamped line,
// nearby same-timestamp lines merged, local inversions corrected within
// the lookahead window.
type Collapser struct {
	win  *windowedSort
	opts CollapseOptions
	done bool
}

// NewCollapser builds the collapse stage over one source's line iterator.
func NewCollapser(src LineIter, opts CollapseOptions) *Collapser {
	return &Collapser{
		win:  newWindowedSort(&lineGrouper{src: src}, opts.Window),
		opts: opts,
	}
}

// Next returns the next collapsed entry in non-decreasing timestamp
// order, or io.EOF. Once the clip's end bound is exceeded the rest of the
// source is skipped.
func (c *Collapser) Next(ctx context.Context) (Entry, error) {
	if c.done {
		return Entry{}, io.EOF
	}
	for {
		g, err := c.win.next(ctx)
		if err != nil {
			return Entry{}, err
		}

		keep, stop := c.opts.Clip.keepEntry(g.time)
		if stop {
			c.done = true
			return Entry{}, io.EOF
		}
		if !keep {
			continue
		}

		var texts []string
		for _, l := range g.lines {
			if c.opts.DropUntimed && !l.HasTime {
				continue
			}
			texts = append(texts, l.Text)
		}
		return Entry{Time: g.time, Body: strings.Join(texts, "\n")}, nil
	}
}
