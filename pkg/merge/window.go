package merge

import (
	"context"
	"io"
	"sort"
	"time"

	"github.com/logweave/logweave/pkg/timestamp"
)

// DefaultWindow is the default lookahead size for correcting locally
// out-of-order timestamps. It bounds memory to O(W) groups and bounds the
// correction range to inversions at most W groups apart; source input is
// assumed mostly ordered (log rotation and thread jitter, not shuffles).
const DefaultWindow = 40

// lineGroup is a run of transformed lines sharing one carried-forward
// timestamp tag.
type lineGroup struct {
	time  time.Time
	lines []timestamp.Line
}

// windowedSort emits lineGroups in non-decreasing timestamp order,
// correcting inversions within a bounded lookahead buffer and merging
// groups that end up sharing an identical timestamp.
type windowedSort struct {
	src    *lineGrouper
	window int

	buf    []lineGroup // kept sorted by time
	maxKey time.Time
	hasMax bool
	primed bool
	done   bool
}

func newWindowedSort(src *lineGrouper, window int) *windowedSort {
	if window <= 0 {
		window = DefaultWindow
	}
	return &windowedSort{src: src, window: window}
}

// next returns the next group in corrected order, or io.EOF.
func (w *windowedSort) next(ctx context.Context) (lineGroup, error) {
	if !w.primed {
		if err := w.prime(ctx); err != nil {
			return lineGroup{}, err
		}
	}

	// Refill the buffer by one, merging or inserting out-of-order arrivals.
	if !w.done {
		g, err := w.src.next(ctx)
		switch {
		case err == io.EOF:
			w.done = true
		case err != nil:
			return lineGroup{}, err
		case w.hasMax && !g.time.After(w.maxKey):
			i := sort.Search(len(w.buf), func(i int) bool {
				return !w.buf[i].time.Before(g.time)
			})
			if i < len(w.buf) && w.buf[i].time.Equal(g.time) {
				w.buf[i].lines = append(w.buf[i].lines, g.lines...)
			} else {
				w.buf = append(w.buf, lineGroup{})
				copy(w.buf[i+1:], w.buf[i:])
				w.buf[i] = g
			}
		default:
			w.buf = append(w.buf, g)
			w.maxKey, w.hasMax = g.time, true
		}
	}

	if len(w.buf) == 0 {
		return lineGroup{}, io.EOF
	}
	head := w.buf[0]
	w.buf = w.buf[1:]
	return head, nil
}

// prime fills the lookahead buffer with up to window groups, sorts it,
// and merges groups sharing a timestamp.
func (w *windowedSort) prime(ctx context.Context) error {
	w.primed = true
	for len(w.buf) < w.window {
		g, err := w.src.next(ctx)
		if err == io.EOF {
			w.done = true
			break
		}
		if err != nil {
			return err
		}
		w.buf = append(w.buf, g)
	}

	sort.SliceStable(w.buf, func(i, j int) bool {
		return w.buf[i].time.Before(w.buf[j].time)
	})

	// Coalesce adjacent groups with equal timestamps, preserving arrival order.
	merged := w.buf[:0]
	for _, g := range w.buf {
		if n := len(merged); n > 0 && merged[n-1].time.Equal(g.time) {
			merged[n-1].lines = append(merged[n-1].lines, g.lines...)
			continue
		}
		merged = append(merged, g)
	}
	w.buf = merged

	if len(w.buf) > 0 {
		w.maxKey, w.hasMax = w.buf[len(w.buf)-1].time, true
	}
	return nil
}
