package merge

import (
	"container/heap"
	"context"
	"io"
)

// LabeledSource is one named, already time-ordered entry stream.
type LabeledSource struct {
	Name    string
	Entries EntryIter
}

// Merger combines multiple labeled entry streams into a single sequence
// of Groups ordered by timestamp. Entries from different sources sharing
// an identical timestamp land in the same Group; ties preserve the order
// sources were given in.
type Merger struct {
	sources []LabeledSource
	heap    *entryHeap
	inited  bool
}

// NewMerger creates a k-way merger over the given sources. An empty
// source simply contributes nothing; all sources empty yields an empty
// sequence.
func NewMerger(sources ...LabeledSource) *Merger {
	return &Merger{
		sources: sources,
		heap:    &entryHeap{},
	}
}

// Next returns the next group of same-timestamp entries across all
// sources. Returns io.EOF when every source is exhausted.
func (m *Merger) Next(ctx context.Context) (*Group, error) {
	if !m.inited {
		if err := m.initHeap(ctx); err != nil {
			return nil, err
		}
	}

	if m.heap.Len() == 0 {
		return nil, io.EOF
	}

	first := heap.Pop(m.heap).(*heapItem)
	group := &Group{
		Time:    first.entry.Time,
		Entries: []LabeledEntry{{Source: m.sources[first.sourceIdx].Name, Entry: first.entry}},
	}
	if err := m.refill(ctx, first.sourceIdx); err != nil {
		return nil, err
	}

	// Adjacent-run grouping: heap output is non-decreasing, so every
	// entry sharing this timestamp is at the top now.
	for m.heap.Len() > 0 && (*m.heap)[0].entry.Time.Equal(group.Time) {
		item := heap.Pop(m.heap).(*heapItem)
		group.Entries = append(group.Entries,
			LabeledEntry{Source: m.sources[item.sourceIdx].Name, Entry: item.entry})
		if err := m.refill(ctx, item.sourceIdx); err != nil {
			return nil, err
		}
	}

	return group, nil
}

// initHeap reads the first entry from each source.
func (m *Merger) initHeap(ctx context.Context) error {
	m.inited = true
	heap.Init(m.heap)

	for i := range m.sources {
		if err := m.refill(ctx, i); err != nil {
			return err
		}
	}
	return nil
}

// refill pushes the next entry from the given source, if any.
func (m *Merger) refill(ctx context.Context, sourceIdx int) error {
	entry, err := m.sources[sourceIdx].Entries.Next(ctx)
	if err == io.EOF {
		return nil
	}
	if err != nil {
		return err
	}
	heap.Push(m.heap, &heapItem{entry: entry, sourceIdx: sourceIdx})
	return nil
}

// heapItem wraps an Entry with its source index for the priority queue.
type heapItem struct {
	entry     Entry
	sourceIdx int
}

// entryHeap implements heap.Interface for timestamp-ordered merging.
// Equal timestamps order by source index so ties are stable.
type entryHeap []*heapItem

func (h entryHeap) Len() int { return len(h) }

func (h entryHeap) Less(i, j int) bool {
	if !h[i].entry.Time.Equal(h[j].entry.Time) {
		return h[i].entry.Time.Before(h[j].entry.Time)
	}
	return h[i].sourceIdx < h[j].sourceIdx
}

func (h entryHeap) Swap(i, j int) { h[i], h[j] = h[j], h[i] }

func (h *entryHeap) Push(x interface{}) {
	*h = append(*h, x.(*heapItem))
}

func (h *entryHeap) Pop() interface{} {
	old := *h
	n := len(old)
	item := old[n-1]
	*h = old[0 : n-1]
	return item
}
