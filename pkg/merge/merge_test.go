package merge

import (
	"context"
	"io"
	"testing"
)

type sliceEntries struct {
	entries []Entry
	i       int
}

func (s *sliceEntries) Next(ctx context.Context) (Entry, error) {
	if s.i >= len(s.entries) {
		return Entry{}, io.EOF
	}
	e := s.entries[s.i]
	s.i++
	return e, nil
}

func drainGroups(t *testing.T, m *Merger) []*Group {
	t.Helper()
	var out []*Group
	for {
		g, err := m.Next(context.Background())
		if err == io.EOF {
			return out
		}
		if err != nil {
			t.Fatalf("Next() error = %v", err)
		}
		out = append(out, g)
	}
}

func TestMerger_InterleavesByTimestamp(t *testing.T) {
	a := LabeledSource{Name: "a.log", Entries: &sliceEntries{entries: []Entry{
		{Time: at(1), Body: "INFO starting"},
		{Time: at(4), Body: "ERROR failed\n  traceback"},
		{Time: at(6), Body: "INFO shutting down"},
	}}}
	b := LabeledSource{Name: "b.log", Entries: &sliceEntries{entries: []Entry{
		{Time: at(1), Body: "request received"},
		{Time: at(5), Body: "response sent"},
	}}}

	groups := drainGroups(t, NewMerger(a, b))
	wantSecs := []int{1, 4, 5, 6}
	if len(groups) != len(wantSecs) {
		t.Fatalf("got %d groups, want %d", len(groups), len(wantSecs))
	}
	for i, sec := range wantSecs {
		if !groups[i].Time.Equal(at(sec)) {
			t.Errorf("groups[%d].Time = %v, want %v", i, groups[i].Time, at(sec))
		}
	}

	// Both sources land in the shared :01 group, in source order.
	first := groups[0]
	if len(first.Entries) != 2 {
		t.Fatalf("first group has %d entries, want 2", len(first.Entries))
	}
	if first.Entries[0].Source != "a.log" || first.Entries[1].Source != "b.log" {
		t.Errorf("tie order = %s, %s; want a.log, b.log",
			first.Entries[0].Source, first.Entries[1].Source)
	}

	// Singleton groups carry only their own source.
	if len(groups[1].Entries) != 1 || groups[1].Entries[0].Source != "a.log" {
		t.Errorf("groups[1] = %+v, want a single a.log entry", groups[1].Entries)
	}
	if groups[2].Entries[0].Entry.Body != "response sent" {
		t.Errorf("groups[2] body = %q", groups[2].Entries[0].Entry.Body)
	}
}

func TestMerger_OutputIsNonDecreasing(t *testing.T) {
	a := LabeledSource{Name: "a", Entries: &sliceEntries{entries: []Entry{
		{Time: at(1)}, {Time: at(3)}, {Time: at(7)},
	}}}
	b := LabeledSource{Name: "b", Entries: &sliceEntries{entries: []Entry{
		{Time: at(2)}, {Time: at(3)}, {Time: at(8)},
	}}}
	c := LabeledSource{Name: "c", Entries: &sliceEntries{entries: []Entry{
		{Time: at(3)}, {Time: at(9)},
	}}}

	groups := drainGroups(t, NewMerger(a, b, c))
	for i := 1; i < len(groups); i++ {
		if groups[i].Time.Before(groups[i-1].Time) {
			t.Fatalf("group %d at %v precedes group %d at %v",
				i, groups[i].Time, i-1, groups[i-1].Time)
		}
	}

	// The three-way tie at :03 collapses into one group.
	var tie *Group
	for _, g := range groups {
		if g.Time.Equal(at(3)) {
			tie = g
		}
	}
	if tie == nil || len(tie.Entries) != 3 {
		t.Fatalf("tie group = %+v, want all three sources", tie)
	}
}

func TestMerger_EmptySources(t *testing.T) {
	m := NewMerger(
		LabeledSource{Name: "a", Entries: &sliceEntries{}},
		LabeledSource{Name: "b", Entries: &sliceEntries{}},
	)
	if _, err := m.Next(context.Background()); err != io.EOF {
		t.Fatalf("Next() error = %v, want io.EOF", err)
	}
}

func TestMerger_SingleSourcePassthrough(t *testing.T) {
	entries := []Entry{
		{Time: at(1), Body: "x"},
		{Time: at(2), Body: "y"},
	}
	groups := drainGroups(t, NewMerger(
		LabeledSource{Name: "only", Entries: &sliceEntries{entries: entries}},
	))
	if len(groups) != 2 {
		t.Fatalf("got %d groups, want 2", len(groups))
	}
	for i, g := range groups {
		if g.Entries[0].Entry.Body != entries[i].Body {
			t.Errorf("groups[%d] body = %q, want %q", i, g.Entries[0].Entry.Body, entries[i].Body)
		}
	}
}

func TestMerger_RemergeIsStable(t *testing.T) {
	a := LabeledSource{Name: "a", Entries: &sliceEntries{entries: []Entry{
		{Time: at(1), Body: "a1"}, {Time: at(3), Body: "a3"},
	}}}
	b := LabeledSource{Name: "b", Entries: &sliceEntries{entries: []Entry{
		{Time: at(2), Body: "b2"}, {Time: at(3), Body: "b3"},
	}}}

	first := drainGroups(t, NewMerger(a, b))

	// Feed the merged sequence back in as a single source; the order and
	// grouping must not change.
	var flat []Entry
	for _, g := range first {
		for _, le := range g.Entries {
			flat = append(flat, le.Entry)
		}
	}
	second := drainGroups(t, NewMerger(
		LabeledSource{Name: "merged", Entries: &sliceEntries{entries: flat}},
	))

	if len(second) != len(first) {
		t.Fatalf("re-merge produced %d groups, want %d", len(second), len(first))
	}
	for i := range first {
		if !second[i].Time.Equal(first[i].Time) {
			t.Errorf("group %d time = %v, want %v", i, second[i].Time, first[i].Time)
		}
		if len(second[i].Entries) != len(first[i].Entries) {
			t.Errorf("group %d has %d entries, want %d",
				i, len(second[i].Entries), len(first[i].Entries))
		}
	}
}

func TestMerger_ConservesEntries(t *testing.T) {
	a := LabeledSource{Name: "a", Entries: &sliceEntries{entries: []Entry{
		{Time: at(1)}, {Time: at(2)}, {Time: at(2)}, {Time: at(5)},
	}}}
	b := LabeledSource{Name: "b", Entries: &sliceEntries{entries: []Entry{
		{Time: at(2)}, {Time: at(4)},
	}}}

	total := 0
	for _, g := range drainGroups(t, NewMerger(a, b)) {
		total += len(g.Entries)
	}
	if total != 6 {
		t.Errorf("merged %d entries, want 6", total)
	}
}
