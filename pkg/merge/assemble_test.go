package merge

import (
	"context"
	"strconv"
	"testing"
	"time"
)

func TestAssembler_Record(t *testing.T) {
	asm := NewAssembler([]string{"a.log", "b.log"}, false)

	r := asm.Record(&Group{
		Time: time.Date(2023, 7, 14, 8, 0, 1, 500_000_000, time.UTC),
		Entries: []LabeledEntry{
			{Source: "a.log", Entry: Entry{Body: "hello"}},
		},
	})
	if r.Timestamp != "2023-07-14 08:00:01.500" {
		t.Errorf("Timestamp = %q, want millisecond precision", r.Timestamp)
	}
	if r.Line != "" {
		t.Errorf("Line = %q, want empty with numbering off", r.Line)
	}
	if r.Columns["a.log"] != "hello" {
		t.Errorf("Columns[a.log] = %q, want %q", r.Columns["a.log"], "hello")
	}
	if got, ok := r.Columns["b.log"]; !ok || got != "" {
		t.Errorf("Columns[b.log] = %q (present=%v), want present and empty", got, ok)
	}
}

func TestAssembler_LineNumbers(t *testing.T) {
	asm := NewAssembler([]string{"a"}, true)
	for i := 1; i <= 3; i++ {
		r := asm.Record(&Group{Time: at(i)})
		if want := strconv.Itoa(i); r.Line != want {
			t.Errorf("record %d: Line = %q, want %q", i, r.Line, want)
		}
	}
}

func TestAssembler_SentinelTimestampIsEmpty(t *testing.T) {
	asm := NewAssembler([]string{"a"}, false)
	r := asm.Record(&Group{
		Entries: []LabeledEntry{{Source: "a", Entry: Entry{Body: "banner"}}},
	})
	if r.Timestamp != "" {
		t.Errorf("Timestamp = %q, want empty for the pre-timestamp group", r.Timestamp)
	}
	if r.Columns["a"] != "banner" {
		t.Errorf("Columns[a] = %q", r.Columns["a"])
	}
}

func TestStream_Records(t *testing.T) {
	a := LabeledSource{Name: "a", Entries: &sliceEntries{entries: []Entry{
		{Time: at(1), Body: "one"},
		{Time: at(3), Body: "three"},
	}}}
	b := LabeledSource{Name: "b", Entries: &sliceEntries{entries: []Entry{
		{Time: at(2), Body: "two"},
	}}}

	stream := NewStream(NewMerger(a, b), NewAssembler([]string{"a", "b"}, true))
	records, err := stream.Records(context.Background())
	if err != nil {
		t.Fatalf("Records() error = %v", err)
	}
	if len(records) != 3 {
		t.Fatalf("got %d records, want 3", len(records))
	}
	if records[0].Line != "1" || records[2].Line != "3" {
		t.Errorf("line numbers = %q, %q, %q", records[0].Line, records[1].Line, records[2].Line)
	}
	if records[1].Columns["b"] != "two" || records[1].Columns["a"] != "" {
		t.Errorf("records[1].Columns = %v", records[1].Columns)
	}
}

func TestScanBounds(t *testing.T) {
	min, max, ok, err := ScanBounds(context.Background(), lineSource(
		untimed(" banner"),
		timed(5, "mid"),
		timed(2, "early"),
		timed(9, "late"),
	))
	if err != nil {
		t.Fatalf("ScanBounds() error = %v", err)
	}
	if !ok {
		t.Fatal("ScanBounds() ok = false, want true")
	}
	if !min.Equal(at(2)) || !max.Equal(at(9)) {
		t.Errorf("ScanBounds() = [%v, %v], want [%v, %v]", min, max, at(2), at(9))
	}
}

func TestScanBounds_NoTimestamps(t *testing.T) {
	_, _, ok, err := ScanBounds(context.Background(), lineSource(untimed(" only noise")))
	if err != nil {
		t.Fatalf("ScanBounds() error = %v", err)
	}
	if ok {
		t.Error("ScanBounds() ok = true, want false")
	}
}
