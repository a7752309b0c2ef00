package timestamp

import (
	"regexp"
	"strings"
	"time"
)

// Line is one transformed log line. HasTime is false for continuation
// lines (no recognizable leading timestamp, or a timestamp-shaped value
// that failed to parse).
type Line struct {
	Time    time.Time
	HasTime bool
	Text    string
}

// ansiEscapeRE matches terminal color escape sequences, which corrupt
// fixed-width tabular output.
var ansiEscapeRE = regexp.MustCompile("\x1b\\[\\d+(;\\d+)*m")

// StripEscapes removes terminal escape sequences from s.
func StripEscapes(s string) string {
	return ansiEscapeRE.ReplaceAllString(s, "")
}

// SourceContext carries per-source metadata for matchers whose format
// omits part of the timestamp: the year for BSD syslog, the date for
// time-only formats.
type SourceContext struct {
	Year int
	Date time.Time
}

// ContextFromModTime builds a SourceContext from a file's modification
// time, falling back to the current time when t is zero.
func ContextFromModTime(t time.Time) SourceContext {
	if t.IsZero() {
		t = time.Now()
	}
	return SourceContext{Year: t.Year(), Date: t}
}

// Transformer applies one source's bound matcher to every raw line of
// that source, producing (timestamp-or-absent, remainder) pairs.
type Transformer struct {
	matcher *Matcher
	src     SourceContext
}

// NewTransformer binds a matcher and per-source context into a line
// transformer.
func NewTransformer(m *Matcher, src SourceContext) *Transformer {
	return &Transformer{matcher: m, src: src}
}

// Matcher returns the bound matcher.
func (t *Transformer) Matcher() *Matcher {
	return t.matcher
}

// Transform converts a raw line into a Line. The timestamp and its
// trailing delimiter are clipped from the body so they are not repeated
// in the output; leading literal text captured by the matcher is kept.
// Lines that do not match, or whose timestamp value fails to parse, come
// back as continuation lines with the full text indented by one space.
func (t *Transformer) Transform(raw string) Line {
	loc := t.matcher.Pattern.FindStringSubmatchIndex(raw)
	if loc == nil {
		return continuation(raw)
	}

	value := raw[loc[2*t.matcher.TSGroup]:loc[2*t.matcher.TSGroup+1]]
	ts, err := t.matcher.Parse(value)
	if err != nil {
		// Shaped like a timestamp but not a valid instant; treat the
		// line as a continuation rather than aborting the stream.
		return continuation(raw)
	}
	ts = t.applyContext(ts)

	rest := raw[loc[1]:]
	if k := t.matcher.KeepGroup; k > 0 && loc[2*k] >= 0 {
		rest = raw[loc[2*k]:loc[2*k+1]] + rest
	}
	return Line{
		Time:    ts,
		HasTime: true,
		Text:    strings.TrimRight(StripEscapes(rest), " \t\r"),
	}
}

func (t *Transformer) applyContext(ts time.Time) time.Time {
	switch {
	case t.matcher.NeedsYear:
		return time.Date(t.src.Year, ts.Month(), ts.Day(),
			ts.Hour(), ts.Minute(), ts.Second(), ts.Nanosecond(), ts.Location())
	case t.matcher.NeedsDate:
		d := t.src.Date
		return time.Date(d.Year(), d.Month(), d.Day(),
			ts.Hour(), ts.Minute(), ts.Second(), ts.Nanosecond(), ts.Location())
	default:
		return ts
	}
}

func continuation(raw string) Line {
	return Line{Text: strings.TrimRight(StripEscapes(" "+raw), " \t\r")}
}
