package timestamp

import (
	"regexp"
	"strconv"
	"strings"
	"time"
)

// Matcher pairs a compiled recognizer pattern with a parser for one
// timestamp shape. Patterns are anchored at the start of the line; the
// trim group spans the timestamp plus its trailing delimiter and is
// removed from the emitted remainder.
type Matcher struct {
	// Name is a human-readable format name.
	Name string

	// PatternStr is the full pattern string, for diagnostics and config output.
	PatternStr string

	// Pattern is the compiled recognizer.
	Pattern *regexp.Regexp

	// Shape is the bare timestamp sub-pattern, used to derive matchers
	// from custom templates.
	Shape string

	// TSGroup is the capture group index holding the timestamp value.
	TSGroup int

	// TrimGroup is the capture group removed from the remainder.
	TrimGroup int

	// KeepGroup is the capture group of leading text preserved in the
	// remainder, or 0 if there is none.
	KeepGroup int

	// Parse converts the captured timestamp value to a time.
	Parse func(string) (time.Time, error)

	// NeedsYear marks formats with no year field (BSD syslog); the year
	// is supplied from per-source context.
	NeedsYear bool

	// NeedsDate marks time-only formats (strace); the date is supplied
	// from per-source context.
	NeedsDate bool

	// Examples holds sample timestamps for documentation and the
	// detect command.
	Examples []string
}

// normalizeFraction rewrites a comma subsecond separator to a period so
// Go's time parser accepts it.
func normalizeFraction(s string) string {
	return strings.Replace(s, ",", ".", 1)
}

// zoneSpaceRE matches an optional space before a trailing zone indicator.
var zoneSpaceRE = regexp.MustCompile(`\s+(Z|[+-]\d{4})$`)

// wallParser parses zone-naive timestamps in local time. A fractional
// second after the seconds field is accepted even when the layout omits it.
func wallParser(layout string) func(string) (time.Time, error) {
	return func(s string) (time.Time, error) {
		return time.ParseInLocation(layout, normalizeFraction(s), time.Local)
	}
}

// zoneParser parses zone-aware timestamps and normalizes them to local
// time so comparisons across sources are on absolute instants.
func zoneParser(layout string) func(string) (time.Time, error) {
	return func(s string) (time.Time, error) {
		s = zoneSpaceRE.ReplaceAllString(normalizeFraction(s), "$1")
		t, err := time.Parse(layout, s)
		if err != nil {
			return time.Time{}, err
		}
		return t.Local(), nil
	}
}

func parseEpochSeconds(s string) (time.Time, error) {
	secs, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return time.Time{}, err
	}
	return time.Unix(secs, 0), nil
}

func parseEpochMillis(s string) (time.Time, error) {
	millis, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return time.Time{}, err
	}
	return time.UnixMilli(millis), nil
}

// parseEpochFloat parses "seconds.fraction" without going through a
// float64, so sub-second precision survives intact.
func parseEpochFloat(s string) (time.Time, error) {
	intPart, fracPart, _ := strings.Cut(s, ".")
	secs, err := strconv.ParseInt(intPart, 10, 64)
	if err != nil {
		return time.Time{}, err
	}
	if len(fracPart) > 9 {
		fracPart = fracPart[:9]
	}
	fracPart += strings.Repeat("0", 9-len(fracPart))
	nanos, err := strconv.ParseInt(fracPart, 10, 64)
	if err != nil {
		return time.Time{}, err
	}
	return time.Unix(secs, nanos), nil
}

func parseHTTPAccess(s string) (time.Time, error) {
	t, err := time.Parse("02/Jan/2006:15:04:05 -0700", s)
	if err != nil {
		return time.Time{}, err
	}
	return t.Local(), nil
}

func parseApacheError(s string) (time.Time, error) {
	s = strings.TrimSuffix(strings.TrimPrefix(s, "["), "]")
	return time.ParseInLocation("Mon Jan 02 15:04:05 2006", s, time.Local)
}

// simpleMatcher builds a matcher for timestamps at the start of the line
// followed by whitespace. The whole "timestamp + delimiter" match is
// removed from the remainder.
func simpleMatcher(name, shape string, parse func(string) (time.Time, error), examples ...string) *Matcher {
	pattern := `^((` + shape + `)\s)`
	return &Matcher{
		Name:       name,
		PatternStr: pattern,
		Pattern:    regexp.MustCompile(pattern),
		Shape:      shape,
		TrimGroup:  1,
		TSGroup:    2,
		Parse:      parse,
		Examples:   examples,
	}
}

// leadingMatcher builds a matcher for bracketed timestamps preceded by
// arbitrary text (HTTP access log styles). The leading text is preserved
// in the remainder; "- [timestamp] " is removed.
func leadingMatcher(name, shape string, parse func(string) (time.Time, error), examples ...string) *Matcher {
	pattern := `^(.*)(- \[(` + shape + `)\]\s)`
	return &Matcher{
		Name:       name,
		PatternStr: pattern,
		Pattern:    regexp.MustCompile(pattern),
		Shape:      shape,
		KeepGroup:  1,
		TrimGroup:  2,
		TSGroup:    3,
		Parse:      parse,
		Examples:   examples,
	}
}

// Builtins returns the built-in matcher set, ordered by specificity.
// Detection tests matchers in this order and the first match wins.
func Builtins() []*Matcher {
	matchers := []*Matcher{
		simpleMatcher(
			"datetime with comma millis and zone",
			`\d{4}-\d{2}-\d{2} \d{2}:\d{2}:\d{2},\d{3,}\s?(?:Z|[+-]\d{4})`,
			zoneParser("2006-01-02 15:04:05Z0700"),
			"2023-07-14 08:00:01,123 Z", "2023-07-14 08:00:01,123+0200",
		),
		simpleMatcher(
			"datetime with comma millis",
			`\d{4}-\d{2}-\d{2} \d{2}:\d{2}:\d{2},\d{3,}`,
			wallParser("2006-01-02 15:04:05"),
			"2023-07-14 08:00:01,123",
		),
		simpleMatcher(
			"datetime with millis and zone",
			`\d{4}-\d{2}-\d{2} \d{2}:\d{2}:\d{2}\.\d{3,}\s?(?:Z|[+-]\d{4})`,
			zoneParser("2006-01-02 15:04:05Z0700"),
			"2023-07-14 08:00:01.123 Z", "2023-07-14 08:00:01.123-0500",
		),
		simpleMatcher(
			"datetime with millis",
			`\d{4}-\d{2}-\d{2} \d{2}:\d{2}:\d{2}\.\d{3,}`,
			wallParser("2006-01-02 15:04:05"),
			"2023-07-14 08:00:01.123",
		),
		simpleMatcher(
			"datetime with zone",
			`\d{4}-\d{2}-\d{2} \d{2}:\d{2}:\d{2}\s?(?:Z|[+-]\d{4})`,
			zoneParser("2006-01-02 15:04:05Z0700"),
			"2023-07-14 08:00:01 Z", "2023-07-14 08:00:01+0000",
		),
		simpleMatcher(
			"datetime",
			`\d{4}-\d{2}-\d{2} \d{2}:\d{2}:\d{2}`,
			wallParser("2006-01-02 15:04:05"),
			"2023-07-14 08:00:01",
		),
		simpleMatcher(
			"ISO datetime with comma millis and zone",
			`\d{4}-\d{2}-\d{2}T\d{2}:\d{2}:\d{2},\d{3,}\s?(?:Z|[+-]\d{4})`,
			zoneParser("2006-01-02T15:04:05Z0700"),
			"2023-07-14T08:00:01,123Z",
		),
		simpleMatcher(
			"ISO datetime with comma millis",
			`\d{4}-\d{2}-\d{2}T\d{2}:\d{2}:\d{2},\d{3,}`,
			wallParser("2006-01-02T15:04:05"),
			"2023-07-14T08:00:01,123",
		),
		simpleMatcher(
			"ISO datetime with millis and zone",
			`\d{4}-\d{2}-\d{2}T\d{2}:\d{2}:\d{2}\.\d{3,}\s?(?:Z|[+-]\d{4}Z?)`,
			zoneParser("2006-01-02T15:04:05Z0700"),
			"2023-07-14T08:00:01.123Z", "2023-07-14T08:00:01.123+0000",
		),
		simpleMatcher(
			"ISO datetime with millis",
			`\d{4}-\d{2}-\d{2}T\d{2}:\d{2}:\d{2}\.\d{3,}`,
			wallParser("2006-01-02T15:04:05"),
			"2023-07-14T08:00:01.123",
		),
		simpleMatcher(
			"ISO datetime with zone",
			`\d{4}-\d{2}-\d{2}T\d{2}:\d{2}:\d{2}\s?(?:Z|[+-]\d{4})`,
			zoneParser("2006-01-02T15:04:05Z0700"),
			"2023-07-14T08:00:01Z",
		),
		simpleMatcher(
			"ISO datetime",
			`\d{4}-\d{2}-\d{2}T\d{2}:\d{2}:\d{2}`,
			wallParser("2006-01-02T15:04:05"),
			"2023-07-14T08:00:01",
		),
		withYear(simpleMatcher(
			"syslog (BSD)",
			`[JFMASOND][a-z]{2}\s(?:\s|\d)\d \d{2}:\d{2}:\d{2}`,
			wallParser("Jan _2 15:04:05"),
			"Jun 14 15:16:01", "Jan  5 09:30:00",
		)),
		withDate(simpleMatcher(
			"time of day with millis (strace)",
			`\d{2}:\d{2}:\d{2}\.\d{3,}`,
			wallParser("15:04:05"),
			"08:00:01.123456",
		)),
		leadingMatcher(
			"Python http.server access log",
			`\d{2}\/\w+\/\d{4} \d{2}:\d{2}:\d{2}`,
			wallParser("02/Jan/2006 15:04:05"),
			"::1 - - [22/Sep/2023 21:58:40]",
		),
		leadingMatcher(
			"HTTP server access log",
			`\d{2}\/\w+\/\d{4}:\d{2}:\d{2}:\d{2} [+-]\d{4}`,
			parseHTTPAccess,
			"10.0.0.1 - - [16/Sep/2023:19:05:06 +0000]",
		),
		simpleMatcher(
			"epoch float seconds",
			`\d{10}\.\d+`,
			parseEpochFloat,
			"1694561169.550987",
		),
		simpleMatcher(
			"epoch milliseconds",
			`\d{13}`,
			parseEpochMillis,
			"1694561169550",
		),
		simpleMatcher(
			"epoch seconds",
			`\d{10}`,
			parseEpochSeconds,
			"1694561169",
		),
		simpleMatcher(
			"Apache error log",
			`\[\w{3} \w{3} \d{2} \d{2}:\d{2}:\d{2}\.\d{1,6} \d{4}\]`,
			parseApacheError,
			"[Fri Dec 01 00:00:25.933177 2023]",
		),
	}
	return matchers
}

func withYear(m *Matcher) *Matcher {
	m.NeedsYear = true
	return m
}

func withDate(m *Matcher) *Matcher {
	m.NeedsDate = true
	return m
}
