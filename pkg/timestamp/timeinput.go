package timestamp

import (
	"fmt"
	"regexp"
	"strconv"
	"time"
)

// inputLayouts are the accepted layouts for user-entered start/end times.
// A "T" may replace the space so values can be typed without quoting, and
// fractional seconds (period or comma) are accepted on the second-bearing
// layouts.
var inputLayouts = []string{
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02",
}

var relativeRE = regexp.MustCompile(`(?i)^(\d+)([smhd])$`)

// ParseUserTime parses a user-entered instant: either an absolute value in
// one of the accepted layouts, or a relative offset into the past such as
// "15m" or "2h" (units s, m, h, d) measured from now.
func ParseUserTime(s string, now time.Time) (time.Time, error) {
	if m := relativeRE.FindStringSubmatch(s); m != nil {
		n, err := strconv.Atoi(m[1])
		if err != nil {
			return time.Time{}, fmt.Errorf("invalid relative time %q: %w", s, err)
		}
		var unit time.Duration
		switch m[2][0] | 0x20 {
		case 's':
			unit = time.Second
		case 'm':
			unit = time.Minute
		case 'h':
			unit = time.Hour
		case 'd':
			unit = 24 * time.Hour
		}
		return now.Add(-time.Duration(n) * unit), nil
	}

	for _, layout := range inputLayouts {
		if t, err := time.ParseInLocation(layout, normalizeFraction(s), time.Local); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("no matching format for input time %q", s)
}
