// Package timestamp detects and parses the leading timestamps of log lines.
//
// A Registry holds an ordered set of Matchers; the first matcher whose
// pattern matches a source's sample line is bound to that source for the
// whole run. Custom formats are supplied as templates containing a "(...)"
// placeholder, which is expanded once per built-in timestamp shape.
package timestamp

import (
	"fmt"
	"regexp"
	"strings"
)

// Placeholder marks where the timestamp shape goes in a custom template.
const Placeholder = "(...)"

// NoFormatError reports that a source's sample line matched no known
// timestamp format.
type NoFormatError struct {
	Source string
	Sample string
}

func (e *NoFormatError) Error() string {
	return fmt.Sprintf("no timestamp format detected in %s (sample line %q)", e.Source, e.Sample)
}

// TemplateError reports a malformed custom timestamp template.
type TemplateError struct {
	Template string
	Reason   string
}

func (e *TemplateError) Error() string {
	return fmt.Sprintf("custom timestamp format %q: %s", e.Template, e.Reason)
}

// Registry is an explicit, per-run set of matchers: the built-ins plus any
// matchers derived from custom templates. It has no global state.
type Registry struct {
	matchers []*Matcher
}

// NewRegistry returns a registry holding the built-in matchers.
func NewRegistry() *Registry {
	return &Registry{matchers: Builtins()}
}

// Matchers returns the matchers in detection priority order.
func (r *Registry) Matchers() []*Matcher {
	return r.matchers
}

// AddCustomFormat derives one matcher per built-in timestamp shape from a
// template. The template is a regular expression with "(...)" in place of
// the timestamp pattern:
//
//	((...)x)          timestamp plus trailing delimiter x, both removed
//	(leading)((...)x) as above, with leading text preserved in the remainder
//
// The shorthand "strace" expands to `(\d+) ((...))` for strace -t output
// prefixed with a PID.
func (r *Registry) AddCustomFormat(template string) error {
	if strings.EqualFold(template, "strace") {
		template = `(\d+) ((...))`
	}
	if !strings.Contains(template, Placeholder) {
		return &TemplateError{Template: template, Reason: "must contain the '(...)' placeholder"}
	}

	// Leading literal text is present when the first group closed by the
	// template is not the placeholder itself.
	head := template[:strings.Index(template, ")")]
	hasLeading := !strings.Contains(head, "...")

	for _, b := range Builtins() {
		patternStr := "^" + strings.Replace(template, "...", b.Shape, 1)
		pattern, err := regexp.Compile(patternStr)
		if err != nil {
			return &TemplateError{Template: template, Reason: err.Error()}
		}
		m := &Matcher{
			Name:       b.Name + " (custom)",
			PatternStr: patternStr,
			Pattern:    pattern,
			Shape:      b.Shape,
			TrimGroup:  1,
			TSGroup:    2,
			Parse:      b.Parse,
			NeedsYear:  b.NeedsYear,
			NeedsDate:  b.NeedsDate,
		}
		if hasLeading {
			m.KeepGroup = 1
			m.TrimGroup = 2
			m.TSGroup = 3
		}
		r.matchers = append(r.matchers, m)
	}
	return nil
}

// Detect returns the first matcher whose pattern matches the sample line.
// Selection happens once per source, not per line.
func (r *Registry) Detect(source, sample string) (*Matcher, error) {
	for _, m := range r.matchers {
		if m.Pattern.MatchString(sample) {
			return m, nil
		}
	}
	return nil, &NoFormatError{Source: source, Sample: sample}
}
