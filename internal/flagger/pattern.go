package flagger

import (
	"fmt"
	"regexp"

	"github.com/lemon-sec/scavenger/internal/model"
)

// namedPattern pairs a compiled regex with the source form used in the
// reported comment, matching the spec's required
// `"<match>" matched with regex: <pattern>` phrasing.
type namedPattern struct {
	source  string
	compile *regexp.Regexp
}

// PatternFlagger reports the first match against a compiled-once set of
// regular expressions (email address, IPv4 address).
type PatternFlagger struct {
	patterns []namedPattern
}

// defaultPatternSources lists the regex source strings, in evaluation
// order, used by NewPatternFlagger.
var defaultPatternSources = []string{
	`[a-zA-Z0-9_.+-]+@[a-zA-Z0-9-]+\.[a-zA-Z0-9-.]+`,
	`\b(?:(?:25[0-5]|2[0-4][0-9]|[01]?[0-9][0-9]?)\.){3}(?:25[0-5]|2[0-4][0-9]|[01]?[0-9][0-9]?)\b`,
}

// NewPatternFlagger compiles the default pattern set once and returns a
// ready-to-use PatternFlagger.
func NewPatternFlagger() *PatternFlagger {
	patterns := make([]namedPattern, 0, len(defaultPatternSources))
	for _, src := range defaultPatternSources {
		patterns = append(patterns, namedPattern{source: src, compile: regexp.MustCompile(src)})
	}
	return &PatternFlagger{patterns: patterns}
}

// ModuleName implements Flagger.
func (f *PatternFlagger) ModuleName() string {
	return "PATTERN"
}

// Flag implements Flagger.
func (f *PatternFlagger) Flag(_ string, _ model.Raster, text string) (string, bool) {
	for _, p := range f.patterns {
		if match := p.compile.FindString(text); match != "" {
			return fmt.Sprintf("%q matched with regex: %s", match, p.source), true
		}
	}
	return "", false
}

var _ Flagger = (*PatternFlagger)(nil)
