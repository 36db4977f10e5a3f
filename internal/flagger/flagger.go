// Package flagger implements the pluggable analyzers that decide, per
// image, whether it is sensitive and why.
package flagger

import "github.com/lemon-sec/scavenger/internal/model"

// Flagger inspects one image's content and OCR text and optionally reports
// a finding. Implementations MUST treat content as read-only and MUST be
// total: a Flagger that cannot decide reports no finding, it never panics
// or blocks indefinitely.
type Flagger interface {
	// ModuleName returns a stable, unique, human-readable identifier used
	// as Result.Author when this flagger reports a finding.
	ModuleName() string

	// Flag inspects the image and returns a human-readable justification
	// if it should be flagged, or ("", false) if not.
	Flag(id string, content model.Raster, text string) (comment string, found bool)
}

// Set is an ordered collection of Flaggers. Within one image, the first
// positive finding wins; remaining flaggers are not evaluated.
type Set []Flagger

// Evaluate runs the set against one image and returns the first positive
// finding, or ("", "", false) if none matched.
func (s Set) Evaluate(id string, content model.Raster, text string) (author, comment string, found bool) {
	for _, f := range s {
		if c, ok := f.Flag(id, content, text); ok {
			return f.ModuleName(), c, true
		}
	}
	return "", "", false
}

// Factory produces the ordered list of Flaggers to run.
type Factory interface {
	InitializedFlaggers() Set
}

// DefaultFactory builds the default flagger set: pattern flagger, keyword
// flagger, then the EXIF metadata flagger, in that order (cheap,
// text-based checks are evaluated before the EXIF flagger, which decodes
// container metadata).
type DefaultFactory struct{}

// InitializedFlaggers implements Factory.
func (DefaultFactory) InitializedFlaggers() Set {
	return Set{
		NewPatternFlagger(),
		NewKeywordFlagger(),
		NewEXIFFlagger(),
	}
}

var _ Factory = DefaultFactory{}
