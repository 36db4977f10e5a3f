package flagger

import "github.com/lemon-sec/scavenger/internal/model"

// DisabledComment is the fixed comment reported by every image when
// hunting is disabled.
const DisabledComment = "HUNTING DISABLED"

// disabledModuleName is used as both ModuleName and Result.Author for the
// sentinel flagger, matching the spec's documented boundary scenario.
const disabledModuleName = "HUNTING DISABLED"

// Disabled is the sentinel Flagger substituted for the whole set when
// hunting is disabled. It flags every image unconditionally, turning the
// pipeline into a passthrough scraper over the OCR stage.
type Disabled struct{}

// ModuleName implements Flagger.
func (Disabled) ModuleName() string {
	return disabledModuleName
}

// Flag implements Flagger. It always reports a finding.
func (Disabled) Flag(string, model.Raster, string) (string, bool) {
	return DisabledComment, true
}

var _ Flagger = Disabled{}

// DisabledFactory produces a Set containing only the Disabled sentinel
// flagger.
type DisabledFactory struct{}

// InitializedFlaggers implements Factory.
func (DisabledFactory) InitializedFlaggers() Set {
	return Set{Disabled{}}
}

var _ Factory = DisabledFactory{}
