// Package ocr provides the pluggable TextExtractor used by the scavenger
// image stage: a total function from image to extracted text that never
// surfaces an error to its caller.
package ocr

import "github.com/lemon-sec/scavenger/internal/model"

// Extractor converts an image to text. Extract must never panic and must
// never return an error visible to the pipeline; recoverable failures are
// presented as an empty string.
type Extractor interface {
	Extract(img model.Raster) string
}

// DisabledSentinel is the fixed string returned by the no-op extractor when
// OCR is disabled.
const DisabledSentinel = "OCR DISABLED"

// NoOp is the Extractor substituted when OCR is disabled. It performs no
// image processing and always returns DisabledSentinel.
type NoOp struct{}

// Extract implements Extractor.
func (NoOp) Extract(model.Raster) string {
	return DisabledSentinel
}

var _ Extractor = NoOp{}
