package scavenger

import (
	"log/slog"

	"github.com/lemon-sec/scavenger/internal/flagger"
	"github.com/lemon-sec/scavenger/internal/ocr"
	"github.com/lemon-sec/scavenger/internal/sink"
	"github.com/lemon-sec/scavenger/internal/source"
)

// Default queue capacities and default sink paths, used when the
// corresponding Builder option is never set.
const (
	DefaultImageBufferSize  = 16
	DefaultResultBufferSize = 8
	DefaultCSVPath          = "./Results.csv"
	DefaultImagesDir        = "./huntedImages"
)

// Builder accumulates configuration for New. Every field has a documented
// default substituted by New when left unset, following the same
// functional-options shape as the pipeline this package is modeled on.
type Builder struct {
	source         source.Source
	textExtractor  ocr.Extractor
	flaggerFactory flagger.Factory
	resultSink     sink.Sink
	logger         *slog.Logger

	imageBufferSize  int
	resultBufferSize int

	ocrEnabled        bool
	huntingEnabled    bool
	resultSinkEnabled bool
}

// Option configures a Builder.
type Option func(*Builder)

// WithSource overrides the default remote gallery source.
func WithSource(s source.Source) Option {
	return func(b *Builder) { b.source = s }
}

// WithTextExtractor overrides the default Tesseract-backed extractor.
func WithTextExtractor(e ocr.Extractor) Option {
	return func(b *Builder) { b.textExtractor = e }
}

// WithFlaggerFactory replaces the default flagger list.
func WithFlaggerFactory(f flagger.Factory) Option {
	return func(b *Builder) { b.flaggerFactory = f }
}

// WithResultSink overrides the default CSV sink.
func WithResultSink(s sink.Sink) Option {
	return func(b *Builder) { b.resultSink = s }
}

// WithLogger attaches a logger shared by both stages and the default
// component constructors.
func WithLogger(logger *slog.Logger) Option {
	return func(b *Builder) { b.logger = logger }
}

// WithImageBufferSize sets the image queue's capacity. Non-positive values
// are rejected; the default is kept.
func WithImageBufferSize(n int) Option {
	return func(b *Builder) {
		if n > 0 {
			b.imageBufferSize = n
		}
	}
}

// WithResultBufferSize sets the result queue's capacity. Non-positive
// values are rejected; the default is kept.
func WithResultBufferSize(n int) Option {
	return func(b *Builder) {
		if n > 0 {
			b.resultBufferSize = n
		}
	}
}

// WithOCR enables or disables OCR. When disabled, the image stage uses
// ocr.NoOp instead of the default Tesseract extractor.
func WithOCR(enabled bool) Option {
	return func(b *Builder) { b.ocrEnabled = enabled }
}

// WithHunting enables or disables flagging. When disabled, the hunting
// stage flags every image unconditionally via flagger.DisabledFactory,
// turning the pipeline into a passthrough scraper over the OCR stage.
func WithHunting(enabled bool) Option {
	return func(b *Builder) { b.huntingEnabled = enabled }
}

// WithResultSinkEnabled enables or disables persistence. When disabled,
// results are discarded via sink.NoOp instead of the default CSV sink.
func WithResultSinkEnabled(enabled bool) Option {
	return func(b *Builder) { b.resultSinkEnabled = enabled }
}
