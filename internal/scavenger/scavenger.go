// Package scavenger implements the core concurrent pipeline: a three-stage
// producer/transformer/consumer (source, image stage, hunting stage)
// staged by bounded queues, together with the Builder that wires its
// pluggable components and the pull interface clients use to drain it.
package scavenger

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync/atomic"

	"github.com/lemon-sec/scavenger/internal/flagger"
	"github.com/lemon-sec/scavenger/internal/model"
	"github.com/lemon-sec/scavenger/internal/ocr"
	"github.com/lemon-sec/scavenger/internal/sink"
	"github.com/lemon-sec/scavenger/internal/source"
)

// ErrNoResultReady is returned by LoadNextResult when the result queue is
// empty. Callers are expected to gate calls with HasNextResult; calling
// LoadNextResult anyway is a client programming error, not a recoverable
// pipeline condition, so it is a distinguished sentinel rather than a
// silently-absorbed one.
var ErrNoResultReady = errors.New("scavenger: loadNextResult called with no result ready")

// Scavenger is the orchestrator: it owns the image queue and result queue,
// the two stage goroutines reading and writing them, and the current
// result slot the client thread observes through the pull interface.
//
// The client thread is the only external caller of Scavenger's methods for
// its lifetime; HasNextResult, LoadNextResult, and IsFinished are the only
// methods meant to be called repeatedly, and none of them block except the
// first-result wait already completed inside New.
type Scavenger struct {
	ctx    context.Context
	cancel context.CancelFunc

	resultQueue <-chan model.Result

	sourceStatus *SourceStatus
	huntStatus   *HuntStatus

	src  source.Source
	sink sink.Sink

	current model.Result
	logger  *slog.Logger

	exited atomic.Bool
}

// New builds a Scavenger: it applies Builder options, substitutes no-op
// components for disabled features, instantiates documented defaults for
// anything left unset, spawns the image stage and hunting stage each on
// their own goroutine, and blocks until the first result is available (or
// the pipeline finishes having produced none) before returning. This
// guarantees the returned Scavenger is always in a valid, query-ready
// state.
func New(opts ...Option) (*Scavenger, error) {
	b := &Builder{
		imageBufferSize:   DefaultImageBufferSize,
		resultBufferSize:  DefaultResultBufferSize,
		ocrEnabled:        true,
		huntingEnabled:    true,
		resultSinkEnabled: true,
	}
	for _, opt := range opts {
		opt(b)
	}
	if b.logger == nil {
		b.logger = slog.Default()
	}

	extractor, err := resolveExtractor(b)
	if err != nil {
		return nil, err
	}
	flaggers := resolveFlaggers(b)
	resultSink, err := resolveSink(b)
	if err != nil {
		return nil, err
	}
	src, err := resolveSource(b)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithCancel(context.Background())

	imageQueue := make(chan model.ImageRecord, b.imageBufferSize)
	resultQueue := make(chan model.Result, b.resultBufferSize)
	sourceStatus := &SourceStatus{}
	huntStatus := &HuntStatus{}

	img := &imageStage{src: src, extractor: extractor, out: imageQueue, status: sourceStatus, logger: b.logger}
	hunt := &huntingStage{flaggers: flaggers, in: imageQueue, out: resultQueue, status: huntStatus, logger: b.logger}

	go img.run(ctx)
	go hunt.run(ctx)

	sc := &Scavenger{
		ctx:          ctx,
		cancel:       cancel,
		resultQueue:  resultQueue,
		sourceStatus: sourceStatus,
		huntStatus:   huntStatus,
		src:          src,
		sink:         resultSink,
		logger:       b.logger,
	}

	select {
	case r, ok := <-resultQueue:
		if ok {
			sc.current = r
			if err := sc.sink.Add(r); err != nil {
				sc.logger.Warn("scavenger: failed to add initial result to sink", "error", err)
			}
		}
	case <-ctx.Done():
	}

	return sc, nil
}

func resolveExtractor(b *Builder) (ocr.Extractor, error) {
	if !b.ocrEnabled {
		return ocr.NoOp{}, nil
	}
	if b.textExtractor != nil {
		return b.textExtractor, nil
	}
	return ocr.NewTesseract(ocr.WithLogger(b.logger)), nil
}

func resolveFlaggers(b *Builder) flagger.Set {
	if !b.huntingEnabled {
		return flagger.DisabledFactory{}.InitializedFlaggers()
	}
	if b.flaggerFactory != nil {
		return b.flaggerFactory.InitializedFlaggers()
	}
	return flagger.DefaultFactory{}.InitializedFlaggers()
}

func resolveSink(b *Builder) (sink.Sink, error) {
	if !b.resultSinkEnabled {
		return sink.NoOp{}, nil
	}
	if b.resultSink != nil {
		return b.resultSink, nil
	}
	s, err := sink.NewAbbreviatedCSVSink(DefaultCSVPath, DefaultImagesDir, b.logger)
	if err != nil {
		return nil, fmt.Errorf("scavenger: building default result sink: %w", err)
	}
	return s, nil
}

func resolveSource(b *Builder) (source.Source, error) {
	if b.source != nil {
		return b.source, nil
	}
	s, err := source.NewRemote(source.RemoteConfig{Logger: b.logger})
	if err != nil {
		return nil, fmt.Errorf("scavenger: building default source: %w", err)
	}
	return s, nil
}

// HasNextResult reports whether the result queue is non-empty. Non-blocking.
func (sc *Scavenger) HasNextResult() bool {
	return len(sc.resultQueue) > 0
}

// LoadNextResult pops the next result (non-blocking), adopts it as the
// current result, and forwards it to the sink. Returns ErrNoResultReady if
// the queue was empty; callers are expected to gate calls with
// HasNextResult.
func (sc *Scavenger) LoadNextResult() error {
	select {
	case r, ok := <-sc.resultQueue:
		if !ok {
			return ErrNoResultReady
		}
		sc.current = r
		if err := sc.sink.Add(r); err != nil {
			sc.logger.Warn("scavenger: failed to add result to sink", "image_id", r.ImageID, "error", err)
		}
		return nil
	default:
		return ErrNoResultReady
	}
}

// IsFinished reports whether the pipeline has nothing left to deliver: the
// result queue is empty and both stages have exited.
func (sc *Scavenger) IsFinished() bool {
	return len(sc.resultQueue) == 0 && sc.sourceStatus.Done() && sc.huntStatus.Done()
}

// ImagesProcessed reports how many images the hunting stage has evaluated
// so far, flagged or not. Useful for run summaries that want a total
// distinct from the flagged-only result count.
func (sc *Scavenger) ImagesProcessed() int64 {
	return sc.huntStatus.Evaluated()
}

// ResultImageID returns the current result's image identifier.
func (sc *Scavenger) ResultImageID() string { return sc.current.ImageID }

// ResultImageContent returns a defensive copy of the current result's image.
func (sc *Scavenger) ResultImageContent() model.Raster { return sc.current.ContentCopy() }

// ResultImageText returns the current result's extracted OCR text.
func (sc *Scavenger) ResultImageText() string { return sc.current.Text }

// ResultAuthor returns the current result's flagging module name.
func (sc *Scavenger) ResultAuthor() string { return sc.current.Author }

// ResultDetails returns the current result's human-readable justification.
func (sc *Scavenger) ResultDetails() string { return sc.current.Details }

// ResultData returns the current result in full.
func (sc *Scavenger) ResultData() model.Result { return sc.current }

// PrintResults renders the sink's stored results.
func (sc *Scavenger) PrintResults() {
	sc.sink.Print()
}

// Exit cancels both stages and closes the sink immediately, without
// waiting for in-flight work to complete. It does not terminate the host
// process. Idempotent.
func (sc *Scavenger) Exit() {
	if sc.exited.Swap(true) {
		return
	}
	sc.cancel()
	sc.src.Shutdown()
	if err := sc.sink.Close(); err != nil {
		sc.logger.Warn("scavenger: error closing sink", "error", err)
	}
}

// PrintResultsAndExit prints the sink's results, then exits.
func (sc *Scavenger) PrintResultsAndExit() {
	sc.PrintResults()
	sc.Exit()
}
