package scavenger

import (
	"context"
	"errors"
	"log/slog"

	"github.com/lemon-sec/scavenger/internal/model"
	"github.com/lemon-sec/scavenger/internal/ocr"
	"github.com/lemon-sec/scavenger/internal/source"
)

// imageStage owns the Source and the TextExtractor and runs on exactly one
// goroutine for the pipeline's lifetime: neither component needs to be
// safe for concurrent use.
//
// It closes out when it exits, whether from source exhaustion or
// cancellation; the hunting stage observes that close instead of polling
// an "image queue empty and source done" condition, which is the idiomatic
// Go rendering of the same termination signal.
type imageStage struct {
	src       source.Source
	extractor ocr.Extractor
	out       chan<- model.ImageRecord
	status    *SourceStatus
	logger    *slog.Logger
}

func (s *imageStage) run(ctx context.Context) {
	defer close(s.out)
	defer s.status.markDone()

	for {
		id := s.src.CurrentID()
		content := s.src.CurrentContent()
		text := s.extractor.Extract(content.Copy())
		record := model.ImageRecord{ID: id, Content: content, Text: text}

		select {
		case s.out <- record:
		case <-ctx.Done():
			return
		}

		if err := s.src.Next(); err != nil {
			if !errors.Is(err, source.ErrNoImageAvailable) {
				s.logger.Warn("image stage: source returned an unexpected error, stopping", "error", err)
			}
			return
		}

		select {
		case <-ctx.Done():
			return
		default:
		}
	}
}
