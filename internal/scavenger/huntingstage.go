package scavenger

import (
	"context"
	"log/slog"

	"github.com/lemon-sec/scavenger/internal/flagger"
	"github.com/lemon-sec/scavenger/internal/model"
)

// huntingStage owns the FlaggerSet and runs on exactly one goroutine for
// the pipeline's lifetime.
//
// It exits when in is closed and drained (the image stage is done and
// nothing remains to evaluate) or on cancellation, and closes out on the
// way out so the client-facing pull interface can observe completion the
// same way.
type huntingStage struct {
	flaggers flagger.Set
	in       <-chan model.ImageRecord
	out      chan<- model.Result
	status   *HuntStatus
	logger   *slog.Logger
}

func (s *huntingStage) run(ctx context.Context) {
	defer close(s.out)
	defer s.status.markDone()

	for {
		select {
		case <-ctx.Done():
			return
		case record, ok := <-s.in:
			if !ok {
				return
			}

			s.status.markEvaluated()

			author, comment, found := s.flaggers.Evaluate(record.ID, record.Content, record.Text)
			if !found {
				continue
			}

			result := model.Result{
				Author:  author,
				Details: comment,
				ImageID: record.ID,
				Content: record.Content,
				Text:    record.Text,
			}

			select {
			case s.out <- result:
			case <-ctx.Done():
				return
			}
		}
	}
}
