package report

import (
	"testing"

	"github.com/lemon-sec/scavenger/internal/model"
)

func TestRecorderAccumulates(t *testing.T) {
	t.Parallel()

	rec := NewRecorder("https://prnt.sc")
	rec.ObserveImage()
	rec.ObserveImage()
	rec.ObserveResult(model.Result{Author: "KEYWORD", Details: "Detected keyword: \"password\"", ImageID: "abc123"})
	rec.ObserveImage()
	rec.ObserveResult(model.Result{Author: "PATTERN", Details: "matched with regex", ImageID: "def456"})

	summary := rec.Finish()

	if summary.GalleryBaseURL != "https://prnt.sc" {
		t.Errorf("got %q, want https://prnt.sc", summary.GalleryBaseURL)
	}
	if summary.ImagesProcessed != 3 {
		t.Errorf("got %d, want 3", summary.ImagesProcessed)
	}
	if summary.TotalFindings() != 2 {
		t.Errorf("got %d, want 2", summary.TotalFindings())
	}
	if summary.CountsByAuthor["KEYWORD"] != 1 || summary.CountsByAuthor["PATTERN"] != 1 {
		t.Errorf("unexpected counts: %+v", summary.CountsByAuthor)
	}
	if summary.FinishedAt.Before(summary.StartedAt) {
		t.Errorf("FinishedAt %v before StartedAt %v", summary.FinishedAt, summary.StartedAt)
	}
}

func TestRecorderSetImagesProcessedOverridesAccumulated(t *testing.T) {
	t.Parallel()

	rec := NewRecorder("https://prnt.sc")
	rec.ObserveImage()
	rec.ObserveImage()
	rec.SetImagesProcessed(42)

	summary := rec.Finish()
	if summary.ImagesProcessed != 42 {
		t.Errorf("got %d, want 42", summary.ImagesProcessed)
	}
}

func TestRecorderNoFindings(t *testing.T) {
	t.Parallel()

	rec := NewRecorder("https://prnt.sc")
	rec.ObserveImage()
	summary := rec.Finish()

	if summary.TotalFindings() != 0 {
		t.Errorf("got %d, want 0", summary.TotalFindings())
	}
	if len(summary.CountsByAuthor) != 0 {
		t.Errorf("expected empty counts, got %+v", summary.CountsByAuthor)
	}
}
