package report

import (
	"time"

	"github.com/lemon-sec/scavenger/internal/model"
)

// Recorder accumulates a run's outcome incrementally as results are drained,
// so the caller doesn't have to keep its own slice of every model.Result
// just to build a Summary at the end.
type Recorder struct {
	galleryBaseURL  string
	startedAt       time.Time
	imagesProcessed int
	countsByAuthor  map[string]int
	findings        []Finding
}

// NewRecorder starts a Recorder for a run against the given gallery,
// stamping StartedAt as now.
func NewRecorder(galleryBaseURL string) *Recorder {
	return &Recorder{
		galleryBaseURL: galleryBaseURL,
		startedAt:      time.Now(),
		countsByAuthor: make(map[string]int),
	}
}

// ObserveImage records that one more image was processed by the pipeline,
// flagged or not.
func (r *Recorder) ObserveImage() {
	r.imagesProcessed++
}

// SetImagesProcessed overrides the accumulated image count with an
// authoritative total, for callers that track it elsewhere (e.g. reading
// it directly off the pipeline) instead of calling ObserveImage per image.
func (r *Recorder) SetImagesProcessed(n int) {
	r.imagesProcessed = n
}

// ObserveResult records one flagged result.
func (r *Recorder) ObserveResult(result model.Result) {
	r.countsByAuthor[result.Author]++
	r.findings = append(r.findings, Finding{
		ImageID: result.ImageID,
		Author:  result.Author,
		Details: result.Details,
	})
}

// Finish stamps FinishedAt as now and returns the completed Summary.
func (r *Recorder) Finish() *Summary {
	return &Summary{
		GalleryBaseURL:  r.galleryBaseURL,
		StartedAt:       r.startedAt,
		FinishedAt:      time.Now(),
		ImagesProcessed: r.imagesProcessed,
		CountsByAuthor:  r.countsByAuthor,
		Findings:        r.findings,
	}
}
