// Package source implements the Source abstraction: the pluggable provider
// of (id, image) pairs at the ingress of the scavenger pipeline.
package source

import (
	"errors"

	"github.com/lemon-sec/scavenger/internal/model"
)

// ErrNoImageAvailable is returned by Next when no further image is or will
// become available. Implementations of Source use this exact sentinel
// (directly or wrapped with fmt.Errorf's %w) so the image stage can detect
// exhaustion with errors.Is.
var ErrNoImageAvailable = errors.New("source: no image available")

// Source produces a lazy, possibly-finite sequence of (id, image) pairs.
// A Source is initialized with a valid first image already loaded, so
// CurrentID/CurrentContent are meaningful before any call to Next.
// Implementations are not required to be safe for concurrent use; the
// pipeline confines a Source to a single goroutine for its lifetime.
type Source interface {
	// Next advances to the next image. On failure to produce any further
	// image it returns an error satisfying errors.Is(err, ErrNoImageAvailable).
	Next() error

	// CurrentID returns the identifier of the most recently loaded image.
	CurrentID() string

	// CurrentContent returns the raster of the most recently loaded image.
	CurrentContent() model.Raster

	// Shutdown releases background resources. Idempotent.
	Shutdown()
}
