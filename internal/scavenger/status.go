package scavenger

import "sync/atomic"

// SourceStatus reports whether the image stage has finished pulling from
// its Source (exhausted or cancelled). Safe for concurrent reads from the
// client thread while the image stage writes it once, at exit.
type SourceStatus struct {
	done atomic.Bool
}

// Done reports whether the image stage has exited.
func (s *SourceStatus) Done() bool {
	return s.done.Load()
}

func (s *SourceStatus) markDone() {
	s.done.Store(true)
}

// HuntStatus reports whether the hunting stage has finished evaluating
// every image handed to it, and how many it has evaluated so far. Safe
// for concurrent reads from the client thread while the hunting stage
// writes it, once at exit for done and once per image for evaluated.
type HuntStatus struct {
	done      atomic.Bool
	evaluated atomic.Int64
}

// Done reports whether the hunting stage has exited.
func (h *HuntStatus) Done() bool {
	return h.done.Load()
}

func (h *HuntStatus) markDone() {
	h.done.Store(true)
}

// Evaluated reports how many images the hunting stage has evaluated so
// far, flagged or not.
func (h *HuntStatus) Evaluated() int64 {
	return h.evaluated.Load()
}

func (h *HuntStatus) markEvaluated() {
	h.evaluated.Add(1)
}
