package sink

import "github.com/lemon-sec/scavenger/internal/model"

// MultiSink fans a Result out to every wrapped Sink, in order. Add and
// Close report the first error encountered but still attempt every sink,
// so one backend's failure does not stop another from receiving results.
type MultiSink struct {
	sinks []Sink
}

// NewMultiSink combines several sinks into one.
func NewMultiSink(sinks ...Sink) *MultiSink {
	return &MultiSink{sinks: sinks}
}

// Add implements Sink.
func (m *MultiSink) Add(result model.Result) error {
	var firstErr error
	for _, s := range m.sinks {
		if err := s.Add(result); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

// Print implements Sink.
func (m *MultiSink) Print() {
	for _, s := range m.sinks {
		s.Print()
	}
}

// Close implements Sink.
func (m *MultiSink) Close() error {
	var firstErr error
	for _, s := range m.sinks {
		if err := s.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

var _ Sink = (*MultiSink)(nil)
