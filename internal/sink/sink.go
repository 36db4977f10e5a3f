// Package sink implements the ResultSink abstraction: the pluggable
// consumer of Result records at the egress of the scavenger pipeline.
package sink

import "github.com/lemon-sec/scavenger/internal/model"

// Sink consumes Result records. Add must tolerate being called repeatedly
// until Close; Close is idempotent and releases any held file handles.
// Behavior of Add/Print after Close is undefined.
type Sink interface {
	Add(result model.Result) error
	Print()
	Close() error
}
