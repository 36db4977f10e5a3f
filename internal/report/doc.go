// Package report provides an optional human-readable summary of a
// completed scavenger run, separate from the per-result CSV/sqlite sinks
// in internal/sink.
package report
