package sink

import (
	"fmt"

	"github.com/lemon-sec/scavenger/internal/model"
)

// DisabledNotice is the fixed message NoOp prints in place of a summary.
const DisabledNotice = "result sink disabled: no results were persisted"

// NoOp discards every result added to it. Substituted when the result sink
// is disabled.
type NoOp struct{}

// Add implements Sink. Always succeeds, does nothing.
func (NoOp) Add(model.Result) error {
	return nil
}

// Print implements Sink.
func (NoOp) Print() {
	fmt.Println(DisabledNotice)
}

// Close implements Sink.
func (NoOp) Close() error {
	return nil
}

var _ Sink = NoOp{}
