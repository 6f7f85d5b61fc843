// Package live renders run progress as a terminal UI.
package live

import (
	"annobench/internal/runner"
	"annobench/internal/verify"
)

// EventKind identifies the type of live UI event.
type EventKind int

const (
	// EventRunStart signals the start of a run.
	EventRunStart EventKind = iota
	// EventPair delivers a pair status update.
	EventPair
	// EventRecord delivers a sealed pair record.
	EventRecord
	// EventRunEnd signals run completion.
	EventRunEnd
)

// Event carries a UI update payload.
type Event struct {
	Kind       EventKind
	RunID      string
	TotalPairs int
	Pair       runner.PairEvent
	Record     verify.RunRecord
}
