package live

import (
	"time"

	"annobench/internal/runner"
)

// PairRow holds UI state for a single (agent, unit) pair.
type PairRow struct {
	AgentID     string
	UnitID      string
	Status      runner.PairEventType
	Attempt     int
	MaxAttempts int
	StageID     string
	Error       string
	StartedAt   time.Time
	FinishedAt  time.Time
}

// StatusCounts aggregates pair counts by status bucket.
type StatusCounts struct {
	Queued     int
	Generating int
	Checking   int
	Retrying   int
	Passed     int
	Failed     int
}

// Done returns the number of pairs in a terminal state.
func (c StatusCounts) Done() int {
	return c.Passed + c.Failed
}

// State captures the live UI state for one run.
type State struct {
	RunID      string
	TotalPairs int
	StartedAt  time.Time
	LastEvent  string
	Rows       []PairRow
	Counts     StatusCounts
}
