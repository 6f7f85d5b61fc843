package runner

import (
	"time"

	"annobench/internal/verify"
)

// PairEventType identifies a pair status update for observers.
type PairEventType string

const (
	// PairQueued marks a pair known but not yet started.
	PairQueued PairEventType = "queued"
	// PairGenerating marks an attempt waiting on the generation backend.
	PairGenerating PairEventType = "generating"
	// PairGenerationFailed marks a generation failure consuming an attempt.
	PairGenerationFailed PairEventType = "generation_failed"
	// PairChecking marks stage execution in progress.
	PairChecking PairEventType = "checking"
	// PairStagePassed marks one stage verdict of pass.
	PairStagePassed PairEventType = "stage_passed"
	// PairStageFailed marks one stage verdict of fail or exec error.
	PairStageFailed PairEventType = "stage_failed"
	// PairRetrying marks a failed attempt with retries remaining.
	PairRetrying PairEventType = "retrying"
	// PairPassed marks a sealed successful record.
	PairPassed PairEventType = "passed"
	// PairFailed marks a sealed failed record.
	PairFailed PairEventType = "failed"
)

// PairEvent carries a single status update for one (agent, unit) pair.
type PairEvent struct {
	AgentID     string
	UnitID      string
	Type        PairEventType
	Attempt     int
	MaxAttempts int
	StageID     string
	Error       string
	EmittedAt   time.Time
}

// RunObserver receives run lifecycle events for UI or logging.
type RunObserver interface {
	// OnRunStart signals the start of a run.
	OnRunStart(runID string, totalPairs int)
	// OnPairEvent delivers a pair status update.
	OnPairEvent(event PairEvent)
	// OnPairEnd signals a sealed record for a pair.
	OnPairEnd(record verify.RunRecord)
	// OnRunEnd signals run completion.
	OnRunEnd(results Results)
}

// CombineObservers fans every event out to each non-nil observer, in
// the order given.
func CombineObservers(observers ...RunObserver) RunObserver {
	var kept []RunObserver
	for _, observer := range observers {
		if observer != nil {
			kept = append(kept, observer)
		}
	}
	switch len(kept) {
	case 0:
		return noopObserver{}
	case 1:
		return kept[0]
	default:
		return multiObserver(kept)
	}
}

type multiObserver []RunObserver

func (m multiObserver) OnRunStart(runID string, totalPairs int) {
	for _, observer := range m {
		observer.OnRunStart(runID, totalPairs)
	}
}

func (m multiObserver) OnPairEvent(event PairEvent) {
	for _, observer := range m {
		observer.OnPairEvent(event)
	}
}

func (m multiObserver) OnPairEnd(record verify.RunRecord) {
	for _, observer := range m {
		observer.OnPairEnd(record)
	}
}

func (m multiObserver) OnRunEnd(results Results) {
	for _, observer := range m {
		observer.OnRunEnd(results)
	}
}
