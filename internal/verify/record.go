// Package verify drives the bounded-retry verification loop for one
// (agent, unit) pair.
package verify

import (
	"time"

	"annobench/internal/stage"
)

// Attempt is one generate-then-validate cycle. Immutable once appended
// to a RunRecord.
type Attempt struct {
	Index             int             `json:"index"`
	CandidateArtifact string          `json:"candidate_artifact,omitempty"`
	GenerationFailure string          `json:"generation_failure,omitempty"`
	StageOutcomes     []stage.Outcome `json:"stage_outcomes"`
	Feedback          string          `json:"feedback,omitempty"`
}

// AllPassed reports whether every stage outcome of the attempt passed.
// False when generation failed and no stages ran.
func (a Attempt) AllPassed() bool {
	if len(a.StageOutcomes) == 0 {
		return false
	}
	for _, outcome := range a.StageOutcomes {
		if !outcome.Passed {
			return false
		}
	}
	return true
}

// RunRecord is the sealed result of evaluating one (agent, unit) pair.
type RunRecord struct {
	AgentName           string        `json:"agent_name"`
	UnitID              string        `json:"unit_id"`
	Attempts            []Attempt     `json:"attempts"`
	FinalSuccess        bool          `json:"final_success"`
	ExtractedIdentifier string        `json:"extracted_identifier,omitempty"`
	WallClockDuration   time.Duration `json:"wall_clock_duration"`
	Note                string        `json:"note,omitempty"`
}

// Retries returns the number of attempts spent on the record.
func (r RunRecord) Retries() int {
	return len(r.Attempts)
}

// StagePassed reports whether any attempt passed the given stage kind.
func (r RunRecord) StagePassed(kind stage.Kind) bool {
	for _, attempt := range r.Attempts {
		for _, outcome := range attempt.StageOutcomes {
			if outcome.Kind == kind && outcome.Passed {
				return true
			}
		}
	}
	return false
}

// GenerationFailed reports whether every attempt failed at generation.
func (r RunRecord) GenerationFailed() bool {
	if len(r.Attempts) == 0 {
		return false
	}
	for _, attempt := range r.Attempts {
		if attempt.GenerationFailure == "" {
			return false
		}
	}
	return true
}
