package live

import (
	"fmt"

	"annobench/internal/runner"
)

// Reduce applies a pair event to the UI state.
func Reduce(state State, event runner.PairEvent) State {
	state = ensureRow(state, event)
	state = applyPairEvent(state, event)
	state.Counts = recount(state.Rows)
	if message := formatLastEvent(event); message != "" {
		state.LastEvent = message
	}
	return state
}

// rowIndex finds the row for an (agent, unit) pair, or -1.
func rowIndex(rows []PairRow, agentID, unitID string) int {
	for i, row := range rows {
		if row.AgentID == agentID && row.UnitID == unitID {
			return i
		}
	}
	return -1
}

// ensureRow appends a row for an unseen pair in arrival order.
func ensureRow(state State, event runner.PairEvent) State {
	if event.AgentID == "" || event.UnitID == "" {
		return state
	}
	if rowIndex(state.Rows, event.AgentID, event.UnitID) >= 0 {
		return state
	}
	state.Rows = append(state.Rows, PairRow{
		AgentID: event.AgentID,
		UnitID:  event.UnitID,
		Status:  runner.PairQueued,
	})
	return state
}

// applyPairEvent updates a row with the given event.
func applyPairEvent(state State, event runner.PairEvent) State {
	index := rowIndex(state.Rows, event.AgentID, event.UnitID)
	if index < 0 {
		return state
	}
	row := state.Rows[index]
	if event.Attempt > 0 {
		row.Attempt = event.Attempt
	}
	if event.MaxAttempts > 0 {
		row.MaxAttempts = event.MaxAttempts
	}
	switch event.Type {
	case runner.PairGenerating:
		row.Status = event.Type
		if row.StartedAt.IsZero() {
			row.StartedAt = event.EmittedAt
		}
	case runner.PairStagePassed, runner.PairStageFailed:
		row.Status = runner.PairChecking
		row.StageID = event.StageID
		row.Error = event.Error
	case runner.PairPassed, runner.PairFailed:
		row.Status = event.Type
		row.StageID = ""
		if !event.EmittedAt.IsZero() {
			row.FinishedAt = event.EmittedAt
		}
	default:
		row.Status = event.Type
		row.Error = event.Error
	}
	state.Rows[index] = row
	return state
}

// isTerminalStatus reports whether a status is final.
func isTerminalStatus(status runner.PairEventType) bool {
	return status == runner.PairPassed || status == runner.PairFailed
}

// recount recomputes status counts for the current rows.
func recount(rows []PairRow) StatusCounts {
	var counts StatusCounts
	for _, row := range rows {
		switch row.Status {
		case runner.PairQueued:
			counts.Queued++
		case runner.PairGenerating, runner.PairGenerationFailed:
			counts.Generating++
		case runner.PairChecking:
			counts.Checking++
		case runner.PairRetrying:
			counts.Retrying++
		case runner.PairPassed:
			counts.Passed++
		case runner.PairFailed:
			counts.Failed++
		}
	}
	return counts
}

// formatLastEvent creates a short footer message for the event.
func formatLastEvent(event runner.PairEvent) string {
	pair := event.AgentID + "/" + event.UnitID
	switch event.Type {
	case runner.PairGenerationFailed:
		return fmt.Sprintf("%s attempt %d generation failed: %s", pair, event.Attempt, event.Error)
	case runner.PairStageFailed:
		if event.Error != "" {
			return fmt.Sprintf("%s stage %s execution error", pair, event.StageID)
		}
		return fmt.Sprintf("%s stage %s failed", pair, event.StageID)
	case runner.PairRetrying:
		return fmt.Sprintf("%s retrying (attempt %d/%d)", pair, event.Attempt, event.MaxAttempts)
	case runner.PairPassed:
		return fmt.Sprintf("%s passed on attempt %d", pair, event.Attempt)
	case runner.PairFailed:
		return fmt.Sprintf("%s failed after %d attempts", pair, event.Attempt)
	}
	return ""
}
