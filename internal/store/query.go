package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

// AgentHistoryRow summarizes one agent within one run.
type AgentHistoryRow struct {
	RunID          string
	AgentName      string
	UnitsEvaluated int
	Successes      int
	SuccessRate    float64
}

// AgentHistory returns per-run success summaries for an agent, newest
// run first. Run IDs start with a UTC timestamp so lexical order is
// chronological order.
func AgentHistory(ctx context.Context, db *sql.DB, agentName string) ([]AgentHistoryRow, error) {
	if ctx == nil {
		return nil, errors.New("store: context is nil")
	}
	if db == nil {
		return nil, errors.New("store: db is nil")
	}
	rows, err := db.QueryContext(
		ctx,
		`SELECT run_id, agent_name, units_evaluated, successes, success_rate
		 FROM v_agent_success
		 WHERE agent_name = ?
		 ORDER BY run_id DESC`,
		agentName,
	)
	if err != nil {
		return nil, fmt.Errorf("query agent history: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var out []AgentHistoryRow
	for rows.Next() {
		var row AgentHistoryRow
		if err := rows.Scan(&row.RunID, &row.AgentName, &row.UnitsEvaluated, &row.Successes, &row.SuccessRate); err != nil {
			return nil, fmt.Errorf("scan agent history: %w", err)
		}
		out = append(out, row)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate agent history: %w", err)
	}
	return out, nil
}
