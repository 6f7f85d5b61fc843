package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"annobench/internal/runner"
)

// SaveResults writes a run, its records, attempts, and stage outcomes
// in a single transaction. Re-saving the same run ID is rejected by the
// primary key, so callers can treat runs as append-only.
func SaveResults(ctx context.Context, db *sql.DB, results runner.Results) error {
	if ctx == nil {
		return errors.New("store: context is nil")
	}
	if db == nil {
		return errors.New("store: db is nil")
	}
	if results.RunID == "" {
		return errors.New("store: run ID is empty")
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(
		ctx,
		`INSERT INTO runs (run_id, started_at, finished_at, agent_count, unit_count)
		 VALUES (?, ?, ?, ?, ?)`,
		results.RunID,
		results.StartedAt,
		results.FinishedAt,
		len(results.Agents),
		len(results.Units),
	); err != nil {
		return fmt.Errorf("insert run: %w", err)
	}

	for _, record := range results.Records {
		recordID := uuid.NewString()
		if _, err := tx.ExecContext(
			ctx,
			`INSERT INTO records (
			   record_id, run_id, agent_name, unit_id, final_success,
			   extracted_identifier, wall_clock_seconds, note
			 ) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
			recordID,
			results.RunID,
			record.AgentName,
			record.UnitID,
			record.FinalSuccess,
			record.ExtractedIdentifier,
			record.WallClockDuration.Seconds(),
			record.Note,
		); err != nil {
			return fmt.Errorf("insert record %s/%s: %w", record.AgentName, record.UnitID, err)
		}

		for _, attempt := range record.Attempts {
			attemptID := uuid.NewString()
			if _, err := tx.ExecContext(
				ctx,
				`INSERT INTO attempts (attempt_id, record_id, attempt_index, generation_failure, feedback)
				 VALUES (?, ?, ?, ?, ?)`,
				attemptID,
				recordID,
				attempt.Index,
				attempt.GenerationFailure,
				attempt.Feedback,
			); err != nil {
				return fmt.Errorf("insert attempt %d: %w", attempt.Index, err)
			}
			for _, outcome := range attempt.StageOutcomes {
				if _, err := tx.ExecContext(
					ctx,
					`INSERT INTO stage_outcomes (outcome_id, attempt_id, stage_id, stage_kind, passed, diagnostics, exec_error)
					 VALUES (?, ?, ?, ?, ?, ?, ?)`,
					uuid.NewString(),
					attemptID,
					outcome.StageID,
					string(outcome.Kind),
					outcome.Passed,
					strings.Join(outcome.Diagnostics, "\n"),
					outcome.ExecError,
				); err != nil {
					return fmt.Errorf("insert stage outcome %s: %w", outcome.StageID, err)
				}
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}
	return nil
}
