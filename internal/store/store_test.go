package store_test

import (
	"context"
	"database/sql"
	"os"
	"path/filepath"
	"testing"
	"time"

	"annobench/internal/runner"
	"annobench/internal/stage"
	"annobench/internal/store"
	"annobench/internal/verify"
)

const testTimeout = 5 * time.Second

// openTestDB opens an in-memory DuckDB instance with the schema applied.
func openTestDB(t *testing.T) (*sql.DB, context.Context) {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), testTimeout)
	t.Cleanup(cancel)
	db, err := store.Open("")
	if err != nil {
		t.Fatalf("open duckdb: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	return db, ctx
}

// queryInt returns a single integer value from the database.
func queryInt(t *testing.T, ctx context.Context, db *sql.DB, query string, args ...any) int {
	t.Helper()
	var out int
	if err := db.QueryRowContext(ctx, query, args...).Scan(&out); err != nil {
		t.Fatalf("query int failed: %v", err)
	}
	return out
}

func sampleResults(runID string, success bool) runner.Results {
	return runner.Results{
		RunID:      runID,
		StartedAt:  time.Date(2026, 3, 14, 9, 0, 0, 0, time.UTC),
		FinishedAt: time.Date(2026, 3, 14, 9, 5, 0, 0, time.UTC),
		Agents:     []runner.AgentInfo{{ID: "alpha", Provider: "ollama", Model: "m"}},
		Units:      []string{"Calculator"},
		Records: []verify.RunRecord{{
			AgentName:           "alpha",
			UnitID:              "Calculator",
			FinalSuccess:        success,
			ExtractedIdentifier: "CalculatorTemp",
			WallClockDuration:   42 * time.Second,
			Attempts: []verify.Attempt{{
				Index: 1,
				StageOutcomes: []stage.Outcome{{
					StageID:     "compile",
					Kind:        stage.KindCompile,
					Passed:      success,
					Diagnostics: []string{"line one", "line two"},
				}},
				Feedback: "Issues found:",
			}},
		}},
	}
}

// TestOpenDefaultCreatesDatabaseFile verifies the per-output-dir
// database is created on first open and reopens with data intact.
func TestOpenDefaultCreatesDatabaseFile(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), testTimeout)
	t.Cleanup(cancel)
	outputDir := filepath.Join(t.TempDir(), "results")

	db, err := store.OpenDefault(outputDir)
	if err != nil {
		t.Fatalf("open default: %v", err)
	}
	if err := store.SaveResults(ctx, db, sampleResults("20260314T090000Z-aaaaaaaaaaaa", true)); err != nil {
		t.Fatalf("save results: %v", err)
	}
	if err := db.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}
	if _, err := os.Stat(filepath.Join(outputDir, store.DefaultDBName)); err != nil {
		t.Fatalf("expected database file: %v", err)
	}

	db, err = store.OpenDefault(outputDir)
	if err != nil {
		t.Fatalf("reopen default: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	if got := queryInt(t, ctx, db, "SELECT COUNT(*) FROM runs"); got != 1 {
		t.Fatalf("expected persisted run after reopen, got %d", got)
	}
}

// TestSchemaObjectsExist verifies tables and the summary view are created.
func TestSchemaObjectsExist(t *testing.T) {
	db, ctx := openTestDB(t)
	for _, table := range []string{"runs", "records", "attempts", "stage_outcomes"} {
		count := queryInt(t, ctx, db, "SELECT COUNT(*) FROM information_schema.tables WHERE table_name = ?", table)
		if count != 1 {
			t.Fatalf("expected table %s to exist", table)
		}
	}
	viewCount := queryInt(t, ctx, db, "SELECT COUNT(*) FROM information_schema.tables WHERE table_name = 'v_agent_success' AND table_type = 'VIEW'")
	if viewCount != 1 {
		t.Fatalf("expected view v_agent_success to exist")
	}
}

// TestSaveResultsRoundTrip verifies the full hierarchy is persisted.
func TestSaveResultsRoundTrip(t *testing.T) {
	db, ctx := openTestDB(t)
	results := sampleResults("20260314T090000Z-aaaaaaaaaaaa", true)
	if err := store.SaveResults(ctx, db, results); err != nil {
		t.Fatalf("save results: %v", err)
	}

	if got := queryInt(t, ctx, db, "SELECT COUNT(*) FROM runs"); got != 1 {
		t.Fatalf("expected 1 run, got %d", got)
	}
	if got := queryInt(t, ctx, db, "SELECT COUNT(*) FROM records WHERE final_success"); got != 1 {
		t.Fatalf("expected 1 successful record, got %d", got)
	}
	if got := queryInt(t, ctx, db, "SELECT COUNT(*) FROM attempts"); got != 1 {
		t.Fatalf("expected 1 attempt, got %d", got)
	}
	if got := queryInt(t, ctx, db, "SELECT COUNT(*) FROM stage_outcomes WHERE stage_kind = 'compile'"); got != 1 {
		t.Fatalf("expected 1 stage outcome, got %d", got)
	}

	var diagnostics string
	if err := db.QueryRowContext(ctx, "SELECT diagnostics FROM stage_outcomes").Scan(&diagnostics); err != nil {
		t.Fatalf("query diagnostics: %v", err)
	}
	if diagnostics != "line one\nline two" {
		t.Fatalf("unexpected diagnostics: %q", diagnostics)
	}
}

// TestSaveResultsRejectsDuplicateRun verifies runs are append-only.
func TestSaveResultsRejectsDuplicateRun(t *testing.T) {
	db, ctx := openTestDB(t)
	results := sampleResults("20260314T090000Z-aaaaaaaaaaaa", true)
	if err := store.SaveResults(ctx, db, results); err != nil {
		t.Fatalf("first save: %v", err)
	}
	if err := store.SaveResults(ctx, db, results); err == nil {
		t.Fatalf("expected duplicate run error")
	}
	if got := queryInt(t, ctx, db, "SELECT COUNT(*) FROM runs"); got != 1 {
		t.Fatalf("duplicate save must not add rows, got %d", got)
	}
}

// TestAgentHistory verifies per-run summaries come back newest first.
func TestAgentHistory(t *testing.T) {
	db, ctx := openTestDB(t)
	older := sampleResults("20260313T090000Z-aaaaaaaaaaaa", false)
	newer := sampleResults("20260314T090000Z-bbbbbbbbbbbb", true)
	if err := store.SaveResults(ctx, db, older); err != nil {
		t.Fatalf("save older: %v", err)
	}
	if err := store.SaveResults(ctx, db, newer); err != nil {
		t.Fatalf("save newer: %v", err)
	}

	history, err := store.AgentHistory(ctx, db, "alpha")
	if err != nil {
		t.Fatalf("agent history: %v", err)
	}
	if len(history) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(history))
	}
	if history[0].RunID != newer.RunID {
		t.Fatalf("expected newest run first, got %q", history[0].RunID)
	}
	if history[0].SuccessRate != 100 || history[1].SuccessRate != 0 {
		t.Fatalf("unexpected rates: %+v", history)
	}

	empty, err := store.AgentHistory(ctx, db, "nobody")
	if err != nil {
		t.Fatalf("empty history: %v", err)
	}
	if len(empty) != 0 {
		t.Fatalf("expected no rows, got %d", len(empty))
	}
}
