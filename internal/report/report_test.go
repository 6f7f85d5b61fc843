package report

import (
	"strings"
	"testing"
	"time"

	"annobench/internal/runner"
	"annobench/internal/store"
	"annobench/internal/verify"
)

func sampleRun(runID string) runner.Results {
	return runner.Results{
		RunID:  runID,
		Agents: []runner.AgentInfo{{ID: "alpha"}},
		Units:  []string{"Calculator"},
		Records: []verify.RunRecord{{
			AgentName:         "alpha",
			UnitID:            "Calculator",
			FinalSuccess:      true,
			Attempts:          []verify.Attempt{{Index: 1}},
			WallClockDuration: 3 * time.Second,
		}},
		Metrics: []runner.AgentMetrics{{
			AgentName:      "alpha",
			UnitsEvaluated: 1,
			Successes:      1,
			SuccessRate:    100,
		}},
	}
}

// TestBuildReportHTML verifies the report includes run and agent data.
func TestBuildReportHTML(t *testing.T) {
	runs := []runner.Results{sampleRun("run-1"), sampleRun("run-2")}
	html := BuildReportHTML(runs)
	for _, token := range []string{"run-1", "run-2", "alpha", "Calculator", "100.00%"} {
		if !strings.Contains(html, token) {
			t.Fatalf("expected report to include %s", token)
		}
	}
	if !strings.Contains(html, "<table") {
		t.Fatalf("expected table in report")
	}
}

// TestBuildReportHTMLWithHistory verifies the agent history section is
// rendered only when history rows are present.
func TestBuildReportHTMLWithHistory(t *testing.T) {
	runs := []runner.Results{sampleRun("run-2")}
	history := []store.AgentHistoryRow{
		{RunID: "20260314T090000Z-bbbbbbbbbbbb", AgentName: "alpha", UnitsEvaluated: 2, Successes: 2, SuccessRate: 100},
		{RunID: "20260313T090000Z-aaaaaaaaaaaa", AgentName: "alpha", UnitsEvaluated: 2, Successes: 1, SuccessRate: 50},
	}

	html := BuildReportHTMLWithHistory(runs, history)
	for _, token := range []string{"Agent history", "20260313T090000Z-aaaaaaaaaaaa", "50.00%"} {
		if !strings.Contains(html, token) {
			t.Fatalf("expected report to include %s", token)
		}
	}

	plain := BuildReportHTML(runs)
	if strings.Contains(plain, "Agent history") {
		t.Fatalf("expected no history section without rows")
	}
}

// TestBuildReportHTMLEscapes verifies user-controlled fields are escaped.
func TestBuildReportHTMLEscapes(t *testing.T) {
	run := sampleRun("run-1")
	run.Records[0].Note = "<script>alert(1)</script>"
	html := BuildReportHTML([]runner.Results{run})
	if strings.Contains(html, "<script>") {
		t.Fatalf("expected note to be escaped")
	}
	if !strings.Contains(html, "&lt;script&gt;") {
		t.Fatalf("expected escaped note in report")
	}
}

// TestResolveRunLatestAndByID verifies run resolution under outputDir.
func TestResolveRunLatestAndByID(t *testing.T) {
	root := t.TempDir()
	older := sampleRun("20260313T090000Z-aaaaaaaaaaaa")
	newer := sampleRun("20260314T090000Z-bbbbbbbbbbbb")
	if _, err := runner.WriteRunOutputs(older, root); err != nil {
		t.Fatalf("write outputs: %v", err)
	}
	if _, err := runner.WriteRunOutputs(newer, root); err != nil {
		t.Fatalf("write outputs: %v", err)
	}

	resolved, _, err := ResolveRun(root, "latest")
	if err != nil {
		t.Fatalf("resolve latest: %v", err)
	}
	if resolved.RunID != newer.RunID {
		t.Fatalf("unexpected run id: %s", resolved.RunID)
	}

	resolved, runDir, err := ResolveRun(root, older.RunID)
	if err != nil {
		t.Fatalf("resolve by id: %v", err)
	}
	if resolved.RunID != older.RunID || !strings.HasSuffix(runDir, older.RunID) {
		t.Fatalf("unexpected resolution: %s in %s", resolved.RunID, runDir)
	}

	if _, _, err := ResolveRun(root, "missing-run"); err == nil {
		t.Fatalf("expected error for missing run")
	}
}

// TestFormatHelpers covers rate and verdict formatting.
func TestFormatHelpers(t *testing.T) {
	if got := formatRate(66.666); got != "66.67%" {
		t.Fatalf("unexpected rate: %q", got)
	}
	if got := formatVerdict(true); got != "pass" {
		t.Fatalf("unexpected verdict: %q", got)
	}
	if got := formatVerdict(false); got != "fail" {
		t.Fatalf("unexpected verdict: %q", got)
	}
	if got := formatTimestamp(time.Time{}); got != "-" {
		t.Fatalf("unexpected zero timestamp: %q", got)
	}
}
