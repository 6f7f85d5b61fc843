package cli

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"annobench/internal/config"
	"annobench/internal/runner"
	"annobench/internal/spec"
	"annobench/internal/store"
	"annobench/internal/verify"
)

func scaffoldConfig(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	configPath := filepath.Join(dir, DefaultConfigPath)
	if err := config.Scaffold(configPath); err != nil {
		t.Fatalf("scaffold: %v", err)
	}
	return configPath
}

func stubRunBenchmark(t *testing.T, results runner.Results, err error) *runner.RunParams {
	t.Helper()
	original := runBenchmark
	t.Cleanup(func() { runBenchmark = original })
	var captured runner.RunParams
	runBenchmark = func(ctx context.Context, cfg spec.Config, params runner.RunParams) (runner.Results, error) {
		captured = params
		return results, err
	}
	return &captured
}

func cannedResults() runner.Results {
	return runner.Results{
		RunID: "20260314T092653Z-deadbeef0102",
		Records: []verify.RunRecord{{
			AgentName:    "local-llm",
			UnitID:       "Calculator",
			FinalSuccess: true,
			Attempts:     []verify.Attempt{{Index: 1, CandidateArtifact: "public class CalculatorTemp {}"}},
		}},
		Metrics: []runner.AgentMetrics{{AgentName: "local-llm", UnitsEvaluated: 1, Successes: 1, SuccessRate: 100}},
	}
}

// TestRunCommandWritesOutputs verifies the happy path writes results and
// the report, and prints the summary.
func TestRunCommandWritesOutputs(t *testing.T) {
	configPath := scaffoldConfig(t)
	captured := stubRunBenchmark(t, cannedResults(), nil)

	var out, errOut bytes.Buffer
	code := Run([]string{"run", "-config", configPath, "-ui", "plain"}, &out, &errOut)
	if code != ExitOK {
		t.Fatalf("expected exit %d, got %d: %s", ExitOK, code, errOut.String())
	}
	if captured.Observer == nil {
		t.Fatalf("expected the run log observer to be attached")
	}

	output := out.String()
	for _, token := range []string{"Run 20260314T092653Z-deadbeef0102 completed", "local-llm", "100.00%", "Results:", "Report:"} {
		if !strings.Contains(output, token) {
			t.Fatalf("expected %q in output: %s", token, output)
		}
	}

	outputRoot := filepath.Join(filepath.Dir(configPath), "results", "20260314T092653Z-deadbeef0102")
	if _, err := os.Stat(filepath.Join(outputRoot, "results.json")); err != nil {
		t.Fatalf("expected results.json: %v", err)
	}
	report, err := os.ReadFile(filepath.Join(outputRoot, "report.html"))
	if err != nil {
		t.Fatalf("expected report.html: %v", err)
	}
	if !strings.Contains(string(report), "local-llm") {
		t.Fatalf("expected agent in report")
	}
}

// TestRunCommandSavesRunToDefaultDatabase verifies the run is appended
// to the database under the output dir and its history reaches the
// report.
func TestRunCommandSavesRunToDefaultDatabase(t *testing.T) {
	configPath := scaffoldConfig(t)
	stubRunBenchmark(t, cannedResults(), nil)

	var out, errOut bytes.Buffer
	code := Run([]string{"run", "-config", configPath, "-ui", "plain"}, &out, &errOut)
	if code != ExitOK {
		t.Fatalf("expected exit %d, got %d: %s", ExitOK, code, errOut.String())
	}

	outputDir := filepath.Join(filepath.Dir(configPath), "results")
	db, err := store.Open(filepath.Join(outputDir, store.DefaultDBName))
	if err != nil {
		t.Fatalf("open default database: %v", err)
	}
	defer func() { _ = db.Close() }()
	var count int
	if err := db.QueryRowContext(context.Background(), "SELECT COUNT(*) FROM runs").Scan(&count); err != nil {
		t.Fatalf("count runs: %v", err)
	}
	if count != 1 {
		t.Fatalf("expected 1 stored run, got %d", count)
	}

	report, err := os.ReadFile(filepath.Join(outputDir, "20260314T092653Z-deadbeef0102", "report.html"))
	if err != nil {
		t.Fatalf("read report: %v", err)
	}
	if !strings.Contains(string(report), "Agent history") {
		t.Fatalf("expected agent history section in report")
	}
}

// TestRunCommandWritesRunLog verifies the event stream is kept as a
// plain-text log under the run's logs directory.
func TestRunCommandWritesRunLog(t *testing.T) {
	configPath := scaffoldConfig(t)
	results := cannedResults()
	original := runBenchmark
	t.Cleanup(func() { runBenchmark = original })
	runBenchmark = func(ctx context.Context, cfg spec.Config, params runner.RunParams) (runner.Results, error) {
		params.Observer.OnRunStart(results.RunID, 1)
		params.Observer.OnPairEnd(results.Records[0])
		params.Observer.OnRunEnd(results)
		return results, nil
	}

	var out, errOut bytes.Buffer
	code := Run([]string{"run", "-config", configPath, "-ui", "plain"}, &out, &errOut)
	if code != ExitOK {
		t.Fatalf("expected exit %d, got %d: %s", ExitOK, code, errOut.String())
	}

	logPath := filepath.Join(filepath.Dir(configPath), "results", results.RunID, "logs", "run.log")
	payload, err := os.ReadFile(logPath)
	if err != nil {
		t.Fatalf("read run log: %v", err)
	}
	for _, token := range []string{"Run " + results.RunID, "Record agent=local-llm unit=Calculator success=true"} {
		if !strings.Contains(string(payload), token) {
			t.Fatalf("expected %q in run log: %s", token, payload)
		}
	}
	if strings.Contains(out.String(), "Record agent=") {
		t.Fatalf("plain mode must keep event lines out of stdout")
	}
}

// TestRunCommandForwardsSelectorsAndAgent verifies flags and positional
// selectors reach the runner.
func TestRunCommandForwardsSelectorsAndAgent(t *testing.T) {
	configPath := scaffoldConfig(t)
	captured := stubRunBenchmark(t, cannedResults(), nil)

	var out, errOut bytes.Buffer
	code := Run([]string{"run", "-config", configPath, "-ui", "plain", "-agent", "local-llm", "Calculator@local-llm"}, &out, &errOut)
	if code != ExitOK {
		t.Fatalf("expected exit %d, got %d: %s", ExitOK, code, errOut.String())
	}
	if captured.AgentOverride != "local-llm" {
		t.Fatalf("expected agent override, got %q", captured.AgentOverride)
	}
	if len(captured.Selectors) != 1 || captured.Selectors[0].UnitID != "Calculator" {
		t.Fatalf("unexpected selectors: %+v", captured.Selectors)
	}
}

// TestRunCommandRejectsBadSelector verifies selector validation maps to
// a usage error.
func TestRunCommandRejectsBadSelector(t *testing.T) {
	configPath := scaffoldConfig(t)
	stubRunBenchmark(t, cannedResults(), nil)

	var out, errOut bytes.Buffer
	code := Run([]string{"run", "-config", configPath, "-ui", "plain", "@nobody"}, &out, &errOut)
	if code != ExitUsage {
		t.Fatalf("expected exit %d, got %d", ExitUsage, code)
	}
	if !strings.Contains(errOut.String(), "Invalid selectors") {
		t.Fatalf("expected selector error, got %q", errOut.String())
	}
}

// TestRunCommandMissingConfig verifies a missing config file fails.
func TestRunCommandMissingConfig(t *testing.T) {
	var out, errOut bytes.Buffer
	code := Run([]string{"run", "-config", filepath.Join(t.TempDir(), "absent.yml"), "-ui", "plain"}, &out, &errOut)
	if code != ExitError {
		t.Fatalf("expected exit %d, got %d", ExitError, code)
	}
	if !strings.Contains(errOut.String(), "Failed to load config") {
		t.Fatalf("unexpected stderr: %q", errOut.String())
	}
}

// TestValidateCommand verifies validate on a scaffolded config.
func TestValidateCommand(t *testing.T) {
	configPath := scaffoldConfig(t)
	var out, errOut bytes.Buffer
	code := Run([]string{"validate", "-config", configPath}, &out, &errOut)
	if code != ExitOK {
		t.Fatalf("expected exit %d, got %d: %s", ExitOK, code, errOut.String())
	}
	if !strings.Contains(out.String(), "Config OK") {
		t.Fatalf("expected Config OK, got %q", out.String())
	}
}

// TestInitCommand verifies init scaffolds and refuses to overwrite.
func TestInitCommand(t *testing.T) {
	dir := t.TempDir()
	configPath := filepath.Join(dir, DefaultConfigPath)

	var out, errOut bytes.Buffer
	code := Run([]string{"init", "-config", configPath}, &out, &errOut)
	if code != ExitOK {
		t.Fatalf("expected exit %d, got %d: %s", ExitOK, code, errOut.String())
	}
	if _, err := os.Stat(configPath); err != nil {
		t.Fatalf("expected config file: %v", err)
	}
	if _, err := os.Stat(filepath.Join(dir, "testcases", "Calculator.java")); err != nil {
		t.Fatalf("expected sample unit: %v", err)
	}

	errOut.Reset()
	code = Run([]string{"init", "-config", configPath}, &out, &errOut)
	if code != ExitError {
		t.Fatalf("expected overwrite refusal, got %d", code)
	}
}

// TestReportCommand verifies report generation from a written run.
func TestReportCommand(t *testing.T) {
	configPath := scaffoldConfig(t)
	results := cannedResults()
	outputDir := filepath.Join(filepath.Dir(configPath), "results")
	if _, err := runner.WriteRunOutputs(results, outputDir); err != nil {
		t.Fatalf("write outputs: %v", err)
	}

	var out, errOut bytes.Buffer
	code := Run([]string{"report", "-config", configPath, "-run", "latest"}, &out, &errOut)
	if code != ExitOK {
		t.Fatalf("expected exit %d, got %d: %s", ExitOK, code, errOut.String())
	}
	reportPath := filepath.Join(outputDir, results.RunID, "report.html")
	if !strings.Contains(out.String(), reportPath) {
		t.Fatalf("expected report path in output, got %q", out.String())
	}
	if _, err := os.Stat(reportPath); err != nil {
		t.Fatalf("expected report file: %v", err)
	}
}
