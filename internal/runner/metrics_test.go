package runner

import (
	"testing"
	"time"

	"annobench/internal/stage"
	"annobench/internal/verify"
)

func passedOutcome(kind stage.Kind) stage.Outcome {
	return stage.Outcome{StageID: string(kind), Kind: kind, Passed: true}
}

func failedOutcome(kind stage.Kind) stage.Outcome {
	return stage.Outcome{StageID: string(kind), Kind: kind, Passed: false, Diagnostics: []string{"boom"}}
}

// TestAggregatePerAgent verifies counts and percentage rates.
func TestAggregatePerAgent(t *testing.T) {
	agents := []AgentInfo{{ID: "alpha"}, {ID: "beta"}}
	records := []verify.RunRecord{
		{
			AgentName:    "alpha",
			UnitID:       "Calculator",
			FinalSuccess: true,
			Attempts: []verify.Attempt{{
				Index: 1,
				StageOutcomes: []stage.Outcome{
					passedOutcome(stage.KindCompile),
					passedOutcome(stage.KindStaticAnalysis),
					passedOutcome(stage.KindFormalVerification),
				},
			}},
			WallClockDuration: 4 * time.Second,
		},
		{
			AgentName: "alpha",
			UnitID:    "Stack",
			Attempts: []verify.Attempt{
				{Index: 1, StageOutcomes: []stage.Outcome{
					failedOutcome(stage.KindCompile),
					failedOutcome(stage.KindStaticAnalysis),
					failedOutcome(stage.KindFormalVerification),
				}},
				{Index: 2, StageOutcomes: []stage.Outcome{
					passedOutcome(stage.KindCompile),
					failedOutcome(stage.KindStaticAnalysis),
					failedOutcome(stage.KindFormalVerification),
				}},
			},
			WallClockDuration: 6 * time.Second,
		},
		{
			AgentName: "beta",
			UnitID:    "Calculator",
			Attempts: []verify.Attempt{{
				Index:             1,
				GenerationFailure: "model unreachable",
			}},
			WallClockDuration: time.Second,
		},
	}

	metrics := Aggregate(agents, records)
	if len(metrics) != 2 {
		t.Fatalf("expected 2 agents, got %d", len(metrics))
	}

	alpha := metrics[0]
	if alpha.AgentName != "alpha" {
		t.Fatalf("expected sorted metrics, got %q first", alpha.AgentName)
	}
	if alpha.UnitsEvaluated != 2 || alpha.Successes != 1 {
		t.Fatalf("unexpected alpha counts: %+v", alpha)
	}
	if alpha.SuccessRate != 50 {
		t.Fatalf("expected 50%% success, got %v", alpha.SuccessRate)
	}
	if alpha.CompilePasses != 2 || alpha.CompilePassRate != 100 {
		t.Fatalf("compile should count any-attempt passes: %+v", alpha)
	}
	if alpha.AnalysisPasses != 1 || alpha.AnalysisPassRate != 50 {
		t.Fatalf("unexpected analysis metrics: %+v", alpha)
	}
	if alpha.VerificationPassRate != 50 {
		t.Fatalf("unexpected verification rate: %v", alpha.VerificationPassRate)
	}
	if alpha.TotalRetries != 3 || alpha.MeanRetries != 1.5 {
		t.Fatalf("unexpected retries: %+v", alpha)
	}
	if alpha.MeanWallTimeSeconds != 5 {
		t.Fatalf("unexpected mean wall time: %v", alpha.MeanWallTimeSeconds)
	}

	beta := metrics[1]
	if beta.GenerationFailures != 1 || beta.SuccessRate != 0 {
		t.Fatalf("unexpected beta metrics: %+v", beta)
	}
}

// TestAggregateZeroUnits verifies an agent with no evaluated units gets
// zero rates instead of a division failure.
func TestAggregateZeroUnits(t *testing.T) {
	metrics := Aggregate([]AgentInfo{{ID: "idle"}}, nil)
	if len(metrics) != 1 {
		t.Fatalf("expected 1 agent, got %d", len(metrics))
	}
	m := metrics[0]
	if m.UnitsEvaluated != 0 {
		t.Fatalf("expected zero units, got %d", m.UnitsEvaluated)
	}
	if m.SuccessRate != 0 || m.CompilePassRate != 0 || m.AnalysisPassRate != 0 || m.VerificationPassRate != 0 {
		t.Fatalf("expected zero rates, got %+v", m)
	}
	if m.MeanRetries != 0 || m.MeanWallTimeSeconds != 0 {
		t.Fatalf("expected zero means, got %+v", m)
	}
}

// TestAggregateCountsExecErrors verifies stage execution errors are
// tallied across attempts.
func TestAggregateCountsExecErrors(t *testing.T) {
	records := []verify.RunRecord{{
		AgentName: "alpha",
		UnitID:    "Calculator",
		Attempts: []verify.Attempt{
			{Index: 1, StageOutcomes: []stage.Outcome{
				{StageID: "compile", Kind: stage.KindCompile, ExecError: "binary not found"},
			}},
			{Index: 2, StageOutcomes: []stage.Outcome{
				{StageID: "compile", Kind: stage.KindCompile, ExecError: "timed out"},
			}},
		},
	}}
	metrics := Aggregate([]AgentInfo{{ID: "alpha"}}, records)
	if metrics[0].StageExecutionErrors != 2 {
		t.Fatalf("expected 2 exec errors, got %d", metrics[0].StageExecutionErrors)
	}
}
