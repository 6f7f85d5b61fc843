package runner

import (
	"time"

	"annobench/internal/verify"
)

type Results struct {
	RunID      string             `json:"run_id"`
	StartedAt  time.Time          `json:"started_at"`
	FinishedAt time.Time          `json:"finished_at"`
	Agents     []AgentInfo        `json:"agents"`
	Units      []string           `json:"units"`
	Records    []verify.RunRecord `json:"records"`
	Metrics    []AgentMetrics     `json:"metrics"`
}

type AgentInfo struct {
	ID          string  `json:"id"`
	Provider    string  `json:"provider"`
	Model       string  `json:"model"`
	Temperature float64 `json:"temperature"`
	MaxAttempts int     `json:"max_attempts"`
}

// AgentMetrics is the per-agent reduction over all of its run records.
// Rates are percentages over the units the agent was evaluated on.
type AgentMetrics struct {
	AgentName            string  `json:"agent_name"`
	UnitsEvaluated       int     `json:"units_evaluated"`
	Successes            int     `json:"successes"`
	SuccessRate          float64 `json:"success_rate"`
	CompilePasses        int     `json:"compile_passes"`
	CompilePassRate      float64 `json:"compile_pass_rate"`
	AnalysisPasses       int     `json:"analysis_passes"`
	AnalysisPassRate     float64 `json:"analysis_pass_rate"`
	VerificationPasses   int     `json:"verification_passes"`
	VerificationPassRate float64 `json:"verification_pass_rate"`
	GenerationFailures   int     `json:"generation_failures"`
	StageExecutionErrors int     `json:"stage_execution_errors"`
	TotalRetries         int     `json:"total_retries"`
	MeanRetries          float64 `json:"mean_retries"`
	TotalWallTimeSeconds float64 `json:"total_wall_time_seconds"`
	MeanWallTimeSeconds  float64 `json:"mean_wall_time_seconds"`
}
