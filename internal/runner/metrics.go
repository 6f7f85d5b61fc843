package runner

import (
	"sort"

	"annobench/internal/stage"
	"annobench/internal/verify"
)

// Aggregate reduces run records into per-agent metrics. Agents with
// zero evaluated units get zeroed metrics rather than a division error.
func Aggregate(agents []AgentInfo, records []verify.RunRecord) []AgentMetrics {
	byAgent := make(map[string]*AgentMetrics, len(agents))
	for _, agent := range agents {
		byAgent[agent.ID] = &AgentMetrics{AgentName: agent.ID}
	}

	for _, record := range records {
		metrics, ok := byAgent[record.AgentName]
		if !ok {
			metrics = &AgentMetrics{AgentName: record.AgentName}
			byAgent[record.AgentName] = metrics
		}
		metrics.UnitsEvaluated++
		if record.FinalSuccess {
			metrics.Successes++
		}
		if record.StagePassed(stage.KindCompile) {
			metrics.CompilePasses++
		}
		if record.StagePassed(stage.KindStaticAnalysis) {
			metrics.AnalysisPasses++
		}
		if record.StagePassed(stage.KindFormalVerification) {
			metrics.VerificationPasses++
		}
		metrics.TotalRetries += record.Retries()
		metrics.TotalWallTimeSeconds += record.WallClockDuration.Seconds()
		for _, attempt := range record.Attempts {
			if attempt.GenerationFailure != "" {
				metrics.GenerationFailures++
			}
			for _, outcome := range attempt.StageOutcomes {
				if outcome.ExecError != "" {
					metrics.StageExecutionErrors++
				}
			}
		}
	}

	out := make([]AgentMetrics, 0, len(byAgent))
	for _, metrics := range byAgent {
		if metrics.UnitsEvaluated > 0 {
			total := float64(metrics.UnitsEvaluated)
			metrics.SuccessRate = float64(metrics.Successes) / total * 100
			metrics.CompilePassRate = float64(metrics.CompilePasses) / total * 100
			metrics.AnalysisPassRate = float64(metrics.AnalysisPasses) / total * 100
			metrics.VerificationPassRate = float64(metrics.VerificationPasses) / total * 100
			metrics.MeanRetries = float64(metrics.TotalRetries) / total
			metrics.MeanWallTimeSeconds = metrics.TotalWallTimeSeconds / total
		}
		out = append(out, *metrics)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].AgentName < out[j].AgentName })
	return out
}
