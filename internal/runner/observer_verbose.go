package runner

import (
	"io"

	"annobench/internal/verify"
)

// VerboseObserver logs run events as styled plain-text lines.
type VerboseObserver struct {
	writer  io.Writer
	noColor bool
}

// NewVerboseObserver builds an observer writing to the given writer.
// When workers > 1 the writer is wrapped to serialize output.
func NewVerboseObserver(writer io.Writer, workers int, noColor bool) *VerboseObserver {
	return &VerboseObserver{
		writer:  wrapVerboseWriter(workers, writer),
		noColor: noColor,
	}
}

// OnRunStart logs the run header.
func (o *VerboseObserver) OnRunStart(runID string, totalPairs int) {
	logVerbose(true, o.writer, o.noColor, styleDefault, "Run %s: %d agent/unit pairs", runID, totalPairs)
}

// OnPairEvent logs attempt and stage progress.
func (o *VerboseObserver) OnPairEvent(event PairEvent) {
	switch event.Type {
	case PairGenerating:
		logVerbose(true, o.writer, o.noColor, stylePair, "Pair %s/%s attempt %d/%d generating", event.AgentID, event.UnitID, event.Attempt, event.MaxAttempts)
	case PairGenerationFailed:
		logVerbose(true, o.writer, o.noColor, styleError, "Pair %s/%s attempt %d/%d generation failed: %s", event.AgentID, event.UnitID, event.Attempt, event.MaxAttempts, event.Error)
	case PairStageFailed:
		if event.Error != "" {
			logVerbose(true, o.writer, o.noColor, styleError, "Pair %s/%s attempt %d stage %s execution error: %s", event.AgentID, event.UnitID, event.Attempt, event.StageID, event.Error)
			return
		}
		logVerbose(true, o.writer, o.noColor, styleError, "Pair %s/%s attempt %d stage %s failed", event.AgentID, event.UnitID, event.Attempt, event.StageID)
	case PairStagePassed:
		logVerbose(true, o.writer, o.noColor, styleDefault, "Pair %s/%s attempt %d stage %s passed", event.AgentID, event.UnitID, event.Attempt, event.StageID)
	case PairPassed:
		logVerbose(true, o.writer, o.noColor, styleMetrics, "Pair %s/%s passed on attempt %d", event.AgentID, event.UnitID, event.Attempt)
	case PairFailed:
		logVerbose(true, o.writer, o.noColor, styleError, "Pair %s/%s failed after %d attempts", event.AgentID, event.UnitID, event.Attempt)
	}
}

// OnPairEnd logs the sealed record metrics.
func (o *VerboseObserver) OnPairEnd(record verify.RunRecord) {
	logVerbose(true, o.writer, o.noColor, styleMetrics, "Record agent=%s unit=%s success=%t attempts=%d wall_time=%s", record.AgentName, record.UnitID, record.FinalSuccess, record.Retries(), record.WallClockDuration)
}

// OnRunEnd logs the per-agent summary.
func (o *VerboseObserver) OnRunEnd(results Results) {
	for _, metrics := range results.Metrics {
		logVerbose(true, o.writer, o.noColor, styleMetrics, "Agent %s: success=%.2f%% compile=%.2f%% analysis=%.2f%% verification=%.2f%% mean_retries=%.2f", metrics.AgentName, metrics.SuccessRate, metrics.CompilePassRate, metrics.AnalysisPassRate, metrics.VerificationPassRate, metrics.MeanRetries)
	}
}
