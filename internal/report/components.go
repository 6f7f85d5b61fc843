package report

import (
	"context"
	"fmt"
	"io"

	"github.com/a-h/templ"

	"annobench/internal/runner"
	"annobench/internal/store"
	"annobench/internal/verify"
)

const pageStyle = `body { font-family: sans-serif; margin: 2rem; color: #1a1a1a; }
h1 { font-size: 1.4rem; }
h2 { font-size: 1.1rem; margin-top: 2rem; }
table { border-collapse: collapse; margin-top: 0.5rem; }
th, td { border: 1px solid #ccc; padding: 0.3rem 0.6rem; text-align: left; }
th { background: #f0f0f0; }
td.pass { color: #0a7d36; }
td.fail { color: #b3261e; }`

// ReportPage renders a full HTML document covering the given runs and,
// when available, the per-agent history from earlier runs.
func ReportPage(runs []runner.Results, history []store.AgentHistoryRow) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		if _, err := fmt.Fprintf(w,
			"<!DOCTYPE html><html><head><meta charset=\"utf-8\"><title>Annotation Benchmark Report</title><style>%s</style></head><body><h1>Annotation Benchmark Report</h1>",
			pageStyle,
		); err != nil {
			return err
		}
		for _, run := range runs {
			if err := runSection(run).Render(ctx, w); err != nil {
				return err
			}
		}
		if len(history) > 0 {
			if err := historyTable(history).Render(ctx, w); err != nil {
				return err
			}
		}
		_, err := io.WriteString(w, "</body></html>")
		return err
	})
}

// historyTable renders stored success rates across runs, newest first.
func historyTable(history []store.AgentHistoryRow) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		if _, err := io.WriteString(w,
			"<h2>Agent history</h2><table><thead><tr><th>Run</th><th>Agent</th><th>Units</th><th>Successes</th><th>Success</th></tr></thead><tbody>",
		); err != nil {
			return err
		}
		for _, row := range history {
			if _, err := fmt.Fprintf(w,
				"<tr><td>%s</td><td>%s</td><td>%d</td><td>%d</td><td>%s</td></tr>",
				templ.EscapeString(row.RunID),
				templ.EscapeString(row.AgentName),
				row.UnitsEvaluated,
				row.Successes,
				formatRate(row.SuccessRate),
			); err != nil {
				return err
			}
		}
		_, err := io.WriteString(w, "</tbody></table>")
		return err
	})
}

// runSection renders the header, metrics table, and record table of one run.
func runSection(run runner.Results) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		if _, err := fmt.Fprintf(w,
			"<h2>Run %s</h2><p>%s to %s, %d agents, %d units</p>",
			templ.EscapeString(run.RunID),
			templ.EscapeString(formatTimestamp(run.StartedAt)),
			templ.EscapeString(formatTimestamp(run.FinishedAt)),
			len(run.Agents),
			len(run.Units),
		); err != nil {
			return err
		}
		if err := metricsTable(run.Metrics).Render(ctx, w); err != nil {
			return err
		}
		return recordsTable(run.Records).Render(ctx, w)
	})
}

// metricsTable renders the per-agent metric comparison table.
func metricsTable(metrics []runner.AgentMetrics) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		if _, err := io.WriteString(w,
			"<table><thead><tr><th>Agent</th><th>Units</th><th>Success</th><th>Compile</th><th>Analysis</th><th>Verification</th><th>Mean attempts</th><th>Mean wall time (s)</th></tr></thead><tbody>",
		); err != nil {
			return err
		}
		for _, m := range metrics {
			if _, err := fmt.Fprintf(w,
				"<tr><td>%s</td><td>%d</td><td>%s</td><td>%s</td><td>%s</td><td>%s</td><td>%s</td><td>%s</td></tr>",
				templ.EscapeString(m.AgentName),
				m.UnitsEvaluated,
				formatRate(m.SuccessRate),
				formatRate(m.CompilePassRate),
				formatRate(m.AnalysisPassRate),
				formatRate(m.VerificationPassRate),
				formatMean(m.MeanRetries),
				formatMean(m.MeanWallTimeSeconds),
			); err != nil {
				return err
			}
		}
		_, err := io.WriteString(w, "</tbody></table>")
		return err
	})
}

// recordsTable renders one row per (agent, unit) record.
func recordsTable(records []verify.RunRecord) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		if _, err := io.WriteString(w,
			"<table><thead><tr><th>Unit</th><th>Agent</th><th>Verdict</th><th>Attempts</th><th>Wall time</th><th>Note</th></tr></thead><tbody>",
		); err != nil {
			return err
		}
		for _, record := range records {
			verdict := formatVerdict(record.FinalSuccess)
			if _, err := fmt.Fprintf(w,
				"<tr><td>%s</td><td>%s</td><td class=\"%s\">%s</td><td>%d</td><td>%s</td><td>%s</td></tr>",
				templ.EscapeString(record.UnitID),
				templ.EscapeString(record.AgentName),
				verdict,
				verdict,
				record.Retries(),
				templ.EscapeString(record.WallClockDuration.String()),
				templ.EscapeString(record.Note),
			); err != nil {
				return err
			}
		}
		_, err := io.WriteString(w, "</tbody></table>")
		return err
	})
}
