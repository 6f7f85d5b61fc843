// Package report renders run results into a standalone HTML report.
package report

import (
	"context"

	"annobench/internal/runner"
	"annobench/internal/store"
)

// BuildReportHTML renders an HTML report for runs.
func BuildReportHTML(runs []runner.Results) string {
	return BuildReportHTMLWithHistory(runs, nil)
}

// BuildReportHTMLWithHistory renders an HTML report for runs, followed
// by per-agent success rates from earlier runs when history is given.
func BuildReportHTMLWithHistory(runs []runner.Results, history []store.AgentHistoryRow) string {
	html, err := RenderReportHTML(context.Background(), runs, history)
	if err != nil {
		return ""
	}
	return html
}
