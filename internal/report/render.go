package report

import (
	"context"
	"strings"

	"annobench/internal/runner"
	"annobench/internal/store"
)

// RenderReportHTML renders the report page into a string.
func RenderReportHTML(ctx context.Context, runs []runner.Results, history []store.AgentHistoryRow) (string, error) {
	var builder strings.Builder
	if err := ReportPage(runs, history).Render(ctx, &builder); err != nil {
		return "", err
	}
	return builder.String(), nil
}
