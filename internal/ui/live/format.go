package live

import (
	"strconv"
	"time"

	"github.com/charmbracelet/lipgloss"

	"annobench/internal/runner"
	"annobench/internal/verify"
)

// fmtInt converts an int to string.
func fmtInt(value int) string {
	return strconv.Itoa(value)
}

// formatStatus renders a styled status string for a row.
func formatStatus(row PairRow, noColor bool) string {
	text := statusLabel(row.Status)
	if row.Status == runner.PairChecking && row.StageID != "" {
		text += " " + row.StageID
	}
	if row.Error != "" && !isTerminalStatus(row.Status) {
		text += " (error)"
	}
	return stylizeStatus(text, row.Status, noColor)
}

// statusLabel maps status codes to display labels.
func statusLabel(status runner.PairEventType) string {
	switch status {
	case runner.PairQueued:
		return "queued"
	case runner.PairGenerating:
		return "generating"
	case runner.PairGenerationFailed:
		return "generation failed"
	case runner.PairChecking:
		return "checking"
	case runner.PairRetrying:
		return "retrying"
	case runner.PairPassed:
		return "passed"
	case runner.PairFailed:
		return "failed"
	default:
		return string(status)
	}
}

// formatAttempt renders the attempt counter for a row.
func formatAttempt(row PairRow) string {
	if row.Attempt <= 0 {
		return ""
	}
	if row.MaxAttempts > 0 {
		return fmtInt(row.Attempt) + "/" + fmtInt(row.MaxAttempts)
	}
	return fmtInt(row.Attempt)
}

// formatRowDuration returns elapsed or total time for a row.
func formatRowDuration(row PairRow, now time.Time) string {
	if !row.FinishedAt.IsZero() && !row.StartedAt.IsZero() {
		return row.FinishedAt.Sub(row.StartedAt).Round(100 * time.Millisecond).String()
	}
	if !row.StartedAt.IsZero() {
		return now.Sub(row.StartedAt).Round(100 * time.Millisecond).String()
	}
	return ""
}

// formatRecordEnd formats a sealed record message.
func formatRecordEnd(record verify.RunRecord) string {
	verdict := "failed"
	if record.FinalSuccess {
		verdict = "passed"
	}
	return record.AgentName + "/" + record.UnitID + " " + verdict +
		" after " + fmtInt(record.Retries()) + " attempt(s)"
}

// stylizeStatus applies status coloring when enabled.
func stylizeStatus(text string, status runner.PairEventType, noColor bool) string {
	if noColor {
		return text
	}
	return statusStyle(status).Render(text)
}

// statusStyle selects a style for a given status.
func statusStyle(status runner.PairEventType) lipgloss.Style {
	color := lipgloss.Color("244")
	switch status {
	case runner.PairPassed:
		color = lipgloss.Color("42")
	case runner.PairFailed, runner.PairGenerationFailed:
		color = lipgloss.Color("196")
	case runner.PairRetrying:
		color = lipgloss.Color("220")
	case runner.PairGenerating:
		color = lipgloss.Color("33")
	case runner.PairChecking:
		color = lipgloss.Color("201")
	case runner.PairQueued:
		color = lipgloss.Color("246")
	}
	return lipgloss.NewStyle().Foreground(color)
}
