package report

import (
	"fmt"
	"time"
)

// formatRate returns a percentage string for report output. Rates are
// already on the 0..100 scale.
func formatRate(rate float64) string {
	return fmt.Sprintf("%.2f%%", rate)
}

// formatMean returns a two-decimal string for mean metrics.
func formatMean(value float64) string {
	return fmt.Sprintf("%.2f", value)
}

// formatTimestamp returns a compact UTC timestamp for report headers.
func formatTimestamp(ts time.Time) string {
	if ts.IsZero() {
		return "-"
	}
	return ts.UTC().Format("2006-01-02 15:04:05 MST")
}

// formatVerdict returns the pass/fail cell text for a record.
func formatVerdict(success bool) string {
	if success {
		return "pass"
	}
	return "fail"
}
