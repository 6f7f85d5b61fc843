package verify

import (
	"strings"

	"annobench/internal/stage"
)

// Synthesize reduces failing stage outcomes to one feedback text for the
// next generation attempt. Pure and deterministic: identical outcomes
// yield identical feedback. Passing stages are omitted; an empty result
// means nothing failed.
func Synthesize(outcomes []stage.Outcome) string {
	var b strings.Builder
	for _, outcome := range outcomes {
		if outcome.Passed {
			continue
		}
		if b.Len() == 0 {
			b.WriteString("Issues found:\n")
		}
		b.WriteString("- ")
		b.WriteString(outcome.Kind.Label())
		b.WriteString(" errors:\n")
		if outcome.ExecError != "" {
			b.WriteString("tool execution failed: ")
			b.WriteString(outcome.ExecError)
			b.WriteString("\n")
		}
		for _, diagnostic := range outcome.Diagnostics {
			b.WriteString(diagnostic)
			b.WriteString("\n")
		}
	}
	return b.String()
}
