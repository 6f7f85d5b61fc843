// Package stage wraps the external checking tools behind one capability.
package stage

import "context"

// Kind identifies what a checking stage verifies.
type Kind string

const (
	KindCompile            Kind = "compile"
	KindStaticAnalysis     Kind = "static_analysis"
	KindFormalVerification Kind = "formal_verification"
)

// Label returns a human-readable stage name for feedback and reports.
func (k Kind) Label() string {
	switch k {
	case KindCompile:
		return "compilation"
	case KindStaticAnalysis:
		return "static analysis"
	case KindFormalVerification:
		return "formal verification"
	default:
		return string(k)
	}
}

// Outcome is the verdict of one stage for one candidate artifact.
// ExecError distinguishes a tool that could not run from a tool that
// ran and reported defects; when set, Passed is always false.
type Outcome struct {
	StageID     string   `json:"stage_id"`
	Kind        Kind     `json:"kind"`
	Passed      bool     `json:"passed"`
	Diagnostics []string `json:"diagnostics,omitempty"`
	ExecError   string   `json:"exec_error,omitempty"`
}

// Stage checks one candidate artifact on disk. Implementations convert
// every expected tool condition (non-zero exit, malformed output,
// timeout) into an Outcome and never return control-flow errors.
type Stage interface {
	ID() string
	Kind() Kind
	Execute(ctx context.Context, artifactPath string) Outcome
}
