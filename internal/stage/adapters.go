package stage

import (
	"context"
	"fmt"
	"strings"
	"time"

	"annobench/internal/spec"
)

// toolStage runs one configured external tool against a candidate and
// classifies its output. All three stage kinds share the invocation and
// line-matching machinery; the kind decides the pass rule.
type toolStage struct {
	id            string
	kind          Kind
	command       string
	args          []string
	failureMarker string
	successMarker string
	timeout       time.Duration
	runner        execRunner
}

// FromConfig builds a stage adapter from its config entry. Each grid
// pair gets fresh instances, so adapters may hold per-run state.
func FromConfig(cfg spec.StageConfig) (Stage, error) {
	kind := Kind(cfg.Kind)
	switch kind {
	case KindCompile, KindStaticAnalysis, KindFormalVerification:
	default:
		return nil, fmt.Errorf("unsupported stage kind %q", cfg.Kind)
	}
	if strings.TrimSpace(cfg.Command) == "" {
		return nil, fmt.Errorf("stage %s: command is required", cfg.ID)
	}
	if kind == KindFormalVerification && strings.TrimSpace(cfg.SuccessMarker) == "" {
		return nil, fmt.Errorf("stage %s: success marker is required", cfg.ID)
	}
	failureMarker := cfg.FailureMarker
	if failureMarker == "" {
		failureMarker = "error"
	}
	return &toolStage{
		id:            cfg.ID,
		kind:          kind,
		command:       cfg.Command,
		args:          cfg.Args,
		failureMarker: failureMarker,
		successMarker: cfg.SuccessMarker,
		timeout:       time.Duration(cfg.TimeoutSeconds) * time.Second,
		runner:        commandRunner{},
	}, nil
}

// ID returns the configured stage identifier.
func (s *toolStage) ID() string {
	return s.id
}

// Kind returns what this stage verifies.
func (s *toolStage) Kind() Kind {
	return s.kind
}

// Execute invokes the tool against the artifact path and classifies the
// result. Tool conditions never escape as errors.
func (s *toolStage) Execute(ctx context.Context, artifactPath string) Outcome {
	outcome := Outcome{StageID: s.id, Kind: s.kind}
	args := append(append([]string{}, s.args...), artifactPath)
	output, err := s.runner.Run(ctx, s.timeout, s.command, args...)
	if err != nil {
		outcome.ExecError = err.Error()
		return outcome
	}
	outcome.Diagnostics = matchingLines(output, s.failureMarker)
	switch s.kind {
	case KindFormalVerification:
		// The proof tool's exit code is unreliable; only the sentinel counts.
		outcome.Passed = strings.Contains(output, s.successMarker)
	default:
		outcome.Passed = len(outcome.Diagnostics) == 0
	}
	return outcome
}
