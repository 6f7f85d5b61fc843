package verify

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"annobench/internal/gen"
	"annobench/internal/stage"
	"annobench/internal/unit"
)

// Events receives loop progress notifications. All methods may be
// called from the goroutine running the loop.
type Events interface {
	OnAttemptStart(attempt, maxAttempts int)
	OnGenerated(attempt int, genErr error)
	OnStageOutcome(attempt int, outcome stage.Outcome)
	OnAttemptEnd(attempt int, passed bool)
}

// noopEvents discards all notifications.
type noopEvents struct{}

func (noopEvents) OnAttemptStart(int, int)           {}
func (noopEvents) OnGenerated(int, error)            {}
func (noopEvents) OnStageOutcome(int, stage.Outcome) {}
func (noopEvents) OnAttemptEnd(int, bool)            {}

// Loop runs bounded generate-then-validate attempts for one pair.
// Stages execute in fixed order on every attempt; a stage failure never
// skips the stages after it, so every attempt carries full diagnostics.
type Loop struct {
	AgentName   string
	Provider    gen.Provider
	Stages      []stage.Stage
	MaxAttempts int
	WorkDir     string
	Now         func() time.Time
	Events      Events

	// ownedWorkDir is set when the loop created a temporary work dir
	// itself; Run removes it after sealing the record.
	ownedWorkDir string
}

// Run evaluates one unit and returns the sealed record. Generation and
// stage failures are converted to record data; nothing escapes as an
// error from a single pair's evaluation.
func (l *Loop) Run(ctx context.Context, u unit.Unit) RunRecord {
	now := l.Now
	if now == nil {
		now = time.Now
	}
	events := l.Events
	if events == nil {
		events = noopEvents{}
	}
	maxAttempts := l.MaxAttempts
	if maxAttempts < 1 {
		maxAttempts = 1
	}

	record := RunRecord{
		AgentName:           l.AgentName,
		UnitID:              u.ID,
		ExtractedIdentifier: u.ID,
	}
	startedAt := now()
	defer func() {
		if l.ownedWorkDir != "" {
			_ = os.RemoveAll(l.ownedWorkDir)
			l.WorkDir = ""
			l.ownedWorkDir = ""
		}
	}()

	currentSource := u.SourceText
	feedback := ""
	for attemptIndex := 1; attemptIndex <= maxAttempts; attemptIndex++ {
		events.OnAttemptStart(attemptIndex, maxAttempts)
		attempt := Attempt{Index: attemptIndex}

		candidate, genErr := l.Provider.Generate(ctx, gen.Request{Source: currentSource, Feedback: feedback})
		events.OnGenerated(attemptIndex, genErr)
		if genErr != nil {
			attempt.GenerationFailure = genErr.Error()
			feedback = genErr.Error()
			if attemptIndex < maxAttempts {
				attempt.Feedback = feedback
			}
			record.Attempts = append(record.Attempts, attempt)
			events.OnAttemptEnd(attemptIndex, false)
			continue
		}

		attempt.CandidateArtifact = candidate
		if name := gen.ExtractClassName(candidate); name != "" {
			record.ExtractedIdentifier = name
		}

		artifactPath, writeErr := l.writeArtifact(record.ExtractedIdentifier, candidate)
		if writeErr != nil {
			attempt.GenerationFailure = writeErr.Error()
			feedback = writeErr.Error()
			if attemptIndex < maxAttempts {
				attempt.Feedback = feedback
			}
			record.Attempts = append(record.Attempts, attempt)
			events.OnAttemptEnd(attemptIndex, false)
			continue
		}

		for _, checker := range l.Stages {
			outcome := checker.Execute(ctx, artifactPath)
			attempt.StageOutcomes = append(attempt.StageOutcomes, outcome)
			events.OnStageOutcome(attemptIndex, outcome)
		}

		if attempt.AllPassed() {
			record.Attempts = append(record.Attempts, attempt)
			record.FinalSuccess = true
			events.OnAttemptEnd(attemptIndex, true)
			break
		}

		if attemptIndex < maxAttempts {
			feedback = Synthesize(attempt.StageOutcomes)
			attempt.Feedback = feedback
			// Progressive refinement: the candidate becomes the source
			// for the next generation round.
			currentSource = candidate
		}
		record.Attempts = append(record.Attempts, attempt)
		events.OnAttemptEnd(attemptIndex, false)
	}

	record.WallClockDuration = now().Sub(startedAt)
	return record
}

// writeArtifact persists the candidate next to the loop's working
// directory so the external tools can check it.
func (l *Loop) writeArtifact(identifier, candidate string) (string, error) {
	dir := l.WorkDir
	if dir == "" {
		tmp, err := os.MkdirTemp("", "annobench-")
		if err != nil {
			return "", fmt.Errorf("create work dir: %w", err)
		}
		dir = tmp
		l.WorkDir = tmp
		l.ownedWorkDir = tmp
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create work dir: %w", err)
	}
	path := filepath.Join(dir, identifier+".java")
	if err := os.WriteFile(path, []byte(candidate), 0o644); err != nil {
		return "", fmt.Errorf("write candidate: %w", err)
	}
	return path, nil
}
