package runner

import (
	"context"
	"fmt"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"annobench/internal/gen"
	"annobench/internal/spec"
	"annobench/internal/stage"
	"annobench/internal/unit"
	"annobench/internal/verify"
)

// Run evaluates the agent × unit grid and returns aggregated results.
// A failure while evaluating one pair is captured as a failed record
// and never aborts the remaining pairs.
func Run(ctx context.Context, cfg spec.Config, params RunParams) (Results, error) {
	unitsDir := cfg.Workspace.UnitsDir
	if !filepath.IsAbs(unitsDir) && params.BaseDir != "" {
		unitsDir = filepath.Join(params.BaseDir, unitsDir)
	}
	units, err := unit.Load(unitsDir)
	if err != nil {
		return Results{}, err
	}

	pairs, err := planPairs(cfg, units, params.Selectors, params.AgentOverride)
	if err != nil {
		return Results{}, err
	}

	deps := params.Deps
	if deps.ProviderFactory == nil {
		deps.ProviderFactory = func(agentConfig spec.AgentConfig) (gen.Provider, error) {
			return gen.ProviderFor(agentConfig, nil)
		}
	}
	if deps.StageFactory == nil {
		deps.StageFactory = buildStages
	}
	if deps.RunID == nil {
		deps.RunID = NewRunID
	}
	if deps.Now == nil {
		deps.Now = time.Now
	}

	runID, err := deps.RunID()
	if err != nil {
		return Results{}, err
	}

	observer := params.Observer
	if observer == nil {
		if params.Verbose && params.VerboseWriter != nil {
			observer = NewVerboseObserver(params.VerboseWriter, cfg.Run.Workers, params.NoColor)
		} else {
			observer = noopObserver{}
		}
	}
	observer.OnRunStart(runID, len(pairs))

	unitsByID := make(map[string]unit.Unit, len(units))
	unitIDs := make([]string, 0, len(units))
	for _, u := range units {
		unitsByID[u.ID] = u
		unitIDs = append(unitIDs, u.ID)
	}

	startedAt := deps.Now()
	records := evaluatePairs(ctx, cfg, pairs, unitsByID, deps, observer)
	finishedAt := deps.Now()

	agents := make([]AgentInfo, 0, len(cfg.Agents))
	for _, agent := range cfg.Agents {
		agents = append(agents, AgentInfo{
			ID:          agent.ID,
			Provider:    agent.Provider,
			Model:       agent.Model,
			Temperature: agent.Temperature,
			MaxAttempts: cfg.Run.MaxAttempts,
		})
	}

	results := Results{
		RunID:      runID,
		StartedAt:  startedAt,
		FinishedAt: finishedAt,
		Agents:     agents,
		Units:      unitIDs,
		Records:    records,
		Metrics:    Aggregate(agents, records),
	}
	observer.OnRunEnd(results)
	return results, nil
}

// evaluatePairs fans pairs out to a bounded worker pool and collects
// records through a single channel. Workers never share provider or
// stage instances.
func evaluatePairs(
	ctx context.Context,
	cfg spec.Config,
	pairs []pairRun,
	unitsByID map[string]unit.Unit,
	deps RunDependencies,
	observer RunObserver,
) []verify.RunRecord {
	workers := cfg.Run.Workers
	if workers < 1 {
		workers = 1
	}
	if workers > len(pairs) {
		workers = len(pairs)
	}

	jobs := make(chan pairRun)
	collected := make(chan verify.RunRecord)

	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for pair := range jobs {
				collected <- evaluatePair(ctx, cfg, pair, unitsByID[pair.Unit], deps, observer)
			}
		}()
	}
	go func() {
		for _, pair := range pairs {
			jobs <- pair
		}
		close(jobs)
		wg.Wait()
		close(collected)
	}()

	records := make([]verify.RunRecord, 0, len(pairs))
	for record := range collected {
		observer.OnPairEnd(record)
		records = append(records, record)
	}
	sort.Slice(records, func(i, j int) bool {
		if records[i].UnitID != records[j].UnitID {
			return records[i].UnitID < records[j].UnitID
		}
		return records[i].AgentName < records[j].AgentName
	})
	return records
}

// evaluatePair runs one verification loop, converting configuration
// errors and panics into failed records.
func evaluatePair(
	ctx context.Context,
	cfg spec.Config,
	pair pairRun,
	u unit.Unit,
	deps RunDependencies,
	observer RunObserver,
) (record verify.RunRecord) {
	defer func() {
		if recovered := recover(); recovered != nil {
			record = verify.RunRecord{
				AgentName: pair.Agent.ID,
				UnitID:    pair.Unit,
				Note:      fmt.Sprintf("evaluation panicked: %v", recovered),
			}
		}
	}()

	provider, err := deps.ProviderFactory(pair.Agent)
	if err != nil {
		return verify.RunRecord{
			AgentName: pair.Agent.ID,
			UnitID:    pair.Unit,
			Note:      fmt.Sprintf("agent configuration error: %v", err),
		}
	}
	stages, err := deps.StageFactory(cfg.Stages)
	if err != nil {
		return verify.RunRecord{
			AgentName: pair.Agent.ID,
			UnitID:    pair.Unit,
			Note:      fmt.Sprintf("stage configuration error: %v", err),
		}
	}

	loop := &verify.Loop{
		AgentName:   pair.Agent.ID,
		Provider:    provider,
		Stages:      stages,
		MaxAttempts: cfg.Run.MaxAttempts,
		Now:         deps.Now,
		Events:      &loopEvents{agentID: pair.Agent.ID, unitID: pair.Unit, observer: observer, now: deps.Now},
	}
	return loop.Run(ctx, u)
}

// buildStages constructs fresh adapters from stage configs.
func buildStages(configs []spec.StageConfig) ([]stage.Stage, error) {
	stages := make([]stage.Stage, 0, len(configs))
	for _, cfg := range configs {
		built, err := stage.FromConfig(cfg)
		if err != nil {
			return nil, err
		}
		stages = append(stages, built)
	}
	return stages, nil
}

// loopEvents adapts loop progress into observer pair events.
type loopEvents struct {
	agentID     string
	unitID      string
	observer    RunObserver
	now         func() time.Time
	maxAttempts int
}

func (l *loopEvents) emit(event PairEvent) {
	event.AgentID = l.agentID
	event.UnitID = l.unitID
	event.EmittedAt = l.now()
	l.observer.OnPairEvent(event)
}

// OnAttemptStart reports the generation phase of a new attempt.
func (l *loopEvents) OnAttemptStart(attempt, maxAttempts int) {
	l.maxAttempts = maxAttempts
	l.emit(PairEvent{Type: PairGenerating, Attempt: attempt, MaxAttempts: maxAttempts})
}

// OnGenerated reports the generation verdict of an attempt.
func (l *loopEvents) OnGenerated(attempt int, genErr error) {
	if genErr != nil {
		l.emit(PairEvent{Type: PairGenerationFailed, Attempt: attempt, MaxAttempts: l.maxAttempts, Error: genErr.Error()})
		return
	}
	l.emit(PairEvent{Type: PairChecking, Attempt: attempt, MaxAttempts: l.maxAttempts})
}

// OnStageOutcome reports one stage verdict.
func (l *loopEvents) OnStageOutcome(attempt int, outcome stage.Outcome) {
	eventType := PairStagePassed
	errText := ""
	if !outcome.Passed {
		eventType = PairStageFailed
		errText = outcome.ExecError
	}
	l.emit(PairEvent{Type: eventType, Attempt: attempt, MaxAttempts: l.maxAttempts, StageID: outcome.StageID, Error: errText})
}

// OnAttemptEnd reports whether the attempt sealed the pair.
func (l *loopEvents) OnAttemptEnd(attempt int, passed bool) {
	if passed {
		l.emit(PairEvent{Type: PairPassed, Attempt: attempt, MaxAttempts: l.maxAttempts})
		return
	}
	if attempt < l.maxAttempts {
		l.emit(PairEvent{Type: PairRetrying, Attempt: attempt, MaxAttempts: l.maxAttempts})
		return
	}
	l.emit(PairEvent{Type: PairFailed, Attempt: attempt, MaxAttempts: l.maxAttempts})
}

// noopObserver discards all run events.
type noopObserver struct{}

func (noopObserver) OnRunStart(string, int)     {}
func (noopObserver) OnPairEvent(PairEvent)      {}
func (noopObserver) OnPairEnd(verify.RunRecord) {}
func (noopObserver) OnRunEnd(Results)           {}
