package runner

import (
	"io"
	"time"

	"annobench/internal/gen"
	"annobench/internal/spec"
	"annobench/internal/stage"
)

// ProviderFactory builds a generation provider for an agent config.
type ProviderFactory func(agentConfig spec.AgentConfig) (gen.Provider, error)

// StageFactory constructs fresh stage adapters for one grid pair.
// Adapters hold per-invocation state, so pairs never share instances.
type StageFactory func(configs []spec.StageConfig) ([]stage.Stage, error)

// RunDependencies allows injecting factories and clocks for a run.
type RunDependencies struct {
	ProviderFactory ProviderFactory
	StageFactory    StageFactory
	RunID           func() (string, error)
	Now             func() time.Time
}

// RunParams configures a run invocation.
type RunParams struct {
	BaseDir       string
	OutputDir     string
	AgentOverride string
	Selectors     []PairSelector
	Verbose       bool
	VerboseWriter io.Writer
	NoColor       bool
	Observer      RunObserver
	Deps          RunDependencies
}

// pairRun couples a unit with its resolved agent config.
type pairRun struct {
	Agent spec.AgentConfig
	Unit  string
}
