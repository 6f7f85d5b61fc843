package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"annobench/internal/spec"
)

// Issue captures a validation problem with a config field.
type Issue struct {
	Field   string
	Message string
}

// ValidationError aggregates config validation issues.
type ValidationError struct {
	Issues []Issue
}

// Error renders validation errors as a multi-line string.
func (err *ValidationError) Error() string {
	if err == nil || len(err.Issues) == 0 {
		return "config validation failed"
	}
	lines := make([]string, 0, len(err.Issues))
	for _, issue := range err.Issues {
		lines = append(lines, fmt.Sprintf("%s: %s", issue.Field, issue.Message))
	}
	return strings.Join(lines, "\n")
}

var providers = map[string]struct{}{
	"ollama":     {},
	"openrouter": {},
}

var stageKinds = map[string]struct{}{
	"compile":             {},
	"static_analysis":     {},
	"formal_verification": {},
}

// Validate checks a config for correctness and referenced directories.
func Validate(cfg *spec.Config, baseDir string) error {
	var issues []Issue
	add := func(field, message string) {
		issues = append(issues, Issue{Field: field, Message: message})
	}

	if cfg.Version == 0 {
		add("version", "is required")
	} else if cfg.Version != 1 {
		add("version", fmt.Sprintf("unsupported version %d", cfg.Version))
	}

	if strings.TrimSpace(cfg.Workspace.UnitsDir) == "" {
		add("workspace.units_dir", "is required")
	} else if baseDir != "" {
		unitsDir := cfg.Workspace.UnitsDir
		if !filepath.IsAbs(unitsDir) {
			unitsDir = filepath.Join(baseDir, unitsDir)
		}
		if info, err := os.Stat(unitsDir); err != nil || !info.IsDir() {
			add("workspace.units_dir", fmt.Sprintf("directory %q does not exist", cfg.Workspace.UnitsDir))
		}
	}
	if strings.TrimSpace(cfg.Workspace.OutputDir) == "" {
		add("workspace.output_dir", "is required")
	}

	agentIDs := map[string]struct{}{}
	if len(cfg.Agents) == 0 {
		add("agents", "at least one agent is required")
	}
	for i, agent := range cfg.Agents {
		fieldPrefix := fmt.Sprintf("agents[%d]", i)
		id := strings.TrimSpace(agent.ID)
		if id == "" {
			add(fieldPrefix+".id", "is required")
		} else if _, dup := agentIDs[id]; dup {
			add(fieldPrefix+".id", fmt.Sprintf("duplicate agent id %q", id))
		} else {
			agentIDs[id] = struct{}{}
		}
		if _, ok := providers[agent.Provider]; !ok {
			add(fieldPrefix+".provider", fmt.Sprintf("unsupported provider %q", agent.Provider))
		}
		if strings.TrimSpace(agent.Model) == "" {
			add(fieldPrefix+".model", "is required")
		}
		if agent.Temperature < 0 || agent.Temperature > 2 {
			add(fieldPrefix+".temperature", "must be between 0 and 2")
		}
	}
	if cfg.DefaultAgent != "" {
		if _, ok := agentIDs[cfg.DefaultAgent]; !ok {
			add("default_agent", fmt.Sprintf("unknown agent id %q", cfg.DefaultAgent))
		}
	}

	stageIDs := map[string]struct{}{}
	if len(cfg.Stages) == 0 {
		add("stages", "at least one stage is required")
	}
	for i, stage := range cfg.Stages {
		fieldPrefix := fmt.Sprintf("stages[%d]", i)
		id := strings.TrimSpace(stage.ID)
		if id == "" {
			add(fieldPrefix+".id", "is required")
		} else if _, dup := stageIDs[id]; dup {
			add(fieldPrefix+".id", fmt.Sprintf("duplicate stage id %q", id))
		} else {
			stageIDs[id] = struct{}{}
		}
		if _, ok := stageKinds[stage.Kind]; !ok {
			add(fieldPrefix+".kind", fmt.Sprintf("unsupported stage kind %q", stage.Kind))
		}
		if strings.TrimSpace(stage.Command) == "" {
			add(fieldPrefix+".command", "is required")
		}
		if stage.Kind == "formal_verification" && strings.TrimSpace(stage.SuccessMarker) == "" {
			add(fieldPrefix+".success_marker", "is required for formal_verification stages")
		}
	}

	if cfg.Run.MaxAttempts < 1 {
		add("run.max_attempts", "must be at least 1")
	}
	if cfg.Run.Workers < 1 {
		add("run.workers", "must be at least 1")
	}

	if len(issues) > 0 {
		return &ValidationError{Issues: issues}
	}
	return nil
}
