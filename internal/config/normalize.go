package config

import "annobench/internal/spec"

const (
	defaultMaxAttempts       = 3
	defaultWorkers           = 1
	defaultAgentTimeoutSecs  = 60
	defaultStageTimeoutSecs  = 120
	defaultOllamaBaseURL     = "http://localhost:11434"
	defaultOpenRouterBaseURL = "https://openrouter.ai/api/v1"
)

// Normalize fills defaults that validation and execution rely on.
func Normalize(cfg *spec.Config) {
	if cfg.DefaultAgent == "" && len(cfg.Agents) == 1 {
		cfg.DefaultAgent = cfg.Agents[0].ID
	}
	for i := range cfg.Agents {
		agent := &cfg.Agents[i]
		if agent.TimeoutSeconds <= 0 {
			agent.TimeoutSeconds = defaultAgentTimeoutSecs
		}
		if agent.BaseURL == "" {
			switch agent.Provider {
			case "ollama":
				agent.BaseURL = defaultOllamaBaseURL
			case "openrouter":
				agent.BaseURL = defaultOpenRouterBaseURL
			}
		}
	}
	for i := range cfg.Stages {
		if cfg.Stages[i].TimeoutSeconds <= 0 {
			cfg.Stages[i].TimeoutSeconds = defaultStageTimeoutSecs
		}
	}
	if cfg.Run.MaxAttempts <= 0 {
		cfg.Run.MaxAttempts = defaultMaxAttempts
	}
	if cfg.Run.Workers <= 0 {
		cfg.Run.Workers = defaultWorkers
	}
}
