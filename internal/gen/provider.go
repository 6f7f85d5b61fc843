// Package gen wraps the annotation-producing generation backends.
package gen

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"strings"

	"annobench/internal/spec"
)

// HTTPDoer abstracts HTTP clients used by providers.
type HTTPDoer interface {
	Do(req *http.Request) (*http.Response, error)
}

// Request carries one generation invocation. Feedback is empty on the
// first attempt of a verification loop.
type Request struct {
	Source   string
	Feedback string
}

// Provider produces an annotated candidate for a source unit.
type Provider interface {
	Generate(ctx context.Context, req Request) (string, error)
}

// GenerationError marks a backend that was unreachable or returned no
// usable text. It consumes one attempt but never aborts a run.
type GenerationError struct {
	Provider string
	Reason   string
	Err      error
}

// Error renders the generation failure description.
func (e *GenerationError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s generation failed: %s: %v", e.Provider, e.Reason, e.Err)
	}
	return fmt.Sprintf("%s generation failed: %s", e.Provider, e.Reason)
}

// Unwrap exposes the underlying transport error.
func (e *GenerationError) Unwrap() error {
	return e.Err
}

// ProviderFor builds a provider for an agent config.
func ProviderFor(agent spec.AgentConfig, client HTTPDoer) (Provider, error) {
	switch agent.Provider {
	case "ollama":
		return NewOllamaProvider(agent, client)
	case "openrouter":
		apiKey := strings.TrimSpace(os.Getenv("ANNOBENCH_API_KEY"))
		if apiKey == "" {
			return nil, fmt.Errorf("ANNOBENCH_API_KEY is required for openrouter agents")
		}
		return NewOpenRouterProvider(agent, apiKey, client)
	default:
		return nil, fmt.Errorf("unsupported provider %q", agent.Provider)
	}
}
