package gen

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"annobench/internal/spec"
)

// OllamaProvider calls a local Ollama server's generate endpoint.
type OllamaProvider struct {
	BaseURL     string
	Model       string
	Temperature float64
	Timeout     time.Duration
	Client      HTTPDoer
}

type ollamaRequest struct {
	Model   string        `json:"model"`
	Prompt  string        `json:"prompt"`
	Stream  bool          `json:"stream"`
	Options ollamaOptions `json:"options"`
}

type ollamaOptions struct {
	Temperature float64 `json:"temperature"`
}

type ollamaResponse struct {
	Response string `json:"response"`
}

// NewOllamaProvider constructs an Ollama provider from an agent config.
func NewOllamaProvider(agent spec.AgentConfig, client HTTPDoer) (*OllamaProvider, error) {
	if strings.TrimSpace(agent.Model) == "" {
		return nil, fmt.Errorf("model is required")
	}
	baseURL := agent.BaseURL
	if strings.TrimSpace(baseURL) == "" {
		baseURL = "http://localhost:11434"
	}
	if client == nil {
		client = http.DefaultClient
	}
	timeout := time.Duration(agent.TimeoutSeconds) * time.Second
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	return &OllamaProvider{
		BaseURL:     strings.TrimRight(baseURL, "/"),
		Model:       agent.Model,
		Temperature: agent.Temperature,
		Timeout:     timeout,
		Client:      client,
	}, nil
}

// Generate requests annotated code and recovers the raw artifact text.
func (p *OllamaProvider) Generate(ctx context.Context, req Request) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, p.Timeout)
	defer cancel()

	payload, err := json.Marshal(ollamaRequest{
		Model:   p.Model,
		Prompt:  BuildPrompt(req.Source, req.Feedback),
		Stream:  false,
		Options: ollamaOptions{Temperature: p.Temperature},
	})
	if err != nil {
		return "", fmt.Errorf("marshal request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, p.BaseURL+"/api/generate", bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := p.Client.Do(httpReq)
	if err != nil {
		return "", &GenerationError{Provider: "ollama", Reason: "connection failed", Err: err}
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(resp.Body)
		return "", &GenerationError{
			Provider: "ollama",
			Reason:   fmt.Sprintf("status %d: %s", resp.StatusCode, strings.TrimSpace(string(body))),
		}
	}

	var decoded ollamaResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return "", &GenerationError{Provider: "ollama", Reason: "malformed response body", Err: err}
	}
	text := StripCodeFence(decoded.Response)
	if strings.TrimSpace(text) == "" {
		return "", &GenerationError{Provider: "ollama", Reason: "empty response"}
	}
	return text, nil
}
