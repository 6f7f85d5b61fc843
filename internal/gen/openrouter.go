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

// OpenRouterProvider calls the OpenRouter chat completions API.
type OpenRouterProvider struct {
	BaseURL     string
	APIKey      string
	Model       string
	Temperature float64
	Timeout     time.Duration
	Client      HTTPDoer
}

type openRouterRequest struct {
	Model       string              `json:"model"`
	Messages    []openRouterMessage `json:"messages"`
	Temperature float64             `json:"temperature"`
	Stream      bool                `json:"stream"`
}

type openRouterMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type openRouterResponse struct {
	Choices []struct {
		Message openRouterMessage `json:"message"`
	} `json:"choices"`
}

// NewOpenRouterProvider constructs an OpenRouter provider with explicit settings.
func NewOpenRouterProvider(agent spec.AgentConfig, apiKey string, client HTTPDoer) (*OpenRouterProvider, error) {
	if strings.TrimSpace(agent.Model) == "" {
		return nil, fmt.Errorf("model is required")
	}
	if strings.TrimSpace(apiKey) == "" {
		return nil, fmt.Errorf("api key is required")
	}
	baseURL := agent.BaseURL
	if strings.TrimSpace(baseURL) == "" {
		baseURL = "https://openrouter.ai/api/v1"
	}
	if client == nil {
		client = http.DefaultClient
	}
	timeout := time.Duration(agent.TimeoutSeconds) * time.Second
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	return &OpenRouterProvider{
		BaseURL:     strings.TrimRight(baseURL, "/"),
		APIKey:      apiKey,
		Model:       agent.Model,
		Temperature: agent.Temperature,
		Timeout:     timeout,
		Client:      client,
	}, nil
}

// Generate requests annotated code through a single chat completion.
func (p *OpenRouterProvider) Generate(ctx context.Context, req Request) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, p.Timeout)
	defer cancel()

	payload, err := json.Marshal(openRouterRequest{
		Model: p.Model,
		Messages: []openRouterMessage{
			{Role: "user", Content: BuildPrompt(req.Source, req.Feedback)},
		},
		Temperature: p.Temperature,
	})
	if err != nil {
		return "", fmt.Errorf("marshal request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, p.BaseURL+"/chat/completions", bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	httpReq.Header.Set("Authorization", "Bearer "+p.APIKey)
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := p.Client.Do(httpReq)
	if err != nil {
		return "", &GenerationError{Provider: "openrouter", Reason: "connection failed", Err: err}
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(resp.Body)
		return "", &GenerationError{
			Provider: "openrouter",
			Reason:   fmt.Sprintf("status %d: %s", resp.StatusCode, strings.TrimSpace(string(body))),
		}
	}

	var decoded openRouterResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return "", &GenerationError{Provider: "openrouter", Reason: "malformed response body", Err: err}
	}
	if len(decoded.Choices) == 0 {
		return "", &GenerationError{Provider: "openrouter", Reason: "empty response"}
	}
	text := StripCodeFence(decoded.Choices[0].Message.Content)
	if strings.TrimSpace(text) == "" {
		return "", &GenerationError{Provider: "openrouter", Reason: "empty response"}
	}
	return text, nil
}
