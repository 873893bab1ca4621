// Package ollama implements the inference gateway against a local Ollama
// server using its native chat API.
package ollama

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/deepnoodle-ai/triage/llm"
	"github.com/deepnoodle-ai/triage/providers"
	"github.com/deepnoodle-ai/wonton/retry"
)

var (
	DefaultModel         = "llama3.2:3b"
	DefaultBaseURL       = "http://localhost:11434"
	DefaultMaxTokens     = 2048
	DefaultClient        = &http.Client{Timeout: 120 * time.Second}
	DefaultMaxRetries    = 3
	DefaultRetryBaseWait = 1 * time.Second
)

var _ llm.LLM = &Provider{}

// Provider talks to an Ollama server's /api/chat endpoint.
type Provider struct {
	client        *http.Client
	baseURL       string
	model         string
	maxTokens     int
	maxRetries    int
	retryBaseWait time.Duration
}

// New creates an Ollama provider. The base URL defaults to the
// OLLAMA_BASE_URL environment variable, then to localhost.
func New(opts ...Option) *Provider {
	p := &Provider{
		client:        DefaultClient,
		baseURL:       DefaultBaseURL,
		model:         DefaultModel,
		maxTokens:     DefaultMaxTokens,
		maxRetries:    DefaultMaxRetries,
		retryBaseWait: DefaultRetryBaseWait,
	}
	if url := os.Getenv("OLLAMA_BASE_URL"); url != "" {
		p.baseURL = url
	}
	for _, opt := range opts {
		opt(p)
	}
	p.baseURL = strings.TrimSuffix(p.baseURL, "/")
	return p
}

func (p *Provider) Name() string {
	return fmt.Sprintf("ollama-%s", p.model)
}

// Generate sends a non-streaming chat request and returns the model text.
func (p *Provider) Generate(ctx context.Context, opts ...llm.Option) (*llm.Response, error) {
	config := &llm.Config{}
	config.Apply(opts...)

	model := p.model
	if config.Model != "" {
		model = config.Model
	}
	endpoint := p.baseURL + "/api/chat"
	if config.Endpoint != "" {
		endpoint = config.Endpoint
	}
	client := p.client
	if config.Client != nil {
		client = config.Client
	}
	maxTokens := p.maxTokens
	if config.MaxTokens != nil {
		maxTokens = *config.MaxTokens
	}

	var messages []chatMessage
	if config.SystemPrompt != "" {
		messages = append(messages, chatMessage{Role: "system", Content: config.SystemPrompt})
	}
	for _, msg := range config.Messages {
		messages = append(messages, chatMessage{Role: msg.Role.String(), Content: msg.Content})
	}
	if len(messages) == 0 {
		return nil, fmt.Errorf("no messages provided")
	}

	request := chatRequest{
		Model:    model,
		Messages: messages,
		Stream:   false,
		Options:  chatOptions{NumPredict: maxTokens},
	}
	if config.Temperature != nil {
		request.Options.Temperature = config.Temperature
	}
	body, err := json.Marshal(request)
	if err != nil {
		return nil, fmt.Errorf("error marshaling request: %w", err)
	}

	var result chatResponse
	err = retry.DoSimple(ctx, func() error {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
		if err != nil {
			return err
		}
		req.Header.Set("Content-Type", "application/json")
		resp, err := client.Do(req)
		if err != nil {
			return fmt.Errorf("error making request: %w", err)
		}
		defer resp.Body.Close()

		if resp.StatusCode != http.StatusOK {
			respBody, _ := io.ReadAll(resp.Body)
			if config.Logger != nil && resp.StatusCode == http.StatusTooManyRequests {
				config.Logger.Warn("rate limit exceeded",
					"status", resp.StatusCode, "body", string(respBody))
			}
			return providers.NewError(resp.StatusCode, string(respBody))
		}
		if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
			return fmt.Errorf("error decoding response: %w", err)
		}
		return nil
	}, retry.WithMaxAttempts(p.maxRetries+1), retry.WithBackoff(p.retryBaseWait, 30*time.Second))

	if err != nil {
		return nil, err
	}

	return &llm.Response{
		Model:      result.Model,
		Role:       llm.Assistant,
		Text:       result.Message.Content,
		StopReason: result.DoneReason,
		Usage: llm.Usage{
			InputTokens:  result.PromptEvalCount,
			OutputTokens: result.EvalCount,
		},
	}, nil
}

// Ping reports whether the Ollama server is reachable and has the
// configured model available. Used by the health check.
func (p *Provider) Ping(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.baseURL+"/api/tags", nil)
	if err != nil {
		return err
	}
	resp, err := p.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return providers.NewError(resp.StatusCode, string(body))
	}
	var tags tagsResponse
	if err := json.NewDecoder(resp.Body).Decode(&tags); err != nil {
		return fmt.Errorf("error decoding tags response: %w", err)
	}
	for _, m := range tags.Models {
		if strings.Contains(m.Name, p.model) || strings.Contains(p.model, m.Name) {
			return nil
		}
	}
	return fmt.Errorf("model %q not available on ollama server", p.model)
}
