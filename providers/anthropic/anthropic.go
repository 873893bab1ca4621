// Package anthropic implements the inference gateway against the Anthropic
// Messages API. It is the hosted alternative to the local Ollama gateway.
package anthropic

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/deepnoodle-ai/triage/llm"
	"github.com/deepnoodle-ai/triage/providers"
	"github.com/deepnoodle-ai/wonton/retry"
)

var (
	DefaultModel         = "claude-sonnet-4-5-20250929"
	DefaultEndpoint      = "https://api.anthropic.com/v1/messages"
	DefaultMaxTokens     = 2048
	DefaultAPIVersion    = "2023-06-01"
	DefaultClient        = &http.Client{Timeout: 120 * time.Second}
	DefaultMaxRetries    = 3
	DefaultRetryBaseWait = 2 * time.Second
)

var _ llm.LLM = &Provider{}

// Provider talks to the Anthropic Messages API.
type Provider struct {
	client        *http.Client
	apiKey        string
	endpoint      string
	model         string
	maxTokens     int
	maxRetries    int
	retryBaseWait time.Duration
}

// New creates an Anthropic provider. The API key defaults to the
// ANTHROPIC_API_KEY environment variable.
func New(opts ...Option) *Provider {
	p := &Provider{
		client:        DefaultClient,
		apiKey:        os.Getenv("ANTHROPIC_API_KEY"),
		endpoint:      DefaultEndpoint,
		model:         DefaultModel,
		maxTokens:     DefaultMaxTokens,
		maxRetries:    DefaultMaxRetries,
		retryBaseWait: DefaultRetryBaseWait,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

func (p *Provider) Name() string {
	return fmt.Sprintf("anthropic-%s", p.model)
}

// Generate sends a non-streaming messages request and returns the text
// content of the response.
func (p *Provider) Generate(ctx context.Context, opts ...llm.Option) (*llm.Response, error) {
	config := &llm.Config{}
	config.Apply(opts...)

	model := p.model
	if config.Model != "" {
		model = config.Model
	}
	endpoint := p.endpoint
	if config.Endpoint != "" {
		endpoint = config.Endpoint
	}
	apiKey := p.apiKey
	if config.APIKey != "" {
		apiKey = config.APIKey
	}
	client := p.client
	if config.Client != nil {
		client = config.Client
	}
	maxTokens := p.maxTokens
	if config.MaxTokens != nil {
		maxTokens = *config.MaxTokens
	}

	var messages []wireMessage
	for _, msg := range config.Messages {
		// The Messages API takes the system prompt as a top-level field,
		// not a message role.
		if msg.Role == llm.System {
			continue
		}
		messages = append(messages, wireMessage{
			Role:    msg.Role.String(),
			Content: msg.Content,
		})
	}
	if len(messages) == 0 {
		return nil, fmt.Errorf("no messages provided")
	}

	request := wireRequest{
		Model:     model,
		MaxTokens: maxTokens,
		Messages:  messages,
		System:    config.SystemPrompt,
	}
	if config.Temperature != nil {
		request.Temperature = config.Temperature
	}
	body, err := json.Marshal(request)
	if err != nil {
		return nil, fmt.Errorf("error marshaling request: %w", err)
	}

	var result wireResponse
	err = retry.DoSimple(ctx, func() error {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
		if err != nil {
			return err
		}
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("X-Api-Key", apiKey)
		req.Header.Set("Anthropic-Version", DefaultAPIVersion)
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
	}, retry.WithMaxAttempts(p.maxRetries+1), retry.WithBackoff(p.retryBaseWait, 60*time.Second))

	if err != nil {
		return nil, err
	}

	var text string
	for _, block := range result.Content {
		if block.Type == "text" {
			text += block.Text
		}
	}

	return &llm.Response{
		ID:         result.ID,
		Model:      result.Model,
		Role:       llm.Assistant,
		Text:       text,
		StopReason: result.StopReason,
		Usage: llm.Usage{
			InputTokens:  result.Usage.InputTokens,
			OutputTokens: result.Usage.OutputTokens,
		},
	}, nil
}
