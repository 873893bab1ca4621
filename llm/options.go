package llm

import (
	"net/http"

	"github.com/deepnoodle-ai/triage/slogger"
)

// Option configures a single Generate call.
type Option func(*Config)

// Config holds the configuration for one Generate call.
type Config struct {
	Messages     []*Message
	Model        string
	SystemPrompt string
	MaxTokens    *int
	Temperature  *float64
	Endpoint     string
	APIKey       string
	Client       *http.Client
	Logger       slogger.Logger
}

// Apply applies the given options to the config.
func (c *Config) Apply(opts ...Option) {
	for _, opt := range opts {
		opt(c)
	}
}

// WithMessages sets the messages for the call.
func WithMessages(messages ...*Message) Option {
	return func(config *Config) {
		config.Messages = messages
	}
}

// WithModel sets the model identifier.
func WithModel(model string) Option {
	return func(config *Config) {
		config.Model = model
	}
}

// WithSystemPrompt sets the system prompt.
func WithSystemPrompt(systemPrompt string) Option {
	return func(config *Config) {
		config.SystemPrompt = systemPrompt
	}
}

// WithMaxTokens bounds the response token budget.
func WithMaxTokens(maxTokens int) Option {
	return func(config *Config) {
		config.MaxTokens = &maxTokens
	}
}

// WithTemperature sets the sampling temperature.
func WithTemperature(temperature float64) Option {
	return func(config *Config) {
		config.Temperature = &temperature
	}
}

// WithEndpoint overrides the provider endpoint.
func WithEndpoint(endpoint string) Option {
	return func(config *Config) {
		config.Endpoint = endpoint
	}
}

// WithAPIKey sets the API key for the call.
func WithAPIKey(apiKey string) Option {
	return func(config *Config) {
		config.APIKey = apiKey
	}
}

// WithClient sets the HTTP client used for the call.
func WithClient(client *http.Client) Option {
	return func(config *Config) {
		config.Client = client
	}
}

// WithLogger sets the logger for the call.
func WithLogger(logger slogger.Logger) Option {
	return func(config *Config) {
		config.Logger = logger
	}
}
