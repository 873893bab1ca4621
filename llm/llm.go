// Package llm defines the inference gateway abstraction used by the
// prediction engine and the learning synthesizer. Providers implement the
// LLM interface over their own wire formats; callers configure a call with
// functional options and receive plain text back. Streaming is out of
// scope: every call is a single request and a single response.
package llm

import "context"

// LLM is a language model provider capable of generating a response for a
// set of role-tagged messages.
type LLM interface {
	// Name returns the provider name, e.g. "ollama-llama3.2".
	Name() string

	// Generate sends the configured messages to the model and returns its
	// response. Connectivity failures are reported as an error for which
	// providers.IsUnavailable returns true.
	Generate(ctx context.Context, opts ...Option) (*Response, error)
}

// Role indicates the role of a message in a conversation.
type Role string

const (
	System    Role = "system"
	User      Role = "user"
	Assistant Role = "assistant"
)

func (r Role) String() string {
	return string(r)
}

// Message is a single role-tagged message sent to or received from a model.
type Message struct {
	Role    Role   `json:"role"`
	Content string `json:"content"`
}

// NewUserMessage returns a user message with the given text.
func NewUserMessage(text string) *Message {
	return &Message{Role: User, Content: text}
}

// Usage contains token usage reported by a provider.
type Usage struct {
	InputTokens  int `json:"input_tokens"`
	OutputTokens int `json:"output_tokens"`
}

// Response is a non-streaming model response.
type Response struct {
	ID         string `json:"id,omitempty"`
	Model      string `json:"model"`
	Role       Role   `json:"role"`
	Text       string `json:"text"`
	StopReason string `json:"stop_reason,omitempty"`
	Usage      Usage  `json:"usage"`
}
