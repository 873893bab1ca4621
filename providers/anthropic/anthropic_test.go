package anthropic

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/deepnoodle-ai/triage/llm"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerate(t *testing.T) {
	var received wireRequest
	var headers http.Header
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		headers = r.Header.Clone()
		require.NoError(t, json.NewDecoder(r.Body).Decode(&received))
		json.NewEncoder(w).Encode(wireResponse{
			ID:    "msg_01",
			Model: received.Model,
			Role:  "assistant",
			Content: []wireContent{
				{Type: "text", Text: `{"category": `},
				{Type: "text", Text: `"Incident"}`},
			},
			StopReason: "end_turn",
			Usage:      wireUsage{InputTokens: 200, OutputTokens: 30},
		})
	}))
	defer server.Close()

	provider := New(
		WithModel("claude-sonnet-4-5-20250929"),
		WithEndpoint(server.URL),
		WithAPIKey("test-key"),
	)
	response, err := provider.Generate(context.Background(),
		llm.WithMessages(llm.NewUserMessage("Analyze this ticket")),
		llm.WithSystemPrompt("You are a triage agent"),
		llm.WithMaxTokens(1024),
	)
	require.NoError(t, err)
	assert.Equal(t, `{"category": "Incident"}`, response.Text)
	assert.Equal(t, "end_turn", response.StopReason)
	assert.Equal(t, 200, response.Usage.InputTokens)

	assert.Equal(t, "test-key", headers.Get("X-Api-Key"))
	assert.Equal(t, DefaultAPIVersion, headers.Get("Anthropic-Version"))

	// The system prompt rides as a top-level field, not a message.
	assert.Equal(t, "You are a triage agent", received.System)
	require.Len(t, received.Messages, 1)
	assert.Equal(t, "user", received.Messages[0].Role)
	assert.Equal(t, 1024, received.MaxTokens)
}

func TestGenerateNoMessages(t *testing.T) {
	provider := New(WithEndpoint("http://localhost:0"))
	_, err := provider.Generate(context.Background())
	require.Error(t, err)
}

func TestGenerateAuthError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error": {"type": "authentication_error"}}`, http.StatusUnauthorized)
	}))
	defer server.Close()

	provider := New(WithEndpoint(server.URL), WithAPIKey("wrong"))
	_, err := provider.Generate(context.Background(),
		llm.WithMessages(llm.NewUserMessage("hi")))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "401")
}

func TestName(t *testing.T) {
	assert.Equal(t, "anthropic-claude-sonnet-4-5-20250929", New().Name())
}
