package providers

import (
	"context"
	"testing"

	"github.com/deepnoodle-ai/triage/llm"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeLLM struct {
	name string
}

func (f *fakeLLM) Name() string { return f.name }

func (f *fakeLLM) Generate(ctx context.Context, opts ...llm.Option) (*llm.Response, error) {
	return &llm.Response{}, nil
}

func TestRegistryCreateModel(t *testing.T) {
	r := &Registry{}
	r.Register(Entry{
		Name:  "claude",
		Match: PrefixMatcher("claude"),
		Factory: func(model, endpoint string) llm.LLM {
			return &fakeLLM{name: "claude:" + model}
		},
	})
	r.Register(Entry{
		Name:  "llama",
		Match: PrefixMatcher("llama"),
		Factory: func(model, endpoint string) llm.LLM {
			return &fakeLLM{name: "llama:" + model}
		},
	})

	got := r.CreateModel("claude-sonnet-4-5", "")
	require.NotNil(t, got)
	assert.Equal(t, "claude:claude-sonnet-4-5", got.Name())

	got = r.CreateModel("llama3.2:3b", "")
	require.NotNil(t, got)
	assert.Equal(t, "llama:llama3.2:3b", got.Name())

	assert.Nil(t, r.CreateModel("mystery-model", ""))
}

func TestRegistryFallback(t *testing.T) {
	r := &Registry{}
	r.SetFallback(func(model, endpoint string) llm.LLM {
		return &fakeLLM{name: "fallback:" + model}
	})

	got := r.CreateModel("anything", "")
	require.NotNil(t, got)
	assert.Equal(t, "fallback:anything", got.Name())
}

func TestPrefixMatcher(t *testing.T) {
	m := PrefixMatcher("claude")
	assert.True(t, m("claude-sonnet-4-5"))
	assert.True(t, m("Claude-Opus"))
	assert.False(t, m("gpt-4o"))
	assert.False(t, m(""))
}
