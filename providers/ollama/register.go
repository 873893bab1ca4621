package ollama

import (
	"strings"

	"github.com/deepnoodle-ai/triage/llm"
	"github.com/deepnoodle-ai/triage/providers"
)

func init() {
	providers.DefaultRegistry.Register(providers.Entry{
		Name: "ollama",
		Match: func(model string) bool {
			m := strings.ToLower(model)
			return strings.HasPrefix(m, "llama") ||
				strings.HasPrefix(m, "mistral") ||
				strings.HasPrefix(m, "qwen") ||
				strings.HasPrefix(m, "gemma")
		},
		Factory: func(model, endpoint string) llm.LLM {
			opts := []Option{WithModel(model)}
			if endpoint != "" {
				opts = append(opts, WithBaseURL(endpoint))
			}
			return New(opts...)
		},
	})
	// Ollama serves as the fallback for unrecognized model names since it
	// hosts arbitrary local models.
	providers.DefaultRegistry.SetFallback(func(model, endpoint string) llm.LLM {
		opts := []Option{}
		if model != "" {
			opts = append(opts, WithModel(model))
		}
		if endpoint != "" {
			opts = append(opts, WithBaseURL(endpoint))
		}
		return New(opts...)
	})
}
