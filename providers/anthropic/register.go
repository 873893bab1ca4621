package anthropic

import (
	"github.com/deepnoodle-ai/triage/llm"
	"github.com/deepnoodle-ai/triage/providers"
)

func init() {
	providers.DefaultRegistry.Register(providers.Entry{
		Name:  "anthropic",
		Match: providers.PrefixMatcher("claude"),
		Factory: func(model, endpoint string) llm.LLM {
			opts := []Option{WithModel(model)}
			if endpoint != "" {
				opts = append(opts, WithEndpoint(endpoint))
			}
			return New(opts...)
		},
	})
}
