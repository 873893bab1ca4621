package providers

import (
	"strings"
	"sync"

	"github.com/deepnoodle-ai/triage/llm"
)

// Factory creates an LLM provider for a given model name and optional
// endpoint override.
type Factory func(model, endpoint string) llm.LLM

// Matcher determines if a model name belongs to a provider.
type Matcher func(model string) bool

// Entry pairs a matcher with its factory.
type Entry struct {
	Name    string
	Match   Matcher
	Factory Factory
}

// Registry maps model names to provider factories. Providers register
// themselves during init() and entries are checked in registration order,
// so more specific matchers should register first.
type Registry struct {
	mu       sync.RWMutex
	entries  []Entry
	fallback Factory
}

// Register adds a provider entry to the registry.
func (r *Registry) Register(entry Entry) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries = append(r.entries, entry)
}

// SetFallback sets the factory used when no matcher matches.
func (r *Registry) SetFallback(factory Factory) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.fallback = factory
}

// CreateModel returns a provider for the given model name, or nil if no
// entry matches and no fallback is set.
func (r *Registry) CreateModel(model, endpoint string) llm.LLM {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, entry := range r.entries {
		if entry.Match(model) {
			return entry.Factory(model, endpoint)
		}
	}
	if r.fallback != nil {
		return r.fallback(model, endpoint)
	}
	return nil
}

// PrefixMatcher returns a matcher that checks for a case-insensitive
// model name prefix.
func PrefixMatcher(prefix string) Matcher {
	return func(model string) bool {
		return strings.HasPrefix(strings.ToLower(model), strings.ToLower(prefix))
	}
}

// DefaultRegistry is the process-wide provider registry.
var DefaultRegistry = &Registry{}
