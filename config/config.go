// Package config loads process configuration from the environment with
// sensible defaults for local development.
package config

import (
	"os"
	"path/filepath"
)

// Config holds everything the triage process needs to start.
type Config struct {
	// Model is the model identifier; the provider registry maps it to a
	// gateway implementation.
	Model string

	// OllamaBaseURL overrides the local Ollama endpoint.
	OllamaBaseURL string

	// SkillsDir holds the core skill set.
	SkillsDir string

	// DataDir is the root for tickets, proposals, and reports.
	DataDir string

	// LogLevel is one of debug, info, warn, error.
	LogLevel string
}

// FromEnv builds a Config from environment variables, applying defaults
// for anything unset.
func FromEnv() *Config {
	return &Config{
		Model:         envOr("TRIAGE_MODEL", envOr("OLLAMA_MODEL", "llama3.2:3b")),
		OllamaBaseURL: envOr("OLLAMA_BASE_URL", "http://localhost:11434"),
		SkillsDir:     envOr("TRIAGE_SKILLS_DIR", filepath.Join(".agent", "skills")),
		DataDir:       envOr("TRIAGE_DATA_DIR", "data"),
		LogLevel:      envOr("TRIAGE_LOG_LEVEL", "info"),
	}
}

// TicketsDir is where run ticket batches are read from.
func (c *Config) TicketsDir() string {
	return filepath.Join(c.DataDir, "tickets")
}

// ProposalsDir is where pending proposals and published learned skills
// live.
func (c *Config) ProposalsDir() string {
	return filepath.Join(c.DataDir, "proposed_skills")
}

// ReportsDir is where run reports are written.
func (c *Config) ReportsDir() string {
	return filepath.Join(c.DataDir, "reports")
}

// EnsureDirs creates the data layout.
func (c *Config) EnsureDirs() error {
	for _, dir := range []string{c.SkillsDir, c.TicketsDir(), c.ProposalsDir(), c.ReportsDir()} {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return err
		}
	}
	return nil
}

func envOr(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}
