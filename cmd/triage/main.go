// Command triage runs the self-improving ticket triage pipeline: it
// predicts category, routing, and resolution for batches of support
// tickets, scores the predictions against ground truth, and turns
// recurring mistakes into skill proposals for human review.
package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/deepnoodle-ai/triage/config"
	"github.com/deepnoodle-ai/triage/learning"
	"github.com/deepnoodle-ai/triage/llm"
	"github.com/deepnoodle-ai/triage/providers"
	"github.com/deepnoodle-ai/triage/skill"
	"github.com/deepnoodle-ai/triage/slogger"
	"github.com/spf13/cobra"

	_ "github.com/deepnoodle-ai/triage/providers/anthropic"
	_ "github.com/deepnoodle-ai/triage/providers/ollama"
)

// app bundles the services the commands share, constructed once at
// startup and passed explicitly.
type app struct {
	cfg        *config.Config
	logger     slogger.Logger
	registry   *skill.Registry
	gateway    llm.LLM
	repository *learning.FileRepository
	lifecycle  *learning.Lifecycle
}

func newApp() (*app, error) {
	cfg := config.FromEnv()
	if err := cfg.EnsureDirs(); err != nil {
		return nil, fmt.Errorf("creating data directories: %w", err)
	}
	logger := slogger.New(slogger.LevelFromString(cfg.LogLevel))

	registry := skill.NewRegistry(skill.RegistryOptions{
		CoreDir:    cfg.SkillsDir,
		LearnedDir: cfg.ProposalsDir(),
		Logger:     logger,
	})
	if err := registry.Rescan(); err != nil {
		return nil, err
	}

	endpoint := cfg.OllamaBaseURL
	if strings.HasPrefix(strings.ToLower(cfg.Model), "claude") {
		endpoint = ""
	}
	gateway := providers.DefaultRegistry.CreateModel(cfg.Model, endpoint)
	if gateway == nil {
		return nil, fmt.Errorf("no provider available for model %q", cfg.Model)
	}

	repository, err := learning.NewFileRepository(cfg.ProposalsDir())
	if err != nil {
		return nil, err
	}
	lifecycle, err := learning.NewLifecycle(learning.LifecycleOptions{
		Repository: repository,
		PublishDir: cfg.ProposalsDir(),
		Logger:     logger,
	})
	if err != nil {
		return nil, err
	}

	return &app{
		cfg:        cfg,
		logger:     logger,
		registry:   registry,
		gateway:    gateway,
		repository: repository,
		lifecycle:  lifecycle,
	}, nil
}

func main() {
	root := &cobra.Command{
		Use:           "triage",
		Short:         "Self-improving support ticket triage",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(
		newProcessCmd(),
		newSkillsCmd(),
		newProposalsCmd(),
		newHealthCmd(),
	)
	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}
