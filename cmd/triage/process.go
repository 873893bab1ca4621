package main

import (
	"fmt"
	"time"

	"github.com/deepnoodle-ai/triage"
	"github.com/deepnoodle-ai/triage/engine"
	"github.com/deepnoodle-ai/triage/learning"
	"github.com/deepnoodle-ai/triage/runstore"
	"github.com/fatih/color"
	"github.com/pmezard/go-difflib/difflib"
	"github.com/spf13/cobra"
)

func newProcessCmd() *cobra.Command {
	var noLearn bool
	var verbose bool

	cmd := &cobra.Command{
		Use:   "process <run-id>",
		Short: "Process a ticket batch and propose skills from its failures",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp()
			if err != nil {
				return err
			}
			runID := args[0]
			ctx := cmd.Context()

			store, err := runstore.NewFileRunStore(a.cfg.TicketsDir(), a.cfg.ReportsDir())
			if err != nil {
				return err
			}
			tickets, err := store.ReadTicketsForRun(ctx, runID)
			if err != nil {
				return err
			}
			if len(tickets) == 0 {
				return fmt.Errorf("run %q has no tickets", runID)
			}

			eng, err := engine.New(engine.Options{
				Gateway: a.gateway,
				Model:   a.cfg.Model,
				Logger:  a.logger,
			})
			if err != nil {
				return err
			}

			// One snapshot for the whole batch: approvals that land
			// mid-run stay invisible until the next run.
			snap := a.registry.Snapshot()

			run := &triage.ProcessingRun{
				ID:           runID,
				StartedAt:    time.Now(),
				TotalTickets: len(tickets),
			}
			a.logger.Info("processing run", "run_id", runID, "tickets", len(tickets))
			run.Results = eng.ProcessBatch(ctx, snap, tickets)

			// Synthesis runs only after the entire batch is scored, so a
			// proposal can never influence its own evaluation batch.
			if !noLearn {
				synth, err := learning.NewSynthesizer(learning.SynthesizerOptions{
					Gateway:    a.gateway,
					Model:      a.cfg.Model,
					Repository: a.repository,
					Logger:     a.logger,
				})
				if err != nil {
					return err
				}
				proposals, err := synth.Synthesize(ctx, run.Results)
				if err != nil {
					a.logger.Warn("skill synthesis failed", "error", err)
				}
				for _, p := range proposals {
					run.ProposedSkills = append(run.ProposedSkills, p.ID)
				}
			}

			completed := time.Now()
			run.CompletedAt = &completed
			if err := store.WriteReportForRun(ctx, runID, run); err != nil {
				return err
			}

			printRunSummary(run, verbose)
			return nil
		},
	}

	cmd.Flags().BoolVar(&noLearn, "no-learn", false, "skip skill synthesis after scoring")
	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "print per-ticket results")
	return cmd
}

func printRunSummary(run *triage.ProcessingRun, verbose bool) {
	bold := color.New(color.Bold)
	green := color.New(color.FgGreen)
	red := color.New(color.FgRed)
	yellow := color.New(color.FgYellow)

	bold.Printf("Run %s: %d tickets\n", run.ID, run.TotalTickets)

	report := runstore.BuildReport(run)
	printAccuracy := func(name string, acc *runstore.DimensionAccuracy) {
		if acc == nil {
			fmt.Printf("  %-12s not evaluated\n", name)
			return
		}
		line := fmt.Sprintf("  %-12s %d/%d correct (%.0f%%)\n",
			name, acc.Correct, acc.Evaluated, acc.Accuracy*100)
		if acc.Accuracy >= 0.8 {
			green.Print(line)
		} else if acc.Accuracy >= 0.5 {
			yellow.Print(line)
		} else {
			red.Print(line)
		}
	}
	printAccuracy("category", report.CategoryAccuracy)
	printAccuracy("routing", report.RoutingAccuracy)
	printAccuracy("resolution", report.ResolutionAccuracy)

	if len(run.ProposedSkills) > 0 {
		bold.Printf("Proposed skills (%d):\n", len(run.ProposedSkills))
		for _, id := range run.ProposedSkills {
			fmt.Printf("  %s\n", id)
		}
		fmt.Println("Review with: triage proposals list")
	}

	if !verbose {
		return
	}
	for _, result := range run.Results {
		fmt.Println()
		bold.Printf("%s: %s\n", result.Ticket.ID, result.Ticket.Title)
		printVerdict("category", result.Prediction.PredictedCategory, result.Ticket.ActualCategory, result.CategoryCorrect)
		printVerdict("routing", result.Prediction.PredictedRouting, result.Ticket.ActualRouting, result.RoutingCorrect)
		printVerdict("resolution", result.Prediction.PredictedResolution, result.Ticket.ActualResolution, result.ResolutionCorrect)

		if result.ResolutionCorrect != nil && !*result.ResolutionCorrect {
			diff, err := difflib.GetUnifiedDiffString(difflib.UnifiedDiff{
				A:        difflib.SplitLines(result.Prediction.PredictedResolution),
				B:        difflib.SplitLines(result.Ticket.ActualResolution),
				FromFile: "predicted",
				ToFile:   "actual",
				Context:  2,
			})
			if err == nil && diff != "" {
				fmt.Print(diff)
			}
		}
	}
}

func printVerdict(name, predicted, actual string, correct *bool) {
	switch {
	case correct == nil:
		fmt.Printf("  %-12s %s\n", name, predicted)
	case *correct:
		color.New(color.FgGreen).Printf("  %-12s %s\n", name, predicted)
	default:
		color.New(color.FgRed).Printf("  %-12s %s (expected: %s)\n", name, predicted, actual)
	}
}
