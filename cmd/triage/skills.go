package main

import (
	"fmt"

	"github.com/deepnoodle-ai/triage"
	"github.com/deepnoodle-ai/triage/skill"
	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

func newSkillsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "skills",
		Short: "Inspect the active skill set",
	}
	cmd.AddCommand(newSkillsListCmd(), newSkillsShowCmd(), newSkillsWatchCmd())
	return cmd
}

func newSkillsListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List discovered skills",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp()
			if err != nil {
				return err
			}
			skills := a.registry.List()
			if len(skills) == 0 {
				fmt.Println("No skills available.")
				return nil
			}
			bold := color.New(color.Bold)
			for _, s := range skills {
				marker := " "
				if !skill.IsCoreSkill(s.Name) {
					marker = "+"
				}
				bold.Printf("%s %s", marker, s.Name)
				fmt.Printf("  %s\n", s.Description)
			}
			fmt.Println("\n(+ = learned skill)")
			return nil
		},
	}
}

func newSkillsWatchCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "watch",
		Short: "Rescan skills as their files change",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp()
			if err != nil {
				return err
			}
			watcher, err := skill.NewWatcher(a.registry, a.logger)
			if err != nil {
				return err
			}
			a.logger.Info("watching skill directories",
				"core", a.cfg.SkillsDir, "learned", a.cfg.ProposalsDir())
			return watcher.Run(cmd.Context())
		},
	}
}

func newSkillsShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show <name>",
		Short: "Print a skill's full instructions",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp()
			if err != nil {
				return err
			}
			body, ok := a.registry.Content(args[0])
			if !ok {
				return fmt.Errorf("%w: %s", triage.ErrSkillNotFound, args[0])
			}
			fmt.Println(body)
			return nil
		},
	}
}
