package main

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

func newProposalsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "proposals",
		Short: "Review skill proposals synthesized from failures",
	}
	cmd.AddCommand(newProposalsListCmd(), newProposalsApproveCmd(), newProposalsRejectCmd())
	return cmd
}

func newProposalsListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List pending proposals",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp()
			if err != nil {
				return err
			}
			pending, err := a.lifecycle.ListPending(cmd.Context())
			if err != nil {
				return err
			}
			if len(pending) == 0 {
				fmt.Println("No pending proposals.")
				return nil
			}
			bold := color.New(color.Bold)
			for _, p := range pending {
				bold.Printf("%s  %s\n", p.ID, p.Name)
				fmt.Printf("    %s\n", p.Description)
				fmt.Printf("    triggers: %s\n", p.TriggerPattern)
				fmt.Printf("    source tickets: %v\n", p.SourceTickets)
			}
			return nil
		},
	}
}

func newProposalsApproveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "approve <id>",
		Short: "Approve a proposal and publish it as a learned skill",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp()
			if err != nil {
				return err
			}
			proposal, err := a.lifecycle.Approve(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			color.New(color.FgGreen).Printf("Approved %s (%s)\n", proposal.ID, proposal.Name)
			fmt.Println("The skill will be used by the next processing run.")
			return nil
		},
	}
}

func newProposalsRejectCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "reject <id>",
		Short: "Reject and discard a proposal",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp()
			if err != nil {
				return err
			}
			if err := a.lifecycle.Reject(cmd.Context(), args[0]); err != nil {
				return err
			}
			color.New(color.FgYellow).Printf("Rejected %s\n", args[0])
			return nil
		},
	}
}
