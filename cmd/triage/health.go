package main

import (
	"context"
	"fmt"
	"time"

	"github.com/deepnoodle-ai/triage"
	"github.com/deepnoodle-ai/triage/providers"
	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

// pinger is implemented by providers that can report gateway reachability.
type pinger interface {
	Ping(ctx context.Context) error
}

func newHealthCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "health",
		Short: "Check inference gateway availability",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp()
			if err != nil {
				return err
			}
			fmt.Printf("gateway: %s\n", a.gateway.Name())

			p, ok := a.gateway.(pinger)
			if !ok {
				fmt.Println("status:  unknown (provider has no health check)")
				return nil
			}
			ctx, cancel := context.WithTimeout(cmd.Context(), 10*time.Second)
			defer cancel()
			if err := p.Ping(ctx); err != nil {
				if providers.IsUnavailable(err) {
					err = fmt.Errorf("%w: %v", triage.ErrGatewayUnavailable, err)
				}
				color.New(color.FgRed).Printf("status:  degraded (%v)\n", err)
				return nil
			}
			color.New(color.FgGreen).Println("status:  healthy")
			return nil
		},
	}
}
