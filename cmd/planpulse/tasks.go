package main

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/planpulse/planpulse/internal/config"
	"github.com/planpulse/planpulse/internal/plan"
	"github.com/planpulse/planpulse/internal/relay"
	"github.com/planpulse/planpulse/internal/state"
)

func stateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "state",
		Short: "Print the current plan document as JSON",
		RunE: func(cmd *cobra.Command, args []string) error {
			manager, _, closer, err := openManager()
			if err != nil {
				return err
			}
			defer closer()

			doc, err := manager.State(context.Background())
			if err != nil {
				return err
			}
			out, err := json.MarshalIndent(doc, "", "  ")
			if err != nil {
				return err
			}
			fmt.Println(string(out))
			return nil
		},
	}
}

func updateCmd() *cobra.Command {
	var progress int
	var status string

	cmd := &cobra.Command{
		Use:   "update [task-id]",
		Short: "Update one task's progress and/or status",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var progressArg *int
			if cmd.Flags().Changed("progress") {
				progressArg = &progress
			}
			var statusArg *plan.Status
			if cmd.Flags().Changed("status") {
				st := plan.Status(status)
				if !st.Valid() {
					return fmt.Errorf("unknown status %q", status)
				}
				statusArg = &st
			}
			if progressArg == nil && statusArg == nil {
				return fmt.Errorf("either --progress or --status must be provided")
			}

			manager, events, closer, err := openManager()
			if err != nil {
				return err
			}
			defer closer()

			ctx := context.Background()
			task, err := manager.UpdateTask(ctx, args[0], progressArg, statusArg)
			if err != nil {
				return err
			}
			events.PublishUpdate(ctx, task)

			out, err := json.MarshalIndent(task, "", "  ")
			if err != nil {
				return err
			}
			fmt.Println(string(out))
			return nil
		},
	}

	cmd.Flags().IntVar(&progress, "progress", 0, "progress value 0-100")
	cmd.Flags().StringVar(&status, "status", "", "status: PENDING, IN_PROGRESS, COMPLETED, or BLOCKED")

	return cmd
}

func resetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "reset",
		Short: "Replace the plan document with the default seed",
		RunE: func(cmd *cobra.Command, args []string) error {
			manager, _, closer, err := openManager()
			if err != nil {
				return err
			}
			defer closer()

			if err := manager.Reset(context.Background()); err != nil {
				return err
			}
			fmt.Println("State reset to default seed")
			return nil
		},
	}
}

// openManager wires a manager and relay over the configured backend for
// one-shot CLI operations.
func openManager() (*state.Manager, *relay.Relay, func(), error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, nil, fmt.Errorf("failed to load config: %w", err)
	}
	st, broker, err := openBackend(cfg)
	if err != nil {
		return nil, nil, nil, err
	}
	manager := state.NewManager(st, cfg.Update.MaxAttempts)
	events := relay.New(broker)
	return manager, events, func() { _ = st.Close() }, nil
}
