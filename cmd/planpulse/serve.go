package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/planpulse/planpulse/internal/config"
	"github.com/planpulse/planpulse/internal/relay"
	"github.com/planpulse/planpulse/internal/state"
	"github.com/planpulse/planpulse/internal/web"
)

func serveCmd() *cobra.Command {
	var addr string
	var backend string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the PlanPulse server",
		Long: `Start the HTTP server exposing the plan state API and live stream.

Examples:
  planpulse serve
  planpulse serve --addr :9090 --backend sqlite`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return fmt.Errorf("failed to load config: %w", err)
			}
			if addr != "" {
				cfg.Server.Addr = addr
			}
			if backend != "" {
				cfg.Backend.Driver = backend
			}

			st, broker, err := openBackend(cfg)
			if err != nil {
				return err
			}
			defer st.Close()

			manager := state.NewManager(st, cfg.Update.MaxAttempts)
			events := relay.NewWithTimeouts(broker,
				time.Duration(cfg.Stream.HeartbeatSeconds)*time.Second,
				time.Duration(cfg.Stream.ResubscribeSeconds)*time.Second)

			fmt.Printf("Starting PlanPulse (%s backend) at http://localhost%s\n",
				cfg.Backend.Driver, cfg.Server.Addr)
			server := web.NewServer(manager, events)
			return server.Run(cfg.Server.Addr)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "server address (overrides config)")
	cmd.Flags().StringVar(&backend, "backend", "", "backend driver: redis, sqlite, or memory (overrides config)")

	return cmd
}
