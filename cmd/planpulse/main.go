package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var Version = "dev"

func main() {
	// Best-effort: a missing .env is the normal case.
	_ = godotenv.Load()

	rootCmd := &cobra.Command{
		Use:     "planpulse",
		Short:   "PlanPulse - shared project-plan state with live fan-out",
		Version: Version,
	}

	rootCmd.AddCommand(serveCmd())
	rootCmd.AddCommand(stateCmd())
	rootCmd.AddCommand(updateCmd())
	rootCmd.AddCommand(resetCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
