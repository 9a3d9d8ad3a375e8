// Package cmd provides the command-line interface for the
// banditprefetch demo harness.
package cmd

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "banditprefetch-demo",
	Short: "Run a bandit prefetch controller against a synthetic or host workload.",
	Long: "banditprefetch-demo drives a prefetch.Controller through a fixed " +
		"number of ticks and prints a one-line summary of the last epoch. It " +
		"uses a synthetic workload with a fixed 30% miss rate, and either a " +
		"synthetic CPU or, with --real-cpu, the host process's own CPU usage.",
}

// Execute adds all child commands to the root command and sets flags
// appropriately. It is called by main.main().
func Execute() {
	if err := godotenv.Load(); err != nil {
		fmt.Fprintf(os.Stderr, "banditprefetch-demo: no .env file loaded: %v\n", err)
	}

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
