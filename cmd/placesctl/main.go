package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	_ = godotenv.Load()

	rootCmd := NewRootCommand()
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func NewRootCommand() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "placesctl",
		Short: "Simple Places CLI - editorial and operations tooling",
		Long: `Simple Places Command Line Interface

Normalizes and validates place submissions, previews gallery ordering,
resolves tenants, applies database migrations and signs editorial tokens.

Submissions are read from a file argument or stdin, as JSON or YAML.`,
		Version:       fmt.Sprintf("%s (commit: %s, built: %s)", version, commit, date),
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "verbose output")

	rootCmd.AddCommand(NewNormalizeCommand())
	rootCmd.AddCommand(NewValidateCommand())
	rootCmd.AddCommand(NewOrderCommand())
	rootCmd.AddCommand(NewTenantCommand())
	rootCmd.AddCommand(NewMigrateCommand())
	rootCmd.AddCommand(NewTokenCommand())

	return rootCmd
}
