package cmd

import (
	"os"

	"github.com/spf13/cobra"

	"threew-setup/internal/config"
	"threew-setup/internal/logger"
)

// debug flag indicates whether debug logging should be enabled.
// It can be toggled via the `--debug` command-line flag.
var debug bool

// statePath is the path to the persistent state file. This file tracks
// installed extensions, completed bootstrap steps, and the dataset revision.
var statePath = config.DefaultStatePath

// rootCmd is the base command for the CLI tool `threew-setup`.
// It sets up the root-level CLI structure and provides global flags.
var rootCmd = &cobra.Command{
	Use:   "threew-setup",                           // The name of the CLI tool
	Short: "Setup orchestrator for the 3W project", // Short description shown in help output

	// Subcommand errors are already printed in color by the commands
	// themselves; suppress cobra's usage dump and duplicate error print so
	// the last line the user sees is the actual error.
	SilenceUsage:  true,
	SilenceErrors: true,

	// PersistentPreRun is a hook that runs before any subcommand.
	// Here, we initialize the logger based on the debug flag.
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		logger.Init(debug) // Set up logging (verbose if --debug is true)
	},
}

// Execute initializes flags and starts the command execution. It's the entry
// point for the CLI when invoked by the user. Any command error ends the
// process with exit status 1, the fail-fast discipline the old `set -e`
// scripts had.
func Execute() {
	// Register the global --debug flag before any command is executed.
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "Enable debug logging")

	// Subcommands register themselves through their init functions.
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
