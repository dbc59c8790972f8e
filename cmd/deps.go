package cmd

import (
	"github.com/spf13/cobra"

	"threew-setup/internal/envsetup"
	"threew-setup/internal/logger"
)

// depsCmd groups dependency maintenance. Only `update` exists today; pinning
// and pruning live in the Python tooling itself.
var depsCmd = &cobra.Command{
	Use:   "deps",
	Short: "Python dependency maintenance",
}

// depsUpdateCmd refreshes the uv lock file, audits it, and re-exports
// requirements.txt. pyproject.toml is restored from backup when the sync
// fails.
var depsUpdateCmd = &cobra.Command{
	Use:   "update",
	Short: "Refresh the lock file, run the security audit, re-export requirements.txt",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := envsetup.UpdateDependencies("."); err != nil {
			logger.Error("[ERROR] %v\n", err)
			return err
		}
		return nil
	},
}

func init() {
	depsCmd.AddCommand(depsUpdateCmd)
	rootCmd.AddCommand(depsCmd)
}
