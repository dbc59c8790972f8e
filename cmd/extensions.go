package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"threew-setup/internal/config"
	"threew-setup/internal/extensions"
	"threew-setup/internal/logger"
)

// Flags for the extensions subcommands.
var (
	extEditor string
	extForce  bool
)

// extensionsCmd groups the editor extension helpers: installing the curated
// set through the editor CLI and listing the catalog.
var extensionsCmd = &cobra.Command{
	Use:   "extensions",
	Short: "Install the project's editor extension set",
}

// extensionsInstallCmd drives `code --install-extension` (or cursor) over the
// catalog. Per-extension failures are aggregated, so one broken marketplace
// entry doesn't stop the rest, but the run still exits nonzero.
var extensionsInstallCmd = &cobra.Command{
	Use:   "install",
	Short: "Install all catalog extensions through the editor CLI",
	RunE: func(cmd *cobra.Command, args []string) error {
		st := config.LoadState(statePath)

		res, err := extensions.Install(extEditor, extForce, st)
		if err != nil {
			logger.Error("[ERROR] %v\n", err)
			return err
		}
		config.SaveState(statePath, st)

		logger.Info("[INFO] Extensions: %d installed, %d skipped, %d failed\n",
			len(res.Installed), len(res.Skipped), len(res.Failed))
		if len(res.Failed) > 0 {
			return fmt.Errorf("%d extension(s) failed to install", len(res.Failed))
		}
		return nil
	},
}

// extensionsListCmd prints the catalog grouped by category.
var extensionsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List the curated extension catalog",
	Run: func(cmd *cobra.Command, args []string) {
		lastCategory := ""
		for _, ext := range extensions.Catalog() {
			if ext.Category != lastCategory {
				fmt.Printf("\n%s\n", ext.Category)
				lastCategory = ext.Category
			}
			fmt.Printf("  %s\n", ext.ID)
		}
	},
}

// init wires up the extensions subcommands and their flags.
func init() {
	extensionsCmd.PersistentFlags().StringVar(&extEditor, "editor", "code", "Editor CLI to use (code or cursor)")
	extensionsInstallCmd.Flags().BoolVar(&extForce, "force", false, "Reinstall extensions that are already installed")

	extensionsCmd.AddCommand(extensionsInstallCmd)
	extensionsCmd.AddCommand(extensionsListCmd)
	rootCmd.AddCommand(extensionsCmd)
}
