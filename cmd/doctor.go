package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"threew-setup/internal/envsetup"
	"threew-setup/internal/logger"
	"threew-setup/internal/runner"
)

// doctorCmd checks the workstation: required and optional tools, the active
// virtualenv, and WSL2 specifics when running under WSL. Missing required
// tools fail the run; everything else is informational.
var doctorCmd = &cobra.Command{
	Use:   "doctor",
	Short: "Check the workstation for required and optional tools",
	RunE: func(cmd *cobra.Command, args []string) error {
		missing := 0

		// git is non-negotiable; Python tooling accepts uv or a bare
		// python3.
		for _, tool := range []string{"git"} {
			if runner.Has(tool) {
				logger.Info("[INFO] %-8s OK\n", tool)
			} else {
				logger.Error("[ERROR] %-8s MISSING (required)\n", tool)
				missing++
			}
		}
		switch {
		case runner.Has("uv"):
			logger.Info("[INFO] %-8s OK\n", "uv")
		case runner.Has("python3"):
			logger.Warn("[WARN] %-8s MISSING, python3 found (install uv for dependency sync)\n", "uv")
		default:
			logger.Error("[ERROR] %-8s MISSING (required: uv or python3)\n", "uv")
			missing++
		}

		for _, tool := range []string{"docker", "gpg", "aws", "gcloud", "gsutil", "code"} {
			if runner.Has(tool) {
				logger.Info("[INFO] %-8s OK\n", tool)
			} else {
				logger.Warn("[WARN] %-8s MISSING (optional)\n", tool)
			}
		}

		if venv := os.Getenv("VIRTUAL_ENV"); venv != "" {
			logger.Info("[INFO] Virtualenv active: %s\n", venv)
		} else {
			logger.Warn("[WARN] No virtualenv active. Run `source .venv/bin/activate` or the 3w-activate alias.\n")
		}

		if report := envsetup.InspectWSL(); report.IsWSL {
			logger.Info("[INFO] Running under WSL2\n")
			if !report.HasWSLConf {
				logger.Warn("[WARN] /etc/wsl.conf not found; default mount options apply\n")
			}
			if !report.HasDriveMount {
				logger.Warn("[WARN] /mnt/c not mounted; Windows interop unavailable\n")
			}
		}

		if missing > 0 {
			return fmt.Errorf("%d required tool(s) missing", missing)
		}
		logger.Info("[INFO] All required tools present.\n")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(doctorCmd)
}
