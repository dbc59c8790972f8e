package cmd

import (
	"os"

	"github.com/spf13/cobra"

	"threew-setup/internal/config"
	"threew-setup/internal/envsetup"
	"threew-setup/internal/logger"
)

// scaffoldForce controls whether `bootstrap env` may overwrite existing files.
var scaffoldForce bool

// bootstrapCmd groups the environment bootstrap steps. `bootstrap all` runs
// the steps a fresh machine needs; the individual subcommands exist for
// re-running one step after it failed.
var bootstrapCmd = &cobra.Command{
	Use:   "bootstrap",
	Short: "Bootstrap the development environment (venv, shell, env files)",
}

// bootstrapPythonCmd creates the virtualenv and syncs dependencies.
var bootstrapPythonCmd = &cobra.Command{
	Use:   "python",
	Short: "Create the virtualenv and sync Python dependencies",
	RunE: func(cmd *cobra.Command, args []string) error {
		return reportStep("python", envsetup.BootstrapPython("."))
	},
}

// bootstrapShellCmd installs Oh-My-Zsh (for zsh users) and appends the
// project aliases to the shell rc file.
var bootstrapShellCmd = &cobra.Command{
	Use:   "shell",
	Short: "Add project aliases to the shell rc file",
	RunE: func(cmd *cobra.Command, args []string) error {
		return reportStep("shell", bootstrapShell())
	},
}

// bootstrapGPGCmd turns on signed commits using the first GPG secret key.
var bootstrapGPGCmd = &cobra.Command{
	Use:   "gpg",
	Short: "Enable GPG commit signing globally",
	RunE: func(cmd *cobra.Command, args []string) error {
		return reportStep("gpg", envsetup.ConfigureGPGSigning())
	},
}

// bootstrapEnvCmd writes the .env / .env.aws scaffolds and the project config
// scaffold. Existing files are kept unless --force is set.
var bootstrapEnvCmd = &cobra.Command{
	Use:   "env",
	Short: "Write the .env, .env.aws and config scaffolds",
	RunE: func(cmd *cobra.Command, args []string) error {
		return reportStep("env", bootstrapEnv(scaffoldForce))
	},
}

// bootstrapAllCmd runs the fresh-machine sequence. GPG signing is left out:
// it needs a generated key and is opt-in via `bootstrap gpg`.
var bootstrapAllCmd = &cobra.Command{
	Use:   "all",
	Short: "Run the full bootstrap sequence (python, shell, env)",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := reportStep("python", envsetup.BootstrapPython(".")); err != nil {
			return err
		}
		if err := reportStep("shell", bootstrapShell()); err != nil {
			return err
		}
		return reportStep("env", bootstrapEnv(scaffoldForce))
	},
}

// bootstrapShell is the shared shell step: Oh-My-Zsh for zsh users, then the
// project aliases in the rc file.
func bootstrapShell() error {
	home, err := os.UserHomeDir()
	if err != nil {
		return err
	}

	shell := envsetup.DetectShell()
	if shell == "zsh" {
		if err := envsetup.InstallOhMyZsh(home); err != nil {
			return err
		}
	}
	return envsetup.AppendShellSetup(home, shell, envsetup.ProjectShellLines("."))
}

// bootstrapEnv writes the three scaffolds: .env, .env.aws, and
// config/3w_config.yaml. Existing files are skipped so a second run exits
// clean; --force rewrites them.
func bootstrapEnv(force bool) error {
	if !scaffoldPresent(".env", force) {
		if err := envsetup.WriteEnvScaffold(".env", envsetup.DefaultEnv(), force); err != nil {
			return err
		}
	}
	if !scaffoldPresent(".env.aws", force) {
		if err := envsetup.WriteEnvScaffold(".env.aws", envsetup.DefaultAWSEnv(), force); err != nil {
			return err
		}
	}
	if scaffoldPresent(config.DefaultProjectConfigPath, force) {
		return nil
	}
	return config.WriteProjectScaffold(config.DefaultProjectConfigPath, config.ProjectConfig{}, force)
}

// scaffoldPresent reports whether an existing scaffold should be kept, with
// the skip logged. force always rewrites.
func scaffoldPresent(path string, force bool) bool {
	if force {
		return false
	}
	if _, err := os.Stat(path); err == nil {
		logger.Info("[INFO] %s already exists. Skipping.\n", path)
		return true
	}
	return false
}

// reportStep logs the step outcome and records completed steps in the state
// file so `doctor` can show what has been run.
func reportStep(step string, err error) error {
	if err != nil {
		logger.Error("[ERROR] Bootstrap step %s failed: %v\n", step, err)
		return err
	}

	st := config.LoadState(statePath)
	st.Bootstrap[step] = "done"
	config.SaveState(statePath, st)

	logger.Info("[INFO] Bootstrap step %s complete.\n", step)
	return nil
}

// init wires up the bootstrap subcommands and their flags.
func init() {
	bootstrapEnvCmd.Flags().BoolVar(&scaffoldForce, "force", false, "Overwrite existing scaffold files")
	bootstrapAllCmd.Flags().BoolVar(&scaffoldForce, "force", false, "Overwrite existing scaffold files")

	bootstrapCmd.AddCommand(bootstrapPythonCmd)
	bootstrapCmd.AddCommand(bootstrapShellCmd)
	bootstrapCmd.AddCommand(bootstrapGPGCmd)
	bootstrapCmd.AddCommand(bootstrapEnvCmd)
	bootstrapCmd.AddCommand(bootstrapAllCmd)
	rootCmd.AddCommand(bootstrapCmd)
}
