// Package envsetup bootstraps the local development environment: the Python
// virtualenv, shell rc additions, GPG commit signing, the .env scaffold, and
// the WSL2 diagnostics the doctor command reports.
package envsetup

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"threew-setup/internal/logger"
	"threew-setup/internal/runner"
)

// BootstrapPython creates the project virtualenv and syncs dependencies.
// uv is the primary tool; when it is missing the venv is still created with
// python3 so the environment is usable, but dependency sync is skipped with a
// warning because requirements resolution belongs to uv's lock file.
func BootstrapPython(projectDir string) error {
	venv := filepath.Join(projectDir, ".venv")

	if runner.Has("uv") {
		if _, err := os.Stat(venv); os.IsNotExist(err) {
			logger.Info("[INFO] Creating virtualenv at %s...\n", venv)
			if _, err := runner.Run("uv", "venv", venv); err != nil {
				return err
			}
		} else {
			logger.Info("[INFO] Virtualenv %s already exists. Skipping.\n", venv)
		}

		logger.Info("[INFO] Syncing dependencies with uv...\n")
		if _, err := runner.Run("uv", "sync"); err != nil {
			return err
		}
		return exportRequirements()
	}

	// python3 fallback keeps a bare machine workable.
	if err := runner.Require("python3"); err != nil {
		return fmt.Errorf("neither uv nor python3 available: %w", err)
	}
	if _, err := os.Stat(venv); os.IsNotExist(err) {
		logger.Info("[INFO] uv not found, creating virtualenv with python3...\n")
		if _, err := runner.Run("python3", "-m", "venv", venv); err != nil {
			return err
		}
	}
	logger.Warn("[WARN] uv not found. Install uv and re-run to sync dependencies.\n")
	return nil
}

// exportRequirements regenerates requirements.txt from the uv lock file so
// consumers that can't read uv.lock (SageMaker images, docker builds) stay in
// sync.
func exportRequirements() error {
	logger.Info("[INFO] Exporting requirements.txt from lock file...\n")
	_, err := runner.Run("uv", "export", "--frozen", "--output-file=requirements.txt")
	return err
}

// UpdateDependencies is the security-update flow: refresh the lock file, run
// the audit, and re-export requirements.txt. pyproject.toml is backed up
// before touching anything and restored when the sync fails — the only
// rollback behavior in the whole tool.
func UpdateDependencies(projectDir string) error {
	pyproject := filepath.Join(projectDir, "pyproject.toml")
	if _, err := os.Stat(pyproject); err != nil {
		return fmt.Errorf("pyproject.toml not found, run from the project root: %w", err)
	}
	if err := runner.Require("uv"); err != nil {
		return err
	}

	backup := pyproject + ".bak"
	if err := copyFile(pyproject, backup); err != nil {
		return fmt.Errorf("failed to back up pyproject.toml: %w", err)
	}
	logger.Debug("[DEBUG] Backed up pyproject.toml to %s\n", backup)

	lock := filepath.Join(projectDir, "uv.lock")
	if _, err := os.Stat(lock); err == nil {
		logger.Info("[INFO] Removing old lock file %s\n", lock)
		if err := os.Remove(lock); err != nil {
			return fmt.Errorf("failed to remove lock file: %w", err)
		}
	}

	logger.Info("[INFO] Resyncing dependencies...\n")
	if _, err := runner.Run("uv", "sync"); err != nil {
		logger.Error("[ERROR] Sync failed, restoring pyproject.toml from backup\n")
		if rerr := copyFile(backup, pyproject); rerr != nil {
			logger.Error("[ERROR] Restore failed too, backup kept at %s: %v\n", backup, rerr)
			return err
		}
		_ = os.Remove(backup)
		return err
	}

	// Audit failures are warnings: the index may be unreachable offline and
	// the refreshed lock file is still valid.
	logger.Info("[INFO] Running security audit...\n")
	if _, err := runner.Run("uv", "pip", "audit"); err != nil {
		logger.Warn("[WARN] Security audit could not be completed: %v\n", err)
	}

	if err := exportRequirements(); err != nil {
		return err
	}

	_ = os.Remove(backup)
	logger.Info("[INFO] Dependency update complete.\n")
	return nil
}

// copyFile copies src to dst preserving the source mode.
func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	info, err := in.Stat()
	if err != nil {
		return err
	}

	out, err := os.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, info.Mode())
	if err != nil {
		return err
	}
	defer out.Close()

	_, err = io.Copy(out, in)
	return err
}
