package envsetup

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"threew-setup/internal/logger"
	"threew-setup/internal/runner"
)

// DetectShell attempts to identify the current user's shell by inspecting the
// SHELL env variable. Returns "zsh" or "bash" or defaults to "zsh" if unknown.
func DetectShell() string {
	shell := os.Getenv("SHELL")
	logger.Debug("[DEBUG] Detected shell environment: %s\n", shell)

	// Match common shell strings to either zsh or bash
	if strings.Contains(shell, "zsh") {
		return "zsh"
	} else if strings.Contains(shell, "bash") {
		return "bash"
	}
	// Default fallback
	return "zsh"
}

// rcFileFor maps a shell name to its rc file name, defaulting to .zshrc for
// anything unrecognized.
func rcFileFor(shell string) string {
	switch shell {
	case "bash":
		return ".bashrc"
	default:
		return ".zshrc"
	}
}

// ProjectShellLines builds the rc additions for the project: aliases for
// activating the venv and running the common workflows.
func ProjectShellLines(projectDir string) []string {
	activate := filepath.Join(projectDir, ".venv", "bin", "activate")
	return []string{
		"# threew-setup project helpers",
		fmt.Sprintf("alias 3w-activate=\"source %s\"", activate),
		"alias 3w-test=\"uv run pytest\"",
		"alias 3w-mlflow=\"uv run mlflow ui --port 5000\"",
	}
}

// AppendShellSetup ensures the given lines are present in the shell rc file
// under home, appending only the ones that are missing. Re-running is a
// no-op, so bootstrap can be invoked any number of times.
func AppendShellSetup(home, shell string, lines []string) error {
	rcPath := filepath.Join(home, rcFileFor(shell))

	// Read existing lines from the rc file to avoid duplicates.
	existing := make(map[string]bool)
	if f, err := os.Open(rcPath); err == nil {
		scanner := bufio.NewScanner(f)
		for scanner.Scan() {
			existing[strings.TrimSpace(scanner.Text())] = true
		}
		_ = f.Close()
	}

	file, err := os.OpenFile(rcPath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return fmt.Errorf("unable to open %s for appending: %w", rcPath, err)
	}
	defer file.Close()

	for _, line := range lines {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" || existing[trimmed] {
			logger.Debug("[DEBUG] Line already present or empty: %s\n", trimmed)
			continue
		}
		if _, err := file.WriteString(trimmed + "\n"); err != nil {
			return fmt.Errorf("failed to write to %s: %w", rcPath, err)
		}
		logger.Info("[INFO] Added to %s: %s\n", rcPath, trimmed)
		existing[trimmed] = true
	}
	return nil
}

// InstallOhMyZsh clones Oh-My-Zsh into the user's home when it is not there
// yet. The official installer script is avoided on purpose: it re-execs zsh
// and edits .zshrc itself, which fights with AppendShellSetup.
func InstallOhMyZsh(home string) error {
	target := filepath.Join(home, ".oh-my-zsh")
	if _, err := os.Stat(target); err == nil {
		logger.Info("[INFO] Oh-My-Zsh already installed. Skipping.\n")
		return nil
	}

	if err := runner.Require("git"); err != nil {
		return err
	}
	logger.Info("[INFO] Installing Oh-My-Zsh...\n")
	_, err := runner.Run("git", "clone", "--depth=1",
		"https://github.com/ohmyzsh/ohmyzsh.git", target)
	return err
}
