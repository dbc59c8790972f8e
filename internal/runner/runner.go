// Package runner is the single gateway to external commands. Every subcommand
// that shells out (git, gpg, uv, gcloud, the editor CLI) goes through it, so
// precondition checks, debug tracing, and exit-status handling stay uniform.
package runner

import (
	"fmt"
	"os/exec"
	"strings"

	"threew-setup/internal/logger"
)

// Require verifies that every named executable is resolvable on PATH before
// any mutating action is attempted. The returned error names the first
// missing tool so the user knows exactly what to install.
func Require(names ...string) error {
	for _, name := range names {
		if _, err := exec.LookPath(name); err != nil {
			return fmt.Errorf("required tool %q not found on PATH", name)
		}
	}
	return nil
}

// Has reports whether a single executable is present on PATH. Used for
// diagnostics and optional-tool probes where absence is not an error.
func Has(name string) bool {
	_, err := exec.LookPath(name)
	return err == nil
}

// Run executes an external command and captures combined stdout/stderr.
// A nonzero exit status is wrapped with the full command line and the
// captured output so failures are actionable without re-running by hand.
func Run(name string, args ...string) (string, error) {
	cmd := exec.Command(name, args...)
	logger.Debug("[DEBUG] Running command: %s\n", strings.Join(cmd.Args, " "))
	output, err := cmd.CombinedOutput()
	if err != nil {
		return string(output), fmt.Errorf("%s failed: %w\noutput: %s",
			strings.Join(cmd.Args, " "), err, strings.TrimSpace(string(output)))
	}
	return string(output), nil
}

// Output executes a command and returns trimmed stdout only. Meant for probes
// whose output is parsed rather than shown (e.g. `code --list-extensions` or
// `gcloud ... describe`); stderr is left out of the result on purpose.
func Output(name string, args ...string) (string, error) {
	cmd := exec.Command(name, args...)
	logger.Debug("[DEBUG] Running command: %s\n", strings.Join(cmd.Args, " "))
	out, err := cmd.Output()
	if err != nil {
		return "", fmt.Errorf("%s failed: %w", strings.Join(cmd.Args, " "), err)
	}
	return strings.TrimSpace(string(out)), nil
}
