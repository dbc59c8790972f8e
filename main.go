package main

import (
	"threew-setup/cmd" // Import the cmd package which contains the CLI commands and execution logic
)

// main is the program entry point.
// It delegates to cmd.Execute() which handles command line argument parsing and execution.
//
// This design cleanly separates the CLI interface (cmd package) from main,
// allowing easier testing, extension, and reuse of the CLI commands.
//
// The threew-setup project is the setup orchestrator for the Petrobras 3W
// offshore-wells anomaly-detection project. It replaces the loose shell and
// PowerShell scripts that used to live next to the Python code with a single
// binary that:
//   - Prints and generates conventional-commit messages with the project's
//     emoji-prefixed types and scopes, and installs the commit template
//   - Installs the curated VS Code/Cursor extension set through the editor CLI
//   - Bootstraps the local environment: Python virtualenv via uv, shell
//     aliases, Oh-My-Zsh, GPG commit signing, and .env scaffolding
//   - Provisions the cloud side: the S3/GCS buckets with their standard folder
//     layout, CloudWatch log groups, the training service account, and
//     Workload Identity Federation for GitHub Actions
//   - Fetches and extracts the 3W dataset archive
//   - Diagnoses the workstation (missing tools, WSL2 quirks, venv state)
//
// Error handling strategy:
//   - Every external tool is checked for presence before anything mutating is
//     attempted, and the first failing step aborts the running command
//   - Commands surface their error through cobra and the process exits with a
//     non-zero status, matching the fail-fast discipline of the old scripts
//
// Integration points:
//   - External collaborators (git, gpg, uv, gcloud, the editor CLI) are
//     invoked as subprocesses and judged by their exit status
//   - AWS resources are managed through the AWS SDK, GCS through the Cloud
//     Storage SDK; only gcloud-exclusive surfaces (service accounts, WIF)
//     shell out
//   - A local JSON state file tracks applied steps so re-runs skip work that
//     is already done
func main() {
	cmd.Execute()
}
