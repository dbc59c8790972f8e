// Package extensions installs the project's curated VS Code/Cursor extension
// set through the editor CLI. The catalog mirrors the team's shared editor
// profile; categories exist only for readable listing output.
package extensions

import (
	"fmt"
	"strings"

	"threew-setup/internal/config"
	"threew-setup/internal/logger"
	"threew-setup/internal/runner"
)

// Extension is one catalog entry: the marketplace id plus its display
// category.
type Extension struct {
	ID       string
	Category string
}

// catalog is the curated extension set, grouped the way the old installer
// script printed it.
var catalog = []Extension{
	// Python development
	{"ms-python.python", "Python Development"},
	{"ms-python.vscode-pylance", "Python Development"},
	{"ms-python.debugpy", "Python Development"},
	{"ms-python.isort", "Python Development"},
	{"charliermarsh.ruff", "Python Development"},

	// Data science and Jupyter
	{"ms-toolsai.jupyter", "Data Science"},
	{"ms-toolsai.jupyter-keymap", "Data Science"},

	// Development tools
	{"yzhang.markdown-all-in-one", "Development Tools"},
	{"esbenp.prettier-vscode", "Development Tools"},
	{"ms-vscode.makefile-tools", "Development Tools"},

	// Docker and containers
	{"ms-azuretools.vscode-docker", "Docker & Containers"},
	{"ms-kubernetes-tools.vscode-kubernetes-tools", "Docker & Containers"},

	// Git and version control
	{"eamodio.gitlens", "Git & Version Control"},
	{"donjayamanne.githistory", "Git & Version Control"},
	{"github.vscode-github-actions", "Git & Version Control"},
	{"github.vscode-pull-request-github", "Git & Version Control"},
	{"vivaxy.vscode-conventional-commits", "Git & Version Control"},

	// Themes and icons
	{"pkief.material-icon-theme", "Themes & Icons"},
	{"github.github-vscode-theme", "Themes & Icons"},

	// Testing
	{"littlefoxteam.vscode-python-test-adapter", "Testing"},

	// Code quality
	{"sonarsource.sonarlint-vscode", "Code Quality"},
	{"streetsidesoftware.code-spell-checker", "Code Quality"},
	{"streetsidesoftware.code-spell-checker-portuguese-brazilian", "Code Quality"},

	// Language support
	{"redhat.vscode-yaml", "Language Support"},
	{"tamasfe.even-better-toml", "Language Support"},
	{"naumovs.color-highlight", "Language Support"},
	{"oderwat.indent-rainbow", "Language Support"},

	// Utilities
	{"christian-kohler.path-intellisense", "Utilities"},
	{"gruntfuggly.todo-tree", "Utilities"},

	// Database and APIs
	{"humao.rest-client", "Database & APIs"},
	{"jebbs.plantuml", "Database & APIs"},
}

// Catalog returns the curated extension list in display order.
func Catalog() []Extension {
	return catalog
}

// Installed queries the editor once for its installed extensions and returns
// them as a lowercase id set. Extension ids are case-insensitive on the
// marketplace but the CLIs print them lowercased.
func Installed(editor string) (map[string]bool, error) {
	out, err := runner.Output(editor, "--list-extensions")
	if err != nil {
		return nil, fmt.Errorf("failed to list installed extensions: %w", err)
	}
	return parseList(out), nil
}

// parseList turns `--list-extensions` output into a lowercase id set.
func parseList(out string) map[string]bool {
	installed := make(map[string]bool)
	for _, line := range strings.Split(out, "\n") {
		id := strings.ToLower(strings.TrimSpace(line))
		if id != "" {
			installed[id] = true
		}
	}
	return installed
}

// Result aggregates one install run for the summary line.
type Result struct {
	Installed []string
	Skipped   []string
	Failed    []string
}

// Install drives the editor CLI over the whole catalog. Already-installed
// extensions are skipped unless force is set. A failing extension is logged
// and counted but does not stop the remaining installs; the old script worked
// the same way so one flaky marketplace entry can't abort a fresh machine
// setup. The caller decides the exit status from Result.Failed.
func Install(editor string, force bool, st *config.State) (Result, error) {
	var res Result

	if err := runner.Require(editor); err != nil {
		return res, err
	}

	installed, err := Installed(editor)
	if err != nil {
		return res, err
	}
	logger.Debug("[DEBUG] %s reports %d installed extensions\n", editor, len(installed))

	for _, ext := range catalog {
		if installed[strings.ToLower(ext.ID)] && !force {
			logger.Info("[INFO] %s already installed. Skipping.\n", ext.ID)
			res.Skipped = append(res.Skipped, ext.ID)
			continue
		}

		args := []string{"--install-extension", ext.ID}
		if force {
			args = append(args, "--force")
		}
		if _, err := runner.Run(editor, args...); err != nil {
			logger.Error("[ERROR] Failed to install %s: %v\n", ext.ID, err)
			res.Failed = append(res.Failed, ext.ID)
			continue
		}

		logger.Info("[INFO] Installed %s\n", ext.ID)
		res.Installed = append(res.Installed, ext.ID)
		st.Extensions[ext.ID] = config.ExtensionState{Editor: editor, InstalledBySetup: true}
	}

	return res, nil
}
