// Package commit implements the project's conventional-commit helper: the
// fixed type and scope catalogs, message generation, and installation of the
// shared commit template.
package commit

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"threew-setup/internal/runner"
)

// Category is one commit type with its emoji and a short description, as
// printed by `commit types` and embedded into generated messages.
type Category struct {
	Name        string
	Emoji       string
	Description string
}

// types is the fixed conventional-commit type set used across the project.
// The order here is the order the help output prints in.
var types = []Category{
	{"feat", "✨", "A new feature"},
	{"fix", "🐛", "A bug fix"},
	{"docs", "📚", "Documentation only changes"},
	{"style", "💄", "Formatting, missing semicolons, no code change"},
	{"refactor", "♻️", "Code change that neither fixes a bug nor adds a feature"},
	{"perf", "⚡", "A code change that improves performance"},
	{"test", "🧪", "Adding or correcting tests"},
	{"build", "📦", "Changes to the build system or dependencies"},
	{"ci", "👷", "Changes to CI configuration"},
	{"chore", "🔧", "Other changes that don't modify src or test files"},
	{"revert", "⏪", "Reverts a previous commit"},
}

// scopes is the fixed scope set, matching the areas of the 3W codebase.
var scopes = []string{
	"data",
	"models",
	"aws",
	"gcp",
	"mlflow",
	"config",
	"deps",
	"notebooks",
	"docs",
	"ci",
}

// Types returns the commit type catalog.
func Types() []Category {
	return types
}

// Scopes returns the commit scope catalog.
func Scopes() []string {
	return scopes
}

// lookupType returns the category for a type name, or false when the name is
// not in the catalog.
func lookupType(name string) (Category, bool) {
	for _, c := range types {
		if c.Name == name {
			return c, true
		}
	}
	return Category{}, false
}

// validScope reports whether the scope is in the catalog.
func validScope(scope string) bool {
	for _, s := range scopes {
		if s == scope {
			return true
		}
	}
	return false
}

// Generate builds a commit message of the form `type(scope): <emoji> message`
// from a validated type and scope. Breaking changes get the conventional `!`
// marker before the colon.
func Generate(typ, scope, message string, breaking bool) (string, error) {
	cat, ok := lookupType(typ)
	if !ok {
		return "", fmt.Errorf("unknown commit type %q, run `threew-setup commit types` for the list", typ)
	}
	if !validScope(scope) {
		return "", fmt.Errorf("unknown commit scope %q, run `threew-setup commit scopes` for the list", scope)
	}
	message = strings.TrimSpace(message)
	if message == "" {
		return "", fmt.Errorf("commit message must not be empty")
	}

	bang := ""
	if breaking {
		bang = "!"
	}
	return fmt.Sprintf("%s(%s)%s: %s %s", cat.Name, scope, bang, cat.Emoji, message), nil
}

// Commit runs `git commit -m <msg>` through the runner. The git precondition
// is checked first so a missing git is reported by name.
func Commit(msg string) error {
	if err := runner.Require("git"); err != nil {
		return err
	}
	_, err := runner.Run("git", "commit", "-m", msg)
	return err
}

// templateBody is the .gitmessage content installed by SetupTemplate. The
// commented catalog keeps the conventions visible inside every editor-driven
// commit.
func templateBody() string {
	var b strings.Builder
	b.WriteString("\n\n")
	b.WriteString("# type(scope): <emoji> subject\n")
	b.WriteString("#\n")
	b.WriteString("# Types:\n")
	for _, c := range types {
		fmt.Fprintf(&b, "#   %-8s %s  %s\n", c.Name, c.Emoji, c.Description)
	}
	b.WriteString("#\n")
	fmt.Fprintf(&b, "# Scopes: %s\n", strings.Join(scopes, ", "))
	return b.String()
}

// SetupTemplate writes the commit template into dir and points git's
// commit.template at it. An existing template is kept unless force is set.
// Returns the template path for reporting.
func SetupTemplate(dir string, force bool) (string, error) {
	if err := runner.Require("git"); err != nil {
		return "", err
	}

	// git resolves a relative commit.template against the working directory
	// of each later commit, so only the absolute path survives subdirectories.
	path, err := filepath.Abs(filepath.Join(dir, ".gitmessage"))
	if err != nil {
		return "", fmt.Errorf("failed to resolve template path: %w", err)
	}
	if _, err := os.Stat(path); err == nil && !force {
		return "", fmt.Errorf("%s already exists, pass --force to overwrite", path)
	}
	if err := os.WriteFile(path, []byte(templateBody()), 0644); err != nil {
		return "", fmt.Errorf("failed to write commit template: %w", err)
	}

	if _, err := runner.Run("git", "config", "commit.template", path); err != nil {
		return "", err
	}
	return path, nil
}
