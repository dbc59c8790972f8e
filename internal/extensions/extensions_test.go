package extensions

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"threew-setup/internal/config"
)

func TestCatalog(t *testing.T) {
	cat := Catalog()
	require.NotEmpty(t, cat)

	ids := make(map[string]bool)
	for _, ext := range cat {
		assert.NotEmpty(t, ext.Category, "%s must have a category", ext.ID)
		assert.False(t, ids[ext.ID], "duplicate catalog entry %s", ext.ID)
		ids[ext.ID] = true
	}

	assert.True(t, ids["ms-python.python"])
	assert.True(t, ids["eamodio.gitlens"])
}

func TestParseList(t *testing.T) {
	out := "ms-python.python\nEamodio.GitLens\n\n  charliermarsh.ruff  \n"
	installed := parseList(out)

	assert.True(t, installed["ms-python.python"])
	assert.True(t, installed["eamodio.gitlens"], "ids must be compared lowercased")
	assert.True(t, installed["charliermarsh.ruff"])
	assert.Len(t, installed, 3)
}

// fakeEditor drops a shell script named `editor` onto PATH that lists two
// preinstalled extensions and fails for one marketplace id, so Install can be
// exercised without a real VS Code.
func fakeEditor(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	script := `#!/bin/sh
case "$1" in
--list-extensions)
    echo ms-python.python
    echo eamodio.gitlens
    ;;
--install-extension)
    if [ "$2" = "sonarsource.sonarlint-vscode" ]; then
        echo "marketplace error" 1>&2
        exit 1
    fi
    ;;
esac
exit 0
`
	path := filepath.Join(dir, "editor")
	require.NoError(t, os.WriteFile(path, []byte(script), 0755))
	t.Setenv("PATH", dir+string(os.PathListSeparator)+os.Getenv("PATH"))
	return "editor"
}

func TestInstall(t *testing.T) {
	editor := fakeEditor(t)
	st := config.LoadState(filepath.Join(t.TempDir(), "state.json"))

	res, err := Install(editor, false, st)
	require.NoError(t, err)

	// Preinstalled extensions are skipped, one id fails, the rest install.
	assert.Contains(t, res.Skipped, "ms-python.python")
	assert.Contains(t, res.Skipped, "eamodio.gitlens")
	assert.Equal(t, []string{"sonarsource.sonarlint-vscode"}, res.Failed)
	assert.Len(t, res.Installed, len(Catalog())-len(res.Skipped)-len(res.Failed))

	// Successful installs land in the state file, skipped ones do not.
	assert.True(t, st.Extensions["charliermarsh.ruff"].InstalledBySetup)
	_, tracked := st.Extensions["ms-python.python"]
	assert.False(t, tracked)
}

func TestInstallForceReinstallsEverything(t *testing.T) {
	editor := fakeEditor(t)
	st := config.LoadState(filepath.Join(t.TempDir(), "state.json"))

	res, err := Install(editor, true, st)
	require.NoError(t, err)

	assert.Empty(t, res.Skipped)
	assert.Len(t, res.Installed, len(Catalog())-1)
	assert.Equal(t, []string{"sonarsource.sonarlint-vscode"}, res.Failed)
}

func TestInstallMissingEditor(t *testing.T) {
	st := config.LoadState(filepath.Join(t.TempDir(), "state.json"))

	_, err := Install("no-such-editor-3w", false, st)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no-such-editor-3w")
	assert.Empty(t, st.Extensions, "nothing may be attempted when the editor CLI is missing")
}
