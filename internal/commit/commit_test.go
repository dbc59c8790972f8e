package commit

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTypesCatalog(t *testing.T) {
	names := make([]string, 0, len(Types()))
	for _, c := range Types() {
		assert.NotEmpty(t, c.Emoji, "type %s must carry an emoji", c.Name)
		assert.NotEmpty(t, c.Description)
		names = append(names, c.Name)
	}

	// The documented categories the old script printed must stay present.
	assert.Contains(t, names, "feat")
	assert.Contains(t, names, "fix")
	assert.Contains(t, names, "docs")
	assert.Contains(t, names, "chore")
}

func TestScopesCatalog(t *testing.T) {
	assert.NotEmpty(t, Scopes())
	assert.Contains(t, Scopes(), "data")
	assert.Contains(t, Scopes(), "aws")
	assert.Contains(t, Scopes(), "gcp")
}

func TestGenerate(t *testing.T) {
	tests := []struct {
		name     string
		typ      string
		scope    string
		message  string
		breaking bool
		want     string
		wantErr  string
	}{
		{
			name: "feature message", typ: "feat", scope: "data", message: "add sliding-window loader",
			want: "feat(data): ✨ add sliding-window loader",
		},
		{
			name: "fix message", typ: "fix", scope: "aws", message: "handle missing region",
			want: "fix(aws): 🐛 handle missing region",
		},
		{
			name: "breaking change gets the bang", typ: "refactor", scope: "models", message: "drop legacy API", breaking: true,
			want: "refactor(models)!: ♻️ drop legacy API",
		},
		{
			name: "message is trimmed", typ: "docs", scope: "docs", message: "  update readme  ",
			want: "docs(docs): 📚 update readme",
		},
		{name: "unknown type", typ: "feature", scope: "data", message: "x", wantErr: "unknown commit type"},
		{name: "unknown scope", typ: "feat", scope: "frontend", message: "x", wantErr: "unknown commit scope"},
		{name: "empty message", typ: "feat", scope: "data", message: "   ", wantErr: "must not be empty"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Generate(tt.typ, tt.scope, tt.message, tt.breaking)
			if tt.wantErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

// fakeGit plants a git stub that records its invocations, so SetupTemplate is
// testable outside a real repository.
func fakeGit(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	logPath := filepath.Join(dir, "calls.log")
	script := `#!/bin/sh
echo "$@" >> "` + logPath + `"
exit 0
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "git"), []byte(script), 0755))
	t.Setenv("PATH", dir+string(os.PathListSeparator)+os.Getenv("PATH"))
	return logPath
}

func TestSetupTemplate(t *testing.T) {
	logPath := fakeGit(t)
	dir := t.TempDir()

	path, err := SetupTemplate(dir, false)
	require.NoError(t, err)
	assert.True(t, filepath.IsAbs(path), "git must be pointed at an absolute template path")
	assert.FileExists(t, path)

	raw, err := os.ReadFile(logPath)
	require.NoError(t, err)
	assert.Contains(t, string(raw), "config commit.template "+path)

	t.Run("refuses overwrite without force", func(t *testing.T) {
		_, err := SetupTemplate(dir, false)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "--force")
	})
}

func TestTemplateBody(t *testing.T) {
	body := templateBody()
	assert.Contains(t, body, "feat")
	assert.Contains(t, body, "fix")
	assert.Contains(t, body, "Scopes:")
	// Every line after the editable header must be a comment so git does not
	// pick catalog text up into real commit messages.
	assert.Contains(t, body, "# type(scope):")
}
