package dataset

import (
	"archive/tar"
	"archive/zip"
	"bytes"
	"compress/gzip"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"threew-setup/internal/config"
)

// buildZip produces an in-memory archive shaped like a dataset release: a
// top-level folder with per-problem parquet files.
func buildZip(t *testing.T) []byte {
	t.Helper()
	var buf bytes.Buffer
	w := zip.NewWriter(&buf)

	files := map[string]string{
		"3W-1.1.0/dataset.ini":                "[Versions]\nDATASET=1.1.0\n",
		"3W-1.1.0/problem_1/WELL-00001.parquet": "not-really-parquet",
		"3W-1.1.0/problem_2/WELL-00002.parquet": "not-really-parquet",
	}
	for name, content := range files {
		f, err := w.Create(name)
		require.NoError(t, err)
		_, err = f.Write([]byte(content))
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())
	return buf.Bytes()
}

func TestExtractArchiveZip(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "3w.zip")
	require.NoError(t, os.WriteFile(src, buildZip(t), 0644))

	dest := t.TempDir()
	top, err := ExtractArchive(src, dest)
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(dest, "3W-1.1.0"), top)
	assert.FileExists(t, filepath.Join(dest, "3W-1.1.0", "problem_1", "WELL-00001.parquet"))
	assert.FileExists(t, filepath.Join(dest, "3W-1.1.0", "dataset.ini"))
}

func TestExtractArchiveTarGz(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "3w.tar.gz")

	var buf bytes.Buffer
	gw := gzip.NewWriter(&buf)
	tw := tar.NewWriter(gw)
	content := []byte("[Versions]\nDATASET=1.1.0\n")
	require.NoError(t, tw.WriteHeader(&tar.Header{
		Name: "3W-1.1.0/dataset.ini", Mode: 0644, Size: int64(len(content)), Typeflag: tar.TypeReg,
	}))
	_, err := tw.Write(content)
	require.NoError(t, err)
	require.NoError(t, tw.Close())
	require.NoError(t, gw.Close())
	require.NoError(t, os.WriteFile(src, buf.Bytes(), 0644))

	dest := t.TempDir()
	top, err := ExtractArchive(src, dest)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dest, "3W-1.1.0"), top)
	assert.FileExists(t, filepath.Join(dest, "3W-1.1.0", "dataset.ini"))
}

func TestExtractArchiveRejectsEscapingEntries(t *testing.T) {
	var buf bytes.Buffer
	w := zip.NewWriter(&buf)
	f, err := w.Create("../evil.txt")
	require.NoError(t, err)
	_, err = f.Write([]byte("nope"))
	require.NoError(t, err)
	require.NoError(t, w.Close())

	dir := t.TempDir()
	src := filepath.Join(dir, "bad.zip")
	require.NoError(t, os.WriteFile(src, buf.Bytes(), 0644))

	dest := t.TempDir()
	_, err = ExtractArchive(src, dest)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "escapes")
	assert.NoFileExists(t, filepath.Join(filepath.Dir(dest), "evil.txt"))
}

func TestExtractArchiveUnsupported(t *testing.T) {
	_, err := ExtractArchive("dataset.rar", t.TempDir())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported archive format")
}

func TestFetch(t *testing.T) {
	archive := buildZip(t)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write(archive)
	}))
	t.Cleanup(server.Close)

	dir := t.TempDir()
	spec := Spec{
		URL:      server.URL + "/v1.1.0.zip",
		Revision: "1.1.0",
		Dir:      filepath.Join(dir, "data", "dataset"),
	}
	st := config.LoadState(filepath.Join(dir, "state.json"))

	fetched, err := Fetch(spec, st)
	require.NoError(t, err)
	assert.True(t, fetched)
	assert.FileExists(t, filepath.Join(spec.Dir, "3W-1.1.0", "problem_1", "WELL-00001.parquet"))
	assert.Equal(t, "1.1.0", st.Dataset.Revision)

	t.Run("same revision is skipped", func(t *testing.T) {
		fetched, err := Fetch(spec, st)
		require.NoError(t, err)
		assert.False(t, fetched)
	})

	t.Run("new revision refetches", func(t *testing.T) {
		next := spec
		next.Revision = "1.2.0"
		fetched, err := Fetch(next, st)
		require.NoError(t, err)
		assert.True(t, fetched)
		assert.Equal(t, "1.2.0", st.Dataset.Revision)
	})
}

func TestFetchDownloadFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}))
	t.Cleanup(server.Close)

	dir := t.TempDir()
	st := config.LoadState(filepath.Join(dir, "state.json"))

	_, err := Fetch(Spec{URL: server.URL + "/missing.zip", Revision: "9.9.9", Dir: dir}, st)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "404")
	assert.Empty(t, st.Dataset.Revision, "state must not record a failed fetch")
}

func TestSpecFromConfig(t *testing.T) {
	t.Run("defaults fill empty config", func(t *testing.T) {
		spec := SpecFromConfig(config.ProjectConfig{})
		assert.Equal(t, DefaultURL, spec.URL)
		assert.Equal(t, "1.1.0", spec.Revision)
		assert.Equal(t, "data/dataset", spec.Dir)
	})

	t.Run("config values win", func(t *testing.T) {
		cfg := config.ProjectConfig{}
		cfg.Dataset.URL = "https://mirror.example.com/3w.tar.gz"
		cfg.Dataset.Revision = "2.0.0"
		cfg.Dataset.Dir = "/srv/3w"
		spec := SpecFromConfig(cfg)
		assert.Equal(t, "https://mirror.example.com/3w.tar.gz", spec.URL)
		assert.Equal(t, "2.0.0", spec.Revision)
		assert.Equal(t, "/srv/3w", spec.Dir)
	})
}

func TestInspect(t *testing.T) {
	dir := t.TempDir()
	spec := Spec{Dir: filepath.Join(dir, "data")}
	st := config.LoadState(filepath.Join(dir, "state.json"))

	t.Run("nothing on disk", func(t *testing.T) {
		info := Inspect(spec, st)
		assert.False(t, info.Present)
		assert.Zero(t, info.FileCount)
	})

	t.Run("files present", func(t *testing.T) {
		require.NoError(t, os.MkdirAll(filepath.Join(spec.Dir, "problem_1"), 0755))
		require.NoError(t, os.WriteFile(filepath.Join(spec.Dir, "problem_1", "w.parquet"), []byte("x"), 0644))
		st.Dataset.Revision = "1.1.0"

		info := Inspect(spec, st)
		assert.True(t, info.Present)
		assert.Equal(t, 1, info.FileCount)
		assert.Equal(t, "1.1.0", info.Revision)
	})
}
