// Package dataset fetches the 3W dataset archive and unpacks it into the
// local data directory. The archive URL and revision come from
// config/3w_config.yaml; the installed revision is recorded in the state file
// so a second fetch of the same revision is a no-op.
package dataset

import (
	"fmt"
	"io"
	"net/http"
	"os"
	"path"
	"path/filepath"

	"threew-setup/internal/config"
	"threew-setup/internal/logger"
)

// DefaultURL points at the upstream 3W dataset release archive. Overridable
// via config or the --url flag for mirrors.
const DefaultURL = "https://github.com/petrobras/3W/archive/refs/tags/v1.1.0.zip"

// Spec is what a fetch needs: where the archive lives, which revision it is,
// and where to unpack it.
type Spec struct {
	URL      string
	Revision string
	Dir      string
}

// SpecFromConfig builds a Spec from the project config, filling defaults for
// anything the file leaves empty.
func SpecFromConfig(cfg config.ProjectConfig) Spec {
	spec := Spec{
		URL:      cfg.Dataset.URL,
		Revision: cfg.Dataset.Revision,
		Dir:      cfg.Dataset.Dir,
	}
	if spec.URL == "" {
		spec.URL = DefaultURL
	}
	if spec.Revision == "" {
		spec.Revision = "1.1.0"
	}
	if spec.Dir == "" {
		spec.Dir = "data/dataset"
	}
	return spec
}

// Fetch downloads and extracts the dataset archive. When the state file
// already records this revision in this directory and the directory is still
// there, the download is skipped. Returns whether anything was fetched.
func Fetch(spec Spec, st *config.State) (bool, error) {
	if st.Dataset.Revision == spec.Revision && st.Dataset.Dir == spec.Dir {
		if _, err := os.Stat(spec.Dir); err == nil {
			logger.Info("[INFO] Dataset revision %s already present in %s. Skipping.\n", spec.Revision, spec.Dir)
			return false, nil
		}
		logger.Warn("[WARN] State records revision %s but %s is missing. Refetching.\n", spec.Revision, spec.Dir)
	}

	tmp := filepath.Join(os.TempDir(), path.Base(spec.URL))
	logger.Info("[INFO] Downloading 3W dataset %s...\n", spec.Revision)
	if err := downloadFile(spec.URL, tmp); err != nil {
		return false, err
	}
	defer os.Remove(tmp)

	if err := os.MkdirAll(spec.Dir, 0755); err != nil {
		return false, fmt.Errorf("failed to create dataset directory: %w", err)
	}

	logger.Info("[INFO] Extracting %s into %s...\n", path.Base(spec.URL), spec.Dir)
	if _, err := ExtractArchive(tmp, spec.Dir); err != nil {
		return false, err
	}

	st.Dataset = config.DatasetState{Revision: spec.Revision, Dir: spec.Dir}
	logger.Info("[INFO] Dataset %s ready in %s\n", spec.Revision, spec.Dir)
	return true, nil
}

// Info describes what is on disk for the info subcommand.
type Info struct {
	Revision  string // Revision recorded in state (empty when never fetched)
	Dir       string // Target directory
	Present   bool   // Directory exists and is non-empty
	FileCount int    // Number of files under the directory
}

// Inspect reports the local dataset status.
func Inspect(spec Spec, st *config.State) Info {
	info := Info{Revision: st.Dataset.Revision, Dir: spec.Dir}

	count := 0
	_ = filepath.WalkDir(spec.Dir, func(p string, d os.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if !d.IsDir() {
			count++
		}
		return nil
	})
	info.FileCount = count
	info.Present = count > 0
	return info
}

// downloadFile downloads the content located at the specified URL and saves
// it to the destination path. It returns an error if the download or the file
// write fails.
func downloadFile(url, destPath string) error {
	// Make an HTTP GET request to the given URL
	resp, err := http.Get(url)
	if err != nil {
		return fmt.Errorf("failed to GET %s: %w", url, err)
	}
	// Ensure the response body stream is closed when the function returns,
	// avoiding resource leaks.
	defer func() {
		if cerr := resp.Body.Close(); cerr != nil {
			logger.Error("[ERROR] Failed to close response body: %s\n", cerr)
		}
	}()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("download of %s failed: HTTP status %d", url, resp.StatusCode)
	}

	// Create or truncate the file at destPath to write the downloaded content
	out, err := os.Create(destPath)
	if err != nil {
		return fmt.Errorf("failed to create file %s: %w", destPath, err)
	}
	defer func() {
		if cerr := out.Close(); cerr != nil {
			logger.Error("[ERROR] Failed to close destination file: %s\n", cerr)
		}
	}()

	// Copy the entire response body (downloaded data) into the destination file
	if _, err := io.Copy(out, resp.Body); err != nil {
		return fmt.Errorf("failed to write response to file: %w", err)
	}

	logger.Debug("[DEBUG] Downloaded archive to: %s\n", destPath)
	return nil
}
