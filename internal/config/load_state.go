package config

import (
	"encoding/json" // For JSON encoding and decoding of the state file
	"os"            // For file system operations like reading and writing files

	"threew-setup/internal/logger"
)

// DefaultStatePath is where applied-step state is kept, next to the config.
const DefaultStatePath = "state.json"

// ExtensionState records an editor extension that this tool installed.
type ExtensionState struct {
	Editor           string `json:"editor"`             // CLI used to install it ("code" or "cursor")
	InstalledBySetup bool   `json:"installed_by_setup"` // True when installed by threew-setup, false for external installs seen at sync time
}

// DatasetState records the revision of the 3W dataset present on disk so a
// second fetch of the same revision becomes a no-op.
type DatasetState struct {
	Revision string `json:"revision"` // Release tag that was extracted
	Dir      string `json:"dir"`      // Directory it was extracted into
}

// State holds the entire saved state for the setup tool, keyed by the unique
// identifier of each applied item. It is what makes re-runs idempotent.
type State struct {
	Extensions map[string]ExtensionState `json:"extensions"` // Map from extension id to its state
	Bootstrap  map[string]string         `json:"bootstrap"`  // Map from bootstrap step name to completion marker
	Dataset    DatasetState              `json:"dataset"`    // Installed dataset revision
}

// LoadState loads the saved state from a JSON file at the given path.
// If the file does not exist or cannot be read, it returns a new empty State struct.
// It ensures the maps are non-nil to prevent nil pointer issues.
func LoadState(path string) *State {
	// Read entire state JSON file into memory
	file, err := os.ReadFile(path)
	if err != nil {
		// If file read fails (file missing, permission issues), return empty initialized state
		return &State{
			Extensions: make(map[string]ExtensionState),
			Bootstrap:  make(map[string]string),
		}
	}

	// Parse JSON data into a State struct
	var st State
	_ = json.Unmarshal(file, &st)

	// Defensive: Ensure maps are initialized if JSON contained null for these fields
	if st.Extensions == nil {
		st.Extensions = make(map[string]ExtensionState)
	}
	if st.Bootstrap == nil {
		st.Bootstrap = make(map[string]string)
	}

	return &st
}

// SaveState writes the given State struct to a JSON file at the given path.
// It pretty-prints the JSON with indentation for readability.
// Errors during marshalling or writing are logged but not propagated.
func SaveState(path string, st *State) {
	// Marshal the State struct into indented JSON bytes
	file, err := json.MarshalIndent(st, "", "  ")
	if err != nil {
		// Log marshalling errors, typically should never happen unless invalid data
		logger.Error("[ERROR] Failed to marshal state: %v\n", err)
		return
	}

	// Log debug info showing the full JSON state being written (can be verbose)
	logger.Debug("[DEBUG] Writing state to %s:\n%s\n", path, string(file))

	// Write the JSON bytes to the file with mode 0644 (read/write owner, read others)
	err = os.WriteFile(path, file, 0644)
	if err != nil {
		// Log write errors, e.g., permission denied or disk full
		logger.Error("[ERROR] Failed to write state file %s: %v\n", path, err)
	}
}
