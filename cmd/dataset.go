package cmd

import (
	"os"

	"github.com/spf13/cobra"

	"threew-setup/internal/config"
	"threew-setup/internal/dataset"
	"threew-setup/internal/logger"
)

// Flags for the dataset subcommands.
var (
	datasetURL      string
	datasetRevision string
	datasetDir      string
)

// datasetCmd groups the 3W dataset helpers: fetching the release archive and
// reporting what is on disk.
var datasetCmd = &cobra.Command{
	Use:   "dataset",
	Short: "Fetch and inspect the 3W dataset",
}

// datasetSpec resolves the fetch spec: config file values when present,
// overridden by the flags.
func datasetSpec() dataset.Spec {
	var cfg config.ProjectConfig
	if _, err := os.Stat(config.DefaultProjectConfigPath); err == nil {
		if loaded, err := config.LoadProject(config.DefaultProjectConfigPath); err == nil {
			cfg = loaded
		}
	}

	spec := dataset.SpecFromConfig(cfg)
	if datasetURL != "" {
		spec.URL = datasetURL
	}
	if datasetRevision != "" {
		spec.Revision = datasetRevision
	}
	if datasetDir != "" {
		spec.Dir = datasetDir
	}
	return spec
}

// datasetFetchCmd downloads and unpacks the dataset archive. A revision that
// is already on disk (per the state file) is skipped.
var datasetFetchCmd = &cobra.Command{
	Use:   "fetch",
	Short: "Download and unpack the dataset archive",
	RunE: func(cmd *cobra.Command, args []string) error {
		spec := datasetSpec()
		st := config.LoadState(statePath)

		fetched, err := dataset.Fetch(spec, st)
		if err != nil {
			logger.Error("[ERROR] %v\n", err)
			return err
		}
		if fetched {
			config.SaveState(statePath, st)
		}
		return nil
	},
}

// datasetInfoCmd reports the local dataset status: revision, directory, and
// file count.
var datasetInfoCmd = &cobra.Command{
	Use:   "info",
	Short: "Show the local dataset revision and file count",
	Run: func(cmd *cobra.Command, args []string) {
		spec := datasetSpec()
		st := config.LoadState(statePath)

		info := dataset.Inspect(spec, st)
		if !info.Present {
			logger.Warn("[WARN] No dataset found in %s. Run `threew-setup dataset fetch`.\n", spec.Dir)
			return
		}
		revision := info.Revision
		if revision == "" {
			revision = "unknown"
		}
		logger.Info("[INFO] Dataset revision %s in %s (%d files)\n", revision, info.Dir, info.FileCount)
	},
}

// init wires up the dataset subcommands and their flags.
func init() {
	datasetCmd.PersistentFlags().StringVar(&datasetURL, "url", "", "Override the archive URL")
	datasetCmd.PersistentFlags().StringVar(&datasetRevision, "revision", "", "Override the dataset revision")
	datasetCmd.PersistentFlags().StringVar(&datasetDir, "dir", "", "Override the target directory")

	datasetCmd.AddCommand(datasetFetchCmd)
	datasetCmd.AddCommand(datasetInfoCmd)
	rootCmd.AddCommand(datasetCmd)
}
