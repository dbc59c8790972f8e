package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"threew-setup/internal/config"
	"threew-setup/internal/logger"
	provgcp "threew-setup/internal/provision/gcp"
)

// Flags for the gcp subcommands.
var (
	gcpConfigPath string
	wifRepo       string
	wifOutput     string
	wifForce      bool
)

// gcpCmd groups the Google Cloud provisioning commands: the GCS bucket, the
// training service account, and Workload Identity Federation for GitHub
// Actions.
var gcpCmd = &cobra.Command{
	Use:   "gcp",
	Short: "Provision and validate the Google Cloud training infrastructure",
}

// loadGCPConfig loads the project config and insists on a project id, the one
// value nothing can default. A missing config file gets the scaffold written
// first, so the user has something to fill in.
func loadGCPConfig() (config.ProjectConfig, error) {
	if _, err := os.Stat(gcpConfigPath); os.IsNotExist(err) {
		if err := config.WriteProjectScaffold(gcpConfigPath, config.ProjectConfig{}, false); err != nil {
			return config.ProjectConfig{}, err
		}
		logger.Info("[INFO] Wrote config scaffold %s\n", gcpConfigPath)
	}

	cfg, err := config.LoadProject(gcpConfigPath)
	if err != nil {
		return cfg, err
	}
	if cfg.GCP.ProjectID == "" {
		return cfg, fmt.Errorf("no GCP project id configured; set gcp.project_id in %s or export GOOGLE_CLOUD_PROJECT", gcpConfigPath)
	}
	return cfg, nil
}

// requireBucket rejects the scaffold's empty bucket name before any storage
// call turns it into a raw API error. Only the bucket-touching subcommands
// need it; wif does not.
func requireBucket(cfg config.ProjectConfig) error {
	if cfg.Storage.BucketName == "" {
		return fmt.Errorf("no GCS bucket configured; set storage.bucket_name in %s or export GCS_BUCKET_NAME", gcpConfigPath)
	}
	return nil
}

// gcpSetupCmd provisions the bucket with the standard folder layout, the
// training service account, and its role bindings. Everything probes before
// creating, so re-runs exit clean.
var gcpSetupCmd = &cobra.Command{
	Use:   "setup",
	Short: "Create the GCS bucket and training service account",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		cfg, err := loadGCPConfig()
		if err != nil {
			logger.Error("[ERROR] %v\n", err)
			return err
		}
		if err := requireBucket(cfg); err != nil {
			logger.Error("[ERROR] %v\n", err)
			return err
		}

		st, err := provgcp.NewStorage(ctx, cfg.GCP.ProjectID, cfg.GCP.Region)
		if err != nil {
			logger.Error("[ERROR] %v\n", err)
			return err
		}
		defer st.Close()

		if _, err := st.EnsureBucket(ctx, cfg.Storage.BucketName); err != nil {
			logger.Error("[ERROR] %v\n", err)
			return err
		}
		if err := st.EnsureFolders(ctx, cfg.Storage.BucketName); err != nil {
			logger.Error("[ERROR] %v\n", err)
			return err
		}

		email, _, err := provgcp.EnsureServiceAccount(cfg.GCP.ProjectID, cfg.GCP.ServiceAccount)
		if err != nil {
			logger.Error("[ERROR] %v\n", err)
			return err
		}
		if err := provgcp.GrantRoles(cfg.GCP.ProjectID, email, provgcp.TrainingRoles); err != nil {
			logger.Error("[ERROR] %v\n", err)
			return err
		}

		logger.Info("[INFO] GCP setup complete.\n")
		return nil
	},
}

// gcpStatusCmd validates what exists without creating anything: the bucket,
// its folder markers, and the Vertex AI API.
var gcpStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Validate the GCP resources without creating anything",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		cfg, err := loadGCPConfig()
		if err != nil {
			logger.Error("[ERROR] %v\n", err)
			return err
		}
		if err := requireBucket(cfg); err != nil {
			logger.Error("[ERROR] %v\n", err)
			return err
		}

		st, err := provgcp.NewStorage(ctx, cfg.GCP.ProjectID, cfg.GCP.Region)
		if err != nil {
			logger.Error("[ERROR] %v\n", err)
			return err
		}
		defer st.Close()

		exists, err := st.BucketExists(ctx, cfg.Storage.BucketName)
		if err != nil {
			logger.Error("[ERROR] %v\n", err)
			return err
		}
		reportResource("GCS bucket "+cfg.Storage.BucketName, exists)

		if exists {
			objects, err := st.ListPrefix(ctx, cfg.Storage.BucketName, "")
			if err != nil {
				logger.Error("[ERROR] %v\n", err)
				return err
			}
			logger.Info("[INFO] Bucket holds %d object(s)\n", len(objects))
		}

		email := provgcp.ServiceAccountEmail(cfg.GCP.ProjectID, cfg.GCP.ServiceAccount)
		saOK, err := provgcp.ServiceAccountExists(cfg.GCP.ProjectID, email)
		if err != nil {
			logger.Error("[ERROR] %v\n", err)
			return err
		}
		reportResource("Service account "+email, saOK)

		vertex, err := provgcp.VertexEnabled(cfg.GCP.ProjectID)
		if err != nil {
			logger.Error("[ERROR] %v\n", err)
			return err
		}
		reportResource("Vertex AI API", vertex)
		return nil
	},
}

// gcpWIFCmd sets up keyless GitHub Actions auth and writes the two values the
// repository secrets need into gcp-secrets.txt.
var gcpWIFCmd = &cobra.Command{
	Use:   "wif",
	Short: "Set up Workload Identity Federation for GitHub Actions",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadGCPConfig()
		if err != nil {
			logger.Error("[ERROR] %v\n", err)
			return err
		}

		number, err := provgcp.ProjectNumber(cfg.GCP.ProjectID)
		if err != nil {
			logger.Error("[ERROR] %v\n", err)
			return err
		}

		email := provgcp.ServiceAccountEmail(cfg.GCP.ProjectID, cfg.GCP.ServiceAccount)
		info, err := provgcp.EnsureWorkloadIdentity(cfg.GCP.ProjectID, number, wifRepo, email)
		if err != nil {
			logger.Error("[ERROR] %v\n", err)
			return err
		}

		if err := provgcp.WriteSecretsFile(wifOutput, info, wifForce); err != nil {
			logger.Error("[ERROR] %v\n", err)
			return err
		}
		logger.Info("[INFO] Workload identity ready. Add the values in %s as repository secrets.\n", wifOutput)
		return nil
	},
}

// init wires up the gcp subcommands and their flags.
func init() {
	gcpCmd.PersistentFlags().StringVarP(&gcpConfigPath, "config", "c", config.DefaultProjectConfigPath, "Path to the project configuration file")

	gcpWIFCmd.Flags().StringVar(&wifRepo, "repo", "", "GitHub repository in owner/name form")
	gcpWIFCmd.Flags().StringVar(&wifOutput, "output", "gcp-secrets.txt", "Where to write the GitHub secrets values")
	gcpWIFCmd.Flags().BoolVar(&wifForce, "force", false, "Overwrite an existing secrets file")
	_ = gcpWIFCmd.MarkFlagRequired("repo")

	gcpCmd.AddCommand(gcpSetupCmd)
	gcpCmd.AddCommand(gcpStatusCmd)
	gcpCmd.AddCommand(gcpWIFCmd)
	rootCmd.AddCommand(gcpCmd)
}
