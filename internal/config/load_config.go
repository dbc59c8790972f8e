package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Default locations of the two YAML configuration files, relative to the
// project root the tool is run from.
const (
	DefaultProjectConfigPath = "config/3w_config.yaml"
	DefaultAWSConfigPath     = "config/aws-config.yaml"
)

// LoadProject reads config/3w_config.yaml and applies environment overrides
// (GOOGLE_CLOUD_PROJECT, GOOGLE_CLOUD_REGION, GCS_BUCKET_NAME) on top, so the
// file can stay checked in with placeholders while real values come from the
// environment. A missing file is an error; use WriteProjectScaffold first.
func LoadProject(path string) (ProjectConfig, error) {
	var cfg ProjectConfig

	raw, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("failed to read %s: %w", path, err)
	}
	if err := yaml.Unmarshal(raw, &cfg); err != nil {
		return cfg, fmt.Errorf("failed to parse %s: %w", path, err)
	}

	// Environment wins over the file, matching how the Python side resolves
	// its settings.
	if v := os.Getenv("GOOGLE_CLOUD_PROJECT"); v != "" {
		cfg.GCP.ProjectID = v
	}
	if v := os.Getenv("GOOGLE_CLOUD_REGION"); v != "" {
		cfg.GCP.Region = v
	}
	if v := os.Getenv("GCS_BUCKET_NAME"); v != "" {
		cfg.Storage.BucketName = v
	}

	applyProjectDefaults(&cfg)
	return cfg, nil
}

// applyProjectDefaults fills the fields the scaffold leaves empty.
func applyProjectDefaults(cfg *ProjectConfig) {
	if cfg.Project.Name == "" {
		cfg.Project.Name = "petrobras-anomaly-detection"
	}
	if cfg.GCP.Region == "" {
		cfg.GCP.Region = "us-central1"
	}
	if cfg.GCP.Zone == "" {
		cfg.GCP.Zone = cfg.GCP.Region + "-a"
	}
	if cfg.GCP.ServiceAccount == "" {
		cfg.GCP.ServiceAccount = "threew-training"
	}
	if cfg.Dataset.Dir == "" {
		cfg.Dataset.Dir = "data/dataset"
	}
	if cfg.MLflow.TrackingURI == "" {
		cfg.MLflow.TrackingURI = "http://localhost:5000"
	}
}

// LoadAWS reads config/aws-config.yaml and applies the AWS_REGION environment
// override.
func LoadAWS(path string) (AWSConfig, error) {
	var cfg AWSConfig

	raw, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("failed to read %s: %w", path, err)
	}
	if err := yaml.Unmarshal(raw, &cfg); err != nil {
		return cfg, fmt.Errorf("failed to parse %s: %w", path, err)
	}

	if v := os.Getenv("AWS_REGION"); v != "" {
		cfg.AWS.Region = v
	}
	if cfg.AWS.Region == "" {
		cfg.AWS.Region = "us-east-1"
	}
	if cfg.S3.Region == "" {
		cfg.S3.Region = cfg.AWS.Region
	}
	return cfg, nil
}

// WriteProjectScaffold writes a starter 3w_config.yaml populated from cfg.
// An existing file is never overwritten unless force is set; the old scripts
// clobbered hand-edited configs and that was a recurring complaint.
func WriteProjectScaffold(path string, cfg ProjectConfig, force bool) error {
	if err := refuseOverwrite(path, force); err != nil {
		return err
	}
	applyProjectDefaults(&cfg)

	raw, err := yaml.Marshal(&cfg)
	if err != nil {
		return fmt.Errorf("failed to marshal project config: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	return os.WriteFile(path, raw, 0644)
}

// refuseOverwrite returns an error when path already exists and force is not
// set. Shared by every file-producing command.
func refuseOverwrite(path string, force bool) error {
	if force {
		return nil
	}
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("%s already exists, pass --force to overwrite", path)
	}
	return nil
}
