package envsetup

import (
	"os"

	"threew-setup/internal/config"
)

// DefaultEnv builds the .env scaffold content. Values already exported in the
// current environment are carried into the file so a configured shell
// produces a ready-to-use scaffold; everything else gets the project default
// or an obvious placeholder.
func DefaultEnv() map[string]string {
	return map[string]string{
		"GOOGLE_CLOUD_PROJECT": envOrDefault("GOOGLE_CLOUD_PROJECT", "your-gcp-project"),
		"GOOGLE_CLOUD_REGION":  envOrDefault("GOOGLE_CLOUD_REGION", "us-central1"),
		"GCS_BUCKET_NAME":      envOrDefault("GCS_BUCKET_NAME", "your-3w-bucket"),
		"MLFLOW_TRACKING_URI":  envOrDefault("MLFLOW_TRACKING_URI", "http://localhost:5000"),
	}
}

// DefaultAWSEnv builds the .env.aws scaffold. Credentials are only carried
// over from the environment, never invented.
func DefaultAWSEnv() map[string]string {
	return map[string]string{
		"AWS_ACCESS_KEY_ID":     os.Getenv("AWS_ACCESS_KEY_ID"),
		"AWS_SECRET_ACCESS_KEY": os.Getenv("AWS_SECRET_ACCESS_KEY"),
		"AWS_SESSION_TOKEN":     os.Getenv("AWS_SESSION_TOKEN"),
		"AWS_REGION":            envOrDefault("AWS_REGION", "us-east-1"),
		"SAGEMAKER_ROLE_ARN":    os.Getenv("SAGEMAKER_ROLE_ARN"),
	}
}

// WriteEnvScaffold writes vals to path through the shared no-overwrite guard.
func WriteEnvScaffold(path string, vals map[string]string, force bool) error {
	return config.WriteEnvFile(path, vals, force)
}

func envOrDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
