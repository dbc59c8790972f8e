package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadProject(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "3w_config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
project:
  name: petrobras-anomaly-detection
gcp:
  project_id: my-project
  region: southamerica-east1
storage:
  bucket_name: my-3w-bucket
dataset:
  url: https://example.com/3w.zip
  revision: "1.1.0"
`), 0644))

	t.Run("parses file values and fills defaults", func(t *testing.T) {
		cfg, err := LoadProject(path)
		require.NoError(t, err)
		assert.Equal(t, "my-project", cfg.GCP.ProjectID)
		assert.Equal(t, "southamerica-east1", cfg.GCP.Region)
		assert.Equal(t, "southamerica-east1-a", cfg.GCP.Zone)
		assert.Equal(t, "my-3w-bucket", cfg.Storage.BucketName)
		assert.Equal(t, "data/dataset", cfg.Dataset.Dir)
		assert.Equal(t, "http://localhost:5000", cfg.MLflow.TrackingURI)
	})

	t.Run("environment overrides the file", func(t *testing.T) {
		t.Setenv("GOOGLE_CLOUD_PROJECT", "env-project")
		t.Setenv("GCS_BUCKET_NAME", "env-bucket")
		cfg, err := LoadProject(path)
		require.NoError(t, err)
		assert.Equal(t, "env-project", cfg.GCP.ProjectID)
		assert.Equal(t, "env-bucket", cfg.Storage.BucketName)
	})

	t.Run("missing file is an error", func(t *testing.T) {
		_, err := LoadProject(filepath.Join(dir, "nope.yaml"))
		assert.Error(t, err)
	})
}

func TestLoadAWS(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "aws-config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
aws:
  region: us-west-2
s3:
  bucket_name: threew-training
sagemaker:
  domain:
    name: threew-domain
  user_profile: threew-user
  role_arn: arn:aws:iam::123456789012:role/SageMakerExecution
logs:
  group_name: /threew/training
`), 0644))

	cfg, err := LoadAWS(path)
	require.NoError(t, err)
	assert.Equal(t, "us-west-2", cfg.AWS.Region)
	// S3 region falls back to the account region when unset.
	assert.Equal(t, "us-west-2", cfg.S3.Region)
	assert.Equal(t, "threew-training", cfg.S3.BucketName)
	assert.Equal(t, "threew-domain", cfg.SageMaker.Domain.Name)
	assert.Equal(t, "/threew/training", cfg.Logs.GroupName)
}

func TestWriteProjectScaffold(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config", "3w_config.yaml")

	require.NoError(t, WriteProjectScaffold(path, ProjectConfig{}, false))

	cfg, err := LoadProject(path)
	require.NoError(t, err)
	assert.Equal(t, "petrobras-anomaly-detection", cfg.Project.Name)

	t.Run("refuses to overwrite without force", func(t *testing.T) {
		err := WriteProjectScaffold(path, ProjectConfig{}, false)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "--force")
	})

	t.Run("force overwrites", func(t *testing.T) {
		assert.NoError(t, WriteProjectScaffold(path, ProjectConfig{}, true))
	})
}

func TestEnvFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ".env.aws")

	t.Run("missing file yields empty map", func(t *testing.T) {
		assert.Empty(t, LoadEnvFile(path))
	})

	t.Run("write then read round trip", func(t *testing.T) {
		vals := map[string]string{
			"AWS_ACCESS_KEY_ID":     "AKIAEXAMPLE",
			"AWS_SECRET_ACCESS_KEY": "secret",
			"AWS_REGION":            "us-east-1",
		}
		require.NoError(t, WriteEnvFile(path, vals, false))

		got := LoadEnvFile(path)
		assert.Equal(t, "AKIAEXAMPLE", got["AWS_ACCESS_KEY_ID"])
		assert.Equal(t, "us-east-1", got["AWS_REGION"])
	})

	t.Run("never overwrites without force", func(t *testing.T) {
		err := WriteEnvFile(path, map[string]string{"X": "y"}, false)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "--force")

		// The original content must be untouched after the refused write.
		assert.Equal(t, "AKIAEXAMPLE", LoadEnvFile(path)["AWS_ACCESS_KEY_ID"])
	})
}

func TestEnvOr(t *testing.T) {
	t.Setenv("THREEW_TEST_KEY", "from-env")

	assert.Equal(t, "from-file", EnvOr(map[string]string{"THREEW_TEST_KEY": "from-file"}, "THREEW_TEST_KEY", "def"))
	assert.Equal(t, "from-env", EnvOr(map[string]string{}, "THREEW_TEST_KEY", "def"))
	assert.Equal(t, "def", EnvOr(map[string]string{}, "THREEW_TEST_UNSET", "def"))
}

func TestLoadState(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "state.json")

	t.Run("missing file returns empty initialized state", func(t *testing.T) {
		st := LoadState(path)
		require.NotNil(t, st)
		assert.NotNil(t, st.Extensions)
		assert.NotNil(t, st.Bootstrap)
	})

	t.Run("save and reload", func(t *testing.T) {
		st := LoadState(path)
		st.Extensions["ms-python.python"] = ExtensionState{Editor: "code", InstalledBySetup: true}
		st.Dataset = DatasetState{Revision: "1.1.0", Dir: "data/dataset"}
		SaveState(path, st)

		got := LoadState(path)
		assert.Equal(t, "code", got.Extensions["ms-python.python"].Editor)
		assert.Equal(t, "1.1.0", got.Dataset.Revision)
	})

	t.Run("corrupt file still yields usable state", func(t *testing.T) {
		require.NoError(t, os.WriteFile(path, []byte("{not json"), 0644))
		st := LoadState(path)
		assert.NotNil(t, st.Extensions)
	})
}
