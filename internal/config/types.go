package config

// ProjectConfig is the parsed form of config/3w_config.yaml, the main project
// configuration consumed by the GCP provisioning and dataset commands.
type ProjectConfig struct {
	Project ProjectSection `yaml:"project"`
	GCP     GCPSection     `yaml:"gcp"`
	Storage StorageSection `yaml:"storage"`
	Dataset DatasetSection `yaml:"dataset"`
	MLflow  MLflowSection  `yaml:"mlflow"`
}

// ProjectSection names the project itself.
type ProjectSection struct {
	Name string `yaml:"name"`
}

// GCPSection carries the Google Cloud coordinates.
// - ProjectID: GCP project id (overridable via GOOGLE_CLOUD_PROJECT).
// - Region/Zone: default location for buckets and training jobs.
// - ServiceAccount: short name of the training service account.
type GCPSection struct {
	ProjectID      string `yaml:"project_id"`
	Region         string `yaml:"region"`
	Zone           string `yaml:"zone"`
	ServiceAccount string `yaml:"service_account"`
}

// StorageSection names the GCS bucket (overridable via GCS_BUCKET_NAME).
type StorageSection struct {
	BucketName string `yaml:"bucket_name"`
}

// DatasetSection describes where the 3W dataset archive comes from and where
// it is unpacked locally.
type DatasetSection struct {
	URL      string `yaml:"url"`
	Revision string `yaml:"revision"`
	Dir      string `yaml:"dir"`
}

// MLflowSection points at the tracking server used by the training code.
type MLflowSection struct {
	TrackingURI string `yaml:"tracking_uri"`
}

// AWSConfig is the parsed form of config/aws-config.yaml, mirroring the
// sections the SageMaker training side reads.
type AWSConfig struct {
	AWS       AWSSection       `yaml:"aws"`
	S3        S3Section        `yaml:"s3"`
	SageMaker SageMakerSection `yaml:"sagemaker"`
	Logs      LogsSection      `yaml:"logs"`
}

// AWSSection holds account-level settings.
type AWSSection struct {
	Region  string `yaml:"region"`
	Profile string `yaml:"profile"`
}

// S3Section names the training bucket and its region.
type S3Section struct {
	BucketName string `yaml:"bucket_name"`
	Region     string `yaml:"region"`
}

// SageMakerSection describes the Studio domain and the execution role the
// status command validates.
type SageMakerSection struct {
	Domain struct {
		Name string `yaml:"name"`
	} `yaml:"domain"`
	UserProfile string `yaml:"user_profile"`
	RoleARN     string `yaml:"role_arn"`
	Training    struct {
		DefaultInstanceType string `yaml:"default_instance_type"`
	} `yaml:"training"`
}

// LogsSection names the CloudWatch log group for training jobs.
type LogsSection struct {
	GroupName string `yaml:"group_name"`
}
