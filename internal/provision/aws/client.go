// Package aws provisions the AWS side of the project: the training bucket
// with its standard folder layout, the CloudWatch log group, the billing
// alarm, and the SageMaker/IAM validation the status command reports.
package aws

import (
	"context"
	"errors"
	"fmt"
	"strings"

	awssdk "github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/cloudwatch"
	cwtypes "github.com/aws/aws-sdk-go-v2/service/cloudwatch/types"
	"github.com/aws/aws-sdk-go-v2/service/cloudwatchlogs"
	cwltypes "github.com/aws/aws-sdk-go-v2/service/cloudwatchlogs/types"
	"github.com/aws/aws-sdk-go-v2/service/iam"
	iamtypes "github.com/aws/aws-sdk-go-v2/service/iam/types"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	s3types "github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/aws/aws-sdk-go-v2/service/sagemaker"
	"github.com/aws/smithy-go"

	"threew-setup/internal/logger"
)

// StandardFolders is the bucket layout the training code expects; both cloud
// providers get the same markers.
var StandardFolders = []string{
	"data/",
	"models/",
	"experiments/",
	"logs/",
	"checkpoints/",
	"datasets/",
	"mlflow-artifacts/",
	"tensorboard-logs/",
}

// Client bundles the AWS service clients the provisioning commands use.
type Client struct {
	s3     *s3.Client
	iam    *iam.Client
	sm     *sagemaker.Client
	cwl    *cloudwatchlogs.Client
	cw     *cloudwatch.Client
	region string
}

// NewClient builds a Client for the given region. When env carries explicit
// credentials (AWS_ACCESS_KEY_ID / AWS_SECRET_ACCESS_KEY, optionally
// AWS_SESSION_TOKEN, typically loaded from .env.aws) they are used as a
// static provider; otherwise the SDK default chain applies (profiles,
// instance roles, SSO).
func NewClient(ctx context.Context, region string, env map[string]string) (*Client, error) {
	opts := []func(*awsconfig.LoadOptions) error{
		awsconfig.WithRegion(region),
	}
	if env["AWS_ACCESS_KEY_ID"] != "" && env["AWS_SECRET_ACCESS_KEY"] != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(
				env["AWS_ACCESS_KEY_ID"],
				env["AWS_SECRET_ACCESS_KEY"],
				env["AWS_SESSION_TOKEN"],
			)))
	}

	cfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	return &Client{
		s3:     s3.NewFromConfig(cfg),
		iam:    iam.NewFromConfig(cfg),
		sm:     sagemaker.NewFromConfig(cfg),
		cwl:    cloudwatchlogs.NewFromConfig(cfg),
		cw:     cloudwatch.NewFromConfig(cfg),
		region: region,
	}, nil
}

// ValidateCredentials checks the credentials by listing buckets, the same
// probe the old setup script used.
func (c *Client) ValidateCredentials(ctx context.Context) error {
	if _, err := c.s3.ListBuckets(ctx, &s3.ListBucketsInput{}); err != nil {
		return fmt.Errorf("AWS credentials are not valid: %w", err)
	}
	return nil
}

// EnsureBucket creates the bucket when it does not exist yet. A bucket that
// already exists (either probed via HeadBucket or reported by the create
// call) is success, so a second setup run exits clean. Returns whether the
// bucket was actually created.
func (c *Client) EnsureBucket(ctx context.Context, name, region string) (bool, error) {
	_, err := c.s3.HeadBucket(ctx, &s3.HeadBucketInput{Bucket: awssdk.String(name)})
	if err == nil {
		logger.Info("[INFO] S3 bucket %s already exists. Skipping.\n", name)
		return false, nil
	}
	if !isNotFoundError(err) {
		return false, fmt.Errorf("failed to check bucket %s: %w", name, err)
	}

	input := &s3.CreateBucketInput{Bucket: awssdk.String(name)}
	// us-east-1 rejects an explicit location constraint.
	if region != "" && region != "us-east-1" {
		input.CreateBucketConfiguration = &s3types.CreateBucketConfiguration{
			LocationConstraint: s3types.BucketLocationConstraint(region),
		}
	}

	if _, err := c.s3.CreateBucket(ctx, input); err != nil {
		if isBucketAlreadyOwnedByYou(err) {
			logger.Info("[INFO] S3 bucket %s already exists. Skipping.\n", name)
			return false, nil
		}
		return false, fmt.Errorf("failed to create bucket %s: %w", name, err)
	}

	logger.Info("[INFO] Created S3 bucket %s in %s\n", name, region)
	return true, nil
}

// BucketExists probes the bucket without creating it.
func (c *Client) BucketExists(ctx context.Context, name string) (bool, error) {
	_, err := c.s3.HeadBucket(ctx, &s3.HeadBucketInput{Bucket: awssdk.String(name)})
	if err == nil {
		return true, nil
	}
	if isNotFoundError(err) {
		return false, nil
	}
	return false, fmt.Errorf("failed to check bucket %s: %w", name, err)
}

// EnableVersioning turns bucket versioning on. Safe to repeat.
func (c *Client) EnableVersioning(ctx context.Context, name string) error {
	_, err := c.s3.PutBucketVersioning(ctx, &s3.PutBucketVersioningInput{
		Bucket: awssdk.String(name),
		VersioningConfiguration: &s3types.VersioningConfiguration{
			Status: s3types.BucketVersioningStatusEnabled,
		},
	})
	if err != nil {
		return fmt.Errorf("failed to enable versioning on %s: %w", name, err)
	}
	return nil
}

// EnableEncryption sets AES256 default server-side encryption. Safe to repeat.
func (c *Client) EnableEncryption(ctx context.Context, name string) error {
	_, err := c.s3.PutBucketEncryption(ctx, &s3.PutBucketEncryptionInput{
		Bucket: awssdk.String(name),
		ServerSideEncryptionConfiguration: &s3types.ServerSideEncryptionConfiguration{
			Rules: []s3types.ServerSideEncryptionRule{
				{
					ApplyServerSideEncryptionByDefault: &s3types.ServerSideEncryptionByDefault{
						SSEAlgorithm: s3types.ServerSideEncryptionAes256,
					},
				},
			},
		},
	})
	if err != nil {
		return fmt.Errorf("failed to enable encryption on %s: %w", name, err)
	}
	return nil
}

// EnsureFolders writes the zero-byte folder markers for the standard bucket
// layout. A single failing marker is logged and the rest are still attempted,
// matching the original setup behavior.
func (c *Client) EnsureFolders(ctx context.Context, bucket string) error {
	var failed []string
	for _, folder := range StandardFolders {
		_, err := c.s3.PutObject(ctx, &s3.PutObjectInput{
			Bucket: awssdk.String(bucket),
			Key:    awssdk.String(folder),
		})
		if err != nil {
			logger.Warn("[WARN] Failed to create folder %s: %v\n", folder, err)
			failed = append(failed, folder)
			continue
		}
		logger.Debug("[DEBUG] Created folder marker %s in %s\n", folder, bucket)
	}
	if len(failed) > 0 {
		return fmt.Errorf("failed to create folders: %s", strings.Join(failed, ", "))
	}
	logger.Info("[INFO] Bucket layout ready in %s\n", bucket)
	return nil
}

// EnsureLogGroup creates the CloudWatch log group for training jobs if it is
// missing. Returns whether it was created.
func (c *Client) EnsureLogGroup(ctx context.Context, group string) (bool, error) {
	_, err := c.cwl.CreateLogGroup(ctx, &cloudwatchlogs.CreateLogGroupInput{
		LogGroupName: awssdk.String(group),
	})
	if err != nil {
		var exists *cwltypes.ResourceAlreadyExistsException
		if errors.As(err, &exists) {
			logger.Info("[INFO] Log group %s already exists. Skipping.\n", group)
			return false, nil
		}
		return false, fmt.Errorf("failed to create log group %s: %w", group, err)
	}
	logger.Info("[INFO] Created log group %s\n", group)
	return true, nil
}

// CreateCostAlarm sets the billing alarm on estimated charges. PutMetricAlarm
// is an upsert, so repeating it just refreshes the threshold.
func (c *Client) CreateCostAlarm(ctx context.Context, amount float64, period string) error {
	name := fmt.Sprintf("petrobras-cost-alarm-%s", strings.ToLower(period))
	_, err := c.cw.PutMetricAlarm(ctx, &cloudwatch.PutMetricAlarmInput{
		AlarmName:          awssdk.String(name),
		ComparisonOperator: cwtypes.ComparisonOperatorGreaterThanThreshold,
		EvaluationPeriods:  awssdk.Int32(1),
		MetricName:         awssdk.String("EstimatedCharges"),
		Namespace:          awssdk.String("AWS/Billing"),
		Period:             awssdk.Int32(86400),
		Statistic:          cwtypes.StatisticMaximum,
		Threshold:          awssdk.Float64(amount),
		ActionsEnabled:     awssdk.Bool(true),
		AlarmDescription:   awssdk.String(fmt.Sprintf("3W training cost alarm (%s)", strings.ToLower(period))),
	})
	if err != nil {
		return fmt.Errorf("failed to create cost alarm %s: %w", name, err)
	}
	logger.Info("[INFO] Cost alarm %s set at %.2f USD\n", name, amount)
	return nil
}

// RoleExists checks the IAM role behind a role ARN (or bare role name).
// Missing roles are reported as false, not as an error.
func (c *Client) RoleExists(ctx context.Context, roleARN string) (bool, error) {
	name := roleARN
	if idx := strings.LastIndex(roleARN, "/"); idx >= 0 {
		name = roleARN[idx+1:]
	}
	if name == "" {
		return false, nil
	}

	_, err := c.iam.GetRole(ctx, &iam.GetRoleInput{RoleName: awssdk.String(name)})
	if err != nil {
		var nse *iamtypes.NoSuchEntityException
		if errors.As(err, &nse) {
			return false, nil
		}
		return false, fmt.Errorf("failed to check IAM role %s: %w", name, err)
	}
	return true, nil
}

// SageMakerStatus is the validation result the status command prints.
type SageMakerStatus struct {
	DomainExists      bool
	UserProfileExists bool
}

// ValidateSageMaker checks the Studio domain and user profile configured for
// training. Domains are listed and matched by name because the describe API
// only takes the generated domain id.
func (c *Client) ValidateSageMaker(ctx context.Context, domainName, userProfile string) (SageMakerStatus, error) {
	var status SageMakerStatus
	if domainName == "" {
		return status, nil
	}

	domains, err := c.sm.ListDomains(ctx, &sagemaker.ListDomainsInput{})
	if err != nil {
		return status, fmt.Errorf("failed to list SageMaker domains: %w", err)
	}

	var domainID string
	for _, d := range domains.Domains {
		if awssdk.ToString(d.DomainName) == domainName {
			status.DomainExists = true
			domainID = awssdk.ToString(d.DomainId)
			break
		}
	}
	if !status.DomainExists || userProfile == "" {
		return status, nil
	}

	_, err = c.sm.DescribeUserProfile(ctx, &sagemaker.DescribeUserProfileInput{
		DomainId:        awssdk.String(domainID),
		UserProfileName: awssdk.String(userProfile),
	})
	if err != nil {
		if isAPIErrorCode(err, "ResourceNotFound", "ValidationException") {
			return status, nil
		}
		return status, fmt.Errorf("failed to check user profile %s: %w", userProfile, err)
	}
	status.UserProfileExists = true
	return status, nil
}

// isBucketAlreadyOwnedByYou checks if the error indicates the bucket exists
// and is owned by us.
func isBucketAlreadyOwnedByYou(err error) bool {
	if err == nil {
		return false
	}

	var baoby *s3types.BucketAlreadyOwnedByYou
	if errors.As(err, &baoby) {
		return true
	}
	var bae *s3types.BucketAlreadyExists
	if errors.As(err, &bae) {
		return true
	}

	return isAPIErrorCode(err, "BucketAlreadyOwnedByYou", "BucketAlreadyExists")
}

// isNotFoundError checks if the error is an S3 not-found error.
func isNotFoundError(err error) bool {
	if err == nil {
		return false
	}

	var nsb *s3types.NoSuchBucket
	if errors.As(err, &nsb) {
		return true
	}
	var nf *s3types.NotFound
	if errors.As(err, &nf) {
		return true
	}

	return isAPIErrorCode(err, "NotFound", "NoSuchBucket", "404")
}

// isAPIErrorCode matches smithy API error codes, the fallback for services
// that do not surface the typed error.
func isAPIErrorCode(err error, codes ...string) bool {
	var apiErr smithy.APIError
	if !errors.As(err, &apiErr) {
		return false
	}
	got := apiErr.ErrorCode()
	for _, code := range codes {
		if got == code {
			return true
		}
	}
	return false
}
