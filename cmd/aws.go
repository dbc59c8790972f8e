package cmd

import (
	"os"

	"github.com/spf13/cobra"

	"threew-setup/internal/config"
	"threew-setup/internal/envsetup"
	"threew-setup/internal/logger"
	provaws "threew-setup/internal/provision/aws"
)

// Flags for the aws subcommands.
var (
	awsConfigPath string
	awsEnvPath    string
	awsCostAlarm  float64
)

// awsCmd groups the AWS provisioning commands: setting up the training
// bucket, log group and billing alarm, and validating the SageMaker side.
var awsCmd = &cobra.Command{
	Use:   "aws",
	Short: "Provision and validate the AWS training infrastructure",
}

// awsSetupCmd provisions the S3 bucket (versioned, encrypted, standard folder
// layout), the CloudWatch log group, and optionally the billing alarm. Every
// step probes before creating, so re-runs exit clean.
var awsSetupCmd = &cobra.Command{
	Use:   "setup",
	Short: "Create the S3 bucket, log group and cost alarm",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		cfg, err := config.LoadAWS(awsConfigPath)
		if err != nil {
			logger.Error("[ERROR] %v\n", err)
			return err
		}

		// Seed the credentials scaffold on first run; an existing file is
		// left alone.
		if _, err := os.Stat(awsEnvPath); os.IsNotExist(err) {
			if err := envsetup.WriteEnvScaffold(awsEnvPath, envsetup.DefaultAWSEnv(), false); err != nil {
				logger.Error("[ERROR] %v\n", err)
				return err
			}
		}
		env := config.LoadEnvFile(awsEnvPath)

		client, err := provaws.NewClient(ctx, awsRegion(cfg, env), env)
		if err != nil {
			logger.Error("[ERROR] %v\n", err)
			return err
		}
		if err := client.ValidateCredentials(ctx); err != nil {
			logger.Error("[ERROR] %v\n", err)
			return err
		}

		bucket := cfg.S3.BucketName
		if _, err := client.EnsureBucket(ctx, bucket, cfg.S3.Region); err != nil {
			logger.Error("[ERROR] %v\n", err)
			return err
		}
		if err := client.EnableVersioning(ctx, bucket); err != nil {
			logger.Error("[ERROR] %v\n", err)
			return err
		}
		if err := client.EnableEncryption(ctx, bucket); err != nil {
			logger.Error("[ERROR] %v\n", err)
			return err
		}
		if err := client.EnsureFolders(ctx, bucket); err != nil {
			logger.Error("[ERROR] %v\n", err)
			return err
		}

		if cfg.Logs.GroupName != "" {
			if _, err := client.EnsureLogGroup(ctx, cfg.Logs.GroupName); err != nil {
				logger.Error("[ERROR] %v\n", err)
				return err
			}
		}

		if awsCostAlarm > 0 {
			if err := client.CreateCostAlarm(ctx, awsCostAlarm, "daily"); err != nil {
				logger.Error("[ERROR] %v\n", err)
				return err
			}
		}

		logger.Info("[INFO] AWS setup complete.\n")
		return nil
	},
}

// awsStatusCmd validates what exists without creating anything: bucket, IAM
// role, SageMaker domain and user profile.
var awsStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Validate the AWS resources without creating anything",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		cfg, err := config.LoadAWS(awsConfigPath)
		if err != nil {
			logger.Error("[ERROR] %v\n", err)
			return err
		}
		env := config.LoadEnvFile(awsEnvPath)

		client, err := provaws.NewClient(ctx, awsRegion(cfg, env), env)
		if err != nil {
			logger.Error("[ERROR] %v\n", err)
			return err
		}

		exists, err := client.BucketExists(ctx, cfg.S3.BucketName)
		if err != nil {
			logger.Error("[ERROR] %v\n", err)
			return err
		}
		reportResource("S3 bucket "+cfg.S3.BucketName, exists)

		if cfg.SageMaker.RoleARN != "" {
			roleOK, err := client.RoleExists(ctx, cfg.SageMaker.RoleARN)
			if err != nil {
				logger.Error("[ERROR] %v\n", err)
				return err
			}
			reportResource("IAM role "+cfg.SageMaker.RoleARN, roleOK)
		}

		sm, err := client.ValidateSageMaker(ctx, cfg.SageMaker.Domain.Name, cfg.SageMaker.UserProfile)
		if err != nil {
			logger.Error("[ERROR] %v\n", err)
			return err
		}
		if cfg.SageMaker.Domain.Name != "" {
			reportResource("SageMaker domain "+cfg.SageMaker.Domain.Name, sm.DomainExists)
		}
		if cfg.SageMaker.UserProfile != "" {
			reportResource("SageMaker user profile "+cfg.SageMaker.UserProfile, sm.UserProfileExists)
		}
		return nil
	},
}

// awsRegion resolves the client region: .env.aws wins, then the process
// environment, then the config file (which already defaults to us-east-1).
func awsRegion(cfg config.AWSConfig, env map[string]string) string {
	return config.EnvOr(env, "AWS_REGION", cfg.AWS.Region)
}

// reportResource prints one existence line in the status output.
func reportResource(what string, exists bool) {
	if exists {
		logger.Info("[INFO] %s: OK\n", what)
	} else {
		logger.Warn("[WARN] %s: NOT FOUND\n", what)
	}
}

// init wires up the aws subcommands and their flags.
func init() {
	awsCmd.PersistentFlags().StringVarP(&awsConfigPath, "config", "c", config.DefaultAWSConfigPath, "Path to the AWS configuration file")
	awsCmd.PersistentFlags().StringVar(&awsEnvPath, "env", ".env.aws", "Path to the AWS credentials env file")
	awsSetupCmd.Flags().Float64Var(&awsCostAlarm, "cost-alarm", 0, "Create a daily billing alarm at this USD threshold (0 disables)")

	awsCmd.AddCommand(awsSetupCmd)
	awsCmd.AddCommand(awsStatusCmd)
	rootCmd.AddCommand(awsCmd)
}
