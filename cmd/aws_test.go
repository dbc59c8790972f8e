package cmd

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"threew-setup/internal/config"
)

func TestAWSRegion(t *testing.T) {
	var cfg config.AWSConfig
	cfg.AWS.Region = "us-east-1"

	t.Run("env file wins", func(t *testing.T) {
		t.Setenv("AWS_REGION", "eu-west-1")
		assert.Equal(t, "sa-east-1", awsRegion(cfg, map[string]string{"AWS_REGION": "sa-east-1"}))
	})

	t.Run("process environment beats the config file", func(t *testing.T) {
		t.Setenv("AWS_REGION", "eu-west-1")
		assert.Equal(t, "eu-west-1", awsRegion(cfg, map[string]string{}))
	})

	t.Run("config file is the fallback", func(t *testing.T) {
		t.Setenv("AWS_REGION", "")
		assert.Equal(t, "us-east-1", awsRegion(cfg, map[string]string{}))
	})
}
