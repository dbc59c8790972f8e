package gcp

import (
	"fmt"
	"os"
	"strings"

	"threew-setup/internal/logger"
	"threew-setup/internal/runner"
)

// TrainingRoles are granted to the training service account.
var TrainingRoles = []string{
	"roles/storage.objectAdmin",
	"roles/aiplatform.user",
	"roles/logging.logWriter",
}

// Fixed names for the GitHub Actions federation objects. One pool per
// project is plenty; the provider is scoped to the repository.
const (
	wifPoolID     = "github-pool"
	wifProviderID = "github-provider"
	oidcIssuer    = "https://token.actions.githubusercontent.com"
)

// ServiceAccountEmail builds the canonical email for a service account short
// name in a project.
func ServiceAccountEmail(projectID, name string) string {
	return fmt.Sprintf("%s@%s.iam.gserviceaccount.com", name, projectID)
}

// EnsureServiceAccount creates the training service account when it is
// missing and returns its email. The existence probe is a describe call, so a
// second run skips creation. gcloud is the only public surface for this;
// its absence is reported by name before anything runs.
func EnsureServiceAccount(projectID, name string) (string, bool, error) {
	if err := runner.Require("gcloud"); err != nil {
		return "", false, err
	}

	email := ServiceAccountEmail(projectID, name)
	if _, err := runner.Output("gcloud", "iam", "service-accounts", "describe", email,
		"--project", projectID, "--format", "value(email)"); err == nil {
		logger.Info("[INFO] Service account %s already exists. Skipping.\n", email)
		return email, false, nil
	}

	logger.Info("[INFO] Creating service account %s...\n", email)
	if _, err := runner.Run("gcloud", "iam", "service-accounts", "create", name,
		"--project", projectID,
		"--display-name", "3W training service account"); err != nil {
		return "", false, err
	}
	return email, true, nil
}

// ServiceAccountExists probes the service account without creating it.
func ServiceAccountExists(projectID, email string) (bool, error) {
	if err := runner.Require("gcloud"); err != nil {
		return false, err
	}
	if _, err := runner.Output("gcloud", "iam", "service-accounts", "describe", email,
		"--project", projectID, "--format", "value(email)"); err != nil {
		return false, nil
	}
	return true, nil
}

// GrantRoles binds the training roles to the service account at project
// level. add-iam-policy-binding is idempotent on the gcloud side.
func GrantRoles(projectID, email string, roles []string) error {
	for _, role := range roles {
		logger.Info("[INFO] Granting %s to %s\n", role, email)
		if _, err := runner.Run("gcloud", "projects", "add-iam-policy-binding", projectID,
			"--member", "serviceAccount:"+email,
			"--role", role,
			"--condition", "None",
			"--quiet"); err != nil {
			return err
		}
	}
	return nil
}

// WIFInfo is what lands in gcp-secrets.txt for copying into the repository's
// GitHub secrets.
type WIFInfo struct {
	ProviderResource    string // Full workload identity provider resource name
	ServiceAccountEmail string // Service account the workflow impersonates
}

// EnsureWorkloadIdentity sets up keyless GitHub Actions auth: the identity
// pool, the OIDC provider restricted to the given owner/repo, and the
// impersonation binding on the service account. Every step probes with
// describe first, so re-runs only fill in what is missing.
func EnsureWorkloadIdentity(projectID, projectNumber, repo, saEmail string) (WIFInfo, error) {
	var info WIFInfo
	if err := runner.Require("gcloud"); err != nil {
		return info, err
	}
	if !strings.Contains(repo, "/") {
		return info, fmt.Errorf("repository must be in owner/name form, got %q", repo)
	}

	// Identity pool.
	if _, err := runner.Output("gcloud", "iam", "workload-identity-pools", "describe", wifPoolID,
		"--project", projectID, "--location", "global", "--format", "value(name)"); err != nil {
		logger.Info("[INFO] Creating workload identity pool %s...\n", wifPoolID)
		if _, err := runner.Run("gcloud", "iam", "workload-identity-pools", "create", wifPoolID,
			"--project", projectID,
			"--location", "global",
			"--display-name", "GitHub Actions pool"); err != nil {
			return info, err
		}
	} else {
		logger.Info("[INFO] Workload identity pool %s already exists. Skipping.\n", wifPoolID)
	}

	// OIDC provider bound to the repository.
	if _, err := runner.Output("gcloud", "iam", "workload-identity-pools", "providers", "describe", wifProviderID,
		"--project", projectID, "--location", "global",
		"--workload-identity-pool", wifPoolID, "--format", "value(name)"); err != nil {
		logger.Info("[INFO] Creating OIDC provider %s...\n", wifProviderID)
		if _, err := runner.Run("gcloud", "iam", "workload-identity-pools", "providers", "create-oidc", wifProviderID,
			"--project", projectID,
			"--location", "global",
			"--workload-identity-pool", wifPoolID,
			"--display-name", "GitHub Actions provider",
			"--issuer-uri", oidcIssuer,
			"--attribute-mapping", "google.subject=assertion.sub,attribute.repository=assertion.repository",
			"--attribute-condition", fmt.Sprintf("assertion.repository=='%s'", repo)); err != nil {
			return info, err
		}
	} else {
		logger.Info("[INFO] OIDC provider %s already exists. Skipping.\n", wifProviderID)
	}

	// Let the federated identity impersonate the training service account.
	member := fmt.Sprintf(
		"principalSet://iam.googleapis.com/projects/%s/locations/global/workloadIdentityPools/%s/attribute.repository/%s",
		projectNumber, wifPoolID, repo)
	if _, err := runner.Run("gcloud", "iam", "service-accounts", "add-iam-policy-binding", saEmail,
		"--project", projectID,
		"--member", member,
		"--role", "roles/iam.workloadIdentityUser",
		"--quiet"); err != nil {
		return info, err
	}

	info.ProviderResource = fmt.Sprintf(
		"projects/%s/locations/global/workloadIdentityPools/%s/providers/%s",
		projectNumber, wifPoolID, wifProviderID)
	info.ServiceAccountEmail = saEmail
	return info, nil
}

// ProjectNumber resolves the numeric project number WIF resource names need.
func ProjectNumber(projectID string) (string, error) {
	out, err := runner.Output("gcloud", "projects", "describe", projectID,
		"--format", "value(projectNumber)")
	if err != nil {
		return "", fmt.Errorf("failed to resolve project number for %s: %w", projectID, err)
	}
	return out, nil
}

// WriteSecretsFile writes the two values GitHub Actions needs into
// gcp-secrets.txt. Guarded against silent overwrite like every other file
// this tool produces.
func WriteSecretsFile(path string, info WIFInfo, force bool) error {
	if !force {
		if _, err := os.Stat(path); err == nil {
			return fmt.Errorf("%s already exists, pass --force to overwrite", path)
		}
	}

	content := fmt.Sprintf(
		"# Add these as GitHub repository secrets\nGCP_WORKLOAD_IDENTITY_PROVIDER=%s\nGCP_SERVICE_ACCOUNT=%s\n",
		info.ProviderResource, info.ServiceAccountEmail)
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	logger.Info("[INFO] Wrote %s\n", path)
	return nil
}

// VertexEnabled reports whether the Vertex AI API is enabled on the project.
func VertexEnabled(projectID string) (bool, error) {
	if err := runner.Require("gcloud"); err != nil {
		return false, err
	}
	out, err := runner.Output("gcloud", "services", "list", "--enabled",
		"--project", projectID,
		"--filter", "config.name=aiplatform.googleapis.com",
		"--format", "value(config.name)")
	if err != nil {
		return false, err
	}
	return strings.Contains(out, "aiplatform.googleapis.com"), nil
}
