// Package gcp provisions the Google Cloud side of the project: the GCS bucket
// with the standard folder layout, the training service account, and Workload
// Identity Federation for GitHub Actions. Storage goes through the Cloud
// Storage SDK; the IAM surfaces only gcloud exposes are shelled out.
package gcp

import (
	"context"
	"errors"
	"fmt"

	"cloud.google.com/go/storage"
	"google.golang.org/api/iterator"
	"google.golang.org/api/option"

	"threew-setup/internal/logger"
)

// StandardFolders mirrors the S3 layout so the training code finds the same
// paths on either cloud.
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

// Storage wraps the GCS client with the project coordinates.
type Storage struct {
	client    *storage.Client
	projectID string
	region    string
}

// NewStorage builds a Storage using application default credentials, the auth
// mode the project standardized on (`gcloud auth application-default login`).
func NewStorage(ctx context.Context, projectID, region string, opts ...option.ClientOption) (*Storage, error) {
	client, err := storage.NewClient(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create storage client (run `gcloud auth application-default login`?): %w", err)
	}
	return &Storage{client: client, projectID: projectID, region: region}, nil
}

// Close releases the underlying client.
func (s *Storage) Close() error {
	return s.client.Close()
}

// EnsureBucket creates the bucket in the configured region when it does not
// exist. An existing bucket logs "already exists" and is success, so repeated
// setup runs exit clean. Returns whether the bucket was created.
func (s *Storage) EnsureBucket(ctx context.Context, name string) (bool, error) {
	bucket := s.client.Bucket(name)

	_, err := bucket.Attrs(ctx)
	if err == nil {
		logger.Info("[INFO] GCS bucket %s already exists. Skipping.\n", name)
		return false, nil
	}
	if !errors.Is(err, storage.ErrBucketNotExist) {
		return false, fmt.Errorf("failed to check bucket %s: %w", name, err)
	}

	logger.Info("[INFO] Creating GCS bucket %s in %s...\n", name, s.region)
	if err := bucket.Create(ctx, s.projectID, &storage.BucketAttrs{Location: s.region}); err != nil {
		return false, fmt.Errorf("failed to create bucket %s: %w", name, err)
	}
	logger.Info("[INFO] Created GCS bucket %s\n", name)
	return true, nil
}

// EnsureFolders writes the zero-byte folder markers. Failures per marker are
// logged and the rest still attempted.
func (s *Storage) EnsureFolders(ctx context.Context, name string) error {
	bucket := s.client.Bucket(name)
	var firstErr error
	for _, folder := range StandardFolders {
		w := bucket.Object(folder).NewWriter(ctx)
		if err := w.Close(); err != nil {
			logger.Warn("[WARN] Failed to create folder %s: %v\n", folder, err)
			if firstErr == nil {
				firstErr = err
			}
			continue
		}
		logger.Debug("[DEBUG] Created folder marker %s in %s\n", folder, name)
	}
	if firstErr != nil {
		return fmt.Errorf("failed to create folder markers: %w", firstErr)
	}
	logger.Info("[INFO] Bucket layout ready in %s\n", name)
	return nil
}

// ListPrefix returns object names under a prefix, used by the status command
// to show which folder markers are in place.
func (s *Storage) ListPrefix(ctx context.Context, name, prefix string) ([]string, error) {
	it := s.client.Bucket(name).Objects(ctx, &storage.Query{Prefix: prefix})

	var objects []string
	for {
		attrs, err := it.Next()
		if errors.Is(err, iterator.Done) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to list gs://%s/%s: %w", name, prefix, err)
		}
		objects = append(objects, attrs.Name)
	}
	return objects, nil
}

// BucketExists probes the bucket without creating it.
func (s *Storage) BucketExists(ctx context.Context, name string) (bool, error) {
	_, err := s.client.Bucket(name).Attrs(ctx)
	if err == nil {
		return true, nil
	}
	if errors.Is(err, storage.ErrBucketNotExist) {
		return false, nil
	}
	return false, fmt.Errorf("failed to check bucket %s: %w", name, err)
}
