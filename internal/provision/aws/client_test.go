package aws

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	awssdk "github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/cloudwatchlogs"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// testS3Client creates a Client backed by a test HTTP server. The handler
// receives real S3 XML-protocol requests.
func testS3Client(t *testing.T, handler http.Handler) (*Client, *httptest.Server) {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	client := s3.New(s3.Options{
		Region:           "us-east-1",
		BaseEndpoint:     awssdk.String(server.URL),
		UsePathStyle:     true,
		Credentials:      credentials.NewStaticCredentialsProvider("test-key", "test-secret", ""),
		RetryMaxAttempts: 1,
	})

	return &Client{s3: client, region: "us-east-1"}, server
}

// xmlResponse is a helper to write S3-style XML responses.
func xmlResponse(w http.ResponseWriter, statusCode int, body string) {
	w.Header().Set("Content-Type", "application/xml")
	w.WriteHeader(statusCode)
	_, _ = w.Write([]byte(body))
}

func TestEnsureBucket_AlreadyExists(t *testing.T) {
	var createCalled bool
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodHead:
			w.WriteHeader(http.StatusOK)
		case http.MethodPut:
			createCalled = true
			xmlResponse(w, 200, "")
		}
	})

	client, _ := testS3Client(t, handler)

	created, err := client.EnsureBucket(context.Background(), "threew-training", "us-east-1")
	require.NoError(t, err)
	assert.False(t, created)
	assert.False(t, createCalled, "an existing bucket must not be re-created")
}

func TestEnsureBucket_Creates(t *testing.T) {
	var sawConstraint bool
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodHead:
			w.WriteHeader(http.StatusNotFound)
		case http.MethodPut:
			buf := make([]byte, 4096)
			n, _ := r.Body.Read(buf)
			if strings.Contains(string(buf[:n]), "us-west-2") {
				sawConstraint = true
			}
			xmlResponse(w, 200, `<?xml version="1.0" encoding="UTF-8"?><CreateBucketResult/>`)
		}
	})

	client, _ := testS3Client(t, handler)

	created, err := client.EnsureBucket(context.Background(), "threew-training", "us-west-2")
	require.NoError(t, err)
	assert.True(t, created)
	assert.True(t, sawConstraint, "non-default regions must send a location constraint")
}

func TestEnsureBucket_AlreadyOwnedOnCreate(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodHead:
			w.WriteHeader(http.StatusNotFound)
		case http.MethodPut:
			xmlResponse(w, 409, `<?xml version="1.0" encoding="UTF-8"?>
<Error><Code>BucketAlreadyOwnedByYou</Code><Message>Your previous request succeeded</Message></Error>`)
		}
	})

	client, _ := testS3Client(t, handler)

	created, err := client.EnsureBucket(context.Background(), "threew-training", "us-east-1")
	require.NoError(t, err, "a bucket we already own is not a failure")
	assert.False(t, created)
}

func TestEnsureFolders(t *testing.T) {
	var mu sync.Mutex
	keys := make(map[string]bool)
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodPut {
			mu.Lock()
			keys[strings.TrimPrefix(r.URL.Path, "/threew-training/")] = true
			mu.Unlock()
		}
		xmlResponse(w, 200, "")
	})

	client, _ := testS3Client(t, handler)

	require.NoError(t, client.EnsureFolders(context.Background(), "threew-training"))
	for _, folder := range StandardFolders {
		assert.True(t, keys[folder], "missing folder marker %s", folder)
	}
}

func TestEnsureLogGroup(t *testing.T) {
	// CloudWatch Logs speaks the awsjson1.1 protocol; errors come back as a
	// JSON body with a __type discriminator.
	newClient := func(handler http.Handler) *Client {
		server := httptest.NewServer(handler)
		t.Cleanup(server.Close)
		return &Client{cwl: cloudwatchlogs.New(cloudwatchlogs.Options{
			Region:           "us-east-1",
			BaseEndpoint:     awssdk.String(server.URL),
			Credentials:      credentials.NewStaticCredentialsProvider("test-key", "test-secret", ""),
			RetryMaxAttempts: 1,
		})}
	}

	t.Run("creates when missing", func(t *testing.T) {
		client := newClient(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/x-amz-json-1.1")
			_, _ = w.Write([]byte(`{}`))
		}))

		created, err := client.EnsureLogGroup(context.Background(), "/threew/training")
		require.NoError(t, err)
		assert.True(t, created)
	})

	t.Run("existing group is skipped", func(t *testing.T) {
		client := newClient(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/x-amz-json-1.1")
			w.WriteHeader(http.StatusBadRequest)
			_, _ = w.Write([]byte(`{"__type":"ResourceAlreadyExistsException","message":"exists"}`))
		}))

		created, err := client.EnsureLogGroup(context.Background(), "/threew/training")
		require.NoError(t, err, "an existing log group is not a failure")
		assert.False(t, created)
	})
}

func TestRoleExists_ParsesARN(t *testing.T) {
	// Only the ARN parsing path is exercised here; the IAM query protocol is
	// left to the SDK's own tests.
	client := &Client{}
	exists, err := client.RoleExists(context.Background(), "")
	require.NoError(t, err)
	assert.False(t, exists, "an empty role reference can never exist")
}
