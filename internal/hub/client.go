// Package hub pushes packaged datasets to a Hugging Face dataset
// repository. Authentication uses a user-supplied access token; a missing
// token or repository id aborts only the upload, never the generation that
// produced the dataset.
package hub

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/sony/gobreaker"
)

const (
	defaultEndpoint = "https://huggingface.co"
	uploadTimeout   = 5 * time.Minute
)

// AuthError reports missing or rejected credentials.
type AuthError struct {
	Reason string
}

func (e *AuthError) Error() string {
	return fmt.Sprintf("hub authentication failed: %s", e.Reason)
}

// UploadError reports a failed upload request.
type UploadError struct {
	Repo    string
	Code    int
	Message string
}

func (e *UploadError) Error() string {
	return fmt.Sprintf("upload to %s failed with status %d: %s", e.Repo, e.Code, e.Message)
}

// Client uploads files to one dataset repository.
type Client struct {
	token      string
	repo       string // "user/dataset-name"
	endpoint   string
	httpClient *http.Client
	breaker    *gobreaker.CircuitBreaker
}

// NewClient creates an upload client. Token and repo must both be non-empty;
// resolve them from the environment or config before calling.
func NewClient(token, repo string) (*Client, error) {
	if token == "" {
		return nil, &AuthError{Reason: "no access token configured (set HF_TOKEN)"}
	}
	if repo == "" {
		return nil, &AuthError{Reason: "no dataset repository configured (set KAGLYPH_HUB_REPO)"}
	}

	breaker := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        "hub-upload",
		MaxRequests: 1,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 3
		},
	})

	return &Client{
		token:      token,
		repo:       repo,
		endpoint:   defaultEndpoint,
		httpClient: &http.Client{Timeout: uploadTimeout},
		breaker:    breaker,
	}, nil
}

// Repo returns the target dataset repository id.
func (c *Client) Repo() string { return c.repo }

// Upload commits one file to the main branch of the dataset repository. The
// commit message records the file name. Uploads go through a circuit breaker
// so repeated failures stop hammering the API.
func (c *Client) Upload(ctx context.Context, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read archive: %w", err)
	}

	_, err = c.breaker.Execute(func() (any, error) {
		return nil, c.commit(ctx, filepath.Base(path), data)
	})
	if err != nil {
		return err
	}

	fmt.Printf("Uploaded %s to dataset %s\n", filepath.Base(path), c.repo)
	return nil
}

// commit sends a single-file commit via the Hub NDJSON commit API: a header
// line describing the commit followed by one base64-encoded file line.
func (c *Client) commit(ctx context.Context, name string, data []byte) error {
	var body bytes.Buffer
	enc := json.NewEncoder(&body)

	header := map[string]any{
		"key": "header",
		"value": map[string]string{
			"summary": fmt.Sprintf("Upload %s via kaglyph", name),
		},
	}
	if err := enc.Encode(header); err != nil {
		return fmt.Errorf("failed to encode commit header: %w", err)
	}

	file := map[string]any{
		"key": "file",
		"value": map[string]string{
			"path":     name,
			"encoding": "base64",
			"content":  base64.StdEncoding.EncodeToString(data),
		},
	}
	if err := enc.Encode(file); err != nil {
		return fmt.Errorf("failed to encode commit file: %w", err)
	}

	url := fmt.Sprintf("%s/api/datasets/%s/commit/main", c.endpoint, c.repo)
	req, err := http.NewRequestWithContext(ctx, "POST", url, &body)
	if err != nil {
		return fmt.Errorf("failed to create commit request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("Content-Type", "application/x-ndjson")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("commit request failed: %w", err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusOK:
		return nil
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return &AuthError{Reason: fmt.Sprintf("token rejected for %s (status %d)", c.repo, resp.StatusCode)}
	default:
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		return &UploadError{Repo: c.repo, Code: resp.StatusCode, Message: string(msg)}
	}
}
