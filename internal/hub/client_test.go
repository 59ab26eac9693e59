package hub

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/sony/gobreaker"
)

func writeArchive(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "dataset.zip")
	if err := os.WriteFile(path, []byte("zip bytes"), 0644); err != nil {
		t.Fatalf("Failed to write archive: %v", err)
	}
	return path
}

func testClient(t *testing.T, serverURL string) *Client {
	t.Helper()
	client, err := NewClient("test-token", "user/ka-ocr")
	if err != nil {
		t.Fatalf("NewClient failed: %v", err)
	}
	client.endpoint = serverURL
	return client
}

func TestNewClientRequiresCredentials(t *testing.T) {
	tests := []struct {
		name  string
		token string
		repo  string
	}{
		{"missing token", "", "user/ka-ocr"},
		{"missing repo", "token", ""},
		{"missing both", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewClient(tt.token, tt.repo)
			if err == nil {
				t.Fatal("Expected error, got nil")
			}
			var authErr *AuthError
			if !errors.As(err, &authErr) {
				t.Errorf("Expected *AuthError, got %T: %v", err, err)
			}
		})
	}
}

func TestUpload(t *testing.T) {
	var gotPath, gotAuth, gotContentType string
	var gotBody []byte

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotAuth = r.Header.Get("Authorization")
		gotContentType = r.Header.Get("Content-Type")
		gotBody, _ = io.ReadAll(r.Body)
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	client := testClient(t, server.URL)
	if err := client.Upload(context.Background(), writeArchive(t)); err != nil {
		t.Fatalf("Upload failed: %v", err)
	}

	if gotPath != "/api/datasets/user/ka-ocr/commit/main" {
		t.Errorf("Request path = %q", gotPath)
	}
	if gotAuth != "Bearer test-token" {
		t.Errorf("Authorization = %q", gotAuth)
	}
	if gotContentType != "application/x-ndjson" {
		t.Errorf("Content-Type = %q", gotContentType)
	}

	// NDJSON body: header line then file line.
	lines := strings.Split(strings.TrimSpace(string(gotBody)), "\n")
	if len(lines) != 2 {
		t.Fatalf("Commit body has %d lines, want 2", len(lines))
	}
	var file struct {
		Key   string `json:"key"`
		Value struct {
			Path     string `json:"path"`
			Encoding string `json:"encoding"`
		} `json:"value"`
	}
	if err := json.Unmarshal([]byte(lines[1]), &file); err != nil {
		t.Fatalf("Failed to parse file line: %v", err)
	}
	if file.Key != "file" || file.Value.Path != "dataset.zip" || file.Value.Encoding != "base64" {
		t.Errorf("File line = %+v", file)
	}
}

func TestUploadRejectedToken(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer server.Close()

	client := testClient(t, server.URL)
	err := client.Upload(context.Background(), writeArchive(t))

	var authErr *AuthError
	if !errors.As(err, &authErr) {
		t.Errorf("Expected *AuthError, got %T: %v", err, err)
	}
}

func TestUploadServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "quota exceeded", http.StatusTooManyRequests)
	}))
	defer server.Close()

	client := testClient(t, server.URL)
	err := client.Upload(context.Background(), writeArchive(t))

	var uploadErr *UploadError
	if !errors.As(err, &uploadErr) {
		t.Fatalf("Expected *UploadError, got %T: %v", err, err)
	}
	if uploadErr.Code != http.StatusTooManyRequests {
		t.Errorf("Code = %d, want %d", uploadErr.Code, http.StatusTooManyRequests)
	}
	if !strings.Contains(uploadErr.Message, "quota exceeded") {
		t.Errorf("Message = %q, want server body", uploadErr.Message)
	}
}

func TestUploadCircuitBreakerOpens(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	client := testClient(t, server.URL)
	archive := writeArchive(t)

	for i := 0; i < 3; i++ {
		if err := client.Upload(context.Background(), archive); err == nil {
			t.Fatalf("Upload %d unexpectedly succeeded", i)
		}
	}

	// Three consecutive failures trip the breaker; the next attempt fails
	// fast without reaching the server.
	err := client.Upload(context.Background(), archive)
	if !errors.Is(err, gobreaker.ErrOpenState) {
		t.Errorf("Expected open circuit breaker, got %v", err)
	}
}

func TestUploadMissingArchive(t *testing.T) {
	client := testClient(t, "http://127.0.0.1:0")
	err := client.Upload(context.Background(), filepath.Join(t.TempDir(), "missing.zip"))
	if err == nil {
		t.Error("Expected error for missing archive file")
	}
}
