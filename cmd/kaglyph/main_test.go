package main

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/viper"

	"codeberg.org/kakha/kaglyph/internal/cli"
	"codeberg.org/kakha/kaglyph/internal/hub"
)

func writeDatasetDir(t *testing.T) string {
	t.Helper()
	dir := filepath.Join(t.TempDir(), "dataset")
	if err := os.MkdirAll(dir, 0755); err != nil {
		t.Fatalf("Failed to create dataset directory: %v", err)
	}
	if err := os.WriteFile(filepath.Join(dir, "labels.csv"), []byte("file_name,text,font,category\n"), 0644); err != nil {
		t.Fatalf("Failed to write labels.csv: %v", err)
	}
	return dir
}

func TestRunCommandPackage(t *testing.T) {
	flags := cli.NewFlags()
	cmd := cli.CreateRootCommand(flags)
	flags.Package = true
	flags.OutputDir = writeDatasetDir(t)

	if err := runCommand(cmd, nil, flags); err != nil {
		t.Fatalf("runCommand failed: %v", err)
	}

	if _, err := os.Stat(flags.OutputDir + ".zip"); err != nil {
		t.Errorf("Expected archive next to dataset directory: %v", err)
	}
}

func TestRunCommandPackageWithUpload(t *testing.T) {
	// --package --upload is the advertised recovery path after a failed push:
	// it must attempt the upload, not just re-zip. Without credentials the
	// attempt surfaces an auth error after the archive is rebuilt.
	viper.Reset()
	t.Setenv("HF_TOKEN", "")
	t.Setenv("KAGLYPH_HUB_REPO", "")

	flags := cli.NewFlags()
	cmd := cli.CreateRootCommand(flags)
	flags.Package = true
	flags.Upload = true
	flags.OutputDir = writeDatasetDir(t)

	err := runCommand(cmd, nil, flags)

	var authErr *hub.AuthError
	if !errors.As(err, &authErr) {
		t.Fatalf("Expected *hub.AuthError from upload attempt, got %v", err)
	}

	if _, statErr := os.Stat(flags.OutputDir + ".zip"); statErr != nil {
		t.Errorf("Expected archive to be created before the upload attempt: %v", statErr)
	}
}
