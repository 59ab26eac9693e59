// Package testutil provides shared helpers for package tests: temporary
// font directories backed by a real embedded typeface, and small corpus
// fixtures.
package testutil

import (
	"os"
	"path/filepath"
	"testing"

	"golang.org/x/image/font/gofont/goregular"
)

// WriteTestFont writes a real parseable TrueType font into dir under the
// given file name and returns its path. The Go Regular face has digit glyphs,
// so the resulting font counts as numeric-capable unless its name is on the
// exclusion list.
func WriteTestFont(t *testing.T, dir, name string) string {
	t.Helper()

	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, goregular.TTF, 0644); err != nil {
		t.Fatalf("Failed to write test font %s: %v", path, err)
	}
	return path
}

// CreateTestFontDir creates a temporary directory holding one usable font and
// returns the directory path.
func CreateTestFontDir(t *testing.T) string {
	t.Helper()

	dir := t.TempDir()
	WriteTestFont(t, dir, "test-regular.ttf")
	return dir
}

// CreateTestCorpusFile writes a small weighted dictionary file and returns
// its path.
func CreateTestCorpusFile(t *testing.T) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "corpus.txt")
	content := "და\t100\nარის\t40\nსახლი\t10\nწიგნი\t5\n"
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("Failed to write test corpus %s: %v", path, err)
	}
	return path
}

// AssertFileExists checks if a file exists
func AssertFileExists(t *testing.T, path string) {
	t.Helper()

	if _, err := os.Stat(path); os.IsNotExist(err) {
		t.Errorf("Expected file to exist: %s", path)
	}
}
