// Package archive packages a generated dataset directory (images plus
// labels.csv) into a single zip file for upload.
package archive

import (
	"archive/zip"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// DefaultArchivePath returns the archive name for a dataset directory:
// "<dir>.zip" next to the directory.
func DefaultArchivePath(datasetDir string) string {
	return filepath.Clean(datasetDir) + ".zip"
}

// CreateArchive zips the dataset directory into outPath, overwriting any
// existing archive. Entry names are relative to the dataset directory, so
// unpacking yields the images and labels.csv at the archive root.
func CreateArchive(datasetDir, outPath string) error {
	if _, err := os.Stat(datasetDir); os.IsNotExist(err) {
		return fmt.Errorf("dataset directory does not exist: %s", datasetDir)
	}

	zipFile, err := os.Create(outPath)
	if err != nil {
		return fmt.Errorf("failed to create archive file: %w", err)
	}
	defer zipFile.Close()

	archive := zip.NewWriter(zipFile)

	count := 0
	err = filepath.Walk(datasetDir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() {
			return nil
		}

		rel, err := filepath.Rel(datasetDir, path)
		if err != nil {
			return err
		}

		entry, err := archive.Create(filepath.ToSlash(rel))
		if err != nil {
			return fmt.Errorf("failed to create archive entry %s: %w", rel, err)
		}

		src, err := os.Open(path)
		if err != nil {
			return err
		}
		defer src.Close()

		if _, err := io.Copy(entry, src); err != nil {
			return fmt.Errorf("failed to write archive entry %s: %w", rel, err)
		}
		count++
		return nil
	})
	if err != nil {
		archive.Close()
		return fmt.Errorf("failed to archive dataset: %w", err)
	}

	if err := archive.Close(); err != nil {
		return fmt.Errorf("failed to finalize archive: %w", err)
	}

	fmt.Printf("Archived %d files to %s\n", count, outPath)
	return nil
}
