// Package dataset persists generated samples: image files on disk plus the
// labels.csv metadata table that pairs every image with its ground-truth
// text. Records accumulate in per-worker buffers and are merged before the
// single CSV flush, so parallel generation never interleaves rows.
package dataset

import (
	"encoding/csv"
	"fmt"
	"image"
	"os"
	"path/filepath"
	"sort"

	"github.com/disintegration/imaging"

	"codeberg.org/kakha/kaglyph/internal/corpus"
)

// MetadataFileName is the labels table written next to the image files.
const MetadataFileName = "labels.csv"

// Record is one row of the metadata table.
type Record struct {
	FileName string
	Text     string
	Font     string
	Index    int // per-font sample index; orders merged buffers
	Category corpus.Category
}

// ImageFileName returns the canonical image name for a (font, index) pair,
// zero-padded so lexical and numeric order agree.
func ImageFileName(fontName string, index int) string {
	return fmt.Sprintf("%s_%05d.png", fontName, index)
}

// Writer collects records for one generation run and persists images and
// metadata under a dataset directory.
type Writer struct {
	dir     string
	records []Record
}

// NewWriter creates a dataset writer rooted at dir, creating the directory
// if needed.
func NewWriter(dir string) (*Writer, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create dataset directory: %w", err)
	}
	return &Writer{dir: dir}, nil
}

// Dir returns the dataset directory.
func (w *Writer) Dir() string { return w.dir }

// SaveImage writes one rendered sample as PNG and returns its file name.
func (w *Writer) SaveImage(img image.Image, fontName string, index int) (string, error) {
	name := ImageFileName(fontName, index)
	if err := imaging.Save(img, filepath.Join(w.dir, name)); err != nil {
		return "", fmt.Errorf("failed to save image %s: %w", name, err)
	}
	return name, nil
}

// Append adds records to the writer's buffer. Safe only from a single
// goroutine; workers keep local slices and merge via Merge.
func (w *Writer) Append(records ...Record) {
	w.records = append(w.records, records...)
}

// Merge folds per-worker buffers into the writer and restores deterministic
// (font, index) order, so sequential and parallel runs emit identical tables
// for identical samples.
func (w *Writer) Merge(buffers ...[]Record) {
	for _, buf := range buffers {
		w.records = append(w.records, buf...)
	}
	sort.Slice(w.records, func(i, j int) bool {
		if w.records[i].Font != w.records[j].Font {
			return w.records[i].Font < w.records[j].Font
		}
		return w.records[i].Index < w.records[j].Index
	})
}

// Records returns the buffered records.
func (w *Writer) Records() []Record { return w.records }

// WriteMetadata flushes the metadata table, replacing any previous one.
func (w *Writer) WriteMetadata() error {
	path := filepath.Join(w.dir, MetadataFileName)
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create metadata file: %w", err)
	}
	defer file.Close()

	writer := csv.NewWriter(file)
	defer writer.Flush()

	if err := writer.Write([]string{"file_name", "text", "font", "category"}); err != nil {
		return fmt.Errorf("failed to write metadata header: %w", err)
	}
	for _, rec := range w.records {
		row := []string{rec.FileName, rec.Text, rec.Font, string(rec.Category)}
		if err := writer.Write(row); err != nil {
			return fmt.Errorf("failed to write metadata row for %s: %w", rec.FileName, err)
		}
	}

	writer.Flush()
	return writer.Error()
}

// ReadMetadata loads an existing labels table from a dataset directory.
func ReadMetadata(dir string) ([]Record, error) {
	file, err := os.Open(filepath.Join(dir, MetadataFileName))
	if err != nil {
		return nil, fmt.Errorf("failed to open metadata file: %w", err)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to parse metadata file: %w", err)
	}
	if len(rows) == 0 {
		return nil, nil
	}

	records := make([]Record, 0, len(rows)-1)
	for _, row := range rows[1:] { // skip header
		if len(row) < 4 {
			return nil, fmt.Errorf("metadata row has %d columns, want 4", len(row))
		}
		records = append(records, Record{
			FileName: row[0],
			Text:     row[1],
			Font:     row[2],
			Category: corpus.Category(row[3]),
		})
	}
	return records, nil
}

// Verify checks the image/metadata bijection: every record references an
// existing image, every image file has exactly one record, and no file name
// appears twice.
func Verify(dir string, records []Record) error {
	seen := make(map[string]bool, len(records))
	for _, rec := range records {
		if seen[rec.FileName] {
			return fmt.Errorf("duplicate metadata row for %s", rec.FileName)
		}
		seen[rec.FileName] = true

		if _, err := os.Stat(filepath.Join(dir, rec.FileName)); err != nil {
			return fmt.Errorf("metadata references missing image %s: %w", rec.FileName, err)
		}
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return fmt.Errorf("failed to read dataset directory: %w", err)
	}
	for _, entry := range entries {
		if entry.IsDir() || filepath.Ext(entry.Name()) != ".png" {
			continue
		}
		if !seen[entry.Name()] {
			return fmt.Errorf("image %s has no metadata row", entry.Name())
		}
	}

	return nil
}
