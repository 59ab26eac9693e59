package dataset

import (
	"image"
	"image/color"
	"os"
	"path/filepath"
	"testing"

	"codeberg.org/kakha/kaglyph/internal/corpus"
)

func testImage() image.Image {
	img := image.NewRGBA(image.Rect(0, 0, 32, 16))
	for y := 0; y < 16; y++ {
		for x := 0; x < 32; x++ {
			img.Set(x, y, color.White)
		}
	}
	return img
}

func TestImageFileName(t *testing.T) {
	tests := []struct {
		font  string
		index int
		want  string
	}{
		{"bpg-glaho", 0, "bpg-glaho_00000.png"},
		{"bpg-glaho", 42, "bpg-glaho_00042.png"},
		{"sylfaen", 99999, "sylfaen_99999.png"},
	}

	for _, tt := range tests {
		if got := ImageFileName(tt.font, tt.index); got != tt.want {
			t.Errorf("ImageFileName(%q, %d) = %q, want %q", tt.font, tt.index, got, tt.want)
		}
	}
}

func TestWriterRoundTrip(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "dataset")
	w, err := NewWriter(dir)
	if err != nil {
		t.Fatalf("NewWriter failed: %v", err)
	}

	name, err := w.SaveImage(testImage(), "testfont", 0)
	if err != nil {
		t.Fatalf("SaveImage failed: %v", err)
	}
	if name != "testfont_00000.png" {
		t.Errorf("SaveImage returned %q, want %q", name, "testfont_00000.png")
	}

	w.Append(Record{
		FileName: name,
		Text:     "სახლი, \"big\"", // commas and quotes must survive CSV
		Font:     "testfont",
		Index:    0,
		Category: corpus.CategoryWord,
	})
	if err := w.WriteMetadata(); err != nil {
		t.Fatalf("WriteMetadata failed: %v", err)
	}

	records, err := ReadMetadata(dir)
	if err != nil {
		t.Fatalf("ReadMetadata failed: %v", err)
	}
	if len(records) != 1 {
		t.Fatalf("ReadMetadata returned %d records, want 1", len(records))
	}
	rec := records[0]
	if rec.FileName != name || rec.Text != "სახლი, \"big\"" || rec.Font != "testfont" || rec.Category != corpus.CategoryWord {
		t.Errorf("Round-tripped record = %+v", rec)
	}

	if err := Verify(dir, records); err != nil {
		t.Errorf("Verify failed on consistent dataset: %v", err)
	}
}

func TestMergeRestoresOrder(t *testing.T) {
	w, err := NewWriter(t.TempDir())
	if err != nil {
		t.Fatalf("NewWriter failed: %v", err)
	}

	// Buffers arrive in worker-completion order, not sample order.
	bufA := []Record{
		{FileName: "b_00001.png", Font: "b", Index: 1},
		{FileName: "a_00002.png", Font: "a", Index: 2},
	}
	bufB := []Record{
		{FileName: "a_00000.png", Font: "a", Index: 0},
		{FileName: "b_00000.png", Font: "b", Index: 0},
	}
	w.Merge(bufA, bufB)

	want := []string{"a_00000.png", "a_00002.png", "b_00000.png", "b_00001.png"}
	records := w.Records()
	if len(records) != len(want) {
		t.Fatalf("Merge kept %d records, want %d", len(records), len(want))
	}
	for i, name := range want {
		if records[i].FileName != name {
			t.Errorf("records[%d] = %q, want %q", i, records[i].FileName, name)
		}
	}
}

func TestVerifyDetectsMissingImage(t *testing.T) {
	dir := t.TempDir()
	records := []Record{{FileName: "ghost_00000.png"}}
	if err := Verify(dir, records); err == nil {
		t.Error("Expected error for metadata referencing a missing image")
	}
}

func TestVerifyDetectsOrphanImage(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "orphan_00000.png"), []byte("png"), 0644); err != nil {
		t.Fatalf("Failed to write orphan image: %v", err)
	}
	if err := Verify(dir, nil); err == nil {
		t.Error("Expected error for image without a metadata row")
	}
}

func TestVerifyDetectsDuplicateRows(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "dup_00000.png"), []byte("png"), 0644); err != nil {
		t.Fatalf("Failed to write image: %v", err)
	}
	records := []Record{
		{FileName: "dup_00000.png"},
		{FileName: "dup_00000.png"},
	}
	if err := Verify(dir, records); err == nil {
		t.Error("Expected error for duplicate metadata rows")
	}
}

func TestReadMetadataMissingFile(t *testing.T) {
	if _, err := ReadMetadata(t.TempDir()); err == nil {
		t.Error("Expected error for directory without labels.csv")
	}
}
