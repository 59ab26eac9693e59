// Package generator orchestrates a dataset run: for every font in the font
// set and every requested sample index it samples a label, renders it, and
// records metadata. Work is either sequential or partitioned across
// independent workers that own disjoint (font, index) ranges, so no two
// workers ever write the same file.
package generator

import (
	"context"
	"fmt"
	"image"
	"image/color"
	"io"
	"os"
	"sync"

	"codeberg.org/kakha/kaglyph/internal/corpus"
	"codeberg.org/kakha/kaglyph/internal/dataset"
	"codeberg.org/kakha/kaglyph/internal/fontset"
	"codeberg.org/kakha/kaglyph/internal/render"
)

// Config parameterizes one generation run.
type Config struct {
	Count     int    // images per font
	Workers   int    // 1 = sequential
	Seed      int64  // base seed; worker w derives seed+w
	OutputDir string // dataset directory
	FontDir   string

	// CorpusPath optionally points at a weighted TSV dictionary. When empty
	// the generator looks for a built sqlite corpus next to the font
	// directory and finally falls back to the embedded dictionary.
	CorpusPath string

	Render *render.Options // nil for defaults
}

// Stats summarizes a finished run.
type Stats struct {
	Fonts      int
	Generated  int
	Skipped    int
	Categories map[corpus.Category]int
}

// Generator runs dataset generation over a loaded corpus and font set.
type Generator struct {
	config *Config
	corpus *corpus.Corpus
	fonts  []*fontset.Font
}

// New loads the corpus and font set for a run.
func New(config *Config) (*Generator, error) {
	if config.Count <= 0 {
		return nil, fmt.Errorf("image count must be positive, got %d", config.Count)
	}
	if config.Workers <= 0 {
		config.Workers = 1
	}

	c, err := resolveCorpus(config.CorpusPath)
	if err != nil {
		return nil, err
	}

	fonts, err := fontset.LoadDir(config.FontDir)
	if err != nil {
		return nil, err
	}

	return &Generator{config: config, corpus: c, fonts: fonts}, nil
}

// Fonts returns the usable font set for this run.
func (g *Generator) Fonts() []*fontset.Font { return g.fonts }

// resolveCorpus picks the word source: explicit file, then a built sqlite
// corpus, then the embedded fallback dictionary.
func resolveCorpus(path string) (*corpus.Corpus, error) {
	if path == "" {
		return corpus.Embedded(), nil
	}

	if isSQLite(path) {
		store, err := corpus.OpenStore(path)
		if err != nil {
			return nil, err
		}
		defer store.Close()
		return store.Load()
	}
	return corpus.LoadFile(path)
}

func isSQLite(path string) bool {
	f, err := os.Open(path)
	if err != nil {
		return false
	}
	defer f.Close()
	header := make([]byte, 15)
	if _, err := io.ReadFull(f, header); err != nil {
		return false
	}
	return string(header) == "SQLite format 3"
}

// workItem is one (font, index) pair. Items are partitioned contiguously
// across workers, so ownership is deterministic for a given worker count.
type workItem struct {
	font  *fontset.Font
	index int
}

// Run generates the dataset and writes the metadata table. Per-sample
// failures are logged and skipped; Run fails only on setup or I/O errors.
func (g *Generator) Run(ctx context.Context) (*Stats, error) {
	writer, err := dataset.NewWriter(g.config.OutputDir)
	if err != nil {
		return nil, err
	}

	items := make([]workItem, 0, len(g.fonts)*g.config.Count)
	for _, f := range g.fonts {
		for i := 0; i < g.config.Count; i++ {
			items = append(items, workItem{font: f, index: i})
		}
	}

	fmt.Printf("Generating %d images across %d fonts (%d workers)...\n",
		len(items), len(g.fonts), g.config.Workers)

	workers := g.config.Workers
	if workers > len(items) {
		workers = len(items)
	}

	buffers := make([][]dataset.Record, workers)
	skips := make([]int, workers)

	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		lo, hi := chunkRange(len(items), workers, w)
		wg.Add(1)
		go func(workerID int, chunk []workItem) {
			defer wg.Done()
			buffers[workerID], skips[workerID] = g.runWorker(ctx, workerID, chunk, writer)
		}(w, items[lo:hi])
	}
	wg.Wait()

	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("generation aborted: %w", err)
	}

	writer.Merge(buffers...)
	if err := writer.WriteMetadata(); err != nil {
		return nil, err
	}

	stats := &Stats{
		Fonts:      len(g.fonts),
		Categories: make(map[corpus.Category]int),
	}
	for _, rec := range writer.Records() {
		stats.Generated++
		stats.Categories[rec.Category]++
	}
	for _, n := range skips {
		stats.Skipped += n
	}

	printSummary(stats)
	return stats, nil
}

// runWorker processes one contiguous chunk of work items with its own
// sampler and renderer, returning the local record buffer and skip count.
func (g *Generator) runWorker(ctx context.Context, workerID int, items []workItem, writer *dataset.Writer) ([]dataset.Record, int) {
	sampler := corpus.NewSampler(g.corpus, g.config.Seed+int64(workerID))
	renderer := render.NewRenderer(g.config.Render, g.config.Seed+int64(workerID))

	var records []dataset.Record
	skipped := 0
	for _, item := range items {
		if ctx.Err() != nil {
			return records, skipped
		}

		category, text := sampler.Sample(item.font.Numeric)
		img, label, err := g.renderWithRetry(renderer, text, item.font)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Warning: skipping sample %s/%d (%q): %v\n",
				item.font.Name, item.index, text, err)
			skipped++
			continue
		}

		name, err := writer.SaveImage(img, item.font.Name, item.index)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Warning: skipping sample %s/%d: %v\n",
				item.font.Name, item.index, err)
			skipped++
			continue
		}

		records = append(records, dataset.Record{
			FileName: name,
			Text:     label,
			Font:     item.font.Name,
			Index:    item.index,
			Category: category,
		})
	}
	return records, skipped
}

// renderWithRetry renders with a random style, then once more with a
// conservative fallback style (floor-size black on white, no effects) before
// giving up on the sample.
func (g *Generator) renderWithRetry(r *render.Renderer, text string, f *fontset.Font) (image.Image, string, error) {
	img, label, err := r.Render(text, f)
	if err == nil {
		return img, label, nil
	}

	opts := g.config.Render
	if opts == nil {
		opts = render.DefaultOptions()
	}
	fallback := render.Style{
		FontSize:   opts.FloorFontSize,
		Foreground: color.Black,
		Background: color.White,
	}
	return r.RenderStyled(text, f, fallback)
}

// chunkRange splits n items into near-equal contiguous chunks and returns
// the [lo, hi) range owned by worker w.
func chunkRange(n, workers, w int) (int, int) {
	base := n / workers
	extra := n % workers
	lo := w*base + min(w, extra)
	hi := lo + base
	if w < extra {
		hi++
	}
	return lo, hi
}

func printSummary(stats *Stats) {
	fmt.Printf("\n=== Generation Summary ===\n")
	fmt.Printf("Fonts: %d\n", stats.Fonts)
	fmt.Printf("Generated: %d\n", stats.Generated)
	if stats.Skipped > 0 {
		fmt.Printf("Skipped: %d\n", stats.Skipped)
	}
	for _, cat := range []corpus.Category{corpus.CategoryWord, corpus.CategorySequence, corpus.CategoryNumber} {
		if n := stats.Categories[cat]; n > 0 {
			fmt.Printf("  %s: %d\n", cat, n)
		}
	}
	fmt.Printf("==========================\n")
}
