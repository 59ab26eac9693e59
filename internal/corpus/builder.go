package corpus

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"
	"time"
)

const (
	wikipediaAPIURL  = "https://ka.wikipedia.org/w/api.php"
	wikipediaTimeout = 30 * time.Second
	builderUserAgent = "kaglyph-corpus-builder/1.0"

	minWordLength = 2
	maxWordLength = 20
)

// georgianWordPattern matches runs of Mkhedruli letters.
var georgianWordPattern = regexp.MustCompile(`[ა-ჰ]+`)

// seedTitles are curated ka.wikipedia pages fetched before random pages, so
// even small builds cover common vocabulary.
var seedTitles = []string{
	"საქართველო", "თბილისი", "საქართველოს_ისტორია",
	"ფიზიკა", "მათემატიკა", "ქიმია", "ბიოლოგია",
	"ლიტერატურა", "ხელოვნება", "მუსიკა", "სპორტი",
	"ეკონომიკა", "პოლიტიკა", "გეოგრაფია", "ფილოსოფია",
}

// BuilderOptions configures a corpus build.
type BuilderOptions struct {
	Pages        int // total pages to fetch, seed pages included
	MinFrequency int // drop words seen fewer times
}

// DefaultBuilderOptions returns the build parameters used by the original
// dictionary.
func DefaultBuilderOptions() *BuilderOptions {
	return &BuilderOptions{
		Pages:        100,
		MinFrequency: 2,
	}
}

// Builder scrapes the Georgian Wikipedia and produces a frequency-weighted
// word list.
type Builder struct {
	options    *BuilderOptions
	httpClient *http.Client
}

// NewBuilder creates a corpus builder.
func NewBuilder(options *BuilderOptions) *Builder {
	if options == nil {
		options = DefaultBuilderOptions()
	}
	return &Builder{
		options: options,
		httpClient: &http.Client{
			Timeout: wikipediaTimeout,
		},
	}
}

// Build fetches pages, extracts Georgian words, and returns them sorted by
// frequency, most common first. Individual page failures are logged and
// skipped; the build fails only when no page could be fetched.
func (b *Builder) Build(ctx context.Context) ([]Word, error) {
	var texts []string

	fmt.Printf("Fetching %d seed pages...\n", len(seedTitles))
	for _, title := range seedTitles {
		text, err := b.fetchPage(ctx, title)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Warning: failed to fetch page %q: %v\n", title, err)
			continue
		}
		texts = append(texts, text)
	}

	remaining := b.options.Pages - len(seedTitles)
	if remaining > 0 {
		fmt.Printf("Fetching %d random pages...\n", remaining)
		for i := 0; i < remaining; i++ {
			text, err := b.fetchRandomPage(ctx)
			if err != nil {
				fmt.Fprintf(os.Stderr, "Warning: failed to fetch random page: %v\n", err)
				continue
			}
			texts = append(texts, text)
			if (i+1)%10 == 0 {
				fmt.Printf("  Fetched %d/%d random pages...\n", i+1, remaining)
			}
		}
	}

	if len(texts) == 0 {
		return nil, fmt.Errorf("no Wikipedia pages could be fetched")
	}

	words := ExtractWords(texts, b.options.MinFrequency)
	if len(words) == 0 {
		return nil, fmt.Errorf("no words above frequency %d found in %d pages",
			b.options.MinFrequency, len(texts))
	}

	fmt.Printf("Extracted %d words from %d pages\n", len(words), len(texts))
	return words, nil
}

// ExtractWords counts Georgian words of length 2-20 across the given texts
// and drops words below minFrequency. The result is sorted by descending
// frequency with ties broken alphabetically, so builds are reproducible.
func ExtractWords(texts []string, minFrequency int) []Word {
	counts := make(map[string]int)
	for _, text := range texts {
		for _, w := range georgianWordPattern.FindAllString(text, -1) {
			if n := len([]rune(w)); n < minWordLength || n > maxWordLength {
				continue
			}
			counts[w]++
		}
	}

	words := make([]Word, 0, len(counts))
	for text, freq := range counts {
		if freq < minFrequency {
			continue
		}
		words = append(words, Word{Text: text, Frequency: freq})
	}

	sort.Slice(words, func(i, j int) bool {
		if words[i].Frequency != words[j].Frequency {
			return words[i].Frequency > words[j].Frequency
		}
		return words[i].Text < words[j].Text
	})
	return words
}

// fetchPage retrieves the plain-text extract of a specific page.
func (b *Builder) fetchPage(ctx context.Context, title string) (string, error) {
	params := url.Values{}
	params.Set("action", "query")
	params.Set("format", "json")
	params.Set("titles", title)
	params.Set("prop", "extracts")
	params.Set("explaintext", "1")
	params.Set("exlimit", "1")

	var resp struct {
		Query struct {
			Pages map[string]struct {
				Extract string `json:"extract"`
			} `json:"pages"`
		} `json:"query"`
	}
	if err := b.apiGet(ctx, params, &resp); err != nil {
		return "", err
	}

	for _, page := range resp.Query.Pages {
		if page.Extract != "" {
			return page.Extract, nil
		}
	}
	return "", fmt.Errorf("page %q has no extract", title)
}

// fetchRandomPage retrieves the extract of one random main-namespace page.
func (b *Builder) fetchRandomPage(ctx context.Context) (string, error) {
	params := url.Values{}
	params.Set("action", "query")
	params.Set("format", "json")
	params.Set("list", "random")
	params.Set("rnnamespace", "0")
	params.Set("rnlimit", "1")

	var resp struct {
		Query struct {
			Random []struct {
				Title string `json:"title"`
			} `json:"random"`
		} `json:"query"`
	}
	if err := b.apiGet(ctx, params, &resp); err != nil {
		return "", err
	}

	if len(resp.Query.Random) == 0 {
		return "", fmt.Errorf("random page query returned no results")
	}
	return b.fetchPage(ctx, resp.Query.Random[0].Title)
}

func (b *Builder) apiGet(ctx context.Context, params url.Values, out any) error {
	reqURL := wikipediaAPIURL + "?" + params.Encode()
	req, err := http.NewRequestWithContext(ctx, "GET", reqURL, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", builderUserAgent)

	resp, err := b.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("wikipedia api returned status %d", resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

// SaveAll persists a built word list in the three formats the generator and
// downstream tooling consume: weighted TSV, JSON with metadata, and the
// sqlite store.
func SaveAll(words []Word, dir string) error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create corpus directory: %w", err)
	}

	if err := saveWeighted(words, filepath.Join(dir, "ka_dictionary_weighted.txt")); err != nil {
		return err
	}
	if err := saveJSON(words, filepath.Join(dir, "ka_dictionary.json")); err != nil {
		return err
	}

	store, err := OpenStore(filepath.Join(dir, "ka_dictionary.db"))
	if err != nil {
		return err
	}
	defer store.Close()
	if err := store.Import(words); err != nil {
		return err
	}

	fmt.Printf("Corpus saved to %s (%d words)\n", dir, len(words))
	return nil
}

func saveWeighted(words []Word, path string) error {
	var sb strings.Builder
	for _, w := range words {
		fmt.Fprintf(&sb, "%s\t%d\n", w.Text, w.Frequency)
	}
	if err := os.WriteFile(path, []byte(sb.String()), 0644); err != nil {
		return fmt.Errorf("failed to write weighted dictionary: %w", err)
	}
	return nil
}

func saveJSON(words []Word, path string) error {
	total := 0
	for _, w := range words {
		total += w.Frequency
	}

	type jsonWord struct {
		Word      string  `json:"word"`
		Frequency int     `json:"frequency"`
		Weight    float64 `json:"weight"`
		Length    int     `json:"length"`
	}
	doc := struct {
		Words            []jsonWord `json:"words"`
		TotalUnique      int        `json:"total_unique"`
		TotalOccurrences int        `json:"total_occurrences"`
	}{
		TotalUnique:      len(words),
		TotalOccurrences: total,
	}
	for _, w := range words {
		doc.Words = append(doc.Words, jsonWord{
			Word:      w.Text,
			Frequency: w.Frequency,
			Weight:    float64(w.Frequency) / float64(total),
			Length:    len([]rune(w.Text)),
		})
	}

	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode dictionary JSON: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write dictionary JSON: %w", err)
	}
	return nil
}
