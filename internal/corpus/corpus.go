package corpus

import (
	"bufio"
	_ "embed"
	"fmt"
	"io"
	"math/rand"
	"os"
	"sort"
	"strconv"
	"strings"
)

// Word is a single dictionary entry with its observed corpus frequency.
type Word struct {
	Text      string
	Frequency int
}

// Corpus is a frequency-weighted Georgian word dictionary. It is loaded once
// at startup and is read-only afterwards, so it may be shared across workers.
type Corpus struct {
	words      []Word
	cumWeights []float64
	total      float64
}

//go:embed ka_dictionary_weighted.txt
var embeddedDictionary string

// New builds a corpus from a word list. Entries with empty text or
// non-positive frequency are dropped.
func New(words []Word) (*Corpus, error) {
	c := &Corpus{
		words:      make([]Word, 0, len(words)),
		cumWeights: make([]float64, 0, len(words)),
	}
	for _, w := range words {
		if w.Text == "" || w.Frequency <= 0 {
			continue
		}
		c.total += float64(w.Frequency)
		c.words = append(c.words, w)
		c.cumWeights = append(c.cumWeights, c.total)
	}
	if len(c.words) == 0 {
		return nil, fmt.Errorf("corpus contains no usable words")
	}
	return c, nil
}

// LoadFile reads a weighted dictionary file. Each line is either
// "word<TAB>frequency" or a bare word (frequency 1). Blank lines and lines
// starting with '#' are ignored.
func LoadFile(path string) (*Corpus, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open corpus file: %w", err)
	}
	defer f.Close()

	c, err := parseWeighted(f)
	if err != nil {
		return nil, fmt.Errorf("failed to parse corpus file %s: %w", path, err)
	}
	return c, nil
}

// Embedded returns the dictionary compiled into the binary. It is a small
// frequency-weighted word list used when no corpus file or database is
// available.
func Embedded() *Corpus {
	c, err := parseWeighted(strings.NewReader(embeddedDictionary))
	if err != nil {
		// The embedded dictionary is validated by tests; a parse failure
		// here means a broken build.
		panic(fmt.Sprintf("embedded dictionary is invalid: %v", err))
	}
	return c
}

func parseWeighted(r io.Reader) (*Corpus, error) {
	var words []Word
	scanner := bufio.NewScanner(r)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		text := line
		freq := 1
		if tab := strings.IndexByte(line, '\t'); tab >= 0 {
			text = strings.TrimSpace(line[:tab])
			n, err := strconv.Atoi(strings.TrimSpace(line[tab+1:]))
			if err != nil {
				return nil, fmt.Errorf("line %d: invalid frequency: %w", lineNo, err)
			}
			freq = n
		}
		words = append(words, Word{Text: text, Frequency: freq})
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return New(words)
}

// Len returns the number of distinct words.
func (c *Corpus) Len() int { return len(c.words) }

// TotalOccurrences returns the summed frequency of all words.
func (c *Corpus) TotalOccurrences() int { return int(c.total) }

// Words returns a copy of the word list, most frequent first.
func (c *Corpus) Words() []Word {
	out := make([]Word, len(c.words))
	copy(out, c.words)
	sort.Slice(out, func(i, j int) bool { return out[i].Frequency > out[j].Frequency })
	return out
}

// Pick draws one word, weighted by frequency, with replacement.
func (c *Corpus) Pick(rng *rand.Rand) string {
	target := rng.Float64() * c.total
	i := sort.SearchFloat64s(c.cumWeights, target)
	if i >= len(c.words) {
		i = len(c.words) - 1
	}
	return c.words[i].Text
}
