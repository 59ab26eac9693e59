package corpus

import (
	"fmt"
	"math/rand"
)

// Category identifies the provenance of a sampled label.
type Category string

const (
	CategoryWord     Category = "word"
	CategorySequence Category = "sequence"
	CategoryNumber   Category = "number"
)

// Category draw probabilities. Numbers are re-drawn as word or sequence when
// the target font cannot render digits.
const (
	wordProbability     = 0.90
	sequenceProbability = 0.07
)

// georgianAlphabet holds the 33 modern Mkhedruli letters used for random
// character sequences.
var georgianAlphabet = []rune("აბგდევზთიკლმნოპჟრსტუფქღყშჩცძწჭხჯჰ")

// Sampler draws labels for image generation. It is not safe for concurrent
// use; give each worker its own Sampler seeded independently.
type Sampler struct {
	corpus *Corpus
	rng    *rand.Rand
}

// NewSampler creates a sampler over the given corpus. Each call with the same
// seed yields the same draw sequence.
func NewSampler(c *Corpus, seed int64) *Sampler {
	return &Sampler{
		corpus: c,
		rng:    rand.New(rand.NewSource(seed)),
	}
}

// Sample draws a category and a label. When numericOK is false the number
// category is excluded and the draw renormalizes over word and sequence, so
// the word:sequence ratio stays at 90:7.
func (s *Sampler) Sample(numericOK bool) (Category, string) {
	limit := 1.0
	if !numericOK {
		limit = wordProbability + sequenceProbability
	}

	switch draw := s.rng.Float64() * limit; {
	case draw < wordProbability:
		return CategoryWord, s.corpus.Pick(s.rng)
	case draw < wordProbability+sequenceProbability:
		return CategorySequence, s.randomSequence(numericOK)
	default:
		return CategoryNumber, s.randomNumber()
	}
}

// randomSequence produces 3-12 random Georgian letters. When digitsOK a small
// share of draws mixes a short sequence with a number, mirroring labels seen
// in scanned documents (invoice codes, list markers). Fonts without digit
// glyphs must never receive the mixed variant.
func (s *Sampler) randomSequence(digitsOK bool) string {
	if digitsOK && s.rng.Float64() < 0.10 {
		return s.mixedText()
	}
	length := 3 + s.rng.Intn(10)
	runes := make([]rune, length)
	for i := range runes {
		runes[i] = georgianAlphabet[s.rng.Intn(len(georgianAlphabet))]
	}
	return string(runes)
}

// randomNumber produces a plain number, a date, a year, or a phone-like
// string.
func (s *Sampler) randomNumber() string {
	switch draw := s.rng.Float64(); {
	case draw < 0.3:
		return fmt.Sprintf("%d", s.rng.Intn(10000))
	case draw < 0.6:
		day := 1 + s.rng.Intn(28)
		month := 1 + s.rng.Intn(12)
		year := 1900 + s.rng.Intn(126)
		return fmt.Sprintf("%02d.%02d.%d", day, month, year)
	case draw < 0.8:
		return fmt.Sprintf("%d", 1800+s.rng.Intn(226))
	default:
		return fmt.Sprintf("+995%d", 500000000+s.rng.Intn(100000000))
	}
}

// mixedText fuses a short Georgian sequence with a number on either side.
func (s *Sampler) mixedText() string {
	length := 3 + s.rng.Intn(6)
	runes := make([]rune, length)
	for i := range runes {
		runes[i] = georgianAlphabet[s.rng.Intn(len(georgianAlphabet))]
	}
	number := 1 + s.rng.Intn(999)
	if s.rng.Float64() < 0.5 {
		return fmt.Sprintf("%s%d", string(runes), number)
	}
	return fmt.Sprintf("%d%s", number, string(runes))
}
