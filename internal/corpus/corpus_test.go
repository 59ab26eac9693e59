package corpus

import (
	"math/rand"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestParseWeighted(t *testing.T) {
	tests := []struct {
		name      string
		input     string
		wantLen   int
		wantTotal int
		wantErr   bool
	}{
		{
			name:      "weighted entries",
			input:     "და\t100\nარის\t50\n",
			wantLen:   2,
			wantTotal: 150,
		},
		{
			name:      "bare words default to frequency one",
			input:     "სახლი\nწიგნი\n",
			wantLen:   2,
			wantTotal: 2,
		},
		{
			name:      "comments and blank lines ignored",
			input:     "# header\n\nდა\t10\n  \n# trailing\n",
			wantLen:   1,
			wantTotal: 10,
		},
		{
			name:    "invalid frequency",
			input:   "და\tabc\n",
			wantErr: true,
		},
		{
			name:    "empty input",
			input:   "",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, err := parseWeighted(strings.NewReader(tt.input))
			if tt.wantErr {
				if err == nil {
					t.Fatal("Expected error, got nil")
				}
				return
			}
			if err != nil {
				t.Fatalf("parseWeighted failed: %v", err)
			}
			if c.Len() != tt.wantLen {
				t.Errorf("Len() = %d, want %d", c.Len(), tt.wantLen)
			}
			if c.TotalOccurrences() != tt.wantTotal {
				t.Errorf("TotalOccurrences() = %d, want %d", c.TotalOccurrences(), tt.wantTotal)
			}
		})
	}
}

func TestNewDropsInvalidEntries(t *testing.T) {
	c, err := New([]Word{
		{Text: "და", Frequency: 10},
		{Text: "", Frequency: 5},
		{Text: "ცუდი", Frequency: 0},
		{Text: "უარყოფითი", Frequency: -3},
	})
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	if c.Len() != 1 {
		t.Errorf("Len() = %d, want 1", c.Len())
	}

	if _, err := New([]Word{{Text: "", Frequency: 1}}); err == nil {
		t.Error("Expected error for corpus with no usable words")
	}
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "corpus.txt")
	if err := os.WriteFile(path, []byte("და\t42\nარის\t7\n"), 0644); err != nil {
		t.Fatalf("Failed to write corpus file: %v", err)
	}

	c, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile failed: %v", err)
	}
	if c.Len() != 2 {
		t.Errorf("Len() = %d, want 2", c.Len())
	}

	if _, err := LoadFile(filepath.Join(t.TempDir(), "missing.txt")); err == nil {
		t.Error("Expected error for missing corpus file")
	}
}

func TestPickWeighted(t *testing.T) {
	// A 99:1 weight split should dominate the draw counts.
	c, err := New([]Word{
		{Text: "ხშირი", Frequency: 9900},
		{Text: "იშვიათი", Frequency: 100},
	})
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	rng := rand.New(rand.NewSource(1))
	frequent := 0
	const draws = 10000
	for i := 0; i < draws; i++ {
		if c.Pick(rng) == "ხშირი" {
			frequent++
		}
	}

	share := float64(frequent) / draws
	if share < 0.97 || share > 1.0 {
		t.Errorf("Frequent word share = %.3f, want ~0.99", share)
	}
}

func TestPickDeterministic(t *testing.T) {
	c, err := New([]Word{
		{Text: "და", Frequency: 10},
		{Text: "არის", Frequency: 5},
		{Text: "სახლი", Frequency: 1},
	})
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	a := rand.New(rand.NewSource(42))
	b := rand.New(rand.NewSource(42))
	for i := 0; i < 100; i++ {
		if got, want := c.Pick(a), c.Pick(b); got != want {
			t.Fatalf("Draw %d diverged: %q vs %q", i, got, want)
		}
	}
}

func TestEmbedded(t *testing.T) {
	c := Embedded()
	if c.Len() == 0 {
		t.Fatal("Embedded dictionary is empty")
	}

	for _, w := range c.Words() {
		if w.Frequency <= 0 {
			t.Errorf("Word %q has non-positive frequency %d", w.Text, w.Frequency)
		}
		for _, r := range w.Text {
			if r < 'ა' || r > 'ჰ' {
				t.Errorf("Word %q contains non-Georgian rune %q", w.Text, r)
			}
		}
	}
}

func TestWordsSortedByFrequency(t *testing.T) {
	c, err := New([]Word{
		{Text: "იშვიათი", Frequency: 1},
		{Text: "ხშირი", Frequency: 100},
		{Text: "საშუალო", Frequency: 10},
	})
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	words := c.Words()
	for i := 1; i < len(words); i++ {
		if words[i-1].Frequency < words[i].Frequency {
			t.Errorf("Words not sorted: %q (%d) before %q (%d)",
				words[i-1].Text, words[i-1].Frequency, words[i].Text, words[i].Frequency)
		}
	}
}
