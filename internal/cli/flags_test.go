package cli

import (
	"reflect"
	"testing"
)

func TestNewFlags(t *testing.T) {
	flags := NewFlags()

	// Test default values
	tests := []struct {
		name     string
		got      interface{}
		expected interface{}
	}{
		{"OutputDir", flags.OutputDir, "data/raw"},
		{"FontDir", flags.FontDir, "fonts/ka"},
		{"Workers", flags.Workers, 1},
		{"CorpusDir", flags.CorpusDir, "data/corpus"},
		{"WikiPages", flags.WikiPages, 100},
		{"MinFrequency", flags.MinFrequency, 2},
		{"AugmentTopic", flags.AugmentTopic, "everyday life"},
		{"AugmentCount", flags.AugmentCount, 50},
		{"ImageHeight", flags.ImageHeight, 64},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if !reflect.DeepEqual(tt.got, tt.expected) {
				t.Errorf("%s = %v, want %v", tt.name, tt.got, tt.expected)
			}
		})
	}

	// Test boolean defaults (should be false)
	boolTests := []struct {
		name  string
		value bool
	}{
		{"BuildCorpus", flags.BuildCorpus},
		{"AugmentCorpus", flags.AugmentCorpus},
		{"Package", flags.Package},
		{"Upload", flags.Upload},
		{"Yes", flags.Yes},
	}

	for _, tt := range boolTests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.value != false {
				t.Errorf("%s = %v, want false", tt.name, tt.value)
			}
		})
	}

	// Test string defaults (should be empty)
	stringTests := []struct {
		name  string
		value string
	}{
		{"CfgFile", flags.CfgFile},
		{"CorpusPath", flags.CorpusPath},
	}

	for _, tt := range stringTests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.value != "" {
				t.Errorf("%s = %q, want empty string", tt.name, tt.value)
			}
		})
	}

	if flags.Seed != 0 {
		t.Errorf("Seed = %d, want 0 (time-based)", flags.Seed)
	}
}
