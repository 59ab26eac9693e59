package cli

// Flags holds all command-line flag values
type Flags struct {
	// General flags
	CfgFile   string
	OutputDir string
	FontDir   string
	Workers   int
	Seed      int64

	// Corpus flags
	CorpusPath    string
	BuildCorpus   bool
	CorpusDir     string
	WikiPages     int
	MinFrequency  int
	AugmentCorpus bool
	AugmentTopic  string
	AugmentCount  int

	// Render flags
	ImageHeight int

	// Packaging/upload flags
	Package bool
	Upload  bool
	Yes     bool
}

// NewFlags creates a new Flags instance with default values
func NewFlags() *Flags {
	return &Flags{
		OutputDir:    "data/raw",
		FontDir:      "fonts/ka",
		Workers:      1,
		CorpusDir:    "data/corpus",
		WikiPages:    100,
		MinFrequency: 2,
		AugmentTopic: "everyday life",
		AugmentCount: 50,
		ImageHeight:  64,
	}
}
