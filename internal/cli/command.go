package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"codeberg.org/kakha/kaglyph/internal"
)

// CreateRootCommand creates and configures the root cobra command
func CreateRootCommand(flags *Flags) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "kaglyph [count]",
		Short: "Georgian OCR Training Data Generator",
		Long: `kaglyph renders synthetic images of Georgian text for OCR model training.

Each run draws labels from a frequency-weighted Georgian word corpus (plus
random character sequences and numbers), renders them with every font in the
font set, and writes a labels.csv metadata table alongside the images.

Examples:
  kaglyph 100                      # 100 images per font into data/raw
  kaglyph 500 -j 8 --upload        # parallel generation, then zip and push
  kaglyph --build-corpus           # rebuild the word corpus from ka.wikipedia
  kaglyph --package                # re-zip an existing dataset directory`,
		Args:    cobra.MaximumNArgs(1),
		Version: internal.Version,
	}

	// Set up flags
	setupFlags(rootCmd, flags)

	return rootCmd
}

func setupFlags(cmd *cobra.Command, flags *Flags) {
	// Global flags
	cmd.PersistentFlags().StringVar(&flags.CfgFile, "config", "", "config file (default is $HOME/.kaglyph.yaml)")

	// Local flags
	cmd.Flags().StringVarP(&flags.OutputDir, "output", "o", flags.OutputDir, "Dataset output directory")
	cmd.Flags().StringVar(&flags.FontDir, "font-dir", flags.FontDir, "Directory with .ttf/.otf Georgian fonts")
	cmd.Flags().IntVarP(&flags.Workers, "workers", "j", flags.Workers, "Parallel workers (1 = sequential)")
	cmd.Flags().Int64Var(&flags.Seed, "seed", 0, "Random seed (0 = time-based)")
	cmd.Flags().IntVar(&flags.ImageHeight, "image-height", flags.ImageHeight, "Rendered line height in pixels")

	// Corpus flags
	cmd.Flags().StringVar(&flags.CorpusPath, "corpus", "", "Weighted dictionary file or sqlite corpus db (default: embedded dictionary)")
	cmd.Flags().BoolVar(&flags.BuildCorpus, "build-corpus", false, "Build the word corpus from the Georgian Wikipedia and exit")
	cmd.Flags().StringVar(&flags.CorpusDir, "corpus-dir", flags.CorpusDir, "Directory for built corpus files")
	cmd.Flags().IntVar(&flags.WikiPages, "wiki-pages", flags.WikiPages, "Wikipedia pages to fetch for --build-corpus")
	cmd.Flags().IntVar(&flags.MinFrequency, "min-frequency", flags.MinFrequency, "Minimum word frequency kept by --build-corpus")
	cmd.Flags().BoolVar(&flags.AugmentCorpus, "augment-corpus", false, "Augment the built corpus with OpenAI-suggested vocabulary and exit")
	cmd.Flags().StringVar(&flags.AugmentTopic, "augment-topic", flags.AugmentTopic, "Topic for --augment-corpus suggestions")
	cmd.Flags().IntVar(&flags.AugmentCount, "augment-count", flags.AugmentCount, "Words to request per --augment-corpus run")

	// Packaging/upload flags
	cmd.Flags().BoolVar(&flags.Package, "package", false, "Zip an existing dataset directory and exit")
	cmd.Flags().BoolVar(&flags.Upload, "upload", false, "Zip the dataset and push it to the Hugging Face dataset repository")
	cmd.Flags().BoolVarP(&flags.Yes, "yes", "y", false, "Skip the upload confirmation prompt")

	// Bind flags to viper
	bindFlagsToViper(cmd)
}

func bindFlagsToViper(cmd *cobra.Command) {
	viper.BindPFlag("output.directory", cmd.Flags().Lookup("output"))
	viper.BindPFlag("fonts.directory", cmd.Flags().Lookup("font-dir"))
	viper.BindPFlag("generate.workers", cmd.Flags().Lookup("workers"))
	viper.BindPFlag("generate.image_height", cmd.Flags().Lookup("image-height"))
	viper.BindPFlag("corpus.path", cmd.Flags().Lookup("corpus"))
	viper.BindPFlag("corpus.directory", cmd.Flags().Lookup("corpus-dir"))
	viper.BindPFlag("corpus.wiki_pages", cmd.Flags().Lookup("wiki-pages"))
	viper.BindPFlag("corpus.min_frequency", cmd.Flags().Lookup("min-frequency"))
}

// InitConfig initializes viper configuration
func InitConfig(cfgFile string) {
	if cfgFile != "" {
		// Use config file from the flag
		viper.SetConfigFile(cfgFile)
	} else {
		// Find home directory
		home, err := os.UserHomeDir()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error getting home directory: %v\n", err)
			return
		}

		// Search config in home directory with name ".kaglyph" (without extension)
		viper.AddConfigPath(home)
		viper.AddConfigPath(".")
		viper.SetConfigType("yaml")
		viper.SetConfigName(".kaglyph")
	}

	// Environment variables
	viper.SetEnvPrefix("KAGLYPH")
	viper.AutomaticEnv()

	// Read config file
	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

// GetHubToken retrieves the Hugging Face access token from environment or config
func GetHubToken() string {
	// First check environment variable
	if token := os.Getenv("HF_TOKEN"); token != "" {
		return token
	}

	// Then check config file
	return viper.GetString("hub.token")
}

// GetHubRepo retrieves the target dataset repository from environment or config
func GetHubRepo() string {
	if repo := os.Getenv("KAGLYPH_HUB_REPO"); repo != "" {
		return repo
	}

	return viper.GetString("hub.repo")
}

// GetOpenAIKey retrieves the OpenAI API key used for corpus augmentation
func GetOpenAIKey() string {
	if key := os.Getenv("OPENAI_API_KEY"); key != "" {
		return key
	}

	return viper.GetString("corpus.openai_key")
}
