package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"codeberg.org/kakha/kaglyph/internal/archive"
	"codeberg.org/kakha/kaglyph/internal/cli"
	"codeberg.org/kakha/kaglyph/internal/corpus"
	"codeberg.org/kakha/kaglyph/internal/generator"
	"codeberg.org/kakha/kaglyph/internal/hub"
	"codeberg.org/kakha/kaglyph/internal/render"
)

const defaultCount = 10

func main() {
	// Create flags instance
	flags := cli.NewFlags()

	// Create root command
	rootCmd := cli.CreateRootCommand(flags)

	// Set up command initialization
	cobra.OnInitialize(func() {
		cli.InitConfig(flags.CfgFile)
	})

	// Set the run function
	rootCmd.RunE = func(cmd *cobra.Command, args []string) error {
		return runCommand(cmd, args, flags)
	}

	// Execute command
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func runCommand(cmd *cobra.Command, args []string, flags *cli.Flags) error {
	ctx := context.Background()

	// Handle --build-corpus flag
	if flags.BuildCorpus {
		return buildCorpus(ctx, flags)
	}

	// Handle --augment-corpus flag
	if flags.AugmentCorpus {
		return augmentCorpus(ctx, flags)
	}

	// Handle --package flag (re-zip an existing dataset, no generation).
	// Combined with --upload this is the recovery path after a failed push.
	if flags.Package {
		if flags.Upload {
			return packageAndUpload(ctx, flags)
		}
		return archive.CreateArchive(flags.OutputDir, archive.DefaultArchivePath(flags.OutputDir))
	}

	count := defaultCount
	if len(args) > 0 {
		n, err := strconv.Atoi(args[0])
		if err != nil || n <= 0 {
			return fmt.Errorf("count must be a positive integer, got %q", args[0])
		}
		count = n
	}

	seed := flags.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	renderOpts := render.DefaultOptions()
	renderOpts.Height = flags.ImageHeight

	gen, err := generator.New(&generator.Config{
		Count:      count,
		Workers:    flags.Workers,
		Seed:       seed,
		OutputDir:  flags.OutputDir,
		FontDir:    flags.FontDir,
		CorpusPath: resolveCorpusPath(flags),
		Render:     renderOpts,
	})
	if err != nil {
		return err
	}

	if _, err := gen.Run(ctx); err != nil {
		return err
	}

	// Package and upload if requested
	if flags.Upload {
		if err := packageAndUpload(ctx, flags); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			fmt.Fprintf(os.Stderr, "The generated dataset in %s is intact and can be uploaded later with --package and --upload.\n", flags.OutputDir)
			return err
		}
	}

	fmt.Printf("\nDone! Dataset saved to: %s\n", flags.OutputDir)
	return nil
}

// resolveCorpusPath prefers an explicit --corpus file, then a previously
// built sqlite corpus, then the embedded dictionary (empty path).
func resolveCorpusPath(flags *cli.Flags) string {
	if flags.CorpusPath != "" {
		return flags.CorpusPath
	}
	built := filepath.Join(flags.CorpusDir, "ka_dictionary.db")
	if _, err := os.Stat(built); err == nil {
		return built
	}
	return ""
}

func buildCorpus(ctx context.Context, flags *cli.Flags) error {
	builder := corpus.NewBuilder(&corpus.BuilderOptions{
		Pages:        flags.WikiPages,
		MinFrequency: flags.MinFrequency,
	})

	words, err := builder.Build(ctx)
	if err != nil {
		return fmt.Errorf("corpus build failed: %w", err)
	}

	return corpus.SaveAll(words, flags.CorpusDir)
}

func augmentCorpus(ctx context.Context, flags *cli.Flags) error {
	apiKey := cli.GetOpenAIKey()
	if apiKey == "" {
		return fmt.Errorf("corpus augmentation requires an OpenAI API key (set OPENAI_API_KEY)")
	}

	augmenter := corpus.NewAugmenter(apiKey)
	words, err := augmenter.SuggestWords(ctx, flags.AugmentTopic, flags.AugmentCount)
	if err != nil {
		return fmt.Errorf("corpus augmentation failed: %w", err)
	}

	store, err := corpus.OpenStore(filepath.Join(flags.CorpusDir, "ka_dictionary.db"))
	if err != nil {
		return err
	}
	defer store.Close()

	if err := store.Import(words); err != nil {
		return err
	}

	fmt.Printf("Merged %d suggested words into the corpus\n", len(words))
	return nil
}

func packageAndUpload(ctx context.Context, flags *cli.Flags) error {
	archivePath := archive.DefaultArchivePath(flags.OutputDir)
	if err := archive.CreateArchive(flags.OutputDir, archivePath); err != nil {
		return err
	}

	client, err := hub.NewClient(cli.GetHubToken(), cli.GetHubRepo())
	if err != nil {
		return err
	}

	if !flags.Yes && !hub.Confirm(os.Stdin, os.Stdout, archivePath, client.Repo()) {
		fmt.Println("Upload cancelled")
		return nil
	}

	return client.Upload(ctx, archivePath)
}
