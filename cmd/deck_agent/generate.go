package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/jonathan/deck-pipeline/internal/config"
	"github.com/jonathan/deck-pipeline/internal/llm"
	"github.com/jonathan/deck-pipeline/internal/observability"
	"github.com/jonathan/deck-pipeline/internal/pipeline"
	"github.com/jonathan/deck-pipeline/internal/types"
)

var generateCommand = &cobra.Command{
	Use:   "generate",
	Short: "Run the full deck generation pipeline end-to-end",
	Long: `Orchestrates deck generation: creative direction -> design system -> layout strategy -> batched content generation -> validation/auto-fix -> consistency normalization.

Configuration can be loaded from a JSON file using --config. Command-line arguments override config file values.`,
	RunE: runGenerateCmd,
}

var (
	genConfigPath   string
	genBriefPath    string
	genOutPath      string
	genAPIKey       string
	genSelfCritique bool
	genImagePrompts bool
	genBatchSize    int
	genVerbose      bool
)

func init() {
	generateCommand.Flags().StringVar(&genConfigPath, "config", "", "Path to config.json file (values can be overridden by other flags)")
	generateCommand.Flags().StringVarP(&genBriefPath, "brief", "b", "", "Path to content brief JSON file (required)")
	generateCommand.Flags().StringVarP(&genOutPath, "out", "o", "artifact.json", "Path to write the artifact JSON")
	generateCommand.Flags().BoolVar(&genSelfCritique, "self-critique", false, "Generate competing candidates for tension units")
	generateCommand.Flags().BoolVar(&genImagePrompts, "image-prompts", false, "Fill image slots with generated prompts")
	generateCommand.Flags().IntVar(&genBatchSize, "batch-size", 0, "Units per content-generation call")
	generateCommand.Flags().BoolVarP(&genVerbose, "verbose", "v", false, "Print detailed debug information")

	// API key can be passed as a flag, or read from env var GEMINI_API_KEY
	generateCommand.Flags().StringVar(&genAPIKey, "api-key", "", "Gemini API Key (optional, defaults to GEMINI_API_KEY env var)")

	rootCmd.AddCommand(generateCommand)
}

func runGenerateCmd(cmd *cobra.Command, _ []string) error {
	ctx := context.Background()

	var cfg config.Config
	if genConfigPath != "" {
		loadedCfg, err := config.LoadConfig(genConfigPath)
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
		if err := loadedCfg.Validate(); err != nil {
			return err
		}
		cfg = *loadedCfg
	}

	// CLI flags take priority over config file values.
	if genAPIKey != "" {
		cfg.APIKey = genAPIKey
	}
	if cfg.APIKey == "" {
		cfg.APIKey = os.Getenv("GEMINI_API_KEY")
	}
	if cfg.APIKey == "" {
		return fmt.Errorf("API key is required (--api-key or GEMINI_API_KEY)")
	}
	if genSelfCritique {
		cfg.EnableSelfCritique = true
	}
	if genImagePrompts {
		cfg.EnableImagePrompts = true
	}
	if genBatchSize > 0 {
		cfg.BatchSize = genBatchSize
	}
	if genVerbose {
		cfg.Verbose = true
	}

	if genBriefPath == "" {
		return fmt.Errorf("--brief is required")
	}
	brief, err := loadBrief(genBriefPath)
	if err != nil {
		return err
	}

	client, err := llm.NewGeminiClient(ctx, cfg.APIKey)
	if err != nil {
		return fmt.Errorf("failed to create oracle client: %w", err)
	}
	defer func() { _ = client.Close() }()

	cache := llm.NewCache(time.Duration(cfg.CacheTTLMinutes) * time.Minute)
	invoker := llm.NewInvoker(client, cache, 0)

	artifact, err := pipeline.Run(ctx, brief, pipeline.Options{
		EnableSelfCritique: cfg.EnableSelfCritique,
		EnableImagePrompts: cfg.EnableImagePrompts,
		BatchSize:          cfg.BatchSize,
		Models:             cfg.Models,
		Verbose:            cfg.Verbose,
	}, pipeline.Deps{
		Invoker: invoker,
		Printer: observability.NewPrinter(os.Stdout),
	})
	if err != nil {
		return fmt.Errorf("pipeline failed: %w", err)
	}

	if err := writeArtifact(genOutPath, artifact); err != nil {
		return err
	}

	fmt.Printf("Done! Artifact %s (%d units, quality %.1f) written to %s\n",
		artifact.ID, len(artifact.Units), artifact.Metadata.QualityScore, genOutPath)
	return nil
}

func loadBrief(path string) (*types.ContentBrief, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read brief %s: %w", path, err)
	}
	var brief types.ContentBrief
	if err := json.Unmarshal(data, &brief); err != nil {
		return nil, fmt.Errorf("failed to parse brief JSON: %w", err)
	}
	return &brief, nil
}

func writeArtifact(path string, artifact *types.Artifact) error {
	data, err := json.MarshalIndent(artifact, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal artifact: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write artifact %s: %w", path, err)
	}
	return nil
}
