package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/jonathan/deck-pipeline/internal/llm"
	"github.com/jonathan/deck-pipeline/internal/pipeline"
	"github.com/jonathan/deck-pipeline/internal/types"
)

var regenCommand = &cobra.Command{
	Use:   "regen",
	Short: "Regenerate a single unit of an existing artifact",
	Long:  "Re-runs content generation and validation for one content-type against the artifact's frozen design system, optionally steered by a free-text instruction.",
	RunE:  runRegenCmd,
}

var (
	regenArtifactPath string
	regenBriefPath    string
	regenContentType  string
	regenInstruction  string
	regenAPIKey       string
)

func init() {
	regenCommand.Flags().StringVarP(&regenArtifactPath, "artifact", "a", "", "Path to the artifact JSON to update (required)")
	regenCommand.Flags().StringVarP(&regenBriefPath, "brief", "b", "", "Path to the original content brief JSON (required)")
	regenCommand.Flags().StringVarP(&regenContentType, "content-type", "t", "", "Content-type of the unit to regenerate (required)")
	regenCommand.Flags().StringVarP(&regenInstruction, "instruction", "i", "", "Optional free-text instruction for the redo")
	regenCommand.Flags().StringVar(&regenAPIKey, "api-key", "", "Gemini API Key (optional, defaults to GEMINI_API_KEY env var)")

	rootCmd.AddCommand(regenCommand)
}

func runRegenCmd(cmd *cobra.Command, _ []string) error {
	ctx := context.Background()

	if regenArtifactPath == "" || regenBriefPath == "" || regenContentType == "" {
		return fmt.Errorf("--artifact, --brief, and --content-type are required")
	}

	apiKey := regenAPIKey
	if apiKey == "" {
		apiKey = os.Getenv("GEMINI_API_KEY")
	}
	if apiKey == "" {
		return fmt.Errorf("API key is required (--api-key or GEMINI_API_KEY)")
	}

	data, err := os.ReadFile(regenArtifactPath)
	if err != nil {
		return fmt.Errorf("failed to read artifact: %w", err)
	}
	var artifact types.Artifact
	if err := json.Unmarshal(data, &artifact); err != nil {
		return fmt.Errorf("failed to parse artifact JSON: %w", err)
	}

	brief, err := loadBrief(regenBriefPath)
	if err != nil {
		return err
	}
	section := brief.Section(regenContentType)
	if section == nil {
		return fmt.Errorf("content-type %q not found in brief", regenContentType)
	}

	slot := -1
	for i := range artifact.Units {
		if artifact.Units[i].ContentType == regenContentType {
			slot = i
			break
		}
	}
	if slot < 0 {
		return fmt.Errorf("content-type %q not found in artifact", regenContentType)
	}

	client, err := llm.NewGeminiClient(ctx, apiKey)
	if err != nil {
		return fmt.Errorf("failed to create oracle client: %w", err)
	}
	defer func() { _ = client.Close() }()

	invoker := llm.NewInvoker(client, llm.NewCache(30*time.Minute), 0)
	opts := pipeline.Options{}

	// The artifact does not persist the full creative direction; rebuild a
	// minimal one around the recorded metaphor.
	direction := &types.CreativeDirection{
		VisualMetaphor: artifact.Metadata.ChosenMetaphor,
		Motif:          artifact.DesignSystem.Motif,
	}
	layout := types.LayoutDirective{ContentType: regenContentType, Technique: "hero-center"}

	unit, err := pipeline.RegenerateUnit(ctx, &artifact.DesignSystem, section, direction, layout, regenInstruction, &opts, pipeline.Deps{Invoker: invoker})
	if err != nil {
		return fmt.Errorf("regeneration failed: %w", err)
	}

	unit.ID = artifact.Units[slot].ID
	artifact.Units[slot] = *unit

	if err := writeArtifact(regenArtifactPath, &artifact); err != nil {
		return err
	}
	fmt.Printf("Regenerated %q unit in %s\n", regenContentType, regenArtifactPath)
	return nil
}
