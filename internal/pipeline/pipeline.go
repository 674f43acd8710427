// Package pipeline provides the high-level orchestration for deck
// generation: six fixed stages from content brief to validated artifact,
// with a deterministic fallback at every stage boundary. The pipeline
// never fails on oracle misbehavior; the quality score communicates how
// much degradation occurred.
package pipeline

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/jonathan/deck-pipeline/internal/llm"
	"github.com/jonathan/deck-pipeline/internal/observability"
	"github.com/jonathan/deck-pipeline/internal/pacing"
	"github.com/jonathan/deck-pipeline/internal/repair"
	"github.com/jonathan/deck-pipeline/internal/types"
	"github.com/jonathan/deck-pipeline/internal/validation"
)

// Stage names, used for cache keys, model selection, and progress events.
const (
	StageDirection = "creative-direction"
	StageDesign    = "design-system"
	StageLayout    = "layout-strategy"
	StageContent   = "content-generation"
	StageValidate  = "validation"
	StageNormalize = "consistency"
	StageCritique  = "self-critique"
	StageImages    = "image-prompts"
)

// DefaultBatchSize is how many units one content-generation call produces.
const DefaultBatchSize = 3

// defaultModels is the fallback list used for any stage without an explicit
// configuration: first entry tuned for quality, later ones for availability.
var defaultModels = []string{"gemini-2.5-pro", "gemini-2.5-flash", "gemini-2.5-flash-lite"}

// ProgressEvent represents a progress update during pipeline execution.
type ProgressEvent struct {
	Stage   string `json:"stage"`
	Message string `json:"message"`
	Content any    `json:"content,omitempty"`
}

// ProgressCallback is called when pipeline progress occurs.
type ProgressCallback func(event ProgressEvent)

// Options holds configuration for running the pipeline.
type Options struct {
	EnableSelfCritique bool
	EnableImagePrompts bool
	BatchSize          int
	Models             map[string][]string // per-stage fallback lists
	Verbose            bool
	OnProgress         ProgressCallback
}

// Deps holds the injected collaborators. The cache lives inside the
// invoker; per-brief isolation is achieved by constructing a fresh invoker.
type Deps struct {
	Invoker *llm.Invoker
	Printer *observability.Printer
}

// validate is shared across runs; validator instances are safe for
// concurrent use.
var validate = validator.New()

// modelsFor returns the configured fallback list for a stage.
func (o *Options) modelsFor(stage string) []string {
	if models, ok := o.Models[stage]; ok && len(models) > 0 {
		return models
	}
	return defaultModels
}

func (o *Options) batchSize() int {
	if o.BatchSize > 0 {
		return o.BatchSize
	}
	return DefaultBatchSize
}

func (o *Options) emit(stage, message string, content any) {
	if o.OnProgress != nil {
		o.OnProgress(ProgressEvent{Stage: stage, Message: message, Content: content})
	}
}

// Run orchestrates the full deck generation pipeline. It returns an error
// only for an invalid brief; oracle failures degrade to deterministic
// fallbacks and are reflected in the quality score instead.
func Run(ctx context.Context, brief *types.ContentBrief, opts Options, deps Deps) (*types.Artifact, error) {
	if brief == nil {
		return nil, fmt.Errorf("brief is required")
	}
	if err := validate.Struct(brief); err != nil {
		return nil, fmt.Errorf("invalid brief: %w", err)
	}
	if deps.Invoker == nil {
		return nil, fmt.Errorf("invoker is required")
	}

	start := time.Now()
	contentTypes := brief.ContentTypes()

	// Stage 1: Creative Direction.
	fmt.Printf("Stage 1/6: Creative direction...\n")
	direction := generateDirection(ctx, brief, &opts, deps)
	opts.emit(StageDirection, fmt.Sprintf("Chose metaphor: %s", direction.VisualMetaphor), direction)
	if opts.Verbose && deps.Printer != nil {
		deps.Printer.PrintCreativeDirection(direction)
	}

	// Stage 2: Design System.
	fmt.Printf("Stage 2/6: Design system...\n")
	ds := generateDesignSystem(ctx, brief, direction, &opts, deps)
	opts.emit(StageDesign, "Design system frozen", ds)
	if opts.Verbose && deps.Printer != nil {
		deps.Printer.PrintDesignSystem(ds)
	}

	// Stage 3: Layout Strategy.
	fmt.Printf("Stage 3/6: Layout strategy...\n")
	layouts := generateLayouts(ctx, contentTypes, direction, &opts, deps)
	opts.emit(StageLayout, fmt.Sprintf("Assigned %d layout directives", len(layouts)), layouts)

	// Stage 4: Content Generation (sequential batches).
	fmt.Printf("Stage 4/6: Content generation (%d units)...\n", len(contentTypes))
	units := generateContent(ctx, brief, direction, ds, layouts, &opts, deps)

	// Stage 5: Validation + Auto-fix.
	fmt.Printf("Stage 5/6: Validation and auto-fix...\n")
	var meanScore float64
	units, meanScore = validateAndFix(units, ds, &opts, deps)
	opts.emit(StageValidate, fmt.Sprintf("Mean quality score %.1f", meanScore), nil)

	// Stage 6: Consistency Normalization.
	fmt.Printf("Stage 6/6: Consistency normalization...\n")
	normalizeTitles(units)

	// Optional: Self-Critique for tension units.
	if opts.EnableSelfCritique && len(direction.TensionUnits) > 0 {
		fmt.Printf("Self-critique: %d tension units...\n", len(direction.TensionUnits))
		units = critiqueUnits(ctx, units, brief, direction, ds, layouts, &opts, deps)
	}

	// Optional: concurrent image-prompt enrichment.
	if opts.EnableImagePrompts {
		enrichImagePrompts(ctx, units, brief, direction, &opts, deps)
	}

	return &types.Artifact{
		ID:           uuid.NewString(),
		Title:        fmt.Sprintf("%s — Campaign Proposal", brief.BrandName),
		DesignSystem: *ds,
		Units:        units,
		Metadata: types.ArtifactMetadata{
			QualityScore:    meanScore,
			CreatedAt:       time.Now().UTC(),
			PipelineVersion: types.PipelineVersion,
			DurationSeconds: time.Since(start).Seconds(),
			ChosenMetaphor:  direction.VisualMetaphor,
		},
	}, nil
}

// validateAndFix scores every unit, applies the auto-fixer where a critical
// fixable issue exists, and returns the kept units with the mean score.
func validateAndFix(units []types.Unit, ds *types.DesignSystem, opts *Options, deps Deps) ([]types.Unit, float64) {
	if len(units) == 0 {
		return units, 0
	}

	total := 0.0
	for i := range units {
		unit := &units[i]
		pac := pacing.For(unit.ContentType)
		result := validation.Score(unit, ds, pac, i == 0)

		if len(result.CriticalFixable()) > 0 {
			fixed := repair.Fix(unit, ds, result.Fixable())
			units[i] = *fixed
			result = validation.Score(&units[i], ds, pac, i == 0)
		}

		if opts.Verbose && deps.Printer != nil {
			deps.Printer.PrintValidationSummary(&units[i], &result)
		}
		total += result.Score
	}
	return units, total / float64(len(units))
}

// marshalCompact renders v as compact JSON for prompt embedding. Marshaling
// our own types cannot fail; the fallback keeps the prompt builder total.
func marshalCompact(v any) string {
	data, err := json.Marshal(v)
	if err != nil {
		return "{}"
	}
	return string(data)
}
