package pipeline

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/jonathan/deck-pipeline/internal/llm"
	"github.com/jonathan/deck-pipeline/internal/pacing"
	"github.com/jonathan/deck-pipeline/internal/parsing"
	"github.com/jonathan/deck-pipeline/internal/prompts"
	"github.com/jonathan/deck-pipeline/internal/repair"
	"github.com/jonathan/deck-pipeline/internal/schemas"
	"github.com/jonathan/deck-pipeline/internal/types"
	"github.com/jonathan/deck-pipeline/internal/validation"
)

// RegenerateUnit re-runs stages 4-5 for a single content-type against an
// already-frozen design system, honoring an optional free-text instruction.
// Interactive "redo this unit" callers use this directly; the self-critique
// pass uses it to produce challenger candidates. Like the full pipeline it
// degrades to the deterministic fallback rather than failing.
func RegenerateUnit(ctx context.Context, ds *types.DesignSystem, section *types.ContentSection, direction *types.CreativeDirection, layout types.LayoutDirective, instruction string, opts *Options, deps Deps) (*types.Unit, error) {
	if ds == nil || section == nil || direction == nil {
		return nil, fmt.Errorf("design system, section, and direction are required")
	}

	pac := pacing.For(section.ContentType)

	var spec strings.Builder
	spec.WriteString(fmt.Sprintf("Content-type %q\n", section.ContentType))
	if section.Headline != "" {
		spec.WriteString(fmt.Sprintf("Headline: %s\n", section.Headline))
	}
	if section.Body != "" {
		spec.WriteString(fmt.Sprintf("Body: %s\n", section.Body))
	}
	if len(section.KeyPoints) > 0 {
		spec.WriteString(fmt.Sprintf("Key points: %s\n", strings.Join(section.KeyPoints, "; ")))
	}
	spec.WriteString(fmt.Sprintf("Pacing: energy=%s density=%s, at most %d elements, at least %.0f%% whitespace\n",
		pac.Energy, pac.Density, pac.MaxElements, pac.MinWhitespace*100))

	extra := ""
	if instruction != "" {
		extra = "Caller instruction (honor it): " + instruction + "\n"
	}

	prompt := prompts.Format(prompts.MustGet("stages.json", "regenerate-unit"), map[string]string{
		"CanvasWidth":  fmt.Sprintf("%.0f", types.CanvasWidth),
		"CanvasHeight": fmt.Sprintf("%.0f", types.CanvasHeight),
		"SafeMargin":   fmt.Sprintf("%.0f", types.SafeMargin),
		"DesignSystem": marshalCompact(ds),
		"Direction":    marshalCompact(direction),
		"Layout":       marshalCompact(layout),
		"UnitSpec":     spec.String(),
		"Instruction":  extra,
	})

	unit := regenerateOnce(ctx, prompt, section.ContentType, ds, opts, deps)

	// Stage-5 treatment for the single unit.
	result := validation.Score(unit, ds, pac, false)
	if len(result.CriticalFixable()) > 0 {
		unit = repair.Fix(unit, ds, result.Fixable())
	}
	return unit, nil
}

func regenerateOnce(ctx context.Context, prompt, contentType string, ds *types.DesignSystem, opts *Options, deps Deps) *types.Unit {
	text, err := deps.Invoker.Invoke(ctx, StageContent, prompt, opts.modelsFor(StageContent), llm.InvokeOptions{})
	if err != nil {
		return FallbackUnit(contentType, ds, 0)
	}

	unit, err := parsing.Parse[types.Unit](text)
	if err != nil {
		// Some models insist on returning a one-element array.
		batch, berr := parsing.Parse[[]types.Unit](text)
		if berr != nil || len(batch) == 0 {
			return FallbackUnit(contentType, ds, 0)
		}
		unit = batch[0]
	}

	if len(unit.Elements) == 0 {
		return FallbackUnit(contentType, ds, 0)
	}
	if err := validateSingleUnit(&unit); err != nil {
		return FallbackUnit(contentType, ds, 0)
	}

	if unit.ContentType == "" {
		unit.ContentType = contentType
	}
	if unit.ID == "" {
		unit.ID = uuid.NewString()
	}
	if unit.Background == "" {
		unit.Background = ds.Colors.Background
	}
	for j := range unit.Elements {
		if unit.Elements[j].ID == "" {
			unit.Elements[j].ID = uuid.NewString()
		}
	}
	return &unit
}

// validateSingleUnit runs the batch schema over a single unit by wrapping
// it in a one-element array.
func validateSingleUnit(unit *types.Unit) error {
	doc, err := json.Marshal([]*types.Unit{unit})
	if err != nil {
		return err
	}
	return schemas.ValidateUnitBatch(string(doc))
}
