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
	"github.com/jonathan/deck-pipeline/internal/schemas"
	"github.com/jonathan/deck-pipeline/internal/types"
)

// generateContent runs stage 4: content-types partitioned into fixed-size
// batches generated strictly in order. Each batch's prompt carries a
// textual summary of everything produced so far, which is why batches are
// never parallelized. A failed batch degrades to fallback units; the
// pipeline never stalls.
func generateContent(ctx context.Context, brief *types.ContentBrief, direction *types.CreativeDirection, ds *types.DesignSystem, layouts []types.LayoutDirective, opts *Options, deps Deps) []types.Unit {
	contentTypes := brief.ContentTypes()
	size := opts.batchSize()

	layoutByType := make(map[string]types.LayoutDirective, len(layouts))
	for _, l := range layouts {
		layoutByType[l.ContentType] = l
	}

	bctx := types.BatchContext{
		TotalUnits: len(contentTypes),
		Direction:  direction,
	}

	var units []types.Unit
	for batchStart := 0; batchStart < len(contentTypes); batchStart += size {
		batchEnd := batchStart + size
		if batchEnd > len(contentTypes) {
			batchEnd = len(contentTypes)
		}
		batchTypes := contentTypes[batchStart:batchEnd]

		batch, err := generateBatch(ctx, brief, ds, layoutByType, batchTypes, &bctx, opts, deps)
		if err != nil {
			opts.emit(StageContent, fmt.Sprintf("Batch %v failed (%v), using fallback units", batchTypes, err), nil)
			batch = make([]types.Unit, 0, len(batchTypes))
			for i, ct := range batchTypes {
				batch = append(batch, *FallbackUnit(ct, ds, batchStart+i))
			}
		}

		for i := range batch {
			appendUnitSummary(&bctx, &batch[i])
		}
		bctx.UnitIndex += len(batch)
		units = append(units, batch...)

		opts.emit(StageContent, fmt.Sprintf("Generated units %d-%d of %d", batchStart+1, batchEnd, len(contentTypes)), nil)
	}

	return units
}

// generateBatch produces the units for one slice of content-types: prompt,
// oracle, repair-parse, schema check, then id/content-type reconciliation
// against the plan.
func generateBatch(ctx context.Context, brief *types.ContentBrief, ds *types.DesignSystem, layoutByType map[string]types.LayoutDirective, batchTypes []string, bctx *types.BatchContext, opts *Options, deps Deps) ([]types.Unit, error) {
	prompt := buildBatchPrompt(brief, ds, layoutByType, batchTypes, bctx)

	text, err := deps.Invoker.Invoke(ctx, StageContent, prompt, opts.modelsFor(StageContent), llm.InvokeOptions{})
	if err != nil {
		return nil, err
	}

	// Parse to raw JSON first so the schema sees the repaired document
	// rather than a round-trip through our structs.
	raw, err := parsing.Parse[json.RawMessage](text)
	if err != nil {
		return nil, err
	}
	if err := schemas.ValidateUnitBatch(string(raw)); err != nil {
		return nil, err
	}

	var batch []types.Unit
	if err := json.Unmarshal(raw, &batch); err != nil {
		return nil, err
	}

	return reconcileBatch(batch, batchTypes, ds, bctx.UnitIndex), nil
}

// reconcileBatch aligns oracle output with the planned batch: missing ids
// are assigned, missing content-types filled positionally, surplus units
// dropped, and units the oracle skipped synthesized from the fallback.
func reconcileBatch(batch []types.Unit, batchTypes []string, ds *types.DesignSystem, baseIndex int) []types.Unit {
	if len(batch) > len(batchTypes) {
		batch = batch[:len(batchTypes)]
	}

	out := make([]types.Unit, 0, len(batchTypes))
	for i, ct := range batchTypes {
		if i >= len(batch) {
			out = append(out, *FallbackUnit(ct, ds, baseIndex+i))
			continue
		}
		u := batch[i]
		if u.ContentType == "" {
			u.ContentType = ct
		}
		if u.ID == "" {
			u.ID = uuid.NewString()
		}
		if u.Background == "" {
			u.Background = ds.Colors.Background
		}
		for j := range u.Elements {
			if u.Elements[j].ID == "" {
				u.Elements[j].ID = uuid.NewString()
			}
		}
		out = append(out, u)
	}
	return out
}

// buildBatchPrompt assembles the stage-4 prompt: design system, direction,
// per-unit layout and pacing, the prior-units summary, and a worked
// example sampled from the example pool.
func buildBatchPrompt(brief *types.ContentBrief, ds *types.DesignSystem, layoutByType map[string]types.LayoutDirective, batchTypes []string, bctx *types.BatchContext) string {
	var specs strings.Builder
	for i, ct := range batchTypes {
		section := brief.Section(ct)
		pac := pacing.For(ct)
		layout := layoutByType[ct]
		unitIndex := bctx.UnitIndex + i

		specs.WriteString(fmt.Sprintf("Unit %d of %d — content-type %q\n", unitIndex+1, bctx.TotalUnits, ct))
		if section != nil {
			if section.Headline != "" {
				specs.WriteString(fmt.Sprintf("  Headline: %s\n", section.Headline))
			}
			if section.Body != "" {
				specs.WriteString(fmt.Sprintf("  Body: %s\n", section.Body))
			}
			if len(section.KeyPoints) > 0 {
				specs.WriteString(fmt.Sprintf("  Key points: %s\n", strings.Join(section.KeyPoints, "; ")))
			}
		}
		specs.WriteString(fmt.Sprintf("  Layout: %s (%s)\n", layout.Technique, layout.Description))
		if len(layout.Constraints) > 0 {
			specs.WriteString(fmt.Sprintf("  Constraints: %s\n", strings.Join(layout.Constraints, "; ")))
		}
		specs.WriteString(fmt.Sprintf("  Pacing: energy=%s density=%s, at most %d elements, at least %.0f%% whitespace\n",
			pac.Energy, pac.Density, pac.MaxElements, pac.MinWhitespace*100))
		specs.WriteString(fmt.Sprintf("  Temperature: %s\n", bctx.Direction.TemperatureAt(unitIndex)))
	}

	priorSummary := ""
	if bctx.PriorUnitsSummary != "" {
		priorSummary = "Units already produced (keep the deck visually coherent with these):\n" + bctx.PriorUnitsSummary + "\n"
	}

	return prompts.Format(prompts.MustGet("stages.json", "content-batch"), map[string]string{
		"CanvasWidth":  fmt.Sprintf("%.0f", types.CanvasWidth),
		"CanvasHeight": fmt.Sprintf("%.0f", types.CanvasHeight),
		"SafeMargin":   fmt.Sprintf("%.0f", types.SafeMargin),
		"DesignSystem": marshalCompact(ds),
		"Direction":    marshalCompact(bctx.Direction),
		"PriorSummary": priorSummary,
		"UnitSpecs":    specs.String(),
		"Example":      workedExample(bctx.UnitIndex),
	})
}

// appendUnitSummary extends the threaded batch context with the visual
// fingerprint of one produced unit: element count, max font size, image
// presence.
func appendUnitSummary(bctx *types.BatchContext, unit *types.Unit) {
	maxFont := 0.0
	hasImage := false
	for i := range unit.Elements {
		e := &unit.Elements[i]
		if e.FontSize > maxFont {
			maxFont = e.FontSize
		}
		if e.Type == types.ElementImage {
			hasImage = true
		}
	}

	line := fmt.Sprintf("- %s: %d elements, max font %.0f", unit.ContentType, len(unit.Elements), maxFont)
	if hasImage {
		line += ", has image"
	}
	if bctx.PriorUnitsSummary != "" {
		bctx.PriorUnitsSummary += "\n"
	}
	bctx.PriorUnitsSummary += line
}

// workedExamples is a small pool of complete single-unit outputs shown to
// the oracle; sampling rotates by unit index so consecutive batches see
// different shapes.
var workedExamples = []string{
	`{"content_type":"goals","background":"#14141e","elements":[{"id":"g-title","type":"text","role":"title","text":"Three goals. One quarter.","x":96,"y":120,"width":700,"height":90,"font_size":64,"color":"#f2f2f5"},{"id":"g-rule","type":"shape","role":"decorative","shape":"line","x":96,"y":230,"width":160,"height":4,"fill":"#e8604c"},{"id":"g-body","type":"text","role":"body","text":"Awareness. Trial. Loyalty.","x":96,"y":280,"width":560,"height":120,"font_size":28,"color":"#8a8a99"}]}`,
	`{"content_type":"hook","background":"#0f0c29,#302b63","elements":[{"id":"h-big","type":"text","role":"title","text":"90%","x":340,"y":200,"width":600,"height":220,"font_size":180,"color":"#f2f2f5"},{"id":"h-cap","type":"text","role":"caption","text":"of first impressions are visual","x":380,"y":450,"width":520,"height":40,"font_size":24,"color":"#8a8a99"},{"id":"h-dot","type":"shape","role":"decorative","shape":"circle","x":900,"y":160,"width":48,"height":48,"fill":"#e8604c","opacity":0.8}]}`,
	`{"content_type":"timeline","background":"#14141e","elements":[{"id":"t-title","type":"text","role":"title","text":"Twelve weeks, four waves","x":96,"y":96,"width":760,"height":70,"font_size":48,"color":"#f2f2f5"},{"id":"t-axis","type":"shape","role":"decorative","shape":"line","x":96,"y":400,"width":1088,"height":2,"fill":"#32323f"},{"id":"t-w1","type":"text","role":"body","text":"Tease","x":96,"y":430,"width":200,"height":36,"font_size":22,"color":"#8a8a99"},{"id":"t-w2","type":"text","role":"body","text":"Launch","x":400,"y":430,"width":200,"height":36,"font_size":22,"color":"#8a8a99"},{"id":"t-img","type":"image","role":"decorative","x":820,"y":120,"width":360,"height":220,"image_prompt":""}]}`,
}

func workedExample(unitIndex int) string {
	return workedExamples[unitIndex%len(workedExamples)]
}
