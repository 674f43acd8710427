package pipeline

import (
	"context"
	"fmt"
	"strings"

	"github.com/jonathan/deck-pipeline/internal/llm"
	"github.com/jonathan/deck-pipeline/internal/parsing"
	"github.com/jonathan/deck-pipeline/internal/prompts"
	"github.com/jonathan/deck-pipeline/internal/types"
)

// generateDirection runs stage 1: one oracle call, cached by brief
// identity, with the static fallback when retries are exhausted.
func generateDirection(ctx context.Context, brief *types.ContentBrief, opts *Options, deps Deps) *types.CreativeDirection {
	contentTypes := brief.ContentTypes()

	prompt := prompts.Format(prompts.MustGet("stages.json", StageDirection), map[string]string{
		"BrandName":       brief.BrandName,
		"BrandAttributes": strings.Join(brief.BrandAttributes, ", "),
		"Audience":        brief.Audience,
		"Goals":           strings.Join(brief.Goals, "; "),
		"UnitCount":       fmt.Sprintf("%d", len(contentTypes)),
		"ContentTypes":    strings.Join(contentTypes, ", "),
	})

	text, err := deps.Invoker.Invoke(ctx, StageDirection, prompt, opts.modelsFor(StageDirection), llm.InvokeOptions{
		CacheKey: llm.Key(StageDirection, marshalCompact(brief)),
	})
	if err != nil {
		opts.emit(StageDirection, "Oracle unavailable, using fallback direction", nil)
		return fallbackDirection(brief)
	}

	direction, err := parsing.Parse[types.CreativeDirection](text)
	if err != nil {
		opts.emit(StageDirection, "Unparsable direction, using fallback", nil)
		return fallbackDirection(brief)
	}
	if direction.VisualMetaphor == "" {
		return fallbackDirection(brief)
	}

	// Trim the temperature arc to the plan length; models pad or truncate.
	if len(direction.TemperatureArc) > len(contentTypes) {
		direction.TemperatureArc = direction.TemperatureArc[:len(contentTypes)]
	}
	return &direction
}

// generateDesignSystem runs stage 2: one oracle call seeded by brief and
// direction, harmonized before freezing, with a palette derived from the
// brief's base colors on failure.
func generateDesignSystem(ctx context.Context, brief *types.ContentBrief, direction *types.CreativeDirection, opts *Options, deps Deps) *types.DesignSystem {
	prompt := prompts.Format(prompts.MustGet("stages.json", StageDesign), map[string]string{
		"Direction":   marshalCompact(direction),
		"BasePalette": strings.Join(brief.BasePalette, ", "),
	})

	text, err := deps.Invoker.Invoke(ctx, StageDesign, prompt, opts.modelsFor(StageDesign), llm.InvokeOptions{
		CacheKey: llm.Key(StageDesign, marshalCompact(brief), marshalCompact(direction)),
	})
	if err != nil {
		opts.emit(StageDesign, "Oracle unavailable, using fallback design system", nil)
		return fallbackDesignSystem(brief)
	}

	ds, err := parsing.Parse[types.DesignSystem](text)
	if err != nil {
		opts.emit(StageDesign, "Unparsable design system, using fallback", nil)
		return fallbackDesignSystem(brief)
	}
	if ds.Colors.Background == "" || ds.Colors.Text == "" {
		return fallbackDesignSystem(brief)
	}

	finalizeDesignSystem(&ds)
	return &ds
}

// generateLayouts runs stage 3: one oracle call producing a directive per
// content-type. The anti-repetition invariants are enforced on whatever
// the oracle returns; the static technique table covers failures.
func generateLayouts(ctx context.Context, contentTypes []string, direction *types.CreativeDirection, opts *Options, deps Deps) []types.LayoutDirective {
	prompt := prompts.Format(prompts.MustGet("stages.json", StageLayout), map[string]string{
		"UnitCount":    fmt.Sprintf("%d", len(contentTypes)),
		"Direction":    marshalCompact(direction),
		"ContentTypes": strings.Join(contentTypes, ", "),
		"Techniques":   strings.Join(layoutTechniques, ", "),
	})

	text, err := deps.Invoker.Invoke(ctx, StageLayout, prompt, opts.modelsFor(StageLayout), llm.InvokeOptions{
		CacheKey: llm.Key(StageLayout, strings.Join(contentTypes, ","), marshalCompact(direction)),
	})
	if err != nil {
		opts.emit(StageLayout, "Oracle unavailable, using fallback layouts", nil)
		return fallbackLayouts(contentTypes)
	}

	directives, err := parsing.Parse[[]types.LayoutDirective](text)
	if err != nil {
		opts.emit(StageLayout, "Unparsable layout strategy, using fallback", nil)
		return fallbackLayouts(contentTypes)
	}

	return enforceLayoutInvariants(directives, contentTypes)
}

// enforceLayoutInvariants aligns oracle directives with the planned
// content-types and repairs invariant violations: every content-type gets
// exactly one directive, adjacent content-types never share a technique,
// and no technique is used more than twice overall.
func enforceLayoutInvariants(directives []types.LayoutDirective, contentTypes []string) []types.LayoutDirective {
	byType := make(map[string]types.LayoutDirective, len(directives))
	for _, d := range directives {
		if _, seen := byType[d.ContentType]; !seen {
			byType[d.ContentType] = d
		}
	}

	out := make([]types.LayoutDirective, 0, len(contentTypes))
	used := make(map[string]int)
	prev := ""

	for i, ct := range contentTypes {
		d, ok := byType[ct]
		if !ok || d.Technique == "" {
			d = types.LayoutDirective{
				ContentType: ct,
				Technique:   layoutTechniques[i%len(layoutTechniques)],
				Description: "assigned from the static technique rotation",
			}
		}

		if d.Technique == prev || used[d.Technique] >= 2 {
			d.Technique = substituteTechnique(prev, used)
		}

		used[d.Technique]++
		prev = d.Technique
		out = append(out, d)
	}
	return out
}

// substituteTechnique picks the least-used technique that differs from the
// previous unit's.
func substituteTechnique(prev string, used map[string]int) string {
	best := ""
	bestCount := int(^uint(0) >> 1)
	for _, t := range layoutTechniques {
		if t == prev || used[t] >= 2 {
			continue
		}
		if used[t] < bestCount {
			best = t
			bestCount = used[t]
		}
	}
	if best == "" {
		// Every technique saturated; rotation guarantees progress anyway.
		best = layoutTechniques[0]
	}
	return best
}
