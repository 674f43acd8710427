package pipeline

import (
	"context"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/jonathan/deck-pipeline/internal/llm"
	"github.com/jonathan/deck-pipeline/internal/prompts"
	"github.com/jonathan/deck-pipeline/internal/types"
)

// imagePromptConcurrency bounds the fan-out width.
const imagePromptConcurrency = 4

// enrichImagePrompts fills empty image_prompt fields concurrently. This is
// the one concurrent region of the pipeline: each goroutine owns a
// distinct unit, the requests are independent, and a failed branch simply
// leaves its element's prompt empty.
func enrichImagePrompts(ctx context.Context, units []types.Unit, brief *types.ContentBrief, direction *types.CreativeDirection, opts *Options, deps Deps) {
	g, gCtx := errgroup.WithContext(ctx)
	g.SetLimit(imagePromptConcurrency)

	for i := range units {
		unit := &units[i]
		needs := false
		for j := range unit.Elements {
			if unit.Elements[j].Type == types.ElementImage && unit.Elements[j].ImagePrompt == "" {
				needs = true
				break
			}
		}
		if !needs {
			continue
		}

		g.Go(func() error {
			headline := ""
			if s := brief.Section(unit.ContentType); s != nil {
				headline = s.Headline
			}

			prompt := prompts.Format(prompts.MustGet("stages.json", "image-prompt"), map[string]string{
				"BrandName":   brief.BrandName,
				"Metaphor":    direction.VisualMetaphor,
				"ContentType": unit.ContentType,
				"Headline":    headline,
			})

			text, err := deps.Invoker.Invoke(gCtx, StageImages, prompt, opts.modelsFor(StageImages), llm.InvokeOptions{})
			if err != nil {
				// Partial-failure tolerance: the slot stays empty.
				return nil
			}

			text = strings.TrimSpace(strings.Trim(strings.TrimSpace(text), `"`))
			for j := range unit.Elements {
				if unit.Elements[j].Type == types.ElementImage && unit.Elements[j].ImagePrompt == "" {
					unit.Elements[j].ImagePrompt = text
				}
			}
			return nil
		})
	}

	_ = g.Wait()
}
