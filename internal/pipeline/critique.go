package pipeline

import (
	"context"
	"strings"

	"github.com/jonathan/deck-pipeline/internal/llm"
	"github.com/jonathan/deck-pipeline/internal/parsing"
	"github.com/jonathan/deck-pipeline/internal/prompts"
	"github.com/jonathan/deck-pipeline/internal/types"
)

// critiqueVerdict is the oracle's A/B judgment.
type critiqueVerdict struct {
	Winner string `json:"winner"`
	Reason string `json:"reason,omitempty"`
}

// critiqueUnits runs the optional self-critique pass: for every unit whose
// content-type the creative direction flagged as a tension unit, generate a
// second independent candidate and ask the oracle to judge the pair. The
// first candidate wins by default whenever anything about the judgment
// fails.
func critiqueUnits(ctx context.Context, units []types.Unit, brief *types.ContentBrief, direction *types.CreativeDirection, ds *types.DesignSystem, layouts []types.LayoutDirective, opts *Options, deps Deps) []types.Unit {
	layoutByType := make(map[string]types.LayoutDirective, len(layouts))
	for _, l := range layouts {
		layoutByType[l.ContentType] = l
	}

	for i := range units {
		if !direction.HasTension(units[i].ContentType) {
			continue
		}

		section := brief.Section(units[i].ContentType)
		if section == nil {
			continue
		}

		challenger, err := RegenerateUnit(ctx, ds, section, direction, layoutByType[units[i].ContentType], "", opts, deps)
		if err != nil {
			continue
		}

		if pickWinner(ctx, &units[i], challenger, opts, deps) == "B" {
			challenger.ID = units[i].ID // keep the slot's identity stable
			units[i] = *challenger
			opts.emit(StageCritique, "Challenger won for "+units[i].ContentType, nil)
		}
	}
	return units
}

// pickWinner asks the oracle for an A/B judgment. Any failure selects A:
// oracle errors, unparsable verdicts, or a verdict naming neither candidate.
func pickWinner(ctx context.Context, incumbent, challenger *types.Unit, opts *Options, deps Deps) string {
	prompt := prompts.Format(prompts.MustGet("stages.json", StageCritique), map[string]string{
		"CandidateA": marshalCompact(incumbent),
		"CandidateB": marshalCompact(challenger),
	})

	text, err := deps.Invoker.Invoke(ctx, StageCritique, prompt, opts.modelsFor(StageCritique), llm.InvokeOptions{})
	if err != nil {
		return "A"
	}

	verdict, err := parsing.Parse[critiqueVerdict](text)
	if err != nil {
		return "A"
	}
	if strings.EqualFold(strings.TrimSpace(verdict.Winner), "B") {
		return "B"
	}
	return "A"
}
