package pipeline

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/deck-pipeline/internal/parsing"
	"github.com/jonathan/deck-pipeline/internal/types"
)

func critiqueFixtures(t *testing.T) (*types.ContentBrief, *types.CreativeDirection, *types.DesignSystem, []types.LayoutDirective, []types.Unit) {
	t.Helper()
	brief := testBrief()
	direction, err := parsing.Parse[types.CreativeDirection](directionJSON)
	require.NoError(t, err)
	ds := fallbackDesignSystem(brief)
	layouts := fallbackLayouts(brief.ContentTypes())

	incumbent, err := parsing.Parse[types.Unit](unitJSON("hook", "u-hook", "90%"))
	require.NoError(t, err)
	units := []types.Unit{incumbent}
	return brief, &direction, ds, layouts, units
}

func TestCritiqueChallengerWins(t *testing.T) {
	brief, direction, ds, layouts, units := critiqueFixtures(t)

	client := &queueClient{steps: []step{
		{text: unitJSON("hook", "challenger", "One number. One story.")}, // regeneration
		{text: `{"winner": "B", "reason": "stronger focal point"}`},      // verdict
	}}
	opts := Options{Models: singleModel()}

	out := critiqueUnits(context.Background(), units, brief, direction, ds, layouts, &opts, testDeps(client))

	require.Len(t, out, 1)
	assert.Equal(t, "u-hook", out[0].ID, "the slot keeps its identity")
	assert.Equal(t, "One number. One story.", out[0].Elements[0].Text)
	assert.Empty(t, client.steps)
}

func TestCritiqueIncumbentWinsByDefault(t *testing.T) {
	tests := []struct {
		name    string
		verdict step
	}{
		{name: "Explicit A", verdict: step{text: `{"winner": "A"}`}},
		{name: "Oracle failure", verdict: step{err: errors.New("down")}},
		{name: "Unparsable verdict", verdict: step{text: "they are both lovely"}},
		{name: "Names neither candidate", verdict: step{text: `{"winner": "C"}`}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			brief, direction, ds, layouts, units := critiqueFixtures(t)
			client := &queueClient{steps: []step{
				{text: unitJSON("hook", "challenger", "One number. One story.")},
				tt.verdict,
			}}
			opts := Options{Models: singleModel()}

			out := critiqueUnits(context.Background(), units, brief, direction, ds, layouts, &opts, testDeps(client))
			assert.Equal(t, "90%", out[0].Elements[0].Text, "incumbent must survive")
		})
	}
}

func TestCritiqueSkipsUntensionedUnits(t *testing.T) {
	brief, direction, ds, layouts, _ := critiqueFixtures(t)

	calm, err := parsing.Parse[types.Unit](unitJSON("goals", "u-goals", "Three goals"))
	require.NoError(t, err)
	units := []types.Unit{calm} // "goals" is not in the direction's tension set

	client := &constClient{err: errors.New("should not be called")}
	opts := Options{Models: singleModel()}

	out := critiqueUnits(context.Background(), units, brief, direction, ds, layouts, &opts, testDeps(client))
	assert.Equal(t, "u-goals", out[0].ID)
	assert.Zero(t, client.calls)
}

func TestEnrichImagePrompts(t *testing.T) {
	brief, direction, _, _, _ := critiqueFixtures(t)

	units := []types.Unit{
		{
			ID: "u1", ContentType: "hook",
			Elements: []types.Element{
				{ID: "img", Type: types.ElementImage, X: 100, Y: 100, Width: 400, Height: 300},
				{ID: "keep", Type: types.ElementImage, X: 0, Y: 0, Width: 10, Height: 10, ImagePrompt: "already set"},
			},
		},
		{
			ID: "u2", ContentType: "goals",
			Elements: []types.Element{
				{ID: "txt", Type: types.ElementText, Text: "no images here"},
			},
		},
	}

	client := &constClient{text: `  "a lone signal flare over a dark harbor"  `}
	opts := Options{Models: singleModel()}

	enrichImagePrompts(context.Background(), units, brief, direction, &opts, testDeps(client))

	assert.Equal(t, "a lone signal flare over a dark harbor", units[0].Elements[0].ImagePrompt,
		"response is unquoted and trimmed")
	assert.Equal(t, "already set", units[0].Elements[1].ImagePrompt)
	assert.Equal(t, 1, client.calls, "units without empty image slots make no oracle calls")
}

func TestEnrichImagePromptsToleratesFailure(t *testing.T) {
	brief, direction, _, _, _ := critiqueFixtures(t)
	units := []types.Unit{{
		ID: "u1", ContentType: "hook",
		Elements: []types.Element{{ID: "img", Type: types.ElementImage}},
	}}

	client := &constClient{err: errors.New("down")}
	opts := Options{Models: singleModel()}

	enrichImagePrompts(context.Background(), units, brief, direction, &opts, testDeps(client))
	assert.Empty(t, units[0].Elements[0].ImagePrompt, "a failed branch leaves its slot empty")
}

func TestRegenerateUnit(t *testing.T) {
	brief, direction, ds, layouts, _ := critiqueFixtures(t)
	section := brief.Section("hook")

	t.Run("Oracle unit accepted", func(t *testing.T) {
		client := &queueClient{steps: []step{{text: unitJSON("hook", "redo", "Again, bigger")}}}
		opts := Options{Models: singleModel()}

		unit, err := RegenerateUnit(context.Background(), ds, section, direction, layouts[0], "make it louder", &opts, testDeps(client))
		require.NoError(t, err)
		assert.Equal(t, "redo", unit.ID)
		assert.Equal(t, "hook", unit.ContentType)
	})

	t.Run("One-element array accepted", func(t *testing.T) {
		client := &queueClient{steps: []step{{text: "[" + unitJSON("hook", "redo", "Again") + "]"}}}
		opts := Options{Models: singleModel()}

		unit, err := RegenerateUnit(context.Background(), ds, section, direction, layouts[0], "", &opts, testDeps(client))
		require.NoError(t, err)
		assert.Equal(t, "redo", unit.ID)
	})

	t.Run("Failure degrades to fallback", func(t *testing.T) {
		client := &constClient{err: errors.New("down")}
		opts := Options{Models: singleModel()}

		unit, err := RegenerateUnit(context.Background(), ds, section, direction, layouts[0], "", &opts, testDeps(client))
		require.NoError(t, err)
		assert.Equal(t, "fallback-hook-0", unit.ID)
	})

	t.Run("Empty unit degrades to fallback", func(t *testing.T) {
		client := &queueClient{steps: []step{{text: `{"content_type": "hook", "background": "#111", "elements": []}`}}}
		opts := Options{Models: singleModel()}

		unit, err := RegenerateUnit(context.Background(), ds, section, direction, layouts[0], "", &opts, testDeps(client))
		require.NoError(t, err)
		assert.Equal(t, "fallback-hook-0", unit.ID)
	})

	t.Run("Missing arguments rejected", func(t *testing.T) {
		opts := Options{Models: singleModel()}
		_, err := RegenerateUnit(context.Background(), nil, section, direction, layouts[0], "", &opts, testDeps(&constClient{}))
		assert.Error(t, err)

		_, err = RegenerateUnit(context.Background(), ds, nil, direction, layouts[0], "", &opts, testDeps(&constClient{}))
		assert.Error(t, err)
	})
}
