package schemas

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateUnitBatch(t *testing.T) {
	tests := []struct {
		name    string
		doc     string
		wantErr bool
	}{
		{
			name: "Minimal valid batch",
			doc: `[{
				"content_type": "hook",
				"background": "#14141e",
				"elements": [
					{"type": "text", "x": 100, "y": 100, "width": 400, "height": 80, "text": "Hi", "font_size": 48}
				]
			}]`,
		},
		{
			name: "Multiple units",
			doc: `[
				{"content_type": "hook", "background": "#111111", "elements": []},
				{"content_type": "goals", "background": "#222222", "elements": [
					{"type": "shape", "x": 0, "y": 0, "width": 100, "height": 100}
				]}
			]`,
		},
		{
			name:    "Object instead of array",
			doc:     `{"content_type": "hook", "background": "#111111", "elements": []}`,
			wantErr: true,
		},
		{
			name:    "Missing content type",
			doc:     `[{"background": "#111111", "elements": []}]`,
			wantErr: true,
		},
		{
			name:    "Missing elements",
			doc:     `[{"content_type": "hook", "background": "#111111"}]`,
			wantErr: true,
		},
		{
			name: "Element without geometry",
			doc: `[{
				"content_type": "hook",
				"background": "#111111",
				"elements": [{"type": "text", "text": "floating"}]
			}]`,
			wantErr: true,
		},
		{
			name: "Element without type",
			doc: `[{
				"content_type": "hook",
				"background": "#111111",
				"elements": [{"x": 1, "y": 1, "width": 10, "height": 10}]
			}]`,
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateUnitBatch(tt.doc)
			if tt.wantErr {
				require.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestValidationErrorMessage(t *testing.T) {
	err := ValidateUnitBatch(`[{"background": "#111111", "elements": []}]`)
	require.Error(t, err)

	ve, ok := err.(*ValidationError)
	require.True(t, ok)
	require.NotEmpty(t, ve.Errors)
	assert.Contains(t, err.Error(), "content_type")
}
