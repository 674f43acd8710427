package parsing

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sample struct {
	A string         `json:"a"`
	B int            `json:"b"`
	C []string       `json:"c,omitempty"`
	D map[string]int `json:"d,omitempty"`
}

func TestParseValidJSON(t *testing.T) {
	tests := []struct {
		name string
		in   sample
	}{
		{
			name: "Simple object",
			in:   sample{A: "hello", B: 42},
		},
		{
			name: "Nested collections",
			in:   sample{A: "x", B: 1, C: []string{"one", "two"}, D: map[string]int{"k": 3}},
		},
		{
			name: "String containing structural characters",
			in:   sample{A: `braces {and} brackets [are] fine, even: colons`, B: 7},
		},
		{
			name: "String containing escaped quote",
			in:   sample{A: `he said "hi"`, B: 0},
		},
		{
			name: "String containing trailing comma lookalike",
			in:   sample{A: "a,}", B: 9},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data, err := json.Marshal(tt.in)
			require.NoError(t, err)

			got, err := Parse[sample](string(data))
			require.NoError(t, err)
			assert.Equal(t, tt.in, got)
		})
	}
}

func TestParseDirtyButRecoverable(t *testing.T) {
	tests := []struct {
		name     string
		text     string
		validate func(*testing.T, sample)
	}{
		{
			name: "Markdown fenced",
			text: "```json\n{\"a\": \"x\", \"b\": 2}\n```",
			validate: func(t *testing.T, s sample) {
				assert.Equal(t, "x", s.A)
				assert.Equal(t, 2, s.B)
			},
		},
		{
			name: "Fenced without language tag",
			text: "```\n{\"a\": \"y\", \"b\": 3}\n```",
			validate: func(t *testing.T, s sample) {
				assert.Equal(t, "y", s.A)
			},
		},
		{
			name: "Trailing commas",
			text: `{"a": "x", "b": 1, "c": ["one", "two",],}`,
			validate: func(t *testing.T, s sample) {
				assert.Equal(t, []string{"one", "two"}, s.C)
			},
		},
		{
			name: "Comment lines",
			text: "{\n// the model explains itself\n\"a\": \"x\", \"b\": 5\n}",
			validate: func(t *testing.T, s sample) {
				assert.Equal(t, 5, s.B)
			},
		},
		{
			name: "Prose around the object",
			text: `Here is your JSON: {"a": "x", "b": 1} Hope that helps!`,
			validate: func(t *testing.T, s sample) {
				assert.Equal(t, "x", s.A)
			},
		},
		{
			name: "Unescaped interior quotes",
			text: `{"a": "he said "hi" to me", "b": 1}`,
			validate: func(t *testing.T, s sample) {
				assert.Equal(t, `he said "hi" to me`, s.A)
			},
		},
		{
			name: "Raw newline inside string",
			text: "{\"a\": \"line one\nline two\", \"b\": 1}",
			validate: func(t *testing.T, s sample) {
				assert.Equal(t, "line one\nline two", s.A)
			},
		},
		{
			name: "Truncated nested object",
			text: `{"a": "x", "d": {"k": 1`,
			validate: func(t *testing.T, s sample) {
				assert.Equal(t, map[string]int{"k": 1}, s.D)
			},
		},
		{
			name: "Truncated mid string value",
			text: `{"a": "cut off here`,
			validate: func(t *testing.T, s sample) {
				assert.Equal(t, "cut off here", s.A)
			},
		},
		{
			name: "Truncated dangling key",
			text: `{"a": "x", "b": 2, "dang`,
			validate: func(t *testing.T, s sample) {
				assert.Equal(t, "x", s.A)
				assert.Equal(t, 2, s.B)
			},
		},
		{
			name: "Interior quote followed by prose comma",
			text: `{"a": "he said "stop", then left", "b": 3}`,
			validate: func(t *testing.T, s sample) {
				assert.Equal(t, `he said "stop", then left`, s.A)
				assert.Equal(t, 3, s.B)
			},
		},
		{
			name: "Duplicate commas",
			text: `{"a": "x",, "b": 4}`,
			validate: func(t *testing.T, s sample) {
				assert.Equal(t, 4, s.B)
			},
		},
		{
			name: "BOM prefix",
			text: "\uFEFF{\"a\": \"x\", \"b\": 1}",
			validate: func(t *testing.T, s sample) {
				assert.Equal(t, "x", s.A)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Parse[sample](tt.text)
			require.NoError(t, err)
			tt.validate(t, got)
		})
	}
}

func TestParseArrays(t *testing.T) {
	got, err := Parse[[]sample](`[{"a": "one", "b": 1}, {"a": "two", "b": 2}]`)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "two", got[1].A)

	// Truncated array document.
	got, err = Parse[[]sample](`[{"a": "one", "b": 1}, {"a": "two", "b": 2`)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, 2, got[1].B)
}

func TestParseUnrecoverable(t *testing.T) {
	tests := []struct {
		name string
		text string
	}{
		{name: "Empty input", text: ""},
		{name: "Pure prose", text: "I'm sorry, I can't produce that."},
		{name: "Wrong shape", text: `"just a string"`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse[sample](tt.text)
			require.Error(t, err)
			var uerr *UnparsableOutputError
			assert.ErrorAs(t, err, &uerr)
		})
	}
}

func TestParseRawMessage(t *testing.T) {
	raw, err := Parse[json.RawMessage]("```json\n[{\"a\": \"x\", \"b\": 1},]\n```")
	require.NoError(t, err)
	assert.True(t, json.Valid(raw))
}
