package parsing

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRepairStrings(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{
			name: "Valid JSON untouched",
			in:   `{"a": "he said \"hi\"", "b": [1, 2]}`,
			want: `{"a": "he said \"hi\"", "b": [1, 2]}`,
		},
		{
			name: "Interior quotes escaped",
			in:   `{"a": "he said "hi" to me"}`,
			want: `{"a": "he said \"hi\" to me"}`,
		},
		{
			name: "Interior quotes in array element",
			in:   `["with "quoted" middle", "last"]`,
			want: `["with \"quoted\" middle", "last"]`,
		},
		{
			name: "Prose after comma keeps quote interior",
			in:   `{"a": "he said "stop", then left"}`,
			want: `{"a": "he said \"stop\", then left"}`,
		},
		{
			name: "Comma before bare literal is structural",
			in:   `["x", true, "y"]`,
			want: `["x", true, "y"]`,
		},
		{
			name: "Raw newline escaped",
			in:   "{\"a\": \"one\ntwo\"}",
			want: `{"a": "one\ntwo"}`,
		},
		{
			name: "Raw tab escaped",
			in:   "{\"a\": \"one\ttwo\"}",
			want: `{"a": "one\ttwo"}`,
		},
		{
			name: "Lone backslash doubled",
			in:   `{"path": "C:\Users"}`,
			want: `{"path": "C:\\Users"}`,
		},
		{
			name: "Open string at end left open",
			in:   `{"a": "cut off`,
			want: `{"a": "cut off`,
		},
		{
			name: "Empty string values",
			in:   `{"a": "", "b": ""}`,
			want: `{"a": "", "b": ""}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, RepairStrings(tt.in))
		})
	}
}

func TestRepairStringsIdempotent(t *testing.T) {
	inputs := []string{
		`{"a": "he said "hi" to me"}`,
		"{\"a\": \"one\ntwo\"}",
		`{"k": "v", "n": [1, 2, 3]}`,
	}
	for _, in := range inputs {
		once := RepairStrings(in)
		assert.Equal(t, once, RepairStrings(once), "input: %s", in)
	}
}

func TestRepairTruncation(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{
			name: "Complete document untouched",
			in:   `{"a": 1}`,
			want: `{"a": 1}`,
		},
		{
			name: "Nested object closed",
			in:   `{"a": {"b": 1`,
			want: `{"a": {"b": 1}}`,
		},
		{
			name: "Array of objects closed",
			in:   `[{"a": 1}, {"b": 2`,
			want: `[{"a": 1}, {"b": 2}]`,
		},
		{
			name: "Open string value closed",
			in:   `{"a": "cut off`,
			want: `{"a": "cut off"}`,
		},
		{
			name: "Dangling key dropped",
			in:   `{"a": 1, "dang`,
			want: `{"a": 1}`,
		},
		{
			name: "Trailing colon gets null",
			in:   `{"a": 1, "b":`,
			want: `{"a": 1, "b":null}`,
		},
		{
			name: "Trailing comma pruned",
			in:   `{"a": 1,`,
			want: `{"a": 1}`,
		},
		{
			name: "Open string in array kept",
			in:   `["one", "tw`,
			want: `["one", "tw"]`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := RepairTruncation(tt.in)
			assert.Equal(t, tt.want, got)
			require.True(t, json.Valid([]byte(got)), "repaired output must be valid JSON: %s", got)
		})
	}
}

func TestCollapseCommas(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{
			name: "Duplicate comma removed",
			in:   `{"a": 1,, "b": 2}`,
			want: `{"a": 1, "b": 2}`,
		},
		{
			name: "Comma after opening bracket removed",
			in:   `[, 1, 2]`,
			want: `[ 1, 2]`,
		},
		{
			name: "Commas inside strings kept",
			in:   `{"a": ",,"}`,
			want: `{"a": ",,"}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CollapseCommas(tt.in))
		})
	}
}
