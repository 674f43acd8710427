// Package parsing turns quasi-JSON model output into typed values. Models
// frequently emit markdown fences, comments, trailing commas, literal quote
// characters inside string fields, and mid-document truncation; the ladder
// of repair strategies here recovers all of those before giving up.
package parsing

import (
	"encoding/json"
	"strings"
)

// snippetLen bounds the amount of raw output carried in an error.
const snippetLen = 120

// Parse decodes model output into T, trying progressively heavier repair
// strategies. Every strategy is pure and leaves already-valid JSON
// untouched. It fails with *UnparsableOutputError only after the full
// ladder is exhausted.
func Parse[T any](text string) (T, error) {
	var out T
	var lastErr error
	attempts := 0

	try := func(candidate string) bool {
		attempts++
		var v T
		if err := json.Unmarshal([]byte(candidate), &v); err != nil {
			lastErr = err
			return false
		}
		out = v
		return true
	}

	// Strategies 1-3: fence stripping, sanitization, plain parse.
	cleaned := Sanitize(StripCodeFence(text))
	if try(cleaned) {
		return out, nil
	}

	// Strategy 4: extract the outermost object or array and retry.
	extracted := ExtractJSON(cleaned)
	if extracted != cleaned && try(extracted) {
		return out, nil
	}

	// Strategy 5: character-level string repair.
	repaired := RepairStrings(extracted)
	if repaired != extracted && try(repaired) {
		return out, nil
	}

	// Strategy 6: close truncated containers.
	completed := RepairTruncation(repaired)
	if completed != repaired && try(completed) {
		return out, nil
	}

	// Strategy 7: aggressive comma cleanup, then re-run 5-6.
	aggressive := RepairTruncation(RepairStrings(CollapseCommas(extracted)))
	if aggressive != completed && try(aggressive) {
		return out, nil
	}

	snippet := text
	if len(snippet) > snippetLen {
		snippet = snippet[:snippetLen]
	}
	var zero T
	return zero, &UnparsableOutputError{Attempts: attempts, Snippet: snippet, LastErr: lastErr}
}

// StripCodeFence removes markdown code block wrappers. Models often wrap
// JSON in ```json ... ``` even when instructed not to.
func StripCodeFence(text string) string {
	text = strings.TrimSpace(text)

	if strings.HasPrefix(text, "```") {
		text = strings.TrimPrefix(text, "```")
		// Skip a language identifier on the first line ("json", "JSON", ...).
		if idx := strings.Index(text, "\n"); idx >= 0 {
			firstLine := strings.TrimSpace(text[:idx])
			if len(firstLine) < 20 && !strings.ContainsAny(firstLine, " {[") {
				text = text[idx+1:]
			}
		}
		if idx := strings.LastIndex(text, "```"); idx >= 0 {
			text = text[:idx]
		}
		return strings.TrimSpace(text)
	}

	return text
}

// Sanitize strips a BOM, control characters, // comment lines, and trailing
// commas before closing brackets.
func Sanitize(text string) string {
	text = strings.TrimPrefix(text, "\uFEFF")

	lines := strings.Split(text, "\n")
	kept := lines[:0]
	for _, line := range lines {
		if strings.HasPrefix(strings.TrimSpace(line), "//") {
			continue
		}
		kept = append(kept, line)
	}
	text = strings.Join(kept, "\n")

	var b strings.Builder
	b.Grow(len(text))
	for _, r := range text {
		if r < 0x20 && r != '\n' && r != '\r' && r != '\t' {
			continue
		}
		b.WriteRune(r)
	}

	return stripTrailingCommas(b.String())
}

// ExtractJSON returns the outermost {...} or [...] span of the text, found
// by first/last bracket index. When no bracket pair exists the input is
// returned unchanged.
func ExtractJSON(text string) string {
	objStart := strings.IndexByte(text, '{')
	arrStart := strings.IndexByte(text, '[')

	start, closer := objStart, byte('}')
	if start < 0 || (arrStart >= 0 && arrStart < start) {
		start, closer = arrStart, ']'
	}
	if start < 0 {
		return text
	}

	end := strings.LastIndexByte(text, closer)
	if end <= start {
		// Likely truncated; keep everything from the opener on.
		return text[start:]
	}
	return text[start : end+1]
}

// stripTrailingCommas removes commas that directly precede a closing
// bracket or brace, a common model slip that standard JSON rejects.
// Commas inside string literals are left alone.
func stripTrailingCommas(text string) string {
	var b strings.Builder
	b.Grow(len(text))
	inString := false
	for i := 0; i < len(text); i++ {
		c := text[i]
		if inString {
			if c == '\\' && i+1 < len(text) {
				b.WriteByte(c)
				i++
				b.WriteByte(text[i])
				continue
			}
			if c == '"' {
				inString = false
			}
			b.WriteByte(c)
			continue
		}
		switch c {
		case '"':
			inString = true
		case ',':
			j := i + 1
			for j < len(text) && isSpace(text[j]) {
				j++
			}
			if j < len(text) && (text[j] == '}' || text[j] == ']') {
				continue
			}
		}
		b.WriteByte(c)
	}
	return b.String()
}

func isSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\n' || c == '\r'
}
