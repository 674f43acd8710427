package parsing

import "strings"

// lookaheadWindow bounds how far the quote classifier scans forward when
// deciding whether a quote closes its string.
const lookaheadWindow = 80

// RepairStrings runs a single-pass state machine over the text, fixing the
// string-literal damage models most often produce: unescaped interior
// quotes, raw newlines/tabs inside strings, and lone backslashes. A string
// left open at end of input is deliberately not closed here; RepairTruncation
// owns that case and needs to see the open string to tell a half-written key
// from a cut-off value. Text outside strings is copied through unchanged, so
// the pass is idempotent on valid JSON.
func RepairStrings(text string) string {
	var b strings.Builder
	b.Grow(len(text) + 16)
	inString := false

	for i := 0; i < len(text); i++ {
		c := text[i]

		if !inString {
			if c == '"' {
				inString = true
			}
			b.WriteByte(c)
			continue
		}

		switch c {
		case '\\':
			if i+1 < len(text) && isValidEscape(text[i+1]) {
				b.WriteByte(c)
				i++
				b.WriteByte(text[i])
			} else {
				// Lone backslash: escape it.
				b.WriteString(`\\`)
			}
		case '\n':
			b.WriteString(`\n`)
		case '\t':
			b.WriteString(`\t`)
		case '\r':
			b.WriteString(`\r`)
		case '"':
			if quoteCloses(text, i+1) {
				inString = false
				b.WriteByte(c)
			} else {
				// Interior quote the model forgot to escape.
				b.WriteString(`\"`)
			}
		default:
			b.WriteByte(c)
		}
	}

	return stripTrailingCommas(b.String())
}

func isValidEscape(c byte) bool {
	switch c {
	case '"', '\\', '/', 'b', 'f', 'n', 'r', 't', 'u':
		return true
	}
	return false
}

// quoteCloses classifies the quote ending at rest = text[from:] as a real
// string terminator or an unescaped interior quote. A quote closes when the
// next significant character is structural: '}', ']' or ':' directly, or a
// comma that introduces a new key, a new value, or precedes a closing
// bracket. Anything else (prose continuing) marks an interior quote.
func quoteCloses(text string, from int) bool {
	i := from
	end := from + lookaheadWindow
	if end > len(text) {
		end = len(text)
	}

	for i < end && isSpace(text[i]) {
		i++
	}
	if i >= len(text) {
		// End of input: treat as closing; truncation repair finishes the
		// document.
		return true
	}

	switch text[i] {
	case '}', ']', ':':
		return true
	case ',':
		return commaIsStructural(text, i+1, end)
	}
	return false
}

// commaIsStructural checks whether the comma at text[at-1] separates JSON
// values rather than sitting inside prose. After the comma we expect either
// a closing bracket, a non-string value, or a quoted token that itself ends
// structurally (a "key": or an array element).
func commaIsStructural(text string, at, end int) bool {
	i := at
	for i < end && isSpace(text[i]) {
		i++
	}
	if i >= len(text) {
		return true
	}

	switch c := text[i]; {
	case c == '}' || c == ']':
		return true
	case c == '{' || c == '[':
		return true
	case c == '-' || (c >= '0' && c <= '9'):
		return true
	case c == 't' || c == 'f' || c == 'n':
		return literalFollows(text, i)
	case c == '"':
		// Scan the quoted token; structural when it terminates before the
		// window ends and is followed by ':' (new key) or ',' / closing
		// bracket (array element).
		j := i + 1
		for j < end {
			if text[j] == '\\' {
				j += 2
				continue
			}
			if text[j] == '"' {
				k := j + 1
				for k < len(text) && isSpace(text[k]) {
					k++
				}
				if k >= len(text) {
					return true
				}
				switch text[k] {
				case ':', ',', '}', ']':
					return true
				}
				return false
			}
			j++
		}
		return false
	}
	return false
}

// literalFollows reports whether text[at:] starts with a bare JSON literal
// (true, false, null) followed by a structural delimiter. A prose word that
// merely begins with t, f, or n does not count.
func literalFollows(text string, at int) bool {
	for _, lit := range [...]string{"true", "false", "null"} {
		if !strings.HasPrefix(text[at:], lit) {
			continue
		}
		k := at + len(lit)
		for k < len(text) && isSpace(text[k]) {
			k++
		}
		if k >= len(text) {
			return true
		}
		switch text[k] {
		case ',', '}', ']':
			return true
		}
	}
	return false
}

// RepairTruncation completes a document the model stopped emitting midway:
// it drops a dangling half-written key, closes an open string value, prunes
// a trailing comma or colon, and appends the closers for every container
// still open. Complete documents pass through unchanged.
func RepairTruncation(text string) string {
	trimmed := strings.TrimRight(text, " \t\n\r")
	if trimmed == "" {
		return text
	}

	var stack []byte
	inString := false
	stringStart := -1

	for i := 0; i < len(trimmed); i++ {
		c := trimmed[i]
		if inString {
			if c == '\\' {
				i++
				continue
			}
			if c == '"' {
				inString = false
			}
			continue
		}
		switch c {
		case '"':
			inString = true
			stringStart = i
		case '{', '[':
			stack = append(stack, c)
		case '}':
			if len(stack) > 0 && stack[len(stack)-1] == '{' {
				stack = stack[:len(stack)-1]
			}
		case ']':
			if len(stack) > 0 && stack[len(stack)-1] == '[' {
				stack = stack[:len(stack)-1]
			}
		}
	}

	if len(stack) == 0 && !inString {
		return text
	}

	if inString {
		if danglingKey(trimmed, stringStart, stack) {
			trimmed = strings.TrimRight(trimmed[:stringStart], " \t\n\r")
			trimmed = strings.TrimSuffix(trimmed, ",")
		} else {
			trimmed += `"`
		}
	}

	trimmed = strings.TrimRight(trimmed, " \t\n\r")
	if strings.HasSuffix(trimmed, ":") {
		trimmed += "null"
	}
	trimmed = strings.TrimSuffix(trimmed, ",")

	var b strings.Builder
	b.WriteString(trimmed)
	for i := len(stack) - 1; i >= 0; i-- {
		if stack[i] == '{' {
			b.WriteByte('}')
		} else {
			b.WriteByte(']')
		}
	}
	return b.String()
}

// danglingKey reports whether the unterminated string starting at start is
// a half-written object key (preceded by '{' or ',' in object context)
// rather than a value worth keeping.
func danglingKey(text string, start int, stack []byte) bool {
	if len(stack) == 0 || stack[len(stack)-1] != '{' {
		return false
	}
	i := start - 1
	for i >= 0 && isSpace(text[i]) {
		i--
	}
	if i < 0 {
		return false
	}
	return text[i] == '{' || text[i] == ','
}

// CollapseCommas removes stray comma runs: duplicates between values and
// commas directly after an opening bracket. Used only by the aggressive
// final pass.
func CollapseCommas(text string) string {
	var b strings.Builder
	b.Grow(len(text))
	inString := false
	lastSignificant := byte(0)

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
			if lastSignificant == ',' || lastSignificant == '{' || lastSignificant == '[' {
				continue
			}
		}
		if !isSpace(c) {
			lastSignificant = c
		}
		b.WriteByte(c)
	}
	return b.String()
}
