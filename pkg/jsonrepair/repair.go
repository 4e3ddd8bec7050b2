package jsonrepair

import "strings"

// RepairBrackets balances truncated JSON text. It starts at the first opening
// bracket, drops closers that do not match the innermost opener, terminates
// an unterminated string, closes every open bracket innermost first and
// removes trailing commas in front of closers. Returns "" when the text has
// no opening bracket at all.
func RepairBrackets(s string) string {
	s = stripCodeFence(s)
	start := strings.IndexAny(s, "{[")
	if start < 0 {
		return ""
	}
	s = s[start:]

	var (
		b        strings.Builder
		stack    []byte
		inString bool
		escaped  bool
	)
	b.Grow(len(s) + 8)

	for i := 0; i < len(s); i++ {
		c := s[i]
		if inString {
			b.WriteByte(c)
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == '"':
				inString = false
			}
			continue
		}

		switch c {
		case '"':
			inString = true
		case '{', '[':
			stack = append(stack, c)
		case '}', ']':
			if len(stack) == 0 || stack[len(stack)-1] != openerFor(c) {
				continue
			}
			stack = stack[:len(stack)-1]
			b.WriteByte(c)
			if len(stack) == 0 {
				// anything after the outermost closer is trailing prose
				return StripTrailingCommas(b.String())
			}
			continue
		}
		b.WriteByte(c)
	}

	out := b.String()
	if inString {
		if escaped {
			out = out[:len(out)-1]
		}
		out += `"`
	}

	out = strings.TrimRight(out, " \t\r\n")
	switch {
	case strings.HasSuffix(out, ","):
		out = strings.TrimRight(out[:len(out)-1], " \t\r\n")
	case strings.HasSuffix(out, ":"):
		out += "null"
	}
	if len(stack) > 0 && stack[len(stack)-1] == '{' && danglingKey(out) {
		out += ":null"
	}

	var closers strings.Builder
	for i := len(stack) - 1; i >= 0; i-- {
		closers.WriteByte(closerFor(stack[i]))
	}
	return StripTrailingCommas(out + closers.String())
}

// StripTrailingCommas removes commas that directly precede a closing
// bracket, ignoring anything inside string literals.
func StripTrailingCommas(s string) string {
	var (
		b        strings.Builder
		inString bool
		escaped  bool
	)
	b.Grow(len(s))
	for i := 0; i < len(s); i++ {
		c := s[i]
		if inString {
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == '"':
				inString = false
			}
			b.WriteByte(c)
			continue
		}
		if c == '"' {
			inString = true
		}
		if c == ',' {
			j := i + 1
			for j < len(s) && isSpace(s[j]) {
				j++
			}
			if j < len(s) && (s[j] == '}' || s[j] == ']') {
				continue
			}
		}
		b.WriteByte(c)
	}
	return b.String()
}

// danglingKey reports whether out ends with a quoted object key that has no
// value yet, e.g. `{"a":1,"b"`.
func danglingKey(out string) bool {
	if !strings.HasSuffix(out, `"`) {
		return false
	}
	// walk back over the final string literal
	i := len(out) - 2
	for i >= 0 {
		if out[i] == '"' && (i == 0 || out[i-1] != '\\') {
			break
		}
		i--
	}
	if i < 0 {
		return false
	}
	j := i - 1
	for j >= 0 && isSpace(out[j]) {
		j--
	}
	return j >= 0 && (out[j] == '{' || out[j] == ',')
}

func openerFor(c byte) byte {
	if c == '}' {
		return '{'
	}
	return '['
}

func closerFor(c byte) byte {
	if c == '{' {
		return '}'
	}
	return ']'
}

func isSpace(c byte) bool {
	return c == ' ' || c == '\n' || c == '\r' || c == '\t'
}
