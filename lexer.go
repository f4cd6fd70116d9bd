package toolcall

import (
	"fmt"
	"strings"
)

// The scanner works on byte offsets. Every delimiter it cares about is ASCII,
// so multi-byte UTF-8 sequences pass through untouched.

func isSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\r' || c == '\n'
}

func isQuote(c byte) bool {
	return c == '\'' || c == '"'
}

func skipWhitespace(s string, i int) int {
	for i < len(s) && isSpace(s[i]) {
		i++
	}
	return i
}

// readQuoted reads the string literal starting at s[i] and returns its content
// and the index just past the closing quote. Triple-quoted literals are taken
// verbatim; single and double quoted ones honour backslash escapes, where \x
// always yields x.
func readQuoted(s string, i int) (string, int, error) {
	if i+2 < len(s) {
		if q := s[i : i+3]; q == `'''` || q == `"""` {
			start := i + 3
			if end := strings.Index(s[start:], q); end >= 0 {
				return s[start : start+end], start + end + 3, nil
			}
			return "", i, newParseError(UnterminatedTripleString, s, i, "unterminated triple-quoted string")
		}
	}
	if i >= len(s) || !isQuote(s[i]) {
		return "", i, newParseError(ExpectedQuote, s, i, fmt.Sprintf("expected quote at pos %d", i))
	}
	quote := s[i]
	var b strings.Builder
	esc := false
	for j := i + 1; j < len(s); j++ {
		c := s[j]
		switch {
		case esc:
			b.WriteByte(c)
			esc = false
		case c == '\\':
			esc = true
		case c == quote:
			return b.String(), j + 1, nil
		default:
			b.WriteByte(c)
		}
	}
	return "", i, newParseError(UnterminatedString, s, i, "unterminated string literal")
}

// findMatchingBrace returns the index just past the '}' that closes the '{'
// at s[i]. String literals are skipped so braces inside them do not count.
func findMatchingBrace(s string, i int) (int, error) {
	if i >= len(s) || s[i] != '{' {
		return i, newParseError(UnbalancedBraces, s, i, fmt.Sprintf("expected '{' at pos %d", i))
	}
	start, depth := i, 0
	for i < len(s) {
		switch c := s[i]; {
		case c == '{':
			depth++
		case c == '}':
			depth--
			if depth == 0 {
				return i + 1, nil
			}
		case isQuote(c):
			_, next, err := readQuoted(s, i)
			if err != nil {
				return i, err
			}
			i = next
			continue
		}
		i++
	}
	return i, newParseError(UnbalancedBraces, s, start, "unbalanced braces")
}

// Quote renders s as a double-quoted literal that readQuoted maps back to s.
func Quote(s string) string {
	var b strings.Builder
	b.Grow(len(s) + 2)
	b.WriteByte('"')
	for i := 0; i < len(s); i++ {
		if c := s[i]; c == '"' || c == '\\' {
			b.WriteByte('\\')
		}
		b.WriteByte(s[i])
	}
	b.WriteByte('"')
	return b.String()
}
