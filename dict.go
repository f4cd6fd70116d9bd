package toolcall

import (
	"fmt"
	"strings"
)

// ParseShallowDict parses one {key: value, ...} object. Keys must be quoted.
// Values are returned as strings without interpretation:
//   - a quoted literal yields its content;
//   - a nested {...} yields the raw text including its braces, for the caller to
//     re-parse when it expects a dict there;
//   - anything else yields the trimmed text up to the next top-level ',' or '}'.
//
// The grammar is permissive on purpose: a repeated key keeps the last value,
// commas between pairs are optional, a trailing comma is accepted, and text
// after the closing brace is ignored.
func ParseShallowDict(s string) (map[string]string, error) {
	i := skipWhitespace(s, 0)
	if i >= len(s) || s[i] != '{' {
		return nil, newParseError(NotADict, s, i, "dict must start with '{'")
	}
	i++
	out := make(map[string]string)
	for {
		i = skipWhitespace(s, i)
		if i >= len(s) {
			return nil, newParseError(UnexpectedEnd, s, i, "unexpected end of input in dict")
		}
		if s[i] == '}' {
			return out, nil
		}
		key, next, err := readKey(s, i)
		if err != nil {
			return nil, err
		}
		val, next, err := readValue(s, next)
		if err != nil {
			return nil, err
		}
		out[key] = val
		i = skipWhitespace(s, next)
		if i < len(s) && s[i] == ',' {
			i++
		}
	}
}

func readKey(s string, i int) (string, int, error) {
	if !isQuote(s[i]) {
		return "", i, newParseError(UnquotedKey, s, i, fmt.Sprintf("dict key at pos %d must be quoted", i))
	}
	key, i, err := readQuoted(s, i)
	if err != nil {
		return "", i, err
	}
	i = skipWhitespace(s, i)
	if i >= len(s) || s[i] != ':' {
		return "", i, newParseError(MissingColon, s, i, fmt.Sprintf("missing ':' after key %q", key))
	}
	return key, i + 1, nil
}

func readValue(s string, i int) (string, int, error) {
	i = skipWhitespace(s, i)
	if i >= len(s) {
		return "", i, newParseError(UnexpectedEnd, s, i, "unexpected end of input while reading value")
	}
	switch c := s[i]; {
	case isQuote(c):
		return readQuoted(s, i)
	case c == '{':
		end, err := findMatchingBrace(s, i)
		if err != nil {
			return "", i, err
		}
		return s[i:end], end, nil
	default:
		return readScalar(s, i)
	}
}

// readScalar captures a bare token such as 42, true or None. Braces are
// balanced and quoted runs skipped so that neither can end the token early.
func readScalar(s string, i int) (string, int, error) {
	start, depth := i, 0
scan:
	for i < len(s) {
		switch c := s[i]; {
		case isQuote(c):
			_, next, err := readQuoted(s, i)
			if err != nil {
				return "", i, err
			}
			i = next
			continue
		case c == '{':
			depth++
		case c == '}':
			if depth == 0 {
				break scan
			}
			depth--
		case c == ',' && depth == 0:
			break scan
		}
		i++
	}
	return strings.TrimSpace(s[start:i]), i, nil
}
