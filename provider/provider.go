// Package provider turns already-decoded provider responses into the reply
// text that toolcall.Classify reads. Adapters never perform I/O.
//
// A native tool-use block is rendered as a {"tool": name, "args": {...}}
// envelope with every argument as a quoted string, so the dispatcher types the
// values from the tool's declaration exactly as it does for free-form replies.
// Only the first native tool call of a response is rendered.
package provider

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/skosovsky/toolcall"
)

// ErrEmptyReply is returned when a response holds neither text nor a tool call.
var ErrEmptyReply = errors.New("provider: empty reply")

// Name identifies a supported planner backend.
type Name string

const (
	Anthropic Name = "anthropic"
	OpenAI    Name = "openai"
	Ollama    Name = "ollama"
	TGI       Name = "tgi"
)

// Names lists the supported backends in a stable order.
func Names() []Name {
	return []Name{Anthropic, OpenAI, Ollama, TGI}
}

// ParseName resolves a backend name case-insensitively.
func ParseName(s string) (Name, error) {
	n := Name(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range Names() {
		if n == known {
			return n, nil
		}
	}
	return "", fmt.Errorf("provider: planner %q is not registered", s)
}

// Envelope renders a native tool call. argsJSON must be a JSON object; empty
// input and null mean no arguments.
func Envelope(name string, argsJSON []byte) (string, error) {
	argsJSON = bytes.TrimSpace(argsJSON)
	args := map[string]string{}
	if len(argsJSON) == 0 || bytes.Equal(argsJSON, []byte("null")) {
		return toolcall.FormatToolCall(name, args), nil
	}
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(argsJSON, &fields); err != nil {
		return "", fmt.Errorf("provider: arguments of %q: %w", name, err)
	}
	for k, raw := range fields {
		v, err := flatten(raw)
		if err != nil {
			return "", fmt.Errorf("provider: argument %q of %q: %w", k, name, err)
		}
		args[k] = v
	}
	return toolcall.FormatToolCall(name, args), nil
}

// flatten returns a JSON string's content, or any other value's compact text.
func flatten(raw json.RawMessage) (string, error) {
	if len(raw) > 0 && raw[0] == '"' {
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return "", err
		}
		return s, nil
	}
	var buf bytes.Buffer
	if err := json.Compact(&buf, raw); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// fence matches a reply that is one code block from start to end. A language
// tag is only recognized on the opening line.
var fence = regexp.MustCompile("(?s)^```(?:[\\w-]*\r?\n)?(.*?)\\s*```$")

// Sanitize cleans model text before classification. It drops control
// characters other than \n, \r and \t and unwraps a reply that is a single
// code block. A reply starting with answerPrefix is otherwise left alone;
// any other reply has a tool-call envelope cut out of surrounding prose.
func Sanitize(s, answerPrefix string) string {
	s = strings.Map(func(r rune) rune {
		if r < ' ' && r != '\n' && r != '\r' && r != '\t' {
			return -1
		}
		return r
	}, s)
	s = strings.TrimSpace(s)
	if m := fence.FindStringSubmatch(s); m != nil {
		s = strings.TrimSpace(m[1])
	}
	if answerPrefix != "" && strings.HasPrefix(s, answerPrefix) {
		return s
	}
	if toolcall.LooksLikeToolCall(s) {
		return s
	}
	if env, ok := toolcall.FindEnvelope(s); ok {
		return env
	}
	return s
}
