package toolcall

import (
	"fmt"
	"log/slog"
	"regexp"
	"strings"
)

// VerdictKind is the classifier's reading of one model reply.
type VerdictKind int

const (
	Unrecognized VerdictKind = iota
	DirectAnswer
	ToolCalls
)

func (k VerdictKind) String() string {
	switch k {
	case DirectAnswer:
		return "direct_answer"
	case ToolCalls:
		return "tool_calls"
	default:
		return "unrecognized"
	}
}

// Verdict is produced once per model reply.
//
//   - DirectAnswer: Text is the answer with the prefix stripped (may be empty).
//   - ToolCalls: Calls holds the envelopes in reply order.
//   - Unrecognized: Text is the trimmed reply. Err is set when the reply looked
//     like a tool call but failed to parse, which callers must surface rather
//     than treat as a plain answer.
type Verdict struct {
	Kind  VerdictKind
	Text  string
	Calls []ToolCall
	Err   error
}

// Annotated returns Text, followed by the parse failure when there was one.
func (v Verdict) Annotated() string {
	if v.Err == nil {
		return v.Text
	}
	return fmt.Sprintf("Failed to parse tool use response: %s\nError: %v", v.Text, v.Err)
}

// toolKeyPrefix is the cheap structural check run before a full parse: a
// quoted "tool" key right after the opening brace.
var toolKeyPrefix = regexp.MustCompile(`^\{[ \t\r\n]*(?:"tool"|'tool')[ \t\r\n]*:`)

// embeddedToolKey finds an envelope start anywhere in a string.
var embeddedToolKey = regexp.MustCompile(`\{[ \t\r\n]*(?:"tool"|'tool')[ \t\r\n]*:`)

// FindEnvelope returns the first brace-balanced {"tool": ...} object embedded
// in s, e.g. after a line of prose. ok is false when there is none or its
// braces never close.
func FindEnvelope(s string) (envelope string, ok bool) {
	loc := embeddedToolKey.FindStringIndex(s)
	if loc == nil {
		return "", false
	}
	end, err := findMatchingBrace(s, loc[0])
	if err != nil {
		return "", false
	}
	return s[loc[0]:end], true
}

// LooksLikeToolCall reports whether trimmed reply text starts like an envelope.
func LooksLikeToolCall(s string) bool {
	return toolKeyPrefix.MatchString(s)
}

// Classify decides whether reply is a direct answer, a tool call or neither.
// An empty answerPrefix disables the direct-answer branch.
func Classify(reply, answerPrefix string) Verdict {
	s := strings.TrimSpace(reply)
	if answerPrefix != "" && strings.HasPrefix(s, answerPrefix) {
		return Verdict{Kind: DirectAnswer, Text: strings.TrimSpace(s[len(answerPrefix):])}
	}
	if !LooksLikeToolCall(s) {
		return Verdict{Kind: Unrecognized, Text: s}
	}
	call, err := ParseToolCall(s)
	if err != nil {
		return Verdict{Kind: Unrecognized, Text: s, Err: err}
	}
	call.ID = "call-1"
	return Verdict{Kind: ToolCalls, Calls: []ToolCall{call}}
}

// Classifier binds an answer prefix and a logger to Classify.
type Classifier struct {
	prefix string
	logger *slog.Logger
}

// NewClassifier returns a Classifier. A nil logger means slog.Default().
func NewClassifier(answerPrefix string, logger *slog.Logger) *Classifier {
	if logger == nil {
		logger = slog.Default()
	}
	return &Classifier{prefix: answerPrefix, logger: logger}
}

// Prefix returns the configured answer prefix.
func (c *Classifier) Prefix() string { return c.prefix }

// Classify runs Classify and logs the branches that deserve attention.
func (c *Classifier) Classify(reply string) Verdict {
	v := Classify(reply, c.prefix)
	switch {
	case v.Err != nil:
		c.logger.Error("failed to parse tool use response", "reply", v.Text, "error", v.Err)
	case v.Kind == Unrecognized:
		c.logger.Warn("unexpected reply format", "reply", v.Text)
	case v.Kind == ToolCalls:
		for _, call := range v.Calls {
			c.logger.Debug("tool call", "id", call.ID, "tool", call.Name, "args", call.Args)
		}
	}
	return v
}
