package toolcall

import (
	"slices"
	"strings"
)

// ParseToolCall extracts one {"tool": <name>, "args": {...}} envelope from text.
// The shallow-dict parser runs twice: once on the envelope and once on the
// args value it captured as raw text. Argument values stay raw strings; typing
// them is the dispatcher's job. Every failure is a *ParseError.
func ParseToolCall(text string) (ToolCall, error) {
	outer, err := ParseShallowDict(text)
	if err != nil {
		return ToolCall{}, err
	}
	tool, hasTool := outer["tool"]
	rawArgs, hasArgs := outer["args"]
	if !hasTool || !hasArgs {
		return ToolCall{}, newParseError(MissingKeys, text, -1, "both 'tool' and 'args' keys are required")
	}
	name := strings.TrimSpace(tool)
	if name == "" {
		return ToolCall{}, newParseError(EmptyToolName, text, -1, "'tool' name is empty")
	}
	rawArgs = strings.TrimSpace(rawArgs)
	if !strings.HasPrefix(rawArgs, "{") {
		return ToolCall{}, newParseError(ArgsNotDict, rawArgs, 0, "'args' must start with '{'")
	}
	args, err := ParseShallowDict(rawArgs)
	if err != nil {
		return ToolCall{}, err
	}
	return ToolCall{Name: name, Args: args}, nil
}

// FormatToolCall renders name and args as an envelope that ParseToolCall reads
// back unchanged. Keys are sorted for stable output.
func FormatToolCall(name string, args map[string]string) string {
	keys := make([]string, 0, len(args))
	for k := range args {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	var b strings.Builder
	b.WriteString(`{"tool": `)
	b.WriteString(Quote(name))
	b.WriteString(`, "args": {`)
	for i, k := range keys {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(Quote(k))
		b.WriteString(": ")
		b.WriteString(Quote(args[k]))
	}
	b.WriteString("}}")
	return b.String()
}
