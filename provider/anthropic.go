package provider

import (
	"encoding/json"
	"strings"

	anthropic "github.com/anthropics/anthropic-sdk-go"
)

// FromAnthropic returns the reply text of a Messages API response. A tool_use
// block wins over text blocks; text blocks are concatenated and sanitized.
// answerPrefix is the direct-answer marker the reply will be classified with.
func FromAnthropic(msg *anthropic.Message, answerPrefix string) (string, error) {
	if msg == nil {
		return "", ErrEmptyReply
	}
	var b strings.Builder
	for _, cb := range msg.Content {
		switch block := cb.AsAny().(type) {
		case anthropic.ToolUseBlock:
			input, err := json.Marshal(block.Input)
			if err != nil {
				return "", err
			}
			return Envelope(block.Name, input)
		case anthropic.TextBlock:
			b.WriteString(block.Text)
		}
	}
	text := Sanitize(b.String(), answerPrefix)
	if text == "" {
		return "", ErrEmptyReply
	}
	return text, nil
}
