package provider

import (
	"encoding/json"

	"github.com/ollama/ollama/api"
)

// FromOllama returns the reply text of a chat response.
func FromOllama(resp api.ChatResponse, answerPrefix string) (string, error) {
	if len(resp.Message.ToolCalls) > 0 {
		fn := resp.Message.ToolCalls[0].Function
		args, err := json.Marshal(fn.Arguments)
		if err != nil {
			return "", err
		}
		return Envelope(fn.Name, args)
	}
	text := Sanitize(resp.Message.Content, answerPrefix)
	if text == "" {
		return "", ErrEmptyReply
	}
	return text, nil
}
