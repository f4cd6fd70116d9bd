package provider

import (
	openai "github.com/sashabaranov/go-openai"
)

// FromOpenAI returns the reply text of the first choice of a chat completion.
// Native tool calls (and the legacy function_call) win over content.
func FromOpenAI(resp openai.ChatCompletionResponse, answerPrefix string) (string, error) {
	if len(resp.Choices) == 0 {
		return "", ErrEmptyReply
	}
	msg := resp.Choices[0].Message
	if len(msg.ToolCalls) > 0 {
		fn := msg.ToolCalls[0].Function
		return Envelope(fn.Name, []byte(fn.Arguments))
	}
	if msg.FunctionCall != nil {
		return Envelope(msg.FunctionCall.Name, []byte(msg.FunctionCall.Arguments))
	}
	text := Sanitize(msg.Content, answerPrefix)
	if text == "" {
		return "", ErrEmptyReply
	}
	return text, nil
}
