package provider

import (
	"encoding/json"
	"fmt"

	anthropic "github.com/anthropics/anthropic-sdk-go"
	"github.com/ollama/ollama/api"
	openai "github.com/sashabaranov/go-openai"
)

// Decode unmarshals a raw response body of the named backend and returns its
// reply text. It is the entry point for recorded responses.
func Decode(name Name, body []byte, answerPrefix string) (string, error) {
	switch name {
	case Anthropic:
		var msg anthropic.Message
		if err := json.Unmarshal(body, &msg); err != nil {
			return "", fmt.Errorf("provider: decode anthropic response: %w", err)
		}
		return FromAnthropic(&msg, answerPrefix)
	case OpenAI:
		var resp openai.ChatCompletionResponse
		if err := json.Unmarshal(body, &resp); err != nil {
			return "", fmt.Errorf("provider: decode openai response: %w", err)
		}
		return FromOpenAI(resp, answerPrefix)
	case Ollama:
		var resp api.ChatResponse
		if err := json.Unmarshal(body, &resp); err != nil {
			return "", fmt.Errorf("provider: decode ollama response: %w", err)
		}
		return FromOllama(resp, answerPrefix)
	case TGI:
		return FromTGI(body, answerPrefix)
	default:
		return "", fmt.Errorf("provider: planner %q is not registered", name)
	}
}
