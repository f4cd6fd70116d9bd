package provider

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// TGIResponse is the body of a text-generation-inference /generate call.
type TGIResponse struct {
	GeneratedText string `json:"generated_text"`
}

// FromTGI decodes a /generate body, either one object or a one-element array,
// and returns the sanitized generated text.
func FromTGI(body []byte, answerPrefix string) (string, error) {
	body = bytes.TrimSpace(body)
	var resp TGIResponse
	if len(body) > 0 && body[0] == '[' {
		var batch []TGIResponse
		if err := json.Unmarshal(body, &batch); err != nil {
			return "", fmt.Errorf("provider: decode tgi response: %w", err)
		}
		if len(batch) == 0 {
			return "", ErrEmptyReply
		}
		resp = batch[0]
	} else if err := json.Unmarshal(body, &resp); err != nil {
		return "", fmt.Errorf("provider: decode tgi response: %w", err)
	}
	text := Sanitize(resp.GeneratedText, answerPrefix)
	if text == "" {
		return "", ErrEmptyReply
	}
	return text, nil
}
