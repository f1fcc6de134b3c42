package openai

import "github.com/illuzioner/chat-relay/internal/provider"

type completionRequest struct {
	Model    string             `json:"model"`
	Messages []provider.Message `json:"messages"`
}

type completionResponse struct {
	ID      string   `json:"id"`
	Model   string   `json:"model"`
	Choices []choice `json:"choices"`
	Usage   *usage   `json:"usage,omitempty"`
}

type choice struct {
	Index   int `json:"index"`
	Message struct {
		Role string `json:"role"`
		// null when the model returns only tool calls or is filtered
		Content *string `json:"content"`
	} `json:"message"`
	FinishReason string `json:"finish_reason"`
}

type usage struct {
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
	TotalTokens      int `json:"total_tokens"`
}

// errorEnvelope is the body OpenAI sends with non-2xx statuses.
type errorEnvelope struct {
	Error struct {
		Message string `json:"message"`
		Type    string `json:"type"`
		Code    any    `json:"code"`
	} `json:"error"`
}
