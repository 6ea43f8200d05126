package operations

import (
	"bytes"
	"encoding/json"
)

// Model describes one upstream model.
type Model struct {
	ID      string  `json:"id"`
	Object  string  `json:"object"`
	Created float64 `json:"created,omitempty"`
	OwnedBy string  `json:"owned_by,omitempty"`
}

// ModelList is the list_models result.
type ModelList struct {
	Object string  `json:"object"`
	Data   []Model `json:"data"`
}

type Usage struct {
	PromptTokens     float64 `json:"prompt_tokens"`
	CompletionTokens float64 `json:"completion_tokens,omitempty"`
	TotalTokens      float64 `json:"total_tokens"`
}

// ChatMessage content is either a string, an array of parts or null, so it
// is kept raw.
type ChatMessage struct {
	Role    string          `json:"role"`
	Content json.RawMessage `json:"content,omitempty"`
	Name    string          `json:"name,omitempty"`
}

// Text returns the content when it is a plain string.
func (m ChatMessage) Text() (string, bool) {
	if len(m.Content) == 0 || bytes.Equal(bytes.TrimSpace(m.Content), []byte("null")) {
		return "", false
	}
	var s string
	if err := json.Unmarshal(m.Content, &s); err != nil {
		return "", false
	}
	return s, true
}

type ChatChoice struct {
	Index        float64     `json:"index"`
	Message      ChatMessage `json:"message"`
	FinishReason *string     `json:"finish_reason"`
}

// ChatCompletion is the create_chat_completion result.
type ChatCompletion struct {
	ID        string       `json:"id"`
	Object    string       `json:"object"`
	Created   float64      `json:"created"`
	Model     string       `json:"model"`
	Choices   []ChatChoice `json:"choices"`
	Usage     *Usage       `json:"usage,omitempty"`
	Citations []string     `json:"citations,omitempty"`
}

type Logprobs struct {
	TokenLogprobs []float64            `json:"token_logprobs"`
	TopLogprobs   []map[string]float64 `json:"top_logprobs"`
	Tokens        []string             `json:"tokens"`
}

type CompletionChoice struct {
	Text         string    `json:"text"`
	Index        float64   `json:"index"`
	Logprobs     *Logprobs `json:"logprobs"`
	FinishReason *string   `json:"finish_reason"`
}

// Completion is the create_completion result.
type Completion struct {
	ID      string             `json:"id"`
	Object  string             `json:"object"`
	Created float64            `json:"created"`
	Model   string             `json:"model"`
	Choices []CompletionChoice `json:"choices"`
	Usage   Usage              `json:"usage"`
}

// Embedding holds either a float vector or, for encoding_format=base64, the
// encoded string.
type Embedding struct {
	Object    string          `json:"object"`
	Embedding json.RawMessage `json:"embedding"`
	Index     float64         `json:"index"`
}

// Vector decodes a float embedding. It fails for base64 payloads.
func (e Embedding) Vector() ([]float64, error) {
	var v []float64
	err := json.Unmarshal(e.Embedding, &v)
	return v, err
}

// Embeddings is the create_embeddings result.
type Embeddings struct {
	Object string      `json:"object"`
	Data   []Embedding `json:"data"`
	Model  string      `json:"model"`
	Usage  Usage       `json:"usage"`
}
