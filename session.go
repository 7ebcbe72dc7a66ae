package a3s

import "time"

// Session is a conversation resource owned by the remote service. The SDK
// never caches or persists sessions; each value is a snapshot returned by
// one call.
type Session struct {
	ID           string            `json:"id" msgpack:"id"`
	Model        string            `json:"model,omitempty" msgpack:"model,omitempty"`
	SystemPrompt string            `json:"systemPrompt,omitempty" msgpack:"systemPrompt,omitempty"`
	Tools        []ToolDef         `json:"tools,omitempty" msgpack:"tools,omitempty"`
	Metadata     map[string]string `json:"metadata,omitempty" msgpack:"metadata,omitempty"`
	CreatedAt    time.Time         `json:"createdAt" msgpack:"createdAt"`
	UpdatedAt    time.Time         `json:"updatedAt" msgpack:"updatedAt"`
}

// CreateSessionRequest configures a new session.
type CreateSessionRequest struct {
	Model        string            `json:"model,omitempty" msgpack:"model,omitempty"`
	SystemPrompt string            `json:"systemPrompt,omitempty" msgpack:"systemPrompt,omitempty"`
	Tools        []ToolDef         `json:"tools,omitempty" msgpack:"tools,omitempty"`
	Metadata     map[string]string `json:"metadata,omitempty" msgpack:"metadata,omitempty"`
}

// SendMessageRequest is the payload for message delivery, unary and
// streaming alike. Messages must already be in the native schema; the
// client normalizes caller input before building this request.
type SendMessageRequest struct {
	Messages []Message         `json:"messages" msgpack:"messages"`
	Model    string            `json:"model,omitempty" msgpack:"model,omitempty"`
	Metadata map[string]string `json:"metadata,omitempty" msgpack:"metadata,omitempty"`
}
