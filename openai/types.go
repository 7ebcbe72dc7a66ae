package openai

import (
	"bytes"
	"encoding/json"
	"errors"
)

// Message roles in the OpenAI schema.
const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
	RoleTool      = "tool"

	// RoleFunction is the deprecated predecessor of RoleTool. It is
	// accepted on input and never produced.
	RoleFunction = "function"
)

// ChatMessage is a single message in the OpenAI chat completion schema.
// It implements the a3s MessageParam interface, so values pass straight
// into Client.SendMessage and Client.StreamMessage.
type ChatMessage struct {
	Role       string     `json:"role"`
	Content    Content    `json:"content"`
	Name       string     `json:"name,omitempty"`
	ToolCalls  []ToolCall `json:"tool_calls,omitempty"`
	ToolCallID string     `json:"tool_call_id,omitempty"`
}

type contentKind int

const (
	contentText contentKind = iota
	contentParts
)

// Content is the OpenAI content union: either a plain string or an
// ordered list of typed parts. The zero value is the empty string.
type Content struct {
	kind  contentKind
	text  string
	parts []ContentPart
}

// Text builds plain-string content.
func Text(s string) Content { return Content{kind: contentText, text: s} }

// Parts builds multi-part content preserving part order.
func Parts(parts ...ContentPart) Content {
	return Content{kind: contentParts, parts: parts}
}

// AsText returns the string payload and reports whether the content is a
// plain string.
func (c Content) AsText() (string, bool) { return c.text, c.kind == contentText }

// AsParts returns the part list and reports whether the content is
// multi-part.
func (c Content) AsParts() ([]ContentPart, bool) { return c.parts, c.kind == contentParts }

// IsZero reports whether the content is the zero value, the empty string.
func (c Content) IsZero() bool { return c.kind == contentText && c.text == "" }

// MarshalJSON emits a JSON string for plain content and a JSON array for
// multi-part content.
func (c Content) MarshalJSON() ([]byte, error) {
	if c.kind == contentParts {
		return json.Marshal(c.parts)
	}
	return json.Marshal(c.text)
}

// UnmarshalJSON accepts a JSON string, an array of parts, or null, which
// decodes as the empty string.
func (c *Content) UnmarshalJSON(data []byte) error {
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		*c = Text("")
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*c = Text(s)
		return nil
	}
	var parts []ContentPart
	if err := json.Unmarshal(data, &parts); err == nil {
		*c = Parts(parts...)
		return nil
	}
	return errors.New("openai: content is neither string nor part array")
}

// Content part types.
const (
	ContentPartText     = "text"
	ContentPartImageURL = "image_url"
)

// ContentPart is one element of multi-part content. Type selects which
// payload field is populated.
type ContentPart struct {
	Type     string    `json:"type"`
	Text     string    `json:"text,omitempty"`
	ImageURL *ImageURL `json:"image_url,omitempty"`
}

// ImageURL references an image by URL with an optional detail hint.
type ImageURL struct {
	URL    string `json:"url"`
	Detail string `json:"detail,omitempty"`
}

// TextPart builds a text content part.
func TextPart(text string) ContentPart {
	return ContentPart{Type: ContentPartText, Text: text}
}

// ImagePart builds an image-reference content part.
func ImagePart(url string) ContentPart {
	return ContentPart{Type: ContentPartImageURL, ImageURL: &ImageURL{URL: url}}
}

// ToolCallTypeFunction is the only tool call type in the current schema.
const ToolCallTypeFunction = "function"

// ToolCall is a tool invocation in the OpenAI schema, with name and
// arguments nested under a function sub-object.
type ToolCall struct {
	ID       string       `json:"id"`
	Type     string       `json:"type"`
	Function FunctionCall `json:"function"`
}

// FunctionCall names the function and carries its serialized arguments.
// Arguments is opaque; it is never parsed or validated here.
type FunctionCall struct {
	Name      string `json:"name"`
	Arguments string `json:"arguments"`
}

// FinishReason explains why a choice stopped generating.
type FinishReason string

const (
	FinishReasonStop          FinishReason = "stop"
	FinishReasonLength        FinishReason = "length"
	FinishReasonToolCalls     FinishReason = "tool_calls"
	FinishReasonContentFilter FinishReason = "content_filter"
)

// Usage counts tokens in the OpenAI field naming.
type Usage struct {
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
	TotalTokens      int `json:"total_tokens"`
}

// Object type markers stamped on projected envelopes.
const (
	ObjectChatCompletion      = "chat.completion"
	ObjectChatCompletionChunk = "chat.completion.chunk"
)

// ChatCompletion is the non-streaming chat completion envelope.
type ChatCompletion struct {
	ID      string   `json:"id"`
	Object  string   `json:"object"`
	Created int64    `json:"created"`
	Model   string   `json:"model"`
	Choices []Choice `json:"choices"`
	Usage   *Usage   `json:"usage,omitempty"`
}

// Choice wraps one completed message. FinishReason is a pointer so that
// reasons without an OpenAI equivalent serialize as null.
type Choice struct {
	Index        int           `json:"index"`
	Message      ChatMessage   `json:"message"`
	FinishReason *FinishReason `json:"finish_reason"`
}

// ChatCompletionChunk is the streaming chat completion envelope.
type ChatCompletionChunk struct {
	ID      string        `json:"id"`
	Object  string        `json:"object"`
	Created int64         `json:"created"`
	Model   string        `json:"model"`
	Choices []ChunkChoice `json:"choices"`
	Usage   *Usage        `json:"usage,omitempty"`
}

// ChunkChoice wraps one delta of a streamed message.
type ChunkChoice struct {
	Index        int           `json:"index"`
	Delta        ChunkDelta    `json:"delta"`
	FinishReason *FinishReason `json:"finish_reason"`
}

// ChunkDelta is the incremental payload of a streamed chunk. A terminal
// chunk may carry an empty delta.
type ChunkDelta struct {
	Role      string          `json:"role,omitempty"`
	Content   *string         `json:"content,omitempty"`
	ToolCalls []ToolCallDelta `json:"tool_calls,omitempty"`
}

// ToolCallDelta is one element of a streamed tool call update.
type ToolCallDelta struct {
	Index    int           `json:"index"`
	ID       string        `json:"id,omitempty"`
	Type     string        `json:"type,omitempty"`
	Function *FunctionCall `json:"function,omitempty"`
}
