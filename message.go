package a3s

// Role identifies the author of a Message.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
	RoleSystem    Role = "system"
	RoleTool      Role = "tool"

	// RoleUnknown is the native sentinel for an unrecognized author. It has
	// no OpenAI-side equivalent and projects to "user".
	RoleUnknown Role = "unknown"
)

// MetadataName is the Message metadata key carrying an optional display name.
const MetadataName = "name"

// Message is a single conversation message in the native schema.
// Content is always a flat string; multi-part content only exists on the
// OpenAI side and collapses to a string on conversion.
type Message struct {
	Role     Role              `json:"role" msgpack:"role"`
	Content  string            `json:"content" msgpack:"content"`
	Metadata map[string]string `json:"metadata,omitempty" msgpack:"metadata,omitempty"`
}

// ToolCall is a request from the agent to invoke a tool. Arguments is an
// opaque serialized string; the SDK never parses or validates it.
type ToolCall struct {
	ID        string `json:"id" msgpack:"id"`
	Name      string `json:"name" msgpack:"name"`
	Arguments string `json:"arguments" msgpack:"arguments"`
}

// ToolResult is the outcome of a tool invocation executed by the service.
// It exists only in the native schema.
type ToolResult struct {
	Success  bool              `json:"success" msgpack:"success"`
	Output   string            `json:"output,omitempty" msgpack:"output,omitempty"`
	Error    string            `json:"error,omitempty" msgpack:"error,omitempty"`
	Metadata map[string]string `json:"metadata,omitempty" msgpack:"metadata,omitempty"`
}

// FinishReason explains why the agent stopped generating.
type FinishReason string

const (
	FinishReasonStop          FinishReason = "stop"
	FinishReasonLength        FinishReason = "length"
	FinishReasonToolCalls     FinishReason = "tool_calls"
	FinishReasonContentFilter FinishReason = "content_filter"

	// FinishReasonError is native-only and has no OpenAI equivalent; it
	// projects to null.
	FinishReasonError FinishReason = "error"
)

// Usage counts the tokens consumed by a call.
type Usage struct {
	PromptTokens     int `json:"promptTokens" msgpack:"promptTokens"`
	CompletionTokens int `json:"completionTokens" msgpack:"completionTokens"`
	TotalTokens      int `json:"totalTokens" msgpack:"totalTokens"`
}

// ChunkType identifies the payload of a StreamChunk.
type ChunkType string

const (
	ChunkTypeContent    ChunkType = "content"
	ChunkTypeToolCall   ChunkType = "tool_call"
	ChunkTypeToolResult ChunkType = "tool_result"
	ChunkTypeMetadata   ChunkType = "metadata"
	ChunkTypeDone       ChunkType = "done"
)

// StreamChunk is one discrete unit of a streamed response. Type selects
// which payload field is populated.
type StreamChunk struct {
	Type         ChunkType         `json:"type" msgpack:"type"`
	SessionID    string            `json:"sessionId" msgpack:"sessionId"`
	Content      string            `json:"content,omitempty" msgpack:"content,omitempty"`
	ToolCall     *ToolCall         `json:"toolCall,omitempty" msgpack:"toolCall,omitempty"`
	ToolResult   *ToolResult       `json:"toolResult,omitempty" msgpack:"toolResult,omitempty"`
	Metadata     map[string]string `json:"metadata,omitempty" msgpack:"metadata,omitempty"`
	FinishReason FinishReason      `json:"finishReason,omitempty" msgpack:"finishReason,omitempty"`
	Usage        *Usage            `json:"usage,omitempty" msgpack:"usage,omitempty"`
}

// AgentResponse is the agent's complete reply to a message delivery.
type AgentResponse struct {
	SessionID    string       `json:"sessionId" msgpack:"sessionId"`
	Message      Message      `json:"message" msgpack:"message"`
	ToolCalls    []ToolCall   `json:"toolCalls,omitempty" msgpack:"toolCalls,omitempty"`
	FinishReason FinishReason `json:"finishReason,omitempty" msgpack:"finishReason,omitempty"`
	Usage        *Usage       `json:"usage,omitempty" msgpack:"usage,omitempty"`
}
