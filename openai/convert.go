package openai

import (
	"strings"

	a3s "github.com/a3s-lab/a3s-sdk-go"
)

// RoleToNative maps an OpenAI role token to the native Role. The
// deprecated "function" role maps to RoleTool; anything unrecognized maps
// to RoleUnknown.
func RoleToNative(role string) a3s.Role {
	switch role {
	case RoleUser:
		return a3s.RoleUser
	case RoleAssistant:
		return a3s.RoleAssistant
	case RoleSystem:
		return a3s.RoleSystem
	case RoleTool, RoleFunction:
		return a3s.RoleTool
	default:
		return a3s.RoleUnknown
	}
}

// RoleFromNative maps a native Role to its OpenAI token. Roles without an
// OpenAI equivalent, RoleUnknown included, map to "user".
func RoleFromNative(role a3s.Role) string {
	switch role {
	case a3s.RoleUser:
		return RoleUser
	case a3s.RoleAssistant:
		return RoleAssistant
	case a3s.RoleSystem:
		return RoleSystem
	case a3s.RoleTool:
		return RoleTool
	default:
		return RoleUser
	}
}

// ToNative converts the message to the native schema, implementing the
// a3s MessageParam interface. Multi-part content collapses to a flat
// string: text parts are newline-joined in their original order, other
// parts are dropped, and a message with no text parts becomes the empty
// string. Tool calls and tool_call_id have no native message field and
// are dropped as well.
func (m ChatMessage) ToNative() a3s.Message {
	msg := a3s.Message{
		Role:    RoleToNative(m.Role),
		Content: flattenContent(m.Content),
	}
	if m.Name != "" {
		msg.Metadata = map[string]string{a3s.MetadataName: m.Name}
	}
	return msg
}

// flattenContent reduces the content union to the native flat string.
func flattenContent(c Content) string {
	if text, ok := c.AsText(); ok {
		return text
	}
	parts, _ := c.AsParts()
	texts := make([]string, 0, len(parts))
	for _, p := range parts {
		if p.Type == ContentPartText {
			texts = append(texts, p.Text)
		}
	}
	return strings.Join(texts, "\n")
}

// MessageFromNative converts a native message to the OpenAI shape.
// Content is always a plain string; only the name metadata entry carries
// over.
func MessageFromNative(m a3s.Message) ChatMessage {
	msg := ChatMessage{
		Role:    RoleFromNative(m.Role),
		Content: Text(m.Content),
	}
	if name, ok := m.Metadata[a3s.MetadataName]; ok {
		msg.Name = name
	}
	return msg
}

// ToolCallToNative flattens the nested function shape into the native
// one. Arguments pass through unexamined.
func ToolCallToNative(tc ToolCall) a3s.ToolCall {
	return a3s.ToolCall{
		ID:        tc.ID,
		Name:      tc.Function.Name,
		Arguments: tc.Function.Arguments,
	}
}

// ToolCallFromNative nests the flat native shape under a function
// sub-object.
func ToolCallFromNative(tc a3s.ToolCall) ToolCall {
	return ToolCall{
		ID:   tc.ID,
		Type: ToolCallTypeFunction,
		Function: FunctionCall{
			Name:      tc.Name,
			Arguments: tc.Arguments,
		},
	}
}

// FinishReasonFromNative maps the four shared reasons 1:1 and returns nil
// for anything else, the native-only "error" reason included.
func FinishReasonFromNative(r a3s.FinishReason) *FinishReason {
	var out FinishReason
	switch r {
	case a3s.FinishReasonStop:
		out = FinishReasonStop
	case a3s.FinishReasonLength:
		out = FinishReasonLength
	case a3s.FinishReasonToolCalls:
		out = FinishReasonToolCalls
	case a3s.FinishReasonContentFilter:
		out = FinishReasonContentFilter
	default:
		return nil
	}
	return &out
}

// UsageFromNative renames the usage fields. Absent usage stays absent;
// any missing count is zero.
func UsageFromNative(u *a3s.Usage) *Usage {
	if u == nil {
		return nil
	}
	return &Usage{
		PromptTokens:     u.PromptTokens,
		CompletionTokens: u.CompletionTokens,
		TotalTokens:      u.TotalTokens,
	}
}
