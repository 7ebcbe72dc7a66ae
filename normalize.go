package a3s

import "strings"

// MessageParam is the typed boundary for caller-supplied messages. The two
// schemas share the same four lowercase role tokens, so a message's schema
// cannot be inferred from its role string; instead the caller declares it
// through the static type. [Message] is the native implementation and
// openai.ChatMessage is the OpenAI-shaped one.
type MessageParam interface {
	// ToNative returns the message in the native schema as a fresh value,
	// leaving the receiver untouched.
	ToNative() Message
}

// Normalize converts a heterogeneous message list to the native schema.
// It never drops a message, preserves order, and never mutates its inputs.
func Normalize(params []MessageParam) []Message {
	if params == nil {
		return nil
	}
	out := make([]Message, len(params))
	for i, p := range params {
		out[i] = p.ToNative()
	}
	return out
}

// ToNative implements [MessageParam]. The copy's role is canonicalized:
// legacy uppercase-enum tokens such as "USER" lower to their canonical
// form, while anything else passes through verbatim.
func (m Message) ToNative() Message {
	return Message{
		Role:     canonicalRole(m.Role),
		Content:  m.Content,
		Metadata: copyMetadata(m.Metadata),
	}
}

// canonicalRole lowers known role tokens written in any casing. Unknown
// tokens are preserved as-is rather than guessed at.
func canonicalRole(r Role) Role {
	switch lowered := Role(strings.ToLower(strings.TrimSpace(string(r)))); lowered {
	case RoleUser, RoleAssistant, RoleSystem, RoleTool, RoleUnknown:
		return lowered
	}
	return r
}

func copyMetadata(m map[string]string) map[string]string {
	if m == nil {
		return nil
	}
	out := make(map[string]string, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}
