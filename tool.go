package a3s

import (
	"encoding/json"

	"github.com/a3s-lab/a3s-sdk-go/internal/schema"
)

// ToolDef declares a tool the agent may call during a session. Parameters
// holds the JSON Schema describing the tool's input.
type ToolDef struct {
	Name        string          `json:"name" msgpack:"name"`
	Description string          `json:"description,omitempty" msgpack:"description,omitempty"`
	Parameters  json.RawMessage `json:"parameters,omitempty" msgpack:"parameters,omitempty"`
}

// NewToolDef builds a tool definition whose parameter schema is reflected
// from the struct type T. Field names follow json tags and jsonschema tags
// refine the generated schema.
func NewToolDef[T any](name, description string) ToolDef {
	return ToolDef{
		Name:        name,
		Description: description,
		Parameters:  schema.Generate[T](),
	}
}

// RawToolDef builds a tool definition from a hand-written JSON Schema.
func RawToolDef(name, description string, parameters json.RawMessage) ToolDef {
	return ToolDef{
		Name:        name,
		Description: description,
		Parameters:  parameters,
	}
}
