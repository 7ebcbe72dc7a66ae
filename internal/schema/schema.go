package schema

import (
	"encoding/json"

	"github.com/invopop/jsonschema"
)

// reflector inlines the reflected type instead of hiding it behind $defs,
// so tool parameter schemas come out as a single flat object document.
var reflector = jsonschema.Reflector{
	Anonymous:      true,
	DoNotReference: true,
	ExpandedStruct: true,
}

// Generate reflects a JSON Schema document from the Go struct type T. It
// uses struct tags (json, jsonschema) to derive property names, types,
// descriptions and required fields.
func Generate[T any]() json.RawMessage {
	var zero T
	s := reflector.Reflect(&zero)

	doc := map[string]any{"type": "object"}
	if props := schemaProperties(s); props != nil {
		doc["properties"] = props
	}
	if len(s.Required) > 0 {
		doc["required"] = s.Required
	}

	raw, _ := json.Marshal(doc)
	return raw
}

// schemaProperties converts an ordered map of properties into a plain
// map[string]any suitable for serialization.
func schemaProperties(s *jsonschema.Schema) map[string]any {
	if s.Properties == nil {
		return nil
	}
	props := make(map[string]any)
	for pair := s.Properties.Oldest(); pair != nil; pair = pair.Next() {
		props[pair.Key] = propertySchema(pair.Value)
	}
	return props
}

// propertySchema converts a single property schema to a serializable map.
func propertySchema(s *jsonschema.Schema) map[string]any {
	m := make(map[string]any)

	if s.Type != "" {
		m["type"] = s.Type
	}
	if s.Description != "" {
		m["description"] = s.Description
	}
	if s.Default != nil {
		m["default"] = s.Default
	}
	if len(s.Enum) > 0 {
		m["enum"] = s.Enum
	}

	// Pointer fields reflect as anyOf with a null branch; keep the value type.
	if len(s.AnyOf) > 0 {
		for _, sub := range s.AnyOf {
			if sub.Type != "null" && sub.Type != "" {
				m["type"] = sub.Type
				break
			}
		}
	}

	// Nested object properties
	if s.Properties != nil {
		m["type"] = "object"
		m["properties"] = schemaProperties(s)
		if len(s.Required) > 0 {
			m["required"] = s.Required
		}
	}

	// Array items
	if s.Items != nil {
		m["items"] = propertySchema(s.Items)
	}

	return m
}
