package dsl

import (
	"fmt"

	"github.com/reoring/qskema"
	js "github.com/reoring/qskema/jsonschema"
)

// JSONSchema projects a field set into a JSON Schema object describing the
// decoded record. Optional fields are left out of "required"; bigint fields
// are integers.
func JSONSchema(fields []qskema.Field) (*js.Schema, error) {
	out := &js.Schema{
		SchemaURI:            js.Draft2020,
		Type:                 "object",
		Properties:           make(map[string]*js.Schema, len(fields)),
		AdditionalProperties: false,
	}
	for _, f := range fields {
		s, ok := f.Schema.(Schema)
		if !ok {
			return nil, fmt.Errorf("dsl: field %q: schema %T is not a dsl schema", f.Name, f.Schema)
		}
		out.Properties[f.Name] = s.jsonSchema()
		if _, opt := s.(OptionalSchema); !opt {
			out.Required = append(out.Required, f.Name)
		}
	}
	return out, nil
}

// SchemaJSON is JSONSchema for a compiled schema.
func SchemaJSON(s *qskema.Schema) (*js.Schema, error) { return JSONSchema(s.Fields()) }
