package jsonschema

import (
	"bytes"
	"fmt"

	json "github.com/goccy/go-json"
	sjs "github.com/santhosh-tekuri/jsonschema/v6"
)

const resourceName = "qskema.json"

// Compiled is an exported schema compiled for instance validation.
type Compiled struct {
	sch *sjs.Schema
}

// Compile marshals s and compiles it with a draft 2020-12 validator.
func Compile(s *Schema) (*Compiled, error) {
	raw, err := json.Marshal(s)
	if err != nil {
		return nil, fmt.Errorf("jsonschema: marshal: %w", err)
	}
	doc, err := sjs.UnmarshalJSON(bytes.NewReader(raw))
	if err != nil {
		return nil, fmt.Errorf("jsonschema: unmarshal: %w", err)
	}
	c := sjs.NewCompiler()
	if err := c.AddResource(resourceName, doc); err != nil {
		return nil, fmt.Errorf("jsonschema: add resource: %w", err)
	}
	sch, err := c.Compile(resourceName)
	if err != nil {
		return nil, fmt.Errorf("jsonschema: compile: %w", err)
	}
	return &Compiled{sch: sch}, nil
}

// Validate checks an object instance. Entries with nil values are treated as
// absent; other values go through their JSON encoding, so *big.Int becomes a
// JSON integer.
func (c *Compiled) Validate(obj map[string]any) error {
	present := make(map[string]any, len(obj))
	for k, v := range obj {
		if v != nil {
			present[k] = v
		}
	}
	raw, err := json.Marshal(present)
	if err != nil {
		return fmt.Errorf("jsonschema: marshal instance: %w", err)
	}
	inst, err := sjs.UnmarshalJSON(bytes.NewReader(raw))
	if err != nil {
		return fmt.Errorf("jsonschema: unmarshal instance: %w", err)
	}
	return c.sch.Validate(inst)
}
