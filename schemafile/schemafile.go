// Package schemafile loads search-params schemas declared in YAML.
//
//	fields:
//	  q:      {type: string, min: 1}
//	  page:   {type: number, int: true, min: 1, optional: true}
//	  sort:   {type: enum, values: [asc, desc], optional: true}
//	  id:     {type: template_literal, parts: ["user-", {type: number, int: true}]}
//	  debug:  {type: boolean}
//
// Fields keep the order of the YAML mapping. Errors carry line and column.
package schemafile

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"regexp"

	"gopkg.in/yaml.v3"

	"github.com/reoring/qskema"
	g "github.com/reoring/qskema/dsl"
)

// FieldSpec is the YAML form of one field.
type FieldSpec struct {
	Type       string      `yaml:"type"`
	Optional   bool        `yaml:"optional"`
	Min        *float64    `yaml:"min"`
	Max        *float64    `yaml:"max"`
	Gt         *float64    `yaml:"gt"`
	Lt         *float64    `yaml:"lt"`
	Length     *int        `yaml:"length"`
	Int        bool        `yaml:"int"`
	MultipleOf *float64    `yaml:"multipleOf"`
	Format     string      `yaml:"format"`
	Pattern    string      `yaml:"pattern"`
	StartsWith string      `yaml:"startsWith"`
	EndsWith   string      `yaml:"endsWith"`
	Values     []any       `yaml:"values"`
	Parts      []yaml.Node `yaml:"parts"`
}

var knownKeys = map[string]bool{
	"type": true, "optional": true, "min": true, "max": true, "gt": true, "lt": true,
	"length": true, "int": true, "multipleOf": true, "format": true, "pattern": true,
	"startsWith": true, "endsWith": true, "values": true, "parts": true,
}

// Field is a declared field with its source position.
type Field struct {
	Name string
	Spec FieldSpec
	Line int
	Col  int
}

// Document is a parsed schema file.
type Document struct {
	Fields []Field
}

// Error reports a problem at a position in the YAML source.
type Error struct {
	Field string
	Line  int
	Col   int
	Err   error
}

func (e *Error) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("schemafile: %d:%d: %v", e.Line, e.Col, e.Err)
	}
	return fmt.Sprintf("schemafile: field %q at %d:%d: %v", e.Field, e.Line, e.Col, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

// DuplicateKeyError reports a field declared twice with both positions.
type DuplicateKeyError struct {
	Key       string
	FirstLine int
	FirstCol  int
	Line      int
	Col       int
}

func (e *DuplicateKeyError) Error() string {
	return fmt.Sprintf("duplicate YAML key %q at %d:%d (first at %d:%d)", e.Key, e.Line, e.Col, e.FirstLine, e.FirstCol)
}

// LoadFile reads and parses path.
func LoadFile(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("schemafile: %w", err)
	}
	return Parse(data)
}

// Parse parses a schema document.
func Parse(data []byte) (*Document, error) {
	return Load(bytes.NewReader(data))
}

// Load parses the first YAML document of r.
func Load(r io.Reader) (*Document, error) {
	var root yaml.Node
	if err := yaml.NewDecoder(r).Decode(&root); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, errors.New("schemafile: empty document")
		}
		return nil, fmt.Errorf("schemafile: %w", err)
	}
	doc := &root
	if doc.Kind == yaml.DocumentNode && len(doc.Content) > 0 {
		doc = doc.Content[0]
	}
	if doc.Kind != yaml.MappingNode {
		return nil, &Error{Line: doc.Line, Col: doc.Column, Err: errors.New("top level must be a mapping")}
	}
	fields := mappingValue(doc, "fields")
	if fields == nil {
		return nil, &Error{Line: doc.Line, Col: doc.Column, Err: errors.New(`missing "fields" mapping`)}
	}
	if fields.Kind != yaml.MappingNode {
		return nil, &Error{Line: fields.Line, Col: fields.Column, Err: errors.New(`"fields" must be a mapping`)}
	}

	out := &Document{}
	first := make(map[string]*yaml.Node, len(fields.Content)/2)
	for i := 0; i+1 < len(fields.Content); i += 2 {
		k, v := fields.Content[i], fields.Content[i+1]
		if prev, dup := first[k.Value]; dup {
			return nil, &DuplicateKeyError{Key: k.Value, FirstLine: prev.Line, FirstCol: prev.Column, Line: k.Line, Col: k.Column}
		}
		first[k.Value] = k
		spec, err := decodeSpec(v)
		if err != nil {
			return nil, &Error{Field: k.Value, Line: v.Line, Col: v.Column, Err: err}
		}
		out.Fields = append(out.Fields, Field{Name: k.Value, Spec: spec, Line: k.Line, Col: k.Column})
	}
	return out, nil
}

func mappingValue(m *yaml.Node, key string) *yaml.Node {
	for i := 0; i+1 < len(m.Content); i += 2 {
		if m.Content[i].Value == key {
			return m.Content[i+1]
		}
	}
	return nil
}

func decodeSpec(n *yaml.Node) (FieldSpec, error) {
	var spec FieldSpec
	if n.Kind == yaml.ScalarNode {
		// shorthand: "q: string"
		spec.Type = n.Value
		return spec, nil
	}
	if n.Kind != yaml.MappingNode {
		return spec, errors.New("field must be a mapping or a type name")
	}
	for i := 0; i+1 < len(n.Content); i += 2 {
		if k := n.Content[i]; !knownKeys[k.Value] {
			return spec, fmt.Errorf("unknown key %q at %d:%d", k.Value, k.Line, k.Column)
		}
	}
	if err := n.Decode(&spec); err != nil {
		return spec, err
	}
	if spec.Type == "" {
		return spec, errors.New(`missing "type"`)
	}
	return spec, nil
}

// Schema builds the document into a compiled schema using the dsl engine.
func (d *Document) Schema() (*qskema.Schema, error) {
	b := g.SearchParams()
	for _, f := range d.Fields {
		s, err := f.Spec.build()
		if err != nil {
			return nil, &Error{Field: f.Name, Line: f.Line, Col: f.Col, Err: err}
		}
		b.Field(f.Name, s)
	}
	s, err := b.Build()
	if err != nil {
		return nil, fmt.Errorf("schemafile: %w", err)
	}
	return s, nil
}

func (fs FieldSpec) build() (g.Schema, error) {
	s, err := fs.buildInner()
	if err != nil {
		return nil, err
	}
	if fs.Optional {
		return g.Optional(s), nil
	}
	return s, nil
}

func (fs FieldSpec) buildInner() (g.Schema, error) {
	switch fs.Type {
	case "string":
		return fs.buildString()
	case "number":
		n := g.Number()
		if fs.Int {
			n = n.Int()
		}
		if fs.Min != nil {
			n = n.Min(*fs.Min)
		}
		if fs.Max != nil {
			n = n.Max(*fs.Max)
		}
		if fs.Gt != nil {
			n = n.Gt(*fs.Gt)
		}
		if fs.Lt != nil {
			n = n.Lt(*fs.Lt)
		}
		if fs.MultipleOf != nil {
			n = n.MultipleOf(*fs.MultipleOf)
		}
		return n, nil
	case "boolean", "bool":
		return g.Bool(), nil
	case "bigint":
		b := g.BigInt()
		if fs.Min != nil {
			b = b.Min(int64(*fs.Min))
		}
		if fs.Max != nil {
			b = b.Max(int64(*fs.Max))
		}
		return b, nil
	case "literal":
		if len(fs.Values) == 0 {
			return nil, errors.New(`literal needs "values"`)
		}
		return g.Literal(fs.Values...), nil
	case "enum":
		vals := make([]string, 0, len(fs.Values))
		for _, v := range fs.Values {
			s, ok := v.(string)
			if !ok {
				return nil, fmt.Errorf("enum value %v is not a string", v)
			}
			vals = append(vals, s)
		}
		if len(vals) == 0 {
			return nil, errors.New(`enum needs "values"`)
		}
		return g.Enum(vals...), nil
	case "template_literal":
		parts := make([]any, 0, len(fs.Parts))
		for i := range fs.Parts {
			p := &fs.Parts[i]
			if p.Kind == yaml.ScalarNode && p.Tag == "!!str" {
				parts = append(parts, p.Value)
				continue
			}
			sub, err := decodeSpec(p)
			if err != nil {
				return nil, fmt.Errorf("part %d: %w", i, err)
			}
			s, err := sub.build()
			if err != nil {
				return nil, fmt.Errorf("part %d: %w", i, err)
			}
			parts = append(parts, s)
		}
		return g.TemplateLiteral(parts...), nil
	}
	return nil, fmt.Errorf("unknown type %q", fs.Type)
}

func (fs FieldSpec) buildString() (g.Schema, error) {
	s := g.String()
	if fs.Length != nil {
		s = s.Length(*fs.Length)
	}
	if fs.Min != nil {
		s = s.Min(int(*fs.Min))
	}
	if fs.Max != nil {
		s = s.Max(int(*fs.Max))
	}
	switch fs.Format {
	case "":
	case "email":
		s = s.Email()
	case "url":
		s = s.URL()
	case "uuid":
		s = s.UUID()
	case "date":
		s = s.ISODate()
	case "datetime":
		s = s.ISODateTime()
	default:
		return nil, fmt.Errorf("unknown string format %q", fs.Format)
	}
	if fs.Pattern != "" {
		re, err := regexp.Compile(fs.Pattern)
		if err != nil {
			return nil, fmt.Errorf("pattern: %w", err)
		}
		s = s.Regex(re)
	}
	if fs.StartsWith != "" {
		s = s.StartsWith(fs.StartsWith)
	}
	if fs.EndsWith != "" {
		s = s.EndsWith(fs.EndsWith)
	}
	return s, nil
}
