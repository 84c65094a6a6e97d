package dsl

import (
	"fmt"
	"math/big"
	"reflect"
	"regexp"
	"strconv"
	"strings"

	"github.com/reoring/qskema"
	js "github.com/reoring/qskema/jsonschema"
)

// LiteralSchema accepts exactly one of the declared values. The Go type of the
// first value decides how the parameter is decoded.
type LiteralSchema struct {
	values []any
}

// Literal returns a literal schema. Values may be strings, bools, Go numbers
// or *big.Int.
func Literal(values ...any) LiteralSchema { return LiteralSchema{values: values} }

// Optional wraps the schema so undefined is accepted.
func (s LiteralSchema) Optional() OptionalSchema { return Optional(s) }

func (s LiteralSchema) Shape() qskema.Shape {
	return qskema.Shape{Tag: qskema.ShapeLiteral, Values: s.values}
}

func (s LiteralSchema) check(v any) qskema.Issues {
	for _, want := range s.values {
		if literalEqual(want, v) {
			return nil
		}
	}
	return valueIssue(s.values)
}

func (s LiteralSchema) jsonSchema() *js.Schema {
	vals := make([]any, len(s.values))
	for i, v := range s.values {
		vals[i] = jsonLiteral(v)
	}
	if len(vals) == 1 {
		return &js.Schema{Const: vals[0]}
	}
	return &js.Schema{Enum: vals}
}

// EnumSchema accepts one of a fixed set of strings.
type EnumSchema struct {
	values []string
}

// Enum returns a string enumeration schema.
func Enum(values ...string) EnumSchema { return EnumSchema{values: values} }

// Options returns the declared values.
func (s EnumSchema) Options() []string { return append([]string(nil), s.values...) }

// Optional wraps the schema so undefined is accepted.
func (s EnumSchema) Optional() OptionalSchema { return Optional(s) }

func (s EnumSchema) anyValues() []any {
	out := make([]any, len(s.values))
	for i, v := range s.values {
		out[i] = v
	}
	return out
}

func (s EnumSchema) Shape() qskema.Shape {
	return qskema.Shape{Tag: qskema.ShapeEnum, Values: s.anyValues()}
}

func (s EnumSchema) check(v any) qskema.Issues {
	if str, ok := v.(string); ok {
		for _, want := range s.values {
			if str == want {
				return nil
			}
		}
	}
	return valueIssue(s.anyValues())
}

func (s EnumSchema) jsonSchema() *js.Schema {
	return &js.Schema{Type: "string", Enum: s.anyValues()}
}

// TemplateLiteralSchema accepts strings matching a concatenation of literal
// text and interpolated schemas, e.g. TemplateLiteral("user-", Number().Int()).
type TemplateLiteralSchema struct {
	parts   []any
	pattern *regexp.Regexp
	err     error
}

// TemplateLiteral builds a template literal from string parts and String,
// Number, Bool, BigInt, Literal, Enum or Optional schemas. Other parts are
// reported when the schema is built into an engine.
func TemplateLiteral(parts ...any) TemplateLiteralSchema {
	b := &strings.Builder{}
	b.WriteByte('^')
	for _, p := range parts {
		src, err := templatePart(p)
		if err != nil {
			return TemplateLiteralSchema{parts: parts, err: err}
		}
		b.WriteString(src)
	}
	b.WriteByte('$')
	return TemplateLiteralSchema{parts: parts, pattern: regexp.MustCompile(b.String())}
}

func templatePart(p any) (string, error) {
	switch t := p.(type) {
	case string:
		return regexp.QuoteMeta(t), nil
	case StringSchema:
		return `[\s\S]*`, nil
	case NumberSchema:
		if t.integer {
			return `-?\d+`, nil
		}
		return `-?\d+(?:\.\d+)?`, nil
	case BoolSchema:
		return `(?:true|false)`, nil
	case BigIntSchema:
		return `-?\d+n?`, nil
	case LiteralSchema:
		return alternation(t.values), nil
	case EnumSchema:
		return alternation(t.anyValues()), nil
	case OptionalSchema:
		inner, err := templatePart(t.inner)
		if err != nil {
			return "", err
		}
		return "(?:" + inner + ")?", nil
	}
	return "", fmt.Errorf("dsl: template literal part of type %T is not supported", p)
}

func alternation(vals []any) string {
	alts := make([]string, len(vals))
	for i, v := range vals {
		alts[i] = regexp.QuoteMeta(templateText(v))
	}
	return "(?:" + strings.Join(alts, "|") + ")"
}

// Pattern returns the anchored regular expression the template compiles to.
func (s TemplateLiteralSchema) Pattern() string {
	if s.pattern == nil {
		return ""
	}
	return s.pattern.String()
}

// Optional wraps the schema so undefined is accepted.
func (s TemplateLiteralSchema) Optional() OptionalSchema { return Optional(s) }

func (s TemplateLiteralSchema) Shape() qskema.Shape {
	return qskema.Shape{Tag: qskema.ShapeTemplateLiteral, Values: s.parts,
		Constraints: map[string]any{"pattern": s.Pattern()}}
}

func (s TemplateLiteralSchema) check(v any) qskema.Issues {
	str, ok := v.(string)
	if !ok {
		return typeIssue("string", v)
	}
	if s.pattern == nil || !s.pattern.MatchString(str) {
		return qskema.Issues{formatIssue("template_literal", map[string]any{"pattern": s.Pattern()})}
	}
	return nil
}

func (s TemplateLiteralSchema) jsonSchema() *js.Schema {
	return &js.Schema{Type: "string", Pattern: s.Pattern()}
}

// ---- literal helpers ----

func literalEqual(want, got any) bool {
	switch w := want.(type) {
	case string:
		g, ok := got.(string)
		return ok && g == w
	case bool:
		g, ok := got.(bool)
		return ok && g == w
	case *big.Int:
		g, ok := got.(*big.Int)
		return ok && g != nil && w.Cmp(g) == 0
	case big.Int:
		g, ok := got.(*big.Int)
		return ok && g != nil && w.Cmp(g) == 0
	}
	if wf, ok := toFloat(want); ok {
		g, ok := got.(float64)
		return ok && g == wf
	}
	return reflect.DeepEqual(want, got)
}

// toFloat converts any Go integer or float to float64.
func toFloat(v any) (float64, bool) {
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return float64(rv.Int()), true
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return float64(rv.Uint()), true
	case reflect.Float32, reflect.Float64:
		return rv.Float(), true
	}
	return 0, false
}

// templateText renders a literal the way it appears inside a query value.
func templateText(v any) string {
	switch t := v.(type) {
	case string:
		return t
	case bool:
		return strconv.FormatBool(t)
	case *big.Int:
		return t.String()
	case big.Int:
		return t.String()
	}
	if f, ok := toFloat(v); ok {
		return qskema.FormatNumber(f)
	}
	return fmt.Sprint(v)
}

// jsonLiteral converts a literal to the value a JSON document would hold.
func jsonLiteral(v any) any {
	switch t := v.(type) {
	case string, bool:
		return t
	case *big.Int:
		return t
	case big.Int:
		return &t
	}
	if f, ok := toFloat(v); ok {
		return f
	}
	return v
}
