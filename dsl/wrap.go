package dsl

import (
	"time"

	"github.com/reoring/qskema"
	js "github.com/reoring/qskema/jsonschema"
)

// ShapeNullable and ShapeDate are shapes this engine validates but search
// params cannot carry.
const (
	ShapeNullable qskema.ShapeTag = "nullable"
	ShapeDate     qskema.ShapeTag = "date"
)

// OptionalSchema accepts undefined (nil) or a value valid for the wrapped
// schema.
type OptionalSchema struct {
	inner Schema
}

// Optional wraps inner so the field may be absent.
func Optional(inner Schema) OptionalSchema { return OptionalSchema{inner: inner} }

// Unwrap returns the wrapped schema.
func (s OptionalSchema) Unwrap() Schema { return s.inner }

// Optional wraps again. The codec rejects nested optionals.
func (s OptionalSchema) Optional() OptionalSchema { return Optional(s) }

func (s OptionalSchema) Shape() qskema.Shape {
	return qskema.Shape{Tag: qskema.ShapeOptional, Inner: s.inner}
}

func (s OptionalSchema) check(v any) qskema.Issues {
	if v == nil {
		return nil
	}
	return s.inner.check(v)
}

func (s OptionalSchema) jsonSchema() *js.Schema { return s.inner.jsonSchema() }

// NullableSchema accepts nil or a value valid for the wrapped schema.
type NullableSchema struct {
	inner Schema
}

// Nullable wraps inner so nil is accepted.
func Nullable(inner Schema) NullableSchema { return NullableSchema{inner: inner} }

func (s NullableSchema) Shape() qskema.Shape {
	return qskema.Shape{Tag: ShapeNullable, Inner: s.inner}
}

func (s NullableSchema) check(v any) qskema.Issues {
	if v == nil {
		return nil
	}
	return s.inner.check(v)
}

func (s NullableSchema) jsonSchema() *js.Schema {
	return &js.Schema{AnyOf: []*js.Schema{s.inner.jsonSchema(), {Type: "null"}}}
}

// DateSchema validates time.Time values.
type DateSchema struct{}

// Date returns a date schema.
func Date() DateSchema { return DateSchema{} }

func (DateSchema) Shape() qskema.Shape { return qskema.Shape{Tag: ShapeDate} }

func (DateSchema) check(v any) qskema.Issues {
	if t, ok := v.(time.Time); ok && !t.IsZero() {
		return nil
	}
	return typeIssue("date", v)
}

func (DateSchema) jsonSchema() *js.Schema { return &js.Schema{Type: "string", Format: "date-time"} }
