package dsl

import (
	"github.com/reoring/qskema"
)

// SearchParamsBuilder collects fields in declaration order.
type SearchParamsBuilder struct {
	fields []qskema.Field
}

// SearchParams creates a new search-params schema builder.
func SearchParams() *SearchParamsBuilder { return &SearchParamsBuilder{} }

// Field appends a field. Any qskema.FieldSchema is accepted here; shapes the
// codec cannot carry (Date, Nullable, nested Optional) fail in Build.
func (b *SearchParamsBuilder) Field(name string, s qskema.FieldSchema) *SearchParamsBuilder {
	b.fields = append(b.fields, qskema.F(name, s))
	return b
}

// Fields returns the declared fields.
func (b *SearchParamsBuilder) Fields() []qskema.Field {
	return append([]qskema.Field(nil), b.fields...)
}

// Build compiles the schema with the dsl engine.
func (b *SearchParamsBuilder) Build() (*qskema.Schema, error) {
	return qskema.New(Engine(), b.fields...)
}

// MustBuild is Build that panics on configuration errors.
func (b *SearchParamsBuilder) MustBuild() *qskema.Schema {
	s, err := b.Build()
	if err != nil {
		panic(err)
	}
	return s
}
