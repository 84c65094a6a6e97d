package dsl

import (
	"context"
	"errors"
	"fmt"

	"github.com/reoring/qskema"
)

type engine struct{}

// Engine returns the dsl validation engine.
func Engine() qskema.Engine { return engine{} }

type compiledField struct {
	name   string
	schema Schema
}

type validator struct {
	fields []compiledField
}

// Build accepts only schemas from this package.
func (engine) Build(fields []qskema.Field) (qskema.Validator, error) {
	v := &validator{fields: make([]compiledField, 0, len(fields))}
	var errs []error
	for _, f := range fields {
		s, ok := f.Schema.(Schema)
		if !ok {
			errs = append(errs, fmt.Errorf("dsl: field %q: schema %T is not a dsl schema", f.Name, f.Schema))
			continue
		}
		if err := schemaErr(s); err != nil {
			errs = append(errs, fmt.Errorf("dsl: field %q: %w", f.Name, err))
			continue
		}
		v.fields = append(v.fields, compiledField{name: f.Name, schema: s})
	}
	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}
	return v, nil
}

func schemaErr(s Schema) error {
	switch t := s.(type) {
	case TemplateLiteralSchema:
		return t.err
	case OptionalSchema:
		return schemaErr(t.inner)
	case NullableSchema:
		return schemaErr(t.inner)
	}
	return nil
}

// Validate checks fields in declared order and reports every issue with the
// field name as its path. Keys outside the declared set are dropped.
func (v *validator) Validate(ctx context.Context, rec qskema.Record) (qskema.Record, error) {
	out := make(qskema.Record, len(v.fields))
	var iss qskema.Issues
	for _, f := range v.fields {
		val := rec[f.name]
		if child := f.schema.check(val); len(child) > 0 {
			iss = qskema.AppendIssues(iss, child.Rebase(f.name)...)
			if qskema.IsFailFast(ctx) {
				return nil, iss
			}
			continue
		}
		out[f.name] = val
	}
	if len(iss) > 0 {
		return nil, iss
	}
	return out, nil
}
