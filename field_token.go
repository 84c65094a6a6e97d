package qskema

import (
	"context"
	"reflect"
)

// FieldToken identifies a top-level struct field of T by its query key.
// Obtain it via FieldOf to ensure compile-time linkage to the struct field.
type FieldToken[T any] struct {
	key string
}

// Key returns the query key associated with this field token.
func (t FieldToken[T]) Key() string { return t.key }

// Issue creates an Issue located at the token's field.
func (t FieldToken[T]) Issue(code, msg string) Issue {
	return IssueAt(t.key, code, msg, nil)
}

// FieldOf builds a FieldToken for a top-level field of T.
// The selector must return the address of a top-level field, e.g.:
//
//	FieldOf[Search](func(s *Search) *int { return &s.Page })
//
// Renaming or removing the field is then a compile error.
func FieldOf[T any, F any](selector func(*T) *F) FieldToken[T] {
	if selector == nil {
		panic("qskema.FieldOf: selector must not be nil")
	}
	var zero T
	fp := reflect.ValueOf(selector(&zero)).Pointer()

	rv := reflect.ValueOf(&zero).Elem()
	rt := rv.Type()
	for i := 0; i < rt.NumField(); i++ {
		fv := rv.Field(i)
		if !fv.CanAddr() {
			continue
		}
		if fv.Addr().Pointer() == fp {
			sf := rt.Field(i)
			name := ResolveQueryKey(sf)
			if !sf.IsExported() || name == "-" {
				panic("qskema.FieldOf: selected field is not exported or disabled")
			}
			return FieldToken[T]{key: name}
		}
	}
	panic("qskema.FieldOf: selector must return address of a top-level field of T")
}

// Keys returns the query keys of the tokens, for RefineOpt.WhenSeen.
func Keys[T any](fields ...FieldToken[T]) []string {
	out := make([]string, len(fields))
	for i, f := range fields {
		out[i] = f.key
	}
	return out
}

// RefineStruct adds a refinement that receives the accepted record bound into T.
func RefineStruct[T any](s *Schema, fn func(ctx context.Context, v T) error, opts ...RefineOpt) *Schema {
	return s.Refine(func(ctx context.Context, rec Record) error {
		v, err := Bind[T](rec)
		if err != nil {
			return err
		}
		return fn(ctx, v)
	}, opts...)
}
