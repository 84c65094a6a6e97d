// Package playground is a qskema validation engine backed by
// github.com/go-playground/validator/v10 tag expressions.
//
//	s, err := qskema.New(playground.Engine(),
//	    qskema.F("name", playground.String("min=2,max=10")),
//	    qskema.F("age", playground.Number("gte=18")),
//	    qskema.F("role", playground.Enum("admin", "user")),
//	    qskema.F("debug", playground.Bool()),
//	)
//
// Undefined values are reported as invalid_type unless the field is wrapped
// in Optional; tags only run on defined values.
package playground

import (
	"context"
	"errors"
	"fmt"
	"math/big"
	"reflect"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/go-playground/validator/v10"

	"github.com/reoring/qskema"
)

// Schema is a field schema for this engine.
type Schema struct {
	tag      qskema.ShapeTag
	rules    string
	values   []any
	inner    *Schema
	optional bool
}

// String declares a string field validated by rules, e.g. "min=2,email".
func String(rules string) Schema { return Schema{tag: qskema.ShapeString, rules: rules} }

// Number declares a float64 field validated by rules, e.g. "gte=0,lte=100".
func Number(rules string) Schema { return Schema{tag: qskema.ShapeNumber, rules: rules} }

// Bool declares a boolean field.
func Bool() Schema { return Schema{tag: qskema.ShapeBoolean} }

// BigInt declares an integer field decoded as *big.Int. Tags do not apply.
func BigInt() Schema { return Schema{tag: qskema.ShapeBigInt} }

// Enum declares a string field restricted to values through the oneof tag.
func Enum(values ...string) Schema {
	quoted := make([]string, len(values))
	vals := make([]any, len(values))
	for i, v := range values {
		vals[i] = v
		quoted[i] = v
		if strings.ContainsAny(v, " '") {
			quoted[i] = "'" + v + "'"
		}
	}
	return Schema{tag: qskema.ShapeEnum, rules: "oneof=" + strings.Join(quoted, " "), values: vals}
}

// Optional wraps inner so undefined is accepted.
func Optional(inner Schema) Schema {
	return Schema{tag: qskema.ShapeOptional, inner: &inner, optional: true}
}

// Optional is the chained form of Optional(s).
func (s Schema) Optional() Schema { return Optional(s) }

// Rules returns the validator tag expression.
func (s Schema) Rules() string {
	if s.inner != nil {
		return s.inner.Rules()
	}
	return s.rules
}

func (s Schema) Shape() qskema.Shape {
	sh := qskema.Shape{Tag: s.tag, Values: s.values}
	if s.inner != nil {
		sh.Inner = *s.inner
	}
	if s.rules != "" {
		sh.Constraints = map[string]any{"validate": s.rules}
	}
	return sh
}

func (s Schema) kind() qskema.ShapeTag {
	if s.inner != nil {
		return s.inner.kind()
	}
	return s.tag
}

// Option configures the engine.
type Option func(*validator.Validate) error

// WithValidation registers a custom tag.
func WithValidation(tag string, fn validator.Func) Option {
	return func(v *validator.Validate) error { return v.RegisterValidation(tag, fn) }
}

type engine struct {
	opts []Option
}

// Engine returns the validator/v10 backed engine.
func Engine(opts ...Option) qskema.Engine { return engine{opts: opts} }

type field struct {
	name   string
	schema Schema
}

type validatorImpl struct {
	v      *validator.Validate
	fields []field
}

func (e engine) Build(fields []qskema.Field) (qskema.Validator, error) {
	v := validator.New(validator.WithRequiredStructEnabled())
	for _, opt := range e.opts {
		if err := opt(v); err != nil {
			return nil, fmt.Errorf("playground: %w", err)
		}
	}
	out := &validatorImpl{v: v}
	var errs []error
	for _, f := range fields {
		s, ok := f.Schema.(Schema)
		if !ok {
			errs = append(errs, fmt.Errorf("playground: field %q: schema %T is not a playground schema", f.Name, f.Schema))
			continue
		}
		out.fields = append(out.fields, field{name: f.Name, schema: s})
	}
	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}
	return out, nil
}

func (vi *validatorImpl) Validate(ctx context.Context, rec qskema.Record) (qskema.Record, error) {
	out := make(qskema.Record, len(vi.fields))
	var iss qskema.Issues
	for _, f := range vi.fields {
		val := rec[f.name]
		if it, ok := vi.check(f, val); !ok {
			iss = qskema.AppendIssues(iss, it...)
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

func (vi *validatorImpl) check(f field, val any) (qskema.Issues, bool) {
	kind := f.schema.kind()
	if val == nil {
		if f.schema.optional {
			return nil, true
		}
		return qskema.Issues{qskema.IssueAt(f.name, qskema.CodeInvalidType, "is required",
			map[string]any{"expected": string(kind), "received": "undefined"})}, false
	}
	if !kindMatches(kind, val) {
		return qskema.Issues{qskema.IssueAt(f.name, qskema.CodeInvalidType,
			fmt.Sprintf("must be a %s", kind),
			map[string]any{"expected": string(kind), "received": fmt.Sprintf("%T", val)})}, false
	}
	rules := f.schema.Rules()
	if rules == "" {
		return nil, true
	}
	err := vi.v.Var(val, rules)
	if err == nil {
		return nil, true
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return qskema.Issues{qskema.IssueAt(f.name, qskema.CodeCustom, err.Error(), nil)}, false
	}
	out := make(qskema.Issues, 0, len(verrs))
	for _, e := range verrs {
		out = append(out, qskema.IssueAt(f.name, issueCode(e), tagMessage(e), map[string]any{
			"tag":   e.Tag(),
			"param": e.Param(),
			"value": fmt.Sprint(e.Value()),
		}))
	}
	return out, false
}

func kindMatches(kind qskema.ShapeTag, val any) bool {
	switch kind {
	case qskema.ShapeString, qskema.ShapeEnum:
		_, ok := val.(string)
		return ok
	case qskema.ShapeNumber:
		_, ok := val.(float64)
		return ok
	case qskema.ShapeBoolean:
		_, ok := val.(bool)
		return ok
	case qskema.ShapeBigInt:
		_, ok := val.(*big.Int)
		return ok
	}
	return false
}

// issueCode maps a validator tag to a stable issue code.
func issueCode(e validator.FieldError) string {
	switch e.Tag() {
	case "min", "gte", "gt":
		return qskema.CodeTooSmall
	case "max", "lte", "lt":
		return qskema.CodeTooBig
	case "len":
		if e.Type().Kind() == reflect.String && utf8.RuneCountInString(fmt.Sprint(e.Value())) < atoi(e.Param()) {
			return qskema.CodeTooSmall
		}
		return qskema.CodeTooBig
	case "oneof", "eq", "ne":
		return qskema.CodeInvalidValue
	case "email", "url", "uri", "uuid", "uuid4", "datetime", "e164", "hostname", "ip", "alpha", "alphanum", "numeric":
		return qskema.CodeInvalidFormat
	}
	return qskema.CodeCustom
}

// tagMessage returns a human-readable message for a tag error.
func tagMessage(e validator.FieldError) string {
	isString := e.Type().Kind() == reflect.String
	switch e.Tag() {
	case "email":
		return "must be a valid email address"
	case "url", "uri":
		return "must be a valid URL"
	case "uuid", "uuid4":
		return "must be a valid UUID"
	case "min", "gte":
		if isString {
			return fmt.Sprintf("must be at least %s characters", e.Param())
		}
		return fmt.Sprintf("must be at least %s", e.Param())
	case "gt":
		return fmt.Sprintf("must be greater than %s", e.Param())
	case "max", "lte":
		if isString {
			return fmt.Sprintf("must be at most %s characters", e.Param())
		}
		return fmt.Sprintf("must be at most %s", e.Param())
	case "lt":
		return fmt.Sprintf("must be less than %s", e.Param())
	case "len":
		return fmt.Sprintf("must be exactly %s characters", e.Param())
	case "oneof":
		return fmt.Sprintf("must be one of [%s]", e.Param())
	default:
		return fmt.Sprintf("failed validation (%s)", e.Tag())
	}
}

func atoi(s string) int {
	n, _ := strconv.Atoi(s)
	return n
}
