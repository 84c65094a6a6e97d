package dsl

import (
	"math"
	"slices"

	"github.com/reoring/qskema"
	js "github.com/reoring/qskema/jsonschema"
)

// NumberSchema validates finite float64 fields.
type NumberSchema struct {
	integer bool
	checks  []numberCheck
}

type numberCheck struct {
	name string
	arg  float64
	fn   func(f float64) (qskema.Issue, bool)
	js   func(*js.Schema)
}

// Number returns a number schema. NaN and infinities are rejected.
func Number() NumberSchema { return NumberSchema{} }

func (s NumberSchema) with(c numberCheck) NumberSchema {
	s.checks = append(slices.Clip(s.checks), c)
	return s
}

// Int restricts the field to safe integers.
func (s NumberSchema) Int() NumberSchema {
	s.integer = true
	return s
}

// Min is an inclusive lower bound (alias Gte).
func (s NumberSchema) Min(n float64) NumberSchema { return s.bound(n, true, true) }

// Gte is an inclusive lower bound.
func (s NumberSchema) Gte(n float64) NumberSchema { return s.bound(n, true, true) }

// Gt is an exclusive lower bound.
func (s NumberSchema) Gt(n float64) NumberSchema { return s.bound(n, true, false) }

// Max is an inclusive upper bound (alias Lte).
func (s NumberSchema) Max(n float64) NumberSchema { return s.bound(n, false, true) }

// Lte is an inclusive upper bound.
func (s NumberSchema) Lte(n float64) NumberSchema { return s.bound(n, false, true) }

// Lt is an exclusive upper bound.
func (s NumberSchema) Lt(n float64) NumberSchema { return s.bound(n, false, false) }

// Positive is Gt(0).
func (s NumberSchema) Positive() NumberSchema { return s.Gt(0) }

// NonNegative is Gte(0).
func (s NumberSchema) NonNegative() NumberSchema { return s.Gte(0) }

// Negative is Lt(0).
func (s NumberSchema) Negative() NumberSchema { return s.Lt(0) }

// MultipleOf requires f to be an integer multiple of step.
func (s NumberSchema) MultipleOf(step float64) NumberSchema {
	return s.with(numberCheck{
		name: "multipleOf", arg: step,
		fn: func(f float64) (qskema.Issue, bool) {
			if step != 0 && isMultiple(f, step) {
				return qskema.Issue{}, true
			}
			return newIssue(qskema.CodeNotMultipleOf, map[string]any{"origin": "number", "divisor": step}, nil), false
		},
		js: func(o *js.Schema) { o.MultipleOf = floatPtr(step) },
	})
}

func (s NumberSchema) bound(n float64, lower, inclusive bool) NumberSchema {
	name := "minimum"
	switch {
	case lower && !inclusive:
		name = "exclusiveMinimum"
	case !lower && inclusive:
		name = "maximum"
	case !lower:
		name = "exclusiveMaximum"
	}
	return s.with(numberCheck{
		name: name, arg: n,
		fn: func(f float64) (qskema.Issue, bool) {
			var ok bool
			switch {
			case lower && inclusive:
				ok = f >= n
			case lower:
				ok = f > n
			case inclusive:
				ok = f <= n
			default:
				ok = f < n
			}
			if ok {
				return qskema.Issue{}, true
			}
			if lower {
				return newIssue(qskema.CodeTooSmall, map[string]any{"origin": "number", "minimum": n, "inclusive": inclusive}, nil), false
			}
			return newIssue(qskema.CodeTooBig, map[string]any{"origin": "number", "maximum": n, "inclusive": inclusive}, nil), false
		},
		js: func(o *js.Schema) {
			switch name {
			case "minimum":
				o.Minimum = floatPtr(n)
			case "exclusiveMinimum":
				o.ExclusiveMinimum = floatPtr(n)
			case "maximum":
				o.Maximum = floatPtr(n)
			default:
				o.ExclusiveMaximum = floatPtr(n)
			}
		},
	})
}

// Optional wraps the schema so undefined is accepted.
func (s NumberSchema) Optional() OptionalSchema { return Optional(s) }

func (s NumberSchema) Shape() qskema.Shape {
	c := map[string]any{}
	if s.integer {
		c["integer"] = true
	}
	for _, ck := range s.checks {
		c[ck.name] = ck.arg
	}
	return qskema.Shape{Tag: qskema.ShapeNumber, Constraints: c}
}

const maxSafeInteger = 1<<53 - 1

func (s NumberSchema) check(v any) qskema.Issues {
	f, ok := v.(float64)
	if !ok || math.IsNaN(f) || math.IsInf(f, 0) {
		return typeIssue("number", v)
	}
	if s.integer && (f != math.Trunc(f) || math.Abs(f) > maxSafeInteger) {
		if f != math.Trunc(f) {
			return typeIssue("int", v)
		}
		if f > 0 {
			return qskema.Issues{newIssue(qskema.CodeTooBig, map[string]any{"origin": "number", "maximum": float64(maxSafeInteger), "inclusive": true}, nil)}
		}
		return qskema.Issues{newIssue(qskema.CodeTooSmall, map[string]any{"origin": "number", "minimum": float64(-maxSafeInteger), "inclusive": true}, nil)}
	}
	var iss qskema.Issues
	for _, ck := range s.checks {
		if it, ok := ck.fn(f); !ok {
			iss = qskema.AppendIssues(iss, it)
		}
	}
	return iss
}

func (s NumberSchema) jsonSchema() *js.Schema {
	out := &js.Schema{Type: "number"}
	if s.integer {
		out.Type = "integer"
	}
	for _, ck := range s.checks {
		ck.js(out)
	}
	return out
}

// isMultiple tolerates binary rounding of decimal steps such as 0.1.
func isMultiple(f, step float64) bool {
	q := f / step
	return math.Abs(q-math.Round(q)) < 1e-9*math.Max(1, math.Abs(q))
}
