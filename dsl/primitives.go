package dsl

import (
	"math/big"

	"github.com/reoring/qskema"
	js "github.com/reoring/qskema/jsonschema"
)

// BoolSchema validates boolean fields.
type BoolSchema struct{}

// Bool returns a boolean schema. Decoding never leaves a boolean undefined,
// so the schema accepts absent parameters as false.
func Bool() BoolSchema { return BoolSchema{} }

// Optional wraps the schema so undefined is accepted.
func (s BoolSchema) Optional() OptionalSchema { return Optional(s) }

func (BoolSchema) Shape() qskema.Shape { return qskema.Shape{Tag: qskema.ShapeBoolean} }

func (BoolSchema) check(v any) qskema.Issues {
	if _, ok := v.(bool); !ok {
		return typeIssue("boolean", v)
	}
	return nil
}

func (BoolSchema) jsonSchema() *js.Schema { return &js.Schema{Type: "boolean"} }

// BigIntSchema validates arbitrary-precision integer fields (*big.Int).
type BigIntSchema struct {
	min, max *big.Int
	minIncl  bool
}

// BigInt returns a bigint schema.
func BigInt() BigIntSchema { return BigIntSchema{} }

// Min is an inclusive lower bound.
func (s BigIntSchema) Min(n int64) BigIntSchema { return s.MinBig(big.NewInt(n)) }

// MinBig is Min for values beyond int64.
func (s BigIntSchema) MinBig(n *big.Int) BigIntSchema {
	s.min, s.minIncl = new(big.Int).Set(n), true
	return s
}

// Max is an inclusive upper bound.
func (s BigIntSchema) Max(n int64) BigIntSchema { return s.MaxBig(big.NewInt(n)) }

// MaxBig is Max for values beyond int64.
func (s BigIntSchema) MaxBig(n *big.Int) BigIntSchema {
	s.max = new(big.Int).Set(n)
	return s
}

// Positive requires n > 0.
func (s BigIntSchema) Positive() BigIntSchema {
	s.min, s.minIncl = new(big.Int), false
	return s
}

// NonNegative requires n >= 0.
func (s BigIntSchema) NonNegative() BigIntSchema { return s.Min(0) }

// Optional wraps the schema so undefined is accepted.
func (s BigIntSchema) Optional() OptionalSchema { return Optional(s) }

func (s BigIntSchema) Shape() qskema.Shape {
	c := map[string]any{}
	if s.min != nil {
		key := "minimum"
		if !s.minIncl {
			key = "exclusiveMinimum"
		}
		c[key] = s.min.String()
	}
	if s.max != nil {
		c["maximum"] = s.max.String()
	}
	return qskema.Shape{Tag: qskema.ShapeBigInt, Constraints: c}
}

func (s BigIntSchema) check(v any) qskema.Issues {
	n, ok := v.(*big.Int)
	if !ok || n == nil {
		return typeIssue("bigint", v)
	}
	var iss qskema.Issues
	if s.min != nil {
		c := n.Cmp(s.min)
		if c < 0 || (c == 0 && !s.minIncl) {
			iss = qskema.AppendIssues(iss, newIssue(qskema.CodeTooSmall,
				map[string]any{"origin": "bigint", "minimum": s.min, "inclusive": s.minIncl}, nil))
		}
	}
	if s.max != nil {
		if n.Cmp(s.max) > 0 {
			iss = qskema.AppendIssues(iss, newIssue(qskema.CodeTooBig,
				map[string]any{"origin": "bigint", "maximum": s.max, "inclusive": true}, nil))
		}
	}
	return iss
}

func (s BigIntSchema) jsonSchema() *js.Schema {
	out := &js.Schema{Type: "integer"}
	if s.min != nil {
		f, _ := new(big.Float).SetInt(s.min).Float64()
		if s.minIncl {
			out.Minimum = floatPtr(f)
		} else {
			out.ExclusiveMinimum = floatPtr(f)
		}
	}
	if s.max != nil {
		f, _ := new(big.Float).SetInt(s.max).Float64()
		out.Maximum = floatPtr(f)
	}
	return out
}
