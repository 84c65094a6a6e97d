package qskema

import (
	"context"
	"errors"
	"fmt"
	"iter"
	"maps"
	"slices"

	"go.uber.org/zap"
)

// Schema is a compiled search-params schema: the field registry plus the
// validator built by the engine. It is immutable and safe for concurrent use.
type Schema struct {
	fields  []Field
	reg     *Registry
	v       Validator
	refines []refinement
}

// New compiles fields and builds the engine's validator. Configuration errors
// (unsupported shapes, duplicate names, engine build failures) are returned
// here and never at parse time.
func New(engine Engine, fields ...Field) (*Schema, error) {
	if engine == nil {
		return nil, errors.New("qskema: nil engine")
	}
	reg, err := NewRegistry(fields)
	if err != nil {
		return nil, err
	}
	v, err := engine.Build(slices.Clone(fields))
	if err != nil {
		return nil, fmt.Errorf("qskema: build validator: %w", err)
	}
	Logger().Debug("search params schema compiled",
		zap.Strings("fields", reg.Names()),
		zap.Int("count", reg.Len()))
	return &Schema{fields: slices.Clone(fields), reg: reg, v: v}, nil
}

// MustNew is New that panics on error.
func MustNew(engine Engine, fields ...Field) *Schema {
	s, err := New(engine, fields...)
	if err != nil {
		panic(err)
	}
	return s
}

// Registry returns the compiled field registry.
func (s *Schema) Registry() *Registry { return s.reg }

// Fields returns a copy of the declared fields in order.
func (s *Schema) Fields() []Field { return slices.Clone(s.fields) }

// Preprocess decodes input into the intermediate record without validating.
func (s *Schema) Preprocess(input any) (Record, error) {
	return Decode(s.reg, input)
}

// Parse decodes input and validates the result. Failures are Issues.
func (s *Schema) Parse(ctx context.Context, input any) (Record, error) {
	if len(s.refines) > 0 {
		d, err := s.ParseWithMeta(ctx, input)
		return d.Value, err
	}
	rec, err := Decode(s.reg, input)
	if err != nil {
		return nil, err
	}
	return s.validate(ctx, rec, func(name string) bool { return rec[name] != nil })
}

// ParseWithMeta is Parse plus presence flags for each field. Refinements gated
// on WhenSeen consult the presence flags.
func (s *Schema) ParseWithMeta(ctx context.Context, input any) (Decoded[Record], error) {
	d, err := DecodeWithMeta(s.reg, input)
	if err != nil {
		return Decoded[Record]{}, err
	}
	out, err := s.validate(ctx, d.Value, d.Presence.Seen)
	if err != nil {
		return Decoded[Record]{Presence: d.Presence}, err
	}
	return Decoded[Record]{Value: out, Presence: d.Presence}, nil
}

// ParseResult is the outcome of SafeParse.
type ParseResult struct {
	Success bool
	Data    Record
	Issues  Issues
}

// SafeParse is Parse without an error return. Non-Issues errors are reported
// as a single custom issue.
func (s *Schema) SafeParse(ctx context.Context, input any) ParseResult {
	rec, err := s.Parse(ctx, input)
	if err == nil {
		return ParseResult{Success: true, Data: rec}
	}
	if iss, ok := AsIssues(err); ok {
		return ParseResult{Issues: iss}
	}
	return ParseResult{Issues: Issues{{Code: CodeCustom, Path: []string{}, Message: err.Error(), Cause: err}}}
}

// Validate runs the engine's validator and then the refinements over an
// already decoded record. Go integer values are accepted for number and
// bigint fields (see Normalize). A field counts as seen for WhenSeen when its
// value is not nil.
func (s *Schema) Validate(ctx context.Context, rec Record) (Record, error) {
	rec = s.Normalize(rec)
	return s.validate(ctx, rec, func(name string) bool { return rec[name] != nil })
}

func (s *Schema) validate(ctx context.Context, rec Record, seen func(string) bool) (Record, error) {
	out, err := s.v.Validate(ctx, rec)
	if err == nil && len(s.refines) > 0 {
		if iss := s.runRefinements(ctx, out, seen); len(iss) > 0 {
			out, err = nil, iss
		}
	}
	if err != nil {
		if iss, ok := AsIssues(err); ok && len(iss) > 0 {
			Logger().Debug("search params rejected",
				zap.Int("issues", len(iss)),
				zap.String("first", iss[0].Pointer()))
		}
		return nil, err
	}
	return out, nil
}

// Encode renders rec as a parameter set, visiting declared fields first and
// any other keys afterwards in sorted order.
func (s *Schema) Encode(rec Record) *Params {
	return s.EncodeOnto(nil, rec)
}

// EncodeOnto is Encode merged onto a clone of base.
func (s *Schema) EncodeOnto(base *Params, rec Record) *Params {
	return MergeSearchParams(base, schemaOrdered{reg: s.reg, rec: rec})
}

type schemaOrdered struct {
	reg *Registry
	rec Record
}

func (o schemaOrdered) All() iter.Seq2[string, any] {
	return func(yield func(string, any) bool) {
		for name := range o.reg.All() {
			v, ok := o.rec[name]
			if !ok {
				continue
			}
			if !yield(name, v) {
				return
			}
		}
		for _, k := range slices.Sorted(maps.Keys(o.rec)) {
			if _, declared := o.reg.Lookup(k); declared {
				continue
			}
			if !yield(k, o.rec[k]) {
				return
			}
		}
	}
}
