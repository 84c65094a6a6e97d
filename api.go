package qskema

import "context"

// Codec performs bidirectional transformation between the wire
// representation A and the domain representation B.
type Codec[A, B any] interface {
	Schema() *Schema
	Decode(ctx context.Context, a A) (B, error)         // A -> Parse -> B.
	Encode(ctx context.Context, b B) (A, error)         // Validate -> encode -> A.
	DecodeWithMeta(ctx context.Context, a A) (Decoded[B], error)
}

// ---- Convenience wrappers (Zod-like entry points) ----

// ParseAs parses input with s and binds the accepted record into T.
func ParseAs[T any](ctx context.Context, s *Schema, input any) (T, error) {
	rec, err := s.Parse(ctx, input)
	if err != nil {
		var zero T
		return zero, err
	}
	return Bind[T](rec)
}

// EncodeStruct renders a struct through s, so declared fields come first.
func EncodeStruct(s *Schema, v any) (*Params, error) {
	es, err := FromStruct(v)
	if err != nil {
		return nil, err
	}
	rec := make(Record, len(es))
	for _, e := range es {
		rec[e.Key] = e.Value
	}
	return s.Encode(rec), nil
}

// Is reports whether input parses successfully with s.
func Is(ctx context.Context, s *Schema, input any) bool {
	_, err := s.Parse(ctx, input)
	return err == nil
}
