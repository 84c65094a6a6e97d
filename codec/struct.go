package codec

import (
	"context"

	"github.com/reoring/qskema"
)

// Struct returns a Codec between query strings and a struct type T whose
// fields carry query tags.
func Struct[T any](s *qskema.Schema) qskema.Codec[string, T] {
	return &structCodec[T]{s: s}
}

type structCodec[T any] struct {
	s *qskema.Schema
}

func (c *structCodec[T]) Schema() *qskema.Schema { return c.s }

func (c *structCodec[T]) Decode(ctx context.Context, a string) (T, error) {
	return qskema.ParseAs[T](ctx, c.s, a)
}

func (c *structCodec[T]) Encode(ctx context.Context, b T) (string, error) {
	p, err := qskema.EncodeStruct(c.s, b)
	if err != nil {
		return "", err
	}
	// round-trip through the schema so invalid values never leave
	if _, err := c.s.Parse(ctx, p); err != nil {
		return "", err
	}
	return p.String(), nil
}

func (c *structCodec[T]) DecodeWithMeta(ctx context.Context, a string) (qskema.Decoded[T], error) {
	d, err := c.s.ParseWithMeta(ctx, a)
	if err != nil {
		return qskema.Decoded[T]{Presence: d.Presence}, err
	}
	v, err := qskema.Bind[T](d.Value)
	if err != nil {
		return qskema.Decoded[T]{Presence: d.Presence}, err
	}
	return qskema.Decoded[T]{Value: v, Presence: d.Presence}, nil
}
