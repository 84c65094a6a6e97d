package codec

import (
	"context"

	"github.com/reoring/qskema"
)

// QueryString returns a Codec between query strings and records.
// Decode parses and validates; Encode validates the record first and then
// renders it in declared field order.
func QueryString(s *qskema.Schema) qskema.Codec[string, qskema.Record] {
	return &queryCodec{s: s}
}

type queryCodec struct {
	s *qskema.Schema
}

func (c *queryCodec) Schema() *qskema.Schema { return c.s }

func (c *queryCodec) Decode(ctx context.Context, a string) (qskema.Record, error) {
	return c.s.Parse(ctx, a)
}

func (c *queryCodec) Encode(ctx context.Context, b qskema.Record) (string, error) {
	if _, err := c.s.Validate(ctx, b); err != nil {
		return "", err
	}
	return c.s.Encode(b).String(), nil
}

func (c *queryCodec) DecodeWithMeta(ctx context.Context, a string) (qskema.Decoded[qskema.Record], error) {
	return c.s.ParseWithMeta(ctx, a)
}

// Params returns a Codec between parameter sets and records. Encode starts
// from an empty set; use Merge to keep unrelated parameters.
func Params(s *qskema.Schema) qskema.Codec[*qskema.Params, qskema.Record] {
	return &paramsCodec{s: s}
}

type paramsCodec struct {
	s *qskema.Schema
}

func (c *paramsCodec) Schema() *qskema.Schema { return c.s }

func (c *paramsCodec) Decode(ctx context.Context, a *qskema.Params) (qskema.Record, error) {
	return c.s.Parse(ctx, a)
}

func (c *paramsCodec) Encode(ctx context.Context, b qskema.Record) (*qskema.Params, error) {
	if _, err := c.s.Validate(ctx, b); err != nil {
		return nil, err
	}
	return c.s.Encode(b), nil
}

func (c *paramsCodec) DecodeWithMeta(ctx context.Context, a *qskema.Params) (qskema.Decoded[qskema.Record], error) {
	return c.s.ParseWithMeta(ctx, a)
}

// Merge validates b and encodes it onto a clone of base.
func Merge(ctx context.Context, s *qskema.Schema, base *qskema.Params, b qskema.Record) (*qskema.Params, error) {
	if _, err := s.Validate(ctx, b); err != nil {
		return nil, err
	}
	return s.EncodeOnto(base, b), nil
}
