package qskema

import "context"

// Engine is a validation engine. It owns field schemas (their constraints and
// messages) and builds a Validator for a declared field set.
type Engine interface {
	Build(fields []Field) (Validator, error)
}

// Validator checks an intermediate record produced by Decode.
//
// Validate returns the accepted record or an error; data failures must be
// reported as Issues with field-level paths ([]string{name}), in declared
// field order.
type Validator interface {
	Validate(ctx context.Context, rec Record) (Record, error)
}

// ValidatorFunc adapts a function to the Validator interface.
type ValidatorFunc func(ctx context.Context, rec Record) (Record, error)

func (f ValidatorFunc) Validate(ctx context.Context, rec Record) (Record, error) { return f(ctx, rec) }

// EngineFunc adapts a function to the Engine interface.
type EngineFunc func(fields []Field) (Validator, error)

func (f EngineFunc) Build(fields []Field) (Validator, error) { return f(fields) }

// ---- Parse-time context options (consumed by engines) ----

type contextKey int

const (
	_ctxKeyFailFast contextKey = iota
)

// WithFailFast returns a child context asking engines to stop at the first
// issue.
func WithFailFast(ctx context.Context, enabled bool) context.Context {
	return context.WithValue(ctx, _ctxKeyFailFast, enabled)
}

// IsFailFast reports whether the current parse should stop on the first issue.
func IsFailFast(ctx context.Context) bool {
	v := ctx.Value(_ctxKeyFailFast)
	b, _ := v.(bool)
	return b
}
