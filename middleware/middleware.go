package middleware

import (
	"context"
	"net/http"

	json "github.com/goccy/go-json"
	"go.uber.org/zap"

	"github.com/reoring/qskema"
)

// ctxKeyDecoded is a typed context key for storing Decoded[T].
// Using a generic struct type ensures uniqueness per T.
type ctxKeyDecoded[T any] struct{}

// ContextWithDecoded attaches a Decoded[T] to the context.
func ContextWithDecoded[T any](ctx context.Context, db qskema.Decoded[T]) context.Context {
	return context.WithValue(ctx, ctxKeyDecoded[T]{}, db)
}

// DecodedFromContext retrieves a Decoded[T] from context.
func DecodedFromContext[T any](ctx context.Context) (qskema.Decoded[T], bool) {
	v, ok := ctx.Value(ctxKeyDecoded[T]{}).(qskema.Decoded[T])
	return v, ok
}

// RecordFromContext returns the record stored by Query.
func RecordFromContext(ctx context.Context) (qskema.Record, bool) {
	d, ok := DecodedFromContext[qskema.Record](ctx)
	return d.Value, ok
}

// Query parses r.URL.RawQuery with s. On success the record and its presence
// flags are stored in the request context; on failure it responds 400 with
// an {"issues": [...]} JSON body.
func Query(s *qskema.Schema) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			d, err := s.ParseWithMeta(r.Context(), r.URL.RawQuery)
			if err != nil {
				WriteError(w, err)
				return
			}
			next.ServeHTTP(w, r.WithContext(ContextWithDecoded(r.Context(), d)))
		})
	}
}

// QueryAs is Query followed by qskema.Bind into T; handlers read the value
// with DecodedFromContext[T].
func QueryAs[T any](s *qskema.Schema) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			d, err := s.ParseWithMeta(r.Context(), r.URL.RawQuery)
			if err != nil {
				WriteError(w, err)
				return
			}
			v, err := qskema.Bind[T](d.Value)
			if err != nil {
				qskema.Logger().Error("bind query", zap.Error(err))
				WriteJSON(w, http.StatusInternalServerError, map[string]any{"error": "internal error"})
				return
			}
			ctx := ContextWithDecoded(r.Context(), qskema.Decoded[T]{Value: v, Presence: d.Presence})
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// ErrorPayload shapes Issues for JSON responses.
func ErrorPayload(issues []qskema.Issue) map[string]any {
	return map[string]any{"issues": issues}
}

// WriteError responds 400 with the issues carried by err, or with a plain
// error message when err is not Issues.
func WriteError(w http.ResponseWriter, err error) {
	if iss, ok := qskema.AsIssues(err); ok {
		WriteJSON(w, http.StatusBadRequest, ErrorPayload(iss))
		return
	}
	WriteJSON(w, http.StatusBadRequest, map[string]any{"error": err.Error()})
}

// WriteJSON writes body as JSON with the given status.
func WriteJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		qskema.Logger().Warn("write response", zap.Error(err))
	}
}
