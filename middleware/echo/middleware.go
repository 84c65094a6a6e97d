package echomw

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/reoring/qskema"
	"github.com/reoring/qskema/middleware"
)

// Query parses the request query with schema s, stores Decoded[Record] in the
// request context, or returns 400 with Issues when validation fails.
func Query(s *qskema.Schema) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			d, err := s.ParseWithMeta(c.Request().Context(), c.Request().URL.RawQuery)
			if err != nil {
				if iss, ok := qskema.AsIssues(err); ok {
					return c.JSON(http.StatusBadRequest, middleware.ErrorPayload(iss))
				}
				return c.JSON(http.StatusBadRequest, map[string]any{"error": err.Error()})
			}
			ctx := middleware.ContextWithDecoded(c.Request().Context(), d)
			c.SetRequest(c.Request().WithContext(ctx))
			return next(c)
		}
	}
}

// GetRecord fetches the parsed record from echo.Context.
func GetRecord(c echo.Context) (qskema.Record, bool) {
	return middleware.RecordFromContext(c.Request().Context())
}
