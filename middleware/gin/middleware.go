package ginmw

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/reoring/qskema"
	"github.com/reoring/qskema/middleware"
)

// Query parses the request query with schema s, stores Decoded[Record] in the
// request context, and on validation failure returns 400 with an Issues payload.
func Query(s *qskema.Schema) gin.HandlerFunc {
	return func(c *gin.Context) {
		d, err := s.ParseWithMeta(c.Request.Context(), c.Request.URL.RawQuery)
		if err != nil {
			if iss, ok := qskema.AsIssues(err); ok {
				c.AbortWithStatusJSON(http.StatusBadRequest, middleware.ErrorPayload(iss))
				return
			}
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		c.Request = c.Request.WithContext(middleware.ContextWithDecoded(c.Request.Context(), d))
		c.Next()
	}
}

// GetRecord fetches the parsed record from gin.Context.
func GetRecord(c *gin.Context) (qskema.Record, bool) {
	return middleware.RecordFromContext(c.Request.Context())
}
