package middleware

import (
	"github.com/gin-gonic/gin"
	gonanoid "github.com/matoous/go-nanoid"
)

const RequestIDKey = "requestId"

// RequestIDMiddleware tags each request with a nanoid, honoring an
// X-Request-ID supplied by a trusted proxy.
func RequestIDMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader("X-Request-ID")
		if id == "" {
			id, _ = gonanoid.Nanoid()
		}
		c.Set(RequestIDKey, id)
		c.Writer.Header().Set("X-Request-ID", id)
		c.Next()
	}
}
