package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/ulule/limiter/v3"
	mgin "github.com/ulule/limiter/v3/drivers/middleware/gin"
	"github.com/ulule/limiter/v3/drivers/store/memory"
)

// RateLimiterMiddleware applies a process-local rate limit. rate uses the
// limiter format, e.g. "1000-M" for 1000 requests per minute per client IP.
func RateLimiterMiddleware(rate string) (gin.HandlerFunc, error) {
	parsed, err := limiter.NewRateFromFormatted(rate)
	if err != nil {
		return nil, err
	}
	store := memory.NewStore()
	return mgin.NewMiddleware(limiter.New(store, parsed)), nil
}
