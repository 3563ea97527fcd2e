package middleware

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	apierrors "github.com/yukikurage/tenant-task-api/internal/errors"
	"github.com/yukikurage/tenant-task-api/internal/ratelimit"
)

// Throttle limits requests per client IP under scope. A nil limiter disables
// it; a limiter failure lets the request through.
func Throttle(limiter ratelimit.Limiter, scope string, log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		if limiter == nil {
			c.Next()
			return
		}

		allowed, err := limiter.Allow(c.Request.Context(), scope+":"+c.ClientIP())
		if err != nil {
			log.Warn("Rate limiter unavailable",
				zap.String("scope", scope),
				zap.String("request_id", GetRequestID(c)),
				zap.Error(err),
			)
			c.Next()
			return
		}
		if !allowed {
			apierrors.TooManyRequests(c, "Too many attempts, please try again later")
			c.Abort()
			return
		}
		c.Next()
	}
}
