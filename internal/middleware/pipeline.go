package middleware

import (
	"errors"

	"github.com/gin-gonic/gin"

	apierrors "github.com/yukikurage/tenant-task-api/internal/errors"
)

// Step is one guard of a route's pipeline. A non-nil error stops the chain.
type Step func(*gin.Context) error

// Pipeline runs steps in order and renders the first failure. An
// *apierrors.HTTPError keeps its status; anything else is a 500 whose cause
// is attached to the context for the access log.
func Pipeline(steps ...Step) gin.HandlerFunc {
	return func(c *gin.Context) {
		for _, step := range steps {
			if err := step(c); err != nil {
				Fail(c, err)
				return
			}
		}
		c.Next()
	}
}

// Fail aborts the request with err rendered through the envelope
func Fail(c *gin.Context, err error) {
	var httpErr *apierrors.HTTPError
	if errors.As(err, &httpErr) {
		apierrors.RespondWithError(c, httpErr)
	} else {
		_ = c.Error(err)
		apierrors.InternalError(c)
	}
	c.Abort()
}
