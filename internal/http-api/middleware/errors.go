package middleware

import (
	"github.com/gin-gonic/gin"

	"yamdb/internal/apperr"
)

// WriteError renders err as the JSON error body and aborts the chain.
// Errors that are not *apperr.AppError become a generic 500; the original
// error stays on c.Errors for the request logger.
func WriteError(c *gin.Context, err error) {
	ae := apperr.As(err)
	if ae == nil {
		ae = apperr.Internal(err)
	}
	_ = c.Error(err)
	c.AbortWithStatusJSON(ae.HTTPStatus, ae)
}
