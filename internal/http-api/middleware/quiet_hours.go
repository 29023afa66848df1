package middleware

import (
	"time"

	"github.com/gin-gonic/gin"

	"yamdb/internal/apperr"
)

// QuietHours rejects every request whose local hour lies in [from, to].
// A range such as 23-1 wraps midnight.
func QuietHours(from, to int, now func() time.Time) gin.HandlerFunc {
	return func(c *gin.Context) {
		if inHours(now().Hour(), from, to) {
			WriteError(c, apperr.RateLimited("The service is unavailable during quiet hours"))
			return
		}
		c.Next()
	}
}

func inHours(hour, from, to int) bool {
	if from <= to {
		return hour >= from && hour <= to
	}
	return hour >= from || hour <= to
}
