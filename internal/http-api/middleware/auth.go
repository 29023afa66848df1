package middleware

import (
	"context"
	"strings"

	"github.com/gin-gonic/gin"

	"yamdb/internal/apperr"
	"yamdb/internal/http-api/models"
)

const currentUserKey = "currentUser"

// Authenticator resolves a bearer token to its user.
type Authenticator interface {
	Authenticate(ctx context.Context, token string) (*models.User, error)
}

// Authenticate reads an optional bearer token. Requests without an
// Authorization header continue anonymously; a malformed header or a token
// that does not resolve to an active user is rejected with 401.
// Whether an anonymous actor may proceed is decided per route by the
// permission policies.
func Authenticate(auth Authenticator) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.Next()
			return
		}

		// format: "Bearer <token>"
		scheme, token, ok := strings.Cut(authHeader, " ")
		if !ok || !strings.EqualFold(scheme, "Bearer") || strings.TrimSpace(token) == "" {
			WriteError(c, apperr.Unauthorized("Invalid authorization header format"))
			return
		}

		user, err := auth.Authenticate(c.Request.Context(), strings.TrimSpace(token))
		if err != nil {
			WriteError(c, err)
			return
		}

		c.Set(currentUserKey, user)
		c.Next()
	}
}

// CurrentUser returns the authenticated actor, or nil for anonymous requests.
func CurrentUser(c *gin.Context) *models.User {
	v, ok := c.Get(currentUserKey)
	if !ok {
		return nil
	}
	user, _ := v.(*models.User)
	return user
}
