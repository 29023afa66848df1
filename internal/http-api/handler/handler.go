// Package handler holds the gin controllers. Each one resolves the actor,
// runs its permission policy, binds and validates input, calls its service
// and renders the response DTO.
package handler

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"yamdb/internal/apperr"
	"yamdb/internal/http-api/dto"
	"yamdb/internal/http-api/middleware"
	"yamdb/pkg/pagination"
)

const requestTimeout = 5 * time.Second

// Paging holds the list window limits shared by every list endpoint.
type Paging struct {
	DefaultLimit int
	MaxLimit     int
}

func (p Paging) params(c *gin.Context) pagination.Params {
	return pagination.FromRequest(c.Request, p.DefaultLimit, p.MaxLimit)
}

func requestContext(c *gin.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(c.Request.Context(), requestTimeout)
}

func respondError(c *gin.Context, err error) {
	middleware.WriteError(c, err)
}

// bindJSON decodes the body into dst and writes a 400 on failure.
func bindJSON(c *gin.Context, dst any) bool {
	if err := dto.RegisterValidators(); err != nil {
		respondError(c, apperr.Internal(err))
		return false
	}
	if err := c.ShouldBindJSON(dst); err != nil {
		respondError(c, dto.FromBindError(err))
		return false
	}
	return true
}

// idParam parses a numeric path id. Anything unparsable cannot name an
// existing row, so it is a 404 for resource.
func idParam(c *gin.Context, name, resource string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id < 1 {
		respondError(c, apperr.NotFound(resource))
		return 0, false
	}
	return id, true
}

// isPartial reports whether the request is a PATCH rather than a full write.
func isPartial(c *gin.Context) bool {
	return c.Request.Method == http.MethodPatch
}
