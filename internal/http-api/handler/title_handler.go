package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"yamdb/internal/apperr"
	"yamdb/internal/http-api/dto"
	"yamdb/internal/http-api/middleware"
	"yamdb/internal/http-api/repository"
	"yamdb/internal/http-api/service"
	"yamdb/internal/permission"
	"yamdb/pkg/pagination"
)

type TitleHandler struct {
	svc    service.TitleService
	paging Paging
}

func NewTitleHandler(svc service.TitleService, paging Paging) *TitleHandler {
	return &TitleHandler{svc: svc, paging: paging}
}

func (h *TitleHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/", h.List)
	rg.POST("/", h.Create)
	rg.GET("/:title_id/", h.Get)
	rg.PUT("/:title_id/", h.Update)
	rg.PATCH("/:title_id/", h.Update)
	rg.DELETE("/:title_id/", h.Delete)
}

// List supports the name, year, category and genre filters.
func (h *TitleHandler) List(c *gin.Context) {
	p := h.paging.params(c)
	filter := repository.TitleFilter{
		Name:     c.Query("name"),
		Category: c.Query("category"),
		Genre:    c.Query("genre"),
		Limit:    p.Limit,
		Offset:   p.Offset,
	}
	if raw := c.Query("year"); raw != "" {
		year, err := strconv.Atoi(raw)
		if err != nil {
			respondError(c, apperr.Field("year", "Enter a whole number"))
			return
		}
		filter.Year = &year
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	list, total, err := h.svc.List(ctx, filter)
	if err != nil {
		respondError(c, err)
		return
	}

	page := pagination.NewPage(c.Request, p, total, list)
	c.JSON(http.StatusOK, pagination.Map(page, dto.FromModelToTitleResponse))
}

func (h *TitleHandler) Get(c *gin.Context) {
	id, ok := idParam(c, "title_id", "Title")
	if !ok {
		return
	}
	ctx, cancel := requestContext(c)
	defer cancel()

	t, err := h.svc.Get(ctx, id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.FromModelToTitleResponse(t))
}

func (h *TitleHandler) Create(c *gin.Context) {
	if err := permission.Check(permission.IsAdminSuperOrReadOnly, middleware.CurrentUser(c), permission.Create, nil); err != nil {
		respondError(c, err)
		return
	}
	var req dto.TitleWriteRequest
	if !bindJSON(c, &req) {
		return
	}
	ctx, cancel := requestContext(c)
	defer cancel()

	t, err := h.svc.Create(ctx, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, dto.FromModelToTitleResponse(t))
}

// Update serves both PUT (full replace) and PATCH (partial).
func (h *TitleHandler) Update(c *gin.Context) {
	if err := permission.Check(permission.IsAdminSuperOrReadOnly, middleware.CurrentUser(c), permission.Update, nil); err != nil {
		respondError(c, err)
		return
	}
	id, ok := idParam(c, "title_id", "Title")
	if !ok {
		return
	}
	ctx, cancel := requestContext(c)
	defer cancel()

	existing, err := h.svc.Get(ctx, id)
	if err != nil {
		respondError(c, err)
		return
	}

	var req dto.TitleWriteRequest
	if !bindJSON(c, &req) {
		return
	}
	t, err := h.svc.Update(ctx, existing, req, isPartial(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.FromModelToTitleResponse(t))
}

func (h *TitleHandler) Delete(c *gin.Context) {
	if err := permission.Check(permission.IsAdminSuperOrReadOnly, middleware.CurrentUser(c), permission.Delete, nil); err != nil {
		respondError(c, err)
		return
	}
	id, ok := idParam(c, "title_id", "Title")
	if !ok {
		return
	}
	ctx, cancel := requestContext(c)
	defer cancel()

	if err := h.svc.Delete(ctx, id); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
