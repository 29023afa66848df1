package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"yamdb/internal/http-api/dto"
	"yamdb/internal/http-api/middleware"
	"yamdb/internal/http-api/models"
	"yamdb/internal/http-api/repository"
	"yamdb/internal/http-api/service"
	"yamdb/internal/permission"
	"yamdb/pkg/pagination"
)

// TaxonomyHandler serves /categories/ and /genres/: list, create and delete
// by slug. There is no retrieve or update.
type TaxonomyHandler[T repository.Taxonomy] struct {
	svc    service.TaxonomyService[T]
	paging Paging
	render func(*T) dto.SlugItemResponse
}

func NewGenreHandler(svc service.GenreService, paging Paging) *TaxonomyHandler[models.Genre] {
	return &TaxonomyHandler[models.Genre]{svc: svc, paging: paging, render: dto.GenreFromModel}
}

func NewCategoryHandler(svc service.CategoryService, paging Paging) *TaxonomyHandler[models.Category] {
	return &TaxonomyHandler[models.Category]{svc: svc, paging: paging, render: dto.CategoryFromModel}
}

func (h *TaxonomyHandler[T]) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/", h.List)
	rg.POST("/", h.Create)
	rg.DELETE("/:slug/", h.Delete)
}

func (h *TaxonomyHandler[T]) List(c *gin.Context) {
	ctx, cancel := requestContext(c)
	defer cancel()

	p := h.paging.params(c)
	list, total, err := h.svc.List(ctx, c.Query("search"), p)
	if err != nil {
		respondError(c, err)
		return
	}

	page := pagination.NewPage(c.Request, p, total, list)
	c.JSON(http.StatusOK, pagination.Map(page, h.render))
}

func (h *TaxonomyHandler[T]) Create(c *gin.Context) {
	if err := permission.Check(permission.IsAdminSuperOrReadOnly, middleware.CurrentUser(c), permission.Create, nil); err != nil {
		respondError(c, err)
		return
	}
	var req dto.SlugItemRequest
	if !bindJSON(c, &req) {
		return
	}
	ctx, cancel := requestContext(c)
	defer cancel()

	item, err := h.svc.Create(ctx, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, h.render(item))
}

func (h *TaxonomyHandler[T]) Delete(c *gin.Context) {
	if err := permission.Check(permission.IsAdminSuperOrReadOnly, middleware.CurrentUser(c), permission.Delete, nil); err != nil {
		respondError(c, err)
		return
	}
	ctx, cancel := requestContext(c)
	defer cancel()

	if err := h.svc.Delete(ctx, c.Param("slug")); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
