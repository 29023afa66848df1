package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"yamdb/internal/http-api/dto"
	"yamdb/internal/http-api/middleware"
	"yamdb/internal/http-api/models"
	"yamdb/internal/http-api/service"
	"yamdb/internal/permission"
	"yamdb/pkg/pagination"
)

// ReviewHandler serves /titles/:title_id/reviews/. Every lookup is scoped to
// the title in the path.
type ReviewHandler struct {
	svc    service.ReviewService
	paging Paging
}

func NewReviewHandler(svc service.ReviewService, paging Paging) *ReviewHandler {
	return &ReviewHandler{svc: svc, paging: paging}
}

func (h *ReviewHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/", h.List)
	rg.POST("/", h.Create)
	rg.GET("/:review_id/", h.Get)
	rg.PUT("/:review_id/", h.Update)
	rg.PATCH("/:review_id/", h.Update)
	rg.DELETE("/:review_id/", h.Delete)
}

func (h *ReviewHandler) List(c *gin.Context) {
	titleID, ok := idParam(c, "title_id", "Title")
	if !ok {
		return
	}
	ctx, cancel := requestContext(c)
	defer cancel()

	p := h.paging.params(c)
	list, total, err := h.svc.List(ctx, titleID, p)
	if err != nil {
		respondError(c, err)
		return
	}

	page := pagination.NewPage(c.Request, p, total, list)
	c.JSON(http.StatusOK, pagination.Map(page, dto.FromModelToReviewResponse))
}

func (h *ReviewHandler) Get(c *gin.Context) {
	review, ok := h.load(c, permission.Retrieve)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, dto.FromModelToReviewResponse(review))
}

func (h *ReviewHandler) Create(c *gin.Context) {
	actor := middleware.CurrentUser(c)
	if err := permission.Check(permission.AdminModeratorAuthor, actor, permission.Create, nil); err != nil {
		respondError(c, err)
		return
	}
	titleID, ok := idParam(c, "title_id", "Title")
	if !ok {
		return
	}
	var req dto.ReviewRequest
	if !bindJSON(c, &req) {
		return
	}
	ctx, cancel := requestContext(c)
	defer cancel()

	review, err := h.svc.Create(ctx, actor, titleID, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, dto.FromModelToReviewResponse(review))
}

func (h *ReviewHandler) Update(c *gin.Context) {
	review, ok := h.load(c, permission.Update)
	if !ok {
		return
	}
	var req dto.ReviewRequest
	if !bindJSON(c, &req) {
		return
	}
	ctx, cancel := requestContext(c)
	defer cancel()

	updated, err := h.svc.Update(ctx, review, req, isPartial(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.FromModelToReviewResponse(updated))
}

func (h *ReviewHandler) Delete(c *gin.Context) {
	review, ok := h.load(c, permission.Delete)
	if !ok {
		return
	}
	ctx, cancel := requestContext(c)
	defer cancel()

	if err := h.svc.Delete(ctx, review); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// load fetches the review within its title and checks the object-level
// policy. Anonymous writes are refused before the lookup.
func (h *ReviewHandler) load(c *gin.Context, action permission.Action) (*models.Review, bool) {
	actor := middleware.CurrentUser(c)
	if !action.Safe() {
		if err := permission.Check(permission.Authenticated, actor, action, nil); err != nil {
			respondError(c, err)
			return nil, false
		}
	}
	titleID, ok := idParam(c, "title_id", "Title")
	if !ok {
		return nil, false
	}
	reviewID, ok := idParam(c, "review_id", "Review")
	if !ok {
		return nil, false
	}
	ctx, cancel := requestContext(c)
	defer cancel()

	review, err := h.svc.Get(ctx, titleID, reviewID)
	if err != nil {
		respondError(c, err)
		return nil, false
	}
	if err := permission.Check(permission.AdminModeratorAuthor, actor, action, review); err != nil {
		respondError(c, err)
		return nil, false
	}
	return review, true
}
