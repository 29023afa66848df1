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

// CommentHandler serves /titles/:title_id/reviews/:review_id/comments/.
type CommentHandler struct {
	svc    service.CommentService
	paging Paging
}

func NewCommentHandler(svc service.CommentService, paging Paging) *CommentHandler {
	return &CommentHandler{svc: svc, paging: paging}
}

func (h *CommentHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/", h.List)
	rg.POST("/", h.Create)
	rg.GET("/:comment_id/", h.Get)
	rg.PUT("/:comment_id/", h.Update)
	rg.PATCH("/:comment_id/", h.Update)
	rg.DELETE("/:comment_id/", h.Delete)
}

func (h *CommentHandler) parents(c *gin.Context) (titleID, reviewID int64, ok bool) {
	if titleID, ok = idParam(c, "title_id", "Title"); !ok {
		return 0, 0, false
	}
	if reviewID, ok = idParam(c, "review_id", "Review"); !ok {
		return 0, 0, false
	}
	return titleID, reviewID, true
}

func (h *CommentHandler) List(c *gin.Context) {
	titleID, reviewID, ok := h.parents(c)
	if !ok {
		return
	}
	ctx, cancel := requestContext(c)
	defer cancel()

	p := h.paging.params(c)
	list, total, err := h.svc.List(ctx, titleID, reviewID, p)
	if err != nil {
		respondError(c, err)
		return
	}

	page := pagination.NewPage(c.Request, p, total, list)
	c.JSON(http.StatusOK, pagination.Map(page, dto.FromModelToCommentResponse))
}

func (h *CommentHandler) Get(c *gin.Context) {
	comment, ok := h.load(c, permission.Retrieve)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, dto.FromModelToCommentResponse(comment))
}

func (h *CommentHandler) Create(c *gin.Context) {
	actor := middleware.CurrentUser(c)
	if err := permission.Check(permission.AdminModeratorAuthor, actor, permission.Create, nil); err != nil {
		respondError(c, err)
		return
	}
	titleID, reviewID, ok := h.parents(c)
	if !ok {
		return
	}
	var req dto.CommentRequest
	if !bindJSON(c, &req) {
		return
	}
	ctx, cancel := requestContext(c)
	defer cancel()

	comment, err := h.svc.Create(ctx, actor, titleID, reviewID, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, dto.FromModelToCommentResponse(comment))
}

func (h *CommentHandler) Update(c *gin.Context) {
	comment, ok := h.load(c, permission.Update)
	if !ok {
		return
	}
	var req dto.CommentRequest
	if !bindJSON(c, &req) {
		return
	}
	ctx, cancel := requestContext(c)
	defer cancel()

	updated, err := h.svc.Update(ctx, comment, req, isPartial(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.FromModelToCommentResponse(updated))
}

func (h *CommentHandler) Delete(c *gin.Context) {
	comment, ok := h.load(c, permission.Delete)
	if !ok {
		return
	}
	ctx, cancel := requestContext(c)
	defer cancel()

	if err := h.svc.Delete(ctx, comment); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *CommentHandler) load(c *gin.Context, action permission.Action) (*models.Comment, bool) {
	actor := middleware.CurrentUser(c)
	if !action.Safe() {
		if err := permission.Check(permission.Authenticated, actor, action, nil); err != nil {
			respondError(c, err)
			return nil, false
		}
	}
	titleID, reviewID, ok := h.parents(c)
	if !ok {
		return nil, false
	}
	commentID, ok := idParam(c, "comment_id", "Comment")
	if !ok {
		return nil, false
	}
	ctx, cancel := requestContext(c)
	defer cancel()

	comment, err := h.svc.Get(ctx, titleID, reviewID, commentID)
	if err != nil {
		respondError(c, err)
		return nil, false
	}
	if err := permission.Check(permission.AdminModeratorAuthor, actor, action, comment); err != nil {
		respondError(c, err)
		return nil, false
	}
	return comment, true
}
