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

type UserHandler struct {
	svc    service.UserService
	paging Paging
}

func NewUserHandler(svc service.UserService, paging Paging) *UserHandler {
	return &UserHandler{svc: svc, paging: paging}
}

func (h *UserHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/", h.List)
	rg.POST("/", h.Create)

	// the static segment wins over :username, which is why "me" is reserved
	rg.GET("/me/", h.GetMe)
	rg.PATCH("/me/", h.UpdateMe)

	rg.GET("/:username/", h.Get)
	rg.PATCH("/:username/", h.Update)
	rg.DELETE("/:username/", h.Delete)
}

func (h *UserHandler) List(c *gin.Context) {
	if err := permission.Check(permission.UserRead, middleware.CurrentUser(c), permission.List, nil); err != nil {
		respondError(c, err)
		return
	}
	ctx, cancel := requestContext(c)
	defer cancel()

	p := h.paging.params(c)
	list, total, err := h.svc.List(ctx, c.Query("search"), p)
	if err != nil {
		respondError(c, err)
		return
	}

	page := pagination.NewPage(c.Request, p, total, list)
	c.JSON(http.StatusOK, pagination.Map(page, dto.FromModelToUserResponse))
}

func (h *UserHandler) Create(c *gin.Context) {
	if err := permission.Check(permission.UserRead, middleware.CurrentUser(c), permission.Create, nil); err != nil {
		respondError(c, err)
		return
	}
	var req dto.UserCreateRequest
	if !bindJSON(c, &req) {
		return
	}
	ctx, cancel := requestContext(c)
	defer cancel()

	user, err := h.svc.Create(ctx, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, dto.FromModelToUserResponse(user))
}

func (h *UserHandler) GetMe(c *gin.Context) {
	actor := middleware.CurrentUser(c)
	if err := permission.Check(permission.Authenticated, actor, permission.Retrieve, nil); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.FromModelToUserResponse(actor))
}

func (h *UserHandler) UpdateMe(c *gin.Context) {
	actor := middleware.CurrentUser(c)
	if err := permission.Check(permission.Authenticated, actor, permission.Update, nil); err != nil {
		respondError(c, err)
		return
	}
	target := *actor
	h.update(c, actor, &target)
}

func (h *UserHandler) Get(c *gin.Context) {
	user, ok := h.loadTarget(c, permission.Retrieve)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, dto.FromModelToUserResponse(user))
}

func (h *UserHandler) Update(c *gin.Context) {
	target, ok := h.loadTarget(c, permission.Update)
	if !ok {
		return
	}
	h.update(c, middleware.CurrentUser(c), target)
}

func (h *UserHandler) Delete(c *gin.Context) {
	target, ok := h.loadTarget(c, permission.Delete)
	if !ok {
		return
	}
	ctx, cancel := requestContext(c)
	defer cancel()

	if err := h.svc.Delete(ctx, target); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *UserHandler) update(c *gin.Context, actor, target *models.User) {
	var req dto.UserUpdateRequest
	if !bindJSON(c, &req) {
		return
	}
	ctx, cancel := requestContext(c)
	defer cancel()

	user, err := h.svc.Update(ctx, actor, target, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.FromModelToUserResponse(user))
}

// loadTarget resolves :username for a single-profile action. Anonymous
// callers get a 401 before any lookup so the route does not reveal which
// usernames exist.
func (h *UserHandler) loadTarget(c *gin.Context, action permission.Action) (*models.User, bool) {
	actor := middleware.CurrentUser(c)
	if err := permission.Check(permission.Authenticated, actor, action, nil); err != nil {
		respondError(c, err)
		return nil, false
	}
	ctx, cancel := requestContext(c)
	defer cancel()

	user, err := h.svc.Get(ctx, c.Param("username"))
	if err != nil {
		respondError(c, err)
		return nil, false
	}
	if err := permission.Check(permission.UserRead, actor, action, user); err != nil {
		respondError(c, err)
		return nil, false
	}
	return user, true
}
