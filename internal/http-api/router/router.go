// Package router assembles the HTTP API: repositories, services, handlers
// and the middleware chain.
package router

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"yamdb/internal/apperr"
	"yamdb/internal/config"
	"yamdb/internal/http-api/handler"
	"yamdb/internal/http-api/middleware"
	"yamdb/internal/http-api/repository"
	"yamdb/internal/http-api/service"
	"yamdb/internal/mailer"
	"yamdb/internal/middleware/auth"
)

// Services is the business layer the handlers call.
type Services struct {
	Auth       service.AuthService
	Users      service.UserService
	Categories service.CategoryService
	Genres     service.GenreService
	Titles     service.TitleService
	Reviews    service.ReviewService
	Comments   service.CommentService
}

// NewServices wires repositories over db into services.
func NewServices(cfg *config.Config, db *gorm.DB, m mailer.Mailer, logger *slog.Logger) (*Services, error) {
	codes, err := auth.NewCodeGenerator(cfg.JWTSecret, cfg.ConfirmationCodeTTL)
	if err != nil {
		return nil, fmt.Errorf("confirmation codes: %w", err)
	}

	userRepo := repository.NewUserRepository(db)
	categoryRepo := repository.NewCategoryRepo(db)
	genreRepo := repository.NewGenreRepo(db)
	titleRepo := repository.NewTitleRepo(db)
	reviewRepo := repository.NewReviewRepository(db)
	commentRepo := repository.NewCommentRepository(db)

	reviews := service.NewReviewService(reviewRepo, titleRepo, logger)
	return &Services{
		Auth:       service.NewAuthService(userRepo, codes, m, cfg, logger),
		Users:      service.NewUserService(userRepo, logger),
		Categories: service.NewCategoryService(categoryRepo, logger),
		Genres:     service.NewGenreService(genreRepo, logger),
		Titles:     service.NewTitleService(titleRepo, categoryRepo, genreRepo, logger),
		Reviews:    reviews,
		Comments:   service.NewCommentService(commentRepo, reviews),
	}, nil
}

// Options are the optional parts of the router.
type Options struct {
	// AuthLimiter throttles /auth/ per client; nil disables throttling.
	AuthLimiter middleware.Limiter
	// Clock drives the quiet-hours check. Defaults to time.Now.
	Clock func() time.Time
}

// New builds the gin engine. Every API route lives under cfg.APIPrefix;
// /healthz sits outside it and bypasses quiet hours.
func New(cfg *config.Config, db *gorm.DB, svc *Services, logger *slog.Logger, opts Options) (*gin.Engine, error) {
	if opts.Clock == nil {
		opts.Clock = time.Now
	}

	r := gin.New()
	r.Use(middleware.RequestLogger(logger), middleware.Recovery(logger))
	r.NoRoute(func(c *gin.Context) {
		middleware.WriteError(c, apperr.NotFound("Resource"))
	})
	r.GET("/healthz", healthz(db))

	api := r.Group(cfg.APIPrefix)
	if cfg.QuietHours != "" {
		from, to, err := cfg.QuietHoursRange()
		if err != nil {
			return nil, err
		}
		api.Use(middleware.QuietHours(from, to, opts.Clock))
	}
	api.Use(middleware.Authenticate(svc.Auth))

	paging := handler.Paging{DefaultLimit: cfg.PageSizeDefault, MaxLimit: cfg.PageSizeMax}

	authGroup := api.Group("/auth")
	if opts.AuthLimiter != nil {
		authGroup.Use(middleware.RateLimit(opts.AuthLimiter, logger))
	}
	handler.NewAuthHandler(svc.Auth).RegisterRoutes(authGroup)

	handler.NewUserHandler(svc.Users, paging).RegisterRoutes(api.Group("/users"))
	handler.NewCategoryHandler(svc.Categories, paging).RegisterRoutes(api.Group("/categories"))
	handler.NewGenreHandler(svc.Genres, paging).RegisterRoutes(api.Group("/genres"))
	handler.NewTitleHandler(svc.Titles, paging).RegisterRoutes(api.Group("/titles"))
	handler.NewReviewHandler(svc.Reviews, paging).RegisterRoutes(api.Group("/titles/:title_id/reviews"))
	handler.NewCommentHandler(svc.Comments, paging).RegisterRoutes(api.Group("/titles/:title_id/reviews/:review_id/comments"))

	return r, nil
}

func healthz(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()

		sqlDB, err := db.DB()
		if err == nil {
			err = sqlDB.PingContext(ctx)
		}
		if err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	}
}
