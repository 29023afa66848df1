package service

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"gorm.io/gorm"

	"yamdb/internal/apperr"
	"yamdb/internal/http-api/dto"
	"yamdb/internal/http-api/models"
	"yamdb/internal/http-api/repository"
	"yamdb/pkg/pagination"
	"yamdb/pkg/slug"
)

// TaxonomyService manages categories or genres. Both only support list,
// create and delete.
type TaxonomyService[T repository.Taxonomy] interface {
	List(ctx context.Context, search string, page pagination.Params) ([]T, int64, error)
	Create(ctx context.Context, in dto.SlugItemRequest) (*T, error)
	Delete(ctx context.Context, slug string) error
}

type GenreService = TaxonomyService[models.Genre]

type CategoryService = TaxonomyService[models.Category]

type slugStore[T repository.Taxonomy] interface {
	List(ctx context.Context, search string, limit, offset int) ([]T, int64, error)
	Create(ctx context.Context, item *T) error
	GetBySlug(ctx context.Context, slug string) (*T, error)
	DeleteBySlug(ctx context.Context, slug string) error
}

type taxonomyService[T repository.Taxonomy] struct {
	repo     slugStore[T]
	resource string
	build    func(name, slug string) *T
	logger   *slog.Logger
}

func NewGenreService(r *repository.GenreRepo, logger *slog.Logger) GenreService {
	return &taxonomyService[models.Genre]{
		repo:     r,
		resource: "Genre",
		build:    func(name, slug string) *models.Genre { return &models.Genre{Name: name, Slug: slug} },
		logger:   logger,
	}
}

func NewCategoryService(r *repository.CategoryRepo, logger *slog.Logger) CategoryService {
	return &taxonomyService[models.Category]{
		repo:     r,
		resource: "Category",
		build:    func(name, slug string) *models.Category { return &models.Category{Name: name, Slug: slug} },
		logger:   logger,
	}
}

func (s *taxonomyService[T]) List(ctx context.Context, search string, page pagination.Params) ([]T, int64, error) {
	list, total, err := s.repo.List(ctx, search, page.Limit, page.Offset)
	if err != nil {
		return nil, 0, apperr.FromStorage(err, s.resource)
	}
	return list, total, nil
}

// Create stores a new item. Without a slug one is derived from the name.
func (s *taxonomyService[T]) Create(ctx context.Context, in dto.SlugItemRequest) (*T, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, apperr.Field("name", "This field is required")
	}
	itemSlug := in.Slug
	if itemSlug == "" {
		itemSlug = slug.From(name)
		if itemSlug == "" {
			return nil, apperr.Field("slug", "Could not derive a slug from the name, provide one")
		}
	}

	_, err := s.repo.GetBySlug(ctx, itemSlug)
	if err == nil {
		return nil, conflictOn("slug", s.resource+" with this slug already exists")
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperr.FromStorage(err, s.resource)
	}

	item := s.build(name, itemSlug)
	if err := s.repo.Create(ctx, item); err != nil {
		return nil, apperr.FromStorage(err, s.resource)
	}
	s.logger.InfoContext(ctx, "taxonomy_created", slog.String("kind", s.resource), slog.String("slug", itemSlug))
	return item, nil
}

func (s *taxonomyService[T]) Delete(ctx context.Context, slug string) error {
	if err := s.repo.DeleteBySlug(ctx, slug); err != nil {
		return apperr.FromStorage(err, s.resource)
	}
	s.logger.InfoContext(ctx, "taxonomy_deleted", slog.String("kind", s.resource), slog.String("slug", slug))
	return nil
}
