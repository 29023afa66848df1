package repository

import (
	"context"
	"fmt"
	"strings"

	"yamdb/internal/http-api/models"

	"gorm.io/gorm"
)

// Taxonomy is the shape shared by categories and genres: a name and a
// unique slug.
type Taxonomy interface {
	models.Category | models.Genre
}

// slugRepo holds the queries categories and genres have in common.
type slugRepo[T Taxonomy] struct {
	db   *gorm.DB
	kind string
}

// List returns items ordered by name. search matches a name fragment.
func (r *slugRepo[T]) List(ctx context.Context, search string, limit, offset int) ([]T, int64, error) {
	var list []T
	var total int64

	q := r.db.WithContext(ctx).Model(new(T))
	if s := strings.TrimSpace(search); s != "" {
		q = q.Where(likeClause("name"), containsPattern(s))
	}

	q = q.Session(&gorm.Session{})

	if err := q.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("count %s: %w", r.kind, err)
	}
	if err := q.Order("name asc").Order("id asc").Limit(limit).Offset(offset).Find(&list).Error; err != nil {
		return nil, 0, fmt.Errorf("get %s: %w", r.kind, err)
	}
	return list, total, nil
}

func (r *slugRepo[T]) Create(ctx context.Context, item *T) error {
	if err := r.db.WithContext(ctx).Create(item).Error; err != nil {
		return fmt.Errorf("create %s: %w", r.kind, err)
	}
	return nil
}

func (r *slugRepo[T]) GetBySlug(ctx context.Context, slug string) (*T, error) {
	var item T
	if err := r.db.WithContext(ctx).Where("slug = ?", slug).First(&item).Error; err != nil {
		return nil, err
	}
	return &item, nil
}

// FindBySlugs returns the items whose slug is in slugs. Unknown slugs are
// simply absent from the result.
func (r *slugRepo[T]) FindBySlugs(ctx context.Context, slugs []string) ([]T, error) {
	var list []T
	if len(slugs) == 0 {
		return list, nil
	}
	if err := r.db.WithContext(ctx).Where("slug IN ?", slugs).Find(&list).Error; err != nil {
		return nil, fmt.Errorf("get %s by slugs: %w", r.kind, err)
	}
	return list, nil
}

type GenreRepo struct {
	*slugRepo[models.Genre]
}

func NewGenreRepo(db *gorm.DB) *GenreRepo {
	return &GenreRepo{&slugRepo[models.Genre]{db: db, kind: "genres"}}
}

// DeleteBySlug removes the genre and detaches it from every title.
func (r *GenreRepo) DeleteBySlug(ctx context.Context, slug string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var g models.Genre
		if err := tx.Where("slug = ?", slug).First(&g).Error; err != nil {
			return err
		}
		if err := tx.Exec("DELETE FROM title_genres WHERE genre_id = ?", g.ID).Error; err != nil {
			return fmt.Errorf("detach genre: %w", err)
		}
		if err := tx.Delete(&g).Error; err != nil {
			return fmt.Errorf("delete genre: %w", err)
		}
		return nil
	})
}

type CategoryRepo struct {
	*slugRepo[models.Category]
}

func NewCategoryRepo(db *gorm.DB) *CategoryRepo {
	return &CategoryRepo{&slugRepo[models.Category]{db: db, kind: "categories"}}
}

// DeleteBySlug removes the category; titles in it keep existing with no
// category.
func (r *CategoryRepo) DeleteBySlug(ctx context.Context, slug string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var c models.Category
		if err := tx.Where("slug = ?", slug).First(&c).Error; err != nil {
			return err
		}
		if err := tx.Model(&models.Title{}).Where("category_id = ?", c.ID).
			UpdateColumn("category_id", gorm.Expr("NULL")).Error; err != nil {
			return fmt.Errorf("unlink category: %w", err)
		}
		if err := tx.Delete(&c).Error; err != nil {
			return fmt.Errorf("delete category: %w", err)
		}
		return nil
	})
}
