package repository

import (
	"context"
	"fmt"
	"strings"

	"yamdb/internal/http-api/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ratingColumn computes the average review score; it is NULL for a title
// without reviews.
const ratingColumn = "(SELECT CAST(AVG(reviews.score) AS FLOAT) FROM reviews WHERE reviews.title_id = titles.id) AS rating"

// TitleFilter narrows a title listing. Zero values mean "no filter".
type TitleFilter struct {
	Name     string // case-insensitive fragment
	Year     *int
	Category string // category slug
	Genre    string // genre slug
	Limit    int
	Offset   int
}

func (f TitleFilter) apply(db *gorm.DB) *gorm.DB {
	if name := strings.TrimSpace(f.Name); name != "" {
		db = db.Where(likeClause("titles.name"), containsPattern(name))
	}
	if f.Year != nil {
		db = db.Where("titles.year = ?", *f.Year)
	}
	if f.Category != "" {
		db = db.Where("titles.category_id IN (SELECT id FROM categories WHERE slug = ?)", f.Category)
	}
	if f.Genre != "" {
		db = db.Where(`EXISTS (SELECT 1 FROM title_genres tg JOIN genres g ON g.id = tg.genre_id
			WHERE tg.title_id = titles.id AND g.slug = ?)`, f.Genre)
	}
	return db
}

type TitleRepo struct {
	db *gorm.DB
}

func NewTitleRepo(db *gorm.DB) *TitleRepo {
	return &TitleRepo{db: db}
}

// withRating selects every title column plus the computed rating and loads
// category and genres.
func (r *TitleRepo) withRating(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).
		Model(&models.Title{}).
		Select("titles.*, " + ratingColumn).
		Preload("Category").
		Preload("Genres", func(db *gorm.DB) *gorm.DB { return db.Order("genres.name asc") })
}

// List returns titles ordered by name descending, then id.
func (r *TitleRepo) List(ctx context.Context, f TitleFilter) ([]models.Title, int64, error) {
	var list []models.Title
	var total int64

	if err := f.apply(r.db.WithContext(ctx).Model(&models.Title{})).Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("count titles: %w", err)
	}

	if err := f.apply(r.withRating(ctx)).
		Order("titles.name desc").
		Order("titles.id asc").
		Limit(f.Limit).
		Offset(f.Offset).
		Find(&list).Error; err != nil {
		return nil, 0, fmt.Errorf("list titles: %w", err)
	}
	return list, total, nil
}

func (r *TitleRepo) GetByID(ctx context.Context, id int64) (*models.Title, error) {
	var t models.Title
	if err := r.withRating(ctx).Where("titles.id = ?", id).First(&t).Error; err != nil {
		return nil, err
	}
	return &t, nil
}

func (r *TitleRepo) Exists(ctx context.Context, id int64) (bool, error) {
	var n int64
	if err := r.db.WithContext(ctx).Model(&models.Title{}).Where("id = ?", id).Count(&n).Error; err != nil {
		return false, fmt.Errorf("check title: %w", err)
	}
	return n > 0, nil
}

// Create inserts t and links genres in one transaction.
func (r *TitleRepo) Create(ctx context.Context, t *models.Title, genres []models.Genre) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit(clause.Associations).Create(t).Error; err != nil {
			return fmt.Errorf("create title: %w", err)
		}
		return replaceGenres(tx, t, genres)
	})
}

// Update saves the scalar fields of t. When replace is set, the genre links
// are replaced by genres (an empty slice clears them).
func (r *TitleRepo) Update(ctx context.Context, t *models.Title, genres []models.Genre, replace bool) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit(clause.Associations).Save(t).Error; err != nil {
			return fmt.Errorf("update title: %w", err)
		}
		if !replace {
			return nil
		}
		return replaceGenres(tx, t, genres)
	})
}

func replaceGenres(tx *gorm.DB, t *models.Title, genres []models.Genre) error {
	if err := tx.Exec("DELETE FROM title_genres WHERE title_id = ?", t.ID).Error; err != nil {
		return fmt.Errorf("clear title genres: %w", err)
	}
	for _, g := range genres {
		if err := tx.Exec("INSERT INTO title_genres (title_id, genre_id) VALUES (?, ?)", t.ID, g.ID).Error; err != nil {
			return fmt.Errorf("link genre %s: %w", g.Slug, err)
		}
	}
	t.Genres = genres
	return nil
}

// Delete removes the title with its reviews, their comments and its genre
// links.
func (r *TitleRepo) Delete(ctx context.Context, id int64) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		reviews := tx.Model(&models.Review{}).Select("id").Where("title_id = ?", id)

		if err := tx.Where("review_id IN (?)", reviews).Delete(&models.Comment{}).Error; err != nil {
			return fmt.Errorf("delete title comments: %w", err)
		}
		if err := tx.Where("title_id = ?", id).Delete(&models.Review{}).Error; err != nil {
			return fmt.Errorf("delete title reviews: %w", err)
		}
		if err := tx.Exec("DELETE FROM title_genres WHERE title_id = ?", id).Error; err != nil {
			return fmt.Errorf("delete title genres: %w", err)
		}

		res := tx.Delete(&models.Title{}, id)
		if res.Error != nil {
			return fmt.Errorf("delete title: %w", res.Error)
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
}
