// Package testutil opens throwaway databases for package tests.
package testutil

import (
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"yamdb/database"
	"yamdb/internal/http-api/models"
)

// NewDB returns a migrated in-memory sqlite database private to t. A single
// connection keeps every query on the same in-memory database.
func NewDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:?_foreign_keys=on"), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })

	require.NoError(t, database.AutoMigrate(db))
	return db
}

// CreateUser inserts an active user with the given role.
func CreateUser(t *testing.T, db *gorm.DB, username string, role models.Role) *models.User {
	t.Helper()
	u := models.NewUser(username, username+"@example.com")
	u.Role = role
	require.NoError(t, db.Create(u).Error)
	return u
}

func CreateCategory(t *testing.T, db *gorm.DB, name, slug string) *models.Category {
	t.Helper()
	c := &models.Category{Name: name, Slug: slug}
	require.NoError(t, db.Create(c).Error)
	return c
}

func CreateGenre(t *testing.T, db *gorm.DB, name, slug string) *models.Genre {
	t.Helper()
	g := &models.Genre{Name: name, Slug: slug}
	require.NoError(t, db.Create(g).Error)
	return g
}

// CreateTitle inserts a title linked to the given category and genres.
func CreateTitle(t *testing.T, db *gorm.DB, name string, year int, category *models.Category, genres ...*models.Genre) *models.Title {
	t.Helper()
	title := &models.Title{Name: name, Year: &year}
	if category != nil {
		title.CategoryID = &category.ID
	}
	require.NoError(t, db.Omit("Genres", "Category").Create(title).Error)
	for _, g := range genres {
		require.NoError(t, db.Exec("INSERT INTO title_genres (title_id, genre_id) VALUES (?, ?)", title.ID, g.ID).Error)
	}
	return title
}

func CreateReview(t *testing.T, db *gorm.DB, title *models.Title, author *models.User, score int) *models.Review {
	t.Helper()
	r := &models.Review{TitleID: title.ID, AuthorID: author.ID, Text: "review by " + author.Username, Score: score}
	require.NoError(t, db.Omit("Title", "Author").Create(r).Error)
	return r
}

func CreateComment(t *testing.T, db *gorm.DB, review *models.Review, author *models.User, text string) *models.Comment {
	t.Helper()
	c := &models.Comment{ReviewID: review.ID, AuthorID: author.ID, Text: text}
	require.NoError(t, db.Omit("Review", "Author").Create(c).Error)
	return c
}
