package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"yamdb/internal/apperr"
	"yamdb/internal/http-api/dto"
	"yamdb/internal/http-api/models"
	"yamdb/internal/http-api/repository"
)

type TitleService interface {
	List(ctx context.Context, f repository.TitleFilter) ([]models.Title, int64, error)
	Get(ctx context.Context, id int64) (*models.Title, error)
	Create(ctx context.Context, in dto.TitleWriteRequest) (*models.Title, error)
	Update(ctx context.Context, title *models.Title, in dto.TitleWriteRequest, partial bool) (*models.Title, error)
	Delete(ctx context.Context, id int64) error
}

type titleService struct {
	titles     *repository.TitleRepo
	categories *repository.CategoryRepo
	genres     *repository.GenreRepo
	logger     *slog.Logger
}

func NewTitleService(titles *repository.TitleRepo, categories *repository.CategoryRepo, genres *repository.GenreRepo, logger *slog.Logger) TitleService {
	return &titleService{titles: titles, categories: categories, genres: genres, logger: logger}
}

func (s *titleService) List(ctx context.Context, f repository.TitleFilter) ([]models.Title, int64, error) {
	list, total, err := s.titles.List(ctx, f)
	if err != nil {
		return nil, 0, apperr.FromStorage(err, "Title")
	}
	return list, total, nil
}

func (s *titleService) Get(ctx context.Context, id int64) (*models.Title, error) {
	t, err := s.titles.GetByID(ctx, id)
	if err != nil {
		return nil, apperr.FromStorage(err, "Title")
	}
	return t, nil
}

func (s *titleService) Create(ctx context.Context, in dto.TitleWriteRequest) (*models.Title, error) {
	if err := in.Validate(false); err != nil {
		return nil, err
	}

	t := &models.Title{}
	in.ApplyTo(t, false)
	genres, _, err := s.resolve(ctx, t, in, false)
	if err != nil {
		return nil, err
	}

	if err := s.titles.Create(ctx, t, genres); err != nil {
		return nil, apperr.FromStorage(err, "Title")
	}
	s.logger.InfoContext(ctx, "title_created", slog.Int64("title_id", t.ID))
	return s.Get(ctx, t.ID)
}

// Update writes in onto title. partial is true for PATCH; otherwise absent
// optional fields are cleared and the genre set is replaced.
func (s *titleService) Update(ctx context.Context, title *models.Title, in dto.TitleWriteRequest, partial bool) (*models.Title, error) {
	if err := in.Validate(partial); err != nil {
		return nil, err
	}

	updated := *title
	in.ApplyTo(&updated, partial)
	genres, replace, err := s.resolve(ctx, &updated, in, partial)
	if err != nil {
		return nil, err
	}

	if err := s.titles.Update(ctx, &updated, genres, replace); err != nil {
		return nil, apperr.FromStorage(err, "Title")
	}
	return s.Get(ctx, updated.ID)
}

func (s *titleService) Delete(ctx context.Context, id int64) error {
	if err := s.titles.Delete(ctx, id); err != nil {
		return apperr.FromStorage(err, "Title")
	}
	s.logger.InfoContext(ctx, "title_deleted", slog.Int64("title_id", id))
	return nil
}

// resolve turns the category and genre slugs of in into references on t.
// It reports whether the genre set should be replaced. Unknown slugs are
// field errors.
func (s *titleService) resolve(ctx context.Context, t *models.Title, in dto.TitleWriteRequest, partial bool) ([]models.Genre, bool, error) {
	var details []apperr.FieldError

	switch {
	case in.Category.Value != nil:
		c, err := s.categories.GetBySlug(ctx, *in.Category.Value)
		if err != nil {
			if ae := apperr.FromStorage(err, "Category"); !apperr.IsNotFound(ae) {
				return nil, false, ae
			}
			details = append(details, apperr.FieldError{
				Field:   "category",
				Message: fmt.Sprintf("Category with slug %q does not exist", *in.Category.Value),
			})
		} else {
			t.CategoryID = &c.ID
			t.Category = c
		}
	case in.Category.Set || !partial:
		t.CategoryID = nil
		t.Category = nil
	}

	slugs := in.GenreSlugs()
	replace := slugs != nil || !partial
	var genres []models.Genre
	if len(slugs) > 0 {
		found, err := s.genres.FindBySlugs(ctx, slugs)
		if err != nil {
			return nil, false, apperr.FromStorage(err, "Genre")
		}
		if missing := missingSlugs(slugs, found); len(missing) > 0 {
			details = append(details, apperr.FieldError{
				Field:   "genre",
				Message: fmt.Sprintf("Genre with slug %s does not exist", strings.Join(missing, ", ")),
			})
		}
		genres = found
	}

	if len(details) > 0 {
		return nil, false, apperr.ValidationError("Validation failed", details...)
	}
	return genres, replace, nil
}

func missingSlugs(want []string, found []models.Genre) []string {
	have := make(map[string]bool, len(found))
	for _, g := range found {
		have[g.Slug] = true
	}
	var missing []string
	for _, s := range want {
		if !have[s] {
			missing = append(missing, s)
		}
	}
	return missing
}
