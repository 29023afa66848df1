package service

import (
	"context"
	"log/slog"

	"yamdb/internal/apperr"
	"yamdb/internal/http-api/dto"
	"yamdb/internal/http-api/models"
	"yamdb/internal/http-api/repository"
	"yamdb/pkg/pagination"
)

const duplicateReviewMsg = "You have already reviewed this title"

// ReviewService works on reviews within one title. The title comes from the
// URL and the author from the token.
type ReviewService interface {
	List(ctx context.Context, titleID int64, page pagination.Params) ([]models.Review, int64, error)
	Get(ctx context.Context, titleID, reviewID int64) (*models.Review, error)
	Create(ctx context.Context, actor *models.User, titleID int64, in dto.ReviewRequest) (*models.Review, error)
	Update(ctx context.Context, review *models.Review, in dto.ReviewRequest, partial bool) (*models.Review, error)
	Delete(ctx context.Context, review *models.Review) error
}

type reviewService struct {
	reviews repository.ReviewRepository
	titles  *repository.TitleRepo
	logger  *slog.Logger
}

func NewReviewService(reviews repository.ReviewRepository, titles *repository.TitleRepo, logger *slog.Logger) ReviewService {
	return &reviewService{reviews: reviews, titles: titles, logger: logger}
}

func (s *reviewService) requireTitle(ctx context.Context, titleID int64) error {
	ok, err := s.titles.Exists(ctx, titleID)
	if err != nil {
		return apperr.FromStorage(err, "Title")
	}
	if !ok {
		return apperr.NotFound("Title")
	}
	return nil
}

func (s *reviewService) List(ctx context.Context, titleID int64, page pagination.Params) ([]models.Review, int64, error) {
	if err := s.requireTitle(ctx, titleID); err != nil {
		return nil, 0, err
	}
	list, total, err := s.reviews.ListByTitle(ctx, titleID, page.Limit, page.Offset)
	if err != nil {
		return nil, 0, apperr.FromStorage(err, "Review")
	}
	return list, total, nil
}

func (s *reviewService) Get(ctx context.Context, titleID, reviewID int64) (*models.Review, error) {
	if err := s.requireTitle(ctx, titleID); err != nil {
		return nil, err
	}
	r, err := s.reviews.GetInTitle(ctx, titleID, reviewID)
	if err != nil {
		return nil, apperr.FromStorage(err, "Review")
	}
	return r, nil
}

// Create adds actor's review of the title. A second review by the same
// author is rejected before the insert; the unique index catches races.
func (s *reviewService) Create(ctx context.Context, actor *models.User, titleID int64, in dto.ReviewRequest) (*models.Review, error) {
	if err := s.requireTitle(ctx, titleID); err != nil {
		return nil, err
	}
	if err := in.Validate(false); err != nil {
		return nil, err
	}

	exists, err := s.reviews.ExistsForAuthor(ctx, titleID, actor.ID)
	if err != nil {
		return nil, apperr.FromStorage(err, "Review")
	}
	if exists {
		return nil, apperr.Conflict(duplicateReviewMsg)
	}

	review := &models.Review{TitleID: titleID, AuthorID: actor.ID}
	in.ApplyTo(review)
	if err := s.reviews.Create(ctx, review); err != nil {
		storageErr := apperr.FromStorage(err, "Review")
		if apperr.IsConflict(storageErr) {
			return nil, apperr.Conflict(duplicateReviewMsg)
		}
		return nil, storageErr
	}
	review.Author = actor

	s.logger.InfoContext(ctx, "review_created",
		slog.Int64("title_id", titleID),
		slog.Int64("review_id", review.ID),
		slog.String("author", actor.Username),
	)
	return review, nil
}

func (s *reviewService) Update(ctx context.Context, review *models.Review, in dto.ReviewRequest, partial bool) (*models.Review, error) {
	if err := in.Validate(partial); err != nil {
		return nil, err
	}
	updated := *review
	in.ApplyTo(&updated)
	if err := s.reviews.Update(ctx, &updated); err != nil {
		return nil, apperr.FromStorage(err, "Review")
	}
	*review = updated
	return review, nil
}

func (s *reviewService) Delete(ctx context.Context, review *models.Review) error {
	if err := s.reviews.Delete(ctx, review); err != nil {
		return apperr.FromStorage(err, "Review")
	}
	return nil
}
