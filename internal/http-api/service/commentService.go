package service

import (
	"context"

	"yamdb/internal/apperr"
	"yamdb/internal/http-api/dto"
	"yamdb/internal/http-api/models"
	"yamdb/internal/http-api/repository"
	"yamdb/pkg/pagination"
)

// CommentService works on comments of one review, itself scoped to a title.
type CommentService interface {
	List(ctx context.Context, titleID, reviewID int64, page pagination.Params) ([]models.Comment, int64, error)
	Get(ctx context.Context, titleID, reviewID, commentID int64) (*models.Comment, error)
	Create(ctx context.Context, actor *models.User, titleID, reviewID int64, in dto.CommentRequest) (*models.Comment, error)
	Update(ctx context.Context, comment *models.Comment, in dto.CommentRequest, partial bool) (*models.Comment, error)
	Delete(ctx context.Context, comment *models.Comment) error
}

type commentService struct {
	comments repository.CommentRepository
	reviews  ReviewService
}

func NewCommentService(comments repository.CommentRepository, reviews ReviewService) CommentService {
	return &commentService{comments: comments, reviews: reviews}
}

func (s *commentService) List(ctx context.Context, titleID, reviewID int64, page pagination.Params) ([]models.Comment, int64, error) {
	if _, err := s.reviews.Get(ctx, titleID, reviewID); err != nil {
		return nil, 0, err
	}
	list, total, err := s.comments.ListByReview(ctx, reviewID, page.Limit, page.Offset)
	if err != nil {
		return nil, 0, apperr.FromStorage(err, "Comment")
	}
	return list, total, nil
}

func (s *commentService) Get(ctx context.Context, titleID, reviewID, commentID int64) (*models.Comment, error) {
	if _, err := s.reviews.Get(ctx, titleID, reviewID); err != nil {
		return nil, err
	}
	c, err := s.comments.GetInReview(ctx, reviewID, commentID)
	if err != nil {
		return nil, apperr.FromStorage(err, "Comment")
	}
	return c, nil
}

func (s *commentService) Create(ctx context.Context, actor *models.User, titleID, reviewID int64, in dto.CommentRequest) (*models.Comment, error) {
	review, err := s.reviews.Get(ctx, titleID, reviewID)
	if err != nil {
		return nil, err
	}
	if err := in.Validate(false); err != nil {
		return nil, err
	}

	comment := &models.Comment{ReviewID: review.ID, AuthorID: actor.ID}
	in.ApplyTo(comment)
	if err := s.comments.Create(ctx, comment); err != nil {
		return nil, apperr.FromStorage(err, "Comment")
	}
	comment.Author = actor
	return comment, nil
}

func (s *commentService) Update(ctx context.Context, comment *models.Comment, in dto.CommentRequest, partial bool) (*models.Comment, error) {
	if err := in.Validate(partial); err != nil {
		return nil, err
	}
	updated := *comment
	in.ApplyTo(&updated)
	if err := s.comments.Update(ctx, &updated); err != nil {
		return nil, apperr.FromStorage(err, "Comment")
	}
	*comment = updated
	return comment, nil
}

func (s *commentService) Delete(ctx context.Context, comment *models.Comment) error {
	if err := s.comments.Delete(ctx, comment); err != nil {
		return apperr.FromStorage(err, "Comment")
	}
	return nil
}
