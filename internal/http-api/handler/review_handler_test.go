package handler_test

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"yamdb/internal/apperr"
	"yamdb/internal/http-api/dto"
	"yamdb/internal/http-api/handler"
	"yamdb/internal/http-api/models"
	"yamdb/pkg/pagination"
)

type MockReviewService struct {
	mock.Mock
}

func (m *MockReviewService) List(ctx context.Context, titleID int64, page pagination.Params) ([]models.Review, int64, error) {
	args := m.Called(ctx, titleID, page)
	return args.Get(0).([]models.Review), args.Get(1).(int64), args.Error(2)
}

func (m *MockReviewService) Get(ctx context.Context, titleID, reviewID int64) (*models.Review, error) {
	args := m.Called(ctx, titleID, reviewID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Review), args.Error(1)
}

func (m *MockReviewService) Create(ctx context.Context, actor *models.User, titleID int64, in dto.ReviewRequest) (*models.Review, error) {
	args := m.Called(ctx, actor, titleID, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Review), args.Error(1)
}

func (m *MockReviewService) Update(ctx context.Context, review *models.Review, in dto.ReviewRequest, partial bool) (*models.Review, error) {
	args := m.Called(ctx, review, in, partial)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Review), args.Error(1)
}

func (m *MockReviewService) Delete(ctx context.Context, review *models.Review) error {
	args := m.Called(ctx, review)
	return args.Error(0)
}

func setupReviewRouter(svc *MockReviewService) *gin.Engine {
	r := newEngine(tokenAuth())
	handler.NewReviewHandler(svc, testPaging).RegisterRoutes(r.Group("/titles/:title_id/reviews"))
	return r
}

func alicesReview() *models.Review {
	return &models.Review{
		ID: 5, TitleID: 1, AuthorID: plainUser.ID, Author: plainUser,
		Text: "Spice!", Score: 9, PubDate: time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC),
	}
}

func TestReviewHandler_List(t *testing.T) {
	svc := new(MockReviewService)
	r := setupReviewRouter(svc)

	svc.On("List", mock.Anything, int64(1), pagination.Params{Limit: 2, Offset: 0}).
		Return([]models.Review{*alicesReview()}, int64(3), nil)

	w := request(r, http.MethodGet, "/titles/1/reviews/?limit=2", nil, "")

	assert.Equal(t, http.StatusOK, w.Code)
	body := decodeBody(t, w)
	assert.Equal(t, float64(3), body["count"])
	assert.NotNil(t, body["next"])
	first := body["results"].([]any)[0].(map[string]any)
	assert.Equal(t, "alice", first["author"])
	assert.Equal(t, "2026-01-02T03:04:05Z", first["pub_date"])
}

func TestReviewHandler_CreateUsesActor(t *testing.T) {
	svc := new(MockReviewService)
	r := setupReviewRouter(svc)

	in := dto.ReviewRequest{Text: stringPtr("Spice!"), Score: intPtr(9)}
	svc.On("Create", mock.Anything, plainUser, int64(1), in).Return(alicesReview(), nil)

	w := request(r, http.MethodPost, "/titles/1/reviews/", gin.H{"text": "Spice!", "score": 9, "author": "bob"}, "alice")

	assert.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, "alice", decodeBody(t, w)["author"])
	svc.AssertExpectations(t)
}

func TestReviewHandler_CreateDuplicate(t *testing.T) {
	svc := new(MockReviewService)
	r := setupReviewRouter(svc)

	svc.On("Create", mock.Anything, plainUser, int64(1), mock.Anything).Return(nil, apperr.Conflict("You have already reviewed this title"))

	w := request(r, http.MethodPost, "/titles/1/reviews/", gin.H{"text": "Again", "score": 3}, "alice")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestReviewHandler_CreateRejects(t *testing.T) {
	svc := new(MockReviewService)
	r := setupReviewRouter(svc)

	assert.Equal(t, http.StatusUnauthorized, request(r, http.MethodPost, "/titles/1/reviews/", gin.H{"text": "x", "score": 3}, "").Code)
	assert.Equal(t, http.StatusBadRequest, request(r, http.MethodPost, "/titles/1/reviews/", gin.H{"text": "x", "score": 11}, "alice").Code)
	svc.AssertNotCalled(t, "Create", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestReviewHandler_ObjectPermissions(t *testing.T) {
	tests := []struct {
		name       string
		token      string
		wantStatus int
	}{
		{"anonymous", "", http.StatusUnauthorized},
		{"someone else", "bob", http.StatusForbidden},
		{"author", "alice", http.StatusOK},
		{"moderator", "mod", http.StatusOK},
		{"admin", "admin", http.StatusOK},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := new(MockReviewService)
			r := setupReviewRouter(svc)
			review := alicesReview()
			svc.On("Get", mock.Anything, int64(1), int64(5)).Return(review, nil)
			svc.On("Update", mock.Anything, review, mock.Anything, true).Return(review, nil)

			w := request(r, http.MethodPatch, "/titles/1/reviews/5/", gin.H{"score": 4}, tt.token)
			assert.Equal(t, tt.wantStatus, w.Code)
			if tt.wantStatus != http.StatusOK {
				svc.AssertNotCalled(t, "Update", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
			}
		})
	}
}

func TestReviewHandler_NotInTitle(t *testing.T) {
	svc := new(MockReviewService)
	r := setupReviewRouter(svc)

	svc.On("Get", mock.Anything, int64(2), int64(5)).Return(nil, apperr.NotFound("Review"))

	assert.Equal(t, http.StatusNotFound, request(r, http.MethodGet, "/titles/2/reviews/5/", nil, "").Code)
	assert.Equal(t, http.StatusNotFound, request(r, http.MethodDelete, "/titles/2/reviews/5/", nil, "admin").Code)
}

func TestReviewHandler_Delete(t *testing.T) {
	svc := new(MockReviewService)
	r := setupReviewRouter(svc)

	review := alicesReview()
	svc.On("Get", mock.Anything, int64(1), int64(5)).Return(review, nil)
	svc.On("Delete", mock.Anything, review).Return(nil)

	assert.Equal(t, http.StatusForbidden, request(r, http.MethodDelete, "/titles/1/reviews/5/", nil, "bob").Code)
	assert.Equal(t, http.StatusNoContent, request(r, http.MethodDelete, "/titles/1/reviews/5/", nil, "alice").Code)
	svc.AssertNumberOfCalls(t, "Delete", 1)
}

func stringPtr(s string) *string { return &s }
