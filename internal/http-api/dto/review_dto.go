package dto

import (
	"strings"
	"time"

	"yamdb/internal/apperr"
	"yamdb/internal/http-api/models"
)

// ReviewRequest is the body of review writes. Title and author come from the
// path and the token, never from the body.
type ReviewRequest struct {
	Text  *string `json:"text"`
	Score *int    `json:"score" binding:"omitempty,min=1,max=10"`
}

func (r ReviewRequest) Validate(partial bool) error {
	var details []apperr.FieldError
	if missingText(r.Text, partial) {
		details = append(details, apperr.FieldError{Field: "text", Message: "This field is required"})
	}
	if r.Score == nil && !partial {
		details = append(details, apperr.FieldError{Field: "score", Message: "This field is required"})
	}
	if len(details) > 0 {
		return apperr.ValidationError("Validation failed", details...)
	}
	return nil
}

func (r ReviewRequest) ApplyTo(review *models.Review) {
	if r.Text != nil {
		review.Text = *r.Text
	}
	if r.Score != nil {
		review.Score = *r.Score
	}
}

type ReviewResponse struct {
	ID      int64     `json:"id"`
	Text    string    `json:"text"`
	Author  string    `json:"author"`
	Score   int       `json:"score"`
	PubDate time.Time `json:"pub_date"`
}

func FromModelToReviewResponse(r *models.Review) ReviewResponse {
	return ReviewResponse{
		ID:      r.ID,
		Text:    r.Text,
		Author:  authorName(r.Author),
		Score:   r.Score,
		PubDate: r.PubDate,
	}
}

func authorName(u *models.User) string {
	if u == nil {
		return ""
	}
	return u.Username
}

// missingText is true when a required text field is absent or blank.
func missingText(text *string, partial bool) bool {
	if text == nil {
		return !partial
	}
	return strings.TrimSpace(*text) == ""
}
