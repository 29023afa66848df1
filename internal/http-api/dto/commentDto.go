package dto

import (
	"time"

	"yamdb/internal/apperr"
	"yamdb/internal/http-api/models"
)

// CommentRequest for creating or updating a comment
type CommentRequest struct {
	Text *string `json:"text" binding:"omitempty,max=200"`
}

func (r CommentRequest) Validate(partial bool) error {
	if missingText(r.Text, partial) {
		return apperr.Field("text", "This field is required")
	}
	return nil
}

func (r CommentRequest) ApplyTo(c *models.Comment) {
	if r.Text != nil {
		c.Text = *r.Text
	}
}

// CommentResponse renders the author as a username
type CommentResponse struct {
	ID      int64     `json:"id"`
	Text    string    `json:"text"`
	Author  string    `json:"author"`
	PubDate time.Time `json:"pub_date"`
}

// FromModelToCommentResponse converts a Comment model to CommentResponse DTO
func FromModelToCommentResponse(c *models.Comment) CommentResponse {
	return CommentResponse{
		ID:      c.ID,
		Text:    c.Text,
		Author:  authorName(c.Author),
		PubDate: c.PubDate,
	}
}
