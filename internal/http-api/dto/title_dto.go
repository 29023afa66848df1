package dto

import (
	"strings"

	"yamdb/internal/apperr"
	"yamdb/internal/http-api/models"
	"yamdb/internal/validators"
)

// TitleWriteRequest is the body of POST, PUT and PATCH /titles/.
// Category and genres are referenced by slug.
type TitleWriteRequest struct {
	Name        *string          `json:"name" binding:"omitempty,max=256"`
	Year        Optional[int]    `json:"year"`
	Description Optional[string] `json:"description"`
	Category    Optional[string] `json:"category"`
	Genre       []string         `json:"genre" binding:"omitempty,dive,max=50"`
}

// Validate checks what binding tags cannot. partial is true for PATCH; a
// full write (POST, PUT) needs a name.
func (r TitleWriteRequest) Validate(partial bool) error {
	var details []apperr.FieldError
	if (r.Name != nil && strings.TrimSpace(*r.Name) == "") || (r.Name == nil && !partial) {
		details = append(details, apperr.FieldError{Field: "name", Message: "This field is required"})
	}
	if r.Year.Value != nil {
		if _, err := validators.ValidateYear(*r.Year.Value); err != nil {
			details = append(details, apperr.As(err).Details...)
		}
	}
	if len(details) > 0 {
		return apperr.ValidationError("Validation failed", details...)
	}
	return nil
}

// ApplyTo copies scalar fields onto t. For a full write, absent optional
// fields are reset. Category and genres are resolved by the service.
func (r TitleWriteRequest) ApplyTo(t *models.Title, partial bool) {
	if r.Name != nil {
		t.Name = strings.TrimSpace(*r.Name)
	}
	if r.Year.Set || !partial {
		t.Year = r.Year.Value
	}
	if r.Description.Set || !partial {
		t.Description = r.Description.Value
	}
}

// GenreSlugs returns the requested genre slugs without duplicates, or nil
// when the key was absent.
func (r TitleWriteRequest) GenreSlugs() []string {
	if r.Genre == nil {
		return nil
	}
	seen := make(map[string]bool, len(r.Genre))
	out := make([]string, 0, len(r.Genre))
	for _, s := range r.Genre {
		if !seen[s] {
			seen[s] = true
			out = append(out, s)
		}
	}
	return out
}

// TitleResponse is the read representation with nested taxonomy and rating.
type TitleResponse struct {
	ID          int64              `json:"id"`
	Name        string             `json:"name"`
	Year        *int               `json:"year"`
	Rating      *float64           `json:"rating"`
	Description *string            `json:"description"`
	Genre       []SlugItemResponse `json:"genre"`
	Category    *SlugItemResponse  `json:"category"`
}

func FromModelToTitleResponse(t *models.Title) TitleResponse {
	resp := TitleResponse{
		ID:          t.ID,
		Name:        t.Name,
		Year:        t.Year,
		Rating:      t.Rating,
		Description: t.Description,
		Genre:       make([]SlugItemResponse, 0, len(t.Genres)),
	}
	for i := range t.Genres {
		resp.Genre = append(resp.Genre, GenreFromModel(&t.Genres[i]))
	}
	if t.Category != nil {
		c := CategoryFromModel(t.Category)
		resp.Category = &c
	}
	return resp
}
