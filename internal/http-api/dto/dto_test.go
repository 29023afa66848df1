package dto

import (
	"encoding/json"
	"testing"

	"github.com/gin-gonic/gin/binding"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"yamdb/internal/apperr"
	"yamdb/internal/http-api/models"
)

func fieldsOf(err error) map[string]string {
	out := map[string]string{}
	if ae := apperr.As(err); ae != nil {
		for _, d := range ae.Details {
			out[d.Field] = d.Message
		}
	}
	return out
}

func TestSignUpBinding(t *testing.T) {
	require.NoError(t, RegisterValidators())
	require.NoError(t, RegisterValidators(), "second registration is a no-op")

	tests := []struct {
		name    string
		req     SignUpRequest
		invalid []string
	}{
		{"valid", SignUpRequest{Username: "alice.b+1", Email: "alice@example.com"}, nil},
		{"missing both", SignUpRequest{}, []string{"username", "email"}},
		{"bad username", SignUpRequest{Username: "al ice", Email: "alice@example.com"}, []string{"username"}},
		{"bad email", SignUpRequest{Username: "alice", Email: "not-an-email"}, []string{"email"}},
		{"too long", SignUpRequest{Username: "abcdefghijklmnopqrstu", Email: "a@b.io"}, []string{"username"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := binding.Validator.ValidateStruct(tt.req)
			if tt.invalid == nil {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			fields := fieldsOf(FromBindError(err))
			assert.Len(t, fields, len(tt.invalid))
			for _, f := range tt.invalid {
				assert.Contains(t, fields, f)
			}
		})
	}
}

func TestReservedUsername(t *testing.T) {
	err := SignUpRequest{Username: "me", Email: "me@example.com"}.Validate()
	require.Error(t, err)
	assert.Contains(t, fieldsOf(err), "username")

	me := "me"
	assert.Error(t, UserUpdateRequest{Username: &me}.Validate())
	assert.NoError(t, UserUpdateRequest{}.Validate())
}

func TestSlugTag(t *testing.T) {
	require.NoError(t, RegisterValidators())

	assert.NoError(t, binding.Validator.ValidateStruct(SlugItemRequest{Name: "Sci-fi", Slug: "sci_fi-2"}))
	assert.NoError(t, binding.Validator.ValidateStruct(SlugItemRequest{Name: "Sci-fi"}), "slug may be omitted")

	err := binding.Validator.ValidateStruct(SlugItemRequest{Name: "Sci-fi", Slug: "sci fi"})
	require.Error(t, err)
	assert.Equal(t,
		"Enter a valid slug consisting of letters, numbers, underscores or hyphens",
		fieldsOf(FromBindError(err))["slug"])
}

func TestFromBindError_TypeMismatch(t *testing.T) {
	var req TitleWriteRequest
	err := json.Unmarshal([]byte(`{"name": 5}`), &req)
	require.Error(t, err)

	ae := FromBindError(err)
	assert.Equal(t, "VALIDATION_ERROR", ae.Code)
	assert.Contains(t, fieldsOf(ae), "name")
}

func TestOptional(t *testing.T) {
	var body struct {
		Year Optional[int]    `json:"year"`
		Desc Optional[string] `json:"description"`
		Cat  Optional[string] `json:"category"`
	}
	require.NoError(t, json.Unmarshal([]byte(`{"year": 1999, "description": null}`), &body))

	assert.True(t, body.Year.Set)
	require.NotNil(t, body.Year.Value)
	assert.Equal(t, 1999, *body.Year.Value)

	assert.True(t, body.Desc.Set)
	assert.Nil(t, body.Desc.Value)

	assert.False(t, body.Cat.Set)
	assert.Equal(t, Optional[int]{Set: true, Value: body.Year.Value}, Some(1999))
}

func TestTitleWriteRequest_Validate(t *testing.T) {
	name := "Dune"
	blank := "  "
	future := 3000

	assert.NoError(t, TitleWriteRequest{Name: &name}.Validate(false))
	assert.NoError(t, TitleWriteRequest{}.Validate(true), "PATCH may omit the name")

	err := TitleWriteRequest{}.Validate(false)
	assert.Contains(t, fieldsOf(err), "name")

	err = TitleWriteRequest{Name: &blank}.Validate(true)
	assert.Contains(t, fieldsOf(err), "name")

	err = TitleWriteRequest{Name: &name, Year: Some(future)}.Validate(false)
	assert.Equal(t, "Year cannot be later than the current year", fieldsOf(err)["year"])
}

func TestTitleWriteRequest_ApplyTo(t *testing.T) {
	year := 1965
	desc := "Spice"
	title := &models.Title{Name: "Dune", Year: &year, Description: &desc}

	name := " Dune Messiah "
	TitleWriteRequest{Name: &name}.ApplyTo(title, true)
	assert.Equal(t, "Dune Messiah", title.Name)
	assert.Equal(t, &year, title.Year, "PATCH keeps absent fields")
	assert.Equal(t, &desc, title.Description)

	TitleWriteRequest{Name: &name}.ApplyTo(title, false)
	assert.Nil(t, title.Year, "PUT clears absent fields")
	assert.Nil(t, title.Description)
}

func TestGenreSlugs(t *testing.T) {
	assert.Nil(t, TitleWriteRequest{}.GenreSlugs())
	assert.Equal(t, []string{}, TitleWriteRequest{Genre: []string{}}.GenreSlugs())
	assert.Equal(t, []string{"drama", "comedy"},
		TitleWriteRequest{Genre: []string{"drama", "comedy", "drama"}}.GenreSlugs())
}

func TestUserUpdateRequest_RoleGuard(t *testing.T) {
	u := models.NewUser("alice", "alice@example.com")
	admin := "admin"
	bio := "reader"

	UserUpdateRequest{Role: &admin, Bio: &bio}.ApplyTo(u, false)
	assert.Equal(t, models.RoleUser, u.Role)
	assert.Equal(t, "reader", u.Bio)

	UserUpdateRequest{Role: &admin}.ApplyTo(u, true)
	assert.Equal(t, models.RoleAdmin, u.Role)
}

func TestFromModelToTitleResponse_Taxonomy(t *testing.T) {
	title := &models.Title{
		ID:   3,
		Name: "Dune",
		Genres: []models.Genre{
			{Name: "Drama", Slug: "drama"},
			{Name: "Science fiction", Slug: "sci-fi"},
		},
		Category: &models.Category{Name: "Books", Slug: "books"},
	}

	resp := FromModelToTitleResponse(title)
	assert.Equal(t, []SlugItemResponse{{Name: "Drama", Slug: "drama"}, {Name: "Science fiction", Slug: "sci-fi"}}, resp.Genre)
	require.NotNil(t, resp.Category)
	assert.Equal(t, SlugItemResponse{Name: "Books", Slug: "books"}, *resp.Category)

	raw, err := json.Marshal(FromModelToTitleResponse(&models.Title{ID: 4, Name: "Emma"}))
	require.NoError(t, err)
	assert.Contains(t, string(raw), `"genre":[]`)
	assert.Contains(t, string(raw), `"category":null`)
}
