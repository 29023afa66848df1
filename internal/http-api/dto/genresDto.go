package dto

import "yamdb/internal/http-api/models"

// SlugItemRequest creates a category or a genre. An empty slug is derived
// from the name.
type SlugItemRequest struct {
	Name string `json:"name" binding:"required,max=256"`
	Slug string `json:"slug" binding:"omitempty,max=50,slug"`
}

type SlugItemResponse struct {
	Name string `json:"name"`
	Slug string `json:"slug"`
}

func GenreFromModel(g *models.Genre) SlugItemResponse {
	return SlugItemResponse{Name: g.Name, Slug: g.Slug}
}

func CategoryFromModel(c *models.Category) SlugItemResponse {
	return SlugItemResponse{Name: c.Name, Slug: c.Slug}
}
