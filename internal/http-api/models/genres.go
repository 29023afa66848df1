package models

import "gorm.io/gorm"

const (
	TaxonomyNameMaxLen = 256
	SlugMaxLen         = 50
)

// Genre is a tag-like classification; a title may carry many.
type Genre struct {
	ID   int64  `json:"-" gorm:"primaryKey;autoIncrement"`
	Name string `json:"name" gorm:"size:256;not null;index"`
	Slug string `json:"slug" gorm:"size:50;uniqueIndex;not null"`
}

func (g *Genre) BeforeSave(tx *gorm.DB) error {
	return validateTaxonomy(g.Name, g.Slug)
}

func (Genre) TableName() string {
	return "genres"
}

// Category is the single optional bucket a title belongs to.
type Category struct {
	ID   int64  `json:"-" gorm:"primaryKey;autoIncrement"`
	Name string `json:"name" gorm:"size:256;not null;index"`
	Slug string `json:"slug" gorm:"size:50;uniqueIndex;not null"`
}

func (c *Category) BeforeSave(tx *gorm.DB) error {
	return validateTaxonomy(c.Name, c.Slug)
}

func (Category) TableName() string {
	return "categories"
}

func validateTaxonomy(name, slug string) error {
	return collect(
		required("name", name),
		maxLen("name", name, TaxonomyNameMaxLen),
		required("slug", slug),
		maxLen("slug", slug, SlugMaxLen),
		slugField("slug", slug),
	)
}
