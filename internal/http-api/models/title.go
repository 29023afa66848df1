package models

import (
	"gorm.io/gorm"

	"yamdb/internal/validators"
)

const TitleNameMaxLen = 256

type Title struct {
	ID          int64     `json:"id" gorm:"primaryKey;autoIncrement"`
	Name        string    `json:"name" gorm:"size:256;not null;index"`
	Year        *int      `json:"year" gorm:"index"`
	Description *string   `json:"description" gorm:"type:text"`
	CategoryID  *int64    `json:"-" gorm:"index"`
	Category    *Category `json:"category" gorm:"foreignKey:CategoryID;constraint:OnDelete:SET NULL;"`
	Genres      []Genre   `json:"genre" gorm:"many2many:title_genres;constraint:OnDelete:CASCADE;"`

	// Rating is the average review score, filled only by queries that select
	// it. It never exists as a column.
	Rating *float64 `json:"rating" gorm:"->;-:migration"`
}

func (t *Title) BeforeSave(tx *gorm.DB) error {
	if err := collect(
		required("name", t.Name),
		maxLen("name", t.Name, TitleNameMaxLen),
	); err != nil {
		return err
	}
	if t.Year != nil {
		if _, err := validators.ValidateYear(*t.Year); err != nil {
			return err
		}
	}
	return nil
}

func (Title) TableName() string {
	return "titles"
}
