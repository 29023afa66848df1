package models

import (
	"time"

	"gorm.io/gorm"
)

const (
	MinScore = 1
	MaxScore = 10
)

// Review is one user's scored opinion of a title. A user reviews a title at
// most once (idx_reviews_title_author).
type Review struct {
	ID       int64     `json:"id" gorm:"primaryKey;autoIncrement"`
	TitleID  int64     `json:"-" gorm:"not null;uniqueIndex:idx_reviews_title_author"`
	AuthorID string    `json:"-" gorm:"type:uuid;not null;uniqueIndex:idx_reviews_title_author;index"`
	Text     string    `json:"text" gorm:"type:text;not null"`
	Score    int       `json:"score" gorm:"not null;check:score >= 1 AND score <= 10"`
	PubDate  time.Time `json:"pub_date" gorm:"autoCreateTime;index"`

	// Associations
	Title  *Title `json:"-" gorm:"foreignKey:TitleID;constraint:OnDelete:CASCADE;"`
	Author *User  `json:"-" gorm:"foreignKey:AuthorID;constraint:OnDelete:CASCADE;"`
}

func (r *Review) OwnerID() string { return r.AuthorID }

func (r *Review) BeforeSave(tx *gorm.DB) error {
	return collect(
		required("text", r.Text),
		oneOf("score", r.Score >= MinScore && r.Score <= MaxScore, "Ensure this value is between 1 and 10"),
	)
}

func (Review) TableName() string {
	return "reviews"
}
