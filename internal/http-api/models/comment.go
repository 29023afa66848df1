package models

import (
	"time"

	"gorm.io/gorm"
)

const CommentTextMaxLen = 200

type Comment struct {
	ID       int64     `json:"id" gorm:"primaryKey;autoIncrement"`
	ReviewID int64     `json:"-" gorm:"not null;index"`
	AuthorID string    `json:"-" gorm:"type:uuid;not null;index"`
	Text     string    `json:"text" gorm:"size:200;not null"`
	PubDate  time.Time `json:"pub_date" gorm:"autoCreateTime;index"`

	// Associations
	Review *Review `json:"-" gorm:"foreignKey:ReviewID;constraint:OnDelete:CASCADE;"`
	Author *User   `json:"-" gorm:"foreignKey:AuthorID;constraint:OnDelete:CASCADE;"`
}

func (c *Comment) OwnerID() string { return c.AuthorID }

func (c *Comment) BeforeSave(tx *gorm.DB) error {
	return collect(
		required("text", c.Text),
		maxLen("text", c.Text, CommentTextMaxLen),
	)
}

func (Comment) TableName() string {
	return "comments"
}
