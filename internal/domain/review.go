package domain

import "time"

const (
	MinScore = 1
	MaxScore = 10
)

// Review is a scored write-up of a title. A user may review a given
// title at most once; the composite unique index is the storage-level
// backstop behind the service pre-check.
type Review struct {
	ID       uint      `gorm:"primaryKey" json:"id"`
	TitleID  uint      `gorm:"not null;uniqueIndex:ux_reviews_author_title" json:"-"`
	AuthorID UserID    `gorm:"type:uuid;not null;uniqueIndex:ux_reviews_author_title" json:"-"`
	Author   *User     `gorm:"constraint:OnDelete:CASCADE" json:"author,omitempty"`
	Text     string    `gorm:"type:text;not null" json:"text"`
	Score    int       `gorm:"not null" json:"score"`
	PubDate  time.Time `gorm:"not null" json:"pubDate"`
}

func (Review) TableName() string { return "reviews" }

type Comment struct {
	ID       uint      `gorm:"primaryKey" json:"id"`
	ReviewID uint      `gorm:"not null;index" json:"-"`
	AuthorID UserID    `gorm:"type:uuid;not null" json:"-"`
	Author   *User     `gorm:"constraint:OnDelete:CASCADE" json:"author,omitempty"`
	Text     string    `gorm:"type:text;not null" json:"text"`
	PubDate  time.Time `gorm:"not null" json:"pubDate"`
}

func (Comment) TableName() string { return "comments" }
