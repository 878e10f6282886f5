package models

import (
	"time"
)

type Post struct {
	ID             uint      `gorm:"primaryKey" json:"id"`
	Title          string    `gorm:"size:255;not null" json:"title"`
	Body           string    `gorm:"type:text;not null" json:"body"`
	AuthorUsername string    `gorm:"size:32;not null;index" json:"author_username"`
	CreatedAt      time.Time `gorm:"index" json:"created_at"`
	LikeCount      int       `gorm:"not null;default:0" json:"likes"` // cached count(*) of likes rows

	// Not stored; filled in per viewer by list queries.
	UserHasLiked bool   `gorm:"-" json:"user_has_liked"`
	UserCanEdit  bool   `gorm:"-" json:"user_can_edit"`
	AvatarURL    string `gorm:"-" json:"avatar_url"`
}
