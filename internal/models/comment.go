package models

import (
	"time"
)

type Comment struct {
	ID             uint      `gorm:"primaryKey" json:"id"`
	PostID         uint      `gorm:"not null;index:idx_comment_post_created,priority:1" json:"post_id"`
	AuthorUsername string    `gorm:"size:32;not null" json:"username"`
	Body           string    `gorm:"type:text;not null" json:"content"`
	CreatedAt      time.Time `gorm:"index:idx_comment_post_created,priority:2" json:"timestamp"`
}
