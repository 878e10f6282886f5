package models

import (
	"time"
)

type User struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	Username     string    `gorm:"uniqueIndex;size:32;not null" json:"username"` // immutable once set
	IdentityHash *string   `gorm:"uniqueIndex;size:64" json:"-"`                // sha256 of the Google subject id
	Credential   *string   `gorm:"size:255" json:"-"`                           // bcrypt hash, local accounts only
	AvatarURL    *string   `gorm:"size:255" json:"avatar_url"`
	CreatedAt    time.Time `json:"created_at"`
	// Users are never deleted
}

// Avatar returns the avatar path or the default image.
func (u *User) Avatar() string {
	if u.AvatarURL == nil || *u.AvatarURL == "" {
		return "images/default.png"
	}
	return *u.AvatarURL
}
