package models

// Like records that UserID currently likes PostID. The row's existence is the
// source of truth; Post.LikeCount caches the count per post.
type Like struct {
	UserID uint `gorm:"primaryKey;autoIncrement:false" json:"user_id"`
	PostID uint `gorm:"primaryKey;autoIncrement:false;index" json:"post_id"`
}
