package services

import (
	"context"
	"errors"
	"fmt"

	"sharestuff/internal/models"
	"sharestuff/internal/utils"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type CommentService struct {
	db    *gorm.DB
	users *IdentityService
}

func NewCommentService(db *gorm.DB, users *IdentityService) *CommentService {
	return &CommentService{db: db, users: users}
}

// CreateComment adds a comment by the acting user to an existing post.
func (s *CommentService) CreateComment(ctx context.Context, actingUserID, postID uint, body string) (*models.Comment, error) {
	user, err := actor(ctx, s.users, actingUserID)
	if err != nil {
		return nil, err
	}

	body = utils.SanitizeComment(body)
	if body == "" {
		return nil, invalidInput("Comment cannot be empty.")
	}

	comment := &models.Comment{
		PostID:         postID,
		AuthorUsername: user.Username,
		Body:           body,
	}
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// FOR SHARE conflicts with DeletePost's FOR UPDATE, so no orphan comments
		if err := tx.Clauses(clause.Locking{Strength: "SHARE"}).Select("id").First(&models.Post{}, postID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrPostNotFound
			}
			return fmt.Errorf("load post: %w", err)
		}
		if err := tx.Create(comment).Error; err != nil {
			return fmt.Errorf("create comment: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return comment, nil
}

// ListComments returns a post's comments oldest first.
func (s *CommentService) ListComments(ctx context.Context, postID uint) ([]models.Comment, error) {
	comments := []models.Comment{}
	if err := s.db.WithContext(ctx).Where("post_id = ?", postID).
		Order("created_at ASC, id ASC").Find(&comments).Error; err != nil {
		return nil, fmt.Errorf("list comments: %w", err)
	}
	return comments, nil
}
