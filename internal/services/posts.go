package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"sharestuff/internal/models"

	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const maxTitleLength = 255

// PostService gates post mutations behind the acting identity.
type PostService struct {
	db    *gorm.DB
	users *IdentityService
	likes *LikeService
	log   *zap.Logger
}

func NewPostService(db *gorm.DB, users *IdentityService, likes *LikeService, log *zap.Logger) *PostService {
	return &PostService{db: db, users: users, likes: likes, log: log}
}

// actor resolves the acting user; a missing or stale id is unauthenticated.
func actor(ctx context.Context, users *IdentityService, actingUserID uint) (*models.User, error) {
	if actingUserID == 0 {
		return nil, ErrNotAuthenticated
	}
	u, err := users.FindByID(ctx, actingUserID)
	if errors.Is(err, ErrUserNotFound) {
		return nil, ErrNotAuthenticated
	}
	return u, err
}

func (s *PostService) CreatePost(ctx context.Context, actingUserID uint, title, body string) (*models.Post, error) {
	user, err := actor(ctx, s.users, actingUserID)
	if err != nil {
		return nil, err
	}

	title = strings.TrimSpace(title)
	if title == "" || strings.TrimSpace(body) == "" {
		return nil, invalidInput("Title and content are required.")
	}
	if utf8.RuneCountInString(title) > maxTitleLength {
		return nil, invalidInput("Title is too long.")
	}

	post := &models.Post{
		Title:          title,
		Body:           body, // raw markdown, sanitized when rendered
		AuthorUsername: user.Username,
		LikeCount:      0,
	}
	if err := s.db.WithContext(ctx).Create(post).Error; err != nil {
		return nil, fmt.Errorf("create post: %w", err)
	}
	s.log.Info("post created", zap.Uint("post_id", post.ID), zap.String("username", user.Username))
	return post, nil
}

// DeletePost removes a post owned by the acting user together with its likes
// and comments.
func (s *PostService) DeletePost(ctx context.Context, actingUserID, postID uint) error {
	user, err := actor(ctx, s.users, actingUserID)
	if err != nil {
		return err
	}

	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var post models.Post
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&post, postID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrPostNotFound
			}
			return fmt.Errorf("lock post: %w", err)
		}
		if post.AuthorUsername != user.Username {
			return ErrNotAuthorized
		}

		if err := tx.Where("post_id = ?", postID).Delete(&models.Like{}).Error; err != nil {
			return fmt.Errorf("delete likes: %w", err)
		}
		if err := tx.Where("post_id = ?", postID).Delete(&models.Comment{}).Error; err != nil {
			return fmt.Errorf("delete comments: %w", err)
		}
		if err := tx.Delete(&post).Error; err != nil {
			return fmt.Errorf("delete post: %w", err)
		}
		s.log.Info("post deleted", zap.Uint("post_id", postID), zap.String("username", user.Username))
		return nil
	})
}

// ListPosts returns all posts newest first, flagged for the viewer
// (actingUserID may be 0).
func (s *PostService) ListPosts(ctx context.Context, actingUserID uint) ([]models.Post, error) {
	var posts []models.Post
	if err := s.db.WithContext(ctx).Order("created_at DESC, id DESC").Find(&posts).Error; err != nil {
		return nil, fmt.Errorf("list posts: %w", err)
	}
	return s.decorate(ctx, actingUserID, posts)
}

// ListRecent returns the n newest posts without viewer flags.
func (s *PostService) ListRecent(ctx context.Context, n int) ([]models.Post, error) {
	if n <= 0 {
		return []models.Post{}, nil
	}
	posts := make([]models.Post, 0, n)
	if err := s.db.WithContext(ctx).Order("created_at DESC, id DESC").Limit(n).Find(&posts).Error; err != nil {
		return nil, fmt.Errorf("list recent posts: %w", err)
	}
	return posts, nil
}

// ListByAuthor returns one user's posts newest first.
func (s *PostService) ListByAuthor(ctx context.Context, actingUserID uint, username string) ([]models.Post, error) {
	var posts []models.Post
	if err := s.db.WithContext(ctx).Where("author_username = ?", username).
		Order("created_at DESC, id DESC").Find(&posts).Error; err != nil {
		return nil, fmt.Errorf("list posts by author: %w", err)
	}
	return s.decorate(ctx, actingUserID, posts)
}

// decorate fills UserHasLiked, UserCanEdit and the author avatar.
func (s *PostService) decorate(ctx context.Context, actingUserID uint, posts []models.Post) ([]models.Post, error) {
	if len(posts) == 0 {
		return posts, nil
	}

	var viewer *models.User
	if actingUserID != 0 {
		u, err := s.users.FindByID(ctx, actingUserID)
		if err != nil && !errors.Is(err, ErrUserNotFound) {
			return nil, err
		}
		viewer = u
	}

	postIDs := make([]uint, len(posts))
	authorSet := make(map[string]struct{})
	for i, p := range posts {
		postIDs[i] = p.ID
		authorSet[p.AuthorUsername] = struct{}{}
	}
	authors := make([]string, 0, len(authorSet))
	for name := range authorSet {
		authors = append(authors, name)
	}

	var users []models.User
	if err := s.db.WithContext(ctx).Where("username IN ?", authors).Find(&users).Error; err != nil {
		return nil, fmt.Errorf("load authors: %w", err)
	}
	avatars := make(map[string]string, len(users))
	for i := range users {
		avatars[users[i].Username] = users[i].Avatar()
	}

	liked := map[uint]bool{}
	if viewer != nil {
		var err error
		if liked, err = s.likes.HasLiked(ctx, viewer.ID, postIDs); err != nil {
			return nil, err
		}
	}

	for i := range posts {
		posts[i].AvatarURL = avatars[posts[i].AuthorUsername]
		if viewer != nil {
			posts[i].UserCanEdit = posts[i].AuthorUsername == viewer.Username
			posts[i].UserHasLiked = liked[posts[i].ID]
		}
	}
	return posts, nil
}
