package services

import (
	"context"
	"errors"
	"fmt"

	"sharestuff/internal/models"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// LikeResult is the state after a toggle.
type LikeResult struct {
	Liked     bool `json:"liked"`
	LikeCount int  `json:"likes"`
}

// LikeService keeps the likes table and posts.like_count in step.
type LikeService struct {
	db    *gorm.DB
	users *IdentityService
	log   *zap.Logger

	// toggles in flight, keyed by user:post
	inflight singleflight.Group
	// onShared runs inside each coalesced toggle before it touches the store
	onShared func()
}

func NewLikeService(db *gorm.DB, users *IdentityService, log *zap.Logger) *LikeService {
	return &LikeService{db: db, users: users, log: log}
}

// ToggleLike flips whether actingUserID likes postID.
//
// Simultaneous toggles by the same user on the same post are one click
// delivered twice: they share a single toggle and all callers get its
// result. Toggles that arrive after it finishes alternate as usual.
func (s *LikeService) ToggleLike(ctx context.Context, actingUserID, postID uint) (LikeResult, error) {
	if actingUserID == 0 {
		return LikeResult{}, ErrNotAuthenticated
	}
	key := fmt.Sprintf("%d:%d", actingUserID, postID)
	v, err, shared := s.inflight.Do(key, func() (interface{}, error) {
		if s.onShared != nil {
			s.onShared()
		}
		// the result belongs to every waiter, not only the caller that started it
		return s.toggle(context.WithoutCancel(ctx), actingUserID, postID)
	})
	if err != nil {
		return LikeResult{}, err
	}
	if shared {
		s.log.Debug("like toggle shared",
			zap.Uint("user_id", actingUserID), zap.Uint("post_id", postID))
	}
	return v.(LikeResult), nil
}

// toggle derives the intent from current membership and applies it under
// the post row lock, moving like_count by exactly the rows changed.
func (s *LikeService) toggle(ctx context.Context, actingUserID, postID uint) (LikeResult, error) {
	actor, err := s.users.FindByID(ctx, actingUserID)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return LikeResult{}, ErrNotAuthenticated
		}
		return LikeResult{}, err
	}

	var post models.Post
	if err := s.db.WithContext(ctx).First(&post, postID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return LikeResult{}, ErrPostNotFound
		}
		return LikeResult{}, fmt.Errorf("load post: %w", err)
	}
	if post.AuthorUsername == actor.Username {
		return LikeResult{}, ErrSelfLike
	}

	liked, err := s.HasLiked(ctx, actor.ID, []uint{postID})
	if err != nil {
		return LikeResult{}, err
	}
	return s.apply(ctx, actor.ID, postID, !liked[postID])
}

// apply makes the like state equal want. It is idempotent: repeating it
// changes neither the row nor the counter.
func (s *LikeService) apply(ctx context.Context, userID, postID uint, want bool) (LikeResult, error) {
	var res LikeResult
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var post models.Post
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&post, postID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrPostNotFound
			}
			return fmt.Errorf("lock post: %w", err)
		}

		var delta int
		if want {
			r := tx.Clauses(clause.OnConflict{DoNothing: true}).
				Create(&models.Like{UserID: userID, PostID: postID})
			if r.Error != nil {
				return fmt.Errorf("insert like: %w", r.Error)
			}
			delta = int(r.RowsAffected)
		} else {
			r := tx.Where("user_id = ? AND post_id = ?", userID, postID).Delete(&models.Like{})
			if r.Error != nil {
				return fmt.Errorf("delete like: %w", r.Error)
			}
			delta = -int(r.RowsAffected)
		}

		if delta != 0 {
			if err := tx.Model(&models.Post{}).Where("id = ?", postID).
				UpdateColumn("like_count", gorm.Expr("like_count + ?", delta)).Error; err != nil {
				return fmt.Errorf("update like count: %w", err)
			}
			post.LikeCount += delta
		} else {
			// lost a race: the row was already in the wanted state
			s.log.Debug("like toggle converged without change",
				zap.Uint("user_id", userID), zap.Uint("post_id", postID), zap.Bool("liked", want))
		}

		res = LikeResult{Liked: want, LikeCount: post.LikeCount}
		return nil
	})
	if err != nil {
		return LikeResult{}, err
	}
	return res, nil
}

// HasLiked reports which of postIDs userID currently likes.
func (s *LikeService) HasLiked(ctx context.Context, userID uint, postIDs []uint) (map[uint]bool, error) {
	out := make(map[uint]bool, len(postIDs))
	if userID == 0 || len(postIDs) == 0 {
		return out, nil
	}
	var ids []uint
	if err := s.db.WithContext(ctx).Model(&models.Like{}).
		Where("user_id = ? AND post_id IN ?", userID, postIDs).
		Pluck("post_id", &ids).Error; err != nil {
		return nil, fmt.Errorf("load likes: %w", err)
	}
	for _, id := range ids {
		out[id] = true
	}
	return out, nil
}

// Reconcile recomputes like_count for postID from the likes table.
func (s *LikeService) Reconcile(ctx context.Context, postID uint) (int, error) {
	var count int64
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&models.Post{}, postID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrPostNotFound
			}
			return fmt.Errorf("lock post: %w", err)
		}
		if err := tx.Model(&models.Like{}).Where("post_id = ?", postID).Count(&count).Error; err != nil {
			return fmt.Errorf("count likes: %w", err)
		}
		return tx.Model(&models.Post{}).Where("id = ?", postID).UpdateColumn("like_count", count).Error
	})
	if err != nil {
		return 0, err
	}
	return int(count), nil
}
