package services

import (
	"context"
	"testing"

	"sharestuff/internal/db"
	"sharestuff/internal/models"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type testEnv struct {
	db       *gorm.DB
	avatars  *AvatarService
	users    *IdentityService
	likes    *LikeService
	posts    *PostService
	comments *CommentService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	log := zap.NewNop()
	gdb, err := db.Open("sqlite", ":memory:", log)
	require.NoError(t, err)
	t.Cleanup(func() {
		if sqlDB, err := gdb.DB(); err == nil {
			sqlDB.Close()
		}
	})

	avatars, err := NewAvatarService(t.TempDir())
	require.NoError(t, err)
	users := NewIdentityService(gdb, avatars, log)
	likes := NewLikeService(gdb, users, log)
	return &testEnv{
		db:       gdb,
		avatars:  avatars,
		users:    users,
		likes:    likes,
		posts:    NewPostService(gdb, users, likes, log),
		comments: NewCommentService(gdb, users),
	}
}

func (e *testEnv) mustUser(t *testing.T, username string) *models.User {
	t.Helper()
	u, err := e.users.RegisterUsername(context.Background(), Resolve("google-"+username), username)
	require.NoError(t, err)
	return u
}

func (e *testEnv) mustPost(t *testing.T, author *models.User, title string) *models.Post {
	t.Helper()
	p, err := e.posts.CreatePost(context.Background(), author.ID, title, "body of "+title)
	require.NoError(t, err)
	return p
}

func (e *testEnv) likeRows(t *testing.T, postID uint) int {
	t.Helper()
	var n int64
	require.NoError(t, e.db.Model(&models.Like{}).Where("post_id = ?", postID).Count(&n).Error)
	return int(n)
}

func (e *testEnv) storedCount(t *testing.T, postID uint) int {
	t.Helper()
	var p models.Post
	require.NoError(t, e.db.First(&p, postID).Error)
	return p.LikeCount
}

func (e *testEnv) userCount(t *testing.T) int {
	t.Helper()
	var n int64
	require.NoError(t, e.db.Model(&models.User{}).Count(&n).Error)
	return int(n)
}
