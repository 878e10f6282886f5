package services

import (
	"context"
	"strings"
	"testing"
	"time"

	"sharestuff/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreatePost(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	a := env.mustUser(t, "alice")

	p, err := env.posts.CreatePost(ctx, a.ID, "  Hello  ", "first body")
	require.NoError(t, err)
	assert.Equal(t, "Hello", p.Title)
	assert.Equal(t, "alice", p.AuthorUsername)
	assert.Equal(t, 0, p.LikeCount)
	assert.NotZero(t, p.ID)

	_, err = env.posts.CreatePost(ctx, 0, "t", "b")
	assert.ErrorIs(t, err, ErrNotAuthenticated)

	_, err = env.posts.CreatePost(ctx, a.ID, " ", "b")
	assert.Equal(t, KindInvalidInput, KindOf(err))

	_, err = env.posts.CreatePost(ctx, a.ID, "t", "")
	assert.Equal(t, KindInvalidInput, KindOf(err))

	_, err = env.posts.CreatePost(ctx, a.ID, strings.Repeat("x", maxTitleLength+1), "b")
	assert.Equal(t, KindInvalidInput, KindOf(err))
}

func TestDeletePostNotOwner(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	a := env.mustUser(t, "alice")
	b := env.mustUser(t, "bob")
	c := env.mustUser(t, "carol")
	p := env.mustPost(t, a, "keep me")

	_, err := env.likes.ToggleLike(ctx, c.ID, p.ID)
	require.NoError(t, err)

	err = env.posts.DeletePost(ctx, b.ID, p.ID)
	assert.ErrorIs(t, err, ErrNotAuthorized)
	assert.Equal(t, KindNotAuthorized, KindOf(err))

	assert.Equal(t, 1, env.storedCount(t, p.ID))
	assert.Equal(t, 1, env.likeRows(t, p.ID))

	assert.ErrorIs(t, env.posts.DeletePost(ctx, 0, p.ID), ErrNotAuthenticated)
	assert.ErrorIs(t, env.posts.DeletePost(ctx, a.ID, p.ID+50), ErrPostNotFound)
}

func TestDeletePostCascades(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	a := env.mustUser(t, "alice")
	b := env.mustUser(t, "bob")
	p := env.mustPost(t, a, "gone soon")
	other := env.mustPost(t, a, "stays")

	_, err := env.likes.ToggleLike(ctx, b.ID, p.ID)
	require.NoError(t, err)
	_, err = env.likes.ToggleLike(ctx, b.ID, other.ID)
	require.NoError(t, err)
	_, err = env.comments.CreateComment(ctx, b.ID, p.ID, "nice")
	require.NoError(t, err)

	require.NoError(t, env.posts.DeletePost(ctx, a.ID, p.ID))

	var n int64
	require.NoError(t, env.db.Model(&models.Post{}).Where("id = ?", p.ID).Count(&n).Error)
	assert.Zero(t, n)
	assert.Zero(t, env.likeRows(t, p.ID))
	comments, err := env.comments.ListComments(ctx, p.ID)
	require.NoError(t, err)
	assert.Empty(t, comments)

	assert.Equal(t, 1, env.likeRows(t, other.ID))
	assert.Equal(t, 1, env.storedCount(t, other.ID))

	assert.ErrorIs(t, env.posts.DeletePost(ctx, a.ID, p.ID), ErrPostNotFound)
}

func TestListPosts(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	a := env.mustUser(t, "alice")
	b := env.mustUser(t, "bob")
	older := env.mustPost(t, a, "older")
	newer := env.mustPost(t, b, "newer")
	require.NoError(t, env.db.Model(&models.Post{}).Where("id = ?", older.ID).
		UpdateColumn("created_at", time.Now().Add(-time.Hour)).Error)

	_, err := env.likes.ToggleLike(ctx, b.ID, older.ID)
	require.NoError(t, err)

	posts, err := env.posts.ListPosts(ctx, b.ID)
	require.NoError(t, err)
	require.Len(t, posts, 2)
	assert.Equal(t, newer.ID, posts[0].ID)
	assert.Equal(t, older.ID, posts[1].ID)

	assert.True(t, posts[0].UserCanEdit)
	assert.False(t, posts[0].UserHasLiked)
	assert.False(t, posts[1].UserCanEdit)
	assert.True(t, posts[1].UserHasLiked)
	assert.Equal(t, 1, posts[1].LikeCount)
	assert.Equal(t, "images/alice.png", posts[1].AvatarURL)

	anon, err := env.posts.ListPosts(ctx, 0)
	require.NoError(t, err)
	for _, p := range anon {
		assert.False(t, p.UserCanEdit)
		assert.False(t, p.UserHasLiked)
	}
}

func TestListPostsEmpty(t *testing.T) {
	env := newTestEnv(t)
	posts, err := env.posts.ListPosts(context.Background(), 0)
	require.NoError(t, err)
	assert.Empty(t, posts)
}

func TestListByAuthor(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	a := env.mustUser(t, "alice")
	b := env.mustUser(t, "bob")
	env.mustPost(t, a, "a1")
	env.mustPost(t, b, "b1")
	env.mustPost(t, a, "a2")

	posts, err := env.posts.ListByAuthor(ctx, a.ID, "alice")
	require.NoError(t, err)
	require.Len(t, posts, 2)
	for _, p := range posts {
		assert.Equal(t, "alice", p.AuthorUsername)
		assert.True(t, p.UserCanEdit)
	}
	assert.Equal(t, "a2", posts[0].Title)
}

func TestCreatePostTitleCountsCharacters(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	a := env.mustUser(t, "alice")

	// 255 characters fit the column even when they take three bytes each
	wide := strings.Repeat("字", maxTitleLength)
	p, err := env.posts.CreatePost(ctx, a.ID, wide, "body")
	require.NoError(t, err)
	assert.Equal(t, wide, p.Title)

	_, err = env.posts.CreatePost(ctx, a.ID, wide+"字", "body")
	assert.Equal(t, KindInvalidInput, KindOf(err))
}

func TestListRecent(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	a := env.mustUser(t, "alice")
	b := env.mustUser(t, "bob")

	var ids []uint
	for i := 0; i < 5; i++ {
		ids = append(ids, env.mustPost(t, a, "post "+strings.Repeat("!", i)).ID)
	}
	_, err := env.likes.ToggleLike(ctx, b.ID, ids[4])
	require.NoError(t, err)

	posts, err := env.posts.ListRecent(ctx, 3)
	require.NoError(t, err)
	require.Len(t, posts, 3)
	assert.Equal(t, []uint{ids[4], ids[3], ids[2]}, []uint{posts[0].ID, posts[1].ID, posts[2].ID})
	assert.Equal(t, 1, posts[0].LikeCount)
	assert.False(t, posts[0].UserHasLiked)

	all, err := env.posts.ListRecent(ctx, 20)
	require.NoError(t, err)
	assert.Len(t, all, 5)

	none, err := env.posts.ListRecent(ctx, 0)
	require.NoError(t, err)
	assert.Empty(t, none)
}
