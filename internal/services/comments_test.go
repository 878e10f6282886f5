package services

import (
	"context"
	"testing"
	"time"

	"sharestuff/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateComment(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	a := env.mustUser(t, "alice")
	b := env.mustUser(t, "bob")
	p := env.mustPost(t, a, "post")

	c, err := env.comments.CreateComment(ctx, b.ID, p.ID, "  <b>great</b><script>alert(1)</script> ")
	require.NoError(t, err)
	assert.Equal(t, "bob", c.AuthorUsername)
	assert.Equal(t, p.ID, c.PostID)
	assert.Equal(t, "<b>great</b>", c.Body)

	// the author may comment on their own post
	_, err = env.comments.CreateComment(ctx, a.ID, p.ID, "thanks")
	require.NoError(t, err)
}

func TestCreateCommentRejections(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	a := env.mustUser(t, "alice")
	p := env.mustPost(t, a, "post")

	_, err := env.comments.CreateComment(ctx, 0, p.ID, "hi")
	assert.ErrorIs(t, err, ErrNotAuthenticated)

	_, err = env.comments.CreateComment(ctx, a.ID, p.ID+1, "hi")
	assert.ErrorIs(t, err, ErrPostNotFound)

	_, err = env.comments.CreateComment(ctx, a.ID, p.ID, "   ")
	assert.Equal(t, KindInvalidInput, KindOf(err))

	_, err = env.comments.CreateComment(ctx, a.ID, p.ID, "<script>x</script>")
	assert.Equal(t, KindInvalidInput, KindOf(err))

	comments, err := env.comments.ListComments(ctx, p.ID)
	require.NoError(t, err)
	assert.Empty(t, comments)
}

func TestListCommentsOldestFirst(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	a := env.mustUser(t, "alice")
	p := env.mustPost(t, a, "post")

	base := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	rows := []models.Comment{
		{PostID: p.ID, AuthorUsername: "alice", Body: "third", CreatedAt: base.Add(2 * time.Minute)},
		{PostID: p.ID, AuthorUsername: "alice", Body: "first", CreatedAt: base},
		{PostID: p.ID, AuthorUsername: "alice", Body: "second", CreatedAt: base.Add(time.Minute)},
		{PostID: p.ID, AuthorUsername: "alice", Body: "second-tie", CreatedAt: base.Add(time.Minute)},
	}
	require.NoError(t, env.db.Create(&rows).Error)

	comments, err := env.comments.ListComments(ctx, p.ID)
	require.NoError(t, err)
	var bodies []string
	for _, c := range comments {
		bodies = append(bodies, c.Body)
	}
	assert.Equal(t, []string{"first", "second", "second-tie", "third"}, bodies)
}

func TestListCommentsUnknownPost(t *testing.T) {
	env := newTestEnv(t)
	comments, err := env.comments.ListComments(context.Background(), 42)
	require.NoError(t, err)
	assert.NotNil(t, comments)
	assert.Empty(t, comments)
}
