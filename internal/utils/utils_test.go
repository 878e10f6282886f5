package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseID(t *testing.T) {
	id, ok := ParseID("42")
	assert.True(t, ok)
	assert.Equal(t, uint(42), id)

	for _, s := range []string{"", "0", "-1", "abc", "1.5"} {
		_, ok := ParseID(s)
		assert.False(t, ok, s)
	}
}

func TestNormalizeUsername(t *testing.T) {
	name, ok := NormalizeUsername("  alice_01 ")
	assert.True(t, ok)
	assert.Equal(t, "alice_01", name)

	_, ok = NormalizeUsername("Zoë")
	assert.True(t, ok)

	for _, s := range []string{"", "   ", "../etc", "a.b", "a/b", "has space", "abcdefghijklmnopqrstuvwxyz0123456"} {
		_, ok := NormalizeUsername(s)
		assert.False(t, ok, s)
	}
}

func TestAvatarLetter(t *testing.T) {
	assert.Equal(t, "A", AvatarLetter("alice"))
	assert.Equal(t, "É", AvatarLetter("émile"))
	assert.Equal(t, "?", AvatarLetter(""))
}

func TestPasswordHash(t *testing.T) {
	hash, err := HashPassword("secret123")
	require.NoError(t, err)
	assert.True(t, CheckPasswordHash("secret123", hash))
	assert.False(t, CheckPasswordHash("wrong", hash))
}

func TestRenderPost(t *testing.T) {
	out := string(RenderPost("# Title\n\n**bold** <script>alert(1)</script>\n\n![x](http://img.test/a.png)"))
	assert.Contains(t, out, "<strong>bold</strong>")
	assert.NotContains(t, out, "<script>")
	assert.NotContains(t, out, "<h1")
	assert.Contains(t, out, "<h4")
	assert.Contains(t, out, `loading="lazy"`)
	assert.Contains(t, out, `referrerpolicy="no-referrer"`)

	assert.Equal(t, "", string(RenderPost("")))
}

func TestSanitizeComment(t *testing.T) {
	assert.Equal(t, "hi", SanitizeComment("<script>alert(1)</script>hi"))
	assert.Equal(t, "<b>great</b>", SanitizeComment("  <b>great</b> "))
	assert.Equal(t, "link", SanitizeComment(`<a href="http://x.test">link</a>`))
	assert.Equal(t, "", SanitizeComment("<img src=x onerror=alert(1)>"))
}
