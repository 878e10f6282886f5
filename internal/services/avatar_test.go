package services

import (
	"bytes"
	"image/png"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateAvatar(t *testing.T) {
	svc, err := NewAvatarService(t.TempDir())
	require.NoError(t, err)

	b, err := svc.Generate("A", AvatarSize, AvatarSize)
	require.NoError(t, err)

	img, err := png.Decode(bytes.NewReader(b))
	require.NoError(t, err)
	assert.Equal(t, 100, img.Bounds().Dx())
	assert.Equal(t, 100, img.Bounds().Dy())

	r, g, bl, a := img.At(0, 0).RGBA()
	assert.Equal(t, uint32(0xFFFF), r)
	assert.Zero(t, g)
	assert.Zero(t, bl)
	assert.Equal(t, uint32(0xFFFF), a)

	// some glyph pixels must be white
	white := 0
	for y := 0; y < 100; y++ {
		for x := 0; x < 100; x++ {
			r, g, b, _ := img.At(x, y).RGBA()
			if r == 0xFFFF && g == 0xFFFF && b == 0xFFFF {
				white++
			}
		}
	}
	assert.Positive(t, white)

	again, err := svc.Generate("A", AvatarSize, AvatarSize)
	require.NoError(t, err)
	assert.Equal(t, b, again)

	other, err := svc.Generate("B", AvatarSize, AvatarSize)
	require.NoError(t, err)
	assert.NotEqual(t, b, other)
}

func TestStoreAvatar(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "images")
	svc, err := NewAvatarService(dir)
	require.NoError(t, err)

	var wg sync.WaitGroup
	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, url, err := svc.Store("alice")
			assert.NoError(t, err)
			assert.Equal(t, "images/alice.png", url)
		}()
	}
	wg.Wait()

	b, _, err := svc.Store("alice")
	require.NoError(t, err)
	onDisk, err := os.ReadFile(filepath.Join(dir, "alice.png"))
	require.NoError(t, err)
	assert.Equal(t, b, onDisk)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "alice.png", entries[0].Name())
}
