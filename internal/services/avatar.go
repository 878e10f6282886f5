package services

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"

	"sharestuff/internal/utils"

	"github.com/google/uuid"
	lru "github.com/hashicorp/golang-lru/v2"
	"golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/font/sfnt"
	"golang.org/x/image/math/fixed"
)

const (
	AvatarSize      = 100
	avatarCacheSize = 256
)

var avatarBackground = color.RGBA{R: 0xFF, A: 0xFF}

// AvatarService renders letter avatars and stores them as {username}.png.
type AvatarService struct {
	dir   string
	font  *sfnt.Font
	cache *lru.Cache[string, []byte] // letter:WxH -> PNG
}

func NewAvatarService(dir string) (*AvatarService, error) {
	f, err := opentype.Parse(gobold.TTF)
	if err != nil {
		return nil, fmt.Errorf("parse avatar font: %w", err)
	}
	cache, err := lru.New[string, []byte](avatarCacheSize)
	if err != nil {
		return nil, err
	}
	return &AvatarService{dir: dir, font: f, cache: cache}, nil
}

// Generate returns a PNG with the letter in white on a red square.
// Output depends only on the arguments, so it is cached.
func (s *AvatarService) Generate(letter string, width, height int) ([]byte, error) {
	key := fmt.Sprintf("%s:%dx%d", letter, width, height)
	if b, ok := s.cache.Get(key); ok {
		return b, nil
	}

	// opentype faces are not safe for concurrent use, so each call gets its own
	face, err := opentype.NewFace(s.font, &opentype.FaceOptions{
		Size:    45 * float64(height) / AvatarSize,
		DPI:     72,
		Hinting: font.HintingFull,
	})
	if err != nil {
		return nil, fmt.Errorf("avatar face: %w", err)
	}
	defer face.Close()

	img := image.NewRGBA(image.Rect(0, 0, width, height))
	draw.Draw(img, img.Bounds(), &image.Uniform{C: avatarBackground}, image.Point{}, draw.Src)

	d := &font.Drawer{
		Dst:  img,
		Src:  image.White,
		Face: face,
		Dot:  fixed.P(width/3, int(float64(height)/1.5)),
	}
	d.DrawString(letter)

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("encode avatar: %w", err)
	}
	b := buf.Bytes()
	s.cache.Add(key, b)
	return b, nil
}

// Store renders the avatar for username and writes it to disk. Returns the
// image bytes and the path relative to the static root.
func (s *AvatarService) Store(username string) ([]byte, string, error) {
	b, err := s.Generate(utils.AvatarLetter(username), AvatarSize, AvatarSize)
	if err != nil {
		return nil, "", err
	}
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return nil, "", fmt.Errorf("create avatar dir: %w", err)
	}

	filename := username + ".png"
	// write then rename so concurrent writers never expose a partial file
	tmp := filepath.Join(s.dir, "."+uuid.NewString()+".tmp")
	if err := os.WriteFile(tmp, b, 0o644); err != nil {
		return nil, "", fmt.Errorf("write avatar: %w", err)
	}
	if err := os.Rename(tmp, filepath.Join(s.dir, filename)); err != nil {
		os.Remove(tmp)
		return nil, "", fmt.Errorf("rename avatar: %w", err)
	}
	return b, "images/" + filename, nil
}
