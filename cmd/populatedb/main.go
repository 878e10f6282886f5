// Command populatedb creates the schema and inserts sample users and posts.
package main

import (
	"context"
	"errors"
	"log"
	"time"

	"sharestuff/internal/config"
	"sharestuff/internal/db"
	"sharestuff/internal/logger"
	"sharestuff/internal/models"
	"sharestuff/internal/services"
	"sharestuff/internal/utils"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

type sampleUser struct {
	Username    string
	ExternalID  string
	Password    string
	MemberSince time.Time
}

type samplePost struct {
	Title     string
	Content   string
	Username  string
	Timestamp time.Time
}

var (
	sampleUsers = []sampleUser{
		{"user1", "google-sample-1", "password1", time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)},
		{"user2", "google-sample-2", "password2", time.Date(2024, 1, 2, 12, 0, 0, 0, time.UTC)},
	}
	samplePosts = []samplePost{
		{"First Post", "This is the first post", "user1", time.Date(2024, 1, 1, 12, 30, 0, 0, time.UTC)},
		{"Second Post", "This is the second post", "user2", time.Date(2024, 1, 2, 12, 30, 0, 0, time.UTC)},
	}
)

func main() {
	cfg := config.Load()
	zl, err := logger.New(cfg)
	if err != nil {
		log.Fatalf("init logger: %v", err)
	}
	defer zl.Sync()

	gdb, err := db.Open(cfg.DBDriver, cfg.DatabaseURL, zl)
	if err != nil {
		zl.Fatal("open database", zap.Error(err))
	}
	avatars, err := services.NewAvatarService(cfg.AvatarDir)
	if err != nil {
		zl.Fatal("init avatars", zap.Error(err))
	}
	users := services.NewIdentityService(gdb, avatars, zl)
	likes := services.NewLikeService(gdb, users, zl)

	if err := populate(context.Background(), gdb, users, likes); err != nil {
		zl.Fatal("populate database", zap.Error(err))
	}
	zl.Info("Database populated with initial data.")
}

func populate(ctx context.Context, gdb *gorm.DB, users *services.IdentityService, likes *services.LikeService) error {
	for _, su := range sampleUsers {
		u, err := users.RegisterUsername(ctx, services.Resolve(su.ExternalID), su.Username)
		if errors.Is(err, services.ErrIdentityRegistered) || errors.Is(err, services.ErrUsernameTaken) {
			continue
		}
		if err != nil {
			return err
		}
		// sample accounts can also sign in with the local form
		hashed, err := utils.HashPassword(su.Password)
		if err != nil {
			return err
		}
		if err := gdb.Model(u).UpdateColumns(map[string]interface{}{
			"created_at": su.MemberSince,
			"credential": hashed,
		}).Error; err != nil {
			return err
		}
	}

	for _, sp := range samplePosts {
		var n int64
		if err := gdb.Model(&models.Post{}).Where("title = ? AND author_username = ?", sp.Title, sp.Username).Count(&n).Error; err != nil {
			return err
		}
		if n > 0 {
			continue
		}
		p := models.Post{Title: sp.Title, Body: sp.Content, AuthorUsername: sp.Username, CreatedAt: sp.Timestamp}
		if err := gdb.Create(&p).Error; err != nil {
			return err
		}
		if _, err := likes.Reconcile(ctx, p.ID); err != nil {
			return err
		}
	}
	return nil
}
