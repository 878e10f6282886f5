package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"sharestuff/internal/config"
	"sharestuff/internal/db"
	"sharestuff/internal/logger"
	"sharestuff/internal/router"
	"sharestuff/internal/services"

	"go.uber.org/zap"
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
	users := services.NewIdentityService(gdb, avatars, zl.Named("identity"))
	likes := services.NewLikeService(gdb, users, zl.Named("likes"))
	svc := router.Services{
		Users:    users,
		Likes:    likes,
		Posts:    services.NewPostService(gdb, users, likes, zl.Named("posts")),
		Comments: services.NewCommentService(gdb, users),
	}

	render, err := router.LoadTemplates(cfg.TemplatesDir)
	if err != nil {
		zl.Fatal("load templates", zap.Error(err))
	}
	r := router.New(cfg, svc, render, zl)

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  60 * time.Second,
		WriteTimeout: 60 * time.Second,
	}

	go func() {
		zl.Info("server starting", zap.String("app", cfg.AppName), zap.String("addr", srv.Addr), zap.String("site", cfg.SiteURL))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			zl.Fatal("listen", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit
	zl.Info("shutting down", zap.String("signal", sig.String()))

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		zl.Error("HTTP server shutdown error", zap.Error(err))
	}
	if sqlDB, err := gdb.DB(); err == nil {
		sqlDB.Close()
	}
	zl.Info("server stopped")
}
