package router

import (
	"strings"
	"time"

	"sharestuff/internal/config"
	"sharestuff/internal/handlers"
	"sharestuff/internal/middleware"
	"sharestuff/internal/services"

	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/gzip"
	"github.com/gin-contrib/multitemplate"
	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Services bundles the domain services the handlers depend on.
type Services struct {
	Users    *services.IdentityService
	Likes    *services.LikeService
	Posts    *services.PostService
	Comments *services.CommentService
}

// New builds the engine with middleware, sessions, views and routes.
func New(cfg config.AppConfig, svc Services, render multitemplate.Renderer, log *zap.Logger) *gin.Engine {
	switch strings.ToLower(cfg.GinMode) {
	case "debug":
		gin.SetMode(gin.DebugMode)
	case "test":
		gin.SetMode(gin.TestMode)
	default:
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(middleware.Ginzap(log.Named("http")))
	r.Use(middleware.RecoveryWithZap(log))
	// pages, feed and static assets; JSON and images stay uncompressed
	r.Use(gzip.Gzip(gzip.DefaultCompression,
		gzip.WithExcludedExtensions([]string{".png", ".jpg", ".gif"}),
		gzip.WithExcludedPaths([]string{"/like/", "/delete/", "/posts/", "/avatar/", "/images/", "/healthz"}),
	))

	store := cookie.NewStore([]byte(cfg.SessionSecret))
	store.Options(sessions.Options{
		Path:     "/",
		MaxAge:   86400 * 7,
		HttpOnly: true,
		Secure:   strings.HasPrefix(cfg.SiteURL, "https://"),
	})
	r.Use(sessions.Sessions(cfg.SessionName, store))

	r.HTMLRender = render
	r.Static("/static", cfg.StaticDir)
	r.Static("/images", cfg.AvatarDir)

	r.Use(middleware.LoadUser(svc.Users, log))
	RegisterRoutes(r, cfg, svc, log)
	return r
}

func RegisterRoutes(r *gin.Engine, cfg config.AppConfig, svc Services, log *zap.Logger) {
	authHandler := handlers.NewAuthHandler(svc.Users, cfg, log)
	postHandler := handlers.NewPostHandler(svc.Posts, log)
	likeHandler := handlers.NewLikeHandler(svc.Likes, log)
	commentHandler := handlers.NewCommentHandler(svc.Comments, log)
	avatarHandler := handlers.NewAvatarHandler(svc.Users, log)
	seoHandler := handlers.NewSEOHandler(svc.Posts, cfg.SiteURL, cfg.AppName, log)

	limit := middleware.RateLimit(cfg.RateLimitPerMinute)

	corsCfg := cors.Config{
		AllowMethods:     []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Content-Type"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	if len(cfg.AllowedOrigins) == 0 || (len(cfg.AllowedOrigins) == 1 && cfg.AllowedOrigins[0] == "*") {
		corsCfg.AllowAllOrigins = true
		corsCfg.AllowCredentials = false
	} else {
		corsCfg.AllowOrigins = cfg.AllowedOrigins
	}
	withCORS := cors.New(corsCfg)

	// 公共路由 (Public Routes)
	r.GET("/", postHandler.Home)
	r.GET("/healthz", handlers.Healthz)
	r.GET("/error", handlers.ErrorPage)
	r.GET("/avatar/:username", avatarHandler.Serve)
	r.GET("/robots.txt", seoHandler.RobotsTxt)
	r.GET("/feed.xml", seoHandler.RSSFeed)
	r.GET("/terms-of-service.html", handlers.StaticPage("legal/terms.html"))
	r.GET("/privacy-policy.html", handlers.StaticPage("legal/privacy.html"))

	r.GET("/register", authHandler.ShowRegister)
	r.POST("/register", limit, authHandler.Register)
	r.GET("/login", authHandler.ShowLogin)
	r.POST("/login", limit, authHandler.Login)
	r.GET("/logout", authHandler.Logout)
	r.GET("/registerUsername", authHandler.ShowRegisterUsername)
	r.POST("/registerUsername", limit, authHandler.RegisterUsername)
	r.GET("/auth/google", authHandler.GoogleLogin)
	r.GET("/auth/google/callback", authHandler.GoogleCallback)

	// JSON endpoints; services reject anonymous callers themselves
	api := r.Group("/", withCORS)
	{
		api.OPTIONS("/like/:id")
		api.OPTIONS("/delete/:id")
		api.OPTIONS("/posts/:id/comments")

		api.POST("/like/:id", limit, likeHandler.Toggle)
		api.DELETE("/delete/:id", limit, postHandler.Delete)
		api.GET("/posts/:id/comments", commentHandler.List)
		api.POST("/posts/:id/comments", limit, commentHandler.Create)
	}

	// 受保护路由 (Protected Routes)
	authorized := r.Group("/", middleware.AuthRequired())
	{
		authorized.POST("/posts", limit, postHandler.Create)
		authorized.GET("/profile", postHandler.Profile)
	}
}
