package handlers

import (
	"errors"
	"net/http"

	"sharestuff/internal/config"
	"sharestuff/internal/middleware"
	"sharestuff/internal/models"
	"sharestuff/internal/services"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"golang.org/x/oauth2"
)

type AuthHandler struct {
	users       *services.IdentityService
	log         *zap.Logger
	oauth       *oauth2.Config
	userInfoURL string
}

func NewAuthHandler(users *services.IdentityService, cfg config.AppConfig, log *zap.Logger) *AuthHandler {
	return &AuthHandler{
		users:       users,
		log:         log,
		oauth:       newGoogleOAuthConfig(cfg),
		userInfoURL: googleUserInfoURL,
	}
}

// login stores the user in the session and drops any pending identity.
func login(c *gin.Context, user *models.User) error {
	session := sessions.Default(c)
	session.Delete(middleware.SessionIdentityHash)
	session.Set(middleware.SessionUserID, user.ID)
	return session.Save()
}

func (h *AuthHandler) ShowLogin(c *gin.Context) {
	Render(c, http.StatusOK, "auth/login.html", nil)
}

func (h *AuthHandler) ShowRegister(c *gin.Context) {
	Render(c, http.StatusOK, "auth/login.html", gin.H{"ShowRegister": true})
}

// Register creates a local account and logs it in.
func (h *AuthHandler) Register(c *gin.Context) {
	username := c.PostForm("username")
	user, err := h.users.RegisterLocal(c.Request.Context(), username, c.PostForm("password"))
	if err != nil {
		code := statusOf(err)
		if code == http.StatusInternalServerError {
			h.log.Error("local registration failed", zap.String("username", username), zap.Error(err))
		}
		Render(c, code, "auth/login.html", gin.H{
			"ShowRegister": true,
			"RegError":     messageOf(err),
			"Username":     username,
		})
		return
	}
	if err := login(c, user); err != nil {
		PageError(c, h.log, err)
		return
	}
	c.Redirect(http.StatusFound, "/")
}

func (h *AuthHandler) Login(c *gin.Context) {
	username := c.PostForm("username")
	user, err := h.users.Authenticate(c.Request.Context(), username, c.PostForm("password"))
	if err != nil {
		code := statusOf(err)
		if code == http.StatusInternalServerError {
			h.log.Error("login failed", zap.String("username", username), zap.Error(err))
		}
		Render(c, code, "auth/login.html", gin.H{"LoginError": messageOf(err), "Username": username})
		return
	}
	h.users.EnsureAvatar(c.Request.Context(), user)
	if err := login(c, user); err != nil {
		PageError(c, h.log, err)
		return
	}
	c.Redirect(http.StatusFound, "/")
}

func (h *AuthHandler) Logout(c *gin.Context) {
	session := sessions.Default(c)
	session.Clear()
	session.Options(sessions.Options{Path: "/", MaxAge: -1})
	_ = session.Save()
	c.Redirect(http.StatusFound, "/")
}

// ShowRegisterUsername asks a first-time Google user to pick a username.
func (h *AuthHandler) ShowRegisterUsername(c *gin.Context) {
	if _, ok := sessions.Default(c).Get(middleware.SessionIdentityHash).(string); !ok {
		c.Redirect(http.StatusFound, "/auth/google")
		return
	}
	Render(c, http.StatusOK, "auth/register_username.html", nil)
}

func (h *AuthHandler) RegisterUsername(c *gin.Context) {
	hash, _ := sessions.Default(c).Get(middleware.SessionIdentityHash).(string)
	username := c.PostForm("username")

	user, err := h.users.RegisterUsername(c.Request.Context(), hash, username)
	switch {
	case errors.Is(err, services.ErrMissingIdentity):
		c.Redirect(http.StatusFound, "/auth/google")
		return
	case err != nil:
		code := statusOf(err)
		if code == http.StatusInternalServerError {
			h.log.Error("username registration failed", zap.String("username", username), zap.Error(err))
		}
		Render(c, code, "auth/register_username.html", gin.H{"Error": messageOf(err), "Username": username})
		return
	}

	if err := login(c, user); err != nil {
		PageError(c, h.log, err)
		return
	}
	c.Redirect(http.StatusFound, "/")
}
