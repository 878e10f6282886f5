package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"sharestuff/internal/config"
	"sharestuff/internal/middleware"
	"sharestuff/internal/services"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
)

const googleUserInfoURL = "https://www.googleapis.com/oauth2/v2/userinfo"

// newGoogleOAuthConfig 初始化 Google OAuth 配置
func newGoogleOAuthConfig(cfg config.AppConfig) *oauth2.Config {
	return &oauth2.Config{
		ClientID:     cfg.GoogleClientID,
		ClientSecret: cfg.GoogleClientSecret,
		RedirectURL:  cfg.SiteURL + "/auth/google/callback",
		Scopes:       []string{"https://www.googleapis.com/auth/userinfo.profile"},
		Endpoint:     google.Endpoint,
	}
}

// GoogleUserInfo is the subset of the userinfo response we use.
type GoogleUserInfo struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// GoogleLogin 发起 Google OAuth 登录
func (h *AuthHandler) GoogleLogin(c *gin.Context) {
	state := uuid.NewString()

	session := sessions.Default(c)
	session.Set(middleware.SessionOAuthState, state)
	if err := session.Save(); err != nil {
		PageError(c, h.log, err)
		return
	}
	c.Redirect(http.StatusTemporaryRedirect, h.oauth.AuthCodeURL(state))
}

// GoogleCallback resolves the Google subject to a local user. Known
// identities are logged in; new ones are parked in the session until they
// pick a username.
func (h *AuthHandler) GoogleCallback(c *gin.Context) {
	session := sessions.Default(c)
	savedState, _ := session.Get(middleware.SessionOAuthState).(string)
	if savedState == "" || c.Query("state") != savedState {
		Render(c, http.StatusBadRequest, "auth/login.html", gin.H{"LoginError": "Invalid OAuth state, please try again."})
		return
	}
	session.Delete(middleware.SessionOAuthState)

	code := c.Query("code")
	if code == "" {
		_ = session.Save()
		c.Redirect(http.StatusFound, "/login")
		return
	}

	ctx := c.Request.Context()
	token, err := h.oauth.Exchange(ctx, code)
	if err != nil {
		h.log.Warn("oauth exchange failed", zap.Error(err))
		_ = session.Save()
		Render(c, http.StatusBadGateway, "auth/login.html", gin.H{"LoginError": "Google sign-in failed."})
		return
	}

	info, err := h.fetchUserInfo(c, token)
	if err != nil {
		h.log.Warn("fetch google userinfo failed", zap.Error(err))
		_ = session.Save()
		Render(c, http.StatusBadGateway, "auth/login.html", gin.H{"LoginError": "Google sign-in failed."})
		return
	}

	hash := services.Resolve(info.ID)
	user, err := h.users.FindByIdentityHash(ctx, hash)
	switch {
	case errors.Is(err, services.ErrUserNotFound):
		session.Set(middleware.SessionIdentityHash, hash)
		if err := session.Save(); err != nil {
			PageError(c, h.log, err)
			return
		}
		c.Redirect(http.StatusFound, "/registerUsername")
		return
	case err != nil:
		PageError(c, h.log, err)
		return
	}

	h.users.EnsureAvatar(ctx, user)
	if err := login(c, user); err != nil {
		PageError(c, h.log, err)
		return
	}
	c.Redirect(http.StatusFound, "/")
}

func (h *AuthHandler) fetchUserInfo(c *gin.Context, token *oauth2.Token) (*GoogleUserInfo, error) {
	resp, err := h.oauth.Client(c.Request.Context(), token).Get(h.userInfoURL)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("userinfo status %d", resp.StatusCode)
	}
	var info GoogleUserInfo
	if err := json.NewDecoder(resp.Body).Decode(&info); err != nil {
		return nil, err
	}
	if info.ID == "" {
		return nil, errors.New("userinfo without subject id")
	}
	return &info, nil
}
