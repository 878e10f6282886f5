package middleware

import (
	"errors"
	"net/http"

	"sharestuff/internal/models"
	"sharestuff/internal/services"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const CheckUserKey = "user"

// Session keys.
const (
	SessionUserID       = "user_id"
	SessionIdentityHash = "identity_hash" // pending Google identity awaiting a username
	SessionOAuthState   = "oauth_state"
)

// AuthRequired ensures a user is logged in
func AuthRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, exists := c.Get(CheckUserKey); !exists {
			c.Redirect(http.StatusFound, "/login")
			c.Abort()
			return
		}
		c.Next()
	}
}

// LoadUser retrieves user from session and sets to context.
// Only a cookie naming a user that no longer exists is cleared; a failed
// lookup leaves the session alone and the request proceeds anonymously.
func LoadUser(users *services.IdentityService, log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		session := sessions.Default(c)
		id, ok := session.Get(SessionUserID).(uint)
		if !ok || id == 0 {
			c.Next()
			return
		}

		user, err := users.FindByID(c.Request.Context(), id)
		switch {
		case err == nil:
			c.Set(CheckUserKey, user)
		case errors.Is(err, services.ErrUserNotFound):
			session.Delete(SessionUserID)
			_ = session.Save()
		default:
			log.Error("load session user", zap.Uint("user_id", id), zap.Error(err))
		}
		c.Next()
	}
}

// CurrentUser returns the logged in user, or nil.
func CurrentUser(c *gin.Context) *models.User {
	if v, ok := c.Get(CheckUserKey); ok {
		if u, ok := v.(*models.User); ok {
			return u
		}
	}
	return nil
}

// CurrentUserID returns the acting user id, 0 when anonymous.
func CurrentUserID(c *gin.Context) uint {
	if u := CurrentUser(c); u != nil {
		return u.ID
	}
	return 0
}
