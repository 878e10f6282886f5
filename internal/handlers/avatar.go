package handlers

import (
	"net/http"

	"sharestuff/internal/services"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// AvatarHandler serves generated letter avatars.
type AvatarHandler struct {
	users *services.IdentityService
	log   *zap.Logger
}

func NewAvatarHandler(users *services.IdentityService, log *zap.Logger) *AvatarHandler {
	return &AvatarHandler{users: users, log: log}
}

// Serve regenerates /avatar/:username and returns the PNG.
func (h *AvatarHandler) Serve(c *gin.Context) {
	user, err := h.users.FindByUsername(c.Request.Context(), c.Param("username"))
	if err != nil {
		if services.KindOf(err) == services.KindNotFound {
			c.String(http.StatusNotFound, "User not found")
			return
		}
		h.log.Error("avatar lookup failed", zap.Error(err))
		c.String(http.StatusInternalServerError, genericErrorMessage)
		return
	}

	b, err := h.users.RefreshAvatar(c.Request.Context(), user)
	if err != nil {
		h.log.Error("avatar generation failed", zap.String("username", user.Username), zap.Error(err))
		c.String(http.StatusInternalServerError, genericErrorMessage)
		return
	}
	c.Header("Cache-Control", "public, max-age=86400")
	c.Data(http.StatusOK, "image/png", b)
}
