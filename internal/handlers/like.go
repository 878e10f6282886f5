package handlers

import (
	"net/http"

	"sharestuff/internal/middleware"
	"sharestuff/internal/services"
	"sharestuff/internal/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type LikeHandler struct {
	likes *services.LikeService
	log   *zap.Logger
}

func NewLikeHandler(likes *services.LikeService, log *zap.Logger) *LikeHandler {
	return &LikeHandler{likes: likes, log: log}
}

// Toggle likes or unlikes a post and returns the new state.
func (h *LikeHandler) Toggle(c *gin.Context) {
	id, ok := utils.ParseID(c.Param("id"))
	if !ok {
		JSONError(c, h.log, services.ErrPostNotFound)
		return
	}

	res, err := h.likes.ToggleLike(c.Request.Context(), middleware.CurrentUserID(c), id)
	if err != nil {
		JSONError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "liked": res.Liked, "likes": res.LikeCount})
}
