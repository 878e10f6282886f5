package handlers

import (
	"net/http"

	"sharestuff/internal/middleware"
	"sharestuff/internal/services"
	"sharestuff/internal/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type CommentHandler struct {
	comments *services.CommentService
	log      *zap.Logger
}

func NewCommentHandler(comments *services.CommentService, log *zap.Logger) *CommentHandler {
	return &CommentHandler{comments: comments, log: log}
}

type commentRequest struct {
	Content string `json:"content" form:"content"`
}

// List returns a post's comments oldest first.
func (h *CommentHandler) List(c *gin.Context) {
	id, ok := utils.ParseID(c.Param("id"))
	if !ok {
		JSONError(c, h.log, services.ErrPostNotFound)
		return
	}
	comments, err := h.comments.ListComments(c.Request.Context(), id)
	if err != nil {
		JSONError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, comments)
}

// Create accepts JSON or form bodies.
func (h *CommentHandler) Create(c *gin.Context) {
	id, ok := utils.ParseID(c.Param("id"))
	if !ok {
		JSONError(c, h.log, services.ErrPostNotFound)
		return
	}
	var req commentRequest
	if err := c.ShouldBind(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid request body."})
		return
	}

	comment, err := h.comments.CreateComment(c.Request.Context(), middleware.CurrentUserID(c), id, req.Content)
	if err != nil {
		JSONError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Comment added successfully.", "comment": comment})
}
