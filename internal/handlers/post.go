package handlers

import (
	"net/http"

	"sharestuff/internal/middleware"
	"sharestuff/internal/services"
	"sharestuff/internal/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type PostHandler struct {
	posts *services.PostService
	log   *zap.Logger
}

func NewPostHandler(posts *services.PostService, log *zap.Logger) *PostHandler {
	return &PostHandler{posts: posts, log: log}
}

// Home lists all posts, newest first.
func (h *PostHandler) Home(c *gin.Context) {
	posts, err := h.posts.ListPosts(c.Request.Context(), middleware.CurrentUserID(c))
	if err != nil {
		h.log.Error("list posts failed", zap.Error(err))
		RenderError(c, http.StatusInternalServerError, "Failed to load data.")
		return
	}
	Render(c, http.StatusOK, "home.html", gin.H{"Posts": posts})
}

// Create handles the new post form.
func (h *PostHandler) Create(c *gin.Context) {
	_, err := h.posts.CreatePost(c.Request.Context(), middleware.CurrentUserID(c),
		c.PostForm("title"), c.PostForm("content"))
	if err != nil {
		if services.KindOf(err) == services.KindInvalidInput {
			posts, lerr := h.posts.ListPosts(c.Request.Context(), middleware.CurrentUserID(c))
			if lerr == nil {
				Render(c, http.StatusBadRequest, "home.html", gin.H{
					"Posts":     posts,
					"PostError": err.Error(),
					"Title":     c.PostForm("title"),
					"Content":   c.PostForm("content"),
				})
				return
			}
		}
		PageError(c, h.log, err)
		return
	}
	c.Redirect(http.StatusFound, "/")
}

// Delete removes one of the current user's posts (JSON).
func (h *PostHandler) Delete(c *gin.Context) {
	id, ok := utils.ParseID(c.Param("id"))
	if !ok {
		JSONError(c, h.log, services.ErrPostNotFound)
		return
	}
	if err := h.posts.DeletePost(c.Request.Context(), middleware.CurrentUserID(c), id); err != nil {
		JSONError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Post deleted successfully"})
}

// Profile shows the current user's own posts.
func (h *PostHandler) Profile(c *gin.Context) {
	user := middleware.CurrentUser(c)
	posts, err := h.posts.ListByAuthor(c.Request.Context(), user.ID, user.Username)
	if err != nil {
		h.log.Error("list profile posts failed", zap.Uint("user_id", user.ID), zap.Error(err))
		RenderError(c, http.StatusInternalServerError, "Error loading profile page.")
		return
	}
	Render(c, http.StatusOK, "profile.html", gin.H{"User": user, "Posts": posts})
}
