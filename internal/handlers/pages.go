package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// StaticPage renders a view that needs nothing beyond the layout data.
// Google's OAuth consent screen links to the terms and privacy pages.
func StaticPage(view string) gin.HandlerFunc {
	return func(c *gin.Context) {
		Render(c, http.StatusOK, view, nil)
	}
}
