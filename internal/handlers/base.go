package handlers

import (
	"net/http"

	"sharestuff/internal/middleware"
	"sharestuff/internal/services"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const genericErrorMessage = "Internal server error."

// Render helper to inject common variables like 'current user'
func Render(c *gin.Context, code int, name string, obj gin.H) {
	if obj == nil {
		obj = gin.H{}
	}
	if user := middleware.CurrentUser(c); user != nil {
		obj["CurrentUser"] = user
		obj["LoggedIn"] = true
	}
	obj["CurrentPath"] = c.Request.URL.Path
	c.HTML(code, name, obj)
}

// RenderError renders the error page.
func RenderError(c *gin.Context, code int, message string) {
	Render(c, code, "error.html", gin.H{"Error": message})
}

// statusOf maps a service error to its HTTP status.
func statusOf(err error) int {
	switch services.KindOf(err) {
	case services.KindNotAuthenticated:
		return http.StatusUnauthorized
	case services.KindNotAuthorized:
		return http.StatusForbidden
	case services.KindNotFound:
		return http.StatusNotFound
	case services.KindConflict:
		return http.StatusConflict
	case services.KindSelfLike, services.KindInvalidInput:
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// messageOf returns the user-facing message; unexpected errors stay generic.
func messageOf(err error) string {
	if services.KindOf(err) == services.KindUnexpected {
		return genericErrorMessage
	}
	return err.Error()
}

// JSONError writes {success:false, message} for a service error.
func JSONError(c *gin.Context, log *zap.Logger, err error) {
	code := statusOf(err)
	if code == http.StatusInternalServerError {
		log.Error("request failed", zap.String("path", c.Request.URL.Path), zap.Error(err))
	}
	c.JSON(code, gin.H{"success": false, "message": messageOf(err)})
}

// PageError renders a service error as a page; unauthenticated users are
// sent to the login page.
func PageError(c *gin.Context, log *zap.Logger, err error) {
	code := statusOf(err)
	switch code {
	case http.StatusUnauthorized:
		c.Redirect(http.StatusFound, "/login")
		return
	case http.StatusInternalServerError:
		log.Error("request failed", zap.String("path", c.Request.URL.Path), zap.Error(err))
	}
	RenderError(c, code, messageOf(err))
}

// ErrorPage serves /error.
func ErrorPage(c *gin.Context) {
	msg := c.Query("message")
	if msg == "" {
		msg = "Something went wrong."
	}
	RenderError(c, http.StatusOK, msg)
}

// Healthz is a liveness probe.
func Healthz(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
