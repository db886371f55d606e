package middleware

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yigit/schoolportal/internal/apiclient"
	"github.com/yigit/schoolportal/internal/pkg/apperrors"
)

// --- Central Error Handling ---

// HandleError renders the page matching err. Expired sessions go back to
// the login page instead.
func HandleError(c *gin.Context, err error) {
	_ = c.Error(err)

	var custom *apperrors.CustomError
	switch {
	case apiclient.IsSessionExpired(err):
		c.Redirect(http.StatusFound, LoginRedirect(c.Request.URL.RequestURI()))
		c.Abort()
	case errors.As(err, &custom) && errors.Is(custom.Err, apperrors.ErrBadRequest):
		RenderError(c, http.StatusBadRequest, custom.Error())
	case errors.Is(err, apperrors.ErrUnknownScreen), errors.Is(err, apperrors.ErrResourceNotFound):
		RenderError(c, http.StatusNotFound, apiclient.NotFoundMessage)
	case errors.Is(err, apperrors.ErrPermissionDenied):
		RenderError(c, http.StatusForbidden, apiclient.ForbiddenMessage)
	case errors.Is(err, apperrors.ErrBadRequest), errors.Is(err, apperrors.ErrInvalidUpload), errors.Is(err, apperrors.ErrInvalidSheet):
		RenderError(c, http.StatusBadRequest, err.Error())
	case errors.Is(err, apperrors.ErrNetwork), errors.Is(err, apperrors.ErrServer):
		RenderError(c, http.StatusBadGateway, apiclient.FormatError(err))
	default:
		RenderError(c, http.StatusInternalServerError, apiclient.FormatError(err))
	}
}

// RenderError writes the standalone error page
func RenderError(c *gin.Context, status int, message string) {
	c.HTML(status, "error.html", gin.H{
		"Status":  status,
		"Title":   http.StatusText(status),
		"Message": message,
	})
	c.Abort()
}

// NotFound handles unmatched routes
func NotFound() gin.HandlerFunc {
	return func(c *gin.Context) {
		HandleError(c, apperrors.ErrUnknownScreen)
	}
}
