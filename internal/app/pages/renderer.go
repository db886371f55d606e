// Package pages implements the portal's screens: a generic list and
// dialog engine for resources plus the role specific pages built on it.
package pages

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/yigit/schoolportal/internal/apiclient"
	"github.com/yigit/schoolportal/internal/app/routes"
	"github.com/yigit/schoolportal/internal/app/views"
	"github.com/yigit/schoolportal/internal/middleware"
	"github.com/yigit/schoolportal/internal/pkg/apperrors"
	"github.com/yigit/schoolportal/internal/querycache"
	"github.com/yigit/schoolportal/internal/session"
)

// Renderer carries what every screen needs: the session manager, the
// per session query cache and a logger
type Renderer struct {
	sessions *session.Manager
	cache    *querycache.Cache
	logger   zerolog.Logger
}

// NewRenderer creates a Renderer
func NewRenderer(sessions *session.Manager, cache *querycache.Cache, lgr zerolog.Logger) *Renderer {
	return &Renderer{
		sessions: sessions,
		cache:    cache,
		logger:   lgr.With().Str("component", "pages").Logger(),
	}
}

// Page renders a full page template with the layout data filled in
func (r *Renderer) Page(c *gin.Context, status int, tmpl, title string, data interface{}) {
	sess := session.Current(c)
	roles := sess.Roles()

	page := views.Page{
		Title:  title,
		User:   sess.CurrentUser(),
		Roles:  roles,
		Toasts: r.sessions.TakeFlash(c),
		Path:   c.Request.URL.Path,
		Data:   data,
	}
	if sess.IsAuthenticated() {
		page.Nav = routes.Menu(roles, c.Request.URL.Path)
	}
	c.HTML(status, tmpl, page)
}

// Flash shows a message on the next rendered page
func (r *Renderer) Flash(c *gin.Context, kind, message string) {
	r.sessions.Flash(c, kind, message)
}

// API is the backend client acting as the request's user
func (r *Renderer) API(c *gin.Context) *apiclient.API {
	return r.sessions.API(c)
}

// Fail renders the error page for err
func (r *Renderer) Fail(c *gin.Context, err error) {
	if !apiclient.IsSessionExpired(err) {
		r.logger.Warn().Err(err).Str("path", c.Request.URL.Path).Msg("Page failed")
	}
	middleware.HandleError(c, err)
}

// Invalidate drops the cached queries under prefix for the request's session
func (r *Renderer) Invalidate(c *gin.Context, prefixes ...string) {
	id := session.Current(c).ID
	for _, p := range prefixes {
		r.cache.Invalidate(id, p)
	}
}

// cached loads key through the request session's query cache
func cached[T any](r *Renderer, c *gin.Context, key string, load func(ctx context.Context) (T, error)) (T, error) {
	return querycache.Fetch(c.Request.Context(), r.cache, session.Current(c).ID, key, load)
}

// failureMessage resolves err to a toast, preferring fallback over the
// generic message. Errors raised by the portal itself carry their own text.
func failureMessage(err error, fallback string) string {
	if errors.Is(err, apperrors.ErrInvalidUpload) || errors.Is(err, apperrors.ErrBadRequest) {
		return err.Error()
	}
	msg := apiclient.FormatError(err)
	if msg == apiclient.GenericMessage && fallback != "" {
		return fallback
	}
	return msg
}

// mutationStatus is the status of a page re-rendered after a failed write
func mutationStatus(err error) int {
	switch {
	case errors.Is(err, apperrors.ErrNetwork), errors.Is(err, apperrors.ErrServer):
		return http.StatusBadGateway
	case errors.Is(err, apperrors.ErrPermissionDenied):
		return http.StatusForbidden
	case errors.Is(err, apperrors.ErrResourceNotFound):
		return http.StatusNotFound
	case errors.Is(err, apperrors.ErrConflict):
		return http.StatusConflict
	default:
		return http.StatusUnprocessableEntity
	}
}
