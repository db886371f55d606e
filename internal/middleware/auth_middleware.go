package middleware

import (
	"net/http"
	"net/url"

	"github.com/gin-gonic/gin"

	"github.com/yigit/schoolportal/internal/app/auth"
	"github.com/yigit/schoolportal/internal/app/models"
	"github.com/yigit/schoolportal/internal/session"
)

// Paths the guard redirects to
const (
	LoginPath        = "/login"
	UnauthorizedPath = "/unauthorized"
)

// RequireRoles admits authenticated sessions holding one of roles. No
// roles admits any authenticated session. Anonymous visitors are sent to
// the login page with the requested path in `next`; signed in users
// lacking a role are sent to the unauthorized page.
func RequireRoles(roles ...models.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		sess := session.Current(c)
		if !sess.IsAuthenticated() {
			c.Redirect(http.StatusFound, LoginRedirect(c.Request.URL.RequestURI()))
			c.Abort()
			return
		}

		if !auth.Allowed(sess.Roles(), roles) {
			c.Redirect(http.StatusFound, UnauthorizedPath)
			c.Abort()
			return
		}

		c.Next()
	}
}

// RedirectAuthenticated sends signed in users away from the login and
// register pages to their home screen.
func RedirectAuthenticated() gin.HandlerFunc {
	return func(c *gin.Context) {
		sess := session.Current(c)
		if sess.IsAuthenticated() && c.Request.Method == http.MethodGet {
			c.Redirect(http.StatusFound, auth.HomePath(sess.Roles()))
			c.Abort()
			return
		}
		c.Next()
	}
}

// LoginRedirect builds the login URL that returns to next after sign in
func LoginRedirect(next string) string {
	if next == "" || next == "/" {
		return LoginPath
	}
	return LoginPath + "?next=" + url.QueryEscape(next)
}

// SafeNext returns next when it is a local absolute path, else fallback.
// Anything else could bounce a fresh login to another site.
func SafeNext(next, fallback string) string {
	if len(next) == 0 || next[0] != '/' || (len(next) > 1 && (next[1] == '/' || next[1] == '\\')) {
		return fallback
	}
	return next
}
