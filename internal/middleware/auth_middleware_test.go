package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yigit/schoolportal/internal/apiclient"
	"github.com/yigit/schoolportal/internal/app/models"
	"github.com/yigit/schoolportal/internal/session"
)

func init() {
	gin.SetMode(gin.TestMode)
}

const cookieName = "sid"

// guardedRouter serves /teacher/classes to teachers and /profile to anyone
// signed in
func guardedRouter(t *testing.T) (*gin.Engine, *session.MemoryStore) {
	t.Helper()
	store := session.NewMemoryStore()
	client := apiclient.New(apiclient.Config{BaseURL: "http://backend.invalid/api"}, zerolog.Nop())
	manager := session.NewManager(store, client, session.Options{CookieName: cookieName, TTL: time.Hour}, zerolog.Nop())

	router := gin.New()
	router.Use(manager.Middleware())
	ok := func(c *gin.Context) { c.String(http.StatusOK, "ok") }
	router.GET("/teacher/classes", RequireRoles(models.RoleTeacher), ok)
	router.GET("/profile", RequireRoles(), ok)
	router.GET("/login", RedirectAuthenticated(), ok)
	return router, store
}

func signIn(t *testing.T, store *session.MemoryStore, roles ...models.Role) string {
	t.Helper()
	sess := session.New("sess-" + string(roles[0]))
	sess.SetTokens(models.TokenPair{AccessToken: "token", RefreshToken: "refresh"})
	sess.SetUser(models.User{ID: "1", Email: "u@school.test", Roles: roles})
	require.NoError(t, store.Save(context.Background(), sess, time.Hour))
	return sess.ID
}

func get(router *gin.Engine, path, sessionID string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if sessionID != "" {
		req.AddCookie(&http.Cookie{Name: cookieName, Value: sessionID})
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestRequireRoles_AnonymousGoesToLogin(t *testing.T) {
	router, _ := guardedRouter(t)

	w := get(router, "/teacher/classes?page=2", "")

	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/login?next=%2Fteacher%2Fclasses%3Fpage%3D2", w.Header().Get("Location"))
}

func TestRequireRoles_WrongRoleGoesToUnauthorized(t *testing.T) {
	router, store := guardedRouter(t)
	id := signIn(t, store, models.RoleStudent)

	w := get(router, "/teacher/classes", id)

	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, UnauthorizedPath, w.Header().Get("Location"))
}

func TestRequireRoles_Admits(t *testing.T) {
	router, store := guardedRouter(t)

	teacher := signIn(t, store, models.RoleTeacher)
	assert.Equal(t, http.StatusOK, get(router, "/teacher/classes", teacher).Code)

	// Any role opens routes without an allow-list
	student := signIn(t, store, models.RoleStudent)
	assert.Equal(t, http.StatusOK, get(router, "/profile", student).Code)
}

func TestRedirectAuthenticated(t *testing.T) {
	router, store := guardedRouter(t)

	assert.Equal(t, http.StatusOK, get(router, "/login", "").Code)

	id := signIn(t, store, models.RoleParent)
	w := get(router, "/login", id)
	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/parent/dashboard", w.Header().Get("Location"))
}

func TestSafeNext(t *testing.T) {
	tests := []struct {
		next string
		want string
	}{
		{"/teacher/classes", "/teacher/classes"},
		{"/student/grades?page=2", "/student/grades?page=2"},
		{"", "/home"},
		{"https://evil.test/", "/home"},
		{"//evil.test/", "/home"},
		{`/\evil.test`, "/home"},
		{"relative", "/home"},
	}
	for _, tt := range tests {
		t.Run(tt.next, func(t *testing.T) {
			assert.Equal(t, tt.want, SafeNext(tt.next, "/home"))
		})
	}
}

func TestLoginRedirect(t *testing.T) {
	assert.Equal(t, LoginPath, LoginRedirect(""))
	assert.Equal(t, LoginPath, LoginRedirect("/"))
	assert.Equal(t, "/login?next=%2Fprofile", LoginRedirect("/profile"))
}
