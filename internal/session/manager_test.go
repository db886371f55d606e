package session

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yigit/schoolportal/internal/apiclient"
	"github.com/yigit/schoolportal/internal/app/models"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func fakeBackend(t *testing.T) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		switch r.URL.Path {
		case "/api/auth/login":
			var in models.LoginRequest
			_ = json.NewDecoder(r.Body).Decode(&in)
			if in.Password != "secret123" {
				w.WriteHeader(http.StatusUnauthorized)
				_, _ = w.Write([]byte(`{"message":"Invalid credentials"}`))
				return
			}
			_, _ = w.Write([]byte(`{"data":{"access_token":"a1","refresh_token":"r1","user":{"id":7,"email":"t@school.test","role":"teacher"}}}`))
		case "/api/auth/refresh":
			_, _ = w.Write([]byte(`{"data":{"access_token":"a2"}}`))
		case "/api/teacher/classes":
			if r.Header.Get("Authorization") != "Bearer a2" {
				w.WriteHeader(http.StatusUnauthorized)
				return
			}
			_, _ = w.Write([]byte(`{"classes":[{"id":1,"name":"5B"}]}`))
		default:
			http.NotFound(w, r)
		}
	}))
	t.Cleanup(srv.Close)
	return srv
}

func newTestManager(t *testing.T) (*Manager, *MemoryStore) {
	t.Helper()
	srv := fakeBackend(t)
	client := apiclient.New(apiclient.Config{BaseURL: srv.URL + "/api"}, zerolog.Nop())
	store := NewMemoryStore()
	return NewManager(store, client, Options{CookieName: "sid", TTL: time.Hour}, zerolog.Nop()), store
}

func newRouter(m *Manager) *gin.Engine {
	r := gin.New()
	r.Use(m.Middleware())
	r.POST("/login", func(c *gin.Context) {
		if _, err := m.Login(c, c.PostForm("email"), c.PostForm("password")); err != nil {
			c.String(http.StatusUnauthorized, apiclient.FormatError(err))
			return
		}
		c.String(http.StatusOK, "ok")
	})
	r.GET("/whoami", func(c *gin.Context) {
		sess := Current(c)
		if !sess.IsAuthenticated() {
			c.String(http.StatusUnauthorized, "anonymous")
			return
		}
		c.String(http.StatusOK, sess.CurrentUser().Email)
	})
	r.GET("/classes", func(c *gin.Context) {
		classes, err := m.API(c).TeacherClasses(c.Request.Context())
		if err != nil {
			c.String(http.StatusBadGateway, apiclient.FormatError(err))
			return
		}
		c.String(http.StatusOK, classes[0].Name)
	})
	r.POST("/logout", func(c *gin.Context) {
		m.Logout(c)
		c.String(http.StatusOK, "bye")
	})
	return r
}

func sessionCookie(t *testing.T, w *httptest.ResponseRecorder) *http.Cookie {
	t.Helper()
	var last *http.Cookie
	for _, ck := range w.Result().Cookies() {
		if ck.Name == "sid" {
			last = ck
		}
	}
	require.NotNil(t, last, "no session cookie set")
	return last
}

func do(r *gin.Engine, method, path string, form string, cookie *http.Cookie) *httptest.ResponseRecorder {
	var req *http.Request
	if form != "" {
		req = httptest.NewRequest(method, path, strings.NewReader(form))
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	if cookie != nil {
		req.AddCookie(cookie)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestManager_LoginPersistsSession(t *testing.T) {
	m, store := newTestManager(t)
	r := newRouter(m)

	w := do(r, http.MethodPost, "/login", "email=t@school.test&password=secret123", nil)
	require.Equal(t, http.StatusOK, w.Code)
	cookie := sessionCookie(t, w)
	assert.True(t, cookie.HttpOnly)
	assert.Equal(t, 1, store.Len())

	stored, err := store.Load(context.Background(), cookie.Value)
	require.NoError(t, err)
	assert.Equal(t, "a1", stored.AccessToken)
	assert.Equal(t, []models.Role{models.RoleTeacher}, stored.Roles())

	w = do(r, http.MethodGet, "/whoami", "", cookie)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "t@school.test", w.Body.String())
}

func TestManager_LoginFailure(t *testing.T) {
	m, store := newTestManager(t)
	r := newRouter(m)

	w := do(r, http.MethodPost, "/login", "email=t@school.test&password=wrong", nil)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "Invalid credentials", w.Body.String())
	assert.Zero(t, store.Len())
}

func TestManager_RefreshedTokenIsStored(t *testing.T) {
	m, store := newTestManager(t)
	r := newRouter(m)
	cookie := sessionCookie(t, do(r, http.MethodPost, "/login", "email=t@school.test&password=secret123", nil))

	w := do(r, http.MethodGet, "/classes", "", cookie)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "5B", w.Body.String())

	stored, err := store.Load(context.Background(), cookie.Value)
	require.NoError(t, err)
	assert.Equal(t, "a2", stored.AccessToken)
	assert.Equal(t, "r1", stored.RefreshToken)
}

func TestManager_LogoutRunsHooks(t *testing.T) {
	m, store := newTestManager(t)
	var cleared []string
	m.OnClear(func(id string) { cleared = append(cleared, id) })
	r := newRouter(m)
	cookie := sessionCookie(t, do(r, http.MethodPost, "/login", "email=t@school.test&password=secret123", nil))

	w := do(r, http.MethodPost, "/logout", "", cookie)
	require.Equal(t, http.StatusOK, w.Code)

	assert.Equal(t, []string{cookie.Value}, cleared)
	assert.Zero(t, store.Len())
	assert.NotEqual(t, cookie.Value, sessionCookie(t, w).Value)

	w = do(r, http.MethodGet, "/whoami", "", cookie)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestManager_UnknownCookieStartsFreshSession(t *testing.T) {
	m, _ := newTestManager(t)
	r := newRouter(m)

	w := do(r, http.MethodGet, "/whoami", "", &http.Cookie{Name: "sid", Value: "gone"})

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.NotEqual(t, "gone", sessionCookie(t, w).Value)
}
