package apiclient

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yigit/schoolportal/internal/app/models"
	"github.com/yigit/schoolportal/internal/pkg/apperrors"
)

type memCreds struct {
	mu      sync.Mutex
	access  string
	refresh string
	cleared int
}

func (m *memCreds) Key() string { return "test-session" }

func (m *memCreds) AccessToken() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.access
}

func (m *memCreds) RefreshToken() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.refresh
}

func (m *memCreds) SetTokens(_ context.Context, pair models.TokenPair) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.access = pair.AccessToken
	if pair.RefreshToken != "" {
		m.refresh = pair.RefreshToken
	}
	return nil
}

func (m *memCreds) Clear(context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.access, m.refresh = "", ""
	m.cleared++
	return nil
}

func newTestClient(t *testing.T, handler http.Handler) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return New(Config{BaseURL: srv.URL + "/api", Timeout: 5 * time.Second}, zerolog.Nop())
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// refreshBackend issues "fresh" on refresh and only accepts "fresh" on the
// department list.
type refreshBackend struct {
	refreshCalls  atomic.Int32
	resourceCalls atomic.Int32
	refreshStatus int
	alwaysDeny    bool
	refreshDelay  time.Duration
}

func (b *refreshBackend) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	switch r.URL.Path {
	case "/api/auth/refresh":
		b.refreshCalls.Add(1)
		time.Sleep(b.refreshDelay)
		var in map[string]string
		_ = json.NewDecoder(r.Body).Decode(&in)
		if b.refreshStatus != 0 || in["refresh_token"] != "refresh-1" {
			writeJSON(w, http.StatusUnauthorized, map[string]string{"message": "Invalid refresh token"})
			return
		}
		writeJSON(w, http.StatusOK, map[string]interface{}{
			"statusCode": 200,
			"data":       map[string]string{"access_token": "fresh", "refresh_token": "refresh-2"},
		})
	case "/api/school-admin/departments":
		b.resourceCalls.Add(1)
		if b.alwaysDeny || r.Header.Get("Authorization") != "Bearer fresh" {
			writeJSON(w, http.StatusUnauthorized, map[string]string{"message": "Unauthorized"})
			return
		}
		writeJSON(w, http.StatusOK, map[string]interface{}{
			"statusCode": 200,
			"message":    "ok",
			"data":       []map[string]interface{}{{"id": 1, "name": "Science"}},
		})
	default:
		http.NotFound(w, r)
	}
}

func TestAPI_RefreshesOnceAndReplays(t *testing.T) {
	backend := &refreshBackend{}
	client := newTestClient(t, backend)
	creds := &memCreds{access: "stale", refresh: "refresh-1"}

	departments, err := client.For(creds).ListDepartments(context.Background())
	require.NoError(t, err)

	require.Len(t, departments, 1)
	assert.Equal(t, models.ID("1"), departments[0].ID)
	assert.Equal(t, int32(1), backend.refreshCalls.Load())
	assert.Equal(t, int32(2), backend.resourceCalls.Load())
	assert.Equal(t, "fresh", creds.AccessToken())
	assert.Equal(t, "refresh-2", creds.RefreshToken())
	assert.Zero(t, creds.cleared)
}

func TestAPI_SecondUnauthorizedClearsSession(t *testing.T) {
	backend := &refreshBackend{alwaysDeny: true}
	client := newTestClient(t, backend)
	creds := &memCreds{access: "stale", refresh: "refresh-1"}

	_, err := client.For(creds).ListDepartments(context.Background())

	require.Error(t, err)
	assert.True(t, IsSessionExpired(err))
	assert.Equal(t, SessionExpiredMessage, FormatError(err))
	assert.Equal(t, int32(1), backend.refreshCalls.Load())
	assert.Equal(t, int32(2), backend.resourceCalls.Load(), "replayed exactly once, no loop")
	assert.Equal(t, 1, creds.cleared)
	assert.Empty(t, creds.AccessToken())
	assert.Empty(t, creds.RefreshToken())
}

func TestAPI_RefreshFailureClearsSession(t *testing.T) {
	backend := &refreshBackend{refreshStatus: http.StatusUnauthorized}
	client := newTestClient(t, backend)
	creds := &memCreds{access: "stale", refresh: "refresh-1"}

	_, err := client.For(creds).ListDepartments(context.Background())

	assert.True(t, errors.Is(err, apperrors.ErrSessionExpired))
	assert.Equal(t, int32(1), backend.resourceCalls.Load())
	assert.Equal(t, 1, creds.cleared)
}

func TestAPI_NoRefreshTokenClearsSession(t *testing.T) {
	backend := &refreshBackend{}
	client := newTestClient(t, backend)
	creds := &memCreds{access: "stale"}

	_, err := client.For(creds).ListDepartments(context.Background())

	assert.True(t, IsSessionExpired(err))
	assert.Zero(t, backend.refreshCalls.Load())
	assert.Equal(t, 1, creds.cleared)
}

func TestAPI_ConcurrentUnauthorizedShareOneRefresh(t *testing.T) {
	backend := &refreshBackend{refreshDelay: 50 * time.Millisecond}
	client := newTestClient(t, backend)
	creds := &memCreds{access: "stale", refresh: "refresh-1"}
	api := client.For(creds)

	var wg sync.WaitGroup
	errs := make(chan error, 8)
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := api.ListDepartments(context.Background())
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)

	for err := range errs {
		assert.NoError(t, err)
	}
	assert.Equal(t, int32(1), backend.refreshCalls.Load())
	assert.Equal(t, "fresh", creds.AccessToken())
}

func TestAPI_AnonymousUnauthorizedIsPlainError(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"message": "Invalid email or password"})
	}))

	_, err := client.For(nil).Login(context.Background(), models.LoginRequest{Email: "a@b.co", Password: "nope"})

	require.Error(t, err)
	assert.False(t, IsSessionExpired(err))
	assert.True(t, errors.Is(err, apperrors.ErrUnauthorized))
	assert.Equal(t, "Invalid email or password", FormatError(err))
}

func TestAPI_Login(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/auth/login", r.URL.Path)
		assert.Empty(t, r.Header.Get("Authorization"))
		writeJSON(w, http.StatusOK, map[string]interface{}{
			"statusCode": 200,
			"message":    "Login successful",
			"data": map[string]interface{}{
				"accessToken":  "a1",
				"refreshToken": "r1",
				"user": map[string]interface{}{
					"id": "u-1", "email": "t@school.test", "first_name": "Ada", "last_name": "Lovelace", "role": "TEACHER",
				},
			},
		})
	}))

	res, err := client.For(nil).Login(context.Background(), models.LoginRequest{Email: "t@school.test", Password: "secret123"})
	require.NoError(t, err)

	assert.Equal(t, "a1", res.Tokens.AccessToken)
	assert.Equal(t, "r1", res.Tokens.RefreshToken)
	assert.Equal(t, models.ID("u-1"), res.User.ID)
	assert.Equal(t, "Ada Lovelace", res.User.Name())
	assert.Equal(t, []models.Role{models.RoleTeacher}, res.User.Roles)
}

func TestAPI_EnvelopeShapes(t *testing.T) {
	bodies := map[string]string{
		"bare key":         `{"classes":[{"id":7,"name":"7A"}]}`,
		"success wrapper":  `{"success":true,"data":{"classes":[{"id":7,"name":"7A"}]}}`,
		"status envelope":  `{"statusCode":200,"message":"ok","data":[{"id":7,"name":"7A"}]}`,
		"paginated items":  `{"data":{"items":[{"id":7,"name":"7A"}],"pagination":{"totalItems":1}}}`,
		"top level array":  `[{"id":7,"name":"7A"}]`,
	}
	for name, body := range bodies {
		t.Run(name, func(t *testing.T) {
			client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.Header().Set("Content-Type", "application/json")
				_, _ = io.WriteString(w, body)
			}))
			classes, err := client.For(&memCreds{access: "x"}).ListClasses(context.Background())
			require.NoError(t, err)
			require.Len(t, classes, 1)
			assert.Equal(t, "7A", classes[0].Name)
			assert.Equal(t, int64(7), classes[0].ID.Int64())
		})
	}
}

func TestAPI_MissingCollectionFallsBackToEmpty(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]interface{}{"success": true})
	}))

	subjects, err := client.For(&memCreds{access: "x"}).ListSubjects(context.Background())

	require.NoError(t, err)
	assert.NotNil(t, subjects)
	assert.Empty(t, subjects)
}

func TestAPI_NetworkFailure(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	srv.Close()
	client := New(Config{BaseURL: srv.URL}, zerolog.Nop())

	_, err := client.For(&memCreds{access: "x"}).ListSchools(context.Background())

	require.Error(t, err)
	assert.True(t, errors.Is(err, apperrors.ErrNetwork))
	assert.Equal(t, NetworkMessage, FormatError(err))
}

func TestAPI_Upload(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/teacher/upload", r.URL.Path)
		require.True(t, strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data"))
		file, header, err := r.FormFile("file")
		require.NoError(t, err)
		content, _ := io.ReadAll(file)
		assert.Equal(t, "worksheet", string(content))
		writeJSON(w, http.StatusCreated, map[string]interface{}{
			"success": true,
			"file":    map[string]string{"url": fmt.Sprintf("https://cdn.test/%s", header.Filename)},
		})
	}))

	uploaded, err := client.For(&memCreds{access: "x"}).Upload(context.Background(), "week1.pdf", strings.NewReader("worksheet"))

	require.NoError(t, err)
	assert.Equal(t, "https://cdn.test/week1.pdf", uploaded.URL)
	assert.Equal(t, "week1.pdf", uploaded.FileName)
}

func TestPing(t *testing.T) {
	var sawAuth string
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sawAuth = r.Header.Get("Authorization")
		w.WriteHeader(http.StatusNotFound)
	}))

	status, err := client.Ping(context.Background())
	require.NoError(t, err)
	assert.Equal(t, http.StatusNotFound, status, "any answer counts as reachable")
	assert.Empty(t, sawAuth)
}

func TestPing_Unreachable(t *testing.T) {
	client := New(Config{BaseURL: "http://127.0.0.1:1/api", Timeout: time.Second}, zerolog.Nop())

	_, err := client.Ping(context.Background())
	assert.ErrorIs(t, err, apperrors.ErrNetwork)
}
