package session

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redis/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yigit/schoolportal/internal/app/models"
	"github.com/yigit/schoolportal/internal/pkg/apperrors"
)

func sampleSession() *Session {
	s := New("sess-1")
	s.SetTokens(models.TokenPair{AccessToken: "a1", RefreshToken: "r1"})
	s.SetUser(models.User{ID: "42", Email: "head@school.test", FirstName: "Grace", Roles: []models.Role{models.RoleSchoolAdmin}})
	s.AddFlash(ToastSuccess, "Welcome back")
	return s
}

func assertRoundTrip(t *testing.T, store Store) {
	t.Helper()
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, sampleSession(), time.Hour))

	loaded, err := store.Load(ctx, "sess-1")
	require.NoError(t, err)
	assert.Equal(t, "a1", loaded.AccessToken)
	assert.Equal(t, "r1", loaded.RefreshToken)
	require.NotNil(t, loaded.User)
	assert.Equal(t, models.ID("42"), loaded.User.ID)
	assert.Equal(t, []models.Role{models.RoleSchoolAdmin}, loaded.Roles())
	assert.Equal(t, []Toast{{Kind: ToastSuccess, Message: "Welcome back"}}, loaded.Flash)

	require.NoError(t, store.Delete(ctx, "sess-1"))
	_, err = store.Load(ctx, "sess-1")
	assert.ErrorIs(t, err, apperrors.ErrSessionNotFound)
}

func TestMemoryStore_RoundTrip(t *testing.T) {
	assertRoundTrip(t, NewMemoryStore())
}

func TestMemoryStore_Expiry(t *testing.T) {
	store := NewMemoryStore()
	now := time.Date(2024, 9, 1, 8, 0, 0, 0, time.UTC)
	store.now = func() time.Time { return now }

	require.NoError(t, store.Save(context.Background(), sampleSession(), time.Minute))

	now = now.Add(59 * time.Second)
	_, err := store.Load(context.Background(), "sess-1")
	require.NoError(t, err)

	now = now.Add(time.Second)
	_, err = store.Load(context.Background(), "sess-1")
	assert.ErrorIs(t, err, apperrors.ErrSessionNotFound)
	assert.Zero(t, store.Len())
}

func TestMemoryStore_LoadReturnsIndependentCopies(t *testing.T) {
	store := NewMemoryStore()
	require.NoError(t, store.Save(context.Background(), sampleSession(), time.Hour))

	first, err := store.Load(context.Background(), "sess-1")
	require.NoError(t, err)
	first.ClearAuth()

	second, err := store.Load(context.Background(), "sess-1")
	require.NoError(t, err)
	assert.True(t, second.IsAuthenticated())
}

func newRedisStore(t *testing.T) (*RedisStore, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	store, err := NewRedisStore(context.Background(), &redis.Options{Addr: mr.Addr()})
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	return store, mr
}

func TestRedisStore_RoundTrip(t *testing.T) {
	store, _ := newRedisStore(t)
	assertRoundTrip(t, store)
}

func TestRedisStore_TTL(t *testing.T) {
	store, mr := newRedisStore(t)
	require.NoError(t, store.Save(context.Background(), sampleSession(), 10*time.Minute))

	assert.True(t, mr.Exists(redisKeyPrefix+"sess-1"))
	assert.Equal(t, 10*time.Minute, mr.TTL(redisKeyPrefix+"sess-1"))

	mr.FastForward(11 * time.Minute)
	_, err := store.Load(context.Background(), "sess-1")
	assert.ErrorIs(t, err, apperrors.ErrSessionNotFound)
}

func TestNewRedisStore_Unreachable(t *testing.T) {
	mr := miniredis.RunT(t)
	addr := mr.Addr()
	mr.Close()

	_, err := NewRedisStore(context.Background(), &redis.Options{Addr: addr, MaxRetries: -1})
	assert.Error(t, err)
}
