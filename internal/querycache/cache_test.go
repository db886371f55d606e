package querycache

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newClockedCache(ttl time.Duration) (*Cache, *time.Time) {
	now := time.Date(2024, 9, 1, 8, 0, 0, 0, time.UTC)
	c := New(ttl)
	c.now = func() time.Time { return now }
	return c, &now
}

func TestFetch_CachesUntilExpiry(t *testing.T) {
	c, now := newClockedCache(30 * time.Second)
	calls := 0
	load := func(context.Context) ([]string, error) {
		calls++
		return []string{"Science"}, nil
	}

	for i := 0; i < 3; i++ {
		got, err := Fetch(context.Background(), c, "s1", "departments", load)
		require.NoError(t, err)
		assert.Equal(t, []string{"Science"}, got)
	}
	assert.Equal(t, 1, calls)

	*now = now.Add(30 * time.Second)
	_, err := Fetch(context.Background(), c, "s1", "departments", load)
	require.NoError(t, err)
	assert.Equal(t, 2, calls)
}

func TestFetch_ErrorsAreNotCached(t *testing.T) {
	c := New(time.Minute)
	boom := errors.New("boom")
	calls := 0
	load := func(context.Context) (int, error) {
		calls++
		if calls == 1 {
			return 0, boom
		}
		return 5, nil
	}

	_, err := Fetch(context.Background(), c, "s1", "count", load)
	assert.ErrorIs(t, err, boom)

	got, err := Fetch(context.Background(), c, "s1", "count", load)
	require.NoError(t, err)
	assert.Equal(t, 5, got)
	assert.Equal(t, 2, calls)
}

func TestInvalidate_ByPrefixAndSession(t *testing.T) {
	c := New(time.Minute)
	c.Set("s1", "departments", 1)
	c.Set("s1", "departments:options", 2)
	c.Set("s1", "subjects", 3)
	c.Set("s2", "departments", 4)

	c.Invalidate("s1", "departments")

	_, ok := c.Get("s1", "departments")
	assert.False(t, ok)
	_, ok = c.Get("s1", "departments:options")
	assert.False(t, ok)
	v, ok := c.Get("s1", "subjects")
	assert.True(t, ok)
	assert.Equal(t, 3, v)
	v, ok = c.Get("s2", "departments")
	assert.True(t, ok, "other sessions keep their entries")
	assert.Equal(t, 4, v)
}

func TestDropAndSweep(t *testing.T) {
	c, now := newClockedCache(time.Minute)
	c.Set("s1", "a", 1)
	c.Set("s2", "a", 1)

	c.Drop("s1")
	_, ok := c.Get("s1", "a")
	assert.False(t, ok)

	*now = now.Add(2 * time.Minute)
	c.Sweep()
	assert.Empty(t, c.sessions)
}

func TestFetch_AnonymousIsNotCached(t *testing.T) {
	c := New(time.Minute)
	calls := 0
	load := func(context.Context) (int, error) { calls++; return calls, nil }

	_, _ = Fetch(context.Background(), c, "", "k", load)
	_, _ = Fetch(context.Background(), c, "", "k", load)

	assert.Equal(t, 2, calls)
}
