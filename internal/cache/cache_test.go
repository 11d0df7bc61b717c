package cache

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (f *fakeClock) Now() time.Time {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.now
}

func (f *fakeClock) Advance(d time.Duration) {
	f.mu.Lock()
	f.now = f.now.Add(d)
	f.mu.Unlock()
}

func TestMemoryCacheExpiry(t *testing.T) {
	ctx := context.Background()
	clock := &fakeClock{now: time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)}
	c := NewMemoryCache(clock.Now)

	require.NoError(t, c.Set(ctx, "index", []byte("page"), 5*time.Second))

	val, ok, err := c.Get(ctx, "index")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, []byte("page"), val)

	clock.Advance(4 * time.Second)
	_, ok, _ = c.Get(ctx, "index")
	assert.True(t, ok)

	clock.Advance(time.Second)
	_, ok, _ = c.Get(ctx, "index")
	assert.False(t, ok, "entry must expire once ttl has elapsed")
}

func TestMemoryCacheClear(t *testing.T) {
	ctx := context.Background()
	c := NewMemoryCache(nil)

	require.NoError(t, c.Set(ctx, "a", []byte("1"), time.Minute))
	require.NoError(t, c.Set(ctx, "b", []byte("2"), time.Minute))
	require.NoError(t, c.Clear(ctx))

	_, ok, _ := c.Get(ctx, "a")
	assert.False(t, ok)
	_, ok, _ = c.Get(ctx, "b")
	assert.False(t, ok)
}

func TestMemoryCacheCopiesValue(t *testing.T) {
	ctx := context.Background()
	c := NewMemoryCache(nil)
	buf := []byte("original")
	require.NoError(t, c.Set(ctx, "k", buf, time.Minute))
	buf[0] = 'X'

	val, _, _ := c.Get(ctx, "k")
	assert.Equal(t, "original", string(val))
}

func TestMemoryCacheIgnoresNonPositiveTTL(t *testing.T) {
	ctx := context.Background()
	c := NewMemoryCache(nil)
	require.NoError(t, c.Set(ctx, "k", []byte("v"), 0))
	_, ok, _ := c.Get(ctx, "k")
	assert.False(t, ok)
}

func setupRedis(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	return mr, client
}

func TestRedisCacheGetSet(t *testing.T) {
	ctx := context.Background()
	mr, client := setupRedis(t)
	c := NewRedisCache(client, "test")

	_, ok, err := c.Get(ctx, "missing")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, c.Set(ctx, "/", []byte("body"), 5*time.Second))
	assert.True(t, mr.Exists("test:/"))

	val, ok, err := c.Get(ctx, "/")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, []byte("body"), val)

	mr.FastForward(6 * time.Second)
	_, ok, err = c.Get(ctx, "/")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestRedisCacheClearKeepsForeignKeys(t *testing.T) {
	ctx := context.Background()
	mr, client := setupRedis(t)
	c := NewRedisCache(client, "test")

	require.NoError(t, c.Set(ctx, "/", []byte("1"), time.Minute))
	require.NoError(t, c.Set(ctx, "/?page=2", []byte("2"), time.Minute))
	require.NoError(t, mr.Set("other:key", "keep"))

	require.NoError(t, c.Clear(ctx))

	assert.False(t, mr.Exists("test:/"))
	assert.False(t, mr.Exists("test:/?page=2"))
	assert.True(t, mr.Exists("other:key"))
}
