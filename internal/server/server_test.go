package server

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yatube/backend/config"
	"github.com/yatube/backend/internal/cache"
	"github.com/yatube/backend/internal/testhelpers"
)

func testConfig(t *testing.T) *config.Config {
	return &config.Config{
		Environment:   config.Test,
		ServerHost:    "127.0.0.1",
		ServerPort:    "0",
		ServiceName:   "yatube-test",
		JWTSecret:     "test-secret",
		TokenTTL:      time.Hour,
		PostsPerPage:  10,
		IndexCacheTTL: 5 * time.Second,
		CacheBackend:  "memory",
		MediaBackend:  "local",
		MediaRoot:     t.TempDir(),
		MediaURL:      "/media/",
		PostsPerHour:  30,
	}
}

func TestNew(t *testing.T) {
	db := testhelpers.SetupTestDB(t)
	srv := New(testConfig(t), db, Options{})
	require.NotNil(t, srv)
	assert.IsType(t, &cache.MemoryCache{}, srv.pages)

	w := httptest.NewRecorder()
	srv.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestNewUsesRedisCache(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })

	cfg := testConfig(t)
	cfg.CacheBackend = "redis"
	srv := New(cfg, testhelpers.SetupTestDB(t), Options{Redis: client})
	assert.IsType(t, &cache.RedisCache{}, srv.pages)

	w := httptest.NewRecorder()
	srv.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
	require.Equal(t, http.StatusOK, w.Code)
	assert.NotEmpty(t, mr.Keys())
}

func TestServeShutsDownOnCancel(t *testing.T) {
	srv := New(testConfig(t), testhelpers.SetupTestDB(t), Options{})
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- srv.Serve(ctx, ln) }()

	resp, err := http.Get(fmt.Sprintf("http://%s/health", ln.Addr()))
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not stop")
	}
}
