package middleware

import (
	"bytes"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/yatube/backend/internal/cache"
	"github.com/yatube/backend/internal/logger"
)

// CacheStatusHeader tells whether a page came from the cache.
const CacheStatusHeader = "X-Cache"

type bodyRecorder struct {
	gin.ResponseWriter
	body bytes.Buffer
}

func (w *bodyRecorder) Write(b []byte) (int, error) {
	w.body.Write(b)
	return w.ResponseWriter.Write(b)
}

func (w *bodyRecorder) WriteString(s string) (int, error) {
	w.body.WriteString(s)
	return w.ResponseWriter.WriteString(s)
}

// CachePage serves successful GET responses from store for ttl, keyed by the
// request URI. Writes elsewhere do not invalidate entries; they age out.
// Cached pages must not depend on who is asking.
func CachePage(store cache.Cache, ttl time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.Method != http.MethodGet {
			c.Next()
			return
		}

		key := "page:" + c.Request.URL.RequestURI()
		if stored, ok, err := store.Get(c.Request.Context(), key); err != nil {
			logger.Warn("page cache read failed", zap.String("key", key), zap.Error(err))
		} else if ok {
			contentType, body := splitEntry(stored)
			c.Header(CacheStatusHeader, "HIT")
			c.Data(http.StatusOK, contentType, body)
			c.Abort()
			return
		}

		rec := &bodyRecorder{ResponseWriter: c.Writer}
		c.Writer = rec
		c.Header(CacheStatusHeader, "MISS")
		c.Next()

		if rec.Status() != http.StatusOK || c.IsAborted() {
			return
		}
		entry := joinEntry(rec.Header().Get("Content-Type"), rec.body.Bytes())
		if err := store.Set(c.Request.Context(), key, entry, ttl); err != nil {
			logger.Warn("page cache write failed", zap.String("key", key), zap.Error(err))
		}
	}
}

func joinEntry(contentType string, body []byte) []byte {
	out := make([]byte, 0, len(contentType)+1+len(body))
	out = append(out, contentType...)
	out = append(out, '\n')
	return append(out, body...)
}

func splitEntry(entry []byte) (string, []byte) {
	i := bytes.IndexByte(entry, '\n')
	if i < 0 {
		return "application/octet-stream", entry
	}
	return string(entry[:i]), entry[i+1:]
}
