package middleware

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"net/http"
	"sort"
	"strings"
	"time"

	"github.com/clipforge/clipforge-api/internal/services/cache"
	"github.com/gin-gonic/gin"
)

// responseWriter buffers the response so headers such as ETag can still
// be set after the handler runs; nothing reaches the client until the
// middleware flushes.
type responseWriter struct {
	gin.ResponseWriter
	body   *bytes.Buffer
	status int
}

func (w *responseWriter) Write(data []byte) (int, error) {
	return w.body.Write(data)
}

func (w *responseWriter) WriteString(s string) (int, error) {
	return w.body.WriteString(s)
}

func (w *responseWriter) WriteHeader(status int) {
	w.status = status
}

func (w *responseWriter) WriteHeaderNow() {}

func (w *responseWriter) flush() {
	w.ResponseWriter.WriteHeader(w.status)
	if w.body.Len() > 0 {
		w.ResponseWriter.Write(w.body.Bytes())
	}
}

// ResponseCache caches successful GET responses for the attached routes.
// Cache keys share the CacheKeyPrefix namespace so handlers can invalidate
// every cached response for a video in one call.
func ResponseCache(store cache.Cache, ttl time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		if store == nil || c.Request.Method != http.MethodGet {
			c.Next()
			return
		}

		if shouldBypassCache(c.Request) {
			c.Header("X-Cache", "BYPASS")
			c.Next()
			return
		}

		key := cacheKey(c.Request)

		if cached, found := store.Get(context.Background(), key); found {
			c.Header("X-Cache", "HIT")
			c.Header("ETag", etagFor(cached))
			c.Data(http.StatusOK, "application/json; charset=utf-8", cached)
			c.Abort()
			return
		}

		c.Header("X-Cache", "MISS")

		w := &responseWriter{
			ResponseWriter: c.Writer,
			body:           bytes.NewBuffer(nil),
			status:         http.StatusOK,
		}
		c.Writer = w

		c.Next()

		// Only cache successful responses
		if w.status == http.StatusOK && w.body.Len() > 0 {
			_ = store.Set(context.Background(), key, w.body.Bytes(), ttl)
			c.Header("ETag", etagFor(w.body.Bytes()))
		}
		w.flush()
	}
}

// CacheKeyPrefix returns the cache key namespace for a request path.
// DeletePrefix with this value drops every cached response under the path.
func CacheKeyPrefix(path string) string {
	return "http:" + path
}

// shouldBypassCache checks if cache should be bypassed based on request headers
func shouldBypassCache(req *http.Request) bool {
	cacheControl := req.Header.Get("Cache-Control")
	if cacheControl != "" {
		directives := strings.Split(strings.ToLower(cacheControl), ",")
		for _, directive := range directives {
			directive = strings.TrimSpace(directive)
			if directive == "no-cache" || directive == "no-store" || directive == "max-age=0" {
				return true
			}
		}
	}

	// Pragma for backwards compatibility
	return req.Header.Get("Pragma") == "no-cache"
}

// cacheKey creates a unique key for the request path plus sorted query params
func cacheKey(req *http.Request) string {
	parts := []string{CacheKeyPrefix(req.URL.Path)}

	if req.URL.RawQuery != "" {
		params := req.URL.Query()
		keys := make([]string, 0, len(params))
		for k := range params {
			keys = append(keys, k)
		}
		sort.Strings(keys)

		for _, k := range keys {
			for _, v := range params[k] {
				parts = append(parts, fmt.Sprintf("%s=%s", k, v))
			}
		}
	}

	return strings.Join(parts, ":")
}

func etagFor(body []byte) string {
	hash := sha256.Sum256(body)
	return fmt.Sprintf(`"%s"`, hex.EncodeToString(hash[:]))
}
