package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/varnamer/api/internal/limiter"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type countingStore struct {
	counts map[string]int64
	err    error
}

func (s *countingStore) Incr(_ context.Context, key string, _ time.Duration) (int64, error) {
	if s.err != nil {
		return 0, s.err
	}
	s.counts[key]++
	return s.counts[key], nil
}

func (s *countingStore) TTL(context.Context, string) (time.Duration, error) {
	return time.Minute, nil
}

func newRouter(handlers ...gin.HandlerFunc) *gin.Engine {
	r := gin.New()
	handlers = append(handlers, func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"ok": true}) })
	r.GET("/test", handlers...)
	return r
}

func do(r http.Handler, header http.Header) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/test", nil)
	for k, v := range header {
		req.Header[k] = v
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestRateLimit(t *testing.T) {
	l := limiter.NewLimiterWithLimits(&countingStore{counts: map[string]int64{}}, map[string]limiter.ActionConfig{
		limiter.ActionValidate: {Limit: 2, Window: time.Minute},
	})
	r := newRouter(RateLimit(l, limiter.ActionValidate))

	w := do(r, nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "2", w.Header().Get("X-RateLimit-Limit"))
	assert.Equal(t, "1", w.Header().Get("X-RateLimit-Remaining"))
	assert.NotEmpty(t, w.Header().Get("X-RateLimit-Reset"))

	assert.Equal(t, http.StatusOK, do(r, nil).Code)

	w = do(r, nil)
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Equal(t, "0", w.Header().Get("X-RateLimit-Remaining"))
	assert.Contains(t, w.Body.String(), "RATE_LIMIT_EXCEEDED")
}

func TestRateLimit_FailsOpen(t *testing.T) {
	broken := limiter.NewLimiter(&countingStore{err: errors.New("redis down")})

	assert.Equal(t, http.StatusOK, do(newRouter(RateLimit(broken, limiter.ActionTranslate)), nil).Code)
	assert.Equal(t, http.StatusOK, do(newRouter(RateLimit(nil, limiter.ActionTranslate)), nil).Code)
}

func TestCronSecretMiddleware(t *testing.T) {
	r := newRouter(CronSecretMiddleware("s3cret"))

	tests := []struct {
		name   string
		header string
		want   int
	}{
		{"valid", "Bearer s3cret", http.StatusOK},
		{"lowercase scheme", "bearer s3cret", http.StatusOK},
		{"wrong secret", "Bearer nope", http.StatusUnauthorized},
		{"missing header", "", http.StatusUnauthorized},
		{"no scheme", "s3cret", http.StatusUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			header := http.Header{}
			if tt.header != "" {
				header.Set("Authorization", tt.header)
			}
			assert.Equal(t, tt.want, do(r, header).Code)
		})
	}
}

func TestCronSecretMiddleware_EmptySecretRejects(t *testing.T) {
	r := newRouter(CronSecretMiddleware(""))

	header := http.Header{}
	header.Set("Authorization", "Bearer ")
	assert.Equal(t, http.StatusUnauthorized, do(r, header).Code)
}

func TestMetricsMiddleware(t *testing.T) {
	r := newRouter(MetricsMiddleware())
	assert.Equal(t, http.StatusOK, do(r, nil).Code)
}
