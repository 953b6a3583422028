package handler

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/redis/go-redis/v9"

	"github.com/snaplink-io/snaplink/internal/logger"
	"github.com/snaplink-io/snaplink/internal/metrics"
	"github.com/snaplink-io/snaplink/internal/ratelimit"
)

func TestClientID(t *testing.T) {
	tests := []struct {
		name     string
		headers  map[string]string
		expected string
	}{
		{
			name:     "forwarded-for single entry",
			headers:  map[string]string{"X-Forwarded-For": "203.0.113.5"},
			expected: "203.0.113.5",
		},
		{
			name:     "forwarded-for takes first entry",
			headers:  map[string]string{"X-Forwarded-For": "203.0.113.5, 10.0.0.1, 10.0.0.2"},
			expected: "203.0.113.5",
		},
		{
			name:     "forwarded-for with spaces",
			headers:  map[string]string{"X-Forwarded-For": "  203.0.113.5 , 10.0.0.1"},
			expected: "203.0.113.5",
		},
		{
			name:     "real-ip fallback",
			headers:  map[string]string{"X-Real-IP": "198.51.100.7"},
			expected: "198.51.100.7",
		},
		{
			name: "forwarded-for wins over real-ip",
			headers: map[string]string{
				"X-Forwarded-For": "203.0.113.5",
				"X-Real-IP":       "198.51.100.7",
			},
			expected: "203.0.113.5",
		},
		{
			name:     "no headers - shared bucket",
			headers:  map[string]string{},
			expected: "unknown",
		},
	}

	gin.SetMode(gin.TestMode)

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got string

			router := gin.New()
			router.GET("/", func(c *gin.Context) {
				got = ClientID(c)
				c.Status(http.StatusOK)
			})

			req := httptest.NewRequest(http.MethodGet, "/", nil)
			for k, v := range tt.headers {
				req.Header.Set(k, v)
			}
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			if got != tt.expected {
				t.Errorf("ClientID() = %q, want %q", got, tt.expected)
			}
		})
	}
}

func setupRateLimitedRouter(t *testing.T, window time.Duration, max int64) (*gin.Engine, *miniredis.Miniredis) {
	t.Helper()

	gin.SetMode(gin.TestMode)

	mr := miniredis.RunT(t)

	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })

	limiter := ratelimit.NewLimiter(client, "", window, max)
	m := metrics.New(prometheus.NewRegistry())

	router := gin.New()
	router.POST("/api/shorten", RateLimit(limiter, m, logger.NewNop()), func(c *gin.Context) {
		c.Status(http.StatusCreated)
	})

	return router, mr
}

func TestRateLimitMiddleware(t *testing.T) {
	router, _ := setupRateLimitedRouter(t, 600*time.Second, 2)

	do := func() *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPost, "/api/shorten", nil)
		req.Header.Set("X-Forwarded-For", "203.0.113.5")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		return w
	}

	first := do()
	if first.Code != http.StatusCreated {
		t.Fatalf("request 1: status = %d, want 201", first.Code)
	}
	if got := first.Header().Get("X-RateLimit-Remaining"); got != "1" {
		t.Errorf("request 1: X-RateLimit-Remaining = %s, want 1", got)
	}

	second := do()
	if second.Code != http.StatusCreated {
		t.Fatalf("request 2: status = %d, want 201", second.Code)
	}
	if got := second.Header().Get("X-RateLimit-Remaining"); got != "0" {
		t.Errorf("request 2: X-RateLimit-Remaining = %s, want 0", got)
	}

	third := do()
	if third.Code != http.StatusTooManyRequests {
		t.Errorf("request 3: status = %d, want 429", third.Code)
	}
	if got := third.Header().Get("X-RateLimit-Remaining"); got != "0" {
		t.Errorf("request 3: X-RateLimit-Remaining = %s, want 0", got)
	}
}

func TestRateLimitMiddleware_WindowElapses(t *testing.T) {
	router, mr := setupRateLimitedRouter(t, 600*time.Second, 1)

	do := func() *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPost, "/api/shorten", nil)
		req.Header.Set("X-Real-IP", "198.51.100.7")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		return w
	}

	do()
	if w := do(); w.Code != http.StatusTooManyRequests {
		t.Fatalf("over-limit request: status = %d, want 429", w.Code)
	}

	mr.FastForward(600 * time.Second)

	if w := do(); w.Code != http.StatusCreated {
		t.Errorf("request after window elapsed: status = %d, want 201", w.Code)
	}
}

func TestRateLimitMiddleware_StoreDown(t *testing.T) {
	router, mr := setupRateLimitedRouter(t, 600*time.Second, 60)

	mr.Close()

	req := httptest.NewRequest(http.MethodPost, "/api/shorten", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusServiceUnavailable {
		t.Errorf("status = %d, want 503 when store is down", w.Code)
	}
}
