package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
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
	"github.com/snaplink-io/snaplink/internal/model"
	"github.com/snaplink-io/snaplink/internal/ratelimit"
	"github.com/snaplink-io/snaplink/internal/service"
	"github.com/snaplink-io/snaplink/internal/store"
)

// Полный стек против miniredis: реальный сервис, реальный адаптер
// хранилища, реальный ограничитель. Мокается только сам Redis.
func setupApp(t *testing.T) (*gin.Engine, *store.RedisStore, *miniredis.Miniredis) {
	t.Helper()

	gin.SetMode(gin.TestMode)

	mr := miniredis.RunT(t)

	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })

	linkStore := store.NewRedisStore(client, "")
	limiter := ratelimit.NewLimiter(client, "", 600*time.Second, 60)
	m := metrics.New(prometheus.NewRegistry())
	log := logger.NewNop()

	linkService := service.NewLinkService(linkStore, "http://localhost:8080")
	h := NewLinkHandler(linkService, m, log)

	router := gin.New()
	router.POST("/api/shorten", RateLimit(limiter, m, log), h.Shorten)
	router.GET("/api/stats", h.Stats)
	router.GET("/r/:code", h.Resolve)

	return router, linkStore, mr
}

func postShorten(t *testing.T, router *gin.Engine, body map[string]interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(body); err != nil {
		t.Fatalf("failed to encode body: %v", err)
	}

	req := httptest.NewRequest(http.MethodPost, "/api/shorten", &buf)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Forwarded-For", "203.0.113.5")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestEndToEnd_ShortenResolveStats(t *testing.T) {
	router, _, _ := setupApp(t)

	w := postShorten(t, router, map[string]interface{}{"url": "https://example.com/a/b"})
	if w.Code != http.StatusCreated {
		t.Fatalf("shorten: status = %d, want 201 (body: %s)", w.Code, w.Body.String())
	}

	var created model.ShortenResponse
	if err := json.Unmarshal(w.Body.Bytes(), &created); err != nil {
		t.Fatalf("failed to unmarshal shorten response: %v", err)
	}

	if len(created.Code) != 6 {
		t.Errorf("shorten: code length = %d, want 6", len(created.Code))
	}
	if want := "http://localhost:8080/r/" + created.Code; created.ShortURL != want {
		t.Errorf("shorten: shortUrl = %s, want %s", created.ShortURL, want)
	}
	if got := w.Header().Get("X-RateLimit-Remaining"); got != "59" {
		t.Errorf("shorten: X-RateLimit-Remaining = %s, want 59", got)
	}

	// Редирект засчитывает клик
	req := httptest.NewRequest(http.MethodGet, "/r/"+created.Code, nil)
	redirect := httptest.NewRecorder()
	router.ServeHTTP(redirect, req)

	if redirect.Code != http.StatusFound {
		t.Fatalf("resolve: status = %d, want 302", redirect.Code)
	}
	if got := redirect.Header().Get("Location"); got != "https://example.com/a/b" {
		t.Errorf("resolve: Location = %s, want original URL", got)
	}

	req = httptest.NewRequest(http.MethodGet, "/api/stats?code="+created.Code, nil)
	stats := httptest.NewRecorder()
	router.ServeHTTP(stats, req)

	if stats.Code != http.StatusOK {
		t.Fatalf("stats: status = %d, want 200", stats.Code)
	}

	var statsResponse model.StatsResponse
	if err := json.Unmarshal(stats.Body.Bytes(), &statsResponse); err != nil {
		t.Fatalf("failed to unmarshal stats response: %v", err)
	}
	if statsResponse.ClickCount != 1 {
		t.Errorf("stats: clickCount = %d, want 1", statsResponse.ClickCount)
	}
	if statsResponse.OriginalURL != "https://example.com/a/b" {
		t.Errorf("stats: originalUrl = %s", statsResponse.OriginalURL)
	}
}

func TestEndToEnd_AliasAndExpiration(t *testing.T) {
	router, _, mr := setupApp(t)

	w := postShorten(t, router, map[string]interface{}{
		"url":            "https://example.com/docs",
		"alias":          "docs-link",
		"expirationDays": 30,
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("shorten: status = %d, want 201 (body: %s)", w.Code, w.Body.String())
	}

	var created model.ShortenResponse
	json.Unmarshal(w.Body.Bytes(), &created)
	if created.Code != "docs-link" {
		t.Errorf("shorten: code = %s, want docs-link", created.Code)
	}

	// Хранилище получило TTL ровно в 30 суток
	if got := mr.TTL("url:docs-link"); got != 2592000*time.Second {
		t.Errorf("store TTL = %v, want 2592000s", got)
	}

	// Повторная попытка занять тот же алиас
	w = postShorten(t, router, map[string]interface{}{
		"url":   "https://other.example.org",
		"alias": "docs-link",
	})
	if w.Code != http.StatusConflict {
		t.Errorf("duplicate alias: status = %d, want 409", w.Code)
	}
}

func TestEndToEnd_ExpiredLinkGone(t *testing.T) {
	router, linkStore, _ := setupApp(t)

	// Логически истекшая запись, еще не вытесненная хранилищем
	expiresAt := time.Now().UTC().Add(-time.Minute)
	link := &model.Link{
		OriginalURL: "https://example.com",
		CreatedAt:   time.Now().UTC().Add(-time.Hour),
		ExpiresAt:   &expiresAt,
	}
	if err := linkStore.Put(context.Background(), "old123", link, 0); err != nil {
		t.Fatalf("Put() error = %v", err)
	}

	req := httptest.NewRequest(http.MethodGet, "/r/old123", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusGone {
		t.Errorf("status = %d, want 410 for expired link", w.Code)
	}

	// Но статистика по ней еще отдается
	req = httptest.NewRequest(http.MethodGet, "/api/stats?code=old123", nil)
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("stats: status = %d, want 200 for expired link", w.Code)
	}
}

func TestEndToEnd_UnknownCodeNotFound(t *testing.T) {
	router, _, _ := setupApp(t)

	req := httptest.NewRequest(http.MethodGet, "/r/nosuch", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", w.Code)
	}
}

func TestEndToEnd_RateLimitOnShorten(t *testing.T) {
	router, _, _ := setupApp(t)

	var last *httptest.ResponseRecorder
	for i := 0; i < 61; i++ {
		last = postShorten(t, router, map[string]interface{}{
			"url": fmt.Sprintf("https://example.com/%d", i),
		})
	}

	if last.Code != http.StatusTooManyRequests {
		t.Errorf("request 61: status = %d, want 429", last.Code)
	}
	if got := last.Header().Get("X-RateLimit-Remaining"); got != "0" {
		t.Errorf("request 61: X-RateLimit-Remaining = %s, want 0", got)
	}
}
