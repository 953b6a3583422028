package handler

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/snaplink-io/snaplink/internal/logger"
	"github.com/snaplink-io/snaplink/internal/metrics"
	"github.com/snaplink-io/snaplink/internal/ratelimit"
)

// ClientID выводит идентификатор клиента для троттлинга: первая запись
// X-Forwarded-For, иначе X-Real-IP, иначе "unknown". Все клиенты без
// идентификатора делят один бакет.
func ClientID(c *gin.Context) string {
	if fwd := c.GetHeader("X-Forwarded-For"); fwd != "" {
		if first := strings.TrimSpace(strings.Split(fwd, ",")[0]); first != "" {
			return first
		}
	}

	if ip := c.GetHeader("X-Real-IP"); ip != "" {
		return ip
	}

	return "unknown"
}

// RateLimit - middleware допуска запросов. Остаток квоты уходит
// клиенту в заголовке X-RateLimit-Remaining.
func RateLimit(limiter *ratelimit.Limiter, m *metrics.Metrics, log *logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		clientID := ClientID(c)

		allowed, remaining, err := limiter.Check(c.Request.Context(), clientID)
		if err != nil {
			log.Error("rate limit check failed", zap.String("client", clientID), zap.Error(err))
			c.AbortWithStatusJSON(http.StatusServiceUnavailable, gin.H{
				"error":   "store_unavailable",
				"message": "Storage backend is unavailable",
			})
			return
		}

		c.Header("X-RateLimit-Remaining", strconv.FormatInt(remaining, 10))

		if !allowed {
			m.RateLimited.Inc()
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"error":   "rate_limit_exceeded",
				"message": "Too many requests. Please try again later.",
			})
			return
		}

		c.Next()
	}
}

// RequestLogger логирует каждый запрос структурированно
func RequestLogger(log *logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		log.Info("request",
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", time.Since(start)),
			zap.String("client", ClientID(c)),
		)
	}
}
