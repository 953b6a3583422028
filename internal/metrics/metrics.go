package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics - счетчики исходов операций сервиса.
type Metrics struct {
	ShortenTotal *prometheus.CounterVec
	ResolveTotal *prometheus.CounterVec
	RateLimited  prometheus.Counter
}

// New регистрирует счетчики в переданном реестре. Тесты передают
// собственный prometheus.NewRegistry(), чтобы избежать конфликтов
// повторной регистрации.
func New(reg prometheus.Registerer) *Metrics {
	return &Metrics{
		ShortenTotal: promauto.With(reg).NewCounterVec(prometheus.CounterOpts{
			Name: "snaplink_shorten_requests_total",
			Help: "Shorten requests by outcome.",
		}, []string{"outcome"}),
		ResolveTotal: promauto.With(reg).NewCounterVec(prometheus.CounterOpts{
			Name: "snaplink_resolve_requests_total",
			Help: "Resolve requests by outcome.",
		}, []string{"outcome"}),
		RateLimited: promauto.With(reg).NewCounter(prometheus.CounterOpts{
			Name: "snaplink_rate_limited_total",
			Help: "Requests rejected by the rate limiter.",
		}),
	}
}
