package ratelimit

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/snaplink-io/snaplink/internal/store"
)

const (
	DefaultWindow      = 600 * time.Second
	DefaultMaxRequests = 60
)

// Limiter - fixed-window ограничитель запросов на клиента. Окно
// привязано к первому запросу клиента, а не к границам wall-clock.
// Простой и допускает всплески на стыке окон - это защита от
// злоупотреблений, а не гарантия справедливости.
type Limiter struct {
	client *redis.Client
	keys   *store.KeyBuilder
	window time.Duration
	max    int64
}

func NewLimiter(client *redis.Client, namespace string, window time.Duration, max int64) *Limiter {
	if window <= 0 {
		window = DefaultWindow
	}
	if max <= 0 {
		max = DefaultMaxRequests
	}
	return &Limiter{
		client: client,
		keys:   store.NewKeyBuilder(namespace),
		window: window,
		max:    max,
	}
}

// Check атомарно увеличивает счетчик клиента и возвращает, допущен ли
// запрос, и сколько запросов осталось в текущем окне. Истечение
// выставляется только на первом запросе окна - повторные запросы
// окно не продлевают.
func (l *Limiter) Check(ctx context.Context, clientID string) (allowed bool, remaining int64, err error) {
	key := l.keys.RateLimit(clientID)

	count, err := l.client.Incr(ctx, key).Result()
	if err != nil {
		return false, 0, store.NewStoreError("incr", key, err)
	}

	if count == 1 {
		if err := l.client.Expire(ctx, key, l.window).Err(); err != nil {
			return false, 0, store.NewStoreError("expire", key, err)
		}
	}

	remaining = l.max - count
	if remaining < 0 {
		remaining = 0
	}

	return count <= l.max, remaining, nil
}
