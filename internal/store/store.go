package store

import (
	"context"
	"time"

	"github.com/snaplink-io/snaplink/internal/model"
)

// LinkStore - операции над записями ссылок во внешнем KV-хранилище.
type LinkStore interface {
	// Put сериализует запись и пишет её под кодом, перезаписывая
	// существующее значение. При ttl > 0 ключ получает авто-истечение.
	Put(ctx context.Context, code string, link *model.Link, ttl time.Duration) error

	// Get возвращает (nil, nil) если ключ отсутствует.
	Get(ctx context.Context, code string) (*model.Link, error)

	// Exists проверяет существование кода без чтения значения.
	Exists(ctx context.Context, code string) (bool, error)

	// IncrementClick увеличивает clickCount на 1, сохраняя оставшийся
	// TTL ключа. Отсутствующий код - no-op, не ошибка.
	IncrementClick(ctx context.Context, code string) error
}
