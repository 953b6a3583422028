package store

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	apperrors "github.com/snaplink-io/snaplink/internal/errors"
	"github.com/snaplink-io/snaplink/internal/model"
)

var _ LinkStore = (*RedisStore)(nil)

// Config - учетные данные внешнего хранилища. Оба значения обязательны.
type Config struct {
	URL       string // redis:// или rediss:// URL
	Token     string // access token (password)
	Namespace string // опциональный namespace для ключей
}

// Connect открывает и проверяет соединение с хранилищем. Отсутствие
// URL или токена - фатальная ошибка конфигурации, неотличимая для
// вызывающего от недоступного бэкенда.
func Connect(cfg Config) (*redis.Client, error) {
	if cfg.URL == "" || cfg.Token == "" {
		return nil, fmt.Errorf("%w: missing store URL or access token", apperrors.ErrStoreUnavailable)
	}

	opt, err := redis.ParseURL(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid store URL: %v", apperrors.ErrStoreUnavailable, err)
	}

	opt.Password = cfg.Token
	opt.DialTimeout = 5 * time.Second
	opt.ReadTimeout = 3 * time.Second
	opt.WriteTimeout = 3 * time.Second

	client := redis.NewClient(opt)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("%w: %v", apperrors.ErrStoreUnavailable, err)
	}

	return client, nil
}

// RedisStore - реализация LinkStore поверх Redis.
type RedisStore struct {
	client *redis.Client
	keys   *KeyBuilder
}

func NewRedisStore(client *redis.Client, namespace string) *RedisStore {
	return &RedisStore{
		client: client,
		keys:   NewKeyBuilder(namespace),
	}
}

// Put сохраняет запись. ttl <= 0 означает ключ без истечения.
func (r *RedisStore) Put(ctx context.Context, code string, link *model.Link, ttl time.Duration) error {
	if code == "" {
		return NewStoreError("set", code, ErrInvalidKey)
	}

	data, err := json.Marshal(link)
	if err != nil {
		return NewStoreError("set", code, fmt.Errorf("failed to marshal link: %w", err))
	}

	key := r.keys.Link(code)

	if ttl <= 0 {
		ttl = 0 // без истечения
	}

	if err := r.client.Set(ctx, key, data, ttl).Err(); err != nil {
		return NewStoreError("set", key, err)
	}

	return nil
}

// Get возвращает (nil, nil) когда код не существует.
func (r *RedisStore) Get(ctx context.Context, code string) (*model.Link, error) {
	if code == "" {
		return nil, NewStoreError("get", code, ErrInvalidKey)
	}

	key := r.keys.Link(code)

	data, err := r.client.Get(ctx, key).Result()
	if err != nil {
		if err == redis.Nil {
			return nil, nil
		}
		return nil, NewStoreError("get", key, err)
	}

	var link model.Link
	if err := json.Unmarshal([]byte(data), &link); err != nil {
		return nil, NewStoreError("get", key, fmt.Errorf("failed to unmarshal link: %w", err))
	}

	return &link, nil
}

func (r *RedisStore) Exists(ctx context.Context, code string) (bool, error) {
	if code == "" {
		return false, NewStoreError("exists", code, ErrInvalidKey)
	}

	result, err := r.client.Exists(ctx, r.keys.Link(code)).Result()
	if err != nil {
		return false, NewStoreError("exists", r.keys.Link(code), err)
	}

	return result > 0, nil
}

// IncrementClick читает запись, увеличивает счетчик и перезаписывает
// её, сохраняя оставшийся TTL ключа. Read-modify-write НЕ атомарен:
// конкурентные редиректы одного кода могут терять инкременты, счетчик
// под нагрузкой приблизительный.
func (r *RedisStore) IncrementClick(ctx context.Context, code string) error {
	link, err := r.Get(ctx, code)
	if err != nil {
		return err
	}
	if link == nil {
		return nil
	}

	link.ClickCount++

	key := r.keys.Link(code)

	// TTL возвращает -1 для ключа без истечения и -2 для отсутствующего.
	ttl, err := r.client.TTL(ctx, key).Result()
	if err != nil {
		return NewStoreError("ttl", key, err)
	}

	var expiry time.Duration
	if ttl > 0 {
		expiry = ttl
	}

	data, err := json.Marshal(link)
	if err != nil {
		return NewStoreError("set", key, fmt.Errorf("failed to marshal link: %w", err))
	}

	if err := r.client.Set(ctx, key, data, expiry).Err(); err != nil {
		return NewStoreError("set", key, err)
	}

	return nil
}

// HealthCheck проверяет соединение с хранилищем
func (r *RedisStore) HealthCheck(ctx context.Context) error {
	if err := r.client.Ping(ctx).Err(); err != nil {
		return NewStoreError("ping", "", err)
	}
	return nil
}

func (r *RedisStore) Close() error {
	return r.client.Close()
}
