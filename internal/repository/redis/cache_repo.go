package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"

	"github.com/yourusername/exam-portal/internal/domain/repository"
	apperrors "github.com/yourusername/exam-portal/internal/pkg/errors"
)

// CacheRepo реализует repository.CacheRepository
type CacheRepo struct {
	client redis.UniversalClient
	prefix string
}

var (
	_ repository.CacheRepository = (*CacheRepo)(nil)
	_ repository.RateCounter     = (*CacheRepo)(nil)
)

// NewCacheRepo создает репозиторий кеша. prefix добавляется ко всем ключам.
func NewCacheRepo(client redis.UniversalClient, prefix string) (*CacheRepo, error) {
	if client == nil {
		return nil, fmt.Errorf("Redis client cannot be nil for CacheRepo")
	}
	return &CacheRepo{
		client: client,
		prefix: prefix,
	}, nil
}

func (r *CacheRepo) key(k string) string {
	return r.prefix + k
}

// Delete удаляет значение из кеша
func (r *CacheRepo) Delete(ctx context.Context, key string) error {
	return r.client.Del(ctx, r.key(key)).Err()
}

// SetJSON сохраняет структуру JSON в кеше
func (r *CacheRepo) SetJSON(ctx context.Context, key string, value interface{}, expiration time.Duration) error {
	data, err := json.Marshal(value)
	if err != nil {
		return err
	}
	return r.client.Set(ctx, r.key(key), data, expiration).Err()
}

// GetJSON получает структуру JSON из кеша
func (r *CacheRepo) GetJSON(ctx context.Context, key string, dest interface{}) error {
	data, err := r.client.Get(ctx, r.key(key)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return apperrors.ErrNotFound
		}
		return err
	}
	return json.Unmarshal(data, dest)
}

// Hit реализует repository.RateCounter через INCR и EXPIRE
func (r *CacheRepo) Hit(ctx context.Context, key string, window time.Duration) (int64, time.Duration, error) {
	k := r.key(key)
	count, err := r.client.Incr(ctx, k).Result()
	if err != nil {
		return 0, 0, err
	}

	// Первый запрос в окне - устанавливаем TTL
	if count == 1 {
		if err := r.client.Expire(ctx, k, window).Err(); err != nil {
			return count, window, fmt.Errorf("set ttl for %s: %w", k, err)
		}
		return count, window, nil
	}

	ttl, err := r.client.TTL(ctx, k).Result()
	if err != nil {
		return count, window, nil
	}
	if ttl < 0 {
		// Ключ остался без TTL после сбоя Expire
		r.client.Expire(ctx, k, window)
		ttl = window
	}
	return count, ttl, nil
}
