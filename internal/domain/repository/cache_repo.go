package repository

import (
	"context"
	"time"
)

// CacheRepository определяет методы для работы с кешем
type CacheRepository interface {
	Delete(ctx context.Context, key string) error
	SetJSON(ctx context.Context, key string, value interface{}, expiration time.Duration) error
	GetJSON(ctx context.Context, key string, dest interface{}) error
}

// RateCounter - счетчик запросов в скользящем окне
type RateCounter interface {
	// Hit увеличивает счетчик ключа и возвращает новое значение и время до сброса.
	// Окно начинается с первого обращения.
	Hit(ctx context.Context, key string, window time.Duration) (int64, time.Duration, error)
}
