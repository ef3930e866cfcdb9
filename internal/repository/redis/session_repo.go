package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/yourusername/exam-portal/internal/domain/entity"
	"github.com/yourusername/exam-portal/internal/domain/repository"
	apperrors "github.com/yourusername/exam-portal/internal/pkg/errors"
)

const sessionKeyPrefix = "session:"

// SessionRepo хранит AppState в Redis через CacheRepository.
// Позволяет запускать несколько экземпляров портала за балансировщиком.
type SessionRepo struct {
	cache repository.CacheRepository
	ttl   time.Duration
}

var _ repository.SessionRepository = (*SessionRepo)(nil)

// NewSessionRepo создает хранилище сессий. ttl == 0 - без истечения.
func NewSessionRepo(cache repository.CacheRepository, ttl time.Duration) *SessionRepo {
	return &SessionRepo{cache: cache, ttl: ttl}
}

// Save сохраняет состояние сессии
func (r *SessionRepo) Save(ctx context.Context, sessionID string, state *entity.AppState) error {
	if sessionID == "" || state == nil {
		return fmt.Errorf("%w: session id and state are required", apperrors.ErrValidation)
	}
	return r.cache.SetJSON(ctx, sessionKeyPrefix+sessionID, state, r.ttl)
}

// Get загружает состояние сессии
func (r *SessionRepo) Get(ctx context.Context, sessionID string) (*entity.AppState, error) {
	var state entity.AppState
	if err := r.cache.GetJSON(ctx, sessionKeyPrefix+sessionID, &state); err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to load session: %w", err)
	}
	return &state, nil
}

// Delete удаляет сессию
func (r *SessionRepo) Delete(ctx context.Context, sessionID string) error {
	return r.cache.Delete(ctx, sessionKeyPrefix+sessionID)
}
