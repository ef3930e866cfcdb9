package repository

import (
	"context"

	"github.com/yourusername/exam-portal/internal/domain/entity"
)

// SessionRepository хранит состояние клиента по идентификатору сессии.
// Get возвращает apperrors.ErrNotFound, если сессии нет.
type SessionRepository interface {
	Save(ctx context.Context, sessionID string, state *entity.AppState) error
	Get(ctx context.Context, sessionID string) (*entity.AppState, error)
	Delete(ctx context.Context, sessionID string) error
}
