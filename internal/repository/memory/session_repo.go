package memory

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/yourusername/exam-portal/internal/domain/entity"
	"github.com/yourusername/exam-portal/internal/domain/repository"
	apperrors "github.com/yourusername/exam-portal/internal/pkg/errors"
)

type sessionEntry struct {
	data      []byte
	expiresAt time.Time
}

// SessionRepo - хранилище сессий в памяти процесса, для одного экземпляра портала.
// Состояние хранится в сериализованном виде, чтобы вызывающий не мог изменить его без Save.
type SessionRepo struct {
	mu       sync.Mutex
	ttl      time.Duration
	now      func() time.Time
	sessions map[string]sessionEntry
	saves    int
}

const sweepEvery = 64

var _ repository.SessionRepository = (*SessionRepo)(nil)

// NewSessionRepo создает хранилище. ttl == 0 - сессии живут до выхода.
func NewSessionRepo(ttl time.Duration) *SessionRepo {
	return &SessionRepo{
		ttl:      ttl,
		now:      time.Now,
		sessions: make(map[string]sessionEntry),
	}
}

// Save сохраняет копию состояния
func (r *SessionRepo) Save(_ context.Context, sessionID string, state *entity.AppState) error {
	if sessionID == "" || state == nil {
		return fmt.Errorf("%w: session id and state are required", apperrors.ErrValidation)
	}
	data, err := json.Marshal(state)
	if err != nil {
		return err
	}

	entry := sessionEntry{data: data}
	if r.ttl > 0 {
		entry.expiresAt = r.now().Add(r.ttl)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.sessions[sessionID] = entry

	r.saves++
	if r.ttl > 0 && r.saves%sweepEvery == 0 {
		r.sweepLocked()
	}
	return nil
}

// sweepLocked удаляет истекшие сессии, к которым больше не обращались
func (r *SessionRepo) sweepLocked() {
	now := r.now()
	for id, e := range r.sessions {
		if !e.expiresAt.IsZero() && now.After(e.expiresAt) {
			delete(r.sessions, id)
		}
	}
}

// Get возвращает копию состояния или apperrors.ErrNotFound
func (r *SessionRepo) Get(_ context.Context, sessionID string) (*entity.AppState, error) {
	r.mu.Lock()
	entry, ok := r.sessions[sessionID]
	if ok && !entry.expiresAt.IsZero() && r.now().After(entry.expiresAt) {
		delete(r.sessions, sessionID)
		ok = false
	}
	r.mu.Unlock()

	if !ok {
		return nil, apperrors.ErrNotFound
	}

	var state entity.AppState
	if err := json.Unmarshal(entry.data, &state); err != nil {
		return nil, err
	}
	return &state, nil
}

// Delete удаляет сессию
func (r *SessionRepo) Delete(_ context.Context, sessionID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.sessions, sessionID)
	return nil
}
