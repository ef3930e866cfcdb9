package middleware

import (
	"context"
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/yourusername/exam-portal/internal/domain/entity"
	"github.com/yourusername/exam-portal/internal/domain/repository"
	apperrors "github.com/yourusername/exam-portal/internal/pkg/errors"
)

// Ключи контекста gin
const (
	ContextSessionID = "session_id"
	ContextAppState  = "app_state"
)

// SessionMiddleware загружает состояние клиента по cookie и сохраняет его после обработчика
type SessionMiddleware struct {
	sessions   repository.SessionRepository
	cookieName string
	locks      *KeyedMutex
}

// NewSessionMiddleware создает middleware сессий
func NewSessionMiddleware(sessions repository.SessionRepository, cookieName string, locks *KeyedMutex) *SessionMiddleware {
	if locks == nil {
		locks = NewKeyedMutex()
	}
	return &SessionMiddleware{
		sessions:   sessions,
		cookieName: cookieName,
		locks:      locks,
	}
}

// RequireSession пропускает только запросы с действующей сессией.
// Запросы одной сессии выполняются последовательно.
func (m *SessionMiddleware) RequireSession() gin.HandlerFunc {
	return func(c *gin.Context) {
		sessionID, err := c.Cookie(m.cookieName)
		if err != nil || sessionID == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Please sign in", "error_type": "session_missing"})
			return
		}

		unlock := m.locks.Lock(sessionID)
		defer unlock()

		ctx := c.Request.Context()
		state, err := m.sessions.Get(ctx, sessionID)
		if err != nil {
			if errors.Is(err, apperrors.ErrNotFound) {
				c.SetCookie(m.cookieName, "", -1, "/", "", false, true)
				c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Session expired, please sign in again", "error_type": "session_expired"})
				return
			}
			log.Printf("[SessionMiddleware] Ошибка загрузки сессии: %v", err)
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
			return
		}
		if state.Session == nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Please sign in", "error_type": "session_missing"})
			return
		}

		c.Set(ContextSessionID, sessionID)
		c.Set(ContextAppState, state)

		c.Next()

		if err := m.sessions.Save(ctx, sessionID, state); err != nil {
			log.Printf("[SessionMiddleware] Не удалось сохранить сессию: %v", err)
		}
	}
}

// AdminOnly проверяет, что пользователь - администратор. Ставится после RequireSession.
func (m *SessionMiddleware) AdminOnly() gin.HandlerFunc {
	return func(c *gin.Context) {
		state, ok := StateFromContext(c)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}
		if !state.Session.IsAdmin() {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "Admin rights required"})
			return
		}
		c.Next()
	}
}

// StateFromContext возвращает состояние, загруженное RequireSession
func StateFromContext(c *gin.Context) (*entity.AppState, bool) {
	v, exists := c.Get(ContextAppState)
	if !exists {
		return nil, false
	}
	state, ok := v.(*entity.AppState)
	return state, ok && state != nil && state.Session != nil
}

// Create сохраняет состояние под новым идентификатором сессии
func (m *SessionMiddleware) Create(ctx context.Context, state *entity.AppState) (string, error) {
	sessionID := uuid.NewString()
	if err := m.sessions.Save(ctx, sessionID, state); err != nil {
		return "", err
	}
	return sessionID, nil
}

// Destroy удаляет сессию и возвращает ее последнее состояние (nil, если сессии уже нет).
// Ждет завершения запросов этой сессии, иначе они сохранили бы состояние обратно.
// Нельзя вызывать из обработчика за RequireSession той же сессии.
func (m *SessionMiddleware) Destroy(ctx context.Context, sessionID string) (*entity.AppState, error) {
	unlock := m.locks.Lock(sessionID)
	defer unlock()

	state, err := m.sessions.Get(ctx, sessionID)
	if err != nil {
		state = nil
		if !errors.Is(err, apperrors.ErrNotFound) {
			log.Printf("[SessionMiddleware] Ошибка загрузки сессии перед удалением: %v", err)
		}
	}
	if err := m.sessions.Delete(ctx, sessionID); err != nil {
		return state, err
	}
	return state, nil
}
