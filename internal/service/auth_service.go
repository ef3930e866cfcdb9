package service

import (
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/yourusername/exam-portal/internal/domain/entity"
	"github.com/yourusername/exam-portal/internal/domain/repository"
)

// AuthService проверяет учетные данные по списку пользователей удаленного сервиса
type AuthService struct {
	backend       repository.ExamBackend
	adminUsername string
}

// NewAuthService создает сервис аутентификации. Пустое имя администратора
// заменяется значением по умолчанию.
func NewAuthService(backend repository.ExamBackend, adminUsername string) *AuthService {
	if adminUsername == "" {
		adminUsername = entity.DefaultAdminUsername
	}
	return &AuthService{
		backend:       backend,
		adminUsername: adminUsername,
	}
}

// Authenticate проверяет логин и пароль и создает состояние клиента.
// Пароль не обрезается: пробелы считаются частью пароля.
func (s *AuthService) Authenticate(ctx context.Context, username, password string) (*entity.AppState, error) {
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return nil, ErrMissingCredentials
	}

	directory, err := s.backend.GetUsers(ctx)
	if err != nil {
		log.Printf("[AuthService] Ошибка получения пользователей: %v", err)
		return nil, fmt.Errorf("%w: %v", ErrServiceUnavailable, err)
	}

	digest := entity.HashPassword(password)
	var matched *entity.User
	for i := range directory.Users {
		u := &directory.Users[i]
		if u.Username == username && u.HasPasswordDigest(digest) {
			matched = u
			break
		}
	}
	if matched == nil {
		log.Printf("[AuthService] Неудачная попытка входа для пользователя %q", username)
		return nil, ErrInvalidCredentials
	}

	session := &entity.Session{
		Username:      matched.Username,
		FullName:      matched.FullName,
		AssignedTests: append([]string(nil), matched.Tests...),
		Mode:          entity.SessionModeRegular,
	}
	if s.IsAdminUsername(matched.Username) {
		session.Mode = entity.SessionModeAdmin
	}

	state := &entity.AppState{
		Session: session,
		Catalog: append([]entity.Test(nil), directory.Tests...),
	}
	state.Screen = state.HomeScreen()

	log.Printf("[AuthService] Пользователь %s вошел (режим %s)", session.Username, session.Mode)
	return state, nil
}

// Logout сбрасывает состояние клиента до экрана входа
func (s *AuthService) Logout(state *entity.AppState) {
	if state == nil {
		return
	}
	if state.Session != nil {
		log.Printf("[AuthService] Пользователь %s вышел", state.Session.Username)
	}
	state.Clear()
}

// IsAdminUsername сообщает, является ли имя зарезервированным именем администратора
func (s *AuthService) IsAdminUsername(username string) bool {
	return username == s.adminUsername
}
