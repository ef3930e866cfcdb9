package entity

import "strings"

// SessionMode - режим сессии. Заменяет флаг "админ проходит тест".
type SessionMode string

const (
	SessionModeRegular         SessionMode = "regular"
	SessionModeAdmin           SessionMode = "admin"
	SessionModeAdminTakingTest SessionMode = "admin_taking_test"
)

// Screen - текущий экран клиента
type Screen string

const (
	ScreenLogin  Screen = "login"
	ScreenSelect Screen = "select"
	ScreenExam   Screen = "exam"
	ScreenResult Screen = "result"
	ScreenAdmin  Screen = "admin"
)

// Session - аутентифицированный пользователь текущей вкладки
type Session struct {
	Username      string      `json:"username"`
	FullName      string      `json:"full_name"`
	AssignedTests []string    `json:"assigned_tests"`
	Mode          SessionMode `json:"mode"`
}

// IsAdmin возвращает true для обоих админских режимов
func (s *Session) IsAdmin() bool {
	return s.Mode == SessionModeAdmin || s.Mode == SessionModeAdminTakingTest
}

// IsAdminBrowsing - администратор в панели, а не в режиме прохождения тестов
func (s *Session) IsAdminBrowsing() bool {
	return s.Mode == SessionModeAdmin
}

// DisplayName возвращает полное имя или логин
func (s *Session) DisplayName() string {
	if strings.TrimSpace(s.FullName) != "" {
		return s.FullName
	}
	return s.Username
}

// IsAssigned проверяет назначение теста
func (s *Session) IsAssigned(sheetName string) bool {
	for _, t := range s.AssignedTests {
		if t == sheetName {
			return true
		}
	}
	return false
}

// AppState - состояние клиента. Создается при входе и уничтожается при выходе,
// передается явно во все операции вместо глобальных переменных.
type AppState struct {
	Session     *Session       `json:"session"`
	Catalog     []Test         `json:"catalog"`
	Screen      Screen         `json:"screen"`
	CurrentTest *Test          `json:"current_test,omitempty"`
	Questions   []Question     `json:"questions,omitempty"`
	Result      *AttemptResult `json:"result,omitempty"`
	Notice      string         `json:"notice,omitempty"`
}

// HomeScreen возвращает экран, на который пользователь возвращается после теста или ошибки
func (s *AppState) HomeScreen() Screen {
	if s.Session != nil && s.Session.IsAdminBrowsing() {
		return ScreenAdmin
	}
	return ScreenSelect
}

// ResetExam очищает данные текущей попытки
func (s *AppState) ResetExam() {
	s.CurrentTest = nil
	s.Questions = nil
	s.Result = nil
}

// Clear полностью сбрасывает состояние (выход)
func (s *AppState) Clear() {
	s.Session = nil
	s.Catalog = nil
	s.ResetExam()
	s.Notice = ""
	s.Screen = ScreenLogin
}
