package repository

import (
	"context"

	"github.com/yourusername/exam-portal/internal/domain/entity"
)

// Directory - ответ getUsers: пользователи и каталог тестов
type Directory struct {
	Users []entity.User `json:"users"`
	Tests []entity.Test `json:"tests"`
}

// ExamBackend определяет вызовы удаленного сервиса, хранящего данные в таблице
type ExamBackend interface {
	// GetUsers возвращает всех пользователей и каталог тестов
	GetUsers(ctx context.Context) (*Directory, error)
	// GetQuestions возвращает вопросы теста по имени листа
	GetQuestions(ctx context.Context, sheetName string) ([]entity.Question, error)
	// SubmitResult сохраняет попытку вместе с детализацией ответов
	SubmitResult(ctx context.Context, attempt *entity.Attempt) error
	// GetResults возвращает все сохраненные результаты (для администратора)
	GetResults(ctx context.Context) ([]entity.ResultRecord, error)
}
