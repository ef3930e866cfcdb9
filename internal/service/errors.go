package service

import (
	"errors"
	"fmt"

	apperrors "github.com/yourusername/exam-portal/internal/pkg/errors"
)

// Ошибки сервисов экзамена. Каждая оборачивает общую ошибку приложения,
// поэтому обработчики могут проверять как конкретную, так и общую категорию.
var (
	ErrMissingCredentials  = fmt.Errorf("%w: username and password are required", apperrors.ErrValidation)
	ErrInvalidCredentials  = fmt.Errorf("%w: invalid username or password", apperrors.ErrUnauthorized)
	ErrServiceUnavailable  = fmt.Errorf("%w: connection error", apperrors.ErrUpstream)
	ErrTestNotFound        = fmt.Errorf("%w: test not found", apperrors.ErrNotFound)
	ErrLoadFailed          = fmt.Errorf("%w: failed to load questions", apperrors.ErrUpstream)
	ErrNoQuestions         = fmt.Errorf("%w: test has no questions", apperrors.ErrNotFound)
	ErrQuestionNoOptions   = fmt.Errorf("%w: question has no answer options", apperrors.ErrUpstream)
	ErrUnansweredQuestions = fmt.Errorf("%w: please answer all questions", apperrors.ErrValidation)
	ErrNoActiveExam        = fmt.Errorf("%w: no exam in progress", apperrors.ErrValidation)
	ErrResultNotFound      = fmt.Errorf("%w: result not found", apperrors.ErrNotFound)
)

// UserMessage возвращает текст для уведомления пользователя
func UserMessage(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrInvalidCredentials):
		return "Invalid username or password"
	case errors.Is(err, ErrServiceUnavailable):
		return "Connection error. Please try again."
	case errors.Is(err, ErrUnansweredQuestions):
		return "Please answer all questions before submitting."
	case errors.Is(err, ErrNoQuestions):
		return "This test has no questions yet."
	case errors.Is(err, ErrQuestionNoOptions):
		return "This test contains a question without answer options. Please contact the administrator."
	case errors.Is(err, ErrTestNotFound):
		return "Test not found."
	case errors.Is(err, ErrLoadFailed):
		return "Failed to load the test. Please try again."
	case errors.Is(err, ErrMissingCredentials):
		return "Please enter username and password."
	case errors.Is(err, ErrNoActiveExam):
		return "No exam in progress."
	case errors.Is(err, apperrors.ErrValidation):
		return "Invalid input."
	case errors.Is(err, apperrors.ErrForbidden):
		return "Access denied."
	default:
		return "Something went wrong. Please try again."
	}
}
