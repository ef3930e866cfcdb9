package errors

import "errors"

// Общие ошибки приложения
var (
	// ErrNotFound - запись или ресурс не найдены (тест, результат, сессия).
	ErrNotFound = errors.New("record not found")

	// ErrUnauthorized - нет активной сессии или неверные учетные данные.
	ErrUnauthorized = errors.New("unauthorized")

	// ErrForbidden - у пользователя недостаточно прав для действия.
	ErrForbidden = errors.New("forbidden")

	// ErrValidation - ошибка валидации входных данных, до любого сетевого вызова.
	ErrValidation = errors.New("validation failed")

	// ErrUpstream - удаленный сервис недоступен или вернул ошибку.
	ErrUpstream = errors.New("upstream service error")
)
