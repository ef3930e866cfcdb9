package helper

import (
	"strconv"

	"github.com/yourusername/exam-portal/internal/domain/entity"
)

// Метки статуса попытки для клиента
const (
	StatusPassed = "PASSED"
	StatusFailed = "FAILED"
)

// StatusLabel переводит флаг сдачи в метку для таблицы результатов
func StatusLabel(passed bool) string {
	if passed {
		return StatusPassed
	}
	return StatusFailed
}

// FormatResultDate возвращает дату записи в RFC3339, а нераспознанную - как есть
func FormatResultDate(r *entity.ResultRecord) string {
	if t, ok := r.ParsedDate(); ok {
		return t.UTC().Format("2006-01-02T15:04:05Z07:00")
	}
	return r.Date.Trimmed()
}

// AtoiOrZero разбирает числовую ячейку листа; нечисловое значение дает 0
func AtoiOrZero(s entity.FlexString) int {
	n, err := strconv.Atoi(s.Trimmed())
	if err != nil {
		return 0
	}
	return n
}
