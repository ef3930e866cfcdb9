package entity

import (
	"strings"
	"time"
)

// Значения колонки passed листа Results
const (
	PassedYes = "YES"
	PassedNo  = "NO"
)

// ResultRecord - строка листа Results, как ее отдает getResults
type ResultRecord struct {
	Username string         `json:"username"`
	Test     string         `json:"test"`
	Date     FlexString     `json:"date"`
	Score    FlexString     `json:"score"`
	Correct  FlexString     `json:"correct"`
	Total    FlexString     `json:"total"`
	Passed   FlexString     `json:"passed"`
	Answers  []AnswerRecord `json:"answers"`
}

// PassedFlag нормализует колонку passed к YES/NO
func (r *ResultRecord) PassedFlag() string {
	switch strings.ToUpper(r.Passed.Trimmed()) {
	case PassedYes, "TRUE":
		return PassedYes
	default:
		return PassedNo
	}
}

// IsPassed возвращает true для строк со статусом YES
func (r *ResultRecord) IsPassed() bool {
	return r.PassedFlag() == PassedYes
}

// ParsedDate пытается разобрать дату записи. Возвращает false, если формат незнаком.
func (r *ResultRecord) ParsedDate() (time.Time, bool) {
	raw := r.Date.Trimmed()
	if raw == "" {
		return time.Time{}, false
	}
	for _, layout := range []string{time.RFC3339Nano, time.RFC3339, "2006-01-02 15:04:05", "2006-01-02"} {
		if t, err := time.Parse(layout, raw); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// CorrectAnswersCount считает правильные ответы в детализации
func (r *ResultRecord) CorrectAnswersCount() int {
	count := 0
	for _, a := range r.Answers {
		if a.IsCorrect {
			count++
		}
	}
	return count
}
