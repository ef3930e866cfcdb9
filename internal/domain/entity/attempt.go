package entity

import "time"

// DefaultPassThreshold - проходной балл в процентах
const DefaultPassThreshold = 80

// AnswerRecord - ответ пользователя на один вопрос
type AnswerRecord struct {
	QuestionID    FlexString `json:"question_id"`
	UserAnswer    FlexString `json:"user_answer"`
	CorrectAnswer FlexString `json:"correct_answer"`
	IsCorrect     bool       `json:"is_correct"`
}

// Attempt - полезная нагрузка submitResult
type Attempt struct {
	Username string         `json:"username"`
	Date     time.Time      `json:"date"`
	Test     string         `json:"test"`
	Score    int            `json:"score"`
	Correct  int            `json:"correct"`
	Total    int            `json:"total"`
	Answers  []AnswerRecord `json:"answers"`
}

// AttemptResult - итог попытки, вычисленный локально
type AttemptResult struct {
	ScorePercent int       `json:"score_percent"`
	Correct      int       `json:"correct"`
	Total        int       `json:"total"`
	Passed       bool      `json:"passed"`
	TestTitle    string    `json:"test_title"`
	Timestamp    time.Time `json:"timestamp"`
}

// ScorePercent считает round(100 * correct / total) с округлением половины вверх.
// Для total <= 0 возвращает 0.
func ScorePercent(correct, total int) int {
	if total <= 0 {
		return 0
	}
	return (200*correct + total) / (2 * total)
}

// IsPassed проверяет, достигнут ли проходной балл
func IsPassed(scorePercent, threshold int) bool {
	return scorePercent >= threshold
}
