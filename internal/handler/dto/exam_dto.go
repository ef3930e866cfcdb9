package dto

import (
	"github.com/yourusername/exam-portal/internal/domain/entity"
	"github.com/yourusername/exam-portal/internal/handler/helper"
	"github.com/yourusername/exam-portal/internal/service"
	"github.com/yourusername/exam-portal/internal/view"
)

// LoginRequest - тело POST /api/auth/login
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// SubmitRequest - тело POST /api/exam/submit: question_id -> ключ варианта
type SubmitRequest struct {
	Answers map[string]string `json:"answers"`
}

// TestResponse - тест, доступный пользователю
type TestResponse struct {
	SheetName string `json:"sheet_name"`
	Title     string `json:"title"`
}

// ViewResponse - модель экрана и, для отправки теста, результат попытки
type ViewResponse struct {
	View   view.Model            `json:"view"`
	Result *entity.AttemptResult `json:"result,omitempty"`
}

// ErrorResponse - тело ответа с ошибкой
type ErrorResponse struct {
	Error     string      `json:"error"`
	ErrorType string      `json:"error_type"`
	View      *view.Model `json:"view,omitempty"`
}

// ResultRowResponse - строка таблицы результатов администратора
type ResultRowResponse struct {
	Index    int    `json:"index"`
	Username string `json:"username"`
	Test     string `json:"test"`
	Date     string `json:"date"`
	Score    string `json:"score"`
	Correct  int    `json:"correct"`
	Total    int    `json:"total"`
	Status   string `json:"status"`
}

// ResultListResponse - ответ GET /api/admin/results
type ResultListResponse struct {
	Results []ResultRowResponse   `json:"results"`
	Filters service.FilterOptions `json:"filters"`
	Total   int                   `json:"total"`
}

// AnswerResponse - ответ на один вопрос в детализации
type AnswerResponse struct {
	QuestionID    string `json:"question_id"`
	UserAnswer    string `json:"user_answer"`
	CorrectAnswer string `json:"correct_answer"`
	IsCorrect     bool   `json:"is_correct"`
}

// ResultDetailResponse - ответ GET /api/admin/results/:index
type ResultDetailResponse struct {
	Result       ResultRowResponse `json:"result"`
	CorrectCount int               `json:"correct_count"`
	AnswerCount  int               `json:"answer_count"`
	Answers      []AnswerResponse  `json:"answers"`
}

// NewTestResponses создает DTO списка тестов
func NewTestResponses(tests []entity.Test) []TestResponse {
	out := make([]TestResponse, 0, len(tests))
	for _, t := range tests {
		out = append(out, TestResponse{SheetName: t.SheetName, Title: t.Title})
	}
	return out
}

// NewResultRowResponse создает DTO строки результата
func NewResultRowResponse(index int, r *entity.ResultRecord) ResultRowResponse {
	return ResultRowResponse{
		Index:    index,
		Username: r.Username,
		Test:     r.Test,
		Date:     helper.FormatResultDate(r),
		Score:    r.Score.Trimmed(),
		Correct:  helper.AtoiOrZero(r.Correct),
		Total:    helper.AtoiOrZero(r.Total),
		Status:   helper.StatusLabel(r.IsPassed()),
	}
}

// NewResultListResponse создает DTO таблицы результатов
func NewResultListResponse(rows []service.ResultRow, filters service.FilterOptions) ResultListResponse {
	out := ResultListResponse{
		Results: make([]ResultRowResponse, 0, len(rows)),
		Filters: filters,
		Total:   len(rows),
	}
	for i := range rows {
		out.Results = append(out.Results, NewResultRowResponse(rows[i].Index, &rows[i].Record))
	}
	return out
}

// NewResultDetailResponse создает DTO детализации ответов
func NewResultDetailResponse(d *service.ResultDetail) ResultDetailResponse {
	out := ResultDetailResponse{
		Result:       NewResultRowResponse(d.Index, &d.Record),
		CorrectCount: d.CorrectCount,
		AnswerCount:  len(d.Answers),
		Answers:      make([]AnswerResponse, 0, len(d.Answers)),
	}
	for _, a := range d.Answers {
		out.Answers = append(out.Answers, AnswerResponse{
			QuestionID:    a.QuestionID.Trimmed(),
			UserAnswer:    a.UserAnswer.Trimmed(),
			CorrectAnswer: a.CorrectAnswer.Trimmed(),
			IsCorrect:     a.IsCorrect,
		})
	}
	return out
}
