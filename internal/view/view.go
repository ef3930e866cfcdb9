// Package view строит отображаемую модель из состояния клиента.
// Функции пакета чистые: не обращаются к сети и не меняют состояние.
package view

import (
	"fmt"

	"github.com/yourusername/exam-portal/internal/domain/entity"
)

// Header - шапка с именем пользователя
type Header struct {
	DisplayName string `json:"display_name"`
	Username    string `json:"username"`
	IsAdmin     bool   `json:"is_admin"`
}

// TestCard - карточка теста на экране выбора
type TestCard struct {
	SheetName string `json:"sheet_name"`
	Title     string `json:"title"`
}

// QuestionView - вопрос без правильного ответа
type QuestionView struct {
	Number  int             `json:"number"`
	ID      string          `json:"id"`
	Text    string          `json:"text"`
	Options []entity.Option `json:"options"`
}

// ExamView - экран прохождения теста
type ExamView struct {
	TestTitle string         `json:"test_title"`
	Questions []QuestionView `json:"questions"`
}

// Stat - одна плашка статистики результата
type Stat struct {
	Label string `json:"label"`
	Value string `json:"value"`
}

// ResultView - экран результата
type ResultView struct {
	Passed    bool   `json:"passed"`
	Icon      string `json:"icon"`
	Title     string `json:"title"`
	Verdict   string `json:"verdict"`
	Subtitle  string `json:"subtitle"`
	TestTitle string `json:"test_title,omitempty"`
	Stats     []Stat `json:"stats"`
}

// Model - все, что нужно для отрисовки текущего экрана
type Model struct {
	Screen      entity.Screen `json:"screen"`
	Header      *Header       `json:"header,omitempty"`
	Tests       []TestCard    `json:"tests,omitempty"`
	Exam        *ExamView     `json:"exam,omitempty"`
	Result      *ResultView   `json:"result,omitempty"`
	AdminPanel  bool          `json:"admin_panel"`
	CanTakeTest bool          `json:"can_take_tests"`
	Notice      string        `json:"notice,omitempty"`
}

// Build строит модель экрана. tests - уже отфильтрованный список видимых тестов.
func Build(state *entity.AppState, tests []entity.Test, passThreshold int) Model {
	if state == nil || state.Session == nil {
		m := Model{Screen: entity.ScreenLogin}
		if state != nil {
			m.Notice = state.Notice
		}
		return m
	}

	m := Model{
		Screen: state.Screen,
		Header: &Header{
			DisplayName: state.Session.DisplayName(),
			Username:    state.Session.Username,
			IsAdmin:     state.Session.IsAdmin(),
		},
		Notice: state.Notice,
	}

	switch state.Screen {
	case entity.ScreenSelect:
		m.Tests = testCards(tests)
	case entity.ScreenAdmin:
		m.AdminPanel = true
		m.CanTakeTest = true
		m.Tests = testCards(tests)
	case entity.ScreenExam:
		m.Exam = buildExam(state)
	case entity.ScreenResult:
		if state.Result != nil {
			r := BuildResult(state.Result.ScorePercent, state.Result.Correct, state.Result.Total, passThreshold)
			r.TestTitle = state.Result.TestTitle
			r.Subtitle = Subtitle(state.Result.TestTitle, passThreshold)
			m.Result = &r
		}
	}
	return m
}

func testCards(tests []entity.Test) []TestCard {
	cards := make([]TestCard, 0, len(tests))
	for _, t := range tests {
		title := t.Title
		if title == "" {
			title = t.SheetName
		}
		cards = append(cards, TestCard{SheetName: t.SheetName, Title: title})
	}
	return cards
}

func buildExam(state *entity.AppState) *ExamView {
	ev := &ExamView{Questions: make([]QuestionView, 0, len(state.Questions))}
	if state.CurrentTest != nil {
		ev.TestTitle = state.CurrentTest.Title
	}
	for i := range state.Questions {
		q := &state.Questions[i]
		ev.Questions = append(ev.Questions, QuestionView{
			Number:  i + 1,
			ID:      q.QuestionID(),
			Text:    q.Text.String(),
			Options: q.VisibleOptions(),
		})
	}
	return ev
}

// BuildResult строит экран результата по баллу и количеству ответов
func BuildResult(scorePercent, correct, total, passThreshold int) ResultView {
	passed := entity.IsPassed(scorePercent, passThreshold)

	rv := ResultView{
		Passed:   passed,
		Subtitle: Subtitle("", passThreshold),
		Stats: []Stat{
			{Label: "Your Score", Value: fmt.Sprintf("%d%%", scorePercent)},
			{Label: "Correct", Value: fmt.Sprintf("%d", correct)},
			{Label: "Incorrect", Value: fmt.Sprintf("%d", total-correct)},
			{Label: "Total Qs", Value: fmt.Sprintf("%d", total)},
		},
	}
	if passed {
		rv.Icon = "🎉"
		rv.Title = "Exam Passed!"
		rv.Verdict = "Congratulations, you passed the test!"
	} else {
		rv.Icon = "📚"
		rv.Title = "Exam Not Passed"
		rv.Verdict = "Unfortunately, you did not pass the test, please try again!"
	}
	return rv
}

// Subtitle - строка с названием теста и проходным баллом
func Subtitle(testTitle string, passThreshold int) string {
	if testTitle == "" {
		testTitle = "Unknown"
	}
	return fmt.Sprintf("Test: %s - Passing score: %d%%", testTitle, passThreshold)
}
