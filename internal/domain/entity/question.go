package entity

import "strings"

// Ключи вариантов ответа в порядке колонок листа
const (
	OptionA = "A"
	OptionB = "B"
	OptionC = "C"
	OptionD = "D"
)

// Option - отображаемый вариант ответа
type Option struct {
	Key  string `json:"key"`
	Text string `json:"text"`
}

// Question представляет строку листа теста
type Question struct {
	ID            FlexString `json:"question_id"`
	Text          FlexString `json:"question_text"`
	OptionA       FlexString `json:"option_a"`
	OptionB       FlexString `json:"option_b"`
	OptionC       FlexString `json:"option_c"`
	OptionD       FlexString `json:"option_d"`
	CorrectAnswer FlexString `json:"correct_answer"`
}

// QuestionID возвращает идентификатор вопроса строкой
func (q *Question) QuestionID() string {
	return q.ID.Trimmed()
}

// CorrectKey возвращает ключ правильного ответа
func (q *Question) CorrectKey() string {
	return q.CorrectAnswer.Trimmed()
}

// VisibleOptions возвращает заполненные варианты в исходном порядке A-D.
// Пустые ячейки отбрасываются, порядок вариантов не перемешивается.
func (q *Question) VisibleOptions() []Option {
	all := []Option{
		{Key: OptionA, Text: q.OptionA.String()},
		{Key: OptionB, Text: q.OptionB.String()},
		{Key: OptionC, Text: q.OptionC.String()},
		{Key: OptionD, Text: q.OptionD.String()},
	}

	visible := make([]Option, 0, len(all))
	for _, opt := range all {
		if strings.TrimSpace(opt.Text) == "" {
			continue
		}
		visible = append(visible, opt)
	}
	return visible
}

// HasOption проверяет, что ключ относится к одному из отображаемых вариантов
func (q *Question) HasOption(key string) bool {
	for _, opt := range q.VisibleOptions() {
		if opt.Key == key {
			return true
		}
	}
	return false
}

// IsCorrect сравнивает ключ ответа с правильным по точному совпадению
func (q *Question) IsCorrect(key string) bool {
	return key == q.CorrectKey()
}
