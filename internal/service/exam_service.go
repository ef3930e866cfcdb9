package service

import (
	"context"
	"fmt"
	"log"
	"math/rand"
	"strings"
	"sync"
	"time"

	"github.com/yourusername/exam-portal/internal/domain/entity"
	"github.com/yourusername/exam-portal/internal/domain/repository"
	apperrors "github.com/yourusername/exam-portal/internal/pkg/errors"
)

// ExamConfig - параметры экзамена
type ExamConfig struct {
	PassThreshold int
	// SubmitTimeout ограничивает сохранение результата; 0 - без ограничения
	SubmitTimeout time.Duration
	// Rand используется для перемешивания вопросов; nil - случайный источник по времени
	Rand *rand.Rand
	// Now подменяется в тестах
	Now func() time.Time
}

// ExamService управляет попыткой: загрузка теста, проверка ответов, подсчет баллов
type ExamService struct {
	backend       repository.ExamBackend
	passThreshold int
	submitTimeout time.Duration
	now           func() time.Time

	rngMu sync.Mutex
	rng   *rand.Rand
}

// NewExamService создает сервис экзамена
func NewExamService(backend repository.ExamBackend, cfg ExamConfig) *ExamService {
	rng := cfg.Rand
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	now := cfg.Now
	if now == nil {
		now = time.Now
	}
	return &ExamService{
		backend:       backend,
		passThreshold: cfg.PassThreshold,
		submitTimeout: cfg.SubmitTimeout,
		now:           now,
		rng:           rng,
	}
}

// PassThreshold возвращает проходной балл
func (s *ExamService) PassThreshold() int {
	return s.passThreshold
}

// VisibleTests возвращает тесты, доступные пользователю.
// Администратор видит весь каталог, остальные - только назначенные, в порядке каталога.
func (s *ExamService) VisibleTests(state *entity.AppState) []entity.Test {
	if state == nil || state.Session == nil {
		return nil
	}
	if state.Session.IsAdmin() {
		return append([]entity.Test(nil), state.Catalog...)
	}

	visible := make([]entity.Test, 0, len(state.Session.AssignedTests))
	for _, t := range state.Catalog {
		if state.Session.IsAssigned(t.SheetName) {
			visible = append(visible, t)
		}
	}
	return visible
}

// LoadTest загружает вопросы теста и перемешивает их.
// При ошибке состояние возвращается на домашний экран с уведомлением.
func (s *ExamService) LoadTest(ctx context.Context, state *entity.AppState, testID string) ([]entity.Question, error) {
	if err := requireSession(state); err != nil {
		return nil, err
	}

	test, ok := entity.FindTest(s.VisibleTests(state), testID)
	if !ok {
		return nil, s.failLoad(state, fmt.Errorf("%w: %w (%q)", ErrLoadFailed, ErrTestNotFound, testID))
	}

	questions, err := s.backend.GetQuestions(ctx, test.SheetName)
	if err != nil {
		log.Printf("[ExamService] Ошибка загрузки вопросов теста %s: %v", test.SheetName, err)
		return nil, s.failLoad(state, fmt.Errorf("%w: %w", ErrLoadFailed, err))
	}
	if len(questions) == 0 {
		return nil, s.failLoad(state, fmt.Errorf("%w: %w", ErrLoadFailed, ErrNoQuestions))
	}
	// На вопрос без вариантов невозможно ответить, а неполную попытку нельзя отправить
	for i := range questions {
		if len(questions[i].VisibleOptions()) == 0 {
			log.Printf("[ExamService] Вопрос %s теста %s без вариантов ответа", questions[i].QuestionID(), test.SheetName)
			return nil, s.failLoad(state, fmt.Errorf("%w: %w (question %s)", ErrLoadFailed, ErrQuestionNoOptions, questions[i].QuestionID()))
		}
	}

	s.rngMu.Lock()
	shuffled := Shuffle(questions, s.rng)
	s.rngMu.Unlock()

	state.ResetExam()
	state.CurrentTest = &test
	state.Questions = shuffled
	state.Notice = ""
	state.Screen = entity.ScreenExam

	log.Printf("[ExamService] Пользователь %s начал тест %s (%d вопросов)", state.Session.Username, test.SheetName, len(shuffled))
	return shuffled, nil
}

func (s *ExamService) failLoad(state *entity.AppState, err error) error {
	state.ResetExam()
	state.Screen = state.HomeScreen()
	state.Notice = UserMessage(err)
	return err
}

// Submit проверяет ответы и считает результат. Ответы передаются как question_id -> ключ варианта.
// Результат вычисляется локально до сохранения; ошибка сохранения только логируется.
func (s *ExamService) Submit(ctx context.Context, state *entity.AppState, answers map[string]string) (*entity.AttemptResult, error) {
	if err := requireSession(state); err != nil {
		return nil, err
	}
	if state.Screen != entity.ScreenExam || state.CurrentTest == nil || len(state.Questions) == 0 {
		return nil, ErrNoActiveExam
	}

	records := make([]entity.AnswerRecord, 0, len(state.Questions))
	unanswered := 0
	correct := 0
	for i := range state.Questions {
		q := &state.Questions[i]
		key, ok := answers[q.QuestionID()]
		key = strings.ToUpper(strings.TrimSpace(key))
		if !ok || key == "" {
			unanswered++
			continue
		}
		if !q.HasOption(key) {
			return nil, fmt.Errorf("%w: answer %q is not an option of question %s", apperrors.ErrValidation, key, q.QuestionID())
		}

		isCorrect := q.IsCorrect(key)
		if isCorrect {
			correct++
		}
		records = append(records, entity.AnswerRecord{
			QuestionID:    q.ID,
			UserAnswer:    entity.FlexString(key),
			CorrectAnswer: entity.FlexString(q.CorrectKey()),
			IsCorrect:     isCorrect,
		})
	}
	if unanswered > 0 {
		return nil, fmt.Errorf("%w: %d of %d unanswered", ErrUnansweredQuestions, unanswered, len(state.Questions))
	}

	total := len(state.Questions)
	score := entity.ScorePercent(correct, total)
	result := &entity.AttemptResult{
		ScorePercent: score,
		Correct:      correct,
		Total:        total,
		Passed:       entity.IsPassed(score, s.passThreshold),
		TestTitle:    state.CurrentTest.Title,
		Timestamp:    s.now(),
	}

	state.Result = result
	state.Notice = ""
	state.Screen = entity.ScreenResult

	s.persist(ctx, &entity.Attempt{
		Username: state.Session.Username,
		Date:     result.Timestamp,
		Test:     result.TestTitle,
		Score:    score,
		Correct:  correct,
		Total:    total,
		Answers:  records,
	})

	return result, nil
}

// persist отправляет попытку в удаленный сервис. Отмена запроса пользователя не прерывает сохранение.
func (s *ExamService) persist(ctx context.Context, attempt *entity.Attempt) {
	ctx = context.WithoutCancel(ctx)
	if s.submitTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.submitTimeout)
		defer cancel()
	}

	if err := s.backend.SubmitResult(ctx, attempt); err != nil {
		log.Printf("[ExamService] Не удалось сохранить результат %s/%s: %v", attempt.Username, attempt.Test, err)
		return
	}
	log.Printf("[ExamService] Результат сохранен: %s, %s, %d%%", attempt.Username, attempt.Test, attempt.Score)
}

// BackToTests очищает попытку и возвращает на домашний экран
func (s *ExamService) BackToTests(state *entity.AppState) error {
	if err := requireSession(state); err != nil {
		return err
	}
	state.ResetExam()
	state.Notice = ""
	state.Screen = state.HomeScreen()
	return nil
}

// AdminTakeTests переводит администратора в режим прохождения тестов
func (s *ExamService) AdminTakeTests(state *entity.AppState) error {
	if err := requireSession(state); err != nil {
		return err
	}
	if !state.Session.IsAdmin() {
		return fmt.Errorf("%w: administrator only", apperrors.ErrForbidden)
	}
	state.Session.Mode = entity.SessionModeAdminTakingTest
	state.ResetExam()
	state.Notice = ""
	state.Screen = entity.ScreenSelect
	return nil
}

// AdminPanel возвращает администратора из режима прохождения тестов в панель
func (s *ExamService) AdminPanel(state *entity.AppState) error {
	if err := requireSession(state); err != nil {
		return err
	}
	if !state.Session.IsAdmin() {
		return fmt.Errorf("%w: administrator only", apperrors.ErrForbidden)
	}
	state.Session.Mode = entity.SessionModeAdmin
	state.ResetExam()
	state.Notice = ""
	state.Screen = entity.ScreenAdmin
	return nil
}

// Shuffle возвращает перемешанную копию среза (Фишер-Йетс). Исходный срез не меняется.
func Shuffle[T any](items []T, rng *rand.Rand) []T {
	out := append([]T(nil), items...)
	if len(out) <= 1 {
		return out
	}
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	for i := len(out) - 1; i > 0; i-- {
		j := rng.Intn(i + 1)
		out[i], out[j] = out[j], out[i]
	}
	return out
}

func requireSession(state *entity.AppState) error {
	if state == nil || state.Session == nil {
		return fmt.Errorf("%w: no active session", apperrors.ErrUnauthorized)
	}
	return nil
}
