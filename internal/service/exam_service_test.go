package service

import (
	"context"
	"errors"
	"math/rand"
	"sort"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/yourusername/exam-portal/internal/domain/entity"
	apperrors "github.com/yourusername/exam-portal/internal/pkg/errors"
)

var fixedNow = time.Date(2026, 3, 14, 10, 30, 0, 0, time.UTC)

func newTestExamService(backend *MockExamBackend) *ExamService {
	return NewExamService(backend, ExamConfig{
		PassThreshold: entity.DefaultPassThreshold,
		Rand:          rand.New(rand.NewSource(42)),
		Now:           func() time.Time { return fixedNow },
	})
}

func startedExam(t *testing.T, backend *MockExamBackend, svc *ExamService, state *entity.AppState) {
	t.Helper()
	backend.On("GetQuestions", mock.Anything, "T1").Return(threeQuestionTest(), nil).Once()
	_, err := svc.LoadTest(context.Background(), state, "T1")
	require.NoError(t, err)
}

func TestExamService_VisibleTests(t *testing.T) {
	svc := newTestExamService(new(MockExamBackend))

	// Сценарий 3: пользователь видит только назначенные тесты
	alice := regularState("T1")
	assert.Equal(t, []entity.Test{{SheetName: "T1", Title: "Safety Basics"}}, svc.VisibleTests(alice))

	// Порядок каталога сохраняется независимо от порядка назначения
	both := regularState("T2", "T1")
	assert.Equal(t, testCatalog(), svc.VisibleTests(both))

	// Сценарий 4: администратор видит весь каталог
	admin := adminState()
	admin.Session.AssignedTests = []string{"T1"}
	assert.Equal(t, testCatalog(), svc.VisibleTests(admin))

	admin.Session.Mode = entity.SessionModeAdminTakingTest
	assert.Equal(t, testCatalog(), svc.VisibleTests(admin))

	assert.Nil(t, svc.VisibleTests(nil))
	assert.Empty(t, svc.VisibleTests(regularState()))
}

func TestExamService_LoadTest_Success(t *testing.T) {
	backend := new(MockExamBackend)
	svc := newTestExamService(backend)
	state := regularState("T1")
	backend.On("GetQuestions", mock.Anything, "T1").Return(threeQuestionTest(), nil).Once()

	questions, err := svc.LoadTest(context.Background(), state, "T1")

	require.NoError(t, err)
	assert.Len(t, questions, 3)
	assert.ElementsMatch(t, threeQuestionTest(), questions, "перемешивание - перестановка исходных вопросов")
	assert.Equal(t, entity.ScreenExam, state.Screen)
	require.NotNil(t, state.CurrentTest)
	assert.Equal(t, "Safety Basics", state.CurrentTest.Title)
	assert.Equal(t, questions, state.Questions)
	backend.AssertExpectations(t)
}

func TestExamService_LoadTest_NotAssigned(t *testing.T) {
	backend := new(MockExamBackend)
	svc := newTestExamService(backend)
	state := regularState("T1")

	_, err := svc.LoadTest(context.Background(), state, "T2")

	assert.ErrorIs(t, err, ErrTestNotFound)
	assert.ErrorIs(t, err, ErrLoadFailed)
	assert.Equal(t, entity.ScreenSelect, state.Screen)
	assert.Equal(t, "Test not found.", state.Notice)
	backend.AssertNotCalled(t, "GetQuestions", mock.Anything, mock.Anything)
}

func TestExamService_LoadTest_NoQuestions(t *testing.T) {
	// Сценарий 5: пустой тест - ошибка загрузки и возврат к выбору теста
	backend := new(MockExamBackend)
	svc := newTestExamService(backend)
	state := regularState("T1")
	backend.On("GetQuestions", mock.Anything, "T1").Return([]entity.Question{}, nil).Once()

	questions, err := svc.LoadTest(context.Background(), state, "T1")

	assert.Nil(t, questions)
	assert.ErrorIs(t, err, ErrLoadFailed)
	assert.ErrorIs(t, err, ErrNoQuestions)
	assert.Equal(t, entity.ScreenSelect, state.Screen)
	assert.Nil(t, state.CurrentTest)
	assert.NotEmpty(t, state.Notice)
}

func TestExamService_LoadTest_QuestionWithoutOptions(t *testing.T) {
	backend := new(MockExamBackend)
	svc := newTestExamService(backend)
	state := regularState("T1")
	questions := threeQuestionTest()
	questions[1].OptionA, questions[1].OptionB, questions[1].OptionC, questions[1].OptionD = "", " ", "", ""
	backend.On("GetQuestions", mock.Anything, "T1").Return(questions, nil).Once()

	loaded, err := svc.LoadTest(context.Background(), state, "T1")

	assert.Nil(t, loaded)
	assert.ErrorIs(t, err, ErrLoadFailed)
	assert.ErrorIs(t, err, ErrQuestionNoOptions)
	assert.ErrorIs(t, err, apperrors.ErrUpstream)
	assert.Equal(t, entity.ScreenSelect, state.Screen, "возврат к выбору теста")
	assert.Empty(t, state.Questions)
	assert.Equal(t, "This test contains a question without answer options. Please contact the administrator.", state.Notice)
}

func TestExamService_LoadTest_RemoteErrorReturnsAdminToPanel(t *testing.T) {
	backend := new(MockExamBackend)
	svc := newTestExamService(backend)
	state := adminState()
	remoteErr := errors.New("sheet not found")
	backend.On("GetQuestions", mock.Anything, "T2").Return(nil, remoteErr).Once()

	_, err := svc.LoadTest(context.Background(), state, "T2")

	assert.ErrorIs(t, err, ErrLoadFailed)
	assert.ErrorIs(t, err, remoteErr, "исходная причина сохраняется")
	assert.Equal(t, entity.ScreenAdmin, state.Screen)
	assert.Equal(t, "Failed to load the test. Please try again.", state.Notice)
}

func TestExamService_LoadTest_ReshufflesOnEveryLoad(t *testing.T) {
	backend := new(MockExamBackend)
	svc := newTestExamService(backend)
	state := regularState("T1")

	many := make([]entity.Question, 10)
	for i := range many {
		many[i] = question(string(rune('a'+i)), "A", "x", "y")
	}
	backend.On("GetQuestions", mock.Anything, "T1").Return(many, nil)

	seen := make(map[string]struct{})
	for i := 0; i < 5; i++ {
		questions, err := svc.LoadTest(context.Background(), state, "T1")
		require.NoError(t, err)
		order := ""
		for _, q := range questions {
			order += q.QuestionID()
		}
		seen[order] = struct{}{}
	}

	assert.Greater(t, len(seen), 1, "каждая загрузка перемешивает заново")
}

func TestExamService_LoadTest_RequiresSession(t *testing.T) {
	svc := newTestExamService(new(MockExamBackend))

	_, err := svc.LoadTest(context.Background(), &entity.AppState{}, "T1")

	assert.ErrorIs(t, err, apperrors.ErrUnauthorized)
}

func TestExamService_Submit_Scenarios(t *testing.T) {
	testCases := []struct {
		name        string
		answers     map[string]string
		wantCorrect int
		wantScore   int
		wantPassed  bool
	}{
		// Сценарий 1: A, B, D -> 2/3 = 67%, не сдан
		{"два из трех", map[string]string{"1": "A", "2": "B", "3": "D"}, 2, 67, false},
		// Сценарий 2: A, B, C -> 100%, сдан
		{"все верно", map[string]string{"1": "A", "2": "B", "3": "C"}, 3, 100, true},
		{"ни одного верного", map[string]string{"1": "D", "2": "D", "3": "D"}, 0, 0, false},
		{"строчные ключи", map[string]string{"1": "a", "2": " b ", "3": "c"}, 3, 100, true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			backend := new(MockExamBackend)
			svc := newTestExamService(backend)
			state := regularState("T1")
			startedExam(t, backend, svc, state)

			var submitted *entity.Attempt
			backend.On("SubmitResult", mock.Anything, mock.AnythingOfType("*entity.Attempt")).
				Run(func(args mock.Arguments) { submitted = args.Get(1).(*entity.Attempt) }).
				Return(nil).Once()

			result, err := svc.Submit(context.Background(), state, tc.answers)

			require.NoError(t, err)
			assert.Equal(t, tc.wantCorrect, result.Correct)
			assert.Equal(t, 3, result.Total)
			assert.Equal(t, tc.wantScore, result.ScorePercent)
			assert.Equal(t, tc.wantPassed, result.Passed)
			assert.Equal(t, "Safety Basics", result.TestTitle)
			assert.Equal(t, fixedNow, result.Timestamp)
			assert.Equal(t, entity.ScreenResult, state.Screen)
			assert.Equal(t, result, state.Result)

			require.NotNil(t, submitted)
			assert.Equal(t, "alice", submitted.Username)
			assert.Equal(t, "Safety Basics", submitted.Test, "в результат пишется название теста")
			assert.Equal(t, tc.wantScore, submitted.Score)
			assert.Equal(t, tc.wantCorrect, submitted.Correct)
			assert.Equal(t, 3, submitted.Total)
			assert.Equal(t, fixedNow, submitted.Date)
			require.Len(t, submitted.Answers, 3)

			correctCount := 0
			for _, a := range submitted.Answers {
				if a.IsCorrect {
					correctCount++
				}
				assert.Equal(t, a.UserAnswer == a.CorrectAnswer, a.IsCorrect)
			}
			assert.Equal(t, tc.wantCorrect, correctCount)
			backend.AssertExpectations(t)
		})
	}
}

func TestExamService_Submit_Unanswered(t *testing.T) {
	backend := new(MockExamBackend)
	svc := newTestExamService(backend)
	state := regularState("T1")
	startedExam(t, backend, svc, state)

	result, err := svc.Submit(context.Background(), state, map[string]string{"1": "A", "2": "B"})

	assert.Nil(t, result)
	assert.ErrorIs(t, err, ErrUnansweredQuestions)
	assert.ErrorIs(t, err, apperrors.ErrValidation)
	assert.Equal(t, entity.ScreenExam, state.Screen, "пользователь остается на экране теста")
	assert.Nil(t, state.Result)
	backend.AssertNotCalled(t, "SubmitResult", mock.Anything, mock.Anything)
}

func TestExamService_Submit_InvalidOption(t *testing.T) {
	backend := new(MockExamBackend)
	svc := newTestExamService(backend)
	state := regularState("T1")
	backend.On("GetQuestions", mock.Anything, "T1").
		Return([]entity.Question{question("1", "A", "yes", "no")}, nil).Once()
	_, err := svc.LoadTest(context.Background(), state, "T1")
	require.NoError(t, err)

	// Вариант C скрыт: у вопроса только A и B
	_, err = svc.Submit(context.Background(), state, map[string]string{"1": "C"})

	assert.ErrorIs(t, err, apperrors.ErrValidation)
	assert.NotErrorIs(t, err, ErrUnansweredQuestions)
	backend.AssertNotCalled(t, "SubmitResult", mock.Anything, mock.Anything)
}

func TestExamService_Submit_PersistenceFailureIsSwallowed(t *testing.T) {
	backend := new(MockExamBackend)
	svc := newTestExamService(backend)
	state := regularState("T1")
	startedExam(t, backend, svc, state)
	backend.On("SubmitResult", mock.Anything, mock.Anything).Return(errors.New("quota exceeded")).Once()

	result, err := svc.Submit(context.Background(), state, map[string]string{"1": "A", "2": "B", "3": "C"})

	require.NoError(t, err)
	assert.Equal(t, 100, result.ScorePercent)
	assert.Equal(t, entity.ScreenResult, state.Screen)
}

func TestExamService_Submit_CanceledRequestStillPersists(t *testing.T) {
	backend := new(MockExamBackend)
	svc := newTestExamService(backend)
	state := regularState("T1")
	startedExam(t, backend, svc, state)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	backend.On("SubmitResult", mock.MatchedBy(func(c context.Context) bool { return c.Err() == nil }), mock.Anything).
		Return(nil).Once()

	_, err := svc.Submit(ctx, state, map[string]string{"1": "A", "2": "B", "3": "C"})

	require.NoError(t, err)
	backend.AssertExpectations(t)
}

func TestExamService_Submit_WithoutExam(t *testing.T) {
	svc := newTestExamService(new(MockExamBackend))

	_, err := svc.Submit(context.Background(), regularState("T1"), map[string]string{})

	assert.ErrorIs(t, err, ErrNoActiveExam)
}

func TestExamService_BackToTests(t *testing.T) {
	backend := new(MockExamBackend)
	svc := newTestExamService(backend)

	state := regularState("T1")
	startedExam(t, backend, svc, state)
	require.NoError(t, svc.BackToTests(state))
	assert.Equal(t, entity.ScreenSelect, state.Screen)
	assert.Nil(t, state.CurrentTest)
	assert.Nil(t, state.Questions)

	admin := adminState()
	require.NoError(t, svc.BackToTests(admin))
	assert.Equal(t, entity.ScreenAdmin, admin.Screen)
}

func TestExamService_AdminModes(t *testing.T) {
	backend := new(MockExamBackend)
	svc := newTestExamService(backend)

	admin := adminState()
	require.NoError(t, svc.AdminTakeTests(admin))
	assert.Equal(t, entity.SessionModeAdminTakingTest, admin.Session.Mode)
	assert.Equal(t, entity.ScreenSelect, admin.Screen)

	// В режиме прохождения возврат после теста ведет к выбору теста
	backend.On("GetQuestions", mock.Anything, "T2").Return(threeQuestionTest(), nil).Once()
	_, err := svc.LoadTest(context.Background(), admin, "T2")
	require.NoError(t, err)
	require.NoError(t, svc.BackToTests(admin))
	assert.Equal(t, entity.ScreenSelect, admin.Screen)

	require.NoError(t, svc.AdminPanel(admin))
	assert.Equal(t, entity.SessionModeAdmin, admin.Session.Mode)
	assert.Equal(t, entity.ScreenAdmin, admin.Screen)

	regular := regularState("T1")
	assert.ErrorIs(t, svc.AdminTakeTests(regular), apperrors.ErrForbidden)
	assert.ErrorIs(t, svc.AdminPanel(regular), apperrors.ErrForbidden)
	assert.Equal(t, entity.SessionModeRegular, regular.Session.Mode)
}

func TestShuffle_IsPermutation(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	input := []int{1, 2, 3, 4, 5, 6, 7, 8}
	original := append([]int(nil), input...)

	out := Shuffle(input, rng)

	assert.Equal(t, original, input, "исходный срез не изменяется")
	sorted := append([]int(nil), out...)
	sort.Ints(sorted)
	assert.Equal(t, original, sorted)
}

func TestShuffle_SmallInputs(t *testing.T) {
	assert.Empty(t, Shuffle([]int{}, nil))
	assert.Equal(t, []int{42}, Shuffle([]int{42}, nil))
	assert.Empty(t, Shuffle[string](nil, nil))
}

func TestShuffle_Uniform(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	counts := make(map[[3]int]int)
	const runs = 6000
	for i := 0; i < runs; i++ {
		out := Shuffle([]int{0, 1, 2}, rng)
		counts[[3]int{out[0], out[1], out[2]}]++
	}

	require.Len(t, counts, 6, "встречаются все перестановки")
	for perm, n := range counts {
		assert.InDelta(t, runs/6, n, 150, "перестановка %v", perm)
	}
}
