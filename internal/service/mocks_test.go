package service

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/yourusername/exam-portal/internal/domain/entity"
	"github.com/yourusername/exam-portal/internal/domain/repository"
)

// MockExamBackend реализует repository.ExamBackend
type MockExamBackend struct {
	mock.Mock
}

var _ repository.ExamBackend = (*MockExamBackend)(nil)

func (m *MockExamBackend) GetUsers(ctx context.Context) (*repository.Directory, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*repository.Directory), args.Error(1)
}

func (m *MockExamBackend) GetQuestions(ctx context.Context, sheetName string) ([]entity.Question, error) {
	args := m.Called(ctx, sheetName)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entity.Question), args.Error(1)
}

func (m *MockExamBackend) SubmitResult(ctx context.Context, attempt *entity.Attempt) error {
	args := m.Called(ctx, attempt)
	return args.Error(0)
}

func (m *MockExamBackend) GetResults(ctx context.Context) ([]entity.ResultRecord, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entity.ResultRecord), args.Error(1)
}

// MockCacheRepository реализует repository.CacheRepository
type MockCacheRepository struct {
	mock.Mock
}

var _ repository.CacheRepository = (*MockCacheRepository)(nil)

func (m *MockCacheRepository) Delete(ctx context.Context, key string) error {
	args := m.Called(ctx, key)
	return args.Error(0)
}

func (m *MockCacheRepository) SetJSON(ctx context.Context, key string, value interface{}, expiration time.Duration) error {
	args := m.Called(ctx, key, value, expiration)
	return args.Error(0)
}

func (m *MockCacheRepository) GetJSON(ctx context.Context, key string, dest interface{}) error {
	args := m.Called(ctx, key, dest)
	return args.Error(0)
}

// ============================================================================
// Тестовые данные
// ============================================================================

func question(id, correct string, options ...string) entity.Question {
	q := entity.Question{
		ID:            entity.FlexString(id),
		Text:          entity.FlexString("Question " + id),
		CorrectAnswer: entity.FlexString(correct),
	}
	slots := []*entity.FlexString{&q.OptionA, &q.OptionB, &q.OptionC, &q.OptionD}
	for i, text := range options {
		if i < len(slots) {
			*slots[i] = entity.FlexString(text)
		}
	}
	return q
}

// threeQuestionTest - тест T1 с правильными ответами A, B, C
func threeQuestionTest() []entity.Question {
	return []entity.Question{
		question("1", "A", "a1", "b1", "c1", "d1"),
		question("2", "B", "a2", "b2", "c2", "d2"),
		question("3", "C", "a3", "b3", "c3", "d3"),
	}
}

func testCatalog() []entity.Test {
	return []entity.Test{
		{SheetName: "T1", Title: "Safety Basics"},
		{SheetName: "T2", Title: "Advanced Safety"},
	}
}

func regularState(assigned ...string) *entity.AppState {
	return &entity.AppState{
		Session: &entity.Session{
			Username:      "alice",
			FullName:      "Alice Smith",
			AssignedTests: assigned,
			Mode:          entity.SessionModeRegular,
		},
		Catalog: testCatalog(),
		Screen:  entity.ScreenSelect,
	}
}

func adminState() *entity.AppState {
	return &entity.AppState{
		Session: &entity.Session{Username: "Admin", Mode: entity.SessionModeAdmin},
		Catalog: testCatalog(),
		Screen:  entity.ScreenAdmin,
	}
}
