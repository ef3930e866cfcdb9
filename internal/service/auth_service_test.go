package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/yourusername/exam-portal/internal/domain/entity"
	"github.com/yourusername/exam-portal/internal/domain/repository"
	apperrors "github.com/yourusername/exam-portal/internal/pkg/errors"
)

func testDirectory() *repository.Directory {
	return &repository.Directory{
		Users: []entity.User{
			{Username: "alice", FullName: "Alice Smith", PasswordHash: entity.HashPassword("secret"), Tests: []string{"T1"}},
			{Username: "bob", PasswordHash: entity.HashPassword("hunter2"), Tests: []string{"T2"}},
			{Username: "Admin", FullName: "Administrator", PasswordHash: entity.HashPassword("root")},
		},
		Tests: testCatalog(),
	}
}

func TestAuthService_Authenticate_RegularUser(t *testing.T) {
	// Arrange
	backend := new(MockExamBackend)
	backend.On("GetUsers", mock.Anything).Return(testDirectory(), nil).Once()
	svc := NewAuthService(backend, "")

	// Act
	state, err := svc.Authenticate(context.Background(), "  alice ", "secret")

	// Assert
	require.NoError(t, err)
	require.NotNil(t, state.Session)
	assert.Equal(t, "alice", state.Session.Username)
	assert.Equal(t, "Alice Smith", state.Session.FullName)
	assert.Equal(t, []string{"T1"}, state.Session.AssignedTests)
	assert.Equal(t, entity.SessionModeRegular, state.Session.Mode)
	assert.Equal(t, entity.ScreenSelect, state.Screen)
	assert.Equal(t, testCatalog(), state.Catalog, "каталог кешируется в состоянии")
	backend.AssertExpectations(t)
}

func TestAuthService_Authenticate_Admin(t *testing.T) {
	backend := new(MockExamBackend)
	backend.On("GetUsers", mock.Anything).Return(testDirectory(), nil).Once()
	svc := NewAuthService(backend, entity.DefaultAdminUsername)

	state, err := svc.Authenticate(context.Background(), "Admin", "root")

	require.NoError(t, err)
	assert.Equal(t, entity.SessionModeAdmin, state.Session.Mode)
	assert.Equal(t, entity.ScreenAdmin, state.Screen)
	assert.True(t, svc.IsAdminUsername("Admin"))
	assert.False(t, svc.IsAdminUsername("admin"), "сравнение имени администратора чувствительно к регистру")
}

func TestAuthService_Authenticate_CustomAdminName(t *testing.T) {
	dir := testDirectory()
	backend := new(MockExamBackend)
	backend.On("GetUsers", mock.Anything).Return(dir, nil).Once()
	svc := NewAuthService(backend, "bob")

	state, err := svc.Authenticate(context.Background(), "bob", "hunter2")

	require.NoError(t, err)
	assert.True(t, state.Session.IsAdmin())
}

func TestAuthService_Authenticate_EmptyFields(t *testing.T) {
	testCases := []struct {
		name     string
		username string
		password string
	}{
		{"пустой логин", "", "secret"},
		{"логин из пробелов", "   ", "secret"},
		{"пустой пароль", "alice", ""},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			backend := new(MockExamBackend)
			svc := NewAuthService(backend, "")

			state, err := svc.Authenticate(context.Background(), tc.username, tc.password)

			assert.Nil(t, state)
			assert.ErrorIs(t, err, ErrMissingCredentials)
			assert.ErrorIs(t, err, apperrors.ErrValidation)
			backend.AssertNotCalled(t, "GetUsers", mock.Anything)
		})
	}
}

func TestAuthService_Authenticate_BackendFailure(t *testing.T) {
	backend := new(MockExamBackend)
	backend.On("GetUsers", mock.Anything).Return(nil, errors.New("dial tcp: timeout")).Once()
	svc := NewAuthService(backend, "")

	state, err := svc.Authenticate(context.Background(), "alice", "secret")

	assert.Nil(t, state)
	assert.ErrorIs(t, err, ErrServiceUnavailable)
	assert.ErrorIs(t, err, apperrors.ErrUpstream)
	assert.Equal(t, "Connection error. Please try again.", UserMessage(err))
}

func TestAuthService_Authenticate_Rejections(t *testing.T) {
	testCases := []struct {
		name     string
		username string
		password string
	}{
		{"неверный пароль", "alice", "wrong"},
		{"неизвестный пользователь", "mallory", "secret"},
		{"пароль другого пользователя", "alice", "hunter2"},
		{"регистр логина", "ALICE", "secret"},
		{"пароль с пробелами не обрезается", "alice", " secret "},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			backend := new(MockExamBackend)
			backend.On("GetUsers", mock.Anything).Return(testDirectory(), nil).Once()
			svc := NewAuthService(backend, "")

			state, err := svc.Authenticate(context.Background(), tc.username, tc.password)

			assert.Nil(t, state)
			assert.ErrorIs(t, err, ErrInvalidCredentials)
			assert.Equal(t, "Invalid username or password", UserMessage(err), "одно сообщение для любой причины отказа")
		})
	}
}

func TestAuthService_Logout(t *testing.T) {
	svc := NewAuthService(new(MockExamBackend), "")
	state := regularState("T1")
	state.Questions = threeQuestionTest()

	svc.Logout(state)

	assert.Nil(t, state.Session)
	assert.Nil(t, state.Catalog)
	assert.Nil(t, state.Questions)
	assert.Equal(t, entity.ScreenLogin, state.Screen)

	assert.NotPanics(t, func() { svc.Logout(nil) })
}
