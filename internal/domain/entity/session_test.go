package entity

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAppState_HomeScreen(t *testing.T) {
	testCases := []struct {
		name     string
		mode     SessionMode
		expected Screen
	}{
		{"обычный пользователь", SessionModeRegular, ScreenSelect},
		{"админ в панели", SessionModeAdmin, ScreenAdmin},
		{"админ проходит тест", SessionModeAdminTakingTest, ScreenSelect},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			state := &AppState{Session: &Session{Mode: tc.mode}}
			assert.Equal(t, tc.expected, state.HomeScreen())
		})
	}
}

func TestAppState_Clear(t *testing.T) {
	state := &AppState{
		Session:     &Session{Username: "alice"},
		Catalog:     []Test{{SheetName: "T1"}},
		Screen:      ScreenResult,
		CurrentTest: &Test{SheetName: "T1"},
		Questions:   []Question{{ID: "1"}},
		Result:      &AttemptResult{ScorePercent: 100},
		Notice:      "x",
	}

	state.Clear()

	assert.Nil(t, state.Session)
	assert.Nil(t, state.Catalog)
	assert.Nil(t, state.CurrentTest)
	assert.Nil(t, state.Questions)
	assert.Nil(t, state.Result)
	assert.Empty(t, state.Notice)
	assert.Equal(t, ScreenLogin, state.Screen)
}

func TestSession_IsAdmin(t *testing.T) {
	assert.True(t, (&Session{Mode: SessionModeAdmin}).IsAdmin())
	assert.True(t, (&Session{Mode: SessionModeAdminTakingTest}).IsAdmin())
	assert.False(t, (&Session{Mode: SessionModeRegular}).IsAdmin())
}

func TestSession_DisplayName(t *testing.T) {
	assert.Equal(t, "Alice Smith", (&Session{Username: "alice", FullName: "Alice Smith"}).DisplayName())
	assert.Equal(t, "alice", (&Session{Username: "alice", FullName: "  "}).DisplayName(), "пустое полное имя заменяется логином")
}

func TestSession_IsAssigned(t *testing.T) {
	session := &Session{AssignedTests: []string{"T1", "T3"}}

	assert.True(t, session.IsAssigned("T1"))
	assert.False(t, session.IsAssigned("T2"))
}
