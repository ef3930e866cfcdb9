package entity

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestScorePercent(t *testing.T) {
	testCases := []struct {
		name     string
		correct  int
		total    int
		expected int
	}{
		{"2 из 3", 2, 3, 67},
		{"1 из 3", 1, 3, 33},
		{"все верно", 3, 3, 100},
		{"ничего", 0, 5, 0},
		{"половина округляется вверх", 1, 8, 13}, // 12.5 -> 13
		{"4 из 5 ровно порог", 4, 5, 80},
		{"пустой тест", 0, 0, 0},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, ScorePercent(tc.correct, tc.total))
		})
	}
}

func TestScorePercent_MatchesRoundingForAllSmallTotals(t *testing.T) {
	for total := 1; total <= 60; total++ {
		for correct := 0; correct <= total; correct++ {
			// округление половины вверх в целых числах: floor((200c + t) / 2t)
			x := float64(100*correct) / float64(total)
			want := int(x + 0.5)
			assert.Equal(t, want, ScorePercent(correct, total), "correct=%d total=%d", correct, total)
		}
	}
}

func TestIsPassed(t *testing.T) {
	assert.True(t, IsPassed(80, DefaultPassThreshold))
	assert.True(t, IsPassed(100, DefaultPassThreshold))
	assert.False(t, IsPassed(79, DefaultPassThreshold))
	assert.False(t, IsPassed(67, DefaultPassThreshold))
}
