package srs

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leximo/leximo-api/internal/domain"
)

func newTestWord(t *testing.T) *domain.Word {
	t.Helper()
	word, err := domain.NewWord(uuid.New(), "cat", "кошка", "", "", 1)
	require.NoError(t, err)
	return word
}

func TestCalculateNewEasiness(t *testing.T) {
	t.Parallel()
	params := NewDefaultParams()

	testCases := []struct {
		name     string
		current  float64
		correct  bool
		expected float64
	}{
		{
			name:     "wrong answer applies penalty",
			current:  2.5,
			correct:  false,
			expected: 2.3,
		},
		{
			name:     "wrong answer clamps at floor",
			current:  1.4,
			correct:  false,
			expected: 1.3,
		},
		{
			name:     "wrong answer at floor stays at floor",
			current:  1.3,
			correct:  false,
			expected: 1.3,
		},
		{
			name:     "correct answer adds reward",
			current:  2.5,
			correct:  true,
			expected: 2.6,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			result := calculateNewEasiness(tc.current, tc.correct, params)
			assert.InDelta(t, tc.expected, result, 1e-9)
		})
	}
}

func TestCalculateNewInterval(t *testing.T) {
	t.Parallel()
	params := NewDefaultParams()

	testCases := []struct {
		name        string
		current     int
		repetitions int
		easiness    float64
		correct     bool
		expected    int
	}{
		{
			name:        "wrong answer resets to first interval",
			current:     30,
			repetitions: 5,
			easiness:    2.5,
			correct:     false,
			expected:    1,
		},
		{
			name:        "first successful repetition",
			current:     1,
			repetitions: 0,
			easiness:    2.5,
			correct:     true,
			expected:    1,
		},
		{
			name:        "second successful repetition",
			current:     1,
			repetitions: 1,
			easiness:    2.5,
			correct:     true,
			expected:    6,
		},
		{
			name:        "third repetition grows by easiness",
			current:     6,
			repetitions: 2,
			easiness:    2.5,
			correct:     true,
			expected:    15, // round(6 * 2.5)
		},
		{
			name:        "rounding to nearest day",
			current:     10,
			repetitions: 4,
			easiness:    1.35,
			correct:     true,
			expected:    14, // round(13.5)
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			result := calculateNewInterval(tc.current, tc.repetitions, tc.easiness, tc.correct, params)
			assert.Equal(t, tc.expected, result)
		})
	}
}

func TestReviewWrongAnswer(t *testing.T) {
	t.Parallel()
	params := NewDefaultParams()
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	word := newTestWord(t)
	word.Repetitions = 4
	word.Easiness = 2.1
	word.IntervalDays = 14

	updated := Review(word, false, now, params)

	assert.Equal(t, 0, updated.Repetitions)
	assert.InDelta(t, 1.9, updated.Easiness, 1e-9)
	assert.Equal(t, 1, updated.IntervalDays)
	assert.Equal(t, now, updated.LastReviewed)
	assert.Equal(t, now.AddDate(0, 0, 1), updated.NextReview)

	// Input word is untouched.
	assert.Equal(t, 4, word.Repetitions)
	assert.Equal(t, 14, word.IntervalDays)
}

func TestReviewScenarioOneWord(t *testing.T) {
	t.Parallel()
	params := NewDefaultParams()
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	word := newTestWord(t)

	// First answer wrong: repetitions reset, easiness penalized, interval 1.
	word = Review(word, false, now, params)
	assert.Equal(t, 0, word.Repetitions)
	assert.InDelta(t, 2.3, word.Easiness, 1e-9)
	assert.Equal(t, 1, word.IntervalDays)

	// Second answer correct: first successful repetition.
	now = now.Add(time.Hour)
	word = Review(word, true, now, params)
	assert.Equal(t, 1, word.Repetitions)
	assert.Equal(t, 1, word.IntervalDays)

	// Third answer correct: second successful repetition.
	now = now.Add(time.Hour)
	word = Review(word, true, now, params)
	assert.Equal(t, 2, word.Repetitions)
	assert.Equal(t, 6, word.IntervalDays)
	assert.Equal(t, now.AddDate(0, 0, 6), word.NextReview)
}

func TestReviewIntervalNeverShrinksWhileCorrect(t *testing.T) {
	t.Parallel()
	params := NewDefaultParams()
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	word := newTestWord(t)
	word.Repetitions = 2
	word.IntervalDays = 6

	prev := word.IntervalDays
	for i := 0; i < 10; i++ {
		now = now.AddDate(0, 0, word.IntervalDays)
		word = Review(word, true, now, params)
		assert.GreaterOrEqual(t, word.IntervalDays, prev)
		assert.False(t, word.NextReview.Before(word.LastReviewed))
		prev = word.IntervalDays
	}
}

func TestReviewEasinessFloorHolds(t *testing.T) {
	t.Parallel()
	params := NewDefaultParams()
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	word := newTestWord(t)
	for i := 0; i < 20; i++ {
		word = Review(word, false, now, params)
		assert.GreaterOrEqual(t, word.Easiness, params.MinEasiness)
		assert.Equal(t, 1, word.IntervalDays)
		assert.Equal(t, 0, word.Repetitions)
	}
}
