package srs

import (
	"math"
	"time"

	"github.com/leximo/leximo-api/internal/domain"
)

// calculateNewEasiness determines the new easiness factor based on the
// answer outcome.
//
// The easiness factor represents how quickly the review interval grows for
// a word. A correct answer rewards the word with a fixed increment; a wrong
// answer applies a penalty, clamped at the configured floor so intervals
// never collapse entirely.
func calculateNewEasiness(current float64, correct bool, params *Params) float64 {
	if !correct {
		penalized := current - params.WrongEasinessPenalty
		if penalized < params.MinEasiness {
			return params.MinEasiness
		}
		return penalized
	}

	return current + params.CorrectEasinessReward
}

// calculateNewInterval determines the next review interval in days.
//
// A wrong answer resets the interval to the base interval. For correct
// answers, the first two successful repetitions use fixed intervals
// (FirstInterval, SecondInterval); from the third repetition on, the
// interval grows multiplicatively by the easiness factor, rounded to the
// nearest whole day.
//
// The repetitions argument is the count before this answer is applied.
func calculateNewInterval(currentInterval, repetitions int, easiness float64, correct bool, params *Params) int {
	if !correct {
		return params.FirstInterval
	}

	switch repetitions {
	case 0:
		return params.FirstInterval
	case 1:
		return params.SecondInterval
	default:
		return int(math.Round(float64(currentInterval) * easiness))
	}
}

// Review applies a single answer outcome to a word and returns a new word
// with the updated schedule. The input word is never modified.
//
// This is the single source of truth for easiness, interval and next-review
// updates: a wrong answer resets repetitions to zero and applies the
// easiness penalty, a correct answer advances the repetition count, grows
// the interval and rewards easiness. In both cases the word's last-reviewed
// time becomes now and the next review is scheduled interval days ahead.
func Review(word *domain.Word, correct bool, now time.Time, params *Params) *domain.Word {
	updated := *word

	// Interval growth uses the pre-answer easiness, matching the classic
	// SM-2 ordering of operations.
	updated.IntervalDays = calculateNewInterval(
		word.IntervalDays,
		word.Repetitions,
		word.Easiness,
		correct,
		params,
	)
	updated.Easiness = calculateNewEasiness(word.Easiness, correct, params)

	if correct {
		updated.Repetitions = word.Repetitions + 1
	} else {
		updated.Repetitions = 0
	}

	updated.LastReviewed = now
	updated.NextReview = now.AddDate(0, 0, updated.IntervalDays)
	updated.UpdatedAt = now

	return &updated
}
