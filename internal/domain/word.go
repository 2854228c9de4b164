package domain

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// Word validation errors.
var (
	ErrEmptyWordID           = errors.New("word ID cannot be empty")
	ErrEmptyWordDictionaryID = errors.New("word dictionary ID cannot be empty")
	ErrEmptyTerm             = errors.New("word term cannot be empty")
	ErrEmptyTranslation      = errors.New("word translation cannot be empty")
	ErrInvalidDifficulty     = errors.New("word difficulty must be between 1 and 3")
	ErrInvalidRepetitions    = errors.New("repetitions must be greater than or equal to 0")
	ErrInvalidEasiness       = errors.New("easiness must be at least 1.3")
	ErrInvalidIntervalDays   = errors.New("interval must be at least 1 day")
	ErrReviewOrderViolation  = errors.New("next review cannot precede last review")
)

// Default scheduling values for newly created words.
const (
	DefaultEasiness     = 2.5
	MinEasiness         = 1.3
	DefaultIntervalDays = 1
)

// Word is a single vocabulary entry within a dictionary.
//
// The scheduling fields (Repetitions, Easiness, IntervalDays, LastReviewed,
// NextReview) are owned by the review scheduler and must not be mutated
// anywhere else. A zero LastReviewed/NextReview means the word has never
// been reviewed and is immediately due.
type Word struct {
	ID            uuid.UUID `json:"id"`
	DictionaryID  uuid.UUID `json:"dictionary_id"`
	Term          string    `json:"term"`
	Translation   string    `json:"translation"`
	Transcription string    `json:"transcription,omitempty"`
	Example       string    `json:"example,omitempty"`
	Difficulty    int       `json:"difficulty"` // 1 (easy) .. 3 (hard)
	Repetitions   int       `json:"repetitions"`
	Easiness      float64   `json:"easiness"`
	IntervalDays  int       `json:"interval_days"`
	LastReviewed  time.Time `json:"last_reviewed,omitempty"`
	NextReview    time.Time `json:"next_review,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// NewWord creates a new Word in the given dictionary with default scheduling
// state: never reviewed, default easiness, one-day base interval.
// Returns an error if validation fails.
func NewWord(dictionaryID uuid.UUID, term, translation, transcription, example string, difficulty int) (*Word, error) {
	now := time.Now().UTC()
	word := &Word{
		ID:            uuid.New(),
		DictionaryID:  dictionaryID,
		Term:          term,
		Translation:   translation,
		Transcription: transcription,
		Example:       example,
		Difficulty:    difficulty,
		Repetitions:   0,
		Easiness:      DefaultEasiness,
		IntervalDays:  DefaultIntervalDays,
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	if err := word.Validate(); err != nil {
		return nil, err
	}

	return word, nil
}

// Validate checks if the Word has valid data.
// Returns an error if any field fails validation.
func (w *Word) Validate() error {
	if w.ID == uuid.Nil {
		return ErrEmptyWordID
	}

	if w.DictionaryID == uuid.Nil {
		return ErrEmptyWordDictionaryID
	}

	if w.Term == "" {
		return ErrEmptyTerm
	}

	if w.Translation == "" {
		return ErrEmptyTranslation
	}

	if w.Difficulty < 1 || w.Difficulty > 3 {
		return ErrInvalidDifficulty
	}

	if w.Repetitions < 0 {
		return ErrInvalidRepetitions
	}

	if w.Easiness < MinEasiness {
		return ErrInvalidEasiness
	}

	if w.IntervalDays < 1 {
		return ErrInvalidIntervalDays
	}

	if !w.LastReviewed.IsZero() && !w.NextReview.IsZero() && w.NextReview.Before(w.LastReviewed) {
		return ErrReviewOrderViolation
	}

	return nil
}

// Due reports whether the word should be offered for review at the given
// time. Words that have never been reviewed are always due.
func (w *Word) Due(now time.Time) bool {
	return w.NextReview.IsZero() || !w.NextReview.After(now)
}
