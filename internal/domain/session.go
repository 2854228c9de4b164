package domain

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// Direction determines which side of a word is shown as the prompt during
// a training session.
type Direction string

// Possible training direction values.
const (
	// DirectionTermToTranslation shows the term and expects the translation.
	DirectionTermToTranslation Direction = "term_to_translation"
	// DirectionTranslationToTerm shows the translation and expects the term.
	DirectionTranslationToTerm Direction = "translation_to_term"
)

// Valid reports whether d is one of the known direction values.
func (d Direction) Valid() bool {
	return d == DirectionTermToTranslation || d == DirectionTranslationToTerm
}

// TrainingSession validation errors.
var (
	ErrEmptySessionID           = errors.New("session ID cannot be empty")
	ErrEmptySessionUserID       = errors.New("session user ID cannot be empty")
	ErrEmptySessionDictionaryID = errors.New("session dictionary ID cannot be empty")
	ErrEmptySessionMode         = errors.New("session mode cannot be empty")
	ErrInvalidSessionCounts     = errors.New("session tallies must be greater than or equal to 0")
	ErrInvalidLocalNumber       = errors.New("session local number must be at least 1")
)

// TrainingSession is one run of training a user through a dictionary.
//
// At most one session per (UserID, DictionaryID) may be open (FinishedAt
// zero) at any time; SessionManager enforces this. LocalNumber is a 1-based
// per-user sequence assigned at creation. A finished session is never
// reopened.
type TrainingSession struct {
	ID           uuid.UUID `json:"id"`
	UserID       uuid.UUID `json:"user_id"`
	DictionaryID uuid.UUID `json:"dictionary_id"`
	Mode         string    `json:"mode"`
	Direction    Direction `json:"direction"`
	LocalNumber  int       `json:"local_number"`
	CorrectCount int       `json:"correct_count"`
	WrongCount   int       `json:"wrong_count"`
	StartedAt    time.Time `json:"started_at"`
	FinishedAt   time.Time `json:"finished_at,omitempty"`
}

// NewTrainingSession creates a new open session with zero tallies.
// The caller assigns LocalNumber from the per-user sequence before insertion.
func NewTrainingSession(userID, dictionaryID uuid.UUID, mode string, direction Direction, localNumber int) (*TrainingSession, error) {
	session := &TrainingSession{
		ID:           uuid.New(),
		UserID:       userID,
		DictionaryID: dictionaryID,
		Mode:         mode,
		Direction:    direction,
		LocalNumber:  localNumber,
		StartedAt:    time.Now().UTC(),
	}

	if err := session.Validate(); err != nil {
		return nil, err
	}

	return session, nil
}

// Validate checks if the TrainingSession has valid data.
// Returns an error if any field fails validation.
func (s *TrainingSession) Validate() error {
	if s.ID == uuid.Nil {
		return ErrEmptySessionID
	}

	if s.UserID == uuid.Nil {
		return ErrEmptySessionUserID
	}

	if s.DictionaryID == uuid.Nil {
		return ErrEmptySessionDictionaryID
	}

	if s.Mode == "" {
		return ErrEmptySessionMode
	}

	if !s.Direction.Valid() {
		return ErrInvalidDirection
	}

	if s.LocalNumber < 1 {
		return ErrInvalidLocalNumber
	}

	if s.CorrectCount < 0 || s.WrongCount < 0 {
		return ErrInvalidSessionCounts
	}

	return nil
}

// Finished reports whether the session has been closed.
func (s *TrainingSession) Finished() bool {
	return !s.FinishedAt.IsZero()
}
