package domain

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// AnswerEvent validation errors.
var (
	ErrEmptyAnswerID        = errors.New("answer ID cannot be empty")
	ErrEmptyAnswerSessionID = errors.New("answer session ID cannot be empty")
	ErrEmptyAnswerWordID    = errors.New("answer word ID cannot be empty")
)

// AnswerEvent records a single answer given during a training session.
//
// Events are append-only: once written they are never mutated or deleted,
// except through cascading deletion of the owning word or session.
type AnswerEvent struct {
	ID         uuid.UUID `json:"id"`
	SessionID  uuid.UUID `json:"session_id"`
	WordID     uuid.UUID `json:"word_id"`
	Correct    bool      `json:"correct"`
	UserAnswer string    `json:"user_answer,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
}

// NewAnswerEvent creates a new answer event for the given session and word.
func NewAnswerEvent(sessionID, wordID uuid.UUID, correct bool, userAnswer string) (*AnswerEvent, error) {
	event := &AnswerEvent{
		ID:         uuid.New(),
		SessionID:  sessionID,
		WordID:     wordID,
		Correct:    correct,
		UserAnswer: userAnswer,
		CreatedAt:  time.Now().UTC(),
	}

	if err := event.Validate(); err != nil {
		return nil, err
	}

	return event, nil
}

// Validate checks if the AnswerEvent has valid data.
func (e *AnswerEvent) Validate() error {
	if e.ID == uuid.Nil {
		return ErrEmptyAnswerID
	}

	if e.SessionID == uuid.Nil {
		return ErrEmptyAnswerSessionID
	}

	if e.WordID == uuid.Nil {
		return ErrEmptyAnswerWordID
	}

	return nil
}
