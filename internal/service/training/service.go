// Package training orchestrates training sessions: starting and finishing
// sessions, selecting the next word to ask, and recording answers together
// with their review-schedule updates.
package training

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/leximo/leximo-api/internal/domain"
)

// Common error types for the training service.
var (
	// ErrDictionaryNotFound indicates that the dictionary does not exist.
	ErrDictionaryNotFound = errors.New("dictionary not found")

	// ErrSessionNotFound indicates that the training session does not exist.
	ErrSessionNotFound = errors.New("training session not found")

	// ErrWordNotFound indicates that the word does not exist.
	ErrWordNotFound = errors.New("word not found")

	// ErrNotOwned indicates that the user does not own the referenced
	// dictionary or session.
	ErrNotOwned = errors.New("unauthorized access: resource not owned by user")

	// ErrSessionFinished indicates an attempt to finish a session that is
	// already closed. Finishing is deliberately not idempotent.
	ErrSessionFinished = errors.New("training session already finished")
)

// Prompt is a single multiple-choice question served to the client, or a
// completion marker when every word in the dictionary has been answered
// this session.
type Prompt struct {
	// Done is true when the session has exhausted the dictionary. All other
	// fields are zero in that case.
	Done bool `json:"done"`

	WordID uuid.UUID `json:"word_id,omitempty"`

	// Question is the side of the word shown to the user, according to the
	// session direction.
	Question string `json:"question,omitempty"`

	// CorrectAnswer is the expected answer.
	CorrectAnswer string `json:"correct_answer,omitempty"`

	// Options holds the correct answer and up to three distractors in
	// uniformly random order. The correct answer appears exactly once.
	Options []string `json:"options,omitempty"`
}

// Service provides training session operations.
//
// Callers are expected to submit answers sequentially within one session
// (ask, answer, ask again). Concurrent answers to the same open prompt from
// one session are not coordinated.
type Service interface {
	// Start returns the open session for (userID, dictionaryID), creating
	// one if none exists. Start is idempotent: when an open session exists
	// it is returned unchanged and the mode/direction arguments are
	// ignored. Concurrent calls for the same pair are serialized through a
	// per-pair lock so at most one open session can ever exist.
	Start(ctx context.Context, userID, dictionaryID uuid.UUID, mode string, direction domain.Direction) (*domain.TrainingSession, error)

	// Finish closes the session. Returns ErrSessionFinished if the session
	// is already closed; a finished session is never reopened.
	Finish(ctx context.Context, userID, sessionID uuid.UUID) (*domain.TrainingSession, error)

	// NextWord selects the next word to ask in the session and builds its
	// multiple-choice prompt. Words already answered in this session are
	// never served again; when no unanswered words remain the returned
	// prompt has Done set.
	NextWord(ctx context.Context, userID, sessionID uuid.UUID) (*Prompt, error)

	// RecordAnswer appends an answer event, bumps the session tally and
	// applies the review-schedule update to the word, all as one atomic
	// unit. Partial application is never visible: on any failure the whole
	// operation rolls back.
	RecordAnswer(ctx context.Context, userID, sessionID, wordID uuid.UUID, correct bool, userAnswer string) error

	// History lists the user's sessions, most recent first.
	History(ctx context.Context, userID uuid.UUID) ([]*domain.TrainingSession, error)
}
