// Package stats provides read-only analytics over answer events and word
// schedules: per-session details and weak words, and per-user aggregate
// statistics.
package stats

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/leximo/leximo-api/internal/domain"
)

// Common error types for the stats service.
var (
	// ErrSessionNotFound indicates that the training session does not exist.
	ErrSessionNotFound = errors.New("training session not found")

	// ErrNotOwned indicates that the user does not own the referenced
	// session.
	ErrNotOwned = errors.New("unauthorized access: resource not owned by user")
)

// AnsweredWord pairs an answer event with the current state of its word.
// The word is read at query time, so its scheduling fields reflect every
// review since the answer, not a snapshot taken when the answer was given.
type AnsweredWord struct {
	Event *domain.AnswerEvent `json:"event"`
	Word  *domain.Word        `json:"word"`
}

// SessionDetails is a session together with its answers in creation order.
type SessionDetails struct {
	Session *domain.TrainingSession `json:"session"`
	Answers []AnsweredWord          `json:"answers"`
}

// WeakWord is a word with the number of incorrect answers recorded for it
// within some scope.
type WeakWord struct {
	Word     *domain.Word `json:"word"`
	Mistakes int          `json:"mistakes"`
}

// UserStatistics aggregates a user's vocabulary and answer history.
type UserStatistics struct {
	TotalWords   int `json:"total_words"`
	LearnedWords int `json:"learned_words"`
	DueWords     int `json:"due_words"`
	CorrectTotal int `json:"correct_total"`
	WrongTotal   int `json:"wrong_total"`

	// Accuracy is round(100 * correct / (correct + wrong)), or 0 when no
	// answers have been recorded.
	Accuracy int `json:"accuracy"`

	// Streak counts consecutive correct answers walking backward from the
	// most recent event across all sessions, stopping at the first wrong
	// one.
	Streak int `json:"streak"`

	// TopHard lists the words with the most incorrect answers across all
	// history, hardest first. Words without mistakes never appear.
	TopHard []WeakWord `json:"top_hard"`
}

// Service provides analytics queries.
type Service interface {
	// SessionDetails returns the session and its answer events in creation
	// order, each joined with the live word row.
	SessionDetails(ctx context.Context, userID, sessionID uuid.UUID) (*SessionDetails, error)

	// WeakWords returns the words answered incorrectly at least once in the
	// session, sorted by mistake count descending. At most ten words are
	// returned; ties are in no particular order.
	WeakWords(ctx context.Context, userID, sessionID uuid.UUID) ([]WeakWord, error)

	// UserStatistics aggregates the user's words and answer history.
	UserStatistics(ctx context.Context, userID uuid.UUID) (*UserStatistics, error)
}
