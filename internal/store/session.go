package store

import (
	"context"
	"database/sql"

	"github.com/google/uuid"

	"github.com/leximo/leximo-api/internal/domain"
)

// SessionStore defines the interface for training session persistence.
type SessionStore interface {
	// Create saves a new training session to the store.
	// Returns ErrLocalNumberExists when the session's local number is
	// already taken for the user.
	Create(ctx context.Context, session *domain.TrainingSession) error

	// GetByID retrieves a session by its unique ID.
	// Returns ErrSessionNotFound if the session does not exist.
	GetByID(ctx context.Context, id uuid.UUID) (*domain.TrainingSession, error)

	// FindOpen retrieves the open (unfinished) session for the given user
	// and dictionary, if one exists. Returns ErrSessionNotFound if there is
	// no open session for the pair.
	FindOpen(ctx context.Context, userID, dictionaryID uuid.UUID) (*domain.TrainingSession, error)

	// Update persists the full state of an existing session.
	// Returns ErrSessionNotFound if the session does not exist.
	Update(ctx context.Context, session *domain.TrainingSession) error

	// NextLocalNumber returns the user's highest session local number plus
	// one. The read and the insert are not atomic across connections;
	// concurrent callers can receive the same value, and the unique index
	// on (user_id, local_number) rejects all but one on Create.
	NextLocalNumber(ctx context.Context, userID uuid.UUID) (int, error)

	// ListByUser retrieves all of the user's sessions ordered by local
	// number descending (most recent first).
	ListByUser(ctx context.Context, userID uuid.UUID) ([]*domain.TrainingSession, error)

	// WithTx returns a new SessionStore instance that uses the provided
	// transaction.
	WithTx(tx *sql.Tx) SessionStore
}
