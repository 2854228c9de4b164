package store

import (
	"context"
	"database/sql"

	"github.com/google/uuid"

	"github.com/leximo/leximo-api/internal/domain"
)

// AnswerStore defines the interface for answer event persistence.
// Answer events are append-only: there are no update or delete operations.
type AnswerStore interface {
	// Create appends a new answer event.
	Create(ctx context.Context, event *domain.AnswerEvent) error

	// ListBySession retrieves all answer events for a session in creation
	// order.
	ListBySession(ctx context.Context, sessionID uuid.UUID) ([]*domain.AnswerEvent, error)

	// ListByUser retrieves all answer events across all of the user's
	// sessions in creation order.
	ListByUser(ctx context.Context, userID uuid.UUID) ([]*domain.AnswerEvent, error)

	// WithTx returns a new AnswerStore instance that uses the provided
	// transaction.
	WithTx(tx *sql.Tx) AnswerStore
}
