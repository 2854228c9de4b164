package store

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"

	"github.com/leximo/leximo-api/internal/domain"
)

// WordStore defines the interface for word data persistence.
type WordStore interface {
	// Create saves a new word to the store.
	// Returns validation errors if the word data is invalid.
	Create(ctx context.Context, word *domain.Word) error

	// GetByID retrieves a word by its unique ID.
	// Returns ErrWordNotFound if the word does not exist.
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Word, error)

	// ListByDictionary retrieves all words belonging to a dictionary,
	// ordered by creation time.
	ListByDictionary(ctx context.Context, dictionaryID uuid.UUID) ([]*domain.Word, error)

	// Update persists the full state of an existing word, including its
	// scheduling fields. Returns ErrWordNotFound if the word does not exist.
	Update(ctx context.Context, word *domain.Word) error

	// Delete removes a word from the store by its ID.
	// Returns ErrWordNotFound if the word does not exist.
	//
	// Answer events referencing the word are removed through database-level
	// CASCADE DELETE constraints.
	Delete(ctx context.Context, id uuid.UUID) error

	// ListDueByUser retrieves all of a user's words that are due for review
	// at the given time (next review unset or not after now).
	ListDueByUser(ctx context.Context, userID uuid.UUID, now time.Time) ([]*domain.Word, error)

	// CountByUser returns the total number of words across all of the
	// user's dictionaries.
	CountByUser(ctx context.Context, userID uuid.UUID) (int, error)

	// CountLearnedByUser returns the number of the user's words with at
	// least minRepetitions successful repetitions.
	CountLearnedByUser(ctx context.Context, userID uuid.UUID, minRepetitions int) (int, error)

	// CountDueByUser returns the number of the user's words due for review
	// at the given time.
	CountDueByUser(ctx context.Context, userID uuid.UUID, now time.Time) (int, error)

	// WithTx returns a new WordStore instance that uses the provided
	// transaction. The transaction is created and managed by the caller,
	// typically through RunInTransaction.
	WithTx(tx *sql.Tx) WordStore
}
