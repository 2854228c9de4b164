package store

import (
	"context"

	"github.com/google/uuid"

	"github.com/leximo/leximo-api/internal/domain"
)

// DictionaryStore defines the interface for dictionary data persistence.
type DictionaryStore interface {
	// Create saves a new dictionary to the store.
	// Returns ErrLocalNumberExists when the dictionary's local number is
	// already taken for the user.
	Create(ctx context.Context, dictionary *domain.Dictionary) error

	// GetByID retrieves a dictionary by its unique ID.
	// Returns ErrDictionaryNotFound if the dictionary does not exist.
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Dictionary, error)

	// ListByUser retrieves all of the user's dictionaries ordered by local
	// number.
	ListByUser(ctx context.Context, userID uuid.UUID) ([]*domain.Dictionary, error)

	// Update persists changes to an existing dictionary.
	// Returns ErrDictionaryNotFound if the dictionary does not exist.
	Update(ctx context.Context, dictionary *domain.Dictionary) error

	// Delete removes a dictionary by its ID. Words and their answer events
	// are removed through database-level CASCADE DELETE constraints.
	// Returns ErrDictionaryNotFound if the dictionary does not exist.
	Delete(ctx context.Context, id uuid.UUID) error

	// NextLocalNumber returns the user's highest dictionary local number
	// plus one. Concurrent callers can receive the same value; the unique
	// index on (user_id, local_number) rejects all but one on Create.
	NextLocalNumber(ctx context.Context, userID uuid.UUID) (int, error)
}
