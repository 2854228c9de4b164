package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/leximo/leximo-api/internal/domain"
	"github.com/leximo/leximo-api/internal/store"
)

// PostgresDictionaryStore implements the store.DictionaryStore interface
// using a PostgreSQL database as the storage backend.
type PostgresDictionaryStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresDictionaryStore creates a new PostgreSQL implementation of the
// DictionaryStore interface.
func NewPostgresDictionaryStore(db store.DBTX, logger *slog.Logger) *PostgresDictionaryStore {
	if db == nil {
		panic("db cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresDictionaryStore{
		db:     db,
		logger: logger.With(slog.String("component", "dictionary_store")),
	}
}

// Ensure PostgresDictionaryStore implements store.DictionaryStore interface
var _ store.DictionaryStore = (*PostgresDictionaryStore)(nil)

// Create implements store.DictionaryStore.Create
func (s *PostgresDictionaryStore) Create(ctx context.Context, dictionary *domain.Dictionary) error {
	if err := dictionary.Validate(); err != nil {
		return fmt.Errorf("%w: %v", store.ErrInvalidEntity, err)
	}

	query := `
		INSERT INTO dictionaries (id, user_id, title, language_from, language_to, local_number, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`

	_, err := s.db.ExecContext(ctx, query,
		dictionary.ID, dictionary.UserID, dictionary.Title,
		dictionary.LanguageFrom, dictionary.LanguageTo, dictionary.LocalNumber,
		dictionary.CreatedAt, dictionary.UpdatedAt)
	if err != nil {
		if uniqueViolationConstraint(err) == "idx_dictionaries_user_local" {
			return store.ErrLocalNumberExists
		}
		return store.NewStoreError("dictionary", "create", "failed to insert dictionary", err)
	}

	return nil
}

// GetByID implements store.DictionaryStore.GetByID
// Returns store.ErrDictionaryNotFound if the dictionary does not exist.
func (s *PostgresDictionaryStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Dictionary, error) {
	query := `
		SELECT id, user_id, title, language_from, language_to, local_number, created_at, updated_at
		FROM dictionaries
		WHERE id = $1`

	var d domain.Dictionary
	err := s.db.QueryRowContext(ctx, query, id).Scan(
		&d.ID, &d.UserID, &d.Title, &d.LanguageFrom, &d.LanguageTo,
		&d.LocalNumber, &d.CreatedAt, &d.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrDictionaryNotFound
		}
		return nil, store.NewStoreError("dictionary", "get", "failed to scan dictionary", err)
	}

	return &d, nil
}

// ListByUser implements store.DictionaryStore.ListByUser
func (s *PostgresDictionaryStore) ListByUser(ctx context.Context, userID uuid.UUID) ([]*domain.Dictionary, error) {
	query := `
		SELECT id, user_id, title, language_from, language_to, local_number, created_at, updated_at
		FROM dictionaries
		WHERE user_id = $1
		ORDER BY local_number`

	rows, err := s.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, store.NewStoreError("dictionary", "list", "failed to query dictionaries", err)
	}
	defer func() { _ = rows.Close() }()

	var dictionaries []*domain.Dictionary
	for rows.Next() {
		var d domain.Dictionary
		if err := rows.Scan(
			&d.ID, &d.UserID, &d.Title, &d.LanguageFrom, &d.LanguageTo,
			&d.LocalNumber, &d.CreatedAt, &d.UpdatedAt); err != nil {
			return nil, store.NewStoreError("dictionary", "list", "failed to scan dictionary", err)
		}
		dictionaries = append(dictionaries, &d)
	}
	if err := rows.Err(); err != nil {
		return nil, store.NewStoreError("dictionary", "list", "row iteration failed", err)
	}

	return dictionaries, nil
}

// Update implements store.DictionaryStore.Update
// Returns store.ErrDictionaryNotFound if the dictionary does not exist.
func (s *PostgresDictionaryStore) Update(ctx context.Context, dictionary *domain.Dictionary) error {
	if err := dictionary.Validate(); err != nil {
		return fmt.Errorf("%w: %v", store.ErrInvalidEntity, err)
	}

	query := `
		UPDATE dictionaries
		SET title = $2, language_from = $3, language_to = $4, updated_at = $5
		WHERE id = $1`

	result, err := s.db.ExecContext(ctx, query,
		dictionary.ID, dictionary.Title, dictionary.LanguageFrom,
		dictionary.LanguageTo, dictionary.UpdatedAt)
	if err != nil {
		return store.NewStoreError("dictionary", "update", "failed to update dictionary", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return store.NewStoreError("dictionary", "update", "failed to read rows affected", err)
	}
	if affected == 0 {
		return store.ErrDictionaryNotFound
	}

	return nil
}

// Delete implements store.DictionaryStore.Delete
// Words and answer events are removed by ON DELETE CASCADE constraints.
func (s *PostgresDictionaryStore) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := s.db.ExecContext(ctx, `DELETE FROM dictionaries WHERE id = $1`, id)
	if err != nil {
		return store.NewStoreError("dictionary", "delete", "failed to delete dictionary", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return store.NewStoreError("dictionary", "delete", "failed to read rows affected", err)
	}
	if affected == 0 {
		return store.ErrDictionaryNotFound
	}

	return nil
}

// NextLocalNumber implements store.DictionaryStore.NextLocalNumber
// MAX-based so numbers freed by deleted dictionaries are never reissued.
func (s *PostgresDictionaryStore) NextLocalNumber(ctx context.Context, userID uuid.UUID) (int, error) {
	var next int
	err := s.db.QueryRowContext(ctx,
		`SELECT COALESCE(MAX(local_number), 0) + 1 FROM dictionaries WHERE user_id = $1`,
		userID).Scan(&next)
	if err != nil {
		return 0, store.NewStoreError("dictionary", "next_local_number", "failed to read max local number", err)
	}
	return next, nil
}
