package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/leximo/leximo-api/internal/domain"
	"github.com/leximo/leximo-api/internal/store"
)

// PostgresWordStore implements the store.WordStore interface
// using a PostgreSQL database as the storage backend.
type PostgresWordStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresWordStore creates a new PostgreSQL implementation of the
// WordStore interface. It accepts a database connection or transaction that
// should be initialized and managed by the caller.
func NewPostgresWordStore(db store.DBTX, logger *slog.Logger) *PostgresWordStore {
	if db == nil {
		panic("db cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresWordStore{
		db:     db,
		logger: logger.With(slog.String("component", "word_store")),
	}
}

// Ensure PostgresWordStore implements store.WordStore interface
var _ store.WordStore = (*PostgresWordStore)(nil)

const wordColumns = `id, dictionary_id, term, translation, transcription, example,
	difficulty, repetitions, easiness, interval_days, last_reviewed, next_review,
	created_at, updated_at`

// Create implements store.WordStore.Create
func (s *PostgresWordStore) Create(ctx context.Context, word *domain.Word) error {
	if err := word.Validate(); err != nil {
		return fmt.Errorf("%w: %v", store.ErrInvalidEntity, err)
	}

	query := `
		INSERT INTO words (` + wordColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)`

	_, err := s.db.ExecContext(ctx, query,
		word.ID, word.DictionaryID, word.Term, word.Translation,
		nullString(word.Transcription), nullString(word.Example),
		word.Difficulty, word.Repetitions, word.Easiness, word.IntervalDays,
		nullTime(word.LastReviewed), nullTime(word.NextReview),
		word.CreatedAt, word.UpdatedAt)
	if err != nil {
		return store.NewStoreError("word", "create", "failed to insert word", err)
	}

	return nil
}

// GetByID implements store.WordStore.GetByID
// Returns store.ErrWordNotFound if the word does not exist.
func (s *PostgresWordStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Word, error) {
	query := `SELECT ` + wordColumns + ` FROM words WHERE id = $1`

	word, err := scanWord(s.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrWordNotFound
		}
		return nil, store.NewStoreError("word", "get", "failed to scan word", err)
	}

	return word, nil
}

// ListByDictionary implements store.WordStore.ListByDictionary
func (s *PostgresWordStore) ListByDictionary(ctx context.Context, dictionaryID uuid.UUID) ([]*domain.Word, error) {
	query := `SELECT ` + wordColumns + ` FROM words WHERE dictionary_id = $1 ORDER BY created_at`

	return s.queryWords(ctx, "list", query, dictionaryID)
}

// Update implements store.WordStore.Update
// It persists the full word state, including scheduling fields.
func (s *PostgresWordStore) Update(ctx context.Context, word *domain.Word) error {
	if err := word.Validate(); err != nil {
		return fmt.Errorf("%w: %v", store.ErrInvalidEntity, err)
	}

	query := `
		UPDATE words
		SET term = $2, translation = $3, transcription = $4, example = $5,
			difficulty = $6, repetitions = $7, easiness = $8, interval_days = $9,
			last_reviewed = $10, next_review = $11, updated_at = $12
		WHERE id = $1`

	result, err := s.db.ExecContext(ctx, query,
		word.ID, word.Term, word.Translation,
		nullString(word.Transcription), nullString(word.Example),
		word.Difficulty, word.Repetitions, word.Easiness, word.IntervalDays,
		nullTime(word.LastReviewed), nullTime(word.NextReview), word.UpdatedAt)
	if err != nil {
		return store.NewStoreError("word", "update", "failed to update word", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return store.NewStoreError("word", "update", "failed to read rows affected", err)
	}
	if affected == 0 {
		return store.ErrWordNotFound
	}

	return nil
}

// Delete implements store.WordStore.Delete
// Answer events referencing the word are removed by ON DELETE CASCADE.
func (s *PostgresWordStore) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := s.db.ExecContext(ctx, `DELETE FROM words WHERE id = $1`, id)
	if err != nil {
		return store.NewStoreError("word", "delete", "failed to delete word", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return store.NewStoreError("word", "delete", "failed to read rows affected", err)
	}
	if affected == 0 {
		return store.ErrWordNotFound
	}

	return nil
}

// ListDueByUser implements store.WordStore.ListDueByUser
func (s *PostgresWordStore) ListDueByUser(ctx context.Context, userID uuid.UUID, now time.Time) ([]*domain.Word, error) {
	query := `
		SELECT ` + qualifiedWordColumns + `
		FROM words w
		JOIN dictionaries d ON d.id = w.dictionary_id
		WHERE d.user_id = $1
		  AND (w.next_review IS NULL OR w.next_review <= $2)
		ORDER BY w.created_at`

	return s.queryWords(ctx, "list_due", query, userID, now)
}

// CountByUser implements store.WordStore.CountByUser
func (s *PostgresWordStore) CountByUser(ctx context.Context, userID uuid.UUID) (int, error) {
	query := `
		SELECT COUNT(*)
		FROM words w
		JOIN dictionaries d ON d.id = w.dictionary_id
		WHERE d.user_id = $1`

	return s.countWords(ctx, query, userID)
}

// CountLearnedByUser implements store.WordStore.CountLearnedByUser
func (s *PostgresWordStore) CountLearnedByUser(ctx context.Context, userID uuid.UUID, minRepetitions int) (int, error) {
	query := `
		SELECT COUNT(*)
		FROM words w
		JOIN dictionaries d ON d.id = w.dictionary_id
		WHERE d.user_id = $1 AND w.repetitions >= $2`

	return s.countWords(ctx, query, userID, minRepetitions)
}

// CountDueByUser implements store.WordStore.CountDueByUser
func (s *PostgresWordStore) CountDueByUser(ctx context.Context, userID uuid.UUID, now time.Time) (int, error) {
	query := `
		SELECT COUNT(*)
		FROM words w
		JOIN dictionaries d ON d.id = w.dictionary_id
		WHERE d.user_id = $1
		  AND (w.next_review IS NULL OR w.next_review <= $2)`

	return s.countWords(ctx, query, userID, now)
}

// WithTx implements store.WordStore.WithTx
func (s *PostgresWordStore) WithTx(tx *sql.Tx) store.WordStore {
	return &PostgresWordStore{db: tx, logger: s.logger}
}

const qualifiedWordColumns = `w.id, w.dictionary_id, w.term, w.translation, w.transcription, w.example,
	w.difficulty, w.repetitions, w.easiness, w.interval_days, w.last_reviewed, w.next_review,
	w.created_at, w.updated_at`

func (s *PostgresWordStore) queryWords(ctx context.Context, op, query string, args ...any) ([]*domain.Word, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, store.NewStoreError("word", op, "failed to query words", err)
	}
	defer func() { _ = rows.Close() }()

	var words []*domain.Word
	for rows.Next() {
		word, err := scanWord(rows)
		if err != nil {
			return nil, store.NewStoreError("word", op, "failed to scan word", err)
		}
		words = append(words, word)
	}
	if err := rows.Err(); err != nil {
		return nil, store.NewStoreError("word", op, "row iteration failed", err)
	}

	return words, nil
}

func (s *PostgresWordStore) countWords(ctx context.Context, query string, args ...any) (int, error) {
	var count int
	if err := s.db.QueryRowContext(ctx, query, args...).Scan(&count); err != nil {
		return 0, store.NewStoreError("word", "count", "failed to count words", err)
	}
	return count, nil
}

// rowScanner abstracts *sql.Row and *sql.Rows for shared scanning code.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanWord(row rowScanner) (*domain.Word, error) {
	var (
		word                   domain.Word
		transcription, example sql.NullString
		lastReviewed           sql.NullTime
		nextReview             sql.NullTime
	)

	err := row.Scan(
		&word.ID, &word.DictionaryID, &word.Term, &word.Translation,
		&transcription, &example,
		&word.Difficulty, &word.Repetitions, &word.Easiness, &word.IntervalDays,
		&lastReviewed, &nextReview,
		&word.CreatedAt, &word.UpdatedAt)
	if err != nil {
		return nil, err
	}

	word.Transcription = transcription.String
	word.Example = example.String
	if lastReviewed.Valid {
		word.LastReviewed = lastReviewed.Time
	}
	if nextReview.Valid {
		word.NextReview = nextReview.Time
	}

	return &word, nil
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

func nullTime(t time.Time) sql.NullTime {
	return sql.NullTime{Time: t, Valid: !t.IsZero()}
}
