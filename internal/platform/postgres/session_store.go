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

// PostgresSessionStore implements the store.SessionStore interface
// using a PostgreSQL database as the storage backend.
type PostgresSessionStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresSessionStore creates a new PostgreSQL implementation of the
// SessionStore interface.
func NewPostgresSessionStore(db store.DBTX, logger *slog.Logger) *PostgresSessionStore {
	if db == nil {
		panic("db cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresSessionStore{
		db:     db,
		logger: logger.With(slog.String("component", "session_store")),
	}
}

// Ensure PostgresSessionStore implements store.SessionStore interface
var _ store.SessionStore = (*PostgresSessionStore)(nil)

const sessionColumns = `id, user_id, dictionary_id, mode, direction, local_number,
	correct_count, wrong_count, started_at, finished_at`

// Create implements store.SessionStore.Create
func (s *PostgresSessionStore) Create(ctx context.Context, session *domain.TrainingSession) error {
	if err := session.Validate(); err != nil {
		return fmt.Errorf("%w: %v", store.ErrInvalidEntity, err)
	}

	query := `
		INSERT INTO training_sessions (` + sessionColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`

	_, err := s.db.ExecContext(ctx, query,
		session.ID, session.UserID, session.DictionaryID,
		session.Mode, string(session.Direction), session.LocalNumber,
		session.CorrectCount, session.WrongCount,
		session.StartedAt, nullTime(session.FinishedAt))
	if err != nil {
		if uniqueViolationConstraint(err) == "idx_training_sessions_user_local" {
			return store.ErrLocalNumberExists
		}
		return store.NewStoreError("session", "create", "failed to insert session", err)
	}

	return nil
}

// GetByID implements store.SessionStore.GetByID
// Returns store.ErrSessionNotFound if the session does not exist.
func (s *PostgresSessionStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.TrainingSession, error) {
	query := `SELECT ` + sessionColumns + ` FROM training_sessions WHERE id = $1`

	session, err := scanSession(s.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrSessionNotFound
		}
		return nil, store.NewStoreError("session", "get", "failed to scan session", err)
	}

	return session, nil
}

// FindOpen implements store.SessionStore.FindOpen
// Returns store.ErrSessionNotFound if the pair has no open session.
func (s *PostgresSessionStore) FindOpen(ctx context.Context, userID, dictionaryID uuid.UUID) (*domain.TrainingSession, error) {
	query := `
		SELECT ` + sessionColumns + `
		FROM training_sessions
		WHERE user_id = $1 AND dictionary_id = $2 AND finished_at IS NULL
		ORDER BY started_at DESC
		LIMIT 1`

	session, err := scanSession(s.db.QueryRowContext(ctx, query, userID, dictionaryID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrSessionNotFound
		}
		return nil, store.NewStoreError("session", "find_open", "failed to scan session", err)
	}

	return session, nil
}

// Update implements store.SessionStore.Update
func (s *PostgresSessionStore) Update(ctx context.Context, session *domain.TrainingSession) error {
	if err := session.Validate(); err != nil {
		return fmt.Errorf("%w: %v", store.ErrInvalidEntity, err)
	}

	query := `
		UPDATE training_sessions
		SET correct_count = $2, wrong_count = $3, finished_at = $4
		WHERE id = $1`

	result, err := s.db.ExecContext(ctx, query,
		session.ID, session.CorrectCount, session.WrongCount,
		nullTime(session.FinishedAt))
	if err != nil {
		return store.NewStoreError("session", "update", "failed to update session", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return store.NewStoreError("session", "update", "failed to read rows affected", err)
	}
	if affected == 0 {
		return store.ErrSessionNotFound
	}

	return nil
}

// NextLocalNumber implements store.SessionStore.NextLocalNumber
// MAX-based rather than COUNT-based: cascading deletes leave gaps, and a
// count would walk the sequence back into numbers that are still taken.
func (s *PostgresSessionStore) NextLocalNumber(ctx context.Context, userID uuid.UUID) (int, error) {
	var next int
	err := s.db.QueryRowContext(ctx,
		`SELECT COALESCE(MAX(local_number), 0) + 1 FROM training_sessions WHERE user_id = $1`,
		userID).Scan(&next)
	if err != nil {
		return 0, store.NewStoreError("session", "next_local_number", "failed to read max local number", err)
	}
	return next, nil
}

// ListByUser implements store.SessionStore.ListByUser
func (s *PostgresSessionStore) ListByUser(ctx context.Context, userID uuid.UUID) ([]*domain.TrainingSession, error) {
	query := `
		SELECT ` + sessionColumns + `
		FROM training_sessions
		WHERE user_id = $1
		ORDER BY local_number DESC`

	rows, err := s.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, store.NewStoreError("session", "list", "failed to query sessions", err)
	}
	defer func() { _ = rows.Close() }()

	var sessions []*domain.TrainingSession
	for rows.Next() {
		session, err := scanSession(rows)
		if err != nil {
			return nil, store.NewStoreError("session", "list", "failed to scan session", err)
		}
		sessions = append(sessions, session)
	}
	if err := rows.Err(); err != nil {
		return nil, store.NewStoreError("session", "list", "row iteration failed", err)
	}

	return sessions, nil
}

// WithTx implements store.SessionStore.WithTx
func (s *PostgresSessionStore) WithTx(tx *sql.Tx) store.SessionStore {
	return &PostgresSessionStore{db: tx, logger: s.logger}
}

func scanSession(row rowScanner) (*domain.TrainingSession, error) {
	var (
		session    domain.TrainingSession
		direction  string
		finishedAt sql.NullTime
	)

	err := row.Scan(
		&session.ID, &session.UserID, &session.DictionaryID,
		&session.Mode, &direction, &session.LocalNumber,
		&session.CorrectCount, &session.WrongCount,
		&session.StartedAt, &finishedAt)
	if err != nil {
		return nil, err
	}

	session.Direction = domain.Direction(direction)
	if finishedAt.Valid {
		session.FinishedAt = finishedAt.Time
	}

	return &session, nil
}
