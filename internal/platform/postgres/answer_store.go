package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/leximo/leximo-api/internal/domain"
	"github.com/leximo/leximo-api/internal/store"
)

// PostgresAnswerStore implements the store.AnswerStore interface
// using a PostgreSQL database as the storage backend. The table is
// append-only; there are no update or delete statements here.
type PostgresAnswerStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresAnswerStore creates a new PostgreSQL implementation of the
// AnswerStore interface.
func NewPostgresAnswerStore(db store.DBTX, logger *slog.Logger) *PostgresAnswerStore {
	if db == nil {
		panic("db cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresAnswerStore{
		db:     db,
		logger: logger.With(slog.String("component", "answer_store")),
	}
}

// Ensure PostgresAnswerStore implements store.AnswerStore interface
var _ store.AnswerStore = (*PostgresAnswerStore)(nil)

const answerColumns = `id, session_id, word_id, correct, user_answer, created_at`

// Create implements store.AnswerStore.Create
func (s *PostgresAnswerStore) Create(ctx context.Context, event *domain.AnswerEvent) error {
	if err := event.Validate(); err != nil {
		return fmt.Errorf("%w: %v", store.ErrInvalidEntity, err)
	}

	query := `
		INSERT INTO answer_events (` + answerColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6)`

	_, err := s.db.ExecContext(ctx, query,
		event.ID, event.SessionID, event.WordID,
		event.Correct, nullString(event.UserAnswer), event.CreatedAt)
	if err != nil {
		return store.NewStoreError("answer", "create", "failed to insert answer event", err)
	}

	return nil
}

// ListBySession implements store.AnswerStore.ListBySession
func (s *PostgresAnswerStore) ListBySession(ctx context.Context, sessionID uuid.UUID) ([]*domain.AnswerEvent, error) {
	query := `
		SELECT ` + answerColumns + `
		FROM answer_events
		WHERE session_id = $1
		ORDER BY created_at, id`

	return s.queryAnswers(ctx, "list_by_session", query, sessionID)
}

// ListByUser implements store.AnswerStore.ListByUser
func (s *PostgresAnswerStore) ListByUser(ctx context.Context, userID uuid.UUID) ([]*domain.AnswerEvent, error) {
	query := `
		SELECT a.id, a.session_id, a.word_id, a.correct, a.user_answer, a.created_at
		FROM answer_events a
		JOIN training_sessions s ON s.id = a.session_id
		WHERE s.user_id = $1
		ORDER BY a.created_at, a.id`

	return s.queryAnswers(ctx, "list_by_user", query, userID)
}

// WithTx implements store.AnswerStore.WithTx
func (s *PostgresAnswerStore) WithTx(tx *sql.Tx) store.AnswerStore {
	return &PostgresAnswerStore{db: tx, logger: s.logger}
}

func (s *PostgresAnswerStore) queryAnswers(ctx context.Context, op, query string, args ...any) ([]*domain.AnswerEvent, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, store.NewStoreError("answer", op, "failed to query answer events", err)
	}
	defer func() { _ = rows.Close() }()

	var events []*domain.AnswerEvent
	for rows.Next() {
		var (
			event      domain.AnswerEvent
			userAnswer sql.NullString
		)
		if err := rows.Scan(
			&event.ID, &event.SessionID, &event.WordID,
			&event.Correct, &userAnswer, &event.CreatedAt); err != nil {
			return nil, store.NewStoreError("answer", op, "failed to scan answer event", err)
		}
		event.UserAnswer = userAnswer.String
		events = append(events, &event)
	}
	if err := rows.Err(); err != nil {
		return nil, store.NewStoreError("answer", op, "row iteration failed", err)
	}

	return events, nil
}
