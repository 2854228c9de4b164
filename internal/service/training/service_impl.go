package training

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"math/rand"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/leximo/leximo-api/internal/domain"
	"github.com/leximo/leximo-api/internal/domain/srs"
	"github.com/leximo/leximo-api/internal/platform/keylock"
	"github.com/leximo/leximo-api/internal/platform/logger"
	"github.com/leximo/leximo-api/internal/store"
)

// Verify interface compliance at compile time
var _ Service = (*trainingService)(nil)

// maxLocalNumberRetries bounds how often Start re-reads the next local
// number after losing it to a concurrent start on another dictionary.
const maxLocalNumberRetries = 3

// trainingService implements the Service interface.
type trainingService struct {
	sessions     store.SessionStore
	words        store.WordStore
	answers      store.AnswerStore
	dictionaries store.DictionaryStore
	tx           store.Transactor
	locker       keylock.Locker
	scheduler    srs.Service
	logger       *slog.Logger

	// rng backs random selection and option shuffling. It is guarded by
	// rngMu because *rand.Rand is not safe for concurrent use.
	rng   *rand.Rand
	rngMu sync.Mutex

	timeFunc func() time.Time
}

// Option customizes the training service, mainly for tests.
type Option func(*trainingService)

// WithRand injects a seedable random source so tests can assert
// deterministic selection and shuffling.
func WithRand(rng *rand.Rand) Option {
	return func(s *trainingService) { s.rng = rng }
}

// WithTimeFunc injects the clock used for due checks and timestamps.
func WithTimeFunc(fn func() time.Time) Option {
	return func(s *trainingService) { s.timeFunc = fn }
}

// NewService creates a new training Service implementation.
func NewService(
	sessions store.SessionStore,
	words store.WordStore,
	answers store.AnswerStore,
	dictionaries store.DictionaryStore,
	tx store.Transactor,
	locker keylock.Locker,
	scheduler srs.Service,
	log *slog.Logger,
	opts ...Option,
) Service {
	if sessions == nil || words == nil || answers == nil || dictionaries == nil {
		panic("stores cannot be nil")
	}
	if tx == nil {
		panic("transactor cannot be nil")
	}
	if locker == nil {
		panic("locker cannot be nil")
	}
	if scheduler == nil {
		panic("scheduler cannot be nil")
	}
	if log == nil {
		log = slog.Default()
	}

	s := &trainingService{
		sessions:     sessions,
		words:        words,
		answers:      answers,
		dictionaries: dictionaries,
		tx:           tx,
		locker:       locker,
		scheduler:    scheduler,
		logger:       log.With(slog.String("component", "training_service")),
		rng:          rand.New(rand.NewSource(time.Now().UnixNano())),
		timeFunc:     time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Start implements Service.Start.
func (s *trainingService) Start(
	ctx context.Context,
	userID, dictionaryID uuid.UUID,
	mode string,
	direction domain.Direction,
) (*domain.TrainingSession, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	// The lock covers the whole check-then-create sequence: without it two
	// concurrent starts could both see no open session and both insert one.
	release, err := s.locker.Acquire(ctx, keylock.Key(userID, dictionaryID))
	if err != nil {
		return nil, fmt.Errorf("failed to acquire session lock: %w", err)
	}
	defer release()

	dictionary, err := s.dictionaries.GetByID(ctx, dictionaryID)
	if err != nil {
		if store.IsNotFoundError(err) {
			return nil, ErrDictionaryNotFound
		}
		return nil, fmt.Errorf("failed to get dictionary: %w", err)
	}
	if dictionary.UserID != userID {
		log.Warn("user does not own dictionary",
			slog.String("user_id", userID.String()),
			slog.String("dictionary_id", dictionaryID.String()))
		return nil, ErrNotOwned
	}

	existing, err := s.sessions.FindOpen(ctx, userID, dictionaryID)
	if err == nil {
		// Resume in place. The mode/direction arguments of the resuming
		// call are intentionally ignored; the open session keeps the
		// values it was started with.
		log.Debug("resuming open training session",
			slog.String("session_id", existing.ID.String()))
		return existing, nil
	}
	if !store.IsNotFoundError(err) {
		return nil, fmt.Errorf("failed to look up open session: %w", err)
	}

	// The local number is a per-user sequence, but the per-pair lock does
	// not cover the user's other dictionaries: a concurrent start there can
	// take the number we just read. The unique index on
	// (user_id, local_number) rejects the loser, which retries with a fresh
	// read.
	var created *domain.TrainingSession
	for attempt := 0; ; attempt++ {
		err = s.tx.Transact(ctx, func(ctx context.Context, tx *sql.Tx) error {
			sessions := s.sessions.WithTx(tx)

			number, err := sessions.NextLocalNumber(ctx, userID)
			if err != nil {
				return fmt.Errorf("failed to read next local number: %w", err)
			}

			session, err := domain.NewTrainingSession(userID, dictionaryID, mode, direction, number)
			if err != nil {
				return fmt.Errorf("failed to build session: %w", err)
			}

			if err := sessions.Create(ctx, session); err != nil {
				return fmt.Errorf("failed to create session: %w", err)
			}

			created = session
			return nil
		})
		if err == nil {
			break
		}
		if errors.Is(err, store.ErrLocalNumberExists) && attempt < maxLocalNumberRetries {
			log.Debug("local number taken by concurrent start, retrying",
				slog.Int("attempt", attempt+1))
			continue
		}
		return nil, err
	}

	log.Debug("started training session",
		slog.String("session_id", created.ID.String()),
		slog.Int("local_number", created.LocalNumber))
	return created, nil
}

// Finish implements Service.Finish.
func (s *trainingService) Finish(ctx context.Context, userID, sessionID uuid.UUID) (*domain.TrainingSession, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	session, err := s.getOwnedSession(ctx, userID, sessionID)
	if err != nil {
		return nil, err
	}

	if session.Finished() {
		return nil, ErrSessionFinished
	}

	session.FinishedAt = s.timeFunc().UTC()
	if err := s.sessions.Update(ctx, session); err != nil {
		return nil, fmt.Errorf("failed to finish session: %w", err)
	}

	log.Debug("finished training session",
		slog.String("session_id", session.ID.String()),
		slog.Int("correct", session.CorrectCount),
		slog.Int("wrong", session.WrongCount))
	return session, nil
}

// RecordAnswer implements Service.RecordAnswer.
func (s *trainingService) RecordAnswer(
	ctx context.Context,
	userID, sessionID, wordID uuid.UUID,
	correct bool,
	userAnswer string,
) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if _, err := s.getOwnedSession(ctx, userID, sessionID); err != nil {
		return err
	}

	now := s.timeFunc().UTC()

	// Event append, tally bump and schedule update form one atomic unit.
	err := s.tx.Transact(ctx, func(ctx context.Context, tx *sql.Tx) error {
		words := s.words.WithTx(tx)
		sessions := s.sessions.WithTx(tx)
		answers := s.answers.WithTx(tx)

		word, err := words.GetByID(ctx, wordID)
		if err != nil {
			if store.IsNotFoundError(err) {
				return ErrWordNotFound
			}
			return fmt.Errorf("failed to get word: %w", err)
		}

		event, err := domain.NewAnswerEvent(sessionID, wordID, correct, userAnswer)
		if err != nil {
			return fmt.Errorf("failed to build answer event: %w", err)
		}
		// The event and the schedule update share the service clock so one
		// answer carries one timestamp.
		event.CreatedAt = now
		if err := answers.Create(ctx, event); err != nil {
			return fmt.Errorf("failed to append answer event: %w", err)
		}

		// Reread inside the transaction so the tally increment applies to
		// the freshest counts.
		session, err := sessions.GetByID(ctx, sessionID)
		if err != nil {
			return fmt.Errorf("failed to get session: %w", err)
		}
		if correct {
			session.CorrectCount++
		} else {
			session.WrongCount++
		}
		if err := sessions.Update(ctx, session); err != nil {
			return fmt.Errorf("failed to update session tallies: %w", err)
		}

		updated, err := s.scheduler.ApplyAnswer(word, correct, now)
		if err != nil {
			return fmt.Errorf("failed to compute review schedule: %w", err)
		}
		if err := words.Update(ctx, updated); err != nil {
			return fmt.Errorf("failed to update word schedule: %w", err)
		}

		return nil
	})
	if err != nil {
		if errors.Is(err, ErrWordNotFound) {
			return err
		}
		log.Error("failed to record answer",
			slog.String("error", err.Error()),
			slog.String("session_id", sessionID.String()),
			slog.String("word_id", wordID.String()))
		return fmt.Errorf("failed to record answer: %w", err)
	}

	return nil
}

// History implements Service.History.
func (s *trainingService) History(ctx context.Context, userID uuid.UUID) ([]*domain.TrainingSession, error) {
	sessions, err := s.sessions.ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list sessions: %w", err)
	}
	return sessions, nil
}

// getOwnedSession loads a session and verifies ownership. The ownership
// check is normally done upstream; rechecking here keeps the service safe
// when called from new entry points.
func (s *trainingService) getOwnedSession(ctx context.Context, userID, sessionID uuid.UUID) (*domain.TrainingSession, error) {
	session, err := s.sessions.GetByID(ctx, sessionID)
	if err != nil {
		if store.IsNotFoundError(err) {
			return nil, ErrSessionNotFound
		}
		return nil, fmt.Errorf("failed to get session: %w", err)
	}
	if session.UserID != userID {
		return nil, ErrNotOwned
	}
	return session, nil
}

// intn returns a uniform random int in [0, n) under the rng lock.
func (s *trainingService) intn(n int) int {
	s.rngMu.Lock()
	defer s.rngMu.Unlock()
	return s.rng.Intn(n)
}

// shuffle permutes n elements uniformly under the rng lock.
func (s *trainingService) shuffle(n int, swap func(i, j int)) {
	s.rngMu.Lock()
	defer s.rngMu.Unlock()
	s.rng.Shuffle(n, swap)
}
