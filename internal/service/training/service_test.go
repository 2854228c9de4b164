package training

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"math/rand"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leximo/leximo-api/internal/domain"
	"github.com/leximo/leximo-api/internal/domain/srs"
	"github.com/leximo/leximo-api/internal/platform/keylock"
	"github.com/leximo/leximo-api/internal/store/storetest"
)

var fixedNow = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

var errInjected = errors.New("injected store failure")

// newTestService wires the service against in-memory fakes with a seeded
// random source and a fixed clock.
func newTestService(t *testing.T, m *storetest.MemStore, opts ...Option) Service {
	t.Helper()

	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	base := []Option{
		WithRand(rand.New(rand.NewSource(42))),
		WithTimeFunc(func() time.Time { return fixedNow }),
	}

	return NewService(
		storetest.NewSessionStore(m),
		storetest.NewWordStore(m),
		storetest.NewAnswerStore(m),
		storetest.NewDictionaryStore(m),
		storetest.NewTransactor(m),
		keylock.NewRegistry(),
		srs.NewDefaultService(),
		log,
		append(base, opts...)...,
	)
}

func seedDictionary(t *testing.T, m *storetest.MemStore, userID uuid.UUID) *domain.Dictionary {
	t.Helper()

	dict, err := domain.NewDictionary(userID, "Spanish basics", "en", "es")
	require.NoError(t, err)
	dict.LocalNumber = 1
	m.Dictionaries[dict.ID] = dict
	return dict
}

func seedWord(t *testing.T, m *storetest.MemStore, dictionaryID uuid.UUID, term, translation string) *domain.Word {
	t.Helper()

	word, err := domain.NewWord(dictionaryID, term, translation, "", "", 1)
	require.NoError(t, err)
	m.Words[word.ID] = word
	return word
}

func TestStart_CreatesOpenSession(t *testing.T) {
	t.Parallel()

	m := storetest.NewMemStore()
	userID := uuid.New()
	dict := seedDictionary(t, m, userID)
	svc := newTestService(t, m)

	session, err := svc.Start(context.Background(), userID, dict.ID, "default", domain.DirectionTermToTranslation)
	require.NoError(t, err)

	assert.Equal(t, userID, session.UserID)
	assert.Equal(t, dict.ID, session.DictionaryID)
	assert.Equal(t, "default", session.Mode)
	assert.Equal(t, domain.DirectionTermToTranslation, session.Direction)
	assert.Equal(t, 1, session.LocalNumber)
	assert.Zero(t, session.CorrectCount)
	assert.Zero(t, session.WrongCount)
	assert.False(t, session.Finished())
}

func TestStart_ResumesOpenSession(t *testing.T) {
	t.Parallel()

	m := storetest.NewMemStore()
	userID := uuid.New()
	dict := seedDictionary(t, m, userID)
	svc := newTestService(t, m)

	first, err := svc.Start(context.Background(), userID, dict.ID, "default", domain.DirectionTermToTranslation)
	require.NoError(t, err)

	// A second start with different arguments resumes the open session
	// unchanged instead of creating another one.
	second, err := svc.Start(context.Background(), userID, dict.ID, "review", domain.DirectionTranslationToTerm)
	require.NoError(t, err)

	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, "default", second.Mode)
	assert.Equal(t, domain.DirectionTermToTranslation, second.Direction)
	assert.Len(t, m.Sessions, 1)
}

func TestStart_DictionaryNotFound(t *testing.T) {
	t.Parallel()

	m := storetest.NewMemStore()
	svc := newTestService(t, m)

	_, err := svc.Start(context.Background(), uuid.New(), uuid.New(), "default", domain.DirectionTermToTranslation)
	assert.ErrorIs(t, err, ErrDictionaryNotFound)
}

func TestStart_NotOwned(t *testing.T) {
	t.Parallel()

	m := storetest.NewMemStore()
	dict := seedDictionary(t, m, uuid.New())
	svc := newTestService(t, m)

	_, err := svc.Start(context.Background(), uuid.New(), dict.ID, "default", domain.DirectionTermToTranslation)
	assert.ErrorIs(t, err, ErrNotOwned)
}

func TestStart_ConcurrentCallsCreateOneSession(t *testing.T) {
	t.Parallel()

	m := storetest.NewMemStore()
	userID := uuid.New()
	dict := seedDictionary(t, m, userID)
	svc := newTestService(t, m)

	const callers = 16
	ids := make([]uuid.UUID, callers)
	errs := make([]error, callers)
	var wg sync.WaitGroup
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			session, err := svc.Start(context.Background(), userID, dict.ID, "default", domain.DirectionTermToTranslation)
			if err != nil {
				errs[i] = err
				return
			}
			ids[i] = session.ID
		}(i)
	}
	wg.Wait()

	for _, err := range errs {
		require.NoError(t, err)
	}
	assert.Len(t, m.Sessions, 1, "concurrent starts must not create more than one session")
	for _, id := range ids {
		assert.Equal(t, ids[0], id)
	}
}

func TestStart_LocalNumberIsPerUserSequence(t *testing.T) {
	t.Parallel()

	m := storetest.NewMemStore()
	userID := uuid.New()
	dict := seedDictionary(t, m, userID)
	svc := newTestService(t, m)

	first, err := svc.Start(context.Background(), userID, dict.ID, "default", domain.DirectionTermToTranslation)
	require.NoError(t, err)
	assert.Equal(t, 1, first.LocalNumber)

	_, err = svc.Finish(context.Background(), userID, first.ID)
	require.NoError(t, err)

	second, err := svc.Start(context.Background(), userID, dict.ID, "default", domain.DirectionTermToTranslation)
	require.NoError(t, err)
	assert.NotEqual(t, first.ID, second.ID)
	assert.Equal(t, 2, second.LocalNumber)
}

func TestStart_DistinctNumbersAcrossDictionaries(t *testing.T) {
	t.Parallel()

	m := storetest.NewMemStore()
	userID := uuid.New()
	svc := newTestService(t, m)

	// One user starting on different dictionaries at once draws from the
	// same per-user sequence, so every session must still get its own
	// number.
	const callers = 8
	dicts := make([]*domain.Dictionary, callers)
	for i := range dicts {
		dicts[i] = seedDictionary(t, m, userID)
	}

	errs := make([]error, callers)
	var wg sync.WaitGroup
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = svc.Start(context.Background(), userID, dicts[i].ID, "default", domain.DirectionTermToTranslation)
		}(i)
	}
	wg.Wait()

	for _, err := range errs {
		require.NoError(t, err)
	}
	require.Len(t, m.Sessions, callers)
	seen := make(map[int]bool, callers)
	for _, session := range m.Sessions {
		assert.False(t, seen[session.LocalNumber], "local number %d assigned twice", session.LocalNumber)
		seen[session.LocalNumber] = true
	}
}

func TestStart_RetriesWhenLocalNumberTaken(t *testing.T) {
	t.Parallel()

	m := storetest.NewMemStore()
	userID := uuid.New()
	first := seedDictionary(t, m, userID)
	second := seedDictionary(t, m, userID)
	svc := newTestService(t, m)

	open, err := svc.Start(context.Background(), userID, first.ID, "default", domain.DirectionTermToTranslation)
	require.NoError(t, err)
	require.Equal(t, 1, open.LocalNumber)

	// The next number read comes back already taken, as if a concurrent
	// start inserted between the read and the create. Start must retry
	// with a fresh read rather than fail.
	m.StaleSessionNumbers = 1

	session, err := svc.Start(context.Background(), userID, second.ID, "default", domain.DirectionTermToTranslation)
	require.NoError(t, err)
	assert.Equal(t, 2, session.LocalNumber)
	assert.Len(t, m.Sessions, 2)
}

func TestFinish_ClosesSession(t *testing.T) {
	t.Parallel()

	m := storetest.NewMemStore()
	userID := uuid.New()
	dict := seedDictionary(t, m, userID)
	svc := newTestService(t, m)

	session, err := svc.Start(context.Background(), userID, dict.ID, "default", domain.DirectionTermToTranslation)
	require.NoError(t, err)

	finished, err := svc.Finish(context.Background(), userID, session.ID)
	require.NoError(t, err)
	assert.Equal(t, fixedNow, finished.FinishedAt)

	stored := m.Sessions[session.ID]
	assert.True(t, stored.Finished())
}

func TestFinish_AlreadyFinished(t *testing.T) {
	t.Parallel()

	m := storetest.NewMemStore()
	userID := uuid.New()
	dict := seedDictionary(t, m, userID)
	svc := newTestService(t, m)

	session, err := svc.Start(context.Background(), userID, dict.ID, "default", domain.DirectionTermToTranslation)
	require.NoError(t, err)

	_, err = svc.Finish(context.Background(), userID, session.ID)
	require.NoError(t, err)

	_, err = svc.Finish(context.Background(), userID, session.ID)
	assert.ErrorIs(t, err, ErrSessionFinished)
}

func TestFinish_Errors(t *testing.T) {
	t.Parallel()

	m := storetest.NewMemStore()
	userID := uuid.New()
	dict := seedDictionary(t, m, userID)
	svc := newTestService(t, m)

	session, err := svc.Start(context.Background(), userID, dict.ID, "default", domain.DirectionTermToTranslation)
	require.NoError(t, err)

	_, err = svc.Finish(context.Background(), userID, uuid.New())
	assert.ErrorIs(t, err, ErrSessionNotFound)

	_, err = svc.Finish(context.Background(), uuid.New(), session.ID)
	assert.ErrorIs(t, err, ErrNotOwned)
}

func TestRecordAnswer_Correct(t *testing.T) {
	t.Parallel()

	m := storetest.NewMemStore()
	userID := uuid.New()
	dict := seedDictionary(t, m, userID)
	word := seedWord(t, m, dict.ID, "cat", "gato")
	svc := newTestService(t, m)

	session, err := svc.Start(context.Background(), userID, dict.ID, "default", domain.DirectionTermToTranslation)
	require.NoError(t, err)

	err = svc.RecordAnswer(context.Background(), userID, session.ID, word.ID, true, "gato")
	require.NoError(t, err)

	require.Len(t, m.Answers, 1)
	event := m.Answers[0]
	assert.Equal(t, session.ID, event.SessionID)
	assert.Equal(t, word.ID, event.WordID)
	assert.True(t, event.Correct)
	assert.Equal(t, "gato", event.UserAnswer)
	assert.Equal(t, fixedNow, event.CreatedAt, "event carries the same clock as the schedule update")

	stored := m.Sessions[session.ID]
	assert.Equal(t, 1, stored.CorrectCount)
	assert.Equal(t, 0, stored.WrongCount)

	updated := m.Words[word.ID]
	assert.Equal(t, 1, updated.Repetitions)
	assert.InDelta(t, 2.6, updated.Easiness, 1e-9)
	assert.Equal(t, 1, updated.IntervalDays)
	assert.Equal(t, fixedNow, updated.LastReviewed)
	assert.Equal(t, fixedNow.AddDate(0, 0, 1), updated.NextReview)
}

func TestRecordAnswer_Wrong(t *testing.T) {
	t.Parallel()

	m := storetest.NewMemStore()
	userID := uuid.New()
	dict := seedDictionary(t, m, userID)
	word := seedWord(t, m, dict.ID, "cat", "gato")
	svc := newTestService(t, m)

	session, err := svc.Start(context.Background(), userID, dict.ID, "default", domain.DirectionTermToTranslation)
	require.NoError(t, err)

	err = svc.RecordAnswer(context.Background(), userID, session.ID, word.ID, false, "perro")
	require.NoError(t, err)

	stored := m.Sessions[session.ID]
	assert.Equal(t, 0, stored.CorrectCount)
	assert.Equal(t, 1, stored.WrongCount)

	updated := m.Words[word.ID]
	assert.Equal(t, 0, updated.Repetitions)
	assert.InDelta(t, 2.3, updated.Easiness, 1e-9)
	assert.Equal(t, 1, updated.IntervalDays)
}

func TestRecordAnswer_WordNotFound(t *testing.T) {
	t.Parallel()

	m := storetest.NewMemStore()
	userID := uuid.New()
	dict := seedDictionary(t, m, userID)
	svc := newTestService(t, m)

	session, err := svc.Start(context.Background(), userID, dict.ID, "default", domain.DirectionTermToTranslation)
	require.NoError(t, err)

	err = svc.RecordAnswer(context.Background(), userID, session.ID, uuid.New(), true, "gato")
	assert.ErrorIs(t, err, ErrWordNotFound)
	assert.Empty(t, m.Answers)
}

func TestRecordAnswer_RollsBackOnFailure(t *testing.T) {
	t.Parallel()

	m := storetest.NewMemStore()
	userID := uuid.New()
	dict := seedDictionary(t, m, userID)
	word := seedWord(t, m, dict.ID, "cat", "gato")
	svc := newTestService(t, m)

	session, err := svc.Start(context.Background(), userID, dict.ID, "default", domain.DirectionTermToTranslation)
	require.NoError(t, err)

	// Fail the last write of the unit. Nothing recorded earlier in the
	// transaction may survive.
	m.FailWordUpdate = errInjected

	err = svc.RecordAnswer(context.Background(), userID, session.ID, word.ID, true, "gato")
	require.Error(t, err)
	assert.ErrorIs(t, err, errInjected)

	assert.Empty(t, m.Answers, "event append must roll back")
	stored := m.Sessions[session.ID]
	assert.Zero(t, stored.CorrectCount, "tally bump must roll back")
	assert.Zero(t, stored.WrongCount)
	assert.Equal(t, word.Repetitions, m.Words[word.ID].Repetitions, "schedule must be unchanged")
	assert.Equal(t, word.Easiness, m.Words[word.ID].Easiness)
}

func TestHistory_MostRecentFirst(t *testing.T) {
	t.Parallel()

	m := storetest.NewMemStore()
	userID := uuid.New()
	dict := seedDictionary(t, m, userID)
	svc := newTestService(t, m)

	first, err := svc.Start(context.Background(), userID, dict.ID, "default", domain.DirectionTermToTranslation)
	require.NoError(t, err)
	_, err = svc.Finish(context.Background(), userID, first.ID)
	require.NoError(t, err)

	second, err := svc.Start(context.Background(), userID, dict.ID, "default", domain.DirectionTermToTranslation)
	require.NoError(t, err)

	sessions, err := svc.History(context.Background(), userID)
	require.NoError(t, err)
	require.Len(t, sessions, 2)
	assert.Equal(t, second.ID, sessions[0].ID)
	assert.Equal(t, first.ID, sessions[1].ID)
}
