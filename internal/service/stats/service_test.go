package stats

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leximo/leximo-api/internal/domain"
	"github.com/leximo/leximo-api/internal/store/storetest"
)

var fixedNow = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

func newTestService(t *testing.T, m *storetest.MemStore) Service {
	t.Helper()

	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewService(
		storetest.NewSessionStore(m),
		storetest.NewWordStore(m),
		storetest.NewAnswerStore(m),
		log,
		WithTimeFunc(func() time.Time { return fixedNow }),
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

func seedSession(t *testing.T, m *storetest.MemStore, userID, dictionaryID uuid.UUID, localNumber int) *domain.TrainingSession {
	t.Helper()

	session, err := domain.NewTrainingSession(userID, dictionaryID, "default", domain.DirectionTermToTranslation, localNumber)
	require.NoError(t, err)
	m.Sessions[session.ID] = session
	return session
}

func seedAnswer(t *testing.T, m *storetest.MemStore, sessionID, wordID uuid.UUID, correct bool) *domain.AnswerEvent {
	t.Helper()

	event, err := domain.NewAnswerEvent(sessionID, wordID, correct, "")
	require.NoError(t, err)
	m.Answers = append(m.Answers, event)
	return event
}

func TestSessionDetails_OrderedWithLiveWords(t *testing.T) {
	t.Parallel()

	m := storetest.NewMemStore()
	userID := uuid.New()
	dict := seedDictionary(t, m, userID)
	cat := seedWord(t, m, dict.ID, "cat", "gato")
	dog := seedWord(t, m, dict.ID, "dog", "perro")
	session := seedSession(t, m, userID, dict.ID, 1)

	first := seedAnswer(t, m, session.ID, cat.ID, false)
	second := seedAnswer(t, m, session.ID, dog.ID, true)
	third := seedAnswer(t, m, session.ID, cat.ID, true)

	// The word row is read at query time, not frozen at answer time.
	m.Words[cat.ID].Repetitions = 7

	svc := newTestService(t, m)
	details, err := svc.SessionDetails(context.Background(), userID, session.ID)
	require.NoError(t, err)

	assert.Equal(t, session.ID, details.Session.ID)
	require.Len(t, details.Answers, 3)
	assert.Equal(t, first.ID, details.Answers[0].Event.ID)
	assert.Equal(t, second.ID, details.Answers[1].Event.ID)
	assert.Equal(t, third.ID, details.Answers[2].Event.ID)
	assert.Equal(t, 7, details.Answers[0].Word.Repetitions)
	assert.Equal(t, 7, details.Answers[2].Word.Repetitions)
}

func TestSessionDetails_Errors(t *testing.T) {
	t.Parallel()

	m := storetest.NewMemStore()
	userID := uuid.New()
	dict := seedDictionary(t, m, userID)
	session := seedSession(t, m, userID, dict.ID, 1)
	svc := newTestService(t, m)

	_, err := svc.SessionDetails(context.Background(), userID, uuid.New())
	assert.ErrorIs(t, err, ErrSessionNotFound)

	_, err = svc.SessionDetails(context.Background(), uuid.New(), session.ID)
	assert.ErrorIs(t, err, ErrNotOwned)
}

func TestWeakWords_SortedByMistakes(t *testing.T) {
	t.Parallel()

	m := storetest.NewMemStore()
	userID := uuid.New()
	dict := seedDictionary(t, m, userID)
	cat := seedWord(t, m, dict.ID, "cat", "gato")
	dog := seedWord(t, m, dict.ID, "dog", "perro")
	bird := seedWord(t, m, dict.ID, "bird", "pajaro")
	session := seedSession(t, m, userID, dict.ID, 1)

	// cat: 2 mistakes, dog: 1 mistake, bird: correct only.
	seedAnswer(t, m, session.ID, cat.ID, false)
	seedAnswer(t, m, session.ID, dog.ID, false)
	seedAnswer(t, m, session.ID, cat.ID, false)
	seedAnswer(t, m, session.ID, bird.ID, true)
	seedAnswer(t, m, session.ID, dog.ID, true)

	svc := newTestService(t, m)
	weak, err := svc.WeakWords(context.Background(), userID, session.ID)
	require.NoError(t, err)

	require.Len(t, weak, 2)
	assert.Equal(t, cat.ID, weak[0].Word.ID)
	assert.Equal(t, 2, weak[0].Mistakes)
	assert.Equal(t, dog.ID, weak[1].Word.ID)
	assert.Equal(t, 1, weak[1].Mistakes)
}

func TestWeakWords_EmptyWithoutMistakes(t *testing.T) {
	t.Parallel()

	m := storetest.NewMemStore()
	userID := uuid.New()
	dict := seedDictionary(t, m, userID)
	cat := seedWord(t, m, dict.ID, "cat", "gato")
	session := seedSession(t, m, userID, dict.ID, 1)
	seedAnswer(t, m, session.ID, cat.ID, true)

	svc := newTestService(t, m)
	weak, err := svc.WeakWords(context.Background(), userID, session.ID)
	require.NoError(t, err)
	assert.Empty(t, weak)
}

func TestUserStatistics_NoAnswers(t *testing.T) {
	t.Parallel()

	m := storetest.NewMemStore()
	userID := uuid.New()
	dict := seedDictionary(t, m, userID)
	seedWord(t, m, dict.ID, "cat", "gato")

	svc := newTestService(t, m)
	stats, err := svc.UserStatistics(context.Background(), userID)
	require.NoError(t, err)

	assert.Equal(t, 1, stats.TotalWords)
	assert.Equal(t, 0, stats.LearnedWords)
	assert.Equal(t, 1, stats.DueWords, "a never-reviewed word is due")
	assert.Zero(t, stats.CorrectTotal)
	assert.Zero(t, stats.WrongTotal)
	assert.Zero(t, stats.Accuracy, "accuracy is zero when nothing was answered")
	assert.Zero(t, stats.Streak)
	assert.Empty(t, stats.TopHard)
}

func TestUserStatistics_AllCorrect(t *testing.T) {
	t.Parallel()

	m := storetest.NewMemStore()
	userID := uuid.New()
	dict := seedDictionary(t, m, userID)
	cat := seedWord(t, m, dict.ID, "cat", "gato")
	session := seedSession(t, m, userID, dict.ID, 1)

	seedAnswer(t, m, session.ID, cat.ID, true)
	seedAnswer(t, m, session.ID, cat.ID, true)
	seedAnswer(t, m, session.ID, cat.ID, true)

	svc := newTestService(t, m)
	stats, err := svc.UserStatistics(context.Background(), userID)
	require.NoError(t, err)

	assert.Equal(t, 3, stats.CorrectTotal)
	assert.Equal(t, 0, stats.WrongTotal)
	assert.Equal(t, 100, stats.Accuracy)
	assert.Equal(t, 3, stats.Streak)
	assert.Empty(t, stats.TopHard)
}

func TestUserStatistics_AccuracyRoundsAndStreakStopsAtWrong(t *testing.T) {
	t.Parallel()

	m := storetest.NewMemStore()
	userID := uuid.New()
	dict := seedDictionary(t, m, userID)
	cat := seedWord(t, m, dict.ID, "cat", "gato")
	dog := seedWord(t, m, dict.ID, "dog", "perro")
	session := seedSession(t, m, userID, dict.ID, 1)

	// correct, wrong, correct, correct: accuracy 75, streak 2.
	seedAnswer(t, m, session.ID, cat.ID, true)
	seedAnswer(t, m, session.ID, dog.ID, false)
	seedAnswer(t, m, session.ID, cat.ID, true)
	seedAnswer(t, m, session.ID, dog.ID, true)

	svc := newTestService(t, m)
	stats, err := svc.UserStatistics(context.Background(), userID)
	require.NoError(t, err)

	assert.Equal(t, 3, stats.CorrectTotal)
	assert.Equal(t, 1, stats.WrongTotal)
	assert.Equal(t, 75, stats.Accuracy)
	assert.Equal(t, 2, stats.Streak)

	require.Len(t, stats.TopHard, 1)
	assert.Equal(t, dog.ID, stats.TopHard[0].Word.ID)
	assert.Equal(t, 1, stats.TopHard[0].Mistakes)
}

func TestUserStatistics_StreakSpansSessions(t *testing.T) {
	t.Parallel()

	m := storetest.NewMemStore()
	userID := uuid.New()
	dict := seedDictionary(t, m, userID)
	cat := seedWord(t, m, dict.ID, "cat", "gato")
	first := seedSession(t, m, userID, dict.ID, 1)
	second := seedSession(t, m, userID, dict.ID, 2)

	seedAnswer(t, m, first.ID, cat.ID, false)
	seedAnswer(t, m, first.ID, cat.ID, true)
	seedAnswer(t, m, second.ID, cat.ID, true)

	svc := newTestService(t, m)
	stats, err := svc.UserStatistics(context.Background(), userID)
	require.NoError(t, err)
	assert.Equal(t, 2, stats.Streak, "streak crosses session boundaries")
}

func TestUserStatistics_TopHardLimit(t *testing.T) {
	t.Parallel()

	m := storetest.NewMemStore()
	userID := uuid.New()
	dict := seedDictionary(t, m, userID)
	session := seedSession(t, m, userID, dict.ID, 1)

	// Seven words, each missed a distinct number of times.
	for i := 1; i <= 7; i++ {
		word := seedWord(t, m, dict.ID, "term", "translation")
		for j := 0; j < i; j++ {
			seedAnswer(t, m, session.ID, word.ID, false)
		}
	}

	svc := newTestService(t, m)
	stats, err := svc.UserStatistics(context.Background(), userID)
	require.NoError(t, err)

	require.Len(t, stats.TopHard, topHardLimit)
	assert.Equal(t, 7, stats.TopHard[0].Mistakes)
	assert.Equal(t, 3, stats.TopHard[topHardLimit-1].Mistakes)
	for i := 1; i < len(stats.TopHard); i++ {
		assert.GreaterOrEqual(t, stats.TopHard[i-1].Mistakes, stats.TopHard[i].Mistakes)
	}
}

func TestUserStatistics_LearnedAndDueCounts(t *testing.T) {
	t.Parallel()

	m := storetest.NewMemStore()
	userID := uuid.New()
	dict := seedDictionary(t, m, userID)

	learned := seedWord(t, m, dict.ID, "cat", "gato")
	learned.Repetitions = learnedRepetitions
	learned.LastReviewed = fixedNow.AddDate(0, 0, -1)
	learned.NextReview = fixedNow.AddDate(0, 0, 30)

	inProgress := seedWord(t, m, dict.ID, "dog", "perro")
	inProgress.Repetitions = 2
	inProgress.LastReviewed = fixedNow.AddDate(0, 0, -7)
	inProgress.NextReview = fixedNow.AddDate(0, 0, -1)

	seedWord(t, m, dict.ID, "bird", "pajaro")

	svc := newTestService(t, m)
	stats, err := svc.UserStatistics(context.Background(), userID)
	require.NoError(t, err)

	assert.Equal(t, 3, stats.TotalWords)
	assert.Equal(t, 1, stats.LearnedWords)
	assert.Equal(t, 2, stats.DueWords, "overdue and never-reviewed words are both due")
}
