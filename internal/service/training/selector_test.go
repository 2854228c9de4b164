package training

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leximo/leximo-api/internal/domain"
	"github.com/leximo/leximo-api/internal/store/storetest"
)

// markReviewed moves a word out of the unseen tier and schedules its next
// review relative to the fixed test clock.
func markReviewed(word *domain.Word, repetitions, daysUntilDue int) {
	word.Repetitions = repetitions
	word.LastReviewed = fixedNow.AddDate(0, 0, -1)
	word.NextReview = fixedNow.AddDate(0, 0, daysUntilDue)
}

func TestNextWord_PrefersDueWords(t *testing.T) {
	t.Parallel()

	m := storetest.NewMemStore()
	userID := uuid.New()
	dict := seedDictionary(t, m, userID)

	due := seedWord(t, m, dict.ID, "cat", "gato")
	markReviewed(due, 2, -1)
	notDue := seedWord(t, m, dict.ID, "dog", "perro")
	markReviewed(notDue, 2, 5)
	unseen := seedWord(t, m, dict.ID, "bird", "pajaro")
	_ = unseen

	svc := newTestService(t, m)
	session, err := svc.Start(context.Background(), userID, dict.ID, "default", domain.DirectionTermToTranslation)
	require.NoError(t, err)

	prompt, err := svc.NextWord(context.Background(), userID, session.ID)
	require.NoError(t, err)
	assert.False(t, prompt.Done)
	assert.Equal(t, due.ID, prompt.WordID, "a due word beats unseen and scheduled words")
}

func TestNextWord_FallsBackToUnseen(t *testing.T) {
	t.Parallel()

	m := storetest.NewMemStore()
	userID := uuid.New()
	dict := seedDictionary(t, m, userID)

	scheduled := seedWord(t, m, dict.ID, "dog", "perro")
	markReviewed(scheduled, 3, 5)
	unseen := seedWord(t, m, dict.ID, "bird", "pajaro")

	svc := newTestService(t, m)
	session, err := svc.Start(context.Background(), userID, dict.ID, "default", domain.DirectionTermToTranslation)
	require.NoError(t, err)

	prompt, err := svc.NextWord(context.Background(), userID, session.ID)
	require.NoError(t, err)
	assert.Equal(t, unseen.ID, prompt.WordID, "with nothing due, an unseen word is served")
}

func TestNextWord_ServesScheduledWordsLast(t *testing.T) {
	t.Parallel()

	m := storetest.NewMemStore()
	userID := uuid.New()
	dict := seedDictionary(t, m, userID)

	scheduled := seedWord(t, m, dict.ID, "dog", "perro")
	markReviewed(scheduled, 3, 5)

	svc := newTestService(t, m)
	session, err := svc.Start(context.Background(), userID, dict.ID, "default", domain.DirectionTermToTranslation)
	require.NoError(t, err)

	prompt, err := svc.NextWord(context.Background(), userID, session.ID)
	require.NoError(t, err)
	assert.False(t, prompt.Done, "a not-yet-due word is still served when nothing else remains")
	assert.Equal(t, scheduled.ID, prompt.WordID)
}

func TestNextWord_NeverRepeatsAnsweredWords(t *testing.T) {
	t.Parallel()

	m := storetest.NewMemStore()
	userID := uuid.New()
	dict := seedDictionary(t, m, userID)

	terms := map[string]string{
		"cat": "gato", "dog": "perro", "bird": "pajaro", "fish": "pez", "horse": "caballo",
	}
	for term, translation := range terms {
		seedWord(t, m, dict.ID, term, translation)
	}

	svc := newTestService(t, m)
	session, err := svc.Start(context.Background(), userID, dict.ID, "default", domain.DirectionTermToTranslation)
	require.NoError(t, err)

	served := make(map[uuid.UUID]bool)
	for i := 0; i < len(terms); i++ {
		prompt, err := svc.NextWord(context.Background(), userID, session.ID)
		require.NoError(t, err)
		require.False(t, prompt.Done)
		assert.False(t, served[prompt.WordID], "word served twice in one session")
		served[prompt.WordID] = true

		err = svc.RecordAnswer(context.Background(), userID, session.ID, prompt.WordID, true, prompt.CorrectAnswer)
		require.NoError(t, err)
	}

	// Every word answered: the next prompt signals completion.
	prompt, err := svc.NextWord(context.Background(), userID, session.ID)
	require.NoError(t, err)
	assert.True(t, prompt.Done)
	assert.Empty(t, prompt.Options)
}

func TestNextWord_EmptyDictionaryIsDone(t *testing.T) {
	t.Parallel()

	m := storetest.NewMemStore()
	userID := uuid.New()
	dict := seedDictionary(t, m, userID)
	svc := newTestService(t, m)

	session, err := svc.Start(context.Background(), userID, dict.ID, "default", domain.DirectionTermToTranslation)
	require.NoError(t, err)

	prompt, err := svc.NextWord(context.Background(), userID, session.ID)
	require.NoError(t, err)
	assert.True(t, prompt.Done)
}

func TestNextWord_OptionsContainCorrectAnswerExactlyOnce(t *testing.T) {
	t.Parallel()

	m := storetest.NewMemStore()
	userID := uuid.New()
	dict := seedDictionary(t, m, userID)

	// Two words share a translation so the distractor pool collides with
	// itself and with potential correct answers.
	seedWord(t, m, dict.ID, "cat", "gato")
	seedWord(t, m, dict.ID, "tomcat", "gato")
	seedWord(t, m, dict.ID, "dog", "perro")
	seedWord(t, m, dict.ID, "bird", "pajaro")
	seedWord(t, m, dict.ID, "fish", "pez")

	svc := newTestService(t, m)
	session, err := svc.Start(context.Background(), userID, dict.ID, "default", domain.DirectionTermToTranslation)
	require.NoError(t, err)

	// The invariant must hold for every prompt, whatever word is chosen.
	for i := 0; i < 5; i++ {
		prompt, err := svc.NextWord(context.Background(), userID, session.ID)
		require.NoError(t, err)
		require.False(t, prompt.Done)

		occurrences := 0
		seen := make(map[string]bool)
		for _, option := range prompt.Options {
			if option == prompt.CorrectAnswer {
				occurrences++
			}
			assert.False(t, seen[option], "duplicate option %q", option)
			seen[option] = true
		}
		assert.Equal(t, 1, occurrences, "correct answer must appear exactly once")
		assert.LessOrEqual(t, len(prompt.Options), distractorCount+1)

		err = svc.RecordAnswer(context.Background(), userID, session.ID, prompt.WordID, true, prompt.CorrectAnswer)
		require.NoError(t, err)
	}
}

func TestNextWord_TranslationToTermDirection(t *testing.T) {
	t.Parallel()

	m := storetest.NewMemStore()
	userID := uuid.New()
	dict := seedDictionary(t, m, userID)
	word := seedWord(t, m, dict.ID, "cat", "gato")

	svc := newTestService(t, m)
	session, err := svc.Start(context.Background(), userID, dict.ID, "default", domain.DirectionTranslationToTerm)
	require.NoError(t, err)

	prompt, err := svc.NextWord(context.Background(), userID, session.ID)
	require.NoError(t, err)
	assert.Equal(t, word.Translation, prompt.Question)
	assert.Equal(t, word.Term, prompt.CorrectAnswer)
	assert.Contains(t, prompt.Options, word.Term)
}

func TestNextWord_Errors(t *testing.T) {
	t.Parallel()

	m := storetest.NewMemStore()
	userID := uuid.New()
	dict := seedDictionary(t, m, userID)
	svc := newTestService(t, m)

	session, err := svc.Start(context.Background(), userID, dict.ID, "default", domain.DirectionTermToTranslation)
	require.NoError(t, err)

	_, err = svc.NextWord(context.Background(), userID, uuid.New())
	assert.ErrorIs(t, err, ErrSessionNotFound)

	_, err = svc.NextWord(context.Background(), uuid.New(), session.ID)
	assert.ErrorIs(t, err, ErrNotOwned)
}

func TestSelectCandidates_TierCap(t *testing.T) {
	t.Parallel()

	dictID := uuid.New()
	var words []*domain.Word
	for i := 0; i < tierLimit+10; i++ {
		word, err := domain.NewWord(dictID, "term", "translation", "", "", 1)
		require.NoError(t, err)
		words = append(words, word)
	}

	pool := selectCandidates(words, map[uuid.UUID]bool{}, fixedNow)
	assert.Len(t, pool, tierLimit)
}
