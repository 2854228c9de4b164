package stats

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/leximo/leximo-api/internal/domain"
	"github.com/leximo/leximo-api/internal/store"
)

// learnedRepetitions is the repetition count at which a word counts as
// learned. Four successful reviews put the interval past the one-month mark
// for typical easiness values.
const learnedRepetitions = 4

// weakWordLimit caps the per-session weak word list.
const weakWordLimit = 10

// topHardLimit caps the all-time hardest word list.
const topHardLimit = 5

// Verify interface compliance at compile time
var _ Service = (*statsService)(nil)

// statsService implements the Service interface.
type statsService struct {
	sessions store.SessionStore
	words    store.WordStore
	answers  store.AnswerStore
	logger   *slog.Logger

	timeFunc func() time.Time
}

// Option customizes the stats service, mainly for tests.
type Option func(*statsService)

// WithTimeFunc injects the clock used for due counts.
func WithTimeFunc(fn func() time.Time) Option {
	return func(s *statsService) { s.timeFunc = fn }
}

// NewService creates a new stats Service implementation.
func NewService(
	sessions store.SessionStore,
	words store.WordStore,
	answers store.AnswerStore,
	log *slog.Logger,
	opts ...Option,
) Service {
	if sessions == nil || words == nil || answers == nil {
		panic("stores cannot be nil")
	}
	if log == nil {
		log = slog.Default()
	}

	s := &statsService{
		sessions: sessions,
		words:    words,
		answers:  answers,
		logger:   log.With(slog.String("component", "stats_service")),
		timeFunc: time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// SessionDetails implements Service.SessionDetails.
func (s *statsService) SessionDetails(ctx context.Context, userID, sessionID uuid.UUID) (*SessionDetails, error) {
	session, err := s.getOwnedSession(ctx, userID, sessionID)
	if err != nil {
		return nil, err
	}

	events, err := s.answers.ListBySession(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("failed to list session answers: %w", err)
	}

	wordsByID, err := s.dictionaryWords(ctx, session.DictionaryID)
	if err != nil {
		return nil, err
	}

	details := &SessionDetails{Session: session, Answers: make([]AnsweredWord, 0, len(events))}
	for _, event := range events {
		word, ok := wordsByID[event.WordID]
		if !ok {
			// Deleting a word cascades to its events, so a dangling event
			// should not occur. Skip rather than fail if one does.
			continue
		}
		details.Answers = append(details.Answers, AnsweredWord{Event: event, Word: word})
	}
	return details, nil
}

// WeakWords implements Service.WeakWords.
func (s *statsService) WeakWords(ctx context.Context, userID, sessionID uuid.UUID) ([]WeakWord, error) {
	session, err := s.getOwnedSession(ctx, userID, sessionID)
	if err != nil {
		return nil, err
	}

	events, err := s.answers.ListBySession(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("failed to list session answers: %w", err)
	}

	mistakes := make(map[uuid.UUID]int)
	for _, event := range events {
		if !event.Correct {
			mistakes[event.WordID]++
		}
	}
	if len(mistakes) == 0 {
		return nil, nil
	}

	wordsByID, err := s.dictionaryWords(ctx, session.DictionaryID)
	if err != nil {
		return nil, err
	}

	weak := make([]WeakWord, 0, len(mistakes))
	for wordID, count := range mistakes {
		word, ok := wordsByID[wordID]
		if !ok {
			continue
		}
		weak = append(weak, WeakWord{Word: word, Mistakes: count})
	}
	sort.Slice(weak, func(i, j int) bool { return weak[i].Mistakes > weak[j].Mistakes })
	if len(weak) > weakWordLimit {
		weak = weak[:weakWordLimit]
	}
	return weak, nil
}

// UserStatistics implements Service.UserStatistics.
func (s *statsService) UserStatistics(ctx context.Context, userID uuid.UUID) (*UserStatistics, error) {
	now := s.timeFunc().UTC()

	totalWords, err := s.words.CountByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to count words: %w", err)
	}
	learned, err := s.words.CountLearnedByUser(ctx, userID, learnedRepetitions)
	if err != nil {
		return nil, fmt.Errorf("failed to count learned words: %w", err)
	}
	due, err := s.words.CountDueByUser(ctx, userID, now)
	if err != nil {
		return nil, fmt.Errorf("failed to count due words: %w", err)
	}

	// Events arrive oldest first; all tallies below walk that order.
	events, err := s.answers.ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list answers: %w", err)
	}

	stats := &UserStatistics{
		TotalWords:   totalWords,
		LearnedWords: learned,
		DueWords:     due,
	}

	mistakes := make(map[uuid.UUID]int)
	for _, event := range events {
		if event.Correct {
			stats.CorrectTotal++
		} else {
			stats.WrongTotal++
			mistakes[event.WordID]++
		}
	}

	if total := stats.CorrectTotal + stats.WrongTotal; total > 0 {
		stats.Accuracy = int(math.Round(100 * float64(stats.CorrectTotal) / float64(total)))
	}

	for i := len(events) - 1; i >= 0 && events[i].Correct; i-- {
		stats.Streak++
	}

	topHard, err := s.topHardWords(ctx, mistakes)
	if err != nil {
		return nil, err
	}
	stats.TopHard = topHard

	return stats, nil
}

// topHardWords resolves the most-missed word IDs into WeakWord entries,
// hardest first, capped at topHardLimit.
func (s *statsService) topHardWords(ctx context.Context, mistakes map[uuid.UUID]int) ([]WeakWord, error) {
	if len(mistakes) == 0 {
		return nil, nil
	}

	type hardWord struct {
		id    uuid.UUID
		count int
	}
	ranked := make([]hardWord, 0, len(mistakes))
	for id, count := range mistakes {
		ranked = append(ranked, hardWord{id: id, count: count})
	}
	sort.Slice(ranked, func(i, j int) bool { return ranked[i].count > ranked[j].count })
	if len(ranked) > topHardLimit {
		ranked = ranked[:topHardLimit]
	}

	topHard := make([]WeakWord, 0, len(ranked))
	for _, entry := range ranked {
		word, err := s.words.GetByID(ctx, entry.id)
		if err != nil {
			if store.IsNotFoundError(err) {
				continue
			}
			return nil, fmt.Errorf("failed to get word: %w", err)
		}
		topHard = append(topHard, WeakWord{Word: word, Mistakes: entry.count})
	}
	return topHard, nil
}

// dictionaryWords loads a dictionary's words indexed by ID.
func (s *statsService) dictionaryWords(ctx context.Context, dictionaryID uuid.UUID) (map[uuid.UUID]*domain.Word, error) {
	words, err := s.words.ListByDictionary(ctx, dictionaryID)
	if err != nil {
		return nil, fmt.Errorf("failed to list dictionary words: %w", err)
	}

	byID := make(map[uuid.UUID]*domain.Word, len(words))
	for _, word := range words {
		byID[word.ID] = word
	}
	return byID, nil
}

// getOwnedSession loads a session and verifies ownership.
func (s *statsService) getOwnedSession(ctx context.Context, userID, sessionID uuid.UUID) (*domain.TrainingSession, error) {
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
