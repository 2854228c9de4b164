package training

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/leximo/leximo-api/internal/domain"
	"github.com/leximo/leximo-api/internal/platform/logger"
)

// tierLimit caps the number of candidates collected per tier. Picking from
// a bounded pool keeps selection cheap on large dictionaries without
// changing the tier ordering guarantees.
const tierLimit = 20

// distractorCount is the number of wrong options sampled per prompt.
const distractorCount = 3

// NextWord implements Service.NextWord.
//
// Candidates are drawn from three ordered tiers, each excluding words
// already answered this session: due words first, then unseen words
// (repetitions == 0), then anything left in the dictionary. The first
// non-empty tier supplies the pool; a uniform random pick from it becomes
// the prompt. When even the last tier is empty every word has been answered
// and the session is done.
func (s *trainingService) NextWord(ctx context.Context, userID, sessionID uuid.UUID) (*Prompt, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	session, err := s.getOwnedSession(ctx, userID, sessionID)
	if err != nil {
		return nil, err
	}

	answered, err := s.answeredWordIDs(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	words, err := s.words.ListByDictionary(ctx, session.DictionaryID)
	if err != nil {
		return nil, fmt.Errorf("failed to list dictionary words: %w", err)
	}

	candidates := selectCandidates(words, answered, s.timeFunc().UTC())
	if len(candidates) == 0 {
		log.Debug("dictionary exhausted for session",
			slog.String("session_id", sessionID.String()))
		return &Prompt{Done: true}, nil
	}

	chosen := candidates[s.intn(len(candidates))]

	question, correctAnswer := promptSides(chosen, session.Direction)

	options := s.buildOptions(chosen, words, session.Direction, correctAnswer)

	return &Prompt{
		WordID:        chosen.ID,
		Question:      question,
		CorrectAnswer: correctAnswer,
		Options:       options,
	}, nil
}

// answeredWordIDs collects the distinct word IDs already answered in the
// session.
func (s *trainingService) answeredWordIDs(ctx context.Context, sessionID uuid.UUID) (map[uuid.UUID]bool, error) {
	events, err := s.answers.ListBySession(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("failed to list session answers: %w", err)
	}

	answered := make(map[uuid.UUID]bool, len(events))
	for _, event := range events {
		answered[event.WordID] = true
	}
	return answered, nil
}

// selectCandidates returns the candidate pool from the first non-empty
// tier, capped at tierLimit entries per tier.
func selectCandidates(words []*domain.Word, answered map[uuid.UUID]bool, now time.Time) []*domain.Word {
	collect := func(keep func(*domain.Word) bool) []*domain.Word {
		var pool []*domain.Word
		for _, word := range words {
			if answered[word.ID] {
				continue
			}
			if !keep(word) {
				continue
			}
			pool = append(pool, word)
			if len(pool) == tierLimit {
				break
			}
		}
		return pool
	}

	// Tier 1: due words.
	if pool := collect(func(w *domain.Word) bool { return w.Due(now) }); len(pool) > 0 {
		return pool
	}
	// Tier 2: unseen words.
	if pool := collect(func(w *domain.Word) bool { return w.Repetitions == 0 }); len(pool) > 0 {
		return pool
	}
	// Tier 3: anything not yet answered this session.
	return collect(func(*domain.Word) bool { return true })
}

// promptSides maps a word to its (question, answer) pair for the session
// direction.
func promptSides(word *domain.Word, direction domain.Direction) (question, answer string) {
	if direction == domain.DirectionTranslationToTerm {
		return word.Translation, word.Term
	}
	return word.Term, word.Translation
}

// buildOptions samples up to three distractors from the dictionary and
// shuffles them together with the correct answer. The correct answer always
// appears exactly once; distractors that collide with it (or with each
// other) are skipped, so small dictionaries or repeated translations
// degrade to fewer options rather than duplicates.
func (s *trainingService) buildOptions(
	chosen *domain.Word,
	words []*domain.Word,
	direction domain.Direction,
	correctAnswer string,
) []string {
	pool := make([]*domain.Word, 0, len(words))
	for _, word := range words {
		if word.ID != chosen.ID {
			pool = append(pool, word)
		}
	}
	s.shuffle(len(pool), func(i, j int) { pool[i], pool[j] = pool[j], pool[i] })

	options := []string{correctAnswer}
	seen := map[string]bool{correctAnswer: true}
	for _, word := range pool {
		if len(options) == distractorCount+1 {
			break
		}
		_, distractor := promptSides(word, direction)
		if seen[distractor] {
			continue
		}
		seen[distractor] = true
		options = append(options, distractor)
	}

	// A uniform permutation so the correct answer's position carries no
	// information.
	s.shuffle(len(options), func(i, j int) { options[i], options[j] = options[j], options[i] })

	return options
}
