// Package seed creates the default dictionaries every new account starts
// with: three EN-RU sets of increasing difficulty, so a user can begin
// training before entering any words of their own.
package seed

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/leximo/leximo-api/internal/domain"
	"github.com/leximo/leximo-api/internal/store"
)

// Service seeds default content for new users.
type Service interface {
	// CreateDefaultsForUser creates the default dictionaries and their
	// words for a freshly registered user.
	CreateDefaultsForUser(ctx context.Context, userID uuid.UUID) error
}

// Verify interface compliance at compile time
var _ Service = (*seedService)(nil)

type seedService struct {
	dictionaries store.DictionaryStore
	words        store.WordStore
	logger       *slog.Logger
}

// NewService creates a seeding Service over the given stores.
func NewService(dictionaries store.DictionaryStore, words store.WordStore, log *slog.Logger) Service {
	if dictionaries == nil || words == nil {
		panic("stores cannot be nil")
	}
	if log == nil {
		log = slog.Default()
	}

	return &seedService{
		dictionaries: dictionaries,
		words:        words,
		logger:       log.With(slog.String("component", "seed_service")),
	}
}

// CreateDefaultsForUser implements Service.CreateDefaultsForUser.
func (s *seedService) CreateDefaultsForUser(ctx context.Context, userID uuid.UUID) error {
	for _, set := range defaultSets() {
		if err := s.createSet(ctx, userID, set); err != nil {
			return fmt.Errorf("failed to seed %q: %w", set.title, err)
		}
	}

	s.logger.Debug("seeded default dictionaries",
		slog.String("user_id", userID.String()))
	return nil
}

func (s *seedService) createSet(ctx context.Context, userID uuid.UUID, set defaultSet) error {
	dictionary, err := domain.NewDictionary(userID, set.title, "en", "ru")
	if err != nil {
		return fmt.Errorf("failed to build dictionary: %w", err)
	}

	number, err := s.dictionaries.NextLocalNumber(ctx, userID)
	if err != nil {
		return fmt.Errorf("failed to read next local number: %w", err)
	}
	dictionary.LocalNumber = number

	if err := s.dictionaries.Create(ctx, dictionary); err != nil {
		return fmt.Errorf("failed to create dictionary: %w", err)
	}

	for _, entry := range set.words {
		word, err := domain.NewWord(dictionary.ID, entry.term, entry.translation, "", entry.example, set.difficulty)
		if err != nil {
			return fmt.Errorf("failed to build word %q: %w", entry.term, err)
		}
		if err := s.words.Create(ctx, word); err != nil {
			return fmt.Errorf("failed to create word %q: %w", entry.term, err)
		}
	}

	return nil
}
