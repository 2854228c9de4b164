package srs

import (
	"errors"
	"time"

	"github.com/leximo/leximo-api/internal/domain"
)

// Common errors
var (
	ErrNilWord = errors.New("word cannot be nil")
)

// Service defines the interface for review scheduling operations.
type Service interface {
	// ApplyAnswer computes the updated schedule for a word after an answer.
	// It never modifies the input word; the returned word carries the new
	// repetitions, easiness, interval and review times.
	ApplyAnswer(word *domain.Word, correct bool, now time.Time) (*domain.Word, error)
}

// defaultService is the standard implementation of the Service interface.
type defaultService struct {
	params *Params
}

// NewService creates a new scheduling service with the given parameters.
// If params is nil, default parameters are used.
func NewService(params *Params) Service {
	if params == nil {
		params = NewDefaultParams()
	}
	return &defaultService{params: params}
}

// NewDefaultService creates a new scheduling service with default parameters.
func NewDefaultService() Service {
	return NewService(NewDefaultParams())
}

// ApplyAnswer implements Service.ApplyAnswer.
func (s *defaultService) ApplyAnswer(word *domain.Word, correct bool, now time.Time) (*domain.Word, error) {
	if word == nil {
		return nil, ErrNilWord
	}

	updated := Review(word, correct, now, s.params)

	if err := updated.Validate(); err != nil {
		return nil, err
	}

	return updated, nil
}
