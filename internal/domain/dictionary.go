package domain

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// Common validation errors for Dictionary.
var (
	ErrEmptyDictionaryID     = errors.New("dictionary ID cannot be empty")
	ErrEmptyDictionaryUserID = errors.New("dictionary user ID cannot be empty")
	ErrEmptyDictionaryTitle  = errors.New("dictionary title cannot be empty")
	ErrEmptyLanguage         = errors.New("dictionary languages cannot be empty")
)

// Dictionary is a named collection of words owned by a single user.
// LocalNumber is a per-user sequential number assigned at creation time
// and never reused.
type Dictionary struct {
	ID           uuid.UUID `json:"id"`
	UserID       uuid.UUID `json:"user_id"`
	Title        string    `json:"title"`
	LanguageFrom string    `json:"language_from"`
	LanguageTo   string    `json:"language_to"`
	LocalNumber  int       `json:"local_number"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// NewDictionary creates a new Dictionary for the given user.
// The caller assigns LocalNumber from the per-user sequence before insertion.
// Returns an error if validation fails.
func NewDictionary(userID uuid.UUID, title, languageFrom, languageTo string) (*Dictionary, error) {
	now := time.Now().UTC()
	dict := &Dictionary{
		ID:           uuid.New(),
		UserID:       userID,
		Title:        title,
		LanguageFrom: languageFrom,
		LanguageTo:   languageTo,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := dict.Validate(); err != nil {
		return nil, err
	}

	return dict, nil
}

// Validate checks if the Dictionary has valid data.
// Returns an error if any field fails validation.
func (d *Dictionary) Validate() error {
	if d.ID == uuid.Nil {
		return ErrEmptyDictionaryID
	}

	if d.UserID == uuid.Nil {
		return ErrEmptyDictionaryUserID
	}

	if d.Title == "" {
		return ErrEmptyDictionaryTitle
	}

	if d.LanguageFrom == "" || d.LanguageTo == "" {
		return ErrEmptyLanguage
	}

	return nil
}
