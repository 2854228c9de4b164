package api

import (
	"github.com/google/uuid"

	"github.com/leximo/leximo-api/internal/domain"
)

// Common request/response structures

// RegisterRequest defines the payload for the user registration endpoint.
type RegisterRequest struct {
	Email    string `json:"email"    validate:"required,email"`
	Username string `json:"username" validate:"required,min=2,max=64"`
	Password string `json:"password" validate:"required,min=8,max=72"`
}

// LoginRequest defines the payload for the user login endpoint.
type LoginRequest struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required,min=1"`
}

// AuthResponse defines the successful response for authentication endpoints.
type AuthResponse struct {
	// UserID is the unique identifier for the authenticated user
	UserID uuid.UUID `json:"user_id"`

	// Token is the JWT access token used for API authorization
	Token string `json:"token"`
}

// CreateDictionaryRequest defines the payload for creating a dictionary.
type CreateDictionaryRequest struct {
	Title        string `json:"title"         validate:"required,max=200"`
	LanguageFrom string `json:"language_from" validate:"required,max=32"`
	LanguageTo   string `json:"language_to"   validate:"required,max=32"`
}

// UpdateDictionaryRequest defines the payload for updating a dictionary.
// Empty fields are left unchanged.
type UpdateDictionaryRequest struct {
	Title        string `json:"title"         validate:"omitempty,max=200"`
	LanguageFrom string `json:"language_from" validate:"omitempty,max=32"`
	LanguageTo   string `json:"language_to"   validate:"omitempty,max=32"`
}

// CreateWordRequest defines the payload for adding a word to a dictionary.
type CreateWordRequest struct {
	Term          string `json:"term"          validate:"required,max=200"`
	Translation   string `json:"translation"   validate:"required,max=200"`
	Transcription string `json:"transcription" validate:"omitempty,max=200"`
	Example       string `json:"example"       validate:"omitempty,max=500"`
	Difficulty    int    `json:"difficulty"    validate:"omitempty,min=1,max=3"`
}

// UpdateWordRequest defines the payload for editing a word. Empty fields are
// left unchanged; scheduling fields are never editable through the API.
type UpdateWordRequest struct {
	Term          string `json:"term"          validate:"omitempty,max=200"`
	Translation   string `json:"translation"   validate:"omitempty,max=200"`
	Transcription string `json:"transcription" validate:"omitempty,max=200"`
	Example       string `json:"example"       validate:"omitempty,max=500"`
	Difficulty    int    `json:"difficulty"    validate:"omitempty,min=1,max=3"`
}

// StartTrainingRequest defines the payload for starting a training session.
type StartTrainingRequest struct {
	DictionaryID uuid.UUID        `json:"dictionary_id" validate:"required"`
	Mode         string           `json:"mode"          validate:"omitempty,max=32"`
	Direction    domain.Direction `json:"direction"     validate:"omitempty,oneof=term_to_translation translation_to_term"`
}

// AnswerRequest defines the payload for recording an answer.
type AnswerRequest struct {
	WordID     uuid.UUID `json:"word_id"     validate:"required"`
	Correct    bool      `json:"correct"`
	UserAnswer string    `json:"user_answer" validate:"omitempty,max=200"`
}
