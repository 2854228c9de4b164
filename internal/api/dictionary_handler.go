package api

import (
	"errors"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/leximo/leximo-api/internal/api/shared"
	"github.com/leximo/leximo-api/internal/domain"
	"github.com/leximo/leximo-api/internal/platform/logger"
	"github.com/leximo/leximo-api/internal/store"
)

// maxLocalNumberRetries bounds how often Create re-reads the next local
// number after a concurrent create takes it first.
const maxLocalNumberRetries = 3

// DictionaryHandler handles dictionary CRUD API requests.
type DictionaryHandler struct {
	dictionaries store.DictionaryStore
	validator    *validator.Validate
}

// NewDictionaryHandler creates a new DictionaryHandler.
func NewDictionaryHandler(dictionaries store.DictionaryStore) *DictionaryHandler {
	return &DictionaryHandler{
		dictionaries: dictionaries,
		validator:    validator.New(),
	}
}

// Create handles POST /api/dictionaries.
func (h *DictionaryHandler) Create(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContext(r.Context())

	userID, ok := getUserIDFromContext(r)
	if !ok {
		HandleAPIError(w, r, domain.ErrUnauthorized, "")
		return
	}

	var req CreateDictionaryRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}
	if err := h.validator.Struct(req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, SanitizeValidationError(err))
		return
	}

	dictionary, err := domain.NewDictionary(userID, req.Title, req.LanguageFrom, req.LanguageTo)
	if err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid dictionary data: "+err.Error())
		return
	}

	// Local numbers are a per-user sequence starting at 1. Concurrent
	// creates can read the same next number; the unique index on
	// (user_id, local_number) rejects the loser and we retry with a fresh
	// read.
	for attempt := 0; ; attempt++ {
		number, err := h.dictionaries.NextLocalNumber(r.Context(), userID)
		if err != nil {
			log.Error("failed to read next local number", "error", err)
			HandleAPIError(w, r, err, "")
			return
		}
		dictionary.LocalNumber = number

		err = h.dictionaries.Create(r.Context(), dictionary)
		if err == nil {
			break
		}
		if errors.Is(err, store.ErrLocalNumberExists) && attempt < maxLocalNumberRetries {
			continue
		}
		log.Error("failed to create dictionary", "error", err)
		HandleAPIError(w, r, err, "")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusCreated, dictionary)
}

// List handles GET /api/dictionaries.
func (h *DictionaryHandler) List(w http.ResponseWriter, r *http.Request) {
	userID, ok := getUserIDFromContext(r)
	if !ok {
		HandleAPIError(w, r, domain.ErrUnauthorized, "")
		return
	}

	dictionaries, err := h.dictionaries.ListByUser(r.Context(), userID)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}
	if dictionaries == nil {
		dictionaries = []*domain.Dictionary{}
	}

	shared.RespondWithJSON(w, r, http.StatusOK, dictionaries)
}

// Get handles GET /api/dictionaries/{id}.
func (h *DictionaryHandler) Get(w http.ResponseWriter, r *http.Request) {
	userID, dictionaryID, ok := handleUserIDAndPathUUID(w, r, "id", nil)
	if !ok {
		return
	}

	dictionary, ok := h.getOwnedDictionary(w, r, userID, dictionaryID)
	if !ok {
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, dictionary)
}

// Update handles PUT /api/dictionaries/{id}.
func (h *DictionaryHandler) Update(w http.ResponseWriter, r *http.Request) {
	userID, dictionaryID, ok := handleUserIDAndPathUUID(w, r, "id", nil)
	if !ok {
		return
	}

	var req UpdateDictionaryRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}
	if err := h.validator.Struct(req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, SanitizeValidationError(err))
		return
	}

	dictionary, ok := h.getOwnedDictionary(w, r, userID, dictionaryID)
	if !ok {
		return
	}

	if req.Title != "" {
		dictionary.Title = req.Title
	}
	if req.LanguageFrom != "" {
		dictionary.LanguageFrom = req.LanguageFrom
	}
	if req.LanguageTo != "" {
		dictionary.LanguageTo = req.LanguageTo
	}

	if err := h.dictionaries.Update(r.Context(), dictionary); err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, dictionary)
}

// Delete handles DELETE /api/dictionaries/{id}. Words and training history
// under the dictionary are removed by cascading deletes.
func (h *DictionaryHandler) Delete(w http.ResponseWriter, r *http.Request) {
	userID, dictionaryID, ok := handleUserIDAndPathUUID(w, r, "id", nil)
	if !ok {
		return
	}

	if _, ok := h.getOwnedDictionary(w, r, userID, dictionaryID); !ok {
		return
	}

	if err := h.dictionaries.Delete(r.Context(), dictionaryID); err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// getOwnedDictionary loads a dictionary and verifies the caller owns it,
// writing the error response on failure.
func (h *DictionaryHandler) getOwnedDictionary(
	w http.ResponseWriter,
	r *http.Request,
	userID, dictionaryID uuid.UUID,
) (*domain.Dictionary, bool) {
	dictionary, err := h.dictionaries.GetByID(r.Context(), dictionaryID)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return nil, false
	}
	if dictionary.UserID != userID {
		shared.RespondWithError(w, r, http.StatusForbidden, "You do not own this resource")
		return nil, false
	}
	return dictionary, true
}
