package api

import (
	"net/http"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/leximo/leximo-api/internal/api/shared"
	"github.com/leximo/leximo-api/internal/domain"
	"github.com/leximo/leximo-api/internal/platform/logger"
	"github.com/leximo/leximo-api/internal/store"
)

// defaultWordDifficulty is applied when a create request omits difficulty.
const defaultWordDifficulty = 1

// WordHandler handles word CRUD API requests.
type WordHandler struct {
	words        store.WordStore
	dictionaries store.DictionaryStore
	validator    *validator.Validate
}

// NewWordHandler creates a new WordHandler.
func NewWordHandler(words store.WordStore, dictionaries store.DictionaryStore) *WordHandler {
	return &WordHandler{
		words:        words,
		dictionaries: dictionaries,
		validator:    validator.New(),
	}
}

// Create handles POST /api/dictionaries/{id}/words.
func (h *WordHandler) Create(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContext(r.Context())

	userID, dictionaryID, ok := handleUserIDAndPathUUID(w, r, "id", nil)
	if !ok {
		return
	}
	if !h.checkDictionaryOwnership(w, r, userID, dictionaryID) {
		return
	}

	var req CreateWordRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}
	if err := h.validator.Struct(req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, SanitizeValidationError(err))
		return
	}

	difficulty := req.Difficulty
	if difficulty == 0 {
		difficulty = defaultWordDifficulty
	}

	word, err := domain.NewWord(dictionaryID, req.Term, req.Translation, req.Transcription, req.Example, difficulty)
	if err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid word data: "+err.Error())
		return
	}

	if err := h.words.Create(r.Context(), word); err != nil {
		log.Error("failed to create word", "error", err)
		HandleAPIError(w, r, err, "")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusCreated, word)
}

// List handles GET /api/dictionaries/{id}/words.
func (h *WordHandler) List(w http.ResponseWriter, r *http.Request) {
	userID, dictionaryID, ok := handleUserIDAndPathUUID(w, r, "id", nil)
	if !ok {
		return
	}
	if !h.checkDictionaryOwnership(w, r, userID, dictionaryID) {
		return
	}

	words, err := h.words.ListByDictionary(r.Context(), dictionaryID)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}
	if words == nil {
		words = []*domain.Word{}
	}

	shared.RespondWithJSON(w, r, http.StatusOK, words)
}

// ListDue handles GET /api/words/due. It returns every due word across the
// caller's dictionaries.
func (h *WordHandler) ListDue(w http.ResponseWriter, r *http.Request) {
	userID, ok := getUserIDFromContext(r)
	if !ok {
		HandleAPIError(w, r, domain.ErrUnauthorized, "")
		return
	}

	words, err := h.words.ListDueByUser(r.Context(), userID, time.Now().UTC())
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}
	if words == nil {
		words = []*domain.Word{}
	}

	shared.RespondWithJSON(w, r, http.StatusOK, words)
}

// Update handles PUT /api/words/{id}. Scheduling state is owned by the
// review scheduler and cannot be edited here.
func (h *WordHandler) Update(w http.ResponseWriter, r *http.Request) {
	userID, wordID, ok := handleUserIDAndPathUUID(w, r, "id", nil)
	if !ok {
		return
	}

	var req UpdateWordRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}
	if err := h.validator.Struct(req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, SanitizeValidationError(err))
		return
	}

	word, ok := h.getOwnedWord(w, r, userID, wordID)
	if !ok {
		return
	}

	if req.Term != "" {
		word.Term = req.Term
	}
	if req.Translation != "" {
		word.Translation = req.Translation
	}
	if req.Transcription != "" {
		word.Transcription = req.Transcription
	}
	if req.Example != "" {
		word.Example = req.Example
	}
	if req.Difficulty != 0 {
		word.Difficulty = req.Difficulty
	}
	word.UpdatedAt = time.Now().UTC()

	if err := h.words.Update(r.Context(), word); err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, word)
}

// Delete handles DELETE /api/words/{id}. The word's answer events are
// removed by cascading deletes.
func (h *WordHandler) Delete(w http.ResponseWriter, r *http.Request) {
	userID, wordID, ok := handleUserIDAndPathUUID(w, r, "id", nil)
	if !ok {
		return
	}

	if _, ok := h.getOwnedWord(w, r, userID, wordID); !ok {
		return
	}

	if err := h.words.Delete(r.Context(), wordID); err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// checkDictionaryOwnership verifies the dictionary exists and belongs to the
// caller, writing the error response on failure.
func (h *WordHandler) checkDictionaryOwnership(
	w http.ResponseWriter,
	r *http.Request,
	userID, dictionaryID uuid.UUID,
) bool {
	dictionary, err := h.dictionaries.GetByID(r.Context(), dictionaryID)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return false
	}
	if dictionary.UserID != userID {
		shared.RespondWithError(w, r, http.StatusForbidden, "You do not own this resource")
		return false
	}
	return true
}

// getOwnedWord loads a word and verifies the caller owns its dictionary,
// writing the error response on failure.
func (h *WordHandler) getOwnedWord(
	w http.ResponseWriter,
	r *http.Request,
	userID, wordID uuid.UUID,
) (*domain.Word, bool) {
	word, err := h.words.GetByID(r.Context(), wordID)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return nil, false
	}
	if !h.checkDictionaryOwnership(w, r, userID, word.DictionaryID) {
		return nil, false
	}
	return word, true
}
