package api

import (
	"net/http"

	"github.com/go-playground/validator/v10"

	"github.com/leximo/leximo-api/internal/api/shared"
	"github.com/leximo/leximo-api/internal/domain"
	"github.com/leximo/leximo-api/internal/service/stats"
	"github.com/leximo/leximo-api/internal/service/training"
)

// defaultTrainingMode is applied when a start request omits the mode.
const defaultTrainingMode = "default"

// TrainingHandler handles training session API requests.
type TrainingHandler struct {
	training  training.Service
	stats     stats.Service
	validator *validator.Validate
}

// NewTrainingHandler creates a new TrainingHandler.
func NewTrainingHandler(trainingService training.Service, statsService stats.Service) *TrainingHandler {
	return &TrainingHandler{
		training:  trainingService,
		stats:     statsService,
		validator: validator.New(),
	}
}

// Start handles POST /api/training/start. Starting is idempotent: if an
// open session exists for the dictionary it is resumed.
func (h *TrainingHandler) Start(w http.ResponseWriter, r *http.Request) {
	userID, ok := getUserIDFromContext(r)
	if !ok {
		HandleAPIError(w, r, domain.ErrUnauthorized, "")
		return
	}

	var req StartTrainingRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}
	if err := h.validator.Struct(req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, SanitizeValidationError(err))
		return
	}

	mode := req.Mode
	if mode == "" {
		mode = defaultTrainingMode
	}
	direction := req.Direction
	if direction == "" {
		direction = domain.DirectionTermToTranslation
	}

	session, err := h.training.Start(r.Context(), userID, req.DictionaryID, mode, direction)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, session)
}

// NextWord handles GET /api/training/sessions/{id}/next.
func (h *TrainingHandler) NextWord(w http.ResponseWriter, r *http.Request) {
	userID, sessionID, ok := handleUserIDAndPathUUID(w, r, "id", nil)
	if !ok {
		return
	}

	prompt, err := h.training.NextWord(r.Context(), userID, sessionID)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, prompt)
}

// RecordAnswer handles POST /api/training/sessions/{id}/answer.
func (h *TrainingHandler) RecordAnswer(w http.ResponseWriter, r *http.Request) {
	userID, sessionID, ok := handleUserIDAndPathUUID(w, r, "id", nil)
	if !ok {
		return
	}

	var req AnswerRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}
	if err := h.validator.Struct(req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, SanitizeValidationError(err))
		return
	}

	err := h.training.RecordAnswer(r.Context(), userID, sessionID, req.WordID, req.Correct, req.UserAnswer)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// Finish handles POST /api/training/sessions/{id}/finish. Finishing an
// already-finished session is a conflict.
func (h *TrainingHandler) Finish(w http.ResponseWriter, r *http.Request) {
	userID, sessionID, ok := handleUserIDAndPathUUID(w, r, "id", nil)
	if !ok {
		return
	}

	session, err := h.training.Finish(r.Context(), userID, sessionID)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, session)
}

// History handles GET /api/training/history.
func (h *TrainingHandler) History(w http.ResponseWriter, r *http.Request) {
	userID, ok := getUserIDFromContext(r)
	if !ok {
		HandleAPIError(w, r, domain.ErrUnauthorized, "")
		return
	}

	sessions, err := h.training.History(r.Context(), userID)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}
	if sessions == nil {
		sessions = []*domain.TrainingSession{}
	}

	shared.RespondWithJSON(w, r, http.StatusOK, sessions)
}

// SessionDetails handles GET /api/training/sessions/{id}.
func (h *TrainingHandler) SessionDetails(w http.ResponseWriter, r *http.Request) {
	userID, sessionID, ok := handleUserIDAndPathUUID(w, r, "id", nil)
	if !ok {
		return
	}

	details, err := h.stats.SessionDetails(r.Context(), userID, sessionID)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, details)
}

// WeakWords handles GET /api/training/sessions/{id}/weak-words.
func (h *TrainingHandler) WeakWords(w http.ResponseWriter, r *http.Request) {
	userID, sessionID, ok := handleUserIDAndPathUUID(w, r, "id", nil)
	if !ok {
		return
	}

	weak, err := h.stats.WeakWords(r.Context(), userID, sessionID)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}
	if weak == nil {
		weak = []stats.WeakWord{}
	}

	shared.RespondWithJSON(w, r, http.StatusOK, weak)
}
