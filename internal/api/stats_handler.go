package api

import (
	"net/http"

	"github.com/leximo/leximo-api/internal/api/shared"
	"github.com/leximo/leximo-api/internal/domain"
	"github.com/leximo/leximo-api/internal/service/stats"
)

// StatsHandler handles user statistics API requests.
type StatsHandler struct {
	stats stats.Service
}

// NewStatsHandler creates a new StatsHandler.
func NewStatsHandler(statsService stats.Service) *StatsHandler {
	return &StatsHandler{stats: statsService}
}

// UserStatistics handles GET /api/statistics.
func (h *StatsHandler) UserStatistics(w http.ResponseWriter, r *http.Request) {
	userID, ok := getUserIDFromContext(r)
	if !ok {
		HandleAPIError(w, r, domain.ErrUnauthorized, "")
		return
	}

	statistics, err := h.stats.UserStatistics(r.Context(), userID)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, statistics)
}
