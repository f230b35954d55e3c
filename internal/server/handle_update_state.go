package server

import (
	"log/slog"
	"net/http"

	"github.com/tuukkaea/bossflight/internal/bossflight"
)

type UpdateStateRequest struct {
	SessionID        bossflight.SessionID `json:"session_id"`
	CurrentAirportID *int                 `json:"current_airport_id"`
	PassedChallenge  *bool                `json:"passed_challenge"`
}

func handleUpdateState(logger *slog.Logger, game *Game) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req UpdateStateRequest
		if err := readJSON(w, r, &req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}
		if req.SessionID.IsZero() || req.CurrentAirportID == nil || req.PassedChallenge == nil {
			writeError(w, http.StatusBadRequest, "session_id, current_airport_id and passed_challenge are required")
			return
		}

		state, err := game.Move(r.Context(), req.SessionID.String(), *req.CurrentAirportID, *req.PassedChallenge)
		if err != nil {
			writeGameError(w, logger, err)
			return
		}
		writeJSON(w, http.StatusOK, state)
	}
}
