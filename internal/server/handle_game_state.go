package server

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
)

func handleGameState(logger *slog.Logger, game *Game) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		state, err := game.State(r.Context(), chi.URLParam(r, "id"))
		if err != nil {
			writeGameError(w, logger, err)
			return
		}
		writeJSON(w, http.StatusOK, state)
	}
}
