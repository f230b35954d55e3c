package server

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
)

type UpdateStatusRequest struct {
	NewStatus string `json:"new_status" enum:"active,won,lost,abandoned"`
}

type UpdateStatusResponse struct {
	Status string `json:"status"`
}

func handleUpdateStatus(logger *slog.Logger, game *Game) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req UpdateStatusRequest
		if err := readJSON(w, r, &req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}
		if req.NewStatus == "" {
			writeError(w, http.StatusBadRequest, "new_status is required")
			return
		}

		if err := game.SetStatus(r.Context(), chi.URLParam(r, "id"), req.NewStatus); err != nil {
			writeGameError(w, logger, err)
			return
		}
		writeJSON(w, http.StatusOK, UpdateStatusResponse{Status: "ok"})
	}
}
