package server

import (
	"log/slog"
	"net/http"
)

type NewGameRequest struct {
	Difficulty string `json:"difficulty"`
	PlayerName string `json:"player_name"`
}

type NewGameResponse struct {
	SessionID string `json:"session_id"`
}

func handleNewGame(logger *slog.Logger, game *Game) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req NewGameRequest
		if err := readJSON(w, r, &req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}
		if req.Difficulty == "" || req.PlayerName == "" {
			writeError(w, http.StatusBadRequest, "difficulty and player_name are required")
			return
		}

		id, err := game.NewSession(r.Context(), req.Difficulty, req.PlayerName)
		if err != nil {
			writeGameError(w, logger, err)
			return
		}

		writeJSON(w, http.StatusCreated, NewGameResponse{SessionID: id})
	}
}
