package server

import "net/http"

func handleAirports(game *Game) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, game.Airports())
	}
}
