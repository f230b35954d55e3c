package server

import (
	"log/slog"

	"github.com/go-chi/chi/v5"
	"github.com/swaggest/swgui/v5emb"
)

// AddRoutes registers the game contract plus its API documentation.
func AddRoutes(r chi.Router, logger *slog.Logger, game *Game) {
	r.Get("/openapi.json", handleOpenAPI())
	r.Mount("/docs", v5emb.New("BossFlight API", "/openapi.json", "/docs"))

	r.Get("/airports", handleAirports(game))
	r.Post("/new_game", handleNewGame(logger, game))
	r.Get("/game_state/{id}", handleGameState(logger, game))
	r.Get("/challenge/{id}", handleChallenge(logger, game))
	r.Post("/update_state", handleUpdateState(logger, game))
	r.Post("/update_status/{id}", handleUpdateStatus(logger, game))
	r.Get("/events/{id}", handleEvents(logger, game))
}
