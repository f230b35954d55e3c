package server

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/tuukkaea/bossflight/internal/bossflight"
)

// ChallengeResponse documents the challenge wire form. The handler itself
// encodes through bossflight.EncodeChallenge.
type ChallengeResponse struct {
	Type     string              `json:"type" enum:"open_question,multiple_choice"`
	Question string              `json:"question"`
	Answer   string              `json:"answer,omitempty"`
	Options  []bossflight.Option `json:"options,omitempty"`
}

func handleChallenge(logger *slog.Logger, game *Game) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		c, err := game.Challenge(r.Context(), chi.URLParam(r, "id"))
		if err != nil {
			writeGameError(w, logger, err)
			return
		}
		data, err := bossflight.EncodeChallenge(c)
		if err != nil {
			writeGameError(w, logger, err)
			return
		}
		writeRawJSON(w, http.StatusOK, data)
	}
}
