package server

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/tuukkaea/bossflight/internal/bossflight"
)

const maxBodyBytes = 1 << 16

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeRawJSON(w http.ResponseWriter, status int, data []byte) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	w.Write(data)
}

func readJSON(w http.ResponseWriter, r *http.Request, v any) error {
	defer r.Body.Close()
	return json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, ErrorResponse{Error: msg})
}

// writeGameError maps a Game error onto a status code. Unexpected errors
// are logged and reported without detail.
func writeGameError(w http.ResponseWriter, logger *slog.Logger, err error) {
	switch {
	case errors.Is(err, ErrNotFound):
		writeError(w, http.StatusNotFound, "invalid game session id")
	case errors.Is(err, bossflight.ErrInvalidDifficulty),
		errors.Is(err, bossflight.ErrInvalidStatus),
		errors.Is(err, ErrPlayerNameRequired),
		errors.Is(err, ErrUnknownAirport):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, ErrSessionClosed):
		writeError(w, http.StatusConflict, err.Error())
	default:
		logger.Error("game operation failed", "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
	}
}
