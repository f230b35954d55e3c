package gameclient

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"

	"github.com/tuukkaea/bossflight/internal/bossflight"
)

func newTestClient(t *testing.T, r http.Handler) *Client {
	t.Helper()
	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)

	c, err := New(srv.URL, srv.Client(), nil)
	if err != nil {
		t.Fatalf("new client: %v", err)
	}
	return c
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func TestCreateSession(t *testing.T) {
	r := chi.NewRouter()
	r.Post("/new_game", func(w http.ResponseWriter, r *http.Request) {
		var req newGameRequest
		json.NewDecoder(r.Body).Decode(&req)
		if req.Difficulty != bossflight.DifficultyEasy || req.PlayerName != "Ava" {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "bad request"})
			return
		}
		if r.Header.Get("X-Request-Id") == "" {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "missing request id"})
			return
		}
		w.Write([]byte(`{"session_id": 7}`))
	})
	c := newTestClient(t, r)

	id, err := c.CreateSession(context.Background(), bossflight.DifficultyEasy, "Ava")
	if err != nil {
		t.Fatalf("create session: %v", err)
	}
	if id != "7" {
		t.Errorf("expected session 7, got %q", id)
	}
}

func TestCreateSessionErrors(t *testing.T) {
	tests := []struct {
		name       string
		status     int
		body       string
		wantStatus int
		wantMsg    string
	}{
		{"error body", http.StatusBadRequest, `{"error":"player_name required."}`, http.StatusBadRequest, "player_name required."},
		{"missing id", http.StatusCreated, `{}`, 0, ""},
		{"malformed body", http.StatusCreated, `not json`, http.StatusCreated, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := chi.NewRouter()
			r.Post("/new_game", func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				w.Write([]byte(tt.body))
			})
			c := newTestClient(t, r)

			_, err := c.CreateSession(context.Background(), bossflight.DifficultyHard, "Ava")
			var se *ServiceError
			if !errors.As(err, &se) {
				t.Fatalf("expected *ServiceError, got %v", err)
			}
			if se.StatusCode != tt.wantStatus {
				t.Errorf("status = %d, want %d", se.StatusCode, tt.wantStatus)
			}
			if se.Message != tt.wantMsg {
				t.Errorf("message = %q, want %q", se.Message, tt.wantMsg)
			}
		})
	}
}

func TestStateAndMove(t *testing.T) {
	r := chi.NewRouter()
	r.Get("/game_state/{id}", func(w http.ResponseWriter, r *http.Request) {
		if chi.URLParam(r, "id") != "s-1" {
			writeJSON(w, http.StatusNotFound, map[string]string{"error": "Invalid game session ID"})
			return
		}
		writeJSON(w, http.StatusOK, bossflight.GameState{
			SessionID:      "s-1",
			BatteryLevel:   80,
			CurrentAirport: &bossflight.Airport{ID: 1, Name: "Helsinki-Vantaa"},
			Status:         bossflight.StatusActive,
		})
	})
	r.Post("/update_state", func(w http.ResponseWriter, r *http.Request) {
		var req moveRequest
		json.NewDecoder(r.Body).Decode(&req)
		writeJSON(w, http.StatusOK, bossflight.GameState{
			SessionID:      req.SessionID,
			BatteryLevel:   map[bool]int{true: 100, false: 60}[req.PassedChallenge],
			CurrentAirport: &bossflight.Airport{ID: req.CurrentAirportID},
		})
	})
	c := newTestClient(t, r)
	ctx := context.Background()

	st, err := c.State(ctx, "s-1")
	if err != nil {
		t.Fatalf("state: %v", err)
	}
	if st.BatteryLevel != 80 || st.CurrentAirport.Name != "Helsinki-Vantaa" {
		t.Errorf("unexpected state %+v", st)
	}

	_, err = c.State(ctx, "nope")
	var se *ServiceError
	if !errors.As(err, &se) || se.StatusCode != http.StatusNotFound {
		t.Fatalf("expected 404 ServiceError, got %v", err)
	}

	st, err = c.SubmitMove(ctx, "s-1", 9, true)
	if err != nil {
		t.Fatalf("move: %v", err)
	}
	if st.CurrentAirport.ID != 9 || st.BatteryLevel != 100 {
		t.Errorf("unexpected move result %+v", st)
	}
	if c.InFlight() != 0 {
		t.Errorf("expected no requests in flight, got %d", c.InFlight())
	}
}

func TestMoveKeepsZeroPaddedSessionID(t *testing.T) {
	var raw map[string]json.RawMessage
	r := chi.NewRouter()
	r.Post("/update_state", func(w http.ResponseWriter, r *http.Request) {
		json.NewDecoder(r.Body).Decode(&raw)
		writeJSON(w, http.StatusOK, bossflight.GameState{SessionID: "007", BatteryLevel: 90})
	})
	c := newTestClient(t, r)

	st, err := c.SubmitMove(context.Background(), "007", 2, false)
	if err != nil {
		t.Fatalf("move: %v", err)
	}
	if got := string(raw["session_id"]); got != `"007"` {
		t.Errorf("expected session_id \"007\" in request body, got %s", got)
	}
	if st.SessionID != "007" {
		t.Errorf("expected session 007, got %q", st.SessionID)
	}
}

func TestChallenge(t *testing.T) {
	body := `{"type":"multiple_choice","question":"Q","options":[{"name":"a","is_correct":true}]}`
	r := chi.NewRouter()
	r.Get("/challenge/{id}", func(w http.ResponseWriter, r *http.Request) {
		switch chi.URLParam(r, "id") {
		case "empty":
			w.Write([]byte("null"))
		case "bad":
			w.Write([]byte(`{"type":"riddle"}`))
		default:
			w.Write([]byte(body))
		}
	})
	c := newTestClient(t, r)
	ctx := context.Background()

	ch, err := c.Challenge(ctx, "s")
	if err != nil {
		t.Fatalf("challenge: %v", err)
	}
	if _, ok := ch.(*bossflight.MultipleChoice); !ok {
		t.Errorf("expected multiple choice, got %T", ch)
	}

	ch, err = c.Challenge(ctx, "empty")
	if ch != nil || err != nil {
		t.Errorf("empty: expected nil, nil; got %v, %v", ch, err)
	}

	_, err = c.Challenge(ctx, "bad")
	if !errors.Is(err, bossflight.ErrUnknownChallenge) {
		t.Errorf("expected ErrUnknownChallenge, got %v", err)
	}
}

func TestSubmitStatus(t *testing.T) {
	var got statusRequest
	r := chi.NewRouter()
	r.Post("/update_status/{id}", func(w http.ResponseWriter, r *http.Request) {
		json.NewDecoder(r.Body).Decode(&got)
		writeJSON(w, http.StatusOK, "successfully updated status")
	})
	c := newTestClient(t, r)

	if err := c.SubmitStatus(context.Background(), "12", bossflight.StatusWon); err != nil {
		t.Fatalf("submit status: %v", err)
	}
	if got.NewStatus != bossflight.StatusWon {
		t.Errorf("expected won, got %q", got.NewStatus)
	}
}

func TestTransportFailure(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	c, err := New(url, nil, nil)
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	_, err = c.Airports(context.Background())
	var se *ServiceError
	if !errors.As(err, &se) || se.StatusCode != 0 || se.Err == nil {
		t.Fatalf("expected transport ServiceError, got %v", err)
	}
}

func TestNewRejectsRelativeURL(t *testing.T) {
	if _, err := New("/api", nil, nil); err == nil {
		t.Fatal("expected error for relative url")
	}
}
