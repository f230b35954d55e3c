package server

import (
	"encoding/json"
	"net/http"

	openapi "github.com/swaggest/openapi-go"
	"github.com/swaggest/openapi-go/openapi3"

	"github.com/tuukkaea/bossflight/internal/bossflight"
)

// ErrorResponse is returned for all error responses.
type ErrorResponse struct {
	Error string `json:"error"`
}

type sessionPath struct {
	ID string `path:"id" description:"Game session id."`
}

type updateStatusInput struct {
	ID        string `path:"id" description:"Game session id."`
	NewStatus string `json:"new_status" enum:"active,won,lost,abandoned"`
}

func newOpenAPISpec() *openapi3.Spec {
	r := openapi3.NewReflector()
	r.Spec.Info.Title = "BossFlight API"
	r.Spec.Info.Version = "0.1.0"
	r.Spec.Info.WithDescription("Game service for BossFlight: fly between airports, answer questions, reach the boss before the battery runs out.")

	// GET /airports
	getAirports, _ := r.NewOperationContext(http.MethodGet, "/airports")
	getAirports.SetSummary("List airports")
	getAirports.SetDescription("Returns every airport a player can fly to.")
	getAirports.AddRespStructure([]bossflight.Airport{}, openapi.WithHTTPStatus(http.StatusOK))
	_ = r.AddOperation(getAirports)

	// POST /new_game
	postNewGame, _ := r.NewOperationContext(http.MethodPost, "/new_game")
	postNewGame.SetSummary("Start a game")
	postNewGame.SetDescription("Creates the player if needed and opens a session with a random start and boss airport.")
	postNewGame.AddReqStructure(NewGameRequest{})
	postNewGame.AddRespStructure(NewGameResponse{}, openapi.WithHTTPStatus(http.StatusCreated))
	postNewGame.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusBadRequest))
	_ = r.AddOperation(postNewGame)

	// GET /game_state/{id}
	getState, _ := r.NewOperationContext(http.MethodGet, "/game_state/{id}")
	getState.SetSummary("Get game state")
	getState.SetDescription("Returns the current snapshot of a session.")
	getState.AddReqStructure(sessionPath{})
	getState.AddRespStructure(bossflight.GameState{}, openapi.WithHTTPStatus(http.StatusOK))
	getState.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusNotFound))
	_ = r.AddOperation(getState)

	// GET /challenge/{id}
	getChallenge, _ := r.NewOperationContext(http.MethodGet, "/challenge/{id}")
	getChallenge.SetSummary("Draw a challenge")
	getChallenge.SetDescription("Returns a random open or multiple-choice question for the session difficulty, or null when none exists.")
	getChallenge.AddReqStructure(sessionPath{})
	getChallenge.AddRespStructure(ChallengeResponse{}, openapi.WithHTTPStatus(http.StatusOK))
	getChallenge.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusNotFound))
	_ = r.AddOperation(getChallenge)

	// POST /update_state
	postUpdateState, _ := r.NewOperationContext(http.MethodPost, "/update_state")
	postUpdateState.SetSummary("Move")
	postUpdateState.SetDescription("Flies to an airport, counts the puzzle and applies the battery reward or penalty.")
	postUpdateState.AddReqStructure(UpdateStateRequest{})
	postUpdateState.AddRespStructure(bossflight.GameState{}, openapi.WithHTTPStatus(http.StatusOK))
	postUpdateState.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusBadRequest))
	postUpdateState.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusNotFound))
	postUpdateState.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusConflict))
	_ = r.AddOperation(postUpdateState)

	// POST /update_status/{id}
	postUpdateStatus, _ := r.NewOperationContext(http.MethodPost, "/update_status/{id}")
	postUpdateStatus.SetSummary("Set session status")
	postUpdateStatus.SetDescription("Records active, won, lost or abandoned. Terminal statuses stamp the completion time.")
	postUpdateStatus.AddReqStructure(updateStatusInput{})
	postUpdateStatus.AddRespStructure(UpdateStatusResponse{}, openapi.WithHTTPStatus(http.StatusOK))
	postUpdateStatus.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusBadRequest))
	postUpdateStatus.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusNotFound))
	_ = r.AddOperation(postUpdateStatus)

	// GET /events/{id}
	getEvents, _ := r.NewOperationContext(http.MethodGet, "/events/{id}")
	getEvents.SetSummary("SSE event stream")
	getEvents.SetDescription("Server-Sent Events stream of moves and status changes for one session.")
	getEvents.AddReqStructure(sessionPath{})
	getEvents.AddRespStructure(nil, openapi.WithHTTPStatus(http.StatusOK),
		openapi.WithContentType("text/event-stream"))
	getEvents.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusNotFound))
	_ = r.AddOperation(getEvents)

	// GET /healthz
	getHealthz, _ := r.NewOperationContext(http.MethodGet, "/healthz")
	getHealthz.SetSummary("Health check")
	getHealthz.SetDescription("Returns the health status of backend dependencies.")
	getHealthz.AddRespStructure(map[string]struct {
		Status string `json:"status"`
	}{}, openapi.WithHTTPStatus(http.StatusOK))
	_ = r.AddOperation(getHealthz)

	return r.Spec
}

func handleOpenAPI() http.HandlerFunc {
	spec := newOpenAPISpec()
	data, _ := json.MarshalIndent(spec, "", "  ")

	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write(data)
	}
}
