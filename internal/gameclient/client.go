// Package gameclient is a typed wrapper over the remote game service's HTTP
// contract.
package gameclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"sync/atomic"

	"github.com/google/uuid"

	"github.com/tuukkaea/bossflight/internal/bossflight"
)

// ServiceError reports any failed remote call: transport failure, non-2xx
// status or an unusable body.
type ServiceError struct {
	Op         string
	StatusCode int
	Message    string
	Err        error
}

func (e *ServiceError) Error() string {
	switch {
	case e.StatusCode != 0 && e.Message != "":
		return fmt.Sprintf("%s: status %d: %s", e.Op, e.StatusCode, e.Message)
	case e.StatusCode != 0:
		return fmt.Sprintf("%s: status %d", e.Op, e.StatusCode)
	case e.Err != nil:
		return fmt.Sprintf("%s: %v", e.Op, e.Err)
	default:
		return e.Op + ": " + e.Message
	}
}

func (e *ServiceError) Unwrap() error { return e.Err }

var errNoSessionID = errors.New("response carried no session id")

type Client struct {
	base     *url.URL
	http     *http.Client
	logger   *slog.Logger
	inFlight atomic.Int64
}

// New returns a client rooted at baseURL. A nil httpClient means
// http.DefaultClient; no timeouts beyond the transport's are applied.
func New(baseURL string, httpClient *http.Client, logger *slog.Logger) (*Client, error) {
	u, err := url.Parse(strings.TrimRight(baseURL, "/") + "/")
	if err != nil {
		return nil, fmt.Errorf("parsing api url: %w", err)
	}
	if u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("api url %q must be absolute", baseURL)
	}
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Client{base: u, http: httpClient, logger: logger}, nil
}

// InFlight is the number of requests currently awaiting a response.
func (c *Client) InFlight() int64 { return c.inFlight.Load() }

type newGameRequest struct {
	Difficulty bossflight.Difficulty `json:"difficulty"`
	PlayerName string                `json:"player_name"`
}

type newGameResponse struct {
	SessionID bossflight.SessionID `json:"session_id"`
}

type moveRequest struct {
	SessionID        bossflight.SessionID `json:"session_id"`
	CurrentAirportID int                  `json:"current_airport_id"`
	PassedChallenge  bool                 `json:"passed_challenge"`
}

type statusRequest struct {
	NewStatus bossflight.Status `json:"new_status"`
}

func (c *Client) Airports(ctx context.Context) ([]bossflight.Airport, error) {
	var airports []bossflight.Airport
	if err := c.do(ctx, "list airports", http.MethodGet, "airports", nil, &airports); err != nil {
		return nil, err
	}
	return airports, nil
}

func (c *Client) CreateSession(ctx context.Context, difficulty bossflight.Difficulty, playerName string) (bossflight.SessionID, error) {
	const op = "create session"
	var resp newGameResponse
	req := newGameRequest{Difficulty: difficulty, PlayerName: playerName}
	if err := c.do(ctx, op, http.MethodPost, "new_game", req, &resp); err != nil {
		return "", err
	}
	if resp.SessionID.IsZero() {
		return "", &ServiceError{Op: op, Err: errNoSessionID}
	}
	return resp.SessionID, nil
}

func (c *Client) State(ctx context.Context, id bossflight.SessionID) (bossflight.GameState, error) {
	var state bossflight.GameState
	err := c.do(ctx, "fetch state", http.MethodGet, "game_state/"+url.PathEscape(id.String()), nil, &state)
	return state, err
}

// Challenge fetches the next challenge. A nil challenge with a nil error
// means the service has none to offer right now.
func (c *Client) Challenge(ctx context.Context, id bossflight.SessionID) (bossflight.Challenge, error) {
	const op = "fetch challenge"
	var raw json.RawMessage
	if err := c.do(ctx, op, http.MethodGet, "challenge/"+url.PathEscape(id.String()), nil, &raw); err != nil {
		return nil, err
	}
	ch, err := bossflight.DecodeChallenge(raw)
	if err != nil {
		return nil, &ServiceError{Op: op, Err: err}
	}
	return ch, nil
}

// SubmitMove is the only call that advances server-side position, battery
// and puzzle counters.
func (c *Client) SubmitMove(ctx context.Context, id bossflight.SessionID, airportID int, passedChallenge bool) (bossflight.GameState, error) {
	var state bossflight.GameState
	req := moveRequest{SessionID: id, CurrentAirportID: airportID, PassedChallenge: passedChallenge}
	err := c.do(ctx, "submit move", http.MethodPost, "update_state", req, &state)
	return state, err
}

func (c *Client) SubmitStatus(ctx context.Context, id bossflight.SessionID, status bossflight.Status) error {
	return c.do(ctx, "submit status", http.MethodPost, "update_status/"+url.PathEscape(id.String()), statusRequest{NewStatus: status}, nil)
}

func (c *Client) do(ctx context.Context, op, method, path string, in, out any) error {
	c.inFlight.Add(1)
	defer c.inFlight.Add(-1)

	var body io.Reader
	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return &ServiceError{Op: op, Err: fmt.Errorf("encoding request: %w", err)}
		}
		body = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.base.JoinPath(path).String(), body)
	if err != nil {
		return &ServiceError{Op: op, Err: err}
	}
	reqID := uuid.NewString()
	req.Header.Set("X-Request-Id", reqID)
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return &ServiceError{Op: op, Err: err}
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return &ServiceError{Op: op, StatusCode: resp.StatusCode, Err: fmt.Errorf("reading body: %w", err)}
	}

	c.logger.Debug("game service call",
		"op", op,
		"method", method,
		"path", req.URL.Path,
		"status", resp.StatusCode,
		"request_id", reqID,
	)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &ServiceError{Op: op, StatusCode: resp.StatusCode, Message: errorMessage(data)}
	}
	if out == nil {
		return nil
	}
	if len(bytes.TrimSpace(data)) == 0 {
		if raw, ok := out.(*json.RawMessage); ok {
			*raw = nil
			return nil
		}
		return &ServiceError{Op: op, StatusCode: resp.StatusCode, Err: errors.New("empty response body")}
	}
	if err := json.Unmarshal(data, out); err != nil {
		return &ServiceError{Op: op, StatusCode: resp.StatusCode, Err: fmt.Errorf("decoding response: %w", err)}
	}
	return nil
}

// errorMessage lifts the message out of an {"error": "..."} body, falling
// back to the trimmed raw body.
func errorMessage(data []byte) string {
	var e struct {
		Error string `json:"error"`
	}
	if json.Unmarshal(data, &e) == nil && e.Error != "" {
		return strings.TrimSpace(e.Error)
	}
	msg := strings.TrimSpace(string(data))
	if len(msg) > 200 {
		msg = msg[:200]
	}
	return msg
}
