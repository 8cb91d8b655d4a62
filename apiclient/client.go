// Package apiclient talks to the remote Knobel API over HTTP.
package apiclient

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
	"time"

	"github.com/Dosada05/knobel-manager/auth"
	"github.com/Dosada05/knobel-manager/models"
	"github.com/Dosada05/knobel-manager/services"
)

const maxErrorBody = 4 << 10

// RemoteError is a non-2xx answer of the remote API.
type RemoteError struct {
	Method     string
	Path       string
	StatusCode int
	Message    string
}

func (e *RemoteError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("%s %s: status %d", e.Method, e.Path, e.StatusCode)
	}
	return fmt.Sprintf("%s %s: status %d: %s", e.Method, e.Path, e.StatusCode, e.Message)
}

func (e *RemoteError) Unwrap() error { return services.ErrRemoteFailure }

type Client struct {
	baseURL     *url.URL
	httpClient  *http.Client
	credentials auth.CredentialProvider
	logger      *slog.Logger
}

func New(baseURL string, timeout time.Duration, credentials auth.CredentialProvider, logger *slog.Logger) (*Client, error) {
	u, err := url.Parse(strings.TrimRight(baseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("invalid api url %q: %w", baseURL, err)
	}
	if u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("invalid api url %q: scheme and host are required", baseURL)
	}
	if credentials == nil {
		credentials = auth.StaticProvider("")
	}
	return &Client{
		baseURL:     u,
		httpClient:  &http.Client{Timeout: timeout},
		credentials: credentials,
		logger:      logger,
	}, nil
}

var _ services.RemoteAPI = (*Client)(nil)

type gamesEnvelope struct {
	Games *[]models.GamePayload `json:"games"`
}

type gameEnvelope struct {
	Game *models.GamePayload `json:"game"`
}

type teamEnvelope struct {
	Team *models.TeamPayload `json:"team"`
}

type playerEnvelope struct {
	Player *models.PlayerPayload `json:"player"`
}

type roundEnvelope struct {
	Round *models.RoundPayload `json:"round"`
}

type tableEnvelope struct {
	Table *models.TablePayload `json:"table"`
}

type scoresRequest struct {
	Scores []models.ScoreInput `json:"scores"`
}

func (c *Client) ListGames(ctx context.Context) (models.GamesPayload, error) {
	var env gamesEnvelope
	if err := c.do(ctx, http.MethodGet, "/games", nil, &env); err != nil {
		return models.GamesPayload{}, err
	}
	games, err := required(env.Games, "games")
	if err != nil {
		return models.GamesPayload{}, err
	}
	return models.GamesPayload{Games: games}, nil
}

func (c *Client) GetGame(ctx context.Context, gameID int) (models.GamePayload, error) {
	var env gameEnvelope
	if err := c.do(ctx, http.MethodGet, fmt.Sprintf("/games/%d", gameID), nil, &env); err != nil {
		return models.GamePayload{}, err
	}
	return required(env.Game, "game")
}

func (c *Client) CreateGame(ctx context.Context, input models.GameInput) (models.GamePayload, error) {
	var env gameEnvelope
	if err := c.do(ctx, http.MethodPost, "/games", input, &env); err != nil {
		return models.GamePayload{}, err
	}
	return required(env.Game, "game")
}

func (c *Client) UpdateGame(ctx context.Context, gameID int, update models.GameUpdate) (models.GamePayload, error) {
	var env gameEnvelope
	if err := c.do(ctx, http.MethodPut, fmt.Sprintf("/games/%d", gameID), update, &env); err != nil {
		return models.GamePayload{}, err
	}
	return required(env.Game, "game")
}

func (c *Client) DeleteGame(ctx context.Context, gameID int) error {
	return c.do(ctx, http.MethodDelete, fmt.Sprintf("/games/%d", gameID), nil, nil)
}

func (c *Client) CreateTeam(ctx context.Context, gameID int, input models.TeamInput) (models.TeamPayload, error) {
	var env teamEnvelope
	if err := c.do(ctx, http.MethodPost, fmt.Sprintf("/games/%d/teams", gameID), input, &env); err != nil {
		return models.TeamPayload{}, err
	}
	return required(env.Team, "team")
}

func (c *Client) UpdateTeam(ctx context.Context, teamID int, update models.TeamUpdate) (models.TeamPayload, error) {
	var env teamEnvelope
	if err := c.do(ctx, http.MethodPut, fmt.Sprintf("/teams/%d", teamID), update, &env); err != nil {
		return models.TeamPayload{}, err
	}
	return required(env.Team, "team")
}

func (c *Client) DeleteTeam(ctx context.Context, teamID int) error {
	return c.do(ctx, http.MethodDelete, fmt.Sprintf("/teams/%d", teamID), nil, nil)
}

func (c *Client) UpdatePlayer(ctx context.Context, playerID int, update models.PlayerUpdate) (models.PlayerPayload, error) {
	var env playerEnvelope
	if err := c.do(ctx, http.MethodPut, fmt.Sprintf("/players/%d", playerID), update, &env); err != nil {
		return models.PlayerPayload{}, err
	}
	return required(env.Player, "player")
}

func (c *Client) DeletePlayer(ctx context.Context, playerID int) error {
	return c.do(ctx, http.MethodDelete, fmt.Sprintf("/players/%d", playerID), nil, nil)
}

func (c *Client) SetupGame(ctx context.Context, gameID int) error {
	return c.do(ctx, http.MethodPost, fmt.Sprintf("/games/%d/setup", gameID), nil, nil)
}

func (c *Client) GetRound(ctx context.Context, gameID, roundNumber int) (models.RoundPayload, error) {
	var env roundEnvelope
	if err := c.do(ctx, http.MethodGet, fmt.Sprintf("/games/%d/rounds/%d", gameID, roundNumber), nil, &env); err != nil {
		return models.RoundPayload{}, err
	}
	return required(env.Round, "round")
}

func (c *Client) UpdateScores(ctx context.Context, gameID, roundNumber, tableNumber int, scores []models.ScoreInput) (models.TablePayload, error) {
	var env tableEnvelope
	path := fmt.Sprintf("/games/%d/rounds/%d/tables/%d/scores", gameID, roundNumber, tableNumber)
	if err := c.do(ctx, http.MethodPut, path, scoresRequest{Scores: scores}, &env); err != nil {
		return models.TablePayload{}, err
	}
	return required(env.Table, "table")
}

// do sends one request. out == nil means the response body is ignored;
// otherwise an empty or undecodable body is ErrEmptyResponse.
func (c *Client) do(ctx context.Context, method, path string, body, out interface{}) error {
	var reader io.Reader
	if body != nil {
		buf, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode %s %s request: %w", method, path, err)
		}
		reader = bytes.NewReader(buf)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL.String()+path, reader)
	if err != nil {
		return fmt.Errorf("build %s %s request: %w", method, path, err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	token, err := c.credentials.Token(ctx)
	if err != nil {
		return fmt.Errorf("obtain bearer credential: %w", err)
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %s %s: %w", services.ErrRemoteFailure, method, path, err)
	}
	defer resp.Body.Close()

	c.logger.DebugContext(ctx, "Remote API call",
		slog.String("method", method),
		slog.String("path", path),
		slog.Int("status", resp.StatusCode),
		slog.Duration("duration", time.Since(start)),
	)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return &RemoteError{Method: method, Path: path, StatusCode: resp.StatusCode, Message: errorMessage(raw)}
	}
	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("%w: read %s %s response: %w", services.ErrRemoteFailure, method, path, err)
	}
	if len(bytes.TrimSpace(raw)) == 0 {
		return fmt.Errorf("%w: %s %s returned no body", services.ErrEmptyResponse, method, path)
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("%w: %s %s: %w", services.ErrEmptyResponse, method, path, err)
	}
	return nil
}

func required[T any](v *T, field string) (T, error) {
	if v == nil {
		var zero T
		return zero, fmt.Errorf("%w: response has no %q field", services.ErrEmptyResponse, field)
	}
	return *v, nil
}

// errorMessage extracts {"error": "..."} or {"message": "..."} and falls back to
// the raw body.
func errorMessage(raw []byte) string {
	var body struct {
		Error   string `json:"error"`
		Message string `json:"message"`
	}
	if err := json.Unmarshal(raw, &body); err == nil {
		if body.Error != "" {
			return body.Error
		}
		if body.Message != "" {
			return body.Message
		}
	}
	return strings.TrimSpace(string(raw))
}

// IsStatus reports whether err is a RemoteError with the given status code.
func IsStatus(err error, status int) bool {
	var re *RemoteError
	return errors.As(err, &re) && re.StatusCode == status
}
