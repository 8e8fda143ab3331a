package game

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/appellation/chess/clients"
	"github.com/appellation/chess/core"
	"github.com/appellation/chess/metrics"
	"github.com/appellation/chess/models"
)

const (
	headerUserID      = "x-user-id"
	headerAccountType = "x-account-type"

	pathGames        = "/games"
	pathCurrentGame  = "/games/current"
	pathCurrentMoves = "/games/current/moves"
	pathPreviousGame = "/games/previous"
)

// APIError is returned for any non-2xx response from the game service
type APIError struct {
	Method     string
	Path       string
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("game API %s %s failed with status %d: %s", e.Method, e.Path, e.StatusCode, e.Body)
}

// IsAPIError checks if an error is a game API error
func IsAPIError(err error) (*APIError, bool) {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr, true
	}
	return nil, false
}

// Client implements the clients.GameClient interface
type Client struct {
	httpClient *http.Client
	baseURL    string
}

// NewClient creates a game service client rooted at baseURL
func NewClient(httpClient *http.Client, baseURL string) clients.GameClient {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 30 * time.Second}
	}
	return &Client{
		httpClient: httpClient,
		baseURL:    strings.TrimSuffix(baseURL, "/"),
	}
}

// CreateGame challenges targetID to a new game
func (c *Client) CreateGame(
	ctx context.Context,
	actor models.Actor,
	targetID string,
) (*models.GameSnapshot, error) {
	body := models.CreateGameRequest{
		TargetID:    targetID,
		AccountType: models.AccountTypeDiscord,
	}

	var snapshot models.GameSnapshot
	if err := c.call(ctx, actor, http.MethodPost, pathGames, body, &snapshot); err != nil {
		return nil, fmt.Errorf("failed to create game: %w", err)
	}
	return &snapshot, nil
}

// GetCurrentGame fetches the game actor is currently playing
func (c *Client) GetCurrentGame(ctx context.Context, actor models.Actor) (*models.GameSnapshot, error) {
	var snapshot models.GameSnapshot
	if err := c.call(ctx, actor, http.MethodGet, pathCurrentGame, nil, &snapshot); err != nil {
		return nil, fmt.Errorf("failed to get current game: %w", err)
	}
	return &snapshot, nil
}

// MakeMove plays move in actor's current game
func (c *Client) MakeMove(ctx context.Context, actor models.Actor, move string) (*models.GameSnapshot, error) {
	body := models.MoveRequest{
		Action: models.MoveActionMakeMove,
		Data:   move,
	}

	var snapshot models.GameSnapshot
	if err := c.call(ctx, actor, http.MethodPut, pathCurrentMoves, body, &snapshot); err != nil {
		return nil, fmt.Errorf("failed to make move: %w", err)
	}
	return &snapshot, nil
}

// Resign forfeits actor's current game
func (c *Client) Resign(ctx context.Context, actor models.Actor) (*models.GameSnapshot, error) {
	body := models.MoveRequest{Action: models.MoveActionResign}

	var snapshot models.GameSnapshot
	if err := c.call(ctx, actor, http.MethodPut, pathCurrentMoves, body, &snapshot); err != nil {
		return nil, fmt.Errorf("failed to resign: %w", err)
	}
	return &snapshot, nil
}

// GetPreviousGame fetches actor's last finished game. A 404 is reported as core.ErrNotFound.
func (c *Client) GetPreviousGame(ctx context.Context, actor models.Actor) (*models.PreviousGame, error) {
	var previous models.PreviousGame
	err := c.call(ctx, actor, http.MethodGet, pathPreviousGame, nil, &previous)
	if apiErr, ok := IsAPIError(err); ok && apiErr.StatusCode == http.StatusNotFound {
		return nil, fmt.Errorf("no previous game for user %s: %w", actor.ID, core.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get previous game: %w", err)
	}
	return &previous, nil
}

func (c *Client) call(
	ctx context.Context,
	actor models.Actor,
	method, path string,
	body any,
	out any,
) error {
	var reader io.Reader
	if body != nil {
		jsonBody, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to marshal request: %w", err)
		}
		reader = bytes.NewReader(jsonBody)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set(headerUserID, actor.ID)
	req.Header.Set(headerAccountType, actor.AccountType)
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	metrics.GameAPIDuration.WithLabelValues(method, path).Observe(time.Since(start).Seconds())
	if err != nil {
		metrics.GameAPIRequests.WithLabelValues(method, path, "error").Inc()
		return fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	metrics.GameAPIRequests.WithLabelValues(method, path, strconv.Itoa(resp.StatusCode)).Inc()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return &APIError{
			Method:     method,
			Path:       path,
			StatusCode: resp.StatusCode,
			Body:       string(respBody),
		}
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}
