package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"ratrace/internal/game"
)

type Client struct {
	BaseURL string
	HTTP    *http.Client
}

func NewClient(baseURL string) *Client {
	return &Client{
		BaseURL: strings.TrimRight(baseURL, "/"),
		HTTP: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

type SessionView struct {
	State          game.GameState `json:"state"`
	TransientError string         `json:"transient_error"`
}

func (c *Client) Professions(ctx context.Context) ([]game.Profession, error) {
	var out struct {
		Professions []game.Profession `json:"professions"`
	}
	err := c.jsonRequest(ctx, http.MethodGet, "/v1/professions", nil, &out)
	return out.Professions, err
}

func (c *Client) NewSession(ctx context.Context, professionID, name string, age, maxRounds int) (game.GameState, error) {
	var out game.GameState
	err := c.jsonRequest(ctx, http.MethodPost, "/v1/session", map[string]any{
		"profession_id": professionID,
		"name":          name,
		"age":           age,
		"max_rounds":    maxRounds,
	}, &out)
	return out, err
}

func (c *Client) Session(ctx context.Context) (SessionView, error) {
	var out SessionView
	err := c.jsonRequest(ctx, http.MethodGet, "/v1/session", nil, &out)
	return out, err
}

func (c *Client) Player(ctx context.Context) (game.Player, error) {
	var out game.Player
	err := c.jsonRequest(ctx, http.MethodGet, "/v1/player", nil, &out)
	return out, err
}

func (c *Client) AdvanceRound(ctx context.Context) (game.GameState, error) {
	var out game.GameState
	err := c.jsonRequest(ctx, http.MethodPost, "/v1/rounds/advance", nil, &out)
	return out, err
}

func (c *Client) BuyAsset(ctx context.Context, asset game.Asset) (game.Player, error) {
	var out game.Player
	err := c.jsonRequest(ctx, http.MethodPost, "/v1/player/assets/buy", asset, &out)
	return out, err
}

func (c *Client) SellAsset(ctx context.Context, assetID string, multiplier float64) (game.Player, error) {
	var out game.Player
	path := "/v1/player/assets/" + url.PathEscape(assetID) + "/sell"
	err := c.jsonRequest(ctx, http.MethodPost, path, map[string]any{"multiplier": multiplier}, &out)
	return out, err
}

func (c *Client) TakeLoan(ctx context.Context, amountMicros int64, interestRate float64) (game.Player, error) {
	var out game.Player
	err := c.jsonRequest(ctx, http.MethodPost, "/v1/player/loans", map[string]any{
		"amount_micros": amountMicros,
		"interest_rate": interestRate,
	}, &out)
	return out, err
}

func (c *Client) RepayLiability(ctx context.Context, liabilityID string) (game.Player, error) {
	var out game.Player
	path := "/v1/player/liabilities/" + url.PathEscape(liabilityID) + "/repay"
	err := c.jsonRequest(ctx, http.MethodPost, path, nil, &out)
	return out, err
}

func (c *Client) AddChild(ctx context.Context) (game.Player, error) {
	var out game.Player
	err := c.jsonRequest(ctx, http.MethodPost, "/v1/player/children", nil, &out)
	return out, err
}

func (c *Client) NextEvent(ctx context.Context) (game.GameEvent, error) {
	var out game.GameEvent
	err := c.jsonRequest(ctx, http.MethodPost, "/v1/events/next", nil, &out)
	return out, err
}

func (c *Client) ChooseEvent(ctx context.Context, eventID, choiceID string) error {
	path := "/v1/events/" + url.PathEscape(eventID) + "/choose"
	return c.jsonRequest(ctx, http.MethodPost, path, map[string]any{"choice_id": choiceID}, nil)
}

func (c *Client) jsonRequest(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reader = bytes.NewReader(raw)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.BaseURL+path, reader)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := c.HTTP.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}
	if resp.StatusCode >= 400 {
		var apiErr struct {
			Error string `json:"error"`
		}
		if json.Unmarshal(raw, &apiErr) == nil && apiErr.Error != "" {
			return fmt.Errorf("%s", apiErr.Error)
		}
		return fmt.Errorf("%s %s: status %d", method, path, resp.StatusCode)
	}
	if out == nil {
		return nil
	}
	return json.Unmarshal(raw, out)
}
