package geoservice

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

	"weather-picker/internal/types"
)

// Endpoints served by cmd/api
const (
	countriesPath = "/country_response"
	provincesPath = "/province_response"
	forecastPath  = "/weather-forecast"
)

var errInvalidJSON = errors.New("response is not valid JSON")

// Client requests option lists and forecasts from the geography service.
// Responses are returned as raw JSON so callers can inspect them before decoding.
type Client struct {
	httpClient *http.Client
	baseURL    string
	logger     *slog.Logger
}

// NewClient creates a client for the service at baseURL. Requests carry no
// timeout of their own; use the context to bound them.
func NewClient(baseURL string, logger *slog.Logger) *Client {
	return &Client{
		httpClient: &http.Client{},
		baseURL:    baseURL,
		logger:     logger.With("component", "geoservice-client"),
	}
}

// Countries fetches the country names for a continent code
func (c *Client) Countries(ctx context.Context, continent string) (json.RawMessage, error) {
	return c.post(ctx, countriesPath, types.CountriesRequest{Continent: continent})
}

// Provinces fetches the province names for a country name
func (c *Client) Provinces(ctx context.Context, country string) (json.RawMessage, error) {
	return c.post(ctx, provincesPath, types.ProvincesRequest{Country: country})
}

// Forecast fetches the daily forecast for a complete selection
func (c *Client) Forecast(ctx context.Context, selection types.Selection) (json.RawMessage, error) {
	return c.post(ctx, forecastPath, selection)
}

func (c *Client) post(ctx context.Context, path string, body any) (json.RawMessage, error) {
	u, err := url.JoinPath(c.baseURL, path)
	if err != nil {
		return nil, fmt.Errorf("failed to build URL: %w", err)
	}

	payload, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("failed to encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, u, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	c.logger.Debug("posting to geography service", "url", u, "body", string(payload))

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch: %w", err)
	}
	defer func(Body io.ReadCloser) {
		_ = Body.Close()
	}(resp.Body)

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetch returned status %d: %s", resp.StatusCode, string(data))
	}

	if !json.Valid(data) {
		return nil, fmt.Errorf("failed to decode response: %w", errInvalidJSON)
	}

	return json.RawMessage(data), nil
}
