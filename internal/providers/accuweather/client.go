package accuweather

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"weather-picker/internal/metrics"
)

const DefaultBaseURL = "http://dataservice.accuweather.com"

// ErrNoLocation is returned when a city search yields no location key
var ErrNoLocation = errors.New("no location found")

// APIError is a non-200 answer from AccuWeather. Body is kept verbatim so it can be relayed.
type APIError struct {
	StatusCode int
	Body       []byte
}

func (e *APIError) Error() string {
	return fmt.Sprintf("fetch returned status %d: %s", e.StatusCode, string(e.Body))
}

// API is the subset of the AccuWeather API the backend uses
type API interface {
	GetCountries(ctx context.Context, region string) ([]Country, error)
	GetAdminAreas(ctx context.Context, countryID string) ([]AdminArea, error)
	SearchCities(ctx context.Context, countryID, query string) ([]City, error)
	GetDailyForecast(ctx context.Context, period, locationKey string) (json.RawMessage, error)
}

type Client struct {
	httpClient *http.Client
	baseURL    string
	apiKey     string
	metrics    *metrics.Metrics
	logger     *slog.Logger
}

func NewClient(baseURL, apiKey string, timeout time.Duration, m *metrics.Metrics, logger *slog.Logger) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		httpClient: &http.Client{Timeout: timeout},
		baseURL:    baseURL,
		apiKey:     apiKey,
		metrics:    m,
		logger:     logger.With("component", "accuweather-client"),
	}
}

// GetCountries lists the countries of a continent region code such as EUR
func (c *Client) GetCountries(ctx context.Context, region string) ([]Country, error) {
	var countries []Country
	if err := c.getJSON(ctx, "countries", "/locations/v1/countries/"+url.PathEscape(region), nil, &countries); err != nil {
		return nil, err
	}
	return countries, nil
}

// GetAdminAreas lists the provinces (admin areas) of a country
func (c *Client) GetAdminAreas(ctx context.Context, countryID string) ([]AdminArea, error) {
	var areas []AdminArea
	if err := c.getJSON(ctx, "adminareas", "/locations/v1/adminareas/"+url.PathEscape(countryID), nil, &areas); err != nil {
		return nil, err
	}
	return areas, nil
}

// SearchCities searches for locations named query inside a country
func (c *Client) SearchCities(ctx context.Context, countryID, query string) ([]City, error) {
	q := url.Values{}
	q.Set("q", query)

	var cities []City
	if err := c.getJSON(ctx, "cities", "/locations/v1/cities/"+url.PathEscape(countryID)+"/search", q, &cities); err != nil {
		return nil, err
	}
	return cities, nil
}

// GetDailyForecast returns the daily forecast document for a location key unmodified
func (c *Client) GetDailyForecast(ctx context.Context, period, locationKey string) (json.RawMessage, error) {
	body, err := c.get(ctx, "forecast", "/forecasts/v1/daily/"+url.PathEscape(period)+"/"+url.PathEscape(locationKey), nil)
	if err != nil {
		return nil, err
	}
	if !json.Valid(body) {
		c.logger.Error("forecast response is not valid JSON", "location_key", locationKey)
		return nil, errors.New("failed to decode response: invalid JSON")
	}
	return body, nil
}

func (c *Client) getJSON(ctx context.Context, endpoint, path string, query url.Values, out any) error {
	body, err := c.get(ctx, endpoint, path, query)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(body, out); err != nil {
		c.logger.Error("failed to decode AccuWeather response", "endpoint", endpoint, "error", err)
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

func (c *Client) get(ctx context.Context, endpoint, path string, query url.Values) ([]byte, error) {
	u, err := url.Parse(c.baseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse base URL: %w", err)
	}

	u.Path = path
	if query == nil {
		query = url.Values{}
	}
	// logged before the key is attached
	c.logger.Debug("fetching AccuWeather resource", "endpoint", endpoint, "path", u.Path)
	query.Set("apikey", c.apiKey)
	u.RawQuery = query.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.metrics.ObserveUpstream(endpoint, 0, time.Since(start))
		c.logger.Error("failed to fetch AccuWeather resource", "endpoint", endpoint, "error", err)
		return nil, fmt.Errorf("failed to fetch: %w", err)
	}
	defer func(Body io.ReadCloser) {
		_ = Body.Close()
	}(resp.Body)

	body, err := io.ReadAll(resp.Body)
	c.metrics.ObserveUpstream(endpoint, resp.StatusCode, time.Since(start))
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		c.logger.Error("AccuWeather API returned error",
			"endpoint", endpoint,
			"status_code", resp.StatusCode,
			"response_body", string(body),
		)
		return nil, &APIError{StatusCode: resp.StatusCode, Body: body}
	}

	return body, nil
}

var _ API = (*Client)(nil)
