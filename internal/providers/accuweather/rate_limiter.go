package accuweather

import (
	"context"
	"encoding/json"
	"fmt"

	"golang.org/x/time/rate"
)

// RateLimitedClient wraps an API with a token bucket so the daily key quota is spent evenly
type RateLimitedClient struct {
	api     API
	limiter *rate.Limiter
}

// NewRateLimitedClient creates a new rate limited client
// rps is the maximum requests per second allowed (can be fractional)
// burst is the maximum burst size allowed
func NewRateLimitedClient(api API, rps float64, burst int) *RateLimitedClient {
	return &RateLimitedClient{
		api:     api,
		limiter: rate.NewLimiter(rate.Limit(rps), burst),
	}
}

func (r *RateLimitedClient) wait(ctx context.Context) error {
	if err := r.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("rate limit wait canceled: %w", err)
	}
	return nil
}

func (r *RateLimitedClient) GetCountries(ctx context.Context, region string) ([]Country, error) {
	if err := r.wait(ctx); err != nil {
		return nil, err
	}
	return r.api.GetCountries(ctx, region)
}

func (r *RateLimitedClient) GetAdminAreas(ctx context.Context, countryID string) ([]AdminArea, error) {
	if err := r.wait(ctx); err != nil {
		return nil, err
	}
	return r.api.GetAdminAreas(ctx, countryID)
}

func (r *RateLimitedClient) SearchCities(ctx context.Context, countryID, query string) ([]City, error) {
	if err := r.wait(ctx); err != nil {
		return nil, err
	}
	return r.api.SearchCities(ctx, countryID, query)
}

func (r *RateLimitedClient) GetDailyForecast(ctx context.Context, period, locationKey string) (json.RawMessage, error) {
	if err := r.wait(ctx); err != nil {
		return nil, err
	}
	return r.api.GetDailyForecast(ctx, period, locationKey)
}

var _ API = (*RateLimitedClient)(nil)
