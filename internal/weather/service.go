package weather

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"weather-picker/internal/config"
	"weather-picker/internal/forecast"
	"weather-picker/internal/location"
	"weather-picker/internal/types"
)

type ForecastProvider interface {
	// GetDailyForecast fetches the daily forecast document for an AccuWeather location key
	GetDailyForecast(ctx context.Context, period, locationKey string) (json.RawMessage, error)
}

type Service interface {
	GetDailyForecast(ctx context.Context, sel types.Selection) (json.RawMessage, error)
}

type weatherService struct {
	forecastProvider ForecastProvider
	locationService  location.Service
	cfg              *config.Config
	logger           *slog.Logger
}

func NewWeatherServiceWithProvider(
	forecastProvider ForecastProvider,
	locationService location.Service,
	cfg *config.Config,
	logger *slog.Logger,
) Service {
	return &weatherService{
		forecastProvider: forecastProvider,
		locationService:  locationService,
		cfg:              cfg,
		logger:           logger.With("component", "weather-service"),
	}
}

// GetDailyForecast resolves the selection to a location key and returns the
// upstream forecast document unmodified.
func (s *weatherService) GetDailyForecast(ctx context.Context, sel types.Selection) (json.RawMessage, error) {
	if !sel.Complete() {
		return nil, location.ErrMissingSelection
	}

	locationKey, err := s.locationService.LocationKey(ctx, sel)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve location: %w", err)
	}

	period := s.cfg.AccuWeather.Period
	raw, err := s.forecastProvider.GetDailyForecast(ctx, period, locationKey)
	if err != nil {
		return nil, fmt.Errorf("failed to get forecast: %w", err)
	}

	if s.logger.Enabled(ctx, slog.LevelDebug) {
		projected := forecast.Project(raw)
		s.logger.Debug("fetched daily forecast",
			"province", sel.Province,
			"country", sel.Country,
			"location_key", locationKey,
			"period", period,
			"days", len(projected.Days),
		)
	}

	return raw, nil
}
