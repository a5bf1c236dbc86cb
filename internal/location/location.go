package location

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"weather-picker/internal/cache"
	"weather-picker/internal/metrics"
	"weather-picker/internal/providers/accuweather"
	"weather-picker/internal/types"
)

var (
	// ErrInvalidRegion is returned for a continent code outside the static table
	ErrInvalidRegion = errors.New("region code is not valid")
	// ErrUnknownCountry is returned when a country name matches no listed country
	ErrUnknownCountry = errors.New("country is not valid")
	// ErrMissingSelection is returned when continent, country or province is empty
	ErrMissingSelection = errors.New("continent, or country or province data is missing")
)

// Service resolves the geography option lists and forecast location keys
type Service interface {
	// Countries returns the English country names of a continent
	Countries(ctx context.Context, continent string) ([]string, error)
	// Provinces returns the English admin-area names of a country
	Provinces(ctx context.Context, country string) ([]string, error)
	// LocationKey resolves a complete selection to an AccuWeather location key
	LocationKey(ctx context.Context, sel types.Selection) (string, error)
}

// LocationProvider defines the upstream location endpoints
type LocationProvider interface {
	GetCountries(ctx context.Context, region string) ([]accuweather.Country, error)
	GetAdminAreas(ctx context.Context, countryID string) ([]accuweather.AdminArea, error)
	SearchCities(ctx context.Context, countryID, query string) ([]accuweather.City, error)
}

// locationService implements the Service interface
type locationService struct {
	provider LocationProvider
	store    cache.Store
	metrics  *metrics.Metrics
	logger   *slog.Logger
}

// NewLocationServiceWithProviders creates a new location service
func NewLocationServiceWithProviders(
	provider LocationProvider,
	store cache.Store,
	m *metrics.Metrics,
	logger *slog.Logger,
) Service {
	return &locationService{
		provider: provider,
		store:    store,
		metrics:  m,
		logger:   logger.With("component", "location-service"),
	}
}

func (s *locationService) Countries(ctx context.Context, continent string) ([]string, error) {
	countries, err := s.countryRecords(ctx, continent)
	if err != nil {
		return nil, err
	}
	names := make([]string, 0, len(countries))
	for _, c := range countries {
		names = append(names, c.EnglishName)
	}
	return names, nil
}

func (s *locationService) Provinces(ctx context.Context, country string) ([]string, error) {
	countryID, err := s.countryID(ctx, country)
	if err != nil {
		return nil, err
	}

	var areas []accuweather.AdminArea
	key := "adminareas:" + countryID
	if !s.cached(ctx, key, &areas) {
		areas, err = s.provider.GetAdminAreas(ctx, countryID)
		if err != nil {
			return nil, fmt.Errorf("failed to get admin areas for %s: %w", countryID, err)
		}
		s.remember(ctx, key, areas)
	}

	names := make([]string, 0, len(areas))
	for _, a := range areas {
		names = append(names, a.EnglishName)
	}
	return names, nil
}

func (s *locationService) LocationKey(ctx context.Context, sel types.Selection) (string, error) {
	if !sel.Complete() {
		return "", ErrMissingSelection
	}

	countryID, err := s.countryID(ctx, sel.Country)
	if errors.Is(err, ErrUnknownCountry) {
		// index not warm yet, list the continent and retry
		if _, err := s.countryRecords(ctx, sel.Continent); err != nil {
			return "", err
		}
		countryID, err = s.countryID(ctx, sel.Country)
	}
	if err != nil {
		return "", err
	}

	var locationKey string
	key := "location-key:" + countryID + ":" + sel.Province
	if s.cached(ctx, key, &locationKey) {
		return locationKey, nil
	}

	cities, err := s.provider.SearchCities(ctx, countryID, sel.Province)
	if err != nil {
		return "", fmt.Errorf("failed to search %q in %s: %w", sel.Province, countryID, err)
	}
	if len(cities) == 0 || cities[0].Key == "" {
		return "", fmt.Errorf("%w: %s, %s", accuweather.ErrNoLocation, sel.Province, sel.Country)
	}

	locationKey = cities[0].Key
	s.remember(ctx, key, locationKey)
	s.logger.Debug("resolved location key",
		"country_id", countryID,
		"province", sel.Province,
		"location_key", locationKey,
	)
	return locationKey, nil
}

// countryRecords lists a continent's countries and indexes their IDs by name
func (s *locationService) countryRecords(ctx context.Context, continent string) ([]accuweather.Country, error) {
	if !types.IsContinentCode(continent) {
		return nil, fmt.Errorf("%w: %q", ErrInvalidRegion, continent)
	}

	var countries []accuweather.Country
	key := "countries:" + continent
	if !s.cached(ctx, key, &countries) {
		var err error
		countries, err = s.provider.GetCountries(ctx, continent)
		if err != nil {
			return nil, fmt.Errorf("failed to get countries for %s: %w", continent, err)
		}
		s.remember(ctx, key, countries)
	}

	// id keys expire independently of the listing, rewrite them on every listing
	for _, c := range countries {
		s.remember(ctx, "country-id:"+c.EnglishName, c.ID)
		if c.LocalizedName != "" && c.LocalizedName != c.EnglishName {
			s.remember(ctx, "country-id:"+c.LocalizedName, c.ID)
		}
	}
	s.logger.Debug("indexed countries", "continent", continent, "count", len(countries))
	return countries, nil
}

func (s *locationService) countryID(ctx context.Context, country string) (string, error) {
	if country == "" {
		return "", ErrMissingSelection
	}
	var id string
	if !s.cached(ctx, "country-id:"+country, &id) || id == "" {
		return "", fmt.Errorf("%w: %q", ErrUnknownCountry, country)
	}
	return id, nil
}

// cached decodes a cache entry into out. Backend failures count as misses.
func (s *locationService) cached(ctx context.Context, key string, out any) bool {
	data, ok, err := s.store.Get(ctx, key)
	if err != nil {
		s.logger.Warn("cache read failed, falling back to upstream", "key", key, "error", err)
		ok = false
	}
	if ok {
		if err := json.Unmarshal(data, out); err != nil {
			s.logger.Warn("discarding undecodable cache entry", "key", key, "error", err)
			ok = false
		}
	}
	s.metrics.CacheLookup(ok)
	return ok
}

func (s *locationService) remember(ctx context.Context, key string, value any) {
	data, err := json.Marshal(value)
	if err != nil {
		s.logger.Warn("failed to encode cache entry", "key", key, "error", err)
		return
	}
	if err := s.store.Set(ctx, key, data); err != nil {
		s.logger.Warn("cache write failed", "key", key, "error", err)
	}
}
