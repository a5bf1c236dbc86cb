package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"sync"

	"weather-picker/internal/forecast"
	"weather-picker/internal/sentinel"
	"weather-picker/internal/types"
)

// Fetcher talks to the geography and forecast services. Each method returns
// the raw decoded response body.
type Fetcher interface {
	Countries(ctx context.Context, continent string) (json.RawMessage, error)
	Provinces(ctx context.Context, country string) (json.RawMessage, error)
	Forecast(ctx context.Context, selection types.Selection) (json.RawMessage, error)
}

var errNotOptionList = errors.New("response is neither an option list nor an object")

// ErrSuperseded is returned by FetchForecast when the selection changed while
// the request was in flight and the response was not stored
var ErrSuperseded = errors.New("selection changed before the forecast arrived")

// Controller wires selection changes to their dependent fetches and keeps the
// latest forecast payload and its projection.
type Controller struct {
	state    *State
	fetcher  Fetcher
	detector *sentinel.Detector
	policy   StalePolicy
	logger   *slog.Logger

	mu        sync.Mutex
	payload   json.RawMessage
	projected forecast.Projected
}

// Option configures a Controller
type Option func(*Controller)

// WithStalePolicy sets how superseded responses are handled
func WithStalePolicy(policy StalePolicy) Option {
	return func(c *Controller) {
		c.policy = policy
	}
}

// NewController creates a controller with an empty selection
func NewController(fetcher Fetcher, detector *sentinel.Detector, logger *slog.Logger, opts ...Option) *Controller {
	c := &Controller{
		state:     NewState(),
		fetcher:   fetcher,
		detector:  detector,
		policy:    DiscardSuperseded,
		logger:    logger.With("component", "session-controller"),
		projected: forecast.Project(nil),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// SetContinent changes the continent; run the returned trigger to refresh countries
func (c *Controller) SetContinent(continent string) Trigger {
	return c.state.SetContinent(continent)
}

// SetCountry changes the country; run the returned trigger to refresh provinces
func (c *Controller) SetCountry(country string) Trigger {
	return c.state.SetCountry(country)
}

// SetProvince changes the province
func (c *Controller) SetProvince(province string) Trigger {
	return c.state.SetProvince(province)
}

// Snapshot returns the current selection and option lists
func (c *Controller) Snapshot() Snapshot {
	return c.state.Snapshot()
}

// Run performs the fetch a trigger asks for and stores the result. A zero
// trigger or an empty key is a no-op. On failure the previous list is kept.
func (c *Controller) Run(ctx context.Context, trigger Trigger) error {
	if trigger.Key == "" {
		return nil
	}

	var (
		raw json.RawMessage
		err error
	)

	switch trigger.Kind {
	case FetchCountries:
		raw, err = c.fetcher.Countries(ctx, trigger.Key)
	case FetchProvinces:
		raw, err = c.fetcher.Provinces(ctx, trigger.Key)
	default:
		return nil
	}

	if err != nil {
		c.logger.Error("failed to fetch option list",
			"kind", trigger.Kind.String(),
			"key", trigger.Key,
			"error", err,
		)
		return fmt.Errorf("failed to fetch %s for %q: %w", trigger.Kind, trigger.Key, err)
	}

	c.detector.Check(raw)

	list, err := decodeOptionList(raw)
	if err != nil {
		c.logger.Error("failed to decode option list",
			"kind", trigger.Kind.String(),
			"key", trigger.Key,
			"error", err,
		)
		return fmt.Errorf("failed to decode %s for %q: %w", trigger.Kind, trigger.Key, err)
	}

	var stored bool
	if trigger.Kind == FetchCountries {
		stored = c.state.ApplyCountries(trigger.Key, list, c.policy)
	} else {
		stored = c.state.ApplyProvinces(trigger.Key, list, c.policy)
	}

	if !stored {
		c.logger.Debug("discarded superseded option list",
			"kind", trigger.Kind.String(),
			"key", trigger.Key,
		)
		return nil
	}

	c.logger.Debug("stored option list",
		"kind", trigger.Kind.String(),
		"key", trigger.Key,
		"options", len(list),
	)
	return nil
}

// FetchForecast requests a forecast for the current selection. It does nothing
// unless continent, country and province are all set. On failure the previous
// payload and projection are kept. Under DiscardSuperseded a response for a
// selection the user has since changed is dropped and ErrSuperseded returned.
func (c *Controller) FetchForecast(ctx context.Context) error {
	selection := c.state.Selection()
	if !selection.Complete() {
		return nil
	}

	raw, err := c.fetcher.Forecast(ctx, selection)
	if err != nil {
		c.logger.Error("failed to fetch forecast",
			"continent", selection.Continent,
			"country", selection.Country,
			"province", selection.Province,
			"error", err,
		)
		return fmt.Errorf("failed to fetch forecast: %w", err)
	}

	c.detector.Check(raw)

	if c.policy == DiscardSuperseded && c.state.Selection() != selection {
		c.logger.Debug("discarded superseded forecast", "province", selection.Province)
		return ErrSuperseded
	}

	projected := forecast.Project(raw)

	c.mu.Lock()
	c.payload = raw
	c.projected = projected
	c.mu.Unlock()

	c.logger.Debug("stored forecast",
		"province", selection.Province,
		"days", len(projected.Days),
	)
	return nil
}

// Forecast returns the last stored payload, verbatim, and its projection
func (c *Controller) Forecast() (json.RawMessage, forecast.Projected) {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.payload, c.projected
}

// decodeOptionList accepts a JSON array of strings. Null and empty entries are
// dropped since an empty value means "no selection". A JSON object (an error
// sentinel or a validation error) yields an empty list.
func decodeOptionList(raw json.RawMessage) (OptionList, error) {
	var list OptionList
	if err := json.Unmarshal(raw, &list); err == nil {
		if list == nil {
			return nil, errNotOptionList
		}
		return slices.DeleteFunc(list, func(o string) bool { return o == "" }), nil
	}

	var obj map[string]json.RawMessage
	if err := json.Unmarshal(raw, &obj); err == nil && obj != nil {
		return OptionList{}, nil
	}

	return nil, errNotOptionList
}
