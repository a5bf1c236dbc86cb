package session

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"weather-picker/internal/sentinel"
	"weather-picker/internal/types"
)

type fetchResult struct {
	body string
	err  error
}

// fakeFetcher returns canned responses keyed by request key and records calls
type fakeFetcher struct {
	mu        sync.Mutex
	countries map[string]fetchResult
	provinces map[string]fetchResult
	forecast  fetchResult
	calls     []string

	// onForecast runs while a forecast request is in flight
	onForecast func()
}

func newFakeFetcher() *fakeFetcher {
	return &fakeFetcher{
		countries: map[string]fetchResult{},
		provinces: map[string]fetchResult{},
	}
}

func (f *fakeFetcher) record(call string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, call)
}

func (f *fakeFetcher) respond(r fetchResult) (json.RawMessage, error) {
	if r.err != nil {
		return nil, r.err
	}
	return json.RawMessage(r.body), nil
}

func (f *fakeFetcher) Countries(ctx context.Context, continent string) (json.RawMessage, error) {
	f.record("countries:" + continent)
	return f.respond(f.countries[continent])
}

func (f *fakeFetcher) Provinces(ctx context.Context, country string) (json.RawMessage, error) {
	f.record("provinces:" + country)
	return f.respond(f.provinces[country])
}

func (f *fakeFetcher) Forecast(ctx context.Context, selection types.Selection) (json.RawMessage, error) {
	f.record("forecast:" + selection.Province)
	if f.onForecast != nil {
		f.onForecast()
	}
	return f.respond(f.forecast)
}

func (f *fakeFetcher) Calls() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.calls...)
}

type harness struct {
	ctrl    *Controller
	fetcher *fakeFetcher
	alerts  []string
	logs    *bytes.Buffer
}

func newHarness(opts ...Option) *harness {
	h := &harness{fetcher: newFakeFetcher(), logs: &bytes.Buffer{}}
	logger := slog.New(slog.NewTextHandler(h.logs, &slog.HandlerOptions{Level: slog.LevelDebug}))
	detector := sentinel.NewDetector(sentinel.AlerterFunc(func(message string) {
		h.alerts = append(h.alerts, message)
	}), logger)
	h.ctrl = NewController(h.fetcher, detector, logger, opts...)
	return h
}

func TestController_NoFetchOnEmptyKeys(t *testing.T) {
	h := newHarness()
	ctx := context.Background()

	require.NoError(t, h.ctrl.Run(ctx, h.ctrl.SetContinent("")))
	require.NoError(t, h.ctrl.Run(ctx, h.ctrl.SetCountry("")))
	require.NoError(t, h.ctrl.Run(ctx, h.ctrl.SetProvince("")))
	require.NoError(t, h.ctrl.Run(ctx, Trigger{}))

	assert.Empty(t, h.fetcher.Calls())
}

func TestController_RunIgnoresEmptyKey(t *testing.T) {
	tests := []struct {
		name    string
		trigger Trigger
	}{
		{"countries without continent", Trigger{Kind: FetchCountries}},
		{"provinces without country", Trigger{Kind: FetchProvinces}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newHarness()

			require.NoError(t, h.ctrl.Run(context.Background(), tt.trigger))

			assert.Empty(t, h.fetcher.Calls())
			assert.Empty(t, h.logs.String())
		})
	}
}

func TestController_FetchesOnlyOnGoverningKeyChange(t *testing.T) {
	h := newHarness()
	ctx := context.Background()
	h.fetcher.countries["EUR"] = fetchResult{body: `["France","Spain"]`}
	h.fetcher.provinces["France"] = fetchResult{body: `["Bretagne","Normandie"]`}

	require.NoError(t, h.ctrl.Run(ctx, h.ctrl.SetContinent("EUR")))
	require.NoError(t, h.ctrl.Run(ctx, h.ctrl.SetCountry("France")))
	require.NoError(t, h.ctrl.Run(ctx, h.ctrl.SetProvince("Bretagne")))
	require.NoError(t, h.ctrl.Run(ctx, h.ctrl.SetProvince("Normandie")))
	require.NoError(t, h.ctrl.Run(ctx, h.ctrl.SetCountry("France")))

	assert.Equal(t, []string{"countries:EUR", "provinces:France"}, h.fetcher.Calls())

	snap := h.ctrl.Snapshot()
	assert.Equal(t, OptionList{"France", "Spain"}, snap.Countries)
	assert.Equal(t, OptionList{"Bretagne", "Normandie"}, snap.Provinces)
	assert.Equal(t, types.Selection{Continent: "EUR", Country: "France", Province: "Normandie"}, snap.Selection)
}

func TestController_NewContinentReplacesCountryList(t *testing.T) {
	h := newHarness()
	ctx := context.Background()
	h.fetcher.countries["EUR"] = fetchResult{body: `["France","Spain"]`}
	h.fetcher.countries["OCN"] = fetchResult{body: `["Fiji"]`}

	require.NoError(t, h.ctrl.Run(ctx, h.ctrl.SetContinent("EUR")))
	require.NoError(t, h.ctrl.Run(ctx, h.ctrl.SetContinent("OCN")))

	assert.Equal(t, OptionList{"Fiji"}, h.ctrl.Snapshot().Countries)
}

func TestController_TransportFailureKeepsPreviousList(t *testing.T) {
	h := newHarness(WithStalePolicy(LastWriteWins))
	ctx := context.Background()
	h.fetcher.countries["EUR"] = fetchResult{body: `["France"]`}

	require.NoError(t, h.ctrl.Run(ctx, h.ctrl.SetContinent("EUR")))

	h.fetcher.countries["EUR"] = fetchResult{err: errors.New("connection refused")}
	err := h.ctrl.Run(ctx, Trigger{Kind: FetchCountries, Key: "EUR"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "connection refused")

	h.fetcher.countries["EUR"] = fetchResult{body: `[1, 2, 3]`}
	require.Error(t, h.ctrl.Run(ctx, Trigger{Kind: FetchCountries, Key: "EUR"}))

	assert.Equal(t, OptionList{"France"}, h.ctrl.Snapshot().Countries)
	assert.Empty(t, h.alerts, "transport failures are not surfaced as alerts")
	assert.Contains(t, h.logs.String(), "failed to fetch option list")
}

func TestController_SentinelOptionList(t *testing.T) {
	h := newHarness()
	ctx := context.Background()
	h.fetcher.countries["EUR"] = fetchResult{body: `{"ACCUWEATHER_ERROR_RESPONSE":{"error":{"Code":"Unauthorized"}}}`}

	require.NoError(t, h.ctrl.Run(ctx, h.ctrl.SetContinent("EUR")))

	assert.Equal(t, []string{sentinel.AlertMessage}, h.alerts)
	countries := h.ctrl.Snapshot().Countries
	assert.NotNil(t, countries)
	assert.Empty(t, countries)
}

func TestController_StaleCountryResponse(t *testing.T) {
	t.Run("discard superseded", func(t *testing.T) {
		h := newHarness()
		ctx := context.Background()
		h.fetcher.countries["EUR"] = fetchResult{body: `["France"]`}
		h.fetcher.countries["ASI"] = fetchResult{body: `["Japan"]`}

		eur := h.ctrl.SetContinent("EUR")
		asi := h.ctrl.SetContinent("ASI")

		require.NoError(t, h.ctrl.Run(ctx, asi))
		require.NoError(t, h.ctrl.Run(ctx, eur))

		assert.Equal(t, OptionList{"Japan"}, h.ctrl.Snapshot().Countries)
		assert.Contains(t, h.logs.String(), "discarded superseded option list")
	})

	t.Run("last write wins", func(t *testing.T) {
		h := newHarness(WithStalePolicy(LastWriteWins))
		ctx := context.Background()
		h.fetcher.countries["EUR"] = fetchResult{body: `["France"]`}
		h.fetcher.countries["ASI"] = fetchResult{body: `["Japan"]`}

		eur := h.ctrl.SetContinent("EUR")
		asi := h.ctrl.SetContinent("ASI")

		require.NoError(t, h.ctrl.Run(ctx, asi))
		require.NoError(t, h.ctrl.Run(ctx, eur))

		assert.Equal(t, OptionList{"France"}, h.ctrl.Snapshot().Countries)
	})
}

func TestController_ConcurrentFetchesWriteOwnFields(t *testing.T) {
	h := newHarness()
	ctx := context.Background()
	h.fetcher.countries["EUR"] = fetchResult{body: `["France","Spain"]`}
	h.fetcher.provinces["France"] = fetchResult{body: `["Bretagne"]`}

	countries := h.ctrl.SetContinent("EUR")
	provinces := h.ctrl.SetCountry("France")

	var wg sync.WaitGroup
	errs := make([]error, 2)
	for i, trigger := range []Trigger{provinces, countries} {
		wg.Add(1)
		go func(i int, trigger Trigger) {
			defer wg.Done()
			errs[i] = h.ctrl.Run(ctx, trigger)
		}(i, trigger)
	}
	wg.Wait()

	require.NoError(t, errs[0])
	require.NoError(t, errs[1])
	snap := h.ctrl.Snapshot()
	assert.Equal(t, OptionList{"France", "Spain"}, snap.Countries)
	assert.Equal(t, OptionList{"Bretagne"}, snap.Provinces)
}

func TestController_FetchForecast(t *testing.T) {
	ctx := context.Background()

	t.Run("incomplete selection is a no-op", func(t *testing.T) {
		h := newHarness()
		h.ctrl.SetContinent("EUR")
		h.ctrl.SetCountry("France")

		require.NoError(t, h.ctrl.FetchForecast(ctx))

		assert.Empty(t, h.fetcher.Calls())
		payload, projected := h.ctrl.Forecast()
		assert.Nil(t, payload)
		assert.True(t, projected.IsEmpty())
	})

	t.Run("selection changes never fetch a forecast", func(t *testing.T) {
		h := newHarness()
		h.ctrl.SetContinent("EUR")
		h.ctrl.SetCountry("France")
		h.ctrl.SetProvince("Paris")

		for _, call := range h.fetcher.Calls() {
			assert.NotContains(t, call, "forecast:")
		}
	})

	t.Run("complete selection stores payload and projection", func(t *testing.T) {
		h := newHarness()
		body := `{"DailyForecasts":[{"Date":"2024-01-01T00:00:00","Day":{"IconPhrase":"Sunny"},"Night":{"IconPhrase":"Clear"},"Temperature":{"Maximum":{"Value":10},"Minimum":{"Value":2}}}],"Headline":{"EffectiveDate":"2024-01-01","EndDate":"2024-01-02","Category":"cold","Severity":3,"Text":"Cold wave"}}`
		h.fetcher.forecast = fetchResult{body: body}
		h.ctrl.SetContinent("EUR")
		h.ctrl.SetCountry("France")
		h.ctrl.SetProvince("Paris")

		require.NoError(t, h.ctrl.FetchForecast(ctx))

		payload, projected := h.ctrl.Forecast()
		assert.JSONEq(t, body, string(payload))
		require.Len(t, projected.Days, 1)
		assert.Equal(t, "Mon Jan 01 2024", projected.Days[0].Date)
		require.NotNil(t, projected.Headline.Category)
		assert.Equal(t, "cold", *projected.Headline.Category)
		assert.Equal(t, []string{"forecast:Paris"}, h.fetcher.Calls())
	})

	t.Run("sentinel payload alerts without a transport failure", func(t *testing.T) {
		h := newHarness()
		h.fetcher.forecast = fetchResult{body: `{"ACCUWEATHER_ERROR_RESPONSE": true}`}
		h.ctrl.SetContinent("EUR")
		h.ctrl.SetCountry("France")
		h.ctrl.SetProvince("Paris")

		require.NoError(t, h.ctrl.FetchForecast(ctx))

		assert.Equal(t, []string{sentinel.AlertMessage}, h.alerts)
		_, projected := h.ctrl.Forecast()
		assert.Empty(t, projected.Days)
		assert.NotContains(t, h.logs.String(), "failed to fetch forecast")
	})

	t.Run("selection change in flight discards the response", func(t *testing.T) {
		h := newHarness()
		h.fetcher.forecast = fetchResult{body: `{"DailyForecasts":[{}]}`}
		h.ctrl.SetContinent("EUR")
		h.ctrl.SetCountry("France")
		h.ctrl.SetProvince("Paris")
		h.fetcher.onForecast = func() { h.ctrl.SetProvince("Lyon") }

		err := h.ctrl.FetchForecast(ctx)

		require.ErrorIs(t, err, ErrSuperseded)
		payload, projected := h.ctrl.Forecast()
		assert.Nil(t, payload)
		assert.Empty(t, projected.Days)
	})

	t.Run("last write wins stores a superseded forecast", func(t *testing.T) {
		h := newHarness(WithStalePolicy(LastWriteWins))
		h.fetcher.forecast = fetchResult{body: `{"DailyForecasts":[{}]}`}
		h.ctrl.SetContinent("EUR")
		h.ctrl.SetCountry("France")
		h.ctrl.SetProvince("Paris")
		h.fetcher.onForecast = func() { h.ctrl.SetProvince("Lyon") }

		require.NoError(t, h.ctrl.FetchForecast(ctx))

		_, projected := h.ctrl.Forecast()
		assert.Len(t, projected.Days, 1)
	})

	t.Run("failure keeps the previous forecast", func(t *testing.T) {
		h := newHarness()
		h.fetcher.forecast = fetchResult{body: `{"DailyForecasts":[{},{}]}`}
		h.ctrl.SetContinent("EUR")
		h.ctrl.SetCountry("France")
		h.ctrl.SetProvince("Paris")
		require.NoError(t, h.ctrl.FetchForecast(ctx))

		h.fetcher.forecast = fetchResult{err: errors.New("timeout")}
		require.Error(t, h.ctrl.FetchForecast(ctx))

		payload, projected := h.ctrl.Forecast()
		assert.JSONEq(t, `{"DailyForecasts":[{},{}]}`, string(payload))
		assert.Len(t, projected.Days, 2)
		assert.Empty(t, h.alerts)
	})
}

func TestDecodeOptionList(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		want    OptionList
		wantErr bool
	}{
		{"array of names", `["France","Spain"]`, OptionList{"France", "Spain"}, false},
		{"empty array", `[]`, OptionList{}, false},
		{"sentinel object", `{"ACCUWEATHER_ERROR_RESPONSE":true}`, OptionList{}, false},
		{"validation object", `{"ValueError":"Region code is not valid","Region_Code":"XXX"}`, OptionList{}, false},
		{"null", `null`, nil, true},
		{"numbers", `[1,2]`, nil, true},
		{"string", `"France"`, nil, true},
		{"null and empty entries dropped", `["France",null,"","Spain"]`, OptionList{"France", "Spain"}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := decodeOptionList(json.RawMessage(tt.raw))
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
