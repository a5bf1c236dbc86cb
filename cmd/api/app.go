package main

import (
	"context"
	"log/slog"
	"slices"

	"weather-picker/internal/cache"
	"weather-picker/internal/config"
	"weather-picker/internal/location"
	"weather-picker/internal/metrics"
	"weather-picker/internal/providers/accuweather"
	"weather-picker/internal/weather"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	_ "weather-picker/docs" // Ensure docs are imported
)

// App encapsulates application dependencies
type App struct {
	router          *gin.Engine
	logger          *slog.Logger
	locationService location.Service
	weatherService  weather.Service
	metrics         *metrics.Metrics
	store           cache.Store
	cfg             *config.Config
}

// NewApp creates a new application with real AccuWeather and cache backends
func NewApp(cfg *config.Config, logger *slog.Logger) (*App, error) {
	store, err := cache.New(context.Background(), cfg.Cache, logger)
	if err != nil {
		return nil, err
	}

	m := metrics.New()
	client := accuweather.NewClient(cfg.AccuWeather.BaseURL, cfg.AccuWeather.APIKey, cfg.AccuWeather.Timeout, m, logger)
	limited := accuweather.NewRateLimitedClient(client, cfg.AccuWeather.RequestsPerSecond, cfg.AccuWeather.Burst)

	locationSvc := location.NewLocationServiceWithProviders(limited, store, m, logger)
	weatherSvc := weather.NewWeatherServiceWithProvider(limited, locationSvc, cfg, logger)

	app := NewAppWithServices(cfg, logger, locationSvc, weatherSvc, m)
	app.store = store
	return app, nil
}

// NewAppWithServices creates a new application with injected dependencies
func NewAppWithServices(
	cfg *config.Config,
	logger *slog.Logger,
	locationSvc location.Service,
	weatherSvc weather.Service,
	m *metrics.Metrics,
) *App {
	// Set Gin mode from configuration
	gin.SetMode(cfg.Server.GinMode)

	// Create Gin router
	router := gin.New()

	// Add middleware
	router.Use(gin.Recovery())
	router.Use(requestID())
	router.Use(cors.New(corsConfig(cfg.Server.AllowedOrigins)))

	app := &App{
		router:          router,
		logger:          logger,
		locationService: locationSvc,
		weatherService:  weatherSvc,
		metrics:         m,
		cfg:             cfg,
	}

	// Register routes
	app.registerRoutes()

	return app
}

// Run starts the HTTP server
func (app *App) Run(addr string) error {
	return app.router.Run(addr)
}

// Close releases the cache backend
func (app *App) Close() error {
	if app.store == nil {
		return nil
	}
	return app.store.Close()
}

func corsConfig(origins []string) cors.Config {
	cfg := cors.DefaultConfig()
	if len(origins) == 0 || slices.Contains(origins, "*") {
		cfg.AllowAllOrigins = true
	} else {
		cfg.AllowOrigins = origins
	}
	cfg.AllowHeaders = append(cfg.AllowHeaders, requestIDHeader)
	cfg.ExposeHeaders = []string{requestIDHeader}
	return cfg
}
