package config

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Forecast periods accepted by the AccuWeather daily forecast endpoint
var validPeriods = map[string]bool{
	"1day":  true,
	"5day":  true,
	"10day": true,
	"15day": true,
}

// Config holds all configuration for the application
type Config struct {
	Server      ServerConfig
	Log         LogConfig
	AccuWeather AccuWeatherConfig
	Cache       CacheConfig
	Client      ClientConfig
}

// ServerConfig holds server-specific configuration
type ServerConfig struct {
	Port           int
	GinMode        string   // debug, release, test
	AllowedOrigins []string // "*" allows every origin
}

// LogConfig holds logging configuration
type LogConfig struct {
	Level  string // debug, info, warn, error
	Format string // json, text
	File   string // used by the terminal client, which owns stdout
}

// AccuWeatherConfig holds upstream API configuration
type AccuWeatherConfig struct {
	APIKey            string
	BaseURL           string
	Period            string // 1day, 5day, 10day, 15day
	Timeout           time.Duration
	RequestsPerSecond float64
	Burst             int
}

// CacheConfig holds option-list cache configuration
type CacheConfig struct {
	Backend       string // memory, redis
	TTL           time.Duration
	RedisAddr     string
	RedisPassword string
	RedisDB       int
}

// ClientConfig holds terminal client configuration
type ClientConfig struct {
	BackendURL string
}

// Load reads configuration from .env, file and environment variables
func Load() (*Config, error) {
	// .env is optional, real environment variables take precedence
	_ = godotenv.Load()

	v := viper.New()

	// Set config file name and paths
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	v.AddConfigPath("$HOME/.weather-picker")

	// Set defaults
	v.SetDefault("server.port", 5000)
	v.SetDefault("server.ginmode", "release")
	v.SetDefault("server.allowedorigins", []string{"*"})
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")
	v.SetDefault("log.file", "weather-picker.log")
	v.SetDefault("accuweather.apikey", "")
	v.SetDefault("accuweather.baseurl", "http://dataservice.accuweather.com")
	v.SetDefault("accuweather.period", "5day")
	v.SetDefault("accuweather.timeout", 60*time.Second)
	v.SetDefault("accuweather.requestspersecond", 1.0)
	v.SetDefault("accuweather.burst", 5)
	v.SetDefault("cache.backend", "memory")
	v.SetDefault("cache.ttl", 24*time.Hour)
	v.SetDefault("cache.redisaddr", "localhost:6379")
	v.SetDefault("cache.redispassword", "")
	v.SetDefault("cache.redisdb", 0)
	v.SetDefault("client.backendurl", "http://127.0.0.1:5000")

	// Read from environment variables, e.g. WEATHER_PICKER_ACCUWEATHER_PERIOD
	v.SetEnvPrefix("WEATHER_PICKER")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// The plain AccuWeather variables are accepted as well
	if err := v.BindEnv("accuweather.apikey", "WEATHER_PICKER_ACCUWEATHER_APIKEY", "ACCUWEATHER_API_KEY"); err != nil {
		return nil, fmt.Errorf("failed to bind api key: %w", err)
	}
	if err := v.BindEnv("accuweather.period", "WEATHER_PICKER_ACCUWEATHER_PERIOD", "ACCUWEATHER_PERIOD"); err != nil {
		return nil, fmt.Errorf("failed to bind period: %w", err)
	}

	// Read config file
	if err := v.ReadInConfig(); err != nil {
		// It's okay if config file doesn't exist, we have defaults
		var configFileNotFoundError viper.ConfigFileNotFoundError
		if !errors.As(err, &configFileNotFoundError) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	// Unmarshal into config struct
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return &cfg, nil
}

// ValidateServer checks the settings the API server cannot run without
func (c *Config) ValidateServer() error {
	if c.AccuWeather.APIKey == "" {
		return errors.New("accuweather api key is required (ACCUWEATHER_API_KEY)")
	}
	if !validPeriods[c.AccuWeather.Period] {
		return fmt.Errorf("invalid forecast period %q", c.AccuWeather.Period)
	}
	if c.AccuWeather.RequestsPerSecond <= 0 {
		return fmt.Errorf("requests per second must be positive, got %v", c.AccuWeather.RequestsPerSecond)
	}
	switch c.Cache.Backend {
	case "memory", "redis":
	default:
		return fmt.Errorf("unknown cache backend %q", c.Cache.Backend)
	}
	return nil
}

// GetServerAddr returns the server address in the format ":port"
func (c *Config) GetServerAddr() string {
	return fmt.Sprintf(":%d", c.Server.Port)
}

// NewLogger creates a new slog.Logger writing to stdout
func (c *Config) NewLogger() *slog.Logger {
	return c.NewLoggerTo(os.Stdout)
}

// NewLoggerTo creates a new slog.Logger based on the configuration
func (c *Config) NewLoggerTo(w io.Writer) *slog.Logger {
	// Parse log level
	var level slog.Level
	switch strings.ToLower(c.Log.Level) {
	case "debug":
		level = slog.LevelDebug
	case "info":
		level = slog.LevelInfo
	case "warn", "warning":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}

	// Create handler options
	opts := &slog.HandlerOptions{
		Level: level,
	}

	// Choose handler based on format
	var handler slog.Handler
	switch strings.ToLower(c.Log.Format) {
	case "json":
		handler = slog.NewJSONHandler(w, opts)
	default: // "text" or anything else
		handler = slog.NewTextHandler(w, opts)
	}

	return slog.New(handler)
}
