package config

import (
	"errors"
	"os"
	"strconv"
	"strings"
)

// Config carries every externally supplied setting. It is built once in a
// composition root and injected explicitly; nothing below the roots reads
// the environment after startup.
type Config struct {
	Port string

	// Postgres DSN; when empty the SQLite fallback at SQLitePath is used.
	DatabaseURL string
	SQLitePath  string
	SeedPath    string

	// Optional Redis URL for the distance matrix cache.
	RedisURL string

	MapboxAPIKey  string
	MapboxBaseURL string

	OpenWeatherAPIKey  string
	OpenWeatherBaseURL string

	// Hard client-side limit on unique coordinates per matrix request.
	MaxMatrixLocations int
	// Solver arc cost in meters for pairs the provider could not measure.
	PenaltyMeters float64
	// Persisted distance when a routed edge has no matrix value.
	FallbackKM float64
	// First-solution strategy name (see solver.ParseStrategy).
	SolverStrategy string
}

// Load builds a Config from the environment. Callers load .env beforehand
// (godotenv) so local runs and deployments share one path.
func Load() (Config, error) {
	cfg := Config{
		Port:               Get("PORT", "8080"),
		DatabaseURL:        os.Getenv("DATABASE_URL"),
		SQLitePath:         Get("SQLITE_PATH", "data/app.db"),
		SeedPath:           Get("SEED_PATH", "data/seeds/deliveries.json"),
		RedisURL:           os.Getenv("REDIS_URL"),
		MapboxAPIKey:       os.Getenv("MAPBOX_API_KEY"),
		MapboxBaseURL:      Get("MAPBOX_BASE_URL", "https://api.mapbox.com/directions-matrix/v1/mapbox/driving"),
		OpenWeatherAPIKey:  os.Getenv("OPENWEATHER_API_KEY"),
		OpenWeatherBaseURL: Get("OPENWEATHER_BASE_URL", "https://api.openweathermap.org/data/2.5/weather"),
		MaxMatrixLocations: getInt("MAX_MATRIX_LOCATIONS", 25),
		PenaltyMeters:      getFloat("SOLVER_PENALTY_METERS", 200000),
		FallbackKM:         getFloat("EDGE_FALLBACK_KM", 200),
		SolverStrategy:     Get("SOLVER_STRATEGY", "cheapest_arc"),
	}

	if strings.TrimSpace(cfg.MapboxAPIKey) == "" {
		return Config{}, errors.New("load config: MAPBOX_API_KEY is required")
	}

	return cfg, nil
}

// Get returns the environment value for key, or fallback when unset.
func Get(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return n
}

func getFloat(key string, fallback float64) float64 {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return fallback
	}
	return f
}
