package main

import (
	"database/sql"
	"delivery-optimization-service/internal/adapters/cache"
	"delivery-optimization-service/internal/adapters/matrix"
	"delivery-optimization-service/internal/adapters/repositories"
	"delivery-optimization-service/internal/adapters/weather"
	"delivery-optimization-service/internal/api"
	"delivery-optimization-service/internal/config"
	"delivery-optimization-service/internal/platform/db"
	"delivery-optimization-service/internal/platform/obs"
	"delivery-optimization-service/internal/ports"
	"delivery-optimization-service/internal/services"
	"delivery-optimization-service/internal/solver"
	"fmt"
	"log"
	"net/http"
	"strings"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/joho/godotenv"
	_ "modernc.org/sqlite"
)

// main is the application composition root.
// It wires concrete adapters (Postgres or SQLite, Mapbox, OpenWeather, Redis)
// behind ports and starts the HTTP server.
func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found (using environment variables)")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	st, err := openStore(cfg)
	if err != nil {
		log.Fatal(err)
	}
	defer st.db.Close()

	// Initialize schema and seed demo data on startup for local runs.
	if err := st.initAndSeed(cfg.SeedPath); err != nil {
		log.Fatal(err)
	}

	var matrixCache *cache.RedisMatrixCache
	if strings.TrimSpace(cfg.RedisURL) != "" {
		matrixCache, err = cache.NewRedisMatrixCache(cfg.RedisURL)
		if err != nil {
			log.Fatal(err)
		}
		log.Println("Matrix cache enabled (redis)")
	}

	provider, err := matrix.NewMapboxMatrixProvider(cfg.MapboxAPIKey, cfg.MapboxBaseURL, cfg.MaxMatrixLocations, matrixCache)
	if err != nil {
		log.Fatal(err)
	}

	var weatherProvider ports.WeatherProvider
	if strings.TrimSpace(cfg.OpenWeatherAPIKey) != "" {
		weatherProvider, err = weather.NewOpenWeatherProvider(cfg.OpenWeatherAPIKey, cfg.OpenWeatherBaseURL)
		if err != nil {
			log.Fatal(err)
		}
	} else {
		log.Println("OPENWEATHER_API_KEY not set, predictions use a neutral weather factor")
	}

	strategy, err := solver.ParseStrategy(cfg.SolverStrategy)
	if err != nil {
		log.Fatal(err)
	}

	optimizer := &services.Optimizer{
		Deliveries:    st.deliveries,
		Routes:        st.routes,
		Matrix:        provider,
		PenaltyMeters: cfg.PenaltyMeters,
		FallbackKM:    cfg.FallbackKM,
		Strategy:      strategy,
	}
	predictor := &services.Predictor{
		Routes:     st.routes,
		Weather:    weatherProvider,
		FallbackKM: cfg.FallbackKM,
	}

	obs.RegisterDefault()
	router := api.NewRouter(optimizer, predictor)

	// Timeouts are tuned for cold-cache optimization runs (external API latency).
	log.Printf("Server listening addr=:%s", cfg.Port)
	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      120 * time.Second,
		IdleTimeout:       60 * time.Second,
	}
	log.Fatal(srv.ListenAndServe())
}

// store bundles one backend's connection with its repository implementations
// and schema helpers.
type store struct {
	db         *sql.DB
	deliveries ports.DeliveryRepository
	routes     ports.RouteRepository
	init       func(*sql.DB) error
	seed       func(*sql.DB, string) error
}

// openStore selects Postgres when DATABASE_URL is set, SQLite otherwise.
func openStore(cfg config.Config) (*store, error) {
	if strings.TrimSpace(cfg.DatabaseURL) != "" {
		conn, err := db.OpenPostgres(cfg.DatabaseURL)
		if err != nil {
			return nil, err
		}
		log.Println("Using postgres store")
		return &store{
			db:         conn,
			deliveries: repositories.NewPostgresDeliveryRepository(conn),
			routes:     repositories.NewPostgresRouteRepository(conn),
			init:       repositories.InitPostgresSchema,
			seed:       repositories.SeedPostgresFromJSON,
		}, nil
	}

	conn, err := db.OpenSQLite(cfg.SQLitePath)
	if err != nil {
		return nil, err
	}
	log.Printf("Using sqlite store path=%s", cfg.SQLitePath)
	return &store{
		db:         conn,
		deliveries: repositories.NewSqliteDeliveryRepository(conn),
		routes:     repositories.NewSqliteRouteRepository(conn),
		init:       repositories.InitSQLiteSchema,
		seed:       repositories.SeedSQLiteFromJSON,
	}, nil
}

func (s *store) initAndSeed(seedPath string) error {
	if err := s.init(s.db); err != nil {
		return fmt.Errorf("init and seed: %w", err)
	}

	if err := s.seed(s.db, seedPath); err != nil {
		return fmt.Errorf("init and seed: %w", err)
	}

	return nil
}
