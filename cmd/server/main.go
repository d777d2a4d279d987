package main

import (
	"database/sql"
	"fmt"
	"log"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	_ "modernc.org/sqlite"

	"fieldservice-booking/internal/adapters/cache"
	"fieldservice-booking/internal/adapters/geocode"
	"fieldservice-booking/internal/adapters/repositories"
	"fieldservice-booking/internal/api"
	"fieldservice-booking/internal/config"
	"fieldservice-booking/internal/domain"
	"fieldservice-booking/internal/geo"
	"fieldservice-booking/internal/ports"
	"fieldservice-booking/internal/scheduling"
)

// main is the application composition root.
// It wires concrete adapters (SQLite, Pelias, Redis) behind ports and
// starts the HTTP server.
func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found (using environment variables)")
	}

	dbPath := config.Get("DB_PATH", "data/app.db")
	seedPath := config.Get("SEED_PATH", "data/seeds/appointments.json")
	port := config.Get("PORT", "8080")

	geoKey := os.Getenv("GEOCODER_API_KEY")
	if strings.TrimSpace(geoKey) == "" {
		log.Fatal("GEOCODER_API_KEY is required")
	}
	geoBaseURL := config.Get("GEOCODER_BASE_URL", "")

	db, err := openDB(dbPath)
	if err != nil {
		log.Fatal(err)
	}
	defer db.Close()

	// Initialize schema and seed demo data on startup for local runs.
	if err := initAndSeed(db, seedPath); err != nil {
		log.Fatal(err)
	}

	engine, err := buildEngine()
	if err != nil {
		log.Fatal(err)
	}

	// Geocoder keeps a persistent SQLite coordinate cache so repeat
	// addresses never hit the external API twice.
	coordCache := geocode.NewSqliteCoordinateCache(db)
	geocoder, err := geocode.NewPeliasGeocoder(geoKey, geoBaseURL, coordCache)
	if err != nil {
		log.Fatal(err)
	}

	// Availability caching is optional: without REDIS_ADDR every
	// request recomputes, which is fine for small installs.
	var availCache ports.AvailabilityCache
	if addr := os.Getenv("REDIS_ADDR"); addr != "" {
		client := redis.NewClient(&redis.Options{Addr: addr})
		availCache = cache.NewRedisAvailabilityCache(client)
		log.Printf("Availability cache enabled addr=%s", addr)
	}

	repo := repositories.NewSqliteAppointmentRepository(db)
	nearbyWindowDays := config.GetInt("NEARBY_WINDOW_DAYS", 2)
	cacheTTL := time.Duration(config.GetInt("AVAILABILITY_CACHE_TTL_SECONDS", 300)) * time.Second

	router := api.NewRouter(repo, geocoder, availCache, engine, nearbyWindowDays, cacheTTL)

	log.Printf("Server listening addr=:%s", port)
	srv := &http.Server{
		Addr:              ":" + port,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       60 * time.Second,
	}
	log.Fatal(srv.ListenAndServe())
}

// buildEngine assembles the scheduling engine from environment
// overrides on top of the defaults. Invalid business-hours config is a
// startup failure, never a per-request one.
func buildEngine() (*scheduling.Engine, error) {
	travelCfg := geo.DefaultConfig()
	travelCfg.AverageSpeedKmh = float64(config.GetInt("TRAVEL_SPEED_KMH", int(travelCfg.AverageSpeedKmh)))
	travelCfg.BufferMinutes = config.GetInt("TRAVEL_BUFFER_MINUTES", travelCfg.BufferMinutes)

	travel, err := geo.NewTravelEstimator(travelCfg)
	if err != nil {
		return nil, fmt.Errorf("build engine: %w", err)
	}

	cfg := scheduling.DefaultConfig()
	if v := os.Getenv("BUSINESS_OPEN"); v != "" {
		cfg.DayOpen, err = domain.ParseTimeOfDay(v)
		if err != nil {
			return nil, fmt.Errorf("build engine: BUSINESS_OPEN: %w", err)
		}
	}
	if v := os.Getenv("BUSINESS_CLOSE"); v != "" {
		cfg.DayClose, err = domain.ParseTimeOfDay(v)
		if err != nil {
			return nil, fmt.Errorf("build engine: BUSINESS_CLOSE: %w", err)
		}
	}
	if v := os.Getenv("BUSINESS_BREAKS"); v != "" {
		cfg.Breaks, err = parseBreaks(v)
		if err != nil {
			return nil, fmt.Errorf("build engine: BUSINESS_BREAKS: %w", err)
		}
	}

	return scheduling.NewEngine(cfg, travel)
}

// parseBreaks parses "12:00-12:30,15:00-15:15" into break windows.
func parseBreaks(s string) ([]scheduling.Break, error) {
	var breaks []scheduling.Break
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}

		bounds := strings.Split(part, "-")
		if len(bounds) != 2 {
			return nil, fmt.Errorf("parse breaks: %q is not HH:MM-HH:MM", part)
		}

		start, err := domain.ParseTimeOfDay(bounds[0])
		if err != nil {
			return nil, fmt.Errorf("parse breaks: %w", err)
		}
		end, err := domain.ParseTimeOfDay(bounds[1])
		if err != nil {
			return nil, fmt.Errorf("parse breaks: %w", err)
		}

		breaks = append(breaks, scheduling.Break{Start: start, End: end})
	}
	return breaks, nil
}

func openDB(dbPath string) (*sql.DB, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("openDB: open sqlite database %q: %w", dbPath, err)
	}

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("openDB: verify sqlite connection to %q: %w", dbPath, err)
	}

	return db, nil
}

func initAndSeed(db *sql.DB, seedPath string) error {
	if err := repositories.InitSchema(db); err != nil {
		return fmt.Errorf("init and seed: %w", err)
	}

	if err := repositories.SeedFromJSON(db, seedPath); err != nil {
		return fmt.Errorf("init and seed: %w", err)
	}

	return nil
}
