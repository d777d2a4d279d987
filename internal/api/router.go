package api

import (
	"net/http"
	"time"

	"fieldservice-booking/internal/api/handlers"
	"fieldservice-booking/internal/ports"
	"fieldservice-booking/internal/scheduling"
)

// NewRouter wires HTTP handlers with their dependencies and returns an
// http.Handler. This is the API composition root (handlers stay
// unaware of concrete adapters). availCache may be nil when no cache
// backend is configured.
func NewRouter(
	repo ports.AppointmentRepository,
	geocoder ports.Geocoder,
	availCache ports.AvailabilityCache,
	engine *scheduling.Engine,
	nearbyWindowDays int,
	cacheTTL time.Duration,
) http.Handler {
	mux := http.NewServeMux()

	apptHandler := &handlers.AppointmentHandler{
		Repo:     repo,
		Geocoder: geocoder,
		Cache:    availCache,
	}
	availHandler := &handlers.AvailabilityHandler{
		Repo:             repo,
		Geocoder:         geocoder,
		Cache:            availCache,
		Engine:           engine,
		NearbyWindowDays: nearbyWindowDays,
		CacheTTL:         cacheTTL,
	}

	mux.HandleFunc("/health", handlers.Health)
	mux.HandleFunc("/appointments", apptHandler.Handle)
	mux.HandleFunc("/availability", availHandler.Day)
	mux.HandleFunc("/availability/range", availHandler.Range)

	return loggingMiddleware(mux)
}
