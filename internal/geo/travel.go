package geo

import (
	"errors"
	"fmt"
	"math"

	"fieldservice-booking/internal/domain"
)

// Config holds the travel estimation constants. The values are
// business-tunable approximations, not measurements: there is no live
// traffic data behind them.
type Config struct {
	// Assumed average driving speed between stops.
	AverageSpeedKmh float64
	// Flat parking/setup allowance added to every leg.
	BufferMinutes int
}

// DefaultConfig returns the production defaults: 40 km/h average speed
// and a 5 minute per-leg buffer.
func DefaultConfig() Config {
	return Config{AverageSpeedKmh: 40, BufferMinutes: 5}
}

// TravelEstimator converts distances into estimated driving durations.
// It is a pure computation and safe for concurrent use.
type TravelEstimator struct {
	cfg Config
}

func NewTravelEstimator(cfg Config) (*TravelEstimator, error) {
	if cfg.AverageSpeedKmh <= 0 {
		return nil, fmt.Errorf("travel estimator: average speed must be positive, got %v", cfg.AverageSpeedKmh)
	}
	if cfg.BufferMinutes < 0 {
		return nil, errors.New("travel estimator: buffer minutes must not be negative")
	}
	return &TravelEstimator{cfg: cfg}, nil
}

// MinutesForDistance converts a distance in kilometers to estimated
// travel minutes: driving time at the configured average speed,
// rounded up, plus the fixed buffer.
func (e *TravelEstimator) MinutesForDistance(distanceKm float64) int {
	driving := int(math.Ceil(distanceKm / e.cfg.AverageSpeedKmh * 60))
	return driving + e.cfg.BufferMinutes
}

// Minutes estimates travel time between two locations.
func (e *TravelEstimator) Minutes(from, to domain.Location) (int, error) {
	km, err := Distance(from, to)
	if err != nil {
		return 0, fmt.Errorf("travel minutes: %w", err)
	}
	return e.MinutesForDistance(km), nil
}
