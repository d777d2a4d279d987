package ports

import (
	"context"
	"time"

	"github.com/google/uuid"

	"fieldservice-booking/internal/domain"
)

// Port: cache for computed day availability. Availability is cheap to
// compute but hot days are requested repeatedly while customers pick a
// time; a short TTL plus booking-time invalidation keeps answers fresh.
type AvailabilityCache interface {
	// Key builds the cache key for one availability request. The key
	// scheme belongs to the implementation; callers treat it opaquely.
	Key(technicianID uuid.UUID, date time.Time, durationMinutes int, loc domain.Location) string

	// Get returns the cached availability for key, or nil on a miss.
	Get(ctx context.Context, key string) (*domain.DayAvailability, error)

	// Put stores availability under key for the given TTL.
	Put(ctx context.Context, key string, day domain.DayAvailability, ttl time.Duration) error

	// InvalidateDay drops every cached entry for a technician-day,
	// regardless of the requesting customer's location or duration.
	InvalidateDay(ctx context.Context, technicianID uuid.UUID, date time.Time) error
}
