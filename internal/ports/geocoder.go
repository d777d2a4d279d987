package ports

import (
	"context"

	"fieldservice-booking/internal/domain"
)

// Contract for resolving a free-text address into coordinates.
// The scheduler core assumes geocoding already happened; only the
// HTTP handlers reach through this port.
type Geocoder interface {
	Geocode(ctx context.Context, address string) (domain.Location, error)
}
