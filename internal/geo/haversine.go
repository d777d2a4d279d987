package geo

import (
	"fmt"
	"math"

	"fieldservice-booking/internal/domain"
)

const earthRadiusKm = 6371.0

func degreesToRadians(degrees float64) float64 {
	return degrees * math.Pi / 180
}

// Distance returns the great-circle distance between two locations in
// kilometers, computed with the Haversine formula. Coordinates outside
// their valid ranges yield domain.ErrInvalidCoordinate.
func Distance(a, b domain.Location) (float64, error) {
	if err := a.Validate(); err != nil {
		return 0, fmt.Errorf("distance: origin: %w", err)
	}
	if err := b.Validate(); err != nil {
		return 0, fmt.Errorf("distance: destination: %w", err)
	}

	lat1 := degreesToRadians(a.Lat)
	lat2 := degreesToRadians(b.Lat)
	deltaLat := degreesToRadians(b.Lat - a.Lat)
	deltaLng := degreesToRadians(b.Lng - a.Lng)

	h := math.Pow(math.Sin(deltaLat/2), 2) +
		math.Cos(lat1)*math.Cos(lat2)*math.Pow(math.Sin(deltaLng/2), 2)

	c := 2 * math.Atan2(math.Sqrt(h), math.Sqrt(1-h))

	return earthRadiusKm * c, nil
}
