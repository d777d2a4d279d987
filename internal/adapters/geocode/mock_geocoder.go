package geocode

import (
	"context"
	"fmt"

	"fieldservice-booking/internal/domain"
)

// MockGeocoder resolves addresses from a fixed table. Used in tests
// and local runs without a geocoding API key.
type MockGeocoder struct {
	m map[string]domain.Location
}

func NewMockGeocoder(locations map[string]domain.Location) *MockGeocoder {
	m := make(map[string]domain.Location, len(locations))
	for addr, loc := range locations {
		m[addr] = loc
	}
	return &MockGeocoder{m: m}
}

func (g *MockGeocoder) Geocode(ctx context.Context, address string) (domain.Location, error) {
	loc, ok := g.m[address]
	if !ok {
		return domain.Location{}, fmt.Errorf("mock geocoder: no entry for %q", address)
	}
	return loc, nil
}
