package geocode

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"strings"
	"time"

	"fieldservice-booking/internal/domain"
	"fieldservice-booking/internal/platform/obs"
)

// PeliasGeocoder resolves free-text addresses against a
// Pelias-compatible geocoding API (geocode.earth, a self-hosted
// instance, or any service speaking /v1/search).
//
// It coordinates:
//   - Address normalization
//   - Persistent coordinate caching
//   - External API calls with retry/backoff
//
// The geocoder is safe for concurrent use.
type PeliasGeocoder struct {
	session *http.Client
	apiKey  string
	baseURL string
	cache   *SqliteCoordinateCache
}

func NewPeliasGeocoder(apiKey, baseURL string, cache *SqliteCoordinateCache) (*PeliasGeocoder, error) {
	if strings.TrimSpace(apiKey) == "" {
		return nil, errors.New("geocoder api key is empty")
	}
	if strings.TrimSpace(baseURL) == "" {
		baseURL = "https://api.geocode.earth"
	}

	return &PeliasGeocoder{
		session: &http.Client{Timeout: 10 * time.Second},
		apiKey:  apiKey,
		baseURL: strings.TrimRight(baseURL, "/"),
		cache:   cache,
	}, nil
}

// normalize ensures consistent cache keys by collapsing whitespace.
func (g *PeliasGeocoder) normalize(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

type searchResponse struct {
	Features []struct {
		Geometry struct {
			Coordinates []float64 `json:"coordinates"`
		} `json:"geometry"`
		Properties struct {
			PostalCode string `json:"postalcode"`
		} `json:"properties"`
	} `json:"features"`
}

// Geocode resolves one address to coordinates, consulting the
// persistent cache before issuing an external API call.
func (g *PeliasGeocoder) Geocode(ctx context.Context, address string) (_ domain.Location, err error) {
	defer obs.Time(ctx, "geocode.Geocode")(&err)

	norm := g.normalize(address)
	if norm == "" {
		return domain.Location{}, errors.New("geocode: address must be non-empty")
	}

	if g.cache != nil {
		loc, ok, err := g.cache.Get(ctx, norm)
		if err != nil {
			return domain.Location{}, fmt.Errorf("geocode cache lookup %q: %w", norm, err)
		}
		if ok {
			return loc, nil
		}
	}

	endpoint := g.baseURL + "/v1/search"
	resp, err := g.doWithRetry(ctx, func() (*http.Request, error) {
		req, err := g.newRequest(ctx, http.MethodGet, endpoint, nil)
		if err != nil {
			return nil, err
		}
		q := req.URL.Query()
		q.Set("text", norm)
		q.Set("size", "1")
		req.URL.RawQuery = q.Encode()
		return req, nil
	})
	if err != nil {
		return domain.Location{}, fmt.Errorf("geocode %q: %w", norm, err)
	}
	defer resp.Body.Close()

	var decoded searchResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return domain.Location{}, fmt.Errorf("geocode %q: decode response: %w", norm, err)
	}

	if len(decoded.Features) == 0 {
		return domain.Location{}, fmt.Errorf("geocode %q: no results", norm)
	}

	coords := decoded.Features[0].Geometry.Coordinates
	if len(coords) != 2 {
		return domain.Location{}, fmt.Errorf("geocode %q: invalid coordinate format", norm)
	}

	loc := domain.Location{
		Lat:        coords[1],
		Lng:        coords[0],
		Address:    norm,
		PostalCode: decoded.Features[0].Properties.PostalCode,
	}
	if err := loc.Validate(); err != nil {
		return domain.Location{}, fmt.Errorf("geocode %q: %w", norm, err)
	}

	if g.cache != nil {
		if err := g.cache.Put(ctx, norm, loc); err != nil {
			log.Printf("geocode cache write failed: %v", err)
		}
	}

	return loc, nil
}
