package handlers

import (
	"encoding/json"
	"log"
	"net/http"

	"fieldservice-booking/internal/domain"
	"fieldservice-booking/internal/ports"
)

func writeJSON(w http.ResponseWriter, r *http.Request, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("encode failed: method=%s path=%s err=%v", r.Method, r.URL.Path, err)
	}
}

func writeError(w http.ResponseWriter, r *http.Request, status int, msg string) {
	writeJSON(w, r, status, map[string]string{"error": msg})
}

// resolveLocation turns request location fields into coordinates:
// explicit lat/lng wins, otherwise the address is geocoded. On failure
// the error response has already been written and ok is false.
func resolveLocation(
	w http.ResponseWriter,
	r *http.Request,
	geocoder ports.Geocoder,
	address string,
	lat, lng *float64,
) (domain.Location, bool) {
	if lat != nil && lng != nil {
		loc := domain.Location{Lat: *lat, Lng: *lng, Address: address}
		if err := loc.Validate(); err != nil {
			writeError(w, r, http.StatusBadRequest, "invalid coordinates")
			return domain.Location{}, false
		}
		return loc, true
	}

	if address == "" {
		writeError(w, r, http.StatusBadRequest, "address or lat/lng is required")
		return domain.Location{}, false
	}
	if geocoder == nil {
		writeError(w, r, http.StatusBadRequest, "geocoding unavailable; supply lat/lng")
		return domain.Location{}, false
	}

	loc, err := geocoder.Geocode(r.Context(), address)
	if err != nil {
		log.Printf("geocode failed: %v", err)
		writeError(w, r, http.StatusBadGateway, "could not resolve address")
		return domain.Location{}, false
	}

	return loc, true
}
