package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log"
	"net/http"
	"time"

	"github.com/google/uuid"

	"fieldservice-booking/internal/api/dto"
	"fieldservice-booking/internal/domain"
	"fieldservice-booking/internal/ports"
	"fieldservice-booking/internal/scheduling"
)

const dayFormat = "2006-01-02"

type AvailabilityHandler struct {
	Repo             ports.AppointmentRepository
	Geocoder         ports.Geocoder
	Cache            ports.AvailabilityCache
	Engine           *scheduling.Engine
	NearbyWindowDays int
	CacheTTL         time.Duration
}

// Day computes feasible, scored appointment slots for one
// technician-day. Cached results are served when present; otherwise
// the scheduler runs against the stored appointments and the result
// is cached for subsequent lookups.
func (h *AvailabilityHandler) Day(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", http.MethodPost)
		writeError(w, r, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	var req dto.AvailabilityRequest
	if !decodeBody(w, r, &req) {
		return
	}

	techID, date, customer, ok := h.validateRequest(w, r, req)
	if !ok {
		return
	}

	ctx := r.Context()

	var cacheKey string
	if h.Cache != nil {
		cacheKey = h.Cache.Key(techID, date, req.DurationMinutes, customer)
		cached, err := h.Cache.Get(ctx, cacheKey)
		if err != nil {
			log.Printf("availability cache read failed: %v", err)
		} else if cached != nil {
			writeJSON(w, r, http.StatusOK, toDayResponse(*cached))
			return
		}
	}

	day, err := h.compute(ctx, techID, date, customer, req.DurationMinutes)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidCoordinate) {
			writeError(w, r, http.StatusBadRequest, "invalid coordinates")
			return
		}
		log.Printf("compute availability failed: %v", err)
		writeError(w, r, http.StatusInternalServerError, "internal server error")
		return
	}

	if h.Cache != nil {
		if err := h.Cache.Put(ctx, cacheKey, day, h.CacheTTL); err != nil {
			log.Printf("availability cache write failed: %v", err)
		}
	}

	writeJSON(w, r, http.StatusOK, toDayResponse(day))
}

// Range computes availability for consecutive days starting at the
// requested date, one parallel task per day.
func (h *AvailabilityHandler) Range(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", http.MethodPost)
		writeError(w, r, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	var req dto.RangeAvailabilityRequest
	if !decodeBody(w, r, &req) {
		return
	}

	days := req.Days
	if days == 0 {
		days = 7
	}
	if days < 1 || days > 7 {
		writeError(w, r, http.StatusBadRequest, "days must be between 1 and 7")
		return
	}

	techID, start, customer, ok := h.validateRequest(w, r, req.AvailabilityRequest)
	if !ok {
		return
	}

	ctx := r.Context()

	inputs := make([]scheduling.DayInput, 0, days)
	for i := 0; i < days; i++ {
		date := start.AddDate(0, 0, i)

		existing, err := h.Repo.ListForDay(ctx, techID, date)
		if err != nil {
			log.Printf("list appointments failed: %v", err)
			writeError(w, r, http.StatusInternalServerError, "internal server error")
			return
		}

		var nearby []domain.ScheduledAppointment
		if len(existing) == 0 {
			nearby, err = h.Repo.ListNearby(ctx, techID, date, h.NearbyWindowDays)
			if err != nil {
				log.Printf("list nearby appointments failed: %v", err)
				writeError(w, r, http.StatusInternalServerError, "internal server error")
				return
			}
		}

		inputs = append(inputs, scheduling.DayInput{Date: date, Existing: existing, Nearby: nearby})
	}

	result, err := h.Engine.ComputeRangeAvailability(ctx, customer, req.DurationMinutes, inputs)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidCoordinate) {
			writeError(w, r, http.StatusBadRequest, "invalid coordinates")
			return
		}
		log.Printf("compute range availability failed: %v", err)
		writeError(w, r, http.StatusInternalServerError, "internal server error")
		return
	}

	res := dto.RangeAvailabilityResponse{Days: make([]dto.DayAvailabilityResponse, 0, len(result))}
	for _, day := range result {
		res.Days = append(res.Days, toDayResponse(day))
	}

	writeJSON(w, r, http.StatusOK, res)
}

func (h *AvailabilityHandler) compute(
	ctx context.Context,
	techID uuid.UUID,
	date time.Time,
	customer domain.Location,
	durationMinutes int,
) (domain.DayAvailability, error) {
	existing, err := h.Repo.ListForDay(ctx, techID, date)
	if err != nil {
		return domain.DayAvailability{}, err
	}

	var nearby []domain.ScheduledAppointment
	if len(existing) == 0 {
		nearby, err = h.Repo.ListNearby(ctx, techID, date, h.NearbyWindowDays)
		if err != nil {
			return domain.DayAvailability{}, err
		}
	}

	return h.Engine.ComputeDayAvailability(date, customer, durationMinutes, existing, nearby)
}

// validateRequest checks the shared request fields and resolves the
// customer location, geocoding the address when no coordinates were
// supplied. On failure it writes the error response and returns ok=false.
func (h *AvailabilityHandler) validateRequest(
	w http.ResponseWriter,
	r *http.Request,
	req dto.AvailabilityRequest,
) (uuid.UUID, time.Time, domain.Location, bool) {
	techID, err := uuid.Parse(req.TechnicianID)
	if err != nil {
		writeError(w, r, http.StatusBadRequest, "technician_id must be a valid UUID")
		return uuid.Nil, time.Time{}, domain.Location{}, false
	}

	date, err := time.ParseInLocation(dayFormat, req.Date, time.UTC)
	if err != nil {
		writeError(w, r, http.StatusBadRequest, "date must be YYYY-MM-DD")
		return uuid.Nil, time.Time{}, domain.Location{}, false
	}

	if req.DurationMinutes < 15 || req.DurationMinutes > 480 {
		writeError(w, r, http.StatusBadRequest, "duration_minutes must be between 15 and 480")
		return uuid.Nil, time.Time{}, domain.Location{}, false
	}

	customer, ok := resolveLocation(w, r, h.Geocoder, req.Address, req.Lat, req.Lng)
	if !ok {
		return uuid.Nil, time.Time{}, domain.Location{}, false
	}

	return techID, date, customer, true
}

func decodeBody(w http.ResponseWriter, r *http.Request, v any) bool {
	dec := json.NewDecoder(r.Body)
	defer r.Body.Close()
	dec.DisallowUnknownFields()

	if err := dec.Decode(v); err != nil {
		writeError(w, r, http.StatusBadRequest, "invalid json body")
		return false
	}
	if err := dec.Decode(&struct{}{}); err != io.EOF {
		writeError(w, r, http.StatusBadRequest, "body must contain only one JSON object")
		return false
	}

	return true
}

func toDayResponse(day domain.DayAvailability) dto.DayAvailabilityResponse {
	slots := make([]dto.SlotResponse, 0, len(day.Slots))
	for _, s := range day.Slots {
		slots = append(slots, dto.SlotResponse{
			StartTime:             s.Start.String(),
			Available:             s.Available,
			TravelFromPrevMinutes: s.TravelFromPrevMinutes,
			TravelToNextMinutes:   s.TravelToNextMinutes,
			EfficiencyScore:       s.EfficiencyScore,
			ArrivalWindow: dto.ArrivalWindowResponse{
				Earliest: s.Window.Earliest.String(),
				Latest:   s.Window.Latest.String(),
			},
		})
	}

	recommended := make([]string, 0, len(day.RecommendedStartTimes))
	for _, t := range day.RecommendedStartTimes {
		recommended = append(recommended, t.String())
	}

	return dto.DayAvailabilityResponse{
		Date:                  day.Date.Format(dayFormat),
		Slots:                 slots,
		RecommendedStartTimes: recommended,
		DayEfficiencyScore:    day.DayEfficiencyScore,
	}
}
