package handlers

import (
	"log"
	"net/http"
	"time"

	"github.com/google/uuid"

	"fieldservice-booking/internal/api/dto"
	"fieldservice-booking/internal/domain"
	"fieldservice-booking/internal/ports"
)

type AppointmentHandler struct {
	Repo     ports.AppointmentRepository
	Geocoder ports.Geocoder
	Cache    ports.AvailabilityCache
}

func (h *AppointmentHandler) Handle(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		h.list(w, r)
	case http.MethodPost:
		h.create(w, r)
	default:
		w.Header().Set("Allow", "GET, POST")
		writeError(w, r, http.StatusMethodNotAllowed, "method not allowed")
	}
}

func (h *AppointmentHandler) list(w http.ResponseWriter, r *http.Request) {
	techID, err := uuid.Parse(r.URL.Query().Get("technician_id"))
	if err != nil {
		writeError(w, r, http.StatusBadRequest, "technician_id must be a valid UUID")
		return
	}

	date, err := time.ParseInLocation(dayFormat, r.URL.Query().Get("date"), time.UTC)
	if err != nil {
		writeError(w, r, http.StatusBadRequest, "date must be YYYY-MM-DD")
		return
	}

	appts, err := h.Repo.ListForDay(r.Context(), techID, date)
	if err != nil {
		log.Printf("list appointments failed: %v", err)
		writeError(w, r, http.StatusInternalServerError, "internal server error")
		return
	}

	res := dto.ListAppointmentsResponse{Appointments: make([]dto.AppointmentResponse, 0, len(appts))}
	for _, a := range domain.SortedByStart(appts) {
		res.Appointments = append(res.Appointments, toAppointmentResponse(a))
	}

	writeJSON(w, r, http.StatusOK, res)
}

func (h *AppointmentHandler) create(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateAppointmentRequest
	if !decodeBody(w, r, &req) {
		return
	}

	techID, err := uuid.Parse(req.TechnicianID)
	if err != nil {
		writeError(w, r, http.StatusBadRequest, "technician_id must be a valid UUID")
		return
	}

	date, err := time.ParseInLocation(dayFormat, req.Date, time.UTC)
	if err != nil {
		writeError(w, r, http.StatusBadRequest, "date must be YYYY-MM-DD")
		return
	}

	start, err := domain.ParseTimeOfDay(req.StartTime)
	if err != nil {
		writeError(w, r, http.StatusBadRequest, "start_time must be HH:MM")
		return
	}

	if req.DurationMinutes < 15 || req.DurationMinutes > 480 {
		writeError(w, r, http.StatusBadRequest, "duration_minutes must be between 15 and 480")
		return
	}

	serviceType := domain.ServiceType(req.ServiceType)
	switch serviceType {
	case domain.ServiceInstallation, domain.ServiceRepair, domain.ServiceMaintenance, domain.ServiceInspection:
	default:
		writeError(w, r, http.StatusBadRequest, "service_type must be one of installation, repair, maintenance, inspection")
		return
	}

	loc, ok := resolveLocation(w, r, h.Geocoder, req.Address, req.Lat, req.Lng)
	if !ok {
		return
	}
	if req.PostalCode != "" {
		loc.PostalCode = req.PostalCode
	}

	ctx := r.Context()
	end := start.Add(req.DurationMinutes)

	existing, err := h.Repo.ListForDay(ctx, techID, date)
	if err != nil {
		log.Printf("list appointments failed: %v", err)
		writeError(w, r, http.StatusInternalServerError, "internal server error")
		return
	}
	for _, a := range existing {
		if start < a.End && a.Start < end {
			writeError(w, r, http.StatusConflict, "appointment overlaps an existing booking")
			return
		}
	}

	appt := domain.ScheduledAppointment{
		ID:              uuid.New(),
		TechnicianID:    techID,
		Date:            date,
		Start:           start,
		End:             end,
		DurationMinutes: req.DurationMinutes,
		ServiceType:     serviceType,
		Location:        loc,
	}

	if err := h.Repo.Create(ctx, appt); err != nil {
		log.Printf("create appointment failed: %v", err)
		writeError(w, r, http.StatusInternalServerError, "internal server error")
		return
	}

	// Stale availability for this technician-day must not be served
	// after a booking lands. Invalidation failure is logged, not
	// fatal: the TTL still bounds staleness.
	if h.Cache != nil {
		if err := h.Cache.InvalidateDay(ctx, techID, date); err != nil {
			log.Printf("invalidate availability cache failed: %v", err)
		}
	}

	writeJSON(w, r, http.StatusCreated, toAppointmentResponse(appt))
}

func toAppointmentResponse(a domain.ScheduledAppointment) dto.AppointmentResponse {
	return dto.AppointmentResponse{
		AppointmentID:   a.ID.String(),
		TechnicianID:    a.TechnicianID.String(),
		Date:            a.Date.Format(dayFormat),
		StartTime:       a.Start.String(),
		EndTime:         a.End.String(),
		DurationMinutes: a.DurationMinutes,
		ServiceType:     string(a.ServiceType),
		Address:         a.Location.Address,
		PostalCode:      a.Location.PostalCode,
		Lat:             a.Location.Lat,
		Lng:             a.Location.Lng,
	}
}
