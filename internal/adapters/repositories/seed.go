package repositories

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"

	"fieldservice-booking/internal/domain"
)

type AppointmentSeed struct {
	AppointmentID   string  `json:"appointment_id"`
	TechnicianID    string  `json:"technician_id"`
	Date            string  `json:"date"`
	StartTime       string  `json:"start_time"`
	DurationMinutes int     `json:"duration_minutes"`
	ServiceType     string  `json:"service_type"`
	Address         string  `json:"address"`
	PostalCode      string  `json:"postal_code"`
	Lat             float64 `json:"lat"`
	Lng             float64 `json:"lng"`
}

// loadSeedFile parses and validates demo booking data shared by the
// SQLite and Postgres seeders. Missing appointment IDs are generated.
func loadSeedFile(jsonPath string) ([]domain.ScheduledAppointment, error) {
	bytes, err := os.ReadFile(jsonPath)
	if err != nil {
		return nil, fmt.Errorf("seed appointments: read %q: %w", jsonPath, err)
	}

	var data []AppointmentSeed
	if err := json.Unmarshal(bytes, &data); err != nil {
		return nil, fmt.Errorf("seed appointments: parse json: %w", err)
	}

	appts := make([]domain.ScheduledAppointment, 0, len(data))
	for i, item := range data {
		id := uuid.New()
		if strings.TrimSpace(item.AppointmentID) != "" {
			id, err = uuid.Parse(item.AppointmentID)
			if err != nil {
				return nil, fmt.Errorf("seed appointments: appointment_id at index %d: %w", i, err)
			}
		}

		techID, err := uuid.Parse(item.TechnicianID)
		if err != nil {
			return nil, fmt.Errorf("seed appointments: technician_id at index %d: %w", i, err)
		}

		date, err := time.ParseInLocation(dayFormat, item.Date, time.UTC)
		if err != nil {
			return nil, fmt.Errorf("seed appointments: date at index %d: %w", i, err)
		}

		start, err := domain.ParseTimeOfDay(item.StartTime)
		if err != nil {
			return nil, fmt.Errorf("seed appointments: start_time at index %d: %w", i, err)
		}

		if item.DurationMinutes <= 0 {
			return nil, fmt.Errorf("seed appointments: invalid duration at index %d: %d", i, item.DurationMinutes)
		}

		loc := domain.Location{
			Lat:        item.Lat,
			Lng:        item.Lng,
			Address:    strings.TrimSpace(item.Address),
			PostalCode: strings.TrimSpace(item.PostalCode),
		}
		if err := loc.Validate(); err != nil {
			return nil, fmt.Errorf("seed appointments: location at index %d: %w", i, err)
		}

		appts = append(appts, domain.ScheduledAppointment{
			ID:              id,
			TechnicianID:    techID,
			Date:            date,
			Start:           start,
			End:             start.Add(item.DurationMinutes),
			DurationMinutes: item.DurationMinutes,
			ServiceType:     domain.ServiceType(item.ServiceType),
			Location:        loc,
		})
	}

	return appts, nil
}
