package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"fieldservice-booking/internal/domain"
)

const dayFormat = "2006-01-02"

// SQLite-backed implementation of the AppointmentRepository port.
type SqliteAppointmentRepository struct{ DB *sql.DB }

func NewSqliteAppointmentRepository(db *sql.DB) *SqliteAppointmentRepository {
	return &SqliteAppointmentRepository{DB: db}
}

// Return a technician's committed appointments for one calendar day.
func (s *SqliteAppointmentRepository) ListForDay(
	ctx context.Context,
	technicianID uuid.UUID,
	date time.Time,
) ([]domain.ScheduledAppointment, error) {
	if s.DB == nil {
		return nil, errors.New("sqlite appointment repository: DB is nil")
	}

	query := `
	SELECT
		appointment_id,
		technician_id,
		day,
		start_minutes,
		end_minutes,
		duration_minutes,
		service_type,
		address,
		postal_code,
		lat,
		lng
	FROM appointments
	WHERE technician_id = ? AND day = ?
	ORDER BY start_minutes;
	`
	rows, err := s.DB.QueryContext(ctx, query, technicianID.String(), date.Format(dayFormat))
	if err != nil {
		return nil, fmt.Errorf("list appointments for day: query appointments table: %w", err)
	}
	defer rows.Close()

	return scanAppointments(rows)
}

// Return the technician's appointments within windowDays of date,
// excluding date itself.
func (s *SqliteAppointmentRepository) ListNearby(
	ctx context.Context,
	technicianID uuid.UUID,
	date time.Time,
	windowDays int,
) ([]domain.ScheduledAppointment, error) {
	if s.DB == nil {
		return nil, errors.New("sqlite appointment repository: DB is nil")
	}
	if windowDays < 0 {
		return nil, fmt.Errorf("list nearby appointments: window days must not be negative, got %d", windowDays)
	}

	day := date.Format(dayFormat)
	from := date.AddDate(0, 0, -windowDays).Format(dayFormat)
	to := date.AddDate(0, 0, windowDays).Format(dayFormat)

	query := `
	SELECT
		appointment_id,
		technician_id,
		day,
		start_minutes,
		end_minutes,
		duration_minutes,
		service_type,
		address,
		postal_code,
		lat,
		lng
	FROM appointments
	WHERE technician_id = ?
		AND day BETWEEN ? AND ?
		AND day != ?
	ORDER BY day, start_minutes;
	`
	rows, err := s.DB.QueryContext(ctx, query, technicianID.String(), from, to, day)
	if err != nil {
		return nil, fmt.Errorf("list nearby appointments: query appointments table: %w", err)
	}
	defer rows.Close()

	return scanAppointments(rows)
}

// Persist a confirmed booking.
func (s *SqliteAppointmentRepository) Create(ctx context.Context, appt domain.ScheduledAppointment) error {
	if s.DB == nil {
		return errors.New("sqlite appointment repository: DB is nil")
	}

	query := `
	INSERT INTO appointments (
		appointment_id,
		technician_id,
		day,
		start_minutes,
		end_minutes,
		duration_minutes,
		service_type,
		address,
		postal_code,
		lat,
		lng
	)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?);
	`
	_, err := s.DB.ExecContext(ctx, query,
		appt.ID.String(),
		appt.TechnicianID.String(),
		appt.Date.Format(dayFormat),
		int(appt.Start),
		int(appt.End),
		appt.DurationMinutes,
		string(appt.ServiceType),
		appt.Location.Address,
		appt.Location.PostalCode,
		appt.Location.Lat,
		appt.Location.Lng,
	)
	if err != nil {
		return fmt.Errorf("create appointment %s: %w", appt.ID, err)
	}

	return nil
}

func scanAppointments(rows *sql.Rows) ([]domain.ScheduledAppointment, error) {
	appts := make([]domain.ScheduledAppointment, 0, 16)
	for rows.Next() {
		var (
			idStr, techStr, day, serviceType string
			startMin, endMin, durationMin    int
			address, postalCode              string
			lat, lng                         float64
		)
		if err := rows.Scan(
			&idStr, &techStr, &day,
			&startMin, &endMin, &durationMin,
			&serviceType, &address, &postalCode, &lat, &lng,
		); err != nil {
			return nil, fmt.Errorf("scan appointment row: %w", err)
		}

		id, err := uuid.Parse(idStr)
		if err != nil {
			return nil, fmt.Errorf("scan appointment row: appointment_id %q: %w", idStr, err)
		}
		techID, err := uuid.Parse(techStr)
		if err != nil {
			return nil, fmt.Errorf("scan appointment row: technician_id %q: %w", techStr, err)
		}
		date, err := time.ParseInLocation(dayFormat, day, time.UTC)
		if err != nil {
			return nil, fmt.Errorf("scan appointment row: day %q: %w", day, err)
		}

		appts = append(appts, domain.ScheduledAppointment{
			ID:              id,
			TechnicianID:    techID,
			Date:            date,
			Start:           domain.TimeOfDay(startMin),
			End:             domain.TimeOfDay(endMin),
			DurationMinutes: durationMin,
			ServiceType:     domain.ServiceType(serviceType),
			Location: domain.Location{
				Lat:        lat,
				Lng:        lng,
				Address:    address,
				PostalCode: postalCode,
			},
		})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("appointment row iteration: %w", err)
	}

	return appts, nil
}
