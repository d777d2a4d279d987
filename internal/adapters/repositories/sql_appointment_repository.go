package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"fieldservice-booking/internal/domain"
	"fieldservice-booking/internal/platform/obs"
)

// SQLAppointmentRepository is the Postgres implementation of the
// AppointmentRepository port, used when the service runs against a
// shared database instead of the local SQLite file.
type SQLAppointmentRepository struct{ DB *sql.DB }

func NewSQLAppointmentRepository(db *sql.DB) *SQLAppointmentRepository {
	return &SQLAppointmentRepository{DB: db}
}

func (s *SQLAppointmentRepository) ListForDay(
	ctx context.Context,
	technicianID uuid.UUID,
	date time.Time,
) (_ []domain.ScheduledAppointment, err error) {
	defer obs.Time(ctx, "appointments.ListForDay")(&err)

	if s.DB == nil {
		return nil, errors.New("sql appointment repository: DB is nil")
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
	WHERE technician_id = $1 AND day = $2
	ORDER BY start_minutes;
	`
	rows, err := s.DB.QueryContext(ctx, query, technicianID.String(), date.Format(dayFormat))
	if err != nil {
		return nil, fmt.Errorf("list appointments for day: query appointments table: %w", err)
	}
	defer rows.Close()

	return scanAppointments(rows)
}

func (s *SQLAppointmentRepository) ListNearby(
	ctx context.Context,
	technicianID uuid.UUID,
	date time.Time,
	windowDays int,
) (_ []domain.ScheduledAppointment, err error) {
	defer obs.Time(ctx, "appointments.ListNearby")(&err)

	if s.DB == nil {
		return nil, errors.New("sql appointment repository: DB is nil")
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
	WHERE technician_id = $1
		AND day BETWEEN $2 AND $3
		AND day != $4
	ORDER BY day, start_minutes;
	`
	rows, err := s.DB.QueryContext(ctx, query, technicianID.String(), from, to, day)
	if err != nil {
		return nil, fmt.Errorf("list nearby appointments: query appointments table: %w", err)
	}
	defer rows.Close()

	return scanAppointments(rows)
}

func (s *SQLAppointmentRepository) Create(ctx context.Context, appt domain.ScheduledAppointment) (err error) {
	defer obs.Time(ctx, "appointments.Create")(&err)

	if s.DB == nil {
		return errors.New("sql appointment repository: DB is nil")
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
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11);
	`
	_, err = s.DB.ExecContext(ctx, query,
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
