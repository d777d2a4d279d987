package ports

import (
	"context"
	"time"

	"github.com/google/uuid"

	"fieldservice-booking/internal/domain"
)

// Port: boundary for reading and writing committed appointments.
// The scheduler core never queries storage itself; handlers fetch
// through this port and pass plain slices in.
type AppointmentRepository interface {
	// ListForDay returns a technician's committed appointments on one
	// calendar day, in no guaranteed order.
	ListForDay(ctx context.Context, technicianID uuid.UUID, date time.Time) ([]domain.ScheduledAppointment, error)

	// ListNearby returns the same technician's appointments within
	// windowDays calendar days of date, excluding date itself. Scoped
	// to one technician: clustering only pays off when the same van
	// drives the route.
	ListNearby(ctx context.Context, technicianID uuid.UUID, date time.Time, windowDays int) ([]domain.ScheduledAppointment, error)

	// Create persists a confirmed booking.
	Create(ctx context.Context, appt domain.ScheduledAppointment) error
}
