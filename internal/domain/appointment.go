package domain

import (
	"sort"
	"time"

	"github.com/google/uuid"
)

// Category of field-service work performed at an appointment.
type ServiceType string

const (
	ServiceInstallation ServiceType = "installation"
	ServiceRepair       ServiceType = "repair"
	ServiceMaintenance  ServiceType = "maintenance"
	ServiceInspection   ServiceType = "inspection"
)

// A committed booking on a technician's calendar for one day.
// Read-only input to the scheduler; mutation happens in the
// persistence layer, never here.
type ScheduledAppointment struct {
	ID              uuid.UUID
	TechnicianID    uuid.UUID
	Date            time.Time // calendar day, time component ignored
	Start           TimeOfDay
	End             TimeOfDay
	DurationMinutes int
	ServiceType     ServiceType
	Location        Location
}

// SortedByStart returns a copy of the appointments ordered ascending
// by start time. The scheduler never assumes the caller pre-sorted
// its input, so this runs on every request.
func SortedByStart(appts []ScheduledAppointment) []ScheduledAppointment {
	out := make([]ScheduledAppointment, len(appts))
	copy(out, appts)
	sort.SliceStable(out, func(i, j int) bool { return out[i].Start < out[j].Start })
	return out
}
