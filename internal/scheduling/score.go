package scheduling

import (
	"fmt"

	"fieldservice-booking/internal/domain"
	"fieldservice-booking/internal/geo"
)

// scoreSlot rates a slot with explicit travel annotations: each
// incurred travel minute costs TravelPenaltyPerMinute points off 100,
// clamped to [MinSlotScore, 100]. Monotonic and reproducible so the
// rating can be audited against the inputs.
func (e *Engine) scoreSlot(slot domain.CandidateSlot) int {
	total := 0
	if slot.TravelFromPrevMinutes != nil {
		total += *slot.TravelFromPrevMinutes
	}
	if slot.TravelToNextMinutes != nil {
		total += *slot.TravelToNextMinutes
	}

	score := 100 - total*e.cfg.TravelPenaltyPerMinute
	if score < e.cfg.MinSlotScore {
		score = e.cfg.MinSlotScore
	}
	if score > 100 {
		score = 100
	}
	return score
}

// scoreEmptyDay rates a day that has no committed appointments yet.
// With bookings on surrounding days, the mean distance from the
// customer to that nearby work maps onto fixed bands, softly steering
// new bookings toward geographic clusters. With no nearby work at all
// there is nothing to penalize against: the day scores 100.
func (e *Engine) scoreEmptyDay(
	customer domain.Location,
	nearby []domain.ScheduledAppointment,
) (int, error) {
	if len(nearby) == 0 {
		return 100, nil
	}

	sum := 0.0
	for _, appt := range nearby {
		km, err := geo.Distance(customer, appt.Location)
		if err != nil {
			return 0, fmt.Errorf("score empty day: appointment %s: %w", appt.ID, err)
		}
		sum += km
	}
	mean := sum / float64(len(nearby))

	for _, band := range e.cfg.DistanceBands {
		if mean <= band.MaxKm {
			return band.Score, nil
		}
	}
	return e.cfg.EmptyDayFloorScore, nil
}
