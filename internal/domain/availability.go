package domain

import "time"

// Customer-facing earliest/latest technician arrival estimate for a slot.
// The spread expresses travel-time estimation uncertainty rather than
// promising minute precision.
type ArrivalWindow struct {
	Earliest TimeOfDay
	Latest   TimeOfDay
}

// A feasible appointment start time computed for one request.
// Ephemeral: built fresh per availability query, never persisted.
//
// TravelFromPrevMinutes and TravelToNextMinutes are nil when the slot
// has no committed neighbor on that side (boundary segments and
// appointment-free days).
type CandidateSlot struct {
	Start                 TimeOfDay
	Available             bool
	TravelFromPrevMinutes *int
	TravelToNextMinutes   *int
	EfficiencyScore       int
	Window                ArrivalWindow
}

// Aggregate availability result for a single technician-day.
// Slots are ordered ascending by start time; RecommendedStartTimes
// holds the selector's picks, best first.
type DayAvailability struct {
	Date                  time.Time
	Slots                 []CandidateSlot
	RecommendedStartTimes []TimeOfDay
	DayEfficiencyScore    int
}
