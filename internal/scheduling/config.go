package scheduling

import (
	"errors"
	"fmt"

	"fieldservice-booking/internal/domain"
)

// ErrInvalidConfiguration marks a malformed business-hours setup.
// It is a startup failure: a service with bad hours never answers
// a single availability request.
var ErrInvalidConfiguration = errors.New("invalid scheduling configuration")

// Break is an interval inside the business day during which no slot
// may run (lunch, depot restock).
type Break struct {
	Start domain.TimeOfDay
	End   domain.TimeOfDay
}

// DistanceBand maps a mean distance to nearby work onto an efficiency
// score for days with no committed appointments yet.
type DistanceBand struct {
	MaxKm float64
	Score int
}

// Config carries every business-tunable constant of the scheduler.
// The numbers are policy carried over from operations, not values
// derived from first principles; treat them as configuration.
type Config struct {
	DayOpen             domain.TimeOfDay
	DayClose            domain.TimeOfDay
	SlotIntervalMinutes int
	Breaks              []Break

	// Scoring: each incurred travel minute costs TravelPenaltyPerMinute
	// points off 100, clamped to MinSlotScore.
	TravelPenaltyPerMinute int
	MinSlotScore           int

	// Empty-day clustering bands, checked in order. Mean distances
	// beyond the last band score EmptyDayFloorScore.
	DistanceBands      []DistanceBand
	EmptyDayFloorScore int

	// Recommendation selection.
	MaxRecommendations int
	RecommendThreshold int
	BackfillThreshold  int

	// Default arrival-window half-width when a slot has no inbound
	// travel estimate.
	DefaultArrivalVarianceMinutes int
}

// DefaultConfig returns the production defaults: 08:00-17:00 business
// window, 30 minute slot grid, and the scoring bands used in the field.
func DefaultConfig() Config {
	open, _ := domain.ParseTimeOfDay("08:00")
	close, _ := domain.ParseTimeOfDay("17:00")

	return Config{
		DayOpen:             open,
		DayClose:            close,
		SlotIntervalMinutes: 30,

		TravelPenaltyPerMinute: 2,
		MinSlotScore:           20,

		DistanceBands: []DistanceBand{
			{MaxKm: 5, Score: 100},
			{MaxKm: 10, Score: 80},
			{MaxKm: 20, Score: 50},
			{MaxKm: 30, Score: 30},
		},
		EmptyDayFloorScore: 20,

		MaxRecommendations: 3,
		RecommendThreshold: 70,
		BackfillThreshold:  50,

		DefaultArrivalVarianceMinutes: 15,
	}
}

// Validate rejects configurations that can never produce a coherent
// schedule. Call it once at startup; per-request validation is the
// caller's responsibility.
func (c Config) Validate() error {
	if c.DayClose <= c.DayOpen {
		return fmt.Errorf("%w: close %s must be after open %s", ErrInvalidConfiguration, c.DayClose, c.DayOpen)
	}
	if c.SlotIntervalMinutes <= 0 {
		return fmt.Errorf("%w: slot interval must be positive, got %d", ErrInvalidConfiguration, c.SlotIntervalMinutes)
	}

	for _, b := range c.Breaks {
		if b.End <= b.Start {
			return fmt.Errorf("%w: break %s-%s is empty or inverted", ErrInvalidConfiguration, b.Start, b.End)
		}
		if b.Start < c.DayOpen || b.End > c.DayClose {
			return fmt.Errorf("%w: break %s-%s outside business hours %s-%s",
				ErrInvalidConfiguration, b.Start, b.End, c.DayOpen, c.DayClose)
		}
	}

	if c.TravelPenaltyPerMinute < 0 {
		return fmt.Errorf("%w: travel penalty must not be negative", ErrInvalidConfiguration)
	}
	if c.MinSlotScore < 0 || c.MinSlotScore > 100 {
		return fmt.Errorf("%w: min slot score %d outside [0,100]", ErrInvalidConfiguration, c.MinSlotScore)
	}

	prev := 0.0
	for _, band := range c.DistanceBands {
		if band.MaxKm <= prev {
			return fmt.Errorf("%w: distance bands must be strictly increasing", ErrInvalidConfiguration)
		}
		if band.Score < 0 || band.Score > 100 {
			return fmt.Errorf("%w: band score %d outside [0,100]", ErrInvalidConfiguration, band.Score)
		}
		prev = band.MaxKm
	}

	if c.MaxRecommendations <= 0 {
		return fmt.Errorf("%w: max recommendations must be positive", ErrInvalidConfiguration)
	}
	if c.BackfillThreshold > c.RecommendThreshold {
		return fmt.Errorf("%w: backfill threshold %d above recommend threshold %d",
			ErrInvalidConfiguration, c.BackfillThreshold, c.RecommendThreshold)
	}

	return nil
}
