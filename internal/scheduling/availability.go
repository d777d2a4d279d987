package scheduling

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"fieldservice-booking/internal/domain"
	"fieldservice-booking/internal/geo"
)

// Engine computes location-aware day availability. It holds only
// immutable configuration, performs no I/O, and is safe to invoke
// concurrently for independent technician-days.
type Engine struct {
	cfg    Config
	travel *geo.TravelEstimator
}

func NewEngine(cfg Config, travel *geo.TravelEstimator) (*Engine, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("new engine: %w", err)
	}
	if travel == nil {
		return nil, fmt.Errorf("%w: travel estimator is nil", ErrInvalidConfiguration)
	}
	return &Engine{cfg: cfg, travel: travel}, nil
}

// ComputeDayAvailability is the scheduler's single entry point: given
// a technician's committed appointments for the day and a new customer
// location, it returns every feasible grid-aligned start time, scored
// and annotated with arrival windows.
//
// nearby carries appointments from surrounding days and is consulted
// only when the target day is empty, to steer new bookings toward
// existing geographic clusters. A day with zero feasible slots is a
// valid result, not an error.
func (e *Engine) ComputeDayAvailability(
	date time.Time,
	customer domain.Location,
	serviceDurationMinutes int,
	existing []domain.ScheduledAppointment,
	nearby []domain.ScheduledAppointment,
) (domain.DayAvailability, error) {
	if serviceDurationMinutes <= 0 {
		return domain.DayAvailability{}, fmt.Errorf(
			"compute day availability: service duration must be positive, got %d",
			serviceDurationMinutes,
		)
	}

	slots, err := e.generateSlots(customer, serviceDurationMinutes, existing)
	if err != nil {
		return domain.DayAvailability{}, fmt.Errorf("compute day availability: %w", err)
	}

	if len(existing) == 0 {
		// No travel annotations exist on an empty day; every slot
		// shares the clustering score.
		score, err := e.scoreEmptyDay(customer, nearby)
		if err != nil {
			return domain.DayAvailability{}, fmt.Errorf("compute day availability: %w", err)
		}
		for i := range slots {
			slots[i].EfficiencyScore = score
		}
	} else {
		for i := range slots {
			slots[i].EfficiencyScore = e.scoreSlot(slots[i])
		}
	}

	for i := range slots {
		slots[i].Window = e.arrivalWindow(slots[i])
	}

	recommended := e.selectRecommendations(slots)

	sort.SliceStable(slots, func(i, j int) bool { return slots[i].Start < slots[j].Start })

	return domain.DayAvailability{
		Date:                  date,
		Slots:                 slots,
		RecommendedStartTimes: recommended,
		DayEfficiencyScore:    dayScore(slots),
	}, nil
}

// DayInput bundles the per-day appointment context supplied by the
// caller for a range computation.
type DayInput struct {
	Date     time.Time
	Existing []domain.ScheduledAppointment
	Nearby   []domain.ScheduledAppointment
}

type dayResult struct {
	index int
	day   domain.DayAvailability
	err   error
}

// Days computed concurrently per range request. The computation is
// CPU-bound and small, so a low bound keeps week views cheap without
// starving request handlers.
const maxConcurrentDays = 4

// ComputeRangeAvailability computes availability for several days in
// parallel, one day per task. Days are independent computations with
// no ordering dependency; results come back ordered like the input.
func (e *Engine) ComputeRangeAvailability(
	ctx context.Context,
	customer domain.Location,
	serviceDurationMinutes int,
	days []DayInput,
) ([]domain.DayAvailability, error) {
	if len(days) == 0 {
		return []domain.DayAvailability{}, nil
	}

	sem := make(chan struct{}, maxConcurrentDays)
	results := make(chan dayResult, len(days))
	var wg sync.WaitGroup

	for i, input := range days {
		wg.Add(1)
		go func(idx int, in DayInput) {
			sem <- struct{}{}
			defer wg.Done()
			defer func() { <-sem }()

			if err := ctx.Err(); err != nil {
				results <- dayResult{index: idx, err: err}
				return
			}

			day, err := e.ComputeDayAvailability(in.Date, customer, serviceDurationMinutes, in.Existing, in.Nearby)
			if err != nil {
				results <- dayResult{index: idx, err: fmt.Errorf("compute range availability: day %s: %w",
					in.Date.Format("2006-01-02"), err)}
				return
			}
			results <- dayResult{index: idx, day: day}
		}(i, input)
	}

	wg.Wait()
	close(results)

	out := make([]domain.DayAvailability, len(days))
	var firstErr error
	for res := range results {
		if res.err != nil {
			if firstErr == nil {
				firstErr = res.err
			}
			continue
		}
		out[res.index] = res.day
	}
	if firstErr != nil {
		return nil, firstErr
	}

	return out, nil
}
