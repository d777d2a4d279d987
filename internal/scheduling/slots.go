package scheduling

import (
	"fmt"

	"fieldservice-booking/internal/domain"
)

// generateSlots enumerates every grid-aligned start time at which a
// service of durationMinutes can run for the given customer without
// colliding with, or being unreachable from, the day's committed
// appointments.
//
// The day splits into segments: before the first appointment, the gap
// between each consecutive pair, and after the last. A gap whose
// latest feasible start precedes its earliest contributes no slots;
// that is an empty range, not an error.
func (e *Engine) generateSlots(
	customer domain.Location,
	durationMinutes int,
	appts []domain.ScheduledAppointment,
) ([]domain.CandidateSlot, error) {
	if err := customer.Validate(); err != nil {
		return nil, fmt.Errorf("generate slots: customer location: %w", err)
	}

	step := e.cfg.SlotIntervalMinutes
	lastStart := e.cfg.DayClose.Add(-durationMinutes)
	if lastStart < e.cfg.DayOpen {
		return []domain.CandidateSlot{}, nil
	}

	sorted := domain.SortedByStart(appts)

	slots := []domain.CandidateSlot{}
	add := func(start domain.TimeOfDay, fromPrev, toNext *int) {
		if e.insideBreak(start, durationMinutes) {
			return
		}
		slots = append(slots, domain.CandidateSlot{
			Start:                 start,
			Available:             true,
			TravelFromPrevMinutes: fromPrev,
			TravelToNextMinutes:   toNext,
		})
	}

	if len(sorted) == 0 {
		// Whole business window is one open gap; every aligned start
		// that fits before close is feasible.
		for s := e.cfg.DayOpen.AlignUp(step); s <= lastStart; s = s.Add(step) {
			add(s, nil, nil)
		}
		return slots, nil
	}

	first := sorted[0]
	travelToFirst, err := e.travel.Minutes(customer, first.Location)
	if err != nil {
		return nil, fmt.Errorf("generate slots: travel to first appointment: %w", err)
	}

	// Before-first segment: must finish the job and reach the first
	// appointment before it begins.
	for s := e.cfg.DayOpen.AlignUp(step); s <= lastStart; s = s.Add(step) {
		if s.Add(durationMinutes + travelToFirst) > first.Start {
			break
		}
		toNext := travelToFirst
		add(s, nil, &toNext)
	}

	// Interior gaps between consecutive appointments.
	for i := 0; i < len(sorted)-1; i++ {
		prev, next := sorted[i], sorted[i+1]

		fromPrev, err := e.travel.Minutes(prev.Location, customer)
		if err != nil {
			return nil, fmt.Errorf("generate slots: travel from appointment %s: %w", prev.ID, err)
		}
		toNext, err := e.travel.Minutes(customer, next.Location)
		if err != nil {
			return nil, fmt.Errorf("generate slots: travel to appointment %s: %w", next.ID, err)
		}

		earliest := prev.End.Add(fromPrev)
		if earliest < e.cfg.DayOpen {
			earliest = e.cfg.DayOpen
		}
		latest := next.Start.Add(-(durationMinutes + toNext))
		if latest > lastStart {
			latest = lastStart
		}

		for s := earliest.AlignUp(step); s <= latest; s = s.Add(step) {
			in, out := fromPrev, toNext
			add(s, &in, &out)
		}
	}

	last := sorted[len(sorted)-1]
	travelFromLast, err := e.travel.Minutes(last.Location, customer)
	if err != nil {
		return nil, fmt.Errorf("generate slots: travel from last appointment: %w", err)
	}

	// After-last segment: reachable once the last appointment ends,
	// bounded only by day close.
	earliest := last.End.Add(travelFromLast)
	if earliest < e.cfg.DayOpen {
		earliest = e.cfg.DayOpen
	}
	for s := earliest.AlignUp(step); s <= lastStart; s = s.Add(step) {
		fromPrev := travelFromLast
		add(s, &fromPrev, nil)
	}

	return slots, nil
}

// insideBreak reports whether the service interval [start, start+duration)
// overlaps any configured break. A job running into a break is as
// infeasible as one starting during it.
func (e *Engine) insideBreak(start domain.TimeOfDay, durationMinutes int) bool {
	end := start.Add(durationMinutes)
	for _, b := range e.cfg.Breaks {
		if start < b.End && b.Start < end {
			return true
		}
	}
	return false
}
