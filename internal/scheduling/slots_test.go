package scheduling

import (
	"testing"
	"time"

	"github.com/google/uuid"

	"fieldservice-booking/internal/domain"
	"fieldservice-booking/internal/geo"
)

func newTestEngine(t *testing.T, cfg Config) *Engine {
	t.Helper()
	travel, err := geo.NewTravelEstimator(geo.DefaultConfig())
	if err != nil {
		t.Fatalf("travel estimator: %v", err)
	}
	eng, err := NewEngine(cfg, travel)
	if err != nil {
		t.Fatalf("engine: %v", err)
	}
	return eng
}

func mustTime(t *testing.T, s string) domain.TimeOfDay {
	t.Helper()
	tod, err := domain.ParseTimeOfDay(s)
	if err != nil {
		t.Fatalf("parse %q: %v", s, err)
	}
	return tod
}

func appt(t *testing.T, start, end string, loc domain.Location) domain.ScheduledAppointment {
	t.Helper()
	s := mustTime(t, start)
	e := mustTime(t, end)
	return domain.ScheduledAppointment{
		ID:              uuid.New(),
		TechnicianID:    uuid.New(),
		Date:            time.Date(2026, 3, 9, 0, 0, 0, 0, time.UTC),
		Start:           s,
		End:             e,
		DurationMinutes: int(e - s),
		ServiceType:     domain.ServiceRepair,
		Location:        loc,
	}
}

func TestGenerateSlotsEmptyDayGrid(t *testing.T) {
	eng := newTestEngine(t, DefaultConfig())
	customer := domain.Location{Lat: 33.45, Lng: -112.07}

	slots, err := eng.generateSlots(customer, 120, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// 08:00 through 15:00 inclusive on a 30 minute grid (a 120 minute
	// job starting at 15:00 finishes exactly at close).
	if len(slots) != 15 {
		t.Fatalf("slot count = %d, want 15", len(slots))
	}
	if slots[0].Start.String() != "08:00" {
		t.Errorf("first slot = %s, want 08:00", slots[0].Start)
	}
	if slots[len(slots)-1].Start.String() != "15:00" {
		t.Errorf("last slot = %s, want 15:00", slots[len(slots)-1].Start)
	}
	for _, s := range slots {
		if s.TravelFromPrevMinutes != nil || s.TravelToNextMinutes != nil {
			t.Errorf("slot %s carries travel annotations on an empty day", s.Start)
		}
		if !s.Available {
			t.Errorf("slot %s not marked available", s.Start)
		}
	}
}

func TestGenerateSlotsSingleBlockingAppointment(t *testing.T) {
	eng := newTestEngine(t, DefaultConfig())

	// Customer at the same location as the existing 10:00-12:00 job:
	// distance 0, so travel is the 5 minute buffer alone.
	loc := domain.Location{Lat: 33.45, Lng: -112.07}
	existing := []domain.ScheduledAppointment{appt(t, "10:00", "12:00", loc)}

	slots, err := eng.generateSlots(loc, 60, existing)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	starts := map[string]domain.CandidateSlot{}
	for _, s := range slots {
		starts[s.Start.String()] = s
	}

	// 08:30 + 60 + 5 = 09:35 <= 10:00: feasible.
	// 09:00 + 60 + 5 = 10:05 >  10:00: must be excluded.
	if _, ok := starts["08:00"]; !ok {
		t.Error("expected 08:00 before-slot")
	}
	if _, ok := starts["08:30"]; !ok {
		t.Error("expected 08:30 as the last feasible before-slot")
	}
	if _, ok := starts["09:00"]; ok {
		t.Error("09:00 must be infeasible (finishes 10:05 after travel)")
	}

	before := starts["08:30"]
	if before.TravelToNextMinutes == nil || *before.TravelToNextMinutes != 5 {
		t.Errorf("before-slot travel to next = %v, want 5", before.TravelToNextMinutes)
	}
	if before.TravelFromPrevMinutes != nil {
		t.Error("before-slot must not carry inbound travel")
	}

	// After-last: earliest feasible is 12:05, aligned up to 12:30.
	if _, ok := starts["12:00"]; ok {
		t.Error("12:00 unreachable before travel from the 12:00 job ends")
	}
	after, ok := starts["12:30"]
	if !ok {
		t.Fatal("expected 12:30 after-slot")
	}
	if after.TravelFromPrevMinutes == nil || *after.TravelFromPrevMinutes != 5 {
		t.Errorf("after-slot travel from prev = %v, want 5", after.TravelFromPrevMinutes)
	}
	if after.TravelToNextMinutes != nil {
		t.Error("after-slot must not carry outbound travel")
	}
}

func TestGenerateSlotsDistantGapYieldsNothing(t *testing.T) {
	eng := newTestEngine(t, DefaultConfig())

	// A ends 10:00 roughly 20 km north of the customer, B starts 10:30
	// roughly 20 km south: ~35 minutes travel each way, so the gap's
	// latest feasible start precedes its earliest.
	customer := domain.Location{Lat: 33.0, Lng: -112.0}
	north := domain.Location{Lat: 33.18, Lng: -112.0}
	south := domain.Location{Lat: 32.82, Lng: -112.0}

	existing := []domain.ScheduledAppointment{
		appt(t, "08:00", "10:00", north),
		appt(t, "10:30", "16:30", south),
	}

	slots, err := eng.generateSlots(customer, 30, existing)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	for _, s := range slots {
		if s.Start >= mustTime(t, "10:00") && s.Start < mustTime(t, "10:30") {
			t.Errorf("gap slot %s should be infeasible", s.Start)
		}
	}
}

func TestGenerateSlotsExcludesBreaks(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Breaks = []Break{{Start: mustTime(t, "12:00"), End: mustTime(t, "12:30")}}
	eng := newTestEngine(t, cfg)

	slots, err := eng.generateSlots(domain.Location{Lat: 33.45, Lng: -112.07}, 60, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	for _, s := range slots {
		end := s.Start.Add(60)
		if s.Start < mustTime(t, "12:30") && end > mustTime(t, "12:00") {
			t.Errorf("slot %s overlaps the 12:00-12:30 break", s.Start)
		}
	}
	// 11:30 and 12:00 both collide with the break for a 60 minute job;
	// 11:00 and 12:30 do not.
	found := map[string]bool{}
	for _, s := range slots {
		found[s.Start.String()] = true
	}
	if found["11:30"] || found["12:00"] {
		t.Error("break-overlapping slots present")
	}
	if !found["11:00"] || !found["12:30"] {
		t.Error("slots adjacent to the break missing")
	}
}

func TestGenerateSlotsSortsDefensively(t *testing.T) {
	eng := newTestEngine(t, DefaultConfig())
	loc := domain.Location{Lat: 33.45, Lng: -112.07}

	first := appt(t, "09:00", "10:00", loc)
	second := appt(t, "13:00", "14:00", loc)

	ordered, err := eng.generateSlots(loc, 60, []domain.ScheduledAppointment{first, second})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	shuffled, err := eng.generateSlots(loc, 60, []domain.ScheduledAppointment{second, first})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(ordered) != len(shuffled) {
		t.Fatalf("slot counts differ: %d vs %d", len(ordered), len(shuffled))
	}
	for i := range ordered {
		if ordered[i].Start != shuffled[i].Start {
			t.Fatalf("slot %d differs: %s vs %s", i, ordered[i].Start, shuffled[i].Start)
		}
	}
}

func TestGenerateSlotsFeasibilitySoundness(t *testing.T) {
	eng := newTestEngine(t, DefaultConfig())

	customer := domain.Location{Lat: 33.50, Lng: -112.00}
	existing := []domain.ScheduledAppointment{
		appt(t, "09:00", "10:00", domain.Location{Lat: 33.48, Lng: -112.05}),
		appt(t, "12:30", "13:30", domain.Location{Lat: 33.55, Lng: -111.95}),
		appt(t, "15:00", "16:00", domain.Location{Lat: 33.42, Lng: -112.10}),
	}
	duration := 60

	slots, err := eng.generateSlots(customer, duration, existing)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(slots) == 0 {
		t.Fatal("expected at least one feasible slot")
	}

	sorted := domain.SortedByStart(existing)
	for _, s := range slots {
		// Neighbor before: latest appointment ending at or before the slot.
		// Neighbor after: earliest appointment starting after the slot.
		for _, a := range sorted {
			if a.Start > s.Start {
				travelOut, err := eng.travel.Minutes(customer, a.Location)
				if err != nil {
					t.Fatalf("travel: %v", err)
				}
				if s.Start.Add(duration+travelOut) > a.Start {
					t.Errorf("slot %s cannot reach appointment at %s in time", s.Start, a.Start)
				}
				break
			}
		}
		for i := len(sorted) - 1; i >= 0; i-- {
			a := sorted[i]
			if a.Start <= s.Start {
				travelIn, err := eng.travel.Minutes(a.Location, customer)
				if err != nil {
					t.Fatalf("travel: %v", err)
				}
				if a.End.Add(travelIn) > s.Start {
					t.Errorf("slot %s unreachable from appointment ending %s", s.Start, a.End)
				}
				break
			}
		}
	}
}

func TestGenerateSlotsRejectsInvalidCustomer(t *testing.T) {
	eng := newTestEngine(t, DefaultConfig())
	if _, err := eng.generateSlots(domain.Location{Lat: 95, Lng: 0}, 60, nil); err == nil {
		t.Fatal("expected error for out-of-range latitude")
	}
}
