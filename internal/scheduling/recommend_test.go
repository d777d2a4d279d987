package scheduling

import (
	"testing"

	"fieldservice-booking/internal/domain"
)

func slotWithScore(t *testing.T, start string, score int) domain.CandidateSlot {
	t.Helper()
	return domain.CandidateSlot{
		Start:           mustTime(t, start),
		Available:       true,
		EfficiencyScore: score,
	}
}

func TestSelectRecommendationsPrefersHighScores(t *testing.T) {
	eng := newTestEngine(t, DefaultConfig())

	slots := []domain.CandidateSlot{
		slotWithScore(t, "08:00", 72),
		slotWithScore(t, "09:00", 95),
		slotWithScore(t, "10:00", 88),
		slotWithScore(t, "11:00", 80),
	}

	got := eng.selectRecommendations(slots)
	want := []string{"09:00", "10:00", "11:00"}
	if len(got) != len(want) {
		t.Fatalf("recommendation count = %d, want %d", len(got), len(want))
	}
	for i, w := range want {
		if got[i].String() != w {
			t.Errorf("recommendation %d = %s, want %s", i, got[i], w)
		}
	}
}

func TestSelectRecommendationsBackfills(t *testing.T) {
	eng := newTestEngine(t, DefaultConfig())

	// Only one slot clears 70; quota of 3 is backfilled from [50,70).
	slots := []domain.CandidateSlot{
		slotWithScore(t, "08:00", 75),
		slotWithScore(t, "09:00", 65),
		slotWithScore(t, "10:00", 55),
		slotWithScore(t, "11:00", 40), // below backfill floor, never surfaced
	}

	got := eng.selectRecommendations(slots)
	want := []string{"08:00", "09:00", "10:00"}
	if len(got) != len(want) {
		t.Fatalf("recommendation count = %d, want %d", len(got), len(want))
	}
	for i, w := range want {
		if got[i].String() != w {
			t.Errorf("recommendation %d = %s, want %s", i, got[i], w)
		}
	}
}

func TestSelectRecommendationsTieBreaksByStart(t *testing.T) {
	eng := newTestEngine(t, DefaultConfig())

	slots := []domain.CandidateSlot{
		slotWithScore(t, "14:00", 90),
		slotWithScore(t, "08:30", 90),
		slotWithScore(t, "11:00", 90),
		slotWithScore(t, "09:00", 90),
	}

	got := eng.selectRecommendations(slots)
	want := []string{"08:30", "09:00", "11:00"}
	for i, w := range want {
		if got[i].String() != w {
			t.Errorf("recommendation %d = %s, want %s", i, got[i], w)
		}
	}
}

func TestArrivalWindowVariance(t *testing.T) {
	eng := newTestEngine(t, DefaultConfig())

	// ceil(35 * 0.2) = 7 minutes either side.
	withTravel := domain.CandidateSlot{Start: mustTime(t, "10:00"), TravelFromPrevMinutes: intPtr(35)}
	w := eng.arrivalWindow(withTravel)
	if w.Earliest.String() != "09:53" || w.Latest.String() != "10:07" {
		t.Errorf("window = %s-%s, want 09:53-10:07", w.Earliest, w.Latest)
	}

	// No inbound estimate: fixed 15 minute default.
	noTravel := domain.CandidateSlot{Start: mustTime(t, "08:00")}
	w = eng.arrivalWindow(noTravel)
	if w.Earliest.String() != "07:45" || w.Latest.String() != "08:15" {
		t.Errorf("window = %s-%s, want 07:45-08:15", w.Earliest, w.Latest)
	}
}

func TestDayScoreMean(t *testing.T) {
	if got := dayScore(nil); got != 0 {
		t.Fatalf("empty day score = %d, want 0", got)
	}

	slots := []domain.CandidateSlot{
		{EfficiencyScore: 90},
		{EfficiencyScore: 80},
		{EfficiencyScore: 71},
	}
	// mean 80.33 rounds to 80
	if got := dayScore(slots); got != 80 {
		t.Fatalf("day score = %d, want 80", got)
	}
}
