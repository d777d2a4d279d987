package scheduling

import (
	"math"
	"sort"

	"fieldservice-booking/internal/domain"
)

// Fraction of the inbound travel estimate quoted to the customer as
// arrival uncertainty.
const arrivalVarianceFactor = 0.2

// selectRecommendations picks the start times to surface in the
// booking UI: every slot scoring at or above the recommend threshold,
// backfilled from the next tier down until the quota is met or slots
// run out. Returned best first; ties go to the earlier start so the
// output is deterministic.
func (e *Engine) selectRecommendations(slots []domain.CandidateSlot) []domain.TimeOfDay {
	ranked := make([]domain.CandidateSlot, len(slots))
	copy(ranked, slots)
	sort.SliceStable(ranked, func(i, j int) bool {
		if ranked[i].EfficiencyScore != ranked[j].EfficiencyScore {
			return ranked[i].EfficiencyScore > ranked[j].EfficiencyScore
		}
		return ranked[i].Start < ranked[j].Start
	})

	recommended := make([]domain.TimeOfDay, 0, e.cfg.MaxRecommendations)
	for _, s := range ranked {
		if len(recommended) == e.cfg.MaxRecommendations {
			return recommended
		}
		if s.EfficiencyScore >= e.cfg.RecommendThreshold {
			recommended = append(recommended, s.Start)
		}
	}

	for _, s := range ranked {
		if len(recommended) == e.cfg.MaxRecommendations {
			break
		}
		if s.EfficiencyScore >= e.cfg.BackfillThreshold && s.EfficiencyScore < e.cfg.RecommendThreshold {
			recommended = append(recommended, s.Start)
		}
	}

	return recommended
}

// arrivalWindow derives the customer-facing earliest/latest arrival
// estimate for a slot. Slots with an inbound travel estimate scale
// their uncertainty with it; otherwise a fixed default applies.
func (e *Engine) arrivalWindow(slot domain.CandidateSlot) domain.ArrivalWindow {
	variance := e.cfg.DefaultArrivalVarianceMinutes
	if slot.TravelFromPrevMinutes != nil {
		variance = int(math.Ceil(float64(*slot.TravelFromPrevMinutes) * arrivalVarianceFactor))
	}

	earliest := slot.Start.Add(-variance)
	if earliest < 0 {
		earliest = 0
	}

	return domain.ArrivalWindow{
		Earliest: earliest,
		Latest:   slot.Start.Add(variance),
	}
}

// dayScore is the rounded arithmetic mean of all feasible slot scores,
// 0 when the day has none.
func dayScore(slots []domain.CandidateSlot) int {
	if len(slots) == 0 {
		return 0
	}
	sum := 0
	for _, s := range slots {
		sum += s.EfficiencyScore
	}
	return int(math.Round(float64(sum) / float64(len(slots))))
}
