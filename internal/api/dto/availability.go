package dto

type AvailabilityRequest struct {
	TechnicianID    string   `json:"technician_id"`
	Date            string   `json:"date"`
	DurationMinutes int      `json:"duration_minutes"`
	Address         string   `json:"address"`
	Lat             *float64 `json:"lat"`
	Lng             *float64 `json:"lng"`
}

type RangeAvailabilityRequest struct {
	AvailabilityRequest
	Days int `json:"days"`
}

type ArrivalWindowResponse struct {
	Earliest string `json:"earliest"`
	Latest   string `json:"latest"`
}

type SlotResponse struct {
	StartTime             string                `json:"start_time"`
	Available             bool                  `json:"available"`
	TravelFromPrevMinutes *int                  `json:"travel_from_previous_minutes,omitempty"`
	TravelToNextMinutes   *int                  `json:"travel_to_next_minutes,omitempty"`
	EfficiencyScore       int                   `json:"efficiency_score"`
	ArrivalWindow         ArrivalWindowResponse `json:"arrival_window"`
}

type DayAvailabilityResponse struct {
	Date                  string         `json:"date"`
	Slots                 []SlotResponse `json:"slots"`
	RecommendedStartTimes []string       `json:"recommended_start_times"`
	DayEfficiencyScore    int            `json:"day_efficiency_score"`
}

type RangeAvailabilityResponse struct {
	Days []DayAvailabilityResponse `json:"days"`
}
