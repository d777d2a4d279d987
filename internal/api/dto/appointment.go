package dto

type CreateAppointmentRequest struct {
	TechnicianID    string   `json:"technician_id"`
	Date            string   `json:"date"`
	StartTime       string   `json:"start_time"`
	DurationMinutes int      `json:"duration_minutes"`
	ServiceType     string   `json:"service_type"`
	Address         string   `json:"address"`
	PostalCode      string   `json:"postal_code"`
	Lat             *float64 `json:"lat"`
	Lng             *float64 `json:"lng"`
}

type AppointmentResponse struct {
	AppointmentID   string  `json:"appointment_id"`
	TechnicianID    string  `json:"technician_id"`
	Date            string  `json:"date"`
	StartTime       string  `json:"start_time"`
	EndTime         string  `json:"end_time"`
	DurationMinutes int     `json:"duration_minutes"`
	ServiceType     string  `json:"service_type"`
	Address         string  `json:"address"`
	PostalCode      string  `json:"postal_code"`
	Lat             float64 `json:"lat"`
	Lng             float64 `json:"lng"`
}

type ListAppointmentsResponse struct {
	Appointments []AppointmentResponse `json:"appointments"`
}
