package dto

// Request DTOs

type BookAppointmentRequest struct {
	Department string `json:"department" validate:"omitempty"`
	Doctor     string `json:"doctor" validate:"omitempty"`
}

type UpdateStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=pending completed"`
}

// TodayAppointmentsQuery mirrors the today's-appointments screen
type TodayAppointmentsQuery struct {
	Search string `validate:"omitempty"`
	Sort   string `validate:"omitempty,oneof=pendingFirst completedFirst"`
}

// Response DTOs

type AppointmentResponse struct {
	PatientID  int64  `json:"patient_id"`
	Name       string `json:"name"`
	Mobile     string `json:"mobile"`
	Department string `json:"department"`
	Doctor     string `json:"doctor"`
	Date       string `json:"date"`
	Time       string `json:"time"`
	Status     string `json:"status"`
}

type AppointmentListResponse struct {
	Appointments []AppointmentResponse `json:"appointments"`
	Total        int                   `json:"total"`
}

type DashboardResponse struct {
	Date           string                `json:"date"`
	TodayCount     int                   `json:"today_count"`
	PendingCount   int                   `json:"pending_count"`
	CompletedCount int                   `json:"completed_count"`
	TotalPatients  int                   `json:"total_patients"`
	PendingToday   []AppointmentResponse `json:"pending_today"`
}
