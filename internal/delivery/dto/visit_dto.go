package dto

// Request DTOs

type LogVisitRequest struct {
	Date         string   `json:"date" validate:"omitempty,datetime=2006-01-02"`
	Time         string   `json:"time" validate:"omitempty"`
	Department   string   `json:"department" validate:"omitempty"`
	Doctor       string   `json:"doctor" validate:"omitempty"`
	Status       string   `json:"status" validate:"omitempty,oneof=pending completed"`
	Notes        string   `json:"notes" validate:"omitempty"`
	Symptoms     string   `json:"symptoms" validate:"omitempty"`
	Tests        string   `json:"tests" validate:"omitempty"`
	Medicines    string   `json:"medicines" validate:"omitempty"`
	Advice       string   `json:"advice" validate:"omitempty"`
	Reports      []string `json:"reports" validate:"omitempty,dive,required"`
	Prescription string   `json:"prescription" validate:"omitempty"`
}

// Response DTOs

type PrescriptionResponse struct {
	VisitID      string `json:"visit_id"`
	Date         string `json:"date"`
	Doctor       string `json:"doctor,omitempty"`
	Medicines    string `json:"medicines,omitempty"`
	Advice       string `json:"advice,omitempty"`
	Prescription string `json:"prescription,omitempty"`
}

type ReportResponse struct {
	VisitID    string `json:"visit_id"`
	Date       string `json:"date"`
	Department string `json:"department"`
	Tests      string `json:"tests,omitempty"`
	Name       string `json:"name"`
	URI        string `json:"uri"`
}
