package dto

// Request DTOs

type CreatePatientRequest struct {
	Name       string `json:"name" validate:"required,min=2"`
	Mobile     string `json:"mobile" validate:"required,mobile"`
	Address    string `json:"address" validate:"required"`
	Email      string `json:"email" validate:"omitempty,email"`
	Age        string `json:"age" validate:"omitempty,numeric"`
	Gender     string `json:"gender" validate:"omitempty"`
	BloodGroup string `json:"blood_group" validate:"omitempty"`
	Note       string `json:"note" validate:"omitempty"`
	Department string `json:"department" validate:"omitempty"`
	Doctor     string `json:"doctor" validate:"omitempty"`
}

type UpdatePatientRequest struct {
	Name       string `json:"name" validate:"required,min=2"`
	Mobile     string `json:"mobile" validate:"required,mobile"`
	Address    string `json:"address" validate:"required"`
	Email      string `json:"email" validate:"omitempty,email"`
	Age        string `json:"age" validate:"omitempty,numeric"`
	Gender     string `json:"gender" validate:"omitempty"`
	BloodGroup string `json:"blood_group" validate:"omitempty"`
	Note       string `json:"note" validate:"omitempty"`
}

// PatientListQuery mirrors the filters of the patient list screen
type PatientListQuery struct {
	Search   string `validate:"omitempty"`
	FromDate string `validate:"omitempty,datetime=2006-01-02"`
	ToDate   string `validate:"omitempty,datetime=2006-01-02"`
	Sort     string `validate:"omitempty,oneof=all new pending completed"`
	Page     int    `validate:"gte=0"`
	Limit    int    `validate:"gte=0,lte=100"`
}

type CheckUniqueQuery struct {
	Field     string `validate:"required,oneof=mobile email"`
	Value     string `validate:"required"`
	ExcludeID int64  `validate:"gte=0"`
}

// Response DTOs

type VisitHistoryResponse struct {
	ID           string   `json:"id"`
	Date         string   `json:"date"`
	Time         string   `json:"time"`
	Department   string   `json:"department"`
	Doctor       string   `json:"doctor,omitempty"`
	Status       string   `json:"status"`
	Notes        string   `json:"notes,omitempty"`
	Symptoms     string   `json:"symptoms,omitempty"`
	Tests        string   `json:"tests,omitempty"`
	Medicines    string   `json:"medicines,omitempty"`
	Advice       string   `json:"advice,omitempty"`
	Reports      []string `json:"reports,omitempty"`
	Prescription string   `json:"prescription,omitempty"`
}

type PatientResponse struct {
	ID           int64                  `json:"id"`
	Name         string                 `json:"name"`
	Mobile       string                 `json:"mobile"`
	Address      string                 `json:"address"`
	Email        string                 `json:"email,omitempty"`
	Age          string                 `json:"age,omitempty"`
	Gender       string                 `json:"gender,omitempty"`
	BloodGroup   string                 `json:"blood_group,omitempty"`
	Note         string                 `json:"note,omitempty"`
	Department   string                 `json:"department"`
	Doctor       string                 `json:"doctor"`
	Date         string                 `json:"date"`
	Time         string                 `json:"time"`
	Status       string                 `json:"status"`
	VisitHistory []VisitHistoryResponse `json:"visit_history"`
}

type CheckUniqueResponse struct {
	Field  string `json:"field"`
	Value  string `json:"value"`
	Unique bool   `json:"unique"`
}
