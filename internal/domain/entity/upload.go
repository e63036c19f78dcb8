package entity

import "time"

// UploadedFile records the most recent prescription file upload
type UploadedFile struct {
	PatientID  int64     `json:"patientId,omitempty"`
	Name       string    `json:"name"`
	URI        string    `json:"uri"`
	MimeType   string    `json:"mimeType,omitempty"`
	Size       int64     `json:"size,omitempty"`
	UploadedAt time.Time `json:"uploadedAt"`
}

// ManualPrescription records the most recent hand-entered prescription
type ManualPrescription struct {
	PatientID  int64     `json:"patientId,omitempty"`
	Doctor     string    `json:"doctor"`
	Medicines  string    `json:"medicines"`
	Dosage     string    `json:"dosage,omitempty"`
	Notes      string    `json:"notes,omitempty"`
	UploadedAt time.Time `json:"uploadedAt"`
}
