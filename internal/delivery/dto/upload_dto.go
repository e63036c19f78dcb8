package dto

import "time"

// Request DTOs

type UploadFileRequest struct {
	PatientID int64  `json:"patient_id" validate:"omitempty,gte=1"`
	Name      string `json:"name" validate:"required"`
	URI       string `json:"uri" validate:"required,uri"`
	MimeType  string `json:"mime_type" validate:"omitempty"`
	Size      int64  `json:"size" validate:"gte=0"`
}

type ManualPrescriptionRequest struct {
	PatientID int64  `json:"patient_id" validate:"omitempty,gte=1"`
	Doctor    string `json:"doctor" validate:"required"`
	Medicines string `json:"medicines" validate:"required"`
	Dosage    string `json:"dosage" validate:"omitempty"`
	Notes     string `json:"notes" validate:"omitempty"`
}

// Response DTOs

type UploadedFileResponse struct {
	PatientID  int64     `json:"patient_id,omitempty"`
	Name       string    `json:"name"`
	URI        string    `json:"uri"`
	MimeType   string    `json:"mime_type,omitempty"`
	Size       int64     `json:"size,omitempty"`
	UploadedAt time.Time `json:"uploaded_at"`
}

type ManualPrescriptionResponse struct {
	PatientID  int64     `json:"patient_id,omitempty"`
	Doctor     string    `json:"doctor"`
	Medicines  string    `json:"medicines"`
	Dosage     string    `json:"dosage,omitempty"`
	Notes      string    `json:"notes,omitempty"`
	UploadedAt time.Time `json:"uploaded_at"`
}

type LatestUploadsResponse struct {
	File               *UploadedFileResponse       `json:"file"`
	ManualPrescription *ManualPrescriptionResponse `json:"manual_prescription"`
}
