package converter

import (
	"mediflow/internal/delivery/dto"
	"mediflow/internal/domain/entity"
)

func UploadedFileToResponse(file *entity.UploadedFile) *dto.UploadedFileResponse {
	if file == nil {
		return nil
	}

	return &dto.UploadedFileResponse{
		PatientID:  file.PatientID,
		Name:       file.Name,
		URI:        file.URI,
		MimeType:   file.MimeType,
		Size:       file.Size,
		UploadedAt: file.UploadedAt,
	}
}

func ManualPrescriptionToResponse(p *entity.ManualPrescription) *dto.ManualPrescriptionResponse {
	if p == nil {
		return nil
	}

	return &dto.ManualPrescriptionResponse{
		PatientID:  p.PatientID,
		Doctor:     p.Doctor,
		Medicines:  p.Medicines,
		Dosage:     p.Dosage,
		Notes:      p.Notes,
		UploadedAt: p.UploadedAt,
	}
}
