package converter

import (
	"mediflow/internal/delivery/dto"
	"mediflow/internal/domain/entity"
)

// CreatePatientRequestToDraft converts a CreatePatientRequest DTO to a PatientDraft
func CreatePatientRequestToDraft(req *dto.CreatePatientRequest) entity.PatientDraft {
	return entity.PatientDraft{
		Name:       req.Name,
		Mobile:     req.Mobile,
		Address:    req.Address,
		Email:      req.Email,
		Age:        req.Age,
		Gender:     req.Gender,
		BloodGroup: req.BloodGroup,
		Note:       req.Note,
		Department: req.Department,
		Doctor:     req.Doctor,
	}
}

// ApplyUpdatePatientRequest copies the editable demographic fields onto p
func ApplyUpdatePatientRequest(p *entity.Patient, req *dto.UpdatePatientRequest) {
	p.Name = req.Name
	p.Mobile = req.Mobile
	p.Address = req.Address
	p.Email = req.Email
	p.Age = req.Age
	p.Gender = req.Gender
	p.BloodGroup = req.BloodGroup
	p.Note = req.Note
}

// PatientToResponse converts a Patient entity to PatientResponse DTO
func PatientToResponse(p *entity.Patient) *dto.PatientResponse {
	if p == nil {
		return nil
	}

	return &dto.PatientResponse{
		ID:           p.ID,
		Name:         p.Name,
		Mobile:       p.Mobile,
		Address:      p.Address,
		Email:        p.Email,
		Age:          p.Age,
		Gender:       p.Gender,
		BloodGroup:   p.BloodGroup,
		Note:         p.Note,
		Department:   p.Department,
		Doctor:       p.Doctor,
		Date:         p.Date,
		Time:         p.Time,
		Status:       string(statusOrPending(p.Status)),
		VisitHistory: VisitsToResponses(p.VisitHistory),
	}
}

// PatientsToResponses converts a slice of Patient entities to PatientResponse DTOs
func PatientsToResponses(patients []entity.Patient) []dto.PatientResponse {
	responses := make([]dto.PatientResponse, len(patients))
	for i := range patients {
		responses[i] = *PatientToResponse(&patients[i])
	}
	return responses
}

func VisitToResponse(v *entity.VisitHistoryEntry) dto.VisitHistoryResponse {
	return dto.VisitHistoryResponse{
		ID:           v.ID,
		Date:         v.Date,
		Time:         v.Time,
		Department:   v.Department,
		Doctor:       v.Doctor,
		Status:       string(statusOrPending(v.Status)),
		Notes:        v.Notes,
		Symptoms:     v.Symptoms,
		Tests:        v.Tests,
		Medicines:    v.Medicines,
		Advice:       v.Advice,
		Reports:      v.Reports,
		Prescription: v.Prescription,
	}
}

func VisitsToResponses(visits []entity.VisitHistoryEntry) []dto.VisitHistoryResponse {
	responses := make([]dto.VisitHistoryResponse, len(visits))
	for i := range visits {
		responses[i] = VisitToResponse(&visits[i])
	}
	return responses
}

// LogVisitRequestToEntry converts a LogVisitRequest DTO to a VisitHistoryEntry
func LogVisitRequestToEntry(req *dto.LogVisitRequest) entity.VisitHistoryEntry {
	return entity.VisitHistoryEntry{
		Date:         req.Date,
		Time:         req.Time,
		Department:   req.Department,
		Doctor:       req.Doctor,
		Status:       entity.PatientStatus(req.Status),
		Notes:        req.Notes,
		Symptoms:     req.Symptoms,
		Tests:        req.Tests,
		Medicines:    req.Medicines,
		Advice:       req.Advice,
		Reports:      req.Reports,
		Prescription: req.Prescription,
	}
}

// statusOrPending reads records saved before status existed as pending
func statusOrPending(s entity.PatientStatus) entity.PatientStatus {
	if s == "" {
		return entity.PatientStatusPending
	}
	return s
}
