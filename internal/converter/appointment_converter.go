package converter

import (
	"mediflow/internal/delivery/dto"
	"mediflow/internal/domain/entity"
)

// PatientToAppointment converts the root booking fields of a Patient to AppointmentResponse DTO
func PatientToAppointment(p *entity.Patient) dto.AppointmentResponse {
	return dto.AppointmentResponse{
		PatientID:  p.ID,
		Name:       p.Name,
		Mobile:     p.Mobile,
		Department: p.Department,
		Doctor:     p.Doctor,
		Date:       p.Date,
		Time:       p.Time,
		Status:     string(statusOrPending(p.Status)),
	}
}

func PatientsToAppointments(patients []entity.Patient) []dto.AppointmentResponse {
	responses := make([]dto.AppointmentResponse, len(patients))
	for i := range patients {
		responses[i] = PatientToAppointment(&patients[i])
	}
	return responses
}

// VisitToAppointment describes one visit history entry as an appointment of p
func VisitToAppointment(p *entity.Patient, v *entity.VisitHistoryEntry) dto.AppointmentResponse {
	return dto.AppointmentResponse{
		PatientID:  p.ID,
		Name:       p.Name,
		Mobile:     p.Mobile,
		Department: v.Department,
		Doctor:     v.Doctor,
		Date:       v.Date,
		Time:       v.Time,
		Status:     string(statusOrPending(v.Status)),
	}
}
