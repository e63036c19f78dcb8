package usecase

import (
	"context"
	"errors"
	"sort"
	"strings"
	"time"

	"mediflow/internal/converter"
	"mediflow/internal/delivery/dto"
	"mediflow/internal/delivery/http/middleware"
	"mediflow/internal/domain/entity"
	"mediflow/internal/domain/repository"
	"mediflow/internal/service"

	"github.com/sirupsen/logrus"
)

var (
	ErrAlreadyBookedToday = errors.New("patient already has an appointment today")
	ErrInvalidStatus      = errors.New("status must be pending or completed")
)

// Today's appointments sort options
const (
	SortPendingFirst   = "pendingFirst"
	SortCompletedFirst = "completedFirst"
)

type AppointmentUsecase interface {
	Book(ctx context.Context, patientID int64, req *dto.BookAppointmentRequest) (*dto.PatientResponse, error)
	Today(ctx context.Context, query *dto.TodayAppointmentsQuery) (*dto.AppointmentListResponse, error)
	Booked(ctx context.Context) (*dto.AppointmentListResponse, error)
	SetStatus(ctx context.Context, patientID int64, req *dto.UpdateStatusRequest) (*dto.PatientResponse, error)
	ToggleStatus(ctx context.Context, patientID int64) (*dto.PatientResponse, error)
	Dashboard(ctx context.Context) (*dto.DashboardResponse, error)
	GetMyAppointments(ctx context.Context) (*dto.AppointmentListResponse, error)
}

type appointmentUsecase struct {
	log          *logrus.Logger
	store        repository.PatientRecordStore
	auditService service.AuditService
	clock        clinicClock
}

func NewAppointmentUsecase(
	log *logrus.Logger,
	store repository.PatientRecordStore,
	auditService service.AuditService,
	location *time.Location,
) AppointmentUsecase {
	return &appointmentUsecase{
		log:          log,
		store:        store,
		auditService: auditService,
		clock:        newClinicClock(location),
	}
}

// Book appends today's visit for the patient, once per day
func (u *appointmentUsecase) Book(ctx context.Context, patientID int64, req *dto.BookAppointmentRequest) (*dto.PatientResponse, error) {
	patient, err := u.store.BookAppointment(ctx, patientID, strings.TrimSpace(req.Department), strings.TrimSpace(req.Doctor))
	if err != nil {
		if !errors.Is(err, repository.ErrAlreadyBookedToday) {
			u.log.Warnf("Failed to book appointment for patient %d: %+v", patientID, err)
		}
		return nil, storeError(err)
	}
	if patient == nil {
		return nil, ErrPatientNotFound
	}

	u.log.Infof("Booked appointment for patient %d in %s", patientID, patient.Department)

	resp := converter.PatientToResponse(patient)
	if err := u.auditService.LogCreate(ctx, middleware.GetActorFromContext(ctx), entity.AuditActionBookingCreate, "appointment", idString(patientID), patient.LatestVisit()); err != nil {
		u.log.Warnf("Failed to create audit log: %+v", err)
	}

	return resp, nil
}

// Today lists patients whose current booking is dated today
func (u *appointmentUsecase) Today(ctx context.Context, query *dto.TodayAppointmentsQuery) (*dto.AppointmentListResponse, error) {
	patients, err := u.store.LoadAll(ctx)
	if err != nil {
		u.log.Warnf("Failed to load patients: %+v", err)
		return nil, storeError(err)
	}

	today := u.clock.Today()
	search := strings.ToLower(strings.TrimSpace(query.Search))

	todays := make([]entity.Patient, 0)
	for _, p := range patients {
		if p.Date != today {
			continue
		}
		if search != "" &&
			!strings.Contains(strings.ToLower(p.Name), search) &&
			!strings.Contains(strings.ToLower(p.Time), search) {
			continue
		}
		todays = append(todays, p)
	}

	switch query.Sort {
	case SortPendingFirst:
		sort.SliceStable(todays, func(i, j int) bool {
			return todays[i].IsPending() && !todays[j].IsPending()
		})
	case SortCompletedFirst:
		sort.SliceStable(todays, func(i, j int) bool {
			return todays[i].IsCompleted() && !todays[j].IsCompleted()
		})
	}

	return &dto.AppointmentListResponse{
		Appointments: converter.PatientsToAppointments(todays),
		Total:        len(todays),
	}, nil
}

// Booked lists the booking snapshots of the appointments table, newest first
func (u *appointmentUsecase) Booked(ctx context.Context) (*dto.AppointmentListResponse, error) {
	snapshots, err := u.store.LoadAppointments(ctx)
	if err != nil {
		u.log.Warnf("Failed to load appointments: %+v", err)
		return nil, storeError(err)
	}

	appointments := make([]dto.AppointmentResponse, 0, len(snapshots))
	for i := len(snapshots) - 1; i >= 0; i-- {
		appointments = append(appointments, converter.PatientToAppointment(&snapshots[i]))
	}

	return &dto.AppointmentListResponse{
		Appointments: appointments,
		Total:        len(appointments),
	}, nil
}

// SetStatus changes the root status only
func (u *appointmentUsecase) SetStatus(ctx context.Context, patientID int64, req *dto.UpdateStatusRequest) (*dto.PatientResponse, error) {
	patient, err := u.store.SetStatus(ctx, patientID, entity.PatientStatus(req.Status))
	return u.afterStatusChange(ctx, patientID, patient, err)
}

func (u *appointmentUsecase) ToggleStatus(ctx context.Context, patientID int64) (*dto.PatientResponse, error) {
	patient, err := u.store.ToggleStatus(ctx, patientID)
	return u.afterStatusChange(ctx, patientID, patient, err)
}

func (u *appointmentUsecase) afterStatusChange(ctx context.Context, patientID int64, patient *entity.Patient, err error) (*dto.PatientResponse, error) {
	if err != nil {
		u.log.Warnf("Failed to change status of patient %d: %+v", patientID, err)
		return nil, storeError(err)
	}
	if patient == nil {
		return nil, ErrPatientNotFound
	}

	u.log.Infof("Patient %d is now %s", patientID, patient.Status)

	metadata := map[string]string{"status": string(patient.Status)}
	if err := u.auditService.LogUpdate(ctx, middleware.GetActorFromContext(ctx), entity.AuditActionPatientStatus, "patient", idString(patientID), nil, metadata); err != nil {
		u.log.Warnf("Failed to create audit log: %+v", err)
	}

	return converter.PatientToResponse(patient), nil
}

func (u *appointmentUsecase) Dashboard(ctx context.Context) (*dto.DashboardResponse, error) {
	patients, err := u.store.LoadAll(ctx)
	if err != nil {
		u.log.Warnf("Failed to load patients: %+v", err)
		return nil, storeError(err)
	}

	today := u.clock.Today()
	resp := &dto.DashboardResponse{
		Date:          today,
		TotalPatients: len(patients),
		PendingToday:  []dto.AppointmentResponse{},
	}

	for i := range patients {
		p := &patients[i]
		if p.Date != today {
			continue
		}
		resp.TodayCount++
		if p.IsPending() {
			resp.PendingCount++
			resp.PendingToday = append(resp.PendingToday, converter.PatientToAppointment(p))
		} else {
			resp.CompletedCount++
		}
	}

	return resp, nil
}

// GetMyAppointments lists the caller's visit history as appointments, newest first
func (u *appointmentUsecase) GetMyAppointments(ctx context.Context) (*dto.AppointmentListResponse, error) {
	patientID, err := currentPatientID(ctx)
	if err != nil {
		return nil, err
	}

	patient, err := u.store.FindByID(ctx, patientID)
	if err != nil {
		u.log.Warnf("Failed to find patient %d: %+v", patientID, err)
		return nil, storeError(err)
	}
	if patient == nil {
		return nil, ErrPatientNotFound
	}

	appointments := make([]dto.AppointmentResponse, 0, len(patient.VisitHistory))
	for i := len(patient.VisitHistory) - 1; i >= 0; i-- {
		appointments = append(appointments, converter.VisitToAppointment(patient, &patient.VisitHistory[i]))
	}

	return &dto.AppointmentListResponse{
		Appointments: appointments,
		Total:        len(appointments),
	}, nil
}
