package usecase

import (
	"context"
	"errors"
	"path"

	"mediflow/internal/converter"
	"mediflow/internal/delivery/dto"
	"mediflow/internal/delivery/http/middleware"
	"mediflow/internal/domain/entity"
	"mediflow/internal/domain/repository"
	"mediflow/internal/service"

	"github.com/sirupsen/logrus"
)

var (
	ErrDuplicateVisit = errors.New("visit entry already recorded")
	ErrEmptyVisit     = errors.New("visit entry has no clinical details")
)

type VisitUsecase interface {
	LogVisit(ctx context.Context, patientID int64, req *dto.LogVisitRequest) (*dto.PatientResponse, error)
	LogMyVisit(ctx context.Context, req *dto.LogVisitRequest) (*dto.PatientResponse, error)
	GetMyVisits(ctx context.Context) ([]dto.VisitHistoryResponse, error)
	GetMyPrescriptions(ctx context.Context) ([]dto.PrescriptionResponse, error)
	GetMyReports(ctx context.Context) ([]dto.ReportResponse, error)
}

type visitUsecase struct {
	log          *logrus.Logger
	store        repository.PatientRecordStore
	auditService service.AuditService
}

func NewVisitUsecase(
	log *logrus.Logger,
	store repository.PatientRecordStore,
	auditService service.AuditService,
) VisitUsecase {
	return &visitUsecase{
		log:          log,
		store:        store,
		auditService: auditService,
	}
}

func (u *visitUsecase) LogVisit(ctx context.Context, patientID int64, req *dto.LogVisitRequest) (*dto.PatientResponse, error) {
	entry := converter.LogVisitRequestToEntry(req)
	if !hasClinicalDetails(&entry) {
		return nil, ErrEmptyVisit
	}

	patient, err := u.store.LogVisit(ctx, patientID, entry)
	if err != nil {
		u.log.Warnf("Failed to log visit for patient %d: %+v", patientID, err)
		return nil, storeError(err)
	}
	if patient == nil {
		return nil, ErrPatientNotFound
	}

	u.log.Infof("Logged visit for patient %d", patientID)

	if err := u.auditService.LogCreate(ctx, middleware.GetActorFromContext(ctx), entity.AuditActionVisitCreate, "visit", idString(patientID), patient.LatestVisit()); err != nil {
		u.log.Warnf("Failed to create audit log: %+v", err)
	}

	return converter.PatientToResponse(patient), nil
}

func (u *visitUsecase) LogMyVisit(ctx context.Context, req *dto.LogVisitRequest) (*dto.PatientResponse, error) {
	patientID, err := currentPatientID(ctx)
	if err != nil {
		return nil, err
	}
	return u.LogVisit(ctx, patientID, req)
}

// GetMyVisits returns the caller's visit history, newest first
func (u *visitUsecase) GetMyVisits(ctx context.Context) ([]dto.VisitHistoryResponse, error) {
	patient, err := u.currentPatient(ctx)
	if err != nil {
		return nil, err
	}

	visits := make([]dto.VisitHistoryResponse, 0, len(patient.VisitHistory))
	for i := len(patient.VisitHistory) - 1; i >= 0; i-- {
		visits = append(visits, converter.VisitToResponse(&patient.VisitHistory[i]))
	}
	return visits, nil
}

// GetMyPrescriptions returns visits that carry medicines, advice or a prescription file
func (u *visitUsecase) GetMyPrescriptions(ctx context.Context) ([]dto.PrescriptionResponse, error) {
	patient, err := u.currentPatient(ctx)
	if err != nil {
		return nil, err
	}

	prescriptions := make([]dto.PrescriptionResponse, 0)
	for i := len(patient.VisitHistory) - 1; i >= 0; i-- {
		v := &patient.VisitHistory[i]
		if v.Medicines == "" && v.Advice == "" && v.Prescription == "" {
			continue
		}
		prescriptions = append(prescriptions, dto.PrescriptionResponse{
			VisitID:      v.ID,
			Date:         v.Date,
			Doctor:       v.Doctor,
			Medicines:    v.Medicines,
			Advice:       v.Advice,
			Prescription: v.Prescription,
		})
	}
	return prescriptions, nil
}

// GetMyReports flattens the report attachments of every visit, newest first
func (u *visitUsecase) GetMyReports(ctx context.Context) ([]dto.ReportResponse, error) {
	patient, err := u.currentPatient(ctx)
	if err != nil {
		return nil, err
	}

	reports := make([]dto.ReportResponse, 0)
	for i := len(patient.VisitHistory) - 1; i >= 0; i-- {
		v := &patient.VisitHistory[i]
		for _, report := range v.Reports {
			reports = append(reports, dto.ReportResponse{
				VisitID:    v.ID,
				Date:       v.Date,
				Department: v.Department,
				Tests:      v.Tests,
				Name:       path.Base(report),
				URI:        report,
			})
		}
	}
	return reports, nil
}

func (u *visitUsecase) currentPatient(ctx context.Context) (*entity.Patient, error) {
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
	return patient, nil
}

func hasClinicalDetails(v *entity.VisitHistoryEntry) bool {
	return v.Notes != "" || v.Symptoms != "" || v.Tests != "" || v.Medicines != "" ||
		v.Advice != "" || v.Prescription != "" || len(v.Reports) > 0
}
