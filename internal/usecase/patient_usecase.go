package usecase

import (
	"context"
	"errors"
	"sort"
	"strconv"
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
	ErrPatientNotFound     = errors.New("patient not found")
	ErrMobileAlreadyExists = errors.New("mobile number already registered")
	ErrEmailAlreadyExists  = errors.New("email already registered")
	ErrInvalidDateRange    = errors.New("from date must not be after to date")
)

// Patient list sort options
const (
	SortAll       = "all"
	SortNewest    = "new"
	SortPending   = "pending"
	SortCompleted = "completed"
)

const defaultPageSize = 10

type PatientUsecase interface {
	Create(ctx context.Context, req *dto.CreatePatientRequest) (*dto.PatientResponse, error)
	List(ctx context.Context, query *dto.PatientListQuery) ([]dto.PatientResponse, int64, error)
	GetByID(ctx context.Context, id int64) (*dto.PatientResponse, error)
	GetMine(ctx context.Context) (*dto.PatientResponse, error)
	Update(ctx context.Context, id int64, req *dto.UpdatePatientRequest) (*dto.PatientResponse, error)
	Delete(ctx context.Context, id int64) error
	CheckUnique(ctx context.Context, query *dto.CheckUniqueQuery) (*dto.CheckUniqueResponse, error)
}

type patientUsecase struct {
	log          *logrus.Logger
	store        repository.PatientRecordStore
	auditService service.AuditService
}

func NewPatientUsecase(
	log *logrus.Logger,
	store repository.PatientRecordStore,
	auditService service.AuditService,
) PatientUsecase {
	return &patientUsecase{
		log:          log,
		store:        store,
		auditService: auditService,
	}
}

func (u *patientUsecase) Create(ctx context.Context, req *dto.CreatePatientRequest) (*dto.PatientResponse, error) {
	// the store re-checks under its version guard
	if err := u.ensureUnique(ctx, req.Mobile, req.Email, 0); err != nil {
		return nil, err
	}

	patient, err := u.store.AddPatient(ctx, converter.CreatePatientRequestToDraft(req))
	if err != nil {
		u.log.Warnf("Failed to add patient: %+v", err)
		return nil, storeError(err)
	}

	u.log.Infof("Registered patient %d", patient.ID)

	resp := converter.PatientToResponse(patient)
	if err := u.auditService.LogCreate(ctx, middleware.GetActorFromContext(ctx), entity.AuditActionPatientCreate, "patient", idString(patient.ID), resp); err != nil {
		u.log.Warnf("Failed to create audit log: %+v", err)
	}

	return resp, nil
}

// List filters, sorts and pages the collection the way the patient list screen does
func (u *patientUsecase) List(ctx context.Context, query *dto.PatientListQuery) ([]dto.PatientResponse, int64, error) {
	if query.FromDate != "" && query.ToDate != "" && query.FromDate > query.ToDate {
		return nil, 0, ErrInvalidDateRange
	}

	patients, err := u.store.LoadAll(ctx)
	if err != nil {
		u.log.Warnf("Failed to load patients: %+v", err)
		return nil, 0, storeError(err)
	}

	filtered := filterPatients(patients, query)
	total := int64(len(filtered))

	page, limit := query.Page, query.Limit
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = defaultPageSize
	}

	offset := pageOffset(page, limit)
	if offset >= len(filtered) {
		return []dto.PatientResponse{}, total, nil
	}
	end := len(filtered)
	if limit < end-offset {
		end = offset + limit
	}

	return converter.PatientsToResponses(filtered[offset:end]), total, nil
}

func (u *patientUsecase) GetByID(ctx context.Context, id int64) (*dto.PatientResponse, error) {
	patient, err := u.store.FindByID(ctx, id)
	if err != nil {
		u.log.Warnf("Failed to find patient %d: %+v", id, err)
		return nil, storeError(err)
	}
	if patient == nil {
		return nil, ErrPatientNotFound
	}

	return converter.PatientToResponse(patient), nil
}

func (u *patientUsecase) GetMine(ctx context.Context) (*dto.PatientResponse, error) {
	patientID, err := currentPatientID(ctx)
	if err != nil {
		return nil, err
	}
	return u.GetByID(ctx, patientID)
}

func (u *patientUsecase) Update(ctx context.Context, id int64, req *dto.UpdatePatientRequest) (*dto.PatientResponse, error) {
	if err := u.ensureUnique(ctx, req.Mobile, req.Email, id); err != nil {
		return nil, err
	}

	var oldValue *dto.PatientResponse
	patient, err := u.store.UpdatePatient(ctx, id, func(p *entity.Patient) error {
		oldValue = converter.PatientToResponse(p)
		converter.ApplyUpdatePatientRequest(p, req)
		return nil
	})
	if err != nil {
		u.log.Warnf("Failed to update patient %d: %+v", id, err)
		return nil, storeError(err)
	}
	if patient == nil {
		return nil, ErrPatientNotFound
	}

	resp := converter.PatientToResponse(patient)
	if err := u.auditService.LogUpdate(ctx, middleware.GetActorFromContext(ctx), entity.AuditActionPatientUpdate, "patient", idString(id), oldValue, resp); err != nil {
		u.log.Warnf("Failed to create audit log: %+v", err)
	}

	return resp, nil
}

func (u *patientUsecase) Delete(ctx context.Context, id int64) error {
	patient, err := u.store.FindByID(ctx, id)
	if err != nil {
		u.log.Warnf("Failed to find patient %d: %+v", id, err)
		return storeError(err)
	}

	deleted, err := u.store.DeletePatient(ctx, id)
	if err != nil {
		u.log.Warnf("Failed to delete patient %d: %+v", id, err)
		return storeError(err)
	}
	if !deleted {
		return ErrPatientNotFound
	}

	u.log.Infof("Deleted patient %d", id)

	if err := u.auditService.LogDelete(ctx, middleware.GetActorFromContext(ctx), entity.AuditActionPatientDelete, "patient", idString(id), converter.PatientToResponse(patient)); err != nil {
		u.log.Warnf("Failed to create audit log: %+v", err)
	}

	return nil
}

func (u *patientUsecase) CheckUnique(ctx context.Context, query *dto.CheckUniqueQuery) (*dto.CheckUniqueResponse, error) {
	unique, err := u.store.ValidateUniqueness(ctx, query.Field, query.Value, query.ExcludeID)
	if err != nil {
		u.log.Warnf("Failed to check %s uniqueness: %+v", query.Field, err)
		return nil, storeError(err)
	}

	return &dto.CheckUniqueResponse{
		Field:  query.Field,
		Value:  query.Value,
		Unique: unique,
	}, nil
}

func (u *patientUsecase) ensureUnique(ctx context.Context, mobile, email string, excludingID int64) error {
	unique, err := u.store.ValidateUniqueness(ctx, repository.UniqueFieldMobile, mobile, excludingID)
	if err != nil {
		u.log.Warnf("Failed to check mobile uniqueness: %+v", err)
		return storeError(err)
	}
	if !unique {
		return ErrMobileAlreadyExists
	}

	unique, err = u.store.ValidateUniqueness(ctx, repository.UniqueFieldEmail, email, excludingID)
	if err != nil {
		u.log.Warnf("Failed to check email uniqueness: %+v", err)
		return storeError(err)
	}
	if !unique {
		return ErrEmailAlreadyExists
	}

	return nil
}

func filterPatients(patients []entity.Patient, query *dto.PatientListQuery) []entity.Patient {
	search := strings.ToLower(strings.TrimSpace(query.Search))

	result := make([]entity.Patient, 0, len(patients))
	for _, p := range patients {
		if search != "" &&
			!strings.Contains(strings.ToLower(p.Name), search) &&
			!strings.Contains(p.Mobile, search) &&
			!strings.Contains(p.Date, search) {
			continue
		}
		if query.FromDate != "" && p.Date < query.FromDate {
			continue
		}
		if query.ToDate != "" && p.Date > query.ToDate {
			continue
		}

		switch query.Sort {
		case SortPending:
			if !p.IsPending() {
				continue
			}
		case SortCompleted:
			if !p.IsCompleted() {
				continue
			}
		}

		result = append(result, p)
	}

	if query.Sort == SortNewest {
		sort.SliceStable(result, func(i, j int) bool {
			return bookedAt(&result[i]).After(bookedAt(&result[j]))
		})
	}

	return result
}

// bookedAt parses the root date and time; unparsable values sort last
func bookedAt(p *entity.Patient) time.Time {
	t, err := time.Parse(entity.DateLayout+" "+entity.TimeLayout, p.Date+" "+p.Time)
	if err != nil {
		t, _ = time.Parse(entity.DateLayout, p.Date)
	}
	return t
}

func idString(id int64) string {
	return strconv.FormatInt(id, 10)
}
