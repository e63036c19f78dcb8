package usecase

import (
	"context"
	"errors"
	"time"

	"mediflow/config"
	"mediflow/internal/converter"
	"mediflow/internal/delivery/dto"
	"mediflow/internal/delivery/http/middleware"
	"mediflow/internal/domain/entity"
	"mediflow/internal/domain/repository"
	"mediflow/internal/service"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

var (
	ErrBillNotFound  = errors.New("bill not found")
	ErrInvalidAmount = errors.New("amount must be greater than zero")
)

var hundred = decimal.NewFromInt(100)

type BillUsecase interface {
	Create(ctx context.Context, req *dto.CreateBillRequest) (*dto.BillResponse, error)
	GetAll(ctx context.Context, page, limit int) ([]dto.BillResponse, int64, error)
	GetByID(ctx context.Context, id uuid.UUID) (*dto.BillResponse, error)
	GetByPatientID(ctx context.Context, patientID int64) ([]dto.BillResponse, error)
}

type billUsecase struct {
	log          *logrus.Logger
	billRepo     repository.BillRepository
	store        repository.PatientRecordStore
	auditService service.AuditService
	clinic       config.ClinicConfig
	now          func() time.Time
}

func NewBillUsecase(
	log *logrus.Logger,
	billRepo repository.BillRepository,
	store repository.PatientRecordStore,
	auditService service.AuditService,
	clinic config.ClinicConfig,
) BillUsecase {
	return &billUsecase{
		log:          log,
		billRepo:     billRepo,
		store:        store,
		auditService: auditService,
		clinic:       clinic,
		now:          time.Now,
	}
}

// Create bills the patient for amount plus the clinic's GST, rounded to paise
func (u *billUsecase) Create(ctx context.Context, req *dto.CreateBillRequest) (*dto.BillResponse, error) {
	if !req.Amount.IsPositive() {
		return nil, ErrInvalidAmount
	}

	patient, err := u.store.FindByID(ctx, req.PatientID)
	if err != nil {
		u.log.Warnf("Failed to find patient %d: %+v", req.PatientID, err)
		return nil, storeError(err)
	}
	if patient == nil {
		return nil, ErrPatientNotFound
	}

	amount := req.Amount.Round(2)
	gstAmount := amount.Mul(u.clinic.GSTRate).Div(hundred).Round(2)

	bill := &entity.Bill{
		ID:          uuid.New(),
		PatientID:   patient.ID,
		PatientName: patient.Name,
		Mobile:      patient.Mobile,
		Address:     patient.Address,
		GSTNumber:   u.clinic.GSTNumber,
		Amount:      amount,
		GSTRate:     u.clinic.GSTRate,
		GSTAmount:   gstAmount,
		Total:       amount.Add(gstAmount),
		Description: req.Description,
		CreatedAt:   u.now(),
	}

	if err := u.billRepo.Create(ctx, bill); err != nil {
		u.log.Warnf("Failed to create bill: %+v", err)
		return nil, storeError(err)
	}

	u.log.Infof("Created bill %s for patient %d", bill.BillNumber, patient.ID)

	resp := converter.BillToResponse(bill)
	if err := u.auditService.LogCreate(ctx, middleware.GetActorFromContext(ctx), entity.AuditActionBillCreate, "bill", bill.ID.String(), resp); err != nil {
		u.log.Warnf("Failed to create audit log: %+v", err)
	}

	return resp, nil
}

func (u *billUsecase) GetAll(ctx context.Context, page, limit int) ([]dto.BillResponse, int64, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 10
	}

	offset := pageOffset(page, limit)

	bills, total, err := u.billRepo.FindAll(ctx, limit, offset)
	if err != nil {
		u.log.Warnf("Failed to find bills: %+v", err)
		return nil, 0, err
	}

	return converter.BillsToResponses(bills), total, nil
}

func (u *billUsecase) GetByID(ctx context.Context, id uuid.UUID) (*dto.BillResponse, error) {
	bill, err := u.billRepo.FindByID(ctx, id)
	if err != nil {
		u.log.Warnf("Failed to find bill %s: %+v", id, err)
		return nil, err
	}
	if bill == nil {
		return nil, ErrBillNotFound
	}

	return converter.BillToResponse(bill), nil
}

func (u *billUsecase) GetByPatientID(ctx context.Context, patientID int64) ([]dto.BillResponse, error) {
	bills, err := u.billRepo.FindByPatientID(ctx, patientID)
	if err != nil {
		u.log.Warnf("Failed to find bills for patient %d: %+v", patientID, err)
		return nil, err
	}

	return converter.BillsToResponses(bills), nil
}
