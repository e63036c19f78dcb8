package usecase

import (
	"context"
	"time"

	"mediflow/internal/converter"
	"mediflow/internal/delivery/dto"
	"mediflow/internal/delivery/http/middleware"
	"mediflow/internal/domain/entity"
	"mediflow/internal/domain/repository"
	"mediflow/internal/service"

	"github.com/sirupsen/logrus"
)

type UploadUsecase interface {
	UploadFile(ctx context.Context, req *dto.UploadFileRequest) (*dto.UploadedFileResponse, error)
	SaveManualPrescription(ctx context.Context, req *dto.ManualPrescriptionRequest) (*dto.ManualPrescriptionResponse, error)
	GetLatest(ctx context.Context) (*dto.LatestUploadsResponse, error)
}

type uploadUsecase struct {
	log          *logrus.Logger
	uploadRepo   repository.UploadRepository
	store        repository.PatientRecordStore
	auditService service.AuditService
	now          func() time.Time
}

func NewUploadUsecase(
	log *logrus.Logger,
	uploadRepo repository.UploadRepository,
	store repository.PatientRecordStore,
	auditService service.AuditService,
) UploadUsecase {
	return &uploadUsecase{
		log:          log,
		uploadRepo:   uploadRepo,
		store:        store,
		auditService: auditService,
		now:          time.Now,
	}
}

// UploadFile records the file as the latest upload, replacing the previous one
func (u *uploadUsecase) UploadFile(ctx context.Context, req *dto.UploadFileRequest) (*dto.UploadedFileResponse, error) {
	if err := u.ensurePatient(ctx, req.PatientID); err != nil {
		return nil, err
	}

	file := &entity.UploadedFile{
		PatientID:  req.PatientID,
		Name:       req.Name,
		URI:        req.URI,
		MimeType:   req.MimeType,
		Size:       req.Size,
		UploadedAt: u.now(),
	}
	if err := u.uploadRepo.SaveLastUploadedFile(ctx, file); err != nil {
		u.log.Warnf("Failed to save uploaded file: %+v", err)
		return nil, err
	}

	resp := converter.UploadedFileToResponse(file)
	if err := u.auditService.LogCreate(ctx, middleware.GetActorFromContext(ctx), entity.AuditActionUploadFile, "upload", file.Name, resp); err != nil {
		u.log.Warnf("Failed to create audit log: %+v", err)
	}

	return resp, nil
}

func (u *uploadUsecase) SaveManualPrescription(ctx context.Context, req *dto.ManualPrescriptionRequest) (*dto.ManualPrescriptionResponse, error) {
	if err := u.ensurePatient(ctx, req.PatientID); err != nil {
		return nil, err
	}

	prescription := &entity.ManualPrescription{
		PatientID:  req.PatientID,
		Doctor:     req.Doctor,
		Medicines:  req.Medicines,
		Dosage:     req.Dosage,
		Notes:      req.Notes,
		UploadedAt: u.now(),
	}
	if err := u.uploadRepo.SaveLastManualPrescription(ctx, prescription); err != nil {
		u.log.Warnf("Failed to save manual prescription: %+v", err)
		return nil, err
	}

	resp := converter.ManualPrescriptionToResponse(prescription)
	if err := u.auditService.LogCreate(ctx, middleware.GetActorFromContext(ctx), entity.AuditActionUploadManual, "upload", prescription.Doctor, resp); err != nil {
		u.log.Warnf("Failed to create audit log: %+v", err)
	}

	return resp, nil
}

func (u *uploadUsecase) GetLatest(ctx context.Context) (*dto.LatestUploadsResponse, error) {
	file, err := u.uploadRepo.GetLastUploadedFile(ctx)
	if err != nil {
		u.log.Warnf("Failed to load last uploaded file: %+v", err)
		return nil, err
	}

	prescription, err := u.uploadRepo.GetLastManualPrescription(ctx)
	if err != nil {
		u.log.Warnf("Failed to load last manual prescription: %+v", err)
		return nil, err
	}

	return &dto.LatestUploadsResponse{
		File:               converter.UploadedFileToResponse(file),
		ManualPrescription: converter.ManualPrescriptionToResponse(prescription),
	}, nil
}

// ensurePatient checks an optional patient reference
func (u *uploadUsecase) ensurePatient(ctx context.Context, patientID int64) error {
	if patientID == 0 {
		return nil
	}

	patient, err := u.store.FindByID(ctx, patientID)
	if err != nil {
		u.log.Warnf("Failed to find patient %d: %+v", patientID, err)
		return storeError(err)
	}
	if patient == nil {
		return ErrPatientNotFound
	}
	return nil
}
