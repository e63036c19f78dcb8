package repository

import (
	"context"

	"mediflow/internal/domain/entity"
)

// UploadRepository keeps only the most recent upload of each kind
type UploadRepository interface {
	SaveLastUploadedFile(ctx context.Context, file *entity.UploadedFile) error
	GetLastUploadedFile(ctx context.Context) (*entity.UploadedFile, error)
	SaveLastManualPrescription(ctx context.Context, prescription *entity.ManualPrescription) error
	GetLastManualPrescription(ctx context.Context) (*entity.ManualPrescription, error)
}
