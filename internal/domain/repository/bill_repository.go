package repository

import (
	"context"

	"mediflow/internal/domain/entity"

	"github.com/google/uuid"
)

type BillRepository interface {
	Create(ctx context.Context, bill *entity.Bill) error
	FindAll(ctx context.Context, limit, offset int) ([]entity.Bill, int64, error)
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Bill, error)
	FindByPatientID(ctx context.Context, patientID int64) ([]entity.Bill, error)
}
