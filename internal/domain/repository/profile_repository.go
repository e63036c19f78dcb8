package repository

import (
	"context"

	"mediflow/internal/domain/entity"
)

type ProfileRepository interface {
	Get(ctx context.Context) (*entity.StaffProfile, error)
	Save(ctx context.Context, profile *entity.StaffProfile) error
}
