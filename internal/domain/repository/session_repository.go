package repository

import (
	"context"
	"time"

	"mediflow/internal/domain/entity"
)

type SessionRepository interface {
	Save(ctx context.Context, session *entity.Session) error
	Find(ctx context.Context, tokenID string) (*entity.Session, error)
	Delete(ctx context.Context, tokenID string) error
	DeleteExpired(ctx context.Context, now time.Time) (int, error)
}
