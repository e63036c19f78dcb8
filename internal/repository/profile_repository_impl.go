package repository

import (
	"context"

	"mediflow/internal/domain/entity"
	domainRepo "mediflow/internal/domain/repository"
	"mediflow/pkg/keylock"

	"github.com/sirupsen/logrus"
)

// Staff Profile Repository

type profileRepository struct {
	doc *jsonDocument[*entity.StaffProfile]
}

func NewProfileRepository(kv domainRepo.KeyValueStore, locks *keylock.KeyLock, log *logrus.Logger) domainRepo.ProfileRepository {
	return &profileRepository{
		doc: newJSONDocument(kv, locks, entity.KeyProfile, defaultMaxRetries, log, func() *entity.StaffProfile { return nil }),
	}
}

// Get returns nil when no profile has been saved yet
func (r *profileRepository) Get(ctx context.Context) (*entity.StaffProfile, error) {
	return r.doc.load(ctx)
}

func (r *profileRepository) Save(ctx context.Context, profile *entity.StaffProfile) error {
	return r.doc.overwrite(ctx, profile)
}
