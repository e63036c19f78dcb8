package repository

import (
	"context"

	"mediflow/internal/domain/entity"
	domainRepo "mediflow/internal/domain/repository"
	"mediflow/pkg/keylock"

	"github.com/sirupsen/logrus"
)

type uploadRepository struct {
	lastFile         *jsonDocument[*entity.UploadedFile]
	lastPrescription *jsonDocument[*entity.ManualPrescription]
}

func NewUploadRepository(kv domainRepo.KeyValueStore, locks *keylock.KeyLock, log *logrus.Logger) domainRepo.UploadRepository {
	return &uploadRepository{
		lastFile: newJSONDocument(kv, locks, entity.KeyLastUploadedFile, defaultMaxRetries, log,
			func() *entity.UploadedFile { return nil }),
		lastPrescription: newJSONDocument(kv, locks, entity.KeyLastManualPrescription, defaultMaxRetries, log,
			func() *entity.ManualPrescription { return nil }),
	}
}

func (r *uploadRepository) SaveLastUploadedFile(ctx context.Context, file *entity.UploadedFile) error {
	return r.lastFile.overwrite(ctx, file)
}

func (r *uploadRepository) GetLastUploadedFile(ctx context.Context) (*entity.UploadedFile, error) {
	return r.lastFile.load(ctx)
}

func (r *uploadRepository) SaveLastManualPrescription(ctx context.Context, prescription *entity.ManualPrescription) error {
	return r.lastPrescription.overwrite(ctx, prescription)
}

func (r *uploadRepository) GetLastManualPrescription(ctx context.Context) (*entity.ManualPrescription, error) {
	return r.lastPrescription.load(ctx)
}
