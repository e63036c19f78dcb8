package repository

import (
	"context"

	"mediflow/internal/domain/entity"
	domainRepo "mediflow/internal/domain/repository"
	"mediflow/pkg/keylock"

	"github.com/sirupsen/logrus"
)

// MaxAuditLogs bounds the "auditLogs" collection; the oldest entries drop first
const MaxAuditLogs = 500

type auditLogRepository struct {
	doc *jsonDocument[[]entity.AuditLog]
}

func NewAuditLogRepository(kv domainRepo.KeyValueStore, locks *keylock.KeyLock, log *logrus.Logger) domainRepo.AuditLogRepository {
	return &auditLogRepository{
		doc: newJSONDocument(kv, locks, entity.KeyAuditLogs, defaultMaxRetries, log,
			func() []entity.AuditLog { return []entity.AuditLog{} }),
	}
}

func (r *auditLogRepository) Create(ctx context.Context, log *entity.AuditLog) error {
	return r.doc.update(ctx, func(logs []entity.AuditLog) ([]entity.AuditLog, error) {
		logs = append(logs, *log)
		if over := len(logs) - MaxAuditLogs; over > 0 {
			logs = append([]entity.AuditLog(nil), logs[over:]...)
		}
		return logs, nil
	})
}

// FindRecent returns up to limit entries, newest first
func (r *auditLogRepository) FindRecent(ctx context.Context, limit int) ([]entity.AuditLog, error) {
	logs, err := r.doc.load(ctx)
	if err != nil {
		return nil, err
	}
	if limit <= 0 || limit > len(logs) {
		limit = len(logs)
	}

	recent := make([]entity.AuditLog, 0, limit)
	for i := len(logs) - 1; i >= 0 && len(recent) < limit; i-- {
		recent = append(recent, logs[i])
	}
	return recent, nil
}
