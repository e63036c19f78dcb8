package service

import (
	"context"
	"time"

	"mediflow/internal/domain/entity"
	"mediflow/internal/domain/repository"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

type AuditService interface {
	LogCreate(ctx context.Context, actor string, action string, entityName string, entityID string, newValue interface{}) error
	LogUpdate(ctx context.Context, actor string, action string, entityName string, entityID string, oldValue, newValue interface{}) error
	LogDelete(ctx context.Context, actor string, action string, entityName string, entityID string, oldValue interface{}) error
	Recent(ctx context.Context, limit int) ([]entity.AuditLog, error)
}

type auditService struct {
	log       *logrus.Logger
	auditRepo repository.AuditLogRepository
	now       func() time.Time
}

func NewAuditService(log *logrus.Logger, auditRepo repository.AuditLogRepository) AuditService {
	return &auditService{
		log:       log,
		auditRepo: auditRepo,
		now:       time.Now,
	}
}

// LogCreate logs a create action
func (s *auditService) LogCreate(ctx context.Context, actor string, action string, entityName string, entityID string, newValue interface{}) error {
	return s.record(ctx, actor, action, entity.JSON{
		"entity":    entityName,
		"entity_id": entityID,
		"old_value": nil,
		"new_value": newValue,
	})
}

// LogUpdate logs an update action with old and new values
func (s *auditService) LogUpdate(ctx context.Context, actor string, action string, entityName string, entityID string, oldValue, newValue interface{}) error {
	return s.record(ctx, actor, action, entity.JSON{
		"entity":    entityName,
		"entity_id": entityID,
		"old_value": oldValue,
		"new_value": newValue,
	})
}

// LogDelete logs a delete action with old value
func (s *auditService) LogDelete(ctx context.Context, actor string, action string, entityName string, entityID string, oldValue interface{}) error {
	return s.record(ctx, actor, action, entity.JSON{
		"entity":    entityName,
		"entity_id": entityID,
		"old_value": oldValue,
		"new_value": nil,
	})
}

func (s *auditService) Recent(ctx context.Context, limit int) ([]entity.AuditLog, error) {
	logs, err := s.auditRepo.FindRecent(ctx, limit)
	if err != nil {
		s.log.Warnf("Failed to load audit logs: %+v", err)
		return nil, err
	}
	return logs, nil
}

func (s *auditService) record(ctx context.Context, actor, action string, metadata entity.JSON) error {
	auditLog := &entity.AuditLog{
		ID:        uuid.New(),
		Actor:     actor,
		Action:    action,
		Metadata:  metadata,
		CreatedAt: s.now(),
	}

	if err := s.auditRepo.Create(ctx, auditLog); err != nil {
		s.log.Warnf("Failed to create audit log: %+v", err)
		return err
	}

	return nil
}
