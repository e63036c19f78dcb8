package usecase

import (
	"context"

	"mediflow/internal/converter"
	"mediflow/internal/delivery/dto"
	"mediflow/internal/service"

	"github.com/sirupsen/logrus"
)

const defaultAuditLogLimit = 100

type AuditLogUsecase interface {
	GetRecentAuditLogs(ctx context.Context, limit int) (*dto.AuditLogListResponse, error)
}

type auditLogUsecase struct {
	log          *logrus.Logger
	auditService service.AuditService
}

func NewAuditLogUsecase(
	log *logrus.Logger,
	auditService service.AuditService,
) AuditLogUsecase {
	return &auditLogUsecase{
		log:          log,
		auditService: auditService,
	}
}

func (u *auditLogUsecase) GetRecentAuditLogs(ctx context.Context, limit int) (*dto.AuditLogListResponse, error) {
	if limit < 1 {
		limit = defaultAuditLogLimit
	}

	logs, err := u.auditService.Recent(ctx, limit)
	if err != nil {
		u.log.Warnf("Failed to find audit logs: %+v", err)
		return nil, err
	}

	return &dto.AuditLogListResponse{
		Logs:  converter.AuditLogsToResponses(logs),
		Total: len(logs),
	}, nil
}
