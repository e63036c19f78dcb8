package usecase

import (
	"context"
	"errors"

	"mediflow/internal/converter"
	"mediflow/internal/delivery/dto"
	"mediflow/internal/delivery/http/middleware"
	"mediflow/internal/domain/entity"
	"mediflow/internal/domain/repository"
	"mediflow/internal/service"

	"github.com/sirupsen/logrus"
)

var (
	ErrProfileNotFound = errors.New("profile not set up yet")
)

type ProfileUsecase interface {
	GetProfile(ctx context.Context) (*dto.ProfileResponse, error)
	SaveProfile(ctx context.Context, req *dto.SaveProfileRequest) (*dto.ProfileResponse, error)
}

type profileUsecase struct {
	log          *logrus.Logger
	profileRepo  repository.ProfileRepository
	auditService service.AuditService
}

func NewProfileUsecase(
	log *logrus.Logger,
	profileRepo repository.ProfileRepository,
	auditService service.AuditService,
) ProfileUsecase {
	return &profileUsecase{
		log:          log,
		profileRepo:  profileRepo,
		auditService: auditService,
	}
}

func (u *profileUsecase) GetProfile(ctx context.Context) (*dto.ProfileResponse, error) {
	profile, err := u.profileRepo.Get(ctx)
	if err != nil {
		u.log.Warnf("Failed to load profile: %+v", err)
		return nil, err
	}
	if profile == nil {
		return nil, ErrProfileNotFound
	}

	return converter.ProfileToResponse(profile), nil
}

// SaveProfile replaces the stored profile as a whole
func (u *profileUsecase) SaveProfile(ctx context.Context, req *dto.SaveProfileRequest) (*dto.ProfileResponse, error) {
	oldProfile, err := u.profileRepo.Get(ctx)
	if err != nil {
		u.log.Warnf("Failed to load profile: %+v", err)
		return nil, err
	}

	profile := converter.SaveProfileRequestToEntity(req)
	if err := u.profileRepo.Save(ctx, profile); err != nil {
		u.log.Warnf("Failed to save profile: %+v", err)
		return nil, err
	}

	resp := converter.ProfileToResponse(profile)
	if err := u.auditService.LogUpdate(ctx, middleware.GetActorFromContext(ctx), entity.AuditActionProfileUpdate, "profile", entity.KeyProfile, converter.ProfileToResponse(oldProfile), resp); err != nil {
		u.log.Warnf("Failed to create audit log: %+v", err)
	}

	return resp, nil
}
