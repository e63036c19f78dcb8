package usecase

import (
	"context"
	"errors"
	"strings"
	"time"

	"mediflow/internal/converter"
	"mediflow/internal/delivery/dto"
	"mediflow/internal/delivery/http/middleware"
	"mediflow/internal/domain/entity"
	"mediflow/internal/domain/repository"
	"mediflow/internal/service"
	"mediflow/pkg/jwt"

	"github.com/sirupsen/logrus"
)

var (
	ErrInvalidCredentials = errors.New("no patient record matches these credentials")
	ErrInvalidRole        = errors.New("role must be receptionist or patient")
	ErrInvalidToken       = errors.New("invalid or expired token")
	ErrTokenRevoked       = errors.New("token has been revoked")
)

type AuthUsecase interface {
	Login(ctx context.Context, req *dto.LoginRequest) (*dto.TokenResponse, error)
	Logout(ctx context.Context, accessTokenID, refreshTokenID string) error
	RefreshToken(ctx context.Context, req *dto.RefreshTokenRequest) (*dto.TokenResponse, error)
	GetCurrentUser(ctx context.Context) (*dto.MeResponse, error)
}

type authUsecase struct {
	log          *logrus.Logger
	store        repository.PatientRecordStore
	profileRepo  repository.ProfileRepository
	sessionRepo  repository.SessionRepository
	auditService service.AuditService
	jwtService   *jwt.JWTService
	now          func() time.Time
}

func NewAuthUsecase(
	log *logrus.Logger,
	store repository.PatientRecordStore,
	profileRepo repository.ProfileRepository,
	sessionRepo repository.SessionRepository,
	auditService service.AuditService,
	jwtService *jwt.JWTService,
) AuthUsecase {
	return &authUsecase{
		log:          log,
		store:        store,
		profileRepo:  profileRepo,
		sessionRepo:  sessionRepo,
		auditService: auditService,
		jwtService:   jwtService,
		now:          time.Now,
	}
}

// Login issues tokens for the selected role. Receptionists are not checked
// against anything; patients must match a registered record.
func (u *authUsecase) Login(ctx context.Context, req *dto.LoginRequest) (*dto.TokenResponse, error) {
	var identity jwt.Identity

	switch entity.Role(req.Role) {
	case entity.RoleReceptionist:
		name, err := u.receptionistName(ctx, req)
		if err != nil {
			return nil, err
		}
		identity = jwt.Identity{Name: name, Role: req.Role}
	case entity.RolePatient:
		patient, err := u.findPatientAccount(ctx, req.Email, req.Mobile)
		if err != nil {
			return nil, err
		}
		identity = jwt.Identity{Name: patient.Name, Role: req.Role, PatientID: patient.ID}
	default:
		return nil, ErrInvalidRole
	}

	resp, err := u.issueTokens(ctx, identity)
	if err != nil {
		return nil, err
	}

	if err := u.auditService.LogCreate(ctx, identity.Role+":"+identity.Name, entity.AuditActionUserLogin, "session", identity.Role, nil); err != nil {
		u.log.Warnf("Failed to create audit log: %+v", err)
	}

	return resp, nil
}

// Logout revokes both sessions; clinic data is never touched
func (u *authUsecase) Logout(ctx context.Context, accessTokenID, refreshTokenID string) error {
	if err := u.sessionRepo.Delete(ctx, accessTokenID); err != nil {
		u.log.Warnf("Failed to delete access session: %+v", err)
		return err
	}

	if refreshTokenID != "" {
		if err := u.sessionRepo.Delete(ctx, refreshTokenID); err != nil {
			u.log.Warnf("Failed to delete refresh session: %+v", err)
			return err
		}
	}

	if err := u.auditService.LogDelete(ctx, middleware.GetActorFromContext(ctx), entity.AuditActionUserLogout, "session", accessTokenID, nil); err != nil {
		u.log.Warnf("Failed to create audit log: %+v", err)
	}

	return nil
}

func (u *authUsecase) RefreshToken(ctx context.Context, req *dto.RefreshTokenRequest) (*dto.TokenResponse, error) {
	claims, err := u.jwtService.ValidateToken(req.RefreshToken)
	if err != nil {
		return nil, ErrInvalidToken
	}

	if claims.TokenType != jwt.RefreshToken {
		return nil, ErrInvalidToken
	}

	session, err := u.sessionRepo.Find(ctx, claims.TokenID)
	if err != nil {
		u.log.Warnf("Failed to find refresh session: %+v", err)
		return nil, err
	}
	if session == nil || session.Expired(u.now()) {
		return nil, ErrTokenRevoked
	}

	// Refresh tokens are single use
	if err := u.sessionRepo.Delete(ctx, claims.TokenID); err != nil {
		u.log.Warnf("Failed to delete old refresh session: %+v", err)
		return nil, err
	}

	return u.issueTokens(ctx, claims.Identity())
}

func (u *authUsecase) GetCurrentUser(ctx context.Context) (*dto.MeResponse, error) {
	identity, ok := middleware.GetIdentityFromContext(ctx)
	if !ok {
		return nil, ErrIdentityNotInContext
	}

	resp := &dto.MeResponse{
		Name:      identity.Name,
		Role:      identity.Role,
		PatientID: identity.PatientID,
	}

	if tokenID, ok := middleware.GetTokenIDFromContext(ctx); ok {
		session, err := u.sessionRepo.Find(ctx, tokenID)
		if err != nil {
			u.log.Warnf("Failed to find session: %+v", err)
			return nil, err
		}
		if session != nil {
			resp.ExpiresAt = session.ExpiresAt
		}
	}

	if identity.PatientID != 0 {
		patient, err := u.store.FindByID(ctx, identity.PatientID)
		if err != nil {
			u.log.Warnf("Failed to find patient %d: %+v", identity.PatientID, err)
			return nil, storeError(err)
		}
		if patient == nil {
			return nil, ErrPatientNotFound
		}
		resp.Patient = converter.PatientToResponse(patient)
	}

	return resp, nil
}

func (u *authUsecase) issueTokens(ctx context.Context, identity jwt.Identity) (*dto.TokenResponse, error) {
	accessToken, accessTokenID, err := u.jwtService.GenerateAccessToken(identity)
	if err != nil {
		u.log.Warnf("Failed to generate access token: %+v", err)
		return nil, err
	}

	refreshToken, refreshTokenID, err := u.jwtService.GenerateRefreshToken(identity)
	if err != nil {
		u.log.Warnf("Failed to generate refresh token: %+v", err)
		return nil, err
	}

	now := u.now()
	sessions := []*entity.Session{
		u.newSession(identity, accessTokenID, jwt.AccessToken, now.Add(u.jwtService.GetAccessExpiry())),
		u.newSession(identity, refreshTokenID, jwt.RefreshToken, now.Add(u.jwtService.GetRefreshExpiry())),
	}
	for _, session := range sessions {
		if err := u.sessionRepo.Save(ctx, session); err != nil {
			u.log.Warnf("Failed to store %s session: %+v", session.TokenType, err)
			return nil, err
		}
	}

	return &dto.TokenResponse{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		ExpiresIn:    int64(u.jwtService.GetAccessExpiry().Seconds()),
		Role:         identity.Role,
	}, nil
}

func (u *authUsecase) newSession(identity jwt.Identity, tokenID string, tokenType jwt.TokenType, expiresAt time.Time) *entity.Session {
	return &entity.Session{
		TokenID:   tokenID,
		TokenType: string(tokenType),
		Name:      identity.Name,
		Role:      entity.Role(identity.Role),
		PatientID: identity.PatientID,
		ExpiresAt: expiresAt,
	}
}

// receptionistName prefers the saved staff profile name over the login handle
func (u *authUsecase) receptionistName(ctx context.Context, req *dto.LoginRequest) (string, error) {
	profile, err := u.profileRepo.Get(ctx)
	if err != nil {
		u.log.Warnf("Failed to load profile: %+v", err)
		return "", err
	}
	if profile != nil && profile.Name != "" {
		return profile.Name, nil
	}
	if req.Email != "" {
		return req.Email, nil
	}
	return req.Mobile, nil
}

func (u *authUsecase) findPatientAccount(ctx context.Context, email, mobile string) (*entity.Patient, error) {
	patients, err := u.store.LoadAll(ctx)
	if err != nil {
		u.log.Warnf("Failed to load patients: %+v", err)
		return nil, storeError(err)
	}

	email = strings.TrimSpace(email)
	mobile = strings.TrimSpace(mobile)
	for i := range patients {
		p := &patients[i]
		if email != "" && strings.EqualFold(strings.TrimSpace(p.Email), email) {
			return p, nil
		}
		if mobile != "" && p.Mobile == mobile {
			return p, nil
		}
	}
	return nil, ErrInvalidCredentials
}
