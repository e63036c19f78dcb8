package usecase

import (
	"context"
	"testing"
	"time"

	"mediflow/config"
	"mediflow/internal/delivery/dto"
	"mediflow/internal/delivery/http/middleware"
	"mediflow/internal/domain/entity"
	"mediflow/internal/domain/repository"
	repoImpl "mediflow/internal/repository"
	"mediflow/pkg/jwt"
)

type authFixture struct {
	env         *testEnv
	uc          AuthUsecase
	jwtService  *jwt.JWTService
	profileRepo repository.ProfileRepository
	sessionRepo repository.SessionRepository
}

func newAuthFixture(t *testing.T) *authFixture {
	t.Helper()
	env := newTestEnv(t)
	env.seed(t, seedPatient(5, "Meera", "9811111111", "2025-03-14", "10:00 AM", entity.PatientStatusPending))

	p, err := env.store.UpdatePatient(context.Background(), 5, func(p *entity.Patient) error {
		p.Email = "Meera@Example.com"
		return nil
	})
	if err != nil || p == nil {
		t.Fatalf("failed to set email: %v", err)
	}

	jwtService := jwt.NewJWTService(config.JWTConfig{
		Secret:        "test-secret",
		AccessExpiry:  time.Minute,
		RefreshExpiry: time.Hour,
	})
	profileRepo := repoImpl.NewProfileRepository(env.kv, env.locks, newTestLogger())
	sessionRepo := repoImpl.NewSessionRepository(env.kv, newTestLogger())

	return &authFixture{
		env:         env,
		uc:          NewAuthUsecase(newTestLogger(), env.store, profileRepo, sessionRepo, env.audit, jwtService),
		jwtService:  jwtService,
		profileRepo: profileRepo,
		sessionRepo: sessionRepo,
	}
}

// authenticated builds the context the auth middleware would hand to a handler
func (f *authFixture) authenticated(t *testing.T, accessToken string) context.Context {
	t.Helper()
	claims, err := f.jwtService.ValidateToken(accessToken)
	if err != nil {
		t.Fatalf("invalid access token: %v", err)
	}
	ctx := context.WithValue(context.Background(), middleware.IdentityKey, claims.Identity())
	return context.WithValue(ctx, middleware.TokenIDKey, claims.TokenID)
}

func TestAuthUsecase_PatientLogin(t *testing.T) {
	f := newAuthFixture(t)
	ctx := context.Background()

	tests := []struct {
		name    string
		req     dto.LoginRequest
		wantErr error
	}{
		{name: "email ignores case", req: dto.LoginRequest{Email: "meera@example.com", Password: "x", Role: "patient"}},
		{name: "mobile", req: dto.LoginRequest{Mobile: "9811111111", Password: "x", Role: "patient"}},
		{name: "unknown email", req: dto.LoginRequest{Email: "nobody@example.com", Password: "x", Role: "patient"}, wantErr: ErrInvalidCredentials},
		{name: "unknown mobile", req: dto.LoginRequest{Mobile: "9000000000", Password: "x", Role: "patient"}, wantErr: ErrInvalidCredentials},
		{name: "unknown role", req: dto.LoginRequest{Email: "meera@example.com", Password: "x", Role: "doctor"}, wantErr: ErrInvalidRole},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tokens, err := f.uc.Login(ctx, &tt.req)
			if err != tt.wantErr {
				t.Fatalf("expected %v, got %v", tt.wantErr, err)
			}
			if tt.wantErr != nil {
				return
			}

			claims, err := f.jwtService.ValidateToken(tokens.AccessToken)
			if err != nil {
				t.Fatalf("invalid access token: %v", err)
			}
			if claims.PatientID != 5 || claims.Name != "Meera" || tokens.Role != "patient" {
				t.Errorf("unexpected claims %+v", claims)
			}
		})
	}
}

func TestAuthUsecase_ReceptionistLogin(t *testing.T) {
	f := newAuthFixture(t)
	ctx := context.Background()

	tokens, err := f.uc.Login(ctx, &dto.LoginRequest{Mobile: "9000000000", Password: "x", Role: "receptionist"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	claims, _ := f.jwtService.ValidateToken(tokens.AccessToken)
	if claims.Name != "9000000000" || claims.PatientID != 0 {
		t.Errorf("expected the mobile as name before a profile exists, got %+v", claims)
	}

	if err := f.profileRepo.Save(ctx, &entity.StaffProfile{Name: "Anita", Mobile: "9000000000", Email: "anita@clinic.in"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	tokens, err = f.uc.Login(ctx, &dto.LoginRequest{Email: "front@clinic.in", Password: "x", Role: "receptionist"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	claims, _ = f.jwtService.ValidateToken(tokens.AccessToken)
	if claims.Name != "Anita" {
		t.Errorf("expected the profile name, got %s", claims.Name)
	}

	if got := f.env.audit.actions(); len(got) != 2 || got[0] != entity.AuditActionUserLogin {
		t.Errorf("expected two login audit entries, got %v", got)
	}
}

func TestAuthUsecase_RefreshTokenIsSingleUse(t *testing.T) {
	f := newAuthFixture(t)
	ctx := context.Background()

	tokens, err := f.uc.Login(ctx, &dto.LoginRequest{Mobile: "9811111111", Password: "x", Role: "patient"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	refreshed, err := f.uc.RefreshToken(ctx, &dto.RefreshTokenRequest{RefreshToken: tokens.RefreshToken})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if refreshed.AccessToken == tokens.AccessToken {
		t.Error("expected a new access token")
	}

	if _, err := f.uc.RefreshToken(ctx, &dto.RefreshTokenRequest{RefreshToken: tokens.RefreshToken}); err != ErrTokenRevoked {
		t.Errorf("expected ErrTokenRevoked on reuse, got %v", err)
	}
	if _, err := f.uc.RefreshToken(ctx, &dto.RefreshTokenRequest{RefreshToken: refreshed.AccessToken}); err != ErrInvalidToken {
		t.Errorf("expected ErrInvalidToken for an access token, got %v", err)
	}
	if _, err := f.uc.RefreshToken(ctx, &dto.RefreshTokenRequest{RefreshToken: "garbage"}); err != ErrInvalidToken {
		t.Errorf("expected ErrInvalidToken, got %v", err)
	}
}

func TestAuthUsecase_LogoutKeepsClinicData(t *testing.T) {
	f := newAuthFixture(t)

	tokens, err := f.uc.Login(context.Background(), &dto.LoginRequest{Mobile: "9811111111", Password: "x", Role: "patient"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	ctx := f.authenticated(t, tokens.AccessToken)
	accessTokenID, _ := middleware.GetTokenIDFromContext(ctx)
	refreshClaims, _ := f.jwtService.ValidateToken(tokens.RefreshToken)

	if err := f.uc.Logout(ctx, accessTokenID, refreshClaims.TokenID); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	for _, id := range []string{accessTokenID, refreshClaims.TokenID} {
		if session, _ := f.sessionRepo.Find(ctx, id); session != nil {
			t.Errorf("expected session %s to be revoked", id)
		}
	}

	patients, err := f.env.store.LoadAll(ctx)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(patients) != 1 {
		t.Errorf("expected clinic records to survive logout, got %d patients", len(patients))
	}
}

func TestAuthUsecase_GetCurrentUser(t *testing.T) {
	f := newAuthFixture(t)

	tokens, err := f.uc.Login(context.Background(), &dto.LoginRequest{Email: "meera@example.com", Password: "x", Role: "patient"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	me, err := f.uc.GetCurrentUser(f.authenticated(t, tokens.AccessToken))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if me.Patient == nil || me.Patient.ID != 5 {
		t.Errorf("expected the patient record, got %+v", me.Patient)
	}
	if me.ExpiresAt.IsZero() {
		t.Error("expected the session expiry")
	}

	if _, err := f.uc.GetCurrentUser(context.Background()); err != ErrIdentityNotInContext {
		t.Errorf("expected ErrIdentityNotInContext, got %v", err)
	}
}

type countingSessionRepo struct {
	repository.SessionRepository
	sweeps int
}

func (r *countingSessionRepo) DeleteExpired(ctx context.Context, now time.Time) (int, error) {
	r.sweeps++
	return r.SessionRepository.DeleteExpired(ctx, now)
}

func TestAuthUsecase_LoginLeavesSweepingToBackground(t *testing.T) {
	f := newAuthFixture(t)
	sessions := &countingSessionRepo{SessionRepository: f.sessionRepo}
	uc := NewAuthUsecase(newTestLogger(), f.env.store, f.profileRepo, sessions, f.env.audit, f.jwtService)

	for i := 0; i < 3; i++ {
		if _, err := uc.Login(context.Background(), &dto.LoginRequest{Mobile: "9811111111", Password: "x", Role: "patient"}); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}
	if sessions.sweeps != 0 {
		t.Errorf("expected login not to scan sessions, got %d sweeps", sessions.sweeps)
	}
}
