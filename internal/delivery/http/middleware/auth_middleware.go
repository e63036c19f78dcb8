package middleware

import (
	"context"
	"net/http"
	"strings"
	"time"

	"mediflow/internal/domain/repository"
	"mediflow/pkg/jwt"
	"mediflow/pkg/response"

	"github.com/sirupsen/logrus"
)

type contextKey string

const (
	IdentityKey contextKey = "identity"
	TokenIDKey  contextKey = "token_id"
)

type AuthMiddleware struct {
	jwtService  *jwt.JWTService
	sessionRepo repository.SessionRepository
	log         *logrus.Logger
}

func NewAuthMiddleware(jwtService *jwt.JWTService, sessionRepo repository.SessionRepository, log *logrus.Logger) *AuthMiddleware {
	return &AuthMiddleware{
		jwtService:  jwtService,
		sessionRepo: sessionRepo,
		log:         log,
	}
}

func (m *AuthMiddleware) Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		authHeader := r.Header.Get("Authorization")
		if authHeader == "" {
			response.Unauthorized(w, "Authorization header is required")
			return
		}

		// Extract token from "Bearer <token>"
		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			response.Unauthorized(w, "Invalid authorization header format")
			return
		}

		claims, err := m.jwtService.ValidateToken(parts[1])
		if err != nil {
			response.Unauthorized(w, "Invalid or expired token")
			return
		}

		if claims.TokenType != jwt.AccessToken {
			response.Unauthorized(w, "Invalid token type")
			return
		}

		// A token is live only while its session exists
		session, err := m.sessionRepo.Find(r.Context(), claims.TokenID)
		if err != nil {
			m.log.Warnf("Failed to look up session: %+v", err)
			response.InternalServerError(w, "Failed to validate token")
			return
		}
		if session == nil || session.Expired(time.Now()) {
			response.Unauthorized(w, "Token has been revoked")
			return
		}

		ctx := context.WithValue(r.Context(), IdentityKey, claims.Identity())
		ctx = context.WithValue(ctx, TokenIDKey, claims.TokenID)

		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// GetIdentityFromContext extracts the caller identity from context
func GetIdentityFromContext(ctx context.Context) (jwt.Identity, bool) {
	identity, ok := ctx.Value(IdentityKey).(jwt.Identity)
	return identity, ok
}

// GetActorFromContext names the caller for audit entries
func GetActorFromContext(ctx context.Context) string {
	identity, ok := GetIdentityFromContext(ctx)
	if !ok {
		return ""
	}
	return identity.Role + ":" + identity.Name
}

// GetTokenIDFromContext extracts token ID from context
func GetTokenIDFromContext(ctx context.Context) (string, bool) {
	tokenID, ok := ctx.Value(TokenIDKey).(string)
	return tokenID, ok
}
