package middleware

import (
	"context"
	"net/http"
	"strings"

	"emergency-referral/internal/domain/lifecycle"
	"emergency-referral/internal/service"
	"emergency-referral/pkg/jwt"
	"emergency-referral/pkg/response"
)

type contextKey string

const (
	TokenIDKey contextKey = "token_id"
	ActorKey   contextKey = "actor"
)

type AuthMiddleware struct {
	jwtService *jwt.JWTService
	tokenStore service.TokenStore
}

func NewAuthMiddleware(jwtService *jwt.JWTService, tokenStore service.TokenStore) *AuthMiddleware {
	return &AuthMiddleware{
		jwtService: jwtService,
		tokenStore: tokenStore,
	}
}

func (m *AuthMiddleware) Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		authHeader := r.Header.Get("Authorization")
		if authHeader == "" {
			response.Unauthorized(w, "Authorization header is required")
			return
		}

		ctx, ok := m.authenticate(w, r, authHeader)
		if !ok {
			return
		}
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// OptionalAuthenticate lets requests without credentials through as the
// anonymous actor. A malformed or revoked token is still rejected.
func (m *AuthMiddleware) OptionalAuthenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		authHeader := r.Header.Get("Authorization")
		if authHeader == "" {
			next.ServeHTTP(w, r.WithContext(WithActor(r.Context(), lifecycle.AnonymousActor())))
			return
		}

		ctx, ok := m.authenticate(w, r, authHeader)
		if !ok {
			return
		}
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func (m *AuthMiddleware) authenticate(w http.ResponseWriter, r *http.Request, authHeader string) (context.Context, bool) {
	// Extract token from "Bearer <token>"
	parts := strings.Split(authHeader, " ")
	if len(parts) != 2 || parts[0] != "Bearer" {
		response.Unauthorized(w, "Invalid authorization header format")
		return nil, false
	}

	claims, err := m.jwtService.ValidateToken(parts[1])
	if err != nil {
		response.Unauthorized(w, "Invalid or expired token")
		return nil, false
	}

	if claims.TokenType != jwt.AccessToken {
		response.Unauthorized(w, "Invalid token type")
		return nil, false
	}

	// Check if token exists in the store (not revoked)
	exists, err := m.tokenStore.Exists(r.Context(), service.TokenKindAccess, claims.UserID, claims.TokenID)
	if err != nil {
		response.InternalServerError(w, "Failed to validate token")
		return nil, false
	}
	if !exists {
		response.Unauthorized(w, "Token has been revoked")
		return nil, false
	}

	ctx := context.WithValue(r.Context(), TokenIDKey, claims.TokenID)
	ctx = WithActor(ctx, lifecycle.Actor{
		UserID: claims.UserID,
		Permissions: lifecycle.Permissions{
			CanTransferReferrals: claims.CanTransferReferrals,
			CanTriageReferrals:   claims.CanTriageReferrals,
			IsAdmin:              claims.IsAdmin,
		},
	})

	return ctx, true
}

// WithActor stores the lifecycle actor for use cases further down the request.
func WithActor(ctx context.Context, actor lifecycle.Actor) context.Context {
	return context.WithValue(ctx, ActorKey, actor)
}

// GetActorFromContext returns the request's actor, or the anonymous actor when none was set.
func GetActorFromContext(ctx context.Context) lifecycle.Actor {
	actor, ok := ctx.Value(ActorKey).(lifecycle.Actor)
	if !ok {
		return lifecycle.AnonymousActor()
	}
	return actor
}

// GetTokenIDFromContext extracts token ID from context
func GetTokenIDFromContext(ctx context.Context) (string, bool) {
	tokenID, ok := ctx.Value(TokenIDKey).(string)
	return tokenID, ok
}

