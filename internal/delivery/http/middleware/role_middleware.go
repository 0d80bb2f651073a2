package middleware

import (
	"net/http"

	"emergency-referral/internal/domain/lifecycle"
	"emergency-referral/pkg/response"
)

// RequirePermission creates a middleware that checks the authenticated actor
// against a capability predicate. Actor is read from context (set by AuthMiddleware).
func RequirePermission(allowed func(lifecycle.Actor) bool) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			actor := GetActorFromContext(r.Context())
			if actor.Anonymous {
				response.Unauthorized(w, "Authentication required")
				return
			}

			if !allowed(actor) {
				response.Forbidden(w, "You don't have permission to access this resource")
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// RequireAdmin is a convenience middleware for admin-only endpoints
func RequireAdmin(next http.Handler) http.Handler {
	return RequirePermission(func(a lifecycle.Actor) bool {
		return a.Permissions.IsAdmin
	})(next)
}

// RequireWriteAccess admits any staff member holding a capability flag
func RequireWriteAccess(next http.Handler) http.Handler {
	return RequirePermission(lifecycle.Actor.HasWriteAccess)(next)
}
