package auth

import (
	"context"
	"net/http"

	"github.com/go-chi/jwtauth"
	"github.com/go-chi/render"
)

// Verifier returns the middleware that extracts and parses the bearer token
// from incoming requests.
func (s *Service) Verifier() func(http.Handler) http.Handler {
	return jwtauth.Verifier(s.tokenAuth)
}

// RequireAdmin rejects requests whose token is missing, invalid, expired,
// or not carrying the admin role. Mount after Verifier.
func RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token, claims, err := jwtauth.FromContext(r.Context())
		if err != nil || token == nil {
			render.Status(r, http.StatusUnauthorized)
			render.JSON(w, r, map[string]string{"message": "authentication required"})
			return
		}

		if role, _ := claims["role"].(string); role != RoleAdmin {
			render.Status(r, http.StatusUnauthorized)
			render.JSON(w, r, map[string]string{"message": "authentication required"})
			return
		}

		next.ServeHTTP(w, r)
	})
}

// Principal returns the acting identity recorded on mutations: the email
// claim of the verified token, or "system" when no identity is present.
func Principal(ctx context.Context) string {
	_, claims, err := jwtauth.FromContext(ctx)
	if err != nil {
		return "system"
	}
	if email, _ := claims["email"].(string); email != "" {
		return email
	}
	return "system"
}
