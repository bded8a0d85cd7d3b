package middleware

import (
	"net/http"
	"slices"

	"github.com/edvin/kitcatalog/internal/api/response"
)

// RequireRole rejects requests whose claims carry none of roles. It must run
// after Auth.
func RequireRole(roles ...string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			claims := GetClaims(r.Context())
			if claims == nil {
				response.WriteError(w, http.StatusUnauthorized, "not authenticated")
				return
			}
			if !slices.Contains(roles, claims.Role) {
				response.WriteError(w, http.StatusForbidden, "role "+claims.Role+" may not perform this action")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
