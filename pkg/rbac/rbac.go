// Package rbac provides role-based access control middleware.
// Roles in AgriHaat are "buyer", "farmer", and "admin".
package rbac

import (
	"net/http"

	"github.com/binodghimire/agrihaat/pkg/middleware"
	"github.com/binodghimire/agrihaat/pkg/response"
)

// HasRole returns middleware that allows access only to users with one of
// the given roles. Requires middleware.Auth to have already run.
func HasRole(roles ...string) func(http.Handler) http.Handler {
	allowed := make(map[string]bool, len(roles))
	for _, r := range roles {
		allowed[r] = true
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			role, ok := middleware.RoleFromCtx(r.Context())
			if !ok || !allowed[role] {
				response.Forbidden(w)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// FarmerOnly restricts a route to sellers.
func FarmerOnly(next http.Handler) http.Handler {
	return HasRole("farmer", "admin")(next)
}

// AdminOnly restricts a route to the back office.
func AdminOnly(next http.Handler) http.Handler {
	return HasRole("admin")(next)
}
