package middleware

import (
	"net/http"
)

// RequireRole wraps next so only identities holding one of the given roles
// get through. It must run inside a [Guard.Middleware] chain; a request with
// no injected identity is rejected outright.
func RequireRole(roles ...string) func(http.Handler) http.Handler {
	allowed := make(map[string]struct{}, len(roles))
	for _, role := range roles {
		allowed[role] = struct{}{}
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			identity, ok := IdentityFromContext(r.Context())
			if !ok || identity == nil {
				http.Error(w, "forbidden", http.StatusForbidden)
				return
			}
			if _, ok := allowed[identity.Rol]; !ok {
				http.Error(w, "forbidden", http.StatusForbidden)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
