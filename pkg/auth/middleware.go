package auth

import (
	"net/http"
)

// userHeader carries the authenticated user id, set by the fronting auth
// layer after session validation. Authentication itself is an external
// collaborator; this service only consumes the resolved identity.
const userHeader = "X-Tide-User"

// RequireUser rejects requests without a resolved identity and stores the
// user id in the request context for downstream handlers.
func RequireUser(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		userID := r.Header.Get(userHeader)
		if userID == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}
		next.ServeHTTP(w, r.WithContext(WithUserID(r.Context(), userID)))
	})
}
