package middleware

import (
	"encoding/json"
	"net/http"

	"creativesuite/internal/auth"
	"creativesuite/internal/store"
)

// Maintenance short-circuits every request while maintenance mode is on.
// Admins pass through so they can turn it back off.
func Maintenance(st *store.Store, svc *auth.Service) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if st.Settings().MaintenanceMode {
				if u, ok := svc.CurrentUser(); !ok || !u.IsAdmin() {
					w.Header().Set("Content-Type", "application/json")
					w.WriteHeader(http.StatusServiceUnavailable)
					_ = json.NewEncoder(w).Encode(map[string]string{
						"error": "The suite is down for maintenance. Please check back soon.",
					})
					return
				}
			}
			next.ServeHTTP(w, r)
		})
	}
}
