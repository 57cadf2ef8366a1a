package middleware

import (
	"log"
	"net/http"
	"runtime/debug"

	"facture-backend/pkg/utils"
)

// PanicRecovery converts handler panics into a 500 response so one bad
// request cannot take the server down
func PanicRecovery(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if err := recover(); err != nil {
				log.Printf("[Recover] Panic on %s %s: %v\n%s", r.Method, r.URL.Path, err, debug.Stack())
				utils.Error(w, http.StatusInternalServerError, "Internal server error")
			}
		}()

		next.ServeHTTP(w, r)
	})
}
