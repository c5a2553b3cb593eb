package api

import (
	"net/http"
)

// recoverer converts panics that escaped the request logger into a JSON 500.
// The ERROR record (with stack) was already emitted by the request logger,
// so nothing is logged here.
func recoverer(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rvr := recover(); rvr != nil {
				if rvr == http.ErrAbortHandler {
					panic(rvr)
				}
				respondError(w, http.StatusInternalServerError, "internal server error")
			}
		}()

		next.ServeHTTP(w, r)
	})
}
