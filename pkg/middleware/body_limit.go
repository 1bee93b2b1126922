package middleware

import (
	"net/http"
)

// MaxBodySize caps the request body. Reading past the limit fails with
// *http.MaxBytesError. A non positive limit disables the cap.
func MaxBodySize(limit int64) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if limit <= 0 {
			return next
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			r.Body = http.MaxBytesReader(w, r.Body, limit)
			next.ServeHTTP(w, r)
		})
	}
}
