package middleware

import "net/http"

// LimitBody caps how many request body bytes next may read. Reads past the
// limit fail with *http.MaxBytesError.
func LimitBody(limit int64, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Body != nil {
			r.Body = http.MaxBytesReader(w, r.Body, limit)
		}
		next.ServeHTTP(w, r)
	})
}
