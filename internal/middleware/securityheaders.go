package middleware

import "net/http"

// SecurityHeaders sets the headers every JSON API response carries.
func SecurityHeaders(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		h := w.Header()
		h.Set("X-Content-Type-Options", "nosniff")
		h.Set("X-Frame-Options", "DENY")
		h.Set("Referrer-Policy", "no-referrer")
		// Responses echo recipient addresses and must not be cached.
		h.Set("Cache-Control", "no-store")
		next.ServeHTTP(w, r)
	})
}
