package handler

import (
	"encoding/json"
	"net/http"
)

type contactCounter interface {
	Len() int
}

// Health reports whether the service has contacts to send to.
func Health(contacts contactCounter) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		status := "ok"
		code := http.StatusOK

		n := contacts.Len()
		if n == 0 {
			status = "degraded"
			code = http.StatusServiceUnavailable
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(code)
		_ = json.NewEncoder(w).Encode(map[string]any{"status": status, "contacts": n})
	}
}
