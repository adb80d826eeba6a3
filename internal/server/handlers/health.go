package handlers

import (
	"encoding/json"
	"net/http"
)

// HealthHandler handles GET /health. It reports the gateway itself, not
// the backend; backend reachability surfaces per-request as 502/504.
type HealthHandler struct {
	BackendURL string
}

func (h *HealthHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{
		"status":  "ok",
		"backend": h.BackendURL,
	})
}
