package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/ThatCatDev/modelgate/internal/ollama"
	"github.com/ThatCatDev/modelgate/pkg/api"
)

func writeError(w http.ResponseWriter, status int, code, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(api.ErrorResponse{
		Error: api.ErrorDetail{
			Message: message,
			Type:    "error",
			Code:    code,
		},
	})
}

// writeGatewayError maps the three gateway error kinds onto HTTP
// statuses for API callers.
func writeGatewayError(w http.ResponseWriter, err error) {
	var timeoutErr *ollama.TimeoutError
	var connErr *ollama.ConnectionError
	var backendErr *ollama.BackendError

	switch {
	case errors.As(err, &timeoutErr):
		writeError(w, http.StatusGatewayTimeout, "backend_timeout", err.Error())
	case errors.As(err, &connErr):
		writeError(w, http.StatusBadGateway, "backend_unreachable", err.Error())
	case errors.As(err, &backendErr):
		writeError(w, http.StatusBadGateway, "backend_error", err.Error())
	default:
		writeError(w, http.StatusInternalServerError, "internal_error", err.Error())
	}
}
