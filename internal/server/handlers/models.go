package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/ThatCatDev/modelgate/internal/ollama"
	"github.com/ThatCatDev/modelgate/pkg/api"
)

// ModelsHandler handles GET /v1/models.
type ModelsHandler struct {
	Client *ollama.Client
}

func (h *ModelsHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	models, err := h.Client.ListModels(r.Context())
	if err != nil {
		writeGatewayError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(api.ModelListResponse{Models: models})
}
