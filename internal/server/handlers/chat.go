package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/ThatCatDev/modelgate/internal/ollama"
	"github.com/ThatCatDev/modelgate/internal/orchestrator"
	"github.com/ThatCatDev/modelgate/pkg/api"
)

// ChatHandler handles POST /v1/chat: orchestrated generation with the
// single fallback hop.
type ChatHandler struct {
	Client       *ollama.Client
	Orchestrator *orchestrator.Orchestrator
	DefaultModel string
}

func (h *ChatHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	var req api.ChatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "failed to parse request body: "+err.Error())
		return
	}
	if req.Prompt == "" {
		writeError(w, http.StatusBadRequest, "invalid_request", "prompt field is required")
		return
	}

	model := req.Model
	if model == "" {
		model = h.DefaultModel
	}

	task := h.Orchestrator.DetectTask(req.Prompt, len(req.Images) > 0)
	decision := h.Orchestrator.SelectModel(r.Context(), task, model)

	// An image request with no vision-capable model anywhere is a hard
	// failure; it must not silently degrade to a text-only answer.
	if task == orchestrator.TaskVision && !decision.SuitableModelFound {
		writeError(w, http.StatusUnprocessableEntity, "no_vision_model",
			"no vision-capable model is available for this request")
		return
	}

	history := make([]ollama.Turn, 0, len(req.History))
	for _, turn := range req.History {
		history = append(history, ollama.Turn{Role: turn.Role, Content: turn.Content})
	}

	text, usedFallback, err := h.Client.ChatWithFallback(r.Context(), decision.SelectedModel, history, req.Prompt, req.Images)
	if err != nil {
		writeGatewayError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(api.ChatResponse{
		Model:        decision.SelectedModel,
		Response:     text,
		Task:         string(task),
		ModelChanged: decision.Changed,
		UsedFallback: usedFallback,
	})
}
