package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/ThatCatDev/modelgate/internal/download"
	"github.com/ThatCatDev/modelgate/pkg/api"
)

// PullHandler handles POST /api/pull (start + SSE progress stream) and
// DELETE /api/pull/{model} (cancel).
type PullHandler struct {
	Pulls *download.Coordinator
}

// Start begins a pull and streams progress as SSE events. The job is
// decoupled from this request: a disconnecting watcher does not stop
// the transfer.
func (h *PullHandler) Start(w http.ResponseWriter, r *http.Request) {
	var req api.PullRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "failed to parse request body: "+err.Error())
		return
	}
	if req.Model == "" {
		writeError(w, http.StatusBadRequest, "invalid_request", "model field is required")
		return
	}

	job, err := h.Pulls.Start(req.Model)
	if err != nil {
		if errors.Is(err, download.ErrPullInProgress) {
			writeError(w, http.StatusConflict, "pull_in_progress", err.Error())
			return
		}
		writeError(w, http.StatusInternalServerError, "pull_error", err.Error())
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	flusher, canFlush := w.(http.Flusher)
	if canFlush {
		flusher.Flush()
	}

	for {
		select {
		case <-r.Context().Done():
			// Watcher went away; the job keeps running in the background.
			return
		case progress, ok := <-job.Events():
			if !ok {
				h.writeTerminal(w, job)
				if canFlush {
					flusher.Flush()
				}
				return
			}
			writeSSE(w, api.PullEvent{
				Status:    progress.Status,
				Completed: progress.Completed,
				Total:     progress.Total,
				Percent:   progress.Percent,
			})
			if canFlush {
				flusher.Flush()
			}
		}
	}
}

// Cancel handles DELETE /api/pull/{model}.
func (h *PullHandler) Cancel(w http.ResponseWriter, r *http.Request) {
	model := r.PathValue("model")
	if model == "" {
		writeError(w, http.StatusBadRequest, "invalid_request", "model path value is required")
		return
	}

	if !h.Pulls.Cancel(model) {
		writeError(w, http.StatusNotFound, "no_active_pull", "no active pull for model "+model)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"status": "cancelling", "model": model})
}

func (h *PullHandler) writeTerminal(w http.ResponseWriter, job *download.Job) {
	state, err := job.State()
	event := api.PullEvent{Status: state.String()}
	if state == download.StateFailed && err != nil {
		event.Error = err.Error()
	}
	writeSSE(w, event)
}

func writeSSE(w http.ResponseWriter, event api.PullEvent) {
	data, err := json.Marshal(event)
	if err != nil {
		return
	}
	fmt.Fprintf(w, "data: %s\n\n", data)
}
