// Package orchestrator selects the best locally available model for a
// request.
//
// Task types:
//   - vision:  the request carries images and needs a vision model
//   - code:    the prompt contains programming keywords
//   - general: everything else; the preferred model is kept unchanged
package orchestrator

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/ThatCatDev/modelgate/internal/ollama"
)

// Task classifies a request purely from its shape. Never persisted.
type Task string

const (
	TaskVision  Task = "vision"
	TaskCode    Task = "code"
	TaskGeneral Task = "general"
)

// inventoryTTL is how long a fetched model list stays valid before the
// next selection refreshes it.
const inventoryTTL = 60 * time.Second

// Decision is the result of one model selection. Returned to the
// caller, never stored.
type Decision struct {
	SelectedModel      string
	Changed            bool
	SuitableModelFound bool
}

// Backend is the slice of the gateway client the orchestrator consumes.
type Backend interface {
	ListModels(ctx context.Context) ([]string, error)
	SupportsVision(ctx context.Context, model string) ollama.Vision
}

// Orchestrator picks models using a TTL-cached inventory snapshot and
// the client's capability cache. Safe for concurrent use.
type Orchestrator struct {
	backend Backend

	mu         sync.Mutex
	inventory  []string
	fetchedAt  time.Time
	refreshing bool
}

// New creates an Orchestrator on top of the given backend client.
func New(backend Backend) *Orchestrator {
	return &Orchestrator{backend: backend}
}

// DetectTask infers the task type from the request shape. Attachments
// force vision; otherwise a case-insensitive multilingual keyword match
// yields code; everything else is general.
func (o *Orchestrator) DetectTask(prompt string, hasAttachments bool) Task {
	if hasAttachments {
		return TaskVision
	}
	if isCodePrompt(prompt) {
		return TaskCode
	}
	return TaskGeneral
}

// SelectModel returns the model that should serve a request of the
// given task, starting from the user's preferred model.
//
// SuitableModelFound is false when the task demanded a capability and
// neither the preferred model nor any inventory entry provides it. For
// vision that is a hard failure condition for the caller; for code it
// is a soft one (proceed, optionally notify).
func (o *Orchestrator) SelectModel(ctx context.Context, task Task, preferred string) Decision {
	if task == TaskGeneral {
		return Decision{SelectedModel: preferred, SuitableModelFound: true}
	}

	models := o.models(ctx)

	switch task {
	case TaskVision:
		if o.backend.SupportsVision(ctx, preferred) == ollama.VisionYes {
			return Decision{SelectedModel: preferred, SuitableModelFound: true}
		}
		for _, model := range models {
			if model == preferred {
				continue
			}
			if o.backend.SupportsVision(ctx, model) == ollama.VisionYes {
				log.Printf("orchestrator vision selected=%s preferred=%s", model, preferred)
				return Decision{SelectedModel: model, Changed: true, SuitableModelFound: true}
			}
		}
		log.Printf("orchestrator vision no_vision_model preferred=%s available=%d", preferred, len(models))
		return Decision{SelectedModel: preferred}

	case TaskCode:
		if isCodeModel(preferred) {
			return Decision{SelectedModel: preferred, SuitableModelFound: true}
		}
		for _, model := range models {
			if isCodeModel(model) {
				log.Printf("orchestrator code selected=%s preferred=%s", model, preferred)
				return Decision{SelectedModel: model, Changed: true, SuitableModelFound: true}
			}
		}
		log.Printf("orchestrator code no_code_model preferred=%s", preferred)
		return Decision{SelectedModel: preferred}
	}

	return Decision{SelectedModel: preferred, SuitableModelFound: true}
}

// models returns the cached inventory, refreshing it when the TTL has
// expired. A failed refresh keeps serving the previous snapshot (or an
// empty list when none exists yet) and logs the failure; selection
// must not crash because the backend is momentarily unreachable.
//
// The backend call happens outside the mutex: at most one caller
// refreshes at a time and everyone else is served the current snapshot
// immediately, so a slow or unreachable backend never queues selection
// behind the lock.
func (o *Orchestrator) models(ctx context.Context) []string {
	o.mu.Lock()
	fresh := time.Since(o.fetchedAt) < inventoryTTL && len(o.inventory) > 0
	if fresh || o.refreshing {
		snapshot := o.inventory
		o.mu.Unlock()
		return snapshot
	}
	o.refreshing = true
	o.mu.Unlock()

	models, err := o.backend.ListModels(ctx)

	o.mu.Lock()
	defer o.mu.Unlock()
	o.refreshing = false
	if err != nil {
		log.Printf("orchestrator inventory refresh failed error=%v", err)
		return o.inventory
	}
	o.inventory = models
	o.fetchedAt = time.Now()
	return o.inventory
}
