package server

import (
	"log"
	"net/http"

	"github.com/ThatCatDev/modelgate/internal/server/handlers"
)

func (s *Server) registerRoutes(mux *http.ServeMux) {
	// Health
	mux.Handle("GET /health", &handlers.HealthHandler{BackendURL: s.cfg.BaseURL})

	// Inventory
	modelsHandler := &handlers.ModelsHandler{Client: s.client}
	mux.Handle("GET /v1/models", modelsHandler)

	// Orchestrated generation
	chat := &handlers.ChatHandler{
		Client:       s.client,
		Orchestrator: s.orch,
		DefaultModel: s.cfg.DefaultModel,
	}
	mux.Handle("POST /v1/chat", chat)

	// Background pulls with SSE progress
	pull := &handlers.PullHandler{Pulls: s.pulls}
	mux.HandleFunc("POST /api/pull", pull.Start)
	mux.HandleFunc("DELETE /api/pull/{model}", pull.Cancel)

	// Catalog browsing and search
	cat := &handlers.CatalogHandler{
		ListingURL: s.cfg.CatalogURL,
		Index:      s.index,
	}
	mux.Handle("GET /v1/catalog", cat)
}

func withLogging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		log.Printf("%s %s", r.Method, r.URL.Path)
		next.ServeHTTP(w, r)
	})
}

func withCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}
