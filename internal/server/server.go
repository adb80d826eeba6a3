package server

import (
	"context"
	"fmt"
	"log"
	"net"
	"net/http"
	"time"

	"github.com/ThatCatDev/modelgate/internal/catalog"
	"github.com/ThatCatDev/modelgate/internal/config"
	"github.com/ThatCatDev/modelgate/internal/download"
	"github.com/ThatCatDev/modelgate/internal/ollama"
	"github.com/ThatCatDev/modelgate/internal/orchestrator"
)

// Server is the modelgate HTTP API server.
type Server struct {
	cfg    *config.Config
	http   *http.Server
	client *ollama.Client
	orch   *orchestrator.Orchestrator
	pulls  *download.Coordinator
	index  *catalog.Index
}

// New creates a new Server.
func New(cfg *config.Config, client *ollama.Client) *Server {
	s := &Server{
		cfg:    cfg,
		client: client,
		orch:   orchestrator.New(client),
		pulls:  download.NewCoordinator(client),
	}

	index, err := catalog.NewIndex(func(ctx context.Context, text string) ([]float32, error) {
		return client.Embeddings(ctx, cfg.EmbeddingModel, text)
	})
	if err != nil {
		log.Printf("catalog index disabled: %v", err)
	} else {
		s.index = index
	}

	mux := http.NewServeMux()
	s.registerRoutes(mux)

	s.http = &http.Server{
		Addr:    fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Handler: withLogging(withCORS(mux)),
	}

	return s
}

// Start starts the server and blocks until the context is cancelled.
func (s *Server) Start(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.http.Addr)
	if err != nil {
		return fmt.Errorf("listen: %w", err)
	}

	log.Printf("Modelgate listening on %s", s.http.Addr)
	log.Printf("Backend: %s", s.cfg.BaseURL)
	if s.cfg.APIKey != "" {
		log.Printf("Cloud backend: %s", s.cfg.CloudBaseURL)
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- s.http.Serve(ln)
	}()

	select {
	case <-ctx.Done():
		log.Println("Shutting down server...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := s.http.Shutdown(shutdownCtx); err != nil {
			log.Printf("Server shutdown error: %v", err)
		}
		return nil
	case err := <-errCh:
		return err
	}
}
