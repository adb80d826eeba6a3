package ollama

import (
	"context"
	"errors"
	"io"
	"net/http"
	"sort"
	"strings"
	"time"
)

// ErrNoCredential is wrapped in the ConnectionError returned when a
// cloud model is requested without a configured API key.
var ErrNoCredential = errors.New("no credential configured for cloud model")

// Options configures a Client.
type Options struct {
	BaseURL      string        // local backend, e.g. http://localhost:11434
	CloudBaseURL string        // authenticated remote backend
	APIKey       string        // empty disables cloud routing
	AuthScheme   string        // Authorization scheme, default "Bearer"
	Timeout      time.Duration // per-request timeout
	Retries      int           // retry attempts after the first
	KeepAlive    string        // keep_alive passed on generation calls
}

// Client is a typed client for the inference backend. It routes each
// call to the local or cloud endpoint based on the model name and hides
// backend instability behind bounded retries and typed errors.
type Client struct {
	exec      *Executor
	router    *Router
	keepAlive string
	caps      *capabilityCache
}

// New creates a Client.
func New(opts Options) *Client {
	if opts.Timeout <= 0 {
		opts.Timeout = 60 * time.Second
	}
	return &Client{
		exec:      NewExecutor(opts.Timeout, opts.Retries),
		router:    NewRouter(opts.BaseURL, opts.CloudBaseURL, opts.APIKey, opts.AuthScheme),
		keepAlive: opts.KeepAlive,
		caps:      newCapabilityCache(),
	}
}

// Router returns the client's endpoint router.
func (c *Client) Router() *Router { return c.router }

// ListModels returns the sorted, deduplicated list of model names on
// the local backend.
func (c *Client) ListModels(ctx context.Context) ([]string, error) {
	var result TagsResponse
	url := c.router.LocalBaseURL() + "/api/tags"
	if err := c.exec.DoJSON(ctx, http.MethodGet, url, nil, nil, &result); err != nil {
		return nil, err
	}

	seen := make(map[string]struct{}, len(result.Models))
	names := make([]string, 0, len(result.Models))
	for _, m := range result.Models {
		if m.Name == "" {
			continue
		}
		if _, ok := seen[m.Name]; ok {
			continue
		}
		seen[m.Name] = struct{}{}
		names = append(names, m.Name)
	}
	sort.Strings(names)
	return names, nil
}

// Chat sends a non-streaming conversational request and returns the
// reply text. An empty reply is a BackendError, never a success.
func (c *Client) Chat(ctx context.Context, req *ChatRequest) (string, error) {
	if err := c.checkRoutable(req.Model); err != nil {
		return "", err
	}
	req.Stream = false
	if req.KeepAlive == "" {
		req.KeepAlive = c.keepAlive
	}

	var result ChatResponse
	url := c.router.BaseURL(req.Model) + "/api/chat"
	if err := c.exec.DoJSON(ctx, http.MethodPost, url, c.router.AuthHeader(req.Model), req, &result); err != nil {
		return "", err
	}

	text := strings.TrimSpace(result.Message.Content)
	if text == "" {
		return "", &BackendError{Status: http.StatusOK, Detail: "empty response from backend"}
	}
	return text, nil
}

// Generate sends a non-streaming single-prompt request and returns the
// reply text. An empty reply is a BackendError, never a success.
func (c *Client) Generate(ctx context.Context, req *GenerateRequest) (string, error) {
	if err := c.checkRoutable(req.Model); err != nil {
		return "", err
	}
	req.Stream = false
	if req.KeepAlive == "" {
		req.KeepAlive = c.keepAlive
	}

	var result GenerateResponse
	url := c.router.BaseURL(req.Model) + "/api/generate"
	if err := c.exec.DoJSON(ctx, http.MethodPost, url, c.router.AuthHeader(req.Model), req, &result); err != nil {
		return "", err
	}

	text := strings.TrimSpace(result.Response)
	if text == "" {
		return "", &BackendError{Status: http.StatusOK, Detail: "empty response from backend"}
	}
	return text, nil
}

// Show returns the backend's introspection record for a model.
func (c *Client) Show(ctx context.Context, model string) (*ShowResponse, error) {
	if err := c.checkRoutable(model); err != nil {
		return nil, err
	}
	var result ShowResponse
	url := c.router.BaseURL(model) + "/api/show"
	err := c.exec.DoJSON(ctx, http.MethodPost, url, c.router.AuthHeader(model), &ShowRequest{Model: model}, &result)
	if err != nil {
		return nil, err
	}
	return &result, nil
}

// PullStream starts a streaming pull of the model into local storage
// and returns the raw progress stream. The caller must close it.
func (c *Client) PullStream(ctx context.Context, model string) (io.ReadCloser, error) {
	url := c.router.LocalBaseURL() + "/api/pull"
	return c.exec.DoStream(ctx, http.MethodPost, url, nil, &PullRequest{Model: model, Stream: true})
}

// Embeddings returns the embedding vector for the given prompt.
func (c *Client) Embeddings(ctx context.Context, model, prompt string) ([]float32, error) {
	if err := c.checkRoutable(model); err != nil {
		return nil, err
	}
	var result EmbeddingsResponse
	url := c.router.BaseURL(model) + "/api/embeddings"
	err := c.exec.DoJSON(ctx, http.MethodPost, url, c.router.AuthHeader(model), &EmbeddingsRequest{Model: model, Prompt: prompt}, &result)
	if err != nil {
		return nil, err
	}
	if len(result.Embedding) == 0 {
		return nil, &BackendError{Status: http.StatusOK, Detail: "empty embedding from backend"}
	}

	vec := make([]float32, len(result.Embedding))
	for i, v := range result.Embedding {
		vec[i] = float32(v)
	}
	return vec, nil
}

func (c *Client) checkRoutable(model string) error {
	if c.router.CanRoute(model) {
		return nil
	}
	return &ConnectionError{URL: c.router.BaseURL(model), Err: ErrNoCredential}
}
