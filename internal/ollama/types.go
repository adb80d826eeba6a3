package ollama

import "encoding/json"

// Wire types for the inference backend API. Field names must match the
// backend exactly; both the local and the cloud endpoint speak the same
// schema.

// ChatMessage is one turn on the conversational endpoint. Images are
// base64-encoded blobs attached to the turn.
type ChatMessage struct {
	Role    string   `json:"role"`
	Content string   `json:"content"`
	Images  []string `json:"images,omitempty"`
}

// ChatRequest is the body for POST /api/chat.
type ChatRequest struct {
	Model     string         `json:"model"`
	Messages  []ChatMessage  `json:"messages"`
	Stream    bool           `json:"stream"`
	KeepAlive string         `json:"keep_alive,omitempty"`
	Format    string         `json:"format,omitempty"`
	Options   map[string]any `json:"options,omitempty"`
}

// ChatResponse is the body for a non-streaming POST /api/chat.
type ChatResponse struct {
	Message struct {
		Role    string `json:"role"`
		Content string `json:"content"`
	} `json:"message"`
}

// GenerateRequest is the body for POST /api/generate.
type GenerateRequest struct {
	Model     string   `json:"model"`
	Prompt    string   `json:"prompt"`
	Stream    bool     `json:"stream"`
	System    string   `json:"system,omitempty"`
	Images    []string `json:"images,omitempty"`
	KeepAlive string   `json:"keep_alive,omitempty"`
}

// GenerateResponse is the body for a non-streaming POST /api/generate.
type GenerateResponse struct {
	Response string `json:"response"`
}

// TagsResponse is the body for GET /api/tags.
type TagsResponse struct {
	Models []struct {
		Name string `json:"name"`
	} `json:"models"`
}

// ShowRequest is the body for POST /api/show.
type ShowRequest struct {
	Model string `json:"model"`
}

// ShowResponse is the body for POST /api/show. ModelInfo keys vary by
// model family, so values stay raw.
type ShowResponse struct {
	Capabilities []string                   `json:"capabilities,omitempty"`
	ModelInfo    map[string]json.RawMessage `json:"model_info,omitempty"`
}

// PullRequest is the body for POST /api/pull.
type PullRequest struct {
	Model  string `json:"model"`
	Stream bool   `json:"stream"`
}

// PullProgress is one line of the streamed POST /api/pull response.
type PullProgress struct {
	Status    string `json:"status"`
	Digest    string `json:"digest,omitempty"`
	Total     int64  `json:"total,omitempty"`
	Completed int64  `json:"completed,omitempty"`
	Error     string `json:"error,omitempty"`
}

// EmbeddingsRequest is the body for POST /api/embeddings.
type EmbeddingsRequest struct {
	Model  string `json:"model"`
	Prompt string `json:"prompt"`
}

// EmbeddingsResponse is the body for POST /api/embeddings.
type EmbeddingsResponse struct {
	Embedding []float64 `json:"embedding"`
}
